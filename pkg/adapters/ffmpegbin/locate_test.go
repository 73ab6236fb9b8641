package ffmpegbin

import (
	"errors"
	"testing"
)

func fakeLocator(files map[string]bool, env map[string]string, onPath map[string]string) *Locator {
	return &Locator{
		getenv: func(k string) string { return env[k] },
		lookPath: func(name string) (string, error) {
			if p, ok := onPath[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
		exists: func(p string) bool { return files[p] },
		goos:   "linux",
	}
}

func TestLocator_FFmpeg_Priority(t *testing.T) {
	files := map[string]bool{
		"/custom/ffmpeg":  true,
		"/env/ffmpeg":     true,
		"/usr/bin/ffmpeg": true,
	}
	env := map[string]string{"FFMPEG_PATH": "/env/ffmpeg"}
	onPath := map[string]string{"ffmpeg": "/path/ffmpeg"}

	l := fakeLocator(files, env, onPath)
	l.FFmpegPath = "/custom/ffmpeg"
	if got, _ := l.FFmpeg(); got != "/custom/ffmpeg" {
		t.Errorf("expected custom path, got %s", got)
	}

	l.FFmpegPath = ""
	if got, _ := l.FFmpeg(); got != "/env/ffmpeg" {
		t.Errorf("expected env path, got %s", got)
	}

	l = fakeLocator(files, nil, onPath)
	if got, _ := l.FFmpeg(); got != "/path/ffmpeg" {
		t.Errorf("expected PATH lookup, got %s", got)
	}

	l = fakeLocator(files, nil, nil)
	if got, _ := l.FFmpeg(); got != "/usr/bin/ffmpeg" {
		t.Errorf("expected common location, got %s", got)
	}
}

func TestLocator_FFmpeg_NotFound(t *testing.T) {
	l := fakeLocator(nil, nil, nil)
	if _, err := l.FFmpeg(); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
	if l.Available() {
		t.Error("expected ffmpeg to be unavailable")
	}

	l.FFmpegPath = "/missing/ffmpeg"
	if _, err := l.FFmpeg(); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound for missing custom path, got %v", err)
	}
}

func TestLocator_FFprobe_Sibling(t *testing.T) {
	files := map[string]bool{
		"/opt/ff/ffmpeg":  true,
		"/opt/ff/ffprobe": true,
	}
	onPath := map[string]string{"ffprobe": "/usr/bin/ffprobe"}

	l := fakeLocator(files, nil, onPath)
	l.FFmpegPath = "/opt/ff/ffmpeg"

	got, err := l.FFprobe()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/opt/ff/ffprobe" {
		t.Errorf("expected sibling ffprobe, got %s", got)
	}
}

func TestLocator_FFprobe_Env(t *testing.T) {
	files := map[string]bool{"/env/ffprobe": true}
	l := fakeLocator(files, map[string]string{"FFPROBE_PATH": "/env/ffprobe"}, nil)

	got, err := l.FFprobe()
	if err != nil || got != "/env/ffprobe" {
		t.Errorf("expected /env/ffprobe, got %s, %v", got, err)
	}

	l = fakeLocator(nil, nil, nil)
	if _, err := l.FFprobe(); !errors.Is(err, ErrFFprobeNotFound) {
		t.Errorf("expected ErrFFprobeNotFound, got %v", err)
	}
}

func TestLocator_Windows(t *testing.T) {
	l := fakeLocator(map[string]bool{`C:\ffmpeg\bin\ffmpeg.exe`: true}, nil, nil)
	l.goos = "windows"

	got, err := l.FFmpeg()
	if err != nil || got != `C:\ffmpeg\bin\ffmpeg.exe` {
		t.Errorf("expected windows common path, got %s, %v", got, err)
	}
}
