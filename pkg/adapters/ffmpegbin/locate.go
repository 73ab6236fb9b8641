// Package ffmpegbin locates the ffmpeg and ffprobe executables.
package ffmpegbin

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

var (
	ErrFFmpegNotFound  = errors.New("ffmpegbin: ffmpeg not found")
	ErrFFprobeNotFound = errors.New("ffmpegbin: ffprobe not found")
)

// Locator resolves tool paths.
// Priority: 1) explicit path, 2) environment variable, 3) next to ffmpeg
// (ffprobe only), 4) PATH, 5) common install locations.
type Locator struct {
	FFmpegPath  string
	FFprobePath string

	getenv   func(string) string
	lookPath func(string) (string, error)
	exists   func(string) bool
	goos     string
}

// NewLocator creates a Locator honoring the given explicit paths, which may be empty.
func NewLocator(ffmpegPath, ffprobePath string) *Locator {
	return &Locator{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		getenv:      os.Getenv,
		lookPath:    exec.LookPath,
		exists:      fileExists,
		goos:        runtime.GOOS,
	}
}

// FFmpeg returns the path of the ffmpeg executable.
func (l *Locator) FFmpeg() (string, error) {
	return l.find("ffmpeg", l.FFmpegPath, "FFMPEG_PATH", "", ErrFFmpegNotFound)
}

// FFprobe returns the path of the ffprobe executable.
func (l *Locator) FFprobe() (string, error) {
	sibling := ""
	if ffmpeg, err := l.FFmpeg(); err == nil {
		sibling = filepath.Join(filepath.Dir(ffmpeg), l.execName("ffprobe"))
	}
	return l.find("ffprobe", l.FFprobePath, "FFPROBE_PATH", sibling, ErrFFprobeNotFound)
}

// Available reports whether ffmpeg can be found.
func (l *Locator) Available() bool {
	_, err := l.FFmpeg()
	return err == nil
}

func (l *Locator) find(tool, custom, envKey, sibling string, notFound error) (string, error) {
	if custom != "" {
		if l.exists(custom) {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", notFound, custom)
	}

	if envPath := l.getenv(envKey); envPath != "" {
		if l.exists(envPath) {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: %s %s not found", notFound, envKey, envPath)
	}

	if sibling != "" && l.exists(sibling) {
		return sibling, nil
	}

	if path, err := l.lookPath(l.execName(tool)); err == nil {
		return path, nil
	}

	for _, p := range l.commonPaths(tool) {
		if l.exists(p) {
			return p, nil
		}
	}

	return "", notFound
}

func (l *Locator) execName(tool string) string {
	if l.goos == "windows" {
		return tool + ".exe"
	}
	return tool
}

func (l *Locator) commonPaths(tool string) []string {
	var dirs []string
	switch l.goos {
	case "windows":
		dirs = []string{`C:\ffmpeg\bin`, `C:\Program Files\ffmpeg\bin`, `C:\Program Files (x86)\ffmpeg\bin`}
	case "darwin":
		dirs = []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}
	default:
		dirs = []string{"/usr/bin", "/usr/local/bin", "/opt/homebrew/bin", "/snap/bin"}
	}

	paths := make([]string, len(dirs))
	for i, d := range dirs {
		if l.goos == "windows" {
			paths[i] = d + `\` + l.execName(tool)
		} else {
			paths[i] = d + "/" + tool
		}
	}
	return paths
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
