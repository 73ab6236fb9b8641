// Package ffmpegdecoder implements ports.VideoReader by piping raw RGBA
// frames out of an ffmpeg subprocess.
package ffmpegdecoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/user/timelapse/pkg/adapters/ffmpegbin"
	"github.com/user/timelapse/pkg/adapters/mp4probe"
	"github.com/user/timelapse/pkg/ports"
)

var (
	ErrDecodeFailed  = errors.New("ffmpegdecoder: decode failed")
	ErrNoVideoStream = errors.New("ffmpegdecoder: no video stream")
)

// Decoder opens video files with ffmpeg.
type Decoder struct {
	locator *ffmpegbin.Locator
	logger  ports.Logger
}

// New creates a new Decoder.
func New(locator *ffmpegbin.Locator, logger ports.Logger) *Decoder {
	return &Decoder{
		locator: locator,
		logger:  logger.WithComponent("ffmpeg"),
	}
}

// Probe returns stream information for path. ISO-BMFF files are read
// natively; everything else, and incomplete native results, go through ffprobe.
func (d *Decoder) Probe(ctx context.Context, path string) (ports.StreamInfo, error) {
	if mp4probe.Supports(path) {
		info, err := mp4probe.ProbeFile(path)
		if err == nil && info.Width > 0 && info.Height > 0 && info.FPS > 0 {
			return info, nil
		}
		if err != nil {
			d.logger.Debug("Native probe of %s failed, using ffprobe: %s", path, err)
		}
	}
	return d.ffprobe(ctx, path)
}

// Open probes path and starts an ffmpeg process decoding its first video stream.
func (d *Decoder) Open(ctx context.Context, path string) (ports.FrameSource, error) {
	info, err := d.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	ffmpegPath, err := d.locator.FFmpeg()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-v", "error",
		"-nostdin",
		"-noautorotate",
		"-i", path,
		"-map", "0:v:0",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	src := &source{info: info, cmd: cmd, stdout: stdout, path: path}
	cmd.Stderr = &src.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	d.logger.Debug("Decoding %s (%s, %dx%d)", path, info.Codec, info.Width, info.Height)

	return src, nil
}

// source streams frames from a running ffmpeg process.
type source struct {
	info   ports.StreamInfo
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	path   string

	mu      sync.Mutex
	done    bool
	waitErr error
}

func (s *source) Info() ports.StreamInfo {
	return s.info
}

func (s *source) ReadFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil, io.EOF
	}

	frameSize := s.info.Width * s.info.Height * 4
	buf := make([]byte, frameSize)
	n, err := io.ReadFull(s.stdout, buf)
	switch {
	case err == nil:
		return &image.RGBA{
			Pix:    buf,
			Stride: s.info.Width * 4,
			Rect:   image.Rect(0, 0, s.info.Width, s.info.Height),
		}, nil
	case errors.Is(err, io.EOF):
		if waitErr := s.wait(); waitErr != nil {
			return nil, s.failure(waitErr)
		}
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.wait()
		return nil, fmt.Errorf("%w: truncated frame (%d of %d bytes)", ErrDecodeFailed, n, frameSize)
	default:
		s.wait()
		return nil, s.failure(err)
	}
}

// Close stops ffmpeg if it is still running.
func (s *source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil
	}
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.wait()
	return nil
}

func (s *source) wait() error {
	if !s.done {
		s.done = true
		s.waitErr = s.cmd.Wait()
	}
	return s.waitErr
}

func (s *source) failure(err error) error {
	msg := strings.TrimSpace(s.stderr.String())
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrDecodeFailed, s.path, err)
	}
	return fmt.Errorf("%w: %s: %v: %s", ErrDecodeFailed, s.path, err, msg)
}
