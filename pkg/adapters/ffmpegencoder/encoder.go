// Package ffmpegencoder implements ports.VideoWriter by piping raw RGBA
// frames into an ffmpeg subprocess that writes MPEG-4 Part 2 ("mp4v") video
// in an mp4 container.
package ffmpegencoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/user/timelapse/pkg/adapters/ffmpegbin"
	"github.com/user/timelapse/pkg/ports"
	"golang.org/x/image/draw"
)

var (
	// ErrNotInitialized is returned when a closed sink receives frames.
	ErrNotInitialized = errors.New("ffmpegencoder: sink is closed")
	// ErrEncodingFailed is returned when ffmpeg exits with an error.
	ErrEncodingFailed = errors.New("ffmpegencoder: encoding failed")
	// ErrInvalidFormat is returned for non-positive dimensions or frame rate.
	ErrInvalidFormat = errors.New("ffmpegencoder: invalid output format")
)

// quantizer is the fixed mpeg4 quality scale (1-31, lower is better).
const quantizer = 3

// Encoder creates mp4 files with ffmpeg.
type Encoder struct {
	locator *ffmpegbin.Locator
	logger  ports.Logger
}

// New creates a new Encoder.
func New(locator *ffmpegbin.Locator, logger ports.Logger) *Encoder {
	return &Encoder{
		locator: locator,
		logger:  logger.WithComponent("ffmpeg"),
	}
}

// Args returns the ffmpeg arguments used to write path.
func (e *Encoder) Args(path string, format ports.OutputFormat) []string {
	return []string{
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", format.Width, format.Height),
		"-r", strconv.FormatFloat(format.FPS, 'f', -1, 64),
		"-i", "pipe:0",
		"-an",
		"-c:v", "mpeg4",
		"-tag:v", "mp4v",
		"-q:v", strconv.Itoa(quantizer),
		"-pix_fmt", "yuv420p",
		"-f", "mp4",
		path,
	}
}

// Create starts an ffmpeg process writing to path.
func (e *Encoder) Create(ctx context.Context, path string, format ports.OutputFormat) (ports.FrameSink, error) {
	if format.Width <= 0 || format.Height <= 0 || format.FPS <= 0 {
		return nil, fmt.Errorf("%w: %dx%d at %v fps", ErrInvalidFormat, format.Width, format.Height, format.FPS)
	}

	ffmpegPath, err := e.locator.FFmpeg()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, e.Args(path, format)...)
	s := &sink{format: format, cmd: cmd, path: path}
	cmd.Stderr = &s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	s.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	e.logger.Debug("Encoding %s at %dx%d, %v fps", path, format.Width, format.Height, format.FPS)

	return s, nil
}

type sink struct {
	format ports.OutputFormat
	cmd    *exec.Cmd
	path   string

	mu     sync.Mutex
	stdin  io.WriteCloser
	stderr bytes.Buffer
	frame  *image.RGBA
	closed bool
}

func (s *sink) WriteFrame(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNotInitialized
	}

	if _, err := s.stdin.Write(s.pixels(img)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// pixels returns tightly packed RGBA bytes of the output size.
func (s *sink) pixels(img image.Image) []byte {
	w, h := s.format.Width, s.format.Height
	b := img.Bounds()

	if rgba, ok := img.(*image.RGBA); ok && b.Dx() == w && b.Dy() == h && rgba.Stride == w*4 {
		return rgba.Pix[:w*h*4]
	}

	if s.frame == nil {
		s.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(s.frame, s.frame.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(s.frame, s.frame.Bounds(), img, b, draw.Src, nil)
	}
	return s.frame.Pix
}

// Close flushes ffmpeg and waits for the container to be finalized.
func (s *sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrEncodingFailed, s.path, err, strings.TrimSpace(s.stderr.String()))
	}
	return nil
}

var _ ports.VideoWriter = (*Encoder)(nil)
