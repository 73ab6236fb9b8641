package mocks

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/user/timelapse/pkg/ports"
)

// ErrInjectedDecode is returned by a Clip configured with FailAt.
var ErrInjectedDecode = errors.New("mocks: injected decode failure")

// Clip describes a fake source video served by VideoReader.
type Clip struct {
	Info ports.StreamInfo

	// Frames is the number of frames actually decodable. It may differ from
	// Info.FrameCount to simulate containers that report inaccurate counts.
	Frames int

	// FailAt makes ReadFrame fail at this frame index when FailAtSet is true.
	FailAt    int
	FailAtSet bool

	// OpenErr makes Open fail for this clip.
	OpenErr error
}

// NewClip returns a clip of n frames whose reported count matches.
func NewClip(width, height int, fps float64, n int) *Clip {
	return &Clip{
		Info: ports.StreamInfo{
			Width:      width,
			Height:     height,
			FPS:        fps,
			FrameCount: n,
			Codec:      "mock",
		},
		Frames: n,
	}
}

// FailingAt returns the clip configured to fail decoding at frame index i.
func (c *Clip) FailingAt(i int) *Clip {
	c.FailAt = i
	c.FailAtSet = true
	return c
}

// VideoReader is a mock implementation of ports.VideoReader.
type VideoReader struct {
	mu    sync.Mutex
	clips map[string]*Clip

	OpenFunc func(ctx context.Context, path string) (ports.FrameSource, error)

	// Recorded calls for verification
	OpenCalls []string
	Sources   []*FrameSource
}

// NewVideoReader creates a mock reader serving the given clips by path.
func NewVideoReader(clips map[string]*Clip) *VideoReader {
	if clips == nil {
		clips = make(map[string]*Clip)
	}
	return &VideoReader{clips: clips}
}

func (m *VideoReader) Open(ctx context.Context, path string) (ports.FrameSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenCalls = append(m.OpenCalls, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	clip, ok := m.clips[path]
	if !ok {
		return nil, fmt.Errorf("mocks: no such file: %s", path)
	}
	if clip.OpenErr != nil {
		return nil, clip.OpenErr
	}
	src := &FrameSource{clip: clip}
	m.Sources = append(m.Sources, src)
	return src, nil
}

// OpenCount returns how many times path was opened.
func (m *VideoReader) OpenCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.OpenCalls {
		if p == path {
			n++
		}
	}
	return n
}

var _ ports.VideoReader = (*VideoReader)(nil)

// FrameSource is a mock implementation of ports.FrameSource.
// Every frame is a solid image whose red channel encodes the frame index
// modulo 256.
type FrameSource struct {
	clip   *Clip
	next   int
	Reads  int
	Closed bool
}

func (m *FrameSource) Info() ports.StreamInfo {
	return m.clip.Info
}

func (m *FrameSource) ReadFrame() (image.Image, error) {
	if m.Closed {
		return nil, errors.New("mocks: read after close")
	}
	if m.clip.FailAtSet && m.next == m.clip.FailAt {
		return nil, ErrInjectedDecode
	}
	if m.next >= m.clip.Frames {
		return nil, io.EOF
	}
	img := image.NewRGBA(image.Rect(0, 0, m.clip.Info.Width, m.clip.Info.Height))
	c := color.RGBA{R: uint8(m.next), A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = c.R, c.A
	}
	m.next++
	m.Reads++
	return img, nil
}

func (m *FrameSource) Close() error {
	m.Closed = true
	return nil
}

var _ ports.FrameSource = (*FrameSource)(nil)

// VideoWriter is a mock implementation of ports.VideoWriter.
type VideoWriter struct {
	mu sync.Mutex

	CreateFunc     func(ctx context.Context, path string, format ports.OutputFormat) error
	WriteFrameFunc func(path string, index int, img image.Image) error
	CloseFunc      func(path string) error

	// Recorded calls for verification
	CreateCalls []CreateCall
	Sinks       []*FrameSink
}

// CreateCall records a call to Create.
type CreateCall struct {
	Path   string
	Format ports.OutputFormat
}

func (m *VideoWriter) Create(ctx context.Context, path string, format ports.OutputFormat) (ports.FrameSink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, CreateCall{Path: path, Format: format})
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, path, format); err != nil {
			return nil, err
		}
	}
	sink := &FrameSink{Path: path, writeFunc: m.WriteFrameFunc, closeFunc: m.CloseFunc}
	m.Sinks = append(m.Sinks, sink)
	return sink, nil
}

// SinkFor returns the last sink created for path, or nil.
func (m *VideoWriter) SinkFor(path string) *FrameSink {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Sinks) - 1; i >= 0; i-- {
		if m.Sinks[i].Path == path {
			return m.Sinks[i]
		}
	}
	return nil
}

var _ ports.VideoWriter = (*VideoWriter)(nil)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	Path      string
	writeFunc func(path string, index int, img image.Image) error
	closeFunc func(path string) error

	// FrameIDs holds the red channel of each written frame, which equals the
	// source frame index for frames produced by FrameSource.
	FrameIDs []int
	Closed   bool
}

func (m *FrameSink) WriteFrame(img image.Image) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(m.Path, len(m.FrameIDs), img); err != nil {
			return err
		}
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	m.FrameIDs = append(m.FrameIDs, int(r>>8))
	return nil
}

func (m *FrameSink) Close() error {
	m.Closed = true
	if m.closeFunc != nil {
		return m.closeFunc(m.Path)
	}
	return nil
}

var _ ports.FrameSink = (*FrameSink)(nil)
