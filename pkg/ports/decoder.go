package ports

import (
	"context"
	"image"
	"time"
)

// StreamInfo describes the video stream of a source container.
// It is read once when the source is opened and never changes afterwards.
type StreamInfo struct {
	Width  int     // Frame width in pixels
	Height int     // Frame height in pixels
	FPS    float64 // Native frame rate

	// FrameCount is the frame count reported by the container.
	// It may be an estimate and must not be used to terminate decoding.
	FrameCount int

	Duration time.Duration
	Codec    string // Codec name or sample entry fourcc (e.g. "h264", "mp4v")
}

// VideoReader opens video files for sequential decoding.
type VideoReader interface {
	// Open probes the source and prepares it for decoding.
	Open(ctx context.Context, path string) (FrameSource, error)
}

// FrameSource yields decoded frames in decode order.
type FrameSource interface {
	// Info returns the stream information read at open time.
	Info() StreamInfo

	// ReadFrame decodes the next frame.
	// It returns io.EOF once no more frames are available.
	ReadFrame() (image.Image, error)

	// Close releases the underlying decoder.
	Close() error
}
