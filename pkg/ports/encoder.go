package ports

import (
	"context"
	"image"
)

// OutputFormat fixes the geometry and timing of an output stream.
type OutputFormat struct {
	Width  int
	Height int
	FPS    float64
}

// VideoWriter creates output containers.
type VideoWriter interface {
	// Create opens a new output file at path for the given format.
	// An existing file at path is overwritten.
	Create(ctx context.Context, path string, format OutputFormat) (FrameSink, error)
}

// FrameSink accepts frames for a single output container.
type FrameSink interface {
	// WriteFrame appends a frame. Frames with other dimensions are scaled to fit.
	WriteFrame(img image.Image) error

	// Close flushes pending data and finalizes the container.
	Close() error
}
