// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/timelapse/pkg/ports"
)

// Sink discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

func (s *Sink) Enabled() bool {
	return false
}

func (s *Sink) SaveFrame(source string, index int, img image.Image) error {
	return nil
}

var _ ports.DebugSink = (*Sink)(nil)
