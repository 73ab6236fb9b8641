package mocks

import (
	"image"
	"sync"

	"github.com/user/timelapse/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	// Frames maps source path to the frame indices saved for it.
	Frames map[string][]int
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[string][]int),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveFrame(source string, index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[source] = append(m.Frames[source], index)
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                         { return false }
func (m *NullSink) SaveFrame(source string, index int, img image.Image) error { return nil }
