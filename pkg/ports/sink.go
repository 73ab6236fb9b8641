package ports

import (
	"image"
)

// DebugSink receives intermediate results for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveFrame stores a kept frame. source identifies the input file and
	// index is the frame's position in the source stream.
	SaveFrame(source string, index int, img image.Image) error
}
