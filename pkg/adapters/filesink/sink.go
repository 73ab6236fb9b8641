// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/timelapse/pkg/ports"
)

const (
	jpegQuality    = 85
	thumbnailWidth = 480
)

// Sink saves every Nth kept frame as an annotated JPEG under
// <baseDir>/<NNN>-<source stem>/frame-<index>.jpg, where NNN numbers
// sources in the order they are first seen.
type Sink struct {
	baseDir  string
	every    int
	fs       ports.FileSystem
	renderer ports.Renderer

	mu      sync.Mutex
	sources map[string]*sourceState
}

type sourceState struct {
	dir  string
	seen int
}

// New creates a new FileSink. every values below 1 save every kept frame.
func New(baseDir string, every int, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	if every < 1 {
		every = 1
	}
	return &Sink{
		baseDir:  baseDir,
		every:    every,
		fs:       fs,
		renderer: renderer,
		sources:  make(map[string]*sourceState),
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame stores img when it is one of the sampled kept frames of source.
func (s *Sink) SaveFrame(source string, index int, img image.Image) error {
	s.mu.Lock()
	state, ok := s.sources[source]
	if !ok {
		state = &sourceState{dir: fmt.Sprintf("%03d-%s", len(s.sources)+1, stem(filepath.Base(source)))}
		s.sources[source] = state
	}
	// Frame 0 is always kept, so it marks the start of a new conversion.
	if index == 0 {
		state.seen = 0
	}
	n := state.seen
	state.seen++
	dir := state.dir
	s.mu.Unlock()

	if n%s.every != 0 {
		return nil
	}

	name := filepath.Base(source)
	annotated := s.renderer.Annotate(s.renderer.Thumbnail(img, thumbnailWidth), fmt.Sprintf("%s #%d", name, index))
	data, err := s.renderer.EncodeImage(annotated, ports.FormatJPEG, jpegQuality)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", index, err)
	}

	path := filepath.Join(s.baseDir, dir, fmt.Sprintf("frame-%06d.jpg", index))
	return s.fs.WriteFile(path, data)
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var _ ports.DebugSink = (*Sink)(nil)
