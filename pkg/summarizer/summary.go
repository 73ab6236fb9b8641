// Package summarizer provides summary generation for conversion batches.
package summarizer

import (
	"time"

	"github.com/user/timelapse/pkg/pipeline"
)

// Summary contains all data collected during a batch run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Elapsed     time.Duration

	// Batch settings
	Settings Settings

	// Terminal result
	Result Result

	// Converted files, present only when the batch succeeded
	Files []FileInfo
}

// Settings contains the batch configuration.
type Settings struct {
	Speed         int
	Destination   string // Empty means next to each source
	FailurePolicy string
	FileCount     int
}

// Result describes how the batch ended.
type Result struct {
	Succeeded  bool
	FailedFile string
	Kind       string
	Reason     string
}

// FileInfo contains information about one converted file.
type FileInfo struct {
	Source        string
	Output        string
	Width         int
	Height        int
	FPS           float64
	FramesRead    int
	FramesWritten int
	FileSize      int64 // 0 when unknown
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSettings sets batch settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithRequest sets batch settings from a request.
func (b *Builder) WithRequest(req pipeline.ConversionRequest) *Builder {
	return b.WithSettings(Settings{
		Speed:         req.Multiplier,
		Destination:   req.DestinationDir,
		FailurePolicy: req.FailurePolicy.String(),
		FileCount:     len(req.Files),
	})
}

// WithOutcome records the batch result. A failed batch names only the
// failing file and the reason; files that did convert are not listed.
func (b *Builder) WithOutcome(outcome pipeline.BatchOutcome) *Builder {
	if !outcome.Succeeded() {
		b.summary.Result = Result{
			FailedFile: outcome.FailedPath,
			Kind:       outcome.Kind.String(),
			Reason:     outcome.Reason(),
		}
		b.summary.Files = nil
		return b
	}

	b.summary.Result = Result{Succeeded: true}
	b.summary.Files = make([]FileInfo, 0, len(outcome.Files))
	for _, f := range outcome.Files {
		b.summary.Files = append(b.summary.Files, FileInfo{
			Source:        f.Source,
			Output:        f.Target.Path,
			Width:         f.Info.Width,
			Height:        f.Info.Height,
			FPS:           f.Info.FPS,
			FramesRead:    f.FramesRead,
			FramesWritten: f.FramesWritten,
		})
	}
	return b
}

// WithFileSize sets the size of the output file at path.
func (b *Builder) WithFileSize(output string, size int64) *Builder {
	for i := range b.summary.Files {
		if b.summary.Files[i].Output == output {
			b.summary.Files[i].FileSize = size
		}
	}
	return b
}

// WithElapsed sets the wall time of the batch.
func (b *Builder) WithElapsed(d time.Duration) *Builder {
	b.summary.Elapsed = d
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
