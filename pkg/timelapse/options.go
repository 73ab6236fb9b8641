package timelapse

import (
	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
)

// DefaultSpeed is the multiplier used when none is configured.
const DefaultSpeed = 10

// Options configures a Converter and the requests it builds.
type Options struct {
	// Tools
	FFmpegPath  string // Explicit ffmpeg binary (falls back to FFMPEG_PATH, then PATH)
	FFprobePath string // Explicit ffprobe binary (falls back to FFPROBE_PATH, then PATH)

	// Batch
	Speed          int    // Frame stride (min: 1)
	DestinationDir string // Empty means "<source dir>/outputs"
	FailurePolicy  pipeline.FailurePolicy

	// Debug
	DebugDir   string // Saves annotated kept frames here when set
	DebugEvery int    // Save every Nth kept frame (min: 1)

	Logger ports.Logger // Nil means no logging
}

// OptionsBuilder provides a fluent interface for building Options.
type OptionsBuilder struct {
	options Options
}

// NewOptionsBuilder creates a new OptionsBuilder with default values.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{options: defaultOptions()}
}

func defaultOptions() Options {
	return Options{
		Speed:         DefaultSpeed,
		FailurePolicy: pipeline.FailFast,
		DebugEvery:    1,
	}
}

// Build returns the final Options, applying constraints.
func (b *OptionsBuilder) Build() Options {
	opts := b.options

	if opts.Speed < 1 {
		opts.Speed = 1
	}
	if opts.DebugEvery < 1 {
		opts.DebugEvery = 1
	}

	return opts
}

// WithFFmpegPath sets the ffmpeg binary.
func (b *OptionsBuilder) WithFFmpegPath(path string) *OptionsBuilder {
	b.options.FFmpegPath = path
	return b
}

// WithFFprobePath sets the ffprobe binary.
func (b *OptionsBuilder) WithFFprobePath(path string) *OptionsBuilder {
	b.options.FFprobePath = path
	return b
}

// WithSpeed sets the multiplier. Values below 1 will be forced to 1.
func (b *OptionsBuilder) WithSpeed(speed int) *OptionsBuilder {
	b.options.Speed = speed
	return b
}

// WithDestinationDir sets the destination directory reference.
func (b *OptionsBuilder) WithDestinationDir(dir string) *OptionsBuilder {
	b.options.DestinationDir = dir
	return b
}

// WithFailurePolicy sets what happens after a file fails.
func (b *OptionsBuilder) WithFailurePolicy(policy pipeline.FailurePolicy) *OptionsBuilder {
	b.options.FailurePolicy = policy
	return b
}

// WithDebugDir enables the debug frame dump.
func (b *OptionsBuilder) WithDebugDir(dir string) *OptionsBuilder {
	b.options.DebugDir = dir
	return b
}

// WithDebugEvery sets the debug sampling interval. Values below 1 will be forced to 1.
func (b *OptionsBuilder) WithDebugEvery(n int) *OptionsBuilder {
	b.options.DebugEvery = n
	return b
}

// WithLogger sets the logger.
func (b *OptionsBuilder) WithLogger(logger ports.Logger) *OptionsBuilder {
	b.options.Logger = logger
	return b
}

// Request builds a conversion request for files from the options.
func (o Options) Request(files []string) pipeline.ConversionRequest {
	return pipeline.ConversionRequest{
		Files:          files,
		Multiplier:     o.Speed,
		DestinationDir: o.DestinationDir,
		FailurePolicy:  o.FailurePolicy,
	}
}
