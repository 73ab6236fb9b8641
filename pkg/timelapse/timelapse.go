// Package timelapse provides a high-level API for turning videos into
// timelapses by keeping every Nth frame.
package timelapse

import (
	"context"

	"github.com/user/timelapse/pkg/adapters/ffmpegbin"
	"github.com/user/timelapse/pkg/adapters/ffmpegdecoder"
	"github.com/user/timelapse/pkg/adapters/ffmpegencoder"
	"github.com/user/timelapse/pkg/adapters/filesink"
	"github.com/user/timelapse/pkg/adapters/ggrenderer"
	"github.com/user/timelapse/pkg/adapters/logger"
	"github.com/user/timelapse/pkg/adapters/nullsink"
	"github.com/user/timelapse/pkg/adapters/osfilesystem"
	"github.com/user/timelapse/pkg/orchestrator"
	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
	"github.com/user/timelapse/pkg/stages/decimate"
	"github.com/user/timelapse/pkg/stages/resolve"
	"github.com/user/timelapse/pkg/stages/validate"
)

// Prober reads stream information without decoding frames.
type Prober interface {
	Probe(ctx context.Context, path string) (ports.StreamInfo, error)
}

// Adapters are the collaborators a Converter is assembled from.
type Adapters struct {
	Reader     ports.VideoReader
	Writer     ports.VideoWriter
	Prober     Prober
	FileSystem ports.FileSystem
	Sink       ports.DebugSink
}

// Converter converts batches of videos into timelapses.
type Converter struct {
	options   Options
	locator   *ffmpegbin.Locator
	prober    Prober
	reader    ports.VideoReader
	validator *validate.Stage
	orch      *orchestrator.Orchestrator
}

// New creates a Converter backed by ffmpeg and the local filesystem.
func New(opts Options) *Converter {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	locator := ffmpegbin.NewLocator(opts.FFmpegPath, opts.FFprobePath)
	decoder := ffmpegdecoder.New(locator, log)
	fs := osfilesystem.New()

	var sink ports.DebugSink = nullsink.New()
	if opts.DebugDir != "" {
		sink = filesink.New(opts.DebugDir, opts.DebugEvery, fs, ggrenderer.New())
	}

	c := NewWithAdapters(opts, Adapters{
		Reader:     decoder,
		Writer:     ffmpegencoder.New(locator, log),
		Prober:     decoder,
		FileSystem: fs,
		Sink:       sink,
	})
	c.locator = locator
	return c
}

// NewWithAdapters creates a Converter from explicit collaborators.
func NewWithAdapters(opts Options, adapters Adapters) *Converter {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	sink := adapters.Sink
	if sink == nil {
		sink = nullsink.New()
	}

	validator := validate.NewStage(adapters.Reader, log)
	resolver := resolve.NewResolver(adapters.FileSystem, log)
	convert := decimate.NewStage(adapters.Reader, adapters.Writer, resolver, sink, log)

	return &Converter{
		options:   opts,
		prober:    adapters.Prober,
		reader:    adapters.Reader,
		validator: validator,
		orch:      orchestrator.New(validator, convert, log),
	}
}

// Options returns the options the converter was created with.
func (c *Converter) Options() Options {
	return c.options
}

// CheckTools verifies that ffmpeg and ffprobe can be found.
// Converters built from explicit adapters have nothing to check.
func (c *Converter) CheckTools() error {
	if c.locator == nil {
		return nil
	}
	if _, err := c.locator.FFmpeg(); err != nil {
		return err
	}
	_, err := c.locator.FFprobe()
	return err
}

// ConvertAll runs req to completion. A nil observer is allowed.
func (c *Converter) ConvertAll(ctx context.Context, req pipeline.ConversionRequest, observer ports.ProgressObserver) pipeline.BatchOutcome {
	return c.orch.Run(ctx, req, observer)
}

// Convert converts files with the converter's options.
func (c *Converter) Convert(ctx context.Context, files []string, observer ports.ProgressObserver) pipeline.BatchOutcome {
	return c.ConvertAll(ctx, c.options.Request(files), observer)
}

// Validate checks that every path opens as a readable video, stopping at
// the first one that does not.
func (c *Converter) Validate(ctx context.Context, paths []string) pipeline.ValidationResult {
	result, err := c.validator.Execute(ctx, paths)
	if err != nil && result.Err == nil {
		result.Err = err
	}
	return result
}

// Probe returns stream information for path. Without a Prober the file is
// opened through the reader and closed again.
func (c *Converter) Probe(ctx context.Context, path string) (ports.StreamInfo, error) {
	if c.prober != nil {
		return c.prober.Probe(ctx, path)
	}
	src, err := c.reader.Open(ctx, path)
	if err != nil {
		return ports.StreamInfo{}, err
	}
	defer src.Close()
	return src.Info(), nil
}
