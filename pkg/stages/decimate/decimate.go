// Package decimate implements single-file conversion: every m-th decoded
// frame is re-encoded at the source frame rate.
package decimate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
)

// Resolver derives the output target for a source file.
type Resolver interface {
	Resolve(source, dest string) (pipeline.OutputTarget, error)
}

// ErrOverwriteSource is returned when the output would replace its own source.
var ErrOverwriteSource = errors.New("decimate: output path equals source path")

// Stage converts one source file into a timelapse.
type Stage struct {
	reader   ports.VideoReader
	writer   ports.VideoWriter
	resolver Resolver
	sink     ports.DebugSink
	logger   ports.Logger
}

// NewStage creates a new decimate stage.
func NewStage(
	reader ports.VideoReader,
	writer ports.VideoWriter,
	resolver Resolver,
	sink ports.DebugSink,
	logger ports.Logger,
) *Stage {
	return &Stage{
		reader:   reader,
		writer:   writer,
		resolver: resolver,
		sink:     sink,
		logger:   logger.WithComponent("decimate"),
	}
}

// Execute converts input.Source. On failure the returned outcome is marked
// failed and the error is a *pipeline.ConversionError. A partially written
// output is closed but left in place.
func (s *Stage) Execute(ctx context.Context, input pipeline.ConvertInput) (pipeline.FileOutcome, error) {
	outcome := pipeline.FileOutcome{Source: input.Source, Status: pipeline.StatusFailed}
	fail := func(kind pipeline.ErrorKind, err error) (pipeline.FileOutcome, error) {
		var ce *pipeline.ConversionError
		if !errors.As(err, &ce) {
			ce = pipeline.NewError(kind, input.Source, err)
		}
		outcome.Kind = ce.Kind
		outcome.Err = ce
		return outcome, ce
	}

	if input.Multiplier < 1 {
		return fail(pipeline.KindInvalidRequest, fmt.Errorf("multiplier must be >= 1, got %d", input.Multiplier))
	}

	src, err := s.reader.Open(ctx, input.Source)
	if err != nil {
		return fail(pipeline.KindDecode, fmt.Errorf("open source: %w", err))
	}
	defer src.Close()

	info := src.Info()
	outcome.Info = info
	s.logger.Debug("Opened %s: %dx%d, %.3f fps, %d frames reported",
		input.Source, info.Width, info.Height, info.FPS, info.FrameCount)

	target, err := s.resolver.Resolve(input.Source, input.DestinationDir)
	if err != nil {
		return fail(pipeline.KindDirectoryCreation, err)
	}
	outcome.Target = target
	if target.Source != "" && target.Source == target.Path {
		return fail(pipeline.KindEncode, ErrOverwriteSource)
	}

	format := ports.OutputFormat{Width: info.Width, Height: info.Height, FPS: info.FPS}
	out, err := s.writer.Create(ctx, target.Path, format)
	if err != nil {
		return fail(pipeline.KindEncode, fmt.Errorf("create writer: %w", err))
	}

	progress := newProgress(info.FrameCount, input.OnProgress)
	debug := s.sink != nil && s.sink.Enabled()

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			out.Close()
			return fail(pipeline.KindCanceled, err)
		}

		img, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The writer still owns a valid prefix of the output.
			closeErr := out.Close()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fail(pipeline.KindCanceled, ctxErr)
			}
			return fail(pipeline.KindDecode, withCloseError(fmt.Errorf("read frame %d: %w", i, err), closeErr))
		}
		outcome.FramesRead++

		if i%input.Multiplier == 0 {
			if err := out.WriteFrame(img); err != nil {
				// Close reports why the encoder stopped accepting frames.
				return fail(pipeline.KindEncode, withCloseError(fmt.Errorf("write frame %d: %w", i, err), out.Close()))
			}
			outcome.FramesWritten++

			if debug {
				if err := s.sink.SaveFrame(input.Source, i, img); err != nil {
					s.logger.Warn("Failed to save debug frame %d: %s", i, err)
				}
			}
		}

		progress.frame(i)
	}

	if err := out.Close(); err != nil {
		return fail(pipeline.KindEncode, fmt.Errorf("finalize output: %w", err))
	}
	progress.done()

	s.logger.Debug("Kept %d of %d frames from %s", outcome.FramesWritten, outcome.FramesRead, input.Source)

	outcome.Status = pipeline.StatusSucceeded
	return outcome, nil
}

func withCloseError(err, closeErr error) error {
	if closeErr == nil {
		return err
	}
	return errors.Join(err, fmt.Errorf("close output: %w", closeErr))
}
