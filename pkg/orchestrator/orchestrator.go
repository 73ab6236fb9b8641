// Package orchestrator runs a batch of conversions.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
)

var (
	// ErrEmptyRequest is returned for a request without files.
	ErrEmptyRequest = errors.New("orchestrator: no files to convert")
	// ErrInvalidMultiplier is returned for a multiplier below 1.
	ErrInvalidMultiplier = errors.New("orchestrator: multiplier must be at least 1")
)

// Orchestrator validates a batch and converts its files one after another.
type Orchestrator struct {
	validateStage pipeline.Stage[[]string, pipeline.ValidationResult]
	convertStage  pipeline.Stage[pipeline.ConvertInput, pipeline.FileOutcome]
	logger        ports.Logger
}

// New creates a new Orchestrator.
func New(
	validateStage pipeline.Stage[[]string, pipeline.ValidationResult],
	convertStage pipeline.Stage[pipeline.ConvertInput, pipeline.FileOutcome],
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		validateStage: validateStage,
		convertStage:  convertStage,
		logger:        logger,
	}
}

// Run executes the batch synchronously and always returns a terminal outcome.
// Callers that must stay responsive run it on their own goroutine; observer
// callbacks are invoked on that goroutine.
func (o *Orchestrator) Run(ctx context.Context, req pipeline.ConversionRequest, observer ports.ProgressObserver) pipeline.BatchOutcome {
	if observer == nil {
		observer = ports.NopObserver
	}
	batch := pipeline.BatchOutcome{Status: pipeline.StatusFailed, FailedIndex: -1}

	if len(req.Files) == 0 {
		return o.abort(batch, pipeline.NewError(pipeline.KindInvalidRequest, "", ErrEmptyRequest))
	}
	if req.Multiplier < 1 {
		return o.abort(batch, pipeline.NewError(pipeline.KindInvalidRequest, "",
			fmt.Errorf("%w: got %d", ErrInvalidMultiplier, req.Multiplier)))
	}

	total := len(req.Files)
	o.logger.Info("Validating %d files", total)
	validation, err := o.validateStage.Execute(ctx, req.Files)
	if err != nil {
		return o.abort(batch, pipeline.NewError(pipeline.KindCanceled, "", err))
	}
	if !validation.Valid {
		batch.FailedIndex = validation.FailedIndex
		batch.FailedPath = validation.FailedPath
		reason := validation.Err
		if reason == nil {
			reason = errors.New("not a decodable video")
		}
		return o.abort(batch, pipeline.NewError(pipeline.KindValidation, validation.FailedPath, reason))
	}

	o.logger.Info("Converting %d files at %dx", total, req.Multiplier)
	for i, path := range req.Files {
		if err := ctx.Err(); err != nil {
			o.recordFailure(&batch, i, path, pipeline.NewError(pipeline.KindCanceled, path, err))
			break
		}

		name := filepath.Base(path)
		o.logger.Info("Processing file %d of %d: %s", i+1, total, name)
		observer.OnFileStart(i, total, name)

		outcome, err := o.convertStage.Execute(ctx, pipeline.ConvertInput{
			Source:         path,
			Multiplier:     req.Multiplier,
			DestinationDir: req.DestinationDir,
			OnProgress:     observer.OnProgress,
		})
		if err != nil {
			outcome = failedOutcome(outcome, path, err)
			batch.Files = append(batch.Files, outcome)
			o.logger.Error("Failed to convert %s: %s", name, err)
			o.recordFailure(&batch, i, path, outcome.Err)

			if req.FailurePolicy == pipeline.FailFast || outcome.Kind == pipeline.KindCanceled {
				break
			}
			continue
		}

		batch.Files = append(batch.Files, outcome)
		o.logger.Info("Saved %s (%d of %d frames)", outcome.Target.Path, outcome.FramesWritten, outcome.FramesRead)
	}

	if batch.FailedIndex >= 0 {
		return batch
	}

	batch.Status = pipeline.StatusSucceeded
	o.logger.Info("Batch completed successfully")
	return batch
}

func (o *Orchestrator) abort(batch pipeline.BatchOutcome, err *pipeline.ConversionError) pipeline.BatchOutcome {
	batch.Status = pipeline.StatusFailed
	batch.Kind = err.Kind
	batch.Err = err
	if batch.FailedPath != "" {
		o.logger.Error("Batch rejected: %s is not a readable video", batch.FailedPath)
	} else {
		o.logger.Error("Batch rejected: %s", err)
	}
	return batch
}

// recordFailure keeps the first failure; later ones only appear in Files.
func (o *Orchestrator) recordFailure(batch *pipeline.BatchOutcome, index int, path string, err error) {
	if batch.FailedIndex >= 0 {
		return
	}
	batch.FailedIndex = index
	batch.FailedPath = path
	batch.Kind = pipeline.KindOf(err)
	batch.Err = err
}

// failedOutcome normalizes what a stage returned alongside an error.
// Unclassified errors are treated as write failures.
func failedOutcome(outcome pipeline.FileOutcome, path string, err error) pipeline.FileOutcome {
	outcome.Source = path
	outcome.Status = pipeline.StatusFailed
	kind := pipeline.KindOf(err)
	if kind == pipeline.KindNone {
		err = pipeline.NewError(pipeline.KindEncode, path, err)
		kind = pipeline.KindEncode
	}
	outcome.Kind = kind
	outcome.Err = err
	return outcome
}
