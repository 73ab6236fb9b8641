// Package validate implements the pre-flight check of a batch.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
)

var (
	// ErrNoFiles is reported for an empty batch.
	ErrNoFiles = errors.New("validate: no files")
	// ErrNoFrames is reported for a source that opens but yields no frame.
	ErrNoFrames = errors.New("validate: no decodable frame")
)

// Stage checks that every path is a decodable video.
type Stage struct {
	reader ports.VideoReader
	logger ports.Logger
}

// NewStage creates a new validate stage.
func NewStage(reader ports.VideoReader, logger ports.Logger) *Stage {
	return &Stage{
		reader: reader,
		logger: logger.WithComponent("validate"),
	}
}

// Execute checks paths in order and stops at the first invalid one.
// An invalid file is reported in the result, not as an error; the error is
// only non-nil when ctx is done.
func (s *Stage) Execute(ctx context.Context, paths []string) (pipeline.ValidationResult, error) {
	if len(paths) == 0 {
		return pipeline.ValidationResult{FailedIndex: -1, Err: ErrNoFiles}, nil
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return pipeline.ValidationResult{FailedIndex: -1}, err
		}

		if err := s.Check(ctx, path); err != nil {
			if ctx.Err() != nil {
				return pipeline.ValidationResult{FailedIndex: -1}, ctx.Err()
			}
			s.logger.Debug("Invalid video %s: %s", path, err)
			return pipeline.ValidationResult{
				FailedIndex: i,
				FailedPath:  path,
				Err:         err,
			}, nil
		}
		s.logger.Debug("Valid video %s", path)
	}

	return pipeline.ValidationResult{Valid: true, FailedIndex: -1}, nil
}

// Check opens path and decodes exactly one frame.
func (s *Stage) Check(ctx context.Context, path string) error {
	src, err := s.reader.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer src.Close()

	if _, err := src.ReadFrame(); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoFrames
		}
		return fmt.Errorf("read first frame: %w", err)
	}
	return nil
}

// ValidateAll reports whether every path is a decodable video.
// An empty list is not valid.
func (s *Stage) ValidateAll(ctx context.Context, paths []string) bool {
	res, err := s.Execute(ctx, paths)
	return err == nil && res.Valid
}

// FirstInvalid returns the index of the first invalid path, or -1 when all
// paths are valid. An empty list yields -1 and ErrNoFiles.
func (s *Stage) FirstInvalid(ctx context.Context, paths []string) (int, error) {
	res, err := s.Execute(ctx, paths)
	if err != nil {
		return -1, err
	}
	return res.FailedIndex, res.Err
}
