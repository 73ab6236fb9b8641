// Package pipeline provides the stage abstraction and the data model shared
// by the conversion stages and the batch orchestrator.
package pipeline

import "context"

// Stage is one step of a batch: validating its inputs or converting a file.
// Implementations must return promptly once ctx is done.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function stand in for a Stage, mostly in tests.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
