package pipeline

import (
	"github.com/user/timelapse/pkg/ports"
)

// FailurePolicy decides what the batch does after a file fails.
type FailurePolicy int

const (
	// FailFast stops the batch at the first failing file.
	FailFast FailurePolicy = iota
	// ContinueOnError attempts every file and reports the first failure.
	ContinueOnError
)

// String returns the configuration name of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case ContinueOnError:
		return "continue"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy parses a policy name. The empty string selects FailFast.
func ParseFailurePolicy(s string) (FailurePolicy, bool) {
	switch s {
	case "", "fail-fast", "failfast":
		return FailFast, true
	case "continue", "continue-on-error":
		return ContinueOnError, true
	default:
		return FailFast, false
	}
}

// ConversionRequest is one batch submitted for conversion.
type ConversionRequest struct {
	Files          []string // Source paths in processing order
	Multiplier     int      // Frame stride, must be >= 1
	DestinationDir string   // Optional; empty means "<source dir>/outputs"
	FailurePolicy  FailurePolicy
}

// OutputTarget is the resolved location of one output file.
type OutputTarget struct {
	Path   string // Absolute output file path
	Dir    string // Absolute directory holding Path
	Source string // Absolute source path the target was derived from
}

// ConvertInput contains parameters for converting a single file.
type ConvertInput struct {
	Source         string
	Multiplier     int
	DestinationDir string

	// OnProgress receives the completion percentage of this file. May be nil.
	OnProgress func(percent float64)
}

// Status is the terminal state of a file or batch.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
)

// String returns a readable status.
func (s Status) String() string {
	if s == StatusSucceeded {
		return "succeeded"
	}
	return "failed"
}

// FileOutcome is the result of converting one source file.
type FileOutcome struct {
	Source string
	Target OutputTarget
	Status Status

	// Kind and Err are set when Status is StatusFailed.
	Kind ErrorKind
	Err  error

	FramesRead    int
	FramesWritten int
	Info          ports.StreamInfo
}

// Succeeded reports whether the file converted successfully.
func (o FileOutcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// BatchOutcome is the terminal result of a batch run.
type BatchOutcome struct {
	Status Status

	// Files holds one entry per attempted file, in request order.
	// Files never attempted because of fail-fast are absent.
	Files []FileOutcome

	// FailedIndex is the request index of the first failing file, or -1.
	// Validation failures point at the first invalid file.
	FailedIndex int
	FailedPath  string
	Kind        ErrorKind
	Err         error
}

// Succeeded reports whether every file in the batch converted.
func (b BatchOutcome) Succeeded() bool {
	return b.Status == StatusSucceeded
}

// Reason returns a human readable failure reason, or "" on success.
func (b BatchOutcome) Reason() string {
	if b.Err == nil {
		return ""
	}
	return b.Err.Error()
}

// FramesWritten sums written frames across all attempted files.
func (b BatchOutcome) FramesWritten() int {
	total := 0
	for _, f := range b.Files {
		total += f.FramesWritten
	}
	return total
}

// ValidationResult is the outcome of the pre-flight check of a batch.
type ValidationResult struct {
	Valid bool

	// FailedIndex is the index of the first invalid path, or -1.
	// Paths after it were not checked.
	FailedIndex int
	FailedPath  string
	Err         error
}
