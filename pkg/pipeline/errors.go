package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a file or batch failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation means a source could not produce a first decodable frame.
	KindValidation
	// KindDirectoryCreation means the output directory could not be created.
	KindDirectoryCreation
	// KindDecode means a frame could not be decoded mid-stream.
	KindDecode
	// KindEncode means the writer could not be opened or rejected a frame.
	KindEncode
	// KindInvalidRequest means the request itself was malformed.
	KindInvalidRequest
	// KindCanceled means the context was canceled during the run.
	KindCanceled
)

// String returns the name used in logs and summaries.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "ValidationFailure"
	case KindDirectoryCreation:
		return "DirectoryCreationFailure"
	case KindDecode:
		return "DecodeFailure"
	case KindEncode:
		return "EncodeFailure"
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindCanceled:
		return "Canceled"
	default:
		return "unknown"
	}
}

// ConversionError is a classified failure for one source path.
type ConversionError struct {
	Kind ErrorKind
	Path string
	Err  error
}

// NewError wraps err with a kind and the source path it applies to.
func NewError(kind ErrorKind, path string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Path: path, Err: err}
}

func (e *ConversionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind carried by err, or KindNone when err is nil or
// unclassified. Context cancellation is reported as KindCanceled.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindNone
}
