package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"plain", base, KindNone},
		{"direct", NewError(KindDecode, "a.mp4", base), KindDecode},
		{"wrapped", fmt.Errorf("convert: %w", NewError(KindEncode, "a.mp4", base)), KindEncode},
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", fmt.Errorf("read: %w", context.DeadlineExceeded), KindCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConversionError_Unwrap(t *testing.T) {
	base := errors.New("disk full")
	err := NewError(KindDirectoryCreation, "/src/a.avi", base)

	if !errors.Is(err, base) {
		t.Error("expected errors.Is to find the wrapped error")
	}
	want := "DirectoryCreationFailure: /src/a.avi: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		in     string
		want   FailurePolicy
		wantOK bool
	}{
		{"", FailFast, true},
		{"fail-fast", FailFast, true},
		{"continue", ContinueOnError, true},
		{"skip", FailFast, false},
	}

	for _, tt := range tests {
		got, ok := ParseFailurePolicy(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFailurePolicy(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBatchOutcome_FramesWritten(t *testing.T) {
	b := BatchOutcome{Files: []FileOutcome{{FramesWritten: 3}, {FramesWritten: 4}}}
	if b.FramesWritten() != 7 {
		t.Errorf("expected 7, got %d", b.FramesWritten())
	}
	if b.Reason() != "" {
		t.Errorf("expected empty reason, got %q", b.Reason())
	}
}
