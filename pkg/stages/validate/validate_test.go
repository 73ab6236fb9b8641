package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/user/timelapse/pkg/adapters/logger"
	"github.com/user/timelapse/pkg/mocks"
)

func newReader() *mocks.VideoReader {
	return mocks.NewVideoReader(map[string]*mocks.Clip{
		"a.mp4":     mocks.NewClip(64, 48, 30, 10),
		"b.mp4":     mocks.NewClip(64, 48, 30, 10),
		"empty.mp4": mocks.NewClip(64, 48, 30, 0),
		"bad.mp4":   mocks.NewClip(64, 48, 30, 10).FailingAt(0),
		"text.txt":  {OpenErr: errors.New("invalid data found when processing input")},
	})
}

func TestStage_ValidateAll(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  bool
	}{
		{"all valid", []string{"a.mp4", "b.mp4"}, true},
		{"empty list", nil, false},
		{"first unreadable", []string{"text.txt", "a.mp4"}, false},
		{"missing file", []string{"a.mp4", "missing.mp4"}, false},
		{"no frames", []string{"empty.mp4"}, false},
		{"first frame fails", []string{"bad.mp4"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := NewStage(newReader(), logger.NewNoop())
			if got := stage.ValidateAll(context.Background(), tt.paths); got != tt.want {
				t.Errorf("ValidateAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStage_Execute_ShortCircuits(t *testing.T) {
	reader := newReader()
	stage := NewStage(reader, logger.NewNoop())

	res, err := stage.Execute(context.Background(), []string{"a.mp4", "text.txt", "b.mp4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if res.FailedIndex != 1 || res.FailedPath != "text.txt" {
		t.Errorf("expected failure at 1 (text.txt), got %d (%s)", res.FailedIndex, res.FailedPath)
	}
	if reader.OpenCount("b.mp4") != 0 {
		t.Error("expected files after the first invalid one to be skipped")
	}
}

func TestStage_Execute_ReadsOneFrame(t *testing.T) {
	reader := newReader()
	stage := NewStage(reader, logger.NewNoop())

	if !stage.ValidateAll(context.Background(), []string{"a.mp4"}) {
		t.Fatal("expected valid")
	}

	if len(reader.Sources) != 1 {
		t.Fatalf("expected 1 opened source, got %d", len(reader.Sources))
	}
	src := reader.Sources[0]
	if src.Reads != 1 {
		t.Errorf("expected exactly 1 frame read, got %d", src.Reads)
	}
	if !src.Closed {
		t.Error("expected source to be closed")
	}
}

func TestStage_FirstInvalid(t *testing.T) {
	stage := NewStage(newReader(), logger.NewNoop())

	idx, err := stage.FirstInvalid(context.Background(), []string{"a.mp4", "b.mp4"})
	if idx != -1 || err != nil {
		t.Errorf("expected -1, nil; got %d, %v", idx, err)
	}

	idx, err = stage.FirstInvalid(context.Background(), []string{"a.mp4", "empty.mp4"})
	if idx != 1 || !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected 1, ErrNoFrames; got %d, %v", idx, err)
	}

	idx, err = stage.FirstInvalid(context.Background(), nil)
	if idx != -1 || !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected -1, ErrNoFiles; got %d, %v", idx, err)
	}
}

func TestStage_Execute_ContextCancelled(t *testing.T) {
	stage := NewStage(newReader(), logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, []string{"a.mp4"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
