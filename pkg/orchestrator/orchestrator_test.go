package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/user/timelapse/pkg/adapters/logger"
	"github.com/user/timelapse/pkg/mocks"
	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/stages/decimate"
	"github.com/user/timelapse/pkg/stages/resolve"
	"github.com/user/timelapse/pkg/stages/validate"
)

// mockValidateStage is a mock for the validate stage.
type mockValidateStage struct {
	result pipeline.ValidationResult
	err    error
	calls  int
}

func (m *mockValidateStage) Execute(ctx context.Context, paths []string) (pipeline.ValidationResult, error) {
	m.calls++
	if m.err != nil {
		return pipeline.ValidationResult{}, m.err
	}
	return m.result, nil
}

// mockConvertStage is a mock for the convert stage.
type mockConvertStage struct {
	fail  map[string]error
	calls []pipeline.ConvertInput
}

func (m *mockConvertStage) Execute(ctx context.Context, input pipeline.ConvertInput) (pipeline.FileOutcome, error) {
	m.calls = append(m.calls, input)
	if err := m.fail[input.Source]; err != nil {
		return pipeline.FileOutcome{Source: input.Source, Status: pipeline.StatusFailed}, err
	}
	if input.OnProgress != nil {
		input.OnProgress(50)
		input.OnProgress(100)
	}
	return pipeline.FileOutcome{
		Source:        input.Source,
		Status:        pipeline.StatusSucceeded,
		Target:        pipeline.OutputTarget{Path: input.Source + ".mp4"},
		FramesRead:    10,
		FramesWritten: 2,
	}, nil
}

func validResult() pipeline.ValidationResult {
	return pipeline.ValidationResult{Valid: true, FailedIndex: -1}
}

func TestOrchestrator_Run(t *testing.T) {
	validator := &mockValidateStage{result: validResult()}
	converter := &mockConvertStage{}
	orch := New(validator, converter, logger.NewNoop())
	observer := &mocks.ProgressObserver{}

	req := pipeline.ConversionRequest{
		Files:          []string{"/v/a.avi", "/v/b.mov"},
		Multiplier:     5,
		DestinationDir: "/out/x",
	}
	result := orch.Run(context.Background(), req, observer)

	if !result.Succeeded() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 file outcomes, got %d", len(result.Files))
	}
	if result.FailedIndex != -1 {
		t.Errorf("expected FailedIndex -1, got %d", result.FailedIndex)
	}
	if result.FramesWritten() != 4 {
		t.Errorf("expected 4 frames written, got %d", result.FramesWritten())
	}

	// Files are converted in request order with the request parameters.
	for i, call := range converter.calls {
		if call.Source != req.Files[i] {
			t.Errorf("call %d: expected %s, got %s", i, req.Files[i], call.Source)
		}
		if call.Multiplier != 5 || call.DestinationDir != "/out/x" {
			t.Errorf("call %d: unexpected input %+v", i, call)
		}
	}

	wantStarts := []mocks.FileStart{
		{Index: 0, Total: 2, Name: "a.avi"},
		{Index: 1, Total: 2, Name: "b.mov"},
	}
	if len(observer.FileStarts) != len(wantStarts) {
		t.Fatalf("expected %d file starts, got %d", len(wantStarts), len(observer.FileStarts))
	}
	for i, want := range wantStarts {
		if observer.FileStarts[i] != want {
			t.Errorf("file start %d: expected %+v, got %+v", i, want, observer.FileStarts[i])
		}
	}
	if len(observer.Percents) != 4 {
		t.Errorf("expected progress to be forwarded, got %v", observer.Percents)
	}
}

func TestOrchestrator_Run_ValidationFailure(t *testing.T) {
	validator := &mockValidateStage{result: pipeline.ValidationResult{
		FailedIndex: 1,
		FailedPath:  "/v/notes.txt",
		Err:         errors.New("invalid data"),
	}}
	converter := &mockConvertStage{}
	orch := New(validator, converter, logger.NewNoop())

	result := orch.Run(context.Background(), pipeline.ConversionRequest{
		Files:      []string{"/v/a.avi", "/v/notes.txt"},
		Multiplier: 2,
	}, nil)

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.Kind != pipeline.KindValidation {
		t.Errorf("expected ValidationFailure, got %v", result.Kind)
	}
	if result.FailedIndex != 1 || result.FailedPath != "/v/notes.txt" {
		t.Errorf("unexpected failing file %d %s", result.FailedIndex, result.FailedPath)
	}
	if len(converter.calls) != 0 {
		t.Errorf("expected no conversions, got %d", len(converter.calls))
	}
}

func TestOrchestrator_Run_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  pipeline.ConversionRequest
		want error
	}{
		{"empty", pipeline.ConversionRequest{Multiplier: 2}, ErrEmptyRequest},
		{"zero multiplier", pipeline.ConversionRequest{Files: []string{"a.mp4"}}, ErrInvalidMultiplier},
		{"negative multiplier", pipeline.ConversionRequest{Files: []string{"a.mp4"}, Multiplier: -3}, ErrInvalidMultiplier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &mockValidateStage{result: validResult()}
			orch := New(validator, &mockConvertStage{}, logger.NewNoop())

			result := orch.Run(context.Background(), tt.req, nil)
			if result.Kind != pipeline.KindInvalidRequest {
				t.Errorf("expected InvalidRequest, got %v", result.Kind)
			}
			if !errors.Is(result.Err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, result.Err)
			}
			if validator.calls != 0 {
				t.Error("expected validation to be skipped")
			}
		})
	}
}

func TestOrchestrator_Run_FailFast(t *testing.T) {
	validator := &mockValidateStage{result: validResult()}
	converter := &mockConvertStage{fail: map[string]error{
		"/v/b.mp4": pipeline.NewError(pipeline.KindDecode, "/v/b.mp4", errors.New("corrupt packet")),
	}}
	orch := New(validator, converter, logger.NewNoop())
	observer := &mocks.ProgressObserver{}

	result := orch.Run(context.Background(), pipeline.ConversionRequest{
		Files:      []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"},
		Multiplier: 10,
	}, observer)

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.FailedIndex != 1 || result.FailedPath != "/v/b.mp4" {
		t.Errorf("expected failure naming b.mp4, got %d %s", result.FailedIndex, result.FailedPath)
	}
	if result.Kind != pipeline.KindDecode {
		t.Errorf("expected DecodeFailure, got %v", result.Kind)
	}
	if len(converter.calls) != 2 {
		t.Errorf("expected c.mp4 not to be attempted, got %d calls", len(converter.calls))
	}
	if len(observer.FileStarts) != 2 {
		t.Errorf("expected 2 file starts, got %d", len(observer.FileStarts))
	}
}

func TestOrchestrator_Run_ContinueOnError(t *testing.T) {
	validator := &mockValidateStage{result: validResult()}
	converter := &mockConvertStage{fail: map[string]error{
		"/v/b.mp4": pipeline.NewError(pipeline.KindEncode, "/v/b.mp4", errors.New("disk full")),
		"/v/c.mp4": errors.New("unclassified"),
	}}
	orch := New(validator, converter, logger.NewNoop())

	result := orch.Run(context.Background(), pipeline.ConversionRequest{
		Files:         []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4", "/v/d.mp4"},
		Multiplier:    2,
		FailurePolicy: pipeline.ContinueOnError,
	}, nil)

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if len(converter.calls) != 4 {
		t.Errorf("expected every file to be attempted, got %d", len(converter.calls))
	}
	if result.FailedIndex != 1 || result.Kind != pipeline.KindEncode {
		t.Errorf("expected first failure to be reported, got %d %v", result.FailedIndex, result.Kind)
	}
	if len(result.Files) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(result.Files))
	}
	if result.Files[2].Kind != pipeline.KindEncode {
		t.Errorf("expected unclassified error to be an EncodeFailure, got %v", result.Files[2].Kind)
	}
	if !result.Files[3].Succeeded() {
		t.Error("expected d.mp4 to succeed")
	}
}

func TestOrchestrator_Run_ContextCancelled(t *testing.T) {
	validator := &mockValidateStage{result: validResult()}
	converter := &mockConvertStage{}
	orch := New(validator, converter, logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := orch.Run(ctx, pipeline.ConversionRequest{Files: []string{"/v/a.mp4"}, Multiplier: 2}, nil)
	if result.Kind != pipeline.KindCanceled {
		t.Errorf("expected Canceled, got %v", result.Kind)
	}
	if len(converter.calls) != 0 {
		t.Error("expected no conversions after cancellation")
	}
}

func TestOrchestrator_Run_ValidatorInterrupted(t *testing.T) {
	validator := pipeline.StageFunc[[]string, pipeline.ValidationResult](
		func(ctx context.Context, paths []string) (pipeline.ValidationResult, error) {
			return pipeline.ValidationResult{FailedIndex: -1}, context.Canceled
		})
	converter := &mockConvertStage{}
	orch := New(validator, converter, logger.NewNoop())

	result := orch.Run(context.Background(), pipeline.ConversionRequest{Files: []string{"/v/a.mp4"}, Multiplier: 3}, nil)
	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.Kind != pipeline.KindCanceled {
		t.Errorf("expected Canceled, got %v", result.Kind)
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", result.Err)
	}
	if len(converter.calls) != 0 {
		t.Error("expected no conversions")
	}
}

// TestOrchestrator_Run_MidStreamFailure wires the real stages to mock codecs.
func TestOrchestrator_Run_MidStreamFailure(t *testing.T) {
	reader := mocks.NewVideoReader(map[string]*mocks.Clip{
		"/v/a.mp4": mocks.NewClip(32, 24, 30, 20),
		"/v/b.mp4": mocks.NewClip(32, 24, 30, 20).FailingAt(7),
		"/v/c.mp4": mocks.NewClip(32, 24, 30, 20),
	})
	writer := &mocks.VideoWriter{}
	fs := mocks.NewFileSystem()
	log := logger.NewNoop()

	orch := New(
		validate.NewStage(reader, log),
		decimate.NewStage(reader, writer, resolve.NewResolver(fs, log), &mocks.NullSink{}, log),
		log,
	)

	result := orch.Run(context.Background(), pipeline.ConversionRequest{
		Files:      []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"},
		Multiplier: 5,
	}, nil)

	if result.Succeeded() {
		t.Fatal("expected failure")
	}
	if result.FailedPath != "/v/b.mp4" || result.Kind != pipeline.KindDecode {
		t.Errorf("expected DecodeFailure naming b.mp4, got %s %v", result.FailedPath, result.Kind)
	}

	// c.mp4 is opened once by the validator and never by the converter.
	if n := reader.OpenCount("/v/c.mp4"); n != 1 {
		t.Errorf("expected c.mp4 to be opened only for validation, got %d opens", n)
	}
	if writer.SinkFor("/v/outputs/c.mp4") != nil {
		t.Error("expected no output for c.mp4")
	}

	// a.mp4 completed: frames 0, 5, 10, 15.
	a := writer.SinkFor("/v/outputs/a.mp4")
	if a == nil || len(a.FrameIDs) != 4 || !a.Closed {
		t.Errorf("expected finalized a.mp4 with 4 frames, got %+v", a)
	}
}
