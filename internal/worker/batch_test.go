package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// fakeRunner implements Runner
type fakeRunner struct {
	shouldError bool
}

func (m *fakeRunner) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error) {
	time.Sleep(5 * time.Millisecond) // Simulate work
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return &model.Report{
		Version:    model.Version,
		AnalysisID: "analysis_1",
	}, nil
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRequestFromLine_LiteralText(t *testing.T) {
	req, err := RequestFromLine("I am feeling great today")
	if err != nil {
		t.Fatalf("RequestFromLine failed: %v", err)
	}
	if req.Text != "I am feeling great today" {
		t.Errorf("Expected literal text, got %q", req.Text)
	}
	if req.HasAudio() || req.HasImage() {
		t.Error("Expected a text-only request")
	}
}

func TestRequestFromLine_TextFile(t *testing.T) {
	path := writeTempFile(t, "note.txt", "so very happy")

	req, err := RequestFromLine(path)
	if err != nil {
		t.Fatalf("RequestFromLine failed: %v", err)
	}
	if req.Text != "so very happy" {
		t.Errorf("Expected file contents as text, got %q", req.Text)
	}
}

func TestRequestFromLine_AudioFile(t *testing.T) {
	path := writeTempFile(t, "clip.wav", "RIFFdata")

	req, err := RequestFromLine(path)
	if err != nil {
		t.Fatalf("RequestFromLine failed: %v", err)
	}
	if !req.HasAudio() {
		t.Fatal("Expected audio data")
	}
	if req.AudioName != "clip.wav" {
		t.Errorf("Expected base filename clip.wav, got %s", req.AudioName)
	}
}

func TestRequestFromLine_ImageFile(t *testing.T) {
	path := writeTempFile(t, "face.PNG", "pngdata")

	// Extension matching is case-insensitive
	req, err := RequestFromLine(path)
	if err != nil {
		t.Fatalf("RequestFromLine failed: %v", err)
	}
	if !req.HasImage() {
		t.Fatal("Expected image data")
	}
	if req.ImageName != "face.PNG" {
		t.Errorf("Expected base filename face.PNG, got %s", req.ImageName)
	}
}

func TestRequestFromLine_MissingFile(t *testing.T) {
	if _, err := RequestFromLine("no_such_dir/clip.wav"); err == nil {
		t.Error("Expected error for unreadable audio path")
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{}, 2)

	lines := []string{"happy day", "sad day", "angry day"}
	results := processor.Process(context.Background(), lines)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Line, res.Error)
			continue
		}
		if res.Report == nil {
			t.Errorf("expected report for %q", res.Line)
		}
	}
}

func TestBatchProcessor_Process_Error(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{shouldError: true}, 2)

	results := processor.Process(context.Background(), []string{"some text"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

// blockingRunner blocks until its context is canceled.
type blockingRunner struct {
	started chan struct{}
}

func (r *blockingRunner) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error) {
	select {
	case r.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBatchProcessor_Process_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &blockingRunner{started: make(chan struct{}, 1)}
	processor := NewBatchProcessor(runner, 1)

	done := make(chan []*AnalysisResult, 1)
	go func() {
		done <- processor.Process(ctx, []string{"first", "second", "third"})
	}()

	<-runner.started
	cancel()

	select {
	case results := <-done:
		for _, res := range results {
			if res.Error == nil {
				t.Errorf("expected error for %q after cancel", res.Line)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Process did not return after cancel")
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{}, 2)

	results := processor.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTempFile(t, "inputs.txt", "happy day\n# comment\n\nsad day\n")

	processor := NewBatchProcessor(&fakeRunner{}, 2)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{}, 2)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.list"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadInputFile(t *testing.T) {
	path := writeTempFile(t, "inputs.txt", "happy day\n# a comment\nsad day\n   \nhappy day\nangry day   \n")

	lines, err := ReadInputFile(path)
	if err != nil {
		t.Fatalf("ReadInputFile failed: %v", err)
	}

	expected := []string{"happy day", "sad day", "angry day"}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %v", len(expected), len(lines), lines)
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("expected %q at index %d, got %q", expected[i], i, line)
		}
	}
}

func TestReadInputFile_NonExistent(t *testing.T) {
	if _, err := ReadInputFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
