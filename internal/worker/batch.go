package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Runner runs one analysis. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error)
}

// AnalysisJob analyzes one batch input line.
type AnalysisJob struct {
	Line   string
	Runner Runner
}

// Execute builds the request for the line and runs it.
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	req, err := RequestFromLine(j.Line)
	if err != nil {
		return &AnalysisResult{Line: j.Line, Error: err}
	}

	report, err := j.Runner.Analyze(ctx, req)
	if err != nil {
		return &AnalysisResult{Line: j.Line, Error: err}
	}
	return &AnalysisResult{Line: j.Line, Report: report}
}

// AnalysisResult is the outcome of one batch line.
type AnalysisResult struct {
	Line   string
	Report *model.Report
	Error  error
}

// Err returns the per-line failure, if any.
func (r *AnalysisResult) Err() error { return r.Error }

// RequestFromLine routes an input line to a modality by file extension.
// Lines with a known audio, image, or .txt extension are read as files;
// anything else is analyzed as literal text.
func RequestFromLine(line string) (*model.AnalysisRequest, error) {
	ext := strings.ToLower(filepath.Ext(line))

	switch {
	case model.AudioExtensions[ext]:
		data, err := os.ReadFile(line)
		if err != nil {
			return nil, fmt.Errorf("read audio: %w", err)
		}
		return &model.AnalysisRequest{AudioData: data, AudioName: filepath.Base(line)}, nil

	case model.ImageExtensions[ext]:
		data, err := os.ReadFile(line)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return &model.AnalysisRequest{ImageData: data, ImageName: filepath.Base(line)}, nil

	case model.TextExtensions[ext]:
		data, err := os.ReadFile(line)
		if err != nil {
			return nil, fmt.Errorf("read text: %w", err)
		}
		return &model.AnalysisRequest{Text: string(data)}, nil
	}

	return &model.AnalysisRequest{Text: line}, nil
}

// BatchProcessor analyzes many inputs concurrently.
type BatchProcessor struct {
	runner  Runner
	workers int
}

// NewBatchProcessor creates a batch processor with the given parallelism.
func NewBatchProcessor(runner Runner, workers int) *BatchProcessor {
	return &BatchProcessor{
		runner:  runner,
		workers: workers,
	}
}

// Process analyzes the given input lines concurrently. Canceling ctx stops
// the pool; lines that never ran are absent from the results.
func (b *BatchProcessor) Process(ctx context.Context, lines []string) []*AnalysisResult {
	if len(lines) == 0 {
		return []*AnalysisResult{}
	}

	pool := NewPool(b.workers)
	pool.Start()

	stop := context.AfterFunc(ctx, pool.Shutdown)
	defer stop()

	for _, line := range lines {
		pool.Submit(&AnalysisJob{Line: line, Runner: b.runner})
	}

	results := pool.Wait()

	out := make([]*AnalysisResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalysisResult)
	}
	return out
}

// ProcessFile reads input lines from a file and analyzes them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*AnalysisResult, error) {
	lines, err := ReadInputFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inputs: %w", err)
	}
	return b.Process(ctx, lines), nil
}

// ReadInputFile reads batch input lines, skipping blanks and '#' comments
// and dropping duplicate lines.
func ReadInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
