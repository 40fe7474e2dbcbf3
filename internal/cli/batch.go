package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/pipeline"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/worker"
)

var (
	batchWorkers int
	batchOutput  string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple inputs from a file in parallel",
	Long: `Batch analyzes many inputs concurrently using a worker pool.

The input file lists one item per line: a path to an audio or image
file, a path to a .txt file (analyzed as text), or literal text. Blank
lines and lines starting with '#' are skipped; duplicate lines run once.

The JSON summary goes to stdout or to --output; progress goes to stderr.

Example:
  emorec batch inputs.txt
  emorec batch inputs.txt --workers 8 --output results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write the JSON summary to this file instead of stdout")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	registerCommonFlags(batchCmd)
}

// batchEntry is one input line's outcome in the summary document.
type batchEntry struct {
	Input  string        `json:"input"`
	Report *model.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// batchSummary is the document emitted once the whole batch has finished.
type batchSummary struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Elapsed   string       `json:"elapsed"`
	Results   []batchEntry `json:"results"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Build configuration
	cfg := loadConfig()
	applyCommonFlags(cmd, &cfg)
	if cmd.Flags().Changed("workers") {
		cfg.Concurrency.Workers = batchWorkers
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Emorec Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", cfg.Remote.Mode)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Fprintf(os.Stderr, "⚙️  Reading inputs from file...\n")
	lines, err := worker.ReadInputFile(file)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("no inputs found in %s", file)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d inputs\n", len(lines))
	fmt.Fprintf(os.Stderr, "\n")

	// Create pipeline and batch processor
	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return err
	}
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing inputs with %d workers...\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	start := time.Now()
	resCh := make(chan []*worker.AnalysisResult, 1)
	go func() { resCh <- processor.Process(ctx, lines) }()

	// Heartbeat so long batches are visibly alive
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	var results []*worker.AnalysisResult
	for results == nil {
		select {
		case results = <-resCh:
		case <-ticker.C:
			fmt.Fprintf(os.Stderr, "⚙️  Still running (%s elapsed)...\n", time.Since(start).Round(time.Second))
		}
	}

	// Process results
	summary := batchSummary{
		Total:   len(results),
		Elapsed: time.Since(start).Round(10 * time.Millisecond).String(),
		Results: make([]batchEntry, 0, len(results)),
	}
	for _, result := range results {
		entry := batchEntry{Input: result.Line}
		if result.Error != nil {
			entry.Error = result.Error.Error()
			summary.Failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", truncateLine(result.Line), result.Error)
		} else {
			entry.Report = result.Report
			summary.Succeeded++
			fmt.Fprintf(os.Stderr, "✓ %s (top: %s)\n", truncateLine(result.Line), topEmotion(result.Report))
		}
		summary.Results = append(summary.Results, entry)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d inputs\n", summary.Total)
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", summary.Succeeded)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", summary.Failed)
	fmt.Fprintf(os.Stderr, "  Elapsed:   %s\n", summary.Elapsed)
	fmt.Fprintf(os.Stderr, "\n")

	out := os.Stdout
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if batchOutput != "" {
		fmt.Fprintf(os.Stderr, "✓ Summary written to %s\n", batchOutput)
	}
	return nil
}

// topEmotion names the strongest combined emotion for progress lines.
func topEmotion(r *model.Report) string {
	if r == nil || len(r.Combined) == 0 {
		return "none"
	}
	return r.Combined[0].Emotion
}

// truncateLine keeps progress lines to one terminal row.
func truncateLine(s string) string {
	if len(s) <= 60 {
		return s
	}
	return s[:57] + "..."
}
