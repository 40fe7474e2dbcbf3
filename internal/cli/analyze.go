package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/pipeline"
)

var (
	analyzeText    string
	analyzeAudio   string
	analyzeImage   string
	outputFormat   string
	analyzeTimeout time.Duration

	// Shared with serve and batch
	transportMode string
	backendURL    string
	seed          int64
	noCache       bool
	textProvider  string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze emotions from text, audio, and image inputs",
	Long: `Analyze runs a single emotion analysis over any combination of a
text snippet, a WAV audio file, and an image file. At least one input
is required.

The report lists per-modality emotion scores, the weighted combined
ranking, and a short insight message.

Example:
  emorec analyze --text "I am happy and excited today"
  emorec analyze --audio clip.wav --image face.png
  emorec analyze --text "what a day" --format text --seed 42`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "text to analyze")
	analyzeCmd.Flags().StringVar(&analyzeAudio, "audio", "", "path to an audio file (wav)")
	analyzeCmd.Flags().StringVar(&analyzeImage, "image", "", "path to an image file (jpg, png, bmp, gif)")
	analyzeCmd.Flags().StringVar(&outputFormat, "format", "json", "output format (json, text)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 60*time.Second, "analysis timeout")
	registerCommonFlags(analyzeCmd)
}

// registerCommonFlags adds the flags shared by analyze, serve, and batch.
func registerCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&transportMode, "mode", string(model.TransportMock), "analysis mode (mock, remote)")
	cmd.Flags().StringVar(&backendURL, "backend", "", "remote backend base URL (remote mode)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "heuristic random seed (0 = time-based)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&textProvider, "text-provider", "", "text analyzer backend (keyword, openai)")
}

// applyCommonFlags overlays the shared flags onto cfg when set.
func applyCommonFlags(cmd *cobra.Command, cfg *model.Config) {
	if cmd.Flags().Changed("mode") {
		cfg.Remote.Mode = model.TransportMode(transportMode)
	}
	if cmd.Flags().Changed("backend") {
		cfg.Remote.BaseURL = backendURL
	}
	if cmd.Flags().Changed("seed") {
		cfg.Analyzers.Seed = seed
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("text-provider") {
		cfg.Analyzers.TextProvider = textProvider
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := loadConfig()
	applyCommonFlags(cmd, &cfg)
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = outputFormat
	}

	req := &model.AnalysisRequest{Text: analyzeText}
	if analyzeAudio != "" {
		data, err := os.ReadFile(analyzeAudio)
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
		req.AudioData = data
		req.AudioName = filepath.Base(analyzeAudio)
	}
	if analyzeImage != "" {
		data, err := os.ReadFile(analyzeImage)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		req.ImageData = data
		req.ImageName = filepath.Base(analyzeImage)
	}
	if req.Empty() {
		return model.ErrNoInput
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Modalities: %v\n", req.Modalities())
		fmt.Fprintf(os.Stderr, "Mode: %s\n", cfg.Remote.Mode)
	}

	p, err := pipeline.New(cfg, newLogger())
	if err != nil {
		return err
	}

	report, err := p.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return pipeline.NewRenderer(cfg.Output.Format).Render(os.Stdout, report)
}
