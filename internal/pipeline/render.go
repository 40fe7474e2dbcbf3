package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Renderer writes analysis reports in the configured output format.
type Renderer struct {
	format string
}

// NewRenderer creates a renderer. Supported formats are "json" (default) and
// "text".
func NewRenderer(format string) *Renderer {
	return &Renderer{format: strings.ToLower(format)}
}

// Render writes the report to w.
func (r *Renderer) Render(w io.Writer, report *model.Report) error {
	if r.format == "text" {
		return r.renderText(w, report)
	}
	return r.renderJSON(w, report)
}

func (r *Renderer) renderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (r *Renderer) renderText(w io.Writer, report *model.Report) error {
	fmt.Fprintf(w, "Analysis %s (v%s)\n", report.AnalysisID, report.Version)

	for _, m := range model.ModalityOrder {
		dist := report.Distribution(m)
		if len(dist) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", title(string(m)))
		writeDistribution(w, dist)
	}

	fmt.Fprintf(w, "\nCombined:\n")
	writeDistribution(w, report.Combined)

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range report.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warning)
		}
	}

	fmt.Fprintf(w, "\nInsight: %s\n", report.Insight)
	fmt.Fprintf(w, "Processed in %s\n", report.ProcessingTime)
	return nil
}

func writeDistribution(w io.Writer, dist model.EmotionDistribution) {
	for _, s := range dist {
		fmt.Fprintf(w, "  %s %-10s %6.2f\n", model.LabelIcon(s.Emotion), s.Emotion, s.Confidence)
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
