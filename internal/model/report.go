package model

import (
	"fmt"
	"time"
)

// Version is the service version reported by the API and the CLI.
const Version = "9.0.0"

// AnalysisRequest carries the inputs for one analysis call. It is constructed
// once per user-initiated analysis, never mutated, and discarded after the
// report is produced. Nothing is persisted across requests.
type AnalysisRequest struct {
	Text      string // Optional free text (bounded during preprocessing)
	AudioData []byte // Optional raw audio file contents
	AudioName string // Original audio filename (extension drives validation)
	ImageData []byte // Optional raw image file contents
	ImageName string // Original image filename
}

// HasText reports whether the request carries a non-blank text input.
func (r *AnalysisRequest) HasText() bool {
	for _, c := range r.Text {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return true
		}
	}
	return false
}

// HasAudio reports whether the request carries audio data.
func (r *AnalysisRequest) HasAudio() bool { return len(r.AudioData) > 0 }

// HasImage reports whether the request carries image data.
func (r *AnalysisRequest) HasImage() bool { return len(r.ImageData) > 0 }

// Empty reports whether no modality was supplied at all.
func (r *AnalysisRequest) Empty() bool {
	return !r.HasText() && !r.HasAudio() && !r.HasImage()
}

// Modalities returns the supplied modalities in fixed scan order.
func (r *AnalysisRequest) Modalities() []Modality {
	var out []Modality
	if r.HasText() {
		out = append(out, ModalityText)
	}
	if r.HasAudio() {
		out = append(out, ModalityAudio)
	}
	if r.HasImage() {
		out = append(out, ModalityVisual)
	}
	return out
}

// Report is the complete analysis result served by the HTTP API and printed
// by the CLI. Per-modality distributions appear only for modalities that were
// supplied and analyzed successfully.
type Report struct {
	Version    string    `json:"version"`     // Service version
	Timestamp  time.Time `json:"timestamp"`   // When the analysis started
	AnalysisID string    `json:"analysis_id"` // "analysis_<unix>"

	TextEmotions   EmotionDistribution `json:"text_emotions,omitempty"`
	AudioEmotions  EmotionDistribution `json:"audio_emotions,omitempty"`
	VisualEmotions EmotionDistribution `json:"visual_emotions,omitempty"`

	Combined   EmotionDistribution `json:"combined_emotions"` // Fused top emotions (raw weighted sums)
	Insight    string              `json:"insight"`           // Advisory text derived from Combined
	Modalities []Modality          `json:"modalities"`        // Modalities that contributed to Combined

	Warnings       []string `json:"warnings,omitempty"` // Non-fatal degradations (fallbacks, dropped modalities)
	ProcessingTime string   `json:"processing_time"`    // Wall time, "1.23s"
}

// NewAnalysisID derives the "analysis_<unix>" identifier for a report.
func NewAnalysisID(t time.Time) string {
	return fmt.Sprintf("analysis_%d", t.Unix())
}

// Distribution returns the per-modality distribution stored on the report.
func (r *Report) Distribution(m Modality) EmotionDistribution {
	switch m {
	case ModalityText:
		return r.TextEmotions
	case ModalityAudio:
		return r.AudioEmotions
	case ModalityVisual:
		return r.VisualEmotions
	}
	return nil
}

// SetDistribution stores a per-modality distribution on the report.
func (r *Report) SetDistribution(m Modality, d EmotionDistribution) {
	switch m {
	case ModalityText:
		r.TextEmotions = d
	case ModalityAudio:
		r.AudioEmotions = d
	case ModalityVisual:
		r.VisualEmotions = d
	}
}
