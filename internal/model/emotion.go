package model

import "sort"

// Modality identifies one of the three independent input channels.
type Modality string

const (
	ModalityText   Modality = "text"
	ModalityAudio  Modality = "audio"
	ModalityVisual Modality = "visual"
)

// ModalityOrder is the fixed scan order (text, audio, visual) used wherever
// deterministic iteration matters, e.g. tie-breaking during fusion.
var ModalityOrder = []Modality{ModalityText, ModalityAudio, ModalityVisual}

// Canonical emotion labels. Labels are open-ended string keys, not an enum:
// analyzers may emit lexical variants such as "happy" or "sad", and the
// fusion stage must keep variants distinct rather than folding them.
const (
	EmotionJoy      = "joy"
	EmotionSadness  = "sadness"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionNeutral  = "neutral"
	EmotionDisgust  = "disgust"
)

// CanonicalLabels lists the canonical emotion set in a fixed order.
var CanonicalLabels = []string{
	EmotionJoy,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionNeutral,
	EmotionDisgust,
}

// EmotionScore is one (label, confidence) pair. Confidence is a non-negative
// relative score; it is only bounded to a 0-100 scale after normalization.
type EmotionScore struct {
	Emotion    string  `json:"emotion"`    // Label, e.g. "joy" or a variant like "happy"
	Confidence float64 `json:"confidence"` // Relative score; percent after normalization
}

// EmotionDistribution is an ordered sequence of scores with unique labels.
// After normalization the confidences sum to 100 and are sorted descending.
type EmotionDistribution []EmotionScore

// Total returns the sum of all confidences.
func (d EmotionDistribution) Total() float64 {
	var total float64
	for _, s := range d {
		total += s.Confidence
	}
	return total
}

// Sort orders the distribution by descending confidence in place. The sort is
// stable: labels with equal confidence keep their original relative order.
func (d EmotionDistribution) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Confidence > d[j].Confidence
	})
}

// Normalized returns a sorted copy scaled so the confidences sum to 100.
// Empty and zero-total distributions are returned as copies unchanged.
func (d EmotionDistribution) Normalized() EmotionDistribution {
	if len(d) == 0 {
		return nil
	}

	out := make(EmotionDistribution, len(d))
	copy(out, d)

	total := d.Total()
	if total > 0 {
		for i := range out {
			out[i].Confidence = out[i].Confidence / total * 100
		}
	}
	out.Sort()
	return out
}

// Top returns the highest-confidence entry. The second return value is false
// for an empty distribution.
func (d EmotionDistribution) Top() (EmotionScore, bool) {
	if len(d) == 0 {
		return EmotionScore{}, false
	}
	return d[0], true
}

// Get returns the confidence for a label, or 0 and false if absent.
func (d EmotionDistribution) Get(label string) (float64, bool) {
	for _, s := range d {
		if s.Emotion == label {
			return s.Confidence, true
		}
	}
	return 0, false
}

// CombinedResult is the fused distribution, truncated to the top entries,
// tagged with the modalities that contributed to it.
type CombinedResult struct {
	Emotions   EmotionDistribution `json:"emotions"`   // Ranked fused scores (raw weighted sums)
	Modalities []Modality          `json:"modalities"` // Contributing modalities in scan order
}
