package fuse

import (
	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Engine merges per-modality emotion distributions into one ranked result
// using fixed modality weights. It is stateless and deterministic: identical
// inputs always fuse to identical output.
type Engine struct {
	weights     model.WeightsConfig
	topK        int
	renormalize bool
}

// NewEngine creates a fusion engine from configuration.
func NewEngine(cfg model.Config) *Engine {
	topK := cfg.Fusion.TopK
	if topK <= 0 {
		topK = model.DefaultConfig().Fusion.TopK
	}
	return &Engine{
		weights:     cfg.Weights,
		topK:        topK,
		renormalize: cfg.Fusion.RenormalizeWeights,
	}
}

// Fuse accumulates confidence * weight per label across the supplied
// distributions, ranks the totals, and truncates to the top entries.
//
// Weights are not renormalized when modalities are absent, so combined
// confidences can legitimately sum to less than 100 with fewer than three
// modalities (the renormalize option divides by the present-weight sum for
// callers that need comparable totals). Ties rank by the order labels were
// first encountered scanning text, then audio, then visual. The truncated
// result keeps its raw weighted sums; it is not re-scaled.
//
// Supplying no non-empty distributions returns model.ErrNoInput.
func (e *Engine) Fuse(distributions map[model.Modality]model.EmotionDistribution) (*model.CombinedResult, error) {
	totals := make(map[string]float64)
	var order []string
	var contributed []model.Modality
	var weightSum float64

	for _, m := range model.ModalityOrder {
		dist, ok := distributions[m]
		if !ok || len(dist) == 0 {
			continue
		}
		contributed = append(contributed, m)

		w := e.weights.For(m)
		weightSum += w
		for _, s := range dist {
			if _, seen := totals[s.Emotion]; !seen {
				order = append(order, s.Emotion)
			}
			totals[s.Emotion] += s.Confidence * w
		}
	}

	if len(contributed) == 0 {
		return nil, model.ErrNoInput
	}

	if e.renormalize && weightSum > 0 {
		for label := range totals {
			totals[label] /= weightSum
		}
	}

	combined := make(model.EmotionDistribution, 0, len(order))
	for _, label := range order {
		combined = append(combined, model.EmotionScore{Emotion: label, Confidence: totals[label]})
	}
	// Stable sort on the first-encountered ordering implements the tie rule.
	combined.Sort()

	if len(combined) > e.topK {
		combined = combined[:e.topK]
	}

	return &model.CombinedResult{
		Emotions:   combined,
		Modalities: contributed,
	}, nil
}
