package fuse

import (
	"errors"
	"math"
	"testing"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

func TestEngine_Fuse_SingleModalityPassThrough(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText: {
			{Emotion: "joy", Confidence: 60},
			{Emotion: "neutral", Confidence: 40},
		},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	// Text weight 0.4: each combined confidence is exactly weight * input.
	if len(combined.Emotions) != 2 {
		t.Fatalf("Expected 2 emotions, got %d", len(combined.Emotions))
	}
	if combined.Emotions[0].Emotion != "joy" || math.Abs(combined.Emotions[0].Confidence-24.0) > 1e-9 {
		t.Errorf("Expected joy 24.0, got %v", combined.Emotions[0])
	}
	if combined.Emotions[1].Emotion != "neutral" || math.Abs(combined.Emotions[1].Confidence-16.0) > 1e-9 {
		t.Errorf("Expected neutral 16.0, got %v", combined.Emotions[1])
	}

	// Weights are not renormalized: a single modality sums to its weight * 100.
	if total := combined.Emotions.Total(); total > 40.0+1e-9 {
		t.Errorf("Expected combined total <= 40 for text-only input, got %g", total)
	}

	if len(combined.Modalities) != 1 || combined.Modalities[0] != model.ModalityText {
		t.Errorf("Expected modalities [text], got %v", combined.Modalities)
	}
}

func TestEngine_Fuse_AccumulatesAcrossModalities(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText: {
			{Emotion: "joy", Confidence: 50},
			{Emotion: "fear", Confidence: 50},
		},
		model.ModalityAudio: {
			{Emotion: "joy", Confidence: 100},
		},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	// joy: 50*0.4 + 100*0.3 = 50; fear: 50*0.4 = 20.
	joy, _ := combined.Emotions.Get("joy")
	if math.Abs(joy-50) > 1e-9 {
		t.Errorf("Expected joy 50, got %g", joy)
	}
	fear, _ := combined.Emotions.Get("fear")
	if math.Abs(fear-20) > 1e-9 {
		t.Errorf("Expected fear 20, got %g", fear)
	}
	if len(combined.Modalities) != 2 {
		t.Errorf("Expected two contributing modalities, got %v", combined.Modalities)
	}
}

func TestEngine_Fuse_VariantLabelsStayDistinct(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText:  {{Emotion: "joy", Confidence: 100}},
		model.ModalityAudio: {{Emotion: "happy", Confidence: 100}},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	if _, ok := combined.Emotions.Get("joy"); !ok {
		t.Error("Expected joy to survive fusion")
	}
	if _, ok := combined.Emotions.Get("happy"); !ok {
		t.Error("Expected happy to stay distinct from joy")
	}
}

func TestEngine_Fuse_Truncation(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText: {
			{Emotion: "joy", Confidence: 40},
			{Emotion: "sadness", Confidence: 25},
			{Emotion: "anger", Confidence: 15},
		},
		model.ModalityAudio: {
			{Emotion: "happy", Confidence: 50},
			{Emotion: "sad", Confidence: 30},
		},
		model.ModalityVisual: {
			{Emotion: "surprise", Confidence: 60},
			{Emotion: "disgust", Confidence: 40},
		},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	// Seven distinct labels in, at most five out.
	if len(combined.Emotions) != 5 {
		t.Fatalf("Expected truncation to 5 entries, got %d: %v", len(combined.Emotions), combined.Emotions)
	}

	// Truncation must not rescale: every kept confidence is a raw weighted sum.
	want := map[string]float64{
		"joy":      40 * 0.4,
		"happy":    50 * 0.3,
		"surprise": 60 * 0.3,
		"sad":      30 * 0.3,
		"disgust":  40 * 0.3,
	}
	for label, expected := range want {
		got, ok := combined.Emotions.Get(label)
		if !ok {
			t.Errorf("Expected %s in top five: %v", label, combined.Emotions)
			continue
		}
		if math.Abs(got-expected) > 1e-9 {
			t.Errorf("%s: expected %g, got %g", label, expected, got)
		}
	}
}

func TestEngine_Fuse_TieBreakWithinModality(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText: {
			{Emotion: "sadness", Confidence: 50},
			{Emotion: "anger", Confidence: 50},
		},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	// Equal totals keep first-seen order.
	if combined.Emotions[0].Emotion != "sadness" || combined.Emotions[1].Emotion != "anger" {
		t.Errorf("Expected [sadness anger], got %v", combined.Emotions)
	}
}

func TestEngine_Fuse_TieBreakAcrossModalities(t *testing.T) {
	// Binary-exact weights make the cross-modality totals exactly equal.
	cfg := model.DefaultConfig()
	cfg.Weights = model.WeightsConfig{Text: 0.5, Audio: 0.25, Visual: 0.25}
	e := NewEngine(cfg)

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText:  {{Emotion: "sadness", Confidence: 24}},
		model.ModalityAudio: {{Emotion: "angry", Confidence: 48}},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	// Both total 12.0; text is scanned before audio, so sadness ranks first.
	if combined.Emotions[0].Emotion != "sadness" || combined.Emotions[1].Emotion != "angry" {
		t.Errorf("Expected sadness before angry on equal totals, got %v", combined.Emotions)
	}
}

func TestEngine_Fuse_NoInput(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	if _, err := e.Fuse(map[model.Modality]model.EmotionDistribution{}); !errors.Is(err, model.ErrNoInput) {
		t.Errorf("Expected ErrNoInput for empty mapping, got %v", err)
	}

	// Supplied but empty distributions count as absent.
	_, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText:  {},
		model.ModalityAudio: nil,
	})
	if !errors.Is(err, model.ErrNoInput) {
		t.Errorf("Expected ErrNoInput for all-empty distributions, got %v", err)
	}
}

func TestEngine_Fuse_Deterministic(t *testing.T) {
	e := NewEngine(model.DefaultConfig())

	input := map[model.Modality]model.EmotionDistribution{
		model.ModalityText: {
			{Emotion: "joy", Confidence: 55},
			{Emotion: "fear", Confidence: 45},
		},
		model.ModalityVisual: {
			{Emotion: "neutral", Confidence: 70},
			{Emotion: "happy", Confidence: 30},
		},
	}

	first, err := e.Fuse(input)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	second, err := e.Fuse(input)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	if len(first.Emotions) != len(second.Emotions) {
		t.Fatalf("Fusion not deterministic: %v vs %v", first.Emotions, second.Emotions)
	}
	for i := range first.Emotions {
		if first.Emotions[i] != second.Emotions[i] {
			t.Errorf("Fusion not deterministic at %d: %v vs %v", i, first.Emotions[i], second.Emotions[i])
		}
	}
}

func TestEngine_Fuse_RenormalizeOption(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Fusion.RenormalizeWeights = true
	e := NewEngine(cfg)

	combined, err := e.Fuse(map[model.Modality]model.EmotionDistribution{
		model.ModalityText: {
			{Emotion: "joy", Confidence: 60},
			{Emotion: "neutral", Confidence: 40},
		},
	})
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}

	// Dividing by the present-weight sum (0.4) restores the input scale.
	joy, _ := combined.Emotions.Get("joy")
	if math.Abs(joy-60) > 1e-9 {
		t.Errorf("Expected joy 60 with renormalization, got %g", joy)
	}
	if total := combined.Emotions.Total(); math.Abs(total-100) > 1e-9 {
		t.Errorf("Expected renormalized total 100, got %g", total)
	}
}
