package fuse

import (
	"fmt"
	"math"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Advisory messages, one per rule. Rules match on literal top labels, so
// lexical variants like "happy" intentionally fall through to the later
// rules.
const (
	msgNoEmotions = "No emotions detected."
	msgJoy        = "You're radiating positivity! This is a great moment to take on challenges and connect with others."
	msgFear       = "Feeling anxious is natural. Grounding techniques like slow, deep breathing can help steady you."
	msgNeutral    = "You appear calm and composed. That's a good state for focused work and thoughtful decisions."
	msgMixedFmt   = "You're experiencing a mix of %s and %s. Taking a moment to sort through your feelings can help."
	msgComplex    = "Emotions are complex, and feeling several at once is perfectly natural."
)

// Generator turns a combined distribution into a short advisory message.
type Generator struct{}

// NewGenerator creates an insight generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Insight applies the prioritized rule set to the combined result. The first
// matching rule wins: strong joy, elevated fear, elevated neutral, two
// front-runners within 20 points of each other, then a generic fallback.
// Deterministic and total; never fails.
func (g *Generator) Insight(combined *model.CombinedResult) string {
	if combined == nil || len(combined.Emotions) == 0 {
		return msgNoEmotions
	}

	top := combined.Emotions[0]
	switch {
	case top.Emotion == model.EmotionJoy && top.Confidence > 50:
		return msgJoy
	case top.Emotion == model.EmotionFear && top.Confidence > 40:
		return msgFear
	case top.Emotion == model.EmotionNeutral && top.Confidence > 40:
		return msgNeutral
	}

	if len(combined.Emotions) > 1 {
		second := combined.Emotions[1]
		if math.Abs(top.Confidence-second.Confidence) < 20 {
			return fmt.Sprintf(msgMixedFmt, top.Emotion, second.Emotion)
		}
	}

	return msgComplex
}
