package analyzer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
	"golang.org/x/net/html"
)

// maxTextLen bounds the text input after preprocessing.
const maxTextLen = 500

// keywordGroup maps a set of trigger words to one emotion with a confidence
// range; a matched group contributes one score drawn from [lo, hi).
type keywordGroup struct {
	emotion string
	words   []string
	lo, hi  float64
}

// TextAnalyzer scans text for emotion keyword groups, standing in for a
// trained classifier: matched groups each contribute one score, and text
// with no matches falls back to a small random distribution so the contract
// (non-empty, normalized) always holds.
type TextAnalyzer struct {
	groups []keywordGroup
	rng    *lockedRand
}

// NewTextAnalyzer creates a keyword-based text analyzer. Seed zero selects a
// time-based seed; a fixed seed makes output reproducible.
func NewTextAnalyzer(seed int64) *TextAnalyzer {
	return &TextAnalyzer{
		groups: []keywordGroup{
			{model.EmotionJoy, []string{"happy", "excited", "great", "joy", "wonderful", "amazing", "delighted", "love"}, 75, 95},
			{model.EmotionSadness, []string{"sad", "unhappy", "depressed", "miserable", "heartbroken", "crying"}, 70, 92},
			{model.EmotionAnger, []string{"angry", "furious", "mad", "annoyed", "frustrated", "hate"}, 70, 92},
			{model.EmotionFear, []string{"nervous", "afraid", "scared", "anxious", "worried", "terrified"}, 65, 90},
			{model.EmotionSurprise, []string{"surprised", "shocked", "unexpected", "astonished", "unbelievable"}, 60, 88},
			{model.EmotionDisgust, []string{"disgusted", "gross", "awful", "horrible", "revolting"}, 60, 88},
			{model.EmotionNeutral, []string{"okay", "fine", "normal", "alright", "average"}, 40, 70},
		},
		rng: newLockedRand(seed),
	}
}

// Name returns the analyzer name
func (a *TextAnalyzer) Name() string {
	return "text-keyword"
}

// IsAvailable always reports true: the heuristic has no external dependency.
func (a *TextAnalyzer) IsAvailable(ctx context.Context) bool {
	return true
}

// Analyze scans the preprocessed text case-insensitively for keyword groups.
// Each matched group contributes one score from its confidence range; zero
// matches fall back to three random labels from the canonical set with
// confidences in [20,80). The result is normalized to sum to 100.
func (a *TextAnalyzer) Analyze(ctx context.Context, in Input) (model.EmotionDistribution, error) {
	text := PreprocessText(in.Text)
	if text == "" {
		return nil, model.NewAnalysisError(model.ModalityText, fmt.Errorf("text is empty after preprocessing"))
	}

	lower := strings.ToLower(text)

	var dist model.EmotionDistribution
	for _, group := range a.groups {
		for _, word := range group.words {
			if strings.Contains(lower, word) {
				dist = append(dist, model.EmotionScore{
					Emotion:    group.emotion,
					Confidence: group.lo + a.rng.Float64()*(group.hi-group.lo),
				})
				break // One score per group
			}
		}
	}

	if len(dist) == 0 {
		for _, idx := range a.rng.Perm(len(model.CanonicalLabels))[:3] {
			dist = append(dist, model.EmotionScore{
				Emotion:    model.CanonicalLabels[idx],
				Confidence: 20 + a.rng.Float64()*60,
			})
		}
	}

	return dist.Normalized(), nil
}

// PreprocessText prepares raw input for keyword scanning: markup is stripped
// when the input looks like HTML, whitespace is collapsed, and the result is
// truncated to maxTextLen characters.
func PreprocessText(text string) string {
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		if doc, err := html.Parse(strings.NewReader(text)); err == nil {
			text = visibleText(doc)
		}
	}

	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) > maxTextLen {
		runes := []rune(text)
		text = string(runes[:maxTextLen])
	}
	return text
}

// visibleText extracts text nodes from parsed HTML, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
