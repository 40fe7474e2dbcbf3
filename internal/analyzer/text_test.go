package analyzer

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

func TestTextAnalyzer_Analyze_KeywordMatch(t *testing.T) {
	a := NewTextAnalyzer(42)

	dist, err := a.Analyze(context.Background(), Input{Text: "I'm so happy and excited about this!"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(dist) != 1 {
		t.Fatalf("Expected 1 emotion (one matched group), got %d: %v", len(dist), dist)
	}
	if dist[0].Emotion != "joy" {
		t.Errorf("Expected joy, got %s", dist[0].Emotion)
	}
	if math.Abs(dist[0].Confidence-100) > 1e-6 {
		t.Errorf("Expected single-entry distribution normalized to 100, got %v", dist[0].Confidence)
	}
}

func TestTextAnalyzer_Analyze_MixedKeywords(t *testing.T) {
	a := NewTextAnalyzer(42)

	dist, err := a.Analyze(context.Background(), Input{Text: "I'm happy and nervous"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(dist) != 2 {
		t.Fatalf("Expected 2 emotions, got %d: %v", len(dist), dist)
	}
	if _, ok := dist.Get("joy"); !ok {
		t.Errorf("Expected joy in distribution: %v", dist)
	}
	if _, ok := dist.Get("fear"); !ok {
		t.Errorf("Expected fear in distribution: %v", dist)
	}
	assertNormalized(t, dist)
}

func TestTextAnalyzer_Analyze_Fallback(t *testing.T) {
	a := NewTextAnalyzer(42)

	dist, err := a.Analyze(context.Background(), Input{Text: "The quarterly report is due on Monday."})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(dist) != 3 {
		t.Fatalf("Expected 3 fallback emotions, got %d: %v", len(dist), dist)
	}
	seen := make(map[string]bool)
	for _, s := range dist {
		if seen[s.Emotion] {
			t.Errorf("Duplicate label in fallback: %s", s.Emotion)
		}
		seen[s.Emotion] = true
	}
	assertNormalized(t, dist)
}

func TestTextAnalyzer_Analyze_EmptyText(t *testing.T) {
	a := NewTextAnalyzer(42)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := a.Analyze(context.Background(), Input{Text: text}); err == nil {
			t.Errorf("Expected error for text %q, got nil", text)
		}
	}
}

func TestTextAnalyzer_Analyze_StripsMarkup(t *testing.T) {
	a := NewTextAnalyzer(42)

	dist, err := a.Analyze(context.Background(), Input{
		Text: "<html><body><script>var x = 1;</script><p>I am happy today</p></body></html>",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if dist[0].Emotion != "joy" {
		t.Errorf("Expected joy from visible text, got %v", dist)
	}
}

func TestTextAnalyzer_Analyze_Deterministic(t *testing.T) {
	first := NewTextAnalyzer(7)
	second := NewTextAnalyzer(7)

	a, err := first.Analyze(context.Background(), Input{Text: "I'm happy and nervous"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	b, err := second.Analyze(context.Background(), Input{Text: "I'm happy and nervous"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("Seeded analyzers disagree on length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Seeded analyzers disagree at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPreprocessText_Truncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := PreprocessText(long)
	if len(got) != maxTextLen {
		t.Errorf("Expected %d chars after truncation, got %d", maxTextLen, len(got))
	}
}

func TestPreprocessText_CollapsesWhitespace(t *testing.T) {
	got := PreprocessText("  hello\n\n  world\t ")
	if got != "hello world" {
		t.Errorf("Expected %q, got %q", "hello world", got)
	}
}

// assertNormalized checks the analyzer output invariant: confidences sum to
// 100 (within epsilon), are sorted descending, and are non-negative.
func assertNormalized(t *testing.T, dist model.EmotionDistribution) {
	t.Helper()
	if diff := math.Abs(dist.Total() - 100); diff > 1e-6 {
		t.Errorf("Expected confidences to sum to 100, off by %g: %v", diff, dist)
	}
	for i, s := range dist {
		if s.Confidence < 0 {
			t.Errorf("Negative confidence for %s: %v", s.Emotion, s.Confidence)
		}
		if i > 0 && dist[i-1].Confidence < s.Confidence {
			t.Errorf("Distribution not sorted descending at %d: %v", i, dist)
		}
	}
}
