package analyzer

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Input carries the raw input for one modality. Exactly one of Text or Data
// is meaningful depending on the analyzer.
type Input struct {
	Text     string // Text modality input
	Data     []byte // Audio/image file contents
	Filename string // Original filename, used for extension checks and logging
}

// Analyzer defines the interface for modality analyzers. Implementations may
// be local heuristics, remote model backends, or LLM-backed classifiers. All
// return a normalized distribution (confidences sum to 100, sorted
// descending) for well-formed input.
type Analyzer interface {
	// Name returns the analyzer name
	Name() string

	// Analyze produces a normalized emotion distribution for the input.
	// Failures to process well-formed-looking input return *model.AnalysisError;
	// remote implementations return *model.TransportError when the backend
	// cannot be reached.
	Analyze(ctx context.Context, in Input) (model.EmotionDistribution, error)

	// IsAvailable checks if the analyzer is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// New creates the analyzer for a modality based on configuration. The seed
// feeds the heuristic analyzers' randomness; zero selects a time-based seed.
func New(m model.Modality, cfg model.Config) (Analyzer, error) {
	switch m {
	case model.ModalityText:
		provider := strings.ToLower(cfg.Analyzers.TextProvider)
		switch provider {
		case "", "keyword":
			return NewTextAnalyzer(cfg.Analyzers.Seed), nil
		case "openai":
			return NewOpenAIAnalyzer(cfg.Analyzers.OpenAI)
		default:
			return nil, fmt.Errorf("unknown text provider: %s (supported: keyword, openai)", cfg.Analyzers.TextProvider)
		}

	case model.ModalityAudio:
		return NewAudioAnalyzer(cfg.Analyzers.Seed), nil

	case model.ModalityVisual:
		return NewVisualAnalyzer(cfg.Analyzers.Seed), nil

	default:
		return nil, fmt.Errorf("unknown modality: %s", m)
	}
}

// lockedRand serializes draws from a seeded rand source. Analyzer instances
// are shared across concurrent requests, and *rand.Rand is not safe for
// concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw from [0,1).
func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// NormFloat64 returns a standard normal draw.
func (r *lockedRand) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.NormFloat64()
}

// Perm returns a random permutation of [0,n).
func (r *lockedRand) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Perm(n)
}
