package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/analyzer"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/cache"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/fuse"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

// Pipeline orchestrates one complete analysis: per-modality scoring run
// concurrently, fusion, insight, report assembly. A pipeline is safe for
// concurrent use; all per-request state lives on the stack.
type Pipeline struct {
	analyzers map[model.Modality]analyzer.Analyzer
	fallbacks map[model.Modality]analyzer.Analyzer
	engine    *fuse.Engine
	insight   *fuse.Generator
	cache     cache.Cache
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a pipeline from configuration. The transport mode is resolved
// here, exactly once: mock mode wires the local heuristic analyzers, remote
// mode wires backend clients with local heuristics as transport-failure
// fallbacks. There is no background reachability polling.
func New(cfg model.Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		analyzers: make(map[model.Modality]analyzer.Analyzer),
		fallbacks: make(map[model.Modality]analyzer.Analyzer),
		engine:    fuse.NewEngine(cfg),
		insight:   fuse.NewGenerator(),
		logger:    logger,
		now:       time.Now,
	}

	switch cfg.Remote.Mode {
	case model.TransportRemote:
		// Fallbacks stay on the keyword provider: a degraded request must
		// not depend on LLM credentials being present.
		localCfg := cfg
		localCfg.Analyzers.TextProvider = "keyword"
		for _, m := range model.ModalityOrder {
			p.analyzers[m] = analyzer.NewRemoteAnalyzer(m, cfg.Remote)
			fallback, err := analyzer.New(m, localCfg)
			if err != nil {
				return nil, fmt.Errorf("create %s fallback analyzer: %w", m, err)
			}
			p.fallbacks[m] = fallback
		}
	default:
		for _, m := range model.ModalityOrder {
			a, err := analyzer.New(m, cfg)
			if err != nil {
				return nil, fmt.Errorf("create %s analyzer: %w", m, err)
			}
			p.analyzers[m] = a
		}
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("create cache: %w", err)
		}
		p.cache = c
		p.cacheTTL = cfg.Cache.TTL
	}

	return p, nil
}

// modalityOutcome carries one analysis goroutine's result back to the
// collector.
type modalityOutcome struct {
	dist    model.EmotionDistribution
	warning string
	err     error
}

// Analyze runs the full pipeline for one request.
//
// Supplied modalities are analyzed concurrently. A modality whose analyzer
// fails is dropped with a warning rather than failing the request; transport
// failures fall back to the local analyzer first. The request as a whole
// fails only when it was empty or every supplied modality failed, both
// reported as model.ErrNoInput.
func (p *Pipeline) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.Report, error) {
	if req == nil || req.Empty() {
		return nil, model.ErrNoInput
	}

	start := p.now()

	var key string
	if p.cache != nil {
		key = cache.Key(model.Version, req)
		if data, found := p.cache.Get(key); found {
			var cached model.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				p.logger.Debug("cache hit", "analysis_id", cached.AnalysisID)
				return &cached, nil
			}
			// Unreadable entries are dropped and recomputed.
			_ = p.cache.Delete(key)
		}
	}

	modalities := req.Modalities()
	outcomes := make([]modalityOutcome, len(modalities))

	var wg sync.WaitGroup
	for i, m := range modalities {
		wg.Add(1)
		go func(idx int, m model.Modality) {
			defer wg.Done()
			outcomes[idx] = p.analyzeModality(ctx, m, req)
		}(i, m)
	}
	wg.Wait()

	report := &model.Report{
		Version:    model.Version,
		Timestamp:  start.UTC(),
		AnalysisID: model.NewAnalysisID(start),
	}

	distributions := make(map[model.Modality]model.EmotionDistribution)
	for i, m := range modalities {
		o := outcomes[i]
		if o.warning != "" {
			report.Warnings = append(report.Warnings, o.warning)
		}
		if o.err != nil {
			p.logger.Warn("modality analysis failed", "modality", m, "error", o.err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s analysis skipped: %v", m, o.err))
			continue
		}
		distributions[m] = o.dist
		report.SetDistribution(m, o.dist)
	}

	if len(distributions) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("all supplied modalities failed: %w", model.ErrNoInput)
	}

	combined, err := p.engine.Fuse(distributions)
	if err != nil {
		return nil, fmt.Errorf("fuse: %w", err)
	}

	report.Combined = combined.Emotions
	report.Modalities = combined.Modalities
	report.Insight = p.insight.Insight(combined)
	report.ProcessingTime = fmt.Sprintf("%.2fs", p.now().Sub(start).Seconds())

	if p.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			if err := p.cache.Set(key, data, p.cacheTTL); err != nil {
				p.logger.Warn("cache write failed", "error", err)
			}
		}
	}

	return report, nil
}

// analyzeModality runs one modality's analyzer, degrading to the local
// fallback on transport failures.
func (p *Pipeline) analyzeModality(ctx context.Context, m model.Modality, req *model.AnalysisRequest) modalityOutcome {
	in := inputFor(m, req)

	dist, err := p.analyzers[m].Analyze(ctx, in)
	if err == nil {
		return modalityOutcome{dist: dist}
	}

	var terr *model.TransportError
	if errors.As(err, &terr) {
		if fallback, ok := p.fallbacks[m]; ok {
			p.logger.Warn("backend unreachable, using local analyzer",
				"modality", m, "endpoint", terr.Endpoint, "error", terr.Err)
			dist, ferr := fallback.Analyze(ctx, in)
			if ferr == nil {
				return modalityOutcome{
					dist:    dist,
					warning: fmt.Sprintf("%s backend unavailable, local analyzer used", m),
				}
			}
			err = ferr
		}
	}

	return modalityOutcome{err: err}
}

// inputFor selects the request fields a modality's analyzer consumes.
func inputFor(m model.Modality, req *model.AnalysisRequest) analyzer.Input {
	switch m {
	case model.ModalityText:
		return analyzer.Input{Text: req.Text}
	case model.ModalityAudio:
		return analyzer.Input{Data: req.AudioData, Filename: req.AudioName}
	case model.ModalityVisual:
		return analyzer.Input{Data: req.ImageData, Filename: req.ImageName}
	}
	return analyzer.Input{}
}

// AnalyzerStatus describes one modality analyzer for status reporting.
type AnalyzerStatus struct {
	Name      string
	Available bool
}

// Status probes each analyzer's availability. Local heuristics always report
// available; remote clients check the backend health endpoint.
func (p *Pipeline) Status(ctx context.Context) map[model.Modality]AnalyzerStatus {
	out := make(map[model.Modality]AnalyzerStatus, len(p.analyzers))
	for m, a := range p.analyzers {
		out[m] = AnalyzerStatus{
			Name:      a.Name(),
			Available: a.IsAvailable(ctx),
		}
	}
	return out
}
