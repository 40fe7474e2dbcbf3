package model

import (
	"fmt"
	"time"
)

// Allowed file extensions per modality. The HTTP server ignores uploads
// outside these sets; batch mode uses them to route input lines to a
// modality.
var (
	AudioExtensions = map[string]bool{
		".wav": true, ".mp3": true, ".flac": true, ".m4a": true, ".ogg": true,
	}
	ImageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true,
	}
	TextExtensions = map[string]bool{
		".txt": true,
	}
)

// TransportMode selects how modality analysis is performed. It is resolved
// once per pipeline construction from explicit configuration; there is no
// background backend polling and no process-wide reachability state.
type TransportMode string

const (
	TransportMock   TransportMode = "mock"   // Local heuristic analyzers only
	TransportRemote TransportMode = "remote" // Remote backend with local fallback
)

// Config is the complete runtime configuration.
type Config struct {
	Weights     WeightsConfig     `yaml:"weights"`
	Fusion      FusionConfig      `yaml:"fusion"`
	Analyzers   AnalyzersConfig   `yaml:"analyzers"`
	Remote      RemoteConfig      `yaml:"remote"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// WeightsConfig holds the per-modality fusion weights. The weights are fixed
// configuration and are not renormalized when a modality is absent (see
// FusionConfig.RenormalizeWeights for the opt-in alternative).
type WeightsConfig struct {
	Text   float64 `yaml:"text"`
	Audio  float64 `yaml:"audio"`
	Visual float64 `yaml:"visual"`
}

// For returns the weight for a modality (0 for unknown modalities).
func (w WeightsConfig) For(m Modality) float64 {
	switch m {
	case ModalityText:
		return w.Text
	case ModalityAudio:
		return w.Audio
	case ModalityVisual:
		return w.Visual
	}
	return 0
}

// FusionConfig controls the combination step.
type FusionConfig struct {
	TopK               int  `yaml:"top_k"`               // Max entries in the combined result
	RenormalizeWeights bool `yaml:"renormalize_weights"` // Divide by present-modality weight sum
}

// AnalyzersConfig selects and seeds the modality analyzers.
type AnalyzersConfig struct {
	TextProvider string       `yaml:"text_provider"` // "keyword" or "openai"
	Seed         int64        `yaml:"seed"`          // Heuristic RNG seed; 0 = time-seeded
	OpenAI       OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig configures the optional LLM-backed text analyzer.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"` // Override for OpenAI-compatible endpoints
	Model   string `yaml:"model"`
}

// RemoteConfig configures the remote analysis backend client.
type RemoteConfig struct {
	Mode              TransportMode `yaml:"mode"` // mock or remote
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty"`  // Overrides HTTP_PROXY
	HTTPSProxy        string        `yaml:"https_proxy,omitempty"` // Overrides HTTPS_PROXY
}

// CacheConfig configures the analysis result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend"` // memory, disk, or layered
	Dir     string        `yaml:"dir"`     // Disk cache directory
	TTL     time.Duration `yaml:"ttl"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// ConcurrencyConfig controls batch processing parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"` // json or text
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Weights: WeightsConfig{
			Text:   0.4,
			Audio:  0.3,
			Visual: 0.3,
		},
		Fusion: FusionConfig{
			TopK:               5,
			RenormalizeWeights: false,
		},
		Analyzers: AnalyzersConfig{
			TextProvider: "keyword",
			OpenAI: OpenAIConfig{
				Model: "gpt-4o-mini",
			},
		},
		Remote: RemoteConfig{
			Mode:              TransportMock,
			BaseURL:           "http://localhost:5000",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5.0,
			BurstSize:         10,
		},
		Cache: CacheConfig{
			Enabled: false,
			Backend: "memory",
			Dir:     ".emorec-cache",
			TTL:     15 * time.Minute,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           5000,
			MaxUploadBytes: 16 * 1024 * 1024,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose: false,
			Format:  "json",
		},
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	for _, m := range ModalityOrder {
		w := c.Weights.For(m)
		if w < 0 || w > 1 {
			return fmt.Errorf("weight for %s must be in [0,1], got %g", m, w)
		}
	}
	if c.Fusion.TopK < 1 {
		return fmt.Errorf("fusion top_k must be positive, got %d", c.Fusion.TopK)
	}
	switch c.Remote.Mode {
	case TransportMock, TransportRemote:
	default:
		return fmt.Errorf("unknown transport mode %q (want %q or %q)", c.Remote.Mode, TransportMock, TransportRemote)
	}
	if c.Remote.Mode == TransportRemote && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote mode requires a base_url")
	}
	switch c.Cache.Backend {
	case "memory", "disk", "layered":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Concurrency.Workers)
	}
	return nil
}
