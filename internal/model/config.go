package model

import (
	"runtime"
	"time"
)

// RuleDecisionPolicy names how "rules were conclusive" is judged
type RuleDecisionPolicy string

const (
	// PolicyAbsolute accepts the top rule score when it meets the threshold
	PolicyAbsolute RuleDecisionPolicy = "absolute"
	// PolicyMargin additionally requires the top score to lead the
	// runner-up by a configured margin
	PolicyMargin RuleDecisionPolicy = "margin"
)

// Config is the complete application configuration
type Config struct {
	Resolver    ResolverConfig    `yaml:"resolver"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Mover       MoverConfig       `yaml:"mover"`
	Output      OutputConfig      `yaml:"output"`
}

// ResolverConfig holds the decision policy tunables. No canonical
// values exist upstream; the defaults below are documented, not sacred.
type ResolverConfig struct {
	RuleDecision  RuleDecisionPolicy `yaml:"rule_decision"`  // absolute | margin
	RuleThreshold float64            `yaml:"rule_threshold"` // high-confidence rule score
	RuleMargin    float64            `yaml:"rule_margin"`    // required lead over runner-up (margin policy)
	Alpha         float64            `yaml:"alpha"`          // blend weight: alpha*rule + (1-alpha)*semantic
	TieEpsilon    float64            `yaml:"tie_epsilon"`    // scores within epsilon of the top are tied
	Floor         float64            `yaml:"floor"`          // minimum combined score to accept a category
}

// EmbeddingConfig configures the semantic classifier's embedding provider
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"` // openai, ollama, "" (disabled)
	Model      string        `yaml:"model"`
	APIKey     string        `yaml:"-"` // environment only, never persisted
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`     // per-document embedding budget
	ChunkRunes int           `yaml:"chunk_runes"` // chunk size for long documents
}

// CacheConfig configures the embedding vector cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig bounds the worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig bounds embedding API traffic
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// MoverConfig configures folder materialization
type MoverConfig struct {
	Move   bool `yaml:"move"` // move instead of copy
	DryRun bool `yaml:"dry_run"`
}

// OutputConfig configures report and progress output
type OutputConfig struct {
	ReportPath string `yaml:"report_path"`
	Verbose    bool   `yaml:"verbose"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Resolver: ResolverConfig{
			RuleDecision:  PolicyMargin,
			RuleThreshold: 0.75,
			RuleMargin:    0.2,
			Alpha:         0.5,
			TieEpsilon:    0.01,
			Floor:         0.3,
		},
		Embedding: EmbeddingConfig{
			Provider:   "",
			Model:      "",
			Timeout:    30 * time.Second,
			ChunkRunes: 8000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // resolved to ~/.docsort/cache at startup
			TTL:     30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Mover: MoverConfig{
			Move:   false,
			DryRun: false,
		},
		Output: OutputConfig{
			ReportPath: "docsort-report.json",
			Verbose:    false,
		},
	}
}
