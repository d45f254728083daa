package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/mpetrenko/docsort/internal/model"
)

func resetRunFlags() {
	destDir = "./sorted"
	catalogPath = "catalog.yaml"
	reportPath = "docsort-report.json"
	concurrency = 2
	moveFiles = false
	dryRun = false
	noCache = false
	alpha = 0.5
	floor = 0.3
	ruleThreshold = 0.75
	ruleMargin = 0.2
	rulePolicy = "margin"
	embedProvider = ""
	embedModel = ""
	embedBaseURL = ""
	embedTimeout = 30 * time.Second
}

func TestBuildRunConfig_Defaults(t *testing.T) {
	resetRunFlags()

	cfg, err := buildRunConfig()
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}

	if cfg.Resolver.RuleDecision != model.PolicyMargin {
		t.Errorf("RuleDecision = %q", cfg.Resolver.RuleDecision)
	}
	if cfg.Resolver.Alpha != 0.5 || cfg.Resolver.Floor != 0.3 {
		t.Errorf("Alpha = %v, Floor = %v", cfg.Resolver.Alpha, cfg.Resolver.Floor)
	}
	if cfg.Concurrency.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Concurrency.Workers)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache enabled by default")
	}
	if cfg.Cache.Dir == "" {
		t.Error("cache dir must be resolved")
	}
}

func TestBuildRunConfig_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		tweak func()
	}{
		{"bad policy", func() { rulePolicy = "fuzzy" }},
		{"alpha above one", func() { alpha = 1.5 }},
		{"alpha negative", func() { alpha = -0.1 }},
		{"floor above one", func() { floor = 2 }},
		{"openai without key", func() {
			embedProvider = "openai"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetRunFlags()
			t.Setenv("OPENAI_API_KEY", "")
			tc.tweak()

			_, err := buildRunConfig()
			if err == nil {
				t.Fatal("expected an error")
			}
			var cfgErr *model.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error type = %T, want *model.ConfigurationError", err)
			}
		})
	}
}

func TestBuildRunConfig_PolicyAbsolute(t *testing.T) {
	resetRunFlags()
	rulePolicy = "absolute"

	cfg, err := buildRunConfig()
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if cfg.Resolver.RuleDecision != model.PolicyAbsolute {
		t.Errorf("RuleDecision = %q", cfg.Resolver.RuleDecision)
	}
}

func TestBuildRunConfig_NoCacheFlag(t *testing.T) {
	resetRunFlags()
	noCache = true

	cfg, err := buildRunConfig()
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("--no-cache must disable the cache")
	}
}

func TestBuildRunConfig_OllamaBaseURLFromEnv(t *testing.T) {
	resetRunFlags()
	embedProvider = "ollama"
	t.Setenv("OLLAMA_BASE_URL", "http://rig:11434")

	cfg, err := buildRunConfig()
	if err != nil {
		t.Fatalf("buildRunConfig: %v", err)
	}
	if cfg.Embedding.BaseURL != "http://rig:11434" {
		t.Errorf("BaseURL = %q", cfg.Embedding.BaseURL)
	}
}

func TestBuildEmbedder_Disabled(t *testing.T) {
	resetRunFlags()

	cfg, err := buildRunConfig()
	if err != nil {
		t.Fatal(err)
	}

	e, err := buildEmbedder(cfg)
	if err != nil {
		t.Fatalf("buildEmbedder: %v", err)
	}
	if e != nil {
		t.Error("no provider configured: embedder must be nil")
	}
}

func TestBuildEmbedder_DecoratorsApplied(t *testing.T) {
	resetRunFlags()
	embedProvider = "ollama"

	cfg, err := buildRunConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Cache.Dir = t.TempDir()

	e, err := buildEmbedder(cfg)
	if err != nil {
		t.Fatalf("buildEmbedder: %v", err)
	}
	if e == nil {
		t.Fatal("embedder must be built for a configured provider")
	}
	// Outermost decorator is the rate limiter; the provider name
	// threads through all layers.
	if e.Name() != "ollama" {
		t.Errorf("Name = %q", e.Name())
	}
}
