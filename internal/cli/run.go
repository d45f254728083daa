package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpetrenko/docsort/internal/cache"
	"github.com/mpetrenko/docsort/internal/catalog"
	"github.com/mpetrenko/docsort/internal/embed"
	"github.com/mpetrenko/docsort/internal/model"
	"github.com/mpetrenko/docsort/internal/mover"
	"github.com/mpetrenko/docsort/internal/pipeline"
	"github.com/mpetrenko/docsort/internal/worker"
)

var (
	destDir       string
	catalogPath   string
	reportPath    string
	concurrency   int
	moveFiles     bool
	dryRun        bool
	noCache       bool
	alpha         float64
	floor         float64
	ruleThreshold float64
	ruleMargin    float64
	rulePolicy    string
	embedProvider string
	embedModel    string
	embedBaseURL  string
	embedTimeout  time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <source-dir>",
	Short: "Classify a directory of documents and file them by category",
	Long: `Run discovers supported documents under the source directory,
classifies each one, writes a JSON audit report, and files classified
documents under <destination>/<category>/.

One document failing never aborts the run: failures are recorded in the
report and the exit code stays 0. A non-zero exit code means the run
itself could not start (bad catalog, bad flags).

Example:
  docsort run ./inbox --dest ./sorted --categories catalog.yaml
  docsort run ./inbox --dest ./sorted --categories catalog.yaml \
      --embed-provider openai --concurrency 8
  docsort run ./inbox --dest ./sorted --categories catalog.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&destDir, "dest", "./sorted", "destination root for classified documents")
	runCmd.Flags().StringVar(&catalogPath, "categories", "catalog.yaml", "category catalog file")
	runCmd.Flags().StringVar(&reportPath, "report", "docsort-report.json", "output JSON report path")
	runCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	runCmd.Flags().BoolVar(&moveFiles, "move", false, "move files instead of copying")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify and report without touching files")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")

	// Resolver tunables; defaults documented in DefaultConfig
	runCmd.Flags().Float64Var(&alpha, "alpha", 0.5, "blend weight: alpha*rule + (1-alpha)*semantic")
	runCmd.Flags().Float64Var(&floor, "floor", 0.3, "minimum combined score to accept a category")
	runCmd.Flags().Float64Var(&ruleThreshold, "rule-threshold", 0.75, "rule score treated as conclusive")
	runCmd.Flags().Float64Var(&ruleMargin, "rule-margin", 0.2, "required lead over runner-up (margin policy)")
	runCmd.Flags().StringVar(&rulePolicy, "rule-decision", "margin", "rule conclusiveness policy (absolute, margin)")

	// Embedding flags
	runCmd.Flags().StringVar(&embedProvider, "embed-provider", "", "embedding provider (openai, ollama; empty disables the semantic stage)")
	runCmd.Flags().StringVar(&embedModel, "embed-model", "", "embedding model (provider default when empty)")
	runCmd.Flags().StringVar(&embedBaseURL, "embed-base-url", "", "custom embedding endpoint")
	runCmd.Flags().DurationVar(&embedTimeout, "embed-timeout", 30*time.Second, "per-document embedding budget")
}

func runRun(cmd *cobra.Command, args []string) error {
	sourceDir := args[0]
	ctx := context.Background()

	cfg, err := buildRunConfig()
	if err != nil {
		return err
	}

	// Catalog problems are fatal before any document is touched
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, cat, embedder)
	if err != nil {
		return err
	}

	paths, err := pipeline.Discover(sourceDir, p.Extensions())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Source:     %s\n", sourceDir)
		fmt.Fprintf(os.Stderr, "Catalog:    %s (%s)\n", cat.Path, cat.Fingerprint)
		fmt.Fprintf(os.Stderr, "Documents:  %d\n", len(paths))
		fmt.Fprintf(os.Stderr, "Workers:    %d\n", cfg.Concurrency.Workers)
		if embedder != nil {
			fmt.Fprintf(os.Stderr, "Embeddings: %s\n", embedder.Name())
		}
		fmt.Fprintln(os.Stderr)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	decisions := processor.Process(ctx, paths)

	// Materialization is single-threaded: collision handling on the
	// destination tree must not race.
	m := mover.NewMover(destDir, cfg.Mover.Move, cfg.Mover.DryRun)
	for _, d := range decisions {
		target, err := m.Materialize(d)
		if err != nil {
			d.Stage = model.StageFailed
			d.Trace.Stage = model.StageFailed
			d.Trace.Error = err.Error()
			continue
		}
		d.Destination = target
	}

	renderer := pipeline.NewRenderer()
	report := renderer.BuildReport(sourceDir, destDir, pipeline.CatalogInfo{
		Path:        cat.Path,
		Fingerprint: cat.Fingerprint,
	}, decisions)

	if err := renderer.RenderJSON(report, reportPath); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", reportPath)
	}

	renderer.RenderSummary(report, os.Stderr)

	// Per-document failures are in the report; the run itself succeeded
	return nil
}

// buildRunConfig assembles the effective configuration from defaults
// and flags.
func buildRunConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	switch model.RuleDecisionPolicy(rulePolicy) {
	case model.PolicyAbsolute, model.PolicyMargin:
		cfg.Resolver.RuleDecision = model.RuleDecisionPolicy(rulePolicy)
	default:
		return nil, &model.ConfigurationError{
			Detail: fmt.Sprintf("unknown rule-decision policy %q (absolute, margin)", rulePolicy),
		}
	}

	if alpha < 0 || alpha > 1 {
		return nil, &model.ConfigurationError{Detail: fmt.Sprintf("alpha must be in [0,1], got %v", alpha)}
	}
	if floor < 0 || floor > 1 {
		return nil, &model.ConfigurationError{Detail: fmt.Sprintf("floor must be in [0,1], got %v", floor)}
	}

	cfg.Resolver.Alpha = alpha
	cfg.Resolver.Floor = floor
	cfg.Resolver.RuleThreshold = ruleThreshold
	cfg.Resolver.RuleMargin = ruleMargin

	cfg.Embedding.Provider = embedProvider
	cfg.Embedding.Model = embedModel
	cfg.Embedding.BaseURL = embedBaseURL
	cfg.Embedding.Timeout = embedTimeout

	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	cfg.Cache.Enabled = !noCache
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(homeDir(), ".docsort", "cache")
	}
	cfg.Mover.Move = moveFiles
	cfg.Mover.DryRun = dryRun
	cfg.Output.ReportPath = reportPath
	cfg.Output.Verbose = verbose

	// API keys come from the environment only
	if embedProvider == "openai" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embedding.APIKey == "" {
			return nil, &model.ConfigurationError{Detail: "OPENAI_API_KEY environment variable not set"}
		}
	}
	if embedProvider == "ollama" && embedBaseURL == "" {
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Embedding.BaseURL = baseURL
		}
	}

	return cfg, nil
}

// buildEmbedder constructs the embedding provider with its cache and
// rate-limit decorators. Returns nil when no provider is configured.
func buildEmbedder(cfg *model.Config) (embed.Embedder, error) {
	embedder, err := embed.NewEmbedder(embed.ConfigFromModel(cfg.Embedding))
	if err != nil {
		return nil, &model.ConfigurationError{Detail: "embedding provider", Err: err}
	}
	if embedder == nil {
		return nil, nil
	}

	modelName := cfg.Embedding.Model
	if modelName == "" {
		modelName = embed.DefaultModel(cfg.Embedding.Provider)
	}

	var wrapped embed.Embedder = embedder
	if cfg.Cache.Enabled {
		store := cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		wrapped = embed.NewCachedEmbedder(wrapped, store, modelName, cfg.Cache.TTL)
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		wrapped = embed.NewLimitedEmbedder(wrapped, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	return wrapped, nil
}
