// Package main provides the refdesk CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/scoring"
	"github.com/copilotlabs/refdesk/internal/store"
	"github.com/copilotlabs/refdesk/internal/suggest"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refdesk",
	Short: "Reference manager for research conversations",
	Long: `refdesk manages the academic references behind research conversations.

Core features:
  - Fetch paper metadata from the scholar API by DOI, keyword, or PDF
  - Score results for relevance, quality, and metadata confidence
  - Detect duplicates before they land in a conversation
  - Resolve metadata conflicts field by field when merging

Data is stored per repository in git-versionable JSONL (or SQLite).
All commands output JSON by default for AI agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	cwd, err := os.Getwd()
	if err != nil {
		os.Exit(outputError(ExitError, "getting current directory: %v", err))
	}

	repoRoot, err := config.FindRepository(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'refdesk init' to create one.", err)
	}
	return repoRoot
}

// mustLoadConfig loads repository configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenStore opens the configured store backend, exits on error.
// The second return value closes the backend; call it when done.
func mustOpenStore(repoRoot string, cfg *config.Config) (store.Store, func()) {
	switch cfg.Backend {
	case "", "jsonl":
		return store.NewJSONL(config.RefsPath(repoRoot)), func() {}
	case "sqlite":
		db, err := store.OpenDB(config.DBPath(repoRoot))
		if err != nil {
			exitWithError(ExitError, "opening database: %v", err)
		}
		return db, func() { db.Close() }
	default:
		exitWithError(ExitConfigError, "unknown store backend %q", cfg.Backend)
		return nil, nil // unreachable
	}
}

// newScholarClient builds a scholar API client from the environment and
// global config. A .env file in the working directory is honored.
func newScholarClient() *scholar.Client {
	godotenv.Load()

	var opts []scholar.ClientOption
	if key := config.GetScholarAPIKey(); key != "" {
		opts = append(opts, scholar.WithAPIKey(key))
	}
	if global, err := config.LoadGlobalConfig(); err == nil && global.ScholarBaseURL != "" {
		opts = append(opts, scholar.WithBaseURL(global.ScholarBaseURL))
	}
	return scholar.NewClient(opts...)
}

// newManager wires a suggestion manager over the given store.
func newManager(s store.Store) *suggest.Manager {
	return suggest.NewManager(s, scoring.NewScorer(scoring.DefaultWeights()))
}

// addOptions builds add options from CLI flags layered over repository
// config, which in turn is layered over the user's global config.
func addOptions(cfg *config.Config, policy string, minConfidence float64, noDedupe bool) suggest.Options {
	opts := suggest.DefaultOptions()
	if gcfg, err := config.LoadGlobalConfig(); err == nil && gcfg.MinConfidence != 0 {
		opts.MinConfidence = gcfg.MinConfidence
	}
	if cfg.MinConfidence != 0 {
		opts.MinConfidence = cfg.MinConfidence
	}
	if cfg.DuplicateThreshold != 0 {
		opts.Detect.Threshold = cfg.DuplicateThreshold
	}
	if policy != "" {
		opts.DuplicateHandling = suggest.Policy(policy)
	}
	if minConfidence != 0 {
		opts.MinConfidence = minConfidence
	}
	if noDedupe {
		opts.SkipDuplicateCheck = true
	}
	return opts
}

func validPolicy(policy string) bool {
	switch suggest.Policy(policy) {
	case "", suggest.PolicySkip, suggest.PolicyMerge, suggest.PolicyAddAnyway, suggest.PolicyPromptUser:
		return true
	}
	return false
}
