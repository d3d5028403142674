package main

import (
	"fmt"
	"strconv"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the repository configuration",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Keys:
  backend               Store backend: jsonl or sqlite
  default_conversation  Conversation used when --conversation is omitted
  min_confidence        Confidence floor for auto-add (0..1, 0 = default)
  duplicate_threshold   Similarity threshold for duplicates (0..1, 0 = default)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// ConfigUpdateResponse is the response for config set.
type ConfigUpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if humanOutput {
		fmt.Printf("backend: %s\n", orDefault(cfg.Backend, "jsonl"))
		fmt.Printf("default_conversation: %s\n", cfg.DefaultConversation)
		fmt.Printf("min_confidence: %g\n", cfg.MinConfidence)
		fmt.Printf("duplicate_threshold: %g\n", cfg.DuplicateThreshold)
	} else {
		outputJSON(cfg)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	switch key {
	case "backend":
		if err := config.ValidateBackend(value); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		cfg.Backend = value
	case "default_conversation":
		cfg.DefaultConversation = value
	case "min_confidence":
		cfg.MinConfidence = mustParseRatio(key, value)
	case "duplicate_threshold":
		cfg.DuplicateThreshold = mustParseRatio(key, value)
	default:
		exitWithError(ExitDataError, "unknown config key: %s", key)
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, value)
	} else {
		outputJSON(ConfigUpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func mustParseRatio(key, value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 || f > 1 {
		exitWithError(ExitDataError, "%s must be a number between 0 and 1", key)
	}
	return f
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
