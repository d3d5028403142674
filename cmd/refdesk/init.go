package main

import (
	"fmt"
	"os"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new refdesk repository",
	Long: `Initialize a new refdesk repository in the current directory.

Creates:
  .refdesk/
  ├── refs.jsonl      # Empty file
  ├── config.json     # Default config
  └── cache/          # Empty directory (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a refdesk repository")
	}

	if err := os.MkdirAll(config.RefdeskPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .refdesk directory: %v", err)
	}
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	refsFile, err := os.Create(config.RefsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating refs.jsonl: %v", err)
	}
	refsFile.Close()

	cfg := &config.Config{Backend: "jsonl"}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized refdesk repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}

	return nil
}
