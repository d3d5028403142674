package main

import (
	"fmt"
	"os"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/copilotlabs/refdesk/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite database from refs.jsonl",
	Long: `Rebuild the SQLite database from the refs.jsonl file.

The database is recreated from scratch, preserving record IDs and
timestamps. Run this after switching the backend to sqlite, or if the
database is lost or corrupted.`,
	RunE: runRebuild,
}

// RebuildResponse is the JSON output for the rebuild command.
type RebuildResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Path   string `json:"path"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	refs, err := store.NewJSONL(config.RefsPath(repoRoot)).All()
	if err != nil {
		exitWithError(ExitDataError, "reading refs: %v", err)
	}

	dbPath := config.DBPath(repoRoot)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		exitWithError(ExitError, "removing old database: %v", err)
	}

	db, err := store.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "creating database: %v", err)
	}
	defer db.Close()

	if err := db.Load(refs); err != nil {
		exitWithError(ExitDataError, "loading references: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt database with %d references at %s\n", len(refs), dbPath)
	} else {
		outputJSON(RebuildResponse{Status: "rebuilt", Count: len(refs), Path: dbPath})
	}
	return nil
}
