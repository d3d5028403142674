package main

import (
	"fmt"
	"strings"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/copilotlabs/refdesk/internal/store"
	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultSearchLimit, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored references",
	Long: `Search stored references by title, abstract, and author text.

With the sqlite backend this is a full-text search; with the jsonl
backend it is a case-insensitive substring match.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResponse is the JSON output for the search command.
type SearchResponse struct {
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Results []reference.Record `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	var (
		results []reference.Record
		err     error
	)
	switch cfg.Backend {
	case "sqlite":
		var db *store.DB
		db, err = store.OpenDB(config.DBPath(repoRoot))
		if err != nil {
			exitWithError(ExitError, "opening database: %v", err)
		}
		defer db.Close()
		results, err = db.Search(query, searchLimit)
	default:
		results, err = searchJSONL(config.RefsPath(repoRoot), query, searchLimit)
	}
	if err != nil {
		exitWithError(ExitDataError, "searching: %v", err)
	}

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, rec := range results {
			printRecordHuman(rec)
		}
		return nil
	}

	if results == nil {
		results = []reference.Record{}
	}
	outputJSON(SearchResponse{Query: query, Count: len(results), Results: results})
	return nil
}

// searchJSONL scans the refs file for a case-insensitive substring match.
func searchJSONL(path, query string, limit int) ([]reference.Record, error) {
	refs, err := store.NewJSONL(path).All()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var out []reference.Record
	for _, rec := range refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if matchesRecord(rec, needle) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func matchesRecord(rec reference.Record, needle string) bool {
	if strings.Contains(strings.ToLower(rec.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Abstract), needle) {
		return true
	}
	for _, a := range rec.Authors {
		if strings.Contains(strings.ToLower(a.Display()), needle) {
			return true
		}
	}
	return false
}
