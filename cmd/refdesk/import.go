package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/suggest"
	"github.com/spf13/cobra"
)

var (
	importConversation string
	importOnDuplicate  string
)

var importCmd = &cobra.Command{
	Use:   "import <results.json>",
	Short: "Add a batch of search results from a JSON file",
	Long: `Add a batch of search results to a conversation.

The file holds a JSON array of search results, the same shape the
suggest command emits. In-batch duplicates are collapsed first, so two
copies of the same paper in one file produce one stored reference; each
survivor then goes through the usual confidence gate and duplicate
check against the conversation.

Examples:
  refdesk import results.json --conversation thesis-ch2 --on-duplicate skip`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importConversation, "conversation", "c", "", "Conversation to add the references to")
	importCmd.Flags().StringVar(&importOnDuplicate, "on-duplicate", string(suggest.PolicySkip), "Duplicate policy: skip, merge, add-anyway, prompt-user")
	rootCmd.AddCommand(importCmd)
}

// ImportResponse is the JSON output for the import command.
type ImportResponse struct {
	Total   int                 `json:"total"`
	Added   int                 `json:"added"`
	Skipped int                 `json:"skipped"`
	Results []suggest.AddResult `json:"results"`
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !validPolicy(importOnDuplicate) {
		exitWithError(ExitDataError, "invalid --on-duplicate policy: %s", importOnDuplicate)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	conversation := conversationOrDefault(importConversation, cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	var results []scholar.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", path, err)
	}

	st, closeStore := mustOpenStore(repoRoot, cfg)
	defer closeStore()

	mgr := newManager(st)
	opts := addOptions(cfg, importOnDuplicate, 0, false)
	outcomes := mgr.AddMultipleFromSearchResults(results, conversation, opts)

	added := 0
	for _, res := range outcomes {
		if res.Success {
			added++
		}
	}

	if humanOutput {
		fmt.Printf("Imported %d of %d results into %s\n", added, len(results), conversation)
		for i, res := range outcomes {
			switch {
			case res.Success:
				fmt.Printf("  added   %s\n", res.Reference.ID)
			case res.IsDuplicate:
				fmt.Printf("  dupe    %s\n", truncateString(results[i].Title, ListTitleMaxLen))
			default:
				fmt.Printf("  skipped %s: %s\n", truncateString(results[i].Title, ListTitleMaxLen), res.Err)
			}
		}
		return nil
	}

	outputJSON(ImportResponse{
		Total:   len(results),
		Added:   added,
		Skipped: len(results) - added,
		Results: outcomes,
	})
	return nil
}
