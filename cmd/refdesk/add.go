package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/suggest"
	"github.com/spf13/cobra"
)

var (
	addConversation  string
	addOnDuplicate   string
	addMinConfidence float64
	addNoDedupe      bool
)

var addCmd = &cobra.Command{
	Use:   "add <doi-or-query>",
	Short: "Add a reference by fetching metadata from the scholar API",
	Long: `Add a reference to a conversation by fetching its metadata.

An argument starting with "10." is treated as a DOI and looked up
directly; anything else is a keyword search whose top result is added.

The result passes through the confidence gate and duplicate detection
before anything is persisted. A duplicate with the default prompt-user
policy is reported with its field conflicts and nothing is stored.

Examples:
  refdesk add 10.1038/nature12373 --conversation thesis-ch2
  refdesk add "transformer attention survey" --conversation thesis-ch2
  refdesk add 10.1093/sysbio/syy032 --on-duplicate merge`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addConversation, "conversation", "c", "", "Conversation to add the reference to")
	addCmd.Flags().StringVar(&addOnDuplicate, "on-duplicate", "", "Duplicate policy: skip, merge, add-anyway, prompt-user")
	addCmd.Flags().Float64Var(&addMinConfidence, "min-confidence", 0, "Confidence floor (0 = configured default, -1 = disabled)")
	addCmd.Flags().BoolVar(&addNoDedupe, "no-dedupe", false, "Skip duplicate detection")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	query := args[0]
	if !validPolicy(addOnDuplicate) {
		exitWithError(ExitDataError, "invalid --on-duplicate policy: %s", addOnDuplicate)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	conversation := conversationOrDefault(addConversation, cfg)

	result := fetchOne(query)

	st, closeStore := mustOpenStore(repoRoot, cfg)
	defer closeStore()

	mgr := newManager(st)
	opts := addOptions(cfg, addOnDuplicate, addMinConfidence, addNoDedupe)
	res := mgr.AddFromSearchResult(*result, conversation, opts)

	reportAddResult(res)
	return nil
}

// fetchOne resolves a DOI or keyword query to a single search result.
func fetchOne(query string) *scholar.SearchResult {
	ctx := context.Background()
	client := newScholarClient()

	if strings.HasPrefix(query, "10.") {
		result, err := client.LookupDOI(ctx, query)
		if err != nil {
			exitScholarError("looking up DOI", err)
		}
		return result
	}

	results, err := client.SearchPapers(ctx, query, 1)
	if err != nil {
		exitScholarError("searching papers", err)
	}
	if len(results) == 0 {
		exitWithError(ExitScholarNotFound, "no results for %q", query)
	}
	return &results[0]
}

// reportAddResult prints an AddResult and exits non-zero on rejection.
func reportAddResult(res suggest.AddResult) {
	if !humanOutput {
		outputJSON(res)
		exitForAddResult(res)
		return
	}

	switch {
	case res.Success:
		fmt.Printf("Added %s: %s\n", res.Reference.ID, res.Reference.Title)
	case res.IsDuplicate && res.MergeOptions != nil:
		fmt.Printf("Duplicate of %s: %s\n", res.Duplicate.ID, res.Duplicate.Title)
		if res.MergeOptions.HasConflicts() {
			fmt.Println("Field conflicts:")
			for _, c := range res.MergeOptions.Conflicts {
				fmt.Printf("  %-10s [%s]  %s\n", c.Field, c.Recommendation, c.DisplayDiff())
			}
		}
		fmt.Println("\nRe-run with --on-duplicate merge|skip|add-anyway to resolve.")
	case res.IsDuplicate:
		fmt.Printf("Skipped duplicate of %s\n", res.Duplicate.ID)
	default:
		fmt.Printf("Rejected: %s\n", res.Err)
	}
	exitForAddResult(res)
}

func exitForAddResult(res suggest.AddResult) {
	switch {
	case res.Success:
	case res.IsDuplicate && res.MergeOptions != nil:
		os.Exit(ExitDuplicate)
	case res.IsDuplicate:
		// Policy skip resolved the duplicate; not an error.
	default:
		os.Exit(ExitRejected)
	}
}
