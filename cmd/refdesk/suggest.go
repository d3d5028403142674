package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/copilotlabs/refdesk/internal/scoring"
	"github.com/copilotlabs/refdesk/internal/suggest"
	"github.com/spf13/cobra"
)

var (
	suggestConversation string
	suggestLimit        int
	suggestMinScore     float64
	suggestYearFrom     int
	suggestYearTo       int
	suggestMinCitations int
	suggestNoDupes      bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Search and rank candidate references for a conversation",
	Long: `Search the scholar API and rank the results against what the
conversation already contains.

Each suggestion carries a relevance score, a metadata confidence score,
the score breakdown, and plain-language reasoning. Nothing is persisted;
use 'refdesk add' to keep one.

Examples:
  refdesk suggest "phylogenetic inference" --conversation thesis-ch2
  refdesk suggest "variational methods" -c thesis-ch2 --year-from 2018 --min-citations 50`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestConversation, "conversation", "c", "", "Conversation to rank against")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", DefaultSearchLimit, "Maximum number of suggestions")
	suggestCmd.Flags().Float64Var(&suggestMinScore, "min-score", 0, "Relevance floor")
	suggestCmd.Flags().IntVar(&suggestYearFrom, "year-from", 0, "Earliest publication year")
	suggestCmd.Flags().IntVar(&suggestYearTo, "year-to", 0, "Latest publication year")
	suggestCmd.Flags().IntVar(&suggestMinCitations, "min-citations", 0, "Citation floor")
	suggestCmd.Flags().BoolVar(&suggestNoDupes, "exclude-duplicates", false, "Collapse duplicate results, keeping the best of each group")
	rootCmd.AddCommand(suggestCmd)
}

// SuggestResponse is the JSON output for the suggest command.
type SuggestResponse struct {
	Query       string               `json:"query"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

func runSuggest(cmd *cobra.Command, args []string) error {
	query := args[0]

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	conversation := conversationOrDefault(suggestConversation, cfg)

	st, closeStore := mustOpenStore(repoRoot, cfg)
	defer closeStore()

	existing, err := st.ReferencesForConversation(conversation)
	if err != nil {
		exitWithError(ExitDataError, "reading references: %v", err)
	}

	limit := effectiveSuggestLimit(cmd.Flags().Changed("limit"), suggestLimit)

	client := newScholarClient()
	results, err := client.SearchPapers(context.Background(), query, limit*2)
	if err != nil {
		exitScholarError("searching papers", err)
	}

	mgr := newManager(st)
	content := conversationContent(query, existing)
	suggestions := mgr.GenerateSuggestions(results, content, 0)
	suggestions = suggest.FilterSuggestions(suggestions, suggest.FilterCriteria{
		MinScore:          suggestMinScore,
		YearFrom:          suggestYearFrom,
		YearTo:            suggestYearTo,
		MinCitations:      suggestMinCitations,
		ExcludeDuplicates: suggestNoDupes,
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	if humanOutput {
		printSuggestionsHuman(suggestions)
	} else {
		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}
		outputJSON(SuggestResponse{Query: query, Suggestions: suggestions})
	}
	return nil
}

// effectiveSuggestLimit resolves the suggestion list size: an explicit
// --limit wins, otherwise the global config's max_suggestions, otherwise
// the flag default.
func effectiveSuggestLimit(flagSet bool, flagValue int) int {
	if flagSet {
		return flagValue
	}
	if gcfg, err := config.LoadGlobalConfig(); err == nil && gcfg.MaxSuggestions > 0 {
		return gcfg.MaxSuggestions
	}
	return flagValue
}

// conversationContent builds the scoring content from the query and the
// conversation's existing references.
func conversationContent(query string, existing []reference.Record) scoring.Content {
	var text strings.Builder
	text.WriteString(query)

	tagSet := make(map[string]bool)
	for _, rec := range existing {
		text.WriteString("\n")
		text.WriteString(rec.Title)
		if rec.Abstract != "" {
			text.WriteString("\n")
			text.WriteString(rec.Abstract)
		}
		for _, tag := range rec.Tags {
			tagSet[tag] = true
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return scoring.Content{
		Text:     text.String(),
		Keywords: tags,
		Topics:   tags,
	}
}

func printSuggestionsHuman(suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return
	}
	for i, s := range suggestions {
		fmt.Printf("%d. [%.2f] %s\n", i+1, s.Relevance, truncateString(s.Result.Title, DetailTitleMaxLen))
		year := "n.d."
		if s.Result.Year > 0 {
			year = fmt.Sprintf("%d", s.Result.Year)
		}
		fmt.Printf("   %s (%s)  confidence %.2f\n", formatNamesShort(s.Result.Authors, 3), year, s.Confidence)
		for _, reason := range s.Reasoning {
			fmt.Printf("   - %s\n", reason)
		}
		fmt.Println()
	}
}
