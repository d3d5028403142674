package main

import (
	"fmt"

	"github.com/copilotlabs/refdesk/internal/conflict"
	"github.com/copilotlabs/refdesk/internal/dedupe"
	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/copilotlabs/refdesk/internal/store"
	"github.com/spf13/cobra"
)

var (
	dedupeConversation string
	dedupeThreshold    float64
	dedupeDryRun       bool
	dedupeMerge        bool
)

func init() {
	dedupeCmd.Flags().StringVarP(&dedupeConversation, "conversation", "c", "", "Conversation to scan")
	dedupeCmd.Flags().Float64Var(&dedupeThreshold, "threshold", 0, "Similarity threshold (0 = configured default)")
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Show duplicate groups without making changes")
	dedupeCmd.Flags().BoolVar(&dedupeMerge, "merge", false, "Merge each group into its primary and remove the rest")
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and merge duplicate references in a conversation",
	Long: `Find duplicate references in a conversation by title and author
similarity, including transitive chains (A~B, B~C puts all three in one
group).

Merging keeps each group's primary, folds the duplicates' metadata into
it field by field (fields flagged for manual review keep the primary's
value), and removes the duplicate records.

Examples:
  refdesk dedupe -c thesis-ch2 --dry-run
  refdesk dedupe -c thesis-ch2 --merge --threshold 0.9`,
	RunE: runDedupe,
}

// DedupeGroup is the JSON shape of one duplicate group.
type DedupeGroup struct {
	Primary    string   `json:"primary"`
	Duplicates []string `json:"duplicates"`
	Confidence float64  `json:"confidence"`
	Strategy   string   `json:"merge_strategy"`
}

// DedupeResult is the JSON output for the dedupe command.
type DedupeResult struct {
	DryRun     bool          `json:"dry_run"`
	Groups     []DedupeGroup `json:"groups"`
	TotalDupes int           `json:"total_duplicates"`
	Merged     int           `json:"merged,omitempty"`
}

func runDedupe(cmd *cobra.Command, args []string) error {
	if !dedupeDryRun && !dedupeMerge {
		return fmt.Errorf("must specify either --dry-run or --merge")
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	conversation := conversationOrDefault(dedupeConversation, cfg)

	st, closeStore := mustOpenStore(repoRoot, cfg)
	defer closeStore()

	refs, err := st.ReferencesForConversation(conversation)
	if err != nil {
		exitWithError(ExitDataError, "reading references: %v", err)
	}

	threshold := dedupeThreshold
	if threshold == 0 {
		threshold = cfg.DuplicateThreshold
	}

	candidates := make([]dedupe.Candidate, len(refs))
	for i, rec := range refs {
		candidates[i] = dedupe.FromRecord(i, rec)
	}
	groups := dedupe.DetectAmong(candidates, dedupe.Options{Threshold: threshold})

	out := make([]DedupeGroup, 0, len(groups))
	totalDupes := 0
	for _, g := range groups {
		dupIDs := make([]string, len(g.Duplicates))
		for i, d := range g.Duplicates {
			dupIDs[i] = d.RefID
		}
		totalDupes += len(dupIDs)
		out = append(out, DedupeGroup{
			Primary:    g.Primary.RefID,
			Duplicates: dupIDs,
			Confidence: g.GroupConfidence,
			Strategy:   g.MergeStrategy,
		})
	}

	if dedupeDryRun {
		reportDedupe(DedupeResult{DryRun: true, Groups: out, TotalDupes: totalDupes})
		return nil
	}

	merged, err := mergeGroups(st, refs, groups)
	if err != nil {
		exitWithError(ExitDataError, "merging duplicates: %v", err)
	}
	reportDedupe(DedupeResult{Groups: out, TotalDupes: totalDupes, Merged: merged})
	return nil
}

// mergeGroups folds each group's duplicates into its primary record and
// deletes them. The merged primary is persisted before any duplicate is
// removed, so a failure mid-group leaves the folded metadata on disk
// rather than losing it with the deleted records. Returns the number of
// groups merged.
func mergeGroups(st store.Store, refs []reference.Record, groups []dedupe.Group) (int, error) {
	byID := make(map[string]reference.Record, len(refs))
	for _, rec := range refs {
		byID[rec.ID] = rec
	}

	merged := 0
	for _, g := range groups {
		primary, ok := byID[g.Primary.RefID]
		if !ok {
			continue
		}

		dups := make([]reference.Record, 0, len(g.Duplicates))
		for _, dup := range g.Duplicates {
			dupRec, ok := byID[dup.RefID]
			if !ok {
				continue
			}
			dups = append(dups, dupRec)
			res := conflict.Propose(primary, dupRec)
			primary = conflict.Apply(res, nil)
		}

		updated, err := st.UpdateReference(primary.ID, primary)
		if err != nil {
			return merged, err
		}
		byID[updated.ID] = updated

		for _, dupRec := range dups {
			if err := st.DeleteReference(dupRec.ID); err != nil {
				return merged, err
			}
		}
		merged++
	}
	return merged, nil
}

func reportDedupe(res DedupeResult) {
	if !humanOutput {
		outputJSON(res)
		return
	}

	if len(res.Groups) == 0 {
		fmt.Println("No duplicates found.")
		return
	}
	fmt.Printf("Found %d duplicate groups (%d total duplicates):\n\n", len(res.Groups), res.TotalDupes)
	for _, g := range res.Groups {
		fmt.Printf("Keep:   %s  (confidence %.2f)\n", g.Primary, g.Confidence)
		fmt.Printf("Remove: %v\n\n", g.Duplicates)
	}
	if !res.DryRun {
		fmt.Printf("Merged %d groups.\n", res.Merged)
	}
}
