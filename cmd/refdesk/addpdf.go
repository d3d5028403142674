package main

import (
	"context"

	"github.com/copilotlabs/refdesk/internal/pdf"
	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/spf13/cobra"
)

var (
	addPDFConversation string
	addPDFOnDuplicate  string
)

var addPDFCmd = &cobra.Command{
	Use:   "add-pdf <file>",
	Short: "Add a reference by extracting metadata from a PDF",
	Long: `Add a reference by reading a PDF from disk.

The PDF's front matter is scanned for a DOI; when one is found it is
looked up directly. Otherwise the first-page title is used as a keyword
search and the top result is added.

Examples:
  refdesk add-pdf ~/papers/nature12373.pdf --conversation thesis-ch2`,
	Args: cobra.ExactArgs(1),
	RunE: runAddPDF,
}

func init() {
	addPDFCmd.Flags().StringVarP(&addPDFConversation, "conversation", "c", "", "Conversation to add the reference to")
	addPDFCmd.Flags().StringVar(&addPDFOnDuplicate, "on-duplicate", "", "Duplicate policy: skip, merge, add-anyway, prompt-user")
	rootCmd.AddCommand(addPDFCmd)
}

func runAddPDF(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !validPolicy(addPDFOnDuplicate) {
		exitWithError(ExitDataError, "invalid --on-duplicate policy: %s", addPDFOnDuplicate)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	conversation := conversationOrDefault(addPDFConversation, cfg)

	meta, err := pdf.Extract(path)
	if err != nil {
		exitWithError(ExitDataError, "reading PDF: %v", err)
	}

	result := resolvePDFMetadata(meta)

	st, closeStore := mustOpenStore(repoRoot, cfg)
	defer closeStore()

	mgr := newManager(st)
	opts := addOptions(cfg, addPDFOnDuplicate, 0, false)
	res := mgr.AddFromSearchResult(*result, conversation, opts)

	reportAddResult(res)
	return nil
}

// resolvePDFMetadata turns extracted PDF metadata into a search result,
// preferring the DOI over a title search.
func resolvePDFMetadata(meta pdf.Metadata) *scholar.SearchResult {
	ctx := context.Background()
	client := newScholarClient()

	if meta.DOI != "" {
		result, err := client.LookupDOI(ctx, meta.DOI)
		if err == nil {
			return result
		}
		if !scholar.IsNotFound(err) {
			exitScholarError("looking up DOI", err)
		}
		// DOI not indexed, fall back to title search below.
	}

	if meta.Title == "" {
		exitWithError(ExitDataError, "no DOI or title could be extracted from the PDF")
	}

	results, err := client.SearchPapers(ctx, meta.Title, 1)
	if err != nil {
		exitScholarError("searching papers", err)
	}
	if len(results) == 0 {
		exitWithError(ExitScholarNotFound, "no results for extracted title %q", meta.Title)
	}
	return &results[0]
}
