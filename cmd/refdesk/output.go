package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/copilotlabs/refdesk/internal/reference"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 20 // Default limit for search/suggest commands

	ListTitleMaxLen   = 50 // Used in list command output
	DetailTitleMaxLen = 70 // Used in suggestion and dedupe summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen runes, adding "..." if
// truncated. Counting runes keeps the cut from splitting a UTF-8
// sequence.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatAuthorShort formats an author as "Last F" (abbreviated first name).
func formatAuthorShort(a reference.Author) string {
	if a.First != "" {
		first, _ := utf8.DecodeRuneInString(a.First)
		return a.Last + " " + string(first)
	}
	return a.Last
}

// formatAuthorsShort formats authors with abbreviation and "et al." for more than maxCount.
func formatAuthorsShort(authors []reference.Author, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, formatAuthorShort(a))
	}
	return strings.Join(names, ", ")
}

// formatNamesShort formats plain author name strings with "et al." truncation.
func formatNamesShort(names []string, maxCount int) string {
	if len(names) == 0 {
		return ""
	}
	if len(names) > maxCount {
		return strings.Join(names[:maxCount], ", ") + ", et al."
	}
	return strings.Join(names, ", ")
}

// printRecordHuman prints a one-line summary of a stored reference.
func printRecordHuman(rec reference.Record) {
	year := "n.d."
	if rec.Published.Year > 0 {
		year = fmt.Sprintf("%d", rec.Published.Year)
	}
	fmt.Printf("%s  %s\n", rec.ID, truncateString(rec.Title, ListTitleMaxLen))
	fmt.Printf("  %s (%s)", formatAuthorsShort(rec.Authors, 3), year)
	if v := rec.Venue(); v != "" {
		fmt.Printf("  %s", v)
	}
	fmt.Println()
}
