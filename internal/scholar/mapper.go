package scholar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/copilotlabs/refdesk/internal/reference"
)

// BaseConfidence is the metadata confidence assigned to results coming
// straight from the provider API, before any confidence scoring.
const BaseConfidence = 0.7

// Common name suffixes to keep with the last name.
var nameSuffixes = map[string]bool{
	"jr":   true,
	"jr.":  true,
	"sr":   true,
	"sr.":  true,
	"ii":   true,
	"iii":  true,
	"iv":   true,
	"v":    true,
	"phd":  true,
	"ph.d": true,
	"md":   true,
	"m.d":  true,
}

// MapPaper converts a provider API paper to a SearchResult.
func MapPaper(paper apiPaper) SearchResult {
	authors := make([]string, 0, len(paper.Authors))
	for _, a := range paper.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	year := paper.Year
	if y, _, _ := parseDateString(paper.PubDate); y != 0 {
		year = y
	}

	return SearchResult{
		Title:         paper.Title,
		Authors:       authors,
		Year:          year,
		Journal:       paper.Venue,
		URL:           paper.URL,
		DOI:           paper.ExternalIDs.DOI,
		Abstract:      paper.Abstract,
		Topics:        paper.Fields,
		CitationCount: paper.Citations,
		Confidence:    BaseConfidence,
	}
}

// ToRecord converts a search result into reference-store input for the
// given conversation. The ID is a cite-key that the store uniquifies on
// create; timestamps are store-assigned.
func ToRecord(result SearchResult, conversationID string) reference.Record {
	authors := make([]reference.Author, 0, len(result.Authors))
	for _, name := range result.Authors {
		first, last := SplitAuthorName(name)
		if first == "" && last == "" {
			continue
		}
		authors = append(authors, reference.Author{First: first, Last: last})
	}

	rec := reference.Record{
		ID:                 CiteKey(result),
		ConversationID:     conversationID,
		Type:               reference.InferType(result.Journal, result.Publisher, result.DOI, result.URL),
		Title:              result.Title,
		Authors:            authors,
		Abstract:           result.Abstract,
		Journal:            result.Journal,
		Publisher:          result.Publisher,
		DOI:                result.DOI,
		URL:                result.URL,
		Tags:               unionStrings(result.Keywords, result.Topics),
		MetadataConfidence: result.Confidence,
	}
	rec.Published = reference.PublicationDate{Year: result.Year}

	return rec
}

// FromRecord converts a stored reference into the SearchResult shape so
// duplicate detection can compare stored and incoming items uniformly.
func FromRecord(rec reference.Record) SearchResult {
	authors := make([]string, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		authors = append(authors, a.Display())
	}

	return SearchResult{
		Title:         rec.Title,
		Authors:       authors,
		Year:          rec.Published.Year,
		Journal:       rec.Journal,
		Publisher:     rec.Publisher,
		URL:           rec.URL,
		DOI:           rec.DOI,
		Abstract:      rec.Abstract,
		Keywords:      append([]string(nil), rec.Tags...),
		CitationCount: -1, // Not tracked in the store
		Confidence:    rec.MetadataConfidence,
	}
}

// unionStrings returns the union of two string slices, preserving order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// SplitAuthorName splits a full name into first and last name.
// Handles common suffixes (Jr, Sr, II, III, IV, PhD, MD).
//
// Known limitations:
// - Multi-part surnames (von Neumann, van der Waals) split incorrectly
// - Non-Western name formats may not be handled correctly
// - Middle names are included in the first name
func SplitAuthorName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		// Single name (e.g., "Madonna")
		return "", parts[0]
	}

	// Check if the last part is a suffix
	lastPart := strings.ToLower(parts[len(parts)-1])
	if nameSuffixes[lastPart] && len(parts) > 2 {
		// Keep suffix with last name
		last = parts[len(parts)-2] + " " + parts[len(parts)-1]
		first = strings.Join(parts[:len(parts)-2], " ")
	} else {
		// Standard split: last part is last name
		last = parts[len(parts)-1]
		first = strings.Join(parts[:len(parts)-1], " ")
	}

	return first, last
}

// parseDateString parses a YYYY-MM-DD date string.
func parseDateString(dateStr string) (year, month, day int) {
	if dateStr == "" {
		return 0, 0, 0
	}

	parts := strings.Split(dateStr, "-")
	if len(parts) >= 1 {
		if y, err := strconv.Atoi(parts[0]); err == nil {
			year = y
		}
	}
	if len(parts) >= 2 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	if len(parts) >= 3 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d >= 1 && d <= 31 {
			day = d
		}
	}
	return year, month, day
}

// CiteKey generates a citation key from result metadata.
// Format: LastName + Year + suffix (e.g., "Zhang2018-vi")
// Not guaranteed globally unique - the store resolves collisions before
// persisting.
func CiteKey(result SearchResult) string {
	lastName := "Unknown"
	if len(result.Authors) > 0 {
		_, last := SplitAuthorName(result.Authors[0])
		lastName = sanitizeForCiteKey(last)
		if lastName == "" {
			lastName = "Unknown"
		}
	}

	year := result.Year
	if year == 0 {
		year = 9999
	}

	return fmt.Sprintf("%s%d-%s", lastName, year, titleSuffix(result.Title))
}

// sanitizeForCiteKey removes non-alphanumeric characters.
func sanitizeForCiteKey(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// titleSuffix creates a 2-letter suffix from the title.
func titleSuffix(title string) string {
	words := strings.Fields(strings.ToLower(title))
	stopWords := map[string]bool{"a": true, "an": true, "the": true, "of": true, "and": true, "in": true, "on": true, "for": true, "to": true, "with": true}

	var suffix strings.Builder
	for _, word := range words {
		if !stopWords[word] && len(word) > 0 {
			suffix.WriteByte(word[0])
			if suffix.Len() >= 2 {
				break
			}
		}
	}

	for suffix.Len() < 2 {
		suffix.WriteByte('x')
	}

	return suffix.String()
}
