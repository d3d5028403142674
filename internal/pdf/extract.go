// Package pdf extracts identifying metadata from PDF files so a paper
// on disk can be resolved against the scholar API.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches 10.XXXX/suffix identifiers embedded in page text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Metadata is what we could recover from a PDF.
type Metadata struct {
	DOI   string `json:"doi,omitempty"`
	Title string `json:"title,omitempty"`
}

// Extract reads identifying metadata from a PDF file. A PDF with no
// recoverable DOI or title yields an empty Metadata, not an error.
func Extract(filePath string) (Metadata, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	var meta Metadata

	// The DOI is almost always in the front matter.
	pages := r.NumPage()
	if pages > 3 {
		pages = 3
	}
	for i := 1; i <= pages; i++ {
		text := pageText(r, i)
		if text == "" {
			continue
		}
		if meta.DOI == "" {
			meta.DOI = findDOI(text)
		}
		if i == 1 {
			meta.Title = guessTitle(text)
		}
		if meta.DOI != "" && meta.Title != "" {
			break
		}
	}

	return meta, nil
}

func pageText(r *pdf.Reader, n int) string {
	page := r.Page(n)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// findDOI returns the first plausible DOI in the text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if plausibleDOI(match) {
			return match
		}
	}
	return ""
}

func plausibleDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}

// guessTitle picks the first substantial line of the first page,
// skipping lines that look like journal headers or footers.
func guessTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !headerLine(line) {
			return line
		}
	}
	return ""
}

func headerLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "copyright"):
		return true
	case strings.Contains(lower, "doi.org"):
		return true
	}
	return false
}
