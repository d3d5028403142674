package reference

import (
	"sort"
	"strings"
)

// Author represents a paper author with optional ORCID identifier.
type Author struct {
	First string `json:"first"`           // First/given name(s)
	Last  string `json:"last"`            // Last/family name
	ORCID string `json:"orcid,omitempty"` // ORCID identifier (without URL prefix)
}

// Display formats an author as "First Last".
func (a Author) Display() string {
	if a.First != "" {
		return a.First + " " + a.Last
	}
	return a.Last
}

// DisplayAuthors formats all authors as "First Last, First Last, ...".
func DisplayAuthors(authors []Author) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Display()
	}
	return strings.Join(names, ", ")
}

// NormalizedNames returns lowercased, trimmed, sorted author display names.
// This is the canonical form used for author-list equality during duplicate
// detection, so ordering differences between sources do not matter.
func NormalizedNames(authors []Author) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		name := strings.ToLower(strings.TrimSpace(a.Display()))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizedNameStrings is NormalizedNames for plain display-name strings.
func NormalizedNameStrings(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// NamesEqual reports whether two normalized name lists match exactly:
// same length and every position equal after lowercasing and sorting.
func NamesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
