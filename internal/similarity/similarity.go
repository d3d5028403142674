// Package similarity computes pairwise similarity between candidate
// reference records: text similarity over title+abstract, keyword and
// topic overlap, and normalized author-list equality.
package similarity

import (
	"strings"

	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/copilotlabs/refdesk/internal/scholar"
)

// Weights control how the component similarities combine into Overall.
type Weights struct {
	Text    float64
	Keyword float64
	Topic   float64
}

// DefaultWeights returns the standard similarity weighting.
func DefaultWeights() Weights {
	return Weights{Text: 0.4, Keyword: 0.3, Topic: 0.3}
}

// Scores holds the component and combined similarity for a pair of
// results. All values are in [0,1].
type Scores struct {
	Text    float64 `json:"text_similarity"`
	Keyword float64 `json:"keyword_match"`
	Topic   float64 `json:"topic_overlap"`
	Overall float64 `json:"overall"`
}

// Score computes similarity between two search results using the default
// weights.
func Score(a, b scholar.SearchResult) Scores {
	return ScoreWith(a, b, DefaultWeights())
}

// ScoreWith computes similarity between two search results.
// Missing abstracts, keywords, or topics are treated as empty rather
// than errors, since provider output is frequently incomplete.
func ScoreWith(a, b scholar.SearchResult, w Weights) Scores {
	s := Scores{
		Text:    DiceBigram(contentText(a), contentText(b)),
		Keyword: Jaccard(a.Keywords, b.Keywords),
		Topic:   Jaccard(a.Topics, b.Topics),
	}
	s.Overall = clamp01(s.Text*w.Text + s.Keyword*w.Keyword + s.Topic*w.Topic)
	return s
}

// contentText builds the comparable text for a result.
func contentText(r scholar.SearchResult) string {
	return strings.ToLower(strings.TrimSpace(r.Title + " " + r.Abstract))
}

// DiceBigram computes the Sørensen–Dice coefficient over character
// bigrams of the two strings. Identical strings score 1, disjoint
// strings score 0. Comparison is case-insensitive.
func DiceBigram(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	aBigrams := bigrams(a)
	bBigrams := bigrams(b)
	if len(aBigrams) == 0 || len(bBigrams) == 0 {
		return 0
	}

	counts := make(map[string]int, len(aBigrams))
	total := 0
	for bg, n := range aBigrams {
		counts[bg] = n
		total += n
	}
	bTotal := 0
	overlap := 0
	for bg, n := range bBigrams {
		bTotal += n
		if m := counts[bg]; m > 0 {
			if n < m {
				overlap += n
			} else {
				overlap += m
			}
		}
	}

	return float64(2*overlap) / float64(total+bTotal)
}

// bigrams returns the multiset of character bigrams in s.
func bigrams(s string) map[string]int {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	out := make(map[string]int, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		out[string(runes[i:i+2])]++
	}
	return out
}

// Jaccard computes the Jaccard overlap of two string sets after
// lowercasing and trimming. Defined as 0 when either set is empty so the
// score stays comparable across records with missing metadata.
func Jaccard(a, b []string) float64 {
	aSet := toSet(a)
	bSet := toSet(b)
	if len(aSet) == 0 || len(bSet) == 0 {
		return 0
	}

	intersection := 0
	for s := range aSet {
		if bSet[s] {
			intersection++
		}
	}
	union := len(aSet) + len(bSet) - intersection

	return float64(intersection) / float64(union)
}

// toSet lowercases, trims, and deduplicates a string list.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

// AuthorsMatch reports whether two author lists name the same people:
// same count and, after lowercasing, trimming, and sorting, every
// position equal. Empty lists never match.
func AuthorsMatch(a, b []string) bool {
	normA := reference.NormalizedNameStrings(a)
	normB := reference.NormalizedNameStrings(b)
	if len(normA) == 0 || len(normB) == 0 {
		return false
	}
	return reference.NamesEqual(normA, normB)
}

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
