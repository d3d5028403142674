package suggest

import (
	"fmt"
	"sort"

	"github.com/copilotlabs/refdesk/internal/dedupe"
	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/scoring"
)

// Suggestion is a ranked search result with the reasoning behind its
// score, for display before any persistence decision.
type Suggestion struct {
	Result     scholar.SearchResult `json:"result"`
	Relevance  float64              `json:"relevance"`
	Confidence float64              `json:"confidence"`
	Breakdown  scoring.Breakdown    `json:"breakdown"`
	Reasoning  []string             `json:"reasoning,omitempty"`
}

// GenerateSuggestions scores and ranks results against the originating
// content. Results come back sorted by relevance, highest first,
// truncated to maxSuggestions (0 = no limit). Input results are not
// mutated; the returned copies carry the computed scores.
func (m *Manager) GenerateSuggestions(results []scholar.SearchResult, content scoring.Content, maxSuggestions int) []Suggestion {
	suggestions := make([]Suggestion, 0, len(results))
	for _, result := range results {
		breakdown := m.scorer.Breakdown(result, content)
		confidence := m.scorer.Confidence(result)

		scored := result
		scored.RelevanceScore = breakdown.Relevance
		scored.Confidence = confidence

		suggestions = append(suggestions, Suggestion{
			Result:     scored,
			Relevance:  breakdown.Relevance,
			Confidence: confidence,
			Breakdown:  breakdown,
			Reasoning:  reasoning(result, breakdown),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Relevance > suggestions[j].Relevance
	})

	if maxSuggestions > 0 && len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

// reasoning builds the display strings explaining a score.
func reasoning(result scholar.SearchResult, b scoring.Breakdown) []string {
	var reasons []string

	if b.Similarity.Overall >= 0.6 {
		reasons = append(reasons, "strong topical match with your content")
	} else if b.Similarity.Overall >= 0.3 {
		reasons = append(reasons, "partial topical match with your content")
	}

	if result.CitationCount > 100 {
		reasons = append(reasons, fmt.Sprintf("highly cited (%d citations)", result.CitationCount))
	} else if result.CitationCount > 10 {
		reasons = append(reasons, fmt.Sprintf("well cited (%d citations)", result.CitationCount))
	}

	if b.Quality.Recency >= 0.8 && result.Year != 0 {
		reasons = append(reasons, fmt.Sprintf("recent publication (%d)", result.Year))
	}

	if b.Quality.JournalQuality >= 0.8 && result.Journal != "" {
		reasons = append(reasons, fmt.Sprintf("reputable venue (%s)", result.Journal))
	}

	if result.DOI != "" {
		reasons = append(reasons, "has a DOI")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "matches your search terms")
	}

	return reasons
}

// FilterCriteria narrows an already-generated suggestion list.
type FilterCriteria struct {
	MinScore          float64 // Minimum relevance score (0 = no floor)
	YearFrom          int     // Earliest publication year (0 = no limit)
	YearTo            int     // Latest publication year (0 = no limit)
	MinCitations      int     // Citation floor (0 = no floor)
	ExcludeDuplicates bool    // Drop in-list duplicates, keeping primaries
}

// FilterSuggestions applies post-hoc criteria to a suggestion list.
func FilterSuggestions(suggestions []Suggestion, criteria FilterCriteria) []Suggestion {
	dropped := make(map[int]bool)

	if criteria.ExcludeDuplicates {
		results := make([]scholar.SearchResult, len(suggestions))
		for i, s := range suggestions {
			results[i] = s.Result
		}
		for _, group := range dedupe.Detect(results) {
			for _, dup := range group.Duplicates {
				dropped[dup.Index] = true
			}
		}
	}

	var out []Suggestion
	for i, s := range suggestions {
		if dropped[i] {
			continue
		}
		if criteria.MinScore > 0 && s.Relevance < criteria.MinScore {
			continue
		}
		if criteria.YearFrom > 0 && (s.Result.Year == 0 || s.Result.Year < criteria.YearFrom) {
			continue
		}
		if criteria.YearTo > 0 && s.Result.Year > criteria.YearTo {
			continue
		}
		if criteria.MinCitations > 0 && s.Result.CitationCount < criteria.MinCitations {
			continue
		}
		out = append(out, s)
	}

	return out
}
