package suggest

import (
	"testing"

	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/scoring"
)

func testContent() scoring.Content {
	return scoring.Content{
		Text:     "Deep learning methods for phylogenetic tree inference",
		Keywords: []string{"ml", "phylogenetics"},
		Topics:   []string{"biology"},
	}
}

func TestGenerateSuggestions(t *testing.T) {
	mgr, _ := newTestManager()

	onTopic := goodResult("Deep learning for phylogenetic inference")
	offTopic := scholar.SearchResult{
		Title:      "Sedimentary rock formation in river deltas",
		Authors:    []string{"Alex Stone"},
		Year:       1998,
		Keywords:   []string{"geology"},
		Topics:     []string{"earth science"},
		Confidence: 0.7,
	}

	suggestions := mgr.GenerateSuggestions([]scholar.SearchResult{offTopic, onTopic}, testContent(), 0)
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(suggestions))
	}

	// Sorted by relevance, highest first.
	if suggestions[0].Result.Title != onTopic.Title {
		t.Errorf("top suggestion = %q, want the on-topic paper", suggestions[0].Result.Title)
	}
	if suggestions[0].Relevance < suggestions[1].Relevance {
		t.Error("suggestions not sorted by relevance")
	}

	for _, s := range suggestions {
		if s.Relevance < 0 || s.Relevance > 1 {
			t.Errorf("relevance %v out of [0,1]", s.Relevance)
		}
		if s.Confidence < 0.1 || s.Confidence > 1 {
			t.Errorf("confidence %v out of [0.1,1]", s.Confidence)
		}
		if len(s.Reasoning) == 0 {
			t.Errorf("suggestion %q has no reasoning", s.Result.Title)
		}
	}
}

func TestGenerateSuggestionsTruncates(t *testing.T) {
	mgr, _ := newTestManager()

	results := []scholar.SearchResult{
		goodResult("First paper on phylogenetic inference"),
		goodResult("Second paper on phylogenetic inference"),
		goodResult("Third paper on phylogenetic inference"),
	}

	suggestions := mgr.GenerateSuggestions(results, testContent(), 2)
	if len(suggestions) != 2 {
		t.Errorf("got %d suggestions, want 2", len(suggestions))
	}
}

func TestGenerateSuggestionsDoesNotMutateInput(t *testing.T) {
	mgr, _ := newTestManager()

	results := []scholar.SearchResult{goodResult("Deep learning for phylogenetic inference")}
	mgr.GenerateSuggestions(results, testContent(), 0)

	if results[0].RelevanceScore != 0 {
		t.Errorf("input RelevanceScore = %v, want untouched 0", results[0].RelevanceScore)
	}
}

func TestFilterSuggestions(t *testing.T) {
	suggestions := []Suggestion{
		{Result: scholar.SearchResult{Title: "Recent and cited", Year: 2024, CitationCount: 200}, Relevance: 0.9},
		{Result: scholar.SearchResult{Title: "Old", Year: 1990, CitationCount: 500}, Relevance: 0.8},
		{Result: scholar.SearchResult{Title: "Uncited", Year: 2023, CitationCount: 2}, Relevance: 0.7},
		{Result: scholar.SearchResult{Title: "Low relevance", Year: 2024, CitationCount: 100}, Relevance: 0.1},
		{Result: scholar.SearchResult{Title: "No year", Year: 0, CitationCount: 100}, Relevance: 0.6},
	}

	tests := []struct {
		name     string
		criteria FilterCriteria
		want     []string
	}{
		{
			name:     "no criteria keeps everything",
			criteria: FilterCriteria{},
			want:     []string{"Recent and cited", "Old", "Uncited", "Low relevance", "No year"},
		},
		{
			name:     "min score",
			criteria: FilterCriteria{MinScore: 0.65},
			want:     []string{"Recent and cited", "Old", "Uncited"},
		},
		{
			name:     "year range drops unknown years",
			criteria: FilterCriteria{YearFrom: 2000},
			want:     []string{"Recent and cited", "Uncited", "Low relevance"},
		},
		{
			name:     "year upper bound",
			criteria: FilterCriteria{YearTo: 2023},
			want:     []string{"Old", "Uncited", "No year"},
		},
		{
			name:     "citation floor",
			criteria: FilterCriteria{MinCitations: 50},
			want:     []string{"Recent and cited", "Old", "Low relevance", "No year"},
		},
		{
			name:     "combined",
			criteria: FilterCriteria{MinScore: 0.5, YearFrom: 2000, MinCitations: 50},
			want:     []string{"Recent and cited"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSuggestions(suggestions, tt.criteria)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d suggestions, want %d (%v)", len(got), len(tt.want), tt.want)
			}
			for i, s := range got {
				if s.Result.Title != tt.want[i] {
					t.Errorf("result %d = %q, want %q", i, s.Result.Title, tt.want[i])
				}
			}
		})
	}
}

func TestFilterSuggestionsExcludeDuplicates(t *testing.T) {
	a := goodResult("Deep learning for phylogenetic inference")
	b := goodResult("Deep learning for phylogenetic inference")
	c := scholar.SearchResult{
		Title:    "Sedimentary rock formation in river deltas",
		Authors:  []string{"Alex Stone"},
		Keywords: []string{"geology"},
	}

	suggestions := []Suggestion{
		{Result: a, Relevance: 0.9},
		{Result: b, Relevance: 0.8},
		{Result: c, Relevance: 0.7},
	}

	got := FilterSuggestions(suggestions, FilterCriteria{ExcludeDuplicates: true})
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].Result.Title != a.Title || got[1].Result.Title != c.Title {
		t.Errorf("kept %q and %q, want primary and the distinct paper", got[0].Result.Title, got[1].Result.Title)
	}
}
