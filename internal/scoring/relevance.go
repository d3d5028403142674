package scoring

import (
	"strings"
	"time"

	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/similarity"
)

// Content is the originating research content a result is scored against.
type Content struct {
	Text     string   // Title + body text of the writing being supported
	Keywords []string // Extracted key terms
	Topics   []string // Broader subject areas
}

// Breakdown exposes every sub-score that feeds the relevance score, so
// each factor can be asserted independently.
type Breakdown struct {
	Similarity similarity.Scores `json:"similarity"`
	Quality    Quality           `json:"quality"`
	Relevance  float64           `json:"relevance"`
}

// Scorer computes relevance and confidence scores. It is stateless apart
// from its configuration and safe for concurrent use.
type Scorer struct {
	weights Weights
	nowYear func() int
}

// NewScorer creates a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{
		weights: w,
		nowYear: func() int { return time.Now().Year() },
	}
}

// NewScorerAt creates a scorer anchored at a fixed year, for tests.
func NewScorerAt(w Weights, year int) *Scorer {
	return &Scorer{
		weights: w,
		nowYear: func() int { return year },
	}
}

// Relevance returns the relevance score for a result against content,
// clamped to [0,1].
func (s *Scorer) Relevance(result scholar.SearchResult, content Content) float64 {
	return s.Breakdown(result, content).Relevance
}

// Breakdown computes the full decomposed score for a result.
func (s *Scorer) Breakdown(result scholar.SearchResult, content Content) Breakdown {
	sim := similarity.ScoreWith(result, contentAsResult(content), s.weights.Similarity)
	quality := ScoreQuality(result, s.nowYear(), s.weights.Quality)

	w := s.weights.Relevance
	return Breakdown{
		Similarity: sim,
		Quality:    quality,
		Relevance:  clamp01(sim.Overall*w.Similarity + quality.Overall*w.Quality + quality.Recency*w.Recency),
	}
}

// contentAsResult adapts content to the result shape the similarity
// scorer compares.
func contentAsResult(content Content) scholar.SearchResult {
	return scholar.SearchResult{
		Title:    strings.TrimSpace(content.Text),
		Keywords: content.Keywords,
		Topics:   content.Topics,
	}
}
