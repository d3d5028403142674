// Package scoring computes quality, relevance, and confidence scores for
// search results against the content that prompted the search.
package scoring

import "github.com/copilotlabs/refdesk/internal/similarity"

// QualityWeights control how the quality sub-scores combine.
type QualityWeights struct {
	Citation        float64
	Recency         float64
	AuthorAuthority float64
	JournalQuality  float64
}

// RelevanceWeights control how similarity, quality, and recency combine
// into the final relevance score.
type RelevanceWeights struct {
	Similarity float64
	Quality    float64
	Recency    float64
}

// Weights bundles every tunable constant in the scorer. The values are
// heuristic, not fitted to data, so they live here as configuration
// rather than inline in the scoring functions.
type Weights struct {
	Quality    QualityWeights
	Relevance  RelevanceWeights
	Similarity similarity.Weights
}

// DefaultWeights returns the standard scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		Quality: QualityWeights{
			Citation:        0.3,
			Recency:         0.2,
			AuthorAuthority: 0.25,
			JournalQuality:  0.25,
		},
		Relevance: RelevanceWeights{
			Similarity: 0.5,
			Quality:    0.3,
			Recency:    0.2,
		},
		Similarity: similarity.DefaultWeights(),
	}
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
