package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/copilotlabs/refdesk/internal/scholar"
)

// Recency tiers by age in years.
const (
	recencyVeryRecent = 1.0 // <= 2 years
	recencyRecent     = 0.8 // <= 5 years
	recencyModerate   = 0.6 // <= 10 years
	recencyOld        = 0.4 // <= 20 years
	recencyVeryOld    = 0.2 // > 20 years

	// recencyUnknown is a deliberately middling default so missing
	// metadata neither penalizes nor rewards.
	recencyUnknown = 0.3
)

// academicTitleRe matches academic titles in author names as whole words.
var academicTitleRe = regexp.MustCompile(`(?i)(^|[\s,(])(dr|prof|professor|phd|ph\.d|md|m\.d)\.?($|[\s,.)])`)

// highImpactJournals is the curated set of journals that score 1.0.
// Lookup is case-insensitive exact match.
var highImpactJournals = map[string]bool{
	"nature":                      true,
	"science":                     true,
	"cell":                        true,
	"the lancet":                  true,
	"lancet":                      true,
	"new england journal of medicine": true,
	"jama":                        true,
	"pnas":                        true,
	"proceedings of the national academy of sciences": true,
	"nature communications": true,
	"science advances":      true,
}

// reputablePublisherMarkers are professional-society markers that score 0.8.
var reputablePublisherMarkers = []string{"ieee", "acm", "usenix", "aaai"}

// commercialPublisherMarkers are major commercial academic publishers
// that score 0.7.
var commercialPublisherMarkers = []string{"elsevier", "springer", "wiley", "taylor & francis", "sage"}

// Quality holds the decomposed quality sub-scores for a result.
type Quality struct {
	Citation        float64 `json:"citation_score"`
	Recency         float64 `json:"recency_score"`
	AuthorAuthority float64 `json:"author_authority"`
	JournalQuality  float64 `json:"journal_quality"`
	Overall         float64 `json:"overall"`
}

// ScoreQuality computes the composite quality score for a result.
// nowYear anchors the recency calculation.
func ScoreQuality(result scholar.SearchResult, nowYear int, w QualityWeights) Quality {
	q := Quality{
		Citation:        CitationScore(result.CitationCount),
		Recency:         RecencyScore(result.Year, nowYear),
		AuthorAuthority: AuthorAuthority(result.Authors),
		JournalQuality:  JournalQuality(result.Journal),
	}
	q.Overall = clamp01(q.Citation*w.Citation +
		q.Recency*w.Recency +
		q.AuthorAuthority*w.AuthorAuthority +
		q.JournalQuality*w.JournalQuality)
	return q
}

// CitationScore maps a citation count to [0,1] on a log scale, so counts
// in the hundreds do not saturate immediately. Zero or unknown citations
// score 0.
func CitationScore(citations int) float64 {
	if citations <= 0 {
		return 0
	}
	return clamp01(math.Log10(float64(citations)+1) / 3)
}

// RecencyScore maps a publication year to a tiered [0,1] score by age.
// A zero (unknown) year scores the neutral default.
func RecencyScore(year, nowYear int) float64 {
	if year <= 0 {
		return recencyUnknown
	}

	age := nowYear - year
	switch {
	case age <= 2:
		return recencyVeryRecent
	case age <= 5:
		return recencyRecent
	case age <= 10:
		return recencyModerate
	case age <= 20:
		return recencyOld
	default:
		return recencyVeryOld
	}
}

// AuthorAuthority estimates author credibility from list shape and
// academic titles. An empty author list scores 0.
func AuthorAuthority(authors []string) float64 {
	if len(authors) == 0 {
		return 0
	}

	score := 0.5
	if len(authors) > 3 {
		// Collaborative work signal
		score += 0.2
	}
	if len(authors) == 1 {
		score -= 0.1
	}
	for _, name := range authors {
		if academicTitleRe.MatchString(name) {
			score += 0.2
			break
		}
	}

	return clamp01(score)
}

// JournalQuality maps a journal name to a tiered [0,1] reputation score.
// A missing journal scores 0.3; an unrecognized one scores 0.4.
func JournalQuality(journal string) float64 {
	journal = strings.TrimSpace(journal)
	if journal == "" {
		return 0.3
	}

	lower := strings.ToLower(journal)
	if highImpactJournals[lower] {
		return 1.0
	}
	for _, marker := range reputablePublisherMarkers {
		if strings.Contains(lower, marker) {
			return 0.8
		}
	}
	for _, marker := range commercialPublisherMarkers {
		if strings.Contains(lower, marker) {
			return 0.7
		}
	}
	if strings.Contains(lower, "university") || strings.Contains(lower, "press") {
		return 0.6
	}
	if strings.Contains(lower, "journal") || strings.Contains(lower, "proceedings") {
		return 0.5
	}

	return 0.4
}
