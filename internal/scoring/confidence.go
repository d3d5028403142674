package scoring

import (
	"net/url"
	"strings"

	"github.com/copilotlabs/refdesk/internal/scholar"
)

// Confidence bounds. The floor is non-zero: a result is never
// "impossible", only low-confidence.
const (
	confidenceFloor   = 0.1
	confidenceCeiling = 1.0
)

// academicDomains is the allowlist of URL domains that boost confidence.
var academicDomains = []string{
	"arxiv.org",
	"doi.org",
	"ieee.org",
	"acm.org",
	"springer.com",
	"sciencedirect.com",
	"nature.com",
	"science.org",
	"ncbi.nlm.nih.gov",
	"pubmed.gov",
	"jstor.org",
	"semanticscholar.org",
	"scholar.google.com",
}

// Confidence adjusts a result's base metadata confidence by signals of
// trustworthiness, clamped to [0.1, 1.0].
func (s *Scorer) Confidence(result scholar.SearchResult) float64 {
	conf := result.Confidence

	if result.DOI != "" {
		conf += 0.1
	}
	if result.CitationCount > 10 {
		conf += 0.1
	}
	if isAcademicURL(result.URL) {
		conf += 0.1
	}
	if result.Year != 0 && result.Year < 2000 {
		conf -= 0.2
	}
	if strings.TrimSpace(result.Abstract) == "" {
		conf -= 0.1
	}

	if conf < confidenceFloor {
		return confidenceFloor
	}
	if conf > confidenceCeiling {
		return confidenceCeiling
	}
	return conf
}

// isAcademicURL reports whether the URL's host is in the academic
// domain allowlist (including subdomains).
func isAcademicURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	for _, domain := range academicDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
