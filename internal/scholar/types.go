// Package scholar provides a client for a Semantic-Scholar-style paper
// search API and adapters from its results to reference records.
package scholar

// SearchResult is a single structured result from the search provider.
// Results are request-scoped values: they are never mutated after they
// are received.
type SearchResult struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"` // Display names, in publication order
	Year          int      `json:"year,omitempty"`    // 0 if unknown
	Journal       string   `json:"journal,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	URL           string   `json:"url,omitempty"`
	DOI           string   `json:"doi,omitempty"`
	Abstract      string   `json:"abstract,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Topics        []string `json:"topics,omitempty"` // Fields of study
	CitationCount int      `json:"citation_count"`   // -1 if unknown

	// Confidence estimates metadata trustworthiness; RelevanceScore
	// estimates fit to the originating content. Both are in [0,1].
	Confidence     float64 `json:"confidence"`
	RelevanceScore float64 `json:"relevance_score"`
}

// apiPaper represents a paper as returned by the provider API.
type apiPaper struct {
	PaperID     string      `json:"paperId"`
	ExternalIDs externalIDs `json:"externalIds,omitempty"`
	Title       string      `json:"title"`
	Abstract    string      `json:"abstract,omitempty"`
	Authors     []apiAuthor `json:"authors,omitempty"`
	Year        int         `json:"year,omitempty"`
	Venue       string      `json:"venue,omitempty"`
	PubDate     string      `json:"publicationDate,omitempty"` // YYYY-MM-DD format
	URL         string      `json:"url,omitempty"`
	Citations   int         `json:"citationCount,omitempty"`
	Fields      []string    `json:"fieldsOfStudy,omitempty"`
	IsOpen      bool        `json:"isOpenAccess,omitempty"`
}

// externalIDs contains external identifiers for a paper.
type externalIDs struct {
	DOI   string `json:"DOI,omitempty"`
	ArXiv string `json:"ArXiv,omitempty"`
}

// apiAuthor represents an author as returned by the provider API.
type apiAuthor struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// searchResponse is the response envelope from the paper search endpoint.
type searchResponse struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Next   int        `json:"next,omitempty"`
	Data   []apiPaper `json:"data"`
}
