package reference

import "strings"

// bookPublisherMarkers are substrings suggesting a book publisher rather
// than a journal.
var bookPublisherMarkers = []string{"press", "books", "publishing"}

// InferType classifies a reference from its available metadata.
// The type is never user-supplied at this layer, so the inference only
// needs to be a reasonable default, not exhaustive.
func InferType(journal, publisher, doi, url string) RefType {
	if journal != "" {
		return TypeJournalArticle
	}
	if doi != "" {
		// A DOI without a venue is almost always an article
		return TypeJournalArticle
	}
	if publisher != "" {
		lower := strings.ToLower(publisher)
		for _, marker := range bookPublisherMarkers {
			if strings.Contains(lower, marker) {
				return TypeBook
			}
		}
		return TypeOther
	}
	if url != "" {
		return TypeWebsite
	}
	return TypeOther
}
