// Package conflict diffs a stored reference against a duplicate candidate
// and proposes per-field resolutions.
package conflict

import "github.com/copilotlabs/refdesk/internal/reference"

// Recommendation is the proposed handling for a single conflicting field.
type Recommendation string

const (
	// RecommendKeepExisting keeps the stored value.
	RecommendKeepExisting Recommendation = "keep-existing"
	// RecommendUseNew takes the candidate value.
	RecommendUseNew Recommendation = "use-new"
	// RecommendMerge combines both values (list fields union).
	RecommendMerge Recommendation = "merge"
	// RecommendManualReview defers to a human; no safe automatic heuristic.
	RecommendManualReview Recommendation = "manual-review"
)

// Comparable field names, as they appear in FieldConflict.Field.
const (
	FieldTitle     = "title"
	FieldAuthors   = "authors"
	FieldJournal   = "journal"
	FieldPublisher = "publisher"
	FieldAbstract  = "abstract"
	FieldDOI       = "doi"
	FieldURL       = "url"
	FieldPublished = "published"
	FieldVolume    = "volume"
	FieldIssue     = "issue"
	FieldPages     = "pages"
	FieldTags      = "tags"
)

// FieldConflict records one differing field between existing and
// candidate, with the proposed resolution. Values are stored in full;
// truncation happens only at display time.
type FieldConflict struct {
	Field          string         `json:"field"`
	ExistingValue  string         `json:"existing_value"`
	NewValue       string         `json:"new_value"`
	Recommendation Recommendation `json:"recommendation"`
}

// Resolution is the full diff between a stored reference and a duplicate
// candidate. It only ever proposes changes; nothing is written until the
// caller applies it through the store.
type Resolution struct {
	Existing  reference.Record `json:"existing"`
	Candidate reference.Record `json:"candidate"`
	Conflicts []FieldConflict  `json:"conflicts"`
}

// HasConflicts reports whether any comparable field differs.
func (r Resolution) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// NeedsReview reports whether any field was marked manual-review.
func (r Resolution) NeedsReview() bool {
	for _, c := range r.Conflicts {
		if c.Recommendation == RecommendManualReview {
			return true
		}
	}
	return false
}
