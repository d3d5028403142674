// Package reference defines the core domain types for academic references.
package reference

import "time"

// RefType classifies a reference by publication kind.
type RefType string

const (
	TypeJournalArticle RefType = "journal-article"
	TypeBook           RefType = "book"
	TypeWebsite        RefType = "website"
	TypeOther          RefType = "other"
)

// Record represents a persisted academic reference.
type Record struct {
	// Identity
	ID             string `json:"id"`              // Stable identifier (from citekey)
	ConversationID string `json:"conversation_id"` // Owning scope

	// Classification
	Type RefType `json:"type"`

	// Metadata
	Title    string   `json:"title"`
	Authors  []Author `json:"authors"`
	Abstract string   `json:"abstract,omitempty"`

	// Venue
	Journal   string `json:"journal,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Volume    string `json:"volume,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Pages     string `json:"pages,omitempty"`

	// Identifiers
	DOI string `json:"doi,omitempty"`
	URL string `json:"url,omitempty"`

	// Publication Date
	Published PublicationDate `json:"published"`

	// Curation
	Tags               []string `json:"tags,omitempty"`
	MetadataConfidence float64  `json:"metadata_confidence"`

	// Store-assigned timestamps
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PublicationDate represents a publication date with optional month and day.
type PublicationDate struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}

// IsZero reports whether no date component is set.
func (d PublicationDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Specificity returns a score for how specific a date is.
func (d PublicationDate) Specificity() int {
	score := 0
	if d.Year != 0 {
		score++
	}
	if d.Month != 0 {
		score++
	}
	if d.Day != 0 {
		score++
	}
	return score
}

// Venue returns the journal if set, otherwise the publisher.
func (r Record) Venue() string {
	if r.Journal != "" {
		return r.Journal
	}
	return r.Publisher
}
