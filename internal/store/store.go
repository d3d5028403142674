// Package store persists reference records in JSONL and SQLite backends.
package store

import (
	"errors"
	"fmt"

	"github.com/copilotlabs/refdesk/internal/reference"
)

// ErrNotFound indicates the reference does not exist in the store.
var ErrNotFound = errors.New("reference not found")

// Store is the persistence boundary the suggestion pipeline writes
// through. Records are created and updated only via these operations;
// nothing else mutates them.
type Store interface {
	// CreateReference persists a new record. The store uniquifies the
	// ID and assigns timestamps; the stored record is returned.
	CreateReference(rec reference.Record) (reference.Record, error)

	// UpdateReference replaces the record with the given ID with the
	// patched record, refreshing UpdatedAt.
	UpdateReference(id string, patched reference.Record) (reference.Record, error)

	// ReferencesForConversation returns every record in a conversation.
	ReferencesForConversation(conversationID string) ([]reference.Record, error)

	// DeleteReference removes the record with the given ID.
	DeleteReference(id string) error
}

// FindByID searches a record slice by ID.
func FindByID(refs []reference.Record, id string) (int, bool) {
	for i, ref := range refs {
		if ref.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindByDOI searches a record slice by DOI.
func FindByDOI(refs []reference.Record, doi string) (int, bool) {
	if doi == "" {
		return -1, false
	}
	for i, ref := range refs {
		if ref.DOI == doi {
			return i, true
		}
	}
	return -1, false
}

// GenerateUniqueID returns an ID that doesn't conflict with existing
// references. If the base ID exists, appends -2, -3, etc.
func GenerateUniqueID(refs []reference.Record, baseID string) string {
	if _, found := FindByID(refs, baseID); !found {
		return baseID
	}

	// Start at 2: baseID is taken, so first duplicate becomes baseID-2
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseID, i)
		if _, found := FindByID(refs, candidate); !found {
			return candidate
		}
	}
}
