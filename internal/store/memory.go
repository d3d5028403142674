package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/copilotlabs/refdesk/internal/reference"
)

// Memory is an in-memory Store, used in tests and as the backend for
// dry-run pipelines.
type Memory struct {
	mu   sync.RWMutex
	refs []reference.Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// CreateReference implements Store.
func (m *Memory) CreateReference(rec reference.Record) (reference.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = "ref"
	}
	rec.ID = GenerateUniqueID(m.refs, rec.ID)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	m.refs = append(m.refs, rec)
	return rec, nil
}

// UpdateReference implements Store.
func (m *Memory) UpdateReference(id string, patched reference.Record) (reference.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, found := FindByID(m.refs, id)
	if !found {
		return reference.Record{}, fmt.Errorf("updating %s: %w", id, ErrNotFound)
	}

	patched.ID = id
	patched.CreatedAt = m.refs[idx].CreatedAt
	patched.UpdatedAt = time.Now().UTC()
	m.refs[idx] = patched
	return patched, nil
}

// ReferencesForConversation implements Store.
func (m *Memory) ReferencesForConversation(conversationID string) ([]reference.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []reference.Record
	for _, ref := range m.refs {
		if ref.ConversationID == conversationID {
			out = append(out, ref)
		}
	}
	return out, nil
}

// DeleteReference implements Store.
func (m *Memory) DeleteReference(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, found := FindByID(m.refs, id)
	if !found {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	m.refs = append(m.refs[:idx], m.refs[idx+1:]...)
	return nil
}

// Len returns the total number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.refs)
}
