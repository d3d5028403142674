package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/copilotlabs/refdesk/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL
// lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// JSONL is a Store backed by a git-versionable JSONL file, one record
// per line. Writes rewrite the whole file, serialized by a mutex.
type JSONL struct {
	mu   sync.Mutex
	path string
}

// NewJSONL creates a JSONL store at the given path. The file is created
// on first write.
func NewJSONL(path string) *JSONL {
	return &JSONL{path: path}
}

// CreateReference implements Store.
func (s *JSONL) CreateReference(rec reference.Record) (reference.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := readAll(s.path)
	if err != nil {
		return reference.Record{}, err
	}

	if rec.ID == "" {
		rec.ID = "ref"
	}
	rec.ID = GenerateUniqueID(refs, rec.ID)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := appendRecord(s.path, rec); err != nil {
		return reference.Record{}, err
	}
	return rec, nil
}

// UpdateReference implements Store.
func (s *JSONL) UpdateReference(id string, patched reference.Record) (reference.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := readAll(s.path)
	if err != nil {
		return reference.Record{}, err
	}

	idx, found := FindByID(refs, id)
	if !found {
		return reference.Record{}, fmt.Errorf("updating %s: %w", id, ErrNotFound)
	}

	patched.ID = id
	patched.CreatedAt = refs[idx].CreatedAt
	patched.UpdatedAt = time.Now().UTC()
	refs[idx] = patched

	if err := writeAll(s.path, refs); err != nil {
		return reference.Record{}, err
	}
	return patched, nil
}

// ReferencesForConversation implements Store.
func (s *JSONL) ReferencesForConversation(conversationID string) ([]reference.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := readAll(s.path)
	if err != nil {
		return nil, err
	}

	var out []reference.Record
	for _, ref := range refs {
		if ref.ConversationID == conversationID {
			out = append(out, ref)
		}
	}
	return out, nil
}

// DeleteReference implements Store.
func (s *JSONL) DeleteReference(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := readAll(s.path)
	if err != nil {
		return err
	}

	idx, found := FindByID(refs, id)
	if !found {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	refs = append(refs[:idx], refs[idx+1:]...)

	return writeAll(s.path, refs)
}

// All returns every record in the file.
func (s *JSONL) All() ([]reference.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readAll(s.path)
}

// readAll reads all references from a JSONL file.
func readAll(path string) ([]reference.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file reads as empty
		}
		return nil, fmt.Errorf("opening refs file: %w", err)
	}
	defer f.Close()

	var refs []reference.Record
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var ref reference.Record
		if err := json.Unmarshal(line, &ref); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		refs = append(refs, ref)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading refs file: %w", err)
	}

	return refs, nil
}

// appendRecord adds a reference to the end of a JSONL file.
func appendRecord(path string, rec reference.Record) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening refs file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding reference: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing reference: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// writeAll writes all references to a JSONL file, replacing existing
// content.
func writeAll(path string, refs []reference.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating refs file: %w", err)
	}
	defer f.Close()

	for i, ref := range refs {
		data, err := json.Marshal(ref)
		if err != nil {
			return fmt.Errorf("encoding reference %d: %w", i, err)
		}

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing reference %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}
