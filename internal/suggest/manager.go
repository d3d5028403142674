// Package suggest orchestrates the suggestion pipeline: confidence
// gating, duplicate detection against a conversation's library, conflict
// resolution, and persistence through the reference store.
package suggest

import (
	"fmt"
	"sync"

	"github.com/copilotlabs/refdesk/internal/conflict"
	"github.com/copilotlabs/refdesk/internal/dedupe"
	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/scoring"
	"github.com/copilotlabs/refdesk/internal/store"
)

// Policy selects how a detected duplicate is handled.
type Policy string

const (
	// PolicySkip rejects the candidate, keeping the stored reference.
	PolicySkip Policy = "skip"
	// PolicyMerge resolves conflicts and updates the stored reference.
	PolicyMerge Policy = "merge"
	// PolicyAddAnyway persists the candidate as a new record regardless.
	PolicyAddAnyway Policy = "add-anyway"
	// PolicyPromptUser returns the conflict set for a human decision.
	PolicyPromptUser Policy = "prompt-user"
)

// DefaultMinConfidence is the confidence floor below which results are
// rejected without touching the store.
const DefaultMinConfidence = 0.5

// Options configure an add operation. The zero value carries the
// effective defaults: duplicates are checked, metadata confidence is
// populated, policy prompt-user, confidence floor DefaultMinConfidence.
type Options struct {
	// SkipDuplicateCheck persists the candidate without comparing it
	// against the conversation's existing references.
	SkipDuplicateCheck bool

	// DuplicateHandling is the policy applied when a duplicate is found.
	DuplicateHandling Policy

	// MinConfidence is the hard confidence floor. Zero means
	// DefaultMinConfidence; use a negative value to disable the gate.
	MinConfidence float64

	// NoAutoPopulate keeps the mapped metadata confidence instead of
	// recomputing it from result signals before persisting.
	NoAutoPopulate bool

	// Detect configures the duplicate predicate.
	Detect dedupe.Options
}

// DefaultOptions returns the standard add configuration.
func DefaultOptions() Options {
	return Options{
		DuplicateHandling: PolicyPromptUser,
		MinConfidence:     DefaultMinConfidence,
	}
}

// normalize resolves effective options from a possibly partial value.
func (o Options) normalize() Options {
	if o.DuplicateHandling == "" {
		o.DuplicateHandling = PolicyPromptUser
	}
	if o.MinConfidence == 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	return o
}

// AddResult is the structured outcome of an add operation. Expected
// branches (low confidence, duplicates awaiting a decision) are failures
// with context, not errors.
type AddResult struct {
	Success bool `json:"success"`

	// Reference is the created or updated record on success.
	Reference *reference.Record `json:"reference,omitempty"`

	// Duplicate context
	IsDuplicate  bool                 `json:"is_duplicate,omitempty"`
	Duplicate    *reference.Record    `json:"duplicate,omitempty"`
	MergeOptions *conflict.Resolution `json:"merge_options,omitempty"`

	Err string `json:"error,omitempty"`
}

// failure builds a failed AddResult with a formatted message.
func failure(format string, args ...interface{}) AddResult {
	return AddResult{Err: fmt.Sprintf(format, args...)}
}

// Manager is the top-level entry point for turning search results into
// stored references. It is stateless apart from its collaborators and
// per-conversation locks, and safe for concurrent use.
type Manager struct {
	store  store.Store
	scorer *scoring.Scorer

	// Duplicate checking and persisting is a check-then-act sequence;
	// the per-conversation locks keep two concurrent adds from both
	// passing a stale "no duplicate" check. Entries are never removed:
	// the map is bounded by the conversations touched in-process.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a manager over the given store.
func NewManager(s store.Store, scorer *scoring.Scorer) *Manager {
	return &Manager{
		store:  s,
		scorer: scorer,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockConversation serializes duplicate-check-then-write per
// conversation. Returns the unlock function.
func (m *Manager) lockConversation(conversationID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[conversationID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// AddFromSearchResult converts a search result into a stored reference
// for the conversation, applying the configured duplicate policy.
// Store-layer errors never propagate: every outcome is an AddResult.
func (m *Manager) AddFromSearchResult(result scholar.SearchResult, conversationID string, opts Options) AddResult {
	opts = opts.normalize()

	// Hard confidence floor, not a ranking adjustment: obviously
	// low-quality suggestions stay out of the library entirely.
	if result.Confidence < opts.MinConfidence {
		return failure("result confidence %.2f is below minimum threshold %.2f",
			result.Confidence, opts.MinConfidence)
	}

	candidate := scholar.ToRecord(result, conversationID)
	if !opts.NoAutoPopulate {
		candidate.MetadataConfidence = m.scorer.Confidence(result)
	}

	unlock := m.lockConversation(conversationID)
	defer unlock()

	if !opts.SkipDuplicateCheck {
		existing, err := m.store.ReferencesForConversation(conversationID)
		if err != nil {
			return failure("loading existing references: %v", err)
		}

		if dup := m.findDuplicate(result, existing, opts.Detect); dup != nil {
			return m.resolveDuplicate(candidate, *dup, opts)
		}
	}

	return m.create(candidate)
}

// findDuplicate runs detection over the conversation's references plus
// the candidate and returns the stored record sharing the candidate's
// group, if any. A DOI match short-circuits similarity detection: the
// DOI names the publication.
func (m *Manager) findDuplicate(result scholar.SearchResult, existing []reference.Record, opts dedupe.Options) *reference.Record {
	if len(existing) == 0 {
		return nil
	}

	if result.DOI != "" {
		if idx, ok := store.FindByDOI(existing, result.DOI); ok {
			return &existing[idx]
		}
	}

	candidates := make([]dedupe.Candidate, 0, len(existing)+1)
	for i, rec := range existing {
		candidates = append(candidates, dedupe.FromRecord(i, rec))
	}
	candidateIdx := len(candidates)
	candidates = append(candidates, dedupe.FromSearchResult(candidateIdx, result))

	for _, group := range dedupe.DetectAmong(candidates, opts) {
		members := append([]dedupe.Candidate{group.Primary}, group.Duplicates...)
		inGroup := false
		for _, mem := range members {
			if mem.Index == candidateIdx {
				inGroup = true
				break
			}
		}
		if !inGroup {
			continue
		}
		// First stored member by input position is the match
		for _, mem := range members {
			if mem.Index != candidateIdx {
				rec := existing[mem.Index]
				return &rec
			}
		}
	}
	return nil
}

// resolveDuplicate applies the duplicate-handling policy.
func (m *Manager) resolveDuplicate(candidate, existing reference.Record, opts Options) AddResult {
	switch opts.DuplicateHandling {
	case PolicySkip:
		res := failure("duplicate of %s (skipped)", existing.ID)
		res.IsDuplicate = true
		res.Duplicate = &existing
		return res

	case PolicyAddAnyway:
		return m.create(candidate)

	case PolicyMerge:
		resolution := conflict.Propose(existing, candidate)
		patched := conflict.Apply(resolution, nil)
		updated, err := m.store.UpdateReference(existing.ID, patched)
		if err != nil {
			return failure("merging into %s: %v", existing.ID, err)
		}
		return AddResult{
			Success:      true,
			Reference:    &updated,
			IsDuplicate:  true,
			Duplicate:    &existing,
			MergeOptions: &resolution,
		}

	default: // PolicyPromptUser
		resolution := conflict.Propose(existing, candidate)
		res := failure("duplicate of %s requires a decision", existing.ID)
		res.IsDuplicate = true
		res.Duplicate = &existing
		res.MergeOptions = &resolution
		return res
	}
}

// create persists the candidate, normalizing store errors.
func (m *Manager) create(candidate reference.Record) AddResult {
	created, err := m.store.CreateReference(candidate)
	if err != nil {
		return failure("creating reference: %v", err)
	}
	return AddResult{Success: true, Reference: &created}
}

// AddMultipleFromSearchResults adds a batch of results. In-batch
// duplicates are collapsed to their group primary first, then each
// surviving result goes through the full single-result flow including
// store-level duplicate checking. The returned slice is aligned with
// the input: collapsed items carry a duplicate failure pointing at
// nothing persisted. One failed insert never aborts its siblings.
func (m *Manager) AddMultipleFromSearchResults(results []scholar.SearchResult, conversationID string, opts Options) []AddResult {
	opts = opts.normalize()
	out := make([]AddResult, len(results))

	// Phase 1: collapse in-batch duplicates to their primaries
	collapsed := make(map[int]int) // duplicate index -> primary index
	for _, group := range dedupe.DetectWith(results, opts.Detect) {
		for _, dup := range group.Duplicates {
			collapsed[dup.Index] = group.Primary.Index
		}
	}

	// Phase 2: run the single-result flow for each survivor
	for i, result := range results {
		if primary, ok := collapsed[i]; ok {
			res := failure("duplicate of batch item %d (collapsed)", primary)
			res.IsDuplicate = true
			out[i] = res
			continue
		}
		out[i] = m.AddFromSearchResult(result, conversationID, opts)
	}

	return out
}
