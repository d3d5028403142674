package suggest

import (
	"strings"
	"sync"
	"testing"

	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/scoring"
	"github.com/copilotlabs/refdesk/internal/store"
)

func newTestManager() (*Manager, *store.Memory) {
	mem := store.NewMemory()
	mgr := NewManager(mem, scoring.NewScorerAt(scoring.DefaultWeights(), 2026))
	return mgr, mem
}

func goodResult(title string) scholar.SearchResult {
	return scholar.SearchResult{
		Title:         title,
		Authors:       []string{"Jane Smith", "Wei Chen"},
		Year:          2025,
		Journal:       "Nature",
		DOI:           "10.1038/nature12373",
		Abstract:      "Abstract of " + title,
		Keywords:      []string{"ml", "phylogenetics"},
		Topics:        []string{"biology"},
		CitationCount: 120,
		Confidence:    0.9,
	}
}

func TestAddFromSearchResult(t *testing.T) {
	mgr, mem := newTestManager()

	res := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", DefaultOptions())
	if !res.Success {
		t.Fatalf("AddFromSearchResult() failed: %s", res.Err)
	}
	if res.Reference == nil || res.Reference.ID == "" {
		t.Fatal("no created reference returned")
	}
	if res.Reference.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", res.Reference.ConversationID)
	}
	if res.Reference.MetadataConfidence <= 0 {
		t.Errorf("MetadataConfidence = %v, want populated", res.Reference.MetadataConfidence)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestAddConfidenceGate(t *testing.T) {
	mgr, mem := newTestManager()

	low := goodResult("Dubious preprint")
	low.Confidence = 0.3

	res := mgr.AddFromSearchResult(low, "conv-1", DefaultOptions())
	if res.Success {
		t.Fatal("low-confidence result was added")
	}
	if !strings.Contains(res.Err, "confidence") || !strings.Contains(res.Err, "below minimum threshold") {
		t.Errorf("Err = %q, want confidence gate message", res.Err)
	}
	if mem.Len() != 0 {
		t.Errorf("store has %d records, want 0", mem.Len())
	}
}

func TestAddConfidenceGateDisabled(t *testing.T) {
	mgr, _ := newTestManager()

	low := goodResult("Dubious preprint")
	low.Confidence = 0.01

	opts := DefaultOptions()
	opts.MinConfidence = -1
	res := mgr.AddFromSearchResult(low, "conv-1", opts)
	if !res.Success {
		t.Errorf("disabled gate still rejected: %s", res.Err)
	}
}

func TestAddZeroMinConfidenceUsesDefault(t *testing.T) {
	mgr, _ := newTestManager()

	low := goodResult("Dubious preprint")
	low.Confidence = 0.4

	opts := DefaultOptions()
	opts.MinConfidence = 0
	res := mgr.AddFromSearchResult(low, "conv-1", opts)
	if res.Success {
		t.Error("0.4 confidence passed the default 0.5 gate")
	}
}

func TestAddDuplicatePromptUser(t *testing.T) {
	mgr, mem := newTestManager()

	first := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", DefaultOptions())
	if !first.Success {
		t.Fatalf("first add failed: %s", first.Err)
	}

	second := goodResult("Deep learning for phylogenetic inference")
	second.Abstract = "" // candidate carries less metadata
	res := mgr.AddFromSearchResult(second, "conv-1", DefaultOptions())

	if res.Success {
		t.Fatal("duplicate was persisted under prompt-user")
	}
	if !res.IsDuplicate {
		t.Fatal("IsDuplicate = false, want true")
	}
	if res.Duplicate == nil || res.Duplicate.ID != first.Reference.ID {
		t.Errorf("Duplicate = %+v, want the stored record", res.Duplicate)
	}
	if res.MergeOptions == nil {
		t.Fatal("MergeOptions = nil, want a proposed resolution")
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestAddDuplicateSkip(t *testing.T) {
	mgr, mem := newTestManager()

	opts := DefaultOptions()
	opts.DuplicateHandling = PolicySkip

	mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
	res := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)

	if res.Success || !res.IsDuplicate {
		t.Errorf("skip policy result = %+v, want duplicate failure", res)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}

	// Skip is idempotent: a third attempt changes nothing.
	mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
	if mem.Len() != 1 {
		t.Errorf("store has %d records after third add, want 1", mem.Len())
	}
}

func TestAddDuplicateMergeFillsGaps(t *testing.T) {
	mgr, mem := newTestManager()

	first := goodResult("Deep learning for phylogenetic inference")
	first.DOI = "" // stored record lacks the DOI
	created := mgr.AddFromSearchResult(first, "conv-1", DefaultOptions())
	if !created.Success {
		t.Fatalf("first add failed: %s", created.Err)
	}

	opts := DefaultOptions()
	opts.DuplicateHandling = PolicyMerge
	res := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)

	if !res.Success {
		t.Fatalf("merge failed: %s", res.Err)
	}
	if !res.IsDuplicate {
		t.Error("IsDuplicate = false, want true")
	}
	if res.Reference.DOI != "10.1038/nature12373" {
		t.Errorf("merged DOI = %q, want gap filled", res.Reference.DOI)
	}
	if res.Reference.ID != created.Reference.ID {
		t.Errorf("merge created a new record %q, want update of %q", res.Reference.ID, created.Reference.ID)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestAddDuplicateAddAnyway(t *testing.T) {
	mgr, mem := newTestManager()

	opts := DefaultOptions()
	opts.DuplicateHandling = PolicyAddAnyway

	first := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
	second := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)

	if !first.Success || !second.Success {
		t.Fatalf("adds failed: %v / %v", first.Err, second.Err)
	}
	if first.Reference.ID == second.Reference.ID {
		t.Error("add-anyway reused the same ID")
	}
	if mem.Len() != 2 {
		t.Errorf("store has %d records, want 2", mem.Len())
	}
}

func TestAddDuplicateScopedToConversation(t *testing.T) {
	mgr, mem := newTestManager()

	mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", DefaultOptions())
	res := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-2", DefaultOptions())

	if !res.Success {
		t.Errorf("same paper in another conversation rejected: %s", res.Err)
	}
	if mem.Len() != 2 {
		t.Errorf("store has %d records, want 2", mem.Len())
	}
}

func TestAddDOIMatchIsDuplicate(t *testing.T) {
	mgr, mem := newTestManager()

	first := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", DefaultOptions())
	if !first.Success {
		t.Fatalf("first add failed: %s", first.Err)
	}

	// Same DOI under a dissimilar title and different authors: the DOI
	// alone identifies the publication.
	second := scholar.SearchResult{
		Title:      "Neural approaches to tree reconstruction",
		Authors:    []string{"Pat Doe"},
		Year:       2025,
		DOI:        "10.1038/nature12373",
		Confidence: 0.9,
	}
	opts := DefaultOptions()
	opts.DuplicateHandling = PolicySkip

	res := mgr.AddFromSearchResult(second, "conv-1", opts)
	if res.Success {
		t.Error("add with a matching DOI succeeded, want duplicate skip")
	}
	if !res.IsDuplicate {
		t.Error("DOI match was not reported as a duplicate")
	}
	if res.Duplicate == nil || res.Duplicate.ID != first.Reference.ID {
		t.Errorf("duplicate does not point at the stored record")
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestAddPartialOptionsKeepsDefaults(t *testing.T) {
	mgr, mem := newTestManager()

	// Only a policy set: duplicate checking and metadata population
	// must still be on.
	opts := Options{DuplicateHandling: PolicySkip}

	first := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
	if !first.Success {
		t.Fatalf("first add failed: %s", first.Err)
	}
	if first.Reference.MetadataConfidence == 0 {
		t.Error("metadata confidence was not populated")
	}

	second := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
	if second.Success {
		t.Error("second add of the same result succeeded, want skip")
	}
	if !second.IsDuplicate {
		t.Error("second add was not reported as a duplicate")
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestAddNoDedupe(t *testing.T) {
	mgr, mem := newTestManager()

	opts := DefaultOptions()
	opts.SkipDuplicateCheck = true

	mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
	res := mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)

	if !res.Success {
		t.Errorf("add with dedupe disabled failed: %s", res.Err)
	}
	if mem.Len() != 2 {
		t.Errorf("store has %d records, want 2", mem.Len())
	}
}

func TestAddMultipleCollapsesBatchDuplicates(t *testing.T) {
	mgr, mem := newTestManager()

	results := []scholar.SearchResult{
		goodResult("Deep learning for phylogenetic inference"),
		goodResult("Deep learning for phylogenetic inference"),
		{
			Title:      "Sedimentary rock formation in river deltas",
			Authors:    []string{"Alex Stone"},
			Year:       2024,
			Abstract:   "Geology abstract.",
			Keywords:   []string{"geology"},
			Topics:     []string{"earth science"},
			Confidence: 0.8,
		},
	}

	out := mgr.AddMultipleFromSearchResults(results, "conv-1", DefaultOptions())
	if len(out) != 3 {
		t.Fatalf("got %d results, want 3 aligned with input", len(out))
	}

	if !out[0].Success {
		t.Errorf("first batch item failed: %s", out[0].Err)
	}
	if out[1].Success || !out[1].IsDuplicate {
		t.Errorf("second batch item = %+v, want collapsed duplicate", out[1])
	}
	if !out[2].Success {
		t.Errorf("third batch item failed: %s", out[2].Err)
	}
	if mem.Len() != 2 {
		t.Errorf("store has %d records, want 2", mem.Len())
	}
}

func TestAddMultipleFailuresDoNotAbort(t *testing.T) {
	mgr, mem := newTestManager()

	low := scholar.SearchResult{
		Title:      "Dubious preprint about something else entirely",
		Authors:    []string{"Pat Doe"},
		Keywords:   []string{"misc"},
		Confidence: 0.2,
	}

	out := mgr.AddMultipleFromSearchResults([]scholar.SearchResult{
		low,
		goodResult("Deep learning for phylogenetic inference"),
	}, "conv-1", DefaultOptions())

	if out[0].Success {
		t.Error("low-confidence item was added")
	}
	if !out[1].Success {
		t.Errorf("sibling add aborted: %s", out[1].Err)
	}
	if mem.Len() != 1 {
		t.Errorf("store has %d records, want 1", mem.Len())
	}
}

func TestConcurrentAddsSingleDuplicate(t *testing.T) {
	mgr, mem := newTestManager()

	opts := DefaultOptions()
	opts.DuplicateHandling = PolicySkip

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mgr.AddFromSearchResult(goodResult("Deep learning for phylogenetic inference"), "conv-1", opts)
		}()
	}
	wg.Wait()

	if mem.Len() != 1 {
		t.Errorf("store has %d records after concurrent adds, want 1", mem.Len())
	}
}
