// Package dedupe groups candidate references that describe the same
// underlying publication into duplicate clusters.
package dedupe

import (
	"sort"

	"github.com/copilotlabs/refdesk/internal/reference"
	"github.com/copilotlabs/refdesk/internal/scholar"
	"github.com/copilotlabs/refdesk/internal/similarity"
)

// StrategyTitleAuthor is the only merge strategy currently defined.
// The tag tells the resolver which fields it may auto-merge.
const StrategyTitleAuthor = "title-author"

// DefaultThreshold is the overall-similarity cutoff above which two
// records are considered the same publication.
const DefaultThreshold = 0.85

// authorMatchConfidence is the pairwise confidence assigned when records
// match on exact normalized author lists but score below the text
// similarity threshold.
const authorMatchConfidence = 0.9

// Options configure a detection pass.
type Options struct {
	// Threshold is the overall-similarity cutoff. Zero means DefaultThreshold.
	Threshold float64
	// Weights are the similarity weights. Zero value means defaults.
	Weights similarity.Weights
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

func (o Options) weights() similarity.Weights {
	if o.Weights == (similarity.Weights{}) {
		return similarity.DefaultWeights()
	}
	return o.Weights
}

// Candidate is the normalized internal shape both search results and
// stored references are converted to before comparison. Conversion
// happens through the explicit adapters below, never by shape-sniffing.
type Candidate struct {
	// Index is the position in the detection input, used for
	// deterministic tie-breaking.
	Index int `json:"index"`

	// RefID is set when the candidate came from the reference store.
	RefID string `json:"ref_id,omitempty"`

	Result scholar.SearchResult `json:"result"`
}

// FromSearchResult adapts a search result for detection.
func FromSearchResult(index int, result scholar.SearchResult) Candidate {
	return Candidate{Index: index, Result: result}
}

// FromRecord adapts a stored reference for detection.
func FromRecord(index int, rec reference.Record) Candidate {
	return Candidate{Index: index, RefID: rec.ID, Result: scholar.FromRecord(rec)}
}

// Group is a cluster of candidates judged to be the same publication.
type Group struct {
	// Primary is the canonical representative; it is never repeated in
	// Duplicates.
	Primary    Candidate `json:"primary"`
	Duplicates []Candidate `json:"duplicates"`

	// GroupConfidence is the weakest pairwise confidence that still
	// cleared the threshold within the cluster.
	GroupConfidence float64 `json:"group_confidence"`

	MergeStrategy string `json:"merge_strategy"`
}

// Detect groups search results into duplicate clusters using default
// options.
func Detect(results []scholar.SearchResult) []Group {
	return DetectWith(results, Options{})
}

// DetectWith groups search results into duplicate clusters.
func DetectWith(results []scholar.SearchResult, opts Options) []Group {
	candidates := make([]Candidate, len(results))
	for i, r := range results {
		candidates[i] = FromSearchResult(i, r)
	}
	return DetectAmong(candidates, opts)
}

// DetectAmong groups pre-adapted candidates into duplicate clusters.
// Clustering is transitive: if A matches B and B matches C, all three
// land in one group. Malformed entries (missing title or authors) are
// treated as non-matching rather than errors. Empty input returns nil.
func DetectAmong(candidates []Candidate, opts Options) []Group {
	if len(candidates) < 2 {
		return nil
	}

	threshold := opts.threshold()
	weights := opts.weights()

	uf := newUnionFind(len(candidates))
	pairConfidence := make(map[[2]int]float64)

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			conf, match := matchPair(candidates[i].Result, candidates[j].Result, threshold, weights)
			if match {
				uf.union(i, j)
				pairConfidence[[2]int{i, j}] = conf
			}
		}
	}

	// Collect members per cluster root
	clusters := make(map[int][]int)
	for i := range candidates {
		root := uf.find(i)
		clusters[root] = append(clusters[root], i)
	}

	var groups []Group
	for _, members := range clusters {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, buildGroup(candidates, members, pairConfidence))
	}

	// Deterministic output order: by primary input position
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Primary.Index < groups[j].Primary.Index
	})

	return groups
}

// matchPair applies the duplicate predicate to a pair of results: exact
// normalized author-list equality, or overall similarity at or above the
// threshold. Returns the pairwise confidence and whether the pair matched.
func matchPair(a, b scholar.SearchResult, threshold float64, weights similarity.Weights) (float64, bool) {
	sim := similarity.ScoreWith(a, b, weights)
	if sim.Overall >= threshold {
		return sim.Overall, true
	}
	if similarity.AuthorsMatch(a.Authors, b.Authors) {
		conf := sim.Overall
		if conf < authorMatchConfidence {
			conf = authorMatchConfidence
		}
		return conf, true
	}
	return 0, false
}

// buildGroup selects the primary and assembles a group from cluster
// members. The primary is the member with the highest relevance score,
// ties broken by earliest input position.
func buildGroup(candidates []Candidate, members []int, pairConfidence map[[2]int]float64) Group {
	sort.Ints(members)

	primaryIdx := members[0]
	for _, m := range members[1:] {
		if candidates[m].Result.RelevanceScore > candidates[primaryIdx].Result.RelevanceScore {
			primaryIdx = m
		}
	}

	group := Group{
		Primary:         candidates[primaryIdx],
		GroupConfidence: 1.0,
		MergeStrategy:   StrategyTitleAuthor,
	}
	for _, m := range members {
		if m != primaryIdx {
			group.Duplicates = append(group.Duplicates, candidates[m])
		}
	}

	// Weakest matched pair within the cluster
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			if conf, ok := pairConfidence[[2]int{members[i], members[j]}]; ok && conf < group.GroupConfidence {
				group.GroupConfidence = conf
			}
		}
	}

	return group
}

// unionFind is a disjoint-set structure over candidate indices.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]] // Path halving
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	if ri != rj {
		u.parent[rj] = ri
	}
}
