package conflict

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/copilotlabs/refdesk/internal/reference"
)

// Propose diffs the candidate against the existing record and builds a
// per-field resolution. A field enters the result only when the values
// differ and the candidate's value is non-empty: the resolver fills gaps
// and upgrades metadata, it never erases.
func Propose(existing, candidate reference.Record) Resolution {
	res := Resolution{Existing: existing, Candidate: candidate}

	// Identifiers: filling a gap is always safe, replacing is not.
	res.add(compareIdentifier(FieldDOI, existing.DOI, candidate.DOI))
	res.add(compareIdentifier(FieldURL, existing.URL, candidate.URL))

	// Title: the longer string is the proxy for more complete.
	if candidate.Title != "" && candidate.Title != existing.Title {
		rec := RecommendKeepExisting
		if len(candidate.Title) > len(existing.Title) {
			rec = RecommendUseNew
		}
		res.add(&FieldConflict{
			Field:          FieldTitle,
			ExistingValue:  existing.Title,
			NewValue:       candidate.Title,
			Recommendation: rec,
		})
	}

	// Authors: the longer list is assumed strictly more complete.
	if len(candidate.Authors) > 0 && !authorsEqual(existing.Authors, candidate.Authors) {
		rec := RecommendKeepExisting
		if len(candidate.Authors) > len(existing.Authors) {
			rec = RecommendUseNew
		}
		res.add(&FieldConflict{
			Field:          FieldAuthors,
			ExistingValue:  reference.DisplayAuthors(existing.Authors),
			NewValue:       reference.DisplayAuthors(candidate.Authors),
			Recommendation: rec,
		})
	}

	// Tags: list-valued, safe to union.
	if hasNewTags(existing.Tags, candidate.Tags) {
		res.add(&FieldConflict{
			Field:          FieldTags,
			ExistingValue:  strings.Join(existing.Tags, ", "),
			NewValue:       strings.Join(candidate.Tags, ", "),
			Recommendation: RecommendMerge,
		})
	}

	// Everything else has no safe automatic heuristic.
	res.add(compareManual(FieldJournal, existing.Journal, candidate.Journal))
	res.add(compareManual(FieldPublisher, existing.Publisher, candidate.Publisher))
	res.add(compareManual(FieldAbstract, existing.Abstract, candidate.Abstract))
	res.add(compareManual(FieldVolume, existing.Volume, candidate.Volume))
	res.add(compareManual(FieldIssue, existing.Issue, candidate.Issue))
	res.add(compareManual(FieldPages, existing.Pages, candidate.Pages))

	// Published: a more specific date that agrees on the shared
	// components refines the existing one; disagreement is for a human.
	if !candidate.Published.IsZero() && candidate.Published != existing.Published {
		rec := RecommendManualReview
		if datesConsistent(existing.Published, candidate.Published) {
			rec = RecommendKeepExisting
			if candidate.Published.Specificity() > existing.Published.Specificity() {
				rec = RecommendUseNew
			}
		}
		res.add(&FieldConflict{
			Field:          FieldPublished,
			ExistingValue:  formatDate(existing.Published),
			NewValue:       formatDate(candidate.Published),
			Recommendation: rec,
		})
	}

	return res
}

// datesConsistent reports whether two dates agree on every component
// both of them set.
func datesConsistent(a, b reference.PublicationDate) bool {
	if a.Year != 0 && b.Year != 0 && a.Year != b.Year {
		return false
	}
	if a.Month != 0 && b.Month != 0 && a.Month != b.Month {
		return false
	}
	if a.Day != 0 && b.Day != 0 && a.Day != b.Day {
		return false
	}
	return true
}

func (r *Resolution) add(c *FieldConflict) {
	if c != nil {
		r.Conflicts = append(r.Conflicts, *c)
	}
}

// compareIdentifier handles doi/url: candidate wins automatically when
// the existing record lacks a value, otherwise a human decides.
func compareIdentifier(field, existing, candidate string) *FieldConflict {
	if candidate == "" || candidate == existing {
		return nil
	}
	rec := RecommendManualReview
	if existing == "" {
		rec = RecommendUseNew
	}
	return &FieldConflict{
		Field:          field,
		ExistingValue:  existing,
		NewValue:       candidate,
		Recommendation: rec,
	}
}

// compareManual flags any difference for manual review.
func compareManual(field, existing, candidate string) *FieldConflict {
	if candidate == "" || candidate == existing {
		return nil
	}
	return &FieldConflict{
		Field:          field,
		ExistingValue:  existing,
		NewValue:       candidate,
		Recommendation: RecommendManualReview,
	}
}

// authorsEqual checks if two author lists have the same names in order
// (case-insensitive).
func authorsEqual(a, b []reference.Author) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i].First, b[i].First) ||
			!strings.EqualFold(a[i].Last, b[i].Last) {
			return false
		}
	}
	return true
}

// hasNewTags reports whether candidate carries any tag missing from
// existing (case-insensitive).
func hasNewTags(existing, candidate []string) bool {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(strings.TrimSpace(t))] = true
	}
	for _, t := range candidate {
		if t = strings.TrimSpace(t); t != "" && !seen[strings.ToLower(t)] {
			return true
		}
	}
	return false
}

// Apply produces the patched record for a resolution: every field whose
// recommendation is use-new or merge is taken from (or combined with)
// the candidate; manual-review fields stay untouched unless overridden.
// The existing record itself is never modified.
func Apply(res Resolution, overrides map[string]Recommendation) reference.Record {
	patched := res.Existing

	for _, c := range res.Conflicts {
		rec := c.Recommendation
		if override, ok := overrides[c.Field]; ok {
			rec = override
		}

		switch rec {
		case RecommendUseNew:
			setField(&patched, res.Candidate, c.Field)
		case RecommendMerge:
			mergeField(&patched, res.Candidate, c.Field)
		}
	}

	patched.UpdatedAt = time.Now().UTC()
	return patched
}

// setField overwrites one field of the patch from the candidate.
func setField(patched *reference.Record, candidate reference.Record, field string) {
	switch field {
	case FieldTitle:
		patched.Title = candidate.Title
	case FieldAuthors:
		patched.Authors = append([]reference.Author(nil), candidate.Authors...)
	case FieldJournal:
		patched.Journal = candidate.Journal
	case FieldPublisher:
		patched.Publisher = candidate.Publisher
	case FieldAbstract:
		patched.Abstract = candidate.Abstract
	case FieldDOI:
		patched.DOI = candidate.DOI
	case FieldURL:
		patched.URL = candidate.URL
	case FieldPublished:
		patched.Published = candidate.Published
	case FieldVolume:
		patched.Volume = candidate.Volume
	case FieldIssue:
		patched.Issue = candidate.Issue
	case FieldPages:
		patched.Pages = candidate.Pages
	case FieldTags:
		patched.Tags = append([]string(nil), candidate.Tags...)
	}
}

// mergeField combines list-valued fields; for scalars merge degrades to
// overwrite.
func mergeField(patched *reference.Record, candidate reference.Record, field string) {
	switch field {
	case FieldTags:
		patched.Tags = unionStrings(patched.Tags, candidate.Tags)
	case FieldAuthors:
		patched.Authors = unionAuthors(patched.Authors, candidate.Authors)
	default:
		setField(patched, candidate, field)
	}
}

// unionStrings returns the union of two string slices, preserving order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range a {
		key := strings.ToLower(strings.TrimSpace(s))
		if key != "" && !seen[key] {
			seen[key] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		key := strings.ToLower(strings.TrimSpace(s))
		if key != "" && !seen[key] {
			seen[key] = true
			result = append(result, s)
		}
	}
	return result
}

// unionAuthors unions two author lists by case-insensitive display name,
// preserving order.
func unionAuthors(a, b []reference.Author) []reference.Author {
	seen := make(map[string]bool)
	var result []reference.Author
	for _, author := range a {
		key := strings.ToLower(author.Display())
		if !seen[key] {
			seen[key] = true
			result = append(result, author)
		}
	}
	for _, author := range b {
		key := strings.ToLower(author.Display())
		if !seen[key] {
			seen[key] = true
			result = append(result, author)
		}
	}
	return result
}

// formatDate formats a publication date for conflict display.
func formatDate(d reference.PublicationDate) string {
	if d.IsZero() {
		return ""
	}
	out := strconv.Itoa(d.Year)
	if d.Month != 0 {
		out += fmt.Sprintf("-%02d", d.Month)
	}
	if d.Day != 0 {
		out += fmt.Sprintf("-%02d", d.Day)
	}
	return out
}
