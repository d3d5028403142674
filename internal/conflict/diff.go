package conflict

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// displayValueMaxLen bounds how much of a field value appears in diff
// output before truncation.
const displayValueMaxLen = 120

// InlineDiff renders a word-diff of a conflicting field in
// [-removed-]{+added+} notation, for human review output.
func InlineDiff(existing, candidate string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(existing, candidate, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-")
			sb.WriteString(d.Text)
			sb.WriteString("-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+")
			sb.WriteString(d.Text)
			sb.WriteString("+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

// DisplayDiff renders a conflict for terminal output, truncating long
// values.
func (c FieldConflict) DisplayDiff() string {
	existing := truncate(c.ExistingValue, displayValueMaxLen)
	candidate := truncate(c.NewValue, displayValueMaxLen)
	return InlineDiff(existing, candidate)
}

// truncate shortens a string to maxLen runes, adding "..." if
// truncated. Rune-wise so the cut never splits a UTF-8 sequence.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
