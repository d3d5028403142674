package scholar

import (
	"testing"

	"github.com/copilotlabs/refdesk/internal/reference"
)

func TestSplitAuthorName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{name: "first last", input: "Jane Smith", wantFirst: "Jane", wantLast: "Smith"},
		{name: "middle name goes with first", input: "Jane Q Smith", wantFirst: "Jane Q", wantLast: "Smith"},
		{name: "single name", input: "Madonna", wantFirst: "", wantLast: "Madonna"},
		{name: "suffix kept with last name", input: "Martin Luther King Jr", wantFirst: "Martin Luther", wantLast: "King Jr"},
		{name: "dotted suffix", input: "John Smith Jr.", wantFirst: "John", wantLast: "Smith Jr."},
		{name: "roman numeral suffix", input: "William Gates III", wantFirst: "William", wantLast: "Gates III"},
		{name: "two-part name ending in suffix word", input: "Jane Phd", wantFirst: "Jane", wantLast: "Phd"},
		{name: "whitespace trimmed", input: "  Jane Smith  ", wantFirst: "Jane", wantLast: "Smith"},
		{name: "empty", input: "", wantFirst: "", wantLast: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitAuthorName(tt.input)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("SplitAuthorName(%q) = (%q, %q), want (%q, %q)",
					tt.input, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestCiteKey(t *testing.T) {
	tests := []struct {
		name   string
		result SearchResult
		want   string
	}{
		{
			name: "standard",
			result: SearchResult{
				Title:   "Deep learning for phylogenetic inference",
				Authors: []string{"Jane Smith"},
				Year:    2026,
			},
			want: "Smith2026-dl",
		},
		{
			name: "stop words skipped in suffix",
			result: SearchResult{
				Title:   "The theory of and for everything",
				Authors: []string{"Wei Chen"},
				Year:    2020,
			},
			want: "Chen2020-te",
		},
		{
			name: "no authors",
			result: SearchResult{
				Title: "Anonymous report",
				Year:  2021,
			},
			want: "Unknown2021-ar",
		},
		{
			name: "no year",
			result: SearchResult{
				Title:   "Undated paper",
				Authors: []string{"Jane Smith"},
			},
			want: "Smith9999-up",
		},
		{
			name: "short title padded",
			result: SearchResult{
				Title:   "X",
				Authors: []string{"Jane Smith"},
				Year:    2026,
			},
			want: "Smith2026-xx",
		},
		{
			name: "non-alphanumeric stripped from surname",
			result: SearchResult{
				Title:   "Self-organizing maps",
				Authors: []string{"Mary O'Brien"},
				Year:    2019,
			},
			want: "OBrien2019-sm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CiteKey(tt.result); got != tt.want {
				t.Errorf("CiteKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToRecord(t *testing.T) {
	result := SearchResult{
		Title:      "Deep learning for phylogenetic inference",
		Authors:    []string{"Jane Smith", "Wei Chen"},
		Year:       2026,
		Journal:    "Nature",
		DOI:        "10.1038/nature12373",
		URL:        "https://doi.org/10.1038/nature12373",
		Abstract:   "An abstract.",
		Keywords:   []string{"ml", "phylogenetics"},
		Topics:     []string{"biology", "ml"},
		Confidence: 0.85,
	}

	rec := ToRecord(result, "conv-1")

	if rec.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", rec.ConversationID)
	}
	if rec.ID != "Smith2026-dl" {
		t.Errorf("ID = %q, want Smith2026-dl", rec.ID)
	}
	if rec.Type != reference.TypeJournalArticle {
		t.Errorf("Type = %q, want %q", rec.Type, reference.TypeJournalArticle)
	}
	if len(rec.Authors) != 2 || rec.Authors[0].Last != "Smith" || rec.Authors[1].Last != "Chen" {
		t.Errorf("Authors = %+v", rec.Authors)
	}
	if rec.Published.Year != 2026 {
		t.Errorf("Published.Year = %d, want 2026", rec.Published.Year)
	}
	// Tags are the keyword/topic union without duplicates.
	if len(rec.Tags) != 3 {
		t.Errorf("Tags = %v, want 3 unique tags", rec.Tags)
	}
	if rec.MetadataConfidence != 0.85 {
		t.Errorf("MetadataConfidence = %v, want 0.85", rec.MetadataConfidence)
	}
	if !rec.CreatedAt.IsZero() {
		t.Error("CreatedAt set by mapper; timestamps belong to the store")
	}
}

func TestFromRecordRoundTrip(t *testing.T) {
	rec := reference.Record{
		ID:                 "smith2026deep",
		Title:              "Deep learning for phylogenetic inference",
		Authors:            []reference.Author{{First: "Jane", Last: "Smith"}},
		Journal:            "Nature",
		DOI:                "10.1038/nature12373",
		Abstract:           "An abstract.",
		Tags:               []string{"ml"},
		Published:          reference.PublicationDate{Year: 2026},
		MetadataConfidence: 0.8,
	}

	result := FromRecord(rec)

	if result.Title != rec.Title || result.DOI != rec.DOI {
		t.Errorf("FromRecord lost fields: %+v", result)
	}
	if len(result.Authors) != 1 || result.Authors[0] != "Jane Smith" {
		t.Errorf("Authors = %v, want display names", result.Authors)
	}
	if result.Year != 2026 {
		t.Errorf("Year = %d, want 2026", result.Year)
	}
	if result.CitationCount != -1 {
		t.Errorf("CitationCount = %d, want -1 (not tracked)", result.CitationCount)
	}
	if result.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want stored metadata confidence", result.Confidence)
	}
}

func TestParseDateString(t *testing.T) {
	tests := []struct {
		input string
		year  int
		month int
		day   int
	}{
		{"2026-03-15", 2026, 3, 15},
		{"2026-03", 2026, 3, 0},
		{"2026", 2026, 0, 0},
		{"", 0, 0, 0},
		{"2026-13-40", 2026, 0, 0},
		{"garbage", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			y, m, d := parseDateString(tt.input)
			if y != tt.year || m != tt.month || d != tt.day {
				t.Errorf("parseDateString(%q) = (%d, %d, %d), want (%d, %d, %d)",
					tt.input, y, m, d, tt.year, tt.month, tt.day)
			}
		})
	}
}
