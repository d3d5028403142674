package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/copilotlabs/refdesk/internal/reference"
)

func TestFormatAuthorShort(t *testing.T) {
	tests := []struct {
		name   string
		author reference.Author
		want   string
	}{
		{"ascii initial", reference.Author{First: "Jane", Last: "Smith"}, "Smith J"},
		{"multibyte initial", reference.Author{First: "Øyvind", Last: "Berg"}, "Berg Ø"},
		{"no first name", reference.Author{Last: "Aristotle"}, "Aristotle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatAuthorShort(tt.author)
			if got != tt.want {
				t.Errorf("formatAuthorShort(%+v) = %q, want %q", tt.author, got, tt.want)
			}
		})
	}
}

func TestFormatAuthorsShort(t *testing.T) {
	authors := []reference.Author{
		{First: "Jane", Last: "Smith"},
		{First: "Bob", Last: "Jones"},
		{First: "Ann", Last: "Lee"},
	}

	got := formatAuthorsShort(authors, 2)
	want := "Smith J, Jones B, et al."
	if got != want {
		t.Errorf("formatAuthorsShort() = %q, want %q", got, want)
	}

	if got := formatAuthorsShort(nil, 2); got != "" {
		t.Errorf("formatAuthorsShort(nil) = %q, want empty", got)
	}
}

func TestTruncateString(t *testing.T) {
	t.Run("short string unchanged", func(t *testing.T) {
		if got := truncateString("short", 50); got != "short" {
			t.Errorf("truncateString() = %q, want %q", got, "short")
		}
	})

	t.Run("long string truncated with ellipsis", func(t *testing.T) {
		got := truncateString(strings.Repeat("a", 100), 50)
		if len([]rune(got)) != 50 {
			t.Errorf("truncateString() length = %d runes, want 50", len([]rune(got)))
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("truncateString() = %q, want ellipsis suffix", got)
		}
	})

	t.Run("multibyte title stays valid UTF-8", func(t *testing.T) {
		got := truncateString(strings.Repeat("é", 100), 50)
		if !utf8.ValidString(got) {
			t.Errorf("truncateString() produced invalid UTF-8: %q", got)
		}
		if got != strings.Repeat("é", 47)+"..." {
			t.Errorf("truncateString() = %q, want 47 é runes plus ellipsis", got)
		}
	})
}
