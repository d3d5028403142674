package reference

import (
	"testing"
)

func TestAuthorDisplay(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{name: "first and last", author: Author{First: "Jane", Last: "Smith"}, want: "Jane Smith"},
		{name: "last only", author: Author{Last: "Madonna"}, want: "Madonna"},
		{name: "ORCID does not affect display", author: Author{First: "Jane", Last: "Smith", ORCID: "0000-0001-2345-6789"}, want: "Jane Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizedNames(t *testing.T) {
	authors := []Author{
		{First: "Wei", Last: "Chen"},
		{First: "Jane", Last: "Smith"},
		{}, // Empty author dropped
	}

	got := NormalizedNames(authors)
	want := []string{"jane smith", "wei chen"}
	if !NamesEqual(got, want) {
		t.Errorf("NormalizedNames() = %v, want %v", got, want)
	}
}

func TestNamesEqual(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{name: "equal", a: []string{"a", "b"}, b: []string{"a", "b"}, want: true},
		{name: "different lengths", a: []string{"a"}, b: []string{"a", "b"}, want: false},
		{name: "different values", a: []string{"a", "b"}, b: []string{"a", "c"}, want: false},
		{name: "both empty", a: nil, b: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NamesEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("NamesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name      string
		journal   string
		publisher string
		doi       string
		url       string
		want      RefType
	}{
		{name: "journal wins", journal: "Nature", publisher: "MIT Press", want: TypeJournalArticle},
		{name: "doi without venue is an article", doi: "10.1/x", want: TypeJournalArticle},
		{name: "book publisher", publisher: "Oxford University Press", want: TypeBook},
		{name: "publishing marker", publisher: "Springer Publishing", want: TypeBook},
		{name: "non-book publisher", publisher: "Acme Corp", want: TypeOther},
		{name: "url only", url: "https://example.com/post", want: TypeWebsite},
		{name: "nothing known", want: TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferType(tt.journal, tt.publisher, tt.doi, tt.url)
			if got != tt.want {
				t.Errorf("InferType(%q, %q, %q, %q) = %q, want %q",
					tt.journal, tt.publisher, tt.doi, tt.url, got, tt.want)
			}
		})
	}
}

func TestPublicationDate(t *testing.T) {
	if !(PublicationDate{}).IsZero() {
		t.Error("zero date IsZero() = false")
	}
	if (PublicationDate{Year: 2026}).IsZero() {
		t.Error("dated value IsZero() = true")
	}

	tests := []struct {
		name string
		date PublicationDate
		want int
	}{
		{name: "year only", date: PublicationDate{Year: 2026}, want: 1},
		{name: "year and month", date: PublicationDate{Year: 2026, Month: 3}, want: 2},
		{name: "full date", date: PublicationDate{Year: 2026, Month: 3, Day: 15}, want: 3},
		{name: "zero", date: PublicationDate{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.Specificity(); got != tt.want {
				t.Errorf("Specificity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVenue(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{name: "journal preferred", rec: Record{Journal: "Nature", Publisher: "Springer"}, want: "Nature"},
		{name: "publisher fallback", rec: Record{Publisher: "MIT Press"}, want: "MIT Press"},
		{name: "neither", rec: Record{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Venue(); got != tt.want {
				t.Errorf("Venue() = %q, want %q", got, tt.want)
			}
		})
	}
}
