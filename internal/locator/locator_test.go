package locator

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/quotemark/quotemark/internal/stream"
)

// buildStream parses src and builds its text stream.
func buildStream(t *testing.T, src string) *stream.Stream {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return stream.Build(doc, stream.Options{})
}

// TestOccurrences tests literal substring search.
func TestOccurrences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		haystack string
		needle   string
		want     []int
	}{
		{name: "single occurrence", haystack: "the quick fox", needle: "quick", want: []int{4}},
		{name: "multiple occurrences", haystack: "ab ab ab", needle: "ab", want: []int{0, 3, 6}},
		{name: "overlapping occurrences", haystack: "aaaa", needle: "aa", want: []int{0, 1, 2}},
		{name: "no occurrence", haystack: "abc", needle: "xyz", want: nil},
		{name: "case sensitive", haystack: "Quick quick", needle: "quick", want: []int{6}},
		{name: "empty needle", haystack: "abc", needle: "", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Occurrences(tt.haystack, tt.needle)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("offset[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestFind tests occurrence resolution and context scoring.
func TestFind(t *testing.T) {
	t.Parallel()

	t.Run("single occurrence resolves without context", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>The quick brown fox</p></body>")
		pos, err := Find(s, Query{Text: "quick"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.Start != 4 || pos.End != 9 {
			t.Errorf("got range [%d,%d), want [4,9)", pos.Start, pos.End)
		}
	})

	t.Run("missing text is not found", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>The slow brown fox</p></body>")
		_, err := Find(s, Query{Text: "quick"})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>text</p></body>")
		_, err := Find(s, Query{Text: ""})
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("got %v, want ErrEmptyText", err)
		}
	})

	t.Run("suffix context picks the right occurrence", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>cat on mat, cat in hat</p></body>")
		pos, err := Find(s, Query{Text: "cat", Suffix: " in hat"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.Start != 12 {
			t.Errorf("got start %d, want 12 (second occurrence)", pos.Start)
		}
	})

	t.Run("prefix context picks the right occurrence", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>red cat, blue cat</p></body>")
		pos, err := Find(s, Query{Text: "cat", Prefix: "blue "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.Start != 14 {
			t.Errorf("got start %d, want 14 (occurrence after %q)", pos.Start, "blue ")
		}
	})

	t.Run("ties break to the earliest occurrence", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>echo echo echo</p></body>")
		pos, err := Find(s, Query{Text: "echo", Prefix: "zzz", Suffix: "zzz"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.Start != 0 {
			t.Errorf("got start %d, want 0 (earliest occurrence on tie)", pos.Start)
		}
	})

	t.Run("empty context never outranks matching context", func(t *testing.T) {
		t.Parallel()

		// The first occurrence has no matching context; the second is
		// preceded by the stored prefix. The stored suffix is empty and
		// must not count toward either candidate.
		s := buildStream(t, "<body><p>word tail, key word</p></body>")
		pos, err := Find(s, Query{Text: "word", Prefix: "key "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.Start != 15 {
			t.Errorf("got start %d, want 15", pos.Start)
		}
	})

	t.Run("stale context still resolves a unique occurrence", func(t *testing.T) {
		t.Parallel()

		// Context mismatch must never invalidate the only occurrence.
		s := buildStream(t, "<body><p>alpha beta gamma</p></body>")
		pos, err := Find(s, Query{Text: "beta", Prefix: "CHANGED ", Suffix: " CHANGED"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.Start != 6 {
			t.Errorf("got start %d, want 6", pos.Start)
		}
	})

	t.Run("match crossing element boundaries", func(t *testing.T) {
		t.Parallel()

		s := buildStream(t, "<body><p>The <b>quick</b> brown</p></body>")
		pos, err := Find(s, Query{Text: "e quick b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos.StartNode == pos.EndNode {
			t.Error("expected endpoints in different text nodes")
		}
	})
}
