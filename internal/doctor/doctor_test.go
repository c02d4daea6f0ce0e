package doctor

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/quotemark/quotemark/internal/anchor"
)

// parseDoc parses src into a document tree.
func parseDoc(t *testing.T, src string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

// TestDiagnose tests anchor diagnosis classification.
func TestDiagnose(t *testing.T) {
	t.Parallel()

	t.Run("exact match resolves", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, "<body><p>The quick brown fox</p></body>")
		findings := Diagnose(doc, []anchor.Descriptor{{ID: "a", Text: "quick", Color: "#abc"}})

		if findings[0].Status != StatusResolved {
			t.Errorf("got %q, want resolved", findings[0].Status)
		}
	})

	t.Run("ambiguous occurrences with stale context", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, "<body><p>echo one echo two</p></body>")
		d := anchor.Descriptor{ID: "a", Text: "echo", Prefix: "GONE ", Suffix: " GONE", Color: "#abc"}
		findings := Diagnose(doc, []anchor.Descriptor{d})

		if findings[0].Status != StatusAmbiguous {
			t.Errorf("got %q, want ambiguous", findings[0].Status)
		}
	})

	t.Run("multiple occurrences with matching context are fine", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, "<body><p>echo one echo two</p></body>")
		d := anchor.Descriptor{ID: "a", Text: "echo", Suffix: " two", Color: "#abc"}
		findings := Diagnose(doc, []anchor.Descriptor{d})

		if findings[0].Status != StatusResolved {
			t.Errorf("got %q, want resolved", findings[0].Status)
		}
	})

	t.Run("decomposed accents detected via NFC", func(t *testing.T) {
		t.Parallel()

		// Document carries e + combining acute; the anchor stored the
		// precomposed form.
		doc := parseDoc(t, "<body><p>café open</p></body>")
		d := anchor.Descriptor{ID: "a", Text: "café", Color: "#abc"}
		findings := Diagnose(doc, []anchor.Descriptor{d})

		if findings[0].Status != StatusNormalizedOnly {
			t.Errorf("got %q, want normalized_only", findings[0].Status)
		}
	})

	t.Run("reflowed whitespace detected", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, "<body><p>alpha\n\t beta</p></body>")
		d := anchor.Descriptor{ID: "a", Text: "alpha beta", Color: "#abc"}
		findings := Diagnose(doc, []anchor.Descriptor{d})

		if findings[0].Status != StatusWhitespaceOnly {
			t.Errorf("got %q, want whitespace_only", findings[0].Status)
		}
	})

	t.Run("materialized marker is resolved", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, `<body><p>a <span class="qm-mark" data-qm-id="m1" style="background-color: #abc;">quote</span> b</p></body>`)
		d := anchor.Descriptor{ID: "m1", Text: "quote", Color: "#abc"}
		findings := Diagnose(doc, []anchor.Descriptor{d})

		if findings[0].Status != StatusResolved {
			t.Errorf("got %q, want resolved", findings[0].Status)
		}
	})

	t.Run("vanished text is missing", func(t *testing.T) {
		t.Parallel()

		doc := parseDoc(t, "<body><p>nothing here</p></body>")
		d := anchor.Descriptor{ID: "a", Text: "completely different", Color: "#abc"}
		findings := Diagnose(doc, []anchor.Descriptor{d})

		if findings[0].Status != StatusMissing {
			t.Errorf("got %q, want missing", findings[0].Status)
		}
	})
}
