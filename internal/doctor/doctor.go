package doctor

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/quotemark/quotemark/internal/anchor"
	"github.com/quotemark/quotemark/internal/locator"
	"github.com/quotemark/quotemark/internal/overlay"
	"github.com/quotemark/quotemark/internal/stream"
)

// Status classifies one anchor's resolvability against a document.
type Status string

// Diagnosis statuses, from healthy to hopeless.
const (
	// StatusResolved means the anchor resolves exactly.
	StatusResolved Status = "resolved"

	// StatusAmbiguous means the text occurs more than once and no
	// occurrence matches the stored context; the locator will pick the
	// first occurrence, which may not be the one originally marked.
	StatusAmbiguous Status = "ambiguous"

	// StatusNormalizedOnly means the text matches only after NFC
	// normalization of both sides. The document's encoding of the same
	// visible characters changed.
	StatusNormalizedOnly Status = "normalized_only"

	// StatusWhitespaceOnly means the text matches only after collapsing
	// runs of whitespace on both sides. The document reflowed.
	StatusWhitespaceOnly Status = "whitespace_only"

	// StatusMissing means the text is gone under every comparison tried.
	StatusMissing Status = "missing"
)

// Finding is the diagnosis for one stored anchor.
type Finding struct {
	// Descriptor is the anchor examined.
	Descriptor anchor.Descriptor

	// Status classifies the outcome.
	Status Status

	// Hint is a human-readable explanation suitable for CLI output.
	Hint string
}

// Diagnose examines every descriptor against the document's resolution
// stream and reports one finding per descriptor, in input order. A
// descriptor whose marker is already present in the tree is resolved by
// definition; its text lives inside the marked subtree and would never
// appear in the resolution stream.
func Diagnose(root *html.Node, descs []anchor.Descriptor) []Finding {
	live := make(map[string]bool)
	for _, m := range overlay.Markers(root) {
		live[m.ID] = true
	}

	s := stream.Build(root, stream.Options{
		MarkerClass:   overlay.MarkerClass,
		ExcludeMarked: true,
	})

	findings := make([]Finding, 0, len(descs))
	for _, d := range descs {
		if live[d.ID] {
			findings = append(findings, Finding{
				Descriptor: d,
				Status:     StatusResolved,
				Hint:       "already materialized in the document",
			})
			continue
		}
		findings = append(findings, diagnoseOne(s, d))
	}
	return findings
}

// diagnoseOne classifies a single descriptor.
func diagnoseOne(s *stream.Stream, d anchor.Descriptor) Finding {
	text := s.Text()

	offsets := locator.Occurrences(text, d.Text)
	if len(offsets) > 0 {
		if len(offsets) > 1 && !contextMatchesSomewhere(text, offsets, d) {
			return Finding{
				Descriptor: d,
				Status:     StatusAmbiguous,
				Hint:       "text occurs multiple times and the stored context matches none of them; the first occurrence will be used",
			}
		}
		return Finding{Descriptor: d, Status: StatusResolved, Hint: "resolves exactly"}
	}

	if len(locator.Occurrences(norm.NFC.String(text), norm.NFC.String(d.Text))) > 0 {
		return Finding{
			Descriptor: d,
			Status:     StatusNormalizedOnly,
			Hint:       "text matches only after NFC normalization; the document's unicode encoding changed since the mark was saved",
		}
	}

	if len(locator.Occurrences(foldSpace(text), foldSpace(d.Text))) > 0 {
		return Finding{
			Descriptor: d,
			Status:     StatusWhitespaceOnly,
			Hint:       "text matches only after collapsing whitespace; the document reflowed since the mark was saved",
		}
	}

	return Finding{
		Descriptor: d,
		Status:     StatusMissing,
		Hint:       "text no longer appears in the document; reconciliation will drop this anchor",
	}
}

// contextMatchesSomewhere reports whether at least one occurrence scores a
// non-empty context window.
func contextMatchesSomewhere(text string, offsets []int, d anchor.Descriptor) bool {
	if d.Prefix == "" && d.Suffix == "" {
		// No context stored; nothing to mismatch.
		return true
	}
	for _, off := range offsets {
		end := off + len(d.Text)
		if d.Prefix != "" && off >= len(d.Prefix) && text[off-len(d.Prefix):off] == d.Prefix {
			return true
		}
		if d.Suffix != "" && end+len(d.Suffix) <= len(text) && text[end:end+len(d.Suffix)] == d.Suffix {
			return true
		}
	}
	return false
}

// foldSpace collapses every run of whitespace to a single space.
func foldSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
