package stream

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/net/html"
)

// Segment records one eligible text leaf's contribution to the stream as the
// half-open byte range [Start, End). Segments are ephemeral: they hold live
// node pointers and are recomputed for every locate operation.
type Segment struct {
	// Node is the text node that contributed this slice of the stream.
	Node *html.Node

	// Start is the byte offset of the node's text within the stream.
	Start int

	// End is the byte offset one past the node's last byte.
	End int
}

// Options controls which leaves are eligible for the stream.
type Options struct {
	// MarkerClass is the reserved class that identifies marker elements.
	// Required when ExcludeMarked is set.
	MarkerClass string

	// ExcludeMarked skips subtrees rooted at a marker element. Descriptor
	// resolution uses this mode so stored text never matches content that
	// is already wrapped; mutation planning keeps marked text visible.
	ExcludeMarked bool
}

// Stream is the logical text stream of one document together with the
// segment table that maps stream offsets back to live text nodes.
type Stream struct {
	text     string
	segments []Segment
}

// Build walks the eligible text leaves under root in document order and
// returns their concatenation as a Stream. It performs no mutation.
func Build(root *html.Node, opts Options) *Stream {
	var (
		sb       strings.Builder
		segments []Segment
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if !eligible(n, opts) {
				return
			}
		case html.TextNode:
			if n.Data == "" {
				return
			}
			start := sb.Len()
			sb.WriteString(n.Data)
			segments = append(segments, Segment{Node: n, Start: start, End: sb.Len()})
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return &Stream{text: sb.String(), segments: segments}
}

// eligible reports whether an element's subtree contributes to the stream.
func eligible(n *html.Node, opts Options) bool {
	switch n.Data {
	case "script", "style":
		return false
	}
	if editable(n) {
		return false
	}
	if opts.ExcludeMarked && opts.MarkerClass != "" && HasClass(n, opts.MarkerClass) {
		return false
	}
	return true
}

// editable reports whether an element declares itself contenteditable.
// Per the HTML spec, contenteditable="" and contenteditable="true" both
// enable editing; only an explicit "false" disables it.
func editable(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "contenteditable" {
			return !strings.EqualFold(a.Val, "false")
		}
	}
	return false
}

// HasClass reports whether the element carries class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// Text returns the full stream text.
func (s *Stream) Text() string {
	return s.text
}

// Len returns the stream length in bytes.
func (s *Stream) Len() int {
	return len(s.text)
}

// Segments returns the segment table in document order.
func (s *Stream) Segments() []Segment {
	return s.segments
}

// SegmentAt returns the segment containing byte offset off. An offset on a
// segment boundary belongs to the segment that starts there.
func (s *Stream) SegmentAt(off int) (Segment, bool) {
	i := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].End > off
	})
	if i >= len(s.segments) || off < s.segments[i].Start {
		return Segment{}, false
	}
	return s.segments[i], true
}

// Interval returns the stream range contributed by the given text node, or
// ok=false when the node is not part of the stream.
func (s *Stream) Interval(n *html.Node) (start, end int, ok bool) {
	for _, seg := range s.segments {
		if seg.Node == n {
			return seg.Start, seg.End, true
		}
	}
	return 0, 0, false
}

// Context returns the bounded context windows around the half-open range
// [start, end): up to radius bytes before it and up to radius bytes after.
func (s *Stream) Context(start, end, radius int) (prefix, suffix string) {
	p := start - radius
	if p < 0 {
		p = 0
	}
	q := end + radius
	if q > len(s.text) {
		q = len(s.text)
	}
	return s.text[p:start], s.text[end:q]
}

// Fingerprint returns the SHA3-256 hex digest of the stream text. Marker
// elements neither add nor remove characters, so a fingerprint taken over a
// marker-inclusive stream is stable across mark and unmark operations and
// changes only when the document's own text changes.
func (s *Stream) Fingerprint() string {
	sum := sha3.Sum256([]byte(s.text))
	return hex.EncodeToString(sum[:])
}
