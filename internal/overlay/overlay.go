package overlay

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/quotemark/quotemark/internal/stream"
)

// MarkerClass is the reserved class that identifies marker elements.
// Subtrees bearing it are skipped when the stream is built for descriptor
// resolution, so stored text never re-matches inside an existing mark.
const MarkerClass = "qm-mark"

// markerIDAttr carries the mark id on the marker element, correlating the
// live tree with persisted descriptors.
const markerIDAttr = "data-qm-id"

// Mutation errors. These surface as the generic "exception" failure at the
// operation boundary: they indicate a tree shape the materializer cannot
// mutate safely, and the operation aborts without a persistence write.
var (
	// ErrDetachedNode is returned when an endpoint's text node has no parent.
	ErrDetachedNode = errors.New("text node is detached from the tree")

	// ErrNotMarker is returned when unwrapping a node that is not a marker.
	ErrNotMarker = errors.New("node is not a marker element")

	// ErrDiscontiguousRange is returned when a resolved range spans leaves
	// with intervening text the stream does not cover, such as an existing
	// marker between two eligible leaves. Wrapping such a range would
	// reorder the document's characters.
	ErrDiscontiguousRange = errors.New("range straddles text outside the stream")
)

// Marker is a live marker element together with its recorded identity.
type Marker struct {
	// Element is the marker <span> in the tree.
	Element *html.Node

	// ID is the mark id stamped on the element.
	ID string

	// Color is the background color parsed from the inline style.
	Color string

	// Text is the concatenated text content of the marker.
	Text string
}

// IsMarker reports whether n is a marker element.
func IsMarker(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && stream.HasClass(n, MarkerClass)
}

// Apply wraps the resolved position in a single marker element.
//
// The marker's only child is one new text node bearing the full matched
// text. When the range spans several original leaves, those leaves give up
// the covered part of their content to that node: content identity is by
// text value, not by retaining the original leaf structure.
func Apply(s *stream.Stream, pos stream.Position, id, color string) (*html.Node, error) {
	if pos.StartNode == nil || pos.StartNode.Parent == nil {
		return nil, ErrDetachedNode
	}
	if pos.EndNode == nil || pos.EndNode.Parent == nil {
		return nil, ErrDetachedNode
	}

	markText := s.Text()[pos.Start:pos.End]
	marker := newMarker(id, color, markText)

	parent := pos.StartNode.Parent
	before := pos.StartNode.Data[:pos.StartOffset]

	if pos.StartNode == pos.EndNode {
		after := pos.EndNode.Data[pos.EndOffset:]
		if before != "" {
			parent.InsertBefore(textNode(before), pos.StartNode)
		}
		parent.InsertBefore(marker, pos.StartNode)
		if after != "" {
			parent.InsertBefore(textNode(after), pos.StartNode)
		}
		parent.RemoveChild(pos.StartNode)
		return marker, nil
	}

	// The range spans several leaves. The marker lands at the start
	// node's position; every covered leaf loses the covered part of its
	// text, which now lives inside the marker. Refuse the wrap when text
	// the stream does not cover sits between those leaves: collapsing
	// around it would move it out of order.
	if !contiguous(s, pos) {
		return nil, ErrDiscontiguousRange
	}
	if before != "" {
		parent.InsertBefore(textNode(before), pos.StartNode)
	}
	parent.InsertBefore(marker, pos.StartNode)
	parent.RemoveChild(pos.StartNode)

	for _, seg := range s.SegmentsIn(pos.Start, pos.End) {
		if seg.Node == pos.StartNode || seg.Node == pos.EndNode {
			continue
		}
		if seg.Node.Parent != nil {
			seg.Node.Parent.RemoveChild(seg.Node)
		}
	}

	after := pos.EndNode.Data[pos.EndOffset:]
	if after == "" {
		pos.EndNode.Parent.RemoveChild(pos.EndNode)
	} else {
		pos.EndNode.Data = after
	}

	return marker, nil
}

// contiguous reports whether the document-order walk from the range's start
// leaf to its end leaf meets no non-empty text node outside the range's own
// segments.
func contiguous(s *stream.Stream, pos stream.Position) bool {
	covered := make(map[*html.Node]bool)
	for _, seg := range s.SegmentsIn(pos.Start, pos.End) {
		covered[seg.Node] = true
	}

	for n := nextInDocument(pos.StartNode); n != nil; n = nextInDocument(n) {
		if n == pos.EndNode {
			return true
		}
		if n.Type == html.TextNode && n.Data != "" && !covered[n] {
			return false
		}
	}
	return false
}

// nextInDocument returns the pre-order successor of n.
func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// Unwrap replaces a marker element with a plain text node carrying its text
// content, then coalesces adjacent text nodes under the parent so the next
// stream walk sees merged leaves.
func Unwrap(el *html.Node) error {
	if !IsMarker(el) {
		return ErrNotMarker
	}
	parent := el.Parent
	if parent == nil {
		return ErrDetachedNode
	}

	text := textContent(el)
	if text != "" {
		parent.InsertBefore(textNode(text), el)
	}
	parent.RemoveChild(el)
	Normalize(parent)
	return nil
}

// Markers returns every marker element under root in document order.
// Markers never nest, so the walk does not descend into one.
func Markers(root *html.Node) []Marker {
	var out []Marker

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if IsMarker(n) {
			out = append(out, Marker{
				Element: n,
				ID:      attr(n, markerIDAttr),
				Color:   colorFromStyle(attr(n, "style")),
				Text:    textContent(n),
			})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return out
}

// MarkerByID returns the marker with the given id, or ok=false.
func MarkerByID(root *html.Node, id string) (Marker, bool) {
	for _, m := range Markers(root) {
		if m.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}

// MergeAdjacent folds immediately adjacent sibling markers of identical
// color into the first of each run, concatenating their text. It returns
// the number of markers removed.
func MergeAdjacent(root *html.Node) int {
	merged := 0
	for _, m := range Markers(root) {
		el := m.Element
		if el.Parent == nil {
			continue // already merged into a predecessor
		}
		for {
			next := el.NextSibling
			if !IsMarker(next) || colorFromStyle(attr(next, "style")) != colorFromStyle(attr(el, "style")) {
				break
			}
			setText(el, textContent(el)+textContent(next))
			el.Parent.RemoveChild(next)
			merged++
		}
	}
	return merged
}

// Normalize coalesces adjacent text-node children of parent and drops empty
// ones, mirroring DOM normalization.
func Normalize(parent *html.Node) {
	c := parent.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode {
			if c.Data == "" {
				parent.RemoveChild(c)
			} else if next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				parent.RemoveChild(next)
				continue // retry the same node against its new neighbor
			}
		}
		c = next
	}
}

// newMarker builds a marker element with one text child.
func newMarker(id, color, text string) *html.Node {
	marker := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: MarkerClass},
			{Key: markerIDAttr, Val: id},
			{Key: "style", Val: "background-color: " + color + ";"},
		},
	}
	marker.AppendChild(textNode(text))
	return marker
}

// setText replaces the marker's children with a single text node.
func setText(el *html.Node, text string) {
	for el.FirstChild != nil {
		el.RemoveChild(el.FirstChild)
	}
	el.AppendChild(textNode(text))
}

// textNode builds a bare text node.
func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// textContent concatenates all descendant text of n in document order.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// colorFromStyle extracts the background-color value from an inline style.
func colorFromStyle(style string) string {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(k) == "background-color" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
