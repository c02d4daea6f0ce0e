// Package stream builds the logical text stream of an HTML document.
//
// The stream is the concatenation, in document order, of every eligible text
// leaf's content. It gives a single linear byte-coordinate space over an
// otherwise tree-shaped document, which is what anchors, intervals, and the
// locator operate on. Eligibility excludes script and style subtrees,
// editable regions, and optionally subtrees already wrapped in a marker
// element.
//
// A Stream is a pure, recomputed projection: building one never mutates the
// tree, and any structural mutation of the tree invalidates the segment
// table, so callers rebuild after every mutation.
package stream
