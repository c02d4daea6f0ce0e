// Package overlay keeps the visible tree's marker elements congruent with
// the marked intervals.
//
// A marker is one <span> carrying the reserved class, the mark's id in a
// data attribute, and the mark color as an inline background style. Apply
// wraps a resolved range in a marker; Unwrap replaces a marker with plain
// text and re-coalesces the surrounding text nodes so subsequent stream
// walks see merged leaves; MergeAdjacent folds touching same-color markers
// into one.
//
// The materializer never invents or discards document content: it only
// wraps and unwraps text that is already there, and an apply followed by an
// unwrap leaves the exact character sequence intact.
package overlay
