// Package locator re-finds anchored text inside the current document.
//
// Matching is exact and case-sensitive over the logical text stream: no
// whitespace folding, no case folding, no unicode normalization. Documents
// whose rendered text drifts from the stored quote therefore fail to
// resolve, which is the signal the reconciler uses to prune stale anchors.
//
// When a quote occurs more than once, the stored prefix and suffix context
// windows score the candidates; empty context is vacuous and neither helps
// nor hurts a candidate. The locator never mutates the document, so it is
// safe to call repeatedly against read-only tree state.
package locator
