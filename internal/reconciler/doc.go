// Package reconciler keeps stored anchors and the live document in step.
//
// On load it re-resolves every stored descriptor against the current tree,
// materializes the ones that still match, silently drops the ones that
// don't, and writes the kept subset back: the persisted set self-heals as
// the page changes. After any mutation it re-derives the whole array from
// the marker elements actually present in the tree, so storage always
// mirrors DOM ground truth rather than an independently tracked log.
package reconciler
