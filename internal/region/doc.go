// Package region maintains the ordered set of marked text intervals.
//
// Intervals live in logical-text-stream coordinates and are pairwise
// non-overlapping, sorted by start. The model exists for the lifetime of
// one apply operation: it is derived from the live marker elements, the
// operation computes coverage and the union to materialize, and the result
// is immediately written back to the tree and storage.
package region
