// Package store persists anchor descriptors and preferences in SQLite.
//
// All data is namespaced by page key (origin plus pathname). The descriptor
// array for a page is always read and written as a whole: Save replaces the
// stored array in a single statement, which serializes concurrent writers by
// last-write-wins. The array is capped; anything beyond the cap is dropped
// in array order.
package store
