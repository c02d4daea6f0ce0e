// Package main provides the entry point for the quotemark CLI.
//
// quotemark anchors marked passages of text inside HTML documents and makes
// those marks survive document changes. Marks are persisted per page and
// re-anchored on every load, with anchors that no longer resolve pruned
// automatically.
//
// Usage:
//
//	quotemark mark page.html --text "quick brown"
//	quotemark reconcile page.html
//
// See --help for all available options.
package main

// main is the entry point for quotemark.
func main() {
	Execute()
}
