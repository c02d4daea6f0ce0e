// Package anchor defines the portable description of a marked passage.
//
// An anchor records the exact marked text together with bounded windows of
// surrounding context. The context windows exist only to disambiguate
// repeated occurrences of the same text when the anchor is re-resolved
// against a reloaded document; they are never required to be present.
//
// Anchors are the unit of persistence: everything the store keeps per page
// is an ordered array of Descriptor values.
package anchor
