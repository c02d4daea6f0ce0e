// Package doctor explains why stored anchors do or don't resolve.
//
// The locator is deliberately strict: exact, case-sensitive, byte-for-byte
// matching. That strictness makes failures opaque: a page that switched
// from precomposed to decomposed accents, or collapsed its whitespace,
// silently sheds anchors. The doctor re-runs resolution with progressively
// looser comparisons (unicode NFC normalization, whitespace folding) purely
// to produce a diagnosis; it never mutates the document and never changes
// what the locator itself would match.
package doctor
