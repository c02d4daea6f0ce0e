package anchor

import "errors"

// Extraction and validation errors.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances at each call site. Callers use errors.Is() to decide
// which machine-readable failure reason to surface, while the messages stay
// human-readable.
var (
	// ErrEmptySelection is returned when a selection's text is empty after
	// trimming whitespace. Marks must carry at least one visible character.
	ErrEmptySelection = errors.New("selection text is empty")

	// ErrInvalidRange is returned when a selection range is collapsed or
	// inverted (start >= end) or falls outside the text stream.
	ErrInvalidRange = errors.New("selection range is invalid")

	// ErrInvalidColor is returned when a color does not match the #RGB or
	// #RRGGBB grammar.
	ErrInvalidColor = errors.New("color must be #RGB or #RRGGBB")
)
