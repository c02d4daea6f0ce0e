package anchor

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ContextRadius is the maximum length, in bytes, of the prefix and suffix
// context windows captured around a marked passage.
//
// Design decision: 60 bytes is enough to disambiguate repeated phrases in
// practice while keeping persisted records small. Longer windows would make
// anchors more brittle, since any edit near the mark would invalidate the
// context and degrade occurrence scoring.
const ContextRadius = 60

// colorPattern is the strict hex-color grammar accepted for marks.
// Only #RGB and #RRGGBB forms are valid; named colors are rejected so that
// persisted records always round-trip through inline styles unchanged.
var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether color matches the #RGB or #RRGGBB grammar.
func ValidColor(color string) bool {
	return colorPattern.MatchString(color)
}

// Descriptor is the persisted description of one marked passage.
//
// Text is the exact marked substring of the document's logical text stream.
// Prefix and Suffix are best-effort context windows of at most ContextRadius
// bytes; either or both may be empty near document boundaries.
type Descriptor struct {
	// ID uniquely identifies the mark. It is also stamped on the live
	// marker element so storage and tree can be correlated.
	ID string `json:"id"`

	// Text is the exact marked substring. Never empty.
	Text string `json:"text"`

	// Prefix is up to ContextRadius bytes of stream text preceding the mark.
	Prefix string `json:"prefix,omitempty"`

	// Suffix is up to ContextRadius bytes of stream text following the mark.
	Suffix string `json:"suffix,omitempty"`

	// Color is the marker color in #RGB or #RRGGBB form.
	Color string `json:"color"`

	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the last mutation time in epoch milliseconds.
	UpdatedAt int64 `json:"updatedAt"`
}

// NewDescriptor builds a Descriptor for a freshly extracted quote, assigning
// a new ID and stamping both timestamps with now.
func NewDescriptor(q Quote, color string, now time.Time) Descriptor {
	ms := now.UnixMilli()
	return Descriptor{
		ID:        uuid.NewString(),
		Text:      q.Text,
		Prefix:    q.Prefix,
		Suffix:    q.Suffix,
		Color:     color,
		CreatedAt: ms,
		UpdatedAt: ms,
	}
}

// Valid reports whether the descriptor satisfies the persistence invariants:
// non-empty text and a color matching the strict hex grammar.
func (d Descriptor) Valid() bool {
	return d.Text != "" && ValidColor(d.Color)
}
