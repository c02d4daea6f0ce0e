package export

import (
	"time"

	"github.com/quotemark/quotemark/internal/anchor"
)

// PageReport is the exportable view of one page's stored marks.
type PageReport struct {
	// PageKey identifies the page the marks belong to.
	PageKey string `json:"pageKey"`

	// ExportedAt is when the report was generated.
	ExportedAt time.Time `json:"exportedAt"`

	// Marks are the stored descriptors, oldest first.
	Marks []anchor.Descriptor `json:"marks"`

	// Drifted reports whether the document's text changed since the
	// marks were last saved.
	Drifted bool `json:"drifted,omitempty"`
}

// NewPageReport builds a report for pageKey from its stored marks.
func NewPageReport(pageKey string, marks []anchor.Descriptor, drifted bool) *PageReport {
	return &PageReport{
		PageKey:    pageKey,
		ExportedAt: time.Now().UTC(),
		Marks:      marks,
		Drifted:    drifted,
	}
}

// ColorCounts tallies the marks by color, for the summary section.
func (r *PageReport) ColorCounts() map[string]int {
	counts := make(map[string]int, len(r.Marks))
	for _, m := range r.Marks {
		counts[m.Color]++
	}
	return counts
}
