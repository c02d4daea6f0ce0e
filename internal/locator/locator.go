package locator

import (
	"errors"
	"strings"

	"github.com/quotemark/quotemark/internal/stream"
)

// Resolution errors.
var (
	// ErrNotFound is returned when the quoted text has no occurrence in the
	// stream. Reconciliation treats this as "drop the anchor", never as a
	// hard failure.
	ErrNotFound = errors.New("text not found in document")

	// ErrEmptyText is returned when the query text is empty. An anchor with
	// empty text is invalid and can never resolve.
	ErrEmptyText = errors.New("query text is empty")
)

// Query is the searchable part of an anchor: the exact text plus optional
// context windows used only to rank repeated occurrences.
type Query struct {
	Text   string
	Prefix string
	Suffix string
}

// Find resolves q against the stream and returns the live position of the
// best occurrence.
//
// Every literal occurrence of q.Text is a candidate, including overlapping
// ones. Each candidate scores one point when the stream bytes immediately
// before it equal q.Prefix and one when the bytes immediately after it equal
// q.Suffix; an empty window contributes nothing and disqualifies nothing.
// The highest score wins, ties broken by earliest position in document
// order.
func Find(s *stream.Stream, q Query) (stream.Position, error) {
	if q.Text == "" {
		return stream.Position{}, ErrEmptyText
	}

	offsets := Occurrences(s.Text(), q.Text)
	if len(offsets) == 0 {
		return stream.Position{}, ErrNotFound
	}

	best := offsets[0]
	bestScore := -1
	for _, off := range offsets {
		score := scoreOccurrence(s.Text(), off, off+len(q.Text), q)
		if score > bestScore {
			best = off
			bestScore = score
		}
	}

	return s.Range(best, best+len(q.Text))
}

// Occurrences returns the byte offset of every occurrence of needle in
// haystack, in ascending order. The search advances one byte at a time so
// overlapping occurrences are all reported.
func Occurrences(haystack, needle string) []int {
	if needle == "" {
		return nil
	}

	var offsets []int
	from := 0
	for {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return offsets
		}
		offsets = append(offsets, from+i)
		from += i + 1
	}
}

// scoreOccurrence counts how many non-empty context windows of q exactly
// match the stream around the candidate occupying [start, end).
func scoreOccurrence(text string, start, end int, q Query) int {
	score := 0
	if q.Prefix != "" && start >= len(q.Prefix) && text[start-len(q.Prefix):start] == q.Prefix {
		score++
	}
	if q.Suffix != "" && end+len(q.Suffix) <= len(text) && text[end:end+len(q.Suffix)] == q.Suffix {
		score++
	}
	return score
}
