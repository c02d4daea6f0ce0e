package stream

import (
	"errors"

	"golang.org/x/net/html"
)

// ErrRangeOutsideStream is returned when a requested range does not fall
// entirely within the stream's segments.
var ErrRangeOutsideStream = errors.New("range outside text stream")

// Position is a stream range resolved back onto the live tree: the text node
// and in-node byte offset of each endpoint, plus the stream coordinates the
// resolution was made from.
type Position struct {
	// Start and End are the half-open stream byte range.
	Start int
	End   int

	// StartNode holds the first byte of the range at StartOffset.
	StartNode   *html.Node
	StartOffset int

	// EndNode holds the byte immediately before End; EndOffset is the
	// in-node offset one past that byte.
	EndNode   *html.Node
	EndOffset int
}

// Range maps the half-open stream range [start, end) onto live text nodes.
func (s *Stream) Range(start, end int) (Position, error) {
	if start < 0 || end > len(s.text) || start >= end {
		return Position{}, ErrRangeOutsideStream
	}

	startSeg, ok := s.SegmentAt(start)
	if !ok {
		return Position{}, ErrRangeOutsideStream
	}
	// The end of the range is anchored to the segment holding its last
	// byte, so a range ending exactly on a segment boundary stays within
	// the segment that contributed the final character.
	endSeg, ok := s.SegmentAt(end - 1)
	if !ok {
		return Position{}, ErrRangeOutsideStream
	}

	return Position{
		Start:       start,
		End:         end,
		StartNode:   startSeg.Node,
		StartOffset: start - startSeg.Start,
		EndNode:     endSeg.Node,
		EndOffset:   end - endSeg.Start,
	}, nil
}

// SegmentsIn returns, in document order, every segment that overlaps the
// half-open stream range [start, end).
func (s *Stream) SegmentsIn(start, end int) []Segment {
	var out []Segment
	for _, seg := range s.segments {
		if seg.End <= start {
			continue
		}
		if seg.Start >= end {
			break
		}
		out = append(out, seg)
	}
	return out
}
