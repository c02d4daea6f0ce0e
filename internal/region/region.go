package region

import "sort"

// Interval is one marked stream range with its identity and color.
type Interval struct {
	// ID is the mark identifier shared with the marker element and the
	// persisted descriptor.
	ID string

	// Color is the marker color in #RGB or #RRGGBB form.
	Color string

	// Start and End are the half-open stream byte range.
	Start int
	End   int
}

// intersects reports whether the interval overlaps the half-open range
// [start, end) by at least one byte.
func (iv Interval) intersects(start, end int) bool {
	return iv.Start < end && iv.End > start
}

// Model is an ordered set of pairwise non-overlapping intervals.
type Model struct {
	intervals []Interval
}

// New builds a model from the given intervals, sorting them by start.
// The caller is responsible for supplying non-overlapping intervals; marker
// elements in a tree can never overlap, so intervals derived from them
// satisfy the invariant by construction.
func New(intervals ...Interval) *Model {
	ivs := make([]Interval, len(intervals))
	copy(ivs, intervals)
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
	return &Model{intervals: ivs}
}

// Intervals returns the intervals sorted by start.
func (m *Model) Intervals() []Interval {
	return m.intervals
}

// OverlapsFully reports whether every byte of [start, end) is covered by
// some interval. Coverage may be stitched together from several adjacent
// intervals. This decides the toggle direction: a fully covered selection
// unmarks, anything else marks.
func (m *Model) OverlapsFully(start, end int) bool {
	if start >= end {
		return false
	}

	at := start
	for _, iv := range m.intervals {
		if iv.End <= at {
			continue
		}
		if iv.Start > at {
			return false
		}
		at = iv.End
		if at >= end {
			return true
		}
	}
	return false
}

// RemoveIntersecting removes every interval that overlaps [start, end) and
// returns the removed intervals in document order. Removal is whole-extent:
// a partially overlapped interval is removed entirely, never clipped. This
// mirrors the unmark behavior, which unwraps whole marker elements.
func (m *Model) RemoveIntersecting(start, end int) []Interval {
	var removed, kept []Interval
	for _, iv := range m.intervals {
		if iv.intersects(start, end) {
			removed = append(removed, iv)
		} else {
			kept = append(kept, iv)
		}
	}
	m.intervals = kept
	return removed
}

// Insert adds a new interval covering [start, end) with the given identity
// and color.
//
// Any existing interval intersecting the range is first removed, and the
// inserted interval expands to the union of the range with everything it
// displaced: re-marking always wins over prior marks, and a partial overlap
// produces one region with the new color over the union of the text.
// Immediately adjacent intervals of the same color are coalesced into the
// inserted interval as well, keeping the merge eager.
//
// Insert returns the final inserted interval and the intervals it displaced;
// the caller unwraps the displaced markers and materializes the final one.
func (m *Model) Insert(id, color string, start, end int) (Interval, []Interval) {
	displaced := m.RemoveIntersecting(start, end)
	for _, iv := range displaced {
		if iv.Start < start {
			start = iv.Start
		}
		if iv.End > end {
			end = iv.End
		}
	}

	// Eager adjacency merge: equal-color neighbors touching the union
	// boundary become part of the new interval.
	var kept []Interval
	for _, iv := range m.intervals {
		if iv.Color == color && (iv.End == start || iv.Start == end) {
			if iv.Start < start {
				start = iv.Start
			}
			if iv.End > end {
				end = iv.End
			}
			displaced = append(displaced, iv)
			continue
		}
		kept = append(kept, iv)
	}
	m.intervals = kept

	final := Interval{ID: id, Color: color, Start: start, End: end}
	m.intervals = append(m.intervals, final)
	sort.Slice(m.intervals, func(i, j int) bool { return m.intervals[i].Start < m.intervals[j].Start })
	sort.Slice(displaced, func(i, j int) bool { return displaced[i].Start < displaced[j].Start })

	return final, displaced
}
