// Package interval implements a sweep-line interval-overlap index.
//
// The Engine is tuned for workloads where both the stored intervals and
// the query intervals arrive in ascending order of start coordinate (the
// typical access pattern for sorted genomic features such as transcripts
// and variants on a single chromosome). Rather than descending a balanced
// tree on every query, it precomputes, for each stored interval, two
// neighbour pointers (branchLeft/branchRight) that let a query seeded by a
// single binary search hop through the overlap set in time proportional to
// the number of results returned.
package interval

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotSorted is returned by Add when the new interval's start precedes
// the previously added interval's start. The engine requires ascending
// start order and does not sort on its own.
var ErrNotSorted = errors.New("interval: intervals must be added in ascending start order")

// sentinelInfinity stands in for "no right neighbour seen yet" during a
// search; any real branch index is smaller.
const sentinelInfinity = math.MaxInt - 1

type span[S cmp.Ordered] struct {
	start, end S
}

// Engine stores intervals in start-sorted order alongside an opaque
// payload of type T and answers overlap queries against a closed range
// [qs, qe]. An Engine is built once via Add/Index and is read-only
// afterwards; concurrent queries are not safe against the same instance
// because the search cursor is mutable state (clone the Engine per worker
// goroutine if you need parallel queries over the same data).
type Engine[S cmp.Ordered, T any] struct {
	intervals []span[S]
	starts    []S
	data      []T

	branchLeft  []int
	branchRight []int

	idx           int
	nIntervals    int
	lastQStart    S
	hasLastQStart bool
}

// New returns an empty Engine.
func New[S cmp.Ordered, T any]() *Engine[S, T] {
	return &Engine[S, T]{}
}

// Reserve hints the expected number of intervals to avoid reallocating
// the backing arrays while adding.
func (e *Engine[S, T]) Reserve(n int) {
	if cap(e.intervals) >= n {
		return
	}
	intervals := make([]span[S], len(e.intervals), n)
	starts := make([]S, len(e.starts), n)
	data := make([]T, len(e.data), n)
	copy(intervals, e.intervals)
	copy(starts, e.starts)
	copy(data, e.data)
	e.intervals, e.starts, e.data = intervals, starts, data
}

// Size returns the number of intervals currently held.
func (e *Engine[S, T]) Size() int {
	return len(e.intervals)
}

// Add appends one interval and its payload. Intervals must be added in
// ascending start order; violating that invariant returns ErrNotSorted
// and leaves the engine in a state that should be discarded with Clear.
func (e *Engine[S, T]) Add(start, end S, payload T) error {
	if n := len(e.intervals); n > 0 && start < e.intervals[n-1].start {
		return fmt.Errorf("interval: add(%v, %v): %w (last start was %v)", start, end, ErrNotSorted, e.intervals[n-1].start)
	}
	e.intervals = append(e.intervals, span[S]{start: start, end: end})
	e.starts = append(e.starts, start)
	e.data = append(e.data, payload)
	return nil
}

// Clear empties the engine, returning it to the pre-Add state.
func (e *Engine[S, T]) Clear() {
	e.intervals = nil
	e.starts = nil
	e.data = nil
	e.branchLeft = nil
	e.branchRight = nil
	e.idx = 0
	e.nIntervals = 0
	e.hasLastQStart = false
}

// Start returns the start coordinate of the i-th stored interval.
func (e *Engine[S, T]) Start(i int) S { return e.intervals[i].start }

// End returns the end coordinate of the i-th stored interval.
func (e *Engine[S, T]) End(i int) S { return e.intervals[i].end }

// Data returns the payload associated with the i-th stored interval.
func (e *Engine[S, T]) Data(i int) T { return e.data[i] }

// BranchLeft returns the left-neighbour index computed by Index, or -1.
// Exposed mainly so callers and tests can verify the neighbour-table
// invariants described in the package documentation.
func (e *Engine[S, T]) BranchLeft(i int) int { return e.branchLeft[i] }

// BranchRight returns the right-neighbour index computed by Index, or -1.
func (e *Engine[S, T]) BranchRight(i int) int { return e.branchRight[i] }

// binarySearch moves idx to the largest position p such that starts[p] <=
// pos (or to 0 when no start is <= pos). It first searches only the side of
// the cursor that the previous query's direction points to, and searches
// the whole array when that side does not hold the answer.
func (e *Engine[S, T]) binarySearch(pos S) {
	n := len(e.starts)
	lo, hi := 0, e.idx
	if !e.hasLastQStart || e.lastQStart < pos {
		lo, hi = e.idx, n
	}
	width := hi - lo
	off := sort.Search(width, func(i int) bool {
		return e.starts[lo+i] >= pos
	})
	p := lo + off
	if p != 0 && (p == n || e.starts[p] > pos) {
		p--
	}
	if (p+1 < n && e.starts[p+1] <= pos) || (p > 0 && e.starts[p] > pos) {
		p = sort.Search(n, func(i int) bool {
			return e.starts[i] > pos
		}) - 1
		if p < 0 {
			p = 0
		}
	}
	e.idx = p
}

func overlaps[S cmp.Ordered](aStart, aEnd, bStart, bEnd S) bool {
	return max(aStart, bStart) <= min(aEnd, bEnd)
}

// Index computes the branchLeft/branchRight neighbour tables. It must be
// called exactly once after all intervals have been added and before any
// SearchOverlap call; calling it again rebuilds the tables from scratch
// (idempotent, but wasteful — prefer Clear and re-Add for a fresh build).
func (e *Engine[S, T]) Index() {
	n := len(e.intervals)
	e.nIntervals = n
	e.idx = 0
	e.hasLastQStart = false

	e.branchLeft = make([]int, n)
	e.branchRight = make([]int, n)
	for i := range e.branchLeft {
		e.branchLeft[i] = -1
		e.branchRight[i] = -1
	}
	if n < 2 {
		return
	}

	for i := n - 1; i >= 0; i-- {
		start := e.intervals[i].start
		end := e.intervals[i].end
		e.binarySearch(end)
		e.lastQStart = start
		e.hasLastQStart = true

		for j := e.idx; j >= 0; j-- {
			if i == j {
				continue
			}
			qStart := e.intervals[j].start
			qEnd := e.intervals[j].end
			if !overlaps(start, end, qStart, qEnd) {
				break
			}
			if qEnd > end {
				if e.branchRight[i] < 0 || qStart > e.intervals[e.branchRight[i]].start {
					e.branchRight[i] = j
				}
				if e.branchLeft[j] < 0 || qStart > e.intervals[e.branchLeft[j]].start {
					e.branchLeft[j] = i
				}
			} else {
				if e.branchLeft[i] < 0 || qStart > e.intervals[e.branchLeft[i]].start {
					e.branchLeft[i] = j
				}
				if e.branchRight[j] < 0 || qStart > e.intervals[e.branchRight[j]].start {
					if e.branchRight[i] == j {
						e.branchRight[i] = -1
					}
					e.branchRight[j] = i
				}
			}
		}
	}
	e.idx = 0
}

// SearchOverlap returns the indices of every stored interval overlapping
// the closed range [qs, qe]. Order is unspecified and indices are never
// repeated. The cursor is updated so a subsequent call with a larger qs
// is cheap; correctness does not depend on query order.
func (e *Engine[S, T]) SearchOverlap(qs, qe S) []int {
	if e.nIntervals == 0 {
		return nil
	}

	e.binarySearch(qe)
	s := e.idx

	bl := e.branchLeft[s]
	maxRight := e.branchRight[s]
	minRight := maxRight
	if maxRight < 0 {
		minRight = sentinelInfinity
	}

	startIdx := s
	if bl >= 0 && e.intervals[bl].start <= qe && bl > s {
		startIdx = bl
	}
	i := startIdx

	var found []int

	if maxRight < 0 {
		for i > 0 {
			if br := e.branchRight[i]; br >= 0 {
				maxRight = max(maxRight, br)
				minRight = min(minRight, br)
				break
			}
			if overlaps(qs, qe, e.intervals[i].start, e.intervals[i].end) {
				found = append(found, i)
			} else if e.intervals[i].end < qs {
				break
			}
			i--
		}
	}
	if maxRight >= 0 {
		for i > 0 {
			if overlaps(qs, qe, e.intervals[i].start, e.intervals[i].end) {
				found = append(found, i)
			} else if e.intervals[i].end < qs {
				break
			}
			i--
		}
	}
	if i == 0 && overlaps(qs, qe, e.intervals[0].start, e.intervals[0].end) {
		found = append(found, 0)
	}

	if maxRight > startIdx {
		for maxRight >= 0 {
			if overlaps(qs, qe, e.intervals[maxRight].start, e.intervals[maxRight].end) {
				found = append(found, maxRight)
				if next := e.branchRight[maxRight]; next < minRight {
					minRight = next
				}
			}
			maxRight = e.branchRight[maxRight]
		}
	} else if minRight < startIdx {
		for minRight >= 0 && minRight < i {
			if overlaps(qs, qe, e.intervals[minRight].start, e.intervals[minRight].end) {
				found = append(found, minRight)
			}
			minRight = e.branchRight[minRight]
		}
	}

	e.lastQStart = qs
	e.hasLastQStart = true
	return found
}

// Overlapping is a convenience wrapper around SearchOverlap that returns
// the matching payloads directly instead of their indices.
func (e *Engine[S, T]) Overlapping(qs, qe S) []T {
	idxs := e.SearchOverlap(qs, qe)
	if len(idxs) == 0 {
		return nil
	}
	out := make([]T, len(idxs))
	for i, idx := range idxs {
		out[i] = e.data[idx]
	}
	return out
}

// String renders the i-th interval as "(start-end)" for debugging.
func (e *Engine[S, T]) String(i int) string {
	return fmt.Sprintf("(%v-%v)", e.intervals[i].start, e.intervals[i].end)
}
