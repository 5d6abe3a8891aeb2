package interval

import (
	"cmp"
	"sort"
)

// CenteredTree is a classical sorted-slice-with-suffix-max interval index,
// kept alongside Engine purely as an algorithmic reference and benchmark
// comparison point. It answers the same point-overlap query as Engine but
// without neighbour links, by binary-searching for the rightmost interval
// that could start at or before pos and pruning the backward scan with a
// prefix maximum of End. It is not the subject of this package: use Engine
// for production overlap queries.
type CenteredTree[S cmp.Ordered, T any] struct {
	intervals []span[S]
	data      []T
	maxEnd    []S // maxEnd[i] = max(End) for intervals[:i+1]
}

// BuildCenteredTree sorts starts, ends and payloads (which must already
// correspond positionally) by start and builds the prefix-max pruning
// array in O(n log n).
func BuildCenteredTree[S cmp.Ordered, T any](starts, ends []S, data []T) *CenteredTree[S, T] {
	n := len(starts)
	if n == 0 {
		return &CenteredTree[S, T]{}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return starts[order[a]] < starts[order[b]]
	})

	intervals := make([]span[S], n)
	sortedData := make([]T, n)
	for i, o := range order {
		intervals[i] = span[S]{start: starts[o], end: ends[o]}
		sortedData[i] = data[o]
	}

	maxEnd := make([]S, n)
	maxEnd[0] = intervals[0].end
	for i := 1; i < n; i++ {
		maxEnd[i] = max(intervals[i].end, maxEnd[i-1])
	}

	return &CenteredTree[S, T]{intervals: intervals, data: sortedData, maxEnd: maxEnd}
}

// FindOverlaps returns the payloads of every interval containing pos.
func (t *CenteredTree[S, T]) FindOverlaps(pos S) []T {
	n := len(t.intervals)
	if n == 0 {
		return nil
	}

	var result []T

	hi := sort.Search(n, func(i int) bool {
		return t.intervals[i].start > pos
	})

	for i := hi - 1; i >= 0; i-- {
		if t.maxEnd[i] < pos {
			break
		}
		if t.intervals[i].end >= pos {
			result = append(result, t.data[i])
		}
	}

	return result
}
