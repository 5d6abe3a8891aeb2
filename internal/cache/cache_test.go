package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id, chrom string, start, end int64) *Transcript {
	return &Transcript{ID: id, Chrom: chrom, Start: start, End: end}
}

func TestCache_IndexMatchesLinearScan(t *testing.T) {
	c := New()
	c.AddTranscript(txn("A", "1", 100, 300))
	c.AddTranscript(txn("B", "1", 150, 250))
	c.AddTranscript(txn("C", "1", 200, 400))
	c.AddTranscript(txn("D", "2", 10, 20))

	linear := c.FindOverlapping("1", 175, 175)
	require.Len(t, linear, 2)

	c.Index()
	indexed := c.FindOverlapping("1", 175, 175)
	assert.ElementsMatch(t, idsOf(linear), idsOf(indexed))
}

func TestCache_FindOverlappingRangeQuery(t *testing.T) {
	c := New()
	c.AddTranscript(txn("A", "1", 100, 200))
	c.AddTranscript(txn("B", "1", 300, 400))
	c.AddTranscript(txn("C", "1", 500, 600))
	c.Index()

	got := c.FindOverlapping("1", 150, 350)
	assert.ElementsMatch(t, []string{"A", "B"}, idsOf(got))
}

func TestCache_AddAfterIndexInvalidatesIndex(t *testing.T) {
	c := New()
	c.AddTranscript(txn("A", "1", 100, 200))
	c.Index()
	assert.Len(t, c.FindTranscripts("1", 150), 1)

	c.AddTranscript(txn("B", "1", 120, 140))
	// Stale index was invalidated; the linear-scan fallback still sees B.
	assert.Len(t, c.FindTranscripts("1", 130), 2)
}

func TestCache_UnknownChromosomeReturnsEmpty(t *testing.T) {
	c := New()
	c.AddTranscript(txn("A", "1", 100, 200))
	c.Index()
	assert.Empty(t, c.FindTranscripts("9", 150))
}

func idsOf(txs []*Transcript) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}
