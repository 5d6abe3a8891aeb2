// Package cache provides VEP cache loading functionality.
package cache

import (
	"sort"

	"github.com/ngsflow/vepindex/internal/interval"
)

// Cache provides access to VEP transcript data for variant annotation.
type Cache struct {
	// transcripts stores transcripts indexed by chromosome, in the order
	// they were added (not necessarily sorted by Start).
	transcripts map[string][]*Transcript

	// engines holds a per-chromosome overlap index built by Index. It is
	// invalidated by AddTranscript so that FindTranscripts/FindOverlapping
	// never serve queries against a stale build.
	engines map[string]*interval.Engine[int64, *Transcript]
}

// New creates a new empty cache.
func New() *Cache {
	return &Cache{
		transcripts: make(map[string][]*Transcript),
	}
}

// AddTranscript adds a transcript to the cache. Any previously built
// overlap index is invalidated; call Index again to rebuild it.
func (c *Cache) AddTranscript(t *Transcript) {
	chrom := t.Chrom
	c.transcripts[chrom] = append(c.transcripts[chrom], t)
	c.engines = nil
}

// Index builds a sweep-line overlap index for every chromosome currently
// in the cache. It is the one-shot build step that FindTranscripts and
// FindOverlapping use to answer queries in O(log n + k) instead of
// scanning every transcript on the chromosome; call it once after bulk
// loading. Cache remains correct without calling Index, just slower.
func (c *Cache) Index() {
	engines := make(map[string]*interval.Engine[int64, *Transcript], len(c.transcripts))
	for chrom, txs := range c.transcripts {
		sorted := append([]*Transcript(nil), txs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

		e := interval.New[int64, *Transcript]()
		e.Reserve(len(sorted))
		for _, t := range sorted {
			// sorted is in ascending Start order and Add only rejects a
			// strictly decreasing start, so equal starts are accepted and
			// Add cannot fail here.
			_ = e.Add(t.Start, t.End, t)
		}
		e.Index()
		engines[chrom] = e
	}
	c.engines = engines
}

// FindTranscripts returns all transcripts that overlap a given genomic position.
func (c *Cache) FindTranscripts(chrom string, pos int64) []*Transcript {
	return c.FindOverlapping(chrom, pos, pos)
}

// FindOverlapping returns all transcripts whose span overlaps the closed
// range [start, end]. Passing start == end performs a point query.
func (c *Cache) FindOverlapping(chrom string, start, end int64) []*Transcript {
	if c.engines != nil {
		if e, ok := c.engines[chrom]; ok {
			return e.Overlapping(start, end)
		}
	}

	transcripts, ok := c.transcripts[chrom]
	if !ok {
		return nil
	}
	var result []*Transcript
	for _, t := range transcripts {
		if max(start, t.Start) <= min(end, t.End) {
			result = append(result, t)
		}
	}
	return result
}

// TranscriptCount returns the total number of transcripts in the cache.
func (c *Cache) TranscriptCount() int {
	count := 0
	for _, transcripts := range c.transcripts {
		count += len(transcripts)
	}
	return count
}

// Chromosomes returns a sorted list of chromosomes in the cache.
func (c *Cache) Chromosomes() []string {
	chroms := make([]string, 0, len(c.transcripts))
	for chrom := range c.transcripts {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

// FindTranscriptsByChrom returns all transcripts for a chromosome.
func (c *Cache) FindTranscriptsByChrom(chrom string) []*Transcript {
	return c.transcripts[chrom]
}
