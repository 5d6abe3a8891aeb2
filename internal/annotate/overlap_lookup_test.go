package annotate

import (
	"testing"

	"github.com/ngsflow/vepindex/internal/cache"
	"github.com/ngsflow/vepindex/internal/vcf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rangeLookup records the arguments of every call so tests can assert which
// lookup method the annotator chose for a given variant.
type rangeLookup struct {
	pointCalls []int64
	rangeCalls [][2]int64
	transcript *cache.Transcript
}

func (r *rangeLookup) FindTranscripts(chrom string, pos int64) []*cache.Transcript {
	r.pointCalls = append(r.pointCalls, pos)
	if r.transcript != nil {
		return []*cache.Transcript{r.transcript}
	}
	return nil
}

func (r *rangeLookup) FindOverlapping(chrom string, start, end int64) []*cache.Transcript {
	r.rangeCalls = append(r.rangeCalls, [2]int64{start, end})
	if r.transcript != nil {
		return []*cache.Transcript{r.transcript}
	}
	return nil
}

func TestAnnotate_SNVUsesPointLookup(t *testing.T) {
	lookup := &rangeLookup{transcript: &cache.Transcript{ID: "ENST1", Biotype: "protein_coding"}}
	ann := NewAnnotator(lookup)

	v := &vcf.Variant{Chrom: "1", Pos: 1000, Ref: "A", Alt: "G"}
	_, err := ann.Annotate(v)
	require.NoError(t, err)

	assert.Equal(t, []int64{1000}, lookup.pointCalls)
	assert.Empty(t, lookup.rangeCalls)
}

func TestAnnotate_DeletionUsesRangeLookup(t *testing.T) {
	lookup := &rangeLookup{transcript: &cache.Transcript{ID: "ENST1", Biotype: "protein_coding"}}
	ann := NewAnnotator(lookup)

	// A 4-base deletion: REF spans positions 1000-1003.
	v := &vcf.Variant{Chrom: "1", Pos: 1000, Ref: "ACGT", Alt: "A"}
	_, err := ann.Annotate(v)
	require.NoError(t, err)

	assert.Empty(t, lookup.pointCalls)
	assert.Equal(t, [][2]int64{{1000, 1003}}, lookup.rangeCalls)
}

func TestAnnotate_FallsBackToPointLookupWithoutOverlapCapability(t *testing.T) {
	ann := NewAnnotator(&mockLookup{})

	v := &vcf.Variant{Chrom: "1", Pos: 1000, Ref: "ACGT", Alt: "A"}
	anns, err := ann.Annotate(v)
	require.NoError(t, err)
	require.Len(t, anns, 1)
	assert.Empty(t, anns[0].TranscriptID)
}
