// Package annotate reports which transcripts a variant overlaps.
package annotate

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/ngsflow/vepindex/internal/cache"
	"github.com/ngsflow/vepindex/internal/vcf"
)

// TranscriptLookup defines the interface for finding transcripts at a position.
type TranscriptLookup interface {
	FindTranscripts(chrom string, pos int64) []*cache.Transcript
}

// OverlapLookup is an optional capability a TranscriptLookup can implement
// to report transcripts overlapping a coordinate range rather than a
// single position. The annotator uses it for indels, whose REF allele can
// span several bases, so a lookup anchored only on Pos could miss a
// transcript boundary that falls inside the deleted span.
type OverlapLookup interface {
	FindOverlapping(chrom string, start, end int64) []*cache.Transcript
}

// Annotator reports the transcripts a variant overlaps.
type Annotator struct {
	cache         TranscriptLookup
	canonicalOnly bool
	logger        *zap.Logger
}

// NewAnnotator creates a new annotator with the given cache.
func NewAnnotator(c TranscriptLookup) *Annotator {
	return &Annotator{
		cache:  c,
		logger: zap.NewNop(),
	}
}

// SetCanonicalOnly configures whether to only report canonical transcript annotations.
func (a *Annotator) SetCanonicalOnly(canonical bool) {
	a.canonicalOnly = canonical
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate reports every transcript a variant overlaps, one Annotation per
// transcript, or a single empty-TranscriptID Annotation if the variant is
// intergenic.
func (a *Annotator) Annotate(v *vcf.Variant) ([]*Annotation, error) {
	// Normalize chromosome
	chrom := v.NormalizeChrom()

	// Find overlapping transcripts. Indels can span more than one base, so
	// prefer a range query when the underlying lookup supports it.
	var transcripts []*cache.Transcript
	if end := v.End(); end != v.Pos {
		if ol, ok := a.cache.(OverlapLookup); ok {
			transcripts = ol.FindOverlapping(chrom, v.Pos, end)
		}
	}
	if transcripts == nil {
		transcripts = a.cache.FindTranscripts(chrom, v.Pos)
	}

	variantID := FormatVariantID(v.Chrom, v.Pos, v.Ref, v.Alt)

	var annotations []*Annotation
	for _, t := range transcripts {
		// Skip non-canonical if canonicalOnly is set
		if a.canonicalOnly && !t.IsCanonical {
			continue
		}

		annotations = append(annotations, &Annotation{
			VariantID:    variantID,
			TranscriptID: t.ID,
			GeneName:     t.GeneName,
			GeneID:       t.GeneID,
			IsCanonical:  t.IsCanonical,
			Allele:       v.Alt,
			Biotype:      t.Biotype,
		})
	}

	if len(annotations) == 0 {
		return []*Annotation{{VariantID: variantID, Allele: v.Alt}}, nil
	}

	return annotations, nil
}

// AnnotateAll annotates all variants from a parser.
// The parser can be any type that implements vcf.VariantParser, such as vcf.Parser.
func (a *Annotator) AnnotateAll(parser vcf.VariantParser, writer AnnotationWriter) error {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	var parseErr error
	variantCount := 0

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			variantCount++

			// Split multi-allelic variants, each gets its own sequence number.
			variants := vcf.SplitMultiAllelic(v)
			for _, variant := range variants {
				items <- WorkItem{Seq: seq, Variant: variant}
				seq++
			}
		}
	}()

	results := a.ParallelAnnotate(items, 0)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			a.logger.Warn("failed to annotate variant",
				zap.String("chrom", r.Variant.Chrom),
				zap.Int64("pos", r.Variant.Pos),
				zap.Error(r.Err))
			return nil
		}
		for _, ann := range r.Anns {
			if err := writer.Write(r.Variant, ann); err != nil {
				return fmt.Errorf("write annotation: %w", err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if parseErr != nil {
		return parseErr
	}

	if variantCount == 0 {
		a.logger.Info("0 variants processed")
	}

	return writer.Flush()
}

// AnnotationWriter defines the interface for writing annotations.
type AnnotationWriter interface {
	WriteHeader() error
	Write(v *vcf.Variant, ann *Annotation) error
	Flush() error
}
