// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ngsflow/vepindex/internal/annotate"
	"github.com/ngsflow/vepindex/internal/vcf"
)

// TabWriter writes annotations in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Uploaded_variation",
			"Location",
			"Allele",
			"Gene",
			"Feature",
			"Feature_type",
			"BIOTYPE",
			"CANONICAL",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single annotation.
func (tw *TabWriter) Write(v *vcf.Variant, ann *annotate.Annotation) error {
	location := fmt.Sprintf("%s:%d", v.Chrom, v.Pos)

	canonical := "-"
	if ann.IsCanonical {
		canonical = "YES"
	}

	featureType := "Transcript"
	if ann.TranscriptID == "" {
		featureType = "-"
	}

	gene := ann.GeneName
	if gene == "" {
		gene = "-"
	}
	feature := ann.TranscriptID
	if feature == "" {
		feature = "-"
	}

	biotype := ann.Biotype
	if biotype == "" {
		biotype = "-"
	}

	values := []string{
		v.ID,
		location,
		ann.Allele,
		gene,
		feature,
		featureType,
		biotype,
		canonical,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
