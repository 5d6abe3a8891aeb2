// Package cache provides transcript storage and overlap lookup.
package cache

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// GTFLoader loads transcript spans from GENCODE GTF files.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Load loads all transcripts from the GTF file into the cache.
func (l *GTFLoader) Load(c *Cache) error {
	return l.loadGTF(c, "")
}

// LoadChromosome loads transcripts for a specific chromosome.
func (l *GTFLoader) LoadChromosome(c *Cache, chrom string) error {
	return l.loadGTF(c, chrom)
}

// loadGTF parses the GTF file and populates the cache.
// If filterChrom is non-empty, only loads that chromosome.
func (l *GTFLoader) loadGTF(c *Cache, filterChrom string) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	transcripts, err := l.parseGTF(reader, filterChrom)
	if err != nil {
		return err
	}

	for _, t := range transcripts {
		c.AddTranscript(t)
	}

	return nil
}

// gtfFeature represents a parsed GTF line.
type gtfFeature struct {
	chrom       string
	source      string
	featureType string
	start       int64
	end         int64
	score       string
	strand      string
	phase       string
	attributes  map[string]string
}

// parseGTF parses GTF content and returns transcripts keyed by ID. Only
// "transcript" feature lines are consulted; exon/CDS/codon features exist
// in GENCODE but carry no information this cache's overlap index needs.
func (l *GTFLoader) parseGTF(reader io.Reader, filterChrom string) (map[string]*Transcript, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	transcripts := make(map[string]*Transcript)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := l.parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}

		if feat.featureType != "transcript" {
			continue
		}

		if filterChrom != "" && feat.chrom != normalizeChrom(filterChrom) {
			continue
		}

		transcriptID := feat.attributes["transcript_id"]
		if transcriptID == "" {
			continue
		}
		transcriptID = stripVersion(transcriptID)

		t := &Transcript{
			ID:          transcriptID,
			GeneID:      stripVersion(feat.attributes["gene_id"]),
			GeneName:    feat.attributes["gene_name"],
			Chrom:       feat.chrom,
			Start:       feat.start,
			End:         feat.end,
			Strand:      parseStrand(feat.strand),
			Biotype:     feat.attributes["transcript_type"],
			IsCanonical: strings.Contains(feat.attributes["tag"], "Ensembl_canonical"),
		}
		if strings.Contains(feat.attributes["tag"], "MANE_Select") {
			t.IsMANESelect = true
		}
		transcripts[transcriptID] = t
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	return transcripts, nil
}

// parseLine parses a single GTF line.
func (l *GTFLoader) parseLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	feat := &gtfFeature{
		chrom:       normalizeChrom(fields[0]),
		source:      fields[1],
		featureType: fields[2],
		start:       start,
		end:         end,
		score:       fields[5],
		strand:      fields[6],
		phase:       fields[7],
		attributes:  parseAttributes(fields[8]),
	}

	return feat, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	parts := strings.Split(attrStr, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.TrimSpace(part[idx+1:])
		value = strings.Trim(value, "\"")

		attrs[key] = value
	}

	return attrs
}

// parseStrand converts strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g., "ENST00000456328.2" -> "ENST00000456328"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}

// normalizeChrom normalizes chromosome names by removing "chr" prefix.
// This ensures consistency between different data sources (GENCODE uses "chr1", VCF often uses "1").
func normalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return chrom
}

// GENCODELoader loads transcript spans and applies canonical-transcript
// overrides.
type GENCODELoader struct {
	gtfPath            string
	gtf                *GTFLoader
	canonicalOverrides CanonicalOverrides
}

// NewGENCODELoader creates a loader for a GENCODE GTF file.
func NewGENCODELoader(gtfPath, _ string) *GENCODELoader {
	return &GENCODELoader{
		gtfPath: gtfPath,
		gtf:     NewGTFLoader(gtfPath),
	}
}

// SetCanonicalOverrides sets Genome Nexus canonical transcript overrides.
// When applied, for each gene with an override, the matching transcript is marked
// as canonical and other transcripts for that gene are unmarked.
func (l *GENCODELoader) SetCanonicalOverrides(overrides CanonicalOverrides) {
	l.canonicalOverrides = overrides
}

// Load loads all transcripts into the cache and builds its overlap index.
func (l *GENCODELoader) Load(c *Cache) error {
	if err := l.gtf.Load(c); err != nil {
		return fmt.Errorf("load GTF: %w", err)
	}

	if len(l.canonicalOverrides) > 0 {
		l.applyCanonicalOverrides(c)
	}

	c.Index()
	return nil
}

// applyCanonicalOverrides applies Genome Nexus canonical transcript overrides.
func (l *GENCODELoader) applyCanonicalOverrides(c *Cache) {
	geneTranscripts := make(map[string][]*Transcript)
	for _, chrom := range c.Chromosomes() {
		for _, t := range c.FindTranscriptsByChrom(chrom) {
			if t.GeneName != "" {
				geneTranscripts[t.GeneName] = append(geneTranscripts[t.GeneName], t)
			}
		}
	}

	for gene, canonicalID := range l.canonicalOverrides {
		transcripts, ok := geneTranscripts[gene]
		if !ok {
			continue
		}

		found := false
		for _, t := range transcripts {
			if t.ID == canonicalID {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		for _, t := range transcripts {
			t.IsCanonical = (t.ID == canonicalID)
		}
	}
}

// LoadAll is equivalent to Load.
func (l *GENCODELoader) LoadAll(c *Cache) error {
	return l.Load(c)
}
