package vcf

import (
	"strings"
	"testing"
)

const krasG12CVCF = `##fileformat=VCFv4.2
##contig=<ID=12>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
12	25245351	.	C	A	.	.	.
`

func TestParser_SingleVariant(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(krasG12CVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	// Read the first (and only) variant
	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}

	if v == nil {
		t.Fatal("Expected a variant, got nil")
	}

	// Verify KRAS G12C variant (c.34G>T p.G12C)
	// On reverse strand: coding G->T = genomic C->A
	if v.Chrom != "12" {
		t.Errorf("Expected chrom 12, got %s", v.Chrom)
	}
	if v.Pos != 25245351 {
		t.Errorf("Expected pos 25245351, got %d", v.Pos)
	}
	if v.Ref != "C" {
		t.Errorf("Expected ref C, got %s", v.Ref)
	}
	if v.Alt != "A" {
		t.Errorf("Expected alt A, got %s", v.Alt)
	}

	// Should be a SNV
	if !v.IsSNV() {
		t.Error("KRAS G12C should be classified as SNV")
	}

	// No more variants
	v2, err := parser.Next()
	if err != nil {
		t.Fatalf("Error checking for more variants: %v", err)
	}
	if v2 != nil {
		t.Error("Expected no more variants")
	}
}

func TestParser_MultipleVariants(t *testing.T) {
	content := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t100\t.\tA\tG\t.\t.\t.\n" +
		"1\t200\t.\tC\tT\t.\t.\t.\n" +
		"2\t300\t.\tG\tA\t.\t.\t.\n" +
		"2\t400\t.\tT\tC\t.\t.\t.\n" +
		"3\t500\t.\tA\tT\t.\t.\t.\n"

	parser, err := NewParserFromReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	count := 0
	for {
		v, err := parser.Next()
		if err != nil {
			t.Fatalf("Error reading variant: %v", err)
		}
		if v == nil {
			break
		}
		count++
	}

	if count != 5 {
		t.Errorf("Expected 5 variants, got %d", count)
	}
}

func TestParser_Header(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(krasG12CVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	header := parser.Header()
	if len(header) == 0 {
		t.Error("Expected header lines")
	}

	hasFileformat := false
	hasChromLine := false
	for _, line := range header {
		if line == "##fileformat=VCFv4.2" {
			hasFileformat = true
		}
		if len(line) >= 6 && line[:6] == "#CHROM" {
			hasChromLine = true
		}
	}

	if !hasFileformat {
		t.Error("Missing ##fileformat header")
	}
	if !hasChromLine {
		t.Error("Missing #CHROM header line")
	}
}

func TestSplitMultiAllelic(t *testing.T) {
	tests := []struct {
		name     string
		alt      string
		expected int
	}{
		{"single allele", "C", 1},
		{"two alleles", "C,T", 2},
		{"three alleles", "C,T,G", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Variant{
				Chrom: "12",
				Pos:   100,
				Ref:   "A",
				Alt:   tt.alt,
			}

			variants := SplitMultiAllelic(v)
			if len(variants) != tt.expected {
				t.Errorf("Expected %d variants, got %d", tt.expected, len(variants))
			}

			for _, split := range variants {
				if strings.Contains(split.Alt, ",") {
					t.Errorf("Split variant should not contain comma in alt: %s", split.Alt)
				}
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "expected 8 columns, found 7",
	}

	expected := "vcf parse error at line 42: expected 8 columns, found 7"
	if err.Error() != expected {
		t.Errorf("Error message mismatch: got %q, want %q", err.Error(), expected)
	}
}
