// Package main provides the vibe-vep command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ngsflow/vepindex/internal/annotate"
	"github.com/ngsflow/vepindex/internal/cache"
	"github.com/ngsflow/vepindex/internal/output"
	"github.com/ngsflow/vepindex/internal/vcf"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// initConfig loads ~/.vibe-vep.yaml if present. A missing config file is not
// an error: every setting it could provide has a flag-driven default.
func initConfig() {
	viper.SetConfigName(".vibe-vep")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		}
	}
}

func run() int {
	initConfig()

	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("vibe-vep version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "annotate":
		return runAnnotate(args[1:])
	case "download":
		return runDownload(args[1:])
	case "overlap":
		return runOverlap(args[1:])
	case "config":
		cmd := newConfigCmd()
		cmd.SetArgs(args[1:])
		if err := cmd.Execute(); err != nil {
			return ExitError
		}
		return ExitSuccess
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vibe-vep - Variant Effect Predictor

Usage:
  vibe-vep [options] <command> [arguments]

Commands:
  annotate    Annotate variants in a VCF file
  download    Download GENCODE annotation files
  overlap     Query a set of intervals for overlaps against a reference set
  config      Show or change persisted configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Download GENCODE annotations (one-time setup)
  vibe-vep download --assembly GRCh38

  # Annotate a VCF file (uses GENCODE cache automatically)
  vibe-vep annotate input.vcf

  # Query overlaps between two interval files
  vibe-vep overlap --reference exons.tsv --query reads.tsv

For more information on a command, use:
  vibe-vep <command> --help
`)
}

func runAnnotate(args []string) int {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)

	var (
		assembly      string
		outputFormat  string
		outputFile    string
		canonicalOnly bool
		inputFormat   string
	)

	fs.StringVar(&assembly, "assembly", "GRCh38", "Genome assembly: GRCh37 or GRCh38")
	fs.StringVar(&outputFormat, "f", "tab", "Output format: tab (vcf is rejected as not implemented)")
	fs.StringVar(&outputFormat, "output-format", "tab", "Output format: tab (vcf is rejected as not implemented)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	fs.BoolVar(&canonicalOnly, "canonical", viper.GetBool("annotate.canonical"), "Only report canonical transcript annotations")
	fs.StringVar(&inputFormat, "input-format", "", "Input format: vcf (auto-detected if not specified)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Report the transcripts each variant in a VCF file overlaps.

Usage:
  vibe-vep annotate [options] <input-file>

Arguments:
  <input-file>  Input VCF file (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  vibe-vep annotate input.vcf
  vibe-vep annotate -o output.tsv input.vcf
  cat input.vcf | vibe-vep annotate -
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	inputPath := fs.Arg(0)

	// Detect input format if not specified
	detectedFormat := inputFormat
	if detectedFormat == "" {
		detectedFormat = detectInputFormat(inputPath)
	}

	// Create appropriate parser
	var parser vcf.VariantParser
	var err error

	switch detectedFormat {
	case "vcf":
		parser, err = vcf.NewParser(inputPath)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown input format %q\n", detectedFormat)
		fmt.Fprintf(os.Stderr, "Hint: Use --input-format to specify vcf\n")
		return ExitError
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return ExitError
	}
	defer parser.Close()

	// Load GENCODE cache
	gtfPath, canonicalPath, found := FindGENCODEFiles(assembly)
	if !found {
		fmt.Fprintf(os.Stderr, "Error: No GENCODE cache found for %s\n", assembly)
		fmt.Fprintf(os.Stderr, "Hint: Download GENCODE annotations with: vibe-vep download --assembly %s\n", assembly)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Using GENCODE cache for %s\n", assembly)
	fmt.Fprintf(os.Stderr, "  GTF: %s\n", gtfPath)

	c := cache.New()
	loader := cache.NewGENCODELoader(gtfPath, "")

	// Load canonical transcript overrides if available
	if canonicalPath != "" {
		fmt.Fprintf(os.Stderr, "  Canonical overrides: %s\n", canonicalPath)
		overrides, err := cache.LoadCanonicalOverrides(canonicalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load canonical overrides: %v\n", err)
		} else {
			loader.SetCanonicalOverrides(overrides)
			fmt.Fprintf(os.Stderr, "  Loaded %d canonical overrides\n", len(overrides))
		}
	}

	if err := loader.Load(c); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading GENCODE cache: %v\n", err)
		return ExitError
	}
	fmt.Fprintf(os.Stderr, "Loaded %d transcripts\n", c.TranscriptCount())
	transcriptCache := c

	// Create annotator
	ann := annotate.NewAnnotator(transcriptCache)
	ann.SetCanonicalOnly(canonicalOnly)
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()
	ann.SetLogger(logger)

	// Create output writer
	var out *os.File
	if outputFile == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	var writer annotate.AnnotationWriter
	switch outputFormat {
	case "tab":
		writer = output.NewTabWriter(out)
	case "vcf":
		fmt.Fprintf(os.Stderr, "Error: VCF output format not yet implemented\n")
		return ExitError
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q\n", outputFormat)
		return ExitError
	}

	// Write header
	if err := writer.WriteHeader(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		return ExitError
	}

	// Annotate all variants
	if err := ann.AnnotateAll(parser, writer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}

// detectInputFormat detects the input file format from the file name only;
// the file content is not inspected.
func detectInputFormat(path string) string {
	// Check by extension
	lowerPath := strings.ToLower(path)

	// Handle gzipped files
	if strings.HasSuffix(lowerPath, ".gz") {
		lowerPath = lowerPath[:len(lowerPath)-3]
	}

	if strings.HasSuffix(lowerPath, ".vcf") {
		return "vcf"
	}

	// Everything else, including stdin, is assumed to be VCF.
	return "vcf"
}
