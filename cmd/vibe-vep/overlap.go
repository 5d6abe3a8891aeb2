package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ngsflow/vepindex/internal/interval"
)

// overlapRecord is one line of a reference or query interval file:
// start, end, and a free-form label (e.g. a read name or feature ID).
type overlapRecord struct {
	start, end int64
	label      string
}

func runOverlap(args []string) int {
	fs := flag.NewFlagSet("overlap", flag.ExitOnError)

	var (
		referencePath string
		queryPath     string
		outputFile    string
	)

	fs.StringVar(&referencePath, "reference", "", "Reference interval file (tab-separated: start, end, label)")
	fs.StringVar(&queryPath, "query", "", "Query interval file (tab-separated: start, end, label)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Report, for each query interval, every reference interval it overlaps.

Usage:
  vibe-vep overlap --reference <file> --query <file> [options]

Each input file holds one interval per line as tab-separated
"start\tend\tlabel" columns. The reference file need not be pre-sorted;
it is sorted by start before the overlap index is built. The query
file is processed in the order given.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if referencePath == "" || queryPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --reference and --query are both required\n\n")
		fs.Usage()
		return ExitUsage
	}

	reference, err := readOverlapRecords(referencePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading reference file: %v\n", err)
		return ExitError
	}
	queries, err := readOverlapRecords(queryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading query file: %v\n", err)
		return ExitError
	}

	sort.Slice(reference, func(i, j int) bool { return reference[i].start < reference[j].start })

	engine := interval.New[int64, string]()
	engine.Reserve(len(reference))
	for _, r := range reference {
		if err := engine.Add(r.start, r.end, r.label); err != nil {
			fmt.Fprintf(os.Stderr, "Error indexing reference: %v\n", err)
			return ExitError
		}
	}
	engine.Index()

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

	w := bufio.NewWriter(out)
	defer w.Flush()

	for _, q := range queries {
		hits := engine.Overlapping(q.start, q.end)
		if len(hits) == 0 {
			fmt.Fprintf(w, "%s\t%d\t%d\t.\n", q.label, q.start, q.end)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", q.label, q.start, q.end, strings.Join(hits, ","))
	}

	return ExitSuccess
}

func readOverlapRecords(path string) ([]overlapRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []overlapRecord
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected at least 2 tab-separated fields, got %d", lineNum, len(fields))
		}
		start, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid start %q: %w", lineNum, fields[0], err)
		}
		end, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid end %q: %w", lineNum, fields[1], err)
		}
		label := fmt.Sprintf("%d-%d", start, end)
		if len(fields) >= 3 && fields[2] != "" {
			label = fields[2]
		}
		records = append(records, overlapRecord{start: start, end: end, label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
