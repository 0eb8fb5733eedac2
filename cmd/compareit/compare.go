package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ivoronin/compareit/internal/comparator"
	"github.com/ivoronin/compareit/internal/export"
	"github.com/ivoronin/compareit/internal/fingerprint"
	"github.com/ivoronin/compareit/internal/indexer"
	"github.com/ivoronin/compareit/internal/matcher"
	"github.com/ivoronin/compareit/internal/summary"
	"github.com/ivoronin/compareit/internal/types"
)

// compareOptions holds CLI flags for the compare command, mirroring the
// original CLI's Commands::Compare shape.
type compareOptions struct {
	mode       string
	pairing    string
	topK       int
	maxPairs   int
	keyColumns []string
	numericTol float64
	similarity string

	ignoreEOL        bool
	ignoreTrailingWS bool
	ignoreAllWS      bool
	ignoreCase       bool
	skipEmptyLines   bool

	maxDiffBytesStr string

	outJSONL string
	outCSV   string
	outDir   string

	workers    int
	noProgress bool
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{
		mode:            "auto",
		pairing:         "all-vs-all",
		topK:            3,
		numericTol:      0.0001,
		similarity:      "diff",
		maxDiffBytesStr: "1MiB",
		workers:         runtime.NumCPU(),
	}

	cmd := &cobra.Command{
		Use:   "compare <path1> <path2>",
		Short: "Compare two files or folder trees",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCompare(args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.mode, "mode", "m", opts.mode, "Comparison mode (auto, text, structured)")
	f.StringVar(&opts.pairing, "pairing", opts.pairing, "Pairing strategy for folders (same-path, same-name, all-vs-all)")
	f.IntVar(&opts.topK, "topk", opts.topK, "Top-K candidates per file in all-vs-all mode")
	f.IntVar(&opts.maxPairs, "max-pairs", 0, "Maximum number of pairs to compare (0 = unlimited)")
	f.StringSliceVarP(&opts.keyColumns, "key", "k", nil, "Key columns for structured comparison (comma-separated)")
	f.Float64Var(&opts.numericTol, "numeric-tol", opts.numericTol, "Numeric tolerance for structured comparison")
	f.StringVar(&opts.similarity, "similarity", opts.similarity, "Similarity algorithm (diff, char-jaro)")
	f.BoolVar(&opts.ignoreEOL, "ignore-eol", false, "Ignore trailing CR when comparing line endings")
	f.BoolVar(&opts.ignoreTrailingWS, "ignore-trailing-ws", false, "Ignore trailing whitespace")
	f.BoolVar(&opts.ignoreAllWS, "ignore-all-ws", false, "Collapse internal whitespace runs")
	f.BoolVar(&opts.ignoreCase, "ignore-case", false, "Case-insensitive comparison")
	f.BoolVar(&opts.skipEmptyLines, "skip-empty-lines", false, "Skip empty lines")
	f.StringVar(&opts.maxDiffBytesStr, "max-diff-bytes", opts.maxDiffBytesStr, "Maximum size for detailed diff output (e.g. 512K, 1MiB)")
	f.StringVar(&opts.outJSONL, "out-jsonl", "", "Output JSONL file path")
	f.StringVar(&opts.outCSV, "out-csv", "", "Output CSV file path")
	f.StringVar(&opts.outDir, "out-dir", "", "Output directory for patches and mismatch artifacts")
	f.IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel workers")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")

	return cmd
}

func runCompare(path1, path2 string, opts *compareOptions) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	showProgress := !opts.noProgress

	errCh := make(chan error, 100)
	go drainErrors(errCh)
	defer close(errCh)

	files1, err := indexer.New(path1, cfg.Workers, errCh).Run()
	if err != nil {
		return fmt.Errorf("index %s: %w", path1, err)
	}
	files2, err := indexer.New(path2, cfg.Workers, errCh).Run()
	if err != nil {
		return fmt.Errorf("index %s: %w", path2, err)
	}

	fingerprint.New(files1, cfg.Normalization, cfg.Workers, showProgress, errCh).Run()
	fingerprint.New(files2, cfg.Normalization, cfg.Workers, showProgress, errCh).Run()

	pairs := matcher.Match(files1, files2, cfg)

	results := comparator.RunBatch(pairs, cfg, cfg.Workers, showProgress)

	sum := summary.Calculate(results, len(files1), len(files2))
	printSummary(sum)

	if opts.outJSONL != "" || opts.outCSV != "" || opts.outDir != "" {
		if err := export.All(results, opts.outJSONL, opts.outCSV, opts.outDir); err != nil {
			return fmt.Errorf("export results: %w", err)
		}
	}

	return nil
}

func printSummary(s types.ComparisonSummary) {
	fmt.Fprintf(os.Stdout, "Compared %d pairs (%d identical, %d different, %d errors) — avg similarity %.1f%%\n",
		s.PairsCompared, s.IdenticalPairs, s.DifferentPairs, s.ErrorPairs, s.AverageSimilarity*100)
}

func drainErrors(errs <-chan error) {
	for err := range errs {
		fmt.Fprintf(os.Stderr, "\r\033[Kwarning: %v\n", err)
	}
}
