package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/ivoronin/compareit/internal/types"
)

// parseSize parses a human-readable size string into bytes.
// Supports formats: "100", "1K", "1MB", "1GiB", etc.
func parseSize(s string) (int64, error) {
	bytes, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(bytes), nil
}

func buildConfig(opts *compareOptions) (types.CompareConfig, error) {
	mode, err := parseMode(opts.mode)
	if err != nil {
		return types.CompareConfig{}, err
	}
	pairing, err := parsePairing(opts.pairing)
	if err != nil {
		return types.CompareConfig{}, err
	}
	algo, err := parseSimilarityAlgorithm(opts.similarity)
	if err != nil {
		return types.CompareConfig{}, err
	}
	maxDiffBytes, err := parseSize(opts.maxDiffBytesStr)
	if err != nil {
		return types.CompareConfig{}, fmt.Errorf("invalid --max-diff-bytes: %w", err)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = 1
	}

	return types.CompareConfig{
		Mode:     mode,
		Pairing:  pairing,
		TopK:     opts.topK,
		MaxPairs: opts.maxPairs,

		KeyColumns:       opts.keyColumns,
		NumericTolerance: opts.numericTol,

		Normalization: types.NormalizationOptions{
			IgnoreEOL:        opts.ignoreEOL,
			IgnoreTrailingWS: opts.ignoreTrailingWS,
			IgnoreAllWS:      opts.ignoreAllWS,
			IgnoreCase:       opts.ignoreCase,
			SkipEmptyLines:   opts.skipEmptyLines,
		},
		SimilarityAlgorithm: algo,

		MaxDiffBytes: int(maxDiffBytes),
		Workers:      workers,
	}, nil
}

func parseMode(s string) (types.CompareMode, error) {
	switch s {
	case "auto", "":
		return types.ModeAuto, nil
	case "text":
		return types.ModeText, nil
	case "structured":
		return types.ModeStructured, nil
	default:
		return 0, fmt.Errorf("invalid --mode %q (want auto, text, or structured)", s)
	}
}

func parsePairing(s string) (types.PairingStrategy, error) {
	switch s {
	case "all-vs-all", "":
		return types.PairingAllVsAll, nil
	case "same-path":
		return types.PairingSamePath, nil
	case "same-name":
		return types.PairingSameName, nil
	default:
		return 0, fmt.Errorf("invalid --pairing %q (want all-vs-all, same-path, or same-name)", s)
	}
}

func parseSimilarityAlgorithm(s string) (types.SimilarityAlgorithm, error) {
	switch s {
	case "diff", "":
		return types.SimilarityDiff, nil
	case "char-jaro":
		return types.SimilarityCharJaro, nil
	default:
		return 0, fmt.Errorf("invalid --similarity %q (want diff or char-jaro)", s)
	}
}
