// Package export writes ComparisonResult batches to the output formats
// named in spec §6: JSONL, a CSV summary, per-pair patch files, and
// per-pair mismatch JSON dumps. Grounded on the original export module
// (export_jsonl/export_csv/write_patches/write_mismatch_artifacts).
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ivoronin/compareit/internal/types"
)

// JSONL writes one JSON object per result, one per line.
func JSONL(results []types.ComparisonResult, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return w.Flush()
}

var csvHeader = []string{
	"linked_id", "file1_path", "file2_path", "type", "similarity_score",
	"identical", "file1_count", "file2_count", "common",
	"only_in_file1", "only_in_file2", "total_mismatches",
}

// CSV writes the fixed-column summary table, one row per result.
func CSV(results []types.ComparisonResult, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		if err := w.Write(csvRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(r types.ComparisonResult) []string {
	switch r.Type {
	case types.ResultText:
		return []string{
			r.LinkedID, r.File1Path, r.File2Path, "text",
			fmt.Sprintf("%.4f", r.SimilarityScore), strconv.FormatBool(r.Identical),
			strconv.Itoa(r.File1LineCount), strconv.Itoa(r.File2LineCount),
			strconv.Itoa(r.CommonLines), strconv.Itoa(r.OnlyInFile1), strconv.Itoa(r.OnlyInFile2),
			strconv.Itoa(r.OnlyInFile1 + r.OnlyInFile2),
		}
	case types.ResultStructured:
		return []string{
			r.LinkedID, r.File1Path, r.File2Path, "structured",
			fmt.Sprintf("%.4f", r.SimilarityScore), strconv.FormatBool(r.Identical),
			strconv.Itoa(r.File1RowCount), strconv.Itoa(r.File2RowCount),
			strconv.Itoa(r.CommonRecords), strconv.Itoa(r.OnlyInFile1), strconv.Itoa(r.OnlyInFile2),
			strconv.Itoa(r.TotalFieldMismatches),
		}
	case types.ResultHashOnly:
		simStr, commonStr, mismatchStr := "0.0000", "0", "1"
		if r.Identical {
			simStr, commonStr, mismatchStr = "1.0000", "1", "0"
		}
		return []string{
			r.LinkedID, r.File1Path, r.File2Path, "binary",
			simStr, strconv.FormatBool(r.Identical),
			strconv.FormatInt(r.File1Size, 10), strconv.FormatInt(r.File2Size, 10),
			commonStr, "0", "0", mismatchStr,
		}
	default: // ResultError
		return []string{
			"", r.File1Path, r.File2Path, "error",
			"0.0000", "false", "", "", "", "", "", r.Error,
		}
	}
}

// Patches writes one <linked_id>.diff file per non-identical Text result
// with a non-empty detailed diff into <outputDir>/patches.
func Patches(results []types.ComparisonResult, outputDir string) error {
	dir := filepath.Join(outputDir, "patches")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, r := range results {
		if r.Type != types.ResultText || r.Identical || r.DetailedDiff == "" {
			continue
		}
		path := filepath.Join(dir, sanitizeFilename(r.LinkedID)+".diff")
		if err := os.WriteFile(path, []byte(r.DetailedDiff), 0o644); err != nil {
			return fmt.Errorf("write patch %s: %w", path, err)
		}
	}
	return nil
}

// Mismatches writes one <linked_id>.json file per non-identical Structured
// result into <outputDir>/mismatches.
func Mismatches(results []types.ComparisonResult, outputDir string) error {
	dir := filepath.Join(outputDir, "mismatches")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, r := range results {
		if r.Type != types.ResultStructured || r.Identical {
			continue
		}
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(dir, sanitizeFilename(r.LinkedID)+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write mismatch %s: %w", path, err)
		}
	}
	return nil
}

// All runs whichever of JSONL/CSV/Patches+Mismatches were requested;
// any path left empty is skipped.
func All(results []types.ComparisonResult, jsonlPath, csvPath, artifactDir string) error {
	if jsonlPath != "" {
		if err := JSONL(results, jsonlPath); err != nil {
			return err
		}
	}
	if csvPath != "" {
		if err := CSV(results, csvPath); err != nil {
			return err
		}
	}
	if artifactDir != "" {
		if err := Patches(results, artifactDir); err != nil {
			return err
		}
		if err := Mismatches(results, artifactDir); err != nil {
			return err
		}
	}
	return nil
}

func sanitizeFilename(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			b.WriteRune('_')
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
