// Package comparator dispatches each CandidatePair to the Text or Table
// comparator (or short-circuits to a HashOnly result), producing the
// ComparisonResult tagged union described in §3/§4.4.
package comparator

import (
	"fmt"

	"github.com/ivoronin/compareit/internal/types"
)

// Compare dispatches a single pair according to cfg.Mode and the pair's
// file kinds, per §4.4:
//
//   - an exact content-hash match short-circuits to an identical result in
//     the variant appropriate to the file kinds — Binary ⇒ HashOnly,
//     both structured ⇒ Structured (zero mismatches), else ⇒ Text (zero
//     diff lines) — skipping the expensive read-and-diff entirely;
//   - ModeText always uses the text comparator;
//   - ModeStructured always uses the table comparator;
//   - ModeAuto uses the table comparator when both files are Csv/Tsv (of
//     any combination) and the text comparator otherwise.
//
// A comparator failure is never returned as a Go error: it becomes a
// ComparisonResult{Type: ResultError}, so a batch driver can keep going.
func Compare(pair types.CandidatePair, cfg types.CompareConfig) types.ComparisonResult {
	f1, f2 := pair.File1, pair.File2
	linkedID := LinkedID(f1, f2)

	if pair.ExactHashMatch {
		return identicalResult(f1, f2, linkedID)
	}

	useTable := cfg.Mode == types.ModeStructured ||
		(cfg.Mode == types.ModeAuto && f1.Kind.IsStructured() && f2.Kind.IsStructured())

	var (
		result types.ComparisonResult
		err    error
	)
	if useTable {
		result, err = compareTable(f1, f2, cfg)
	} else {
		result, err = compareText(f1, f2, cfg)
	}
	if err != nil {
		return types.ComparisonResult{
			Type:      types.ResultError,
			LinkedID:  linkedID,
			File1Path: f1.Path,
			File2Path: f2.Path,
			Error:     fmt.Sprintf("compare %s vs %s: %v", f1.Path, f2.Path, err),
		}
	}

	result.LinkedID = linkedID
	result.File1Path = f1.Path
	result.File2Path = f2.Path
	return result
}

// identicalResult builds the identical-pair result for an exact content-hash
// match, in the variant matching the files' kinds rather than always
// HashOnly: Binary files get HashOnly, two structured files get a
// Structured result with zero mismatches and the shared column list, and
// everything else gets a Text result with zero diff lines.
func identicalResult(f1, f2 *types.FileEntry, linkedID string) types.ComparisonResult {
	base := types.ComparisonResult{
		LinkedID:        linkedID,
		File1Path:       f1.Path,
		File2Path:       f2.Path,
		SimilarityScore: 1.0,
		Identical:       true,
	}

	switch {
	case f1.Kind == types.KindBinary || f2.Kind == types.KindBinary:
		base.Type = types.ResultHashOnly
		base.File1Size = f1.Size
		base.File2Size = f2.Size
	case f1.Kind.IsStructured() && f2.Kind.IsStructured():
		base.Type = types.ResultStructured
		base.File1RowCount = f1.LineCount
		base.File2RowCount = f2.LineCount
		base.CommonRecords = f1.LineCount
		base.CommonColumns = f1.Columns
	default:
		base.Type = types.ResultText
		base.File1LineCount = f1.LineCount
		base.File2LineCount = f2.LineCount
		base.CommonLines = f1.LineCount
	}

	return base
}

// LinkedID joins the first 16 hex characters of each file's content hash
// with ':', per §3. Hashes shorter than 16 chars (should not happen once
// fingerprinted, but guarded defensively) are used in full.
func LinkedID(f1, f2 *types.FileEntry) string {
	return truncHash(f1.ContentHash) + ":" + truncHash(f2.ContentHash)
}

func truncHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
