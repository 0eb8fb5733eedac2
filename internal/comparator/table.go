package comparator

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ivoronin/compareit/internal/types"
)

// maxMismatchSamples caps the number of per-field sample mismatches kept
// per column, per §4.6.
const maxMismatchSamples = 5

type table struct {
	headers []string
	records map[string]map[string]string
	rowCount int
}

func compareTable(f1, f2 *types.FileEntry, cfg types.CompareConfig) (types.ComparisonResult, error) {
	t1, err := parseTable(f1.Path, delimiterFor(f1.Kind), cfg.KeyColumns)
	if err != nil {
		return types.ComparisonResult{}, fmt.Errorf("parse %s: %w", f1.Path, err)
	}
	t2, err := parseTable(f2.Path, delimiterFor(f2.Kind), cfg.KeyColumns)
	if err != nil {
		return types.ComparisonResult{}, fmt.Errorf("parse %s: %w", f2.Path, err)
	}

	columns1 := toSet(t1.headers)
	columns2 := toSet(t2.headers)
	commonColumns := sortedIntersection(columns1, columns2)
	onlyColumns1 := sortedDifference(columns1, columns2)
	onlyColumns2 := sortedDifference(columns2, columns1)

	keyColumnSet := toSet(cfg.KeyColumns)

	keys1 := setOfKeys(t1.records)
	keys2 := setOfKeys(t2.records)
	commonKeys := sortedIntersection(keys1, keys2)
	onlyKeys1 := sortedDifference(keys1, keys2)
	onlyKeys2 := sortedDifference(keys2, keys1)

	mismatchesByColumn := make(map[string][]types.FieldMismatch)
	for _, key := range commonKeys {
		row1 := t1.records[key]
		row2 := t2.records[key]
		for _, col := range commonColumns {
			if keyColumnSet[col] {
				continue
			}
			val1 := row1[col]
			val2 := row2[col]
			if !valuesEqual(val1, val2, cfg.NumericTolerance) {
				mismatchesByColumn[col] = append(mismatchesByColumn[col], types.FieldMismatch{
					Key:    key,
					Value1: val1,
					Value2: val2,
				})
			}
		}
	}

	var columnMismatches []types.ColumnMismatch
	totalMismatches := 0
	for _, col := range commonColumns {
		if keyColumnSet[col] {
			continue
		}
		samples := mismatchesByColumn[col]
		if len(samples) == 0 {
			continue
		}
		capped := samples
		if len(capped) > maxMismatchSamples {
			capped = capped[:maxMismatchSamples]
		}
		columnMismatches = append(columnMismatches, types.ColumnMismatch{
			Column:  col,
			Count:   len(samples),
			Samples: capped,
		})
		totalMismatches += len(samples)
	}

	totalKeys := len(keys1) + len(keys2) - len(commonKeys)
	similarity := 1.0
	if totalKeys > 0 {
		similarity = float64(len(commonKeys)) / float64(totalKeys)
	}

	identical := len(onlyKeys1) == 0 && len(onlyKeys2) == 0 && totalMismatches == 0

	return types.ComparisonResult{
		Type:                 types.ResultStructured,
		File1RowCount:        t1.rowCount,
		File2RowCount:        t2.rowCount,
		CommonRecords:        len(commonKeys),
		OnlyInFile1:          len(onlyKeys1),
		OnlyInFile2:          len(onlyKeys2),
		SimilarityScore:      similarity,
		FieldMismatches:      columnMismatches,
		TotalFieldMismatches: totalMismatches,
		ColumnsOnlyInFile1:   onlyColumns1,
		ColumnsOnlyInFile2:   onlyColumns2,
		CommonColumns:        commonColumns,
		Identical:            identical,
	}, nil
}

func delimiterFor(kind types.FileKind) rune {
	if kind == types.KindTsv {
		return '\t'
	}
	return ','
}

// parseTable reads a delimited file into a header list and a map of
// composite-key -> column-name -> value. Rows with flexible field counts
// are accepted (missing trailing fields read as ""). A later row sharing a
// key with an earlier one overwrites it — a documented limitation, not a
// bug to silently work around.
func parseTable(path string, delimiter rune, keyColumns []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keyIndices := []int{0}
	if len(keyColumns) > 0 {
		keyIndices = keyIndices[:0]
		for _, k := range keyColumns {
			for i, h := range headers {
				if h == k {
					keyIndices = append(keyIndices, i)
					break
				}
			}
		}
	}

	records := make(map[string]map[string]string)
	rowCount := 0
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		rowCount++

		keyParts := make([]string, 0, len(keyIndices))
		for _, i := range keyIndices {
			if i < len(row) {
				keyParts = append(keyParts, row[i])
			} else {
				keyParts = append(keyParts, "")
			}
		}
		key := strings.Join(keyParts, "|")

		rowMap := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rowMap[h] = row[i]
			} else {
				rowMap[h] = ""
			}
		}
		records[key] = rowMap
	}

	return &table{headers: headers, records: records, rowCount: rowCount}, nil
}

// valuesEqual compares two field values: exact string match, else both
// parse as finite floats within absolute or relative tolerance.
func valuesEqual(val1, val2 string, tolerance float64) bool {
	if val1 == val2 {
		return true
	}

	n1, err1 := strconv.ParseFloat(val1, 64)
	n2, err2 := strconv.ParseFloat(val2, 64)
	if err1 != nil || err2 != nil || math.IsNaN(n1) || math.IsNaN(n2) || math.IsInf(n1, 0) || math.IsInf(n2, 0) {
		return false
	}

	diff := math.Abs(n1 - n2)
	if diff <= tolerance {
		return true
	}

	maxVal := math.Max(math.Abs(n1), math.Abs(n2))
	if maxVal > 0 && diff/maxVal <= tolerance {
		return true
	}

	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func setOfKeys(records map[string]map[string]string) map[string]bool {
	set := make(map[string]bool, len(records))
	for k := range records {
		set[k] = true
	}
	return set
}

func sortedIntersection(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedDifference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
