package comparator

import (
	"path/filepath"
	"testing"

	"github.com/ivoronin/compareit/internal/types"
)

func TestValuesEqual(t *testing.T) {
	cases := []struct {
		v1, v2 string
		tol    float64
		want   bool
	}{
		{"hello", "hello", 0.0001, true},
		{"hello", "world", 0.0001, false},
		{"1.0", "1.0", 0.0001, true},
		{"1.0000", "1.0001", 0.001, true},
		{"1.0", "2.0", 0.0001, false},
	}
	for _, c := range cases {
		if got := valuesEqual(c.v1, c.v2, c.tol); got != c.want {
			t.Errorf("valuesEqual(%q, %q, %v) = %v, want %v", c.v1, c.v2, c.tol, got, c.want)
		}
	}
}

func TestCompareTableIdentical(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	writeFile(t, p1, "id,name,value\n1,a,10\n2,b,20\n")
	writeFile(t, p2, "id,name,value\n1,a,10\n2,b,20\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Identical {
		t.Errorf("expected identical, got %+v", result)
	}
	if result.CommonRecords != 2 {
		t.Errorf("expected 2 common records, got %d", result.CommonRecords)
	}
}

func TestCompareTableFieldMismatch(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	writeFile(t, p1, "id,name,value\n1,a,10\n2,b,20\n")
	writeFile(t, p2, "id,name,value\n1,a,99\n2,b,20\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.Identical {
		t.Error("expected non-identical result due to value mismatch")
	}
	if result.TotalFieldMismatches != 1 {
		t.Errorf("expected 1 field mismatch, got %d", result.TotalFieldMismatches)
	}
	if len(result.FieldMismatches) != 1 || result.FieldMismatches[0].Column != "value" {
		t.Errorf("expected mismatch on column 'value', got %+v", result.FieldMismatches)
	}
}

func TestCompareTableNumericToleranceSuppressesMismatch(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	writeFile(t, p1, "id,value\n1,1.0000\n")
	writeFile(t, p2, "id,value\n1,1.0001\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.001}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Identical {
		t.Errorf("expected tolerance to suppress the mismatch, got %+v", result)
	}
}

func TestCompareTableOnlyInOneSideKeys(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	writeFile(t, p1, "id,value\n1,10\n2,20\n")
	writeFile(t, p2, "id,value\n1,10\n3,30\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.OnlyInFile1 != 1 || result.OnlyInFile2 != 1 {
		t.Errorf("expected 1 key only on each side, got %+v", result)
	}
	if result.Identical {
		t.Error("expected non-identical given one-sided keys")
	}
}

func TestCompareTableCustomKeyColumns(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	writeFile(t, p1, "region,id,value\nus,1,10\neu,1,99\n")
	writeFile(t, p2, "region,id,value\nus,1,10\neu,1,99\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001, KeyColumns: []string{"region", "id"}}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.CommonRecords != 2 {
		t.Errorf("expected 2 common records with composite key, got %d", result.CommonRecords)
	}
}

func TestCompareTableFlexibleRowLengths(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	writeFile(t, p1, "id,name,note\n1,a\n2,b,extra\n")
	writeFile(t, p2, "id,name,note\n1,a\n2,b,extra\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001}

	if _, err := compareTable(f1, f2, cfg); err != nil {
		t.Fatalf("expected flexible row lengths to parse without error: %v", err)
	}
}

func TestCompareTableRaggedRowAtKeyColumnPosition(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.csv")
	p2 := filepath.Join(root, "b.csv")
	// "id" is the key column (index 1); row 2 of a.csv is missing it
	// entirely, so its key part must become the empty string, not be
	// dropped (which would shift any later key parts out of position).
	writeFile(t, p1, "region,id\nus,1\neu\n")
	writeFile(t, p2, "region,id\nus,1\neu,\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindCsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindCsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001, KeyColumns: []string{"id"}}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Both files have a row keyed "1" and a row keyed "" (the short row
	// in a.csv and the explicit empty field in b.csv) — they must line up
	// as the same two keys.
	if result.CommonRecords != 2 {
		t.Errorf("expected the short row's key to align with the empty-field key, got %+v", result)
	}
}

func TestCompareTableTsvDelimiter(t *testing.T) {
	root := t.TempDir()
	p1 := filepath.Join(root, "a.tsv")
	p2 := filepath.Join(root, "b.tsv")
	writeFile(t, p1, "id\tvalue\n1\t10\n")
	writeFile(t, p2, "id\tvalue\n1\t10\n")

	f1 := &types.FileEntry{Path: p1, Kind: types.KindTsv}
	f2 := &types.FileEntry{Path: p2, Kind: types.KindTsv}
	cfg := types.CompareConfig{NumericTolerance: 0.0001}

	result, err := compareTable(f1, f2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Identical {
		t.Errorf("expected identical tsv comparison, got %+v", result)
	}
}
