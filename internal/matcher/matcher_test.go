package matcher

import (
	"testing"

	"github.com/ivoronin/compareit/internal/types"
)

func entry(path, ext string, size int64, hash string) *types.FileEntry {
	return &types.FileEntry{Path: path, Extension: ext, Size: size, ContentHash: hash, Kind: types.KindText}
}

func TestMatchByPath(t *testing.T) {
	files1 := []*types.FileEntry{entry("a/x.txt", "txt", 10, "h1"), entry("a/y.txt", "txt", 10, "h2")}
	files2 := []*types.FileEntry{entry("a/x.txt", "txt", 10, "h1"), entry("a/z.txt", "txt", 10, "h3")}

	cfg := types.CompareConfig{Pairing: types.PairingSamePath}
	pairs := Match(files1, files2, cfg)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].File1.Path != "a/x.txt" || pairs[0].File2.Path != "a/x.txt" {
		t.Errorf("unexpected pair: %+v", pairs[0])
	}
	if !pairs[0].ExactHashMatch {
		t.Error("expected exact hash match")
	}
}

func TestMatchByName(t *testing.T) {
	files1 := []*types.FileEntry{entry("dir1/report.txt", "txt", 10, "h1")}
	files2 := []*types.FileEntry{entry("dir2/report.txt", "txt", 10, "h1"), entry("dir3/other.txt", "txt", 10, "h9")}

	cfg := types.CompareConfig{Pairing: types.PairingSameName}
	pairs := Match(files1, files2, cfg)

	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].File2.Path != "dir2/report.txt" {
		t.Errorf("expected match by basename, got %s", pairs[0].File2.Path)
	}
}

func TestAllVsAllExactHashGreedyOneToOne(t *testing.T) {
	files1 := []*types.FileEntry{entry("a.txt", "txt", 10, "same"), entry("b.txt", "txt", 10, "same")}
	files2 := []*types.FileEntry{entry("c.txt", "txt", 10, "same")}

	cfg := types.CompareConfig{Pairing: types.PairingAllVsAll, TopK: 3}
	pairs := Match(files1, files2, cfg)

	exactCount := 0
	for _, p := range pairs {
		if p.ExactHashMatch {
			exactCount++
		}
	}
	if exactCount != 1 {
		t.Errorf("expected exactly 1 exact-hash pair (greedy 1-to-1), got %d", exactCount)
	}
}

func TestAllVsAllSortedDescendingBySimilarity(t *testing.T) {
	files1 := []*types.FileEntry{entry("a.txt", "txt", 100, "h1"), entry("b.txt", "txt", 5, "h2")}
	files2 := []*types.FileEntry{entry("c.txt", "txt", 100, "h3"), entry("d.txt", "txt", 4, "h4")}

	cfg := types.CompareConfig{Pairing: types.PairingAllVsAll, TopK: 3}
	pairs := Match(files1, files2, cfg)

	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].EstimatedSimilarity < pairs[i].EstimatedSimilarity {
			t.Errorf("pairs not sorted descending at index %d: %v < %v", i, pairs[i-1].EstimatedSimilarity, pairs[i].EstimatedSimilarity)
		}
	}
}

func TestAllVsAllMaxPairsCap(t *testing.T) {
	files1 := []*types.FileEntry{entry("a.txt", "txt", 10, "h1"), entry("b.txt", "txt", 20, "h2")}
	files2 := []*types.FileEntry{entry("c.txt", "txt", 10, "h3"), entry("d.txt", "txt", 20, "h4")}

	cfg := types.CompareConfig{Pairing: types.PairingAllVsAll, TopK: 3, MaxPairs: 1}
	pairs := Match(files1, files2, cfg)

	if len(pairs) != 1 {
		t.Fatalf("expected max_pairs to cap at 1, got %d", len(pairs))
	}
}

func TestExtensionsCompatible(t *testing.T) {
	cases := []struct {
		e1, e2 string
		want   bool
	}{
		{"csv", "csv", true},
		{"csv", "tsv", true},
		{"csv", "py", false},
		{"rs", "py", true},
		{"txt", "", true},
		{"json", "yaml", true},
	}
	for _, c := range cases {
		if got := extensionsCompatible(c.e1, c.e2); got != c.want {
			t.Errorf("extensionsCompatible(%q, %q) = %v, want %v", c.e1, c.e2, got, c.want)
		}
	}
}

func TestPassesBlockingRulesSizeRatio(t *testing.T) {
	small := entry("a.txt", "txt", 1, "h1")
	big := entry("b.txt", "txt", 100, "h2")
	if passesBlockingRules(small, big) {
		t.Error("expected size ratio 0.01 to be blocked")
	}

	ok1 := entry("a.txt", "txt", 50, "h1")
	ok2 := entry("b.txt", "txt", 100, "h2")
	if !passesBlockingRules(ok1, ok2) {
		t.Error("expected size ratio 0.5 to pass")
	}
}

func TestPassesBlockingRulesBinaryAsymmetry(t *testing.T) {
	text := entry("a.txt", "txt", 10, "h1")
	binary := entry("b.txt", "txt", 10, "h2")
	binary.Kind = types.KindBinary

	if passesBlockingRules(text, binary) {
		t.Error("expected text-vs-binary pairing to be blocked")
	}

	binary2 := entry("c.txt", "txt", 10, "h3")
	binary2.Kind = types.KindBinary
	if !passesBlockingRules(binary, binary2) {
		t.Error("expected binary-vs-binary pairing to pass")
	}
}

func TestPassesBlockingRulesSchemaMismatchNotBlocking(t *testing.T) {
	f1 := entry("a.csv", "csv", 10, "h1")
	f1.Kind = types.KindCsv
	f1.SchemaSignature = "aaaa"
	f2 := entry("b.csv", "csv", 10, "h2")
	f2.Kind = types.KindCsv
	f2.SchemaSignature = "bbbb"

	if !passesBlockingRules(f1, f2) {
		t.Error("schema mismatch between structured files must not block pairing")
	}
}

func TestEstimateSimilarityFourTierFallback(t *testing.T) {
	f1 := entry("a.txt", "txt", 100, "h1")
	f2 := entry("b.txt", "txt", 100, "h1")
	if sim := estimateSimilarity(f1, f2); sim != 1.0 {
		t.Errorf("expected 1.0 for exact hash match, got %v", sim)
	}

	f2.ContentHash = "different"
	h1, h2 := uint64(0), uint64(0)
	f1.SimHash, f2.SimHash = &h1, &h2
	if sim := estimateSimilarity(f1, f2); sim != 1.0 {
		t.Errorf("expected 1.0 for identical simhash, got %v", sim)
	}

	f1.SimHash, f2.SimHash = nil, nil
	f1.SchemaSignature, f2.SchemaSignature = "same", "same"
	if sim := estimateSimilarity(f1, f2); sim != 0.5 {
		t.Errorf("expected 0.5 for matching schema, got %v", sim)
	}

	f1.SchemaSignature, f2.SchemaSignature = "", ""
	f1.Size, f2.Size = 50, 100
	if sim := estimateSimilarity(f1, f2); sim <= 0 || sim >= 0.3 {
		t.Errorf("expected size-ratio fallback in (0, 0.3), got %v", sim)
	}

	f1.Size, f2.Size = 0, 0
	if sim := estimateSimilarity(f1, f2); sim != 0.0 {
		t.Errorf("expected 0.0 fallback, got %v", sim)
	}
}
