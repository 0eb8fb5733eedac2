// Package matcher pairs FileEntry values from two trees into CandidatePair
// values worth comparing, per one of three pairing strategies.
//
// Grounded on the teacher's screener (map-based grouping, single-threaded —
// this stage is CPU-bound over metadata already in memory, no I/O) and on
// the exact blocking/ranking rules of the original match_files.rs.
package matcher

import (
	"path/filepath"
	"sort"

	"github.com/ivoronin/compareit/internal/fingerprint"
	"github.com/ivoronin/compareit/internal/types"
)

// Match generates candidate pairs between files1 and files2 according to
// cfg.Pairing.
func Match(files1, files2 []*types.FileEntry, cfg types.CompareConfig) []types.CandidatePair {
	switch cfg.Pairing {
	case types.PairingSamePath:
		return matchByPath(files1, files2)
	case types.PairingSameName:
		return matchByName(files1, files2)
	default:
		return allVsAll(files1, files2, cfg.TopK, cfg.MaxPairs)
	}
}

func matchByPath(files1, files2 []*types.FileEntry) []types.CandidatePair {
	byPath := make(map[string]*types.FileEntry, len(files2))
	for _, f := range files2 {
		byPath[f.Path] = f
	}

	var pairs []types.CandidatePair
	for _, f1 := range files1 {
		f2, ok := byPath[f1.Path]
		if !ok {
			continue
		}
		pairs = append(pairs, newPair(f1, f2))
	}
	return pairs
}

func matchByName(files1, files2 []*types.FileEntry) []types.CandidatePair {
	byName := make(map[string][]*types.FileEntry)
	for _, f := range files2 {
		name := filepath.Base(f.Path)
		byName[name] = append(byName[name], f)
	}

	var pairs []types.CandidatePair
	for _, f1 := range files1 {
		name := filepath.Base(f1.Path)
		candidates, ok := byName[name]
		if !ok || len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		bestSim := estimateSimilarity(f1, best)
		for _, c := range candidates[1:] {
			if sim := estimateSimilarity(f1, c); sim > bestSim {
				best, bestSim = c, sim
			}
		}
		pairs = append(pairs, newPair(f1, best))
	}
	return pairs
}

// allVsAll runs the exact-hash pass first (greedy 1-to-1), then a
// similarity/Top-K pass over the residue, concatenates both, sorts
// descending by estimated similarity (stable), and truncates to maxPairs
// if set.
func allVsAll(files1, files2 []*types.FileEntry, topK int, maxPairs int) []types.CandidatePair {
	hashIndex := make(map[string][]*types.FileEntry)
	for _, f := range files2 {
		if f.ContentHash != "" {
			hashIndex[f.ContentHash] = append(hashIndex[f.ContentHash], f)
		}
	}

	matched1 := make(map[string]bool)
	matched2 := make(map[string]bool)

	var pairs []types.CandidatePair
	for _, f1 := range files1 {
		if f1.ContentHash == "" {
			continue
		}
		for _, f2 := range hashIndex[f1.ContentHash] {
			if matched2[f2.Path] {
				continue
			}
			pairs = append(pairs, types.CandidatePair{
				File1:               f1,
				File2:               f2,
				EstimatedSimilarity: 1.0,
				ExactHashMatch:      true,
			})
			matched1[f1.Path] = true
			matched2[f2.Path] = true
			break
		}
	}

	var unmatched1, unmatched2 []*types.FileEntry
	for _, f1 := range files1 {
		if !matched1[f1.Path] {
			unmatched1 = append(unmatched1, f1)
		}
	}
	for _, f2 := range files2 {
		if !matched2[f2.Path] {
			unmatched2 = append(unmatched2, f2)
		}
	}

	type scored struct {
		f2  *types.FileEntry
		sim float64
	}

	for _, f1 := range unmatched1 {
		var candidates []scored
		for _, f2 := range unmatched2 {
			if !passesBlockingRules(f1, f2) {
				continue
			}
			candidates = append(candidates, scored{f2, estimateSimilarity(f1, f2)})
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].sim > candidates[j].sim
		})

		k := topK
		if k > len(candidates) {
			k = len(candidates)
		}
		for _, c := range candidates[:k] {
			pairs = append(pairs, types.CandidatePair{
				File1:               f1,
				File2:               c.f2,
				EstimatedSimilarity: c.sim,
				ExactHashMatch:      false,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].EstimatedSimilarity > pairs[j].EstimatedSimilarity
	})

	if maxPairs > 0 && len(pairs) > maxPairs {
		pairs = pairs[:maxPairs]
	}

	return pairs
}

func newPair(f1, f2 *types.FileEntry) types.CandidatePair {
	return types.CandidatePair{
		File1:               f1,
		File2:               f2,
		EstimatedSimilarity: estimateSimilarity(f1, f2),
		ExactHashMatch:      f1.ContentHash != "" && f1.ContentHash == f2.ContentHash,
	}
}

// extension compatibility groups for the blocking rule (§4.3).
var extensionGroups = [][]string{
	{"txt", "log", "md", "rst", ""},
	{"csv", "tsv", "tab"},
	{"rs", "py", "js", "ts", "java", "c", "cpp", "h", "hpp", "go"},
	{"json", "yaml", "yml", "toml", "ini", "cfg"},
}

func extensionsCompatible(ext1, ext2 string) bool {
	if ext1 == ext2 {
		return true
	}
	for _, group := range extensionGroups {
		if contains(group, ext1) && contains(group, ext2) {
			return true
		}
	}
	return false
}

func contains(group []string, ext string) bool {
	for _, g := range group {
		if g == ext {
			return true
		}
	}
	return false
}

// passesBlockingRules implements the three blocking rules of §4.3: extension
// compatibility, size ratio within [0.1, 10], and not exactly one side
// Binary. Schema mismatch between two structured files is NOT a blocker —
// it only lowers the similarity score via estimateSimilarity.
func passesBlockingRules(f1, f2 *types.FileEntry) bool {
	if !extensionsCompatible(f1.Extension, f2.Extension) {
		return false
	}

	if f1.Size > 0 && f2.Size > 0 {
		ratio := float64(f1.Size) / float64(f2.Size)
		if ratio < 0.1 || ratio > 10.0 {
			return false
		}
	}

	isBinary1 := f1.Kind == types.KindBinary
	isBinary2 := f2.Kind == types.KindBinary
	if isBinary1 != isBinary2 {
		return false
	}

	return true
}

// estimateSimilarity is the four-tier ranking-only estimate of §4.3: exact
// hash match, then SimHash similarity, then schema-signature equality, then
// a low-confidence size ratio, then 0.
func estimateSimilarity(f1, f2 *types.FileEntry) float64 {
	if f1.ContentHash != "" && f1.ContentHash == f2.ContentHash {
		return 1.0
	}

	if f1.SimHash != nil && f2.SimHash != nil {
		return fingerprint.SimHashSimilarity(*f1.SimHash, *f2.SimHash)
	}

	if f1.SchemaSignature != "" && f2.SchemaSignature != "" && f1.SchemaSignature == f2.SchemaSignature {
		return 0.5
	}

	if f1.Size > 0 && f2.Size > 0 {
		minSize, maxSize := f1.Size, f2.Size
		if minSize > maxSize {
			minSize, maxSize = maxSize, minSize
		}
		return float64(minSize) / float64(maxSize) * 0.3
	}

	return 0.0
}
