package comparator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ivoronin/compareit/internal/normalize"
	"github.com/ivoronin/compareit/internal/types"
)

// unifiedContextRadius is the number of unchanged context lines shown
// around each hunk in the unified diff, per §4.5.
const unifiedContextRadius = 3

// diffTruncatedMarker is appended to the unified diff whenever it hits
// config.MaxDiffBytes.
const diffTruncatedMarker = "\n... [diff truncated] ...\n"

func compareText(f1, f2 *types.FileEntry, cfg types.CompareConfig) (types.ComparisonResult, error) {
	lines1, err := normalize.Lines(f1.Path, cfg.Normalization)
	if err != nil {
		return types.ComparisonResult{}, err
	}
	lines2, err := normalize.Lines(f2.Path, cfg.Normalization)
	if err != nil {
		return types.ComparisonResult{}, err
	}

	matcher := difflib.NewMatcher(lines1, lines2)
	opcodes := matcher.GetOpCodes()

	var (
		commonLines, onlyIn1, onlyIn2 int
		positions                    []int
		detailedDiff                  strings.Builder
		diffBytes                     int
		diffTruncated                 bool
		idx                           int
	)

	appendLine := func(prefix, line string) {
		entry := prefix + line + "\n"
		if diffBytes < cfg.MaxDiffBytes {
			diffBytes += len(entry)
			detailedDiff.WriteString(entry)
		} else {
			diffTruncated = true
		}
	}

	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for i := op.I1; i < op.I2; i++ {
				commonLines++
				idx++
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				onlyIn1++
				positions = append(positions, idx)
				appendLine("-", lines1[i])
				idx++
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				onlyIn2++
				positions = append(positions, idx)
				appendLine("+", lines2[j])
				idx++
			}
		case 'r':
			for i := op.I1; i < op.I2; i++ {
				onlyIn1++
				positions = append(positions, idx)
				appendLine("-", lines1[i])
				idx++
			}
			for j := op.J1; j < op.J2; j++ {
				onlyIn2++
				positions = append(positions, idx)
				appendLine("+", lines2[j])
				idx++
			}
		}
	}

	var similarity float64
	switch cfg.SimilarityAlgorithm {
	case types.SimilarityCharJaro:
		text1 := strings.Join(lines1, "\n")
		text2 := strings.Join(lines2, "\n")
		score, err := edlib.StringsSimilarity(text1, text2, edlib.JaroWinkler)
		if err != nil {
			return types.ComparisonResult{}, fmt.Errorf("jaro-winkler similarity: %w", err)
		}
		similarity = float64(score)
	default:
		total := commonLines + onlyIn1 + onlyIn2
		if total > 0 {
			similarity = float64(commonLines) / float64(total)
		} else {
			similarity = 1.0
		}
	}

	unified, unifiedTruncated := generateUnifiedDiff(f1.Path, f2.Path, matcher, lines1, lines2, cfg.MaxDiffBytes)

	finalDiff := detailedDiff.String()
	if unified != "" {
		finalDiff = unified
	}

	return types.ComparisonResult{
		Type:               types.ResultText,
		File1LineCount:     len(lines1),
		File2LineCount:     len(lines2),
		CommonLines:        commonLines,
		OnlyInFile1:        onlyIn1,
		OnlyInFile2:        onlyIn2,
		SimilarityScore:    similarity,
		DifferentPositions: encodeRanges(positions),
		DetailedDiff:       finalDiff,
		DiffTruncated:      diffTruncated || unifiedTruncated,
		Identical:          onlyIn1 == 0 && onlyIn2 == 0,
	}, nil
}

// generateUnifiedDiff renders a git-style unified diff with a fixed context
// radius, truncating once maxBytes is reached and appending the literal
// truncation marker, per §4.5.
func generateUnifiedDiff(path1, path2 string, matcher *difflib.SequenceMatcher, lines1, lines2 []string, maxBytes int) (string, bool) {
	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n", path1)
	fmt.Fprintf(&out, "+++ %s\n", path2)

	truncated := false

	for _, hunk := range matcher.GetGroupedOpCodes(unifiedContextRadius) {
		if out.Len() >= maxBytes {
			truncated = true
			break
		}
		if len(hunk) == 0 {
			continue
		}

		first, last := hunk[0], hunk[len(hunk)-1]
		out.WriteString(hunkHeader(first.I1, last.I2, first.J1, last.J2))
		out.WriteString("\n")

		for _, op := range hunk {
			if out.Len() >= maxBytes {
				truncated = true
				break
			}
			switch op.Tag {
			case 'e':
				for i := op.I1; i < op.I2; i++ {
					writeDiffLine(&out, " ", lines1[i], maxBytes, &truncated)
				}
			case 'd':
				for i := op.I1; i < op.I2; i++ {
					writeDiffLine(&out, "-", lines1[i], maxBytes, &truncated)
				}
			case 'i':
				for j := op.J1; j < op.J2; j++ {
					writeDiffLine(&out, "+", lines2[j], maxBytes, &truncated)
				}
			case 'r':
				for i := op.I1; i < op.I2; i++ {
					writeDiffLine(&out, "-", lines1[i], maxBytes, &truncated)
				}
				for j := op.J1; j < op.J2; j++ {
					writeDiffLine(&out, "+", lines2[j], maxBytes, &truncated)
				}
			}
		}
	}

	if truncated {
		out.WriteString(diffTruncatedMarker)
	}

	return out.String(), truncated
}

func writeDiffLine(out *strings.Builder, prefix, line string, maxBytes int, truncated *bool) {
	if out.Len() >= maxBytes {
		*truncated = true
		return
	}
	out.WriteString(prefix)
	out.WriteString(line)
	out.WriteString("\n")
}

func hunkHeader(i1, i2, j1, j2 int) string {
	return "@@ -" + rangeSpec(i1, i2) + " +" + rangeSpec(j1, j2) + " @@"
}

func rangeSpec(start, end int) string {
	length := end - start
	if length == 0 {
		// An empty range names the line before it, as in git/GNU diff.
		return strconv.Itoa(start) + ",0"
	}
	if length == 1 {
		return strconv.Itoa(start + 1)
	}
	return strconv.Itoa(start+1) + "," + strconv.Itoa(length)
}

// encodeRanges compresses a sorted slice of positions into comma-separated
// closed ranges, e.g. [1,2,3,5,7,8,9] -> "1-3,5,7-9".
func encodeRanges(positions []int) string {
	if len(positions) == 0 {
		return ""
	}

	var ranges []string
	start, end := positions[0], positions[0]

	flush := func() {
		if start == end {
			ranges = append(ranges, strconv.Itoa(start))
		} else {
			ranges = append(ranges, strconv.Itoa(start)+"-"+strconv.Itoa(end))
		}
	}

	for _, pos := range positions[1:] {
		if pos == end+1 {
			end = pos
			continue
		}
		flush()
		start, end = pos, pos
	}
	flush()

	return strings.Join(ranges, ",")
}
