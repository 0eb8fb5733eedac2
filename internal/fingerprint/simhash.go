package fingerprint

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// shingleSize is the n-gram width for both word- and line-level shingles.
const shingleSize = 3

// ComputeSimHash computes a 64-bit locality-sensitive hash over normalized
// content: word 3-gram shingles across the whole normalized text, plus line
// 3-gram shingles across consecutive normalized lines, each hashed with
// xxhash and accumulated into a signed bit vector.
func ComputeSimHash(lines []string) uint64 {
	shingles := generateShingles(lines, shingleSize)

	var v [64]int32
	for _, shingle := range shingles {
		h := xxhash.Sum64String(shingle)
		for i := 0; i < 64; i++ {
			if (h>>uint(i))&1 == 1 {
				v[i]++
			} else {
				v[i]--
			}
		}
	}

	var result uint64
	for i := 0; i < 64; i++ {
		if v[i] > 0 {
			result |= 1 << uint(i)
		}
	}
	return result
}

// generateShingles produces word-level and line-level n-gram shingles, per
// the two-pass scheme in the original fingerprinter: word shingles capture
// content similarity regardless of line breaks, line shingles capture
// structural similarity of line ordering.
func generateShingles(lines []string, n int) []string {
	var shingles []string

	var words []string
	for _, line := range lines {
		words = append(words, strings.Fields(line)...)
	}

	switch {
	case len(words) >= n:
		for i := 0; i+n <= len(words); i++ {
			shingles = append(shingles, strings.Join(words[i:i+n], " "))
		}
	case len(words) > 0:
		shingles = append(shingles, strings.Join(words, " "))
	}

	if len(lines) >= n {
		for i := 0; i+n <= len(lines); i++ {
			shingles = append(shingles, strings.Join(lines[i:i+n], "\n"))
		}
	}

	return shingles
}

// HammingDistance returns the number of differing bits (0-64) between two
// SimHash values.
func HammingDistance(a, b uint64) int {
	return popcount(a ^ b)
}

// SimHashSimilarity converts a Hamming distance between two SimHash values
// into a 0.0-1.0 similarity score.
func SimHashSimilarity(a, b uint64) float64 {
	return 1.0 - float64(HammingDistance(a, b))/64.0
}

func popcount(x uint64) int {
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}
