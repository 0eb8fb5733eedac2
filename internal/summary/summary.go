// Package summary aggregates a batch of ComparisonResult values into a
// single ComparisonSummary, grounded on calculate_summary in the original
// export module.
package summary

import (
	"math"

	"github.com/ivoronin/compareit/internal/types"
)

// Calculate aggregates results into a ComparisonSummary. total1/total2 are
// the file counts from each indexed tree (not just the compared pairs).
func Calculate(results []types.ComparisonResult, total1, total2 int) types.ComparisonSummary {
	var identical, different, errors int
	var similarities []float64

	for _, r := range results {
		if r.Type == types.ResultError {
			errors++
			continue
		}
		if r.Identical {
			identical++
		} else {
			different++
		}
		similarities = append(similarities, r.SimilarityScore)
	}

	var avg float64
	if len(similarities) > 0 {
		var sum float64
		for _, s := range similarities {
			sum += s
		}
		avg = sum / float64(len(similarities))
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	for _, s := range similarities {
		min = math.Min(min, s)
		max = math.Max(max, s)
	}

	return types.ComparisonSummary{
		TotalFilesSet1:    total1,
		TotalFilesSet2:    total2,
		PairsCompared:     len(results),
		IdenticalPairs:    identical,
		DifferentPairs:    different,
		ErrorPairs:        errors,
		AverageSimilarity: collapseNonFinite(avg),
		MinSimilarity:     collapseNonFinite(min),
		MaxSimilarity:     collapseNonFinite(max),
	}
}

// collapseNonFinite maps NaN and +/-Inf to 0.0, per §7/§9 (an empty
// similarities set, or a NaN similarity, must never leak into the summary).
func collapseNonFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}
