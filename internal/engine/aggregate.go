package engine

import (
	"math"
	"sort"
)

// weightedSample pairs a comparable with its recency/status weight.
type weightedSample struct {
	c      Comparable
	weight float64
}

// decayWeights computes exp(−decayRate·ageDays) per sample. Sold listings
// get an additional multiplier over active ones, since realized sales are
// stronger evidence than asking prices.
func decayWeights(comps []Comparable, decayRate, soldMultiplier float64) []weightedSample {
	out := make([]weightedSample, len(comps))
	for i, c := range comps {
		w := math.Exp(-decayRate * c.AgeDays)
		if c.Status == StatusSold {
			w *= soldMultiplier
		}
		out[i] = weightedSample{c: c, weight: w}
	}
	return out
}

// weightedMedian returns the weighted median of normalized prices.
// Samples are sorted by value and weights accumulated until half the
// total weight is reached; landing exactly on the midpoint resolves to
// the higher of the two boundary values.
func weightedMedian(samples []weightedSample) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	sorted := make([]weightedSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].c.NormalizedPrice < sorted[j].c.NormalizedPrice
	})

	var total float64
	for _, s := range sorted {
		total += s.weight
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, false
	}

	target := total / 2
	var cum float64
	for i, s := range sorted {
		cum += s.weight
		if cum > target {
			return s.c.NormalizedPrice, true
		}
		if cum == target {
			if i+1 < len(sorted) {
				return sorted[i+1].c.NormalizedPrice, true
			}
			return s.c.NormalizedPrice, true
		}
	}
	return sorted[len(sorted)-1].c.NormalizedPrice, true
}

// weightedAvg returns Σ(value·weight)/Σ(weight) over normalized prices,
// or 0 when total weight is zero.
func weightedAvg(samples []weightedSample) float64 {
	var sum, total float64
	for _, s := range samples {
		sum += s.c.NormalizedPrice * s.weight
		total += s.weight
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
