package engine

import (
	"math"
	"sort"
)

const (
	sampleSaturation      = 10
	sampleShortPenalty    = 5.0
	dispersionPenaltyCap  = 40.0
	recencyAgeThreshold   = 60.0
	recencyPenaltyCap     = 30.0
	recencyPenaltyPerDay  = 0.5
	outlierRatioThreshold = 0.3
	outlierPenaltyCap     = 25.0
	stalePenalty          = 15.0
	mixedPenalty          = 5.0
	matchRatioThreshold   = 0.3
	matchPenalty          = 20.0
)

// confidenceInput collects the signals the scorer penalizes on.
type confidenceInput struct {
	comps        []Comparable
	outlierRatio float64
	// matchRatio is the fraction of the clean set a condition or
	// similarity filter retained; negative when no filter ran.
	matchRatio float64
}

// confidenceScore builds a 0..100 trust score by subtracting capped
// penalties from a perfect 100.
func confidenceScore(in confidenceInput) int {
	score := 100.0

	if n := len(in.comps); n < sampleSaturation {
		score -= float64(sampleSaturation-n) * sampleShortPenalty
	}

	if p := dispersionPenalty(in.comps); p > 0 {
		score -= math.Min(dispersionPenaltyCap, p)
	}

	if minAge := newestAgeDays(in.comps); minAge > recencyAgeThreshold {
		score -= math.Min(recencyPenaltyCap, (minAge-recencyAgeThreshold)*recencyPenaltyPerDay)
	}

	if in.outlierRatio > outlierRatioThreshold {
		score -= math.Min(outlierPenaltyCap, in.outlierRatio*50)
	}

	switch recencyDistribution(in.comps) {
	case RecencyStale:
		score -= stalePenalty
	case RecencyMixed:
		score -= mixedPenalty
	}

	if in.matchRatio >= 0 && in.matchRatio < matchRatioThreshold {
		score -= matchPenalty
	}

	return int(math.Round(clampRange(score, 0, 100)))
}

// dispersionPenalty is the interquartile range of normalized prices
// relative to their median, expressed in points.
func dispersionPenalty(comps []Comparable) float64 {
	if len(comps) < 2 {
		return 0
	}
	prices := normalizedPrices(comps)
	sort.Float64s(prices)
	med := median(prices)
	if med <= 0 {
		return 0
	}
	iqr := quantile(prices, 0.75) - quantile(prices, 0.25)
	return iqr / med * 100
}

func newestAgeDays(comps []Comparable) float64 {
	if len(comps) == 0 {
		return 0
	}
	minAge := math.Inf(1)
	for _, c := range comps {
		if c.AgeDays < minAge {
			minAge = c.AgeDays
		}
	}
	return minAge
}

func oldestAgeDays(comps []Comparable) float64 {
	maxAge := 0.0
	for _, c := range comps {
		if c.AgeDays > maxAge {
			maxAge = c.AgeDays
		}
	}
	return maxAge
}

// recencyDistribution classifies the sample set by median age.
func recencyDistribution(comps []Comparable) string {
	if len(comps) == 0 {
		return RecencyUnknown
	}
	ages := make([]float64, len(comps))
	for i, c := range comps {
		ages[i] = c.AgeDays
	}
	switch medAge := median(ages); {
	case medAge < 14:
		return RecencyRecent
	case medAge < 45:
		return RecencyMixed
	default:
		return RecencyStale
	}
}
