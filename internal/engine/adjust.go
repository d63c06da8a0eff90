package engine

import (
	"strings"
	"time"
)

// minSeasonalitySamples is the smallest weighted sample count for which a
// seasonality index is computed at all.
const minSeasonalitySamples = 6

// seasonalityIndex compares the current calendar month's weighted average
// price (UTC) against the overall weighted average. Months without
// contributing samples, or too few samples overall, are neutral.
func seasonalityIndex(samples []weightedSample, now time.Time) float64 {
	if len(samples) < minSeasonalitySamples {
		return 1
	}
	month := now.UTC().Month()
	var monthSamples []weightedSample
	for _, s := range samples {
		if s.c.ObservedAt.UTC().Month() == month {
			monthSamples = append(monthSamples, s)
		}
	}
	if len(monthSamples) == 0 {
		return 1
	}
	overall := weightedAvg(samples)
	if overall <= 0 {
		return 1
	}
	idx := weightedAvg(monthSamples) / overall
	if !isFinitePositive(idx) {
		return 1
	}
	return idx
}

// regionalIndex compares the weighted average price of samples tagged
// with the target region against the overall weighted average. When no
// sample carries a matching tag it falls back to the static multiplier
// table; without a target region it is neutral.
func regionalIndex(samples []weightedSample, region string, static func(string) float64) float64 {
	region = strings.TrimSpace(region)
	if region == "" {
		return 1
	}
	var regionSamples []weightedSample
	for _, s := range samples {
		if strings.EqualFold(s.c.Region, region) {
			regionSamples = append(regionSamples, s)
		}
	}
	if len(regionSamples) == 0 {
		return static(region)
	}
	overall := weightedAvg(samples)
	if overall <= 0 {
		return 1
	}
	idx := weightedAvg(regionSamples) / overall
	if !isFinitePositive(idx) {
		return 1
	}
	return idx
}

// applyAdjustments scales the base estimate by the market-normalized
// indices and finally the target condition factor. Non-finite or
// non-positive factors, or a non-positive result, are a computation
// failure.
func applyAdjustments(base, seasonal, regional, conditionFactor float64) (float64, bool) {
	if !isFinitePositive(base) || !isFinitePositive(seasonal) ||
		!isFinitePositive(regional) || !isFinitePositive(conditionFactor) {
		return 0, false
	}
	final := base * seasonal * regional * conditionFactor
	if !isFinitePositive(final) {
		return 0, false
	}
	return final, true
}
