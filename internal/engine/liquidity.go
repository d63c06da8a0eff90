package engine

import "math"

// liquidityResult is the output of the liquidity and trend analyzer,
// computed off the same filtered set the confidence scorer sees.
type liquidityResult struct {
	LiquidityScore      float64
	EstimatedDaysToSell *int
	VelocityScore       float64
	Trend               string
	TrendRate           float64
}

// sellDurations extracts how long sold comparables took to sell, from an
// explicit duration or from the listed-to-observed span.
func sellDurations(comps []Comparable) []float64 {
	var out []float64
	for _, c := range comps {
		if c.Status != StatusSold {
			continue
		}
		switch {
		case c.DaysToSell > 0:
			out = append(out, c.DaysToSell)
		case !c.ListedAt.IsZero():
			d := c.ObservedAt.Sub(c.ListedAt).Hours() / 24
			if d >= 0 {
				out = append(out, d)
			}
		}
	}
	return out
}

// liquidity scores how quickly the item moves. With fewer than two sold
// durations the score stays 0 and no days-to-sell estimate is made.
func liquidity(comps []Comparable) (score float64, estimatedDays *int) {
	durations := sellDurations(comps)
	if len(durations) < 2 {
		return 0, nil
	}
	score = 1 / (1 + median(durations)/30)
	days := int(math.Round(mean(durations)))
	return score, &days
}

// velocityScore blends days-to-sell, market saturation, and sell-through
// rate 40/30/30 into a 0..100 score. Without market metrics it is a
// neutral 50.
func velocityScore(m *MarketMetrics) float64 {
	if m == nil {
		return 50
	}
	daysScore := (1 - normalize(m.AvgDaysToSell, 2, 30)) * 100
	saturationScore := (1 - normalize(float64(m.ActiveListings), 50, 200)) * 100
	sellThroughScore := clampRange(m.SellThroughRate, 0, 1) * 100
	return clampRange(daysScore*0.4+saturationScore*0.3+sellThroughScore*0.3, 0, 100)
}

// priceTrend compares median normalized prices of the last 30 days
// against the 31..60 day window. Both windows need at least 3 samples
// and the whole set at least 10 before a direction is called.
func priceTrend(comps []Comparable) (trend string, rate float64) {
	if len(comps) < 10 {
		return TrendUnknown, 0
	}
	var recent, prior []float64
	for _, c := range comps {
		switch {
		case c.AgeDays <= 30:
			recent = append(recent, c.NormalizedPrice)
		case c.AgeDays <= 60:
			prior = append(prior, c.NormalizedPrice)
		}
	}
	if len(recent) < 3 || len(prior) < 3 {
		return TrendUnknown, 0
	}
	priorMedian := median(prior)
	if priorMedian <= 0 {
		return TrendUnknown, 0
	}
	rate = (median(recent) - priorMedian) / priorMedian
	switch {
	case rate > 0.05:
		return TrendRising, rate
	case rate < -0.05:
		return TrendFalling, rate
	default:
		return TrendStable, rate
	}
}

// analyzeLiquidity runs the full liquidity, velocity, and trend analysis.
func analyzeLiquidity(comps []Comparable, metrics *MarketMetrics) liquidityResult {
	score, days := liquidity(comps)
	trend, rate := priceTrend(comps)
	return liquidityResult{
		LiquidityScore:      score,
		EstimatedDaysToSell: days,
		VelocityScore:       velocityScore(metrics),
		Trend:               trend,
		TrendRate:           rate,
	}
}
