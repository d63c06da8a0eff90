package engine

import (
	"math"

	"deal-radar/internal/config"
)

const (
	scoringMinConfidence = 60
	trendConfidenceGate  = 70

	discountWeight   = 0.4
	velocityWeight   = 0.3
	marginWeight     = 0.2
	confidenceWeight = 0.1
)

// dealScore collapses discount, velocity, margin, and confidence into a
// single 0..100 score. A missing estimate or weak confidence scores 0
// outright.
func dealScore(tmv TMVResult, profit ProfitAnalysis, askingPrice float64) int {
	if tmv.Estimate == nil || tmv.Confidence < scoringMinConfidence {
		return 0
	}
	estimate := *tmv.Estimate
	if estimate <= 0 || askingPrice <= 0 {
		return 0
	}

	// Discount: 50% below market saturates the component.
	discount := (estimate - askingPrice) / estimate
	discountScore := normalize(discount, 0, 0.5) * 100

	// Margin: 2 points per ROI percent, saturating at 50% ROI.
	marginScore := clampRange(profit.ROIPercent*2, 0, 100)

	score := discountScore*discountWeight +
		tmv.VelocityScore*velocityWeight +
		marginScore*marginWeight +
		float64(tmv.Confidence)*confidenceWeight

	// Trend only shifts the score when the estimate itself is trusted.
	if tmv.Confidence >= trendConfidenceGate {
		switch {
		case tmv.Trend == TrendFalling && tmv.TrendRate < -0.10:
			score *= 0.85
		case tmv.Trend == TrendRising && tmv.TrendRate > 0.10:
			score *= 1.10
		}
	}

	return int(math.Round(clampRange(score, 0, 100)))
}

// demandScore converts buyer-interest counters into a 0..100 score by
// weighting saves and inquiries above raw views and comparing the daily
// rate against the configured threshold. Returns the score and the raw
// ratio against the threshold.
func demandScore(cfg *config.Config, d *DemandSignals) (float64, float64) {
	if d == nil {
		return 0, 0
	}
	days := d.DaysListed
	if days < 1 {
		days = 1
	}
	perDay := (float64(d.Views) + 3*float64(d.Saves) + 5*float64(d.Inquiries)) / float64(days)
	ratio := perDay / cfg.DemandThreshold
	return normalize(ratio, 0, 5) * 100, ratio
}

// recommend maps a deal score to an action tag and a short message.
func recommend(score int) (action, message string) {
	switch {
	case score >= 80:
		return ActionBuyNow, "Excellent deal based on current market value."
	case score >= 60:
		return ActionGood, "Solid opportunity with acceptable risk."
	case score >= 40:
		return ActionMarginal, "Risky; consider only with clear upside."
	default:
		return ActionSkip, "Low margin or weak signal; skip."
	}
}
