package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"deal-radar/internal/config"
)

// minConditionMatches is the smallest condition-filter survivor count
// for the filter to take effect; below it the full clean set is kept.
const minConditionMatches = 3

// Engine evaluates valuation requests against a configuration. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	cfg *config.Config
	sim Similarity
	now func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSimilarity replaces the default term-frequency comparable matcher.
func WithSimilarity(sim Similarity) Option {
	return func(e *Engine) { e.sim = sim }
}

// WithClock fixes the wall clock, used by tests for deterministic ages.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an Engine. A nil config falls back to defaults.
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		cfg: cfg,
		sim: TermFrequencySimilarity{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the full valuation pipeline and returns the decision
// payload. Request problems surface as insufficient-data payloads with
// explanatory warnings, never as partial results.
func (e *Engine) Compute(req *Request) DecisionPayload {
	now := e.now()
	minSamples := e.cfg.MinSamplesFor(req.Category)
	var warnings []string

	comps := normalizeComparables(req.Comparables, now, func(c Condition) float64 {
		return e.cfg.ConditionFactor(string(c))
	})
	comps = filterFresh(comps, e.cfg.FreshnessWindowDays, req.MaxAgeDays, &warnings)
	comps = dedupe(comps)
	if len(comps) < minSamples {
		return e.insufficientPayload(req, comps, warnings, minSamples)
	}

	comps = filterSuspect(comps, &warnings)
	if len(comps) < minSamples {
		return e.insufficientPayload(req, comps, warnings, minSamples)
	}
	cleanCount := len(comps)

	// matchRatio stays negative unless a comparable filter actually ran.
	matchRatio := -1.0
	if f := strings.TrimSpace(req.ConditionFilter); f != "" {
		want := NormalizeCondition(f)
		var kept []Comparable
		for _, c := range comps {
			if c.Condition == want {
				kept = append(kept, c)
			}
		}
		matchRatio = float64(len(kept)) / float64(cleanCount)
		// Scarce matches fall back to all conditions; the confidence
		// match penalty discounts the result instead of aborting.
		if len(kept) < minConditionMatches {
			warnings = append(warnings, fmt.Sprintf("Only %d comparables matched condition %q, using all conditions", len(kept), want))
		} else {
			comps = kept
		}
		if len(comps) < minSamples {
			return e.insufficientPayload(req, comps, warnings, minSamples)
		}
	}
	if req.Title != "" {
		selected, matched := selectComparables(comps, e.sim, req.Title, e.cfg.SimilarityThreshold, &warnings)
		ratio := float64(matched) / float64(cleanCount)
		if matchRatio < 0 || ratio < matchRatio {
			matchRatio = ratio
		}
		comps = selected
	}
	if len(comps) < minSamples {
		return e.insufficientPayload(req, comps, warnings, minSamples)
	}

	rawMedian := median(normalizedPrices(comps))

	cat := e.cfg.CategoryFor(req.Category)
	filtered, outlierRatio := iqrFilter(comps, cat.IQRMultiplier)
	if len(filtered) < 3 {
		warnings = append(warnings, "IQR removed too many samples, using raw data")
		filtered = comps
		outlierRatio = 0
	}
	iqrMedian := median(normalizedPrices(filtered))

	samples := decayWeights(filtered, e.cfg.DecayRateFor(req.Category), e.cfg.SoldWeightMultiplier)
	base, ok := weightedMedian(samples)
	if !ok {
		warnings = append(warnings, "Weighted aggregation failed, sample weights degenerate")
		return e.insufficientPayload(req, filtered, warnings, minSamples)
	}

	seasonal := seasonalityIndex(samples, now)
	regional := regionalIndex(samples, req.Region, e.cfg.RegionalMultiplier)
	condFactor := e.cfg.ConditionFactor(string(NormalizeCondition(req.Condition)))
	estimate, ok := applyAdjustments(base, seasonal, regional, condFactor)
	if !ok {
		warnings = append(warnings, "Adjustment produced a non-positive estimate")
		return e.insufficientPayload(req, filtered, warnings, minSamples)
	}

	var (
		wg         sync.WaitGroup
		confidence int
		liq        liquidityResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		confidence = confidenceScore(confidenceInput{
			comps:        filtered,
			outlierRatio: outlierRatio,
			matchRatio:   matchRatio,
		})
	}()
	go func() {
		defer wg.Done()
		liq = analyzeLiquidity(filtered, req.MarketMetrics)
	}()
	wg.Wait()

	tmv := TMVResult{
		Estimate:            &estimate,
		BaseEstimate:        base,
		Confidence:          confidence,
		SampleSize:          len(filtered),
		NewestSampleAgeDays: newestAgeDays(filtered),
		OldestSampleAgeDays: oldestAgeDays(filtered),
		LiquidityScore:      liq.LiquidityScore,
		EstimatedDaysToSell: liq.EstimatedDaysToSell,
		VelocityScore:       liq.VelocityScore,
		Trend:               liq.Trend,
		TrendRate:           liq.TrendRate,
		SeasonalityIndex:    seasonal,
		RegionalIndex:       regional,
		ConditionFactor:     condFactor,
		RawMedian:           rawMedian,
		IQRFilteredMedian:   iqrMedian,
		WeightedMedian:      base,
		OutlierRemovalRatio: outlierRatio,
		RecencyDistribution: recencyDistribution(filtered),
		Warnings:            warnings,
	}

	if confidence < e.cfg.MinConfidence {
		tmv.Warnings = append(tmv.Warnings,
			fmt.Sprintf("Confidence %d below minimum %d, estimate withheld", confidence, e.cfg.MinConfidence))
		tmv.Estimate = nil
		tmv.Confidence = 0
	}

	return e.decide(req, tmv)
}

// decide runs the economics and scoring stages on a finished valuation.
func (e *Engine) decide(req *Request, tmv TMVResult) DecisionPayload {
	salePrice := 0.0
	if tmv.Estimate != nil {
		salePrice = *tmv.Estimate
	}
	var shipping ShippingPolicy
	if req.Shipping != nil {
		shipping = *req.Shipping
	}
	profit := CalculateProfit(e.cfg, ProfitParams{
		Category:             req.Category,
		PurchasePrice:        req.AskingPrice,
		EstimatedSalePrice:   salePrice,
		BuyerShippingCharged: shipping.BuyerShippingCharged,
		ShippingLabelCost:    shipping.ShippingLabelCost,
	})

	score := dealScore(tmv, profit, req.AskingPrice)
	demand, demandRatio := demandScore(e.cfg, req.Demand)
	action, message := recommend(score)

	return DecisionPayload{
		TMV:         tmv,
		Profit:      profit,
		DealScore:   score,
		DemandScore: demand,
		HotDeal:     demandRatio >= 1 && score >= 60,
		Action:      action,
		Message:     message,
	}
}

// insufficientPayload is the terminal result when too few samples (or a
// degenerate computation) survive the pipeline.
func (e *Engine) insufficientPayload(req *Request, comps []Comparable, warnings []string, minSamples int) DecisionPayload {
	warnings = append(warnings,
		fmt.Sprintf("Insufficient data: %d samples (need %d)", len(comps), minSamples))
	tmv := TMVResult{
		Estimate:            nil,
		Confidence:          0,
		SampleSize:          len(comps),
		Trend:               TrendUnknown,
		RecencyDistribution: RecencyUnknown,
		Warnings:            warnings,
	}
	if len(comps) > 0 {
		tmv.NewestSampleAgeDays = newestAgeDays(comps)
		tmv.OldestSampleAgeDays = oldestAgeDays(comps)
		tmv.RawMedian = median(normalizedPrices(comps))
		tmv.RecencyDistribution = recencyDistribution(comps)
	}
	return e.decide(req, tmv)
}
