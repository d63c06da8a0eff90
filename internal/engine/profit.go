package engine

import (
	"deal-radar/internal/config"
)

// ProfitParams are the inputs to the fee and profit calculation.
type ProfitParams struct {
	Category             string
	PurchasePrice        float64
	EstimatedSalePrice   float64
	BuyerShippingCharged float64
	ShippingLabelCost    float64
}

// CalculateProfit computes the full fee stack and net economics of a
// flip. Sums are kept exact; only rendering rounds to cents.
func CalculateProfit(cfg *config.Config, p ProfitParams) ProfitAnalysis {
	fee := cfg.FeeFor(p.Category)

	feeBase := p.EstimatedSalePrice
	if fee.FeeOnShipping {
		feeBase += p.BuyerShippingCharged
	}
	finalValueFee := feeBase * fee.Rate
	if fee.Cap > 0 && finalValueFee > fee.Cap {
		finalValueFee = fee.Cap
	}

	// Payment processing applies to the same gross base as the
	// final-value fee.
	paymentFee := feeBase*cfg.Fees.PaymentRate + cfg.Fees.PaymentFixed
	fixedFees := cfg.Fees.PerOrderFee
	totalFees := finalValueFee + paymentFee + fixedFees

	grossRevenue := p.EstimatedSalePrice + p.BuyerShippingCharged
	netProfit := grossRevenue - p.PurchasePrice - p.ShippingLabelCost - totalFees

	roi := 0.0
	if p.PurchasePrice > 0 {
		roi = sanitizeFloat(netProfit / p.PurchasePrice * 100)
	}

	return ProfitAnalysis{
		PurchasePrice:        p.PurchasePrice,
		EstimatedSalePrice:   p.EstimatedSalePrice,
		BuyerShippingCharged: p.BuyerShippingCharged,
		ShippingLabelCost:    p.ShippingLabelCost,
		FinalValueFee:        finalValueFee,
		PaymentProcessingFee: paymentFee,
		FixedFees:            fixedFees,
		TotalFees:            totalFees,
		NetProfit:            netProfit,
		ROIPercent:           roi,
	}
}
