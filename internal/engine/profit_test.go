package engine

import (
	"math"
	"testing"

	"deal-radar/internal/config"
)

func TestCalculateProfit_Electronics(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:             "Electronics",
		PurchasePrice:        60,
		EstimatedSalePrice:   100,
		BuyerShippingCharged: 10,
		ShippingLabelCost:    8,
	})

	// Electronics: 13.15% on item + shipping.
	if want := 110 * 0.1315; math.Abs(got.FinalValueFee-want) > 1e-9 {
		t.Errorf("FinalValueFee = %v, want %v", got.FinalValueFee, want)
	}
	if want := 110*0.029 + 0.30; math.Abs(got.PaymentProcessingFee-want) > 1e-9 {
		t.Errorf("PaymentProcessingFee = %v, want %v", got.PaymentProcessingFee, want)
	}
	if got.FixedFees != 0.30 {
		t.Errorf("FixedFees = %v, want 0.30", got.FixedFees)
	}
}

func TestCalculateProfit_NetProfitIdentity(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:             "Tools",
		PurchasePrice:        37.41,
		EstimatedSalePrice:   88.13,
		BuyerShippingCharged: 6.99,
		ShippingLabelCost:    5.25,
	})

	revenue := got.EstimatedSalePrice + got.BuyerShippingCharged
	costs := got.PurchasePrice + got.ShippingLabelCost + got.TotalFees
	if got.NetProfit != revenue-costs {
		t.Errorf("NetProfit = %v, want exact revenue-costs %v", got.NetProfit, revenue-costs)
	}
	if got.TotalFees != got.FinalValueFee+got.PaymentProcessingFee+got.FixedFees {
		t.Errorf("TotalFees = %v, not the exact sum of its parts", got.TotalFees)
	}
}

func TestCalculateProfit_FeeCap(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:           "Motors",
		PurchasePrice:      2000,
		EstimatedSalePrice: 5000,
	})
	// 10% of 5000 would be 500; the Motors cap holds it at 250.
	if got.FinalValueFee != 250 {
		t.Errorf("FinalValueFee = %v, want capped 250", got.FinalValueFee)
	}
}

func TestCalculateProfit_FeeExcludesShipping(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:             "Motors",
		PurchasePrice:        500,
		EstimatedSalePrice:   1000,
		BuyerShippingCharged: 100,
	})
	// Motors fee base excludes shipping: 10% of 1000, under the cap.
	if got.FinalValueFee != 100 {
		t.Errorf("FinalValueFee = %v, want 100 on the item price alone", got.FinalValueFee)
	}
	// Payment processing shares the fee base, so it also excludes shipping.
	if want := 1000*0.029 + 0.30; math.Abs(got.PaymentProcessingFee-want) > 1e-9 {
		t.Errorf("PaymentProcessingFee = %v, want %v", got.PaymentProcessingFee, want)
	}
}

func TestCalculateProfit_UnknownCategoryUsesDefault(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:           "Llama Grooming",
		PurchasePrice:      10,
		EstimatedSalePrice: 100,
	})
	if want := 100 * 0.1315; math.Abs(got.FinalValueFee-want) > 1e-9 {
		t.Errorf("FinalValueFee = %v, want default-schedule %v", got.FinalValueFee, want)
	}
}

func TestCalculateProfit_ZeroPurchasePrice(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:           "Electronics",
		PurchasePrice:      0,
		EstimatedSalePrice: 100,
	})
	if got.ROIPercent != 0 {
		t.Errorf("ROIPercent = %v, want 0 when purchase price is 0", got.ROIPercent)
	}
	if got.NetProfit <= 0 {
		t.Errorf("NetProfit = %v, want > 0 for a free acquisition", got.NetProfit)
	}
}

func TestCalculateProfit_LosingDeal(t *testing.T) {
	cfg := config.Default()
	got := CalculateProfit(cfg, ProfitParams{
		Category:           "Electronics",
		PurchasePrice:      100,
		EstimatedSalePrice: 90,
	})
	if got.NetProfit >= 0 {
		t.Errorf("NetProfit = %v, want negative", got.NetProfit)
	}
	if got.ROIPercent >= 0 {
		t.Errorf("ROIPercent = %v, want negative", got.ROIPercent)
	}
}
