package engine

import "time"

// Condition is a canonical condition bucket. Raw marketplace condition
// strings are mapped into these buckets during normalization.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionParts   Condition = "parts"
	ConditionUnknown Condition = "unknown"
)

// Status is the marketplace status of a comparable record.
type Status string

const (
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusExpired Status = "expired"
)

// Trend classifications.
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
	TrendUnknown = "unknown"
)

// Recency distribution labels (median age of contributing samples).
const (
	RecencyRecent  = "recent"
	RecencyMixed   = "mixed"
	RecencyStale   = "stale"
	RecencyUnknown = "unknown"
)

// ComparableInput is one raw sale/listing record as supplied by the caller.
// Individual malformed records are dropped during normalization, never fatal.
type ComparableInput struct {
	ListingID    string  `json:"listing_id"`
	ItemPrice    float64 `json:"item_price"`
	ShippingCost float64 `json:"shipping_cost"`
	ObservedAt   string  `json:"observed_at"`            // RFC3339 sale/observation time
	ListedAt     string  `json:"listed_at,omitempty"`    // RFC3339, optional
	DaysToSell   float64 `json:"days_to_sell,omitempty"` // explicit listing-to-sale duration
	Condition    string  `json:"condition"`
	Title        string  `json:"title"`
	Status       string  `json:"status"` // active | sold | expired
	Region       string  `json:"region,omitempty"`
}

// Comparable is the validated internal form of a comparable record.
type Comparable struct {
	ListingID    string
	ItemPrice    float64
	ShippingCost float64
	ObservedAt   time.Time
	ListedAt     time.Time // zero when unknown
	DaysToSell   float64   // 0 = unknown
	RawCondition string
	Title        string
	Status       Status
	Region       string

	Condition Condition
	// Value is the comparable value: item price + shipping cost.
	Value float64
	// NormalizedPrice is Value divided by the condition factor of this
	// sample's own bucket, making prices comparable across conditions.
	NormalizedPrice float64
	AgeDays         float64
}

// DemandSignals carries buyer-interest counters for the target listing.
type DemandSignals struct {
	Views      int `json:"views" validate:"gte=0"`
	Saves      int `json:"saves" validate:"gte=0"`
	Inquiries  int `json:"inquiries" validate:"gte=0"`
	DaysListed int `json:"days_listed" validate:"gte=0"`
}

// MarketMetrics carries aggregate category signals used for velocity scoring.
type MarketMetrics struct {
	ActiveListings  int     `json:"active_listings" validate:"gte=0"`
	AvgDaysToSell   float64 `json:"avg_days_to_sell" validate:"gte=0"`
	SellThroughRate float64 `json:"sell_through_rate" validate:"gte=0,lte=1"`
	RecentSales30d  int     `json:"recent_sales_30d" validate:"gte=0"`
}

// ShippingPolicy carries the shipping amounts for the profit calculation.
type ShippingPolicy struct {
	BuyerShippingCharged float64 `json:"buyer_shipping_charged" validate:"gte=0"`
	ShippingLabelCost    float64 `json:"shipping_label_cost" validate:"gte=0"`
}

// Request is the full input to one valuation: the target item's context
// plus the comparable evidence.
type Request struct {
	Category        string            `json:"category" validate:"required"`
	AskingPrice     float64           `json:"asking_price" validate:"gt=0"`
	Condition       string            `json:"condition,omitempty"`
	Region          string            `json:"region,omitempty"`
	Title           string            `json:"title,omitempty"`
	Description     string            `json:"description,omitempty"`
	MaxAgeDays      float64           `json:"max_age_days,omitempty" validate:"gte=0"`
	ConditionFilter string            `json:"condition_filter,omitempty"`
	Shipping        *ShippingPolicy   `json:"shipping,omitempty"`
	Demand          *DemandSignals    `json:"demand,omitempty"`
	MarketMetrics   *MarketMetrics    `json:"market_metrics,omitempty"`
	Comparables     []ComparableInput `json:"comparables"`
}

// TMVResult is the valuation output. Estimate == nil means the engine
// could not produce a trustworthy value; Warnings explain why and
// Confidence is 0 in that case.
type TMVResult struct {
	Estimate            *float64 `json:"estimate"`
	BaseEstimate        float64  `json:"base_estimate"` // condition-agnostic, pre-adjustment
	Confidence          int      `json:"confidence"`
	SampleSize          int      `json:"sample_size"`
	NewestSampleAgeDays float64  `json:"newest_sample_age_days"`
	OldestSampleAgeDays float64  `json:"oldest_sample_age_days"`
	LiquidityScore      float64  `json:"liquidity_score"`
	EstimatedDaysToSell *int     `json:"estimated_days_to_sell"`
	VelocityScore       float64  `json:"velocity_score"`
	Trend               string   `json:"trend"`
	TrendRate           float64  `json:"trend_rate"`
	SeasonalityIndex    float64  `json:"seasonality_index"`
	RegionalIndex       float64  `json:"regional_index"`
	ConditionFactor     float64  `json:"condition_factor"`
	RawMedian           float64  `json:"raw_median"`
	IQRFilteredMedian   float64  `json:"iqr_filtered_median"`
	WeightedMedian      float64  `json:"weighted_median"`
	OutlierRemovalRatio float64  `json:"outlier_removal_ratio"`
	RecencyDistribution string   `json:"recency_distribution"`
	Warnings            []string `json:"warnings"`
}

// ProfitAnalysis breaks down the expected economics of buying at the
// asking price and reselling at the estimated sale price.
// Values are exact float64 sums; rendering rounds to cents.
type ProfitAnalysis struct {
	PurchasePrice        float64 `json:"purchase_price"`
	EstimatedSalePrice   float64 `json:"estimated_sale_price"`
	BuyerShippingCharged float64 `json:"buyer_shipping_charged"`
	ShippingLabelCost    float64 `json:"shipping_label_cost"`
	FinalValueFee        float64 `json:"final_value_fee"`
	PaymentProcessingFee float64 `json:"payment_processing_fee"`
	FixedFees            float64 `json:"fixed_fees"`
	TotalFees            float64 `json:"total_fees"`
	NetProfit            float64 `json:"net_profit"`
	ROIPercent           float64 `json:"roi_percent"`
}

// Recommendation action tags.
const (
	ActionBuyNow   = "buy_now"
	ActionGood     = "good"
	ActionMarginal = "marginal"
	ActionSkip     = "skip"
)

// DecisionPayload is the engine's sole externally visible output.
type DecisionPayload struct {
	TMV         TMVResult      `json:"tmv"`
	Profit      ProfitAnalysis `json:"profit"`
	DealScore   int            `json:"deal_score"`
	DemandScore float64        `json:"demand_score"`
	HotDeal     bool           `json:"hot_deal"`
	Action      string         `json:"action"`
	Message     string         `json:"message"`
}
