package engine

import (
	"math"
	"strings"
	"time"
)

// conditionMap maps normalized marketplace condition strings to buckets.
// Keys are lower-cased with collapsed whitespace.
var conditionMap = map[string]Condition{
	// identity mappings for already-canonical values
	"new":      ConditionNew,
	"like_new": ConditionLikeNew,
	"good":     ConditionGood,
	"fair":     ConditionFair,
	"parts":    ConditionParts,
	"unknown":  ConditionUnknown,
	// marketplace variants
	"brand new":                  ConditionNew,
	"new other":                  ConditionNew,
	"new with tags":              ConditionNew,
	"new without tags":           ConditionNew,
	"factory sealed":             ConditionNew,
	"manufacturer refurbished":   ConditionLikeNew,
	"open box":                   ConditionLikeNew,
	"like new":                   ConditionLikeNew,
	"used - like new":            ConditionLikeNew,
	"excellent":                  ConditionLikeNew,
	"seller refurbished":         ConditionGood,
	"used":                       ConditionGood,
	"used - good":                ConditionGood,
	"pre-owned":                  ConditionGood,
	"tested working":             ConditionGood,
	"used - acceptable":          ConditionFair,
	"acceptable":                 ConditionFair,
	"fair condition":             ConditionFair,
	"for parts":                  ConditionParts,
	"for parts or not working":   ConditionParts,
	"parts only":                 ConditionParts,
	"not working":                ConditionParts,
	"broken":                     ConditionParts,
	"as-is":                      ConditionParts,
	"as is":                      ConditionParts,
}

// NormalizeCondition maps a raw condition string to a canonical bucket.
// The lookup is case-insensitive and tolerant of extra whitespace.
// Unmapped strings resolve to ConditionUnknown.
func NormalizeCondition(raw string) Condition {
	normalized := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if normalized == "" {
		return ConditionUnknown
	}
	if c, ok := conditionMap[normalized]; ok {
		return c
	}
	return ConditionUnknown
}

// timeFormats are accepted observation timestamp layouts.
var timeFormats = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseComparableTime(value string) (time.Time, bool) {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sold":
		return StatusSold
	case "expired":
		return StatusExpired
	default:
		return StatusActive
	}
}

// normalizeComparable converts one raw record into its internal form.
// Returns false for malformed records (unparseable timestamp, future
// timestamp, negative components, non-positive comparable value).
func normalizeComparable(in ComparableInput, now time.Time, factor func(Condition) float64) (Comparable, bool) {
	observedAt, ok := parseComparableTime(in.ObservedAt)
	if !ok || observedAt.After(now) {
		return Comparable{}, false
	}
	if in.ItemPrice < 0 || in.ShippingCost < 0 || in.DaysToSell < 0 {
		return Comparable{}, false
	}
	value := in.ItemPrice + in.ShippingCost
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return Comparable{}, false
	}

	cond := NormalizeCondition(in.Condition)
	f := factor(cond)
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 1
	}

	c := Comparable{
		ListingID:       in.ListingID,
		ItemPrice:       in.ItemPrice,
		ShippingCost:    in.ShippingCost,
		ObservedAt:      observedAt,
		DaysToSell:      in.DaysToSell,
		RawCondition:    in.Condition,
		Title:           in.Title,
		Status:          parseStatus(in.Status),
		Region:          strings.TrimSpace(in.Region),
		Condition:       cond,
		Value:           value,
		NormalizedPrice: value / f,
		AgeDays:         now.Sub(observedAt).Hours() / 24,
	}
	if in.ListedAt != "" {
		if listedAt, ok := parseComparableTime(in.ListedAt); ok && !listedAt.After(observedAt) {
			c.ListedAt = listedAt
		}
	}
	return c, true
}

// normalizeComparables converts the raw batch, silently excluding
// malformed records from the working set.
func normalizeComparables(inputs []ComparableInput, now time.Time, factor func(Condition) float64) []Comparable {
	out := make([]Comparable, 0, len(inputs))
	for _, in := range inputs {
		if c, ok := normalizeComparable(in, now, factor); ok {
			out = append(out, c)
		}
	}
	return out
}
