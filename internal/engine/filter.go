package engine

import (
	"fmt"
	"sort"
	"strings"
)

// suspectPatterns are title fragments that usually indicate bundles,
// broken items, or otherwise non-comparable listings.
var suspectPatterns = []string{
	"lot of",
	"bundle",
	"parts only",
	"for parts",
	"read description",
	"broken",
	"as is",
	"not working",
	"damaged",
	"cracked screen",
}

// Sanity range for comparable values in dollars.
const (
	minSaneValue = 1.0
	maxSaneValue = 50000.0
)

// filterFresh drops samples older than the freshness window, tightened
// further by the caller-supplied max age when one is given.
func filterFresh(comps []Comparable, windowDays, maxAgeDays float64, warnings *[]string) []Comparable {
	limit := windowDays
	if maxAgeDays > 0 && maxAgeDays < limit {
		limit = maxAgeDays
	}
	kept := make([]Comparable, 0, len(comps))
	for _, c := range comps {
		if c.AgeDays <= limit {
			kept = append(kept, c)
		}
	}
	if removed := len(comps) - len(kept); removed > 0 {
		*warnings = append(*warnings, fmt.Sprintf("Removed %d listings outside %.0f-day window", removed, limit))
	}
	return kept
}

// dedupe drops records whose listing ID was already seen, keeping the
// first occurrence. Records without an ID pass through untouched.
func dedupe(comps []Comparable) []Comparable {
	seen := make(map[string]bool, len(comps))
	kept := make([]Comparable, 0, len(comps))
	for _, c := range comps {
		if c.ListingID != "" {
			if seen[c.ListingID] {
				continue
			}
			seen[c.ListingID] = true
		}
		kept = append(kept, c)
	}
	return kept
}

// isSuspect flags listings whose title matches a low-quality pattern or
// whose comparable value falls outside the sanity range.
func isSuspect(c Comparable) bool {
	title := strings.ToLower(c.Title)
	for _, p := range suspectPatterns {
		if strings.Contains(title, p) {
			return true
		}
	}
	return c.Value < minSaneValue || c.Value > maxSaneValue
}

// filterSuspect drops suspect listings. When more than half the batch is
// flagged a warning is recorded, but the clean subset is still used.
func filterSuspect(comps []Comparable, warnings *[]string) []Comparable {
	clean := make([]Comparable, 0, len(comps))
	for _, c := range comps {
		if !isSuspect(c) {
			clean = append(clean, c)
		}
	}
	if len(clean)*2 < len(comps) {
		*warnings = append(*warnings, fmt.Sprintf("Removed %d suspect listings", len(comps)-len(clean)))
	}
	return clean
}

// iqrFilter removes statistical outliers on normalized prices using the
// [Q1−k·IQR, Q3+k·IQR] fence with linear-interpolated quartiles.
// Returns the filtered set and the fraction removed. Fewer than 4
// samples pass through untouched.
func iqrFilter(comps []Comparable, k float64) ([]Comparable, float64) {
	if len(comps) < 4 {
		return comps, 0
	}
	values := normalizedPrices(comps)
	sort.Float64s(values)
	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - k*iqr
	upper := q3 + k*iqr

	kept := make([]Comparable, 0, len(comps))
	for _, c := range comps {
		if c.NormalizedPrice >= lower && c.NormalizedPrice <= upper {
			kept = append(kept, c)
		}
	}
	ratio := float64(len(comps)-len(kept)) / float64(len(comps))
	return kept, ratio
}

func normalizedPrices(comps []Comparable) []float64 {
	values := make([]float64, len(comps))
	for i, c := range comps {
		values[i] = c.NormalizedPrice
	}
	return values
}
