package engine

import (
	"fmt"
	"testing"
)

// comp builds a minimal comparable for filter tests.
func comp(id string, price, ageDays float64) Comparable {
	return Comparable{
		ListingID:       id,
		Value:           price,
		NormalizedPrice: price,
		AgeDays:         ageDays,
		Status:          StatusSold,
	}
}

func TestFilterFresh(t *testing.T) {
	comps := []Comparable{
		comp("a", 100, 10),
		comp("b", 100, 90),
		comp("c", 100, 200),
	}

	var warnings []string
	got := filterFresh(comps, 180, 0, &warnings)
	if len(got) != 2 {
		t.Errorf("kept %d, want 2 inside the 180-day window", len(got))
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one about removed listings", warnings)
	}

	// Caller max-age tightens the window.
	warnings = nil
	got = filterFresh(comps, 180, 30, &warnings)
	if len(got) != 1 || got[0].ListingID != "a" {
		t.Errorf("kept %v, want only the 10-day-old sample", got)
	}

	// Max-age wider than the window does not loosen it.
	warnings = nil
	got = filterFresh(comps, 180, 365, &warnings)
	if len(got) != 2 {
		t.Errorf("kept %d, want 2; max-age must not extend the freshness window", len(got))
	}
}

func TestDedupe(t *testing.T) {
	comps := []Comparable{
		comp("a", 100, 1),
		comp("a", 200, 2),
		comp("b", 100, 1),
		comp("", 100, 1),
		comp("", 110, 2),
	}
	got := dedupe(comps)
	// Duplicate "a" collapses to its first occurrence; blank ids are
	// always kept since they cannot be compared.
	if len(got) != 4 {
		t.Fatalf("kept %d, want 4", len(got))
	}
	if got[0].Value != 100 {
		t.Errorf("first occurrence lost: Value = %v, want 100", got[0].Value)
	}
}

func TestIsSuspect(t *testing.T) {
	tests := []struct {
		name string
		c    Comparable
		want bool
	}{
		{"clean", Comparable{Title: "ACME Widget Pro", Value: 100}, false},
		{"lot listing", Comparable{Title: "Lot of 5 widgets", Value: 100}, true},
		{"for parts", Comparable{Title: "Widget FOR PARTS", Value: 100}, true},
		{"broken", Comparable{Title: "widget broken read description", Value: 100}, true},
		{"below sanity floor", Comparable{Title: "Widget", Value: 0.5}, true},
		{"above sanity ceiling", Comparable{Title: "Widget", Value: 60000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSuspect(tt.c); got != tt.want {
				t.Errorf("isSuspect(%q, %v) = %v, want %v", tt.c.Title, tt.c.Value, got, tt.want)
			}
		})
	}
}

func TestIQRFilter(t *testing.T) {
	comps := []Comparable{
		comp("a", 95, 1), comp("b", 100, 1), comp("c", 102, 1),
		comp("d", 98, 1), comp("e", 101, 1), comp("f", 99, 1),
		comp("out", 500, 1),
	}
	kept, ratio := iqrFilter(comps, 1.5)
	if len(kept) != 6 {
		t.Errorf("kept %d, want 6 after removing the 500 outlier", len(kept))
	}
	for _, c := range kept {
		if c.ListingID == "out" {
			t.Error("outlier survived the IQR filter")
		}
	}
	want := 1.0 / 7.0
	if diff := ratio - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("removal ratio = %v, want %v", ratio, want)
	}
}

func TestIQRFilter_SmallSetsPassThrough(t *testing.T) {
	comps := []Comparable{comp("a", 10, 1), comp("b", 1000, 1), comp("c", 20, 1)}
	kept, ratio := iqrFilter(comps, 1.5)
	if len(kept) != 3 || ratio != 0 {
		t.Errorf("kept %d ratio %v, want all 3 with ratio 0 below the minimum set size", len(kept), ratio)
	}
}

func TestIQRFilter_NeverEmptiesLargeSets(t *testing.T) {
	// Wild dispersion: the band always contains the quartile core.
	var comps []Comparable
	for i := 0; i < 12; i++ {
		comps = append(comps, comp(fmt.Sprintf("c%d", i), float64(1+i*i*50), 1))
	}
	kept, _ := iqrFilter(comps, 1.5)
	if len(kept) == 0 {
		t.Fatal("IQR filter emptied a 12-sample set")
	}
}

func TestFilterSuspect_WarnsOnMajoritySuspect(t *testing.T) {
	comps := []Comparable{
		{ListingID: "a", Title: "Widget", Value: 100},
		{ListingID: "b", Title: "Widget lot of 3", Value: 100},
		{ListingID: "c", Title: "Widget broken", Value: 100},
		{ListingID: "d", Title: "Widget as is", Value: 100},
	}
	var warnings []string
	got := filterSuspect(comps, &warnings)
	if len(got) != 1 {
		t.Errorf("kept %d, want 1", len(got))
	}
	if !hasWarningContaining(warnings, "suspect") {
		t.Errorf("warnings = %v, want suspect-majority warning", warnings)
	}
}
