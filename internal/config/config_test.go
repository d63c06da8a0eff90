package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.MinSamples != 8 {
		t.Errorf("MinSamples = %v, want 8", c.MinSamples)
	}
	if c.FreshnessWindowDays != 180 {
		t.Errorf("FreshnessWindowDays = %v, want 180", c.FreshnessWindowDays)
	}
	if c.HalfLifeDays != 7 {
		t.Errorf("HalfLifeDays = %v, want 7", c.HalfLifeDays)
	}
	if c.MinConfidence != 40 {
		t.Errorf("MinConfidence = %v, want 40", c.MinConfidence)
	}
	if c.SoldWeightMultiplier != 3 {
		t.Errorf("SoldWeightMultiplier = %v, want 3", c.SoldWeightMultiplier)
	}
	if c.SimilarityThreshold != 0.8 {
		t.Errorf("SimilarityThreshold = %v, want 0.8", c.SimilarityThreshold)
	}
	if c.Fees.PaymentRate != 0.029 || c.Fees.PaymentFixed != 0.30 {
		t.Errorf("payment fees = %v + %v, want 0.029 + 0.30", c.Fees.PaymentRate, c.Fees.PaymentFixed)
	}
}

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() failed validation: %v", err)
	}
}

func TestCategoryFor(t *testing.T) {
	c := Default()
	if got := c.CategoryFor("Electronics"); got.MinSamples != 8 || got.DecayRate != 0.05 {
		t.Errorf("Electronics = %+v, want MinSamples 8 DecayRate 0.05", got)
	}
	// Unknown categories get the medium-velocity fallback.
	if got := c.CategoryFor("Llama Grooming"); got.Velocity != "medium" {
		t.Errorf("fallback velocity = %q, want medium", got.Velocity)
	}
}

func TestDecayRateFor(t *testing.T) {
	c := Default()
	if got := c.DecayRateFor("Electronics"); got != 0.05 {
		t.Errorf("Electronics decay = %v, want the category override 0.05", got)
	}
	// Without an override, the rate comes from the half-life.
	c.Categories = nil
	want := math.Ln2 / c.HalfLifeDays
	if got := c.DecayRateFor("Electronics"); math.Abs(got-want) > 1e-12 {
		t.Errorf("half-life decay = %v, want %v", got, want)
	}
}

func TestConditionFactor(t *testing.T) {
	c := Default()
	if got := c.ConditionFactor("parts"); got != 0.30 {
		t.Errorf("parts factor = %v, want 0.30", got)
	}
	if got := c.ConditionFactor("hovercraft"); got != 1.0 {
		t.Errorf("unknown condition factor = %v, want 1.0", got)
	}
}

func TestRegionalMultiplier(t *testing.T) {
	c := Default()
	if got := c.RegionalMultiplier("SF_BAY"); got != 1.15 {
		t.Errorf("SF_BAY = %v, want 1.15", got)
	}
	if got := c.RegionalMultiplier("NOWHERE"); got != 1.0 {
		t.Errorf("unknown region = %v, want 1.0", got)
	}
}

func TestFeeFor(t *testing.T) {
	c := Default()
	motors := c.FeeFor("Motors")
	if motors.Rate != 0.10 || motors.Cap != 250 || motors.FeeOnShipping {
		t.Errorf("Motors schedule = %+v, want 10%% capped at 250 excluding shipping", motors)
	}
	fallback := c.FeeFor("Llama Grooming")
	if fallback.Rate != 0.1315 || !fallback.FeeOnShipping {
		t.Errorf("fallback schedule = %+v, want the default 13.15%%", fallback)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("min_samples: 12\nmin_confidence: 55\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MinSamples != 12 {
		t.Errorf("MinSamples = %v, want 12 from the file", c.MinSamples)
	}
	if c.MinConfidence != 55 {
		t.Errorf("MinConfidence = %v, want 55 from the file", c.MinConfidence)
	}
	// Untouched keys keep their defaults.
	if c.HalfLifeDays != 7 {
		t.Errorf("HalfLifeDays = %v, want default 7", c.HalfLifeDays)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("min_confidence: 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted an out-of-range min_confidence")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}
