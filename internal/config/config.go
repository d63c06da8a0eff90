package config

import (
	"fmt"
	"math"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// CategoryConfig tunes the engine for one marketplace category.
// Fast-moving categories need fewer samples and decay faster than
// slow collectible markets.
type CategoryConfig struct {
	Velocity      string  `yaml:"velocity" validate:"omitempty,oneof=high medium low"`
	DecayRate     float64 `yaml:"decay_rate" validate:"gte=0"`
	MinSamples    int     `yaml:"min_samples" validate:"gte=0"`
	IQRMultiplier float64 `yaml:"iqr_multiplier" validate:"gte=0"`
}

// FeeSchedule describes the marketplace final-value fee for a category.
// Cap == 0 means no cap. FeeOnShipping controls whether the fee is taken
// on (sale price + buyer shipping) or on sale price alone.
type FeeSchedule struct {
	Rate          float64 `yaml:"rate" validate:"gte=0,lte=1"`
	Cap           float64 `yaml:"cap" validate:"gte=0"`
	FeeOnShipping bool    `yaml:"fee_on_shipping"`
}

// Fees holds the full fee surface: per-category final-value fees plus
// payment processing and fixed per-order charges.
type Fees struct {
	Categories   map[string]FeeSchedule `yaml:"categories"`
	Default      FeeSchedule            `yaml:"default"`
	PaymentRate  float64                `yaml:"payment_rate" default:"0.029" validate:"gte=0,lte=1"`
	PaymentFixed float64                `yaml:"payment_fixed" default:"0.30" validate:"gte=0"`
	PerOrderFee  float64                `yaml:"per_order_fee" default:"0.30" validate:"gte=0"`
}

// Config holds all engine tunables and lookup tables. It is loaded once
// at startup and injected into the engine; never mutated afterwards.
type Config struct {
	MinSamples           int     `yaml:"min_samples" default:"8" validate:"gte=1"`
	FreshnessWindowDays  float64 `yaml:"freshness_window_days" default:"180" validate:"gt=0"`
	HalfLifeDays         float64 `yaml:"half_life_days" default:"7" validate:"gt=0"`
	MinConfidence        int     `yaml:"min_confidence" default:"40" validate:"gte=0,lte=100"`
	SoldWeightMultiplier float64 `yaml:"sold_weight_multiplier" default:"3" validate:"gte=1"`
	SimilarityThreshold  float64 `yaml:"similarity_threshold" default:"0.8" validate:"gte=0,lte=1"`
	DemandThreshold      float64 `yaml:"demand_threshold" default:"1" validate:"gt=0"`

	Categories          map[string]CategoryConfig `yaml:"categories"`
	ConditionFactors    map[string]float64        `yaml:"condition_factors"`
	RegionalMultipliers map[string]float64        `yaml:"regional_multipliers"`
	Fees                Fees                      `yaml:"fees"`
}

// Default returns a Config with the built-in tables and sensible defaults.
func Default() *Config {
	cfg := &Config{}
	defaults.MustSet(cfg)

	cfg.Categories = map[string]CategoryConfig{
		"Electronics":      {Velocity: "high", DecayRate: 0.05, MinSamples: 8, IQRMultiplier: 1.5},
		"Cell Phones":      {Velocity: "high", DecayRate: 0.08, MinSamples: 10, IQRMultiplier: 1.5},
		"Computers":        {Velocity: "high", DecayRate: 0.06, MinSamples: 8, IQRMultiplier: 1.5},
		"TVs":              {Velocity: "high", DecayRate: 0.04, MinSamples: 8, IQRMultiplier: 1.5},
		"Audio":            {Velocity: "medium", DecayRate: 0.02, MinSamples: 6, IQRMultiplier: 1.5},
		"Tools":            {Velocity: "medium", DecayRate: 0.01, MinSamples: 6, IQRMultiplier: 1.5},
		"Automotive Parts": {Velocity: "medium", DecayRate: 0.015, MinSamples: 8, IQRMultiplier: 1.5},
		"Gaming":           {Velocity: "high", DecayRate: 0.055, MinSamples: 8, IQRMultiplier: 1.5},
		"Collectibles":     {Velocity: "low", DecayRate: 0.005, MinSamples: 5, IQRMultiplier: 2.0},
	}

	cfg.ConditionFactors = map[string]float64{
		"new":      1.00,
		"like_new": 0.92,
		"good":     0.75,
		"fair":     0.60,
		"parts":    0.30,
		"unknown":  1.00,
	}

	cfg.RegionalMultipliers = map[string]float64{
		"SF_BAY":  1.15,
		"NYC":     1.12,
		"LA":      1.10,
		"MIDWEST": 0.95,
		"RURAL":   0.88,
	}

	cfg.Fees = Fees{
		Categories: map[string]FeeSchedule{
			"Electronics":      {Rate: 0.1315, FeeOnShipping: true},
			"Cell Phones":      {Rate: 0.15, FeeOnShipping: true},
			"Computers":        {Rate: 0.1315, FeeOnShipping: true},
			"Automotive Parts": {Rate: 0.15, FeeOnShipping: true},
			"Tools":            {Rate: 0.1215, FeeOnShipping: true},
			"Motors":           {Rate: 0.10, Cap: 250.0, FeeOnShipping: false},
		},
		Default:      FeeSchedule{Rate: 0.1315, FeeOnShipping: true},
		PaymentRate:  0.029,
		PaymentFixed: 0.30,
		PerOrderFee:  0.30,
	}

	return cfg
}

// Load reads a YAML configuration file on top of the built-in defaults.
// Tables present in the file replace the corresponding built-in table wholesale.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and table contents.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	for name, f := range c.ConditionFactors {
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("condition factor %q must be a finite positive number", name)
		}
	}
	for name, m := range c.RegionalMultipliers {
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("regional multiplier %q must be a finite positive number", name)
		}
	}
	return nil
}

// defaultCategory is used for categories without an explicit entry.
var defaultCategory = CategoryConfig{Velocity: "medium", DecayRate: 0.02, MinSamples: 6, IQRMultiplier: 1.5}

// CategoryFor returns the tuning for a category, falling back to the
// medium-velocity default for unknown categories.
func (c *Config) CategoryFor(category string) CategoryConfig {
	if cat, ok := c.Categories[category]; ok {
		if cat.MinSamples == 0 {
			cat.MinSamples = c.MinSamples
		}
		if cat.IQRMultiplier == 0 {
			cat.IQRMultiplier = defaultCategory.IQRMultiplier
		}
		return cat
	}
	return defaultCategory
}

// DecayRateFor returns the recency decay rate for a category. A per-category
// rate wins; otherwise the rate is derived from the configured half-life.
func (c *Config) DecayRateFor(category string) float64 {
	if cat, ok := c.Categories[category]; ok && cat.DecayRate > 0 {
		return cat.DecayRate
	}
	return math.Ln2 / c.HalfLifeDays
}

// MinSamplesFor returns the minimum sample count for a category.
func (c *Config) MinSamplesFor(category string) int {
	if cat, ok := c.Categories[category]; ok && cat.MinSamples > 0 {
		return cat.MinSamples
	}
	return c.MinSamples
}

// ConditionFactor returns the price multiplier for a condition bucket.
// Unknown buckets are treated as neutral (1.0).
func (c *Config) ConditionFactor(condition string) float64 {
	if f, ok := c.ConditionFactors[condition]; ok {
		return f
	}
	return 1.0
}

// RegionalMultiplier returns the static multiplier for a region tag,
// or 1.0 when the region is not in the table.
func (c *Config) RegionalMultiplier(region string) float64 {
	if m, ok := c.RegionalMultipliers[region]; ok {
		return m
	}
	return 1.0
}

// FeeFor returns the fee schedule for a category, falling back to the default.
func (c *Config) FeeFor(category string) FeeSchedule {
	if f, ok := c.Fees.Categories[category]; ok {
		return f
	}
	return c.Fees.Default
}
