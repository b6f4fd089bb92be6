// Package pricing implements the vehicle valuation engine: a pure,
// deterministic depreciation/mileage/condition formula over a catalog base
// price. It performs no I/O and is safe for concurrent use.
package pricing

import (
	"math"
	"strings"
)

// Config holds the tunable constants of the valuation formula. CurrentYear is
// deliberately a fixed configuration value rather than the system clock:
// valuations are frozen to an epoch and only move when the constant is
// updated on purpose.
type Config struct {
	CurrentYear       int     `json:"current_year"`
	AnnualDistanceKm  int     `json:"annual_distance_km"`
	MileageBracketKm  int     `json:"mileage_bracket_km"`
	BracketPenalty    float64 `json:"bracket_penalty"`
	MaxDepreciation   float64 `json:"max_depreciation"`
	MaxMileagePenalty float64 `json:"max_mileage_penalty"`
	ValueFloor        float64 `json:"value_floor"`
}

// DefaultConfig returns the constants the catalog was calibrated with:
// epoch year 2025, 15,000 km expected per year, 2% penalty per 10,000 km of
// excess, depreciation capped at 85%, mileage penalty capped at 30%, and an
// estimated value never below 15% of base price.
func DefaultConfig() Config {
	return Config{
		CurrentYear:       2025,
		AnnualDistanceKm:  15000,
		MileageBracketKm:  10000,
		BracketPenalty:    0.02,
		MaxDepreciation:   0.85,
		MaxMileagePenalty: 0.30,
		ValueFloor:        0.15,
	}
}

// Condition is the subjective physical condition of a vehicle. Unrecognized
// labels normalize to ConditionUnknown, which prices like ConditionGood.
type Condition int

const (
	ConditionUnknown Condition = iota
	ConditionExcellent
	ConditionGood
	ConditionFair
	ConditionPoor
)

// ParseCondition maps a user-entered label onto the enumeration,
// case-insensitively. Anything outside the known set yields ConditionUnknown.
func ParseCondition(label string) Condition {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "excellent":
		return ConditionExcellent
	case "good":
		return ConditionGood
	case "fair":
		return ConditionFair
	case "poor":
		return ConditionPoor
	default:
		return ConditionUnknown
	}
}

// Factor returns the multiplicative condition adjustment. The unknown branch
// is the explicit permissive default: it prices like "good".
func (c Condition) Factor() float64 {
	switch c {
	case ConditionExcellent:
		return 1.15
	case ConditionFair:
		return 0.85
	case ConditionPoor:
		return 0.70
	default: // ConditionGood and ConditionUnknown
		return 1.0
	}
}

func (c Condition) String() string {
	switch c {
	case ConditionExcellent:
		return "excellent"
	case ConditionGood:
		return "good"
	case ConditionFair:
		return "fair"
	case ConditionPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// Input is one valuation request. BasePrice must be positive and Mileage
// non-negative; both are validated at the API boundary, not here.
type Input struct {
	BasePrice   float64
	ModelYear   int
	Mileage     int
	Condition   Condition
	MarketTrend float64
}

// Breakdown records every intermediate quantity of a valuation, for
// diagnostics. It is internally consistent with the top-level result fields.
type Breakdown struct {
	BasePrice        float64 `json:"base_price"`
	AgeYears         int     `json:"age_years"`
	ExpectedMileage  int     `json:"expected_mileage"`
	ActualMileage    int     `json:"actual_mileage"`
	ExcessMileage    int     `json:"excess_mileage"`
	DepreciatedValue float64 `json:"depreciated_value"`
	AfterCondition   float64 `json:"after_condition"`
	FinalValue       float64 `json:"final_value"`
}

// Result is the outcome of a valuation. EstimatedValue is floored at
// ValueFloor times the base price; percentages are already scaled to 0..100.
type Result struct {
	EstimatedValue         float64   `json:"estimated_value"`
	DepreciationPercentage float64   `json:"depreciation_percentage"`
	MileageImpact          float64   `json:"mileage_impact"`
	ConditionFactor        float64   `json:"condition_factor"`
	MarketTrend            float64   `json:"market_trend"`
	Breakdown              Breakdown `json:"breakdown"`
}

// Engine computes valuations under a fixed Config.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine. Zero-valued config fields fall back to the
// defaults so a partially populated config cannot zero out the formula.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.CurrentYear == 0 {
		cfg.CurrentYear = def.CurrentYear
	}
	if cfg.AnnualDistanceKm == 0 {
		cfg.AnnualDistanceKm = def.AnnualDistanceKm
	}
	if cfg.MileageBracketKm == 0 {
		cfg.MileageBracketKm = def.MileageBracketKm
	}
	if cfg.BracketPenalty == 0 {
		cfg.BracketPenalty = def.BracketPenalty
	}
	if cfg.MaxDepreciation == 0 {
		cfg.MaxDepreciation = def.MaxDepreciation
	}
	if cfg.MaxMileagePenalty == 0 {
		cfg.MaxMileagePenalty = def.MaxMileagePenalty
	}
	if cfg.ValueFloor == 0 {
		cfg.ValueFloor = def.ValueFloor
	}
	return &Engine{cfg: cfg}
}

// Config returns the constants the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Estimate runs the valuation formula:
//
//	age 0 -> no depreciation; age 1 -> 17.5%; each further year adds 12.5%,
//	capped at MaxDepreciation. Mileage beyond age*AnnualDistanceKm costs
//	BracketPenalty per MileageBracketKm, capped at MaxMileagePenalty. The two
//	reductions combine additively, then the condition factor and market trend
//	multiply, and the floor at ValueFloor*BasePrice is applied last so it
//	recovers even a combination that would otherwise go negative.
func (e *Engine) Estimate(in Input) Result {
	if in.MarketTrend == 0 {
		in.MarketTrend = 1.0
	}

	age := e.cfg.CurrentYear - in.ModelYear
	if age < 0 {
		age = 0
	}

	var depreciation float64
	switch {
	case age == 0:
		depreciation = 0
	case age == 1:
		depreciation = 0.175
	default:
		depreciation = 0.175 + float64(age-1)*0.125
	}
	depreciation = math.Min(depreciation, e.cfg.MaxDepreciation)

	expectedMileage := age * e.cfg.AnnualDistanceKm
	excessMileage := in.Mileage - expectedMileage
	if excessMileage < 0 {
		excessMileage = 0
	}
	mileagePenalty := float64(excessMileage) / float64(e.cfg.MileageBracketKm) * e.cfg.BracketPenalty
	mileagePenalty = math.Min(mileagePenalty, e.cfg.MaxMileagePenalty)

	conditionFactor := in.Condition.Factor()

	depreciatedValue := in.BasePrice * (1 - depreciation - mileagePenalty)
	afterCondition := depreciatedValue * conditionFactor
	finalValue := afterCondition * in.MarketTrend

	// Floor runs last so it also recovers a negative combined reduction.
	finalValue = math.Max(finalValue, in.BasePrice*e.cfg.ValueFloor)

	return Result{
		EstimatedValue:         round2(finalValue),
		DepreciationPercentage: round2(depreciation * 100),
		MileageImpact:          round2(mileagePenalty * 100),
		ConditionFactor:        conditionFactor,
		MarketTrend:            in.MarketTrend,
		Breakdown: Breakdown{
			BasePrice:        in.BasePrice,
			AgeYears:         age,
			ExpectedMileage:  expectedMileage,
			ActualMileage:    in.Mileage,
			ExcessMileage:    excessMileage,
			DepreciatedValue: round2(depreciatedValue),
			AfterCondition:   round2(afterCondition),
			FinalValue:       round2(finalValue),
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
