package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	cases := []struct {
		label string
		want  Condition
	}{
		{"excellent", ConditionExcellent},
		{"Excellent", ConditionExcellent},
		{"EXCELLENT", ConditionExcellent},
		{"good", ConditionGood},
		{"fair", ConditionFair},
		{"poor", ConditionPoor},
		{"  poor  ", ConditionPoor},
		{"mint", ConditionUnknown},
		{"", ConditionUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCondition(tc.label), "label %q", tc.label)
	}
}

func TestConditionFactors(t *testing.T) {
	assert.Equal(t, 1.15, ConditionExcellent.Factor())
	assert.Equal(t, 1.0, ConditionGood.Factor())
	assert.Equal(t, 0.85, ConditionFair.Factor())
	assert.Equal(t, 0.70, ConditionPoor.Factor())
	// Unrecognized labels price like "good"
	assert.Equal(t, 1.0, ConditionUnknown.Factor())
}

func TestEstimateNewVehicle(t *testing.T) {
	e := NewEngine(DefaultConfig())

	res := e.Estimate(Input{
		BasePrice: 1250000,
		ModelYear: 2025,
		Mileage:   0,
		Condition: ConditionGood,
	})

	assert.Equal(t, 0.0, res.DepreciationPercentage)
	assert.Equal(t, 0.0, res.MileageImpact)
	assert.Equal(t, 1250000.0, res.EstimatedValue)
	assert.Equal(t, 0, res.Breakdown.AgeYears)
}

func TestEstimateOneYearOld(t *testing.T) {
	e := NewEngine(DefaultConfig())

	res := e.Estimate(Input{
		BasePrice: 1000000,
		ModelYear: 2024,
		Mileage:   10000, // below the 15000 expected for age 1
		Condition: ConditionGood,
	})

	assert.Equal(t, 17.5, res.DepreciationPercentage)
	assert.Equal(t, 0.0, res.MileageImpact)
	assert.Equal(t, 825000.0, res.EstimatedValue)
}

func TestEstimateTwoYearScenario(t *testing.T) {
	// base 1,000,000, year 2023, 15,000 km, good, trend 1.0:
	// age 2, depreciation 30%, expected 30,000 km, excess 0, value 700,000.
	e := NewEngine(DefaultConfig())

	res := e.Estimate(Input{
		BasePrice:   1000000,
		ModelYear:   2023,
		Mileage:     15000,
		Condition:   ConditionGood,
		MarketTrend: 1.0,
	})

	assert.Equal(t, 30.0, res.DepreciationPercentage)
	assert.Equal(t, 0.0, res.MileageImpact)
	assert.Equal(t, 1.0, res.ConditionFactor)
	assert.Equal(t, 700000.0, res.EstimatedValue)

	assert.Equal(t, 2, res.Breakdown.AgeYears)
	assert.Equal(t, 30000, res.Breakdown.ExpectedMileage)
	assert.Equal(t, 0, res.Breakdown.ExcessMileage)
	assert.Equal(t, 700000.0, res.Breakdown.DepreciatedValue)
	assert.Equal(t, 700000.0, res.Breakdown.FinalValue)
}

func TestEstimateDepreciationClamp(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// age 6: 0.175 + 5*0.125 = 0.80, below the cap
	res := e.Estimate(Input{BasePrice: 1000000, ModelYear: 2019, Mileage: 0, Condition: ConditionGood})
	assert.Equal(t, 80.0, res.DepreciationPercentage)

	// age 7: raw 0.925 exceeds the cap
	res = e.Estimate(Input{BasePrice: 1000000, ModelYear: 2018, Mileage: 0, Condition: ConditionGood})
	assert.Equal(t, 85.0, res.DepreciationPercentage)
}

func TestEstimateFloorWins(t *testing.T) {
	// age 30: the depreciation cap engages and the floor still beats the
	// residual value, so the result is exactly 15% of base price.
	e := NewEngine(DefaultConfig())

	res := e.Estimate(Input{
		BasePrice:   1000000,
		ModelYear:   1995,
		Mileage:     15000,
		Condition:   ConditionGood,
		MarketTrend: 1.0,
	})

	assert.Equal(t, 85.0, res.DepreciationPercentage)
	assert.Equal(t, 150000.0, res.EstimatedValue)
}

func TestEstimateMileagePenaltyClamp(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// age 1, expected 15,000; 165,000 driven means 150,000 excess which is
	// exactly 15 brackets of 2% = 30%, the cap.
	res := e.Estimate(Input{
		BasePrice: 1000000,
		ModelYear: 2024,
		Mileage:   165000,
		Condition: ConditionGood,
	})
	assert.Equal(t, 30.0, res.MileageImpact)

	// Far beyond that still clamps to 30%.
	res = e.Estimate(Input{
		BasePrice: 1000000,
		ModelYear: 2024,
		Mileage:   500000,
		Condition: ConditionGood,
	})
	assert.Equal(t, 30.0, res.MileageImpact)
}

func TestEstimateMileageBelowExpected(t *testing.T) {
	e := NewEngine(DefaultConfig())

	res := e.Estimate(Input{
		BasePrice: 1000000,
		ModelYear: 2020,
		Mileage:   5000, // way below the 75,000 expected for age 5
		Condition: ConditionGood,
	})

	assert.Equal(t, 0.0, res.MileageImpact)
	assert.Equal(t, 0, res.Breakdown.ExcessMileage)
}

func TestEstimateConditionAndTrend(t *testing.T) {
	e := NewEngine(DefaultConfig())

	in := Input{
		BasePrice:   1000000,
		ModelYear:   2023,
		Mileage:     15000,
		MarketTrend: 1.1,
	}

	in.Condition = ConditionExcellent
	res := e.Estimate(in)
	// 700,000 * 1.15 * 1.1
	assert.Equal(t, 885500.0, res.EstimatedValue)
	assert.Equal(t, 1.1, res.MarketTrend)

	in.Condition = ConditionPoor
	res = e.Estimate(in)
	// 700,000 * 0.70 * 1.1
	assert.Equal(t, 539000.0, res.EstimatedValue)
}

func TestEstimateFloorInvariant(t *testing.T) {
	e := NewEngine(DefaultConfig())

	inputs := []Input{
		{BasePrice: 1000000, ModelYear: 1990, Mileage: 900000, Condition: ConditionPoor},
		{BasePrice: 550000, ModelYear: 2000, Mileage: 400000, Condition: ConditionFair},
		{BasePrice: 2250000, ModelYear: 2010, Mileage: 350000, Condition: ConditionPoor, MarketTrend: 0.8},
		{BasePrice: 720000, ModelYear: 2025, Mileage: 0, Condition: ConditionExcellent},
	}
	for _, in := range inputs {
		res := e.Estimate(in)
		assert.GreaterOrEqual(t, res.EstimatedValue, in.BasePrice*0.15,
			"floor invariant violated for %+v", in)
		assert.LessOrEqual(t, res.DepreciationPercentage, 85.0)
		assert.LessOrEqual(t, res.MileageImpact, 30.0)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	e := NewEngine(DefaultConfig())

	in := Input{BasePrice: 1300000, ModelYear: 2022, Mileage: 61000, Condition: ConditionFair, MarketTrend: 1.05}
	first := e.Estimate(in)
	second := e.Estimate(in)
	assert.Equal(t, first, second)
}

func TestEstimateDefaultsMarketTrend(t *testing.T) {
	e := NewEngine(DefaultConfig())

	res := e.Estimate(Input{BasePrice: 1000000, ModelYear: 2023, Mileage: 15000, Condition: ConditionGood})
	assert.Equal(t, 1.0, res.MarketTrend)
	assert.Equal(t, 700000.0, res.EstimatedValue)
}

func TestNewEngineFillsZeroConfig(t *testing.T) {
	e := NewEngine(Config{})
	require.Equal(t, DefaultConfig(), e.Config())
}

func TestEstimateCustomEpoch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CurrentYear = 2030
	e := NewEngine(cfg)

	res := e.Estimate(Input{BasePrice: 1000000, ModelYear: 2029, Mileage: 0, Condition: ConditionGood})
	assert.Equal(t, 17.5, res.DepreciationPercentage)
}
