package solar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimator_FromArea(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	e := est.FromArea(100)

	// 100 m² * 0.8 usable = 80 m², floor(80/1.7) = 47 panels.
	assert.Equal(t, 100.0, e.AreaSqm)
	assert.Equal(t, 47, e.PanelCount)
	assert.InDelta(t, 47*0.4, e.CapacityKW, 1e-9)
	assert.InDelta(t, 18.8*4.5*30, e.MonthlyGenerationKWh, 1e-6)
	assert.InDelta(t, 18.8*4.5*30*7, e.MonthlySavingsINR, 1e-6)
	assert.InDelta(t, 18.8*4.5*30*12*0.82, e.CO2ReductionKgYear, 1e-6)
	assert.Equal(t, 1249, e.TreesSaved)
}

func TestEstimator_FromArea_ZeroAndNegative(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	assert.Equal(t, Estimate{}, est.FromArea(0))
	assert.Equal(t, Estimate{}, est.FromArea(-5))
}

func TestEstimator_FromArea_TooSmallForOnePanel(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	// 1 m² usable area fits zero panels; derived figures collapse to zero.
	e := est.FromArea(1)
	assert.Equal(t, 0, e.PanelCount)
	assert.Zero(t, e.CapacityKW)
	assert.Zero(t, e.MonthlySavingsINR)
}

func TestEstimator_FromArea_Monotonic(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	prev := est.FromArea(10)
	for _, area := range []float64{20, 50, 120, 400} {
		e := est.FromArea(area)
		assert.GreaterOrEqual(t, e.PanelCount, prev.PanelCount)
		assert.GreaterOrEqual(t, e.MonthlyGenerationKWh, prev.MonthlyGenerationKWh)
		prev = e
	}
}

func TestEstimator_FromPoints(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	e := est.FromPoints(square(10))
	assert.InDelta(t, 100, e.AreaSqm, 1e-9)
	assert.Equal(t, 47, e.PanelCount)

	assert.Equal(t, Estimate{}, est.FromPoints(nil))
}

func TestEstimator_CapacityFromPVArea(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	assert.InDelta(t, 5.0, est.CapacityFromPVArea(25), 1e-9)
	assert.Zero(t, est.CapacityFromPVArea(0))
	assert.Zero(t, est.CapacityFromPVArea(-3))
}

func TestFormatSavings_IndianGrouping(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "₹500", FormatSavings(500))
	assert.Equal(t, "₹12,500", FormatSavings(12500))
	// Indian grouping: lakh separator after the first three digits.
	assert.Equal(t, "₹1,00,000", FormatSavings(100000))
	assert.Equal(t, "₹17,76,600", FormatSavings(1776600))
}

func TestAssumptionFooter(t *testing.T) {
	t.Parallel()
	est := NewEstimator(DefaultAssumptions())

	footer := est.AssumptionFooter()
	assert.True(t, strings.Contains(footer, "0.2 kW"))
	assert.True(t, strings.Contains(footer, "4.5 kWh/kW/day"))
	assert.True(t, strings.Contains(footer, "₹7/kWh"))
}
