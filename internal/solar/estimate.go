package solar

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Assumptions are the policy constants behind an estimate. They track local
// tariffs, panel hardware, and grid carbon intensity rather than physics, so
// they come from config and are surfaced to the user alongside results.
type Assumptions struct {
	PanelAreaSqm     float64 // footprint of one panel
	UsableAreaRatio  float64 // spacing and edge losses
	PanelCapacityKW  float64 // rated power per panel
	DailyYieldPerKW  float64 // kWh per kW per day
	TariffPerKWh     float64 // INR per kWh
	GridCO2PerKWh    float64 // kg CO2 per kWh
	CO2PerTreeYear   float64 // kg CO2 offset by one tree per year
	CapacityKWPerSqm float64 // quick capacity policy for detected PV area
}

// DefaultAssumptions are the scheme-wide defaults for India.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		PanelAreaSqm:     1.7,
		UsableAreaRatio:  0.8,
		PanelCapacityKW:  0.4,
		DailyYieldPerKW:  4.5,
		TariffPerKWh:     7,
		GridCO2PerKWh:    0.82,
		CO2PerTreeYear:   20,
		CapacityKWPerSqm: 0.2,
	}
}

// Estimate is the derived solar potential for a traced or detected area.
type Estimate struct {
	AreaSqm              float64 `json:"area_sqm"`
	PanelCount           int     `json:"panel_count"`
	CapacityKW           float64 `json:"capacity_kw"`
	MonthlyGenerationKWh float64 `json:"monthly_generation_kwh"`
	MonthlySavingsINR    float64 `json:"monthly_savings_inr"`
	CO2ReductionKgYear   float64 `json:"co2_reduction_kg_year"`
	TreesSaved           int     `json:"trees_saved"`
}

// Estimator derives solar estimates from an area using fixed assumptions.
type Estimator struct {
	a Assumptions
}

// NewEstimator returns an estimator over the given assumptions.
func NewEstimator(a Assumptions) *Estimator {
	return &Estimator{a: a}
}

// Assumptions returns the constants the estimator was built with.
func (e *Estimator) Assumptions() Assumptions {
	return e.a
}

// FromArea derives the full estimate from a horizontal area in square
// meters. Zero or negative area yields the zero estimate.
func (e *Estimator) FromArea(areaSqm float64) Estimate {
	if areaSqm <= 0 {
		return Estimate{}
	}

	usable := areaSqm * e.a.UsableAreaRatio
	panelCount := int(math.Floor(usable / e.a.PanelAreaSqm))
	capacityKW := float64(panelCount) * e.a.PanelCapacityKW
	monthlyGen := capacityKW * e.a.DailyYieldPerKW * 30
	monthlySavings := monthlyGen * e.a.TariffPerKWh
	co2Year := monthlyGen * 12 * e.a.GridCO2PerKWh
	trees := int(math.Round(co2Year / e.a.CO2PerTreeYear))

	return Estimate{
		AreaSqm:              areaSqm,
		PanelCount:           panelCount,
		CapacityKW:           capacityKW,
		MonthlyGenerationKWh: monthlyGen,
		MonthlySavingsINR:    monthlySavings,
		CO2ReductionKgYear:   co2Year,
		TreesSaved:           trees,
	}
}

// FromPoints derives the estimate from an AR-traced polygon.
func (e *Estimator) FromPoints(points []Point3) Estimate {
	return e.FromArea(PlanarArea(points))
}

// CapacityFromPVArea applies the scheme's flat capacity policy to a detected
// PV module area.
func (e *Estimator) CapacityFromPVArea(pvAreaSqm float64) float64 {
	if pvAreaSqm <= 0 {
		return 0
	}
	return pvAreaSqm * e.a.CapacityKWPerSqm
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatSavings renders a rupee amount with Indian digit grouping.
func FormatSavings(amount float64) string {
	return inrPrinter.Sprintf("₹%.0f", amount)
}

// AssumptionFooter is the disclosure line shown next to every estimate.
func (e *Estimator) AssumptionFooter() string {
	return fmt.Sprintf("Assumes %.1f kW per m² of PV area, %.1f kWh/kW/day yield, ₹%.0f/kWh tariff.",
		e.a.CapacityKWPerSqm, e.a.DailyYieldPerKW, e.a.TariffPerKWh)
}
