package payroll

import (
	"math"

	"github.com/shopspring/decimal"
)

// Parameters are the configurable monetary constants of the payroll engine.
// They are resolved per call and passed explicitly into every calculator
// and upsert; the engine never reads them from ambient state.
type Parameters struct {
	HourlyTrainerRate    decimal.Decimal `json:"hourly_trainer_rate"`
	FixedCoordinationFee decimal.Decimal `json:"fixed_coordination_fee"`
	TaxPercent           decimal.Decimal `json:"tax_percent"`
}

// DefaultParameters returns the built-in constants used when nothing is
// configured: 30 per training hour, 300 flat coordination fee, 15% markup.
func DefaultParameters() Parameters {
	return Parameters{
		HourlyTrainerRate:    decimal.NewFromInt(30),
		FixedCoordinationFee: decimal.NewFromInt(300),
		TaxPercent:           decimal.NewFromInt(15),
	}
}

// NewParameters builds Parameters from raw values, clamping each to be
// non-negative.
func NewParameters(hourlyTrainerRate, fixedCoordinationFee, taxPercent float64) Parameters {
	return Parameters{
		HourlyTrainerRate:    clampAmount(hourlyTrainerRate),
		FixedCoordinationFee: clampAmount(fixedCoordinationFee),
		TaxPercent:           clampAmount(taxPercent),
	}
}

func clampAmount(value float64) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero
	}
	d := decimal.NewFromFloat(value)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParameterSource supplies the current Parameters for one operation.
type ParameterSource interface {
	Resolve() Parameters
}

// StaticSource is a ParameterSource backed by a fixed set of Parameters,
// typically built from configuration at startup.
type StaticSource struct {
	params Parameters
}

func NewStaticSource(params Parameters) *StaticSource {
	return &StaticSource{params: params}
}

func (s *StaticSource) Resolve() Parameters {
	return s.params
}
