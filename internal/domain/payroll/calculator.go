package payroll

import (
	"math"

	"github.com/shopspring/decimal"
)

// TrainerAmounts is the computed pay breakdown for a trainer sheet.
type TrainerAmounts struct {
	TutoringHours decimal.Decimal
	GroupHours    decimal.Decimal
	TotalHours    decimal.Decimal
	GrossAmount   decimal.Decimal
	NetAmount     decimal.Decimal
}

// CoordinatorAmounts is the computed pay breakdown for a coordination sheet.
// Coordination pay is a flat fee, not hour based.
type CoordinatorAmounts struct {
	GrossAmount decimal.Decimal
	NetAmount   decimal.Decimal
}

// ClampHours normalizes a reported hour figure. Nil, NaN, infinite and
// negative inputs all collapse to zero so a malformed sheet can never
// produce a negative payout.
func ClampHours(hours *float64) decimal.Decimal {
	if hours == nil {
		return decimal.Zero
	}
	v := *hours
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// ComputeTrainerAmounts derives the pay for a trainer sheet from its reported
// tutoring and group hours. Gross pay is total hours times the hourly rate,
// net pay adds the configured percentage markup on top of gross.
func ComputeTrainerAmounts(tutoringHours, groupHours *float64, params Parameters) TrainerAmounts {
	tutoring := ClampHours(tutoringHours)
	group := ClampHours(groupHours)
	total := tutoring.Add(group)

	gross := total.Mul(params.HourlyTrainerRate)
	net := applyMarkup(gross, params.TaxPercent)

	return TrainerAmounts{
		TutoringHours: tutoring,
		GroupHours:    group,
		TotalHours:    total,
		GrossAmount:   gross,
		NetAmount:     net,
	}
}

// ComputeCoordinatorAmounts derives the pay for a coordination sheet. The
// gross amount is the fixed coordination fee regardless of session length.
func ComputeCoordinatorAmounts(params Parameters) CoordinatorAmounts {
	gross := params.FixedCoordinationFee
	return CoordinatorAmounts{
		GrossAmount: gross,
		NetAmount:   applyMarkup(gross, params.TaxPercent),
	}
}

// applyMarkup returns gross plus gross*percent/100. The percentage is an
// additive markup on top of gross, not a deduction.
func applyMarkup(gross, percent decimal.Decimal) decimal.Decimal {
	return gross.Add(gross.Mul(percent).Div(decimal.NewFromInt(100)))
}
