package utils

import "github.com/usifszone1/bills/dto"

// DefaultSurchargeRate is added to the medication subtotal before coverage.
const DefaultSurchargeRate = 0.07

// CalculateReceiptSummary derives the summary with the default surcharge.
func CalculateReceiptSummary(meds []dto.Medication, coveragePercentage int, overrides dto.AmountOverrides) dto.ReceiptSummary {
	return CalculateReceiptSummaryWithRate(meds, coveragePercentage, overrides, DefaultSurchargeRate)
}

// CalculateReceiptSummaryWithRate derives the summary from the medication
// totals. Positive overrides replace the computed subtotal, coverage amount
// and final total respectively. Values are not rounded here.
func CalculateReceiptSummaryWithRate(meds []dto.Medication, coveragePercentage int, overrides dto.AmountOverrides, surchargeRate float64) dto.ReceiptSummary {
	var raw float64
	for _, m := range meds {
		raw += m.Total
	}

	subtotal := raw * (1 + surchargeRate)
	if overrides.Gross > 0 {
		subtotal = overrides.Gross
	}

	coverageAmount := subtotal * float64(coveragePercentage) / 100
	if overrides.Discount > 0 {
		coverageAmount = overrides.Discount
	}

	finalTotal := subtotal - coverageAmount
	if overrides.Net > 0 {
		finalTotal = overrides.Net
	}

	return dto.ReceiptSummary{
		Subtotal:           subtotal,
		CoveragePercentage: coveragePercentage,
		CoverageAmount:     coverageAmount,
		FinalTotal:         finalTotal,
	}
}
