package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usifszone1/bills/dto"
)

func threeMedications() []dto.Medication {
	return []dto.Medication{
		{Name: "Amoxicillin 250mg", Quantity: 2, Unit: dto.UnitStrip, Price: 15, Total: 30},
		{Name: "Panadol Extra", Quantity: 1, Unit: dto.UnitBox, Price: 50, Total: 50},
		{Name: "Vitamin C", Quantity: 4, Unit: dto.UnitTab, Price: 5, Total: 20},
	}
}

func TestCalculateReceiptSummaryEmpty(t *testing.T) {
	summary := CalculateReceiptSummary(nil, 0, dto.AmountOverrides{})

	assert.Equal(t, dto.ReceiptSummary{}, summary)
}

func TestCalculateReceiptSummaryWithCoverage(t *testing.T) {
	summary := CalculateReceiptSummary(threeMedications(), 80, dto.AmountOverrides{})

	assert.Equal(t, 80, summary.CoveragePercentage)
	assert.InDelta(t, 107.00, summary.Subtotal, 1e-9)
	assert.InDelta(t, 85.60, summary.CoverageAmount, 1e-9)
	assert.InDelta(t, 21.40, summary.FinalTotal, 1e-9)
}

func TestCalculateReceiptSummaryWithoutSurcharge(t *testing.T) {
	summary := CalculateReceiptSummaryWithRate(threeMedications(), 50, dto.AmountOverrides{}, 0)

	assert.InDelta(t, 100.0, summary.Subtotal, 1e-9)
	assert.InDelta(t, 50.0, summary.CoverageAmount, 1e-9)
	assert.InDelta(t, 50.0, summary.FinalTotal, 1e-9)
}

func TestCalculateReceiptSummaryOverrides(t *testing.T) {
	t.Run("net", func(t *testing.T) {
		summary := CalculateReceiptSummary(threeMedications(), 80, dto.AmountOverrides{Net: 45})

		assert.InDelta(t, 107.00, summary.Subtotal, 1e-9)
		assert.Equal(t, 45.0, summary.FinalTotal)
	})

	t.Run("gross", func(t *testing.T) {
		summary := CalculateReceiptSummary(threeMedications(), 50, dto.AmountOverrides{Gross: 200})

		assert.Equal(t, 200.0, summary.Subtotal)
		assert.Equal(t, 100.0, summary.CoverageAmount)
		assert.Equal(t, 100.0, summary.FinalTotal)
	})

	t.Run("discount", func(t *testing.T) {
		summary := CalculateReceiptSummary(threeMedications(), 80, dto.AmountOverrides{Discount: 7})

		assert.Equal(t, 7.0, summary.CoverageAmount)
		assert.InDelta(t, 100.0, summary.FinalTotal, 1e-9)
	})
}

func TestCalculateReceiptSummaryIgnoresStatedNet(t *testing.T) {
	net := 1.0
	meds := []dto.Medication{{Name: "Ventolin", Quantity: 1, Unit: dto.UnitBox, Price: 100, Total: 100, Net: &net}}

	summary := CalculateReceiptSummaryWithRate(meds, 0, dto.AmountOverrides{}, 0)

	assert.Equal(t, 100.0, summary.Subtotal)
	assert.Equal(t, 100.0, summary.FinalTotal)
}
