package utils

import (
	"github.com/shopspring/decimal"

	"github.com/usifszone1/bills/dto"
)

// RoundMoney rounds v half away from zero to two decimal places.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatMoney renders v with exactly two decimal places.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// RoundReceipt returns a copy of r with every monetary value rounded for
// display. The receipt passed in is left untouched.
func RoundReceipt(r dto.ReceiptData) dto.ReceiptData {
	meds := make([]dto.Medication, len(r.Medications))
	for i, m := range r.Medications {
		m.Price = RoundMoney(m.Price)
		m.Total = RoundMoney(m.Total)
		if m.Net != nil {
			net := RoundMoney(*m.Net)
			m.Net = &net
		}
		meds[i] = m
	}
	r.Medications = meds

	r.Summary.Subtotal = RoundMoney(r.Summary.Subtotal)
	r.Summary.CoverageAmount = RoundMoney(r.Summary.CoverageAmount)
	r.Summary.FinalTotal = RoundMoney(r.Summary.FinalTotal)
	return r
}
