package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/usifszone1/bills/dto"
)

const (
	currencyToken = `(?:EGP|L\.?E\.?|ج\.م|جنيه)`
	amountValue   = currencyToken + `?[ \t]*(\d[\d,]*(?:\.\d+)?)`
)

var (
	coveragePattern = regexp.MustCompile(`(?i)(?:نسبة التغطية|تغطية|coverage percentage|Coverage|Insurance|Co-payment)` + labelSeparator + `(\d+)(?:\.\d+)?[ \t]*[%٪]?`)

	grossPattern    = regexp.MustCompile(`(?i)(?:Gross Amount|Gross Total|Gross|Total Amount|إجمالي المبلغ|المبلغ الإجمالي|الإجمالي|الاجمالي)` + labelSeparator + amountValue)
	discountPattern = regexp.MustCompile(`(?i)(?:Discount Amount|Discount|Coverage Amount|قيمة الخصم|الخصم)` + labelSeparator + amountValue)
	netPattern      = regexp.MustCompile(`(?i)(?:Net Amount|Net Total|\bNet|صافي المبلغ|المبلغ المستحق|الصافي)` + labelSeparator + amountValue)
)

// ExtractCoveragePercentage returns the insurer coverage percentage stated in
// text, or 0 when no coverage label carries a value between 0 and 100.
func ExtractCoveragePercentage(text string) int {
	for _, m := range coveragePattern.FindAllStringSubmatch(text, -1) {
		pct, err := strconv.Atoi(m[1])
		if err != nil || pct > 100 {
			continue
		}
		return pct
	}
	return 0
}

// ExtractGrossAmount returns the document-stated gross amount, 0 if absent.
func ExtractGrossAmount(text string) float64 {
	return extractAmount(grossPattern, text)
}

// ExtractDiscountAmount returns the document-stated discount (coverage)
// amount, 0 if absent.
func ExtractDiscountAmount(text string) float64 {
	return extractAmount(discountPattern, text)
}

// ExtractNetAmount returns the document-stated amount due, 0 if absent.
func ExtractNetAmount(text string) float64 {
	return extractAmount(netPattern, text)
}

// ExtractAmountOverrides collects the gross, discount and net figures.
func ExtractAmountOverrides(text string) dto.AmountOverrides {
	return dto.AmountOverrides{
		Gross:    ExtractGrossAmount(text),
		Discount: ExtractDiscountAmount(text),
		Net:      ExtractNetAmount(text),
	}
}

// extractAmount returns the first labelled value that parses. Thousands
// separators are dropped.
func extractAmount(re *regexp.Regexp, text string) float64 {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err == nil {
			return amount
		}
	}
	return 0
}
