package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/usifszone1/bills/dto"
)

// Strategy names, in cascade order.
const (
	StrategyTableWithCopay = "table_with_copay"
	StrategySlashUnit      = "slash_quantity_unit"
	StrategySpacedUnit     = "spaced_quantity_unit"
	StrategyFreeText       = "free_text"
	StrategyNumericLine    = "numeric_line"
)

// MedicationStrategy is one structural hypothesis about how medication lines
// are laid out. Extract may return partial results together with an error
// describing the matches it had to skip.
type MedicationStrategy struct {
	Name    string
	Extract func(text string) ([]dto.Medication, error)
}

// lineEnd allows a trailing currency token after the last number of a row.
const lineEnd = `(?:[ \t]+(?i:` + currencyToken + `))?[ \t]*$`

var (
	// qty/unit  icd  name  unitPrice  discount  copay  net
	tableRowPattern = regexp.MustCompile(`(?m)(\d[\d.]*/[A-Za-z]+)[ \t]+[^\s|]+[ \t]+([^|\n]+?)[ \t]+(\d[\d.]*)[ \t]+\d[\d.]*[ \t]+\d[\d.]*[ \t]+(\d[\d.]*)` + lineEnd)

	// qty/unit  name  price  [lineTotal]
	slashUnitPattern = regexp.MustCompile(`(?m)(\d[\d.]*)/(\p{L}[\p{L}\w]*)[ \t]+(.+?)[ \t]+(\d[\d.]*)(?:[ \t]+(\d[\d.]*))?` + lineEnd)

	// qty unit  name  price  [lineTotal]
	spacedUnitPattern = regexp.MustCompile(`(?im)(?:^|[ \t])(\d[\d.]*)[ \t]+((?:tab|strip|box|vial|amp|bottle|syringe)[a-z]*|علبة|علب|شريط|شرائط|حبة|قرص|اقراص|أقراص|فيال|امبول|حقنة|زجاجة)[ \t]+(.+?)[ \t]+(\d[\d.]*)(?:[ \t]+(\d[\d.]*))?` + lineEnd)

	freeTextPattern = regexp.MustCompile(`(?i)([a-z\x{0600}-\x{06FF}][\w\x{0600}-\x{06FF} .]*?)[ \t]*[-–:]?[ \t]*(\d+)[ \t]*[x×*][ \t]*(\d[\d.]*)`)

	numberToken     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	leadingUnitWord = regexp.MustCompile(`(?i)^(tablets?|tabs?|strips?|boxes|box|vials?|ampoules?|amps?|bottles?|syringes?|capsules?|caps?)\b`)
	dateToken       = regexp.MustCompile(`\d{1,4}[-/]\d{1,2}[-/]\d{1,4}`)
	hasLetter       = regexp.MustCompile(`\p{L}`)
)

// MedicationStrategies returns the extraction strategies in priority order.
func MedicationStrategies() []MedicationStrategy {
	return []MedicationStrategy{
		{Name: StrategyTableWithCopay, Extract: ExtractTableWithCopay},
		{Name: StrategySlashUnit, Extract: ExtractSlashQuantityUnit},
		{Name: StrategySpacedUnit, Extract: ExtractSpacedQuantityUnit},
		{Name: StrategyFreeText, Extract: ExtractFreeTextLines},
		{Name: StrategyNumericLine, Extract: ExtractNumericLines},
	}
}

// ExtractMedications runs the default cascade and returns the first non-empty
// result, or an empty slice.
func ExtractMedications(text string) []dto.Medication {
	meds, _ := RunMedicationCascade(text, MedicationStrategies(), nil)
	return meds
}

// RunMedicationCascade tries strategies in order and stops at the first one
// that yields at least one medication. It returns the medications and the
// winning strategy name ("" when none matched). observe, when set, receives
// every strategy error, including recovered panics.
func RunMedicationCascade(text string, strategies []MedicationStrategy, observe func(strategy string, err error)) ([]dto.Medication, string) {
	for _, s := range strategies {
		meds, err := runStrategy(s, text)
		if err != nil && observe != nil {
			observe(s.Name, err)
		}
		if len(meds) > 0 {
			return meds, s.Name
		}
	}
	return []dto.Medication{}, ""
}

func runStrategy(s MedicationStrategy, text string) (meds []dto.Medication, err error) {
	defer func() {
		if r := recover(); r != nil {
			meds = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.Name, r)
		}
	}()
	return s.Extract(text)
}

// ExtractTableWithCopay reads 7-column claim tables
// (Qty | ICD | Name | Unit | Discount | Copay | Net) and keeps the stated net.
func ExtractTableWithCopay(text string) ([]dto.Medication, error) {
	var meds []dto.Medication
	var errs []error

	for _, m := range tableRowPattern.FindAllStringSubmatch(text, -1) {
		price, err := parseNumber(m[3])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		net, err := parseNumber(m[4])
		if err != nil {
			errs = append(errs, err)
			continue
		}

		quantity, unit := ParseQuantityAndUnit(m[1])
		meds = append(meds, dto.Medication{
			Name:     strings.TrimSpace(m[2]),
			Quantity: quantity,
			Unit:     unit,
			Price:    price,
			Total:    quantity * price,
			Net:      &net,
		})
	}

	return meds, errors.Join(errs...)
}

// ExtractSlashQuantityUnit reads lines like "3/STRIPS Amoxicillin 250mg 12.50".
func ExtractSlashQuantityUnit(text string) ([]dto.Medication, error) {
	return extractQuantityUnitLines(slashUnitPattern, text)
}

// ExtractSpacedQuantityUnit reads lines like "2 boxes Panadol Extra 35".
// Only known unit words are accepted in the second column.
func ExtractSpacedQuantityUnit(text string) ([]dto.Medication, error) {
	return extractQuantityUnitLines(spacedUnitPattern, text)
}

// extractQuantityUnitLines expects groups quantity, unit, name, price and an
// optional second trailing number. That number is read as a line-total column
// when it equals quantity * price; otherwise it is the price and the number
// before it belongs to the name.
func extractQuantityUnitLines(re *regexp.Regexp, text string) ([]dto.Medication, error) {
	var meds []dto.Medication
	var errs []error

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		quantity, err := parseNumber(m[1])
		if err != nil {
			errs = append(errs, err)
			continue
		}

		name, priceText := strings.TrimSpace(m[3]), m[4]
		if m[5] != "" && !isLineTotal(quantity, m[4], m[5]) {
			name, priceText = name+" "+m[4], m[5]
		}

		price, err := parseNumber(priceText)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		meds = append(meds, dto.Medication{
			Name:     name,
			Quantity: quantity,
			Unit:     StandardizeUnit(m[2]),
			Price:    price,
			Total:    quantity * price,
		})
	}

	return meds, errors.Join(errs...)
}

// ExtractFreeTextLines reads "Name - 2 x 15.5" style entries. The unit is
// always TAB.
func ExtractFreeTextLines(text string) ([]dto.Medication, error) {
	var meds []dto.Medication
	var errs []error

	for _, m := range freeTextPattern.FindAllStringSubmatch(text, -1) {
		name := strings.Trim(m[1], " \t.-–:")
		if name == "" {
			continue
		}
		quantity, err := strconv.Atoi(m[2])
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid quantity %q: %w", m[2], err))
			continue
		}
		price, err := parseNumber(m[3])
		if err != nil {
			errs = append(errs, err)
			continue
		}

		meds = append(meds, dto.Medication{
			Name:     name,
			Quantity: float64(quantity),
			Unit:     dto.UnitTab,
			Price:    price,
			Total:    float64(quantity) * price,
		})
	}

	return meds, errors.Join(errs...)
}

// ExtractNumericLines is the last resort: on any line with three or more
// numbers the first is the quantity, the second the price and the text
// between them the name. Lines carrying a date are ignored.
func ExtractNumericLines(text string) ([]dto.Medication, error) {
	var meds []dto.Medication

	for _, line := range strings.Split(text, "\n") {
		if dateToken.MatchString(line) {
			continue
		}
		locs := numberToken.FindAllStringIndex(line, -1)
		if len(locs) < 3 {
			continue
		}

		quantity, _ := strconv.ParseFloat(line[locs[0][0]:locs[0][1]], 64)
		price, _ := strconv.ParseFloat(line[locs[1][0]:locs[1][1]], 64)
		if quantity == 0 || price == 0 {
			continue
		}

		name := strings.TrimSpace(line[locs[0][1]:locs[1][0]])
		unit := dto.UnitGeneric
		if u := leadingUnitWord.FindString(name); u != "" {
			unit = StandardizeUnit(u)
			name = strings.TrimSpace(name[len(u):])
		}
		name = strings.Trim(name, " \t|-:,")
		if name == "" {
			name = strings.Trim(line[:locs[0][0]], " \t|-:,")
		}
		if !hasLetter.MatchString(name) {
			continue
		}

		meds = append(meds, dto.Medication{
			Name:     name,
			Quantity: quantity,
			Unit:     unit,
			Price:    price,
			Total:    quantity * price,
		})
	}

	return meds, nil
}

func isLineTotal(quantity float64, priceText, totalText string) bool {
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		return false
	}
	total, err := strconv.ParseFloat(totalText, 64)
	if err != nil {
		return false
	}
	return RoundMoney(quantity*price) == RoundMoney(total)
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}
