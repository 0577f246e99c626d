package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/usifszone1/bills/dto"
)

var unitAliases = map[string]string{
	"tab":      dto.UnitTab,
	"tabs":     dto.UnitTab,
	"tablet":   dto.UnitTab,
	"tablets":  dto.UnitTab,
	"حبة":      dto.UnitTab,
	"اقراص":    dto.UnitTab,
	"أقراص":    dto.UnitTab,
	"قرص":      dto.UnitTab,
	"box":      dto.UnitBox,
	"boxes":    dto.UnitBox,
	"علبة":     dto.UnitBox,
	"علب":      dto.UnitBox,
	"strip":    dto.UnitStrip,
	"strips":   dto.UnitStrip,
	"شريط":     dto.UnitStrip,
	"شرائط":    dto.UnitStrip,
	"vial":     dto.UnitVial,
	"vials":    dto.UnitVial,
	"فيال":     dto.UnitVial,
	"amp":      dto.UnitAmp,
	"amps":     dto.UnitAmp,
	"ampule":   dto.UnitAmp,
	"ampules":  dto.UnitAmp,
	"ampoule":  dto.UnitAmp,
	"ampoules": dto.UnitAmp,
	"امبول":    dto.UnitAmp,
	"syringe":  dto.UnitSyringe,
	"syringes": dto.UnitSyringe,
	"حقنة":     dto.UnitSyringe,
	"bottle":   dto.UnitBottle,
	"bottles":  dto.UnitBottle,
	"زجاجة":    dto.UnitBottle,
	"cap":      dto.UnitCap,
	"caps":     dto.UnitCap,
	"capsule":  dto.UnitCap,
	"capsules": dto.UnitCap,
	"كبسولة":   dto.UnitCap,
	"cream":    dto.UnitCream,
	"كريم":     dto.UnitCream,
}

var (
	slashQuantityPattern  = regexp.MustCompile(`^\s*([\d.]+)\s*/\s*([\p{L}\d_]+)\s*$`)
	simpleQuantityPattern = regexp.MustCompile(`^\s*([\d.]+)\s*([\p{L}\d_]+)?\s*$`)
)

// StandardizeUnit maps an English or Arabic unit token to its canonical form.
// Unknown tokens are returned upper-cased.
func StandardizeUnit(unit string) string {
	trimmed := strings.TrimSpace(unit)
	if canonical, ok := unitAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return strings.ToUpper(trimmed)
}

// ParseQuantityAndUnit splits tokens like "1.0/Box", "3 strips" or "2".
// A token that cannot be read falls back to quantity 1 and unit UNIT; a
// malformed number next to a readable unit keeps the unit and falls back to 1.
func ParseQuantityAndUnit(token string) (float64, string) {
	if m := slashQuantityPattern.FindStringSubmatch(token); m != nil {
		return parseQuantity(m[1]), StandardizeUnit(m[2])
	}

	if m := simpleQuantityPattern.FindStringSubmatch(token); m != nil {
		unit := dto.UnitGeneric
		if m[2] != "" {
			unit = StandardizeUnit(m[2])
		}
		return parseQuantity(m[1]), unit
	}

	return 1, dto.UnitGeneric
}

func parseQuantity(s string) float64 {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 {
		return 1
	}
	return q
}
