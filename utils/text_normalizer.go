package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// layoutReplacer drops bidi controls and tatweel that PDF text layers leave
// inside Arabic runs, and unifies line endings.
var layoutReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u200e", "", "\u200f", "",
	"\u202a", "", "\u202b", "", "\u202c", "", "\u202d", "", "\u202e", "",
	"\u2066", "", "\u2067", "", "\u2068", "", "\u2069", "",
	"\u061c", "",
	"\ufeff", "",
	"\u0640", "",
)

var digitReplacer = strings.NewReplacer(
	"\u0660", "0", "\u0661", "1", "\u0662", "2", "\u0663", "3", "\u0664", "4",
	"\u0665", "5", "\u0666", "6", "\u0667", "7", "\u0668", "8", "\u0669", "9",
	"\u06f0", "0", "\u06f1", "1", "\u06f2", "2", "\u06f3", "3", "\u06f4", "4",
	"\u06f5", "5", "\u06f6", "6", "\u06f7", "7", "\u06f8", "8", "\u06f9", "9",
	"\u066b", ".", "\u066c", ",",
)

// NormalizeText prepares raw document text for the extractors: NFKC folds
// Arabic presentation forms and full-width characters, bidi marks are removed
// and Arabic-Indic digits become ASCII. Applying it twice is a no-op.
func NormalizeText(text string) string {
	if text == "" {
		return text
	}
	text = norm.NFKC.String(text)
	text = layoutReplacer.Replace(text)
	return digitReplacer.Replace(text)
}
