package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "", NormalizeText(""))
	assert.Equal(t, "3/علبة 12.50", NormalizeText("\u0663/علبة \u0661\u0662\u066b\u0665\u0660"))
	assert.Equal(t, "15", NormalizeText("\u06f1\u06f5"))
	assert.Equal(t, "ab\nc\nd", NormalizeText("a\u200fb\r\nc\rd"))
	assert.Equal(t, "محمد", NormalizeText("م\u0640حمد"))
	assert.Equal(t, "\u0644\u0627", NormalizeText("\ufefb"))
	assert.Equal(t, "12 x", NormalizeText("\uff11\uff12 x"))
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"Beneficiary Name: \u202bأحمد علي\u202c\r\nCoverage: \u0668\u0660\u066a",
		"3/STRIPS Amoxicillin 250mg 12.50",
		"\ufeff\ufefb\u0640",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
	}
}
