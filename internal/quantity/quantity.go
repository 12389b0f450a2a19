// Package quantity parses free-text ingredient amounts ("1 1/2 EL", "2,5 kg",
// "etwas Salz"), sums them across planned meals and renders the result with
// vulgar-fraction glyphs. Every function is total: malformed input degrades to
// a zero value that keeps the original text as its unit.
package quantity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Quantity is a parsed amount. Value 0 means the amount had no numeric part,
// in which case Unit carries the original text.
type Quantity struct {
	Value float64
	Unit  string
}

// IngredientLine is one raw ingredient of a recipe.
type IngredientLine struct {
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
}

// ScaledIngredientLine is an ingredient whose amount has been rescaled.
type ScaledIngredientLine struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// NormalizeName returns the aggregation key for an ingredient or unit name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayName upper-cases only the first rune of s.
func DisplayName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
