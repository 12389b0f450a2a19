package quantity

import (
	"math"
	"strconv"
	"strings"
)

type fraction struct {
	value     float64
	glyph     string
	tolerance float64
}

// formatter renders numbers preferring common fractions over decimals.
// Fractions are tried in slice order.
type formatter struct {
	wholeTolerance float64
	fractions      []fraction
	decimals       int
	// trimZeros strips every trailing zero after the comma; otherwise only a
	// lone ",0" is collapsed.
	trimZeros bool
}

// aggregateFormat is used for summed shopping-list amounts.
var aggregateFormat = formatter{
	wholeTolerance: 0.01,
	fractions: []fraction{
		{value: 1.0 / 2, glyph: "½", tolerance: 0.05},
		{value: 1.0 / 4, glyph: "¼", tolerance: 0.05},
		{value: 3.0 / 4, glyph: "¾", tolerance: 0.05},
		{value: 1.0 / 3, glyph: "⅓", tolerance: 0.03},
		{value: 2.0 / 3, glyph: "⅔", tolerance: 0.03},
	},
	decimals: 1,
}

// scaleFormat is used when rescaling a single recipe. Inputs are clean recipe
// amounts, so the bands are tighter than aggregateFormat's.
var scaleFormat = formatter{
	wholeTolerance: 0.01,
	fractions: []fraction{
		{value: 1.0 / 2, glyph: "½", tolerance: 0.02},
		{value: 1.0 / 4, glyph: "¼", tolerance: 0.02},
		{value: 3.0 / 4, glyph: "¾", tolerance: 0.02},
		{value: 1.0 / 3, glyph: "⅓", tolerance: 0.02},
		{value: 2.0 / 3, glyph: "⅔", tolerance: 0.02},
	},
	decimals:  2,
	trimZeros: true,
}

func (f formatter) number(v float64) string {
	rounded := math.Round(v)
	if math.Abs(v-rounded) < f.wholeTolerance {
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}

	whole := math.Floor(v)
	rest := v - whole
	for _, fr := range f.fractions {
		if math.Abs(rest-fr.value) < fr.tolerance {
			if whole > 0 {
				return strconv.FormatFloat(whole, 'f', 0, 64) + fr.glyph
			}
			return fr.glyph
		}
	}
	return f.decimal(v)
}

func (f formatter) decimal(v float64) string {
	s := strings.Replace(strconv.FormatFloat(v, 'f', f.decimals, 64), ".", ",", 1)
	if !f.trimZeros {
		return strings.TrimSuffix(s, ",0")
	}
	if strings.Contains(s, ",") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ",")
	}
	return s
}

// FormatNumber renders an aggregated value: "" for 0, integers without
// decimals, ½ ¼ ¾ ⅓ ⅔ glued to the whole part ("2½"), otherwise one decimal
// with a comma ("1,8").
func FormatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return aggregateFormat.number(v)
}

// FormatUnitGroup renders one unit subtotal ("200 g"). Non-positive values
// show the unit text alone so placeholder entries like "etwas" survive.
func FormatUnitGroup(unit string, v float64) string {
	if v > 0 {
		return strings.TrimSpace(FormatNumber(v) + " " + unit)
	}
	return unit
}
