package quantity

import "regexp"

// numberToken matches numbers embedded anywhere in an amount: mixed numbers
// and fractions, glyphs with an optional whole part, then plain decimals.
var numberToken = regexp.MustCompile(`(?:\d+\s+)?\d+/\d+|(?:\d+\s*)?[½¼¾⅓⅔]|\d+(?:[.,]\d+)?`)

// ScaleAmount multiplies every number in amount by factor and leaves the
// surrounding text alone ("2-3 Zwiebeln" × 2 → "4-6 Zwiebeln"). A factor of
// exactly 1 returns amount unchanged.
func ScaleAmount(amount string, factor float64) string {
	if factor == 1 {
		return amount
	}
	return numberToken.ReplaceAllStringFunc(amount, func(tok string) string {
		v := Parse(tok).Value * factor
		if v == 0 {
			return "0"
		}
		return scaleFormat.number(v)
	})
}

// ScaleIngredients rescales a recipe's ingredient list by
// factor = currentServings / originalServings.
func ScaleIngredients(lines []IngredientLine, factor float64) []ScaledIngredientLine {
	out := make([]ScaledIngredientLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ScaledIngredientLine{
			Name:   line.Name,
			Amount: ScaleAmount(line.Amount, factor),
		})
	}
	return out
}

// Factor returns current/original servings, treating a non-positive original
// as 1.
func Factor(current, original int) float64 {
	return float64(current) / float64(max(original, 1))
}
