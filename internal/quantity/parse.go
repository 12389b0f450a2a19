package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fractionPattern = regexp.MustCompile(`(?s)^(?:(\d+)\s+)?(\d+)/(\d+)\s*(.*)$`)
	glyphPattern    = regexp.MustCompile(`(?s)^(\d+)?\s*([½¼¾⅓⅔])\s*(.*)$`)
	decimalPattern  = regexp.MustCompile(`(?s)^(\d[\d.,]*)\s*(.*)$`)
)

var glyphValues = map[string]float64{
	"½": 1.0 / 2,
	"¼": 1.0 / 4,
	"¾": 3.0 / 4,
	"⅓": 1.0 / 3,
	"⅔": 2.0 / 3,
}

// Parse converts a free-text amount into a Quantity. The first matching form
// wins: mixed number or fraction ("1 1/2 EL", "1/2 TL"), vulgar glyph
// ("1½ EL"), decimal with '.' or ',' ("2,5 kg"). Anything else becomes
// {0, amount}.
func Parse(amount string) Quantity {
	s := strings.TrimSpace(amount)
	if s == "" {
		return Quantity{}
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		whole := atoiOr(m[1], 0)
		num := atoiOr(m[2], 0)
		den := atoiOr(m[3], 1)
		if den == 0 {
			den = 1
		}
		return Quantity{
			Value: float64(whole) + float64(num)/float64(den),
			Unit:  strings.TrimSpace(m[4]),
		}
	}

	if m := glyphPattern.FindStringSubmatch(s); m != nil {
		return Quantity{
			Value: float64(atoiOr(m[1], 0)) + glyphValues[m[2]],
			Unit:  strings.TrimSpace(m[3]),
		}
	}

	if m := decimalPattern.FindStringSubmatch(s); m != nil {
		return Quantity{
			Value: parseDecimal(m[1]),
			Unit:  strings.TrimSpace(m[2]),
		}
	}

	return Quantity{Unit: amount}
}

// parseDecimal accepts ',' as decimal separator and returns 0 for anything
// strconv rejects ("1.000,5").
func parseDecimal(lit string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(lit, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
