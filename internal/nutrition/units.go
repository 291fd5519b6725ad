package nutrition

import "strings"

// gramsPerUnit maps mass unit spellings to their weight in grams.
var gramsPerUnit = map[string]float64{
	"g":     1,
	"gram":  1,
	"grams": 1,

	"kg":        1000,
	"kilogram":  1000,
	"kilograms": 1000,

	"mg":         0.001,
	"milligram":  0.001,
	"milligrams": 0.001,

	"oz":     28.3495,
	"ounce":  28.3495,
	"ounces": 28.3495,

	"lb":     453.592,
	"lbs":    453.592,
	"pound":  453.592,
	"pounds": 453.592,
}

// ToGrams converts quantity in unit to grams. Units are matched
// case-insensitively; unrecognised units (cups, pieces, ...) are treated as
// grams and the quantity is returned unchanged.
func ToGrams(quantity float64, unit string) float64 {
	factor, ok := gramsPerUnit[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return quantity
	}
	return quantity * factor
}
