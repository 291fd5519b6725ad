package nutrition

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	highConfidenceScore   = 0.6
	mediumConfidenceScore = 0.35
)

// Tokenize splits s on anything that is not a letter or digit and returns the
// distinct lowercase tokens.
func Tokenize(s string) map[string]struct{} {
	s = strings.ToLower(norm.NFKC.String(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return tokens
}

// Similarity is the Jaccard index of the token sets of a and b. It is 0 when
// either side has no tokens.
func Similarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

// ConfidenceFor grades a similarity score.
func ConfidenceFor(score float64) Confidence {
	switch {
	case score > highConfidenceScore:
		return ConfidenceHigh
	case score > mediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// bestMatch returns the food whose description is most similar to name.
// The earliest food wins ties. foods must not be empty.
func bestMatch(name string, foods []Food) (Food, float64) {
	best, bestScore := foods[0], Similarity(name, foods[0].Description)
	for _, f := range foods[1:] {
		if score := Similarity(name, f.Description); score > bestScore {
			best, bestScore = f, score
		}
	}
	return best, bestScore
}
