package validate

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// SuggestCategory returns the known category closest to input when the
// two are at least half similar by edit distance, for "did you mean"
// prompts. Exact matches (any case) win outright.
func SuggestCategory(input string, known []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" || len(known) == 0 {
		return "", false
	}

	best := ""
	bestScore := 0.0
	for _, cand := range known {
		if strings.EqualFold(cand, input) {
			return cand, true
		}
		score := similarity(strings.ToLower(input), strings.ToLower(cand))
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore >= 0.5 {
		return best, true
	}
	return "", false
}

func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
