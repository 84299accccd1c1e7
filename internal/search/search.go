// Package search compiles user-supplied regular expressions and applies
// them to transactions. Malformed patterns never propagate as panics or
// aborts: matching reports an error value, and filtering and highlighting
// fail open by returning their input untouched.
package search

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/jask/spendtrack/internal/store"
)

// ErrBadPattern is returned when a user pattern does not compile. The
// underlying regexp error is deliberately not exposed; callers show a
// single friendly message.
var ErrBadPattern = errors.New("invalid regex pattern")

// Compile builds the matcher. Case sensitivity is an explicit flag, never
// inferred from the pattern text.
func Compile(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ErrBadPattern
	}
	return re, nil
}

// Match reports whether pattern matches text. Invalid patterns report
// false with ErrBadPattern.
func Match(text, pattern string, caseSensitive bool) (bool, error) {
	re, err := Compile(pattern, caseSensitive)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

// Filter retains transactions whose searchable text matches the pattern.
// An empty pattern is a no-op, and so is a malformed one (fails open).
func Filter(txns []store.Transaction, pattern string, caseSensitive bool) []store.Transaction {
	if pattern == "" {
		return txns
	}
	re, err := Compile(pattern, caseSensitive)
	if err != nil {
		return txns
	}
	var out []store.Transaction
	for _, t := range txns {
		if re.MatchString(SearchableText(t)) {
			out = append(out, t)
		}
	}
	return out
}

// Highlight wraps every non-overlapping match of pattern in text with the
// mark function. Malformed or empty patterns return text unchanged.
func Highlight(text, pattern string, caseSensitive bool, mark func(string) string) string {
	if pattern == "" {
		return text
	}
	re, err := Compile(pattern, caseSensitive)
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, mark)
}

// SearchableText is the match target for a transaction: description,
// category and amount, space-joined in that order.
func SearchableText(t store.Transaction) string {
	return strings.Join([]string{t.Description, t.Category, FormatAmount(t.Amount)}, " ")
}

// FormatAmount renders an amount the shortest way that round-trips, so
// "12.5" not "12.50" (what users see in the records list).
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
