// Package validate holds the field acceptance rules for user-entered
// transaction data. Rules run in a fixed order and the first failure wins;
// every rule is side-effect-free and returns a Result, never an error.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Result reports whether a field value is acceptable. Message is empty
// when Valid.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result             { return Result{Valid: true} }
func fail(msg string) Result { return Result{Valid: false, Message: msg} }

const (
	maxDescriptionLen = 100
	maxCategoryLen    = 30
	maxAmount         = 1000000
)

var (
	doubledSpaceRe = regexp.MustCompile(`\s{2}`)
	amountRe       = regexp.MustCompile(`^(0|[1-9]\d*)(\.\d{1,2})?$`)
	dateRe         = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	categoryRe     = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)
	wordRe         = regexp.MustCompile(`\w+`)
)

// Description requires non-blank text with clean whitespace, no repeated
// consecutive word, and at most 100 characters. The whitespace rule and
// the duplicate-word rule are independent: a value can fail one without
// the other.
func Description(value string) Result {
	if strings.TrimSpace(value) == "" {
		return fail("Description is required")
	}
	if value != strings.TrimSpace(value) || doubledSpaceRe.MatchString(value) {
		return fail("Description cannot have leading/trailing spaces or multiple consecutive spaces")
	}
	if hasDuplicateWord(value) {
		return fail("Description contains duplicate consecutive words")
	}
	if utf8.RuneCountInString(value) > maxDescriptionLen {
		return fail("Description must be less than 100 characters")
	}
	return ok()
}

// hasDuplicateWord reports whether two identical words, compared
// case-insensitively, appear separated by whitespace only ("the the").
// Words separated by punctuation ("no, no") do not count.
func hasDuplicateWord(value string) bool {
	spans := wordRe.FindAllStringIndex(value, -1)
	for i := 1; i < len(spans); i++ {
		gap := value[spans[i-1][1]:spans[i][0]]
		if gap == "" || strings.TrimSpace(gap) != "" {
			continue
		}
		prev := value[spans[i-1][0]:spans[i-1][1]]
		cur := value[spans[i][0]:spans[i][1]]
		if strings.EqualFold(prev, cur) {
			return true
		}
	}
	return false
}

// Amount requires a plain positive decimal with at most two fractional
// digits, greater than zero and at most 1,000,000. No thousands
// separators, no sign, no exponent.
func Amount(value string) Result {
	if strings.TrimSpace(value) == "" {
		return fail("Amount is required")
	}
	if !amountRe.MatchString(value) {
		return fail("Amount must be a positive number with up to 2 decimal places")
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n <= 0 {
		return fail("Amount must be greater than 0")
	}
	if n > maxAmount {
		return fail("Amount is too large")
	}
	return ok()
}

// Date requires strict YYYY-MM-DD that parses to a real calendar date and
// is not after now's calendar day. The comparison clamps to end of day so
// any time today is fine.
func Date(value string, now time.Time) Result {
	if strings.TrimSpace(value) == "" {
		return fail("Date is required")
	}
	if !dateRe.MatchString(value) {
		return fail("Date must be in YYYY-MM-DD format")
	}
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return fail("Invalid date")
	}
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.Local)
	if day.After(endOfToday) {
		return fail("Date cannot be in the future")
	}
	return ok()
}

// Category allows runs of letters separated by single spaces or hyphens,
// up to 30 characters.
func Category(value string) Result {
	if strings.TrimSpace(value) == "" {
		return fail("Category is required")
	}
	if !categoryRe.MatchString(value) {
		return fail("Category can only contain letters, spaces, and hyphens")
	}
	if utf8.RuneCountInString(value) > maxCategoryLen {
		return fail("Category must be less than 30 characters")
	}
	return ok()
}
