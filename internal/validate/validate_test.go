package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDescription(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"simple", "Coffee run", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"leading space", " coffee", false},
		{"trailing space", "coffee ", false},
		{"double space", "hello  world", false},
		{"single tab inside", "hello\tworld", true},
		{"space then tab", "hello \tworld", false},
		{"duplicate word", "the the cost", false},
		{"duplicate word mixed case", "Paid Paid again", false},
		{"duplicate across punctuation", "no, no problem", true},
		{"repeated non-adjacent", "the cost of the ticket", true},
		{"exactly 100 chars", strings.Repeat("a", 100), true},
		{"101 chars", strings.Repeat("a", 101), false},
		{"single char", "x", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Description(tc.value)
			require.Equal(t, tc.valid, res.Valid, "value %q: %s", tc.value, res.Message)
			if tc.valid {
				require.Empty(t, res.Message)
			} else {
				require.NotEmpty(t, res.Message)
			}
		})
	}
}

func TestDescriptionRulesAreIndependent(t *testing.T) {
	t.Parallel()
	// fails whitespace but not duplicate-word
	res := Description("hello  world")
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "spaces")

	// fails duplicate-word but not whitespace
	res = Description("the the cost")
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "duplicate")
}

func TestAmount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value string
		valid bool
	}{
		{"12.50", true},
		{"12.5", true},
		{"12", true},
		{"0.01", true},
		{"1000000", true},
		{"", false},
		{"  ", false},
		{"0", false},
		{"0.00", false},
		{"12.345", false},
		{"-5", false},
		{"+5", false},
		{"1,000", false},
		{"01", false},
		{".5", false},
		{"5.", false},
		{"1000000.01", false},
		{"abc", false},
		{"1e3", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			res := Amount(tc.value)
			require.Equal(t, tc.valid, res.Valid, "value %q: %s", tc.value, res.Message)
		})
	}
}

func TestDate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.August, 15, 9, 30, 0, 0, time.Local)
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"today", "2026-08-15", true},
		{"yesterday", "2026-08-14", true},
		{"tomorrow", "2026-08-16", false},
		{"empty", "", false},
		{"wrong format", "15/08/2026", false},
		{"month 13", "2026-13-01", false},
		{"day 32", "2026-08-32", false},
		{"day 00", "2026-08-00", false},
		{"not a real day", "2026-02-31", false},
		{"missing zero pad", "2026-8-5", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Date(tc.value, now)
			require.Equal(t, tc.valid, res.Valid, "value %q: %s", tc.value, res.Message)
		})
	}
}

func TestDateTodayValidLateInDay(t *testing.T) {
	t.Parallel()
	// the future check clamps to end of day, so today is valid even when
	// validated at 23:59
	now := time.Date(2026, time.August, 15, 23, 59, 0, 0, time.Local)
	require.True(t, Date("2026-08-15", now).Valid)
}

func TestCategory(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value string
		valid bool
	}{
		{"Food", true},
		{"Eating Out", true},
		{"Health-Care", true},
		{"Two Word-Mix", true},
		{"", false},
		{"  ", false},
		{"Food1", false},
		{"Food!", false},
		{"-Food", false},
		{"Food-", false},
		{"Eating  Out", false},
		{"Really Long Category Name Over Thirty", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()
			res := Category(tc.value)
			require.Equal(t, tc.valid, res.Valid, "value %q: %s", tc.value, res.Message)
		})
	}
}

func TestSuggestCategory(t *testing.T) {
	t.Parallel()
	known := []string{"Food", "Transport", "Entertainment", "Other"}

	got, ok := SuggestCategory("food", known)
	require.True(t, ok)
	require.Equal(t, "Food", got, "exact match any case wins")

	got, ok = SuggestCategory("Transprot", known)
	require.True(t, ok)
	require.Equal(t, "Transport", got)

	_, ok = SuggestCategory("Xylophone", known)
	require.False(t, ok)

	_, ok = SuggestCategory("", known)
	require.False(t, ok)

	_, ok = SuggestCategory("Food", nil)
	require.False(t, ok)
}
