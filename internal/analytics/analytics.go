// Package analytics derives spending metrics from a store snapshot. Every
// function is pure: same transactions, settings and clock in, same numbers
// out. Callers pass now explicitly so views and tests agree on the clock.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/jask/spendtrack/internal/store"
)

const dateLayout = "2006-01-02"

// BudgetState classifies monthly spend against the budget.
type BudgetState string

const (
	BudgetOK      BudgetState = "ok"
	BudgetWarning BudgetState = "warning"
	BudgetDanger  BudgetState = "danger"
)

// BudgetStatus is the full classification result.
type BudgetStatus struct {
	State      BudgetState
	Message    string
	Percentage float64
	Spent      float64
	Remaining  float64
}

// DayTotal is one entry of the 7-day trend.
type DayTotal struct {
	Date   string
	Amount float64
}

// amountOrZero is the boundary policy for amounts read back from storage:
// anything that is not a finite number counts as zero so corrupt persisted
// data degrades to missing spend instead of poisoning every aggregate.
func amountOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// TotalSpent sums all transaction amounts.
func TotalSpent(txns []store.Transaction) float64 {
	var sum float64
	for _, t := range txns {
		sum += amountOrZero(t.Amount)
	}
	return sum
}

// SpentThisMonth sums transactions dated on or after the first calendar
// day of now's month. Unparsable dates are excluded.
func SpentThisMonth(txns []store.Transaction, now time.Time) float64 {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	var sum float64
	for _, t := range txns {
		day, err := time.ParseInLocation(dateLayout, t.Date, time.Local)
		if err != nil {
			continue
		}
		if !day.Before(first) {
			sum += amountOrZero(t.Amount)
		}
	}
	return sum
}

// SpendingByCategory maps category name to summed amount. Categories with
// no transactions have no entry.
func SpendingByCategory(txns []store.Transaction) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range txns {
		out[t.Category] += amountOrZero(t.Amount)
	}
	return out
}

// Last7DaysTrend returns exactly 7 entries, one per calendar day from
// now-6 through now in ascending order, zero-filled for days without
// transactions.
func Last7DaysTrend(txns []store.Transaction, now time.Time) []DayTotal {
	byDate := make(map[string]float64)
	for _, t := range txns {
		byDate[t.Date] += amountOrZero(t.Amount)
	}
	days := make([]DayTotal, 0, 7)
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(dateLayout)
		days = append(days, DayTotal{Date: date, Amount: byDate[date]})
	}
	return days
}

// ComputeBudgetStatus classifies this month's spend against the monthly
// budget: danger at 100% and above, warning from 80%, ok below that.
//
// A zero or negative budget is always danger with the percentage saturated
// to 100, so callers never see Inf or NaN.
func ComputeBudgetStatus(txns []store.Transaction, settings store.Settings, now time.Time) BudgetStatus {
	spent := SpentThisMonth(txns, now)
	budget := settings.MonthlyBudget
	remaining := budget - spent

	var pct float64
	if budget > 0 {
		pct = spent / budget * 100
	} else {
		pct = 100
	}

	st := BudgetStatus{
		State:      BudgetOK,
		Message:    fmt.Sprintf("You have $%.2f remaining this month.", remaining),
		Percentage: pct,
		Spent:      spent,
		Remaining:  remaining,
	}
	switch {
	case pct >= 100:
		st.State = BudgetDanger
		st.Message = fmt.Sprintf("You have exceeded your monthly budget by $%.2f!", math.Abs(remaining))
	case pct >= 80:
		st.State = BudgetWarning
		st.Message = fmt.Sprintf("You're at %.0f%% of your monthly budget.", pct)
	}
	return st
}
