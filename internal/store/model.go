package store

import "time"

// CatchAllCategory always exists in settings and cannot be removed.
const CatchAllCategory = "Other"

// Transaction is one recorded expense. Dates are ISO calendar days
// ("2006-01-02"); timestamps are set by the store.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Settings is the single configuration record. Currencies maps currency
// code to exchange rate, with the base currency at rate 1. Category order
// is display order.
type Settings struct {
	BaseCurrency  string             `json:"baseCurrency"`
	Currencies    map[string]float64 `json:"currencies"`
	Categories    []string           `json:"categories"`
	MonthlyBudget float64            `json:"monthlyBudget"`
}

// DefaultSettings returns the first-run configuration.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency: "USD",
		Currencies: map[string]float64{
			"USD": 1,
			"EUR": 0.92,
			"GBP": 0.79,
		},
		Categories: []string{
			"Food", "Transport", "Entertainment", "Shopping",
			"Bills", "Health", CatchAllCategory,
		},
		MonthlyBudget: 2000,
	}
}

// clone returns an independent copy so callers cannot mutate store state
// through the returned maps and slices.
func (s Settings) clone() Settings {
	out := s
	out.Currencies = make(map[string]float64, len(s.Currencies))
	for code, rate := range s.Currencies {
		out.Currencies[code] = rate
	}
	out.Categories = append([]string(nil), s.Categories...)
	return out
}

// Draft carries the user-entered fields of a new transaction. Callers are
// expected to have validated them already.
type Draft struct {
	Description string
	Amount      float64
	Category    string
	Date        string
}

// TransactionUpdate is an explicit field-by-field merge: nil fields keep
// the existing value, set fields always win.
type TransactionUpdate struct {
	Description *string
	Amount      *float64
	Category    *string
	Date        *string
}

// SettingsUpdate merges into Settings the same way. Currencies and
// Categories replace wholesale when set.
type SettingsUpdate struct {
	BaseCurrency  *string
	Currencies    map[string]float64
	Categories    []string
	MonthlyBudget *float64
}

func (t *Transaction) apply(u TransactionUpdate) {
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
}

func (s *Settings) apply(u SettingsUpdate) {
	if u.BaseCurrency != nil {
		s.BaseCurrency = *u.BaseCurrency
	}
	if u.Currencies != nil {
		s.Currencies = u.Currencies
	}
	if u.Categories != nil {
		s.Categories = u.Categories
	}
	if u.MonthlyBudget != nil {
		s.MonthlyBudget = *u.MonthlyBudget
	}
}
