package service

import (
	"time"

	"github.com/jask/spendtrack/internal/store"
)

// SeedDefaults populates an empty store with sample transactions so a new
// install has something on the dashboard. It is idempotent and safe to
// run on every startup.
func SeedDefaults(s *store.Store) error {
	if len(s.Transactions()) > 0 {
		return nil
	}
	samples := []struct {
		daysAgo  int
		desc     string
		amount   float64
		category string
	}{
		{0, "Morning coffee", 4.50, "Food"},
		{1, "Grocery run", 62.30, "Food"},
		{1, "Bus ticket", 2.75, "Transport"},
		{2, "Streaming subscription", 12.99, "Entertainment"},
		{3, "Pharmacy", 18.20, "Health"},
		{4, "Electricity bill", 85.00, "Bills"},
		{5, "New headphones", 49.99, "Shopping"},
		{6, "Takeaway dinner", 23.40, "Food"},
		{9, "Taxi home", 15.80, "Transport"},
		{12, "Concert tickets", 75.00, "Entertainment"},
	}
	now := time.Now()
	for _, smp := range samples {
		d := store.Draft{
			Description: smp.desc,
			Amount:      smp.amount,
			Category:    smp.category,
			Date:        now.AddDate(0, 0, -smp.daysAgo).Format("2006-01-02"),
		}
		if _, err := s.AddTransaction(d); err != nil {
			return err
		}
	}
	return nil
}
