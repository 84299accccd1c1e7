// Package service holds the boundary operations around the store: JSON
// export/import and first-run seeding.
package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jask/spendtrack/internal/store"
)

// Document is the export/import wire format.
type Document struct {
	Transactions []store.Transaction `json:"transactions"`
	Settings     *store.Settings     `json:"settings,omitempty"`
	ExportedAt   time.Time           `json:"exportedAt"`
}

// ImportResult summarizes an accepted import.
type ImportResult struct {
	Imported         int
	SettingsReplaced bool
}

// TransferService moves full application state across the process
// boundary. Import is all-or-nothing: any malformed element rejects the
// document before the store is touched.
type TransferService struct {
	Store *store.Store
}

// Export writes the current full state as indented JSON.
func (s *TransferService) Export(w io.Writer) error {
	settings := s.Store.Settings()
	doc := Document{
		Transactions: s.Store.Transactions(),
		Settings:     &settings,
		ExportedAt:   time.Now().UTC(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// wireTransaction mirrors store.Transaction with a pointer amount so a
// missing amount field is distinguishable from zero.
type wireTransaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      *float64  `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type wireDocument struct {
	Transactions *[]wireTransaction `json:"transactions"`
	Settings     *store.Settings    `json:"settings"`
}

// Import validates and applies a document produced by Export (or an
// equivalent source). Transactions replace the collection wholesale;
// settings, when present, replace settings wholesale rather than merging.
func (s *TransferService) Import(r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read import: %w", err)
	}

	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{}, fmt.Errorf("import is not valid JSON: %w", err)
	}
	if doc.Transactions == nil {
		return ImportResult{}, fmt.Errorf("import is missing the transactions list")
	}

	seen := make(map[string]bool, len(*doc.Transactions))
	txns := make([]store.Transaction, 0, len(*doc.Transactions))
	for i, wt := range *doc.Transactions {
		if wt.ID == "" {
			return ImportResult{}, fmt.Errorf("transaction %d has no id", i)
		}
		if seen[wt.ID] {
			return ImportResult{}, fmt.Errorf("transaction %d repeats id %q", i, wt.ID)
		}
		seen[wt.ID] = true
		if wt.Description == "" {
			return ImportResult{}, fmt.Errorf("transaction %d (%s) has no description", i, wt.ID)
		}
		if wt.Amount == nil {
			return ImportResult{}, fmt.Errorf("transaction %d (%s) has no amount", i, wt.ID)
		}
		txns = append(txns, store.Transaction{
			ID:          wt.ID,
			Description: wt.Description,
			Amount:      *wt.Amount,
			Category:    wt.Category,
			Date:        wt.Date,
			CreatedAt:   wt.CreatedAt,
			UpdatedAt:   wt.UpdatedAt,
		})
	}

	if err := s.Store.Replace(txns, doc.Settings); err != nil {
		return ImportResult{}, fmt.Errorf("persist import: %w", err)
	}
	return ImportResult{Imported: len(txns), SettingsReplaced: doc.Settings != nil}, nil
}
