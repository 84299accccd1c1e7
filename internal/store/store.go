// Package store owns the mutable transaction and settings collections and
// notifies subscribers after every mutation.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/spendtrack/internal/storage"
)

// Store is the authoritative holder of application state. It is driven
// from a single goroutine (the TUI update loop) and is not safe for
// concurrent use.
//
// Every mutation follows the same sequence: change memory, attempt the
// backend save, notify subscribers, return the save error if any. Memory
// is deliberately ahead of durable storage when a save fails; the next
// successful save catches up.
type Store struct {
	backend      storage.Backend
	transactions []Transaction
	settings     Settings

	listeners map[int]func()
	order     []int
	nextSub   int
}

// Open loads both collections from the backend, defaulting whichever is
// absent (first run).
func Open(backend storage.Backend) (*Store, error) {
	s := &Store{
		backend:   backend,
		settings:  DefaultSettings(),
		listeners: make(map[int]func()),
	}

	data, ok, err := backend.Load(storage.KindTransactions)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &s.transactions); err != nil {
			return nil, fmt.Errorf("decode transactions: %w", err)
		}
	}

	data, ok, err = backend.Load(storage.KindSettings)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if ok {
		var loaded Settings
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		s.settings = loaded
	}
	return s, nil
}

// Transactions returns a snapshot copy in insertion order.
func (s *Store) Transactions() []Transaction {
	return append([]Transaction(nil), s.transactions...)
}

// Settings returns a snapshot copy.
func (s *Store) Settings() Settings {
	return s.settings.clone()
}

// Transaction looks up by id.
func (s *Store) Transaction(id string) (Transaction, bool) {
	for _, t := range s.transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// AddTransaction appends a new transaction built from the draft, stamping
// id and timestamps. The returned error reports persistence failure only;
// the transaction is in memory and subscribers have been notified either
// way.
func (s *Store) AddTransaction(d Draft) (Transaction, error) {
	now := timestamp()
	t := Transaction{
		ID:          uuid.NewString(),
		Description: d.Description,
		Amount:      d.Amount,
		Category:    d.Category,
		Date:        d.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.transactions = append(s.transactions, t)
	err := s.saveTransactions()
	s.notify()
	return t, err
}

// UpdateTransaction merges the update onto the transaction with the given
// id and refreshes updatedAt. A missing id is a no-op: no save, no notify,
// no error.
func (s *Store) UpdateTransaction(id string, u TransactionUpdate) error {
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		s.transactions[i].apply(u)
		s.transactions[i].UpdatedAt = timestamp()
		err := s.saveTransactions()
		s.notify()
		return err
	}
	return nil
}

// DeleteTransaction removes by id; deleting an absent id still saves and
// notifies, keeping the operation idempotent under double-triggered UI
// events.
func (s *Store) DeleteTransaction(id string) error {
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	err := s.saveTransactions()
	s.notify()
	return err
}

// UpdateSettings merges the partial update into settings.
func (s *Store) UpdateSettings(u SettingsUpdate) error {
	s.settings.apply(u)
	err := s.saveSettings()
	s.notify()
	return err
}

// AddCategory appends the category unless an exact match already exists,
// in which case nothing happens (no save, no notify). Comparison is
// case-sensitive: "Food" and "food" are distinct.
func (s *Store) AddCategory(name string) error {
	for _, c := range s.settings.Categories {
		if c == name {
			return nil
		}
	}
	s.settings.Categories = append(s.settings.Categories, name)
	err := s.saveSettings()
	s.notify()
	return err
}

// RemoveCategory removes by exact match and saves/notifies whether or not
// the name was present. The catch-all category is exempt from deletion.
func (s *Store) RemoveCategory(name string) error {
	if name == CatchAllCategory {
		return nil
	}
	kept := s.settings.Categories[:0]
	for _, c := range s.settings.Categories {
		if c != name {
			kept = append(kept, c)
		}
	}
	s.settings.Categories = kept
	err := s.saveSettings()
	s.notify()
	return err
}

// Replace swaps in a whole new state, as an accepted import does. When
// settings is nil the current settings are kept.
func (s *Store) Replace(transactions []Transaction, settings *Settings) error {
	s.transactions = append([]Transaction(nil), transactions...)
	err := s.saveTransactions()
	if settings != nil {
		s.settings = settings.clone()
		if serr := s.saveSettings(); err == nil {
			err = serr
		}
	}
	s.notify()
	return err
}

// Subscribe registers a callback invoked after every mutation, in
// subscription order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() {
		delete(s.listeners, id)
	}
}

func (s *Store) notify() {
	for _, id := range s.order {
		fn, ok := s.listeners[id]
		if !ok {
			continue
		}
		invoke(fn)
	}
}

// invoke shields the notify loop from a panicking listener so the
// remaining listeners still run.
func invoke(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func (s *Store) saveTransactions() error {
	data, err := json.Marshal(s.transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	return s.backend.Save(storage.KindTransactions, data)
}

func (s *Store) saveSettings() error {
	data, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.backend.Save(storage.KindSettings, data)
}

// timestamp is UTC truncated to seconds, consistent across backends.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
