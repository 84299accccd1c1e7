package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/spendtrack/internal/storage"
)

// memBackend is an in-memory storage.Backend for tests.
type memBackend struct {
	data     map[storage.Kind][]byte
	failSave bool
	saves    int
}

func newMemBackend() *memBackend {
	return &memBackend{data: make(map[storage.Kind][]byte)}
}

func (b *memBackend) Load(kind storage.Kind) ([]byte, bool, error) {
	data, ok := b.data[kind]
	return data, ok, nil
}

func (b *memBackend) Save(kind storage.Kind, data []byte) error {
	b.saves++
	if b.failSave {
		return errors.New("disk full")
	}
	b.data[kind] = append([]byte(nil), data...)
	return nil
}

func openTestStore(t *testing.T) (*Store, *memBackend) {
	t.Helper()
	b := newMemBackend()
	s, err := Open(b)
	require.NoError(t, err)
	return s, b
}

func draft(desc string) Draft {
	return Draft{Description: desc, Amount: 10, Category: "Food", Date: "2026-08-01"}
}

func TestAddTransactionAssignsUniqueIDs(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		tx, err := s.AddTransaction(draft("Coffee run"))
		require.NoError(t, err)
		require.NotEmpty(t, tx.ID)
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
		require.Equal(t, tx.CreatedAt, tx.UpdatedAt)
	}
	require.Len(t, s.Transactions(), 20)
}

func TestTransactionsKeepInsertionOrder(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	first, _ := s.AddTransaction(draft("first"))
	second, _ := s.AddTransaction(draft("second"))
	third, _ := s.AddTransaction(draft("third"))

	rows := s.Transactions()
	require.Equal(t, []string{first.ID, second.ID, third.ID}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestUpdateMergesFields(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	tx, err := s.AddTransaction(Draft{Description: "Lunch", Amount: 14.5, Category: "Food", Date: "2026-08-01"})
	require.NoError(t, err)

	newDesc := "Team lunch"
	require.NoError(t, s.UpdateTransaction(tx.ID, TransactionUpdate{Description: &newDesc}))

	got, ok := s.Transaction(tx.ID)
	require.True(t, ok)
	require.Equal(t, "Team lunch", got.Description)
	require.Equal(t, 14.5, got.Amount)
	require.Equal(t, "Food", got.Category)
	require.Equal(t, tx.CreatedAt, got.CreatedAt)
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	t.Parallel()
	s, b := openTestStore(t)

	notified := 0
	s.Subscribe(func() { notified++ })
	savesBefore := b.saves

	newDesc := "whatever"
	require.NoError(t, s.UpdateTransaction("no-such-id", TransactionUpdate{Description: &newDesc}))
	require.Zero(t, notified)
	require.Equal(t, savesBefore, b.saves)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	tx, _ := s.AddTransaction(draft("doomed"))
	require.NoError(t, s.DeleteTransaction(tx.ID))
	_, ok := s.Transaction(tx.ID)
	require.False(t, ok)

	// deleting again is benign
	notified := 0
	s.Subscribe(func() { notified++ })
	require.NoError(t, s.DeleteTransaction(tx.ID))
	require.Equal(t, 1, notified)
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	var calls []string
	s.Subscribe(func() { calls = append(calls, "a") })
	off := s.Subscribe(func() { calls = append(calls, "b") })
	s.Subscribe(func() { calls = append(calls, "c") })

	_, _ = s.AddTransaction(draft("one"))
	require.Equal(t, []string{"a", "b", "c"}, calls)

	off()
	calls = nil
	_, _ = s.AddTransaction(draft("two"))
	require.Equal(t, []string{"a", "c"}, calls)
}

func TestPanickingListenerDoesNotBlockOthers(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	ran := false
	s.Subscribe(func() { panic("listener bug") })
	s.Subscribe(func() { ran = true })

	_, err := s.AddTransaction(draft("still notifies"))
	require.NoError(t, err)
	require.True(t, ran)
}

func TestPersistFailureLeavesMemoryAhead(t *testing.T) {
	t.Parallel()
	s, b := openTestStore(t)
	b.failSave = true

	notified := false
	s.Subscribe(func() { notified = true })

	tx, err := s.AddTransaction(draft("unsaved"))
	require.Error(t, err)

	// the mutation stuck and subscribers heard about it anyway
	_, ok := s.Transaction(tx.ID)
	require.True(t, ok)
	require.True(t, notified)
}

func TestAddCategoryDedupes(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	notified := 0
	s.Subscribe(func() { notified++ })

	require.NoError(t, s.AddCategory("Garden"))
	require.Equal(t, 1, notified)
	before := len(s.Settings().Categories)

	require.NoError(t, s.AddCategory("Garden"))
	require.Equal(t, 1, notified, "duplicate add must not notify")
	require.Len(t, s.Settings().Categories, before)

	// case-sensitive comparison: "garden" is a different category
	require.NoError(t, s.AddCategory("garden"))
	require.Len(t, s.Settings().Categories, before+1)
}

func TestRemoveCategoryRoundTrip(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	require.NoError(t, s.RemoveCategory("Food"))
	require.NotContains(t, s.Settings().Categories, "Food")

	require.NoError(t, s.AddCategory("Food"))
	require.Contains(t, s.Settings().Categories, "Food")
}

func TestRemoveCategoryKeepsCatchAll(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	require.NoError(t, s.RemoveCategory(CatchAllCategory))
	require.Contains(t, s.Settings().Categories, CatchAllCategory)
}

func TestUpdateSettingsMergesPartial(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	budget := 3500.0
	require.NoError(t, s.UpdateSettings(SettingsUpdate{MonthlyBudget: &budget}))

	got := s.Settings()
	require.Equal(t, 3500.0, got.MonthlyBudget)
	require.Equal(t, DefaultSettings().BaseCurrency, got.BaseCurrency)
	require.Equal(t, DefaultSettings().Categories, got.Categories)
}

func TestSnapshotsAreCopies(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)

	_, _ = s.AddTransaction(draft("original"))
	rows := s.Transactions()
	rows[0].Description = "mutated"
	require.Equal(t, "original", s.Transactions()[0].Description)

	settings := s.Settings()
	settings.Currencies["XXX"] = 9
	settings.Categories[0] = "mutated"
	fresh := s.Settings()
	require.NotContains(t, fresh.Currencies, "XXX")
	require.NotEqual(t, "mutated", fresh.Categories[0])
}

func TestOpenRestoresPersistedState(t *testing.T) {
	t.Parallel()
	b := newMemBackend()

	s, err := Open(b)
	require.NoError(t, err)
	tx, err := s.AddTransaction(draft("survives restart"))
	require.NoError(t, err)
	budget := 1234.0
	require.NoError(t, s.UpdateSettings(SettingsUpdate{MonthlyBudget: &budget}))

	reopened, err := Open(b)
	require.NoError(t, err)
	got, ok := reopened.Transaction(tx.ID)
	require.True(t, ok)
	require.Equal(t, "survives restart", got.Description)
	require.Equal(t, 1234.0, reopened.Settings().MonthlyBudget)
}
