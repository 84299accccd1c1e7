// Package storage provides the key-value persistence contract the store
// writes through, with file and sqlite backed implementations.
package storage

// Kind names a stored collection.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindSettings     Kind = "settings"
)

// Backend loads and saves opaque payloads by kind. Load reports ok=false
// when nothing has been saved under the kind yet (first run); that is not
// an error.
type Backend interface {
	Load(kind Kind) (data []byte, ok bool, err error)
	Save(kind Kind, data []byte) error
}
