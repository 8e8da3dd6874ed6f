package engine

import "context"

// =============================================================================
// STORAGE - Key-value persistence capability
// =============================================================================

// Store is the persistence capability the engine depends on. Datasets
// are replaced wholesale on re-upload; documents (configuration,
// selector state) are opaque JSON blobs. All mutation is
// last-writer-wins: no locking, no transactions, no merge protocol.
// Concurrent edits from two admin surfaces race and the last write
// persisted wins.
type Store interface {
	// SaveDataset replaces all rows for a category.
	SaveDataset(ctx context.Context, category Category, rows []Record) error

	// LoadDataset returns the current rows for a category, nil when
	// nothing has been uploaded yet.
	LoadDataset(ctx context.Context, category Category) ([]Record, error)

	// SaveDocument persists a named JSON blob.
	SaveDocument(ctx context.Context, name string, body []byte) error

	// LoadDocument returns a named blob, nil when absent.
	LoadDocument(ctx context.Context, name string) ([]byte, error)

	Close() error
}

// Document names used by the engine.
const (
	DocConfig = "config"
	DocState  = "state"
)
