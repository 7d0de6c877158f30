package domain

import "context"

// Transaction exposes the dataset mutations a persistence implementation must
// support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	AppendEmployee(Employee) (Employee, error)
	UpdatePrices(mutator func(*Ordered[float64]) error) (Ordered[float64], error)
}

// TransactionView provides read-only access to the dataset. Returned values
// are copies owned by the caller.
type TransactionView interface {
	ListEnclosures() []Enclosure
	FindEnclosure(id string) (Enclosure, bool)
	ListEmployees() []Employee
	FindEmployee(id string) (Employee, bool)
	Prices() Ordered[float64]
	Hours() Ordered[Hours]
}

// PersistentStore is the store abstraction used by the service layer.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() Snapshot
	ImportState(Snapshot)
}

// SnapshotSource loads a full dataset from a backing medium.
type SnapshotSource interface {
	Load(ctx context.Context) (Snapshot, error)
}

// SnapshotSink persists a full dataset to a backing medium.
type SnapshotSink interface {
	Save(ctx context.Context, snapshot Snapshot) error
}
