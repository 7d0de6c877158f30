// Package memory provides the in-memory transactional store that holds the
// live zoo dataset.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"zoocore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Snapshot aliases domain.Snapshot, the serialisable form of the store state.
	Snapshot = domain.Snapshot
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// Store provides an in-memory transactional store for the zoo dataset.
type Store struct {
	mu     sync.RWMutex
	state  Snapshot
	engine *RulesEngine
}

// NewStore constructs an empty store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{engine: engine}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snapshot.Clone()
}

// RulesEngine exposes the configured engine so callers can register rules.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// RunInTransaction executes fn within a transactional copy of the store state.
// The copy replaces the live state only when fn succeeds and no rule blocks.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: s.state.Clone()}
	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, transactionView{state: &tx.state}, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only view of the store state. The read
// lock is held for the duration of fn.
func (s *Store) View(ctx context.Context, fn func(TransactionView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(transactionView{state: &s.state})
}

type transaction struct {
	state   Snapshot
	changes []Change
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return transactionView{state: &tx.state}
}

// AppendEmployee adds an employee to the end of the roster. A missing id is
// generated; nil relationship slices become empty. Duplicate ids are allowed.
func (tx *transaction) AppendEmployee(e domain.Employee) (domain.Employee, error) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Managers == nil {
		e.Managers = []string{}
	}
	if e.ResponsibleFor == nil {
		e.ResponsibleFor = []string{}
	}
	e = domain.CloneEmployee(e)
	tx.state.Employees = append(tx.state.Employees, e)
	tx.recordChange(Change{Entity: domain.EntityEmployee, Action: domain.ActionCreate, After: domain.CloneEmployee(e)})
	return domain.CloneEmployee(e), nil
}

// UpdatePrices mutates the price list using the provided mutator function.
func (tx *transaction) UpdatePrices(mutator func(*domain.Ordered[float64]) error) (domain.Ordered[float64], error) {
	before := tx.state.Prices.Clone()
	current := tx.state.Prices.Clone()
	if err := mutator(&current); err != nil {
		return domain.Ordered[float64]{}, fmt.Errorf("update prices: %w", err)
	}
	tx.state.Prices = current
	tx.recordChange(Change{Entity: domain.EntityPrice, Action: domain.ActionUpdate, Before: before, After: current.Clone()})
	return current.Clone(), nil
}

type transactionView struct {
	state *Snapshot
}

// ListEnclosures returns all enclosures in dataset order.
func (v transactionView) ListEnclosures() []domain.Enclosure {
	out := make([]domain.Enclosure, 0, len(v.state.Animals))
	for _, e := range v.state.Animals {
		out = append(out, domain.CloneEnclosure(e))
	}
	return out
}

// FindEnclosure returns the enclosure with the given id.
func (v transactionView) FindEnclosure(id string) (domain.Enclosure, bool) {
	for _, e := range v.state.Animals {
		if e.ID == id {
			return domain.CloneEnclosure(e), true
		}
	}
	return domain.Enclosure{}, false
}

// ListEmployees returns all employees in dataset order.
func (v transactionView) ListEmployees() []domain.Employee {
	out := make([]domain.Employee, 0, len(v.state.Employees))
	for _, e := range v.state.Employees {
		out = append(out, domain.CloneEmployee(e))
	}
	return out
}

// FindEmployee returns the first employee with the given id.
func (v transactionView) FindEmployee(id string) (domain.Employee, bool) {
	for _, e := range v.state.Employees {
		if e.ID == id {
			return domain.CloneEmployee(e), true
		}
	}
	return domain.Employee{}, false
}

func (v transactionView) Prices() domain.Ordered[float64] { return v.state.Prices.Clone() }

func (v transactionView) Hours() domain.Ordered[domain.Hours] { return v.state.Hours.Clone() }
