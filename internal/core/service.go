// Package core implements the zoo query and mutation facade on top of a
// transactional dataset store.
package core

import (
	"context"

	"zoocore/internal/infra/persistence/memory"
	"zoocore/pkg/domain"
)

// Service answers dataset queries and applies the two dataset mutations.
// Every operation is timed, traced, and logged.
type Service struct {
	store   domain.PersistentStore
	engine  *domain.RulesEngine
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service over store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	cfg := defaultServiceOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{
		store:   store,
		engine:  extractRulesEngine(store),
		clock:   cfg.clock,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
	}
}

// NewInMemoryService loads snapshot into a fresh memory store guarded by the
// default rules.
func NewInMemoryService(snapshot domain.Snapshot, opts ...ServiceOption) *Service {
	store := memory.NewStore(NewDefaultRulesEngine())
	store.ImportState(snapshot)
	return NewService(store, opts...)
}

// Store returns the underlying store.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// RulesEngine returns the engine evaluated on each mutation, or nil when the
// store does not expose one.
func (s *Service) RulesEngine() *domain.RulesEngine {
	return s.engine
}

func extractRulesEngine(store domain.PersistentStore) *domain.RulesEngine {
	if provider, ok := store.(interface{ RulesEngine() *domain.RulesEngine }); ok {
		return provider.RulesEngine()
	}
	return nil
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	span.End(err)
	elapsed := s.clock.Now().Sub(start)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	if err != nil {
		s.logger.Error("operation failed", "operation", op, "error", err)
		return err
	}
	s.logger.Debug("operation completed", "operation", op, "duration", elapsed)
	return nil
}

func (s *Service) view(ctx context.Context, op string, fn func(domain.TransactionView) error) error {
	return s.run(ctx, op, func(ctx context.Context) error {
		return s.store.View(ctx, fn)
	})
}

func (s *Service) transact(ctx context.Context, op string, fn func(domain.Transaction) error) (domain.Result, error) {
	var res domain.Result
	err := s.run(ctx, op, func(ctx context.Context) error {
		var err error
		res, err = s.store.RunInTransaction(ctx, fn)
		return err
	})
	s.logViolations(op, res)
	return res, err
}

func (s *Service) logViolations(op string, res domain.Result) {
	for _, v := range res.Violations {
		args := []any{"operation", op, "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID}
		switch v.Severity {
		case domain.SeverityWarn:
			s.logger.Warn(v.Message, args...)
		case domain.SeverityLog:
			s.logger.Info(v.Message, args...)
		}
	}
}

// Snapshot returns a deep copy of the current dataset.
func (s *Service) Snapshot() domain.Snapshot {
	return s.store.ExportState()
}

// Export writes the current dataset to sink. Mutations never call it.
func (s *Service) Export(ctx context.Context, sink domain.SnapshotSink) error {
	return s.run(ctx, "export", func(ctx context.Context) error {
		return sink.Save(ctx, s.store.ExportState())
	})
}
