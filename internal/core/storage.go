package core

import (
	"context"
	"errors"
	"fmt"

	"zoocore/internal/blob"
	"zoocore/internal/config"
	"zoocore/internal/infra/persistence/blobstate"
	"zoocore/internal/infra/persistence/file"
	"zoocore/internal/infra/persistence/postgres"
	"zoocore/internal/infra/persistence/sqlite"
	"zoocore/internal/seed"
	"zoocore/pkg/domain"
)

// ErrReadOnlyDataset is returned when exporting to a backend that cannot be
// written.
var ErrReadOnlyDataset = errors.New("dataset backend is read-only")

// Dataset is an opened dataset backend. Sink is nil for read-only backends.
type Dataset struct {
	Driver string
	Source domain.SnapshotSource
	Sink   domain.SnapshotSink
	close  func() error
}

// Close releases the backend's resources.
func (d *Dataset) Close() error {
	if d == nil || d.close == nil {
		return nil
	}
	return d.close()
}

// OpenDataset opens the backend selected by cfg.DatasetDriver.
func OpenDataset(ctx context.Context, cfg config.Config) (*Dataset, error) {
	switch cfg.DatasetDriver {
	case "", config.DriverSeed:
		return &Dataset{Driver: config.DriverSeed, Source: seed.Source{}}, nil
	case config.DriverFile:
		src, err := file.New(cfg.DatasetPath)
		if err != nil {
			return nil, err
		}
		return &Dataset{Driver: cfg.DatasetDriver, Source: src, Sink: src}, nil
	case config.DriverSQLite:
		src, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Dataset{Driver: cfg.DatasetDriver, Source: src, Sink: src, close: src.Close}, nil
	case config.DriverPostgres:
		src, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &Dataset{Driver: cfg.DatasetDriver, Source: src, Sink: src, close: src.Close}, nil
	case config.DriverBlob:
		store, err := blob.Open(ctx, cfg.Blob.StoreConfig())
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		src, err := blobstate.New(store, cfg.Blob.Key)
		if err != nil {
			return nil, err
		}
		return &Dataset{Driver: cfg.DatasetDriver, Source: src, Sink: src}, nil
	default:
		return nil, fmt.Errorf("unknown dataset driver %q", cfg.DatasetDriver)
	}
}

// LoadSnapshot loads and validates the backend's dataset.
func (d *Dataset) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	snapshot, err := d.Source.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load %s dataset: %w", d.Driver, err)
	}
	if err := snapshot.Validate(); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}

// NewDatasetService loads the backend's dataset into a fresh in-memory
// service. Later mutations are not written back.
func NewDatasetService(ctx context.Context, d *Dataset, opts ...ServiceOption) (*Service, error) {
	snapshot, err := d.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return NewInMemoryService(snapshot, opts...), nil
}

// ExportTo saves the service's current dataset to d.
func (s *Service) ExportTo(ctx context.Context, d *Dataset) error {
	if d.Sink == nil {
		return fmt.Errorf("export to %s: %w", d.Driver, ErrReadOnlyDataset)
	}
	return s.Export(ctx, d.Sink)
}
