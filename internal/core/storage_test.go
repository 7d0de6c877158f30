package core

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"zoocore/internal/config"
	"zoocore/internal/infra/persistence/postgres"
	pgtest "zoocore/internal/infra/persistence/postgres/testutil"
	"zoocore/pkg/domain"
)

func mustConfig(t *testing.T, vars map[string]string) config.Config {
	t.Helper()
	cfg, err := config.FromMap(vars)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestOpenDatasetSeedIsReadOnly(t *testing.T) {
	ctx := context.Background()
	ds, err := OpenDataset(ctx, mustConfig(t, nil))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ds.Close()
	svc, err := NewDatasetService(ctx, ds)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if n := len(svc.Snapshot().Animals); n != 9 {
		t.Fatalf("expected seed enclosures, got %d", n)
	}
	if err := svc.ExportTo(ctx, ds); !errors.Is(err, ErrReadOnlyDataset) {
		t.Fatalf("expected read-only error, got %v", err)
	}
}

// exportAndReload copies the seed dataset into target and loads it back.
func exportAndReload(t *testing.T, target config.Config) *Service {
	t.Helper()
	ctx := context.Background()
	seedDS, err := OpenDataset(ctx, mustConfig(t, nil))
	if err != nil {
		t.Fatalf("open seed: %v", err)
	}
	svc, err := NewDatasetService(ctx, seedDS)
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	if _, _, err := svc.IncreasePrices(ctx, 10); err != nil {
		t.Fatalf("increase: %v", err)
	}

	ds, err := OpenDataset(ctx, target)
	if err != nil {
		t.Fatalf("open %s: %v", target.DatasetDriver, err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	if _, err := NewDatasetService(ctx, ds); !errors.Is(err, domain.ErrNoSnapshot) {
		t.Fatalf("expected empty %s backend, got %v", target.DatasetDriver, err)
	}
	if err := svc.ExportTo(ctx, ds); err != nil {
		t.Fatalf("export: %v", err)
	}
	reloaded, err := NewDatasetService(ctx, ds)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	return reloaded
}

func assertExported(t *testing.T, svc *Service) {
	t.Helper()
	snap := svc.Snapshot()
	if len(snap.Animals) != 9 || len(snap.Employees) != 8 {
		t.Fatalf("unexpected reloaded dataset: %d animals %d employees", len(snap.Animals), len(snap.Employees))
	}
	if adult, _ := snap.Prices.Get(domain.CategoryAdult); adult != 54.99 {
		t.Fatalf("expected exported price increase, got %v", adult)
	}
	if keys := snap.Hours.Keys(); keys[0] != "Tuesday" || keys[len(keys)-1] != "Monday" {
		t.Fatalf("hour order lost: %v", keys)
	}
}

func TestDatasetRoundTripBackends(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]map[string]string{
		"file json": {"ZOO_DATASET_DRIVER": "file", "ZOO_DATASET_PATH": filepath.Join(dir, "zoo.json")},
		"file yaml": {"ZOO_DATASET_DRIVER": "file", "ZOO_DATASET_PATH": filepath.Join(dir, "zoo.yaml")},
		"sqlite":    {"ZOO_DATASET_DRIVER": "sqlite", "ZOO_SQLITE_PATH": filepath.Join(dir, "zoo.db")},
		"blob fs":   {"ZOO_DATASET_DRIVER": "blob", "ZOO_BLOB_DRIVER": "fs", "ZOO_BLOB_FS_ROOT": filepath.Join(dir, "blobs")},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			assertExported(t, exportAndReload(t, mustConfig(t, vars)))
		})
	}
}

func TestDatasetRoundTripPostgresStub(t *testing.T) {
	db, _ := pgtest.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	assertExported(t, exportAndReload(t, mustConfig(t, map[string]string{"ZOO_DATASET_DRIVER": "postgres"})))
}

func TestOpenDatasetErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := OpenDataset(ctx, config.Config{DatasetDriver: "mongo"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := OpenDataset(ctx, config.Config{DatasetDriver: config.DriverFile, DatasetPath: "zoo.toml"}); err == nil {
		t.Fatalf("expected unsupported file format error")
	}
	if _, err := OpenDataset(ctx, config.Config{DatasetDriver: config.DriverBlob, Blob: config.BlobConfig{Driver: "gcs"}}); err == nil {
		t.Fatalf("expected unknown blob driver error")
	}
}

type staticSource struct{ snap domain.Snapshot }

func (s staticSource) Load(context.Context) (domain.Snapshot, error) { return s.snap, nil }

func TestNewDatasetServiceRejectsInvalidSnapshot(t *testing.T) {
	bad := domain.Snapshot{Animals: []domain.Enclosure{{ID: "x", Name: "owls", Location: "N"}}}
	_, err := NewDatasetService(context.Background(), &Dataset{Driver: "static", Source: staticSource{snap: bad}})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
