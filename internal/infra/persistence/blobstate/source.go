// Package blobstate keeps a zoo dataset snapshot as one JSON object in a
// blob store.
package blobstate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"zoocore/internal/blob"
	"zoocore/pkg/domain"
)

var (
	_ domain.SnapshotSource = (*Source)(nil)
	_ domain.SnapshotSink   = (*Source)(nil)
)

// DefaultKey is used when no object key is configured.
const DefaultKey = "datasets/zoo.json"

const contentType = "application/json"

// Source reads and writes the snapshot object at a fixed key.
type Source struct {
	store blob.Store
	key   string
}

// New returns a source over store at key.
func New(store blob.Store, key string) (*Source, error) {
	if store == nil {
		return nil, errors.New("blob store is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &Source{store: store, key: key}, nil
}

// Key returns the object key.
func (s *Source) Key() string { return s.key }

// Load fetches and decodes the snapshot object. A missing object yields
// domain.ErrNoSnapshot.
func (s *Source) Load(ctx context.Context) (domain.Snapshot, error) {
	_, rc, err := s.store.Get(ctx, s.key)
	if errors.Is(err, blob.ErrNotFound) {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", s.key, domain.ErrNoSnapshot)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("get dataset blob: %w", err)
	}
	defer func() { _ = rc.Close() }()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read dataset blob: %w", err)
	}
	var snapshot domain.Snapshot
	if err := domain.DecodeJSON(raw, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode dataset blob: %w", err)
	}
	return snapshot, nil
}

// Save replaces the snapshot object. Blob writes are create-only, so any
// existing object is deleted first.
func (s *Source) Save(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if _, err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("replace dataset blob: %w", err)
	}
	opts := blob.PutOptions{ContentType: contentType, Metadata: map[string]string{"format": "zoocore-snapshot"}}
	if _, err := s.store.Put(ctx, s.key, bytes.NewReader(data), opts); err != nil {
		return fmt.Errorf("put dataset blob: %w", err)
	}
	return nil
}
