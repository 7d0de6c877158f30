// Package seed embeds the default zoo dataset.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"zoocore/pkg/domain"
)

//go:embed zoo.json
var zooJSON []byte

var _ domain.SnapshotSource = Source{}

// Source loads the embedded dataset. It is read-only.
type Source struct{}

// Load decodes a fresh copy of the embedded dataset.
func (Source) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	return decode()
}

// Close is a no-op so Source matches the other dataset backends.
func (Source) Close() error { return nil }

// JSON returns a copy of the embedded document.
func JSON() []byte {
	out := make([]byte, len(zooJSON))
	copy(out, zooJSON)
	return out
}

// Snapshot returns the embedded dataset, panicking if it is malformed.
// Intended for tests and examples.
func Snapshot() domain.Snapshot {
	s, err := decode()
	if err != nil {
		panic(err)
	}
	return s
}

func decode() (domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(zooJSON, &s); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode embedded dataset: %w", err)
	}
	return s, nil
}
