// Package buckets maps a zoo snapshot onto the bucket/payload layout shared
// by the SQL snapshot sources. Each bucket holds one JSON document.
package buckets

import (
	"encoding/json"
	"fmt"

	"zoocore/pkg/domain"
)

// Bucket names in write order.
const (
	Animals   = "animals"
	Employees = "employees"
	Prices    = "prices"
	Hours     = "hours"
)

// Names lists every bucket in write order.
func Names() []string {
	return []string{Animals, Employees, Prices, Hours}
}

// Payload is one encoded bucket row.
type Payload struct {
	Bucket string
	Data   []byte
}

// Encode renders the snapshot as one payload per bucket.
func Encode(snapshot domain.Snapshot) ([]Payload, error) {
	out := make([]Payload, 0, len(Names()))
	for _, bucket := range Names() {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case Animals:
			data, err = json.Marshal(orEmpty(snapshot.Animals))
		case Employees:
			data, err = json.Marshal(orEmpty(snapshot.Employees))
		case Prices:
			data, err = json.Marshal(snapshot.Prices)
		case Hours:
			data, err = json.Marshal(snapshot.Hours)
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out = append(out, Payload{Bucket: bucket, Data: data})
	}
	return out, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Decoder accumulates bucket rows into a snapshot. Unknown buckets and empty
// payloads are skipped.
type Decoder struct {
	snapshot domain.Snapshot
	seen     int
}

// Add decodes one bucket row.
func (d *Decoder) Add(bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	var target any
	switch bucket {
	case Animals:
		target = &d.snapshot.Animals
	case Employees:
		target = &d.snapshot.Employees
	case Prices:
		target = &d.snapshot.Prices
	case Hours:
		target = &d.snapshot.Hours
	default:
		return nil
	}
	if err := domain.DecodeJSON(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	d.seen++
	return nil
}

// Snapshot returns the decoded dataset, or domain.ErrNoSnapshot when no
// known bucket was added.
func (d *Decoder) Snapshot() (domain.Snapshot, error) {
	if d.seen == 0 {
		return domain.Snapshot{}, domain.ErrNoSnapshot
	}
	return d.snapshot, nil
}
