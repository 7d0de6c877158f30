// Package file reads and writes zoo dataset snapshots as JSON or YAML
// documents on the local filesystem. Object key order is kept in both formats.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"zoocore/pkg/domain"
)

var (
	_ domain.SnapshotSource = (*Source)(nil)
	_ domain.SnapshotSink   = (*Source)(nil)
)

// Format identifies the document encoding of a snapshot file.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor derives the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset file extension %q", filepath.Ext(path))
	}
}

// Source is a snapshot file at a fixed path.
type Source struct {
	path   string
	format Format
}

// New returns a source for path. The format follows the extension.
func New(path string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("dataset file path is required")
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return &Source{path: path, format: format}, nil
}

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Format returns the document format.
func (s *Source) Format() Format { return s.format }

// Load reads and decodes the file. A missing file yields domain.ErrNoSnapshot.
func (s *Source) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, fmt.Errorf("%s: %w", s.path, domain.ErrNoSnapshot)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read dataset: %w", err)
	}
	if s.format == FormatYAML {
		if raw, err = yamlToJSON(raw); err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode yaml dataset: %w", err)
		}
	}
	var snapshot domain.Snapshot
	if err := domain.DecodeJSON(raw, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode dataset: %w", err)
	}
	return snapshot, nil
}

// Save encodes the snapshot and replaces the file atomically.
func (s *Source) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if s.format == FormatYAML {
		if data, err = jsonToYAML(data); err != nil {
			return fmt.Errorf("encode yaml dataset: %w", err)
		}
	} else {
		data = append(data, '\n')
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// yamlToJSON re-encodes a YAML document as JSON. Mappings decode to
// yaml.MapSlice so key order survives the conversion.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch node := v.(type) {
	case yaml.MapSlice:
		buf.WriteByte('{')
		for i, item := range node {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(fmt.Sprint(item.Key))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, item.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range node {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		scalar, err := json.Marshal(node)
		if err != nil {
			return err
		}
		buf.Write(scalar)
	}
	return nil
}

// jsonToYAML converts JSON to block-style YAML. JSON is a YAML subset, so the
// document parses straight into an ordered MapSlice.
func jsonToYAML(data []byte) ([]byte, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
