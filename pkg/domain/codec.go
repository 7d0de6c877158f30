package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DecodeJSON decodes a single JSON document into v, rejecting object keys
// that match no field.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after document")
	}
	return nil
}
