package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup over the dataset finds nothing.
// By names the lookup strategy (id, name, species, ...) and Value the key used.
type ErrNotFound struct {
	Entity EntityType
	By     string
	Value  string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found by %s %q", e.Entity, e.By, e.Value)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// ErrNoSnapshot is returned by snapshot sources that hold no dataset yet.
var ErrNoSnapshot = errors.New("no dataset snapshot stored")

// ValidationError lists the problems that make a snapshot unusable.
type ValidationError struct {
	Problems []string
}

func (e ValidationError) Error() string {
	return "invalid snapshot: " + strings.Join(e.Problems, "; ")
}
