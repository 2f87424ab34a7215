// Package employee holds the employee record, its store contract and the
// keyword matcher used by search.
package employee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const maxNameBytes = 1500

var (
	// ErrMissingInput is returned when a required field is empty after trimming.
	ErrMissingInput = errors.New("missing required input")
	// ErrInvalidName is returned when a name cannot be used as a record key.
	ErrInvalidName = errors.New("invalid employee name")
)

var reservedName = regexp.MustCompile(`^__.*__$`)

// Record is a single employee entry. Name is the unique key; a second write
// with the same name replaces the whole record.
type Record struct {
	Name                  string    `json:"name"`
	Description           string    `json:"description"`
	StructuredDescription string    `json:"structured_description"`
	Tags                  []string  `json:"tags"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Store persists records. Implementations set UpdatedAt from their own clock.
type Store interface {
	Upsert(ctx context.Context, record Record) error
	ListAll(ctx context.Context) ([]Record, error)
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreError wraps a failed store operation.
type StoreError struct {
	Op   string
	Name string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ValidateName checks that name is non-empty and usable as a document key.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name: %w", ErrMissingInput)
	case len(name) > maxNameBytes:
		return fmt.Errorf("name longer than %d bytes: %w", maxNameBytes, ErrInvalidName)
	case strings.Contains(name, "/"):
		return fmt.Errorf("name must not contain '/': %w", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("name %q is reserved: %w", name, ErrInvalidName)
	case reservedName.MatchString(name):
		return fmt.Errorf("name %q matches the reserved __name__ form: %w", name, ErrInvalidName)
	}
	return nil
}
