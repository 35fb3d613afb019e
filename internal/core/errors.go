package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jo-hoe/perfumecatalog/internal/backend/database"
)

var (
	// ErrNotFound is returned when no perfume has the requested id.
	ErrNotFound = database.ErrNotFound
	// ErrStorageFailure wraps record and blob store failures.
	ErrStorageFailure = errors.New("storage failure")
)

// ValidationError maps field names to the first rule message that failed for that field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func storageFailure(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageFailure, operation, err)
}
