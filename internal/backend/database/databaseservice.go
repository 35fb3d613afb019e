package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no perfume exists for an id.
var ErrNotFound = errors.New("perfume not found")

type DatabaseService interface {
	// CreateDatabase creates the perfumes table and its indexes if they do not exist.
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// CreatePerfume inserts a perfume; the store assigns id, created_at and updated_at.
	CreatePerfume(ctx context.Context, fields PerfumeFields, imagePath *string) (*Perfume, error)
	GetPerfume(ctx context.Context, id int64) (*Perfume, error)
	// UpdatePerfume overwrites the editable fields and bumps updated_at.
	// A nil imagePath leaves image_path untouched.
	UpdatePerfume(ctx context.Context, id int64, fields PerfumeFields, imagePath *string) (*Perfume, error)
	DeletePerfume(ctx context.Context, id int64) error

	// ListPerfumes returns the filtered perfumes newest first (created_at DESC, id DESC).
	ListPerfumes(ctx context.Context, filter Filter, limit, offset int) ([]*Perfume, error)
	CountPerfumes(ctx context.Context, filter Filter) (int, error)
	// DistinctCategories returns every category in use, sorted alphabetically.
	DistinctCategories(ctx context.Context) ([]string, error)
}
