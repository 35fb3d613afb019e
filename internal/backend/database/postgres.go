package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresDatabase struct {
	db *sql.DB
}

func NewPostgresDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return &PostgresDatabase{db: db}, nil
}

func (r *PostgresDatabase) CreateDatabase(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS perfumes (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			brand VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			category VARCHAR(255) NOT NULL,
			sub_category VARCHAR(255),
			image_path VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS perfumes_name_index ON perfumes (name)`,
		`CREATE INDEX IF NOT EXISTS perfumes_brand_index ON perfumes (brand)`,
		`CREATE INDEX IF NOT EXISTS perfumes_category_index ON perfumes (category)`,
		`CREATE INDEX IF NOT EXISTS perfumes_price_index ON perfumes (price)`,
		`CREATE INDEX IF NOT EXISTS perfumes_category_sub_category_index ON perfumes (category, sub_category)`,
	}
	for _, statement := range statements {
		if _, err := r.db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.db.PingContext(ctx) == nil
}

func (r *PostgresDatabase) Close() error {
	return r.db.Close()
}

func (r *PostgresDatabase) CreatePerfume(ctx context.Context, fields PerfumeFields, imagePath *string) (*Perfume, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO perfumes (name, brand, description, price, category, sub_category, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+perfumeColumns,
		fields.Name, fields.Brand, fields.Description, normalizePrice(fields.Price).StringFixed(2),
		fields.Category, nullableString(fields.SubCategory), nullableString(imagePath))
	return scanPostgresPerfume(row.Scan)
}

func (r *PostgresDatabase) GetPerfume(ctx context.Context, id int64) (*Perfume, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+perfumeColumns+` FROM perfumes WHERE id = $1`, id)
	p, err := scanPostgresPerfume(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PostgresDatabase) UpdatePerfume(ctx context.Context, id int64, fields PerfumeFields, imagePath *string) (*Perfume, error) {
	// COALESCE keeps image_path when no replacement is given.
	row := r.db.QueryRowContext(ctx, `
		UPDATE perfumes
		SET name = $1, brand = $2, description = $3, price = $4, category = $5, sub_category = $6,
		    image_path = COALESCE($7, image_path), updated_at = NOW()
		WHERE id = $8
		RETURNING `+perfumeColumns,
		fields.Name, fields.Brand, fields.Description, normalizePrice(fields.Price).StringFixed(2),
		fields.Category, nullableString(fields.SubCategory), nullableString(imagePath), id)
	p, err := scanPostgresPerfume(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PostgresDatabase) DeletePerfume(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM perfumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresDatabase) ListPerfumes(ctx context.Context, filter Filter, limit, offset int) ([]*Perfume, error) {
	where, args := filter.whereClause(postgresDialect, 1)
	n := len(args) + 1
	query := `SELECT ` + perfumeColumns + ` FROM perfumes` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ` + postgresDialect.placeholder(n) +
		` OFFSET ` + postgresDialect.placeholder(n+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perfumes := make([]*Perfume, 0, limit)
	for rows.Next() {
		p, err := scanPostgresPerfume(rows.Scan)
		if err != nil {
			return nil, err
		}
		perfumes = append(perfumes, p)
	}
	return perfumes, rows.Err()
}

func (r *PostgresDatabase) CountPerfumes(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.whereClause(postgresDialect, 1)
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM perfumes`+where, args...).Scan(&total)
	return total, err
}

func (r *PostgresDatabase) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM perfumes ORDER BY category COLLATE "C"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanPostgresPerfume(scan func(...any) error) (*Perfume, error) {
	var (
		p           Perfume
		price       decimal.Decimal
		subCategory sql.NullString
		imagePath   sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := scan(&p.ID, &p.Name, &p.Brand, &p.Description, &price, &p.Category,
		&subCategory, &imagePath, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Price = normalizePrice(price)
	p.SubCategory = stringPointer(subCategory)
	p.ImagePath = stringPointer(imagePath)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}
