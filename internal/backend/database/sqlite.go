package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
)

// unicodeLowerFunction folds case for all of Unicode; the builtin lower() only folds ASCII.
const unicodeLowerFunction = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(unicodeLowerFunction, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("register %s: %v", unicodeLowerFunction, err))
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", unicodeLowerFunction, v)
	}
}

const perfumeColumns = "id, name, brand, description, price, category, sub_category, image_path, created_at, updated_at"

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
	now              func() time.Time
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" opens its own database; keep a single one.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
		now:              time.Now,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS perfumes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			description TEXT NOT NULL,
			price NUMERIC NOT NULL,
			category TEXT NOT NULL,
			sub_category TEXT,
			image_path TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS perfumes_name_index ON perfumes (name)`,
		`CREATE INDEX IF NOT EXISTS perfumes_brand_index ON perfumes (brand)`,
		`CREATE INDEX IF NOT EXISTS perfumes_category_index ON perfumes (category)`,
		`CREATE INDEX IF NOT EXISTS perfumes_price_index ON perfumes (price)`,
		`CREATE INDEX IF NOT EXISTS perfumes_category_sub_category_index ON perfumes (category, sub_category)`,
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// the driver creates the file on first connect
	return s.db.PingContext(ctx) == nil
}

func (s *SQLiteDatabase) CreatePerfume(ctx context.Context, fields PerfumeFields, imagePath *string) (*Perfume, error) {
	now := s.now().UTC().UnixNano()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO perfumes (name, brand, description, price, category, sub_category, image_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fields.Name, fields.Brand, fields.Description, normalizePrice(fields.Price).StringFixed(2),
		fields.Category, nullableString(fields.SubCategory), nullableString(imagePath), now, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetPerfume(ctx, id)
}

func (s *SQLiteDatabase) GetPerfume(ctx context.Context, id int64) (*Perfume, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+perfumeColumns+" FROM perfumes WHERE id = ?", id)
	p, err := scanSQLitePerfume(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteDatabase) UpdatePerfume(ctx context.Context, id int64, fields PerfumeFields, imagePath *string) (*Perfume, error) {
	query := `UPDATE perfumes
		SET name = ?, brand = ?, description = ?, price = ?, category = ?, sub_category = ?, updated_at = ?`
	args := []any{
		fields.Name, fields.Brand, fields.Description, normalizePrice(fields.Price).StringFixed(2),
		fields.Category, nullableString(fields.SubCategory), s.now().UTC().UnixNano(),
	}
	if imagePath != nil {
		query += ", image_path = ?"
		args = append(args, nullableString(imagePath))
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetPerfume(ctx, id)
}

func (s *SQLiteDatabase) DeletePerfume(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM perfumes WHERE id = ?", id)
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

func (s *SQLiteDatabase) ListPerfumes(ctx context.Context, filter Filter, limit, offset int) ([]*Perfume, error) {
	where, args := filter.whereClause(sqliteDialect, 1)
	query := "SELECT " + perfumeColumns + " FROM perfumes" + where +
		" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	perfumes := make([]*Perfume, 0, limit)
	for rows.Next() {
		p, err := scanSQLitePerfume(rows.Scan)
		if err != nil {
			return nil, err
		}
		perfumes = append(perfumes, p)
	}
	return perfumes, rows.Err()
}

func (s *SQLiteDatabase) CountPerfumes(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.whereClause(sqliteDialect, 1)
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM perfumes"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *SQLiteDatabase) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT category FROM perfumes ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

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

func scanSQLitePerfume(scan func(...any) error) (*Perfume, error) {
	var (
		p           Perfume
		price       decimal.Decimal
		subCategory sql.NullString
		imagePath   sql.NullString
		createdAt   int64
		updatedAt   int64
	)
	if err := scan(&p.ID, &p.Name, &p.Brand, &p.Description, &price, &p.Category,
		&subCategory, &imagePath, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Price = normalizePrice(price)
	p.SubCategory = stringPointer(subCategory)
	p.ImagePath = stringPointer(imagePath)
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &p, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPointer(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
