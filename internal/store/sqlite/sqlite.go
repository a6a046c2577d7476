// Package sqlite provides a SQLite-backed store.Backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no cgo

	"github.com/zarlcorp/zpeople/internal/person"
	"github.com/zarlcorp/zpeople/internal/store"
)

var _ store.Backend = (*Backend)(nil)

// columns maps query fields to table columns.
var columns = map[store.Field]string{
	store.FieldName:    "name",
	store.FieldAge:     "age",
	store.FieldGender:  "gender",
	store.FieldCreated: "created_at",
}

// Backend stores people in a single SQLite table.
type Backend struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Backend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open sqlite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite: migrate: %w", err)
	}

	return &Backend{db: db}, nil
}

// Fetch runs q as a single SELECT.
func (b *Backend) Fetch(ctx context.Context, q store.Query) ([]person.Person, error) {
	query, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query people: %w", err)
	}
	defer rows.Close()

	var people []person.Person
	for rows.Next() {
		var (
			p            person.Person
			name, gender sql.NullString
			createdAt    int64
		)
		if err := rows.Scan(&p.ID, &name, &p.Age, &gender, &createdAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.Name = name.String
		p.Gender = gender.String
		p.CreatedAt = time.Unix(0, createdAt).UTC()
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}

	return people, nil
}

// Insert writes one row.
func (b *Backend) Insert(ctx context.Context, p person.Person) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO person (id, name, age, gender, created_at) VALUES (?, ?, ?, ?, ?)",
		p.ID, nullString(p.Name), p.Age, nullString(p.Gender), p.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert person %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes one row by ID.
func (b *Backend) Delete(ctx context.Context, id string) error {
	res, err := b.db.ExecContext(ctx, "DELETE FROM person WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete person %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// buildSelect renders q. Column names come from the columns map only; user
// text is always bound as a parameter. instr is used instead of LIKE because
// LIKE folds ASCII case.
func buildSelect(q store.Query) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT id, name, age, gender, created_at FROM person")

	if q.Filter != nil && q.Filter.Contains != "" {
		field := q.Filter.Field
		if field == "" {
			field = store.FieldName
		}
		col, ok := columns[field]
		if !ok || !field.Text() {
			return "", nil, fmt.Errorf("%w: cannot filter on %q", store.ErrInvalidQuery, field)
		}
		sb.WriteString(" WHERE instr(" + col + ", ?) > 0")
		args = append(args, q.Filter.Contains)
	}

	sb.WriteString(" ORDER BY ")
	if q.Sort != nil {
		col, ok := columns[q.Sort.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: cannot sort on %q", store.ErrInvalidQuery, q.Sort.Field)
		}
		// unset text is stored as NULL, which SQLite orders first ascending
		dir := "ASC"
		if q.Sort.Descending {
			dir = "DESC"
		}
		sb.WriteString(col + " " + dir + ", ")
	}
	sb.WriteString("created_at ASC, id ASC")

	return sb.String(), args, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
