// Package catalog stores devices, plans, subsidies and pricing settings in
// sqlite and resolves identifiers into pricing inputs.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/planquote/internal/pricing"
)

// ErrNotFound is returned when a device, plan or subsidy lookup has no row.
var ErrNotFound = errors.New("not found")

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type dbtx interface {
	Execer
	queryer
}

// Store is the sqlite-backed catalog.
type Store struct {
	db *sql.DB
}

// New returns a Store over an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func validAmount(field string, v int64) error {
	return pricing.ValidateAmount(field, v)
}

func required(field, v string) error {
	if v == "" {
		return &pricing.ValidationError{Field: field, Message: "is required"}
	}
	return nil
}
