package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/five82/lister/internal/catalog"
	"github.com/five82/lister/internal/pager"
)

// SQLite stores the demo catalog and serves it page by page.
type SQLite struct {
	db *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT    PRIMARY KEY,
		name        TEXT    NOT NULL,
		category    TEXT    NOT NULL,
		price_cents INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name, id)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id    TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		email TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts (name, id)`,
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// One connection: WAL still allows concurrent readers, and :memory:
	// databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, stmt := range append(pragmas, schema...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Seed upserts products and contacts in one transaction.
func (s *SQLite) Seed(ctx context.Context, products []catalog.Product, contacts []catalog.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := seedTx(ctx, tx, products, contacts); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func seedTx(ctx context.Context, tx *sql.Tx, products []catalog.Product, contacts []catalog.Contact) error {
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, category, price_cents) VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				category = excluded.category,
				price_cents = excluded.price_cents`,
			p.ID, p.Name, p.Category, p.PriceCents,
		); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}
	for _, c := range contacts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contacts (id, name, email) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name,
				email = excluded.email`,
			c.ID, c.Name, c.Email,
		); err != nil {
			return fmt.Errorf("insert contact %s: %w", c.ID, err)
		}
	}
	return nil
}

// Count returns the number of rows in the kind's table.
func (s *SQLite) Count(ctx context.Context, kind catalog.Kind) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ProductsPage returns page (1-based) of products ordered by name.
func (s *SQLite) ProductsPage(ctx context.Context, page, limit int) (pager.Page[catalog.Product], error) {
	offset, limit, err := window(page, limit)
	if err != nil {
		return pager.Page[catalog.Product]{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price_cents FROM products
		ORDER BY name, id LIMIT ? OFFSET ?`, limit+1, offset)
	if err != nil {
		return pager.Page[catalog.Product]{}, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var items []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PriceCents); err != nil {
			return pager.Page[catalog.Product]{}, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return pager.Page[catalog.Product]{}, fmt.Errorf("iterate products: %w", err)
	}
	return lookahead(items, limit), nil
}

// ContactsPage returns page (1-based) of contacts ordered by name.
func (s *SQLite) ContactsPage(ctx context.Context, page, limit int) (pager.Page[catalog.Contact], error) {
	offset, limit, err := window(page, limit)
	if err != nil {
		return pager.Page[catalog.Contact]{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email FROM contacts
		ORDER BY name, id LIMIT ? OFFSET ?`, limit+1, offset)
	if err != nil {
		return pager.Page[catalog.Contact]{}, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var items []catalog.Contact
	for rows.Next() {
		var c catalog.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return pager.Page[catalog.Contact]{}, fmt.Errorf("scan contact: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return pager.Page[catalog.Contact]{}, fmt.Errorf("iterate contacts: %w", err)
	}
	return lookahead(items, limit), nil
}

// ProductSource adapts ProductsPage to pager.Source.
func (s *SQLite) ProductSource(limit int) pager.Source[catalog.Product] {
	return pager.SourceFunc[catalog.Product](func(ctx context.Context, page int) (pager.Page[catalog.Product], error) {
		return s.ProductsPage(ctx, page, limit)
	})
}

// ContactSource adapts ContactsPage to pager.Source.
func (s *SQLite) ContactSource(limit int) pager.Source[catalog.Contact] {
	return pager.SourceFunc[catalog.Contact](func(ctx context.Context, page int) (pager.Page[catalog.Contact], error) {
		return s.ContactsPage(ctx, page, limit)
	})
}

func tableFor(kind catalog.Kind) (string, error) {
	switch kind {
	case catalog.KindProducts:
		return "products", nil
	case catalog.KindContacts:
		return "contacts", nil
	}
	return "", fmt.Errorf("unknown list %q", kind)
}

// ErrPageOutOfRange reports a page whose row range does not fit in an int.
var ErrPageOutOfRange = errors.New("page out of range")

// PageOffset returns the row offset of a 1-based page of limit rows.
// limit must already be clamped.
func PageOffset(page, limit int) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("invalid page %d", page)
	}
	if page > math.MaxInt/limit {
		return 0, fmt.Errorf("page %d with limit %d: %w", page, limit, ErrPageOutOfRange)
	}
	return (page - 1) * limit, nil
}

// window converts a 1-based page into an offset, clamping limit.
func window(page, limit int) (offset, clamped int, err error) {
	clamped = ClampLimit(limit)
	offset, err = PageOffset(page, clamped)
	if err != nil {
		return 0, 0, err
	}
	return offset, clamped, nil
}

// ClampLimit bounds a requested page size to [1, MaxPageSize], using
// DefaultPageSize for non-positive values.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	}
	return limit
}

// lookahead trims the extra row fetched past the page and reports whether it
// existed.
func lookahead[T pager.Item](items []T, limit int) pager.Page[T] {
	if len(items) > limit {
		return pager.Page[T]{Items: items[:limit], HasMore: true}
	}
	return pager.Page[T]{Items: items, HasMore: false}
}
