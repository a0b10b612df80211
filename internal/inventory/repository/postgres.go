package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chaoslab/commerce/pkg/apierr"
)

// PostgresStore backs the catalog with a products table. Selected when the
// inventory service is configured with a DSN; the lib/pq driver is registered
// by the caller.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Product, error) {
	query := `
		SELECT id, name, stock, price
		FROM inventory.products
		WHERE id = $1
	`
	var p Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Stock, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.Newf(apierr.CodeNotFound, "product %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Product, error) {
	query := `
		SELECT id, name, stock, price
		FROM inventory.products
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) Reserve(ctx context.Context, id string, quantity int) (int, error) {
	if quantity < 1 {
		return 0, apierr.ErrInvalidParam
	}

	query := `
		SELECT stock
		FROM inventory.products
		WHERE id = $1
	`
	var stock int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apierr.ErrInsufficientStock
	}
	if err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	if stock < quantity {
		return stock, apierr.ErrInsufficientStock
	}
	return stock, nil
}
