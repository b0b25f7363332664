package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	carterrors "github.com/shopfront/cart_service/internal/errors"
)

const (
	upsertQuantitySQL = `INSERT INTO cart_items (product_id, quantity)
		VALUES ($1, $2)
		ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	getQuantitySQL = `SELECT quantity FROM cart_items WHERE product_id = $1`
	totalItemsSQL  = `SELECT COALESCE(SUM(quantity), 0)::bigint FROM cart_items`
	linesSQL       = `SELECT product_id, quantity FROM cart_items ORDER BY product_id`

	findProductSQL   = `SELECT id, name, in_stock, max_quantity FROM products WHERE id = $1`
	createProductSQL = `INSERT INTO products (id, name, in_stock, max_quantity) VALUES ($1, $2, $3, $4)`
)

// PgCartStore implements CartStore backed by PostgreSQL.
type PgCartStore struct {
	db *pgxpool.Pool
}

// NewPgCartStore creates a new CartStore using a PostgreSQL connection pool.
func NewPgCartStore(dbp *pgxpool.Pool) *PgCartStore {
	return &PgCartStore{db: dbp}
}

func (p *PgCartStore) UpsertQuantity(ctx context.Context, productID string, newQuantity int64) error {
	if _, err := p.db.Exec(ctx, upsertQuantitySQL, productID, newQuantity); err != nil {
		return fmt.Errorf("%w: %v", carterrors.ErrFailedToUpsertQuantity, err)
	}
	return nil
}

func (p *PgCartStore) GetQuantity(ctx context.Context, productID string) (int64, error) {
	var quantity int64
	err := p.db.QueryRow(ctx, getQuantitySQL, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No line for this product yet.
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", carterrors.ErrFailedToReadQuantity, err)
	}
	return quantity, nil
}

func (p *PgCartStore) TotalItems(ctx context.Context) (int64, error) {
	var total int64
	if err := p.db.QueryRow(ctx, totalItemsSQL).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: %v", carterrors.ErrFailedToReadTotal, err)
	}
	return total, nil
}

func (p *PgCartStore) Lines(ctx context.Context) ([]CartLine, error) {
	rows, err := p.db.Query(ctx, linesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", carterrors.ErrFailedToListLines, err)
	}
	defer rows.Close()

	lines := make([]CartLine, 0)
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(&line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("%w: %v", carterrors.ErrFailedToListLines, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", carterrors.ErrFailedToListLines, err)
	}
	return lines, nil
}

// PgProductStore implements ProductStore backed by PostgreSQL.
type PgProductStore struct {
	db *pgxpool.Pool
}

// NewPgProductStore creates a new ProductStore using a PostgreSQL connection pool.
func NewPgProductStore(dbp *pgxpool.Pool) *PgProductStore {
	return &PgProductStore{db: dbp}
}

func (p *PgProductStore) FindByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	err := p.db.QueryRow(ctx, findProductSQL, id).Scan(&product.ID, &product.Name, &product.InStock, &product.MaxQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, carterrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %v", carterrors.ErrFailedToFindProduct, err)
	}
	return &product, nil
}

func (p *PgProductStore) Create(ctx context.Context, product Product) error {
	if _, err := p.db.Exec(ctx, createProductSQL, product.ID, product.Name, product.InStock, product.MaxQuantity); err != nil {
		return fmt.Errorf("%w: %v", carterrors.ErrFailedToCreateProduct, err)
	}
	return nil
}
