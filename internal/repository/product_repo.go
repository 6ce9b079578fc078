package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/grocery_api/internal/models"
)

const productColumns = `id, names, categories, price, ean, vendor, COALESCE(image, '') AS image`

// ProductRepository handles data access for catalog products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListAll returns every product in catalog order.
func (r *ProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY position, id`
	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id, or nil if it does not exist.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Count returns the number of stored products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, err
	}
	return n, nil
}

const upsertProduct = `
    INSERT INTO products (id, position, names, categories, price, ean, vendor, image)
    VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
    ON CONFLICT (id) DO UPDATE SET
        position = EXCLUDED.position,
        names = EXCLUDED.names,
        categories = EXCLUDED.categories,
        price = EXCLUDED.price,
        ean = EXCLUDED.ean,
        vendor = EXCLUDED.vendor,
        image = EXCLUDED.image,
        updated_at = NOW()`

// ReplaceAll upserts products in a single transaction, using their slice
// index as catalog position, and deletes stored products not in the list.
func (r *ProductRepository) ReplaceAll(ctx context.Context, products []models.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PreparexContext(ctx, upsertProduct)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(products))
	for i, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, i, p.Names, p.Categories, p.Price, p.EAN, p.Vendor, p.Image); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
		ids = append(ids, p.ID)
	}

	if len(ids) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}
	} else {
		// a single array parameter, however large the catalog
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id <> ALL($1)`, pq.Array(ids)); err != nil {
			return fmt.Errorf("failed to delete stale products: %w", err)
		}
	}

	return tx.Commit()
}
