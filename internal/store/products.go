package store

import (
	"context"
	"fmt"

	"github.com/m3rciful/posbot/internal/models"
)

// CreateProduct inserts a product and returns its generated id.
// categoryID may be nil for an uncategorized product.
func (s *Store) CreateProduct(ctx context.Context, name string, price models.Money, categoryID *int64) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO products (name, price, category_id) VALUES ($1, $2, $3) RETURNING id`,
		name, price, categoryID)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// ListProducts returns all products with their category name resolved,
// ordered by id. Products whose category was deleted come back with a
// nil category name.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.db.SelectContext(ctx, &out, `
		SELECT p.id, p.name, p.price, p.category_id, c.name AS category_name
		FROM products p
		LEFT JOIN category c ON p.category_id = c.id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return out, nil
}

// GetProduct fetches one product by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, `
		SELECT p.id, p.name, p.price, p.category_id, c.name AS category_name
		FROM products p
		LEFT JOIN category c ON p.category_id = c.id
		WHERE p.id = $1`, id)
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateProductName renames a product. Returns affected row count.
func (s *Store) UpdateProductName(ctx context.Context, id int64, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return 0, fmt.Errorf("update product name: %w", err)
	}
	return res.RowsAffected()
}

// UpdateProductPrice changes a product price. Returns affected row count.
func (s *Store) UpdateProductPrice(ctx context.Context, id int64, price models.Money) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET price = $1 WHERE id = $2`, price, id)
	if err != nil {
		return 0, fmt.Errorf("update product price: %w", err)
	}
	return res.RowsAffected()
}

// UpdateProductCategory reassigns (or, with nil, clears) the category.
// Returns affected row count.
func (s *Store) UpdateProductCategory(ctx context.Context, id int64, categoryID *int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET category_id = $1 WHERE id = $2`, categoryID, id)
	if err != nil {
		return 0, fmt.Errorf("update product category: %w", err)
	}
	return res.RowsAffected()
}

// DeleteProduct removes a product. Historical order items keep their
// snapshotted name and price; only the product reference dangles.
// Returns affected rows.
func (s *Store) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.RowsAffected()
}
