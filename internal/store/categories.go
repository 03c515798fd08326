package store

import (
	"context"
	"fmt"

	"github.com/m3rciful/posbot/internal/models"
)

// CreateCategory inserts a category and returns its generated id.
func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO category (name) VALUES ($1) RETURNING id`, name)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, name FROM category ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return out, nil
}

// GetCategory fetches one category by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name FROM category WHERE id = $1`, id)
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// GetCategoryByName fetches one category by exact name.
// Returns sql.ErrNoRows when absent.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	var c models.Category
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name FROM category WHERE name = $1`, name)
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// RenameCategory updates a category name and returns affected row count.
func (s *Store) RenameCategory(ctx context.Context, id int64, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE category SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}
	return res.RowsAffected()
}

// DeleteCategory removes a category. Referencing products keep their
// rows with category_id set NULL by the schema. Returns affected rows.
func (s *Store) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return res.RowsAffected()
}
