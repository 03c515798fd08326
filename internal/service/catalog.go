package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/m3rciful/posbot/core/logger"
	"github.com/m3rciful/posbot/internal/models"
	"log/slog"
)

// CatalogStore is the persistence surface the catalog service needs.
// *store.Store satisfies it; tests inject fakes.
type CatalogStore interface {
	CreateCategory(ctx context.Context, name string) (int64, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (models.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (int64, error)
	DeleteCategory(ctx context.Context, id int64) (int64, error)

	CreateProduct(ctx context.Context, name string, price models.Money, categoryID *int64) (int64, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	UpdateProductName(ctx context.Context, id int64, name string) (int64, error)
	UpdateProductPrice(ctx context.Context, id int64, price models.Money) (int64, error)
	UpdateProductCategory(ctx context.Context, id int64, categoryID *int64) (int64, error)
	DeleteProduct(ctx context.Context, id int64) (int64, error)
}

// Catalog implements category and product operations. Each method is a
// single bounded unit of work against the store.
type Catalog struct {
	store CatalogStore
}

// NewCatalog builds a Catalog over the given store.
func NewCatalog(s CatalogStore) *Catalog {
	return &Catalog{store: s}
}

// CreateCategory inserts a new category. A name collision on create is a
// store failure (unique constraint), reported as such; the create path
// does not silently reuse the existing row.
func (c *Catalog) CreateCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	id, err := c.store.CreateCategory(ctx, name)
	if err != nil {
		logger.Error(ctx, "service.catalog", "category.create.failed",
			slog.String("err", err.Error()))
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	logger.Info(ctx, "service.catalog", "category.created",
		slog.Int64("category_id", id))
	return id, nil
}

// EnsureCategory returns the id of the category with the given name,
// inserting it first if absent. Used by the add-product flow when the
// operator names a brand-new category.
func (c *Catalog) EnsureCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	existing, err := c.store.GetCategoryByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return c.CreateCategory(ctx, name)
}

// ListCategories returns all categories ordered by name.
func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	out, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil
}

// GetCategory fetches one category.
func (c *Catalog) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	cat, err := c.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return models.Category{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return cat, nil
}

// RenameCategory updates a category name. Renaming to an existing name
// fails on the unique constraint and is reported as a store failure,
// preserving the asymmetry with EnsureCategory's reuse-by-name.
func (c *Catalog) RenameCategory(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	n, err := c.store.RenameCategory(ctx, id, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.catalog", "category.renamed",
		slog.Int64("category_id", id))
	return nil
}

// DeleteCategory removes a category. Referencing products survive with
// their category reference cleared.
func (c *Catalog) DeleteCategory(ctx context.Context, id int64) error {
	n, err := c.store.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.catalog", "category.deleted",
		slog.Int64("category_id", id))
	return nil
}

// CreateProduct inserts a product after validating its draft and, when
// set, the referenced category.
func (c *Catalog) CreateProduct(ctx context.Context, draft models.ProductDraft, categoryID *int64) (int64, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return 0, fmt.Errorf("%w: product name must not be empty", ErrValidation)
	}
	if draft.Price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if categoryID != nil {
		if _, err := c.GetCategory(ctx, *categoryID); err != nil {
			return 0, err
		}
	}
	id, err := c.store.CreateProduct(ctx, strings.TrimSpace(draft.Name), draft.Price, categoryID)
	if err != nil {
		logger.Error(ctx, "service.catalog", "product.create.failed",
			slog.String("err", err.Error()))
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	logger.Info(ctx, "service.catalog", "product.created",
		slog.Int64("product_id", id))
	return id, nil
}

// ListProducts returns the full catalog ordered by id.
func (c *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	out, err := c.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil
}

// GetProduct fetches one product.
func (c *Catalog) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := c.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return models.Product{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return p, nil
}

// RenameProduct updates a product name.
func (c *Catalog) RenameProduct(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: product name must not be empty", ErrValidation)
	}
	n, err := c.store.UpdateProductName(ctx, id, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.catalog", "product.renamed",
		slog.Int64("product_id", id))
	return nil
}

// RepriceProduct updates a product price.
func (c *Catalog) RepriceProduct(ctx context.Context, id int64, price models.Money) error {
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	n, err := c.store.UpdateProductPrice(ctx, id, price)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.catalog", "product.repriced",
		slog.Int64("product_id", id))
	return nil
}

// RecategorizeProduct moves a product to another category, or clears
// the category when categoryID is nil.
func (c *Catalog) RecategorizeProduct(ctx context.Context, id int64, categoryID *int64) error {
	if categoryID != nil {
		if _, err := c.GetCategory(ctx, *categoryID); err != nil {
			return err
		}
	}
	n, err := c.store.UpdateProductCategory(ctx, id, categoryID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.catalog", "product.recategorized",
		slog.Int64("product_id", id))
	return nil
}

// DeleteProduct removes a product. Historical order items keep their
// snapshots; only the live reference dangles.
func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	n, err := c.store.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.catalog", "product.deleted",
		slog.Int64("product_id", id))
	return nil
}
