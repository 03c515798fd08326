package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/posbot/internal/models"
)

// fakeCatalogStore is an in-memory CatalogStore with per-call overrides
// for failure injection.
type fakeCatalogStore struct {
	categories map[int64]models.Category
	products   map[int64]models.Product
	nextID     int64

	createCategoryErr error
	createProductErr  error
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		categories: make(map[int64]models.Category),
		products:   make(map[int64]models.Product),
	}
}

func (f *fakeCatalogStore) CreateCategory(_ context.Context, name string) (int64, error) {
	if f.createCategoryErr != nil {
		return 0, f.createCategoryErr
	}
	for _, c := range f.categories {
		if c.Name == name {
			return 0, errors.New("unique constraint violation")
		}
	}
	f.nextID++
	f.categories[f.nextID] = models.Category{ID: f.nextID, Name: name}
	return f.nextID, nil
}

func (f *fakeCatalogStore) ListCategories(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCatalogStore) GetCategory(_ context.Context, id int64) (models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return models.Category{}, sql.ErrNoRows
	}
	return c, nil
}

func (f *fakeCatalogStore) GetCategoryByName(_ context.Context, name string) (models.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Category{}, sql.ErrNoRows
}

func (f *fakeCatalogStore) RenameCategory(_ context.Context, id int64, name string) (int64, error) {
	c, ok := f.categories[id]
	if !ok {
		return 0, nil
	}
	for _, other := range f.categories {
		if other.ID != id && other.Name == name {
			return 0, errors.New("unique constraint violation")
		}
	}
	c.Name = name
	f.categories[id] = c
	return 1, nil
}

func (f *fakeCatalogStore) DeleteCategory(_ context.Context, id int64) (int64, error) {
	if _, ok := f.categories[id]; !ok {
		return 0, nil
	}
	delete(f.categories, id)
	for pid, p := range f.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			f.products[pid] = p
		}
	}
	return 1, nil
}

func (f *fakeCatalogStore) CreateProduct(_ context.Context, name string, price models.Money, categoryID *int64) (int64, error) {
	if f.createProductErr != nil {
		return 0, f.createProductErr
	}
	f.nextID++
	f.products[f.nextID] = models.Product{ID: f.nextID, Name: name, Price: price, CategoryID: categoryID}
	return f.nextID, nil
}

func (f *fakeCatalogStore) ListProducts(_ context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogStore) GetProduct(_ context.Context, id int64) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeCatalogStore) UpdateProductName(_ context.Context, id int64, name string) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.Name = name
	f.products[id] = p
	return 1, nil
}

func (f *fakeCatalogStore) UpdateProductPrice(_ context.Context, id int64, price models.Money) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.Price = price
	f.products[id] = p
	return 1, nil
}

func (f *fakeCatalogStore) UpdateProductCategory(_ context.Context, id int64, categoryID *int64) (int64, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, nil
	}
	p.CategoryID = categoryID
	f.products[id] = p
	return 1, nil
}

func (f *fakeCatalogStore) DeleteProduct(_ context.Context, id int64) (int64, error) {
	if _, ok := f.products[id]; !ok {
		return 0, nil
	}
	delete(f.products, id)
	return 1, nil
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := NewCatalog(newFakeCatalogStore())
	_, err := svc.CreateCategory(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateCategoryCollisionIsStoreFailure(t *testing.T) {
	st := newFakeCatalogStore()
	svc := NewCatalog(st)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "drinks")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "drinks")
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestEnsureCategoryReusesExisting(t *testing.T) {
	st := newFakeCatalogStore()
	svc := NewCatalog(st)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, "drinks")
	require.NoError(t, err)

	again, err := svc.EnsureCategory(ctx, "drinks")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, st.categories, 1)
}

func TestEnsureCategoryCreatesWhenMissing(t *testing.T) {
	st := newFakeCatalogStore()
	svc := NewCatalog(st)

	id, err := svc.EnsureCategory(context.Background(), "desserts")
	require.NoError(t, err)
	assert.Equal(t, "desserts", st.categories[id].Name)
}

func TestGetCategoryNotFound(t *testing.T) {
	svc := NewCatalog(newFakeCatalogStore())
	_, err := svc.GetCategory(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameCategoryNotFound(t *testing.T) {
	svc := NewCatalog(newFakeCatalogStore())
	err := svc.RenameCategory(context.Background(), 42, "renamed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	st := newFakeCatalogStore()
	svc := NewCatalog(st)
	ctx := context.Background()

	catID, err := svc.CreateCategory(ctx, "drinks")
	require.NoError(t, err)
	prodID, err := svc.CreateProduct(ctx, models.ProductDraft{Name: "espresso", Price: 2550}, &catID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, catID))

	p, err := svc.GetProduct(ctx, prodID)
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewCatalog(newFakeCatalogStore())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, models.ProductDraft{Name: "", Price: 100}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, models.ProductDraft{Name: "espresso", Price: -1}, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc := NewCatalog(newFakeCatalogStore())
	missing := int64(99)
	_, err := svc.CreateProduct(context.Background(), models.ProductDraft{Name: "espresso", Price: 100}, &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductLifecycle(t *testing.T) {
	st := newFakeCatalogStore()
	svc := NewCatalog(st)
	ctx := context.Background()

	id, err := svc.CreateProduct(ctx, models.ProductDraft{Name: "espresso", Price: 2550}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RenameProduct(ctx, id, "double espresso"))
	require.NoError(t, svc.RepriceProduct(ctx, id, 3000))

	p, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "double espresso", p.Name)
	assert.Equal(t, models.Money(3000), p.Price)

	require.NoError(t, svc.DeleteProduct(ctx, id))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, id), ErrNotFound)
}
