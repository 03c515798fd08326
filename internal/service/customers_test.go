package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/posbot/internal/models"
)

type fakeCustomerStore struct {
	customers map[int64]models.Customer
	nextID    int64
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[int64]models.Customer)}
}

func (f *fakeCustomerStore) CreateCustomer(_ context.Context, name string, phone *string) (int64, error) {
	f.nextID++
	f.customers[f.nextID] = models.Customer{ID: f.nextID, Name: name, Phone: phone}
	return f.nextID, nil
}

func (f *fakeCustomerStore) ListCustomers(_ context.Context) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerStore) GetCustomer(_ context.Context, id int64) (models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return models.Customer{}, sql.ErrNoRows
	}
	return c, nil
}

func TestCreateCustomerPhoneOptional(t *testing.T) {
	st := newFakeCustomerStore()
	svc := NewCustomers(st)
	ctx := context.Background()

	id, err := svc.Create(ctx, "Alex", "-")
	require.NoError(t, err)
	assert.Nil(t, st.customers[id].Phone)

	id, err = svc.Create(ctx, "Sam", "  ")
	require.NoError(t, err)
	assert.Nil(t, st.customers[id].Phone)

	id, err = svc.Create(ctx, "Kim", " 555-0199 ")
	require.NoError(t, err)
	require.NotNil(t, st.customers[id].Phone)
	assert.Equal(t, "555-0199", *st.customers[id].Phone)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewCustomers(newFakeCustomerStore())
	_, err := svc.Create(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewCustomers(newFakeCustomerStore())
	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
