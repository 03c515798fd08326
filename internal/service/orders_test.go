package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/posbot/internal/models"
)

type fakeOrderStore struct {
	createErr error

	lastCustomerID int64
	lastTotal      models.Money
	lastItems      []models.OrderItemDraft

	orders map[int64]models.Order
	items  map[int64][]models.OrderItem
	nextID int64

	statusCalls int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[int64]models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (f *fakeOrderStore) CreateOrderWithItems(_ context.Context, customerID int64, total models.Money, items []models.OrderItemDraft) (int64, time.Time, error) {
	if f.createErr != nil {
		return 0, time.Time{}, f.createErr
	}
	f.lastCustomerID = customerID
	f.lastTotal = total
	f.lastItems = items

	f.nextID++
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	f.orders[f.nextID] = models.Order{
		ID:         f.nextID,
		CustomerID: &customerID,
		OrderDate:  now,
		Total:      total,
		Status:     models.StatusPending,
	}
	for _, it := range items {
		name := it.Name
		f.items[f.nextID] = append(f.items[f.nextID], models.OrderItem{
			OrderID:      f.nextID,
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PriceAtOrder: it.UnitPrice,
			ProductName:  &name,
		})
	}
	return f.nextID, now, nil
}

func (f *fakeOrderStore) ListRecentOrders(_ context.Context, limit int) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, id int64) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, sql.ErrNoRows
	}
	return o, nil
}

func (f *fakeOrderStore) ListOrderItems(_ context.Context, orderID int64) ([]models.OrderItem, error) {
	return f.items[orderID], nil
}

func (f *fakeOrderStore) SetOrderStatus(_ context.Context, id int64, status string) (int64, error) {
	f.statusCalls++
	o, ok := f.orders[id]
	if !ok {
		return 0, nil
	}
	o.Status = status
	f.orders[id] = o
	return 1, nil
}

func TestCommitRejectsEmptyDraft(t *testing.T) {
	st := newFakeOrderStore()
	svc := NewOrders(st)
	ctx := context.Background()

	_, err := svc.Commit(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Commit(ctx, &models.OrderDraft{CustomerID: 7})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	assert.Empty(t, st.orders, "empty draft must not touch the store")
}

func TestCommitComputesTotalFromSnapshots(t *testing.T) {
	st := newFakeOrderStore()
	svc := NewOrders(st)

	draft := &models.OrderDraft{
		CustomerID: 7,
		Items: []models.OrderItemDraft{
			{ProductID: 3, Name: "espresso", Quantity: 2, UnitPrice: 2550},
			{ProductID: 9, Name: "cake", Quantity: 1, UnitPrice: 1000},
		},
	}

	receipt, err := svc.Commit(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, models.Money(6100), receipt.Total)
	assert.Equal(t, "61.00", receipt.Total.String())
	assert.Equal(t, int64(7), st.lastCustomerID)
	assert.Len(t, st.lastItems, 2)
	assert.Equal(t, models.Money(2550), st.lastItems[0].UnitPrice)
}

func TestCommitStoreFailure(t *testing.T) {
	st := newFakeOrderStore()
	st.createErr = errors.New("connection reset")
	svc := NewOrders(st)

	draft := &models.OrderDraft{
		CustomerID: 7,
		Items:      []models.OrderItemDraft{{ProductID: 3, Name: "espresso", Quantity: 1, UnitPrice: 100}},
	}
	_, err := svc.Commit(context.Background(), draft)
	assert.ErrorIs(t, err, ErrStore)
	assert.Empty(t, st.orders)
}

func TestSearchReturnsHeaderAndItems(t *testing.T) {
	st := newFakeOrderStore()
	svc := NewOrders(st)
	ctx := context.Background()

	receipt, err := svc.Commit(ctx, &models.OrderDraft{
		CustomerID: 7,
		Items:      []models.OrderItemDraft{{ProductID: 3, Name: "espresso", Quantity: 2, UnitPrice: 2550}},
	})
	require.NoError(t, err)

	view, err := svc.Search(ctx, receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, receipt.OrderID, view.Order.ID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, models.Money(2550), view.Items[0].PriceAtOrder)
}

func TestSearchNotFound(t *testing.T) {
	svc := NewOrders(newFakeOrderStore())
	_, err := svc.Search(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	st := newFakeOrderStore()
	svc := NewOrders(st)
	ctx := context.Background()

	receipt, err := svc.Commit(ctx, &models.OrderDraft{
		CustomerID: 7,
		Items:      []models.OrderItemDraft{{ProductID: 3, Name: "espresso", Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, receipt.OrderID, models.StatusServed))
	assert.Equal(t, models.StatusServed, st.orders[receipt.OrderID].Status)

	err = svc.SetStatus(ctx, receipt.OrderID, "shipped")
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.SetStatus(ctx, 404, models.StatusServed)
	assert.ErrorIs(t, err, ErrNotFound)
}
