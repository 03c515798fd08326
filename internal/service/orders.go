package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m3rciful/posbot/core/logger"
	"github.com/m3rciful/posbot/internal/models"
	"log/slog"
)

// recentOrderLimit caps the order listing.
const recentOrderLimit = 50

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, customerID int64, total models.Money, items []models.OrderItemDraft) (int64, time.Time, error)
	ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	SetOrderStatus(ctx context.Context, id int64, status string) (int64, error)
}

// Receipt summarises a committed order for presentation.
type Receipt struct {
	OrderID int64
	Date    time.Time
	Total   models.Money
}

// OrderView is an order header together with its line items.
type OrderView struct {
	Order models.Order
	Items []models.OrderItem
}

// Orders implements order commit, listing, search, and status changes.
type Orders struct {
	store OrderStore
}

// NewOrders builds an Orders service over the given store.
func NewOrders(s OrderStore) *Orders {
	return &Orders{store: s}
}

// Commit persists a draft order as one transaction: the header with the
// computed total plus one row per accumulated item, each carrying its
// snapshotted unit price. A draft with zero items is rejected before
// touching the store.
func (o *Orders) Commit(ctx context.Context, draft *models.OrderDraft) (Receipt, error) {
	if draft == nil || len(draft.Items) == 0 {
		return Receipt{}, ErrEmptyOrder
	}
	total := draft.Total()

	id, date, err := o.store.CreateOrderWithItems(ctx, draft.CustomerID, total, draft.Items)
	if err != nil {
		logger.Error(ctx, "service.orders", "order.create.failed",
			slog.Int64("customer_id", draft.CustomerID),
			slog.Int("items", len(draft.Items)),
			slog.String("err", err.Error()))
		return Receipt{}, fmt.Errorf("%w: %v", ErrStore, err)
	}

	logger.Info(ctx, "service.orders", "order.created",
		slog.Int64("order_id", id),
		slog.Int64("customer_id", draft.CustomerID),
		slog.Int("items", len(draft.Items)),
		slog.String("total", total.String()))
	return Receipt{OrderID: id, Date: date, Total: total}, nil
}

// ListRecent returns up to 50 orders, newest first.
func (o *Orders) ListRecent(ctx context.Context) ([]models.Order, error) {
	out, err := o.store.ListRecentOrders(ctx, recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil
}

// Search fetches one order with all its items. Items whose product was
// deleted come back with a nil product name; callers render a
// placeholder.
func (o *Orders) Search(ctx context.Context, id int64) (OrderView, error) {
	order, err := o.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderView{}, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return OrderView{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	items, err := o.store.ListOrderItems(ctx, id)
	if err != nil {
		return OrderView{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return OrderView{Order: order, Items: items}, nil
}

// SetStatus transitions an order to one of pending/served/cancelled.
func (o *Orders) SetStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: status %q", ErrValidation, status)
	}
	n, err := o.store.SetOrderStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	logger.Info(ctx, "service.orders", "order.status.changed",
		slog.Int64("order_id", id),
		slog.String("order_status", status))
	return nil
}
