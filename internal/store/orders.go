package store

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/posbot/internal/models"
)

// CreateOrderWithItems persists an order header plus all its line items
// in one transaction. If any insert fails the whole order is rolled
// back, so a total-bearing header can never outlive its items.
func (s *Store) CreateOrderWithItems(ctx context.Context, customerID int64, total models.Money, items []models.OrderItemDraft) (int64, time.Time, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		orderID   int64
		orderDate time.Time
	)
	row := tx.QueryRowxContext(ctx,
		`INSERT INTO orders (customer_id, total, status) VALUES ($1, $2, $3) RETURNING id, order_date`,
		customerID, total, models.StatusPending)
	if err := row.Scan(&orderID, &orderDate); err != nil {
		return 0, time.Time{}, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price_at_order) VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, time.Time{}, fmt.Errorf("commit order: %w", err)
	}
	return orderID, orderDate, nil
}

// ListRecentOrders returns up to limit orders, newest first, with the
// customer name resolved (nil when the customer row is gone).
func (s *Store) ListRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var out []models.Order
	err := s.db.SelectContext(ctx, &out, `
		SELECT o.id, o.customer_id, c.name AS customer_name, o.order_date, o.total, o.status
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		ORDER BY o.order_date DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return out, nil
}

// GetOrder fetches one order header by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	var o models.Order
	err := s.db.GetContext(ctx, &o, `
		SELECT o.id, o.customer_id, c.name AS customer_name, o.order_date, o.total, o.status
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		WHERE o.id = $1`, id)
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// ListOrderItems returns the line items of an order. Product names are
// resolved live and come back nil for deleted products.
func (s *Store) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var out []models.OrderItem
	err := s.db.SelectContext(ctx, &out, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_order, p.name AS product_name
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	return out, nil
}

// SetOrderStatus updates the status column. Returns affected row count.
func (s *Store) SetOrderStatus(ctx context.Context, id int64, status string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}
	return res.RowsAffected()
}
