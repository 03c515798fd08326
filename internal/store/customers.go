package store

import (
	"context"
	"fmt"

	"github.com/m3rciful/posbot/internal/models"
)

// CreateCustomer inserts a customer and returns its generated id.
// phone may be nil.
func (s *Store) CreateCustomer(ctx context.Context, name string, phone *string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`INSERT INTO customers (name, phone) VALUES ($1, $2) RETURNING id`, name, phone)
	if err != nil {
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}

// ListCustomers returns all customers ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, phone FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	return out, nil
}

// GetCustomer fetches one customer by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetCustomer(ctx context.Context, id int64) (models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name, phone FROM customers WHERE id = $1`, id)
	if err != nil {
		return models.Customer{}, err
	}
	return c, nil
}
