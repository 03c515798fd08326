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

// CustomerStore is the persistence surface the customer service needs.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, name string, phone *string) (int64, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (models.Customer, error)
}

// Customers implements customer ledger operations.
type Customers struct {
	store CustomerStore
}

// NewCustomers builds a Customers service over the given store.
func NewCustomers(s CustomerStore) *Customers {
	return &Customers{store: s}
}

// Create inserts a customer. The phone is optional: empty input or the
// literal "-" means no phone.
func (c *Customers) Create(ctx context.Context, name, phone string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: customer name must not be empty", ErrValidation)
	}
	var phonePtr *string
	if p := strings.TrimSpace(phone); p != "" && p != "-" {
		phonePtr = &p
	}
	id, err := c.store.CreateCustomer(ctx, name, phonePtr)
	if err != nil {
		logger.Error(ctx, "service.customers", "customer.create.failed",
			slog.String("err", err.Error()))
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	logger.Info(ctx, "service.customers", "customer.created",
		slog.Int64("customer_id", id))
	return id, nil
}

// List returns all customers ordered by name.
func (c *Customers) List(ctx context.Context) ([]models.Customer, error) {
	out, err := c.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return out, nil
}

// Get fetches one customer.
func (c *Customers) Get(ctx context.Context, id int64) (models.Customer, error) {
	cust, err := c.store.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, fmt.Errorf("%w: customer %d", ErrNotFound, id)
		}
		return models.Customer{}, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return cust, nil
}
