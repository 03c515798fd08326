package store

import (
	"github.com/jmoiron/sqlx"
)

// Store gives typed access to the ledger tables. All methods are single
// bounded statements except CreateOrderWithItems, which runs one
// transaction; nothing holds a transaction across user interaction.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}
