package service

import "errors"

// Sentinel errors matched by handlers with errors.Is. Every failure a
// service returns wraps exactly one of these, so the presentation layer
// can pick a user-facing message without inspecting store internals.
var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks a reference to an id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStore marks a connection or statement failure in the store.
	ErrStore = errors.New("store failure")
	// ErrEmptyOrder marks an order commit attempted with zero items.
	ErrEmptyOrder = errors.New("order has no items")
)
