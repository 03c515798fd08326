package models

import "time"

// Order status values persisted in the orders table.
const (
	StatusPending   = "pending"
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the allowed order states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusServed, StatusCancelled:
		return true
	}
	return false
}

// Category groups products; names are unique.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Product is a catalog entry. CategoryID is nullable: deleting a
// category detaches its products instead of removing them.
type Product struct {
	ID           int64   `db:"id"`
	Name         string  `db:"name"`
	Price        Money   `db:"price"`
	CategoryID   *int64  `db:"category_id"`
	CategoryName *string `db:"category_name"`
}

// Customer of the ledger; phone is optional.
type Customer struct {
	ID    int64   `db:"id"`
	Name  string  `db:"name"`
	Phone *string `db:"phone"`
}

// Order header. CustomerName is filled by list/search joins and is nil
// when the customer row was deleted.
type Order struct {
	ID           int64     `db:"id"`
	CustomerID   *int64    `db:"customer_id"`
	CustomerName *string   `db:"customer_name"`
	OrderDate    time.Time `db:"order_date"`
	Total        Money     `db:"total"`
	Status       string    `db:"status"`
}

// OrderItem is one committed line of an order. PriceAtOrder is the unit
// price snapshotted when the item was added to the draft, never the live
// catalog price. ProductName is nil when the product was deleted since.
type OrderItem struct {
	ID           int64   `db:"id"`
	OrderID      int64   `db:"order_id"`
	ProductID    int64   `db:"product_id"`
	Quantity     int     `db:"quantity"`
	PriceAtOrder Money   `db:"price_at_order"`
	ProductName  *string `db:"product_name"`
}

// ProductDraft carries a half-built product through the add-product flow.
type ProductDraft struct {
	Name  string
	Price Money
}

// OrderItemDraft is one accumulated line of a draft order. Name and
// UnitPrice are snapshots taken when the item was added.
type OrderItemDraft struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice Money
}

// OrderDraft is the in-progress order kept in session scratch until
// commit or cancellation.
type OrderDraft struct {
	CustomerID int64
	Items      []OrderItemDraft
}

// Total sums quantity times snapshotted unit price over all items.
func (d *OrderDraft) Total() Money {
	var total Money
	for _, it := range d.Items {
		total += it.UnitPrice.Mul(it.Quantity)
	}
	return total
}
