// Package warehouse holds the persistent entities the shop orders are mapped into.
package warehouse

import (
	"time"
)

// Customer is a buyer identified by ID.
type Customer struct {
	ID    int64 `mapper:",key"`
	Email string
	Name  string `mapper:"FullName"`

	Orders []*Order `mapper:",associated"`
}

// Product is a catalogue item identified by ID.
type Product struct {
	ID    int64 `mapper:",key"`
	SKU   string
	Name  string
	Price int64 `mapper:"PriceCents"`
}

// Address is stored inline with the order, it has no identity.
type Address struct {
	Street  string
	City    string
	Country string
}

// Order is identified by ID and owns its lines.
type Order struct {
	ID              int64 `mapper:",key"`
	Number          string
	Status          string
	Customer        *Customer
	Lines           []*OrderLine
	Attributes      map[string]string
	Tags            []string
	ShippingAddress Address
	PlacedAt        time.Time

	// Revision is maintained by the persistence layer.
	Revision int `mapper:"-"`
}

// OrderLine is identified by its order and line number.
type OrderLine struct {
	OrderID   int64 `mapper:",key"`
	LineNo    int   `mapper:",key"`
	Product   *Product
	Quantity  int
	UnitPrice int64
}
