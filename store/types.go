// Package store holds the transfer objects an online shop sends for its orders.
// They carry no identity semantics of their own.
package store

import (
	"time"
)

// OrderStatus is the shop-side order state.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Customer is the buyer as seen by the shop.
type Customer struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`

	// Orders back-references the orders of the customer.
	Orders []*Order `json:"orders,omitempty"`
}

// Product is a catalogue item.
type Product struct {
	ID         int    `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// Address is a postal address snapshot.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Order is a purchase with its lines.
type Order struct {
	ID              int               `json:"id"`
	Number          string            `json:"number"`
	Status          OrderStatus       `json:"status"`
	Customer        *Customer         `json:"customer"`
	Lines           []OrderLine       `json:"lines"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	ShippingAddress *Address          `json:"shipping_address,omitempty"`
	PlacedAt        time.Time         `json:"placed_at"`
	InternalNote    string            `json:"-"`
}

// OrderLine is one product position within an order.
type OrderLine struct {
	OrderID   int      `json:"order_id"`
	LineNo    int      `json:"line_no"`
	Product   *Product `json:"product"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
}
