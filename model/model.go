package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment lifecycle of an order. An order is created
// PENDING and transitions to PAID exactly once, driven by the payment
// provider's completion notification.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is the live catalog record. Prices are decimals serialized as
// strings so they never pass through a float.
type Product struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Stock       int             `json:"stock"`
}

// OrderItem is a snapshot of a product taken at order time. It is owned by
// its order and never reflects later edits to the product record.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
}

// ShippingAddress is created once per order and owned exclusively by it.
type ShippingAddress struct {
	ID      string `json:"id,omitempty"`
	Line1   string `json:"line_1"`
	Line2   string `json:"line_2"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Phone   string `json:"phone"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ProductSnapshot is the product data the client submits with a checkout
// request. The order item snapshot is built from it.
type ProductSnapshot struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
}

type CheckoutItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

type CheckoutRequest struct {
	Items           []CheckoutItem  `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}
