package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType distinguishes the two kinds of purchasable lines.
type ItemType string

const (
	ItemSupplement ItemType = "supplement"
	ItemGrocery    ItemType = "grocery"
)

// OrderItem is one cart line. ID is the uniqueness key inside a cart.
type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Type     ItemType        `json:"type"`
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

type VendorID string

const (
	VendorAmazon  VendorID = "amazon"
	VendorWalmart VendorID = "walmart"
	VendorLocal   VendorID = "local"
)

// Order is immutable once created. Items is a snapshot of the cart at
// submission time and Total is the grand total including fee and tax.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	Vendor          VendorID        `json:"vendor"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
}
