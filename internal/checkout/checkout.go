// Package checkout prices a cart for a delivery vendor and turns it into an
// order.
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vitalplan/internal/cart"
	"vitalplan/internal/domain"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrBlankAddress    = errors.New("delivery address is required")
	ErrUnknownVendor   = errors.New("unknown vendor")
	ErrUnknownPayment  = errors.New("unknown payment method")
	ErrInvalidCartLine = errors.New("cart contains an invalid line")
)

// TaxRate is applied to the subtotal only.
var TaxRate = decimal.RequireFromString("0.08")

// Vendor is a delivery provider with a flat fee.
type Vendor struct {
	ID           domain.VendorID
	Name         string
	Logo         string
	DeliveryTime string
	DeliveryFee  decimal.Decimal
}

var vendors = []Vendor{
	{ID: domain.VendorAmazon, Name: "Amazon Fresh", Logo: "📦", DeliveryTime: "2-4 hours", DeliveryFee: decimal.RequireFromString("5.99")},
	{ID: domain.VendorWalmart, Name: "Walmart Grocery", Logo: "🛒", DeliveryTime: "1-3 hours", DeliveryFee: decimal.RequireFromString("3.95")},
	{ID: domain.VendorLocal, Name: "Local Stores", Logo: "🏪", DeliveryTime: "30-60 min", DeliveryFee: decimal.RequireFromString("2.99")},
}

// DefaultVendor is preselected at checkout.
const DefaultVendor = domain.VendorAmazon

// Vendors lists the delivery options in display order.
func Vendors() []Vendor {
	out := make([]Vendor, len(vendors))
	copy(out, vendors)
	return out
}

// LookupVendor finds a vendor by id.
func LookupVendor(id domain.VendorID) (Vendor, error) {
	for _, v := range vendors {
		if v.ID == id {
			return v, nil
		}
	}
	return Vendor{}, fmt.Errorf("%w: %q", ErrUnknownVendor, id)
}

// PaymentMethod is how the customer pays.
type PaymentMethod struct {
	ID    string
	Label string
}

const DefaultPaymentMethod = "card"

var paymentMethods = []PaymentMethod{
	{ID: "card", Label: "Credit/Debit Card"},
	{ID: "paypal", Label: "PayPal"},
	{ID: "apple-pay", Label: "Apple Pay"},
	{ID: "google-pay", Label: "Google Pay"},
}

func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

func validPayment(id string) bool {
	for _, p := range paymentMethods {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Quote is the price breakdown for a cart and vendor.
type Quote struct {
	Vendor      Vendor
	ItemCount   int
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	GrandTotal  decimal.Decimal
}

// NewQuote prices items for the vendor. Tax is rounded to cents.
func NewQuote(items []domain.OrderItem, vendorID domain.VendorID) (Quote, error) {
	v, err := LookupVendor(vendorID)
	if err != nil {
		return Quote{}, err
	}
	subtotal := cart.Total(items)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Quote{
		Vendor:      v,
		ItemCount:   cart.ItemCount(items),
		Subtotal:    subtotal,
		DeliveryFee: v.DeliveryFee,
		Tax:         tax,
		GrandTotal:  subtotal.Add(v.DeliveryFee).Add(tax),
	}, nil
}

// Request carries everything needed to place an order.
type Request struct {
	Items         []domain.OrderItem
	Vendor        domain.VendorID
	Address       string
	PaymentMethod string
	UserID        string
}

// PlaceOrder validates the request and builds a pending order whose items
// are a snapshot of the cart. It does not touch the cart itself.
func PlaceOrder(req Request, now time.Time) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return domain.Order{}, ErrBlankAddress
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.Price.IsNegative() || it.ID == "" {
			return domain.Order{}, fmt.Errorf("%w: %q", ErrInvalidCartLine, it.ID)
		}
	}
	payment := req.PaymentMethod
	if payment == "" {
		payment = DefaultPaymentMethod
	}
	if !validPayment(payment) {
		return domain.Order{}, fmt.Errorf("%w: %q", ErrUnknownPayment, payment)
	}

	q, err := NewQuote(req.Items, req.Vendor)
	if err != nil {
		return domain.Order{}, err
	}

	snapshot := make([]domain.OrderItem, len(req.Items))
	copy(snapshot, req.Items)

	return domain.Order{
		ID:              "order-" + uuid.NewString(),
		UserID:          req.UserID,
		Items:           snapshot,
		Subtotal:        q.Subtotal,
		DeliveryFee:     q.DeliveryFee,
		Tax:             q.Tax,
		Total:           q.GrandTotal,
		Status:          domain.OrderPending,
		Vendor:          q.Vendor.ID,
		DeliveryAddress: address,
		PaymentMethod:   payment,
		CreatedAt:       now,
	}, nil
}
