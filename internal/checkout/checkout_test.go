package checkout

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/domain"
)

func sampleCart() []domain.OrderItem {
	return []domain.OrderItem{
		{ID: "a", Name: "A", Quantity: 2, Price: decimal.NewFromInt(10), Type: domain.ItemGrocery},
		{ID: "b", Name: "B", Quantity: 1, Price: decimal.NewFromInt(5), Type: domain.ItemSupplement},
	}
}

func TestNewQuote(t *testing.T) {
	q, err := NewQuote(sampleCart(), domain.VendorAmazon)
	require.NoError(t, err)

	assert.Equal(t, "25.00", q.Subtotal.StringFixed(2))
	assert.Equal(t, "5.99", q.DeliveryFee.StringFixed(2))
	assert.Equal(t, "2.00", q.Tax.StringFixed(2))
	assert.Equal(t, "32.99", q.GrandTotal.StringFixed(2))
	assert.Equal(t, 3, q.ItemCount)

	t.Run("PerVendorFees", func(t *testing.T) {
		fees := map[domain.VendorID]string{
			domain.VendorAmazon:  "5.99",
			domain.VendorWalmart: "3.95",
			domain.VendorLocal:   "2.99",
		}
		for id, fee := range fees {
			q, err := NewQuote(sampleCart(), id)
			require.NoError(t, err)
			assert.Equal(t, fee, q.DeliveryFee.StringFixed(2))
		}
	})

	t.Run("TaxRoundsToCents", func(t *testing.T) {
		items := []domain.OrderItem{{ID: "x", Quantity: 1, Price: decimal.RequireFromString("9.99")}}
		q, err := NewQuote(items, domain.VendorLocal)
		require.NoError(t, err)
		// 9.99 * 0.08 = 0.7992
		assert.Equal(t, "0.8", q.Tax.String())
	})

	t.Run("UnknownVendor", func(t *testing.T) {
		_, err := NewQuote(sampleCart(), "fedex")
		assert.ErrorIs(t, err, ErrUnknownVendor)
	})
}

func TestPlaceOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		items := sampleCart()
		order, err := PlaceOrder(Request{Items: items, Vendor: domain.VendorAmazon, Address: " 1 Main St ", UserID: "u-1"}, now)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderPending, order.Status)
		assert.Equal(t, "32.99", order.Total.StringFixed(2))
		assert.Equal(t, "1 Main St", order.DeliveryAddress)
		assert.Equal(t, DefaultPaymentMethod, order.PaymentMethod)
		assert.Equal(t, now, order.CreatedAt)
		assert.NotEmpty(t, order.ID)

		items[0].Quantity = 99
		assert.Equal(t, 2, order.Items[0].Quantity, "order must keep its own snapshot")
	})

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"EmptyCart", Request{Vendor: domain.VendorAmazon, Address: "x"}, ErrEmptyCart},
		{"BlankAddress", Request{Items: sampleCart(), Vendor: domain.VendorAmazon, Address: "   "}, ErrBlankAddress},
		{"UnknownVendor", Request{Items: sampleCart(), Vendor: "drone", Address: "x"}, ErrUnknownVendor},
		{"UnknownPayment", Request{Items: sampleCart(), Vendor: domain.VendorLocal, Address: "x", PaymentMethod: "iou"}, ErrUnknownPayment},
		{"BadLine", Request{Items: []domain.OrderItem{{ID: "z", Quantity: 0}}, Vendor: domain.VendorLocal, Address: "x"}, ErrInvalidCartLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlaceOrder(tt.req, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCatalogs(t *testing.T) {
	assert.Len(t, Vendors(), 3)
	assert.Equal(t, "Amazon Fresh", Vendors()[0].Name)
	ids := []string{}
	for _, p := range PaymentMethods() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"card", "paypal", "apple-pay", "google-pay"}, ids)
}
