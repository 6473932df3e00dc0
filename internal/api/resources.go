package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"vitalplan/internal/domain"
)

// Users

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var dto userDTO
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, nil, &dto); err != nil {
		return domain.User{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return dto.toDomain(), nil
}

func (c *Client) UpdateMe(ctx context.Context, u domain.User) (domain.User, error) {
	var dto userDTO
	if err := c.doJSON(ctx, http.MethodPut, "/users/me", nil, u, &dto); err != nil {
		return domain.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return dto.toDomain(), nil
}

func (c *Client) DeleteMe(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/users/me", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return c.tokens.ClearToken()
}

// Goals

func (c *Client) Goals(ctx context.Context) ([]domain.Goal, error) {
	var dtos []goalDTO
	if err := c.doJSON(ctx, http.MethodGet, "/goals", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return mapSlice(dtos, goalDTO.toDomain), nil
}

func (c *Client) CreateGoal(ctx context.Context, g domain.Goal) (domain.Goal, error) {
	var dto goalDTO
	if err := c.doJSON(ctx, http.MethodPost, "/goals", nil, g, &dto); err != nil {
		return domain.Goal{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return dto.toDomain(), nil
}

func (c *Client) UpdateGoal(ctx context.Context, id string, g domain.Goal) (domain.Goal, error) {
	var dto goalDTO
	if err := c.doJSON(ctx, http.MethodPut, "/goals/"+pathID(id), nil, g, &dto); err != nil {
		return domain.Goal{}, fmt.Errorf("failed to update goal %s: %w", id, err)
	}
	return dto.toDomain(), nil
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/goals/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", id, err)
	}
	return nil
}

// Diet plans

type generateRequest struct {
	Goals       []domain.Goal  `json:"goals"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

func (c *Client) Plans(ctx context.Context) ([]domain.DietPlan, error) {
	var dtos []planDTO
	if err := c.doJSON(ctx, http.MethodGet, "/diet-plans", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return mapSlice(dtos, planDTO.toDomain), nil
}

func (c *Client) GeneratePlan(ctx context.Context, goals []domain.Goal, prefs map[string]any) (domain.DietPlan, error) {
	var dto planDTO
	body := generateRequest{Goals: goals, Preferences: prefs}
	if err := c.doJSON(ctx, http.MethodPost, "/diet-plans/generate", nil, body, &dto); err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to generate plan: %w", err)
	}
	return dto.toDomain(), nil
}

func (c *Client) Plan(ctx context.Context, id string) (domain.DietPlan, error) {
	var dto planDTO
	if err := c.doJSON(ctx, http.MethodGet, "/diet-plans/"+pathID(id), nil, nil, &dto); err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to load plan %s: %w", id, err)
	}
	return dto.toDomain(), nil
}

func (c *Client) UpdatePlan(ctx context.Context, id string, p domain.DietPlan) (domain.DietPlan, error) {
	var dto planDTO
	if err := c.doJSON(ctx, http.MethodPut, "/diet-plans/"+pathID(id), nil, p, &dto); err != nil {
		return domain.DietPlan{}, fmt.Errorf("failed to update plan %s: %w", id, err)
	}
	return dto.toDomain(), nil
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/diet-plans/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", id, err)
	}
	return nil
}

// Scanner

// AnalyzeImage uploads a photo as the multipart field "file".
func (c *Client) AnalyzeImage(ctx context.Context, filename string, data []byte) (domain.ScannedFood, error) {
	if filename == "" {
		filename = "capture.jpg"
	}
	var dto scanDTO
	if err := c.upload(ctx, "/scanner/analyze-image", "file", filename, data, &dto); err != nil {
		return domain.ScannedFood{}, fmt.Errorf("failed to analyze image: %w", err)
	}
	return dto.toDomain(), nil
}

// ScanHistory lists past scans. limit ≤ 0 leaves the backend default.
func (c *Client) ScanHistory(ctx context.Context, limit int) ([]domain.ScannedFood, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var dtos []scanDTO
	if err := c.doJSON(ctx, http.MethodGet, "/scanner/history", q, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to load scan history: %w", err)
	}
	return mapSlice(dtos, scanDTO.toDomain), nil
}

func (c *Client) DeleteScan(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/scanner/history/"+pathID(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete scan %s: %w", id, err)
	}
	return nil
}

func (c *Client) ScanBarcode(ctx context.Context, barcode string) (domain.ScannedFood, error) {
	var dto scanDTO
	if err := c.doJSON(ctx, http.MethodPost, "/scanner/barcode/"+pathID(barcode), nil, nil, &dto); err != nil {
		return domain.ScannedFood{}, fmt.Errorf("failed to scan barcode %s: %w", barcode, err)
	}
	f := dto.toDomain()
	if f.Barcode == "" {
		f.Barcode = barcode
	}
	return f, nil
}

// Marketplace

// ItemQuery filters the marketplace listing. Zero values are omitted.
type ItemQuery struct {
	Category string
	Search   string
	SortBy   string
	Limit    int
	Offset   int
}

func (q ItemQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

type ItemPage struct {
	Items  []domain.MarketplaceItem `json:"items"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type Recommendations struct {
	Items  []domain.MarketplaceItem `json:"recommendations"`
	Reason string                   `json:"reason"`
}

func (c *Client) Items(ctx context.Context, q ItemQuery) (ItemPage, error) {
	var page ItemPage
	if err := c.doJSON(ctx, http.MethodGet, "/marketplace/items", q.values(), nil, &page); err != nil {
		return ItemPage{}, fmt.Errorf("failed to list marketplace items: %w", err)
	}
	return page, nil
}

func (c *Client) Item(ctx context.Context, id string) (domain.MarketplaceItem, error) {
	var item domain.MarketplaceItem
	if err := c.doJSON(ctx, http.MethodGet, "/marketplace/items/"+pathID(id), nil, nil, &item); err != nil {
		return domain.MarketplaceItem{}, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	return item, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	var cats []domain.CategoryCount
	if err := c.doJSON(ctx, http.MethodGet, "/marketplace/categories", nil, nil, &cats); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}

func (c *Client) Recommendations(ctx context.Context, limit int) (Recommendations, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var rec Recommendations
	if err := c.doJSON(ctx, http.MethodGet, "/marketplace/recommendations", q, nil, &rec); err != nil {
		return Recommendations{}, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return rec, nil
}

// Orders

type createOrderRequest struct {
	Items           []domain.OrderItem `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	Vendor          domain.VendorID    `json:"vendor"`
	DeliveryAddress string             `json:"delivery_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// OrderReceipt is the backend's acknowledgement of a new order.
type OrderReceipt struct {
	OrderID string
	Status  domain.OrderStatus
	Message string
}

type receiptDTO struct {
	OrderID flexID             `json:"order_id"`
	Status  domain.OrderStatus `json:"status"`
	Message string             `json:"message"`
}

func (c *Client) CreateOrder(ctx context.Context, o domain.Order) (OrderReceipt, error) {
	body := createOrderRequest{
		Items:           o.Items,
		Total:           o.Total,
		Vendor:          o.Vendor,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
	}
	var rec receiptDTO
	if err := c.doJSON(ctx, http.MethodPost, "/orders", nil, body, &rec); err != nil {
		return OrderReceipt{}, fmt.Errorf("failed to create order: %w", err)
	}
	return OrderReceipt{OrderID: string(rec.OrderID), Status: rec.Status, Message: rec.Message}, nil
}

func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var dtos []orderDTO
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return mapSlice(dtos, orderDTO.toDomain), nil
}

func (c *Client) Order(ctx context.Context, id string) (domain.Order, error) {
	var dto orderDTO
	if err := c.doJSON(ctx, http.MethodGet, "/orders/"+pathID(id), nil, nil, &dto); err != nil {
		return domain.Order{}, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return dto.toDomain(), nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	body := map[string]domain.OrderStatus{"status": status}
	if err := c.doJSON(ctx, http.MethodPut, "/orders/"+pathID(id)+"/status", nil, body, nil); err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return nil
}
