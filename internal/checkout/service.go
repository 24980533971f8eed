// Package checkout turns a session cart and a shipping form into a persisted order.
package checkout

import (
	"context"
	"time"

	"github.com/01moynul/mayaj-store/internal/cart"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
)

// OrderCreator persists an order and its items as one unit and fills in the ids,
// order number and timestamps.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

// Service runs the checkout pipeline.
type Service struct {
	Products cart.ProductFinder
	Orders   OrderCreator
	Rates    Rates
	Log      *logger.Logger
}

func NewService(products cart.ProductFinder, orders OrderCreator, rates Rates, log *logger.Logger) *Service {
	return &Service{Products: products, Orders: orders, Rates: rates, Log: log.With("component", "checkout")}
}

// Summary is what the checkout page shows before the form is submitted.
type Summary struct {
	Items  []cart.Item `json:"items"`
	Totals Totals      `json:"totals"`
}

// Preview resolves the cart and prices it at the inside-area shipping rate.
func (s *Service) Preview(ctx context.Context, c *cart.Cart) (*Summary, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	seq, err := c.Items(ctx, s.Products)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Totals: ComputeTotals(c.TotalPrice(), AreaInside, s.Rates)}
	for _, it := range seq {
		sum.Items = append(sum.Items, it)
	}
	return sum, nil
}

// PlaceOrder validates the cart against the catalog and persists a pending order.
// Item name, size, quantity and price come from the cart snapshot. The cart itself is
// not touched; the caller clears it once the order is stored.
func (s *Service) PlaceOrder(ctx context.Context, c *cart.Cart, form Form, userID *int64) (*models.Order, error) {
	// 1. --- Guard: nothing to buy ---
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// 2. --- Resolve products in one lookup ---
	seq, err := c.Items(ctx, s.Products)
	if err != nil {
		return nil, err
	}
	resolved := make(map[cart.Key]bool, c.Len())
	var items []models.OrderItem
	for key, it := range seq {
		if !it.Product.IsActive {
			return nil, &UnavailableError{ProductID: it.ProductID, Name: it.Product.Name}
		}
		resolved[key] = true
		item := models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			Price:       it.UnitPrice,
		}
		if it.Size != "" {
			item.Size = optional(it.Size)
		}
		items = append(items, item)
	}
	for _, l := range c.Lines() {
		if !resolved[l.Key()] {
			return nil, &UnavailableError{ProductID: l.ProductID}
		}
	}

	// 3. --- Totals ---
	totals := ComputeTotals(c.TotalPrice(), DeliveryArea(form.DeliveryArea), s.Rates)

	// 4. --- Build the order ---
	order := &models.Order{
		UserID:             userID,
		Status:             models.OrderPending,
		PaymentStatus:      models.PaymentPending,
		PaymentMethod:      models.PaymentMethod(form.PaymentMethod),
		Subtotal:           totals.Subtotal,
		Discount:           totals.Discount,
		Tax:                totals.Tax,
		ShippingCost:       totals.ShippingCost,
		Total:              totals.Total,
		ShippingFullName:   form.ShippingFullName,
		ShippingEmail:      form.ShippingEmail,
		ShippingPhone:      form.ShippingPhone,
		ShippingAddress:    form.ShippingAddress,
		ShippingCity:       form.ShippingCity,
		ShippingState:      optional(form.ShippingState),
		ShippingZipCode:    optional(form.ShippingZipCode),
		TransactionID:      optional(form.TransactionID),
		SenderMobileNumber: optional(form.SenderMobileNumber),
		Notes:              optional(form.Notes),
		Items:              items,
	}

	// 5. --- Persist order + items atomically ---
	start := time.Now()
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		s.Log.Error("order persistence failed", "error", err, "lines", len(items))
		return nil, err
	}
	s.Log.Info("order placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total", order.Total.String(),
		"items", len(order.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return order, nil
}

// ValidateBuyNow checks a direct purchase before it is added to the cart. With a size
// the size's own stock is checked, otherwise the product's.
func ValidateBuyNow(p *models.Product, quantity int, size string) error {
	if !p.IsActive {
		return &UnavailableError{ProductID: p.ID, Name: p.Name}
	}
	if quantity < 1 {
		return cart.ErrInvalidQuantity
	}
	if size == "" {
		if p.HasSizes() {
			return ErrSizeRequired
		}
		if quantity > p.StockQuantity {
			return &StockError{Available: p.StockQuantity}
		}
		return nil
	}
	ps := p.SizeNamed(size)
	if ps == nil {
		return ErrUnknownSize
	}
	if quantity > ps.StockQuantity {
		return &StockError{Available: ps.StockQuantity, Size: size}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
