package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/middleware"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/orders"
	"github.com/01moynul/mayaj-store/internal/store"
)

//
// --- Staff: Order Management Handlers ---
//

// adminError maps store and lifecycle failures onto JSON statuses.
func (h *Handlers) adminError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock to fulfil this order"})
	default:
		h.serverError(c, msg, err)
	}
}

// staffID is logged with every admin mutation.
func staffID(c *gin.Context) int64 {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// AdminListOrders is the handler for GET /admin/orders?status=&limit=&offset=
func (h *Handlers) AdminListOrders(c *gin.Context) {
	// 1. --- Build Filter ---
	f := store.OrderFilter{Status: models.OrderStatus(c.Query("status"))}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		f.Offset = v
	}

	// 2. --- Execute Query ---
	list, err := h.Orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		h.serverError(c, "Failed to list orders", err)
		return
	}

	// 3. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// AdminGetOrder is the handler for GET /admin/orders/:id
func (h *Handlers) AdminGetOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// mutateOrder runs fn against the locked order row and answers with the result.
func (h *Handlers) mutateOrder(c *gin.Context, action string, fn func(o *models.Order) error) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	order, err := h.Orders.UpdateOrder(c.Request.Context(), id, fn)
	if err != nil {
		h.adminError(c, "Failed to update order", err)
		return
	}
	h.Log.Info("order changed by staff",
		"action", action,
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"staff_id", staffID(c),
	)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// StatusInput moves an order along its fulfilment path.
type StatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// AdminUpdateOrderStatus is the handler for PATCH /admin/orders/:id/status
func (h *Handlers) AdminUpdateOrderStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	to := models.OrderStatus(input.Status)
	h.mutateOrder(c, "status", func(o *models.Order) error {
		if to == models.OrderCancelled && o.Status != to {
			return orders.Cancel(o)
		}
		return orders.SetStatus(o, to)
	})
}

// PaymentStatusInput changes the payment sub-state.
type PaymentStatusInput struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid failed refunded"`
}

// AdminUpdatePaymentStatus is the handler for PATCH /admin/orders/:id/payment
func (h *Handlers) AdminUpdatePaymentStatus(c *gin.Context) {
	var input PaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	now := h.now()
	h.mutateOrder(c, "payment_status", func(o *models.Order) error {
		return orders.SetPaymentStatus(o, models.PaymentStatus(input.PaymentStatus), now)
	})
}

// MarkPaidInput carries the optional payment references.
type MarkPaidInput struct {
	TransactionID      string `json:"transaction_id" binding:"max=100"`
	SenderMobileNumber string `json:"sender_mobile_number" binding:"max=15"`
}

// AdminMarkOrderPaid is the handler for POST /admin/orders/:id/mark-paid
// Repeating it keeps the first paid_at. The body is optional.
func (h *Handlers) AdminMarkOrderPaid(c *gin.Context) {
	var input MarkPaidInput
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
			return
		}
	}
	now := h.now()
	h.mutateOrder(c, "mark_paid", func(o *models.Order) error {
		return orders.MarkAsPaid(o, now,
			strings.TrimSpace(input.TransactionID), strings.TrimSpace(input.SenderMobileNumber))
	})
}

// NotesInput updates staff-only fields. Omitted fields are left unchanged.
type NotesInput struct {
	AdminNotes      *string `json:"admin_notes"`
	TrackingNumber  *string `json:"tracking_number" binding:"omitempty,max=100"`
	ShippingCarrier *string `json:"shipping_carrier" binding:"omitempty,max=100"`
}

// AdminUpdateOrderNotes is the handler for PATCH /admin/orders/:id/notes
func (h *Handlers) AdminUpdateOrderNotes(c *gin.Context) {
	var input NotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	h.mutateOrder(c, "notes", func(o *models.Order) error {
		if input.AdminNotes != nil {
			o.AdminNotes = blankToNil(*input.AdminNotes)
		}
		if input.TrackingNumber != nil {
			o.TrackingNumber = blankToNil(*input.TrackingNumber)
		}
		if input.ShippingCarrier != nil {
			o.ShippingCarrier = blankToNil(*input.ShippingCarrier)
		}
		return nil
	})
}

func blankToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

//
// --- Staff: Catalog Handlers ---
//

// ProductInput defines the JSON for creating a product.
type ProductInput struct {
	CategoryID       int64            `json:"categoryId" binding:"required,gt=0"`
	Name             string           `json:"name" binding:"required,max=200"`
	Slug             string           `json:"slug" binding:"max=200"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription" binding:"max=300"`
	Gender           string           `json:"gender" binding:"omitempty,oneof=M F U"`
	Price            decimal.Decimal  `json:"price"`
	DiscountPrice    *decimal.Decimal `json:"discountPrice"`
	StockQuantity    int              `json:"stock" binding:"min=0"`
	IsFeatured       bool             `json:"isFeatured"`
	IsNew            bool             `json:"isNew"`
	IsActive         *bool            `json:"isActive"`
}

// AdminCreateProduct is the handler for POST /admin/products
func (h *Handlers) AdminCreateProduct(c *gin.Context) {
	// 1. --- Bind & Validate ---
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	if !input.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be greater than zero"})
		return
	}
	if input.DiscountPrice != nil && (input.DiscountPrice.IsNegative() || input.DiscountPrice.GreaterThanOrEqual(input.Price)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount price must be below the price"})
		return
	}

	// 2. --- Build Product ---
	p := &models.Product{
		CategoryID:       input.CategoryID,
		Name:             strings.TrimSpace(input.Name),
		Slug:             strings.TrimSpace(input.Slug),
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Gender:           input.Gender,
		Price:            input.Price,
		StockQuantity:    input.StockQuantity,
		IsFeatured:       input.IsFeatured,
		IsNew:            input.IsNew,
		IsActive:         input.IsActive == nil || *input.IsActive,
	}
	if input.DiscountPrice != nil {
		p.DiscountPrice = decimal.NewNullDecimal(*input.DiscountPrice)
	}

	// 3. --- Insert ---
	if err := h.Catalog.CreateProduct(c.Request.Context(), p); err != nil {
		h.adminError(c, "Failed to create product", err)
		return
	}
	h.Log.Info("product created", "product_id", p.ID, "slug", p.Slug, "staff_id", staffID(c))
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// SizeStockInput sets the stock of one size.
type SizeStockInput struct {
	Size  string `json:"size" binding:"required,max=10"`
	Stock int    `json:"stock" binding:"min=0"`
}

// AdminSetSizeStock is the handler for PUT /admin/products/:id/sizes
func (h *Handlers) AdminSetSizeStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	var input SizeStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Catalog.ProductByID(ctx, id); err != nil {
		h.adminError(c, "Failed to load product", err)
		return
	}
	size := strings.TrimSpace(input.Size)
	if err := h.Catalog.SetSizeStock(ctx, id, size, input.Stock); err != nil {
		h.adminError(c, "Failed to set size stock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "size": size, "stock": input.Stock})
}

// AdminApproveReview is the handler for PATCH /admin/reviews/:id/approve
func (h *Handlers) AdminApproveReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if err := h.Catalog.ApproveReview(c.Request.Context(), id); err != nil {
		h.adminError(c, "Failed to approve review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review approved"})
}

// OfferInput defines the JSON for creating an offer.
type OfferInput struct {
	Title              string              `json:"title" binding:"required,max=200"`
	Slug               string              `json:"slug" binding:"max=200"`
	ShortDescription   string              `json:"shortDescription" binding:"max=300"`
	OfferType          string              `json:"offerType" binding:"required,oneof=summer_sale welcome_offer free_shipping discount_code clearance"`
	DiscountPercentage *int                `json:"discountPercentage" binding:"omitempty,min=0,max=100"`
	DiscountCode       string              `json:"discountCode" binding:"max=50"`
	MinOrderAmount     decimal.NullDecimal `json:"minOrderAmount"`
	StartDate          time.Time           `json:"startDate" binding:"required"`
	EndDate            time.Time           `json:"endDate" binding:"required"`
	IsActive           *bool               `json:"isActive"`
	IsFeatured         bool                `json:"isFeatured"`
}

// AdminCreateOffer is the handler for POST /admin/offers
func (h *Handlers) AdminCreateOffer(c *gin.Context) {
	var input OfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	if !input.EndDate.After(input.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be after start date"})
		return
	}

	o := &models.Offer{
		Title:              strings.TrimSpace(input.Title),
		Slug:               strings.TrimSpace(input.Slug),
		ShortDescription:   input.ShortDescription,
		OfferType:          input.OfferType,
		DiscountPercentage: input.DiscountPercentage,
		DiscountCode:       strings.TrimSpace(input.DiscountCode),
		MinOrderAmount:     input.MinOrderAmount,
		StartDate:          input.StartDate.UTC(),
		EndDate:            input.EndDate.UTC(),
		IsActive:           input.IsActive == nil || *input.IsActive,
		IsFeatured:         input.IsFeatured,
	}
	if err := h.Promotions.CreateOffer(c.Request.Context(), o); err != nil {
		h.adminError(c, "Failed to create offer", err)
		return
	}
	h.Log.Info("offer created", "offer_id", o.ID, "slug", o.Slug, "staff_id", staffID(c))
	c.JSON(http.StatusCreated, gin.H{"offer": o, "badge": o.BadgeText(h.now())})
}

//
// --- Staff: Settings Handlers ---
//

// AdminGetSiteSettings is the handler for GET /admin/settings/site
func (h *Handlers) AdminGetSiteSettings(c *gin.Context) {
	s, err := h.Content.SiteSettings(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load site settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"siteSettings": s})
}

// AdminUpdateSiteSettings is the handler for PUT /admin/settings/site
func (h *Handlers) AdminUpdateSiteSettings(c *gin.Context) {
	var input models.SiteSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	if err := h.Content.UpdateSiteSettings(c.Request.Context(), &input); err != nil {
		h.serverError(c, "Failed to update site settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"siteSettings": input})
}

// AdminGetHeroSection is the handler for GET /admin/settings/hero
func (h *Handlers) AdminGetHeroSection(c *gin.Context) {
	s, err := h.Content.HeroSection(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load hero section", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"heroSection": s})
}

// AdminUpdateHeroSection is the handler for PUT /admin/settings/hero
func (h *Handlers) AdminUpdateHeroSection(c *gin.Context) {
	var input models.HeroSection
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": checkout.FieldErrors(err)})
		return
	}
	if err := h.Content.UpdateHeroSection(c.Request.Context(), &input); err != nil {
		h.serverError(c, "Failed to update hero section", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"heroSection": input})
}
