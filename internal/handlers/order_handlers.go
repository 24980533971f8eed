package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/session"
	"github.com/01moynul/mayaj-store/internal/store"
)

const (
	emptyCartMessage      = "Your cart is empty. Add some items before checkout."
	orderFailedMessage    = "There was an error processing your order. Please try again."
	orderForbiddenMessage = "You don't have permission to view this order."
)

// choice is a value/label pair for a select input.
type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	deliveryAreaChoices = []choice{
		{string(checkout.AreaInside), "Inside Dhaka"},
		{string(checkout.AreaOutside), "Outside Dhaka"},
	}
	paymentMethodChoices = []choice{
		{string(models.PaymentCashOnDelivery), "Cash on Delivery"},
		{string(models.PaymentBkash), "bKash"},
		{string(models.PaymentNagad), "Nagad"},
		{string(models.PaymentRocket), "Rocket"},
	}
)

// GetCheckout is the handler for GET /checkout/
func (h *Handlers) GetCheckout(c *gin.Context) {
	sess := session.FromContext(c)

	// 1. --- Guard: empty cart ---
	if sess.Cart().IsEmpty() {
		redirectWithFlash(c, session.LevelWarning, emptyCartMessage, "/cart/")
		return
	}

	// 2. --- Preview totals ---
	summary, err := h.Checkout.Preview(c.Request.Context(), sess.Cart())
	if err != nil {
		h.serverError(c, "Failed to load checkout", err)
		return
	}

	// 3. --- Prefill from the signed-in account ---
	initial := checkout.Form{
		DeliveryArea:  string(checkout.AreaInside),
		PaymentMethod: string(models.PaymentCashOnDelivery),
	}
	if u := h.currentUser(c); u != nil {
		initial.ShippingFullName = u.DisplayName()
		initial.ShippingEmail = u.Email
	}

	renderPage(c, gin.H{
		"siteSettings":   h.siteSettings(c),
		"items":          summary.Items,
		"totals":         summary.Totals,
		"form":           initial,
		"deliveryAreas":  deliveryAreaChoices,
		"paymentMethods": paymentMethodChoices,
	})
}

// PostCheckout is the handler for POST /checkout/
func (h *Handlers) PostCheckout(c *gin.Context) {
	sess := session.FromContext(c)

	// 1. --- Guard: empty cart ---
	if sess.Cart().IsEmpty() {
		redirectWithFlash(c, session.LevelWarning, emptyCartMessage, "/cart/")
		return
	}

	// 2. --- Validate the form (trimmed values are re-validated) ---
	var form checkout.Form
	if err := bindTrimmed(c, &form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": checkout.FieldErrors(err),
			"form":   form,
		})
		return
	}

	// 3. --- Place the order ---
	order, err := h.Checkout.PlaceOrder(c.Request.Context(), sess.Cart(), form, currentUserID(c))
	var unavailable *checkout.UnavailableError
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrEmptyCart):
		redirectWithFlash(c, session.LevelWarning, emptyCartMessage, "/cart/")
		return
	case errors.As(err, &unavailable):
		redirectWithFlash(c, session.LevelError, userMessage(err), "/cart/")
		return
	case errors.Is(err, store.ErrInsufficientStock):
		redirectWithFlash(c, session.LevelError,
			"Some items in your cart are no longer in stock in the requested quantity.", "/cart/")
		return
	default:
		redirectWithFlash(c, session.LevelError, orderFailedMessage, "/checkout/")
		return
	}

	// 4. --- Success: empty the cart, remember the order ---
	sess.Cart().Clear()
	sess.RememberOrder(order.ID)
	c.Redirect(http.StatusFound, "/order/success/"+strconv.FormatInt(order.ID, 10)+"/")
}

// loadOrder answers 404 for unknown ids.
func (h *Handlers) loadOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	order, err := h.Orders.OrderByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	if err != nil {
		h.serverError(c, "Failed to load order", err)
		return nil, false
	}
	return order, true
}

// canViewOrder is true for the owner and for staff. Guest orders are staff-only.
func (h *Handlers) canViewOrder(c *gin.Context, order *models.Order) bool {
	u := h.currentUser(c)
	if u == nil {
		return false
	}
	return u.IsStaff || order.IsOwnedBy(u.ID)
}

// GetOrderSuccess is the handler for GET /order/success/:id/
// Besides the owner and staff, the session that placed the order may see it.
func (h *Handlers) GetOrderSuccess(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	if !session.FromContext(c).HasOrder(order.ID) && !h.canViewOrder(c, order) {
		redirectWithFlash(c, session.LevelError, orderForbiddenMessage, "/")
		return
	}
	renderPage(c, gin.H{
		"siteSettings": h.siteSettings(c),
		"order":        order,
	})
}

// GetOrderDetail is the handler for GET /orders/:id/
func (h *Handlers) GetOrderDetail(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	if !h.canViewOrder(c, order) {
		redirectWithFlash(c, session.LevelError, orderForbiddenMessage, "/")
		return
	}
	renderPage(c, gin.H{
		"siteSettings":   h.siteSettings(c),
		"order":          order,
		"canBeCancelled": order.CanBeCancelled(),
	})
}
