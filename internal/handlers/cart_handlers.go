package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/01moynul/mayaj-store/internal/cart"
	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/session"
	"github.com/01moynul/mayaj-store/internal/store"
)

//
// --- Session Cart Handlers ---
//

// userMessage turns a cart or checkout rule violation into the text shown to shoppers.
func userMessage(err error) string {
	var stockErr *checkout.StockError
	var unavailable *checkout.UnavailableError
	switch {
	case errors.Is(err, checkout.ErrSizeRequired):
		return "Please select a size."
	case errors.Is(err, checkout.ErrUnknownSize):
		return "The selected size is not available."
	case errors.Is(err, cart.ErrInvalidQuantity):
		return "Quantity must be at least 1."
	case errors.Is(err, cart.ErrQuantityTooLarge):
		return fmt.Sprintf("You can order at most %d of an item.", cart.MaxLineQuantity)
	case errors.As(err, &stockErr):
		return stockErr.Error()
	case errors.As(err, &unavailable):
		if unavailable.Name != "" {
			return unavailable.Error()
		}
		return "A product in your cart is no longer available."
	default:
		return "Something went wrong. Please try again."
	}
}

// cartLine resolves the optional trailing size segment of /cart/remove and /cart/update.
func cartLine(c *gin.Context) (int64, string, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, "", false
	}
	return id, strings.TrimSpace(c.Param("size")), true
}

// GetCart is the handler for GET/POST /cart/
func (h *Handlers) GetCart(c *gin.Context) {
	// 1. --- Load the session cart ---
	sc := session.FromContext(c).Cart()

	// 2. --- Resolve products in one lookup ---
	seq, err := sc.Items(c.Request.Context(), h.Catalog)
	if err != nil {
		h.serverError(c, "Failed to load cart", err)
		return
	}
	items := []cart.Item{}
	for _, it := range seq {
		items = append(items, it)
	}

	// 3. --- Totals ---
	// The area is picked at checkout; the cart shows the higher rate.
	subtotal := sc.TotalPrice()
	shipping := h.Checkout.Rates.For(checkout.AreaOutside)
	if !subtotal.IsPositive() {
		shipping = decimal.Zero
	}
	discount := decimal.Zero

	renderPage(c, gin.H{
		"siteSettings":  h.siteSettings(c),
		"items":         items,
		"totalQuantity": sc.TotalQuantity(),
		"subtotal":      subtotal,
		"discount":      discount,
		"shipping":      shipping,
		"total":         subtotal.Sub(discount).Add(shipping),
	})
}

// cartProduct loads an active product for a cart mutation.
func (h *Handlers) cartProduct(c *gin.Context, id int64) (*models.Product, bool) {
	p, err := h.Catalog.ProductByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !p.IsActive) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or not active"})
		return nil, false
	}
	if err != nil {
		h.serverError(c, "Failed to load product", err)
		return nil, false
	}
	return p, true
}

// cartRejected answers a refused cart mutation.
func cartRejected(c *gin.Context, err error, location string) {
	msg := userMessage(err)
	if isAJAX(c) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
		return
	}
	redirectWithFlash(c, session.LevelError, msg, location)
}

// AddToCart is the handler for POST /cart/add/:id/
func (h *Handlers) AddToCart(c *gin.Context) {
	// 1. --- Product ---
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	product, ok := h.cartProduct(c, id)
	if !ok {
		return
	}

	// 2. --- Input ---
	quantity, err := formQuantity(c)
	if err != nil {
		quantity = 0
	}
	size := strings.TrimSpace(c.PostForm("size"))
	if size != "" && product.SizeNamed(size) == nil {
		cartRejected(c, checkout.ErrUnknownSize, "/cart/")
		return
	}

	// 3. --- Add (increments an existing line) ---
	sess := session.FromContext(c)
	if err := sess.Cart().Add(product, quantity, size, false); err != nil {
		cartRejected(c, err, "/cart/")
		return
	}

	if isAJAX(c) {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"cart_count": sess.Cart().TotalQuantity(),
			"message":    "Product added to cart successfully!",
		})
		return
	}
	c.Redirect(http.StatusFound, "/cart/")
}

// RemoveFromCart is the handler for POST /cart/remove/:id/ and /cart/remove/:id/:size/
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	id, size, ok := cartLine(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	sess := session.FromContext(c)
	sess.Cart().Remove(id, size)

	if isAJAX(c) {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"cart_count": sess.Cart().TotalQuantity(),
			"message":    "Product removed from cart!",
		})
		return
	}
	c.Redirect(http.StatusFound, "/cart/")
}

// UpdateCart is the handler for POST /cart/update/:id/ and /cart/update/:id/:size/
// Only an existing line is changed; a quantity of zero or less removes it.
func (h *Handlers) UpdateCart(c *gin.Context) {
	id, size, ok := cartLine(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	quantity, err := formQuantity(c)
	if err != nil {
		cartRejected(c, cart.ErrInvalidQuantity, "/cart/")
		return
	}

	sc := session.FromContext(c).Cart()
	if err := sc.Update(id, size, quantity); err != nil {
		cartRejected(c, err, "/cart/")
		return
	}

	if isAJAX(c) {
		itemTotal := decimal.Zero
		if line, ok := sc.Line(cart.Key{ProductID: id, Size: size}); ok {
			itemTotal = line.Total()
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"cart_count": sc.TotalQuantity(),
			"item_total": itemTotal,
			"cart_total": sc.TotalPrice(),
		})
		return
	}
	c.Redirect(http.StatusFound, "/cart/")
}

// BuyNow is the handler for POST /buy-now/:id/
// It validates size and stock, adds to the cart and sends the shopper to checkout.
func (h *Handlers) BuyNow(c *gin.Context) {
	// 1. --- Product (must exist and be active) ---
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	product, ok := h.cartProduct(c, id)
	if !ok {
		return
	}
	productURL := "/products/" + product.Slug + "/"

	// 2. --- Input ---
	quantity, err := formQuantity(c)
	if err != nil {
		quantity = 0
	}
	size := strings.TrimSpace(c.PostForm("size"))

	// 3. --- Size and stock rules; the cart is untouched on failure ---
	if err := checkout.ValidateBuyNow(product, quantity, size); err != nil {
		redirectWithFlash(c, session.LevelError, userMessage(err), productURL)
		return
	}

	// 4. --- Add and go to checkout ---
	if err := session.FromContext(c).Cart().Add(product, quantity, size, false); err != nil {
		redirectWithFlash(c, session.LevelError, userMessage(err), productURL)
		return
	}
	c.Redirect(http.StatusFound, "/checkout/")
}
