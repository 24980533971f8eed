package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/session"
	"github.com/01moynul/mayaj-store/internal/store"
)

const (
	homeFeaturedLimit   = 8
	homeShowcaseLimit   = 6
	homeComboLimit      = 2
	homeOfferLimit      = 3
	detailFeaturedLimit = 4
)

// offerView adds the computed badge to an offer.
type offerView struct {
	models.Offer
	Badge string `json:"badge"`
}

func (h *Handlers) offerViews(offers []models.Offer) []offerView {
	now := h.now()
	out := make([]offerView, len(offers))
	for i, o := range offers {
		out[i] = offerView{Offer: o, Badge: o.BadgeText(now)}
	}
	return out
}

// GetHome is the handler for GET /
func (h *Handlers) GetHome(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now()

	// 1. --- Hero ---
	hero, err := h.Content.HeroSection(ctx)
	if err != nil {
		h.serverError(c, "Failed to load hero section", err)
		return
	}

	// 2. --- Products ---
	featured, err := h.Catalog.FeaturedProducts(ctx, homeFeaturedLimit)
	if err != nil {
		h.serverError(c, "Failed to load featured products", err)
		return
	}
	showcase, err := h.Catalog.Showcase(ctx, homeShowcaseLimit)
	if err != nil {
		h.serverError(c, "Failed to load showcase", err)
		return
	}

	// 3. --- Promotions ---
	combos, err := h.Promotions.ActiveCombos(ctx, now, homeComboLimit)
	if err != nil {
		h.serverError(c, "Failed to load combo offers", err)
		return
	}
	offers, err := h.Promotions.ActiveOffers(ctx, now, homeOfferLimit)
	if err != nil {
		h.serverError(c, "Failed to load offers", err)
		return
	}

	renderPage(c, gin.H{
		"siteSettings":     h.siteSettings(c),
		"heroSection":      hero,
		"featuredProducts": featured,
		"rotatingImages":   showcase,
		"comboOffers":      combos,
		"activeOffers":     h.offerViews(offers),
	})
}

// GetProducts is the handler for GET /products-list/?page=N
func (h *Handlers) GetProducts(c *gin.Context) {
	// A non-numeric page shows the first page; out-of-range pages clamp to the last.
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.Catalog.ListActiveProducts(c.Request.Context(), page, h.perPage())
	if err != nil {
		h.serverError(c, "Failed to load products", err)
		return
	}

	renderPage(c, gin.H{
		"siteSettings": h.siteSettings(c),
		"page":         result,
	})
}

// sizeView exposes the stock flag the size picker needs.
type sizeView struct {
	models.ProductSize
	IsOutOfStock bool `json:"isOutOfStock"`
}

// GetProductDetail is the handler for GET /products/:slug/
func (h *Handlers) GetProductDetail(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Product ---
	product, err := h.Catalog.ProductBySlug(ctx, c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to load product", err)
		return
	}

	// 2. --- Reviews ---
	reviews, err := h.Catalog.ApprovedReviews(ctx, product.ID)
	if err != nil {
		h.serverError(c, "Failed to load reviews", err)
		return
	}

	// 3. --- Related ---
	featured, err := h.Catalog.FeaturedProducts(ctx, detailFeaturedLimit)
	if err != nil {
		h.serverError(c, "Failed to load featured products", err)
		return
	}

	sizes := make([]sizeView, len(product.Sizes))
	for i, s := range product.Sizes {
		sizes[i] = sizeView{ProductSize: s, IsOutOfStock: s.IsOutOfStock()}
	}

	renderPage(c, gin.H{
		"siteSettings":       h.siteSettings(c),
		"product":            product,
		"primaryImage":       product.PrimaryImage(),
		"sizes":              sizes,
		"discountPercentage": product.DiscountPercentage(),
		"approvedReviews":    reviews,
		"reviewCount":        len(reviews),
		"averageRating":      models.AverageRating(reviews),
		"featuredProducts":   featured,
	})
}

// ReviewInput is the review form.
type ReviewInput struct {
	CustomerName string `form:"customer_name" json:"customer_name" binding:"required,max=100"`
	Title        string `form:"title" json:"title" binding:"max=200"`
	Comment      string `form:"comment" json:"comment" binding:"required"`
	Rating       int    `form:"rating,default=5" json:"rating" binding:"min=1,max=5"`
}

func (in *ReviewInput) Trim() {
	trimAll(&in.CustomerName, &in.Title, &in.Comment)
}

// AddReview is the handler for POST /product/:slug/review/
func (h *Handlers) AddReview(c *gin.Context) {
	ctx := c.Request.Context()
	productSlug := c.Param("slug")

	// 1. --- Product ---
	product, err := h.Catalog.ProductBySlug(ctx, productSlug)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to load product", err)
		return
	}

	// 2. --- Validate ---
	var input ReviewInput
	if err := bindTrimmed(c, &input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": checkout.FieldErrors(err)})
		return
	}

	// 3. --- Store, awaiting moderation ---
	review := &models.ProductReview{
		ProductID:    product.ID,
		CustomerName: input.CustomerName,
		Title:        input.Title,
		Comment:      input.Comment,
		Rating:       input.Rating,
	}
	if err := h.Catalog.CreateReview(ctx, review); err != nil {
		h.serverError(c, "Failed to save review", err)
		return
	}

	redirectWithFlash(c, session.LevelSuccess,
		"Thank you for your review! It will be visible after approval.",
		"/products/"+product.Slug+"/")
}

// Search is the handler for GET /search/?q=
func (h *Handlers) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	products, err := h.Catalog.SearchProducts(c.Request.Context(), query)
	if err != nil {
		h.serverError(c, "Search failed", err)
		return
	}
	renderPage(c, gin.H{
		"siteSettings": h.siteSettings(c),
		"query":        query,
		"products":     products,
		"resultsCount": len(products),
	})
}

// GetOffers is the handler for GET /offers/
func (h *Handlers) GetOffers(c *gin.Context) {
	ctx := c.Request.Context()
	now := h.now()

	combos, err := h.Promotions.ActiveCombos(ctx, now, 0)
	if err != nil {
		h.serverError(c, "Failed to load combo offers", err)
		return
	}
	offers, err := h.Promotions.ActiveOffers(ctx, now, 0)
	if err != nil {
		h.serverError(c, "Failed to load offers", err)
		return
	}
	renderPage(c, gin.H{
		"siteSettings": h.siteSettings(c),
		"comboOffers":  combos,
		"activeOffers": h.offerViews(offers),
	})
}
