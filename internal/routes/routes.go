package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/handlers"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/middleware"
	"github.com/01moynul/mayaj-store/internal/session"
)

// Options carries what the router needs beyond the handlers.
type Options struct {
	Sessions    session.Store
	Cookie      session.CookieOptions
	CORSOrigins []string
	Log         *logger.Logger
}

// corsConfig only allows the configured frontends, with credentials so the session
// and token cookies travel.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", "X-CSRF-Token"}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

func SetupRouter(h *handlers.Handlers, opts Options) (*gin.Engine, error) {
	// The checkout rules and form-tag field names live on gin's shared validator.
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := checkout.RegisterValidators(v); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Log))

	// --- APPLY THE CORS GUARD ---
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	// Everyone may browse; a valid token just identifies the visitor.
	router.Use(middleware.OptionalAuth(h.Tokens))

	// --- Health (Public) ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.UploadDir != "" {
		router.Static("/uploads", h.UploadDir)
	}

	// --- Auth Routes (Public) ---
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	// --- Storefront (session cookie) ---
	site := router.Group("/")
	site.Use(session.Middleware(opts.Sessions, opts.Cookie, opts.Log))
	{
		site.GET("/", h.GetHome)
		site.GET("/search/", h.Search)
		site.GET("/products-list/", h.GetProducts)
		site.GET("/products/:slug/", h.GetProductDetail)
		site.POST("/product/:slug/review/", h.AddReview)
		site.GET("/offers/", h.GetOffers)
		site.GET("/about/", h.GetAbout)
		site.GET("/contact/", h.GetContact)
		site.POST("/contact/", h.PostContact)
		site.GET("/return-policy/", h.GetReturnPolicy)
		site.POST("/return-policy/", h.PostReturnPolicy)

		// --- Cart ---
		site.GET("/cart/", h.GetCart)
		site.POST("/cart/", h.GetCart)
		site.POST("/cart/add/:id/", h.AddToCart)
		site.POST("/cart/remove/:id/", h.RemoveFromCart)
		site.POST("/cart/remove/:id/:size/", h.RemoveFromCart)
		site.POST("/cart/update/:id/", h.UpdateCart)
		site.POST("/cart/update/:id/:size/", h.UpdateCart)
		site.POST("/buy-now/:id/", h.BuyNow)

		// --- Checkout & Orders ---
		site.GET("/checkout/", h.GetCheckout)
		site.POST("/checkout/", h.PostCheckout)
		site.GET("/order/success/:id/", h.GetOrderSuccess)
		site.GET("/orders/:id/", h.GetOrderDetail)
	}

	// --- Staff Routes (Login + is_staff Required) ---
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(h.Tokens))
	admin.Use(middleware.StaffMiddleware(h.Users))
	{
		admin.GET("/orders", h.AdminListOrders)
		admin.GET("/orders/:id", h.AdminGetOrder)
		admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.PATCH("/orders/:id/payment", h.AdminUpdatePaymentStatus)
		admin.POST("/orders/:id/mark-paid", h.AdminMarkOrderPaid)
		admin.PATCH("/orders/:id/notes", h.AdminUpdateOrderNotes)

		admin.POST("/products", h.AdminCreateProduct)
		admin.PUT("/products/:id/sizes", h.AdminSetSizeStock)
		admin.POST("/products/:id/images", h.AdminUploadProductImage)
		admin.PATCH("/reviews/:id/approve", h.AdminApproveReview)
		admin.POST("/offers", h.AdminCreateOffer)

		admin.GET("/settings/site", h.AdminGetSiteSettings)
		admin.PUT("/settings/site", h.AdminUpdateSiteSettings)
		admin.GET("/settings/hero", h.AdminGetHeroSection)
		admin.PUT("/settings/hero", h.AdminUpdateHeroSection)
	}

	return router, nil
}
