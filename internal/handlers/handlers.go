package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/01moynul/mayaj-store/internal/auth"
	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/middleware"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/session"
	"github.com/01moynul/mayaj-store/internal/store"
)

// Catalog is the product side of the store.
type Catalog interface {
	ListActiveProducts(ctx context.Context, page, perPage int) (*store.ProductPage, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	ApprovedReviews(ctx context.Context, productID int64) ([]models.ProductReview, error)
	Showcase(ctx context.Context, limit int) ([]models.ShowcaseProduct, error)
	CreateReview(ctx context.Context, r *models.ProductReview) error
	ApproveReview(ctx context.Context, id int64) error
	CreateProduct(ctx context.Context, p *models.Product) error
	SetSizeStock(ctx context.Context, productID int64, size string, stock int) error
	AddProductImage(ctx context.Context, img *models.ProductImage) error
}

// Promotions serves offers and combo deals.
type Promotions interface {
	ActiveOffers(ctx context.Context, now time.Time, limit int) ([]models.Offer, error)
	ActiveCombos(ctx context.Context, now time.Time, limit int) ([]models.ComboOffer, error)
	CreateOffer(ctx context.Context, o *models.Offer) error
}

// Orders reads and mutates placed orders. Creation goes through checkout.Service.
type Orders interface {
	OrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error)
	UpdateOrder(ctx context.Context, id int64, fn func(o *models.Order) error) (*models.Order, error)
}

// Content serves the editable pages and settings singletons.
type Content interface {
	SiteSettings(ctx context.Context) (*models.SiteSettings, error)
	UpdateSiteSettings(ctx context.Context, in *models.SiteSettings) error
	HeroSection(ctx context.Context) (*models.HeroSection, error)
	UpdateHeroSection(ctx context.Context, in *models.HeroSection) error
	AboutSection(ctx context.Context) (*models.AboutSection, error)
	TeamMembers(ctx context.Context) ([]models.TeamMember, error)
	ReturnsPageSettings(ctx context.Context) (*models.ReturnsPageSettings, error)
	ReturnsPageContent(ctx context.Context) (*store.ReturnsPage, error)
	ReturnReasons(ctx context.Context) ([]models.ReturnReason, error)
	CreateReturnRequest(ctx context.Context, r *models.ReturnRequest) error
	ContactPageSettings(ctx context.Context) (*models.ContactPageSettings, error)
	ContactPageContent(ctx context.Context) (*store.ContactPage, error)
	CreateContactMessage(ctx context.Context, m *models.ContactMessage) error
}

// Users looks up accounts.
type Users interface {
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog    Catalog
	Promotions Promotions
	Orders     Orders
	Content    Content
	Users      Users
	Checkout   *checkout.Service
	Tokens     *auth.TokenManager
	Log        *logger.Logger

	ProductsPerPage int
	SecureCookies   bool
	UploadDir       string

	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handlers) perPage() int {
	if h.ProductsPerPage > 0 {
		return h.ProductsPerPage
	}
	return 8
}

// isAJAX matches the header browsers' fetch helpers send for background requests.
func isAJAX(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// redirectWithFlash queues a message for the next page and redirects there.
func redirectWithFlash(c *gin.Context, level, message, location string) {
	session.FromContext(c).AddFlash(level, message)
	c.Redirect(http.StatusFound, location)
}

// renderPage answers a page GET with its payload plus any pending flash messages.
func renderPage(c *gin.Context, payload gin.H) {
	flashes := session.FromContext(c).PopFlashes()
	if flashes == nil {
		flashes = []session.Flash{}
	}
	payload["messages"] = flashes
	c.JSON(http.StatusOK, payload)
}

func (h *Handlers) serverError(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// currentUserID is nil for anonymous visitors.
func currentUserID(c *gin.Context) *int64 {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

// currentUser loads the signed-in account, or returns nil.
func (h *Handlers) currentUser(c *gin.Context) *models.User {
	id := currentUserID(c)
	if id == nil {
		return nil
	}
	u, err := h.Users.UserByID(c.Request.Context(), *id)
	if err != nil {
		return nil
	}
	return u
}

// siteSettings is shared by every page. A failure degrades to nil rather than
// failing the page.
func (h *Handlers) siteSettings(c *gin.Context) *models.SiteSettings {
	s, err := h.Content.SiteSettings(c.Request.Context())
	if err != nil {
		h.Log.Warn("site settings unavailable", "error", err)
		return nil
	}
	return s
}

// formQuantity reads "quantity", defaulting to 1.
func formQuantity(c *gin.Context) (int, error) {
	raw := c.DefaultPostForm("quantity", "1")
	return strconv.Atoi(raw)
}

// trimmer is a form that strips whitespace from its text fields.
type trimmer interface {
	Trim()
}

// bindTrimmed binds the request, trims the form and validates it again, so a
// whitespace-only value fails "required".
func bindTrimmed(c *gin.Context, form trimmer) error {
	if err := c.ShouldBind(form); err != nil {
		return err
	}
	form.Trim()
	return binding.Validator.ValidateStruct(form)
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
