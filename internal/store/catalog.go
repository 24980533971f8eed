package store

import (
	"context"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/01moynul/mayaj-store/internal/database"
	"github.com/01moynul/mayaj-store/internal/models"
)

// CatalogStore reads and writes categories, products and reviews.
type CatalogStore struct {
	db *sqlx.DB
}

func NewCatalogStore(db *sqlx.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

const productSelect = `
	SELECT p.id, p.category_id, p.name, p.slug, p.description, p.short_description, p.gender,
	       p.price, p.discount_price, p.stock_quantity, p.is_featured, p.is_new, p.is_active,
	       p.created_at, p.updated_at, c.name AS category_name
	FROM products p
	JOIN categories c ON c.id = p.category_id`

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products    []models.Product `json:"products"`
	Number      int              `json:"number"`
	NumPages    int              `json:"numPages"`
	Total       int              `json:"total"`
	HasNext     bool             `json:"hasNext"`
	HasPrevious bool             `json:"hasPrevious"`
}

// ListActiveProducts pages through active products, newest first.
// A page outside 1..NumPages is clamped to the last page.
func (s *CatalogStore) ListActiveProducts(ctx context.Context, page, perPage int) (*ProductPage, error) {
	// 1. --- Count ---
	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM products WHERE is_active = TRUE"); err != nil {
		return nil, errors.Wrap(err, "count products")
	}

	// 2. --- Clamp the page number ---
	numPages := (total + perPage - 1) / perPage
	if numPages < 1 {
		numPages = 1
	}
	if page < 1 || page > numPages {
		page = numPages
	}

	// 3. --- Fetch the slice ---
	products := []models.Product{}
	query := productSelect + `
		WHERE p.is_active = TRUE
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?`
	if err := s.db.SelectContext(ctx, &products, query, perPage, (page-1)*perPage); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if err := loadImages(ctx, s.db, products); err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:    products,
		Number:      page,
		NumPages:    numPages,
		Total:       total,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}, nil
}

// FeaturedProducts returns up to limit active featured products.
func (s *CatalogStore) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	query := productSelect + `
		WHERE p.is_active = TRUE AND p.is_featured = TRUE
		ORDER BY p.created_at DESC
		LIMIT ?`
	if err := s.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, errors.Wrap(err, "featured products")
	}
	return products, loadImages(ctx, s.db, products)
}

// ProductBySlug returns an active product with its images and sizes.
func (s *CatalogStore) ProductBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	var p models.Product
	if err := s.db.GetContext(ctx, &p, productSelect+" WHERE p.slug = ? AND p.is_active = TRUE", productSlug); err != nil {
		return nil, notFound(err, "product by slug")
	}
	return s.withDetails(ctx, &p)
}

// ProductByID returns the product whether or not it is active, with images and sizes.
func (s *CatalogStore) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := s.db.GetContext(ctx, &p, productSelect+" WHERE p.id = ?", id); err != nil {
		return nil, notFound(err, "product by id")
	}
	return s.withDetails(ctx, &p)
}

func (s *CatalogStore) withDetails(ctx context.Context, p *models.Product) (*models.Product, error) {
	list := []models.Product{*p}
	if err := loadImages(ctx, s.db, list); err != nil {
		return nil, err
	}
	if err := loadSizes(ctx, s.db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// ProductsByIDs is the cart's batch lookup. Inactive products are included so the
// caller can tell "gone" from "no longer sold"; unknown ids are omitted.
func (s *CatalogStore) ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := selectIn(ctx, s.db, &products, productSelect+" WHERE p.id IN (?)", ids); err != nil {
		return nil, errors.Wrap(err, "products by ids")
	}
	if err := loadImages(ctx, s.db, products); err != nil {
		return nil, err
	}
	return products, loadSizes(ctx, s.db, products)
}

// SearchProducts does a case-insensitive substring match over name, descriptions and
// category name. An empty query lists every active product.
func (s *CatalogStore) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	products := []models.Product{}
	q = strings.TrimSpace(q)
	if q == "" {
		err := s.db.SelectContext(ctx, &products, productSelect+" WHERE p.is_active = TRUE ORDER BY p.created_at DESC")
		if err != nil {
			return nil, errors.Wrap(err, "list products for empty search")
		}
		return products, loadImages(ctx, s.db, products)
	}

	like := "%" + escapeLike(q) + "%"
	query := productSelect + `
		WHERE p.is_active = TRUE
		  AND (p.name LIKE ? OR p.short_description LIKE ? OR p.description LIKE ? OR c.name LIKE ?)
		ORDER BY p.created_at DESC`
	if err := s.db.SelectContext(ctx, &products, query, like, like, like, like); err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	return products, loadImages(ctx, s.db, products)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Categories lists active categories in display order.
func (s *CatalogStore) Categories(ctx context.Context) ([]models.Category, error) {
	cats := []models.Category{}
	query := `SELECT id, name, slug, description, image, is_active, sort_order, created_at, updated_at
		FROM categories WHERE is_active = TRUE ORDER BY sort_order, name`
	if err := s.db.SelectContext(ctx, &cats, query); err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return cats, nil
}

// ApprovedReviews returns a product's moderated reviews, newest first.
func (s *CatalogStore) ApprovedReviews(ctx context.Context, productID int64) ([]models.ProductReview, error) {
	reviews := []models.ProductReview{}
	query := `SELECT id, product_id, customer_name, rating, title, comment, is_approved, is_featured, created_at, updated_at
		FROM product_reviews WHERE product_id = ? AND is_approved = TRUE ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &reviews, query, productID); err != nil {
		return nil, errors.Wrap(err, "approved reviews")
	}
	return reviews, nil
}

// CreateReview stores a review awaiting moderation.
func (s *CatalogStore) CreateReview(ctx context.Context, r *models.ProductReview) error {
	now := time.Now().UTC()
	r.IsApproved = false
	r.CreatedAt, r.UpdatedAt = now, now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO product_reviews (product_id, customer_name, rating, title, comment, is_approved, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, FALSE, FALSE, ?, ?)`,
		r.ProductID, r.CustomerName, r.Rating, r.Title, r.Comment, now, now)
	if err != nil {
		return errors.Wrap(err, "insert review")
	}
	r.ID, err = res.LastInsertId()
	return errors.Wrap(err, "review id")
}

// ApproveReview publishes a review.
func (s *CatalogStore) ApproveReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE product_reviews SET is_approved = TRUE WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "approve review")
	}
	return requireAffected(res)
}

// Showcase returns the active rotating showcase entries with their products.
func (s *CatalogStore) Showcase(ctx context.Context, limit int) ([]models.ShowcaseProduct, error) {
	rows := []models.ShowcaseProduct{}
	query := `SELECT id, product_id, sort_order, is_active FROM rotating_showcase_products
		WHERE is_active = TRUE ORDER BY sort_order LIMIT ?`
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.Wrap(err, "showcase")
	}
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ProductID
	}
	products, err := s.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := rows[:0]
	for _, r := range rows {
		if p, ok := byID[r.ProductID]; ok {
			r.Product = p
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateProduct inserts a product, deriving the slug from the name when empty.
func (s *CatalogStore) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	if p.Gender == "" {
		p.Gender = models.GenderUnisex
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (category_id, name, slug, description, short_description, gender, price,
			discount_price, stock_quantity, is_featured, is_new, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Slug, p.Description, p.ShortDescription, p.Gender, p.Price,
		p.DiscountPrice, p.StockQuantity, p.IsFeatured, p.IsNew, p.IsActive, now, now)
	if isDuplicate(err) {
		return errors.Wrapf(ErrConflict, "product slug %q", p.Slug)
	}
	if err != nil {
		return errors.Wrap(err, "insert product")
	}
	p.ID, err = res.LastInsertId()
	return errors.Wrap(err, "product id")
}

// SetSizeStock creates or updates the stock of one size.
func (s *CatalogStore) SetSizeStock(ctx context.Context, productID int64, size string, stock int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO product_sizes (product_id, size, stock_quantity) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE stock_quantity = VALUES(stock_quantity)`,
		productID, size, stock)
	return errors.Wrap(err, "set size stock")
}

// AddProductImage attaches an uploaded image. A primary image demotes the others.
func (s *CatalogStore) AddProductImage(ctx context.Context, img *models.ProductImage) error {
	now := time.Now().UTC()
	img.CreatedAt, img.UpdatedAt = now, now
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if img.IsPrimary {
			if _, err := tx.ExecContext(ctx,
				"UPDATE product_images SET is_primary = FALSE WHERE product_id = ?", img.ProductID); err != nil {
				return errors.Wrap(err, "demote primary image")
			}
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, image, alt_text, is_primary, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			img.ProductID, img.Image, img.AltText, img.IsPrimary, img.SortOrder, now, now)
		if err != nil {
			return errors.Wrap(err, "insert product image")
		}
		img.ID, err = res.LastInsertId()
		return errors.Wrap(err, "product image id")
	})
}

// --- batch loaders ---

func productIDs(products []models.Product) ([]int64, map[int64]int) {
	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}
	return ids, index
}

func loadImages(ctx context.Context, q Querier, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids, index := productIDs(products)
	var images []models.ProductImage
	query := `SELECT id, product_id, image, alt_text, is_primary, sort_order, created_at, updated_at
		FROM product_images WHERE product_id IN (?) ORDER BY is_primary DESC, created_at`
	if err := selectIn(ctx, q, &images, query, ids); err != nil {
		return errors.Wrap(err, "load product images")
	}
	for _, img := range images {
		p := &products[index[img.ProductID]]
		p.Images = append(p.Images, img)
	}
	return nil
}

func loadSizes(ctx context.Context, q Querier, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids, index := productIDs(products)
	var sizes []models.ProductSize
	query := `SELECT id, product_id, size, stock_quantity FROM product_sizes WHERE product_id IN (?) ORDER BY size`
	if err := selectIn(ctx, q, &sizes, query, ids); err != nil {
		return errors.Wrap(err, "load product sizes")
	}
	for _, sz := range sizes {
		p := &products[index[sz.ProductID]]
		p.Sizes = append(p.Sizes, sz)
	}
	return nil
}
