package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender codes used by the 'products.gender' column.
const (
	GenderMen    = "M"
	GenderWomen  = "F"
	GenderUnisex = "U"
)

// Product is the model for the 'products' table.
type Product struct {
	ID               int64  `json:"id" db:"id"`
	CategoryID       int64  `json:"categoryId" db:"category_id"`
	Name             string `json:"name" db:"name"`
	Slug             string `json:"slug" db:"slug"`
	Description      string `json:"description" db:"description"`
	ShortDescription string `json:"shortDescription" db:"short_description"`
	Gender           string `json:"gender" db:"gender"`

	// --- Pricing & Stock ---
	Price         decimal.Decimal     `json:"price" db:"price"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice" db:"discount_price"`
	StockQuantity int                 `json:"stock" db:"stock_quantity"`

	// --- Flags ---
	IsFeatured bool `json:"isFeatured" db:"is_featured"`
	IsNew      bool `json:"isNew" db:"is_new"`
	IsActive   bool `json:"isActive" db:"is_active"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Joins (category_name comes from the categories join, the slices are loaded separately)
	CategoryName string         `json:"categoryName,omitempty" db:"category_name"`
	Images       []ProductImage `json:"images,omitempty" db:"-"`
	Sizes        []ProductSize  `json:"sizes,omitempty" db:"-"`
}

// EffectivePrice is what a customer pays right now: the discount price when set.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// DiscountPercentage truncates toward zero, like the storefront badge shows it.
func (p *Product) DiscountPercentage() int {
	if !p.DiscountPrice.Valid || !p.Price.IsPositive() {
		return 0
	}
	off := p.Price.Sub(p.DiscountPrice.Decimal).Div(p.Price).Mul(decimal.NewFromInt(100))
	return int(off.IntPart())
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// HasSizes reports whether the product is sold per size. Sizes must be loaded.
func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// SizeNamed returns the size row with the given label, or nil.
func (p *Product) SizeNamed(size string) *ProductSize {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i]
		}
	}
	return nil
}

// PrimaryImage prefers the image flagged primary, then the first one.
func (p *Product) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// ProductImage is the model for the 'product_images' table
type ProductImage struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Image     string    `json:"image" db:"image"`
	AltText   string    `json:"altText" db:"alt_text"`
	IsPrimary bool      `json:"isPrimary" db:"is_primary"`
	SortOrder int       `json:"order" db:"sort_order"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductSize is the model for the 'product_sizes' table.
// (product_id, size) is unique.
type ProductSize struct {
	ID            int64  `json:"id" db:"id"`
	ProductID     int64  `json:"productId" db:"product_id"`
	Size          string `json:"size" db:"size"`
	StockQuantity int    `json:"stock" db:"stock_quantity"`
}

func (s ProductSize) IsOutOfStock() bool {
	return s.StockQuantity == 0
}

// ProductReview is the model for the 'product_reviews' table
type ProductReview struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    int64     `json:"productId" db:"product_id"`
	CustomerName string    `json:"customerName" db:"customer_name"`
	Rating       int       `json:"rating" db:"rating"`
	Title        string    `json:"title" db:"title"`
	Comment      string    `json:"comment" db:"comment"`
	IsApproved   bool      `json:"isApproved" db:"is_approved"`
	IsFeatured   bool      `json:"isFeatured" db:"is_featured"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// AverageRating rounds to one decimal place; 0 when there are no reviews.
func AverageRating(reviews []ProductReview) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(len(reviews))))
	f, _ := avg.Round(1).Float64()
	return f
}

// ShowcaseProduct is a row of 'rotating_showcase_products' joined with its product.
type ShowcaseProduct struct {
	ID        int64   `json:"id" db:"id"`
	ProductID int64   `json:"productId" db:"product_id"`
	SortOrder int     `json:"order" db:"sort_order"`
	IsActive  bool    `json:"isActive" db:"is_active"`
	Product   Product `json:"product" db:"-"`
}
