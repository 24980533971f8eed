package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Offer types stored in 'offers.offer_type'.
const (
	OfferSummerSale   = "summer_sale"
	OfferWelcome      = "welcome_offer"
	OfferFreeShipping = "free_shipping"
	OfferDiscountCode = "discount_code"
	OfferClearance    = "clearance"
)

// Offer is the model for the 'offers' table
type Offer struct {
	ID                 int64               `json:"id" db:"id"`
	Title              string              `json:"title" db:"title"`
	Slug               string              `json:"slug" db:"slug"`
	ShortDescription   string              `json:"shortDescription" db:"short_description"`
	OfferType          string              `json:"offerType" db:"offer_type"`
	DiscountPercentage *int                `json:"discountPercentage,omitempty" db:"discount_percentage"`
	DiscountCode       string              `json:"discountCode" db:"discount_code"`
	MinOrderAmount     decimal.NullDecimal `json:"minOrderAmount" db:"min_order_amount"`
	StartDate          time.Time           `json:"startDate" db:"start_date"`
	EndDate            time.Time           `json:"endDate" db:"end_date"`
	IsActive           bool                `json:"isActive" db:"is_active"`
	IsFeatured         bool                `json:"isFeatured" db:"is_featured"`
	CreatedAt          time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time           `json:"updatedAt" db:"updated_at"`
}

// IsCurrentlyActive is true when the offer is enabled and now lies inside its window.
func (o *Offer) IsCurrentlyActive(now time.Time) bool {
	return o.IsActive && !now.Before(o.StartDate) && !now.After(o.EndDate)
}

// BadgeText picks the label shown on the offer card.
func (o *Offer) BadgeText(now time.Time) string {
	days := int(math.Floor(o.EndDate.Sub(now).Hours() / 24))
	switch {
	case days <= 3:
		return "Ending Soon"
	case o.OfferType == OfferWelcome:
		return "New Customers"
	case o.OfferType == OfferFreeShipping:
		return "Ongoing"
	default:
		return "Special Offer"
	}
}

// ComboOffer is the model for the 'combo_offers' table
type ComboOffer struct {
	ID                 int64           `json:"id" db:"id"`
	Name               string          `json:"name" db:"name"`
	Slug               string          `json:"slug" db:"slug"`
	Description        string          `json:"description" db:"description"`
	OriginalPrice      decimal.Decimal `json:"originalPrice" db:"original_price"`
	DiscountPrice      decimal.Decimal `json:"discountPrice" db:"discount_price"`
	DiscountPercentage int             `json:"discountPercentage" db:"discount_percentage"`
	StockQuantity      int             `json:"stock" db:"stock_quantity"`
	BadgeText          string          `json:"badgeText" db:"badge_text"`
	SavingsBadgeText   string          `json:"savingsBadgeText" db:"savings_badge_text"`
	StartDate          time.Time       `json:"startDate" db:"start_date"`
	EndDate            time.Time       `json:"endDate" db:"end_date"`
	IsActive           bool            `json:"isActive" db:"is_active"`
	IsFeatured         bool            `json:"isFeatured" db:"is_featured"`
	CreatedAt          time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time       `json:"updatedAt" db:"updated_at"`

	Products []ComboProduct `json:"products,omitempty" db:"-"`
}

// IsActiveNow also requires the combo to have stock left.
func (c *ComboOffer) IsActiveNow(now time.Time) bool {
	return c.IsActive && !now.Before(c.StartDate) && !now.After(c.EndDate) && c.StockQuantity > 0
}

func (c *ComboOffer) SavingsAmount() decimal.Decimal {
	return c.OriginalPrice.Sub(c.DiscountPrice)
}

// ComboProduct is the 'combo_products' junction row.
type ComboProduct struct {
	ID           int64  `json:"id" db:"id"`
	ComboOfferID int64  `json:"comboOfferId" db:"combo_offer_id"`
	ProductID    int64  `json:"productId" db:"product_id"`
	ProductName  string `json:"productName" db:"product_name"`
	ProductSlug  string `json:"productSlug" db:"product_slug"`
	Quantity     int    `json:"quantity" db:"quantity"`
}
