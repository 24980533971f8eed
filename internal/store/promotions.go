package store

import (
	"context"
	"time"

	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/01moynul/mayaj-store/internal/models"
)

// PromotionStore reads offers and combo offers.
type PromotionStore struct {
	db *sqlx.DB
}

func NewPromotionStore(db *sqlx.DB) *PromotionStore {
	return &PromotionStore{db: db}
}

const offerColumns = `id, title, slug, short_description, offer_type, discount_percentage, discount_code,
	min_order_amount, start_date, end_date, is_active, is_featured, created_at, updated_at`

// ActiveOffers returns enabled offers whose window contains now, featured first.
// limit <= 0 means no limit.
func (s *PromotionStore) ActiveOffers(ctx context.Context, now time.Time, limit int) ([]models.Offer, error) {
	offers := []models.Offer{}
	query := `SELECT ` + offerColumns + ` FROM offers
		WHERE is_active = TRUE AND start_date <= ? AND end_date >= ?
		ORDER BY is_featured DESC, start_date DESC`
	args := []interface{}{now, now}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if err := s.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, errors.Wrap(err, "active offers")
	}
	return offers, nil
}

// ActiveCombos returns combos that are enabled, in window and in stock, with their products.
func (s *PromotionStore) ActiveCombos(ctx context.Context, now time.Time, limit int) ([]models.ComboOffer, error) {
	combos := []models.ComboOffer{}
	query := `SELECT id, name, slug, description, original_price, discount_price, discount_percentage,
			stock_quantity, badge_text, savings_badge_text, start_date, end_date, is_active, is_featured,
			created_at, updated_at
		FROM combo_offers
		WHERE is_active = TRUE AND start_date <= ? AND end_date >= ? AND stock_quantity > 0
		ORDER BY is_featured DESC, created_at DESC`
	args := []interface{}{now, now}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if err := s.db.SelectContext(ctx, &combos, query, args...); err != nil {
		return nil, errors.Wrap(err, "active combos")
	}
	if len(combos) == 0 {
		return combos, nil
	}

	// Attach products in one query.
	ids := make([]int64, len(combos))
	index := make(map[int64]int, len(combos))
	for i, c := range combos {
		ids[i] = c.ID
		index[c.ID] = i
	}
	var members []models.ComboProduct
	memberQuery := `SELECT cp.id, cp.combo_offer_id, cp.product_id, p.name AS product_name, p.slug AS product_slug, cp.quantity
		FROM combo_products cp JOIN products p ON p.id = cp.product_id
		WHERE cp.combo_offer_id IN (?) ORDER BY cp.id`
	if err := selectIn(ctx, s.db, &members, memberQuery, ids); err != nil {
		return nil, errors.Wrap(err, "combo products")
	}
	for _, m := range members {
		c := &combos[index[m.ComboOfferID]]
		c.Products = append(c.Products, m)
	}
	return combos, nil
}

// CreateOffer inserts an offer, deriving the slug from the title when empty.
func (s *PromotionStore) CreateOffer(ctx context.Context, o *models.Offer) error {
	if o.Slug == "" {
		o.Slug = slug.Make(o.Title)
	}
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO offers (title, slug, short_description, offer_type, discount_percentage, discount_code,
			min_order_amount, start_date, end_date, is_active, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Title, o.Slug, o.ShortDescription, o.OfferType, o.DiscountPercentage, o.DiscountCode,
		o.MinOrderAmount, o.StartDate, o.EndDate, o.IsActive, o.IsFeatured, now, now)
	if isDuplicate(err) {
		return errors.Wrapf(ErrConflict, "offer slug %q", o.Slug)
	}
	if err != nil {
		return errors.Wrap(err, "insert offer")
	}
	o.ID, err = res.LastInsertId()
	return errors.Wrap(err, "offer id")
}
