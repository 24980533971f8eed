package cart

import (
	"context"
	"iter"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/01moynul/mayaj-store/internal/models"
)

// ProductFinder resolves products in one batch. Missing ids are simply absent from the result.
type ProductFinder interface {
	ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
}

// Item is a cart line joined with its live product.
type Item struct {
	Line
	Product    *models.Product `json:"product"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Items resolves every line's product with a single lookup and returns a sequence that
// can be ranged over any number of times. Lines whose product no longer exists are skipped.
func (c *Cart) Items(ctx context.Context, finder ProductFinder) (iter.Seq2[Key, Item], error) {
	lines := c.Lines()
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	byID := make(map[int64]*models.Product, len(ids))
	if len(ids) > 0 {
		products, err := finder.ProductsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
	}

	return func(yield func(Key, Item) bool) {
		for _, l := range lines {
			p, ok := byID[l.ProductID]
			if !ok {
				continue
			}
			if !yield(l.Key(), Item{Line: l, Product: p, TotalPrice: l.Total()}) {
				return
			}
		}
	}, nil
}
