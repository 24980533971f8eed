package checkout

import "github.com/shopspring/decimal"

// DeliveryArea selects the shipping tier.
type DeliveryArea string

const (
	AreaInside  DeliveryArea = "inside"
	AreaOutside DeliveryArea = "outside"
)

func (a DeliveryArea) Valid() bool {
	return a == AreaInside || a == AreaOutside
}

// Rates holds the flat shipping cost per delivery area.
type Rates struct {
	Inside  decimal.Decimal
	Outside decimal.Decimal
}

// DefaultRates are 60 inside the base region and 120 outside it.
func DefaultRates() Rates {
	return Rates{Inside: decimal.NewFromInt(60), Outside: decimal.NewFromInt(120)}
}

// For returns the Inside rate for AreaInside and the Outside rate for anything else.
func (r Rates) For(area DeliveryArea) decimal.Decimal {
	if area == AreaInside {
		return r.Inside
	}
	return r.Outside
}

// Totals are the money fields stored on an order.
type Totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// ComputeTotals applies total = subtotal - discount + tax + shipping.
// No promotion is applied at checkout, so discount and tax are zero.
func ComputeTotals(subtotal decimal.Decimal, area DeliveryArea, rates Rates) Totals {
	t := Totals{
		Subtotal:     subtotal,
		Discount:     decimal.Zero,
		Tax:          decimal.Zero,
		ShippingCost: rates.For(area),
	}
	t.Total = t.Subtotal.Sub(t.Discount).Add(t.Tax).Add(t.ShippingCost)
	return t
}
