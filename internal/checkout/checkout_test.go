package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/mayaj-store/internal/cart"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
)

// --- fakes ---

type fakeCatalog map[int64]models.Product

func (f fakeCatalog) ProductsByIDs(_ context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOrders struct {
	created []*models.Order
	err     error
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *models.Order) error {
	if f.err != nil {
		return f.err
	}
	o.ID = int64(len(f.created) + 1)
	o.OrderNumber = "ORD202501011200123"
	for i := range o.Items {
		o.Items[i].ID = int64(i + 1)
		o.Items[i].OrderID = o.ID
	}
	f.created = append(f.created, o)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validForm(area string) Form {
	return Form{
		ShippingFullName: "Rahim Uddin",
		ShippingEmail:    "rahim@example.com",
		ShippingPhone:    "01711000000",
		ShippingAddress:  "House 1, Road 2",
		ShippingCity:     "Dhaka",
		DeliveryArea:     area,
		PaymentMethod:    string(models.PaymentCashOnDelivery),
	}
}

func setup() (*Service, *fakeOrders, fakeCatalog) {
	catalog := fakeCatalog{
		1: {ID: 1, Name: "Product A", Price: dec("500"), IsActive: true, StockQuantity: 10},
		2: {ID: 2, Name: "Product B", Price: dec("300"), IsActive: true, StockQuantity: 10},
	}
	orders := &fakeOrders{}
	return NewService(catalog, orders, DefaultRates(), logger.NewNop()), orders, catalog
}

// --- totals ---

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		area     DeliveryArea
		shipping string
		total    string
	}{
		{AreaInside, "60", "1360"},
		{AreaOutside, "120", "1420"},
	}
	for _, tt := range tests {
		got := ComputeTotals(dec("1300"), tt.area, DefaultRates())
		assert.True(t, dec(tt.shipping).Equal(got.ShippingCost), tt.area)
		assert.True(t, dec(tt.total).Equal(got.Total), tt.area)
		assert.True(t, got.Discount.IsZero())
		assert.True(t, got.Tax.IsZero())
	}
}

// --- PlaceOrder ---

func TestPlaceOrder_SnapshotExample(t *testing.T) {
	svc, orders, catalog := setup()
	c := cart.New()
	a, b := catalog[1], catalog[2]
	require.NoError(t, c.Add(&a, 2, "M", false))
	require.NoError(t, c.Add(&b, 1, "", false))

	// A later price change must not leak into the order.
	a.Price = dec("999")
	catalog[1] = a

	uid := int64(42)
	order, err := svc.PlaceOrder(context.Background(), c, validForm("inside"), &uid)
	require.NoError(t, err)
	require.Len(t, orders.created, 1)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, &uid, order.UserID)
	assert.True(t, dec("1300").Equal(order.Subtotal))
	assert.True(t, dec("60").Equal(order.ShippingCost))
	assert.True(t, dec("1360").Equal(order.Total))
	assert.Nil(t, order.ShippingState)

	require.Len(t, order.Items, 2)
	first, second := order.Items[0], order.Items[1]
	assert.Equal(t, "Product A", first.ProductName)
	assert.Equal(t, "M", *first.Size)
	assert.Equal(t, 2, first.Quantity)
	assert.True(t, dec("500").Equal(first.Price))
	assert.True(t, dec("1000").Equal(first.TotalPrice()))
	assert.Nil(t, second.Size)
	assert.Equal(t, 1, second.Quantity)
	assert.True(t, dec("300").Equal(second.Price))

	// Clearing is the caller's job.
	assert.False(t, c.IsEmpty())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	svc, orders, _ := setup()
	_, err := svc.PlaceOrder(context.Background(), cart.New(), validForm("inside"), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.created)
}

func TestPlaceOrder_InactiveOrMissingProduct(t *testing.T) {
	svc, orders, catalog := setup()
	c := cart.New()
	a := catalog[1]
	require.NoError(t, c.Add(&a, 1, "", false))
	a.IsActive = false
	catalog[1] = a

	_, err := svc.PlaceOrder(context.Background(), c, validForm("outside"), nil)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, int64(1), ue.ProductID)

	c2 := cart.New()
	require.NoError(t, c2.Add(&models.Product{ID: 77, Price: dec("5")}, 1, "", false))
	_, err = svc.PlaceOrder(context.Background(), c2, validForm("outside"), nil)
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, int64(77), ue.ProductID)

	assert.Empty(t, orders.created)
}

func TestPlaceOrder_PersistenceError(t *testing.T) {
	svc, orders, catalog := setup()
	orders.err = errors.New("fk violation")
	c := cart.New()
	b := catalog[2]
	require.NoError(t, c.Add(&b, 1, "", false))

	_, err := svc.PlaceOrder(context.Background(), c, validForm("inside"), nil)
	assert.EqualError(t, err, "fk violation")
	assert.Equal(t, 1, c.TotalQuantity())
}

func TestPreview(t *testing.T) {
	svc, _, catalog := setup()
	c := cart.New()
	b := catalog[2]
	require.NoError(t, c.Add(&b, 2, "", false))

	sum, err := svc.Preview(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, sum.Items, 1)
	assert.True(t, dec("660").Equal(sum.Totals.Total))

	_, err = svc.Preview(context.Background(), cart.New())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

// --- buy now ---

func TestValidateBuyNow(t *testing.T) {
	sized := &models.Product{
		ID: 1, IsActive: true, StockQuantity: 10,
		Sizes: []models.ProductSize{{Size: "M", StockQuantity: 2}, {Size: "L", StockQuantity: 0}},
	}
	plain := &models.Product{ID: 2, IsActive: true, StockQuantity: 3}

	assert.ErrorIs(t, ValidateBuyNow(sized, 1, ""), ErrSizeRequired)
	assert.ErrorIs(t, ValidateBuyNow(sized, 1, "XXL"), ErrUnknownSize)
	assert.NoError(t, ValidateBuyNow(sized, 2, "M"))

	var se *StockError
	require.ErrorAs(t, ValidateBuyNow(sized, 3, "M"), &se)
	assert.Equal(t, 2, se.Available)
	assert.Equal(t, "Only 2 items available in size M.", se.Error())

	require.ErrorAs(t, ValidateBuyNow(sized, 1, "L"), &se)
	assert.Equal(t, 0, se.Available)

	assert.NoError(t, ValidateBuyNow(plain, 3, ""))
	require.ErrorAs(t, ValidateBuyNow(plain, 4, ""), &se)
	assert.Equal(t, "Only 3 items available.", se.Error())

	assert.ErrorIs(t, ValidateBuyNow(plain, 0, ""), cart.ErrInvalidQuantity)

	var ue *UnavailableError
	assert.ErrorAs(t, ValidateBuyNow(&models.Product{ID: 9}, 1, ""), &ue)
}

// --- form validation ---

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterValidators(v))
	return v
}

func TestForm_Validation(t *testing.T) {
	v := newValidator(t)

	f := validForm("inside")
	assert.NoError(t, v.Struct(f))

	bad := Form{
		ShippingEmail:      "not-an-email",
		ShippingPhone:      "call me",
		DeliveryArea:       "moon",
		PaymentMethod:      "paypal",
		ShippingZipCode:    "12345678901",
		SenderMobileNumber: "abc",
	}
	errs := FieldErrors(v.Struct(bad))
	assert.Equal(t, "This field is required.", errs["shipping_full_name"])
	assert.Equal(t, "Enter a valid email address.", errs["shipping_email"])
	assert.Equal(t, "Enter a valid phone number.", errs["shipping_phone"])
	assert.Equal(t, "This field is required.", errs["shipping_address"])
	assert.Equal(t, "This field is required.", errs["shipping_city"])
	assert.Equal(t, "Select a valid delivery area.", errs["delivery_area"])
	assert.Equal(t, "Select a valid payment method.", errs["payment_method"])
	assert.Contains(t, errs["shipping_zip_code"], "at most 10")
	assert.Equal(t, "Enter a valid phone number.", errs["sender_mobile_number"])
	assert.NotContains(t, errs, "shipping_state")
}

func TestForm_Trim(t *testing.T) {
	f := Form{ShippingFullName: "  Karim ", DeliveryArea: " outside\n"}
	f.Trim()
	assert.Equal(t, "Karim", f.ShippingFullName)
	assert.Equal(t, "outside", f.DeliveryArea)
}
