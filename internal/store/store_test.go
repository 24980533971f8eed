package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/mayaj-store/internal/config"
	"github.com/01moynul/mayaj-store/internal/database"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/orders"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}

func TestIsDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, isDuplicate(dup))
	assert.True(t, isDuplicate(errors.Wrap(dup, "insert")))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1452}))
	assert.False(t, isDuplicate(nil))
}

// --- MySQL integration (set TEST_MYSQL_DSN to run) ---

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	log := logger.NewNop()
	require.NoError(t, database.Migrate(dsn, "up", log))
	db, err := database.Open(context.Background(), dsn, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, stock int, sizes map[string]int) *models.Product {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	res, err := db.ExecContext(ctx, "INSERT INTO categories (name, slug, description) VALUES (?, ?, '')",
		"Shoes", fmt.Sprintf("shoes-%d", suffix))
	require.NoError(t, err)
	catID, err := res.LastInsertId()
	require.NoError(t, err)

	catalog := NewCatalogStore(db)
	p := &models.Product{
		CategoryID:    catID,
		Name:          fmt.Sprintf("Loafer %d", suffix),
		Price:         decimal.NewFromInt(500),
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, catalog.CreateProduct(ctx, p))
	for size, n := range sizes {
		require.NoError(t, catalog.SetSizeStock(ctx, p.ID, size, n))
	}
	return p
}

func sampleOrder(p *models.Product, qty int, size string) *models.Order {
	item := models.OrderItem{ProductID: p.ID, ProductName: p.Name, Quantity: qty, Price: p.Price}
	if size != "" {
		item.Size = &size
	}
	total := p.Price.Mul(decimal.NewFromInt(int64(qty)))
	return &models.Order{
		Status:           models.OrderPending,
		PaymentStatus:    models.PaymentPending,
		PaymentMethod:    models.PaymentCashOnDelivery,
		Subtotal:         total,
		ShippingCost:     decimal.NewFromInt(60),
		Total:            total.Add(decimal.NewFromInt(60)),
		ShippingFullName: "Test Buyer",
		ShippingEmail:    "buyer@example.com",
		ShippingPhone:    "01700000000",
		ShippingAddress:  "Road 1",
		ShippingCity:     "Dhaka",
		Items:            []models.OrderItem{item},
	}
}

func TestOrderStore_CreateAndLoad(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, 5, map[string]int{"M": 2})
	st := NewOrderStore(db, config.StockPolicyNone, logger.NewNop())

	o := sampleOrder(p, 2, "M")
	require.NoError(t, st.CreateOrder(ctx, o))
	require.NotZero(t, o.ID)
	assert.Regexp(t, `^ORD\d{15}$`, o.OrderNumber)

	got, err := st.OrderByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "M", *got.Items[0].Size)
	assert.True(t, decimal.NewFromInt(1060).Equal(got.Total))

	// stock untouched under the default policy
	reloaded, err := NewCatalogStore(db).ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.StockQuantity)
	assert.Equal(t, 2, reloaded.SizeNamed("M").StockQuantity)

	_, err = st.OrderByID(ctx, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderStore_NumberCollisionRetries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, 5, nil)
	st := NewOrderStore(db, config.StockPolicyNone, logger.NewNop())

	fixed := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(time.Now().UnixNano()%100000) * time.Minute)
	calls := 0
	st.numbers = &orders.NumberGenerator{
		Now: func() time.Time { return fixed },
		Intn: func(int) int {
			calls++
			if calls <= 2 {
				return 0
			}
			return 1
		},
	}

	first := sampleOrder(p, 1, "")
	require.NoError(t, st.CreateOrder(ctx, first))
	second := sampleOrder(p, 1, "")
	require.NoError(t, st.CreateOrder(ctx, second))
	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, 3, calls)
}

func TestOrderStore_StockOnOrderRollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, 1, nil)
	st := NewOrderStore(db, config.StockPolicyOrder, logger.NewNop())

	var before int
	require.NoError(t, db.GetContext(ctx, &before, "SELECT COUNT(*) FROM orders"))

	err := st.CreateOrder(ctx, sampleOrder(p, 2, ""))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var after int
	require.NoError(t, db.GetContext(ctx, &after, "SELECT COUNT(*) FROM orders"))
	assert.Equal(t, before, after)

	require.NoError(t, st.CreateOrder(ctx, sampleOrder(p, 1, "")))
	reloaded, err := NewCatalogStore(db).ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.StockQuantity)
}

func TestOrderStore_UpdateOrderPaymentPolicy(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, 0, map[string]int{"L": 3})
	st := NewOrderStore(db, config.StockPolicyPayment, logger.NewNop())

	o := sampleOrder(p, 2, "L")
	require.NoError(t, st.CreateOrder(ctx, o))

	paidAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	updated, err := st.UpdateOrder(ctx, o.ID, func(o *models.Order) error {
		return orders.MarkAsPaid(o, paidAt, "TX-9", "")
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)

	// paying again leaves paid_at and stock alone
	_, err = st.UpdateOrder(ctx, o.ID, func(o *models.Order) error {
		return orders.MarkAsPaid(o, paidAt.Add(time.Hour), "", "")
	})
	require.NoError(t, err)

	got, err := st.OrderByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PaidAt)
	assert.True(t, paidAt.Equal(*got.PaidAt))
	assert.Equal(t, "TX-9", *got.TransactionID)

	reloaded, err := NewCatalogStore(db).ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.SizeNamed("L").StockQuantity)
}

func TestContentStore_SingletonGetOrCreate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	st := NewContentStore(db)

	s1, err := st.SiteSettings(ctx)
	require.NoError(t, err)
	s2, err := st.SiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s1.SiteName, s2.SiteName)

	s1.SiteName = "Mayaj Test"
	require.NoError(t, st.UpdateSiteSettings(ctx, s1))

	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM site_settings"))
	assert.Equal(t, 1, n)

	s3, err := st.SiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mayaj Test", s3.SiteName)
}

func TestCatalogStore_SearchAndBatch(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, 3, map[string]int{"S": 1})
	catalog := NewCatalogStore(db)

	found, err := catalog.SearchProducts(ctx, p.Name)
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, p.ID, found[0].ID)

	batch, err := catalog.ProductsByIDs(ctx, []int64{p.ID, -5})
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "Shoes", batch[0].CategoryName)
	require.Len(t, batch[0].Sizes, 1)

	bySlug, err := catalog.ProductBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)
}
