package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/mayaj-store/internal/models"
)

func product(id int64, price string, discount ...string) *models.Product {
	p := &models.Product{ID: id, Name: "P", IsActive: true, Price: decimal.RequireFromString(price)}
	if len(discount) > 0 {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(discount[0]))
	}
	return p
}

type finderFunc func(ctx context.Context, ids []int64) ([]models.Product, error)

func (f finderFunc) ProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	return f(ctx, ids)
}

func TestKey_RoundTrip(t *testing.T) {
	for _, k := range []Key{{ProductID: 7}, {ProductID: 12, Size: "M"}, {ProductID: 3, Size: "EU_42"}} {
		got, err := ParseKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "7_no_size", Key{ProductID: 7}.String())

	_, err := ParseKey("abc_M")
	assert.Error(t, err)
	_, err = ParseKey("12")
	assert.Error(t, err)
}

func TestAdd_AccumulatesAndReplaces(t *testing.T) {
	c := New()
	p := product(1, "500")

	require.NoError(t, c.Add(p, 2, "M", false))
	require.NoError(t, c.Add(p, 3, "M", false))
	l, ok := c.Line(Key{ProductID: 1, Size: "M"})
	require.True(t, ok)
	assert.Equal(t, 5, l.Quantity)

	require.NoError(t, c.Add(p, 1, "M", true))
	l, _ = c.Line(Key{ProductID: 1, Size: "M"})
	assert.Equal(t, 1, l.Quantity)

	require.NoError(t, c.Add(p, 1, "", false))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.TotalQuantity())
	assert.True(t, c.Modified())
}

func TestAdd_RejectsNonPositiveIncrement(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(product(1, "10"), 0, "", false), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(product(1, "10"), -2, "", false), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
	assert.False(t, c.Modified())
}

func TestAdd_CapsLineQuantity(t *testing.T) {
	c := New()
	p := product(1, "10")

	assert.ErrorIs(t, c.Add(p, math.MaxInt, "", false), ErrQuantityTooLarge)
	assert.ErrorIs(t, c.Add(p, MaxLineQuantity+1, "", true), ErrQuantityTooLarge)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.Add(p, MaxLineQuantity-1, "", false))
	assert.ErrorIs(t, c.Add(p, 2, "", false), ErrQuantityTooLarge)
	assert.ErrorIs(t, c.Add(p, math.MaxInt, "", false), ErrQuantityTooLarge)
	require.NoError(t, c.Add(p, 1, "", false))

	l, _ := c.Line(Key{ProductID: 1})
	assert.Equal(t, MaxLineQuantity, l.Quantity)
	assert.True(t, decimal.NewFromInt(10*MaxLineQuantity).Equal(c.TotalPrice()))

	assert.ErrorIs(t, c.Update(1, "", math.MaxInt), ErrQuantityTooLarge)
	l, _ = c.Line(Key{ProductID: 1})
	assert.Equal(t, MaxLineQuantity, l.Quantity)
}

func TestAdd_ReplaceWithZeroRemoves(t *testing.T) {
	c := New()
	p := product(1, "10")
	require.NoError(t, c.Add(p, 2, "", false))
	require.NoError(t, c.Add(p, 0, "", true))
	assert.True(t, c.IsEmpty())
}

func TestTotalPrice_UsesSnapshot(t *testing.T) {
	c := New()
	p := product(1, "500", "450")
	require.NoError(t, c.Add(p, 2, "", false))

	p.DiscountPrice = decimal.NullDecimal{}
	p.Price = decimal.RequireFromString("999")
	require.NoError(t, c.Add(p, 1, "", false))

	assert.True(t, decimal.RequireFromString("1350").Equal(c.TotalPrice()))
}

func TestRemoveAndUpdate(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product(1, "100"), 2, "S", false))
	require.NoError(t, c.Add(product(2, "50"), 1, "", false))

	c.Remove(9, "")
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Update(9, "", 4))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Update(1, "S", 4))
	l, _ := c.Line(Key{ProductID: 1, Size: "S"})
	assert.Equal(t, 4, l.Quantity)

	require.NoError(t, c.Update(1, "S", 0))
	_, ok := c.Line(Key{ProductID: 1, Size: "S"})
	assert.False(t, ok)

	c.Remove(2, "")
	assert.True(t, c.IsEmpty())
}

// Random add/remove/update sequences never leave a non-positive line and
// TotalQuantity always equals the sum of line quantities.
func TestInvariants_RandomOps(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	sizes := []string{"", "S", "M"}
	c := New()
	for range 2000 {
		id := int64(r.IntN(4) + 1)
		size := sizes[r.IntN(len(sizes))]
		q := r.IntN(7) - 2
		switch r.IntN(4) {
		case 0:
			_ = c.Add(product(id, "10"), q, size, false)
		case 1:
			_ = c.Add(product(id, "10"), q, size, true)
		case 2:
			_ = c.Update(id, size, q)
		case 3:
			c.Remove(id, size)
		}

		sum := 0
		for _, l := range c.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			require.LessOrEqual(t, l.Quantity, MaxLineQuantity)
			sum += l.Quantity
		}
		require.Equal(t, sum, c.TotalQuantity())
	}
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product(1, "10"), 1, "", false))
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalQuantity())
	assert.True(t, c.TotalPrice().IsZero())
}

func TestJSON_SessionForm(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product(12, "500"), 2, "M", false))
	require.NoError(t, c.Add(product(3, "300"), 1, "", false))

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var m map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "12_M")
	assert.Contains(t, m, "3_no_size")
	assert.Equal(t, "500", m["12_M"]["price"])

	back := New()
	require.NoError(t, json.Unmarshal(raw, back))
	assert.False(t, back.Modified())
	assert.Equal(t, c.Lines(), back.Lines())
}

func TestItems_BatchLookupAndSkipsMissing(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product(1, "500"), 2, "M", false))
	require.NoError(t, c.Add(product(1, "500"), 1, "L", false))
	require.NoError(t, c.Add(product(2, "300"), 1, "", false))

	calls := 0
	finder := finderFunc(func(_ context.Context, ids []int64) ([]models.Product, error) {
		calls++
		assert.Equal(t, []int64{1, 2}, ids)
		return []models.Product{*product(1, "999")}, nil
	})

	seq, err := c.Items(context.Background(), finder)
	require.NoError(t, err)

	var keys []Key
	for k, it := range seq {
		keys = append(keys, k)
		assert.Equal(t, int64(1), it.Product.ID)
		assert.True(t, decimal.RequireFromString("500").Equal(it.UnitPrice))
	}
	assert.Equal(t, []Key{{ProductID: 1, Size: "L"}, {ProductID: 1, Size: "M"}}, keys)

	n := 0
	for range seq {
		n++
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, calls)
}

func TestItems_FinderError(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product(1, "5"), 1, "", false))
	boom := errors.New("boom")
	_, err := c.Items(context.Background(), finderFunc(func(context.Context, []int64) ([]models.Product, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)
}

func TestItems_EmptyCartSkipsLookup(t *testing.T) {
	seq, err := New().Items(context.Background(), finderFunc(func(context.Context, []int64) ([]models.Product, error) {
		t.Fatal("lookup on empty cart")
		return nil, nil
	}))
	require.NoError(t, err)
	for range seq {
		t.Fatal("unexpected item")
	}
}
