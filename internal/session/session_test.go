package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	_, err := st.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	d := newData()
	require.NoError(t, d.Cart.Add(&models.Product{ID: 4, Price: decimal.NewFromInt(250)}, 2, "M", false))
	d.Orders = []int64{9}
	require.NoError(t, st.Save(ctx, "a", d))

	got, err := st.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Cart.TotalQuantity())
	assert.Equal(t, []int64{9}, got.Orders)
	assert.False(t, got.Cart.Modified())

	require.NoError(t, st.Delete(ctx, "a"))
	_, err = st.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st := NewMemoryStore(time.Minute)
	st.now = func() time.Time { return now }

	require.NoError(t, st.Save(ctx, "a", newData()))
	now = now.Add(2 * time.Minute)
	_, err := st.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_LoadRenewsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st := NewMemoryStore(time.Minute)
	st.now = func() time.Time { return now }

	require.NoError(t, st.Save(ctx, "a", newData()))
	for range 3 {
		now = now.Add(40 * time.Second)
		_, err := st.Load(ctx, "a")
		require.NoError(t, err)
	}

	now = now.Add(61 * time.Second)
	_, err := st.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Redis (set TEST_REDIS_ADDR to run) ---

func TestRedisStore_LoadRenewsExpiry(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	st, err := NewRedisStore(ctx, &goredis.Options{Addr: addr}, time.Hour)
	require.NoError(t, err)
	defer st.Close()

	id := "test-" + uuid.NewString()
	defer st.Delete(ctx, id)
	require.NoError(t, st.Save(ctx, id, newData()))
	require.NoError(t, st.rdb.Expire(ctx, redisKeyPrefix+id, time.Minute).Err())

	_, err = st.Load(ctx, id)
	require.NoError(t, err)
	ttl, err := st.rdb.TTL(ctx, redisKeyPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 30*time.Minute)
}

func TestSession_FlashesAndOrders(t *testing.T) {
	s := &Session{ID: "x", data: newData()}
	assert.False(t, s.Modified())

	s.AddFlash(LevelWarning, "careful")
	assert.True(t, s.Modified())
	assert.Equal(t, []Flash{{Level: LevelWarning, Message: "careful"}}, s.PopFlashes())
	assert.Nil(t, s.PopFlashes())

	s.RememberOrder(3)
	s.RememberOrder(3)
	assert.True(t, s.HasOrder(3))
	assert.False(t, s.HasOrder(4))
	assert.Equal(t, []int64{3}, s.data.Orders)
}

func newRouter(st Store) *gin.Engine {
	r := gin.New()
	r.Use(Middleware(st, CookieOptions{Name: "sessionid", MaxAge: time.Hour}, logger.NewNop()))
	r.POST("/add", func(c *gin.Context) {
		s := FromContext(c)
		_ = s.Cart().Add(&models.Product{ID: 1, Price: decimal.NewFromInt(10)}, 1, "", false)
		c.Status(http.StatusNoContent)
	})
	r.GET("/count", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": FromContext(c).Cart().TotalQuantity()})
	})
	return r
}

func TestMiddleware_PersistsAcrossRequests(t *testing.T) {
	st := NewMemoryStore(time.Hour)
	r := newRouter(st)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/add", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sessionid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/add", nil)
		req.AddCookie(cookies[0])
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, cookies[0].Value, w.Result().Cookies()[0].Value)
	}

	req := httptest.NewRequest(http.MethodGet, "/count", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())
}

func TestMiddleware_UnknownCookieStartsFresh(t *testing.T) {
	st := NewMemoryStore(time.Hour)
	r := newRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/count", nil)
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.JSONEq(t, `{"count":0}`, w.Body.String())
	assert.NotEqual(t, "not-a-uuid", w.Result().Cookies()[0].Value)
}

func TestMiddleware_UnmodifiedNotSaved(t *testing.T) {
	st := NewMemoryStore(time.Hour)
	r := newRouter(st)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/count", nil))
	id := w.Result().Cookies()[0].Value

	_, err := st.Load(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
