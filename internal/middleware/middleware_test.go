package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/01moynul/mayaj-store/internal/auth"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[int64]*models.User

func (f fakeUsers) UserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func whoami(c *gin.Context) {
	id, ok := UserID(c)
	c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewTokenManager("s", time.Hour)
	r := gin.New()
	r.GET("/", OptionalAuth(tokens), whoami)

	tok, err := tokens.GenerateToken(5)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tok})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":5,"ok":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())
}

func TestStaffMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("s", time.Hour)
	users := fakeUsers{
		1: {ID: 1, IsStaff: true, IsActive: true},
		2: {ID: 2, IsStaff: false, IsActive: true},
	}
	r := gin.New()
	r.GET("/admin", AuthMiddleware(tokens), StaffMiddleware(users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).ID})
	})

	do := func(userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if userID != 0 {
			tok, err := tokens.GenerateToken(userID)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do(0).Code)
	assert.Equal(t, http.StatusForbidden, do(2).Code)
	assert.Equal(t, http.StatusUnauthorized, do(3).Code)
	w := do(1)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":1}`, w.Body.String())
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, p := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}
