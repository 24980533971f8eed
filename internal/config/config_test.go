package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN_PRIMARY", "user:pass@tcp(localhost:3306)/mayaj")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sessionid", cfg.SessionCookieName)
	assert.Equal(t, 336*time.Hour, cfg.SessionTTL)
	assert.Equal(t, StockPolicyNone, cfg.StockPolicy)
	assert.Equal(t, "60", cfg.ShippingInside.String())
	assert.Equal(t, "120", cfg.ShippingOutside.String())
	assert.Equal(t, 8, cfg.ProductsPerPage)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("STOCK_POLICY", "payment")
	t.Setenv("SHIPPING_OUTSIDE", "150.50")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StockPolicyPayment, cfg.StockPolicy)
	assert.Equal(t, "150.5", cfg.ShippingOutside.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		setRequired(t)
		require.NoError(t, os.Unsetenv("DB_DSN_PRIMARY"))
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("bad stock policy", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STOCK_POLICY", "always")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "STOCK_POLICY")
	})
	t.Run("negative shipping", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SHIPPING_INSIDE", "-1")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
