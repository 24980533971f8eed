package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Stock policies decide when product stock is decremented.
const (
	StockPolicyNone    = "none"
	StockPolicyOrder   = "order"
	StockPolicyPayment = "payment"
)

// Config is read from the environment (optionally seeded from a .env file).
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseDSN string `envconfig:"DB_DSN_PRIMARY" required:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	SessionCookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"sessionid"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"336h"`
	SessionSecure     bool          `envconfig:"SESSION_SECURE" default:"false"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	StockPolicy     string          `envconfig:"STOCK_POLICY" default:"none"`
	ShippingInside  decimal.Decimal `envconfig:"SHIPPING_INSIDE" default:"60"`
	ShippingOutside decimal.Decimal `envconfig:"SHIPPING_OUTSIDE" default:"120"`
	ProductsPerPage int             `envconfig:"PRODUCTS_PER_PAGE" default:"8"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`
}

// IsProduction selects the JSON logger and gin's release mode.
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	return FromEnv()
}

// FromEnv decodes and validates the environment without touching .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StockPolicy {
	case StockPolicyNone, StockPolicyOrder, StockPolicyPayment:
	default:
		return fmt.Errorf("STOCK_POLICY must be one of none, order, payment (got %q)", c.StockPolicy)
	}
	if c.ShippingInside.IsNegative() || c.ShippingOutside.IsNegative() {
		return fmt.Errorf("shipping rates must not be negative")
	}
	if c.ProductsPerPage < 1 {
		return fmt.Errorf("PRODUCTS_PER_PAGE must be positive")
	}
	return nil
}
