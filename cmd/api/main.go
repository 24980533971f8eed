package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/01moynul/mayaj-store/internal/auth"
	"github.com/01moynul/mayaj-store/internal/checkout"
	"github.com/01moynul/mayaj-store/internal/config"
	"github.com/01moynul/mayaj-store/internal/database"
	"github.com/01moynul/mayaj-store/internal/handlers"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/routes"
	"github.com/01moynul/mayaj-store/internal/session"
	"github.com/01moynul/mayaj-store/internal/store"
)

func main() {
	app := &cli.App{
		Name:   "mayaj-store",
		Usage:  "Mayaj storefront API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back schema migrations",
				Subcommands: []*cli.Command{
					{Name: "up", Action: migrate("up")},
					{Name: "down", Action: migrate("down")},
				},
			},
			{
				Name:  "create-staff",
				Usage: "create a staff account that can use /admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createStaff,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// bootstrap loads config and builds the logger shared by every command.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	lg, err := logger.New(cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, lg, nil
}

func migrate(direction string) cli.ActionFunc {
	return func(*cli.Context) error {
		cfg, lg, err := bootstrap()
		if err != nil {
			return err
		}
		defer lg.Sync()
		return database.Migrate(cfg.DatabaseDSN, direction, lg)
	}
}

func createStaff(c *cli.Context) error {
	cfg, lg, err := bootstrap()
	if err != nil {
		return err
	}
	defer lg.Sync()

	db, err := database.Open(c.Context, cfg.DatabaseDSN, lg)
	if err != nil {
		return err
	}
	defer db.Close()

	var password models.Password
	if err := password.Set(c.String("password")); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:     c.String("username"),
		Email:        c.String("email"),
		PasswordHash: password.Hash,
		IsStaff:      true,
	}
	if err := store.NewUserStore(db).CreateUser(c.Context, u); err != nil {
		return err
	}
	lg.Info("staff account created", "user_id", u.ID, "email", u.Email)
	return nil
}

func serve(c *cli.Context) error {
	cfg, lg, err := bootstrap()
	if err != nil {
		return err
	}
	defer lg.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. --- Main Database Connection ---
	db, err := database.Open(c.Context, cfg.DatabaseDSN, lg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. --- Session Store (Redis when configured) ---
	var sessions session.Store
	if cfg.RedisAddr != "" {
		rs, err := session.NewRedisStore(c.Context, &goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.SessionTTL)
		if err != nil {
			return err
		}
		defer rs.Close()
		sessions = rs
	} else {
		lg.Warn("REDIS_ADDR not set, sessions are kept in memory")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	// --- Application Setup ---
	catalog := store.NewCatalogStore(db)
	orderStore := store.NewOrderStore(db, cfg.StockPolicy, lg)
	rates := checkout.Rates{Inside: cfg.ShippingInside, Outside: cfg.ShippingOutside}

	app := &handlers.Handlers{
		Catalog:         catalog,
		Promotions:      store.NewPromotionStore(db),
		Orders:          orderStore,
		Content:         store.NewContentStore(db),
		Users:           store.NewUserStore(db),
		Checkout:        checkout.NewService(catalog, orderStore, rates, lg),
		Tokens:          auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		Log:             lg,
		ProductsPerPage: cfg.ProductsPerPage,
		SecureCookies:   cfg.SessionSecure,
		UploadDir:       cfg.UploadDir,
	}

	// --- Router Setup ---
	router, err := routes.SetupRouter(app, routes.Options{
		Sessions: sessions,
		Cookie: session.CookieOptions{
			Name:   cfg.SessionCookieName,
			MaxAge: cfg.SessionTTL,
			Secure: cfg.SessionSecure,
		},
		CORSOrigins: cfg.CORSOrigins,
		Log:         lg,
	})
	if err != nil {
		return err
	}

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		lg.Info("starting API server", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
