package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	identity "github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/tokenware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	logger := identity.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *identity.SlogLogger) error {
	cfg, err := identity.LoadConfig()
	if err != nil {
		return err
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	hasher, err := identity.NewHasher(cfg.Salt)
	if err != nil {
		return err
	}

	tokens := identity.NewTokenService([]byte(cfg.SigningSecret), cfg.TokenTTL).
		WithLogger(logger.With("component", "tokens"))

	auther := identity.NewAuthenticator(store, hasher, tokens).
		WithLogger(logger.With("component", "auther"))

	controller := identity.NewHTTPController(auther).
		WithLogger(logger.With("component", "http"))

	gate := tokenware.New(tokenware.Config{
		TokenValidator: tokens,
		Logger:         logger.With("component", "gate"),
	})

	app := fiber.New(fiber.Config{
		AppName:               "go-identity",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	controller.RegisterRoutes(app, gate)

	logger.Info("server listening", "addr", cfg.ListenAddr)
	return app.Listen(cfg.ListenAddr)
}

func buildStore(cfg *identity.Config, logger *identity.SlogLogger) (identity.UserStore, error) {
	if cfg.DBDSN == "" {
		logger.Info("using in-memory user store")
		return identity.NewMemoryStore(), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := identity.NewBunStore(db)
	if err := store.CreateSchema(context.Background()); err != nil {
		return nil, err
	}

	logger.Info("using sqlite user store", "dsn", cfg.DBDSN)
	return store, nil
}
