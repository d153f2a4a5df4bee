package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/sdko-org/callview-api/internal/collector"
	"github.com/sdko-org/callview-api/internal/config"
	"github.com/sdko-org/callview-api/internal/database"
	"github.com/sdko-org/callview-api/internal/diagstore"
	"github.com/sdko-org/callview-api/internal/handlers"
	"github.com/sdko-org/callview-api/internal/httpserver"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	db, err := database.NewPostgresDB(logger, database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		DBName:   cfg.PostgresDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	})
	if err != nil {
		logger.WithError(err).Fatal("Database initialization failed")
	}

	var store diagstore.Store
	if cfg.S3Enabled() {
		store = diagstore.NewS3Store(logger, cfg, db)
	} else {
		store = diagstore.NewPostgresStore(logger, db)
	}

	col := collector.NewClient(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if purger, ok := store.(diagstore.Purger); ok {
		go diagstore.NewTTLPurger(logger, purger, cfg.PurgeInterval).Start(ctx)
	}

	h := handlers.NewAPIHandler(logger, cfg, db, store)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger, db))
	r.Use(handlers.NewRateLimiter(cfg).Middleware)
	r.Use(handlers.ProfilingMiddleware(logger, store, col, cfg.ProfileTTL))
	handlers.RegisterRoutes(r, h)

	httpserver.Run(ctx, logger, r, cfg.ListenAddr, cfg.TLSListenAddr)
}
