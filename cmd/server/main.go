// Command server runs the community backend HTTP API.
//
// Startup order: load .env and config, configure logging, open SQLite and
// migrate, connect the shared expiring store, set up tracing, wire the
// router, and serve with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stagemate/go-community-backend/internal/auth"
	"github.com/stagemate/go-community-backend/internal/cache"
	"github.com/stagemate/go-community-backend/internal/config"
	httpapi "github.com/stagemate/go-community-backend/internal/http"
	"github.com/stagemate/go-community-backend/internal/oauth"
	"github.com/stagemate/go-community-backend/internal/observability"
	"github.com/stagemate/go-community-backend/internal/repo"
	"github.com/stagemate/go-community-backend/internal/sysutil"
	"github.com/stagemate/go-community-backend/internal/uploads"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	gin.SetMode(cfg.GinMode)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	store, err := cache.New(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
	}
	defer store.Close()

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup otel")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	var presigner *uploads.Presigner
	if cfg.S3.Bucket != "" {
		presigner, err = uploads.New(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.S3.Bucket).Msg("setup s3 presigner")
		}
	} else {
		log.Info().Msg("S3_UPLOAD_BUCKET not set, uploads disabled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:        db,
		Store:     store,
		Tokens:    auth.NewService(cfg.JWT),
		OAuth:     oauth.NewHTTPVerifier(),
		Presigner: presigner,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
