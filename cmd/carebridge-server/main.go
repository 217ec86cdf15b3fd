package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wlstjr1123/carebridge/internal/config"
	"github.com/wlstjr1123/carebridge/internal/domain/facility"
	"github.com/wlstjr1123/carebridge/internal/domain/favorite"
	"github.com/wlstjr1123/carebridge/internal/domain/pipeline"
	"github.com/wlstjr1123/carebridge/internal/domain/preference"
	"github.com/wlstjr1123/carebridge/internal/platform/auth"
	"github.com/wlstjr1123/carebridge/internal/platform/db"
	"github.com/wlstjr1123/carebridge/internal/platform/feed"
	"github.com/wlstjr1123/carebridge/internal/platform/location"
	"github.com/wlstjr1123/carebridge/internal/platform/middleware"
	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carebridge-server",
		Short: "CareBridge hospital portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(syncCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	return cmd
}

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull the latest ER bed availability from the open-data feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			hpids, _ := cmd.Flags().GetString("hpids")

			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := facility.NewRepoPG(pool)
			client := feed.NewClient(cfg.FeedBaseURL, cfg.FeedServiceKey, logger)
			importer := feed.NewImporter(client, repo, logger)

			if hpids != "" {
				ids := strings.Split(hpids, ",")
				if err := importer.SyncFacilities(ctx, ids); err != nil {
					return fmt.Errorf("facility sync failed: %w", err)
				}
			}
			if err := importer.SyncStatus(ctx); err != nil {
				return fmt.Errorf("bed status sync failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("hpids", "", "Comma-separated HPIDs whose basic info should be refreshed first")
	return cmd
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		// Validate already rejects this outside development.
		secret = "carebridge-dev-secret"
		logger.Warn().Msg("SESSION_SECRET not set; using development secret")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Redis backs sessions and the region-dictionary cache. Without it the
	// portal still runs, on in-process session state.
	var cache *redis.Client
	var sessionStore session.Store
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		cache = redis.NewClient(opt)
		defer cache.Close()
		sessionStore = session.NewRedisStore(cache)
		logger.Info().Msg("connected to redis")
	} else {
		sessionStore = session.NewMemoryStore()
		logger.Warn().Msg("REDIS_URL not set; sessions are in-memory and per-instance")
	}

	issuer := auth.NewTokenIssuer([]byte(secret), cfg.AuthIssuer)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))
	e.Use(session.Middleware())
	e.Use(auth.Middleware(issuer))

	// API group
	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))
	if cfg.RequestTimeout > 0 {
		api.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	}

	// -- Wire domain services --

	facilityRepo := facility.NewRepoPG(pool)
	facilitySvc := facility.NewService(facilityRepo, cache)
	facility.NewHandler(facilitySvc).RegisterRoutes(api)

	prefSvc := preference.NewService(
		preference.NewSessionRepository(sessionStore),
		preference.NewResetGuard(sessionStore),
		logger,
	)
	preference.NewHandler(prefSvc).RegisterRoutes(api)

	locCache := location.NewCache(sessionStore, nil, logger)

	favoriteSvc := favorite.NewService(favorite.NewRepoPG(pool), locCache)
	favorite.NewHandler(favoriteSvc).RegisterRoutes(api)

	pipelineSvc := pipeline.NewService(facilitySvc, prefSvc, locCache, favoriteSvc, logger)
	pipeline.NewHandler(pipelineSvc).RegisterRoutes(api)

	// Health check
	e.GET("/health", db.HealthHandler(pool, cache))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
