package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wellcare/wellcare/internal/config"
	"github.com/wellcare/wellcare/internal/domain/alerting"
	"github.com/wellcare/wellcare/internal/domain/assistant"
	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/domain/identity"
	"github.com/wellcare/wellcare/internal/domain/medication"
	"github.com/wellcare/wellcare/internal/domain/vitals"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/llm"
	"github.com/wellcare/wellcare/internal/platform/middleware"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wellcare-server",
		Short: "WellCare Companion API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the WellCare API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the record store schema (postgres backend only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreBackend != "postgres" {
				return fmt.Errorf("migrate only applies to the postgres backend, STORE_BACKEND is %q", cfg.StoreBackend)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.NewPostgres(pool).Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Record store schema is up to date.")
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Record store
	ctx := context.Background()
	var kv store.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate record store")
		}
		kv = pg
		logger.Info().Msg("connected to postgres record store")
	case "redis":
		rds, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rds.Close()
		kv = rds
		logger.Info().Msg("connected to redis record store")
	case "memory":
		kv = store.NewMemory()
		logger.Warn().Msg("using in-memory record store, data will not survive restarts")
	}

	// Token service
	signingKey := cfg.AuthSigningKey
	if signingKey == "" {
		// Dev only; Validate rejects an empty key outside development.
		buf := make([]byte, 32)
		if _, err := crypto_rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate dev signing key")
		}
		signingKey = hex.EncodeToString(buf)
		logger.Warn().Msg("AUTH_SIGNING_KEY not set, generated an ephemeral dev key")
	}
	tokens := auth.NewTokenService([]byte(signingKey), cfg.ParsedTokenTTL())

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	// Route groups. /auth/signup and /auth/login stay open; everything else
	// requires a bearer token.
	open := e.Group("")
	api := e.Group("")
	api.Use(auth.Middleware(tokens))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Domain services, wired in dependency order
	identitySvc := identity.NewService(identity.NewRepoKV(kv), tokens)
	consentSvc := consent.NewService(consent.NewRepoKV(kv), identitySvc)
	alertingSvc := alerting.NewService(alerting.NewRepoKV(kv), consentSvc, consentSvc, logger)
	vitalsSvc := vitals.NewService(vitals.NewRepoKV(kv), consentSvc, alertingSvc, logger)
	medicationSvc := medication.NewService(medication.NewRepoKV(kv), consentSvc)

	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ParsedOpenAITimeout())
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY not set, assistant will always use fallback responses")
	}
	assistantSvc := assistant.NewService(assistant.NewRepoKV(kv), llmClient, identitySvc, vitalsSvc, medicationSvc, logger)

	identity.NewHandler(identitySvc).RegisterRoutes(open, api)
	consent.NewHandler(consentSvc).RegisterRoutes(api)
	vitals.NewHandler(vitalsSvc).RegisterRoutes(api)
	medication.NewHandler(medicationSvc).RegisterRoutes(api)
	alerting.NewHandler(alertingSvc).RegisterRoutes(api)
	assistant.NewHandler(assistantSvc).RegisterRoutes(api)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("backend", cfg.StoreBackend).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
		return err
	}
	return nil
}
