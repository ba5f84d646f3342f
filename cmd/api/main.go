// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

// Command api is the entry point for the Fairway HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to MongoDB and ensure indexes.
//  4. Connect to Redis.
//  5. Wire security primitives (token codec, MFA secret box).
//  6. Wire domain services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairwaylabs/fairway/internal/api"
	"github.com/fairwaylabs/fairway/internal/platform/config"
	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/email"
	mongostore "github.com/fairwaylabs/fairway/internal/platform/mongo"
	redisstore "github.com/fairwaylabs/fairway/internal/platform/redis"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/users/account"
	"github.com/fairwaylabs/fairway/internal/users/auth"
	"github.com/fairwaylabs/fairway/internal/users/round"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "fairway"))
	slog.SetDefault(log)

	log.Info("[Fairway] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "fairway"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. MongoDB ────────────────────────────────────────────────────────
	mongoClient, database, err := mongostore.Connect(startupCtx, cfg.MongoURL, cfg.MongoDatabase, log)
	must(log, err, "connect to mongodb")
	defer func() {
		log.Info("closing mongodb client")
		if cerr := mongoClient.Disconnect(context.Background()); cerr != nil {
			log.Error("mongodb close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Security Primitives ────────────────────────────────────────────
	codec := sec.NewTokenCodec(cfg.JWTSecret, constants.AuthIssuer)

	secretBox, err := sec.NewSecretBox(cfg.MFAKey())
	must(log, err, "initialize mfa secret box")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return mongostore.Ping(context.Background(), mongoClient)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(database)
	must(log, userRepository.EnsureIndexes(startupCtx), "ensure mongodb indexes")

	sessionStore := auth.NewSessionStore(rdb)

	mailer := email.NewSMTPSender(email.SMTPConfig{
		Host:          cfg.SMTPHost,
		Port:          cfg.SMTPPort,
		Username:      cfg.SMTPUser,
		Password:      cfg.SMTPPass,
		From:          cfg.MailFrom,
		SubjectPrefix: cfg.MailSubject,
		APIBaseURL:    cfg.APIBaseURL,
	}, log)

	issuer := auth.NewIssuer(codec, sessionStore, auth.CookiePolicy{
		Domain:     cfg.CookieDomain,
		Production: cfg.IsProduction(),
	}, auth.TokenPolicy{
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	gate := auth.NewGate(codec, sessionStore, userRepository, issuer)
	github := auth.NewGithubProvider(cfg.GithubClientID, cfg.GithubClientSecret, cfg.APIBaseURL+"/auth/github/callback")

	authService := auth.NewService(userRepository, sessionStore, issuer, codec, secretBox, mailer)
	authHandler := auth.NewHandler(authService, issuer, gate, github, codec, cfg.ClientBaseURL)

	accountRepository := account.NewAccountRepository(database)
	accountService := account.NewService(accountRepository, sessionStore)
	accountHandler := account.NewHandler(accountService, gate)

	roundRepository := round.NewRepository(database)
	roundService := round.NewService(roundRepository)
	roundHandler := round.NewHandler(roundService, gate.Authenticate, gate.Authorize, gate.CSRF)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Round:     roundHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failed",
			slog.String("step", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
