// Package main is the entry point for the Wanderlust Planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/config"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/handler"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/itinerary"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/middleware"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/repo"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/service"
	"github.com/jedrzejp08-cloud/wanderlust-planner/internal/token"
	"github.com/jedrzejp08-cloud/wanderlust-planner/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	trips, users, closeStores, err := openStores(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeStores()
	slog.Info("storage ready", "backend", cfg.StoreBackend)

	// --- Services ---------------------------------------------------------
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	tripSvc := service.NewTripService(trips, itinerary.NewGenerator(nil), logger, cfg.GenerationDelay)
	userSvc := service.NewUserService(users, tokens, logger, cfg.AuthDelay)
	exportSvc := service.NewExportService(trips)
	srv := handler.NewServer(tripSvc, userSvc, exportSvc, tokens, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srv.Handler())

	// --- HTTP Server ------------------------------------------------------
	// Generation sleeps for GENERATION_DELAY, so the write timeout leaves room for it.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + cfg.GenerationDelay,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStores builds the trip and user repositories for the configured
// backend. The returned func releases their connections.
func openStores(ctx context.Context, cfg config.Config) (repo.TripRepo, repo.UserRepo, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repo.NewMemoryTripRepo(), repo.NewMemoryUserRepo(), func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		closeFn := func() { client.Close() }
		return repo.NewRedisTripRepo(client, cfg.RedisPrefix), repo.NewRedisUserRepo(client, cfg.RedisPrefix), closeFn, nil

	default:
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, nil, err
		}

		// pgxpool manages a pool of Postgres connections.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return repo.NewTripRepo(pool), repo.NewUserRepo(pool), pool.Close, nil
	}
}

// migrate applies pending goose migrations. goose needs database/sql, so it
// gets its own short-lived connection.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}
