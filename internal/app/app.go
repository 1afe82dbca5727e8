package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/jmkivinen/trialreg/internal/adapter/mailer"
	"github.com/jmkivinen/trialreg/internal/adapter/postgres"
	auditrepo "github.com/jmkivinen/trialreg/internal/adapter/postgres/audit"
	eventrepo "github.com/jmkivinen/trialreg/internal/adapter/postgres/event"
	regrepo "github.com/jmkivinen/trialreg/internal/adapter/postgres/registration"
	"github.com/jmkivinen/trialreg/internal/auth"
	"github.com/jmkivinen/trialreg/internal/config"
	"github.com/jmkivinen/trialreg/internal/service/entry"
	"github.com/jmkivinen/trialreg/internal/service/notify"
	"github.com/jmkivinen/trialreg/internal/transport/middleware"
	"github.com/jmkivinen/trialreg/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, applies
// pending migrations, wires the repositories and services together and
// serves the HTTP API until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := runMigrations(ctx, cfg.Database); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	regs := regrepo.New(pool)
	events := eventrepo.New(pool)
	audits := auditrepo.New(pool)

	mailClient, err := mailer.New(cfg.Mail)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse mail templates: %w", err)
	}

	notifySvc := notify.NewService(logger, mailClient, renderer, regs, audits)
	entrySvc := entry.NewService(logger, regs, events, audits, notifySvc)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	mux := http.NewServeMux()

	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)

	regHandler := rest.NewRegistrationHandler(entrySvc, logger)
	mux.HandleFunc("GET /admin/events/{eventId}/registrations", regHandler.List)
	mux.HandleFunc("PUT /admin/events/{eventId}/registrations/groups", regHandler.PutGroups)
	mux.HandleFunc("GET /admin/events/{eventId}/registrations/{id}/audit", regHandler.AuditTrail)
	mux.HandleFunc("POST /admin/events/{eventId}/messages", regHandler.SendMessages)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimit),
		middleware.Auth(jwtManager),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("stopped")

	return nil
}

// runMigrations applies pending goose migrations. An empty migrations dir
// setting disables startup migrations.
func runMigrations(ctx context.Context, cfg config.DatabaseConfig) error {
	if cfg.MigrationsDir == "" {
		return nil
	}
	if _, err := os.Stat(cfg.MigrationsDir); err != nil {
		return fmt.Errorf("migrations dir %q: %w", cfg.MigrationsDir, err)
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(cfg.MigrationsDir))
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(migrateCtx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
