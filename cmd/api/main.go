package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/swiftdrop/courier-api/internal/config"
	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/handler"
	"github.com/swiftdrop/courier-api/internal/logging"
	"github.com/swiftdrop/courier-api/internal/mailer"
	"github.com/swiftdrop/courier-api/internal/metrics"
	"github.com/swiftdrop/courier-api/internal/middleware"
	"github.com/swiftdrop/courier-api/internal/repository"
	"github.com/swiftdrop/courier-api/internal/service"
)

func main() {
	// Missing .env is fine outside development; config falls back to the
	// process environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("swiftdrop-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	authSvc := service.NewAuthService(userRepo, mail, service.AuthConfig{
		JWTSecret:     cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		VerifyTimeout: cfg.VerifyTimeout,
		ClientURL:     cfg.ClientURL,
	})
	trackingSvc := service.NewTrackingService(shipmentRepo, mail, cfg.TrackingCodePrefix)

	authHandler := handler.NewAuthHandler(authSvc, !cfg.IsDevelopment(), cfg.SessionTTL)
	userHandler := handler.NewUserHandler(authSvc)
	shipmentHandler := handler.NewShipmentHandler(trackingSvc)
	healthHandler := handler.NewHealthHandler(db)

	authed := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/auth/verify", authHandler.Verify)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", authHandler.ResetPassword)
	mux.Handle("POST /api/v1/auth/logout", authed(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("POST /api/v1/auth/change-password", authed(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/v1/auth/profile", authed(http.HandlerFunc(authHandler.Profile)))

	mux.Handle("GET /api/v1/users", authed(adminOnly(http.HandlerFunc(userHandler.List))))
	mux.Handle("PUT /api/v1/users/{id}", authed(adminOnly(http.HandlerFunc(userHandler.Update))))
	mux.Handle("DELETE /api/v1/users/{id}", authed(adminOnly(http.HandlerFunc(userHandler.Delete))))
	mux.Handle("DELETE /api/v1/users", authed(adminOnly(http.HandlerFunc(userHandler.DeleteAll))))

	// Tracking lookup is the customer-facing operation and stays public.
	mux.HandleFunc("GET /api/v1/shipments/track/{code}", shipmentHandler.GetByTrackingCode)
	mux.Handle("POST /api/v1/shipments", authed(http.HandlerFunc(shipmentHandler.Create)))
	mux.Handle("GET /api/v1/shipments", authed(http.HandlerFunc(shipmentHandler.List)))
	mux.Handle("GET /api/v1/shipments/{id}", authed(http.HandlerFunc(shipmentHandler.GetByID)))
	mux.Handle("PUT /api/v1/shipments/{code}", authed(http.HandlerFunc(shipmentHandler.Update)))
	mux.Handle("DELETE /api/v1/shipments/{code}", authed(http.HandlerFunc(shipmentHandler.Delete)))
	mux.Handle("DELETE /api/v1/shipments", authed(adminOnly(http.HandlerFunc(shipmentHandler.DeleteAll))))

	root := chain(mux,
		middleware.Tracing,
		middleware.Metrics,
		middleware.Logging,
		middleware.Recovery,
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// chain wraps h so that the first middleware listed is the outermost.
func chain(h http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
