package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/bootstrap"
	"github.com/georgemunganga/ustaz-catalog/internal/config"
	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/georgemunganga/ustaz-catalog/internal/logger"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/auth"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/catalog"
	"github.com/georgemunganga/ustaz-catalog/internal/modules/health"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	ctx := context.Background()

	// ── Storage ─────────────────────────────────────────────
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := bootstrap.OpenStore(connectCtx, cfg, logg)
	cancel()
	if err != nil {
		logg.Fatal("failed to open catalog store", zap.Error(err))
	}
	defer store.Close()

	mediaStore, err := bootstrap.NewMediaStore(ctx, cfg.Media, logg)
	if err != nil {
		logg.Fatal("failed to configure media store", zap.Error(err))
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.RequestLogger(logg))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.RequestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// ── Admin auth ──────────────────────────────────────────
	credentials, err := auth.NewCredentialStore(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, bcrypt.DefaultCost)
	if err != nil {
		logg.Fatal("failed to initialise admin credentials", zap.Error(err))
	}
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	gate := auth.Middleware(tokens)
	auth.NewHandler(auth.NewService(credentials, tokens)).RegisterRoutes(router, gate)

	// ── Catalog ─────────────────────────────────────────────
	catalogService := catalog.NewService(store.Products, store.Combos, mediaStore, logg)
	catalog.NewHandler(catalogService).RegisterRoutes(router, gate)

	health.NewHandler(store.Pinger, logg).RegisterRoutes(router)

	if cfg.SeedOnStart {
		if _, err := catalog.NewSeeder(store.Products, store.Pinger, logg).Seed(ctx); err != nil {
			logg.Warn("initial seed failed", zap.Error(err))
		}
	}

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logg.Info("catalog API server starting", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server forced to shutdown", zap.Error(err))
	}
	logg.Info("server exited")
}
