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

	"github.com/georgemunganga/storefront/internal/cache"
	"github.com/georgemunganga/storefront/internal/config"
	"github.com/georgemunganga/storefront/internal/database"
	"github.com/georgemunganga/storefront/internal/logger"
	"github.com/georgemunganga/storefront/internal/modules/access"
	"github.com/georgemunganga/storefront/internal/modules/auth"
	"github.com/georgemunganga/storefront/internal/modules/blog"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/modules/contact"
	"github.com/georgemunganga/storefront/internal/modules/mail"
	"github.com/georgemunganga/storefront/internal/modules/media"
	"github.com/georgemunganga/storefront/internal/modules/user"
	"github.com/georgemunganga/storefront/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zap.S().Fatalw("connect database", "error", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		zap.S().Fatalw("migrate database", "error", err)
	}
	zap.S().Info("Successfully connected to the database!")

	store := cache.NewMemory()
	stopJanitor, err := store.StartJanitor(cfg.Cache.SweepSpec)
	if err != nil {
		zap.S().Fatalw("start cache janitor", "spec", cfg.Cache.SweepSpec, "error", err)
	}
	defer stopJanitor()

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.Mail)
	}
	images, err := media.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		zap.S().Fatalw("configure image uploads", "error", err)
	}

	flash := web.NewFlash([]byte(cfg.SessionSecret))
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.ActivationTTL)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(auth.Middleware(tokens))

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, tokens, mailer, cfg.BaseURL)
	user.NewHandler(userService, flash).RegisterRoutes(router)

	authService := auth.NewService(userRepo, tokens)
	auth.NewHandler(authService).RegisterRoutes(router)

	gate := access.NewGate(userRepo)

	// ── Catalog ─────────────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, store, gate, images, cfg.ForbiddenWords)
	catalog.NewHandler(catalogService, flash).RegisterRoutes(router)

	// ── Blog & Contacts ─────────────────────────────────────
	blogService := blog.NewService(blog.NewPostgresRepository(db), gate)
	blog.NewHandler(blogService, flash).RegisterRoutes(router)

	contactService := contact.NewService(contact.NewPostgresRepository(db))
	contact.NewHandler(contactService, flash).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().Warnw("shutdown", "error", err)
		}
	}()

	zap.S().Infow("Storefront server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Fatalw("serve", "error", err)
	}
}
