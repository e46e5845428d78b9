// Command turismo-go runs the tourism-information backend: authentication,
// user administration and the destination catalog, backed by PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/user/turismo-go/apperror"
	"github.com/user/turismo-go/auth"
	"github.com/user/turismo-go/config"
	"github.com/user/turismo-go/db"
	"github.com/user/turismo-go/destinations"
	applog "github.com/user/turismo-go/logger"
	"github.com/user/turismo-go/mailer"
	"github.com/user/turismo-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := applog.New(os.Getenv("APP_ENV") != "production")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	// The mail transport is built exactly once here and injected; there is no
	// first-call initialization anywhere downstream.
	mailSender, err := mailer.NewSMTPSender(cfg.Mail)
	if err != nil {
		logger.Fatal("failed to configure mail sender", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth)
	authService := auth.NewService(pool, tokens, mailSender, *cfg.Auth, cfg.Server.PublicBaseURL, logger)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewService(pool, logger, cfg.Auth.PasswordBcryptCost, cfg.Server.UploadDir)
	userHandlers := users.NewHandlers(userService, cfg.Server.UploadDir)

	destService := destinations.NewService(pool, logger)
	destHandlers := destinations.NewHandlers(destService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.RequestLogger(logger))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Access-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panics become opaque 500s; the payload never carries internal detail.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered", zap.Any("panic", rvr))
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Uploaded profile images are served statically.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Server.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/forgot-password", authHandlers.HandleForgotPassword())
		r.Post("/reset-password/{token}", authHandlers.HandleResetPassword())

		// Self-service profile updates: verification only, the subject comes
		// from the token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(tokens))
			r.Put("/profile/username", authHandlers.HandleUpdateUsername())
			r.Put("/profile/email", authHandlers.HandleUpdateEmail())
			r.Put("/profile/password", authHandlers.HandleUpdatePassword())
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandlers.HandleCreate())

		// Admin-only CRUD.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(tokens), auth.RequireAdmin)
			r.Get("/", userHandlers.HandleList())
			r.Get("/{id}", userHandlers.HandleGet())
			r.Put("/{id}", userHandlers.HandleUpdate())
			r.Delete("/{id}", userHandlers.HandleDelete())
		})

		// Owner-or-admin.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(tokens), auth.RequireOwnerOrAdmin)
			r.Put("/{id}/profile-image", userHandlers.HandleUploadProfileImage())
		})
	})

	r.Route("/destinations", func(r chi.Router) {
		r.Get("/", destHandlers.HandleList())
		r.Get("/categories", destHandlers.HandleListCategories())
		r.Get("/{id}", destHandlers.HandleGet())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(tokens), auth.RequireAdmin)
			r.Post("/", destHandlers.HandleCreate())
			r.Put("/{id}", destHandlers.HandleUpdate())
			r.Delete("/{id}", destHandlers.HandleDelete())
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware, kept here
// to avoid pulling handler packages into main's error path.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"message":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
