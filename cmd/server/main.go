package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/veltasoft/backend/internal/config"
	"github.com/veltasoft/backend/internal/handler"
	appMiddleware "github.com/veltasoft/backend/internal/middleware"
	"github.com/veltasoft/backend/internal/notification"
	"github.com/veltasoft/backend/internal/repository"
	"github.com/veltasoft/backend/internal/service"
	"github.com/veltasoft/backend/pkg/payment"
)

func main() {
	// Load .env file if present (for local development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	log.Println("Database connected & migrated")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// Payment provider
	provider := payment.NewStripeProvider(cfg.StripeAPIKey, cfg.StripeWebhookSecret)

	// Optional SMTP mailer
	var mailer service.Mailer
	if cfg.SMTPHost != "" {
		mailer = notification.NewEmailService(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
	}

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword, userRepo)
	registrationSvc := service.NewRegistrationService(
		companyRepo, userRepo, provider, mailer,
		cfg.PlanPriceIDs, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL,
	)
	billingSvc := service.NewBillingService(provider, subRepo, companyRepo)

	// Seed platform admin on first startup
	if cfg.AdminPassword != "" {
		if err := authSvc.SeedAdmin(ctx); err != nil {
			log.Fatalf("Admin seed error: %v", err)
		}
	} else {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	healthHandler := handler.NewHealthHandler(db)
	plansHandler := handler.NewPlansHandler()
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	webhookHandler := handler.NewWebhookHandler(billingSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(billingSvc)
	userHandler := handler.NewUserHandler(authSvc)
	adminHandler := handler.NewAdminHandler(db, authSvc, companyRepo)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(appMiddleware.Recovery)
	r.Use(appMiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Global rate limiter (20 req/sec per IP, burst of 40)
	globalRL := appMiddleware.NewRateLimiter(20, 40)
	r.Use(globalRL.Middleware())

	// Public routes
	r.Get("/health", healthHandler.Check)
	r.Get("/api/plans", plansHandler.List)
	r.Post("/api/webhooks/payment", webhookHandler.HandlePayment)

	// Signup and login share the strict limiter
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.StrictRateLimiter())
		r.Post("/api/register", registrationHandler.Register)
		r.Post("/api/auth/login", authHandler.Login)
	})

	// Protected API routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.Auth(authSvc))

		r.Post("/api/auth/logout", authHandler.Logout)
		r.Get("/api/auth/me", authHandler.Me)
		r.Get("/api/subscription", subscriptionHandler.GetCurrent)

		// Admin back-office
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminOnly)
			r.Get("/api/admin/stats", adminHandler.GetStats)
			r.Get("/api/admin/companies", adminHandler.ListCompanies)
			r.Get("/api/admin/users", adminHandler.ListUsers)
			r.Post("/api/admin/users", userHandler.Create)
			r.Delete("/api/admin/users/{id}", userHandler.Delete)
		})
	})

	// Start server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("Veltasoft backend listening at http://%s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
