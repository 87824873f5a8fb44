package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        int
	JWTSecret   string
	DatabaseURL string
	CORSOrigins []string

	AdminEmail    string
	AdminPassword string

	StripeAPIKey        string
	StripeWebhookSecret string
	// PlanPriceIDs maps plan ids to Stripe price ids, parsed from
	// PLAN_PRICE_IDS ("starter=price_...,pro=price_...").
	PlanPriceIDs       map[string]string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port, _ := strconv.Atoi(getEnv("PORT", "4001"))

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	stripeKey := getEnv("STRIPE_API_KEY", "")
	if stripeKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY is required")
	}

	webhookSecret := getEnv("STRIPE_WEBHOOK_SECRET", "")
	if webhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	planPrices, err := parsePlanPrices(getEnv("PLAN_PRICE_IDS", ""))
	if err != nil {
		return nil, err
	}

	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,https://veltasoft.dev"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	return &Config{
		Port:        port,
		JWTSecret:   jwtSecret,
		DatabaseURL: dbURL,
		CORSOrigins: origins,

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@veltasoft.dev"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		StripeAPIKey:        stripeKey,
		StripeWebhookSecret: webhookSecret,
		PlanPriceIDs:        planPrices,
		CheckoutSuccessURL:  getEnv("CHECKOUT_SUCCESS_URL", "https://veltasoft.dev/signup/success"),
		CheckoutCancelURL:   getEnv("CHECKOUT_CANCEL_URL", "https://veltasoft.dev/pricing"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     smtpPort,
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "hello@veltasoft.dev"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Veltasoft"),
	}, nil
}

func parsePlanPrices(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("PLAN_PRICE_IDS is required (e.g. starter=price_123,pro=price_456)")
	}

	prices := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("PLAN_PRICE_IDS entry %q is not plan=price_id", pair)
		}
		prices[parts[0]] = parts[1]
	}
	return prices, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
