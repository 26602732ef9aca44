package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	Currency string

	PaymentApiURL    string // Checkout session endpoint of the payment provider
	PaymentSecretKey string
	WebhookSecret    string // Shared secret for verified webhook deliveries

	FrontendURL string // Fallback redirect origin for checkout sessions

	SendgridApiKey string
	EmailSender    string

	PendingPurchaseTTLHours int // Pending purchases older than this are failed by the sweeper
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		Currency: getEnv("CURRENCY", "usd"),

		PaymentApiURL:    getEnv("PAYMENT_API_URL", "https://api.stripe.com/v1/checkout/sessions"),
		PaymentSecretKey: getEnv("PAYMENT_SECRET_KEY", ""),
		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@lms.local"),

		PendingPurchaseTTLHours: getEnvInt("PENDING_PURCHASE_TTL_HOURS", 24),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.PaymentSecretKey == "" {
		log.Println("Warning: PAYMENT_SECRET_KEY is not set. Checkout sessions will fail.")
	}
	if AppConfig.WebhookSecret == "" {
		log.Println("Warning: WEBHOOK_SECRET is not set. Webhook deliveries will be rejected.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
