package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Ledger policy
	DefaultDailyBudget decimal.Decimal
	RefundOnDelete     bool

	// Optional donation link shown by clients
	SupportURL string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "ledgerly"),
		DBPassword: getEnv("DB_PASSWORD", "ledgerly"),
		DBName:     getEnv("DB_NAME", "ledgerly"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		RefundOnDelete: getEnvBool("LEDGER_REFUND_ON_DELETE", false),
		SupportURL:     resolveSupportURL(),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Parse default daily budget
	budgetStr := getEnv("LEDGER_DEFAULT_BUDGET", "100.00")
	budget, err := decimal.NewFromString(budgetStr)
	if err != nil || budget.IsNegative() {
		log.Printf("Warning: invalid LEDGER_DEFAULT_BUDGET value '%s', falling back to 100.00\n", budgetStr)
		budget = decimal.NewFromInt(100)
	}
	config.DefaultDailyBudget = budget

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// resolveSupportURL derives the donation link from SUPPORT_URL or
// SUPPORT_USERNAME, returning empty when disabled or unset.
func resolveSupportURL() string {
	enabled := strings.ToLower(strings.TrimSpace(getEnv("SUPPORT_ENABLED", "true")))
	switch enabled {
	case "1", "true", "yes", "on":
	default:
		return ""
	}

	if raw := strings.TrimSpace(os.Getenv("SUPPORT_URL")); raw != "" {
		if !strings.HasPrefix(raw, "http") {
			raw = "https://" + raw
		}
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return ""
		}
		return strings.TrimRight(fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path), "/")
	}

	if username := strings.Trim(strings.ReplaceAll(os.Getenv("SUPPORT_USERNAME"), " ", ""), "/"); username != "" {
		return "https://www.buymeacoffee.com/" + username
	}

	return ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
