package config

import (
	"log"
	"strings"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	// Location is the store's calendar, used for invoice prefixes and report day buckets.
	Location *time.Location

	// Default tax/service applied by the server when a request carries no override.
	TaxEnabled         bool
	TaxRatePercent     decimal.Decimal
	ServiceEnabled     bool
	ServiceRatePercent decimal.Decimal

	AllowNegativeStock bool
	RetryAttempts      int
	TopProductsLimit   int
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("TIMEZONE", "Local")
	viper.SetDefault("TAX_ENABLED", false)
	viper.SetDefault("TAX_RATE_PERCENT", "0")
	viper.SetDefault("SERVICE_ENABLED", false)
	viper.SetDefault("SERVICE_RATE_PERCENT", "0")
	viper.SetDefault("ALLOW_NEGATIVE_STOCK", true)
	viper.SetDefault("RETRY_ATTEMPTS", 3)
	viper.SetDefault("TOP_PRODUCTS_LIMIT", 5)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Using the in-memory ledger store.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	tz := viper.GetString("TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: Invalid value for TIMEZONE ('%s'). Defaulting to Local.\n", tz)
		loc = time.Local
	}
	cfg.Location = loc

	cfg.TaxEnabled = viper.GetBool("TAX_ENABLED")
	cfg.TaxRatePercent = readRate("TAX_RATE_PERCENT")
	cfg.ServiceEnabled = viper.GetBool("SERVICE_ENABLED")
	cfg.ServiceRatePercent = readRate("SERVICE_RATE_PERCENT")

	cfg.AllowNegativeStock = viper.GetBool("ALLOW_NEGATIVE_STOCK")

	cfg.RetryAttempts = viper.GetInt("RETRY_ATTEMPTS")
	if cfg.RetryAttempts < 1 {
		log.Printf("Warning: Invalid value for RETRY_ATTEMPTS (%d). Defaulting to 3.\n", cfg.RetryAttempts)
		cfg.RetryAttempts = 3
	}

	cfg.TopProductsLimit = viper.GetInt("TOP_PRODUCTS_LIMIT")
	if cfg.TopProductsLimit < 1 {
		cfg.TopProductsLimit = 5
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	return cfg, nil
}

func readRate(key string) decimal.Decimal {
	raw := viper.GetString(key)
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to 0.\n", key, raw)
		return decimal.Zero
	}
	return rate
}

// TaxConfig returns the configured default tax/service settings.
func (c *Config) TaxConfig() domain.TaxConfig {
	return domain.TaxConfig{
		TaxEnabled:         c.TaxEnabled,
		TaxRatePercent:     c.TaxRatePercent,
		ServiceEnabled:     c.ServiceEnabled,
		ServiceRatePercent: c.ServiceRatePercent,
	}
}
