// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Missing product policies for checkout
const (
	MissingProductSkip = "skip"
	MissingProductFail = "fail"
)

// Lock providers for stock serialization
const (
	LockProviderLocal = "local"
	LockProviderRedis = "redis"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Store    StoreConfig
	Checkout CheckoutConfig
	Email    EmailConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// StoreConfig describes the business printed on invoices
type StoreConfig struct {
	Name           string
	GSTIN          string
	Address        string
	Phone          string
	Email          string
	InvoicePrefix  string
	CurrencySymbol string
}

// CheckoutConfig controls checkout and stock ledger behaviour
type CheckoutConfig struct {
	MissingProductPolicy string
	StockRetryAttempts   int
	LockProvider         string
	LockTTL              time.Duration
	LockWait             time.Duration
	DefaultPaymentMethod string
	WalkInCustomerName   string
	DashboardCacheTTL    time.Duration
	PredictionWindowDays int
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider   string
	APIKey     string
	FromEmail  string
	FromName   string
	ReplyTo    string
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPUseTLS bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Retail Management System"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 10<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "retail_db"),
			User:         getEnv("DB_USER", "retail_user"),
			Password:     getEnv("DB_PASSWORD", "retail_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "change-me-to-a-long-random-secret-value"),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRE", 12*time.Hour),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 50),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Store: StoreConfig{
			Name:           getEnv("STORE_NAME", "My Retail Store"),
			GSTIN:          getEnv("STORE_GSTIN", ""),
			Address:        getEnv("STORE_ADDRESS", ""),
			Phone:          getEnv("STORE_PHONE", ""),
			Email:          getEnv("STORE_EMAIL", ""),
			InvoicePrefix:  getEnv("INVOICE_PREFIX", "INV"),
			CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
		},
		Checkout: CheckoutConfig{
			MissingProductPolicy: strings.ToLower(getEnv("CHECKOUT_MISSING_PRODUCT_POLICY", MissingProductSkip)),
			StockRetryAttempts:   getEnvAsInt("STOCK_RETRY_ATTEMPTS", 5),
			LockProvider:         strings.ToLower(getEnv("STOCK_LOCK_PROVIDER", LockProviderLocal)),
			LockTTL:              getEnvAsDuration("STOCK_LOCK_TTL", 10*time.Second),
			LockWait:             getEnvAsDuration("STOCK_LOCK_WAIT", 5*time.Second),
			DefaultPaymentMethod: getEnv("DEFAULT_PAYMENT_METHOD", "cash"),
			WalkInCustomerName:   getEnv("WALK_IN_CUSTOMER_NAME", "Walk-in Customer"),
			DashboardCacheTTL:    getEnvAsDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
			PredictionWindowDays: getEnvAsInt("PREDICTION_WINDOW_DAYS", 30),
		},
		Email: EmailConfig{
			Provider:   strings.ToLower(getEnv("EMAIL_PROVIDER", "none")),
			APIKey:     getEnv("EMAIL_API_KEY", ""),
			FromEmail:  getEnv("FROM_EMAIL", "billing@example.com"),
			FromName:   getEnv("FROM_NAME", "My Retail Store"),
			ReplyTo:    getEnv("EMAIL_REPLY_TO", ""),
			SMTPHost:   getEnv("SMTP_HOST", ""),
			SMTPPort:   getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:   getEnv("SMTP_USER", ""),
			SMTPPass:   getEnv("SMTP_PASS", ""),
			SMTPUseTLS: getEnvAsBool("SMTP_USE_TLS", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is true")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	switch c.Checkout.MissingProductPolicy {
	case MissingProductSkip, MissingProductFail:
	default:
		return fmt.Errorf("CHECKOUT_MISSING_PRODUCT_POLICY must be %q or %q, got %q",
			MissingProductSkip, MissingProductFail, c.Checkout.MissingProductPolicy)
	}

	switch c.Checkout.LockProvider {
	case LockProviderLocal:
	case LockProviderRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("STOCK_LOCK_PROVIDER=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("STOCK_LOCK_PROVIDER must be %q or %q, got %q",
			LockProviderLocal, LockProviderRedis, c.Checkout.LockProvider)
	}

	if c.Checkout.StockRetryAttempts < 1 {
		return fmt.Errorf("STOCK_RETRY_ATTEMPTS must be at least 1")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// FailOnMissingProduct reports whether checkout aborts when a cart line
// references a product that no longer exists.
func (c *Config) FailOnMissingProduct() bool {
	return c.Checkout.MissingProductPolicy == MissingProductFail
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
