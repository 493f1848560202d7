// ============================================================================
// internal/shared/config.go
// Configuration management and environment variable helpers
// ============================================================================

package shared

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================================
// Configuration Structs
// ============================================================================

// Config holds the full configuration for the feedback API process. The
// store URI and service credential are supplied only through the process
// environment and are never echoed back to clients.
type Config struct {
	ServiceName string
	HTTPPort    string
	Environment string // development, staging, production

	MongoDB  MongoConfig
	Admin    AdminConfig
	Security SecurityConfig
	CORS     CORSConfig

	// Retry budgets differ per call site: the login lookup gives up sooner
	// than the roster read.
	LoginRetry RetryPolicy
	QueryRetry RetryPolicy
}

// AdminConfig holds the single shared admin identity. PasswordHash, when
// set, is a bcrypt hash compared instead of the plaintext password.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// SecurityConfig holds token signing settings.
type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
}

// CORSConfig holds CORS settings for the HTTP surface.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // seconds
}

// ============================================================================
// Configuration Loading
// ============================================================================

// LoadEnv loads environment variables from a .env file.
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("Warning: %s file not found, using system environment variables", envFile)
		return err
	}

	log.Printf("Successfully loaded environment from %s", envFile)
	return nil
}

// LoadConfig loads the service configuration from the environment.
func LoadConfig() (*Config, error) {
	mongoURI := GetEnv("MONGO_URI", "")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}

	cfg := &Config{
		ServiceName: "feedback-api",
		HTTPPort:    GetEnv("HTTP_PORT", "8080"),
		Environment: GetEnv("ENVIRONMENT", "development"),

		MongoDB: MongoConfig{
			URI:            mongoURI,
			Database:       GetEnv("MONGO_DB_NAME", "feedback_portal"),
			ConnectTimeout: GetDurationEnv("MONGO_CONNECT_TIMEOUT", 20*time.Second),
			MaxPoolSize:    uint64(GetIntEnv("MONGO_MAX_POOL_SIZE", 50)),
			MinPoolSize:    uint64(GetIntEnv("MONGO_MIN_POOL_SIZE", 10)),
			MaxIdleTime:    GetDurationEnv("MONGO_MAX_IDLE_TIME", 30*time.Second),
		},

		Admin: AdminConfig{
			Username:     GetEnv("ADMIN_USERNAME", "admin"),
			Password:     GetEnv("ADMIN_PASSWORD", "admin123"),
			PasswordHash: GetEnv("ADMIN_PASSWORD_HASH", ""),
		},

		Security: SecurityConfig{
			JWTSecret:          GetEnv("JWT_SECRET", ""),
			JWTExpirationHours: GetIntEnv("JWT_EXPIRATION_HOURS", 24),
		},

		CORS: CORSConfig{
			AllowedOrigins: GetStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: GetStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: GetStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			MaxAge:         GetIntEnv("CORS_MAX_AGE", 300),
		},

		LoginRetry: RetryPolicy{
			MaxAttempts: GetIntEnv("LOGIN_RETRY_ATTEMPTS", 3),
			Delay:       GetDurationEnv("LOGIN_RETRY_DELAY", 2*time.Second),
		},
		QueryRetry: RetryPolicy{
			MaxAttempts: GetIntEnv("QUERY_RETRY_ATTEMPTS", 4),
			Delay:       GetDurationEnv("QUERY_RETRY_DELAY", 2*time.Second),
		},
	}

	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateConfig validates the loaded configuration.
func ValidateConfig(cfg *Config) error {
	if cfg.HTTPPort == "" {
		return fmt.Errorf("HTTP port is required")
	}
	if cfg.MongoDB.URI == "" {
		return fmt.Errorf("MongoDB URI is required")
	}
	if cfg.MongoDB.Database == "" {
		return fmt.Errorf("MongoDB database name is required")
	}
	if cfg.Admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return fmt.Errorf("admin password or password hash is required")
	}
	if cfg.LoginRetry.MaxAttempts < 1 || cfg.QueryRetry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempt counts must be at least 1")
	}
	return nil
}

// PrintConfig prints the configuration (sanitized) for debugging.
func PrintConfig(cfg *Config) {
	log.Println("=== Service Configuration ===")
	log.Printf("Service Name: %s", cfg.ServiceName)
	log.Printf("HTTP Port: %s", cfg.HTTPPort)
	log.Printf("Environment: %s", cfg.Environment)
	log.Println("=== MongoDB Configuration ===")
	log.Printf("Database: %s", cfg.MongoDB.Database)
	log.Printf("Max Pool Size: %d", cfg.MongoDB.MaxPoolSize)
	log.Printf("Min Pool Size: %d", cfg.MongoDB.MinPoolSize)
	log.Println("=== Retry Configuration ===")
	log.Printf("Login Lookup: %d attempts, %v delay", cfg.LoginRetry.MaxAttempts, cfg.LoginRetry.Delay)
	log.Printf("Roster Read: %d attempts, %v delay", cfg.QueryRetry.MaxAttempts, cfg.QueryRetry.Delay)
	log.Println("=== CORS Configuration ===")
	log.Printf("Allowed Origins: %v", cfg.CORS.AllowedOrigins)
	log.Printf("Allowed Methods: %v", cfg.CORS.AllowedMethods)
	log.Println("=============================")
}

// ============================================================================
// Environment Variable Helpers
// ============================================================================

// GetEnv retrieves an environment variable or returns a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value.
func GetIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetDurationEnv retrieves a duration environment variable ("30s", "5m")
// or returns a default value.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s: %s, using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetStringSliceEnv retrieves a comma-separated list or returns a default value.
func GetStringSliceEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}
	return result
}
