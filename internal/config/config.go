package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Logger  LoggerConfig
	Auth    AuthConfig
	Pricing PricingConfig
	Coupons CouponConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// MongoConfig holds document store configuration.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds cart cache configuration.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds order event publishing configuration. Publishing is
// disabled when no brokers are set.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds token verification configuration. Tokens are issued by
// the external identity provider; this service only validates them.
type AuthConfig struct {
	JWTSecret string
}

// PricingConfig holds the shipping policy in minor currency units.
type PricingConfig struct {
	FreeShippingThreshold int64
	ShippingFlatFee       int64
}

// CouponConfig holds coupon table loading configuration.
type CouponConfig struct {
	FilePath  string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Prefix  string
}

// Load loads configuration from the environment, reading a .env file first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "shopfront"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "shopfront.orders"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: getEnvAsInt64("FREE_SHIPPING_THRESHOLD", 5000),
			ShippingFlatFee:       getEnvAsInt64("SHIPPING_FLAT_FEE", 499),
		},
		Coupons: CouponConfig{
			FilePath:  getEnv("COUPON_FILE", "data/coupons.json"),
			S3Enabled: getEnvAsBool("COUPON_S3_ENABLED", false),
			S3Bucket:  getEnv("COUPON_S3_BUCKET", ""),
			S3Region:  getEnv("COUPON_S3_REGION", "us-east-1"),
			S3Prefix:  getEnv("COUPON_S3_PREFIX", "coupons/"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Mongo.URI == "" {
		return fmt.Errorf("document store URI is required")
	}

	if c.Mongo.Database == "" {
		return fmt.Errorf("document store database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Pricing.FreeShippingThreshold < 0 {
		return fmt.Errorf("free shipping threshold must not be negative")
	}

	if c.Pricing.ShippingFlatFee < 0 {
		return fmt.Errorf("shipping flat fee must not be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Coupons.S3Enabled {
		if c.Coupons.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when coupon S3 loading is enabled")
		}
		if c.Coupons.S3Region == "" {
			return fmt.Errorf("S3 region is required when coupon S3 loading is enabled")
		}
	}

	return nil
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as an int64 or returns a default value.
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// splitCSV splits a comma-separated list, dropping empty entries.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
