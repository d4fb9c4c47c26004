// Package config loads service settings from the environment through viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the placeholder secret. It is refused when auth is enabled.
const DefaultJWTSecret = "change_me"

// Product storage backends.
const (
	ProductStoreGORM   = "gorm"
	ProductStoreMemory = "memory"
)

// ErrDefaultJWTSecret is returned by Validate when auth is enabled without a real secret.
var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set when AUTH_ENABLED is true")

// Config holds every runtime setting of the service.
type Config struct {
	AppPort         string
	DBDriver        string
	DatabaseDSN     string
	ProductStore    string
	RabbitMQURL     string
	AuthEnabled     bool
	JWTSecret       string
	TokenTTL        time.Duration
	LogLevel        string
	ServiceName     string
	OTLPEndpoint    string
	ShutdownTimeout time.Duration
	SeedProducts    bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:shopkart.db?cache=shared")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("PRODUCT_STORE", ProductStoreGORM)
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_SERVICE_NAME", "shopkart")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("SEED_PRODUCTS", false)
}

// Load reads the configuration from environment variables, falling back to defaults.
func Load() Config {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		ProductStore:    v.GetString("PRODUCT_STORE"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		AuthEnabled:     v.GetBool("AUTH_ENABLED"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		ServiceName:     v.GetString("OTEL_SERVICE_NAME"),
		OTLPEndpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		SeedProducts:    v.GetBool("SEED_PRODUCTS"),
	}
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	switch c.ProductStore {
	case ProductStoreGORM, ProductStoreMemory:
	default:
		return fmt.Errorf("unsupported PRODUCT_STORE %q", c.ProductStore)
	}
	if c.AuthEnabled && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrDefaultJWTSecret
	}
	return nil
}
