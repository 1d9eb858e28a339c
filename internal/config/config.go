// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/jacentio/itemgate/gateway"
	"github.com/jacentio/itemgate/store"
)

// Config holds all application configuration.
type Config struct {
	Environment string
	LogLevel    string

	// AWS configuration
	AWSRegion        string
	DynamoDBEndpoint string
	TableName        string
	ScanPageLimit    int32
	ConsistentRead   bool
	EnableTracing    bool

	// Response header policy
	EnableCORS        bool
	CORSAllowedOrigin string

	// Entry points
	ServerAddress string
	ItemsHandler  gateway.Operation
	HelloHandler  string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_CORS", true)
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	v.SetDefault("SCAN_PAGE_LIMIT", 0)
	v.SetDefault("CONSISTENT_READ", false)
	v.SetDefault("ENABLE_TRACING", false)
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("ITEMS_HANDLER", string(gateway.OpAll))
	v.SetDefault("HELLO_HANDLER", "hello")

	op, err := gateway.ParseOperation(v.GetString("ITEMS_HANDLER"))
	if err != nil {
		return nil, fmt.Errorf("ITEMS_HANDLER: %w", err)
	}

	pageLimit, err := cast.ToInt32E(v.Get("SCAN_PAGE_LIMIT"))
	if err != nil {
		return nil, fmt.Errorf("SCAN_PAGE_LIMIT: %w", err)
	}

	cfg := &Config{
		Environment:       v.GetString("ENVIRONMENT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		AWSRegion:         v.GetString("AWS_REGION"),
		DynamoDBEndpoint:  v.GetString("DYNAMODB_ENDPOINT"),
		TableName:         v.GetString("TABLE_NAME"),
		ScanPageLimit:     pageLimit,
		ConsistentRead:    v.GetBool("CONSISTENT_READ"),
		EnableTracing:     v.GetBool("ENABLE_TRACING"),
		EnableCORS:        v.GetBool("ENABLE_CORS"),
		CORSAllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		ServerAddress:     v.GetString("SERVER_ADDRESS"),
		ItemsHandler:      op,
		HelloHandler:      v.GetString("HELLO_HANDLER"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.ScanPageLimit < 0 {
		return fmt.Errorf("SCAN_PAGE_LIMIT must not be negative, got %d", c.ScanPageLimit)
	}
	return nil
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Store returns the item store configuration.
func (c *Config) Store() store.Config {
	return store.Config{
		TableName:      c.TableName,
		PageLimit:      c.ScanPageLimit,
		ConsistentRead: c.ConsistentRead,
	}
}

// ResponseHeaders returns the headers every gateway response carries.
func (c *Config) ResponseHeaders() map[string]string {
	if !c.EnableCORS {
		return nil
	}
	return gateway.CORSHeaders(c.CORSAllowedOrigin)
}
