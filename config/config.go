package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/lms-dashboard/utils"
)

// Credential store backends
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Invalidation policies
const (
	PolicyRedirect = "redirect"
	PolicyRerender = "rerender"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	API           APIConfig
	Session       SessionConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds the local dashboard server configuration
type ServerConfig struct {
	Host               string
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins []string
}

// APIConfig holds the backend connection settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig holds credential persistence and invalidation settings
type SessionConfig struct {
	Profile            string
	Store              string
	Dir                string
	InvalidationPolicy string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "127.0.0.1"),
			Port:               getPort(),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*", "http://127.0.0.1:*"}),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:8000/api/"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Profile:            getEnv("DASHBOARD_PROFILE", "default"),
			Store:              strings.ToLower(getEnv("CREDENTIAL_STORE", StoreFile)),
			Dir:                getEnv("CREDENTIAL_DIR", defaultCredentialDir()),
			InvalidationPolicy: strings.ToLower(getEnv("INVALIDATION_POLICY", PolicyRedirect)),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	if c.Session.Profile == "" {
		return fmt.Errorf("dashboard profile is required")
	}
	if err := utils.ValidateOneOf(c.Session.Store, "CREDENTIAL_STORE", []string{StoreFile, StoreSQLite, StoreMemory}); err != nil {
		return fmt.Errorf("%w, got %q", err, c.Session.Store)
	}
	if c.Session.Store != StoreMemory && c.Session.Dir == "" {
		return fmt.Errorf("CREDENTIAL_DIR is required for the %s store", c.Session.Store)
	}

	if err := utils.ValidateOneOf(c.Session.InvalidationPolicy, "INVALIDATION_POLICY", []string{PolicyRedirect, PolicyRerender}); err != nil {
		return fmt.Errorf("%w, got %q", err, c.Session.InvalidationPolicy)
	}

	// Observability validation
	if err := utils.ValidateRequired(c.Observability.LogLevel, "LOG_LEVEL"); err != nil {
		return err
	}
	if err := utils.ValidateOneOf(c.Observability.LogFormat, "LOG_FORMAT", []string{"json", "console"}); err != nil {
		return fmt.Errorf("%w, got %q", err, c.Observability.LogFormat)
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SQLitePath returns the database file used by the sqlite store
func (c *SessionConfig) SQLitePath() string {
	return filepath.Join(c.Dir, "credentials.db")
}

// Helper functions

func defaultCredentialDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".lms-dashboard"
	}
	return filepath.Join(dir, "lms-dashboard")
}

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 5173)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 5173
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
