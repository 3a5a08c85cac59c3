package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Upstream movie metadata configuration
	TMDB TMDBConfig

	// Database configuration
	Database DatabaseConfig

	// Server configuration
	Server ServerConfig

	// Security configuration
	Security SecurityConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig
}

// TMDBConfig holds settings for the upstream metadata API.
type TMDBConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// DatabaseConfig holds user store connection settings
type DatabaseConfig struct {
	URL         string // postgres://, mongodb:// or memory://
	Name        string // database name for document stores
	AutoMigrate bool
	DemoUser    bool
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds security-related settings
type SecurityConfig struct {
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigin string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load reads optional .env files and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// Missing files are fine, the environment may already be populated.
		_ = godotenv.Load(file)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables and validates it.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadTMDB(); err != nil {
		return nil, fmt.Errorf("load tmdb config: %w", err)
	}

	if err := cfg.loadDatabase(); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if err := cfg.loadSecurity(); err != nil {
		return nil, fmt.Errorf("load security config: %w", err)
	}

	cfg.CORS.AllowedOrigin = strings.TrimSpace(getEnvOrDefault("CORS_ALLOWED_ORIGIN", "http://localhost:8080"))

	cfg.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	cfg.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadTMDB() error {
	c.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	c.TMDB.BaseURL = strings.TrimRight(getEnvOrDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/")
	c.TMDB.Language = getEnvOrDefault("TMDB_LANGUAGE", "fr")

	timeout, err := time.ParseDuration(getEnvOrDefault("TMDB_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("invalid TMDB_TIMEOUT: %w", err)
	}
	c.TMDB.Timeout = timeout
	return nil
}

func (c *Config) loadDatabase() error {
	c.Database.URL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	c.Database.Name = getEnvOrDefault("DB_NAME", "cineshelf")

	autoMigrate, err := strconv.ParseBool(getEnvOrDefault("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}
	c.Database.AutoMigrate = autoMigrate

	demoUser, err := strconv.ParseBool(getEnvOrDefault("BOOTSTRAP_DEMO_USER", "false"))
	if err != nil {
		return fmt.Errorf("invalid BOOTSTRAP_DEMO_USER: %w", err)
	}
	c.Database.DemoUser = demoUser
	return nil
}

func (c *Config) loadServer() error {
	portStr := getEnvOrDefault("PORT", "3000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = os.Getenv("HOST")
	return nil
}

func (c *Config) loadSecurity() error {
	c.Security.JWTSecret = os.Getenv("JWT_SECRET")

	rps, err := strconv.ParseFloat(getEnvOrDefault("AUTH_RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return fmt.Errorf("invalid AUTH_RATE_LIMIT_RPS: %w", err)
	}
	c.Security.RateLimitRPS = rps

	burst, err := strconv.Atoi(getEnvOrDefault("AUTH_RATE_LIMIT_BURST", "10"))
	if err != nil {
		return fmt.Errorf("invalid AUTH_RATE_LIMIT_BURST: %w", err)
	}
	c.Security.RateLimitBurst = burst
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	if c.TMDB.APIKey == "" {
		errors = append(errors, "TMDB_API_KEY is required")
	}
	if c.TMDB.Timeout <= 0 {
		errors = append(errors, "TMDB_TIMEOUT must be positive")
	}

	if c.Database.URL == "" {
		errors = append(errors, "DATABASE_URL is required")
	} else if !supportedDatabaseURL(c.Database.URL) {
		errors = append(errors, "DATABASE_URL must use postgres://, postgresql://, mongodb://, mongodb+srv:// or memory://")
	}

	if c.Security.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	} else if len(c.Security.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}
	if c.Security.RateLimitRPS <= 0 || c.Security.RateLimitBurst < 1 {
		errors = append(errors, "AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive")
	}

	if c.CORS.AllowedOrigin == "" {
		errors = append(errors, "CORS_ALLOWED_ORIGIN must not be empty")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// DatabaseScheme returns the lower-cased scheme of the database URL.
func (c *Config) DatabaseScheme() string {
	scheme, _, found := strings.Cut(c.Database.URL, "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}

func supportedDatabaseURL(raw string) bool {
	scheme, _, found := strings.Cut(raw, "://")
	if !found {
		return false
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql", "mongodb", "mongodb+srv", "memory":
		return true
	}
	return false
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
