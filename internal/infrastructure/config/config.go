package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Person Registry.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	API      APIConfig      `yaml:"api"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig contains deployment-level service information.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// CacheConfig contains Redis cache settings for the person collection listing.
// When Enabled is false every read goes straight to the store.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	ListTTL  int    `yaml:"list_ttl"` // seconds
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	Version    string           `yaml:"version"` // default X-Person-API-Version response value
	Key        string           `yaml:"key"`     // default X-API-Key response value
	Timeouts   APITimeoutConfig `yaml:"timeouts"`
	CORS       CORSConfig       `yaml:"cors"`
	Pagination PaginationConfig `yaml:"pagination"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// PaginationConfig bounds the pageable person listing.
type PaginationConfig struct {
	DefaultSize int `yaml:"default_size"`
	MaxSize     int `yaml:"max_size"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret         string `yaml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl"` // minutes
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PERSONREG_SECTION_KEY
// For example: PERSONREG_DATABASE_PATH, PERSONREG_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "person-registry",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:        "./data/personreg.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Cache: CacheConfig{
			Enabled: false,
			Address: "localhost:6379",
			ListTTL: 60,
		},
		API: APIConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Version: "v1",
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			Pagination: PaginationConfig{
				DefaultSize: 20,
				MaxSize:     100,
			},
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL: 15,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PERSONREG_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("PERSONREG_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Cache
	if v := os.Getenv("PERSONREG_CACHE_ADDRESS"); v != "" {
		cfg.Cache.Address = v
	}
	if v := os.Getenv("PERSONREG_CACHE_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}

	// API
	if v := os.Getenv("PERSONREG_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("PERSONREG_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("PERSONREG_API_KEY"); v != "" {
		cfg.API.Key = v
	}

	// Security - JWT secret (IMPORTANT: always override in production)
	if v := os.Getenv("PERSONREG_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}
}

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	if c.Service.Name == "" {
		errs = append(errs, "service.name is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.API.Pagination.DefaultSize < 1 {
		errs = append(errs, "api.pagination.default_size must be positive")
	}
	if c.API.Pagination.MaxSize < c.API.Pagination.DefaultSize {
		errs = append(errs, "api.pagination.max_size must be >= default_size")
	}

	if c.Cache.Enabled && c.Cache.Address == "" {
		errs = append(errs, "cache.address is required when cache.enabled is true")
	}
	if c.Cache.ListTTL < 1 {
		errs = append(errs, "cache.list_ttl must be at least 1 second")
	}

	// JWT secret is REQUIRED. An empty or weak secret would let anyone forge
	// tokens and read the whole person directory.
	const minJWTSecretLength = 32
	if c.Security.JWT.Secret == "" {
		errs = append(errs, "security.jwt.secret is required (set PERSONREG_JWT_SECRET environment variable)")
	} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters for adequate security")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) ReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// WriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) WriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// IdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}

// ListCacheTTL returns the list cache TTL as a Duration.
func (c *CacheConfig) ListCacheTTL() time.Duration {
	return time.Duration(c.ListTTL) * time.Second
}
