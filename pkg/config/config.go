package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Data    DataConfig    `yaml:"data"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// AuthConfig configures sessions and the user store.
type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	DatabaseURL  string        `yaml:"database_url"`   // empty = in-memory store
	SeedTestUser bool          `yaml:"seed_test_user"` // development only
}

// DataConfig configures on-disk dataset storage.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// EventsConfig configures the analysis event publisher.
type EventsConfig struct {
	Addr string `yaml:"addr"` // empty = events disabled
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           5000,
			CORSOrigins:    []string{"http://localhost:3000"},
			MaxUploadBytes: 16 << 20, // 16 MiB
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
		},
		Auth: AuthConfig{
			SessionTTL:   30 * time.Minute,
			SeedTestUser: true,
		},
		Data: DataConfig{
			Dir: "data",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// Load reads a YAML config file over the defaults and applies environment
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if secret := os.Getenv("SOCIOGRAM_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.Auth.DatabaseURL = dbURL
	}
}

// Validate checks the configuration, collecting all problems.
func (c *Config) Validate() error {
	return NewValidator("config").
		RangeInt("server.port", c.Server.Port, 1, 65535).
		Positive("server.max_upload_bytes", c.Server.MaxUploadBytes).
		MinLength("auth.jwt_secret", c.Auth.JWTSecret, 32).
		MinDuration("auth.session_ttl", c.Auth.SessionTTL, time.Minute).
		Required("data.dir", c.Data.Dir).
		Err()
}
