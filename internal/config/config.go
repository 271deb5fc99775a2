package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	DatabaseURL    string
	StoreDriver    string
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string
	CORSOrigins    string

	AuthJWTSecret   string
	AuthJWTIssuer   string
	AuthJWTAudience string
	AuthLeeway      time.Duration
	// AuthDisabled serves the API without bearer tokens. Local development only.
	AuthDisabled bool
}

// Load reads the configuration from the environment. Values in a .env file
// in the working directory are used for keys the environment does not set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	authDisabled, err := strconv.ParseBool(getEnv("AUTH_DISABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("parse AUTH_DISABLED: %w", err)
	}
	leeway, err := time.ParseDuration(getEnv("AUTH_JWT_LEEWAY", "30s"))
	if err != nil {
		return nil, fmt.Errorf("parse AUTH_JWT_LEEWAY: %w", err)
	}

	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		HTTPListenAddr:  getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ServiceName:     getEnv("SERVICE_NAME", "mabruk-api"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		AuthJWTSecret:   getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTIssuer:   getEnv("AUTH_JWT_ISSUER", ""),
		AuthJWTAudience: getEnv("AUTH_JWT_AUDIENCE", "authenticated"),
		AuthLeeway:      leeway,
		AuthDisabled:    authDisabled,
	}

	return cfg, nil
}

// Validate reports every missing or inconsistent setting in one error.
func (c *Config) Validate() error {
	var missing []string
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}
	if !c.AuthDisabled && c.AuthJWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
