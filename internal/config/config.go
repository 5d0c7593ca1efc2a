package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/wellness_client/internal/environment"
	"github.com/joho/godotenv"
)

const (
	defaultMigrationsPath  = "migrations"
	defaultSessionProfile  = "default"
	defaultHTTPTimeout     = 30 * time.Second
	defaultRefreshInterval = 10 * time.Minute
)

type Config struct {
	Environment      environment.Name
	EnvironmentsFile string
	DBDSN            string
	MigrationsPath   string
	TelegramToken    string
	TelegramOwnerID  int64
	SessionProfile   string
	HTTPTimeout      time.Duration
	RefreshInterval  time.Duration
	Home             string

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional, process variables take precedence
	loaded := godotenv.Load(".env") == nil

	env, ok := environment.Normalize(os.Getenv("APP_ENV"))
	if !ok {
		return nil, fmt.Errorf("APP_ENV %q is not a known environment", os.Getenv("APP_ENV"))
	}

	cfg := &Config{
		Environment:      env,
		EnvironmentsFile: strings.TrimSpace(os.Getenv("ENVIRONMENTS_FILE")),
		DBDSN:            strings.TrimSpace(os.Getenv("DB_DSN")),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		TelegramToken:    strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		SessionProfile:   getEnv("SESSION_PROFILE", defaultSessionProfile),
		DotEnvLoaded:     loaded,
	}

	var err error
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if cfg.RefreshInterval, err = getDuration("PLANS_REFRESH_INTERVAL", defaultRefreshInterval); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval < 0 {
		return nil, fmt.Errorf("PLANS_REFRESH_INTERVAL cannot be negative")
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_OWNER_ID")); raw != "" {
		cfg.TelegramOwnerID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_OWNER_ID: %w", err)
		}
	}

	if cfg.Home, err = resolveHome(os.Getenv("WELLNESS_HOME")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateBot checks the settings only the Telegram surface needs.
func (c *Config) ValidateBot() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required but not set"))
	}
	if c.TelegramOwnerID == 0 {
		errs = append(errs, errors.New("TELEGRAM_OWNER_ID is required but not set"))
	}
	return errors.Join(errs...)
}

// HasDatabase reports whether tokens are persisted in Postgres.
func (c *Config) HasDatabase() bool {
	return c.DBDSN != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func resolveHome(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		return raw, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".wellness"), nil
}
