/*
Package config loads server configuration from the environment.

SOURCES (later wins):
  1. Defaults below
  2. An optional .env file in the working directory
  3. Process environment
  4. Command-line flags (applied by cmd/server)

VARIABLES:
  PAYROLL_ADDR        Listen address (default :8080)
  PAYROLL_DB          SQLite path, ":memory:" allowed (default payroll.db)
  PAYROLL_RATES_FILE  JSON or YAML rate table; empty uses the built-in table
  LOG_LEVEL           debug, info, warn, error (default info)
  APP_ENV             development or production (default development)
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr      string
	DBPath    string
	RatesFile string
	LogLevel  string
	Env       string
	// Seconds to wait for in-flight requests on shutdown.
	ShutdownTimeout int
}

// Load reads .env (if present) and the environment. A missing .env is not
// an error; a malformed one is.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	cfg := Config{
		Addr:            getEnv("PAYROLL_ADDR", ":8080"),
		DBPath:          getEnv("PAYROLL_DB", "payroll.db"),
		RatesFile:       getEnv("PAYROLL_RATES_FILE", ""),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Env:             strings.ToLower(getEnv("APP_ENV", "development")),
		ShutdownTimeout: getEnvInt("PAYROLL_SHUTDOWN_TIMEOUT", 30),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("PAYROLL_ADDR must not be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("PAYROLL_DB must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("APP_ENV must be development or production, got %q", c.Env)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("PAYROLL_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// NewLogger builds a JSON logger in production and a console logger
// otherwise, both at the configured level.
func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if c.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
