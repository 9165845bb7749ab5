package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/warp/payroll-engine/config"
)

var keys = []string{"PAYROLL_ADDR", "PAYROLL_DB", "PAYROLL_RATES_FILE", "LOG_LEVEL", "APP_ENV", "PAYROLL_SHUTDOWN_TIMEOUT"}

// clearEnv blanks every variable for the test; getEnv treats "" as unset.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "payroll.db", cfg.DBPath)
	assert.Empty(t, cfg.RatesFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentWinsOverDotenv(t *testing.T) {
	// GIVEN: A .env file and one variable set in the environment
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAYROLL_DB=/tmp/from-file.db\nAPP_ENV=production\n"), 0o600))
	os.Unsetenv("PAYROLL_DB")
	os.Unsetenv("APP_ENV")
	t.Setenv("PAYROLL_ADDR", ":9090")

	// WHEN: Loading
	cfg, err := config.LoadFile(path)

	// THEN: Both sources contribute
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/tmp/from-file.db", cfg.DBPath)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown log level", "LOG_LEVEL", "loud"},
		{"unknown environment", "APP_ENV", "staging"},
		{"non-positive timeout", "PAYROLL_SHUTDOWN_TIMEOUT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))

			assert.Error(t, err)
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := config.Config{Addr: ":0", DBPath: ":memory:", LogLevel: "warn", Env: "production", ShutdownTimeout: 1}

	logger, err := config.NewLogger(cfg)

	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
