// Package config_test contains tests for configuration loading
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-management-platform/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.AWSRegion)
	assert.NotZero(t, cfg.DBPort)
	assert.NotZero(t, cfg.HTTPPort)
	assert.Greater(t, cfg.JWTExpiryMinutes, 0)
}

func TestDatabaseURLSSLMode(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "localhost",
		DBPort:     5432,
		DBName:     "loan_management",
		DBUser:     "postgres",
		DBPassword: "pw",
	}
	assert.Contains(t, cfg.DatabaseURL(), "sslmode=disable")

	cfg.DBHost = "db.example.internal"
	assert.Contains(t, cfg.DatabaseURL(), "sslmode=require")
}
