package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8844", cfg.AppAddr)
	assert.Equal(t, "product_master_data.csv", cfg.DataFile)
	assert.Equal(t, "backups", cfg.BackupDir)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.PDFEnabled())

	// Secrets are generated when unset so the workbench boots with zero
	// configuration.
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.NotEmpty(t, cfg.CSRFSecret)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_FILE", "/var/lib/skubase/catalog.csv")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("GOTENBERG_URL", "http://localhost:3000")
	t.Setenv("SESSION_SECRET", "fixed")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/skubase/catalog.csv", cfg.DataFile)
	assert.True(t, cfg.RedisEnabled())
	assert.True(t, cfg.PDFEnabled())
	assert.Equal(t, "fixed", cfg.SessionSecret)
}
