package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "SHOP_API_BASE_URL", "SHOP_API_TOKEN", "SHOP_API_TIMEOUT",
		"CATALOG_DB_PATH", "CSV_DELIMITER", "MAX_UPLOAD_BYTES", "DEFAULT_ORG_ID", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.ShopAPIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ShopAPITimeout)
	assert.Equal(t, "data/catalog.db", cfg.CatalogDBPath)
	assert.Equal(t, ",", cfg.CSVDelimiter)
	assert.Equal(t, 5<<20, cfg.MaxUploadBytes)
	assert.Error(t, cfg.RequireBot())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
	t.Setenv("SHOP_API_TOKEN", "api")
	t.Setenv("SHOP_API_TIMEOUT", "5s")
	t.Setenv("CSV_DELIMITER", ";")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("DEFAULT_ORG_ID", " org1 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.ShopAPITimeout)
	assert.Equal(t, ";", cfg.CSVDelimiter)
	assert.Equal(t, 1024, cfg.MaxUploadBytes)
	assert.Equal(t, "org1", cfg.DefaultOrgID)
	assert.NoError(t, cfg.RequireBot())
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"SHOP_API_TIMEOUT": "soon",
		"CSV_DELIMITER":    ";;",
		"MAX_UPLOAD_BYTES": "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
