package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	TelegramToken  string
	ShopAPIBaseURL string
	ShopAPIToken   string
	ShopAPITimeout time.Duration
	CatalogDBPath  string
	CSVDelimiter   string
	MaxUploadBytes int
	DefaultOrgID   string
	LogLevel       string
}

// Load reads the environment; a missing .env file is fine
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		ShopAPIBaseURL: "http://localhost:8000",
		ShopAPIToken:   os.Getenv("SHOP_API_TOKEN"),
		ShopAPITimeout: 30 * time.Second,
		CatalogDBPath:  "data/catalog.db",
		CSVDelimiter:   ",",
		MaxUploadBytes: 5 << 20,
		DefaultOrgID:   strings.TrimSpace(os.Getenv("DEFAULT_ORG_ID")),
		LogLevel:       strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}

	if baseURL := os.Getenv("SHOP_API_BASE_URL"); baseURL != "" {
		config.ShopAPIBaseURL = baseURL
	}

	if dbPath := os.Getenv("CATALOG_DB_PATH"); dbPath != "" {
		config.CatalogDBPath = dbPath
	}

	if raw := os.Getenv("SHOP_API_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("SHOP_API_TIMEOUT is not a positive duration: %q", raw)
		}
		config.ShopAPITimeout = timeout
	}

	if raw := os.Getenv("CSV_DELIMITER"); raw != "" {
		if utf8.RuneCountInString(raw) != 1 {
			return nil, fmt.Errorf("CSV_DELIMITER must be a single character: %q", raw)
		}
		config.CSVDelimiter = raw
	}

	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES is not a positive integer: %q", raw)
		}
		config.MaxUploadBytes = parsed
	}

	return config, nil
}

// RequireBot validates the settings only the chat bot needs
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is empty")
	}
	if c.ShopAPIToken == "" {
		return fmt.Errorf("SHOP_API_TOKEN environment variable is empty")
	}
	return nil
}
