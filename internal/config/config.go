package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/invmis/internal/domain/stockstatus"
)

// Stock sources supported by INVENTORY_SOURCE.
const (
	SourceAPI    = "api"
	SourceSheets = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Inventory  InventoryConfig
	Classifier ClassifierConfig
	Sheets     SheetsConfig
	Alerts     AlertsConfig
	WhatsApp   WhatsAppConfig
	MongoDB    MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// InventoryConfig points at the InvMIS backend that owns stock data.
type InventoryConfig struct {
	Source        string
	BaseURL       string
	StockPath     string
	Token         string
	SessionCookie string
	Timeout       time.Duration
}

// ClassifierConfig selects the stock-level policy used when a caller does not
// provide one.
type ClassifierConfig struct {
	Policy stockstatus.LevelPolicy
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	StockRange      string
	AlertLogRange   string
}

// Enabled reports whether a spreadsheet is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// AlertsConfig holds scheduler and digest settings.
type AlertsConfig struct {
	CronSchedule   string
	Timezone       string
	NotifyTo       string
	DigestMaxLines int
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	VerifyToken   string
}

// Enabled reports whether alert digests can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// WebhookEnabled reports whether inbound stock queries are accepted.
func (c WhatsAppConfig) WebhookEnabled() bool {
	return c.Enabled() && c.VerifyToken != ""
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether snapshots are persisted to MongoDB.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	threshold, err := stockstatus.ParseThresholdField(getenvWithDefault("LOW_STOCK_THRESHOLD", string(stockstatus.ThresholdReorder)))
	if err != nil {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err)
	}

	inclusive, err := getenvBool("OVERSTOCK_INCLUSIVE", true)
	if err != nil {
		return nil, err
	}

	timeout, err := getenvDuration("INVENTORY_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	maxLines, err := getenvInt("ALERT_DIGEST_MAX_LINES", 20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Inventory: InventoryConfig{
			Source:        strings.ToLower(getenvWithDefault("INVENTORY_SOURCE", SourceAPI)),
			BaseURL:       os.Getenv("INVENTORY_API_BASE_URL"),
			StockPath:     getenvWithDefault("INVENTORY_STOCK_PATH", "/api/inventory/stock-quantities"),
			Token:         os.Getenv("INVENTORY_API_TOKEN"),
			SessionCookie: os.Getenv("INVENTORY_SESSION_COOKIE"),
			Timeout:       timeout,
		},
		Classifier: ClassifierConfig{
			Policy: stockstatus.LevelPolicy{Threshold: threshold, OverstockInclusive: inclusive},
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_INVENTORY_ID"),
			StockRange:      getenvWithDefault("INVENTORY_SHEET_RANGE", "Stock!A:J"),
			AlertLogRange:   getenvOptional("ALERT_LOG_SHEET_RANGE", "AlertLog!A:F"),
		},
		Alerts: AlertsConfig{
			CronSchedule:   getenvWithDefault("ALERT_CRON_SCHEDULE", "0 8 * * *"),
			Timezone:       getenvWithDefault("TIMEZONE", "Asia/Karachi"),
			NotifyTo:       os.Getenv("ALERT_NOTIFY_TO"),
			DigestMaxLines: maxLines,
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			VerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "invmis"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Inventory.Source {
	case SourceAPI:
		if c.Inventory.BaseURL == "" {
			return errors.New("INVENTORY_API_BASE_URL must be provided when INVENTORY_SOURCE=api")
		}
		if c.Inventory.StockPath == "" {
			return errors.New("INVENTORY_STOCK_PATH must not be empty")
		}
	case SourceSheets:
		if !c.Sheets.Enabled() {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_INVENTORY_ID must be provided when INVENTORY_SOURCE=sheets")
		}
		if c.Sheets.StockRange == "" {
			return errors.New("INVENTORY_SHEET_RANGE must not be empty")
		}
	default:
		return fmt.Errorf("INVENTORY_SOURCE must be %q or %q, got %q", SourceAPI, SourceSheets, c.Inventory.Source)
	}

	if err := c.Classifier.Policy.Validate(); err != nil {
		return err
	}

	if c.Alerts.CronSchedule == "" {
		return errors.New("ALERT_CRON_SCHEDULE must be provided")
	}

	if c.Alerts.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Alerts.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Alerts.Timezone, err)
	}

	if c.Alerts.DigestMaxLines <= 0 {
		return errors.New("ALERT_DIGEST_MAX_LINES must be positive")
	}

	if c.WhatsApp.Enabled() {
		if c.Alerts.NotifyTo == "" {
			return errors.New("ALERT_NOTIFY_TO must be provided when WhatsApp delivery is enabled")
		}
		if c.WhatsApp.BaseURL == "" || c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_BASE_URL and WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getenvOptional falls back only when key is unset. An explicitly empty value
// or "off" switches the feature off.
func getenvOptional(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "off") {
		return ""
	}
	return value
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, nil
}
