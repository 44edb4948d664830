package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Pricing   PricingConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// PricingConfig holds the defaults applied when a recipe or request does not
// carry its own pricing settings.
type PricingConfig struct {
	TaxRate        float64
	TargetGP       float64
	Rounding       string
	DefaultDensity float64
	StrictUnits    bool
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// Margin alerts are only sent when AccessToken, PhoneNumberID and ManagerID are set.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether margin alerts can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.ManagerID != ""
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	PriceListRange  string
	ReviewLogRange  string
}

// Enabled reports whether the price list spreadsheet is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// SchedulerConfig holds cron settings for the background jobs.
type SchedulerConfig struct {
	ReviewCronSchedule string
	SyncCronSchedule   string
	Timezone           string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	taxRate, err := getenvFloat("TAX_RATE", 0.10)
	if err != nil {
		return nil, err
	}
	targetGP, err := getenvFloat("DEFAULT_TARGET_GP", 70)
	if err != nil {
		return nil, err
	}
	density, err := getenvFloat("DEFAULT_DENSITY", 0.8)
	if err != nil {
		return nil, err
	}
	strict, err := getenvBool("STRICT_UNITS", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getenvWithDefault("APP_PORT", "8080"),
			AllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Pricing: PricingConfig{
			TaxRate:        taxRate,
			TargetGP:       targetGP,
			Rounding:       getenvWithDefault("DEFAULT_ROUNDING", "charm"),
			DefaultDensity: density,
			StrictUnits:    strict,
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_PRICE_LIST_ID"),
			PriceListRange:  getenvWithDefault("PRICE_LIST_RANGE", "Ingredients!A2:H"),
			ReviewLogRange:  getenvWithDefault("REVIEW_LOG_RANGE", "MarginReview!A:G"),
		},
		Scheduler: SchedulerConfig{
			ReviewCronSchedule: getenvWithDefault("REVIEW_CRON_SCHEDULE", "0 6 * * *"),
			SyncCronSchedule:   getenvWithDefault("SYNC_CRON_SCHEDULE", "0 5 * * *"),
			Timezone:           getenvWithDefault("TIMEZONE", "UTC"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "platecost"),
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

	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return errors.New("TAX_RATE must be a fraction within [0, 1)")
	}
	if c.Pricing.TargetGP < 0 || c.Pricing.TargetGP >= 100 {
		return errors.New("DEFAULT_TARGET_GP must be within [0, 100)")
	}
	switch strings.ToLower(c.Pricing.Rounding) {
	case "charm", "whole", "real":
	default:
		return fmt.Errorf("DEFAULT_ROUNDING %q must be charm, whole or real", c.Pricing.Rounding)
	}
	if c.Pricing.DefaultDensity <= 0 {
		return errors.New("DEFAULT_DENSITY must be greater than zero")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.WhatsApp.AccessToken != "" {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
		if c.WhatsApp.PhoneNumberID == "" {
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_TOKEN")
		}
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided with GOOGLE_SHEET_PRICE_LIST_ID")
	}

	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
