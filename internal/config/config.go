package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	App       AppConfig
	Notify    NotifyConfig
	Sheets    SheetsConfig
	Retention RetentionConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the record store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds session-token settings.
type AuthConfig struct {
	JWTSecret string
}

// AppConfig holds deployment-level options consumed by the renderers: the
// public origin encoded into QR payloads and the logo asset location.
type AppConfig struct {
	PublicBaseURL string
	LogoPath      string
}

// NotifyConfig configures the optional record-event webhook.
type NotifyConfig struct {
	WebhookURL string
	Token      string
}

// SheetsConfig configures the optional compliance export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ExportRange     string
}

// RetentionConfig controls the scheduled purge of soft-deleted records.
type RetentionConfig struct {
	CronSchedule string
	Days         int
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

	retentionDays, err := getenvIntWithDefault("RETENTION_DAYS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "decanting"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		App: AppConfig{
			PublicBaseURL: getenvWithDefault("PUBLIC_BASE_URL", "https://decanting.vercel.app"),
			LogoPath:      getenvWithDefault("LOGO_PATH", "assets/farmovs-logo.png"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Token:      os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SPREADSHEET_ID"),
			ExportRange:     getenvWithDefault("GOOGLE_SHEET_EXPORT_RANGE", "Decants!A:H"),
		},
		Retention: RetentionConfig{
			CronSchedule: getenvWithDefault("PURGE_CRON_SCHEDULE", "0 2 * * *"),
			Days:         retentionDays,
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

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.App.PublicBaseURL == "" {
		return errors.New("PUBLIC_BASE_URL must not be empty")
	}

	if c.SheetsEnabled() {
		switch {
		case c.Sheets.CredentialsPath == "":
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when sheet export is enabled")
		case c.Sheets.ExportRange == "":
			return errors.New("GOOGLE_SHEET_EXPORT_RANGE must not be empty")
		}
	}

	switch {
	case c.Retention.CronSchedule == "":
		return errors.New("PURGE_CRON_SCHEDULE must be provided")
	case c.Retention.Days <= 0:
		return errors.New("RETENTION_DAYS must be positive")
	}

	return nil
}

// SheetsEnabled reports whether the compliance export is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

// NotifyEnabled reports whether the record-event webhook is configured.
func (c *Config) NotifyEnabled() bool {
	return c.Notify.WebhookURL != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvIntWithDefault(key string, fallback int) (int, error) {
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
