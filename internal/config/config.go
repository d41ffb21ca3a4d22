package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBDriver  string
	DBConn    string
	LogLevel  string
	JWTSecret string

	RateOficialURL      string
	RateBlueURL         string
	RateMEPURL          string
	RateRefreshInterval time.Duration

	InflationURL             string
	InflationFallback        float64
	InflationRefreshInterval time.Duration

	InsightInterval     time.Duration
	DailySpendThreshold float64
	ScenarioPresetsPath string
	PreferencesPath     string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBDriver:  getEnv("DB_DRIVER", "postgres"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=finpyme sslmode=disable"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		JWTSecret: getEnv("JWT_SECRET", "secret"),

		RateOficialURL: getEnv("RATE_OFICIAL_URL", "https://dolarapi.com/v1/dolares/oficial"),
		RateBlueURL:    getEnv("RATE_BLUE_URL", "https://dolarapi.com/v1/dolares/blue"),
		RateMEPURL:     getEnv("RATE_MEP_URL", "https://dolarapi.com/v1/dolares/bolsa"),

		InflationURL: getEnv("INFLATION_URL", ""),

		ScenarioPresetsPath: getEnv("SCENARIO_PRESETS_PATH", ""),
		PreferencesPath:     getEnv("PREFERENCES_PATH", "preferences.db"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "alertas@finpyme.local"),
	}

	var err error
	if cfg.RateRefreshInterval, err = getDuration("RATE_REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.InflationRefreshInterval, err = getDuration("INFLATION_REFRESH_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.InsightInterval, err = getDuration("INSIGHT_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.InflationFallback, err = getFloat("INFLATION_FALLBACK", 2.7); err != nil {
		return nil, err
	}
	if cfg.DailySpendThreshold, err = getFloat("DAILY_SPEND_THRESHOLD", 50000); err != nil {
		return nil, err
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite3" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite3, got %q", cfg.DBDriver)
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// MailEnabled reports whether alert emails can be sent
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
