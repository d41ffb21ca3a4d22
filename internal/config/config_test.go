package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_CONN", ":memory:")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}
	if cfg.RateRefreshInterval != 5*time.Minute {
		t.Errorf("RateRefreshInterval = %v, want 5m", cfg.RateRefreshInterval)
	}
	if cfg.InflationFallback != 2.7 {
		t.Errorf("InflationFallback = %v, want 2.7", cfg.InflationFallback)
	}
	if cfg.MailEnabled() {
		t.Errorf("MailEnabled() = true without SMTP_HOST")
	}
}

func TestNewConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad driver", "DB_DRIVER", "mysql"},
		{"bad duration", "RATE_REFRESH_INTERVAL", "soon"},
		{"negative duration", "INSIGHT_INTERVAL", "-1h"},
		{"bad float", "DAILY_SPEND_THRESHOLD", "lots"},
		{"empty secret", "JWT_SECRET", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", "sqlite3")
			t.Setenv("DB_CONN", ":memory:")
			t.Setenv(tt.key, tt.value)
			if _, err := NewConfig(); err == nil {
				t.Errorf("NewConfig() with %s=%q returned no error", tt.key, tt.value)
			}
		})
	}
}
