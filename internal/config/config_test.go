package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_FORMAT", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("development LogFormat = %q, want console", cfg.LogFormat)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if !cfg.RunMigrations {
		t.Error("RunMigrations should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WS_EVENTS_PER_SECOND", "2.5")
	t.Setenv("MAX_MESSAGE_LENGTH", "not-a-number")
	t.Setenv("GYM_CACHE_TTL", "garbage")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg := Load()

	if cfg.LogFormat != "json" {
		t.Errorf("non-development LogFormat = %q, want json", cfg.LogFormat)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.WSEventsPerSecond != 2.5 {
		t.Errorf("WSEventsPerSecond = %v, want 2.5", cfg.WSEventsPerSecond)
	}
	if cfg.MaxMessageLength != 2000 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.MaxMessageLength)
	}
	if cfg.GymCacheTTL != 5*time.Minute {
		t.Errorf("invalid duration should fall back to default, got %v", cfg.GymCacheTTL)
	}
	if cfg.RunMigrations {
		t.Error("RunMigrations should be false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"default secret in production", func(c *Config) {
			c.Environment = "production"
			c.CORSAllowedOrigins = []string{"https://app.example"}
		}, true},
		{"wildcard cors in production", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "real-secret"
		}, true},
		{"production ok", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "real-secret"
			c.CORSAllowedOrigins = []string{"https://app.example"}
		}, false},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"zero rate limit", func(c *Config) { c.RateLimitRequests = 0 }, true},
		{"zero message length", func(c *Config) { c.MaxMessageLength = 0 }, true},
		{"zero ws burst", func(c *Config) { c.WSEventBurst = 0 }, true},
		{"zero lock ttl", func(c *Config) { c.MatchLockTTL = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "development")
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
