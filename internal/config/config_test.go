package config

import (
	"strings"
	"testing"
	"time"
)

const testHexSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ACCESS_TOKEN_SECRET", testHexSecret)
	t.Setenv("REFRESH_TOKEN_SECRET", testHexSecret)
	t.Setenv("ENCRYPTION_KEY", testHexSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("expected access token expiry 15m, got %v", cfg.Auth.AccessTokenExpiry)
	}
	if cfg.Auth.RefreshTokenExpiry != 7*24*time.Hour {
		t.Errorf("expected refresh token expiry 168h, got %v", cfg.Auth.RefreshTokenExpiry)
	}
	if cfg.Auth.MaxLoginAttempts != 5 {
		t.Errorf("expected max login attempts 5, got %d", cfg.Auth.MaxLoginAttempts)
	}
	if cfg.Auth.LockoutDuration != 30*time.Minute {
		t.Errorf("expected lockout duration 30m, got %v", cfg.Auth.LockoutDuration)
	}
	if cfg.Auth.BlacklistRetention != 30*24*time.Hour {
		t.Errorf("expected blacklist retention 720h, got %v", cfg.Auth.BlacklistRetention)
	}
	if cfg.Auth.CleanupInterval != 24*time.Hour {
		t.Errorf("expected cleanup interval 24h, got %v", cfg.Auth.CleanupInterval)
	}
	if cfg.Auth.RateLimitRequests != 100 {
		t.Errorf("expected rate limit 100 requests, got %d", cfg.Auth.RateLimitRequests)
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when secrets are missing")
	}
}

func TestLoad_SecretValidation(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{
			name:    "not hex",
			secret:  strings.Repeat("zz", 32),
			wantErr: "must be hex-encoded",
		},
		{
			name:    "too short",
			secret:  "abcdef",
			wantErr: "must be 32 bytes",
		},
		{
			name:   "valid 32-byte hex",
			secret: testHexSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("ENCRYPTION_KEY", tt.secret)

			_, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", Name: "ledgerpass", SSLMode: "disable",
	}

	dsn := cfg.DSN()
	if !strings.Contains(dsn, "dbname=ledgerpass") || !strings.Contains(dsn, "port=5432") {
		t.Errorf("unexpected DSN: %s", dsn)
	}
}
