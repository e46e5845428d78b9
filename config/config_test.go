package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/user/turismo-go/apperror"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "turismo")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_USER", "mailer")
	t.Setenv("SMTP_PASSWORD", "mailpw")
}

// unsetEnv removes a variable for the duration of the test. t.Setenv first so
// the testing package restores the original value on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.DB.Host != "localhost" || cfg.DB.Port != 5432 {
		t.Errorf("unexpected DB defaults: %s:%d", cfg.DB.Host, cfg.DB.Port)
	}
	if cfg.DB.MaxSize != 10 {
		t.Errorf("pool size default: got %d want 10", cfg.DB.MaxSize)
	}
	if cfg.Auth.AccessTokenTTL != 24*time.Hour {
		t.Errorf("access token TTL default: got %v want 24h", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.ResetTokenTTL != time.Hour {
		t.Errorf("reset token TTL default: got %v want 1h", cfg.Auth.ResetTokenTTL)
	}
	if cfg.Auth.PasswordBcryptCost != 10 {
		t.Errorf("bcrypt cost default: got %d want 10", cfg.Auth.PasswordBcryptCost)
	}
	if cfg.Server.Port != "3001" {
		t.Errorf("port default: got %q want 3001", cfg.Server.Port)
	}
	if cfg.Server.UploadDir != "./public/uploads" {
		t.Errorf("upload dir default: got %q", cfg.Server.UploadDir)
	}
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	unsetEnv(t, "JWT_SECRET")

	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("expected error for missing JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("error must name the missing variable, got: %v", err)
	}

	appErr, ok := apperror.FromError(err)
	if !ok || appErr.Type != apperror.ConfigError {
		t.Fatalf("loading failure must be classified as a config error, got: %v", err)
	}
}

func TestLoadConfig_AggregatesErrors(t *testing.T) {
	setRequiredEnv(t)
	unsetEnv(t, "DB_USER")
	unsetEnv(t, "DB_PASSWORD")

	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "DB_USER") || !strings.Contains(msg, "DB_PASSWORD") {
		t.Fatalf("error must name both missing variables, got: %v", err)
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "one day")

	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "JWT_ACCESS_TOKEN_TTL") {
		t.Fatalf("error must name the variable, got: %v", err)
	}
}

func TestLoadConfig_BcryptCostBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PASSWORD_BCRYPT_COST", "20")

	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("expected error for out-of-range bcrypt cost")
	}
	if !strings.Contains(err.Error(), "PASSWORD_BCRYPT_COST") {
		t.Fatalf("error must name the variable, got: %v", err)
	}
}

func TestLoadConfig_PoolSizeOutOfBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_POOL_SIZE", "2")

	// An out-of-bounds pool size is reported rather than silently adjusted,
	// matching the aggregate-and-refuse loading policy.
	_, err := LoadConfig()
	if err == nil {
		t.Fatalf("expected error for out-of-bounds pool size")
	}
	if !strings.Contains(err.Error(), "DB_POOL_SIZE") {
		t.Fatalf("error must name the variable, got: %v", err)
	}
}
