package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.TokenTTL != 24*time.Hour {
		t.Errorf("unexpected defaults: port=%q ttl=%v", cfg.Port, cfg.TokenTTL)
	}
	if cfg.Storage.Driver != "local" || cfg.Mongo.Database != "sgea" {
		t.Errorf("unexpected defaults: %+v %+v", cfg.Storage, cfg.Mongo)
	}
	if cfg.RateLimit.Window != time.Minute || cfg.RateLimit.Registrations != 10 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "JWT_SECRET=from-file\nPORT=9999\nSMTP_HOST=mail.example.com\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7000")
	// Registered so the values loaded from the file are cleared afterwards.
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SMTP_HOST", "")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("SMTP_HOST")

	cfg, err := Load(context.Background(), file)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("environment must win over .env, got port %q", cfg.Port)
	}
	if cfg.JWTSecret != "from-file" || cfg.SMTP.Host != "mail.example.com" {
		t.Errorf("expected values from .env, got %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}
