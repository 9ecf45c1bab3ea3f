package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALGORITHM", "HS256")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "hubmatch")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("STATIC_PREFIX", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL: got %v, want 30m", cfg.AccessTokenTTL)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Errorf("JWTAlgorithm: got %q", cfg.JWTAlgorithm)
	}
	if cfg.StorageType != "local" {
		t.Errorf("StorageType: got %q, want local", cfg.StorageType)
	}
	if cfg.StaticPrefix != "api/static" {
		t.Errorf("StaticPrefix: got %q", cfg.StaticPrefix)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:4200" {
		t.Errorf("AllowedOrigins: got %v", cfg.AllowedOrigins)
	}
	if cfg.TelegramAuthAge != 0 {
		t.Errorf("TelegramAuthAge: got %v, want 0", cfg.TelegramAuthAge)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_NAME", "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing required values")
	}
	for _, key := range []string{"BOT_TOKEN", "DATABASE_NAME"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoad_BadTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "soon")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for non-numeric TTL")
	}
}

func TestLoad_UnsupportedAlgorithm(t *testing.T) {
	setRequired(t)
	t.Setenv("ALGORITHM", "RS256")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for RS256")
	}
}

func TestLoad_CloudinaryNeedsCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_TYPE", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("CLOUDINARY_API_KEY", "")
	t.Setenv("CLOUDINARY_API_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for cloudinary without credentials")
	}
}

func TestLoad_ParsesOriginsAndProxy(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("ENV", "Production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins: got %v", cfg.AllowedOrigins)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy: expected true")
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction: expected true")
	}
}

func TestLoad_SweepSchedule(t *testing.T) {
	setRequired(t)
	t.Setenv("PHOTO_SWEEP_SCHEDULE", "*/15 * * * *")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PhotoSweepSchedule != "*/15 * * * *" {
		t.Errorf("PhotoSweepSchedule: got %q", cfg.PhotoSweepSchedule)
	}

	t.Setenv("PHOTO_SWEEP_SCHEDULE", "every now and then")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}
