package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "development" {
		t.Fatalf("environment = %q, want development", cfg.Environment)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("http port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Storage.Driver != "local" {
		t.Fatalf("storage driver = %q, want local", cfg.Storage.Driver)
	}
	if cfg.Storage.URLPrefix != "/images" {
		t.Fatalf("url prefix = %q, want /images", cfg.Storage.URLPrefix)
	}
	if cfg.Security.JWTAccessTTL != 15*time.Minute {
		t.Fatalf("access ttl = %v, want 15m", cfg.Security.JWTAccessTTL)
	}
	if !cfg.Jobs.Enabled {
		t.Fatal("jobs should default to enabled")
	}
}

func TestLoadEnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("ADBOARD_HTTP_PORT", "9090")
	t.Setenv("ADBOARD_STORAGE_DRIVER", "s3")
	t.Setenv("ADBOARD_SECURITY_JWTSECRET", "env-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Fatalf("http port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Storage.Driver != "s3" {
		t.Fatalf("storage driver = %q, want s3", cfg.Storage.Driver)
	}
	if cfg.Security.JWTSecret != "env-secret" {
		t.Fatalf("jwt secret = %q, want env-secret", cfg.Security.JWTSecret)
	}
}
