package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
log:
  level: warn
moderation:
  remote:
    endpoint: https://moderation.example.com/v1/classify
    api_key: test-key
    timeout: 5s
  sweep:
    limit: 10
    pause: 100ms
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
	if cfg.Moderation.Remote.Endpoint != "https://moderation.example.com/v1/classify" {
		t.Fatalf("unexpected moderation endpoint: %s", cfg.Moderation.Remote.Endpoint)
	}
	if cfg.Moderation.Remote.Timeout != 5*time.Second {
		t.Fatalf("unexpected moderation timeout: %s", cfg.Moderation.Remote.Timeout)
	}
	if !cfg.Moderation.Remote.Configured() {
		t.Fatalf("remote classifier should be configured")
	}
	if cfg.Moderation.Sweep.Limit != 10 {
		t.Fatalf("unexpected sweep limit: %d", cfg.Moderation.Sweep.Limit)
	}
	if cfg.Moderation.Sweep.Pause != 100*time.Millisecond {
		t.Fatalf("unexpected sweep pause: %s", cfg.Moderation.Sweep.Pause)
	}

	if cfg.Moderation.Sweep.Interval != 6*time.Hour {
		t.Fatalf("sweep interval default should stay 6h, got %s", cfg.Moderation.Sweep.Interval)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("http addr default should stay :8080, got %s", cfg.HTTP.Addr)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.Moderation.Remote.Configured() {
		t.Fatalf("remote classifier should not be configured by default")
	}
	if cfg.Moderation.Remote.Timeout != 15*time.Second {
		t.Fatalf("unexpected default remote timeout: %s", cfg.Moderation.Remote.Timeout)
	}
	if cfg.Moderation.Sweep.Limit != 50 {
		t.Fatalf("unexpected default sweep limit: %d", cfg.Moderation.Sweep.Limit)
	}
	if cfg.Moderation.Sweep.Pause != 500*time.Millisecond {
		t.Fatalf("unexpected default sweep pause: %s", cfg.Moderation.Sweep.Pause)
	}
	if cfg.S3.Bucket != "goodyfans-content" {
		t.Fatalf("unexpected default s3 bucket: %s", cfg.S3.Bucket)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("MODERATION_ENDPOINT", "https://env.example.com/classify")
	t.Setenv("MODERATION_API_KEY", "env-key")
	t.Setenv("MODERATION_TIMEOUT", "3s")
	t.Setenv("MODERATION_SWEEP_LIMIT", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Moderation.Remote.Endpoint != "https://env.example.com/classify" {
		t.Fatalf("unexpected endpoint: %s", cfg.Moderation.Remote.Endpoint)
	}
	if cfg.Moderation.Remote.APIKey != "env-key" {
		t.Fatalf("unexpected api key: %s", cfg.Moderation.Remote.APIKey)
	}
	if cfg.Moderation.Remote.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Moderation.Remote.Timeout)
	}
	if cfg.Moderation.Sweep.Limit != 7 {
		t.Fatalf("unexpected sweep limit: %d", cfg.Moderation.Sweep.Limit)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
		"JWT_SECRET", "JWT_ACCESS_TTL",
		"MODERATION_ENDPOINT", "MODERATION_API_KEY", "MODERATION_REGION", "MODERATION_TIMEOUT",
		"MODERATION_SWEEP_LIMIT", "MODERATION_SWEEP_PAUSE", "MODERATION_SWEEP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}
