package config

import (
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tempFile, err := os.CreateTemp("", "orderly-config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tempFile.Name()) })

	if _, err := tempFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tempFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}
	return tempFile.Name()
}

func TestLoadConfig(t *testing.T) {
	configContent := `
server:
  port: 9090

logging:
  level: "debug"
  format: "json"
  request_id:
    enabled: true
    header: "X-Req"

security:
  extra_frame_ancestors:
    - "https://partner.example.com"
  metrics_token: "secret"

rate_limit:
  enabled: true
  requests_per_minute: 60
  burst: 10

defaults:
  brand_name: "Acme"
  accent: "#123456"
`
	path := writeTempConfig(t, configContent)
	t.Setenv("PORT", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
	if !cfg.Logging.RequestID.Enabled || cfg.Logging.RequestID.Header != "X-Req" {
		t.Errorf("Unexpected request id config: %+v", cfg.Logging.RequestID)
	}
	if len(cfg.Security.ExtraFrameAncestors) != 1 || cfg.Security.ExtraFrameAncestors[0] != "https://partner.example.com" {
		t.Errorf("Unexpected frame ancestors: %v", cfg.Security.ExtraFrameAncestors)
	}
	if cfg.Security.MetricsToken != "secret" {
		t.Errorf("Expected metrics token 'secret', got %q", cfg.Security.MetricsToken)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerMinute != 60 || cfg.RateLimit.Burst != 10 {
		t.Errorf("Unexpected rate limit config: %+v", cfg.RateLimit)
	}
	if cfg.Defaults.BrandName != "Acme" || cfg.Defaults.Accent != "#123456" {
		t.Errorf("Unexpected defaults: %+v", cfg.Defaults)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Expected missing file to be tolerated, got error: %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Defaults.BrandName != DefaultBrandName {
		t.Errorf("Expected default brand name %q, got %q", DefaultBrandName, cfg.Defaults.BrandName)
	}
	if cfg.Defaults.Accent != DefaultAccent {
		t.Errorf("Expected default accent %q, got %q", DefaultAccent, cfg.Defaults.Accent)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "server:\n  port: [not a number\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected error for malformed YAML, got nil")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	configContent := `
server:
  port: 9090
logging:
  level: "info"
`
	path := writeTempConfig(t, configContent)

	t.Setenv("PORT", "4100")
	t.Setenv("ORDERLY_LOG_LEVEL", "warn")
	t.Setenv("ORDERLY_METRICS_TOKEN", "env-token")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 4100 {
		t.Errorf("Expected PORT override 4100, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level override 'warn', got %q", cfg.Logging.Level)
	}
	if cfg.Security.MetricsToken != "env-token" {
		t.Errorf("Expected metrics token override, got %q", cfg.Security.MetricsToken)
	}
}

func TestLoadConfigIgnoresInvalidPortEnv(t *testing.T) {
	configContent := `
server:
  port: 9090
`
	path := writeTempConfig(t, configContent)
	t.Setenv("PORT", "not-a-port")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected config port 9090, got %d", cfg.Server.Port)
	}
}

func TestLoadConfigRateLimitDefaults(t *testing.T) {
	configContent := `
rate_limit:
  enabled: true
`
	path := writeTempConfig(t, configContent)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RateLimit.RequestsPerMinute != 120 {
		t.Errorf("Expected default requests per minute 120, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.RateLimit.Burst != 120 {
		t.Errorf("Expected default burst 120, got %d", cfg.RateLimit.Burst)
	}
}
