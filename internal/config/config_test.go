// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:3000"

auth:
  token: "super-secret"

forecast:
  timeout: "45s"
  default_periods: 14

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:3000" {
		t.Errorf("http_addr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Auth.Token != "super-secret" {
		t.Errorf("token = %q", cfg.Auth.Token)
	}
	if cfg.Forecast.Timeout != 45*time.Second {
		t.Errorf("timeout = %v", cfg.Forecast.Timeout)
	}
	if cfg.Forecast.DefaultPeriods != 14 {
		t.Errorf("default_periods = %d", cfg.Forecast.DefaultPeriods)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  token: "super-secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("http_addr = %q, want default %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Forecast.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v", cfg.Forecast.Timeout)
	}
	if cfg.Forecast.DefaultPeriods != DefaultPeriods {
		t.Errorf("default_periods = %d", cfg.Forecast.DefaultPeriods)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_MCP_TOKEN", "expanded-secret")

	path := writeConfig(t, `
auth:
  token: "${TEST_MCP_TOKEN}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.Token != "expanded-secret" {
		t.Errorf("token = %q, want expanded value", cfg.Auth.Token)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:3000"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for missing token")
	}
	if !strings.Contains(err.Error(), "auth.token is required") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_UnsetEnvVarFailsValidation(t *testing.T) {
	// An unset variable expands to empty, which the token check rejects.
	path := writeConfig(t, `
auth:
  token: "${DEFINITELY_NOT_SET_ANYWHERE_12345}"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for empty expanded token")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
auth:
  token: "secret"

forecast:
  timeout: "not-a-duration"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected duration parse error")
	}
	if !strings.Contains(err.Error(), "forecast.timeout") {
		t.Errorf("error = %v", err)
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	path := writeConfig(t, `
auth:
  token: "secret"

logging:
  format: "xml"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown log format")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
