package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_FileWithDefaults(t *testing.T) {
	dir := writeConfig(t, `
device:
  address: 192.168.1.40
auth:
  signing_key: secret
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port: got %q, want 8080", cfg.Port)
	}
	if cfg.Device.Address != "192.168.1.40" {
		t.Fatalf("address: got %q", cfg.Device.Address)
	}
	if cfg.Device.PollInterval != 5*time.Second {
		t.Fatalf("poll interval: got %v, want 5s", cfg.Device.PollInterval)
	}
	if cfg.Device.RequestTimeout != 3*time.Second {
		t.Fatalf("request timeout: got %v, want 3s", cfg.Device.RequestTimeout)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("token ttl: got %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.DBPath != "app.db" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
port: "9000"
device:
  address: 10.0.0.2
  poll_interval: 10s
auth:
  signing_key: from-file
`)
	t.Setenv("FIREPLACE_DEVICE_ADDRESS", "10.0.0.9")
	t.Setenv("FIREPLACE_AUTH_SIGNING_KEY", "from-env")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Address != "10.0.0.9" {
		t.Fatalf("address: got %q, want env value", cfg.Device.Address)
	}
	if cfg.Auth.SigningKey != "from-env" {
		t.Fatalf("signing key: got %q, want env value", cfg.Auth.SigningKey)
	}
	if cfg.Port != "9000" || cfg.Device.PollInterval != 10*time.Second {
		t.Fatalf("file values lost: %+v", cfg)
	}
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("FIREPLACE_DEVICE_ADDRESS", "fireplace.local")
	t.Setenv("FIREPLACE_AUTH_SIGNING_KEY", "k")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device.Address != "fireplace.local" {
		t.Fatalf("address: got %q", cfg.Device.Address)
	}
}

func TestLoad_MissingAddress(t *testing.T) {
	dir := writeConfig(t, "auth:\n  signing_key: k\n")
	_, err := Load(dir)
	if !errors.Is(err, errNoDeviceAddress) {
		t.Fatalf("expected errNoDeviceAddress, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Device: DeviceConfig{Address: "h", PollInterval: 5 * time.Second, RequestTimeout: time.Second},
		Auth:   AuthConfig{SigningKey: "k", TokenTTL: time.Hour},
	}

	cases := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"valid", func(c *Config) {}, nil},
		{"zero interval", func(c *Config) { c.Device.PollInterval = 0 }, errPollInterval},
		{"zero timeout", func(c *Config) { c.Device.RequestTimeout = 0 }, errRequestTimeout},
		{"timeout not below interval", func(c *Config) { c.Device.RequestTimeout = 5 * time.Second }, errTimeoutTooLong},
		{"no signing key", func(c *Config) { c.Auth.SigningKey = "" }, errNoSigningKey},
		{"no ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, errTokenTTLNegative},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}
