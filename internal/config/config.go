package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration of the bridge.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string
	Device   DeviceConfig
	Auth     AuthConfig
}

// DeviceConfig points the adapter at one fireplace.
type DeviceConfig struct {
	Address        string        // host, host:port or http URL of the fireplace controller
	PollInterval   time.Duration // fixed polling cadence
	RequestTimeout time.Duration // bound on every request to the device
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

const envPrefix = "FIREPLACE"

// defaults mirror the cadence of the vendor app (5s) and keep every device
// request well inside one polling interval.
var defaults = map[string]any{
	"port":                   "8080",
	"log.level":              "info",
	"db.path":                "app.db",
	"device.poll_interval":   "5s",
	"device.request_timeout": "3s",
	"auth.token_ttl":         "1h",
}

var (
	errNoDeviceAddress  = errors.New("device.address is required")
	errNoSigningKey     = errors.New("auth.signing_key is required")
	errPollInterval     = errors.New("device.poll_interval must be > 0")
	errRequestTimeout   = errors.New("device.request_timeout must be > 0")
	errTimeoutTooLong   = errors.New("device.request_timeout must be shorter than device.poll_interval")
	errTokenTTLNegative = errors.New("auth.token_ttl must be > 0")
)

// Load reads config.yml from the given directories (default "configs"),
// layering FIREPLACE_* environment variables on top. A missing file is not an
// error as long as the required keys come from the environment.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		DBPath:   v.GetString("db.path"),
		Device: DeviceConfig{
			Address:        strings.TrimSpace(v.GetString("device.address")),
			PollInterval:   v.GetDuration("device.poll_interval"),
			RequestTimeout: v.GetDuration("device.request_timeout"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the program relies on.
func (c Config) Validate() error {
	switch {
	case c.Device.Address == "":
		return errNoDeviceAddress
	case c.Device.PollInterval <= 0:
		return errPollInterval
	case c.Device.RequestTimeout <= 0:
		return errRequestTimeout
	case c.Device.RequestTimeout >= c.Device.PollInterval:
		return errTimeoutTooLong
	case c.Auth.SigningKey == "":
		return errNoSigningKey
	case c.Auth.TokenTTL <= 0:
		return errTokenTTLNegative
	}
	return nil
}
