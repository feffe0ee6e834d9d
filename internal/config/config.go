// Package config provides configuration loading for cybercourt.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Backend  BackendConfig  `json:"backend"  mapstructure:"backend"`
	Ledger   LedgerConfig   `json:"ledger"   mapstructure:"ledger"`
	Observer ObserverConfig `json:"observer" mapstructure:"observer"`
	AppID    string         `json:"app_id"   mapstructure:"app_id"`
	DataDir  string         `json:"data_dir" mapstructure:"data_dir"`
}

// BackendConfig describes the courtroom backend endpoint.
type BackendConfig struct {
	BaseURL      string        `json:"base_url"                mapstructure:"base_url"`
	Timeout      time.Duration `json:"timeout,omitempty"       mapstructure:"timeout"`
	PollInterval time.Duration `json:"poll_interval,omitempty" mapstructure:"poll_interval"`
}

// LedgerConfig describes the public case-ledger stream.
type LedgerConfig struct {
	StreamURL string `json:"stream_url" mapstructure:"stream_url"`
}

// ObserverConfig describes the page-content observer bridge listener.
type ObserverConfig struct {
	ListenAddr string `json:"listen_addr,omitempty" mapstructure:"listen_addr"`
}

// Defaults applied when the config file omits a value.
const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 3 * time.Second
	DefaultListenAddr   = "127.0.0.1:8765"
	DefaultAppID        = "cyberlaw-app-dev"
)

// Load reads the config file (if present), applies environment
// overrides and defaults, validates the raw settings against the
// schema, and decodes into Config.
func Load() (Config, error) {
	viper.SetEnvPrefix("cybercourt")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	settings := viper.AllSettings()
	if len(settings) > 0 {
		if err := ValidateSettings(settings); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.StringToTimeDurationHookFunc(),
	)); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = DefaultBaseURL
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = DefaultTimeout
	}
	if c.Backend.PollInterval <= 0 {
		c.Backend.PollInterval = DefaultPollInterval
	}
	if c.Observer.ListenAddr == "" {
		c.Observer.ListenAddr = DefaultListenAddr
	}
	if c.AppID == "" {
		c.AppID = DefaultAppID
	}
	if c.DataDir == "" {
		c.DataDir = ".cybercourt"
	}
}
