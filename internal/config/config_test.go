package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadFrom(t *testing.T, content string) (Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	path := filepath.Join(t.TempDir(), "cybercourt.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	return Load()
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := loadFrom(t, `{}`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != DefaultBaseURL {
		t.Fatalf("base url = %q, want default", cfg.Backend.BaseURL)
	}
	if cfg.Backend.PollInterval != DefaultPollInterval {
		t.Fatalf("poll interval = %v, want %v", cfg.Backend.PollInterval, DefaultPollInterval)
	}
	if cfg.AppID != DefaultAppID {
		t.Fatalf("app id = %q, want default", cfg.AppID)
	}
}

func TestLoad_ParsesDurations(t *testing.T) {
	cfg, err := loadFrom(t, `{"backend":{"base_url":"http://backend:8000","timeout":"10s","poll_interval":"5s"}}`)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v, want 10s", cfg.Backend.Timeout)
	}
	if cfg.Backend.PollInterval != 5*time.Second {
		t.Fatalf("poll interval = %v, want 5s", cfg.Backend.PollInterval)
	}
	if cfg.Backend.BaseURL != "http://backend:8000" {
		t.Fatalf("base url = %q", cfg.Backend.BaseURL)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	if _, err := loadFrom(t, `{"backends":{"base_url":"x"}}`); err == nil {
		t.Fatalf("Load accepted unknown top-level key")
	}
}

func TestValidateSettings_RejectsEmptyBaseURL(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{
		"backend": map[string]any{"base_url": ""},
	})
	if err == nil {
		t.Fatalf("ValidateSettings accepted empty base_url")
	}
}
