package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if time.Duration(cfg.Focus.IdleThreshold) != 6*time.Second {
		t.Errorf("IdleThreshold = %v, want 6s", cfg.Focus.IdleThreshold)
	}
	if cfg.Focus.OverrunMinutes != 45 {
		t.Errorf("OverrunMinutes = %d, want 45", cfg.Focus.OverrunMinutes)
	}
	if !cfg.Focus.AutoStart {
		t.Error("AutoStart should default to true")
	}
	if cfg.Scoring.Impulsiveness != 1.5 {
		t.Errorf("Impulsiveness = %v, want 1.5", cfg.Scoring.Impulsiveness)
	}
	if cfg.Remote.URL != "" {
		t.Errorf("Remote.URL = %q, want embedded mode", cfg.Remote.URL)
	}
}

func TestFocusConfig_IdleSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{6 * time.Second, 6},
		{90 * time.Second, 90},
		{1500 * time.Millisecond, 1},
		{0, 1},
	}

	for _, tt := range tests {
		c := FocusConfig{IdleThreshold: Duration(tt.d)}
		if got := c.IdleSeconds(); got != tt.want {
			t.Errorf("IdleSeconds(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if time.Duration(cfg.Focus.IdleThreshold) != 6*time.Second {
		t.Errorf("IdleThreshold = %v, want 6s", cfg.Focus.IdleThreshold)
	}
	if time.Duration(cfg.Remote.Timeout) != 10*time.Second {
		t.Errorf("Remote.Timeout = %v, want 10s", cfg.Remote.Timeout)
	}
	if strings.HasPrefix(cfg.Storage.DataDir, "~") {
		t.Errorf("DataDir = %q, want ~ expanded", cfg.Storage.DataDir)
	}
}

func TestLoadFrom_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[focus]
idle_threshold = "30s"
auto_start = false

[remote]
url = "http://10.0.0.2:7860"

[storage]
data_dir = "/var/lib/octo"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Focus.IdleSeconds() != 30 {
		t.Errorf("IdleSeconds() = %d, want 30", cfg.Focus.IdleSeconds())
	}
	if cfg.Focus.AutoStart {
		t.Error("AutoStart should be false")
	}
	if cfg.Focus.OverrunMinutes != 45 {
		t.Errorf("OverrunMinutes = %d, want default 45", cfg.Focus.OverrunMinutes)
	}
	if cfg.Remote.URL != "http://10.0.0.2:7860" {
		t.Errorf("Remote.URL = %q", cfg.Remote.URL)
	}
	if cfg.Storage.DataDir != "/var/lib/octo" {
		t.Errorf("DataDir = %q", cfg.Storage.DataDir)
	}
	if GetDBPath(cfg) != filepath.Join("/var/lib/octo", "octo.db") {
		t.Errorf("GetDBPath() = %q", GetDBPath(cfg))
	}
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Set(path, "focus.idle_threshold", "12s")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Focus.IdleSeconds() != 12 {
		t.Errorf("IdleSeconds() = %d, want 12", cfg.Focus.IdleSeconds())
	}

	reloaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reloaded.Focus.IdleSeconds() != 12 {
		t.Errorf("persisted IdleSeconds() = %d, want 12", reloaded.Focus.IdleSeconds())
	}

	if _, err := Set(path, "focus.nope", "1"); err == nil {
		t.Error("Set() should reject unknown keys")
	}
	if _, err := Set(path, "focus.idle_threshold", "soon"); err == nil {
		t.Error("Set() should reject a bad duration")
	}

	again, _ := LoadFrom(path)
	if again.Focus.IdleSeconds() != 12 {
		t.Errorf("rejected Set() changed the file: IdleSeconds() = %d", again.Focus.IdleSeconds())
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 {
		t.Fatal("Keys() returned nothing")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("Keys() not sorted at %d: %q > %q", i, keys[i-1], keys[i])
		}
	}
}

func TestValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Addr = "0.0.0.0:9000"

	values := Values(cfg)
	if len(values) != len(Keys()) {
		t.Errorf("Values() has %d keys, Keys() has %d", len(values), len(Keys()))
	}
	if values["server.addr"] != "0.0.0.0:9000" {
		t.Errorf("server.addr = %v", values["server.addr"])
	}
	if values["focus.idle_threshold"] != "6s" {
		t.Errorf("focus.idle_threshold = %v, want 6s", values["focus.idle_threshold"])
	}
}
