// Package config provides configuration management for Octo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Kyaw-Min-lwin/Octo-Task/internal/domain"
)

// Config holds all configuration for the Octo application.
type Config struct {
	Focus         FocusConfig        `mapstructure:"focus"`
	Remote        RemoteConfig       `mapstructure:"remote"`
	Server        ServerConfig       `mapstructure:"server"`
	Scoring       ScoringConfig      `mapstructure:"scoring"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// FocusConfig tunes the focus view.
type FocusConfig struct {
	IdleThreshold  Duration `mapstructure:"idle_threshold"`
	OverrunMinutes int      `mapstructure:"overrun_minutes"`
	AutoStart      bool     `mapstructure:"auto_start"`
}

// IdleSeconds returns the idle threshold in whole seconds, at least one.
func (c FocusConfig) IdleSeconds() int {
	secs := int(time.Duration(c.IdleThreshold) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// RemoteConfig points the client at a running octo server. An empty URL
// means the embedded local service.
type RemoteConfig struct {
	URL     string   `mapstructure:"url"`
	Timeout Duration `mapstructure:"timeout"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ScoringConfig holds the priority formula parameters.
type ScoringConfig struct {
	Impulsiveness float64 `mapstructure:"impulsiveness"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorActive    string `mapstructure:"color_active"`
	ColorPaused    string `mapstructure:"color_paused"`
	ColorCompleted string `mapstructure:"color_completed"`
	ColorOverrun   string `mapstructure:"color_overrun"`
	ColorRing      string `mapstructure:"color_ring"`
	ColorTitle     string `mapstructure:"color_title"`
	ColorTask      string `mapstructure:"color_task"`
	ColorHelp      string `mapstructure:"color_help"`
	IconApp        string `mapstructure:"icon_app"`
	IconTask       string `mapstructure:"icon_task"`
	IconStats      string `mapstructure:"icon_stats"`
	IconGit        string `mapstructure:"icon_git"`
	IconPaused     string `mapstructure:"icon_paused"`
	IconCompleted  string `mapstructure:"icon_completed"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorActive:    "#7C6FE0",
		ColorPaused:    "#6B7280",
		ColorCompleted: "#2ECC71",
		ColorOverrun:   "#E74C3C",
		ColorRing:      "#4ECDC4",
		ColorTitle:     "#6B7280",
		ColorTask:      "#A0AEC0",
		ColorHelp:      "#95A5A6",
		IconApp:        "🐙",
		IconTask:       "📋",
		IconStats:      "📊",
		IconGit:        "🌿",
		IconPaused:     "⏸",
		IconCompleted:  "✔",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.octo"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Focus: FocusConfig{
			IdleThreshold:  Duration(6 * time.Second),
			OverrunMinutes: domain.DefaultOverrunMinutes,
			AutoStart:      true,
		},
		Remote: RemoteConfig{
			Timeout: Duration(10 * time.Second),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7860",
		},
		Scoring: ScoringConfig{
			Impulsiveness: domain.DefaultImpulsiveness,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from ~/.octo/config.toml, creating it with
// defaults on first use.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from the given file.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return decode(v)
}

// Save saves the configuration to ~/.octo/config.toml.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes the configuration to the given file.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	for key, value := range flatten(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set changes one dotted key (e.g. "focus.idle_threshold") in the file and
// returns the resulting configuration. Unknown keys and values that do not
// decode are rejected without touching the file.
func Set(configPath, key, value string) (*Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := flatten(DefaultConfig())[key]; !ok {
		return nil, fmt.Errorf("unknown config key %q", key)
	}

	if _, err := LoadFrom(configPath); err != nil {
		return nil, err
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, value)

	cfg, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}
	return cfg, nil
}

// Keys lists every settable key in sorted order.
func Keys() []string {
	flat := flatten(DefaultConfig())
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns every setting of cfg keyed by its dotted name.
func Values(cfg *Config) map[string]interface{} {
	return flatten(cfg)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".octo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "octo.db")
}

// GetLogPath returns the path to the diagnostics log.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "octo.log")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	for key, value := range flatten(DefaultConfig()) {
		v.SetDefault(key, value)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// expandHome resolves a leading ~ and the empty default.
func expandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// flatten maps a config onto its dotted viper keys.
func flatten(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"focus.idle_threshold":  cfg.Focus.IdleThreshold.String(),
		"focus.overrun_minutes": cfg.Focus.OverrunMinutes,
		"focus.auto_start":      cfg.Focus.AutoStart,
		"remote.url":            cfg.Remote.URL,
		"remote.timeout":        cfg.Remote.Timeout.String(),
		"server.addr":           cfg.Server.Addr,
		"scoring.impulsiveness": cfg.Scoring.Impulsiveness,
		"notifications.enabled": cfg.Notifications.Enabled,
		"notifications.sound":   cfg.Notifications.Sound,
		"mcp.enabled":           cfg.MCP.Enabled,
		"storage.data_dir":      cfg.Storage.DataDir,
		"theme.color_active":    cfg.Theme.ColorActive,
		"theme.color_paused":    cfg.Theme.ColorPaused,
		"theme.color_completed": cfg.Theme.ColorCompleted,
		"theme.color_overrun":   cfg.Theme.ColorOverrun,
		"theme.color_ring":      cfg.Theme.ColorRing,
		"theme.color_title":     cfg.Theme.ColorTitle,
		"theme.color_task":      cfg.Theme.ColorTask,
		"theme.color_help":      cfg.Theme.ColorHelp,
		"theme.icon_app":        cfg.Theme.IconApp,
		"theme.icon_task":       cfg.Theme.IconTask,
		"theme.icon_stats":      cfg.Theme.IconStats,
		"theme.icon_git":        cfg.Theme.IconGit,
		"theme.icon_paused":     cfg.Theme.IconPaused,
		"theme.icon_completed":  cfg.Theme.IconCompleted,
	}
}
