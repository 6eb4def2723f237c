// Package config loads marketplace configuration from defaults, an
// optional JSON config file, and PF_* environment overrides, in
// ascending priority.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default endpoints and tuning values.
const (
	DefaultRegistryURL  = "https://raw.githubusercontent.com/TerminallyLazy/a0-marketplace/main/registry.json"
	DefaultStatsURL     = "https://a0-marketplace-web.vercel.app/api/stats"
	DefaultTelemetryURL = "https://a0-marketplace-web.vercel.app/api/stats/install"

	DefaultCacheTTL         = 5 * time.Minute
	DefaultGitTimeout       = 120 * time.Second
	DefaultCatalogTimeout   = 15 * time.Second
	DefaultStatsTimeout     = 10 * time.Second
	DefaultTelemetryTimeout = 5 * time.Second

	DefaultListenAddr = "127.0.0.1:8750"
)

// Config carries all tunables for the marketplace CLI.
type Config struct {
	RegistryURL  string `json:"registry_url"`
	StatsURL     string `json:"stats_url"`
	TelemetryURL string `json:"telemetry_url"`

	// UserPluginsDir is where acquired and sideloaded plugins live.
	UserPluginsDir string `json:"plugins_dir"`
	// BuiltinPluginsDir holds plugins shipped with the product; the
	// remover refuses to touch anything under it.
	BuiltinPluginsDir string `json:"builtin_plugins_dir"`

	CacheTTL         time.Duration `json:"-"`
	GitTimeout       time.Duration `json:"-"`
	CatalogTimeout   time.Duration `json:"-"`
	StatsTimeout     time.Duration `json:"-"`
	TelemetryTimeout time.Duration `json:"-"`

	LogLevel   string `json:"log_level"`
	ListenAddr string `json:"listen_addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		RegistryURL:       DefaultRegistryURL,
		StatsURL:          DefaultStatsURL,
		TelemetryURL:      DefaultTelemetryURL,
		UserPluginsDir:    filepath.Join(home, ".pluginforge", "plugins"),
		BuiltinPluginsDir: "/usr/lib/pluginforge/plugins",
		CacheTTL:          DefaultCacheTTL,
		GitTimeout:        DefaultGitTimeout,
		CatalogTimeout:    DefaultCatalogTimeout,
		StatsTimeout:      DefaultStatsTimeout,
		TelemetryTimeout:  DefaultTelemetryTimeout,
		LogLevel:          "info",
		ListenAddr:        DefaultListenAddr,
	}
}

// configFilePath returns the saved config location.
func configFilePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pluginforge", "config.json")
}

// Load resolves the effective configuration: defaults, then the saved
// config file if present, then environment overrides.
func Load() Config {
	cfg := DefaultConfig()
	loadFile(&cfg, configFilePath())
	applyEnv(&cfg)
	return cfg
}

// fileConfig mirrors the JSON config file. Durations are expressed as
// strings ("120s", "5m") so the file stays hand-editable.
type fileConfig struct {
	RegistryURL       string `json:"registry_url"`
	StatsURL          string `json:"stats_url"`
	TelemetryURL      string `json:"telemetry_url"`
	UserPluginsDir    string `json:"plugins_dir"`
	BuiltinPluginsDir string `json:"builtin_plugins_dir"`
	CacheTTL          string `json:"cache_ttl"`
	GitTimeout        string `json:"git_timeout"`
	LogLevel          string `json:"log_level"`
	ListenAddr        string `json:"listen_addr"`
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return // malformed file: keep defaults rather than fail startup
	}

	setString(&cfg.RegistryURL, fc.RegistryURL)
	setString(&cfg.StatsURL, fc.StatsURL)
	setString(&cfg.TelemetryURL, fc.TelemetryURL)
	setString(&cfg.UserPluginsDir, fc.UserPluginsDir)
	setString(&cfg.BuiltinPluginsDir, fc.BuiltinPluginsDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.ListenAddr, fc.ListenAddr)
	setDuration(&cfg.CacheTTL, fc.CacheTTL)
	setDuration(&cfg.GitTimeout, fc.GitTimeout)
}

func applyEnv(cfg *Config) {
	setString(&cfg.RegistryURL, os.Getenv("PF_REGISTRY_URL"))
	setString(&cfg.StatsURL, os.Getenv("PF_STATS_URL"))
	setString(&cfg.TelemetryURL, os.Getenv("PF_TELEMETRY_URL"))
	setString(&cfg.UserPluginsDir, os.Getenv("PF_PLUGINS_DIR"))
	setString(&cfg.BuiltinPluginsDir, os.Getenv("PF_BUILTIN_PLUGINS_DIR"))
	setString(&cfg.LogLevel, os.Getenv("PF_LOG_LEVEL"))
	setString(&cfg.ListenAddr, os.Getenv("PF_LISTEN_ADDR"))
	setDuration(&cfg.CacheTTL, os.Getenv("PF_CACHE_TTL"))
	setDuration(&cfg.GitTimeout, os.Getenv("PF_GIT_TIMEOUT"))

	cfg.UserPluginsDir = ExpandPath(cfg.UserPluginsDir)
	cfg.BuiltinPluginsDir = ExpandPath(cfg.BuiltinPluginsDir)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}

// ExpandPath expands a leading ~ to the user home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
