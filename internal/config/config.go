package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config captures the runtime configuration for the Kilamix client.
type Config struct {
	BaseURL        string
	LogLevel       string
	VerboseBodies  bool
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// SessionBackend selects where the credential is persisted:
	// "file", "sqlite", or "memory". SessionPath overrides the location
	// of the backing file or database.
	SessionBackend string
	SessionPath    string

	CacheTTL time.Duration

	// PlaybackOrigin replaces the host of relative or loopback media URLs;
	// empty keeps server URLs untouched. PlaybackDowngradeTLS rewrites
	// https media URLs to http for hosts without certificates.
	PlaybackOrigin       string
	PlaybackDowngradeTLS bool

	// ThrottleEvents mutations per ThrottleWindow are allowed per endpoint
	// key; zero events disables throttling.
	ThrottleEvents int
	ThrottleWindow time.Duration
}

// fileConfig mirrors Config for the YAML overlay. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it sets.
type fileConfig struct {
	BaseURL              *string `yaml:"base_url"`
	LogLevel             *string `yaml:"log_level"`
	VerboseBodies        *bool   `yaml:"verbose_bodies"`
	ConnectTimeout       *string `yaml:"connect_timeout"`
	RequestTimeout       *string `yaml:"request_timeout"`
	SessionBackend       *string `yaml:"session_backend"`
	SessionPath          *string `yaml:"session_path"`
	CacheTTL             *string `yaml:"cache_ttl"`
	PlaybackOrigin       *string `yaml:"playback_origin"`
	PlaybackDowngradeTLS *bool   `yaml:"playback_downgrade_tls"`
	ThrottleEvents       *int    `yaml:"throttle_events"`
	ThrottleWindow       *string `yaml:"throttle_window"`
}

// Load builds the configuration from defaults, then the YAML config file
// (path from KILAMIX_CONFIG, falling back to the user config directory),
// then environment variables. Later layers win.
func Load() (Config, error) {
	cfg := Config{
		BaseURL:        "http://127.0.0.1:8000/api",
		LogLevel:       "info",
		ConnectTimeout: 60 * time.Second,
		RequestTimeout: 300 * time.Second,
		SessionBackend: "file",
		CacheTTL:       time.Minute,
		ThrottleEvents: 5,
		ThrottleWindow: 10 * time.Second,
	}

	path := os.Getenv("KILAMIX_CONFIG")
	explicit := path != ""
	if !explicit {
		if dir, err := os.UserConfigDir(); err == nil {
			path = dir + "/kilamix/config.yml"
		}
	}
	if path != "" {
		if err := applyFile(&cfg, path, explicit); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyFile overlays the YAML file at path. A missing file is only an error
// when the path was set explicitly.
func applyFile(cfg *Config, path string, explicit bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.LogLevel, fc.LogLevel)
	setBool(&cfg.VerboseBodies, fc.VerboseBodies)
	setDuration(&cfg.ConnectTimeout, fc.ConnectTimeout)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setString(&cfg.SessionBackend, fc.SessionBackend)
	setString(&cfg.SessionPath, fc.SessionPath)
	setDuration(&cfg.CacheTTL, fc.CacheTTL)
	setString(&cfg.PlaybackOrigin, fc.PlaybackOrigin)
	setBool(&cfg.PlaybackDowngradeTLS, fc.PlaybackDowngradeTLS)
	setInt(&cfg.ThrottleEvents, fc.ThrottleEvents)
	setDuration(&cfg.ThrottleWindow, fc.ThrottleWindow)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getString("KILAMIX_BASE_URL", cfg.BaseURL)
	cfg.LogLevel = getString("KILAMIX_LOG_LEVEL", cfg.LogLevel)
	cfg.VerboseBodies = getBool("KILAMIX_VERBOSE_BODIES", cfg.VerboseBodies)
	cfg.ConnectTimeout = getDuration("KILAMIX_CONNECT_TIMEOUT", cfg.ConnectTimeout)
	cfg.RequestTimeout = getDuration("KILAMIX_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.SessionBackend = getString("KILAMIX_SESSION_BACKEND", cfg.SessionBackend)
	cfg.SessionPath = getString("KILAMIX_SESSION_PATH", cfg.SessionPath)
	cfg.CacheTTL = getDuration("KILAMIX_CACHE_TTL", cfg.CacheTTL)
	cfg.PlaybackOrigin = getString("KILAMIX_PLAYBACK_ORIGIN", cfg.PlaybackOrigin)
	cfg.PlaybackDowngradeTLS = getBool("KILAMIX_PLAYBACK_DOWNGRADE_TLS", cfg.PlaybackDowngradeTLS)
	cfg.ThrottleEvents = getInt("KILAMIX_THROTTLE_EVENTS", cfg.ThrottleEvents)
	cfg.ThrottleWindow = getDuration("KILAMIX_THROTTLE_WINDOW", cfg.ThrottleWindow)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) {
	if src == nil {
		return
	}
	if d, err := time.ParseDuration(*src); err == nil {
		*dst = d
	}
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
