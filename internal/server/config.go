// Package server provides configuration helpers that define runtime defaults,
// validation, and rate-limiting parameters for the live-chat service.
package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// RateLimitConfig defines the parameters for per-connection message rate
// limiting. The TOML file expresses the refill interval in whole seconds,
// mirroring the RATE_LIMIT_REFILL_INTERVAL environment variable.
type RateLimitConfig struct {
	Burst          int           `toml:"burst"`
	RefillInterval time.Duration `toml:"-"`
	RefillSeconds  int           `toml:"refill_interval_seconds"`
}

// AuthConfig holds the settings for verifying connecting users.
type AuthConfig struct {
	Secret string `toml:"secret"`
}

// ChatConfig holds the live-chat room settings: which rooms exist at startup
// and how large the history page pushed on each broadcast is.
type ChatConfig struct {
	Rooms             []string `toml:"rooms"`
	BroadcastPageSize int      `toml:"broadcast_page_size"`
}

// Config holds the server configuration settings including security controls.
type Config struct {
	Port           string          `toml:"port"`
	AllowedOrigins []string        `toml:"allowed_origins"`
	MaxMessageSize int64           `toml:"max_message_size"`
	RateLimit      RateLimitConfig `toml:"rate_limit"`
	Auth           AuthConfig      `toml:"auth"`
	Chat           ChatConfig      `toml:"chat"`
}

// NewConfig creates a Config populated with default values for all settings.
func NewConfig() *Config {
	return &Config{
		Port: ":8080",
		AllowedOrigins: []string{
			"http://localhost:8080",
		},
		MaxMessageSize: 512,
		RateLimit: RateLimitConfig{
			Burst:          5,
			RefillInterval: time.Second,
		},
		Auth: AuthConfig{
			Secret: "secret",
		},
		Chat: ChatConfig{
			Rooms:             []string{"1"},
			BroadcastPageSize: 100,
		},
	}
}

// NewConfigFromEnv creates a Config from environment variables, falling back
// to defaults for anything unset.
func NewConfigFromEnv() *Config {
	cfg := NewConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overlays set environment variables on the receiver. Unset
// variables leave the existing values untouched, so a file-loaded Config can
// still be overridden per deployment: defaults < config file < environment.
func (c *Config) ApplyEnv() {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Port = port
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = parseList(origins)
	}

	if maxSize := os.Getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		c.MaxMessageSize = parseMaxMessageSize(maxSize, c.MaxMessageSize)
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		c.RateLimit.Burst = parseIntValue(burst, c.RateLimit.Burst)
	}

	if interval := os.Getenv("RATE_LIMIT_REFILL_INTERVAL"); interval != "" {
		c.RateLimit.RefillInterval = parseRefillInterval(interval, c.RateLimit.RefillInterval)
	}

	if secret := os.Getenv("AUTH_SECRET"); secret != "" {
		c.Auth.Secret = secret
	}

	if rooms := os.Getenv("CHAT_ROOMS"); rooms != "" {
		c.Chat.Rooms = parseList(rooms)
	}

	if pageSize := os.Getenv("CHAT_BROADCAST_PAGE_SIZE"); pageSize != "" {
		c.Chat.BroadcastPageSize = parseIntValue(pageSize, c.Chat.BroadcastPageSize)
	}
}

// LoadConfigFile reads a TOML configuration file and merges it over the
// defaults. Values absent from the file keep their defaults. Environment
// variables are not consulted here; callers layer them with ApplyEnv.
func LoadConfigFile(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.RateLimit.RefillSeconds > 0 {
		cfg.RateLimit.RefillInterval = time.Duration(cfg.RateLimit.RefillSeconds) * time.Second
	}

	return cfg, nil
}

// Sanitize replaces out-of-range values with defaults so a partially broken
// configuration never produces an unusable server.
func (c *Config) Sanitize() {
	if c.Port == "" {
		c.Port = ":8080"
	}

	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 512
	}

	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}

	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = time.Second
	}

	if c.Chat.BroadcastPageSize <= 0 {
		c.Chat.BroadcastPageSize = 100
	}
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	return defaultValue
}

func parseIntValue(value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return defaultValue
}

func parseRefillInterval(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
