// Package config loads application settings from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	Identity IdentityConfig `toml:"identity"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SpotifyConfig contains catalog provider credentials and tuning.
type SpotifyConfig struct {
	ClientID       string  `toml:"client_id"`
	ClientSecret   string  `toml:"client_secret"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSec     float64 `toml:"rate_per_sec"`
}

// IdentityConfig carries the operator-configured fallback identity for
// single-tenant deployments where no auth layer sits in front.
type IdentityConfig struct {
	FallbackUserID string `toml:"fallback_user_id"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "", Port: 5000},
		Database: DatabaseConfig{Path: "woodshed.db"},
		Spotify:  SpotifyConfig{TimeoutSeconds: 8, RatePerSec: 10},
	}
}

// Load reads the TOML file at path when it exists, then applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("WOODSHED_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("WOODSHED_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("WOODSHED_FALLBACK_USER_ID"); v != "" {
		c.Identity.FallbackUserID = v
	}
}

// Addr returns the host:port the server should bind to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
