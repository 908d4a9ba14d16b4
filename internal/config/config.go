// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the full tool configuration.
type Config struct {
	Vault   VaultConfig   `toml:"vault"`
	Worker  WorkerConfig  `toml:"worker"`
	Session SessionConfig `toml:"session"`
}

// VaultConfig locates the credential vault.
type VaultConfig struct {
	Path string `toml:"path"`
}

// WorkerConfig describes the agent worker process and its endpoint.
type WorkerConfig struct {
	Command           string   `toml:"command"`
	Args              []string `toml:"args"`
	Endpoint          string   `toml:"endpoint"`
	ConnectAttempts   int      `toml:"connect_attempts"`
	ConnectIntervalMS int      `toml:"connect_interval_ms"`
}

// SessionConfig controls chat session persistence.
type SessionConfig struct {
	TranscriptDir string `toml:"transcript_dir"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Vault: VaultConfig{
			Path: filepath.Join(DataDir(), "vault.json"),
		},
		Worker: WorkerConfig{
			Command:           "python3",
			Args:              []string{"agent/main.py"},
			Endpoint:          "127.0.0.1:50051",
			ConnectAttempts:   90,
			ConnectIntervalMS: 1000,
		},
		Session: SessionConfig{
			TranscriptDir: filepath.Join(DataDir(), "transcripts"),
		},
	}
}

// Load reads the standard config file if it exists, overlaying defaults.
// A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile loads configuration from a specific TOML file over defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "suicli", "config.toml")
	}
	return filepath.Join(DataDir(), "config.toml")
}

// DataDir returns the platform data directory holding the vault and
// session transcripts.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "suicli")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "suicli"
	}
	return filepath.Join(home, ".local", "share", "suicli")
}

// applyDefaults backfills fields a partial config file left empty.
func (c *Config) applyDefaults() {
	def := New()
	if c.Vault.Path == "" {
		c.Vault.Path = def.Vault.Path
	}
	if c.Worker.Command == "" {
		c.Worker.Command = def.Worker.Command
	}
	if len(c.Worker.Args) == 0 {
		c.Worker.Args = def.Worker.Args
	}
	if c.Worker.Endpoint == "" {
		c.Worker.Endpoint = def.Worker.Endpoint
	}
	if c.Worker.ConnectAttempts <= 0 {
		c.Worker.ConnectAttempts = def.Worker.ConnectAttempts
	}
	if c.Worker.ConnectIntervalMS <= 0 {
		c.Worker.ConnectIntervalMS = def.Worker.ConnectIntervalMS
	}
	if c.Session.TranscriptDir == "" {
		c.Session.TranscriptDir = def.Session.TranscriptDir
	}
}
