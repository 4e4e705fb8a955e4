/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */

// Package config loads the kiosk's YAML configuration and manages the
// per vendor API key files under ~/.config/midway.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CommandName = "midway"
	ConfigFile  = "midway.yml"
	KeyFileFmt  = "%s_key.txt"
)

type Config struct {
	Vendor     string `yaml:"vendor"`
	Model      string `yaml:"model"`       // empty selects the vendor default
	ImageModel string `yaml:"image_model"` // empty selects the imggen default

	TickRate       int `yaml:"tick_rate"` // frames per second
	IdleTimeoutSec int `yaml:"idle_timeout_sec"`

	Generation GenerationConfig `yaml:"generation"`
	Printer    PrinterConfig    `yaml:"printer"`
	Mirror     MirrorConfig     `yaml:"mirror"`
	Log        LogConfig        `yaml:"log"`

	AuditLog  string `yaml:"audit_log"`
	StatsPath string `yaml:"stats_path"`
}

type GenerationConfig struct {
	TextTimeoutSec  int `yaml:"text_timeout_sec"`
	ImageTimeoutSec int `yaml:"image_timeout_sec"`
	MaxRetries      int `yaml:"max_retries"`
	RetryDelaySec   int `yaml:"retry_delay_sec"`
}

type PrinterConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SpoolDir   string `yaml:"spool_dir"`
	Format     string `yaml:"format"` // "html" or "png"
	CardWidth  int    `yaml:"card_width"`
	CardHeight int    `yaml:"card_height"`
}

type MirrorConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

func defaultConfig() *Config {
	return &Config{
		Vendor:         DefaultVendor,
		TickRate:       30,
		IdleTimeoutSec: 90,
		Generation: GenerationConfig{
			TextTimeoutSec:  45,
			ImageTimeoutSec: 60,
			MaxRetries:      2,
			RetryDelaySec:   2,
		},
		Printer: PrinterConfig{
			Enabled:    true,
			Format:     "html",
			CardWidth:  600,
			CardHeight: 900,
		},
		Mirror: MirrorConfig{
			ListenAddr: ":8089",
		},
	}
}

// Load reads the kiosk config, layering the file's settings over the
// defaults. A missing file is not an error; the kiosk boots with
// defaults on first run.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read config %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %v: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back out, creating the config directory if
// needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 30
	}
	return time.Second / time.Duration(rate)
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSec) * time.Second
}

func (c *Config) TextTimeout() time.Duration {
	return time.Duration(c.Generation.TextTimeoutSec) * time.Second
}

func (c *Config) ImageTimeout() time.Duration {
	return time.Duration(c.Generation.ImageTimeoutSec) * time.Second
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Generation.RetryDelaySec) * time.Second
}

func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", CommandName), nil
}

func DefaultConfigPath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFile), nil
}

func KeyPath(vendor string) (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, fmt.Sprintf(KeyFileFmt, vendor)), nil
}

// LoadAPIKey resolves the vendor's API key: environment variable first,
// then the key file written by `midway setup`.
func LoadAPIKey(vendor string) (string, error) {
	info := GetVendorInfo(vendor)
	if info.Name == "" {
		return "", fmt.Errorf("vendor %v is not currently supported", vendor)
	}

	if key := strings.TrimSpace(os.Getenv(info.KeyEnvVar)); key != "" {
		return key, nil
	}

	keyPath, err := KeyPath(vendor)
	if err != nil {
		return "", fmt.Errorf("could not load %v API key: %w", vendor, err)
	}
	data, err := os.ReadFile(keyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("could not load %v API key: "+
				"run `%v setup` to configure", vendor, CommandName)
		}
		return "", fmt.Errorf("could not load %v API key: %w", vendor, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveAPIKey writes the vendor's key file with owner-only permissions.
func SaveAPIKey(vendor, key string) error {
	keyPath, err := KeyPath(vendor)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	return os.WriteFile(keyPath, []byte(key), 0o600)
}
