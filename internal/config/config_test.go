/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultVendor, cfg.Vendor)
	assert.Equal(t, 30, cfg.TickRate)
	assert.Equal(t, 90, cfg.IdleTimeoutSec)
	assert.Equal(t, 45, cfg.Generation.TextTimeoutSec)
	assert.Equal(t, 2, cfg.Generation.MaxRetries)
	assert.True(t, cfg.Printer.Enabled)
	assert.Equal(t, "html", cfg.Printer.Format)
	assert.False(t, cfg.Mirror.Enabled)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `vendor: anthropic
tick_rate: 60
generation:
  text_timeout_sec: 10
mirror:
  enabled: true
  listen_addr: ":9000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Vendor)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 10, cfg.Generation.TextTimeoutSec)
	assert.True(t, cfg.Mirror.Enabled)
	assert.Equal(t, ":9000", cfg.Mirror.ListenAddr)

	// unset fields keep their defaults
	assert.Equal(t, 60, cfg.Generation.ImageTimeoutSec)
	assert.Equal(t, 90, cfg.IdleTimeoutSec)
	assert.True(t, cfg.Printer.Enabled)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("vendor: [oops"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "dir", ConfigFile)

	cfg := defaultConfig()
	cfg.Vendor = "google"
	cfg.Printer.SpoolDir = "/var/spool/midway"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "google", loaded.Vendor)
	assert.Equal(t, "/var/spool/midway", loaded.Printer.SpoolDir)
}

func TestDurationHelpers(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, time.Second/30, cfg.TickInterval())
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout())
	assert.Equal(t, 45*time.Second, cfg.TextTimeout())
	assert.Equal(t, 60*time.Second, cfg.ImageTimeout())
	assert.Equal(t, 2*time.Second, cfg.RetryDelay())

	cfg.TickRate = 0
	assert.Equal(t, time.Second/30, cfg.TickInterval())
}

func TestVendorTable(t *testing.T) {
	vendors := GetVendors()
	assert.Equal(t, []string{"anthropic", "google", "openai"}, vendors)

	for _, name := range vendors {
		info := GetVendorInfo(name)
		assert.Equal(t, name, info.Name)
		assert.NotEmpty(t, info.DefaultModel)
		assert.NotEmpty(t, info.KeyEnvVar)
		assert.Contains(t, info.SupportedModels, info.DefaultModel)
	}

	assert.Empty(t, GetVendorInfo("tarot").Name)
}

func TestLoadAPIKeyFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", " sk-test-123 ")

	key, err := LoadAPIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-123", key)
}

func TestLoadAPIKeyFromFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")

	require.NoError(t, SaveAPIKey("anthropic", "sk-ant-456\n"))

	key, err := LoadAPIKey("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-456", key)

	keyPath, err := KeyPath("anthropic")
	require.NoError(t, err)
	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadAPIKeyMissingSuggestsSetup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadAPIKey("google")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "midway setup")
}

func TestLoadAPIKeyUnknownVendor(t *testing.T) {
	_, err := LoadAPIKey("tarot")
	assert.Error(t, err)
}
