// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

// Package-level cache state. Loading configuration is cheap but not free
// (CUE compilation), and several commands consult it, so the first Load
// result is cached for the lifetime of the process.
var (
	configMu sync.Mutex

	// globalConfig caches the loaded configuration.
	globalConfig *Config

	// configPath records where the cached configuration was loaded from.
	// Empty when defaults were used.
	configPath string

	// configFilePathOverride forces loading from a specific file (--config flag).
	configFilePathOverride string

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
)

// Load returns the process-wide configuration, loading it on first use.
func Load() (*Config, error) {
	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
		ConfigDirPath:  configDirOverride,
	})
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	return cfg, nil
}

// GetConfigPath returns the path the cached configuration was loaded from.
// Empty when no config file was found and defaults are in effect.
func GetConfigPath() string {
	configMu.Lock()
	defer configMu.Unlock()
	return configPath
}

// SetConfigFilePathOverride forces loading from a specific config file and
// clears any cached configuration so the next Load picks it up.
func SetConfigFilePathOverride(path string) {
	configMu.Lock()
	defer configMu.Unlock()
	configFilePathOverride = path
	globalConfig = nil
	configPath = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configMu.Lock()
	defer configMu.Unlock()
	configDirOverride = dir
	globalConfig = nil
	configPath = ""
}

// Reset clears cached state and overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = nil
	configPath = ""
	configFilePathOverride = ""
	configDirOverride = ""
}
