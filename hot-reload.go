// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig provides dynamic configuration reload capabilities using Argus.
// It watches a configuration file and automatically updates table settings
// when changes are detected.
type HotConfig struct {
	table   Table
	watcher *argus.Watcher
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations.
	// If nil, NoOpLogger is used.
	Logger Logger
}

// NewHotConfig creates a new hot-reloadable configuration for a table.
// It starts watching the configuration file immediately.
//
// Example configuration file (YAML):
//
//	table:
//	  writer_slots: 8
//	  visibility: "flush_all"
//
// Supported configuration keys:
//   - table.writer_slots (int): Write-combining slots for future Writer leases
//   - table.visibility (string): "flush_all" or "flush_own"
//
// Note: Capacity is fixed for the table's lifetime and cannot be
// hot-reloaded; changing it requires creating a new table. Only the
// runtime parameters above are applied dynamically.
func NewHotConfig(table Table, opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		table:    table,
		OnReload: opts.OnReload,
		config:   DefaultConfig(), // Start with defaults
	}

	// Create Argus config with specified PollInterval for fast file change detection
	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	// Use UniversalConfigWatcherWithConfig to pass custom poll interval
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
// Note: The watcher monitors file changes at the configured PollInterval.
func (hc *HotConfig) Start() error {
	// Check if already running to avoid ARGUS_WATCHER_BUSY error
	if hc.watcher.IsRunning() {
		return nil // Already started
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
// Returns any error from stopping the watcher.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(configData)
	hc.config = newConfig
	hc.mu.Unlock()

	// Apply dynamic configuration changes
	hc.applyChanges(newConfig)

	// Trigger callback if set
	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case float64:
		if v > 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseVisibility extracts a VisibilityPolicy from a string value.
func parseVisibility(value interface{}) (VisibilityPolicy, bool) {
	str, ok := value.(string)
	if !ok {
		return 0, false
	}
	switch str {
	case "flush_all":
		return VisibilityFlushAll, true
	case "flush_own":
		return VisibilityFlushOwn, true
	}
	return 0, false
}

// parseConfig extracts table configuration from Argus config data.
func (hc *HotConfig) parseConfig(data map[string]interface{}) Config {
	config := DefaultConfig()

	// Extract table section - Argus might nest it or provide it directly
	tableSection, ok := data["table"].(map[string]interface{})
	if !ok {
		// Try if the whole data IS the table section
		if _, hasSlots := data["writer_slots"]; hasSlots {
			tableSection = data
		} else {
			return config
		}
	}

	// Parse WriterSlots
	if slots, ok := parsePositiveInt(tableSection["writer_slots"]); ok {
		config.WriterSlots = slots
	}

	// Parse Visibility ("flush_all" or "flush_own")
	if policy, ok := parseVisibility(tableSection["visibility"]); ok {
		config.Visibility = policy
	}

	return config
}

// applyChanges applies configuration changes to the running table.
// Capacity cannot be applied dynamically; only the runtime parameters
// below reach the live table.
func (hc *HotConfig) applyChanges(config Config) {
	rt, ok := hc.table.(runtimeConfigurable)
	if !ok {
		return
	}

	// Writer slot changes affect leases acquired after the reload;
	// existing leases keep the buffer they were created with.
	rt.setWriterSlots(config.WriterSlots)

	// Visibility changes take effect on the next read.
	rt.setVisibility(config.Visibility)
}
