// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Andriykkk/ai-cli/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ai-cli configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Server connection settings
	Server ServerConfig `toml:"server" json:"server"`

	// History fetch and offline cache settings
	History HistoryConfig `toml:"history" json:"history"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// ServerConfig contains backend connection configuration.
type ServerConfig struct {
	// URL is the backend base URL.
	URL string `toml:"url" json:"url"`

	// TimeoutSecs bounds non-streaming requests. Streams are not
	// subject to it.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`

	// DefaultProject is the project id opened when none is given on the
	// command line. 0 means prompt for one.
	DefaultProject int `toml:"default_project" json:"default_project"`
}

// HistoryConfig controls transcript fetching and the local cache.
type HistoryConfig struct {
	// Limit is the maximum number of records fetched on screen load.
	// 0 fetches everything.
	Limit int `toml:"limit" json:"limit"`

	// OfflineCache mirrors fetched history into a local SQLite database
	// so past transcripts stay readable while the server is down.
	OfflineCache bool `toml:"offline_cache" json:"offline_cache"`

	// CachePath overrides the cache database location.
	CachePath string `toml:"cache_path" json:"cache_path"`
}

// UIConfig contains UI appearance configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto".
	Theme string `toml:"theme" json:"theme"`

	// Markdown renders assistant turns through glamour when true.
	Markdown bool `toml:"markdown" json:"markdown"`

	// SyntaxTheme is the chroma style used for tool output highlighting.
	SyntaxTheme string `toml:"syntax_theme" json:"syntax_theme"`

	// Plain forces the line-based REPL even on a full terminal.
	Plain bool `toml:"plain" json:"plain"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	// File is the log destination; empty disables logging.
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 30,
		},
		History: HistoryConfig{
			Limit:        200,
			OfflineCache: true,
		},
		UI: UIConfig{
			Theme:       "dark",
			Markdown:    true,
			SyntaxTheme: "monokai",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the ai-cli configuration directory (~/.ai-cli).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ai-cli"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the configuration directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. JSON is chosen by extension; anything else parses as TOML.
//
// Decoding layers the file over Default(), so omitted keys keep their
// default while explicit zero values (e.g. history.limit = 0 for
// "fetch everything") survive as written.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON config from %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config from %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - AI_CLI_SERVER_URL: overrides server.url
//   - AI_CLI_TIMEOUT: overrides server.timeout_secs
//   - AI_CLI_PROJECT: overrides server.default_project
//   - AI_CLI_THEME: overrides ui.theme
//   - AI_CLI_PLAIN: set to "1" or "true" to force the line-based REPL
//   - AI_CLI_LOG: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AI_CLI_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("AI_CLI_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("AI_CLI_PROJECT"); v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			c.Server.DefaultProject = id
		}
	}
	if v := os.Getenv("AI_CLI_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("AI_CLI_PLAIN"); v != "" {
		c.UI.Plain = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("AI_CLI_LOG"); v != "" {
		c.Log.File = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Server.URL != "" {
		u, err := url.Parse(c.Server.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Server.URL),
			})
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
			})
		}
	}

	if c.Server.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.History.Limit < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.limit",
			Message: "must be non-negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if c.UI.Theme != "" && !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with a header comment.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# ai-cli configuration file\n")
	buf.WriteString("# Generated by ai-cli - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CachePath resolves the offline cache database location.
func (c *Config) CachePath() (string, error) {
	if c.History.CachePath != "" {
		return c.History.CachePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath resolves the log file location, defaulting under the config dir.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "client.log"), nil
}
