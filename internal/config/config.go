// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/haven-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete haven configuration.
type Config struct {
	Version string `toml:"version"`

	// Gateway configuration (the remote chat service)
	Gateway GatewayConfig `toml:"gateway"`

	// Store configuration (the local document database)
	Store StoreConfig `toml:"store"`

	// Identity configuration (sign-in)
	Identity IdentityConfig `toml:"identity"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// GatewayConfig contains remote chat gateway configuration.
type GatewayConfig struct {
	// URL is the base URL of the chat gateway
	URL string `toml:"url"`
	// Token is the bearer token sent on every request (empty = none)
	Token string `toml:"token"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is how many times transient failures are retried
	MaxRetries int `toml:"max_retries"`
	// RequestsPerMinute caps the outbound request rate (0 = uncapped)
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// Timeout returns the request timeout as a duration.
func (g GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// StoreConfig contains document store configuration.
type StoreConfig struct {
	// DatabasePath is the SQLite database file (empty = ~/.haven/haven.db)
	DatabasePath string `toml:"database_path"`
}

// IdentityConfig contains sign-in configuration.
type IdentityConfig struct {
	// Mode selects the sign-in flow: "device" or "static"
	Mode string `toml:"mode"`

	// Device-flow settings (used when Mode is "device")
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AuthURL      string `toml:"auth_url"`
	TokenURL     string `toml:"token_url"`
	UserInfoURL  string `toml:"userinfo_url"`

	// Static settings (used when Mode is "static"; offline and testing)
	StaticUserID string `toml:"static_user_id"`
	StaticName   string `toml:"static_name"`
	StaticEmail  string `toml:"static_email"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// Markdown renders assistant replies through the markdown renderer
	Markdown bool `toml:"markdown"`
	// CompactMode uses a tighter chat layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Gateway: GatewayConfig{
			URL:               "http://127.0.0.1:8780",
			TimeoutSecs:       30,
			MaxRetries:        2,
			RequestsPerMinute: 30,
		},

		Store: StoreConfig{
			DatabasePath: "", // resolved to ~/.haven/haven.db at open time
		},

		Identity: IdentityConfig{
			Mode: "device",
		},

		UI: UIConfig{
			Theme:    "dark",
			Markdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the haven configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".haven"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on the config file.
// SECURITY: Config files should be 0600 to protect the gateway token.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads configuration from a TOML file on top of cfg.
func LoadFile(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save saves the configuration to the default TOML file.
// SECURITY: Creates the file with 0600 permissions.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := Path()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# haven configuration file")
	fmt.Fprintln(&buf, "# Generated by haven - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// DEFAULTS / VALIDATION
// =============================================================================

// SetDefaults fills in any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Gateway.URL == "" {
		c.Gateway.URL = defaults.Gateway.URL
	}
	if c.Gateway.TimeoutSecs == 0 {
		c.Gateway.TimeoutSecs = defaults.Gateway.TimeoutSecs
	}
	if c.Gateway.MaxRetries == 0 {
		c.Gateway.MaxRetries = defaults.Gateway.MaxRetries
	}
	if c.Gateway.RequestsPerMinute == 0 {
		c.Gateway.RequestsPerMinute = defaults.Gateway.RequestsPerMinute
	}
	if c.Identity.Mode == "" {
		c.Identity.Mode = defaults.Identity.Mode
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gateway.URL != "" {
		if u, err := url.Parse(c.Gateway.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "gateway.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Gateway.URL),
			})
		}
	}
	if c.Gateway.TimeoutSecs < 1 || c.Gateway.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "gateway.timeout_secs",
			Message: fmt.Sprintf("must be 1-300, got %d", c.Gateway.TimeoutSecs),
		})
	}
	if c.Gateway.MaxRetries < 0 || c.Gateway.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "gateway.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.Gateway.MaxRetries),
		})
	}
	if c.Gateway.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "gateway.requests_per_minute",
			Message: "cannot be negative",
		})
	}

	validModes := map[string]bool{"device": true, "static": true}
	if !validModes[strings.ToLower(c.Identity.Mode)] {
		errs = append(errs, ValidationError{
			Field:   "identity.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: device, static", c.Identity.Mode),
		})
	}
	if strings.ToLower(c.Identity.Mode) == "static" && c.Identity.StaticUserID == "" {
		errs = append(errs, ValidationError{
			Field:   "identity.static_user_id",
			Message: "required when identity.mode is static",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
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
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - HAVEN_GATEWAY_URL: overrides gateway.url
//   - HAVEN_GATEWAY_TOKEN: overrides gateway.token
//   - HAVEN_GATEWAY_TIMEOUT_SECS: overrides gateway.timeout_secs
//   - HAVEN_DB: overrides store.database_path
//   - HAVEN_IDENTITY_MODE: overrides identity.mode
//   - HAVEN_USER_ID: overrides identity.static_user_id
//   - HAVEN_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("HAVEN_GATEWAY_URL"); u != "" {
		c.Gateway.URL = u
	}
	if token := os.Getenv("HAVEN_GATEWAY_TOKEN"); token != "" {
		c.Gateway.Token = token
	}
	if secs := os.Getenv("HAVEN_GATEWAY_TIMEOUT_SECS"); secs != "" {
		if n, err := strconv.Atoi(secs); err == nil {
			c.Gateway.TimeoutSecs = n
		}
	}
	if db := os.Getenv("HAVEN_DB"); db != "" {
		c.Store.DatabasePath = db
	}
	if mode := os.Getenv("HAVEN_IDENTITY_MODE"); mode != "" {
		c.Identity.Mode = mode
	}
	if uid := os.Getenv("HAVEN_USER_ID"); uid != "" {
		c.Identity.StaticUserID = uid
	}
	if theme := os.Getenv("HAVEN_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}
