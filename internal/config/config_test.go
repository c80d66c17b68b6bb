// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Gateway.URL != "http://127.0.0.1:8780" {
		t.Errorf("Gateway URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.TimeoutSecs != 30 {
		t.Errorf("Gateway timeout = %d, want 30", cfg.Gateway.TimeoutSecs)
	}
	if cfg.Identity.Mode != "device" {
		t.Errorf("Identity mode = %q, want device", cfg.Identity.Mode)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0.0"

[gateway]
url = "https://chat.example.com"
token = "secret"
timeout_secs = 10

[identity]
mode = "static"
static_user_id = "u1"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Loaded config invalid: %v", err)
	}

	if cfg.Gateway.URL != "https://chat.example.com" {
		t.Errorf("Gateway URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.Token != "secret" {
		t.Errorf("Gateway token = %q", cfg.Gateway.Token)
	}
	if cfg.Gateway.TimeoutSecs != 10 {
		t.Errorf("Gateway timeout = %d", cfg.Gateway.TimeoutSecs)
	}
	if cfg.Identity.Mode != "static" || cfg.Identity.StaticUserID != "u1" {
		t.Errorf("Identity = %+v", cfg.Identity)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unset fields keep defaults
	if cfg.Gateway.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want default 2", cfg.Gateway.MaxRetries)
	}
}

func TestLoadFileFixesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`version = "1.0.0"`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Permissions = %o, want 0600", info.Mode().Perm())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad gateway url", func(c *Config) { c.Gateway.URL = "::not-a-url" }, "gateway.url"},
		{"timeout too small", func(c *Config) { c.Gateway.TimeoutSecs = 0 }, "gateway.timeout_secs"},
		{"timeout too large", func(c *Config) { c.Gateway.TimeoutSecs = 1000 }, "gateway.timeout_secs"},
		{"negative retries", func(c *Config) { c.Gateway.MaxRetries = -1 }, "gateway.max_retries"},
		{"bad identity mode", func(c *Config) { c.Identity.Mode = "password" }, "identity.mode"},
		{"static without uid", func(c *Config) { c.Identity.Mode = "static" }, "identity.static_user_id"},
		{"bad theme", func(c *Config) { c.UI.Theme = "rainbow" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Gateway.URL == "" || cfg.Gateway.TimeoutSecs == 0 {
		t.Errorf("SetDefaults left gateway unset: %+v", cfg.Gateway)
	}
	if cfg.Identity.Mode != "device" {
		t.Errorf("Identity mode = %q", cfg.Identity.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults-filled config invalid: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HAVEN_GATEWAY_URL", "https://gw.example.com")
	t.Setenv("HAVEN_GATEWAY_TOKEN", "env-token")
	t.Setenv("HAVEN_GATEWAY_TIMEOUT_SECS", "15")
	t.Setenv("HAVEN_IDENTITY_MODE", "static")
	t.Setenv("HAVEN_USER_ID", "env-user")
	t.Setenv("HAVEN_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Gateway.URL != "https://gw.example.com" {
		t.Errorf("Gateway URL = %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.Token != "env-token" {
		t.Errorf("Gateway token = %q", cfg.Gateway.Token)
	}
	if cfg.Gateway.TimeoutSecs != 15 {
		t.Errorf("Gateway timeout = %d", cfg.Gateway.TimeoutSecs)
	}
	if cfg.Identity.Mode != "static" || cfg.Identity.StaticUserID != "env-user" {
		t.Errorf("Identity = %+v", cfg.Identity)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestGatewayTimeoutDuration(t *testing.T) {
	g := GatewayConfig{TimeoutSecs: 30}
	if g.Timeout().Seconds() != 30 {
		t.Errorf("Timeout = %v, want 30s", g.Timeout())
	}
}
