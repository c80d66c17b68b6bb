// haven - a terminal companion chat client.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/haven-tui/internal/cli"
	"github.com/morganforge/haven-tui/internal/config"
	"github.com/morganforge/haven-tui/internal/dayclock"
	"github.com/morganforge/haven-tui/internal/gateway"
	"github.com/morganforge/haven-tui/internal/identity"
	"github.com/morganforge/haven-tui/internal/session"
	"github.com/morganforge/haven-tui/internal/storage"
	"github.com/morganforge/haven-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		runTUI(args)
	}
}

// runTUI wires the pieces together and runs the Bubble Tea program.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	clock := dayclock.New()
	provider := buildProvider(cfg, args)

	// The session is built lazily, after sign-in resolves the user
	build := func(user identity.User) (*session.Session, error) {
		dbPath := cfg.Store.DatabasePath
		if dbPath == "" {
			dbPath, err = storage.DefaultDatabasePath()
			if err != nil {
				return nil, err
			}
		}
		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return nil, err
		}

		gw := gateway.NewClientWithConfig(&gateway.ClientConfig{
			BaseURL:           cfg.Gateway.URL,
			AuthToken:         cfg.Gateway.Token,
			Timeout:           cfg.Gateway.Timeout(),
			MaxRetries:        cfg.Gateway.MaxRetries,
			RequestsPerMinute: cfg.Gateway.RequestsPerMinute,
		})

		return session.New(user, store, gw, clock), nil
	}

	m := chat.New(cfg, provider, clock, build)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// The device flow prompt arrives asynchronously; route it into the
	// update loop instead of printing over the alt screen
	if device, ok := provider.(*identity.DeviceProvider); ok {
		device.Prompt = func(uri, code string) {
			p.Send(chat.SignInPromptMsg{VerificationURI: uri, UserCode: code})
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildProvider picks the sign-in flow from config and flags.
func buildProvider(cfg *config.Config, args cli.Args) identity.Provider {
	if args.Offline || cfg.Identity.Mode == "static" {
		uid := cfg.Identity.StaticUserID
		if args.UserID != "" {
			uid = args.UserID
		}
		if uid == "" {
			uid = "local"
		}
		return identity.NewStaticProvider(identity.User{
			ID:          uid,
			DisplayName: cfg.Identity.StaticName,
			Email:       cfg.Identity.StaticEmail,
		})
	}

	return identity.NewDeviceProvider(identity.DeviceConfig{
		ClientID:     cfg.Identity.ClientID,
		ClientSecret: cfg.Identity.ClientSecret,
		AuthURL:      cfg.Identity.AuthURL,
		TokenURL:     cfg.Identity.TokenURL,
		UserInfoURL:  cfg.Identity.UserInfoURL,
		Scopes:       []string{"openid", "profile", "email"},
	})
}
