// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses haven's command line and handles the non-TUI
// commands.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/morganforge/haven-tui/internal/config"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Offline bool // static identity, no sign-in flow
	UserID  string

	// Command-specific
	ConfigKey string
	ConfigVal string

	// Raw args (remaining after flag parsing)
	Raw []string
}

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	var args Args
	cmd := CmdTUI

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--offline":
			args.Offline = true
		case arg == "--user":
			if i+1 < len(argv) {
				i++
				args.UserID = argv[i]
			}
		case strings.HasPrefix(arg, "--user="):
			args.UserID = strings.TrimPrefix(arg, "--user=")
		case arg == "-h" || arg == "--help":
			return CmdHelp, args
		case arg == "-v" || arg == "--version":
			return CmdVersion, args
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) > 0 {
		switch positional[0] {
		case "config":
			cmd = CmdConfig
			if len(positional) > 1 {
				args.ConfigKey = positional[1]
			}
			if len(positional) > 2 {
				args.ConfigVal = positional[2]
			}
		case "version":
			cmd = CmdVersion
		case "help":
			cmd = CmdHelp
		default:
			args.Raw = positional
		}
	}
	return cmd, args
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleVersion prints version information.
func HandleVersion() {
	fmt.Printf("haven %s (%s, %s, %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(`haven - a quiet place to talk

Usage:
  haven                  start the chat interface
  haven config           show the configuration file path
  haven config <key>     not yet supported; edit the file directly
  haven version          print version information

Flags:
  --offline              sign in a local user without the device flow
  --user <id>            user id for --offline (default from config)
  -h, --help             show this help
  -v, --version          print version information

Configuration lives at ~/.haven/config.toml and can be overridden
with HAVEN_* environment variables.
`)
}

// HandleConfig shows where the config lives and its loaded state.
func HandleConfig(args Args) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if args.ConfigKey != "" {
		return fmt.Errorf("config editing is not supported; edit %s", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Printf("config file: %s\n", path)
	fmt.Printf("gateway url: %s\n", cfg.Gateway.URL)
	fmt.Printf("identity:    %s\n", cfg.Identity.Mode)
	fmt.Printf("theme:       %s\n", cfg.UI.Theme)
	return nil
}
