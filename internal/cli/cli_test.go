// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, args := parse(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %d, want CmdTUI", cmd)
	}
	if args.Offline {
		t.Error("Offline should default to false")
	}
}

func TestParseFlags(t *testing.T) {
	cmd, args := parse([]string{"--offline", "--user", "maya"})
	if cmd != CmdTUI {
		t.Errorf("cmd = %d, want CmdTUI", cmd)
	}
	if !args.Offline || args.UserID != "maya" {
		t.Errorf("args = %+v", args)
	}

	_, args = parse([]string{"--user=kai"})
	if args.UserID != "kai" {
		t.Errorf("UserID = %q, want kai", args.UserID)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"version"}, CmdVersion},
		{[]string{"-v"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"--help"}, CmdHelp},
		{[]string{"config"}, CmdConfig},
	}
	for _, tt := range tests {
		if cmd, _ := parse(tt.argv); cmd != tt.want {
			t.Errorf("parse(%v) = %d, want %d", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseConfigKeyValue(t *testing.T) {
	cmd, args := parse([]string{"config", "ui.theme", "light"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %d, want CmdConfig", cmd)
	}
	if args.ConfigKey != "ui.theme" || args.ConfigVal != "light" {
		t.Errorf("args = %+v", args)
	}
}
