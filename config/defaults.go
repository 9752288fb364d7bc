// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the termlink configuration file.

package config

import "os"

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"activeTheme": "dark",
	})
	cfg.RegisterDefaults("terminal", Section{
		"font_size":    14.0,
		"line_height":  1.2,
		"scrollback":   1000,
		"cursor_blink": true,
	})
	cfg.RegisterDefaults("session", Section{
		"shell": defaultShell(),
		"term":  "xterm-256color",
	})
}

func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}
