// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform resolves per-user directories and small file helpers.
package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user directories dex owns.
const AppName = "dex"

// GetXDGConfigHome returns XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns XDG config directory with custom environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	return xdgDir(xdgConfigHome, ".config")
}

// GetXDGStateHome returns XDG state directory, where logs live.
func GetXDGStateHome() string {
	return GetXDGStateHomeWithEnv(os.Getenv("XDG_STATE_HOME"))
}

// GetXDGStateHomeWithEnv returns XDG state directory with custom environment override for testing.
func GetXDGStateHomeWithEnv(xdgStateHome string) string {
	return xdgDir(xdgStateHome, ".local", "state")
}

// ConfigDir returns the dex config directory.
func ConfigDir() string {
	return filepath.Join(GetXDGConfigHome(), AppName)
}

// ExpandPath expands ~ and the XDG variables dex understands.
func ExpandPath(path string) string {
	return ExpandPathWithEnv(path, "", "")
}

// ExpandPathWithEnv expands paths with custom XDG environment variables for testing.
func ExpandPathWithEnv(path, xdgConfigHome, xdgStateHome string) string {
	if after, found := strings.CutPrefix(path, "~/"); found {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, after)
		}
	}

	if after, found := strings.CutPrefix(path, "$XDG_CONFIG_HOME"); found {
		configHome := xdgConfigHome
		if configHome == "" {
			configHome = GetXDGConfigHome()
		}

		return configHome + after
	}

	if after, found := strings.CutPrefix(path, "$XDG_STATE_HOME"); found {
		stateHome := xdgStateHome
		if stateHome == "" {
			stateHome = GetXDGStateHome()
		}

		return stateHome + after
	}

	return path
}

func xdgDir(override string, fallback ...string) string {
	if override != "" {
		return override
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append([]string{home}, fallback...)...)
	}

	return ""
}
