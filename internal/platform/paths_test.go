// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGOverrides(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/tmp/cfg", GetXDGConfigHomeWithEnv("/tmp/cfg"))
	assert.Equal(t, "/tmp/state", GetXDGStateHomeWithEnv("/tmp/state"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config"), GetXDGConfigHomeWithEnv(""))
	assert.Equal(t, filepath.Join(home, ".local", "state"), GetXDGStateHomeWithEnv(""))
}

func TestExpandPathWithEnv(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{"~/logs/dex.log", filepath.Join(home, "logs", "dex.log")},
		{"$XDG_CONFIG_HOME/dex/config.toml", "/cfg/dex/config.toml"},
		{"$XDG_STATE_HOME/dex/dex.log", "/state/dex/dex.log"},
		{"/var/log/dex.log", "/var/log/dex.log"},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, ExpandPathWithEnv(testCase.input, "/cfg", "/state"))
		})
	}
}

func TestAtomicWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, AtomicWriteFile(path, []byte("a = 1\n"), 0o600))
	require.NoError(t, AtomicWriteFile(path, []byte("a = 2\n"), 0o600))

	data, err := os.ReadFile(path) //nolint:gosec
	require.NoError(t, err)
	assert.Equal(t, "a = 2\n", string(data))
	assert.True(t, FileExists(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}
