// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package styles

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestTypeBadge(t *testing.T) {
	t.Parallel()

	s := New()

	for _, name := range []string{"feu", "Eau", "électrik", "dark", "fée"} {
		assert.True(t, KnownType(name), name)
		assert.Contains(t, ansi.Strip(s.TypeBadge(name)), name)
	}

	assert.False(t, KnownType("plasma"))
	assert.Contains(t, ansi.Strip(s.TypeBadge("plasma")), "plasma", "unknown types still render")
}

func TestStatBar(t *testing.T) {
	t.Parallel()

	s := New()

	assert.Empty(t, s.StatBar(10, 0, 10))
	assert.Equal(t, "█████░░░░░", ansi.Strip(s.StatBar(50, 100, 10)))
	assert.Equal(t, "██████████", ansi.Strip(s.StatBar(300, 100, 10)), "values above the maximum fill the bar")
}
