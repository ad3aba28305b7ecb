// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/janderssonse/dex/internal/domain"
	"github.com/stretchr/testify/assert"
)

// TestExitErrorFormatting tests that ExitError properly formats messages.
func TestExitErrorFormatting(t *testing.T) {
	tests := []struct {
		name            string
		exitError       *domain.ExitError
		expectedCode    int
		expectedMessage string
	}{
		{
			name: "exit error with underlying error",
			exitError: domain.NewExitError(1, "Operation failed",
				errors.New("permission denied")),
			expectedCode:    1,
			expectedMessage: "Operation failed: permission denied",
		},
		{
			name:            "exit error without underlying error",
			exitError:       domain.NewExitError(2, "Invalid configuration", nil),
			expectedCode:    2,
			expectedMessage: "Invalid configuration",
		},
		{
			name: "exit error with network failure",
			exitError: domain.NewExitError(11, "Failed to load items",
				domain.ErrNetworkFailure),
			expectedCode:    11,
			expectedMessage: "Failed to load items: network failure",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMessage, tc.exitError.Error())
			assert.Equal(t, tc.expectedCode, tc.exitError.Code)
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("show: %w", domain.NewExitError(5, "Item not found", domain.ErrItemNotFound))

	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	var exitErr *domain.ExitError
	assert.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 5, exitErr.Code)
}

// TestFormatErrorMessage tests user-friendly error formatting.
func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		verbose       bool
		shouldContain []string
		shouldNotHave []string
	}{
		{
			name:          "wrapped sentinel wins over text",
			err:           fmt.Errorf("get item 9999: %w", domain.ErrItemNotFound),
			shouldContain: []string{"Item not found", "dex list"},
		},
		{
			name:          "network text pattern",
			err:           errors.New("dial tcp: lookup api.invalid: no such host"),
			shouldContain: []string{"Network connection failed"},
			shouldNotHave: []string{"Technical details"},
		},
		{
			name:          "verbose shows details and all suggestions",
			err:           fmt.Errorf("list: %w", domain.ErrUnexpectedStatus),
			verbose:       true,
			shouldContain: []string{"Catalog service returned an error", "Technical details: list: unexpected status", "Suggestions:"},
		},
		{
			name:          "unknown error",
			err:           errors.New("boom"),
			shouldContain: []string{"Operation failed", "--verbose"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			message := domain.FormatErrorMessage(tc.err, tc.verbose)
			for _, want := range tc.shouldContain {
				assert.Contains(t, message, want)
			}

			for _, unwanted := range tc.shouldNotHave {
				assert.False(t, strings.Contains(message, unwanted), "message %q should not contain %q", message, unwanted)
			}
		})
	}
}

func TestGetErrorInfoNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.ErrorInfo{}, domain.GetErrorInfo(nil, true))
}
