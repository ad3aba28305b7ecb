// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrNetworkFailure   = errors.New("network failure")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidRoute     = errors.New("invalid route")
	ErrInvalidResponse  = errors.New("invalid response")
)

// User-facing failure messages. Every failure collapses into one of these.
const (
	MsgCategoriesFailed = "Failed to load categories"
	MsgItemsFailed      = "Failed to load items"
	MsgDetailFailed     = "Failed to load item details"
)

// ExitError carries a process exit code together with a user-facing message.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// getErrorMatchers returns error patterns and their corresponding info.
func getErrorMatchers() []struct {
	target   error
	patterns []string
	getInfo  func(bool) ErrorInfo
} {
	return []struct {
		target   error
		patterns []string
		getInfo  func(bool) ErrorInfo
	}{
		{
			target:   ErrItemNotFound,
			patterns: []string{"not found", "404"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Item not found",
					Suggestions: []string{"Check the item number", "Use 'dex list' to browse available items"},
					ShowDetails: verbose,
				}
			},
		},
		{
			target:   ErrInvalidPageSize,
			patterns: []string{"page size"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Invalid page size",
					Suggestions: []string{"Use one of 20, 50 or 100"},
					ShowDetails: verbose,
				}
			},
		},
		{
			target:   ErrNetworkFailure,
			patterns: []string{"network", "connection", "timeout", "no such host", "deadline exceeded"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Network connection failed",
					Suggestions: []string{"Check your internet connection", "Check the api_url setting with 'dex config show'"},
					ShowDetails: verbose,
				}
			},
		},
		{
			target:   ErrUnexpectedStatus,
			patterns: []string{"status"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Catalog service returned an error",
					Suggestions: []string{"Try again in a few moments"},
					ShowDetails: verbose,
				}
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	matchers := getErrorMatchers()

	for _, matcher := range matchers {
		if errors.Is(err, matcher.target) {
			return matcher.getInfo(verbose)
		}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range matchers {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				return matcher.getInfo(verbose)
			}
		}
	}

	// Generic error - show details in verbose mode
	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats an error for display.
func FormatErrorMessage(err error, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(info.Message)

	// Add technical details if verbose
	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	switch {
	case len(info.Suggestions) > 0 && !verbose:
		// In non-verbose mode, just show the first suggestion inline
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	case len(info.Suggestions) > 0:
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
