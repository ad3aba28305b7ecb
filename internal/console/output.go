// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console formats command output for terminals, pipes and JSON consumers.
package console

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputState holds global output configuration.
type OutputState struct {
	Verbose bool
	JSON    bool
	Plain   bool
	Quiet   bool
	// Color is one of auto, always, never.
	Color string

	Out io.Writer
	Err io.Writer
}

// DefaultOutput provides output formatting utilities.
var DefaultOutput = NewOutputState(os.Stdout, os.Stderr) //nolint:gochecknoglobals

// NewOutputState creates an output state writing to out and errOut.
func NewOutputState(out, errOut io.Writer) *OutputState {
	return &OutputState{Out: out, Err: errOut, Color: "auto"}
}

// SetMode configures output mode.
func (o *OutputState) SetMode(verbose, json, plain bool) {
	o.Verbose = verbose
	o.JSON = json
	o.Plain = plain
}

// IsTTY reports whether w is a terminal.
func (o *OutputState) IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd())) //nolint:gosec // fd fits in int
}

// UseColor decides whether ANSI styling goes to stdout.
func (o *OutputState) UseColor() bool {
	if o.JSON || o.Plain {
		return false
	}

	switch o.Color {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	return o.IsTTY(o.Out)
}

// Bold formats text with bold when colored, uppercase when piped.
func (o *OutputState) Bold(text string) string {
	if o.JSON || o.Plain {
		return text
	}

	if o.UseColor() {
		return "\033[1m" + text + "\033[0m"
	}

	return strings.ToUpper(text)
}

// Header formats section headers consistently.
func (o *OutputState) Header(text string) string {
	return o.Bold(text)
}

// Progressf writes progress messages to stderr (only if verbose and not JSON/Plain).
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.JSON && !o.Plain && !o.Quiet {
		_, _ = fmt.Fprintf(o.Err, format+"\n", args...)
	}
}

// Successf writes success messages to stderr (only if not JSON/Plain/Quiet).
func (o *OutputState) Successf(format string, args ...any) {
	if !o.JSON && !o.Plain && !o.Quiet {
		_, _ = fmt.Fprintf(o.Err, "✓ "+format+"\n", args...)
	}
}

// Warningf writes warning messages to stderr (suppressed by quiet).
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Quiet {
		return
	}

	if o.Plain {
		_, _ = fmt.Fprintf(o.Err, "warning: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.Err, "⚠ "+format+"\n", args...)
	}
}

// Errorf writes error messages to stderr (always visible).
func (o *OutputState) Errorf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.Err, "error: "+format+"\n", args...)
	} else {
		_, _ = fmt.Fprintf(o.Err, "✗ "+format+"\n", args...)
	}
}

// Result writes command results to stdout.
func (o *OutputState) Result(data any) {
	_, _ = fmt.Fprintf(o.Out, "%v\n", data)
}

// JSONResult writes a status envelope with data to stdout.
func (o *OutputState) JSONResult(status string, data map[string]any) {
	result := map[string]any{
		"status": status,
	}
	maps.Copy(result, data)

	o.encode(result)
}

// JSONValue writes v as indented JSON to stdout.
func (o *OutputState) JSONValue(v any) {
	o.encode(v)
}

func (o *OutputState) encode(v any) {
	encoder := json.NewEncoder(o.Out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		_, _ = fmt.Fprintf(o.Err, "error encoding JSON: %v\n", err)
	}
}

// SuccessResult outputs a result to stdout with an optional stderr message.
func (o *OutputState) SuccessResult(result any, message string) {
	if message != "" {
		o.Successf("%s", message)
	}

	if o.JSON {
		o.JSONResult("success", map[string]any{"result": result})
	} else {
		o.Result(result)
	}
}

// ErrorResult outputs an error, also as JSON on stdout in JSON mode.
func (o *OutputState) ErrorResult(err error, code int) {
	if o.JSON {
		o.JSONResult("error", map[string]any{
			"error": err.Error(),
			"code":  code,
		})
	}

	o.Errorf("%s", err.Error())
}

// PlainKeyValue outputs key:value pairs for machine parsing.
func (o *OutputState) PlainKeyValue(key, value string) {
	_, _ = fmt.Fprintf(o.Out, "%s:%s\n", key, value)
}

// PlainList outputs a simple list of items, one per line.
func (o *OutputState) PlainList(items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintf(o.Out, "%s\n", item)
	}
}

// PlainValue outputs a single value.
func (o *OutputState) PlainValue(value string) {
	_, _ = fmt.Fprintf(o.Out, "%s\n", value)
}

// Raw writes pre-rendered text to stdout unchanged.
func (o *OutputState) Raw(text string) {
	_, _ = io.WriteString(o.Out, text)
}
