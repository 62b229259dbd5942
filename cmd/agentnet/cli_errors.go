// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package main implements the agentnet CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jllopis/agentnet/pkg/errors"
)

// CLIError wraps NetworkError with CLI-specific formatting and hints.
type CLIError struct {
	*errors.NetworkError
	Hint string
}

// NewCLIError creates a new CLI error.
func NewCLIError(ne *errors.NetworkError, hint string) *CLIError {
	return &CLIError{
		NetworkError: ne,
		Hint:         hint,
	}
}

// Error returns the formatted error message with hints.
func (e *CLIError) Error() string {
	if e.NetworkError == nil {
		return "unknown error"
	}

	msg := e.NetworkError.Error()
	if e.Hint != "" {
		msg += "\n  Hint: " + e.Hint
	}
	return msg
}

// Unwrap exposes the NetworkError to errors.As and errors.Is.
func (e *CLIError) Unwrap() error {
	return e.NetworkError
}

// Print writes the error as a single fatal line plus hint, or as a JSON
// object.
func (e *CLIError) Print(w io.Writer, asJSON bool) {
	if asJSON {
		payload := struct {
			Error *errors.NetworkError `json:"error"`
			Hint  string               `json:"hint,omitempty"`
		}{e.NetworkError, e.Hint}
		_ = json.NewEncoder(w).Encode(payload)
		return
	}

	fmt.Fprintln(w, errorStyle.Render(failMark+" "+e.NetworkError.Error()))
	if e.Hint != "" {
		fmt.Fprintln(w, hintStyle.Render("  Hint: "+e.Hint))
	}
}

// WrapLoadError attaches a hint matching the load failure's code.
func WrapLoadError(err error) *CLIError {
	ne := errors.AsNetworkError(err)
	var hint string
	switch ne.Code {
	case errors.CodeNotFound:
		hint = "a network directory needs manifest.md and an agents/ folder"
	case errors.CodeMissingDelimiters:
		hint = "start the file with a line containing only --- and close the header with another"
	case errors.CodeSchema:
		kind, _ := ne.Context["kind"].(string)
		if kind == "" {
			kind = "agent"
		}
		hint = fmt.Sprintf("run 'agentnet schema %s' to see the expected fields", kind)
	case errors.CodeIO:
		hint = "check that the file is readable"
	}
	return NewCLIError(ne, hint)
}

// NewNotFoundError creates a not found error with CLI hints.
func NewNotFoundError(resource, name, hint string) *CLIError {
	ne := errors.New(errors.CodeNotFound, fmt.Sprintf("%s '%s' not found", resource, name), nil).
		WithContext("resource", resource).
		WithContext("name", name)
	return NewCLIError(ne, hint)
}

// NewInvalidArgumentError creates an invalid argument error with CLI hints.
func NewInvalidArgumentError(arg, reason string) *CLIError {
	ne := errors.New(errors.CodeInvalidInput, fmt.Sprintf("invalid argument: %s", reason), nil).
		WithContext("argument", arg).
		WithContext("reason", reason)
	return NewCLIError(ne, "run 'agentnet help' for usage information")
}

// NewConfigError creates a configuration error with CLI hints.
func NewConfigError(err error, configPath string) *CLIError {
	ne := errors.New(errors.CodeInvalidInput, "configuration error", err).
		WithContext("config_path", configPath)

	hint := "check your configuration file syntax"
	if configPath != "" {
		hint = fmt.Sprintf("check %s for syntax errors", configPath)
	}
	return NewCLIError(ne, hint)
}

// PrintSimpleError prints a simple error message (for non-NetworkError cases).
func PrintSimpleError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		_ = json.NewEncoder(w).Encode(map[string]map[string]string{
			"error": {"code": "UNKNOWN", "message": err.Error()},
		})
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}
