// SPDX-License-Identifier: Apache-2.0
// Package errors provides the typed error returned when a network cannot be
// loaded from disk. Link-time problems are reported as compiler diagnostics
// instead and never surface through this package.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode classifies load failures for callers and structured logs.
type ErrorCode string

const (
	// CodeInternal indicates an unexpected internal failure.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeInvalidInput indicates a caller supplied an unusable argument.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNotFound indicates a required file or directory is absent.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeIO indicates a file could not be read.
	CodeIO ErrorCode = "IO_ERROR"

	// CodeMissingDelimiters indicates a document has no `---` header block.
	CodeMissingDelimiters ErrorCode = "MISSING_DELIMITERS"

	// CodeSchema indicates a document header failed schema validation.
	CodeSchema ErrorCode = "SCHEMA_ERROR"
)

// NetworkError is a typed error carrying the offending path and reason.
// It implements the error interface and can be unwrapped with errors.As().
type NetworkError struct {
	Code    ErrorCode
	Message string
	Path    string
	Issues  []string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&sb, "failed to parse %s: %s", e.Path, e.Message)
	} else {
		fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)
	}
	if len(e.Issues) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(e.Issues, "; "))
	} else if e.Err != nil && e.Err.Error() != e.Message {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap implements errors.Unwrap for error chain traversal.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements json.Marshaler for structured output.
func (e *NetworkError) MarshalJSON() ([]byte, error) {
	payload := struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Path    string                 `json:"path,omitempty"`
		Issues  []string               `json:"issues,omitempty"`
		Err     string                 `json:"error,omitempty"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Path:    e.Path,
		Issues:  e.Issues,
		Context: e.Context,
	}
	if e.Err != nil {
		payload.Err = e.Err.Error()
	}
	return json.Marshal(payload)
}

// New creates a new NetworkError with the given code, message, and cause.
func New(code ErrorCode, msg string, cause error) *NetworkError {
	return &NetworkError{
		Code:    code,
		Message: msg,
		Err:     cause,
		Context: make(map[string]interface{}),
	}
}

// WithPath records the file or directory the error refers to.
func (e *NetworkError) WithPath(path string) *NetworkError {
	e.Path = path
	return e
}

// WithIssues appends individual validation issues.
func (e *NetworkError) WithIssues(issues ...string) *NetworkError {
	e.Issues = append(e.Issues, issues...)
	return e
}

// WithContext adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *NetworkError) WithContext(key string, value interface{}) *NetworkError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// AsNetworkError returns err as a NetworkError if it is one, or wraps it as
// an internal error otherwise.
func AsNetworkError(err error) *NetworkError {
	if err == nil {
		return nil
	}
	var ne *NetworkError
	if stderrors.As(err, &ne) {
		return ne
	}
	return New(CodeInternal, err.Error(), err)
}

// HasCode reports whether err carries a NetworkError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ne *NetworkError
	return stderrors.As(err, &ne) && ne.Code == code
}
