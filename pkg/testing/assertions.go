// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"strings"
	"testing"

	"github.com/jllopis/agentnet/pkg/compiler"
	"github.com/jllopis/agentnet/pkg/errors"
)

// Assertions provides assertion helpers for testing.
type Assertions struct {
	t      *testing.T
	failed bool
}

// NewAssertions creates a new assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// Failed returns true if any assertion has failed.
func (a *Assertions) Failed() bool {
	return a.failed
}

// AssertNoError asserts that err is nil.
func (a *Assertions) AssertNoError(err error, msg string) {
	a.t.Helper()
	if err != nil {
		a.t.Errorf("%s: unexpected error: %v", msg, err)
		a.failed = true
	}
}

// AssertErrorCode asserts that err carries a NetworkError with code.
func (a *Assertions) AssertErrorCode(err error, code errors.ErrorCode, msg string) {
	a.t.Helper()
	if !errors.HasCode(err, code) {
		a.t.Errorf("%s: expected %s error, got %v", msg, code, err)
		a.failed = true
	}
}

// AssertContains asserts that s contains substr.
func (a *Assertions) AssertContains(s, substr, msg string) {
	a.t.Helper()
	if !strings.Contains(s, substr) {
		a.t.Errorf("%s: expected %q to contain %q", msg, s, substr)
		a.failed = true
	}
}

// AssertLinked asserts that result holds a linked network.
func (a *Assertions) AssertLinked(result compiler.Result, msg string) {
	a.t.Helper()
	if !result.OK() {
		a.t.Errorf("%s: expected a linked network, got diagnostics %v", msg, result.Diagnostics)
		a.failed = true
	}
}

// AssertDiagnostics asserts that result failed with exactly the given
// diagnostic kinds, in order.
func (a *Assertions) AssertDiagnostics(result compiler.Result, msg string, kinds ...compiler.DiagnosticKind) {
	a.t.Helper()
	if result.Network != nil {
		a.t.Errorf("%s: expected link failure, got a network", msg)
		a.failed = true
		return
	}
	got := make([]compiler.DiagnosticKind, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		got[i] = d.Kind
	}
	if len(got) != len(kinds) {
		a.t.Errorf("%s: expected diagnostics %v, got %v", msg, kinds, got)
		a.failed = true
		return
	}
	for i := range kinds {
		if got[i] != kinds[i] {
			a.t.Errorf("%s: expected diagnostics %v, got %v", msg, kinds, got)
			a.failed = true
			return
		}
	}
}
