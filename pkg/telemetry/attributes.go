// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry wires slog and OpenTelemetry for agentnet and defines the
// span attributes and metrics recorded around loading and linking networks.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys recorded on agentnet spans and metrics.
const (
	// Network attributes
	AttrNetworkDir     = "agentnet.network.dir"
	AttrNetworkName    = "agentnet.network.name"
	AttrNetworkVersion = "agentnet.network.version"
	AttrAgentsCount    = "agentnet.agents.count"
	AttrSkillsCount    = "agentnet.skills.count"

	// Compile attributes
	AttrOutcome          = "agentnet.compile.outcome" // ok, invalid, load_error
	AttrDiagnosticsCount = "agentnet.compile.diagnostics"
	AttrDiagnosticKind   = "agentnet.diagnostic.kind"
	AttrCyclesCount      = "agentnet.compile.cycles"

	// Load error attributes
	AttrErrorCode = "agentnet.error.code"
	AttrErrorPath = "agentnet.error.path"

	// Output attributes
	AttrProvider     = "agentnet.provider"
	AttrOutputFormat = "agentnet.output.format"
)

// Compile outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeLoadError = "load_error"
)

// NetworkAttributes describes a loaded network.
func NetworkAttributes(dir, name, version string, agents, skills int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrNetworkDir, dir),
		attribute.Int(AttrAgentsCount, agents),
		attribute.Int(AttrSkillsCount, skills),
	}
	if name != "" {
		attrs = append(attrs, attribute.String(AttrNetworkName, name))
	}
	if version != "" {
		attrs = append(attrs, attribute.String(AttrNetworkVersion, version))
	}
	return attrs
}

// CompileAttributes describes the outcome of a link pass.
func CompileAttributes(outcome string, diagnostics, cycles int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrOutcome, outcome),
		attribute.Int(AttrDiagnosticsCount, diagnostics),
	}
	if cycles > 0 {
		attrs = append(attrs, attribute.Int(AttrCyclesCount, cycles))
	}
	return attrs
}

// LoadErrorAttributes describes a failed load.
func LoadErrorAttributes(code, path string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrOutcome, OutcomeLoadError),
		attribute.String(AttrErrorCode, code),
	}
	if path != "" {
		attrs = append(attrs, attribute.String(AttrErrorPath, path))
	}
	return attrs
}

// OutputAttributes describes a rendering request.
func OutputAttributes(format, provider string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(AttrOutputFormat, format)}
	if provider != "" {
		attrs = append(attrs, attribute.String(AttrProvider, provider))
	}
	return attrs
}
