// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/agentnet/pkg/errors"
)

// CompileMetrics counts compile runs, their diagnostics and load failures.
// A nil *CompileMetrics is valid and records nothing.
type CompileMetrics struct {
	compiles    metric.Int64Counter
	diagnostics metric.Int64Counter
	loadErrors  metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewCompileMetrics registers the instruments on the global meter provider.
func NewCompileMetrics(ctx context.Context) (*CompileMetrics, error) {
	meter := otel.Meter(instrumentationName + "/compiler")

	compiles, err := meter.Int64Counter(
		"agentnet.compile.runs",
		metric.WithDescription("Compile runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	diagnostics, err := meter.Int64Counter(
		"agentnet.compile.diagnostics",
		metric.WithDescription("Link diagnostics by kind"),
	)
	if err != nil {
		return nil, err
	}

	loadErrors, err := meter.Int64Counter(
		"agentnet.load.errors",
		metric.WithDescription("Load failures by error code"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"agentnet.compile.duration",
		metric.WithDescription("Load and link duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &CompileMetrics{
		compiles:    compiles,
		diagnostics: diagnostics,
		loadErrors:  loadErrors,
		duration:    duration,
	}, nil
}

// RecordCompile counts one run with the given outcome and its duration.
func (m *CompileMetrics) RecordCompile(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, outcome))
	m.compiles.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// RecordDiagnostic counts one link diagnostic of the given kind.
func (m *CompileMetrics) RecordDiagnostic(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.diagnostics.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrDiagnosticKind, kind)))
}

// RecordLoadError counts a load failure by its error code. Errors that are
// not NetworkErrors are counted as INTERNAL_ERROR.
func (m *CompileMetrics) RecordLoadError(ctx context.Context, err error) {
	if m == nil || err == nil {
		return
	}
	ne := errors.AsNetworkError(err)
	m.loadErrors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrErrorCode, string(ne.Code))))
}
