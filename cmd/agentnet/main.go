// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jllopis/agentnet/pkg/compiler"
	"github.com/jllopis/agentnet/pkg/config"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
	"github.com/jllopis/agentnet/pkg/network"
	"github.com/jllopis/agentnet/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootFlags struct {
	ConfigPath string
	Profile    string
	Sets       []string
	JSON       bool
	LogLevel   string
}

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	flags    rootFlags
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *telemetry.CompileMetrics
	shutdown telemetry.ShutdownFunc
	out      io.Writer
	errOut   io.Writer
}

// exitError reports a failure that has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCommand(os.Stdout, os.Stderr)
	err := root.ExecuteContext(ctx)
	a.close(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr, a.flags.JSON))
}

// exitCode prints err unless it was already reported and maps it to a
// process exit status.
func exitCode(err error, w io.Writer, asJSON bool) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		cliErr.Print(w, asJSON)
		return 1
	}
	PrintSimpleError(w, err, asJSON)
	return 1
}

// newRootCommand builds the command tree. The caller runs app.close once the
// command returns, whatever the outcome, so telemetry is flushed.
func newRootCommand(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{out: stdout, errOut: stderr}

	root := &cobra.Command{
		Use:   "agentnet",
		Short: "Agent network compiler",
		Long: "agentnet loads a directory of agent, skill and manifest documents, " +
			"links their references and renders the resulting network.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "Path to config file")
	pf.StringVar(&a.flags.Profile, "profile", "", "Config profile overlay (config.<profile>.yaml)")
	pf.StringArrayVar(&a.flags.Sets, "set", nil, "Override a config key (key=value), repeatable")
	pf.BoolVar(&a.flags.JSON, "json", false, "Print machine-readable JSON")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newValidateCommand(a),
		newGraphCommand(a),
		newSummaryCommand(a),
		newCyclesCommand(a),
		newAgentsCommand(a),
		newBlurbCommand(a),
		newSchemaCommand(a),
		newHistoryCommand(a),
		newVersionCommand(a),
	)
	return root, a
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.LoadWith(config.Options{
		Path:    a.flags.ConfigPath,
		Profile: a.flags.Profile,
		Sets:    a.flags.Sets,
	})
	if err != nil {
		return NewConfigError(err, a.flags.ConfigPath)
	}
	if a.flags.LogLevel != "" {
		if _, err := telemetry.ParseLogLevel(a.flags.LogLevel); err != nil {
			return NewInvalidArgumentError("--log-level", err.Error())
		}
		cfg.Log.Level = a.flags.LogLevel
	}
	a.cfg = cfg
	a.logger = telemetry.ConfigureSlog(a.errOut, cfg.Log.Level, cfg.Log.Format)

	if !cfg.Telemetry.Enabled {
		return nil
	}
	shutdown, err := telemetry.InitWithConfig(cfg.Telemetry.ServiceName, version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
		OTLPHeaders:  cfg.Telemetry.OTLPHeaders,
		Writer:       a.errOut,
	})
	if err != nil {
		return NewConfigError(fmt.Errorf("telemetry: %w", err), a.flags.ConfigPath)
	}
	a.shutdown = shutdown
	metrics, err := telemetry.NewCompileMetrics(ctx)
	if err != nil {
		a.logger.Warn("compile metrics disabled", "error", err)
		return nil
	}
	a.metrics = metrics
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", "error", err)
	}
	a.shutdown = nil
}

// networkDir picks the directory argument at index i, or the configured
// default.
func (a *app) networkDir(args []string, i int) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return a.cfg.Network.Dir
}

// compile loads and links the network in dir inside a span, recording
// metrics for the outcome. The error is a load failure; link problems are in
// the Result.
func (a *app) compile(ctx context.Context, dir string) (compiler.Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "agentnet.compile",
		trace.WithAttributes(attribute.String(telemetry.AttrNetworkDir, dir)))
	defer span.End()

	start := time.Now()
	result, err := compiler.CompileDir(dir,
		network.WithExtensions(a.cfg.Network.Extensions...),
		network.WithLogger(a.logger),
	)
	elapsed := time.Since(start)

	if err != nil {
		ne := kerrors.AsNetworkError(err)
		span.SetAttributes(telemetry.LoadErrorAttributes(string(ne.Code), ne.Path)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, ne.Message)
		a.metrics.RecordLoadError(ctx, err)
		a.metrics.RecordCompile(ctx, telemetry.OutcomeLoadError, elapsed)
		a.logger.DebugContext(ctx, "network load failed", "dir", dir, "code", ne.Code, "error", err)
		return result, err
	}

	if !result.OK() {
		span.SetAttributes(telemetry.CompileAttributes(telemetry.OutcomeInvalid, len(result.Diagnostics), 0)...)
		span.SetStatus(codes.Error, "link failed")
		for _, d := range result.Diagnostics {
			a.metrics.RecordDiagnostic(ctx, string(d.Kind))
		}
		a.metrics.RecordCompile(ctx, telemetry.OutcomeInvalid, elapsed)
		a.logger.DebugContext(ctx, "network link failed", "dir", dir, "diagnostics", len(result.Diagnostics))
		return result, nil
	}

	net := result.Network
	span.SetAttributes(telemetry.NetworkAttributes(dir, net.Manifest.Name, net.Manifest.Version,
		net.Agents.Len(), net.Skills.Len())...)
	span.SetAttributes(telemetry.CompileAttributes(telemetry.OutcomeOK, 0, 0)...)
	a.metrics.RecordCompile(ctx, telemetry.OutcomeOK, elapsed)
	a.logger.DebugContext(ctx, "network linked", "dir", dir, "name", net.Manifest.Name,
		"agents", net.Agents.Len(), "skills", net.Skills.Len())
	return result, nil
}

// linked compiles dir and turns both failure modes into errors for commands
// that need a usable network. Link failures are printed like validate does.
func (a *app) linked(ctx context.Context, dir string) (*compiler.Network, error) {
	result, err := a.compile(ctx, dir)
	if err != nil {
		return nil, WrapLoadError(err)
	}
	if !result.OK() {
		a.printDiagnostics(dir, result.Diagnostics)
		return nil, &exitError{code: 1}
	}
	return result.Network, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agentnet version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.flags.JSON {
				return a.printJSON(map[string]string{"version": version})
			}
			fmt.Fprintf(a.out, "agentnet %s\n", version)
			return nil
		},
	}
}
