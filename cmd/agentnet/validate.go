// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/jllopis/agentnet/pkg/audit"
	"github.com/jllopis/agentnet/pkg/compiler"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
	"github.com/spf13/cobra"
)

type validateResult struct {
	Dir         string                `json:"dir"`
	Valid       bool                  `json:"valid"`
	Network     string                `json:"network,omitempty"`
	Version     string                `json:"version,omitempty"`
	Agents      int                   `json:"agents"`
	Skills      int                   `json:"skills"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics"`
	Error       *kerrors.NetworkError `json:"error,omitempty"`
}

func newValidateCommand(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Load and link a network, reporting every problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.Context(), a.networkDir(args, 0), strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat delegation cycles as errors")
	return cmd
}

func (a *app) runValidate(ctx context.Context, dir string, strict bool) error {
	run := audit.NewRun(dir)
	result, loadErr := a.compile(ctx, dir)
	if loadErr == nil && strict && result.OK() {
		cycles := compiler.UniqueCycles(compiler.DetectCycles(result.Network.Delegations))
		if len(cycles) > 0 {
			result = compiler.Result{Diagnostics: compiler.CycleDiagnostics(cycles)}
		}
	}
	run.Finish(result, loadErr)
	a.recordRun(ctx, run)

	out := validateResult{
		Dir:         dir,
		Valid:       loadErr == nil && result.OK(),
		Diagnostics: []compiler.Diagnostic{},
	}
	switch {
	case loadErr != nil:
		out.Error = kerrors.AsNetworkError(loadErr)
	case result.OK():
		net := result.Network
		out.Network = net.Manifest.Name
		out.Version = net.Manifest.Version
		out.Agents = net.Agents.Len()
		out.Skills = net.Skills.Len()
	default:
		out.Diagnostics = result.Diagnostics
	}

	if a.flags.JSON {
		if err := a.printJSON(out); err != nil {
			return err
		}
		if !out.Valid {
			return &exitError{code: 1}
		}
		return nil
	}

	switch {
	case loadErr != nil:
		WrapLoadError(loadErr).Print(a.errOut, false)
		return &exitError{code: 1}
	case !result.OK():
		a.printDiagnostics(dir, result.Diagnostics)
		return &exitError{code: 1}
	}
	fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf("%s %s network is valid", okMark, out.Network)))
	fmt.Fprintf(a.out, "  Agents: %d\n", out.Agents)
	fmt.Fprintf(a.out, "  Skills: %d\n", out.Skills)
	return nil
}

func (a *app) printDiagnostics(dir string, diags []compiler.Diagnostic) {
	fmt.Fprintln(a.errOut, errorStyle.Render(fmt.Sprintf("%s %s network has errors:", failMark, dir)))
	for _, d := range diags {
		fmt.Fprintf(a.errOut, "  - %s\n", d.Message)
	}
}

// recordRun appends run to the audit log when one is configured. Audit
// failures are logged and never change the command outcome.
func (a *app) recordRun(ctx context.Context, run audit.Run) {
	if a.cfg.Audit.Path == "" {
		return
	}
	store, err := audit.Open(a.cfg.Audit.Path)
	if err != nil {
		a.logger.WarnContext(ctx, "audit log unavailable", "path", a.cfg.Audit.Path, "error", err)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, run); err != nil {
		a.logger.WarnContext(ctx, "audit record failed", "run_id", run.ID, "error", err)
	}
}
