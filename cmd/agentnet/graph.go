// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
	"github.com/jllopis/agentnet/pkg/render"
	"github.com/jllopis/agentnet/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

type graphResult struct {
	Format  string `json:"format"`
	Content string `json:"content"`
	Network string `json:"network"`
	Agents  int    `json:"agents"`
	Skills  int    `json:"skills"`
}

func newGraphCommand(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Render the delegation and skill graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output") {
				output = a.cfg.Graph.Output
			}
			ctx, span := telemetry.Tracer().Start(cmd.Context(), "agentnet.graph",
				trace.WithAttributes(telemetry.OutputAttributes(output, "")...))
			defer span.End()

			net, err := a.linked(ctx, a.networkDir(args, 0))
			if err != nil {
				return err
			}
			content, err := renderGraph(net, output)
			if err != nil {
				return err
			}

			if a.flags.JSON {
				return a.printJSON(graphResult{
					Format:  output,
					Content: content,
					Network: net.Manifest.Name,
					Agents:  net.Agents.Len(),
					Skills:  net.Skills.Len(),
				})
			}
			fmt.Fprint(a.out, content)
			if !strings.HasSuffix(content, "\n") {
				fmt.Fprintln(a.out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "mermaid", "Output format: mermaid, dot, json, yaml")
	return cmd
}

func renderGraph(net *compiler.Network, format string) (string, error) {
	switch format {
	case "mermaid":
		return render.Mermaid(net), nil
	case "dot":
		return render.DOT(net), nil
	case "json":
		raw, err := render.ExportJSON(net)
		return string(raw), err
	case "yaml":
		raw, err := render.ExportYAML(net)
		return string(raw), err
	default:
		return "", NewInvalidArgumentError("--output",
			fmt.Sprintf("unknown output format %q; use mermaid, dot, json or yaml", format))
	}
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [dir]",
		Short: "Print a readable overview of the network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := a.linked(cmd.Context(), a.networkDir(args, 0))
			if err != nil {
				return err
			}
			if a.flags.JSON {
				return a.printJSON(render.NewExport(net))
			}
			fmt.Fprintln(a.out, render.Summary(net))
			return nil
		},
	}
}

func newCyclesCommand(a *app) *cobra.Command {
	var unique bool
	cmd := &cobra.Command{
		Use:   "cycles [dir]",
		Short: "List delegation cycles",
		Long: "List every delegation cycle as a path that ends where it starts. " +
			"Cycles are reported once per closing edge unless --unique is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := a.linked(cmd.Context(), a.networkDir(args, 0))
			if err != nil {
				return err
			}
			cycles := compiler.DetectCycles(net.Delegations)
			if unique {
				cycles = compiler.UniqueCycles(cycles)
			}

			if a.flags.JSON {
				if cycles == nil {
					cycles = [][]string{}
				}
				return a.printJSON(cycles)
			}
			if len(cycles) == 0 {
				fmt.Fprintln(a.out, successStyle.Render(okMark+" no delegation cycles"))
				return nil
			}
			fmt.Fprintln(a.out, warnStyle.Render(fmt.Sprintf("%d delegation cycle(s):", len(cycles))))
			for _, c := range cycles {
				fmt.Fprintf(a.out, "  %s\n", strings.Join(c, " -> "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&unique, "unique", false, "Report each cycle once regardless of rotation")
	return cmd
}
