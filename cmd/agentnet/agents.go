// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
	"github.com/jllopis/agentnet/pkg/network"
	"github.com/jllopis/agentnet/pkg/render"
	"github.com/jllopis/agentnet/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

func newAgentsCommand(a *app) *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:   "agents [dir]",
		Short: "Print runtime agent definitions for a provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("provider") {
				provider = a.cfg.Network.Provider
			}
			net, err := a.linked(cmd.Context(), a.networkDir(args, 0))
			if err != nil {
				return err
			}
			provider, err = resolveProvider(net, provider)
			if err != nil {
				return err
			}

			_, span := telemetry.Tracer().Start(cmd.Context(), "agentnet.agents",
				trace.WithAttributes(telemetry.OutputAttributes("json", provider)...))
			defer span.End()

			defs, err := render.AgentDefinitions(net, provider)
			if err != nil {
				return NewCLIError(kerrors.AsNetworkError(err), "pick one of the providers in manifest.md")
			}
			return a.printJSON(defs)
		},
	}
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider preset from the manifest")
	return cmd
}

// resolveProvider defaults to the only provider when the manifest has one.
func resolveProvider(net *compiler.Network, provider string) (string, error) {
	if provider != "" {
		return provider, nil
	}
	ids := make([]string, 0, len(net.Manifest.Providers))
	for id := range net.Manifest.Providers {
		ids = append(ids, id)
	}
	if len(ids) == 1 {
		return ids[0], nil
	}
	sort.Strings(ids)
	err := NewInvalidArgumentError("--provider", "a provider is required when the manifest declares several")
	err.Hint = "use --provider with one of: " + strings.Join(ids, ", ")
	return "", err
}

func newBlurbCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blurb <agent> [dir]",
		Short: "Print the delegation blurb injected into an agent's prompt",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := a.linked(cmd.Context(), a.networkDir(args, 1))
			if err != nil {
				return err
			}
			id := args[0]
			if _, ok := net.Agents.Get(id); !ok {
				return NewNotFoundError("agent", id,
					"known agents: "+strings.Join(network.Keys(net.Agents), ", "))
			}
			blurb := render.DelegatesBlurb(net, id)
			if a.flags.JSON {
				return a.printJSON(map[string]string{"agent": id, "blurb": blurb})
			}
			if blurb == "" {
				fmt.Fprintln(a.out, labelStyle.Render(fmt.Sprintf("%s has no delegates", id)))
				return nil
			}
			fmt.Fprintln(a.out, blurb)
			return nil
		},
	}
}

func newSchemaCommand(a *app) *cobra.Command {
	kinds := make([]string, len(network.Kinds))
	for i, k := range network.Kinds {
		kinds[i] = string(k)
	}
	return &cobra.Command{
		Use:       "schema <" + strings.Join(kinds, "|") + ">",
		Short:     "Print the JSON Schema for a document header",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := network.JSONSchema(network.DocumentKind(args[0]))
			if err != nil {
				return NewCLIError(kerrors.AsNetworkError(err), "use one of: "+strings.Join(kinds, ", "))
			}
			return a.printJSON(schema)
		},
	}
}
