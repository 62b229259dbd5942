// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jllopis/agentnet/pkg/audit"
	"github.com/spf13/cobra"
)

func newHistoryCommand(a *app) *cobra.Command {
	var (
		limit   int
		dir     string
		outcome string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded validate runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Audit.Path == "" {
				err := NewInvalidArgumentError("audit.path", "no audit log configured")
				err.Hint = "set audit.path in the config file or pass --set audit.path=<file>"
				return err
			}
			store, err := audit.Open(a.cfg.Audit.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), audit.Filter{Dir: dir, Outcome: outcome, Limit: limit})
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			if a.flags.JSON {
				if runs == nil {
					runs = []audit.Run{}
				}
				return a.printJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(a.out, labelStyle.Render("no runs recorded"))
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tOUTCOME\tNETWORK\tAGENTS\tSKILLS\tISSUES\tDIR")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					run.StartedAt.Local().Format(time.DateTime),
					run.Outcome,
					orDash(run.Network),
					run.Agents,
					run.Skills,
					len(run.Diagnostics),
					run.Dir,
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().StringVar(&dir, "dir", "", "Only runs for this network directory")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Only runs with this outcome: valid, invalid, load_error")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
