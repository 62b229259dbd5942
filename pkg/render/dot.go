// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
)

// DOT renders the network as a Graphviz digraph. Primary agents are filled,
// skills are dashed ellipses.
func DOT(net *compiler.Network) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", net.Manifest.Name)
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n")

	for pair := net.Agents.Oldest(); pair != nil; pair = pair.Next() {
		label := pair.Value.Role
		if label == "" {
			label = pair.Key
		}
		attrs := fmt.Sprintf("label=%q", label)
		if pair.Value.Primary {
			attrs += `, style="rounded,filled", fillcolor="#ff99ff"`
		}
		fmt.Fprintf(&sb, "    %q [%s];\n", pair.Key, attrs)
	}
	for pair := net.Skills.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&sb, "    %q [label=%q, shape=ellipse, style=dashed];\n", skillPrefix+pair.Key, pair.Key)
	}

	for pair := net.Delegations.Oldest(); pair != nil; pair = pair.Next() {
		for _, target := range pair.Value {
			fmt.Fprintf(&sb, "    %q -> %q [label=\"delegates\"];\n", pair.Key, target)
		}
	}
	for pair := net.SkillUsage.Oldest(); pair != nil; pair = pair.Next() {
		for _, skill := range pair.Value {
			fmt.Fprintf(&sb, "    %q -> %q [label=\"uses\", style=dashed];\n", pair.Key, skillPrefix+skill)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
