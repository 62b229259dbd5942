// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
	"github.com/jllopis/agentnet/pkg/network"
)

// Summary renders a line-oriented overview: identity, counts, then every
// agent and every skill.
func Summary(net *compiler.Network) string {
	lines := []string{
		fmt.Sprintf("Network: %s v%s", net.Manifest.Name, net.Manifest.Version),
		fmt.Sprintf("Agents: %d", net.Agents.Len()),
		fmt.Sprintf("Skills: %d", net.Skills.Len()),
		"",
		"Agents:",
	}

	for pair := net.Agents.Oldest(); pair != nil; pair = pair.Next() {
		agent := pair.Value
		marker := "•"
		if agent.Primary {
			marker = "★"
		}
		lines = append(lines, fmt.Sprintf("  %s %s (%s)", marker, pair.Key, agent.Variant))
		if len(agent.Delegates) > 0 {
			lines = append(lines, "      delegates: "+strings.Join(agent.Delegates, ", "))
		}
		if len(agent.Skills) > 0 {
			lines = append(lines, "      skills: "+strings.Join(agent.Skills, ", "))
		}
	}

	lines = append(lines, "", "Skills:")
	for pair := net.Skills.Oldest(); pair != nil; pair = pair.Next() {
		kind := "[builtin]"
		if pair.Value.Type == network.SkillMCP {
			kind = "[MCP]"
		}
		lines = append(lines, fmt.Sprintf("  • %s %s", pair.Key, kind))
	}

	return strings.Join(lines, "\n")
}
