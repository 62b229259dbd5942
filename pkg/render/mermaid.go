// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns a linked network into diagrams, summaries, exports,
// delegation blurbs and per-provider agent definitions. Every function here
// assumes a successfully compiled network and does not revalidate it.
package render

import (
	"fmt"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
)

const skillPrefix = "skill_"

// Mermaid renders the network as a top-down Mermaid flowchart. Primary agents
// use the double-bracket node shape, skills are circles, and delegation and
// usage edges are labelled.
func Mermaid(net *compiler.Network) string {
	lines := []string{"graph TD"}

	for pair := net.Agents.Oldest(); pair != nil; pair = pair.Next() {
		label := pair.Value.Role
		if label == "" {
			label = pair.Key
		}
		if pair.Value.Primary {
			lines = append(lines, fmt.Sprintf(`    %s[["%s"]]`, pair.Key, label))
		} else {
			lines = append(lines, fmt.Sprintf(`    %s["%s"]`, pair.Key, label))
		}
	}
	lines = append(lines, "")

	for pair := net.Skills.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, fmt.Sprintf(`    %s%s(("%s"))`, skillPrefix, pair.Key, pair.Key))
	}
	lines = append(lines, "")

	for pair := net.Delegations.Oldest(); pair != nil; pair = pair.Next() {
		for _, target := range pair.Value {
			lines = append(lines, fmt.Sprintf("    %s -->|delegates| %s", pair.Key, target))
		}
	}
	lines = append(lines, "")

	for pair := net.SkillUsage.Oldest(); pair != nil; pair = pair.Next() {
		for _, skill := range pair.Value {
			lines = append(lines, fmt.Sprintf("    %s -.->|uses| %s%s", pair.Key, skillPrefix, skill))
		}
	}
	lines = append(lines, "")

	lines = append(lines,
		"    %% Styling",
		"    classDef primary fill:#f9f,stroke:#333,stroke-width:2px",
		"    classDef subagent fill:#bbf,stroke:#333",
		"    classDef skill fill:#bfb,stroke:#393,stroke-dasharray: 5 5",
	)
	for pair := net.Agents.Oldest(); pair != nil; pair = pair.Next() {
		class := "subagent"
		if pair.Value.Primary {
			class = "primary"
		}
		lines = append(lines, fmt.Sprintf("    class %s %s", pair.Key, class))
	}
	for pair := net.Skills.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, fmt.Sprintf("    class %s%s skill", skillPrefix, pair.Key))
	}

	return strings.Join(lines, "\n")
}
