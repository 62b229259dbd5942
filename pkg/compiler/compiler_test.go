// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
	"github.com/jllopis/agentnet/pkg/network"
)

func testManifest() network.Manifest {
	return network.Manifest{
		Name:     "acme-net",
		Version:  "1.0.0",
		Defaults: network.Defaults{Temperature: 0.1},
		Providers: map[string]network.ProviderPreset{
			"acme": {High: "m1", Medium: "m2", Low: "m3"},
		},
	}
}

func testAgent(name string, primary bool, delegates, skills []string) network.Agent {
	return network.Agent{
		Name:         name,
		Primary:      primary,
		Role:         name + " role",
		Description:  name + " description",
		Delegates:    delegates,
		Skills:       skills,
		Variant:      network.VariantLow,
		DefaultModel: "m3",
	}
}

// acmeNetwork is the orchestrator/helper/search network.
func acmeNetwork(helperSkills ...string) (*network.AgentMap, *network.SkillMap) {
	agents := network.NewAgentMap()
	agents.Set("orchestrator", testAgent("orchestrator", true, []string{"helper"}, []string{}))
	agents.Set("helper", testAgent("helper", false, []string{}, helperSkills))
	skills := network.NewSkillMap()
	skills.Set("search", network.Skill{Name: "search", Description: "Searches", Type: network.SkillBuiltin})
	return agents, skills
}

func graphMap(g *Graph) map[string][]string {
	out := make(map[string][]string)
	for pair := g.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

func TestCompileSuccess(t *testing.T) {
	agents, skills := acmeNetwork("search")
	result := Compile(testManifest(), agents, skills)
	if !result.OK() {
		t.Fatalf("expected success, got %v", result.Diagnostics)
	}
	net := result.Network
	wantDelegations := map[string][]string{"orchestrator": {"helper"}, "helper": {}}
	if diff := cmp.Diff(wantDelegations, graphMap(net.Delegations)); diff != "" {
		t.Fatalf("delegations (-want +got):\n%s", diff)
	}
	wantUsage := map[string][]string{"orchestrator": {}, "helper": {"search"}}
	if diff := cmp.Diff(wantUsage, graphMap(net.SkillUsage)); diff != "" {
		t.Fatalf("skill usage (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"orchestrator", "helper"}, network.Keys(net.Delegations)); diff != "" {
		t.Fatalf("graph order (-want +got):\n%s", diff)
	}
}

func TestCompileMissingSkill(t *testing.T) {
	agents, skills := acmeNetwork("nonexistent")
	result := Compile(testManifest(), agents, skills)
	if result.OK() || result.Network != nil {
		t.Fatalf("expected failure without a network")
	}
	want := []Diagnostic{{
		Kind:    MissingSkill,
		Message: "Agent 'helper' requires skill 'nonexistent', but 'nonexistent' is not defined.",
		Source:  "helper",
		Target:  "nonexistent",
	}}
	if diff := cmp.Diff(want, result.Diagnostics); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestCompileAccumulatesInOrder(t *testing.T) {
	agents := network.NewAgentMap()
	agents.Set("a", testAgent("a", true, []string{"ghost"}, []string{"nope", "*"}))
	agents.Set("b", testAgent("b", false, []string{"a", "phantom"}, []string{}))
	skills := network.NewSkillMap()
	skills.Set("browser", network.Skill{Name: "browser", Type: network.SkillMCP})
	skills.Set("local", network.Skill{
		Name: "local",
		Type: network.SkillMCP,
		MCP:  &network.MCPConfig{Command: "local-server"},
	})

	result := Compile(testManifest(), agents, skills)
	var got []Diagnostic
	for _, d := range result.Diagnostics {
		got = append(got, Diagnostic{Kind: d.Kind, Source: d.Source, Target: d.Target})
	}
	want := []Diagnostic{
		{Kind: MissingAgent, Source: "a", Target: "ghost"},
		{Kind: MissingSkill, Source: "a", Target: "nope"},
		{Kind: MissingAgent, Source: "b", Target: "phantom"},
		{Kind: SchemaError, Source: "browser"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	last := result.Diagnostics[len(result.Diagnostics)-1]
	if last.Message != "Skill 'browser' is type 'mcp' but has no mcp configuration." {
		t.Fatalf("unexpected schema message %q", last.Message)
	}
	if result.Diagnostics[0].Message != "Agent 'a' delegates to 'ghost', but 'ghost' does not exist." {
		t.Fatalf("unexpected delegate message %q", result.Diagnostics[0].Message)
	}
}

func TestCompileWildcardExpandsInSkillOrder(t *testing.T) {
	agents := network.NewAgentMap()
	agents.Set("all", testAgent("all", true, []string{}, []string{network.Wildcard}))
	skills := network.NewSkillMap()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		skills.Set(name, network.Skill{Name: name, Type: network.SkillBuiltin})
	}
	result := Compile(testManifest(), agents, skills)
	if !result.OK() {
		t.Fatalf("compile: %v", result.Diagnostics)
	}
	got, _ := result.Network.SkillUsage.Get("all")
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, got); diff != "" {
		t.Fatalf("wildcard expansion (-want +got):\n%s", diff)
	}
}

func TestCompileIsPure(t *testing.T) {
	agents, skills := acmeNetwork("search")
	first := Compile(testManifest(), agents, skills)
	second := Compile(testManifest(), agents, skills)
	if diff := cmp.Diff(graphMap(first.Network.Delegations), graphMap(second.Network.Delegations)); diff != "" {
		t.Fatalf("delegations differ:\n%s", diff)
	}
	if diff := cmp.Diff(graphMap(first.Network.SkillUsage), graphMap(second.Network.SkillUsage)); diff != "" {
		t.Fatalf("skill usage differs:\n%s", diff)
	}

	delegates, _ := first.Network.Delegations.Get("orchestrator")
	delegates[0] = "mutated"
	orchestrator, _ := agents.Get("orchestrator")
	if orchestrator.Delegates[0] != "helper" {
		t.Fatalf("graph must not alias the agent's delegate list")
	}
}

func TestCompileNilMaps(t *testing.T) {
	result := Compile(testManifest(), nil, nil)
	if !result.OK() {
		t.Fatalf("expected empty network to link, got %v", result.Diagnostics)
	}
	if result.Network.Delegations.Len() != 0 {
		t.Fatalf("expected empty graph")
	}
}

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, filepath.Join(dir, "manifest.md"), `---
name: acme-net
version: "1.0.0"
providers:
  acme:
    high: m1
    medium: m2
    low: m3
---
`)
	writeDoc(t, filepath.Join(dir, "agents", "orchestrator.md"), `---
name: orchestrator
primary: true
role: Lead
description: Coordinates
defaultModel: m1
delegates:
  - helper
---
Lead the team.
`)
	writeDoc(t, filepath.Join(dir, "agents", "helper.md"), `---
name: helper
role: Helper
description: Helps
defaultModel: m3
skills: [search]
---
Help out.
`)
	writeDoc(t, filepath.Join(dir, "skills", "search.md"), `---
name: search
description: Searches
---
`)

	result, err := CompileDir(dir)
	if err != nil {
		t.Fatalf("compile dir: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected success, got %v", result.Diagnostics)
	}
	wantUsage := map[string][]string{"orchestrator": {}, "helper": {"search"}}
	if diff := cmp.Diff(wantUsage, graphMap(result.Network.SkillUsage)); diff != "" {
		t.Fatalf("skill usage (-want +got):\n%s", diff)
	}

	if err := os.RemoveAll(filepath.Join(dir, "agents")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := CompileDir(dir); !kerrors.HasCode(err, kerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND load error, got %v", err)
	}
}
