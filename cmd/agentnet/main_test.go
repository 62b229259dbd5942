// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jllopis/agentnet/pkg/audit"
	"github.com/jllopis/agentnet/pkg/render"
	nettest "github.com/jllopis/agentnet/pkg/testing"
)

// writeNetwork lays out orchestrator -> helper, with helper using the given
// skill and delegating to the given agents.
func writeNetwork(t *testing.T, helperSkill string, helperDelegates ...string) string {
	t.Helper()
	return nettest.NewFixture("acme-net").
		WithProvider("acme", "m1", "m2", "m3").
		WithAgent(nettest.Agent{
			Name:         "orchestrator",
			Primary:      true,
			Role:         "Lead",
			Description:  "Coordinates",
			DefaultModel: "m1",
			Variant:      "high",
			Delegates:    []string{"helper"},
			Body:         "Team:\n{{DELEGATES_BLURB}}\n",
		}).
		WithAgent(nettest.Agent{
			Name:           "helper",
			Role:           "Helper",
			Description:    "Helps",
			DefaultModel:   "m3",
			DelegationNote: "Does the legwork",
			Delegates:      helperDelegates,
			Skills:         []string{helperSkill},
			Body:           "Help out.\n",
		}).
		WithSkill(nettest.Skill{Name: "search", Description: "Searches"}).
		Write(t)
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root, a := newRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	a.close(context.Background())
	code := exitCode(err, &stderr, a.flags.JSON)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestValidateSuccess(t *testing.T) {
	dir := writeNetwork(t, "search")
	res := runCLI(t, "validate", dir)
	if res.code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", res.code, res.stderr)
	}
	for _, want := range []string{"✓ acme-net network is valid", "  Agents: 2", "  Skills: 1"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, res.stdout)
		}
	}
}

func TestValidateLinkFailure(t *testing.T) {
	dir := writeNetwork(t, "nonexistent")
	res := runCLI(t, "validate", dir)
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	if !strings.Contains(res.stderr, "✗ "+dir+" network has errors:") {
		t.Fatalf("missing header in:\n%s", res.stderr)
	}
	want := "  - Agent 'helper' requires skill 'nonexistent', but 'nonexistent' is not defined."
	if !strings.Contains(res.stderr, want) {
		t.Fatalf("missing diagnostic in:\n%s", res.stderr)
	}
}

func TestValidateLoadFailure(t *testing.T) {
	dir := t.TempDir()
	res := runCLI(t, "validate", dir)
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	if !strings.Contains(res.stderr, "✗ failed to parse "+filepath.Join(dir, "manifest.md")+": manifest file not found") {
		t.Fatalf("unexpected fatal line:\n%s", res.stderr)
	}
	if !strings.Contains(res.stderr, "Hint:") {
		t.Fatalf("expected a hint:\n%s", res.stderr)
	}
}

func TestValidateStrictReportsCycles(t *testing.T) {
	dir := writeNetwork(t, "search", "orchestrator")
	if res := runCLI(t, "validate", dir); res.code != 0 {
		t.Fatalf("cycles are allowed without --strict: %s", res.stderr)
	}
	res := runCLI(t, "validate", "--strict", dir)
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	if !strings.Contains(res.stderr, "Delegation cycle detected: orchestrator -> helper -> orchestrator.") {
		t.Fatalf("missing cycle diagnostic:\n%s", res.stderr)
	}
}

func TestValidateJSON(t *testing.T) {
	dir := writeNetwork(t, "nonexistent")
	res := runCLI(t, "--json", "validate", dir)
	if res.code != 1 {
		t.Fatalf("expected exit 1, got %d", res.code)
	}
	var out validateResult
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.stdout)
	}
	if out.Valid || len(out.Diagnostics) != 1 || out.Diagnostics[0].Target != "nonexistent" {
		t.Fatalf("unexpected report %+v", out)
	}
}

func TestValidateRecordsHistory(t *testing.T) {
	dir := writeNetwork(t, "search")
	bad := writeNetwork(t, "nonexistent")
	auditPath := filepath.Join(t.TempDir(), "audit.db")
	set := "audit.path=" + auditPath

	runCLI(t, "--set", set, "validate", dir)
	runCLI(t, "--set", set, "validate", bad)

	res := runCLI(t, "--set", set, "--json", "history")
	if res.code != 0 {
		t.Fatalf("history failed: %s", res.stderr)
	}
	var runs []audit.Run
	if err := json.Unmarshal([]byte(res.stdout), &runs); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.stdout)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Outcome != audit.OutcomeInvalid || runs[1].Outcome != audit.OutcomeValid {
		t.Fatalf("expected newest first, got %s then %s", runs[0].Outcome, runs[1].Outcome)
	}
	if runs[1].Network != "acme-net" || runs[1].Agents != 2 {
		t.Fatalf("unexpected valid run %+v", runs[1])
	}

	res = runCLI(t, "--set", set, "history", "--limit", "1")
	if res.code != 0 || !strings.Contains(res.stdout, "invalid") || strings.Contains(res.stdout, "acme-net") {
		t.Fatalf("unexpected table:\n%s", res.stdout)
	}
}

func TestHistoryRequiresAuditPath(t *testing.T) {
	res := runCLI(t, "history")
	if res.code != 1 || !strings.Contains(res.stderr, "audit.path") {
		t.Fatalf("expected audit.path hint, got %d:\n%s", res.code, res.stderr)
	}
}

func TestGraph(t *testing.T) {
	dir := writeNetwork(t, "search")
	cases := map[string]string{
		"mermaid": "graph TD",
		"dot":     "digraph",
		"json":    `"name": "acme-net"`,
		"yaml":    "name: acme-net",
	}
	for format, want := range cases {
		t.Run(format, func(t *testing.T) {
			res := runCLI(t, "graph", dir, "--output", format)
			if res.code != 0 {
				t.Fatalf("exit %d: %s", res.code, res.stderr)
			}
			if !strings.Contains(res.stdout, want) {
				t.Fatalf("expected %q in:\n%s", want, res.stdout)
			}
		})
	}

	res := runCLI(t, "--set", "graph.output=dot", "graph", dir)
	if !strings.Contains(res.stdout, "digraph") {
		t.Fatalf("expected configured dot output:\n%s", res.stdout)
	}
}

func TestGraphUnknownOutput(t *testing.T) {
	dir := writeNetwork(t, "search")
	res := runCLI(t, "graph", dir, "--output", "svg")
	if res.code != 1 || !strings.Contains(res.stderr, "unknown output format") {
		t.Fatalf("expected invalid output error, got %d:\n%s", res.code, res.stderr)
	}
}

func TestSummary(t *testing.T) {
	dir := writeNetwork(t, "search")
	res := runCLI(t, "summary", dir)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "acme-net") || !strings.Contains(res.stdout, "orchestrator") {
		t.Fatalf("unexpected summary:\n%s", res.stdout)
	}
}

func TestCycles(t *testing.T) {
	dir := writeNetwork(t, "search", "orchestrator")
	res := runCLI(t, "--json", "cycles", dir, "--unique")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	var cycles [][]string
	if err := json.Unmarshal([]byte(res.stdout), &cycles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cycles) != 1 || strings.Join(cycles[0], ",") != "orchestrator,helper,orchestrator" {
		t.Fatalf("unexpected cycles %v", cycles)
	}

	res = runCLI(t, "cycles", writeNetwork(t, "search"))
	if !strings.Contains(res.stdout, "no delegation cycles") {
		t.Fatalf("unexpected output:\n%s", res.stdout)
	}
}

func TestAgents(t *testing.T) {
	dir := writeNetwork(t, "search")
	res := runCLI(t, "agents", dir)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	var defs []render.AgentDefinition
	if err := json.Unmarshal([]byte(res.stdout), &defs); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.stdout)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	lead := defs[0]
	if lead.Name != "orchestrator" || lead.Config.Model != "m1" || lead.Config.Mode != render.ModePrimary {
		t.Fatalf("unexpected lead definition %+v", lead)
	}
	if !strings.Contains(lead.Config.Prompt, "@helper") || !strings.Contains(lead.Config.Prompt, "- About: Does the legwork") {
		t.Fatalf("blurb not expanded:\n%s", lead.Config.Prompt)
	}
	if defs[1].Config.Model != "m3" || defs[1].Config.Mode != render.ModeSubagent {
		t.Fatalf("unexpected helper definition %+v", defs[1])
	}

	res = runCLI(t, "agents", dir, "--provider", "other")
	if res.code != 1 || !strings.Contains(res.stderr, "unknown provider") {
		t.Fatalf("expected unknown provider error, got %d:\n%s", res.code, res.stderr)
	}
}

func TestBlurb(t *testing.T) {
	dir := writeNetwork(t, "search")
	res := runCLI(t, "blurb", "orchestrator", dir)
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	if !strings.HasPrefix(res.stdout, "@helper\n- About: Does the legwork\n- Role: Helper\n") {
		t.Fatalf("unexpected blurb:\n%s", res.stdout)
	}

	res = runCLI(t, "blurb", "ghost", dir)
	if res.code != 1 || !strings.Contains(res.stderr, "agent 'ghost' not found") {
		t.Fatalf("expected not found, got %d:\n%s", res.code, res.stderr)
	}
}

func TestSchema(t *testing.T) {
	res := runCLI(t, "schema", "skill")
	if res.code != 0 {
		t.Fatalf("exit %d: %s", res.code, res.stderr)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &schema); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := schema["properties"]; !ok {
		t.Fatalf("expected properties in schema: %s", res.stdout)
	}

	if res := runCLI(t, "schema", "widget"); res.code != 1 {
		t.Fatalf("expected failure for unknown kind")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	res := runCLI(t, "--log-level", "loud", "version")
	if res.code != 1 || !strings.Contains(res.stderr, "unknown log level") {
		t.Fatalf("expected log level error, got %d:\n%s", res.code, res.stderr)
	}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "version")
	if res.code != 0 || strings.TrimSpace(res.stdout) != "agentnet "+version {
		t.Fatalf("unexpected version output %q", res.stdout)
	}
}
