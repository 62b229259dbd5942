// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
)

const testManifest = `---
name: acme-net
version: "1.0.0"
providers:
  acme:
    high: m1
    medium: m2
    low: m3
---
The acme network.
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func agentDoc(name string, extra string) string {
	return "---\nname: " + name + "\nrole: " + name + " role\ndescription: " + name +
		" description\ndefaultModel: m3\n" + extra + "---\nPrompt for " + name + ".\n"
}

func writeNetwork(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifest.md"), testManifest)
	writeFile(t, filepath.Join(dir, "agents", "orchestrator.md"),
		agentDoc("orchestrator", "primary: true\ndelegates:\n  - helper\n"))
	writeFile(t, filepath.Join(dir, "agents", "helper.md"),
		agentDoc("helper", "skills: [search]\n"))
	writeFile(t, filepath.Join(dir, "skills", "search.md"),
		"---\nname: search\ndescription: Searches\ntype: builtin\n---\nSearch well.\n")
	return dir
}

func requireCode(t *testing.T, err error, code kerrors.ErrorCode) *kerrors.NetworkError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !kerrors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
	return kerrors.AsNetworkError(err)
}

func TestLoadNetwork(t *testing.T) {
	dir := writeNetwork(t)
	docs, err := LoadNetwork(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if docs.Manifest.Name != "acme-net" || docs.Manifest.Content != "The acme network." {
		t.Fatalf("unexpected manifest: %+v", docs.Manifest)
	}
	if docs.Manifest.Path != filepath.Join(dir, "manifest.md") {
		t.Fatalf("unexpected manifest path %q", docs.Manifest.Path)
	}
	// lexical file order: helper.md before orchestrator.md
	if diff := cmp.Diff([]string{"helper", "orchestrator"}, Keys(docs.Agents)); diff != "" {
		t.Fatalf("agent order (-want +got):\n%s", diff)
	}
	helper, _ := docs.Agents.Get("helper")
	if helper.Content != "Prompt for helper." {
		t.Fatalf("unexpected body %q", helper.Content)
	}
	if diff := cmp.Diff([]string{"search"}, Keys(docs.Skills)); diff != "" {
		t.Fatalf("skills (-want +got):\n%s", diff)
	}
}

func TestLoadManifestNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadManifest(dir)
	ne := requireCode(t, err, kerrors.CodeNotFound)
	if ne.Path != filepath.Join(dir, "manifest.md") {
		t.Fatalf("unexpected path %q", ne.Path)
	}
}

func TestLoadAgentsDirectoryNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifest.md"), testManifest)
	_, err := LoadNetwork(dir)
	ne := requireCode(t, err, kerrors.CodeNotFound)
	if !strings.HasSuffix(ne.Path, "agents") {
		t.Fatalf("expected agents path, got %q", ne.Path)
	}
}

func TestLoadSkillsDirectoryOptional(t *testing.T) {
	skills, err := LoadSkills(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if skills.Len() != 0 {
		t.Fatalf("expected no skills, got %d", skills.Len())
	}
}

func TestLoadMissingDelimiters(t *testing.T) {
	dir := writeNetwork(t)
	bad := filepath.Join(dir, "agents", "broken.md")
	writeFile(t, bad, "name: broken\n")
	_, err := LoadAgents(dir)
	ne := requireCode(t, err, kerrors.CodeMissingDelimiters)
	if ne.Path != bad {
		t.Fatalf("unexpected path %q", ne.Path)
	}
	if !strings.Contains(err.Error(), "failed to parse "+bad) {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLoadSchemaErrorAbortsLoad(t *testing.T) {
	dir := writeNetwork(t)
	bad := filepath.Join(dir, "skills", "browser.md")
	writeFile(t, bad, "---\nname: browser\ndescription: Browser\ntype: mcp\n---\n")
	_, err := LoadNetwork(dir)
	ne := requireCode(t, err, kerrors.CodeSchema)
	if ne.Path != bad {
		t.Fatalf("unexpected path %q", ne.Path)
	}
	want := []string{"mcp: skill 'browser' is type 'mcp' but has no mcp configuration"}
	if diff := cmp.Diff(want, ne.Issues); diff != "" {
		t.Fatalf("issues (-want +got):\n%s", diff)
	}
}

func TestLoadSchemaErrorNamesDeclaredSkill(t *testing.T) {
	dir := writeNetwork(t)
	bad := filepath.Join(dir, "skills", "tool.md")
	writeFile(t, bad, "---\nname: web-browser\ndescription: Browser\ntype: mcp\n---\n")
	_, err := LoadNetwork(dir)
	ne := requireCode(t, err, kerrors.CodeSchema)
	if ne.Path != bad {
		t.Fatalf("unexpected path %q", ne.Path)
	}
	if !strings.Contains(err.Error(), "web-browser") {
		t.Fatalf("expected skill name in %q", err.Error())
	}
	if got := ne.Context["name"]; got != "web-browser" {
		t.Fatalf("unexpected name context %v", got)
	}
	if got := ne.Context["kind"]; got != string(KindSkill) {
		t.Fatalf("unexpected kind context %v", got)
	}
}

func TestLoadSkillsNameCollisionLastWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "skills", "a.md"),
		"---\nname: search\ndescription: First\ntype: builtin\n---\n")
	writeFile(t, filepath.Join(dir, "skills", "b.md"),
		"---\nname: fetch\ndescription: Fetch\ntype: builtin\n---\n")
	writeFile(t, filepath.Join(dir, "skills", "c.md"),
		"---\nname: search\ndescription: Second\ntype: builtin\n---\n")

	var buf bytes.Buffer
	loader := NewLoader(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	skills, err := loader.LoadSkills(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"search", "fetch"}, Keys(skills)); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	search, _ := skills.Get("search")
	if filepath.Base(search.Path) != "c.md" || search.Description != "Second" {
		t.Fatalf("expected later file to win, got %+v", search)
	}
	if !strings.Contains(buf.String(), "duplicate skill name") {
		t.Fatalf("expected collision warning, got %q", buf.String())
	}
}

func TestLoadAgentsNameCollisionLastWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "agents", "a.md"), agentDoc("alpha", ""))
	writeFile(t, filepath.Join(dir, "agents", "b.md"), agentDoc("beta", ""))
	writeFile(t, filepath.Join(dir, "agents", "c.md"), agentDoc("alpha", "variant: high\n"))

	var buf bytes.Buffer
	loader := NewLoader(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	agents, err := loader.LoadAgents(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, Keys(agents)); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}
	alpha, _ := agents.Get("alpha")
	if filepath.Base(alpha.Path) != "c.md" || alpha.Variant != VariantHigh {
		t.Fatalf("expected later file to win, got %+v", alpha)
	}
	if !strings.Contains(buf.String(), "duplicate agent name") {
		t.Fatalf("expected collision warning, got %q", buf.String())
	}
}

func TestLoaderExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "manifest.markdown"), testManifest)
	writeFile(t, filepath.Join(dir, "agents", "one.markdown"), agentDoc("one", ""))
	writeFile(t, filepath.Join(dir, "agents", "two.md"), agentDoc("two", ""))
	writeFile(t, filepath.Join(dir, "agents", "notes.txt"), "not a document")

	loader := NewLoader(WithExtensions("markdown", ".md"))
	docs, err := loader.LoadNetwork(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, Keys(docs.Agents)); diff != "" {
		t.Fatalf("keys (-want +got):\n%s", diff)
	}

	defaults, err := LoadAgents(dir)
	if err != nil {
		t.Fatalf("load with defaults: %v", err)
	}
	if diff := cmp.Diff([]string{"two"}, Keys(defaults)); diff != "" {
		t.Fatalf("default keys (-want +got):\n%s", diff)
	}
}
