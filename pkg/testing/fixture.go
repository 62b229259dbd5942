// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package testing provides utilities for testing code that consumes agent
// networks.
//
// This package includes:
//   - A fixture builder that writes a network directory for a test
//   - Assertion helpers for load errors and link diagnostics
//
// Example usage:
//
//	dir := testing.NewFixture("acme-net").
//	    WithProvider("acme", "m1", "m2", "m3").
//	    WithAgent(testing.Agent{Name: "lead", Primary: true, Delegates: []string{"helper"}}).
//	    WithAgent(testing.Agent{Name: "helper"}).
//	    Write(t)
package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Agent describes an agent document. Empty Role, Description and
// DefaultModel get placeholder values so the document validates.
type Agent struct {
	Name           string
	Primary        bool
	Role           string
	Description    string
	DefaultModel   string
	Variant        string
	Delegates      []string
	Skills         []string
	DelegationNote string
	Body           string
}

// Skill describes a skill document. A non-empty Command makes it an mcp
// skill.
type Skill struct {
	Name        string
	Description string
	Command     string
	Args        []string
	Body        string
}

type provider struct {
	high, medium, low string
}

// Fixture builds a network directory.
type Fixture struct {
	name      string
	version   string
	providers map[string]provider
	agents    []Agent
	skills    []Skill
	files     map[string]string
}

// NewFixture starts a network with the given manifest name and version 1.0.0.
func NewFixture(name string) *Fixture {
	return &Fixture{
		name:      name,
		version:   "1.0.0",
		providers: make(map[string]provider),
		files:     make(map[string]string),
	}
}

// WithVersion sets the manifest version.
func (f *Fixture) WithVersion(version string) *Fixture {
	f.version = version
	return f
}

// WithProvider adds a provider preset.
func (f *Fixture) WithProvider(id, high, medium, low string) *Fixture {
	f.providers[id] = provider{high: high, medium: medium, low: low}
	return f
}

// WithAgent adds an agent document, written as agents/<name>.md.
func (f *Fixture) WithAgent(a Agent) *Fixture {
	f.agents = append(f.agents, a)
	return f
}

// WithSkill adds a skill document, written as skills/<name>.md.
func (f *Fixture) WithSkill(s Skill) *Fixture {
	f.skills = append(f.skills, s)
	return f
}

// WithFile adds a raw file relative to the network root. It overrides any
// generated document at the same path.
func (f *Fixture) WithFile(rel, content string) *Fixture {
	f.files[filepath.FromSlash(rel)] = content
	return f
}

// Write lays the network out under a fresh t.TempDir and returns its path.
func (f *Fixture) Write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{"manifest.md": f.manifest()}
	if err := os.MkdirAll(filepath.Join(dir, "agents"), 0o755); err != nil {
		t.Fatalf("mkdir agents: %v", err)
	}
	for _, a := range f.agents {
		files[filepath.Join("agents", a.Name+".md")] = agentDocument(a)
	}
	for _, s := range f.skills {
		files[filepath.Join("skills", s.Name+".md")] = skillDocument(s)
	}
	for rel, content := range f.files {
		files[rel] = content
	}

	for rel, content := range files {
		WriteFile(t, filepath.Join(dir, rel), content)
	}
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func (f *Fixture) manifest() string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "name: %s\n", f.name)
	fmt.Fprintf(&sb, "version: %q\n", f.version)
	sb.WriteString("providers:\n")
	ids := make([]string, 0, len(f.providers))
	for id := range f.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := f.providers[id]
		fmt.Fprintf(&sb, "  %s:\n    high: %s\n    medium: %s\n    low: %s\n", id, p.high, p.medium, p.low)
	}
	sb.WriteString("---\n")
	return sb.String()
}

func agentDocument(a Agent) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "name: %s\n", a.Name)
	if a.Primary {
		sb.WriteString("primary: true\n")
	}
	fmt.Fprintf(&sb, "role: %s\n", orDefault(a.Role, a.Name+" role"))
	fmt.Fprintf(&sb, "description: %s\n", orDefault(a.Description, a.Name+" description"))
	fmt.Fprintf(&sb, "defaultModel: %s\n", orDefault(a.DefaultModel, "default-model"))
	if a.Variant != "" {
		fmt.Fprintf(&sb, "variant: %s\n", a.Variant)
	}
	if a.DelegationNote != "" {
		fmt.Fprintf(&sb, "delegationNote: %s\n", a.DelegationNote)
	}
	fmt.Fprintf(&sb, "delegates: [%s]\n", strings.Join(a.Delegates, ", "))
	fmt.Fprintf(&sb, "skills: [%s]\n", quoteWildcard(a.Skills))
	sb.WriteString("---\n")
	sb.WriteString(a.Body)
	return sb.String()
}

func skillDocument(s Skill) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "name: %s\n", s.Name)
	fmt.Fprintf(&sb, "description: %s\n", orDefault(s.Description, s.Name+" skill"))
	if s.Command != "" {
		sb.WriteString("type: mcp\nmcp:\n")
		fmt.Fprintf(&sb, "  command: %s\n", s.Command)
		if len(s.Args) > 0 {
			sb.WriteString("  args:\n")
			for _, arg := range s.Args {
				fmt.Fprintf(&sb, "    - %s\n", arg)
			}
		}
	}
	sb.WriteString("---\n")
	sb.WriteString(s.Body)
	return sb.String()
}

func quoteWildcard(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		if item == "*" {
			item = `"*"`
		}
		out[i] = item
	}
	return strings.Join(out, ", ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
