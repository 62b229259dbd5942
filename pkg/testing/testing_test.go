// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jllopis/agentnet/pkg/compiler"
	"github.com/jllopis/agentnet/pkg/errors"
	"github.com/jllopis/agentnet/pkg/network"
)

func TestFixtureCompiles(t *testing.T) {
	dir := NewFixture("acme-net").
		WithProvider("acme", "m1", "m2", "m3").
		WithAgent(Agent{Name: "lead", Primary: true, Delegates: []string{"helper"}, Skills: []string{"*"}}).
		WithAgent(Agent{Name: "helper", Variant: "high", DelegationNote: "Helps out"}).
		WithSkill(Skill{Name: "search"}).
		WithSkill(Skill{Name: "browser", Command: "browser-server", Args: []string{"--headless"}}).
		Write(t)

	result, err := compiler.CompileDir(dir)
	a := NewAssertions(t)
	a.AssertNoError(err, "compile dir")
	a.AssertLinked(result, "fixture network")
	if a.Failed() {
		t.FailNow()
	}

	net := result.Network
	if net.Manifest.Name != "acme-net" || net.Manifest.Version != "1.0.0" {
		t.Fatalf("unexpected manifest %+v", net.Manifest)
	}
	helper, _ := net.Agents.Get("helper")
	if helper.Variant != network.VariantHigh || helper.DelegationNote != "Helps out" {
		t.Fatalf("unexpected helper %+v", helper)
	}
	browser, _ := net.Skills.Get("browser")
	if browser.Type != network.SkillMCP || browser.MCP == nil || browser.MCP.Args[0] != "--headless" {
		t.Fatalf("unexpected browser skill %+v", browser)
	}
	usage, _ := net.SkillUsage.Get("lead")
	if len(usage) != 2 {
		t.Fatalf("expected wildcard to expand to both skills, got %v", usage)
	}
}

func TestFixtureDiagnostics(t *testing.T) {
	dir := NewFixture("broken").
		WithProvider("acme", "m1", "m2", "m3").
		WithAgent(Agent{Name: "lead", Delegates: []string{"ghost"}, Skills: []string{"nope"}}).
		Write(t)

	result, err := compiler.CompileDir(dir)
	a := NewAssertions(t)
	a.AssertNoError(err, "compile dir")
	a.AssertDiagnostics(result, "broken network", compiler.MissingAgent, compiler.MissingSkill)
}

func TestFixtureRawFile(t *testing.T) {
	dir := NewFixture("raw").
		WithProvider("acme", "m1", "m2", "m3").
		WithFile("agents/bad.md", "no front matter\n").
		Write(t)

	if _, err := os.Stat(filepath.Join(dir, "skills")); !os.IsNotExist(err) {
		t.Fatalf("skills dir should not exist without skills")
	}
	_, err := compiler.CompileDir(dir)
	NewAssertions(t).AssertErrorCode(err, errors.CodeMissingDelimiters, "raw file")
}
