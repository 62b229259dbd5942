// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package compiler links loaded network documents: it resolves delegation and
// skill references, builds the delegation and skill-usage graphs and reports
// every broken reference at once.
package compiler

import (
	"fmt"

	"github.com/jllopis/agentnet/pkg/network"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Graph maps an agent id to an ordered list of target ids.
type Graph = orderedmap.OrderedMap[string, []string]

// NewGraph returns an empty Graph.
func NewGraph() *Graph { return orderedmap.New[string, []string]() }

// Network is a fully linked agent network. Every id in Delegations is an
// agent and every id in SkillUsage is a skill.
type Network struct {
	Manifest    network.Manifest
	Agents      *network.AgentMap
	Skills      *network.SkillMap
	Delegations *Graph
	SkillUsage  *Graph
}

// DiagnosticKind classifies a link-time problem.
type DiagnosticKind string

const (
	MissingAgent  DiagnosticKind = "missing_agent"
	MissingSkill  DiagnosticKind = "missing_skill"
	CycleDetected DiagnosticKind = "cycle_detected"
	SchemaError   DiagnosticKind = "schema_error"
)

// Diagnostic is one link-time problem. Target is empty for schema errors.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"type"`
	Message string         `json:"message"`
	Source  string         `json:"source"`
	Target  string         `json:"target,omitempty"`
}

func (d Diagnostic) String() string { return d.Message }

// Result holds either a linked Network or the diagnostics that prevented
// linking, never both.
type Result struct {
	Network     *Network
	Diagnostics []Diagnostic
}

// OK reports whether linking succeeded.
func (r Result) OK() bool { return r.Network != nil && len(r.Diagnostics) == 0 }

// Compile links the given documents. All problems are collected: agents are
// checked in map order (delegates before skills), then skills. Inputs are not
// modified and the graphs hold copies of the declared lists.
func Compile(manifest network.Manifest, agents *network.AgentMap, skills *network.SkillMap) Result {
	if agents == nil {
		agents = network.NewAgentMap()
	}
	if skills == nil {
		skills = network.NewSkillMap()
	}

	var diags []Diagnostic
	for pair := agents.Oldest(); pair != nil; pair = pair.Next() {
		id, agent := pair.Key, pair.Value
		for _, target := range agent.Delegates {
			if _, ok := agents.Get(target); !ok {
				diags = append(diags, Diagnostic{
					Kind:    MissingAgent,
					Message: fmt.Sprintf("Agent '%s' delegates to '%s', but '%s' does not exist.", id, target, target),
					Source:  id,
					Target:  target,
				})
			}
		}
		for _, target := range agent.Skills {
			if target == network.Wildcard {
				continue
			}
			if _, ok := skills.Get(target); !ok {
				diags = append(diags, Diagnostic{
					Kind:    MissingSkill,
					Message: fmt.Sprintf("Agent '%s' requires skill '%s', but '%s' is not defined.", id, target, target),
					Source:  id,
					Target:  target,
				})
			}
		}
	}
	for pair := skills.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Type == network.SkillMCP && !pair.Value.HasLaunchConfig() {
			diags = append(diags, Diagnostic{
				Kind:    SchemaError,
				Message: fmt.Sprintf("Skill '%s' is type 'mcp' but has no mcp configuration.", pair.Key),
				Source:  pair.Key,
			})
		}
	}
	if len(diags) > 0 {
		return Result{Diagnostics: diags}
	}

	allSkills := network.Keys(skills)
	delegations := NewGraph()
	usage := NewGraph()
	for pair := agents.Oldest(); pair != nil; pair = pair.Next() {
		agent := pair.Value
		delegations.Set(pair.Key, append([]string{}, agent.Delegates...))
		if agent.UsesAllSkills() {
			usage.Set(pair.Key, append([]string{}, allSkills...))
		} else {
			usage.Set(pair.Key, append([]string{}, agent.Skills...))
		}
	}

	return Result{Network: &Network{
		Manifest:    manifest,
		Agents:      agents,
		Skills:      skills,
		Delegations: delegations,
		SkillUsage:  usage,
	}}
}

// CompileDocuments links documents produced by a network.Loader.
func CompileDocuments(docs network.Documents) Result {
	return Compile(docs.Manifest, docs.Agents, docs.Skills)
}

// CompileDir loads the network in dir and links it. The error reports a load
// failure; link problems are returned in the Result.
func CompileDir(dir string, opts ...network.Option) (Result, error) {
	docs, err := network.NewLoader(opts...).LoadNetwork(dir)
	if err != nil {
		return Result{}, err
	}
	return CompileDocuments(docs), nil
}
