// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package network defines the validated records of an agent network (manifest,
// agents, skills) and loads them from a directory of front-matter documents.
package network

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Wildcard in an agent's skill list grants every skill in the network.
const Wildcard = "*"

// Variant selects which provider model tier an agent runs on.
type Variant string

const (
	VariantHigh   Variant = "high"
	VariantMedium Variant = "medium"
	VariantLow    Variant = "low"
)

// Valid reports whether v names a known tier.
func (v Variant) Valid() bool {
	switch v {
	case VariantHigh, VariantMedium, VariantLow:
		return true
	}
	return false
}

// SkillType distinguishes self-contained skills from tool-server backed ones.
type SkillType string

const (
	SkillBuiltin SkillType = "builtin"
	SkillMCP     SkillType = "mcp"
)

// Valid reports whether t is a known skill type.
func (t SkillType) Valid() bool {
	return t == SkillBuiltin || t == SkillMCP
}

// ProviderPreset maps each tier to a concrete model identifier.
type ProviderPreset struct {
	High   string `json:"high" jsonschema:"required" jsonschema_description:"Model for high-reasoning tasks"`
	Medium string `json:"medium" jsonschema:"required" jsonschema_description:"Model for medium-complexity tasks"`
	Low    string `json:"low" jsonschema:"required" jsonschema_description:"Model for simple or fast tasks"`
}

// Model returns the model identifier configured for v. Unknown tiers fall
// back to the low tier.
func (p ProviderPreset) Model(v Variant) string {
	switch v {
	case VariantHigh:
		return p.High
	case VariantMedium:
		return p.Medium
	default:
		return p.Low
	}
}

// Defaults holds network-wide default settings.
type Defaults struct {
	Temperature float64 `json:"temperature" jsonschema:"minimum=0,maximum=2,default=0.1"`
}

// Manifest is the top-level network document.
type Manifest struct {
	Name      string                    `json:"name" jsonschema:"required" jsonschema_description:"Network name"`
	Version   string                    `json:"version" jsonschema:"required" jsonschema_description:"Network version"`
	Defaults  Defaults                  `json:"defaults"`
	Providers map[string]ProviderPreset `json:"providers" jsonschema:"required" jsonschema_description:"Provider-specific model mappings"`

	Content string `json:"-"`
	Path    string `json:"-"`
}

// Agent is a role in the network with its delegation and skill permissions.
type Agent struct {
	Name               string   `json:"name" jsonschema:"required,pattern=^[a-z0-9-]+$" jsonschema_description:"Unique agent identifier"`
	Primary            bool     `json:"primary" jsonschema:"default=false"`
	Role               string   `json:"role" jsonschema:"required" jsonschema_description:"Short role description"`
	Description        string   `json:"description" jsonschema:"required"`
	Delegates          []string `json:"delegates" jsonschema_description:"Agent ids this agent can delegate to"`
	Skills             []string `json:"skills" jsonschema_description:"Skill ids this agent can use, or * for all"`
	Variant            Variant  `json:"variant" jsonschema:"enum=high,enum=medium,enum=low,default=low"`
	DefaultModel       string   `json:"defaultModel" jsonschema:"required"`
	DefaultTemperature float64  `json:"defaultTemperature" jsonschema:"minimum=0,maximum=2,default=0.1"`
	Capabilities       []string `json:"capabilities"`
	Constraints        []string `json:"constraints"`
	Triggers           []string `json:"triggers"`
	DelegationHints    []string `json:"delegationHints"`
	DelegationNote     string   `json:"delegationNote,omitempty"`

	Content string `json:"-"`
	Path    string `json:"-"`
}

// UsesAllSkills reports whether the agent's skill list contains the wildcard.
func (a Agent) UsesAllSkills() bool {
	for _, s := range a.Skills {
		if s == Wildcard {
			return true
		}
	}
	return false
}

// MCPConfig describes how a tool server would be launched. It is declarative
// only; nothing in this module starts the process.
type MCPConfig struct {
	Command string   `json:"command,omitempty" jsonschema_description:"Command to run the server"`
	Package string   `json:"package,omitempty" jsonschema_description:"Package to run with a package runner"`
	Args    []string `json:"args" jsonschema_description:"Arguments passed to the command"`
}

// Launchable reports whether c names a command or a package.
func (c *MCPConfig) Launchable() bool {
	return c != nil && (c.Command != "" || c.Package != "")
}

// Skill is a capability agents may be granted.
type Skill struct {
	Name        string     `json:"name" jsonschema:"required,pattern=^[a-z0-9-]+$" jsonschema_description:"Unique skill identifier"`
	Description string     `json:"description" jsonschema:"required"`
	Type        SkillType  `json:"type" jsonschema:"enum=mcp,enum=builtin,default=builtin"`
	MCP         *MCPConfig `json:"mcp,omitempty" jsonschema_description:"Launch configuration, required when type is mcp"`

	Content string `json:"-"`
	Path    string `json:"-"`
}

// HasLaunchConfig reports whether the skill carries a usable launch block.
func (s Skill) HasLaunchConfig() bool {
	return s.MCP.Launchable()
}

// AgentMap holds agents keyed by declared name in load order.
type AgentMap = orderedmap.OrderedMap[string, Agent]

// SkillMap holds skills keyed by declared name in load order.
type SkillMap = orderedmap.OrderedMap[string, Skill]

// NewAgentMap returns an empty AgentMap.
func NewAgentMap() *AgentMap { return orderedmap.New[string, Agent]() }

// NewSkillMap returns an empty SkillMap.
func NewSkillMap() *SkillMap { return orderedmap.New[string, Skill]() }

// Keys returns the keys of m in insertion order.
func Keys[V any](m *orderedmap.OrderedMap[string, V]) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Documents is everything read from a network directory before linking.
type Documents struct {
	Manifest Manifest
	Agents   *AgentMap
	Skills   *SkillMap
}
