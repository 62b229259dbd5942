// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jllopis/agentnet/pkg/compiler"
	"gopkg.in/yaml.v3"
)

// Export is an ordered, serialisable view of a linked network.
type Export struct {
	Name        string           `json:"name" yaml:"name"`
	Version     string           `json:"version" yaml:"version"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Temperature float64          `json:"temperature" yaml:"temperature"`
	Providers   []ProviderExport `json:"providers" yaml:"providers"`
	Agents      []AgentExport    `json:"agents" yaml:"agents"`
	Skills      []SkillExport    `json:"skills" yaml:"skills"`
}

// ProviderExport is one provider preset.
type ProviderExport struct {
	ID     string `json:"id" yaml:"id"`
	High   string `json:"high" yaml:"high"`
	Medium string `json:"medium" yaml:"medium"`
	Low    string `json:"low" yaml:"low"`
}

// AgentExport is one agent with its resolved edges.
type AgentExport struct {
	ID        string   `json:"id" yaml:"id"`
	Primary   bool     `json:"primary" yaml:"primary"`
	Role      string   `json:"role" yaml:"role"`
	Variant   string   `json:"variant" yaml:"variant"`
	Delegates []string `json:"delegates" yaml:"delegates"`
	Skills    []string `json:"skills" yaml:"skills"`
}

// SkillExport is one skill.
type SkillExport struct {
	ID          string     `json:"id" yaml:"id"`
	Type        string     `json:"type" yaml:"type"`
	Description string     `json:"description" yaml:"description"`
	Launch      *LaunchRef `json:"mcp,omitempty" yaml:"mcp,omitempty"`
}

// LaunchRef is the declared launch block of a tool-server skill.
type LaunchRef struct {
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Package string   `json:"package,omitempty" yaml:"package,omitempty"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// NewExport builds the export view. Agent skills are taken from the skill
// graph, so wildcards appear expanded.
func NewExport(net *compiler.Network) Export {
	out := Export{
		Name:        net.Manifest.Name,
		Version:     net.Manifest.Version,
		Description: net.Manifest.Content,
		Temperature: net.Manifest.Defaults.Temperature,
		Providers:   []ProviderExport{},
		Agents:      []AgentExport{},
		Skills:      []SkillExport{},
	}

	ids := make([]string, 0, len(net.Manifest.Providers))
	for id := range net.Manifest.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := net.Manifest.Providers[id]
		out.Providers = append(out.Providers, ProviderExport{ID: id, High: p.High, Medium: p.Medium, Low: p.Low})
	}

	for pair := net.Agents.Oldest(); pair != nil; pair = pair.Next() {
		delegates, _ := net.Delegations.Get(pair.Key)
		skills, _ := net.SkillUsage.Get(pair.Key)
		out.Agents = append(out.Agents, AgentExport{
			ID:        pair.Key,
			Primary:   pair.Value.Primary,
			Role:      pair.Value.Role,
			Variant:   string(pair.Value.Variant),
			Delegates: nonNil(delegates),
			Skills:    nonNil(skills),
		})
	}

	for pair := net.Skills.Oldest(); pair != nil; pair = pair.Next() {
		s := SkillExport{
			ID:          pair.Key,
			Type:        string(pair.Value.Type),
			Description: pair.Value.Description,
		}
		if mcp := pair.Value.MCP; mcp != nil {
			s.Launch = &LaunchRef{Command: mcp.Command, Package: mcp.Package, Args: mcp.Args}
		}
		out.Skills = append(out.Skills, s)
	}
	return out
}

// ExportJSON marshals the export view as indented JSON.
func ExportJSON(net *compiler.Network) ([]byte, error) {
	data, err := json.MarshalIndent(NewExport(net), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal network json: %w", err)
	}
	return data, nil
}

// ExportYAML marshals the export view as YAML.
func ExportYAML(net *compiler.Network) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewExport(net)); err != nil {
		return nil, fmt.Errorf("marshal network yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal network yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
