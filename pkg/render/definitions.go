// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
	kerrors "github.com/jllopis/agentnet/pkg/errors"
)

const (
	ModePrimary  = "primary"
	ModeSubagent = "subagent"
)

// AgentConfig is the runtime configuration derived for one agent.
type AgentConfig struct {
	Model       string            `json:"model" yaml:"model"`
	Temperature float64           `json:"temperature" yaml:"temperature"`
	Prompt      string            `json:"prompt" yaml:"prompt"`
	Mode        string            `json:"mode" yaml:"mode"`
	Permission  map[string]string `json:"permission,omitempty" yaml:"permission,omitempty"`
}

// AgentDefinition pairs an agent with the configuration a runtime needs to
// start it against one provider.
type AgentDefinition struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Config      AgentConfig `json:"config" yaml:"config"`
}

// AgentDefinitions builds one definition per agent, in agent order, using the
// named provider preset to pick each agent's model. Prompts have their
// {{DELEGATES_BLURB}} placeholder expanded. Primary agents may ask the user
// questions.
func AgentDefinitions(net *compiler.Network, provider string) ([]AgentDefinition, error) {
	preset, ok := net.Manifest.Providers[provider]
	if !ok {
		known := make([]string, 0, len(net.Manifest.Providers))
		for id := range net.Manifest.Providers {
			known = append(known, id)
		}
		sort.Strings(known)
		return nil, kerrors.New(kerrors.CodeNotFound, fmt.Sprintf("unknown provider %q", provider), nil).
			WithContext("provider", provider).
			WithContext("known", known)
	}

	defs := make([]AgentDefinition, 0, net.Agents.Len())
	for pair := net.Agents.Oldest(); pair != nil; pair = pair.Next() {
		agent := pair.Value
		prompt := agent.Content
		if strings.Contains(prompt, "{{"+DelegatesBlurbKey+"}}") {
			prompt = Substitute(prompt, map[string]string{
				DelegatesBlurbKey: DelegatesBlurb(net, pair.Key),
			})
		}
		cfg := AgentConfig{
			Model:       preset.Model(agent.Variant),
			Temperature: agent.DefaultTemperature,
			Prompt:      prompt,
			Mode:        ModeSubagent,
		}
		if agent.Primary {
			cfg.Mode = ModePrimary
			cfg.Permission = map[string]string{"question": "allow"}
		}
		defs = append(defs, AgentDefinition{
			Name:        agent.Name,
			Description: agent.Description,
			Config:      cfg,
		})
	}
	return defs, nil
}
