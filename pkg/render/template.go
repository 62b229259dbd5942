// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"regexp"
	"strings"

	"github.com/jllopis/agentnet/pkg/compiler"
)

// DelegatesBlurbKey is the placeholder expanded with an agent's delegation
// blurb when building agent definitions.
const DelegatesBlurbKey = "DELEGATES_BLURB"

var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Substitute replaces every {{KEY}} token whose KEY is present in vars.
// Unknown tokens are left untouched and substituted text is not scanned
// again, so a value containing a token is inserted verbatim.
func Substitute(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[2 : len(token)-2]
		if v, ok := vars[key]; ok {
			return v
		}
		return token
	})
}

// DelegatesBlurb describes each agent that agentID may delegate to, one block
// per delegate separated by a blank line. Ids that do not resolve are skipped.
func DelegatesBlurb(net *compiler.Network, agentID string) string {
	agent, ok := net.Agents.Get(agentID)
	if !ok {
		return ""
	}

	var blocks []string
	for _, id := range agent.Delegates {
		d, ok := net.Agents.Get(id)
		if !ok {
			continue
		}
		lines := []string{"@" + d.Name}
		if d.DelegationNote != "" {
			lines = append(lines, "- About: "+d.DelegationNote)
		}
		lines = append(lines,
			"- Role: "+d.Role,
			"- Capabilities: "+strings.Join(d.Capabilities, "; "),
			"- Tools/Constraints: "+strings.Join(d.Constraints, "; "),
			"- Triggers: "+quoteAll(d.Triggers),
			"- Delegate to @"+d.Name+" when you need things such as:",
		)
		for _, hint := range d.DelegationHints {
			lines = append(lines, "  * "+hint)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return strings.Join(quoted, ", ")
}
