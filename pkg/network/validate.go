// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jllopis/agentnet/pkg/frontmatter"
)

// DocumentKind names one of the three network document types.
type DocumentKind string

const (
	KindManifest DocumentKind = "manifest"
	KindAgent    DocumentKind = "agent"
	KindSkill    DocumentKind = "skill"
)

const (
	defaultTemperature = 0.1
	minTemperature     = 0.0
	maxTemperature     = 2.0
)

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidationError lists every problem found in a single document header.
// Name is the declared name, empty when the header did not carry one.
type ValidationError struct {
	Kind   DocumentKind
	Name   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(e.Issues, "; "))
}

type rawDefaults struct {
	Temperature *float64 `mapstructure:"temperature"`
}

type rawPreset struct {
	High   *string `mapstructure:"high"`
	Medium *string `mapstructure:"medium"`
	Low    *string `mapstructure:"low"`
}

type rawManifest struct {
	Name      *string              `mapstructure:"name"`
	Version   *string              `mapstructure:"version"`
	Defaults  *rawDefaults         `mapstructure:"defaults"`
	Providers map[string]rawPreset `mapstructure:"providers"`
}

type rawAgent struct {
	Name               *string  `mapstructure:"name"`
	Primary            *bool    `mapstructure:"primary"`
	Role               *string  `mapstructure:"role"`
	Description        *string  `mapstructure:"description"`
	Delegates          []string `mapstructure:"delegates"`
	Skills             []string `mapstructure:"skills"`
	Variant            *string  `mapstructure:"variant"`
	DefaultModel       *string  `mapstructure:"defaultModel"`
	DefaultTemperature *float64 `mapstructure:"defaultTemperature"`
	Capabilities       []string `mapstructure:"capabilities"`
	Constraints        []string `mapstructure:"constraints"`
	Triggers           []string `mapstructure:"triggers"`
	DelegationHints    []string `mapstructure:"delegationHints"`
	DelegationNote     *string  `mapstructure:"delegationNote"`
}

type rawMCP struct {
	Command *string  `mapstructure:"command"`
	Package *string  `mapstructure:"package"`
	Args    []string `mapstructure:"args"`
}

type rawSkill struct {
	Name        *string `mapstructure:"name"`
	Description *string `mapstructure:"description"`
	Type        *string `mapstructure:"type"`
	MCP         *rawMCP `mapstructure:"mcp"`
}

// issues accumulates validation problems for one document.
type issues struct {
	plain map[string]any
	list  []string
}

func (is *issues) addf(field, format string, args ...any) {
	is.list = append(is.list, field+": "+fmt.Sprintf(format, args...))
}

// has reports whether the nested key path exists in the source header.
func (is *issues) has(path ...string) bool {
	var cur any = is.plain
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		if cur, ok = m[key]; !ok {
			return false
		}
	}
	return true
}

func (is *issues) require(path ...string) {
	if !is.has(path...) {
		is.addf(strings.Join(path, "."), "required")
	}
}

func (is *issues) checkName(path string, name *string, what string) {
	if name != nil && !namePattern.MatchString(*name) {
		is.addf(path, "%s name must be lowercase alphanumeric with dashes", what)
	}
}

func (is *issues) checkTemperature(path string, t *float64) {
	if t != nil && (*t < minTemperature || *t > maxTemperature) {
		is.addf(path, "must be between %g and %g", minTemperature, maxTemperature)
	}
}

func (is *issues) err(kind DocumentKind, name string) error {
	if len(is.list) == 0 {
		return nil
	}
	return &ValidationError{Kind: kind, Name: name, Issues: is.list}
}

// decode runs a strict mapstructure decode of the header into out and records
// every field that has the wrong type.
func decode(header *frontmatter.Map, out any) *issues {
	is := &issues{plain: frontmatter.ToPlain(header)}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(emptyMapAsList),
		Result:     out,
	})
	if err != nil {
		is.list = append(is.list, err.Error())
		return is
	}
	if err := decoder.Decode(is.plain); err != nil {
		is.list = append(is.list, decodeIssues(err)...)
	}
	return is
}

// emptyMapAsList lets a bare `key:` stand for an empty list: the header parser
// keeps such keys as empty maps when no items follow.
func emptyMapAsList(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map || to.Kind() != reflect.Slice {
		return data, nil
	}
	if m, ok := data.(map[string]any); ok && len(m) == 0 {
		return []any{}, nil
	}
	return data, nil
}

// decodeIssues flattens a mapstructure error into one entry per field.
func decodeIssues(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "error(s) decoding") || strings.HasPrefix(line, "decoding failed") {
			continue
		}
		out = append(out, strings.TrimPrefix(line, "* "))
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}

// DecodeManifest validates a manifest header and applies defaults.
func DecodeManifest(header *frontmatter.Map) (Manifest, error) {
	var raw rawManifest
	is := decode(header, &raw)
	is.require("name")
	is.require("version")
	is.require("providers")

	m := Manifest{
		Name:      deref(raw.Name),
		Version:   deref(raw.Version),
		Defaults:  Defaults{Temperature: defaultTemperature},
		Providers: make(map[string]ProviderPreset, len(raw.Providers)),
	}
	if raw.Defaults != nil && raw.Defaults.Temperature != nil {
		is.checkTemperature("defaults.temperature", raw.Defaults.Temperature)
		m.Defaults.Temperature = *raw.Defaults.Temperature
	}
	ids := make([]string, 0, len(raw.Providers))
	for id := range raw.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		preset := raw.Providers[id]
		for _, tier := range []string{"high", "medium", "low"} {
			is.require("providers", id, tier)
		}
		m.Providers[id] = ProviderPreset{
			High:   deref(preset.High),
			Medium: deref(preset.Medium),
			Low:    deref(preset.Low),
		}
	}
	if err := is.err(KindManifest, m.Name); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// DecodeAgent validates an agent header and applies defaults.
func DecodeAgent(header *frontmatter.Map) (Agent, error) {
	var raw rawAgent
	is := decode(header, &raw)
	is.require("name")
	is.checkName("name", raw.Name, "agent")
	is.require("role")
	is.require("description")
	is.require("defaultModel")
	is.checkTemperature("defaultTemperature", raw.DefaultTemperature)

	a := Agent{
		Name:               deref(raw.Name),
		Primary:            raw.Primary != nil && *raw.Primary,
		Role:               deref(raw.Role),
		Description:        deref(raw.Description),
		Delegates:          orEmpty(raw.Delegates),
		Skills:             orEmpty(raw.Skills),
		Variant:            VariantLow,
		DefaultModel:       deref(raw.DefaultModel),
		DefaultTemperature: defaultTemperature,
		Capabilities:       orEmpty(raw.Capabilities),
		Constraints:        orEmpty(raw.Constraints),
		Triggers:           orEmpty(raw.Triggers),
		DelegationHints:    orEmpty(raw.DelegationHints),
		DelegationNote:     deref(raw.DelegationNote),
	}
	if raw.Variant != nil {
		a.Variant = Variant(*raw.Variant)
		if !a.Variant.Valid() {
			is.addf("variant", "must be one of high, medium, low")
		}
	}
	if raw.DefaultTemperature != nil {
		a.DefaultTemperature = *raw.DefaultTemperature
	}
	if err := is.err(KindAgent, a.Name); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// DecodeSkill validates a skill header and applies defaults. A skill typed
// mcp must carry a launch block naming a command or a package.
func DecodeSkill(header *frontmatter.Map) (Skill, error) {
	var raw rawSkill
	is := decode(header, &raw)
	is.require("name")
	is.checkName("name", raw.Name, "skill")
	is.require("description")

	s := Skill{
		Name:        deref(raw.Name),
		Description: deref(raw.Description),
		Type:        SkillBuiltin,
	}
	if raw.Type != nil {
		s.Type = SkillType(*raw.Type)
		if !s.Type.Valid() {
			is.addf("type", "must be one of mcp, builtin")
		}
	}
	if raw.MCP != nil {
		s.MCP = &MCPConfig{
			Command: deref(raw.MCP.Command),
			Package: deref(raw.MCP.Package),
			Args:    orEmpty(raw.MCP.Args),
		}
		if !s.MCP.Launchable() {
			is.addf("mcp.command", "either command or package must be provided")
		}
	} else if s.Type == SkillMCP && !is.has("mcp") {
		if s.Name != "" {
			is.addf("mcp", "skill '%s' is type 'mcp' but has no mcp configuration", s.Name)
		} else {
			is.addf("mcp", "required when type is mcp")
		}
	}
	if err := is.err(KindSkill, s.Name); err != nil {
		return Skill{}, err
	}
	return s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
