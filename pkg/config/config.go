// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads agentnet CLI settings from defaults, an optional YAML
// file (plus profile overlay), AGENTNET_* environment variables and --set
// overrides, in increasing order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AGENTNET_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Network   NetworkConfig   `koanf:"network"`
	Graph     GraphConfig     `koanf:"graph"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Audit     AuditConfig     `koanf:"audit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// NetworkConfig locates the network to compile.
type NetworkConfig struct {
	Dir        string   `koanf:"dir"`
	Extensions []string `koanf:"extensions"`
	Provider   string   `koanf:"provider"` // default preset for `agents`
}

type GraphConfig struct {
	Output string `koanf:"output"` // mermaid, dot, json, yaml
}

type TelemetryConfig struct {
	Enabled      bool              `koanf:"enabled"`
	Exporter     string            `koanf:"exporter"` // stdout, otlp, none
	ServiceName  string            `koanf:"service_name"`
	OTLPEndpoint string            `koanf:"otlp_endpoint"`
	OTLPInsecure bool              `koanf:"otlp_insecure"`
	OTLPHeaders  map[string]string `koanf:"otlp_headers"`
}

// AuditConfig enables the validation-run log when Path is set.
type AuditConfig struct {
	Path string `koanf:"path"` // sqlite file; empty disables the audit log
}

// Options are the CLI-level inputs to configuration loading.
type Options struct {
	Path    string
	Profile string
	Sets    []string // key=value, value parsed as JSON when possible
}

// Global k instance
var k = koanf.New(".")

// LoadWith applies every configuration layer described by opts.
func LoadWith(opts Options) (*Config, error) {
	k = koanf.New(".")
	setDefaults()

	// 1. Load from file, then the profile overlay
	if opts.Path != "" {
		if err := k.Load(file.Provider(opts.Path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", opts.Path, err)
		}
		if overlay := profileConfigPath(opts.Path, opts.Profile); overlay != "" {
			if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load profile config %s: %w", overlay, err)
			}
		}
	}

	// 2. Load from ENV (AGENTNET_NETWORK_DIR -> network.dir)
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	// 3. --set overrides
	for _, raw := range opts.Sets {
		key, value, err := parseSet(raw)
		if err != nil {
			return nil, err
		}
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("apply --set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	k.Set("network.dir", ".")
	k.Set("network.extensions", []string{".md"})
	k.Set("network.provider", "")

	k.Set("graph.output", "mermaid")

	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("telemetry.service_name", "agentnet")
	k.Set("telemetry.otlp_endpoint", "localhost:4317")
	k.Set("telemetry.otlp_insecure", true)

	k.Set("audit.path", "")
}

// envKey maps AGENTNET_TELEMETRY_OTLP_ENDPOINT to telemetry.otlp_endpoint:
// only the first underscore separates the section from the field.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
}

// Validate rejects settings the CLI cannot act on.
func (c *Config) Validate() error {
	switch c.Graph.Output {
	case "mermaid", "dot", "json", "yaml":
	default:
		return fmt.Errorf("invalid graph.output %q: use mermaid, dot, json or yaml", c.Graph.Output)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: use text or json", c.Log.Format)
	}
	switch c.Telemetry.Exporter {
	case "stdout", "otlp", "none":
	default:
		return fmt.Errorf("invalid telemetry.exporter %q: use stdout, otlp or none", c.Telemetry.Exporter)
	}
	return nil
}

// profileConfigPath returns the overlay for profile next to base, or "" when
// there is none on disk.
func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	ext := filepath.Ext(base)
	candidate := strings.TrimSuffix(base, ext) + "." + profile + ext
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

// parseSet splits key=value. Values that parse as JSON (numbers, booleans,
// arrays, objects) keep their type; anything else is a string.
func parseSet(raw string) (string, any, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid --set %q: expected key=value", raw)
	}
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		return key, parsed, nil
	}
	return key, value, nil
}
