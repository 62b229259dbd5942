// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/jllopis/agentnet/pkg/errors"
	"github.com/jllopis/agentnet/pkg/frontmatter"
)

const (
	manifestBase = "manifest"
	agentsDir    = "agents"
	skillsDir    = "skills"
)

// DefaultExtensions lists the document extensions read when none are configured.
var DefaultExtensions = []string{".md"}

// Loader reads network documents from a directory. The first file that fails
// to read, extract or validate aborts the load.
type Loader struct {
	extensions []string
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithExtensions sets the file extensions considered network documents.
// Entries without a leading dot get one.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		var out []string
		for _, ext := range exts {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			out = append(out, ext)
		}
		if len(out) > 0 {
			l.extensions = out
		}
	}
}

// WithLogger sets the logger used for per-file debug output and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a Loader with the given options applied.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{extensions: append([]string(nil), DefaultExtensions...)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

// LoadManifest reads the first manifest file found for the configured
// extensions.
func (l *Loader) LoadManifest(dir string) (Manifest, error) {
	var path string
	for _, ext := range l.extensions {
		candidate := filepath.Join(dir, manifestBase+ext)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			path = candidate
			break
		}
	}
	if path == "" {
		missing := filepath.Join(dir, manifestBase+l.extensions[0])
		return Manifest{}, kerrors.New(kerrors.CodeNotFound, "manifest file not found", nil).WithPath(missing)
	}

	doc, err := readDocument(path)
	if err != nil {
		return Manifest{}, err
	}
	m, err := DecodeManifest(doc.Header)
	if err != nil {
		return Manifest{}, schemaError(path, err)
	}
	m.Content = doc.Body
	m.Path = path
	l.log().Debug("loaded manifest", "name", m.Name, "path", path)
	return m, nil
}

// LoadAgents reads every agent document under dir/agents. The directory must
// exist.
func (l *Loader) LoadAgents(dir string) (*AgentMap, error) {
	root := filepath.Join(dir, agentsDir)
	files, err := l.listDocuments(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kerrors.New(kerrors.CodeNotFound, "agents directory not found", err).WithPath(root)
		}
		return nil, kerrors.New(kerrors.CodeIO, "cannot list agents directory", err).WithPath(root)
	}

	agents := NewAgentMap()
	for _, path := range files {
		doc, err := readDocument(path)
		if err != nil {
			return nil, err
		}
		agent, err := DecodeAgent(doc.Header)
		if err != nil {
			return nil, schemaError(path, err)
		}
		agent.Content = doc.Body
		agent.Path = path
		if prev, present := agents.Set(agent.Name, agent); present {
			l.log().Warn("duplicate agent name, later file wins",
				"name", agent.Name, "path", path, "previous", prev.Path)
		}
		l.log().Debug("loaded agent", "name", agent.Name, "path", path)
	}
	return agents, nil
}

// LoadSkills reads every skill document under dir/skills. A missing
// directory yields an empty map.
func (l *Loader) LoadSkills(dir string) (*SkillMap, error) {
	root := filepath.Join(dir, skillsDir)
	skills := NewSkillMap()
	files, err := l.listDocuments(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return skills, nil
		}
		return nil, kerrors.New(kerrors.CodeIO, "cannot list skills directory", err).WithPath(root)
	}

	for _, path := range files {
		doc, err := readDocument(path)
		if err != nil {
			return nil, err
		}
		skill, err := DecodeSkill(doc.Header)
		if err != nil {
			return nil, schemaError(path, err)
		}
		skill.Content = doc.Body
		skill.Path = path
		if prev, present := skills.Set(skill.Name, skill); present {
			l.log().Warn("duplicate skill name, later file wins",
				"name", skill.Name, "path", path, "previous", prev.Path)
		}
		l.log().Debug("loaded skill", "name", skill.Name, "type", skill.Type, "path", path)
	}
	return skills, nil
}

// LoadNetwork reads the manifest, the agents and the skills, in that order.
func (l *Loader) LoadNetwork(dir string) (Documents, error) {
	manifest, err := l.LoadManifest(dir)
	if err != nil {
		return Documents{}, err
	}
	agents, err := l.LoadAgents(dir)
	if err != nil {
		return Documents{}, err
	}
	skills, err := l.LoadSkills(dir)
	if err != nil {
		return Documents{}, err
	}
	return Documents{Manifest: manifest, Agents: agents, Skills: skills}, nil
}

// listDocuments returns the regular files in root with a configured
// extension, in lexical order.
func (l *Loader) listDocuments(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: root, Err: fs.ErrNotExist}
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !l.hasExtension(entry.Name()) {
			continue
		}
		out = append(out, filepath.Join(root, entry.Name()))
	}
	return out, nil
}

func (l *Loader) hasExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range l.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func readDocument(path string) (frontmatter.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return frontmatter.Document{}, kerrors.New(kerrors.CodeIO, "cannot read file", err).WithPath(path)
	}
	doc, err := frontmatter.Extract(string(data))
	if err != nil {
		return frontmatter.Document{}, kerrors.New(kerrors.CodeMissingDelimiters, err.Error(), err).WithPath(path)
	}
	return doc, nil
}

func schemaError(path string, err error) error {
	ne := kerrors.New(kerrors.CodeSchema, "schema validation failed", err).WithPath(path)
	var verr *ValidationError
	if errors.As(err, &verr) {
		ne.WithIssues(verr.Issues...).WithContext("kind", string(verr.Kind))
		if verr.Name != "" {
			ne.WithContext("name", verr.Name)
		}
	}
	return ne
}

var defaultLoader = NewLoader()

// LoadManifest reads the manifest of dir with the default loader.
func LoadManifest(dir string) (Manifest, error) { return defaultLoader.LoadManifest(dir) }

// LoadAgents reads the agents of dir with the default loader.
func LoadAgents(dir string) (*AgentMap, error) { return defaultLoader.LoadAgents(dir) }

// LoadSkills reads the skills of dir with the default loader.
func LoadSkills(dir string) (*SkillMap, error) { return defaultLoader.LoadSkills(dir) }

// LoadNetwork reads every document of dir with the default loader.
func LoadNetwork(dir string) (Documents, error) { return defaultLoader.LoadNetwork(dir) }
