// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit keeps a log of validation runs: which network was checked,
// when, and with what outcome.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jllopis/agentnet/pkg/compiler"
)

// Run outcomes.
const (
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
	OutcomeLoadError = "load_error"
)

// Run is one recorded validation.
type Run struct {
	ID          string                `json:"id"`
	Dir         string                `json:"dir"`
	Network     string                `json:"network,omitempty"`
	Outcome     string                `json:"outcome"`
	Agents      int                   `json:"agents"`
	Skills      int                   `json:"skills"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
	Error       string                `json:"error,omitempty"`
	StartedAt   time.Time             `json:"startedAt"`
	FinishedAt  time.Time             `json:"finishedAt"`
}

// NewRun starts a run for dir with a fresh id.
func NewRun(dir string) Run {
	return Run{
		ID:        uuid.NewString(),
		Dir:       dir,
		StartedAt: time.Now().UTC(),
	}
}

// Finish fills the run from a compile result and stamps FinishedAt.
func (r *Run) Finish(result compiler.Result, loadErr error) {
	r.FinishedAt = time.Now().UTC()
	switch {
	case loadErr != nil:
		r.Outcome = OutcomeLoadError
		r.Error = loadErr.Error()
	case result.OK():
		r.Outcome = OutcomeValid
		net := result.Network
		r.Network = net.Manifest.Name
		r.Agents = net.Agents.Len()
		r.Skills = net.Skills.Len()
	default:
		r.Outcome = OutcomeInvalid
		r.Diagnostics = append([]compiler.Diagnostic(nil), result.Diagnostics...)
	}
}

// Store persists validation runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context, filter Filter) ([]Run, error)
	Close() error
}

// Filter limits run queries. Runs are listed newest first.
type Filter struct {
	Dir     string
	Outcome string
	Limit   int
}

func (f Filter) match(run Run) bool {
	if f.Dir != "" && run.Dir != f.Dir {
		return false
	}
	if f.Outcome != "" && run.Outcome != f.Outcome {
		return false
	}
	return true
}

// MemoryStore keeps runs in memory.
type MemoryStore struct {
	mu   sync.Mutex
	runs []Run
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends a run.
func (s *MemoryStore) Record(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.StartedAt = normalizeTime(run.StartedAt)
	run.FinishedAt = normalizeTime(run.FinishedAt)
	s.runs = append(s.runs, run)
	return nil
}

// List returns matching runs, newest first.
func (s *MemoryStore) List(_ context.Context, filter Filter) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		if !filter.match(s.runs[i]) {
			continue
		}
		out = append(out, s.runs[i])
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func encodeDiagnostics(diags []compiler.Diagnostic) (string, error) {
	if len(diags) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(diags)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeDiagnostics(raw string) ([]compiler.Diagnostic, error) {
	if raw == "" || raw == "[]" || raw == "null" {
		return nil, nil
	}
	var out []compiler.Diagnostic
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeTime(value time.Time) time.Time {
	if value.IsZero() {
		return value
	}
	return value.UTC()
}
