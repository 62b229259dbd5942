// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"
	"strings"
)

// DetectCycles walks the graph depth-first from every unvisited node, in graph
// order, and returns each cycle as a path that ends where it starts. A cycle is
// reported once per back edge that closes it, so duplicate delegate entries
// yield duplicate reports. Use UniqueCycles for a deduplicated view.
func DetectCycles(g *Graph) [][]string {
	if g == nil {
		return nil
	}
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(node string, path []string)
	visit = func(node string, path []string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		neighbours, _ := g.Get(node)
		for _, next := range neighbours {
			switch {
			case !visited[next]:
				visit(next, append([]string(nil), path...))
			case onStack[next]:
				start := indexOf(path, next)
				cycle := append(append([]string(nil), path[start:]...), next)
				cycles = append(cycles, cycle)
			}
		}
		onStack[node] = false
	}

	for pair := g.Oldest(); pair != nil; pair = pair.Next() {
		if !visited[pair.Key] {
			visit(pair.Key, nil)
		}
	}
	return cycles
}

func indexOf(path []string, id string) int {
	for i, p := range path {
		if p == id {
			return i
		}
	}
	return 0
}

// UniqueCycles drops cycles that are rotations of an earlier one. Order of
// first appearance is kept.
func UniqueCycles(cycles [][]string) [][]string {
	seen := make(map[string]bool)
	var out [][]string
	for _, c := range cycles {
		key := canonicalKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// canonicalKey rotates the open cycle so it starts at its smallest id.
func canonicalKey(cycle []string) string {
	open := cycle
	if len(open) > 1 && open[0] == open[len(open)-1] {
		open = open[:len(open)-1]
	}
	if len(open) == 0 {
		return ""
	}
	first := 0
	for i, id := range open {
		if id < open[first] {
			first = i
		}
	}
	rotated := append(append([]string(nil), open[first:]...), open[:first]...)
	return strings.Join(rotated, "\x00")
}

// CycleDiagnostics converts cycles into cycle_detected diagnostics for callers
// that treat delegation loops as errors. Source is the first id of the cycle
// and Target the id that closes it.
func CycleDiagnostics(cycles [][]string) []Diagnostic {
	out := make([]Diagnostic, 0, len(cycles))
	for _, c := range cycles {
		if len(c) == 0 {
			continue
		}
		out = append(out, Diagnostic{
			Kind:    CycleDetected,
			Message: fmt.Sprintf("Delegation cycle detected: %s.", strings.Join(c, " -> ")),
			Source:  c[0],
			Target:  c[len(c)-1],
		})
	}
	return out
}
