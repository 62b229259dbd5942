// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package frontmatter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	inlineArrayPattern = regexp.MustCompile(`^([\w-]+):\s*\[([^\]]*)\]$`)
	keyValuePattern    = regexp.MustCompile(`^([\w-]+):\s*(.*)$`)
	numberPattern      = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`)
)

// scope is a map that receives keys indented deeper than indent.
type scope struct {
	fields *Map
	indent int
}

// pendingList collects "- item" lines for the most recent key opened with an
// empty value. The key is bound to an empty map until the list is committed.
type pendingList struct {
	parent *Map
	key    string
	indent int
	items  []Value
}

type parser struct {
	root    *Map
	scopes  []scope
	pending *pendingList
}

// Parse turns an indented header block into a Map. Lines it does not
// understand are ignored; Parse never fails.
func Parse(text string) *Map {
	root := NewMap()
	p := &parser{
		root:   root,
		scopes: []scope{{fields: root, indent: -1}},
	}
	for _, line := range strings.Split(text, "\n") {
		p.consume(line)
	}
	p.commit()
	return p.root
}

func (p *parser) consume(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}
	indent := len(line) - len(strings.TrimLeft(line, " \t"))

	if strings.HasPrefix(trimmed, "- ") {
		if p.pending != nil && indent > p.pending.indent {
			item := ParseScalar(strings.TrimSpace(trimmed[2:]))
			p.pending.items = append(p.pending.items, item)
		}
		return
	}

	if m := inlineArrayPattern.FindStringSubmatch(trimmed); m != nil {
		p.commit()
		p.parentFor(indent).Set(m[1], List(splitInline(m[2])...))
		return
	}

	m := keyValuePattern.FindStringSubmatch(trimmed)
	if m == nil {
		return
	}
	if p.pending != nil && indent <= p.pending.indent {
		p.commit()
	}
	parent := p.parentFor(indent)
	key, value := m[1], strings.TrimSpace(m[2])
	if value != "" {
		parent.Set(key, ParseScalar(value))
		return
	}

	p.commit()
	child := NewMap()
	parent.Set(key, MapValue(child))
	p.scopes = append(p.scopes, scope{fields: child, indent: indent})
	p.pending = &pendingList{parent: parent, key: key, indent: indent}
}

// parentFor pops scopes until the top one is indented strictly less than indent.
func (p *parser) parentFor(indent int) *Map {
	for len(p.scopes) > 1 && p.scopes[len(p.scopes)-1].indent >= indent {
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
	return p.scopes[len(p.scopes)-1].fields
}

// commit finalises the pending key: it becomes a list only if items were seen.
func (p *parser) commit() {
	if p.pending == nil {
		return
	}
	if len(p.pending.items) > 0 {
		p.pending.parent.Set(p.pending.key, List(p.pending.items...))
	}
	p.pending = nil
}

func splitInline(body string) []Value {
	var out []Value
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, ParseScalar(stripQuotes(part)))
	}
	return out
}

// stripQuotes removes at most one leading and one trailing quote character.
func stripQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// ParseScalar coerces header text to a boolean, a number or a string, in that
// order. Strings fully wrapped in matching quotes are unwrapped.
func ParseScalar(text string) Value {
	switch text {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if numberPattern.MatchString(text) {
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return Number(n)
		}
	}
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return String(text[1 : len(text)-1])
		}
	}
	return String(text)
}
