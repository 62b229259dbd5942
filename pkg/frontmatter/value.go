// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

// Package frontmatter parses the restricted structured-data dialect used in the
// header of network documents and splits documents into header and body.
package frontmatter

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Map is an insertion-ordered mapping from keys to values.
type Map = orderedmap.OrderedMap[string, Value]

// NewMap returns an empty Map.
func NewMap() *Map {
	return orderedmap.New[string, Value]()
}

// Value is a node of the parsed header tree: a scalar, a list of scalars or a
// nested map.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	list    []Value
	m       *orderedmap.OrderedMap[string, Value]
}

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric scalar.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// List returns a list value holding a copy of items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value{}, items...)}
}

// MapValue wraps m as a Value. A nil map is replaced by an empty one.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Kind reports which kind of value v holds.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is a string, number or boolean.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber || v.kind == KindBool
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload and whether v is a number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) { return v.boolean, v.kind == KindBool }

// Items returns the list payload and whether v is a list.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Fields returns the map payload and whether v is a map.
func (v Value) Fields() (*Map, bool) { return v.m, v.kind == KindMap }

// Interface converts v to plain Go values: string, float64, bool, []any or
// map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.boolean
	case KindList:
		out := make([]any, 0, len(v.list))
		for _, item := range v.list {
			out = append(out, item.Interface())
		}
		return out
	case KindMap:
		return ToPlain(v.m)
	default:
		return nil
	}
}

// GoString renders scalars the way they would be written in a header.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// ToPlain converts m to a map[string]any suitable for generic decoders.
func ToPlain(m *Map) map[string]any {
	out := make(map[string]any)
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value.Interface()
	}
	return out
}
