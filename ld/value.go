// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import "fmt"

// Kind identifies which variant of the tagged Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindSequence
	KindMapping
)

// Value is the tagged tree type used throughout the processor: null, bool,
// int, double, string, an ordered Sequence, or an insertion-order-preserving
// Mapping. It is the only shape the Expander, Compactor, Flattener,
// Canonicalizer and Framer exchange.
type Value struct {
	kind Kind
	b    bool
	i    int64
	d    float64
	s    string
	seq  []Value
	m    *Mapping
}

// Null returns the Null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double wraps a double-precision float.
func Double(d float64) Value { return Value{kind: KindDouble, d: d} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// NewSequence wraps an ordered list of values.
func NewSequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// NewMappingValue wraps a Mapping.
func NewMappingValue(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, m: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsSequence() bool { return v.kind == KindSequence }
func (v Value) IsMapping() bool  { return v.kind == KindMapping }
func (v Value) IsBool() bool     { return v.kind == KindBool }
func (v Value) IsInt() bool      { return v.kind == KindInt }
func (v Value) IsDouble() bool   { return v.kind == KindDouble }

// IsPrimitive returns true for bool/int/double/string variants.
func (v Value) IsPrimitive() bool {
	switch v.kind {
	case KindBool, KindInt, KindDouble, KindString:
		return true
	default:
		return false
	}
}

func (v Value) Bool() bool      { return v.b }
func (v Value) Int() int64      { return v.i }
func (v Value) Double() float64 { return v.d }
func (v Value) Str() string     { return v.s }

// Seq returns the underlying slice for a Sequence value (nil otherwise).
func (v Value) Seq() []Value { return v.seq }

// Map returns the underlying Mapping for a Mapping value (nil otherwise).
func (v Value) Map() *Mapping { return v.m }

// AsString renders a primitive value as a plain string, the way an
// unqualified property object is serialized. Doubles use the wire format
// required by spec section 6.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindDouble:
		return FormatDouble(v.d)
	case KindNull:
		return ""
	default:
		return ""
	}
}

// FormatDouble renders a double using the wire-required %1.6e form, e.g.
// 1.23 -> "1.230000e+00".
func FormatDouble(d float64) string {
	return fmt.Sprintf("%1.6e", d)
}

// Equal performs a structural, order-sensitive comparison of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindDouble:
		return v.d == o.d
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.m.Equal(o.m)
	default:
		return false
	}
}

// Clone performs a deep copy of a Value.
func (v Value) Clone() Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.seq))
		for i, e := range v.seq {
			items[i] = e.Clone()
		}
		return NewSequence(items...)
	case KindMapping:
		return NewMappingValue(v.m.Clone())
	default:
		return v
	}
}

// arrayify returns v's elements if it is a Sequence, or a single-element
// slice otherwise — the "normalize to array for single code path" pattern
// the Canonicalizer needs when a property may hold a scalar or a Sequence.
func arrayify(v Value) []Value {
	if v.IsSequence() {
		return v.Seq()
	}
	if v.IsNull() {
		return nil
	}
	return []Value{v}
}

// Mapping is an insertion-order-preserving string-keyed map, the sole
// keyed-collection type used by the Value tree.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping creates an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Has reports whether the key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the value for key and whether it was present.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// MustGet returns the value for key, or Null if absent.
func (m *Mapping) MustGet(key string) Value {
	return m.values[key]
}

// Set inserts or updates key, preserving the original insertion position on
// update and appending on insert.
func (m *Mapping) Set(key string, v Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Delete removes key if present.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.keys) }

// Range calls fn for every entry in insertion order, stopping early if fn
// returns false.
func (m *Mapping) Range(fn func(key string, v Value) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone performs a deep copy, preserving key order.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	for _, k := range m.keys {
		out.Set(k, m.values[k].Clone())
	}
	return out
}

// Equal compares two mappings by key/value pairs only (order-independent,
// since a Mapping represents a set of properties, not a sequence).
func (m *Mapping) Equal(o *Mapping) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.Len() != o.Len() {
		return false
	}
	for _, k := range m.keys {
		ov, ok := o.Get(k)
		if !ok || !m.values[k].Equal(ov) {
			return false
		}
	}
	return true
}
