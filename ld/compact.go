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

import (
	"strconv"
	"strings"
)

// Compactor implements 4.3: rewrite an expanded tree into the shortest form
// a target context allows.
type Compactor struct {
	opts *ProcessorOptions
}

// NewCompactor creates a Compactor bound to opts.
func NewCompactor(opts *ProcessorOptions) *Compactor {
	return &Compactor{opts: opts}
}

// Compact is the top-level entry point (4.3, wired from api.go). ctx is the
// target context the output is compacted against.
func (c *Compactor) Compact(ctx *Context, value Value) (Value, error) {
	used := NewUsedContext()
	out, err := c.compactValue(ctx, "", value, used)
	if err != nil {
		return Null(), err
	}
	result := out
	if !result.IsMapping() {
		// more than one top-level node: an @context can't attach to a bare
		// array, so the nodes are wrapped under the @graph alias.
		wrap := NewMapping()
		wrap.Set(ctx.KeywordMap()["@graph"], result)
		result = NewMappingValue(wrap)
	}
	if !used.Empty() {
		m := result.Map()
		out2 := NewMapping()
		out2.Set("@context", used.Value())
		for _, k := range m.Keys() {
			out2.Set(k, m.MustGet(k))
		}
		result = NewMappingValue(out2)
	}
	return result, nil
}

// compactValue dispatches on value's shape, threading activeProperty (the
// term/IRI this value sits under, "" at the top) for coercion lookups.
func (c *Compactor) compactValue(ctx *Context, activeProperty string, value Value, used *UsedContext) (Value, error) {
	switch value.Kind() {
	case KindSequence:
		items := make([]Value, 0, len(value.Seq()))
		for _, item := range value.Seq() {
			cv, err := c.compactValue(ctx, activeProperty, item, used)
			if err != nil {
				return Null(), err
			}
			items = append(items, cv)
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return NewSequence(items...), nil
	case KindMapping:
		return c.compactMapping(ctx, activeProperty, value.Map(), used)
	default:
		return value, nil
	}
}

// compactMapping implements the bulk of 4.3: Value Objects collapse to bare
// scalars when reverse coercion applies, subjects and graph literals recurse
// key by key through Compact-IRI.
func (c *Compactor) compactMapping(ctx *Context, activeProperty string, m *Mapping, used *UsedContext) (Value, error) {
	kw := ctx.KeywordMap()

	if v, ok := m.Get("@value"); ok {
		return c.compactValueObject(ctx, activeProperty, m, v, kw, used)
	}

	if idv, hasID := m.Get("@id"); hasID && idv.IsSequence() {
		inner, err := c.compactValue(ctx, activeProperty, idv, used)
		if err != nil {
			return Null(), err
		}
		out := NewMapping()
		out.Set(kw["@id"], inner)
		return NewMappingValue(out), nil
	}

	out := NewMapping()
	for _, k := range m.Keys() {
		v := m.MustGet(k)
		if frameKeywords[k] {
			out.Set(k, v)
			continue
		}
		if alias, isKW := reverseKeyword(kw, k); isKW {
			cv, err := c.compactValue(ctx, k, v, used)
			if err != nil {
				return Null(), err
			}
			out.Set(alias, cv)
			continue
		}
		term := ctx.CompactIRI(k, used)
		cv, err := c.compactValue(ctx, k, v, used)
		if err != nil {
			return Null(), err
		}
		out.Set(term, cv)
	}
	return NewMappingValue(out), nil
}

func reverseKeyword(kw map[string]string, iri string) (string, bool) {
	switch iri {
	case "@id", "@type", "@value", "@language":
		return kw[iri], true
	default:
		return "", false
	}
}

// compactValueObject implements reverse type coercion: if the active
// property's context entry declares a coercion target matching @type, emit
// the bare scalar; a @language under a coercing property is an error; a
// mismatched @type is InvalidCoerceType; otherwise auto-coerce the three xsd
// scalar types, falling back to the full @value/@type envelope.
func (c *Compactor) compactValueObject(ctx *Context, activeProperty string, m *Mapping, v Value, kw map[string]string, used *UsedContext) (Value, error) {
	declared, hasDeclared := ctx.CoercionTarget(activeProperty)
	if !hasDeclared {
		// activeProperty is an expanded IRI; find the context term mapping to it.
		for _, k := range ctx.m.Keys() {
			if iri, ok := entryIRI(ctx.m.MustGet(k)); ok && iri == activeProperty {
				if t, ok := entryType(ctx.m.MustGet(k)); ok {
					declared, hasDeclared = t, true
					break
				}
			}
		}
	}
	typeV, hasType := m.Get("@type")
	_, hasLang := m.Get("@language")

	if hasDeclared {
		if hasLang {
			return Null(), NewJsonLdError(CoerceLanguageError, activeProperty)
		}
		if hasType {
			if !typeV.IsString() || typeV.Str() != declared {
				return Null(), NewJsonLdError(InvalidCoerceType, map[string]interface{}{
					"declared": declared,
					"actual":   typeV,
				})
			}
			return coercedScalar(declared, v), nil
		}
	}

	if hasType && typeV.IsString() {
		switch typeV.Str() {
		case xsdBoolean, xsdInteger, xsdDouble:
			return coercedScalar(typeV.Str(), v), nil
		}
	}

	out := NewMapping()
	out.Set(kw["@value"], v)
	if hasType {
		ct := ctx.CompactIRI(typeV.Str(), used)
		out.Set(kw["@type"], String(ct))
	}
	if lang, ok := m.Get("@language"); ok {
		out.Set(kw["@language"], lang)
	}
	if out.Len() == 1 {
		return v, nil
	}
	return NewMappingValue(out), nil
}

// coercedScalar parses v's string form back into the native JSON scalar the
// given xsd type demands.
func coercedScalar(xsdType string, v Value) Value {
	s := v.AsString()
	switch xsdType {
	case xsdBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return Bool(b)
		}
	case xsdInteger:
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return Int(i)
		}
	case xsdDouble:
		if d, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return Double(d)
		}
	}
	return String(s)
}
