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

// XSD datatype IRIs used for numeric/boolean auto-coercion (4.2 rule 5).
const (
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
)

var frameKeywords = map[string]bool{
	"@embed":       true,
	"@explicit":    true,
	"@default":     true,
	"@omitDefault": true,
}

// Expander implements 4.2: recursively rewrites a value to its expanded,
// context-free form.
type Expander struct {
	opts *ProcessorOptions
}

// NewExpander creates an Expander bound to opts (the base IRI and document
// loader it carries are consulted by callers resolving remote @context
// values before invoking Expand).
func NewExpander(opts *ProcessorOptions) *Expander {
	return &Expander{opts: opts}
}

// Expand is the top-level entry point (4.2, wired from api.go): it always
// returns a Sequence of expanded top-level elements, per spec section 6.
func (e *Expander) Expand(ctx *Context, value Value) (Value, error) {
	var (
		out Value
		err error
	)
	switch {
	case value.IsString():
		// rule 2: a bare top-level string is itself a property name.
		out = String(ctx.ExpandTerm(value.Str()))
	case value.IsMapping():
		out, err = e.expandMapping(ctx, value.Map())
	case value.IsSequence():
		out, err = e.expandValue(ctx, "", "", false, value)
	default:
		out = value
	}
	if err != nil {
		return Null(), err
	}
	switch out.Kind() {
	case KindSequence:
		return out, nil
	case KindNull:
		return NewSequence(), nil
	default:
		return NewSequence(out), nil
	}
}

// expandValue expands value under the (already IRI-expanded) activeProperty,
// with the coercion target already resolved by the caller from the context
// entry keyed on the pre-expansion term.
func (e *Expander) expandValue(ctx *Context, activeProperty, coerceType string, hasCoerce bool, value Value) (Value, error) {
	switch value.Kind() {
	case KindNull:
		return Null(), nil
	case KindSequence: // rule 3
		items := make([]Value, 0, len(value.Seq()))
		for _, item := range value.Seq() {
			ev, err := e.expandValue(ctx, activeProperty, coerceType, hasCoerce, item)
			if err != nil {
				return Null(), err
			}
			if ev.IsNull() {
				continue
			}
			items = append(items, ev)
		}
		return NewSequence(items...), nil
	case KindMapping: // rule 4, nested subject/value object
		return e.expandMapping(ctx, value.Map())
	default: // rule 5, primitive under a property
		return e.expandPrimitive(ctx, activeProperty, coerceType, hasCoerce, value)
	}
}

// expandMapping implements rule 4: merge @context, preserve frame keywords,
// expand every remaining key via Expand-term and recurse into its value.
func (e *Expander) expandMapping(ctx *Context, m *Mapping) (Value, error) {
	active := ctx
	if cv, ok := m.Get("@context"); ok {
		active = MergeContexts(ctx, NewContextFromValue(cv))
	}
	out := NewMapping()
	for _, k := range m.Keys() {
		if k == "@context" {
			continue
		}
		v := m.MustGet(k)
		if frameKeywords[k] {
			out.Set(k, v)
			continue
		}
		expandedKey := active.ExpandTerm(k)
		coerceType, hasCoerce := active.CoercionTarget(k)
		ev, err := e.expandValue(active, expandedKey, coerceType, hasCoerce, v)
		if err != nil {
			return Null(), err
		}
		out.Set(expandedKey, ev)
	}
	return NewMappingValue(out), nil
}

// expandPrimitive implements rule 5's four branches in order: bare @id/@type
// keyword property, @id-coercion, typed-literal coercion (explicit or
// auto-coerced numeric/boolean), and finally a plain string.
func (e *Expander) expandPrimitive(ctx *Context, property, coerceType string, hasCoerce bool, value Value) (Value, error) {
	if property == "@id" || property == "@type" {
		if value.IsString() {
			return String(ctx.ExpandTerm(value.Str())), nil
		}
		return value, nil
	}

	if !hasCoerce {
		switch value.Kind() {
		case KindBool:
			coerceType, hasCoerce = xsdBoolean, true
		case KindInt:
			coerceType, hasCoerce = xsdInteger, true
		case KindDouble:
			coerceType, hasCoerce = xsdDouble, true
		}
	}

	switch {
	case hasCoerce && coerceType == "@id":
		if value.IsString() {
			idm := NewMapping()
			idm.Set("@id", String(ctx.ExpandTerm(value.Str())))
			return NewMappingValue(idm), nil
		}
		return value, nil
	case hasCoerce:
		vm := NewMapping()
		vm.Set("@type", String(coerceType))
		vm.Set("@value", String(value.AsString()))
		return NewMappingValue(vm), nil
	default:
		return String(value.AsString()), nil
	}
}
