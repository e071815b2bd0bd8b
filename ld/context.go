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

import "strings"

// Keyword aliases recognised when deriving a keyword map (4.1).
var coreKeywords = map[string]bool{
	"@id":       true,
	"@type":     true,
	"@value":    true,
	"@language": true,
	"@graph":    true,
}

// Context is a Mapping from terms/prefixes to either a bare IRI string or a
// Mapping with "@id" and an optional "@type" coercion target. Keys beginning
// with "@" are reserved and never looked up as terms.
type Context struct {
	m *Mapping
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{m: NewMapping()}
}

// NewContextFromValue wraps an existing Mapping value as a Context without
// copying it.
func NewContextFromValue(v Value) *Context {
	if !v.IsMapping() {
		return NewContext()
	}
	return &Context{m: v.Map()}
}

// Value returns the Context as a Mapping Value.
func (c *Context) Value() Value { return NewMappingValue(c.m) }

// Clone performs a deep copy.
func (c *Context) Clone() *Context { return &Context{m: c.m.Clone()} }

// entryIRI returns the IRI an entry resolves to, whether the entry is a bare
// string or a Mapping with "@id".
func entryIRI(v Value) (string, bool) {
	switch {
	case v.IsString():
		return v.Str(), true
	case v.IsMapping():
		if id, ok := v.Map().Get("@id"); ok && id.IsString() {
			return id.Str(), true
		}
	}
	return "", false
}

// entryType returns an entry's declared coercion target, if any.
func entryType(v Value) (string, bool) {
	if !v.IsMapping() {
		return "", false
	}
	t, ok := v.Map().Get("@type")
	if !ok || !t.IsString() {
		return "", false
	}
	return t.Str(), true
}

// CoercionTarget returns the declared "@type" coercion for term, if the
// context has an entry for it.
func (c *Context) CoercionTarget(term string) (string, bool) {
	v, ok := c.m.Get(term)
	if !ok {
		return "", false
	}
	return entryType(v)
}

// ExpandTerm implements 4.1's Expand-term: resolve term/prefix to an
// absolute IRI, passing through unresolved terms and reserved keywords
// verbatim.
func (c *Context) ExpandTerm(term string) string {
	if strings.HasPrefix(term, "@") {
		return term
	}
	if idx := strings.IndexByte(term, ':'); idx >= 0 {
		prefix, suffix := term[:idx], term[idx+1:]
		if entry, ok := c.m.Get(prefix); ok {
			if iri, ok := entryIRI(entry); ok {
				return iri + suffix
			}
		}
		return term
	}
	if entry, ok := c.m.Get(term); ok {
		if iri, ok := entryIRI(entry); ok {
			return iri
		}
	}
	return term
}

// UsedContext accumulates context entries actually referenced during
// compaction, so the compactor can emit only the subset of the input
// context that the output uses.
type UsedContext struct {
	m *Mapping
}

// NewUsedContext creates an empty accumulator.
func NewUsedContext() *UsedContext { return &UsedContext{m: NewMapping()} }

func (u *UsedContext) record(key string, v Value) {
	if u == nil {
		return
	}
	u.m.Set(key, v)
}

// Value returns the accumulated entries as a Mapping Value.
func (u *UsedContext) Value() Value { return NewMappingValue(u.m) }

// Empty reports whether nothing has been recorded.
func (u *UsedContext) Empty() bool { return u.m.Len() == 0 }

// KeywordMap returns the alias for each of "@id", "@type", "@value" and
// "@language" declared in c, derived per 4.1's "Keyword map" paragraph:
// a non-"@" key whose value is a string equal to one of these keywords is
// recorded as its alias. Keywords with no declared alias map to themselves.
func (c *Context) KeywordMap() map[string]string {
	out := map[string]string{
		"@id":       "@id",
		"@type":     "@type",
		"@value":    "@value",
		"@language": "@language",
		"@graph":    "@graph",
	}
	for _, k := range c.m.Keys() {
		if strings.HasPrefix(k, "@") {
			continue
		}
		v := c.m.MustGet(k)
		if v.IsString() && coreKeywords[v.Str()] {
			out[v.Str()] = k
		}
	}
	return out
}

// CompactIRI implements 4.1's Compact-IRI: prefer an exact term match over a
// prefix match, falling back to the "@type" keyword alias and then to iri
// unchanged. Matches used are recorded into used.
func (c *Context) CompactIRI(iri string, used *UsedContext) string {
	for _, k := range c.m.Keys() {
		if strings.HasPrefix(k, "@") {
			continue
		}
		entry := c.m.MustGet(k)
		entryIRIVal, ok := entryIRI(entry)
		if !ok {
			continue
		}
		if entryIRIVal == iri {
			used.record(k, entry)
			return k
		}
	}
	for _, k := range c.m.Keys() {
		if strings.HasPrefix(k, "@") {
			continue
		}
		entry := c.m.MustGet(k)
		entryIRIVal, ok := entryIRI(entry)
		if !ok || entryIRIVal == "" {
			continue
		}
		if strings.HasPrefix(iri, entryIRIVal) && iri != entryIRIVal {
			used.record(k, entry)
			return k + ":" + iri[len(entryIRIVal):]
		}
	}
	if iri == "@type" {
		for kw, alias := range c.KeywordMap() {
			if kw == "@type" {
				return alias
			}
		}
	}
	return iri
}

// MergeContexts implements 4.1's Merge-contexts: clone a, drop any entry of
// a whose IRI collides with an entry b is about to introduce (so two
// aliases never point at the same IRI), then overlay b, b winning ties.
func MergeContexts(a, b *Context) *Context {
	out := a.Clone()
	for _, k := range b.m.Keys() {
		if strings.HasPrefix(k, "@") {
			continue
		}
		bIRI, ok := entryIRI(b.m.MustGet(k))
		if !ok {
			continue
		}
		for _, ek := range out.m.Keys() {
			if strings.HasPrefix(ek, "@") || ek == k {
				continue
			}
			if eIRI, ok := entryIRI(out.m.MustGet(ek)); ok && eIRI == bIRI {
				out.m.Delete(ek)
			}
		}
	}
	for _, k := range b.m.Keys() {
		out.m.Set(k, b.m.MustGet(k))
	}
	return out
}
