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
	"crypto/sha1" //nolint:gosec
	"fmt"
	"sort"

	"github.com/cayleygraph/quad"
)

// quadValue converts an expanded object (an IRI Reference or Value Object)
// to the cayley/quad term it denotes, for the wire-compatibility digest
// described in spec section 6.
func quadValue(v Value) quad.Value {
	if !v.IsMapping() {
		return quad.String(v.AsString())
	}
	m := v.Map()
	if id, ok := m.Get("@id"); ok && id.IsString() {
		if isBlankNodeIRI(id.Str()) {
			return quad.BNode(id.Str())
		}
		return quad.IRI(id.Str())
	}
	val, _ := m.Get("@value")
	if t, ok := m.Get("@type"); ok && t.IsString() {
		return quad.TypedString{Value: quad.String(val.AsString()), Type: quad.IRI(t.Str())}
	}
	if lang, ok := m.Get("@language"); ok && lang.IsString() {
		return quad.LangString{Value: quad.String(val.AsString()), Lang: lang.Str()}
	}
	return quad.String(val.AsString())
}

// Quads flattens a canonicalized subject map into the RDF triples it
// denotes (the default graph only; named graphs are out of scope per spec
// section 1's Non-goals).
func Quads(subjects *Mapping) []quad.Quad {
	var out []quad.Quad
	for _, iri := range subjects.Keys() {
		subj := subjects.MustGet(iri).Map()
		var subjTerm quad.Value
		if isBlankNodeIRI(iri) {
			subjTerm = quad.BNode(iri)
		} else {
			subjTerm = quad.IRI(iri)
		}
		for _, p := range subj.Keys() {
			if p == "@id" {
				continue
			}
			for _, o := range arrayify(subj.MustGet(p)) {
				out = append(out, quad.Quad{
					Subject:   subjTerm,
					Predicate: quad.IRI(p),
					Object:    quadValue(o),
				})
			}
		}
	}
	return out
}

// quadString renders a quad as one "<s> <p> <o> ." line for the digest,
// using quad.StringOf's term formatting.
func quadString(q quad.Quad) string {
	return fmt.Sprintf("%s %s %s .", quad.StringOf(q.Subject), quad.StringOf(q.Predicate), quad.StringOf(q.Object))
}

// NormalizedDigest returns the SHA-1 digest of subjects' triples: one
// quadString line per triple, sorted, each followed by a newline. The
// subjects map must already be canonicalized (see Canonicalize) so blank
// node labels are isomorphism-invariant and isomorphic graphs hash alike.
func NormalizedDigest(subjects *Mapping) [20]byte {
	lines := make([]string, 0)
	for _, q := range Quads(subjects) {
		lines = append(lines, quadString(q))
	}
	sort.Strings(lines)

	h := sha1.New() //nolint:gosec
	for _, l := range lines {
		_, _ = h.Write([]byte(l))
		_, _ = h.Write([]byte{'\n'})
	}
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
