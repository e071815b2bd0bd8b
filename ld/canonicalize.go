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
	"sort"
	"strings"
)

// isBlankNodeIRI reports whether iri is in the "_:" namespace.
func isBlankNodeIRI(iri string) bool {
	return strings.HasPrefix(iri, "_:")
}

// NameBlankNodes implements 4.5.3's initial naming, run on the expanded tree
// before Flatten: every subject Mapping lacking @id receives a fresh
// _:tmp<n> name. Subjects already named in the _:c14n namespace keep their
// names here; Canonicalize renames them (and every reference to them) to
// fresh _:tmp<n> names before it populates the canonical namespace.
func NameBlankNodes(ng *NameGenerator, value Value) {
	switch value.Kind() {
	case KindSequence:
		for _, item := range value.Seq() {
			NameBlankNodes(ng, item)
		}
	case KindMapping:
		m := value.Map()
		if m.Has("@value") {
			return
		}
		idv, hasID := m.Get("@id")
		switch {
		case !hasID:
			m.Set("@id", String(ng.Next()))
		case idv.IsSequence():
			// top-level graph literal: its contents are subjects too.
			NameBlankNodes(ng, idv)
		}
		for _, k := range m.Keys() {
			if k == "@id" {
				continue
			}
			NameBlankNodes(ng, m.MustGet(k))
		}
	}
}

// edge is one entry of an edges["props"|"refs"][iri]["all"|"bnodes"] list
// (4.5.1): {subject: object-iri, property: p} for props, or the symmetric
// incoming-edge form for refs.
type edge struct {
	Subject  string
	Property string
}

type edgeSet struct {
	All    []edge
	BNodes []edge
}

type edgeTables struct {
	Props map[string]*edgeSet
	Refs  map[string]*edgeSet
}

// serialization is a relation serialization (4.5.4): a string plus the
// mapping from original blank-node IRI to its serialized label.
type serialization struct {
	S string
	M map[string]string
}

type nodeSerializations struct {
	Props *serialization
	Refs  *serialization
}

// canonState holds the Canonicalizer's working state for a single
// normalize call (4.5.1).
type canonState struct {
	Subjects       *Mapping
	Edges          edgeTables
	Serializations map[string]*nodeSerializations
	NgC14N         *NameGenerator
	Canonicalizing bool
}

func ensureEdgeSet(table map[string]*edgeSet, iri string) *edgeSet {
	s, ok := table[iri]
	if !ok {
		s = &edgeSet{}
		table[iri] = s
	}
	return s
}

// compareEdges totally orders edges per 4.5.2: non-blank subjects precede
// blank ones; non-blank edges sort by subject then property, blank edges by
// property; once canonicalizing, _:c14n-namespace subjects precede others
// and sort lexicographically among themselves.
func compareEdges(state *canonState, a, b edge) int {
	bnodeA := isBlankNodeIRI(a.Subject)
	bnodeB := isBlankNodeIRI(b.Subject)
	if bnodeA != bnodeB {
		if bnodeA {
			return 1
		}
		return -1
	}

	rval := 0
	if !bnodeA {
		rval = strings.Compare(a.Subject, b.Subject)
	}
	if rval == 0 {
		rval = strings.Compare(a.Property, b.Property)
	}
	if rval == 0 && state.Canonicalizing {
		c14nA := state.NgC14N.InNamespace(a.Subject)
		c14nB := state.NgC14N.InNamespace(b.Subject)
		if c14nA != c14nB {
			if c14nA {
				return -1
			}
			return 1
		} else if c14nA {
			rval = strings.Compare(a.Subject, b.Subject)
		}
	}
	return rval
}

// collectEdges populates state.Edges from state.Subjects (4.5.1/4.5.2).
func collectEdges(state *canonState) {
	for _, iri := range state.Subjects.Keys() {
		ensureEdgeSet(state.Edges.Refs, iri)
		ensureEdgeSet(state.Edges.Props, iri)
	}
	for _, iri := range state.Subjects.Keys() {
		subj := state.Subjects.MustGet(iri).Map()
		for _, key := range subj.Keys() {
			if key == "@id" {
				continue
			}
			for _, o := range arrayify(subj.MustGet(key)) {
				if !o.IsMapping() {
					continue
				}
				idv, ok := o.Map().Get("@id")
				if !ok || !idv.IsString() {
					continue
				}
				objIRI := idv.Str()
				if !state.Subjects.Has(objIRI) {
					continue
				}
				ensureEdgeSet(state.Edges.Refs, objIRI).All = append(
					ensureEdgeSet(state.Edges.Refs, objIRI).All, edge{Subject: iri, Property: key})
				ensureEdgeSet(state.Edges.Props, iri).All = append(
					ensureEdgeSet(state.Edges.Props, iri).All, edge{Subject: objIRI, Property: key})
			}
		}
	}
	for _, table := range []map[string]*edgeSet{state.Edges.Refs, state.Edges.Props} {
		for _, set := range table {
			sort.Slice(set.All, func(i, j int) bool {
				return compareEdges(state, set.All[i], set.All[j]) < 0
			})
			set.BNodes = set.BNodes[:0]
			for _, e := range set.All {
				if isBlankNodeIRI(e.Subject) {
					set.BNodes = append(set.BNodes, e)
				}
			}
		}
	}
}

// renameBlankNode renames subj (currently keyed under its old @id) to newID
// in the subjects map, the edge tables, and every property value that holds
// an IRI Reference to the old name.
func renameBlankNode(state *canonState, subj *Mapping, newID string) {
	old := subj.MustGet("@id").Str()
	subj.Set("@id", String(newID))

	state.Subjects.Set(newID, NewMappingValue(subj))
	state.Subjects.Delete(old)

	refsSet := state.Edges.Refs[old]
	propsSet := state.Edges.Props[old]
	delete(state.Edges.Refs, old)
	delete(state.Edges.Props, old)
	if refsSet != nil {
		state.Edges.Refs[newID] = refsSet
	}
	if propsSet != nil {
		state.Edges.Props[newID] = propsSet
	}

	if refsSet != nil {
		for _, r := range refsSet.All {
			iri := r.Subject
			if iri == old {
				iri = newID
			}
			refSubjVal, ok := state.Subjects.Get(iri)
			if !ok {
				continue
			}
			refSubj := refSubjVal.Map()
			if outSet, ok := state.Edges.Props[iri]; ok {
				for i := range outSet.All {
					if outSet.All[i].Subject == old {
						p := outSet.All[i].Property
						outSet.All[i].Subject = newID
						replaceIDRefs(refSubj, p, old, newID)
					}
				}
			}
		}
	}

	if propsSet != nil {
		for _, p := range propsSet.All {
			if otherRefs, ok := state.Edges.Refs[p.Subject]; ok {
				for i := range otherRefs.All {
					if otherRefs.All[i].Subject == old {
						otherRefs.All[i].Subject = newID
					}
				}
			}
		}
	}
}

// replaceIDRefs rewrites any IRI Reference to oldID under subj[property] in
// place (the Mapping each reference wraps is never shared across property
// slots, so mutating it only touches this one edge).
func replaceIDRefs(subj *Mapping, property, oldID, newID string) {
	v, ok := subj.Get(property)
	if !ok {
		return
	}
	for _, item := range arrayify(v) {
		if !item.IsMapping() {
			continue
		}
		if id, ok := item.Map().Get("@id"); ok && id.IsString() && id.Str() == oldID {
			item.Map().Set("@id", String(newID))
		}
	}
}

func markSerializationDirty(state *canonState, iri, changed, dir string) bool {
	entry, ok := state.Serializations[iri]
	if !ok {
		return false
	}
	cur := entry.Props
	if dir == "refs" {
		cur = entry.Refs
	}
	if cur == nil {
		return false
	}
	if _, ok := cur.M[changed]; ok {
		if dir == "refs" {
			entry.Refs = nil
		} else {
			entry.Props = nil
		}
		return true
	}
	return false
}

// --- relation serialization (4.5.4) ---

type keyStackEntry struct {
	Keys []string
	Idx  int
}

type adjEntry struct {
	I string
	K []string
	M map[string]string
}

// mappingBuilder accumulates one relation serialization for a bnode.
type mappingBuilder struct {
	count     int
	processed map[string]bool
	mapping   map[string]string
	adj       map[string]*adjEntry
	keyStack  []keyStackEntry
	done      map[string]bool
	s         string
}

func newMappingBuilder() *mappingBuilder {
	return &mappingBuilder{
		count:     1,
		processed: map[string]bool{},
		mapping:   map[string]string{},
		adj:       map[string]*adjEntry{},
		keyStack:  []keyStackEntry{{Keys: []string{"s1"}, Idx: 0}},
		done:      map[string]bool{},
	}
}

func (mb *mappingBuilder) clone() *mappingBuilder {
	out := &mappingBuilder{
		count:     mb.count,
		processed: make(map[string]bool, len(mb.processed)),
		mapping:   make(map[string]string, len(mb.mapping)),
		adj:       make(map[string]*adjEntry, len(mb.adj)),
		keyStack:  append([]keyStackEntry(nil), mb.keyStack...),
		done:      make(map[string]bool, len(mb.done)),
		s:         mb.s,
	}
	for k, v := range mb.processed {
		out.processed[k] = v
	}
	for k, v := range mb.mapping {
		out.mapping[k] = v
	}
	for k, v := range mb.adj {
		out.adj[k] = v
	}
	for k, v := range mb.done {
		out.done[k] = v
	}
	return out
}

// mapNode implements _mapNode: the next label for iri, or a shortened form
// (strip "_:c14n" to "c<n>") if iri is already canonical.
func mapNode(mb *mappingBuilder, iri string) string {
	if label, ok := mb.mapping[iri]; ok {
		return label
	}
	var label string
	if strings.HasPrefix(iri, "_:c14n") {
		label = "c" + iri[len("_:c14n"):]
	} else {
		label = "s" + itoa(mb.count)
		mb.count++
	}
	mb.mapping[iri] = label
	return label
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// serializeProperties implements 4.5.4's property serialization: for each
// non-@id key in sorted order, "<property>" followed by its objects
// joined with "|".
func serializeProperties(subj *Mapping) string {
	keys := make([]string, 0, subj.Len())
	for _, k := range subj.Keys() {
		if k != "@id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteByte('<')
		sb.WriteString(k)
		sb.WriteByte('>')
		for i, obj := range arrayify(subj.MustGet(k)) {
			if i > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(serializeObject(obj))
		}
	}
	return sb.String()
}

func serializeObject(obj Value) string {
	if !obj.IsMapping() {
		return "\"" + obj.AsString() + "\""
	}
	m := obj.Map()
	if id, ok := m.Get("@id"); ok && id.IsString() {
		if isBlankNodeIRI(id.Str()) {
			return "_:"
		}
		return "<" + id.Str() + ">"
	}
	var sb strings.Builder
	sb.WriteByte('"')
	if v, ok := m.Get("@value"); ok {
		sb.WriteString(v.AsString())
	}
	sb.WriteByte('"')
	if t, ok := m.Get("@type"); ok && t.IsString() {
		sb.WriteString("^^<")
		sb.WriteString(t.Str())
		sb.WriteByte('>')
	} else if l, ok := m.Get("@language"); ok && l.IsString() {
		sb.WriteByte('@')
		sb.WriteString(l.Str())
	}
	return sb.String()
}

// serializeRefs implements 4.5.4's reference serialization.
func serializeRefs(state *canonState, iri string) string {
	set, ok := state.Edges.Refs[iri]
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(set.All))
	for _, r := range set.All {
		part := "<" + r.Property + ">"
		if isBlankNodeIRI(r.Subject) {
			part += "_:"
		} else {
			part += "<" + r.Subject + ">"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "|")
}

// serializeMapping recursively drains mb's key stack, extending mb.s per
// 4.5.4's SerializeMapping: label, properties, references, child labels,
// marking cycles with a leading "_".
func serializeMapping(state *canonState, mb *mappingBuilder) {
	if len(mb.keyStack) == 0 {
		return
	}
	next := mb.keyStack[len(mb.keyStack)-1]
	mb.keyStack = mb.keyStack[:len(mb.keyStack)-1]

	for ; next.Idx < len(next.Keys); next.Idx++ {
		k := next.Keys[next.Idx]
		entry, hasAdj := mb.adj[k]
		if !hasAdj {
			mb.keyStack = append(mb.keyStack, next)
			return
		}
		if mb.done[k] {
			mb.s += "_" + k
			continue
		}
		mb.done[k] = true

		s := k
		if subjVal, ok := state.Subjects.Get(entry.I); ok {
			b := subjVal.Map()
			s += "[" + serializeProperties(b) + "]"
			s += "[" + serializeRefs(state, entry.I) + "]"
		}
		for _, kk := range entry.K {
			s += kk
		}
		mb.s += s

		mb.keyStack = append(mb.keyStack, keyStackEntry{Keys: entry.K, Idx: 0})
		serializeMapping(state, mb)
	}
}

// compareSerializations compares the overlapping prefix of two
// in-progress serializations (a complete comparison isn't possible until
// both are fully built).
func compareSerializations(s1, s2 string) int {
	n := len(s1)
	if len(s2) < n {
		n = len(s2)
	}
	return strings.Compare(s1[:n], s2[:n])
}

type bestHolder struct {
	val *serialization
}

func rotateEdges(s []edge) []edge {
	if len(s) == 0 {
		return s
	}
	out := make([]edge, len(s))
	copy(out, s[1:])
	out[len(s)-1] = s[0]
	return out
}

// serializeCombos implements 4.5.4's SerializeCombos: peel unmapped adjacent
// bnodes one at a time (trying every rotation of the remainder), then once
// every adjacent bnode is mapped, extend the serialization and recurse into
// each in sorted-label order, keeping the best (lexicographically least,
// then longest) result found.
func serializeCombos(state *canonState, best *bestHolder, iri, siri string, mb *mappingBuilder, dir string, mapped map[string]string, notMapped []edge) {
	if len(notMapped) > 0 {
		mappedCopy := make(map[string]string, len(mapped)+1)
		for k, v := range mapped {
			mappedCopy[k] = v
		}
		mappedCopy[mapNode(mb, notMapped[0].Subject)] = notMapped[0].Subject

		original := mb.clone()
		rest := append([]edge(nil), notMapped[1:]...)
		rotations := len(rest)
		if rotations < 1 {
			rotations = 1
		}
		for r := 0; r < rotations; r++ {
			m := mb
			if r != 0 {
				m = original.clone()
			}
			serializeCombos(state, best, iri, siri, m, dir, mappedCopy, rest)
			rest = rotateEdges(rest)
		}
		return
	}

	keys := make([]string, 0, len(mapped))
	for k := range mapped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mb.adj[siri] = &adjEntry{I: iri, K: keys, M: mapped}
	serializeMapping(state, mb)

	if best.val == nil || compareSerializations(mb.s, best.val.S) <= 0 {
		for _, k := range keys {
			serializeBlankNode(state, best, mapped[k], mb, dir)
		}
		serializeMapping(state, mb)
		if best.val == nil || (compareSerializations(mb.s, best.val.S) <= 0 && len(mb.s) >= len(best.val.S)) {
			m := make(map[string]string, len(mb.mapping))
			for k, v := range mb.mapping {
				m[k] = v
			}
			best.val = &serialization{S: mb.s, M: m}
		}
	}
}

// serializeBlankNode implements 4.5.4's SerializeBnode.
func serializeBlankNode(state *canonState, best *bestHolder, iri string, mb *mappingBuilder, dir string) {
	if mb.processed[iri] {
		return
	}
	mb.processed[iri] = true
	siri := mapNode(mb, iri)
	original := mb.clone()

	var adjAll []edge
	var table map[string]*edgeSet
	if dir == "props" {
		table = state.Edges.Props
	} else {
		table = state.Edges.Refs
	}
	if set, ok := table[iri]; ok {
		adjAll = set.BNodes
	}

	mapped := map[string]string{}
	var notMapped []edge
	for _, e := range adjAll {
		if label, ok := mb.mapping[e.Subject]; ok {
			mapped[label] = e.Subject
		} else {
			notMapped = append(notMapped, e)
		}
	}

	combos := len(notMapped)
	if combos < 1 {
		combos = 1
	}
	current := notMapped
	for i := 0; i < combos; i++ {
		m := mb
		if i != 0 {
			m = original.clone()
		}
		serializeCombos(state, best, iri, siri, m, dir, mapped, current)
		current = rotateEdges(current)
	}
}

func ensureSerialization(state *canonState, iri, dir string) {
	entry, ok := state.Serializations[iri]
	if !ok {
		entry = &nodeSerializations{}
		state.Serializations[iri] = entry
	}
	if dir == "props" && entry.Props != nil {
		return
	}
	if dir == "refs" && entry.Refs != nil {
		return
	}

	mb := newMappingBuilder()
	if dir == "refs" && entry.Props != nil {
		mb.mapping = make(map[string]string, len(entry.Props.M))
		for k, v := range entry.Props.M {
			mb.mapping[k] = v
		}
		mb.count = len(mb.mapping) + 1
	}
	best := &bestHolder{}
	serializeBlankNode(state, best, iri, mb, dir)
	if dir == "props" {
		entry.Props = best.val
	} else {
		entry.Refs = best.val
	}
}

// --- comparisons (4.5.5) ---

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStringSlices(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInts(len(a), len(b))
}

func compareObjectKeys(a, b *Mapping, key string) int {
	av, aok := a.Get(key)
	bv, bok := b.Get(key)
	switch {
	case aok && bok:
		return strings.Compare(av.AsString(), bv.AsString())
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}

// compareObjectValues orders a plain string before a Value Object/IRI
// Reference, then by @value/@type/@language or by @id.
func compareObjectValues(a, b Value) int {
	if a.IsString() {
		if !b.IsString() {
			return -1
		}
		return strings.Compare(a.Str(), b.Str())
	}
	if b.IsString() {
		return 1
	}
	am, bm := a.Map(), b.Map()
	rval := compareObjectKeys(am, bm, "@value")
	if rval == 0 {
		if _, ok := am.Get("@value"); ok {
			rval = compareObjectKeys(am, bm, "@type")
			if rval == 0 {
				rval = compareObjectKeys(am, bm, "@language")
			}
		} else {
			aid, _ := am.Get("@id")
			bid, _ := bm.Get("@id")
			rval = strings.Compare(aid.Str(), bid.Str())
		}
	}
	return rval
}

func sortedObjects(items []Value) []Value {
	out := append([]Value(nil), items...)
	sort.Slice(out, func(i, j int) bool {
		return compareObjectValues(out[i], out[j]) < 0
	})
	return out
}

func isNamedBlankNodeRef(v Value) bool {
	if !v.IsMapping() {
		return false
	}
	id, ok := v.Map().Get("@id")
	return ok && id.IsString() && isBlankNodeIRI(id.Str())
}

// compareBlankNodeObjects implements shallow-compare step 3: per property,
// compare object counts, then the non-bnode objects sorted.
func compareBlankNodeObjects(a, b *Mapping) int {
	for _, p := range a.Keys() {
		if p == "@id" {
			continue
		}
		av := a.MustGet(p)
		bv, _ := b.Get(p)

		lenA, lenB := len(arrayify(av)), len(arrayify(bv))
		if c := compareInts(lenA, lenB); c != 0 {
			return c
		}

		var objsA, objsB []Value
		for _, o := range arrayify(av) {
			if !isNamedBlankNodeRef(o) {
				objsA = append(objsA, o)
			}
		}
		for _, o := range arrayify(bv) {
			if !isNamedBlankNodeRef(o) {
				objsB = append(objsB, o)
			}
		}
		if c := compareInts(len(objsA), len(objsB)); c != 0 {
			return c
		}
		objsA = sortedObjects(objsA)
		objsB = sortedObjects(objsB)
		for i := range objsA {
			if c := compareObjectValues(objsA[i], objsB[i]); c != 0 {
				return c
			}
		}
	}
	return 0
}

// shallowCompareBlankNodes implements 4.5.5's shallow compare.
func shallowCompareBlankNodes(state *canonState, a, b *Mapping) int {
	pA := append([]string(nil), a.Keys()...)
	pB := append([]string(nil), b.Keys()...)
	sort.Strings(pA)
	sort.Strings(pB)

	if c := compareInts(len(pA), len(pB)); c != 0 {
		return c
	}
	if c := compareStringSlices(pA, pB); c != 0 {
		return c
	}
	if c := compareBlankNodeObjects(a, b); c != 0 {
		return c
	}

	iriA := a.MustGet("@id").Str()
	iriB := b.MustGet("@id").Str()
	edgesA := state.Edges.Refs[iriA]
	edgesB := state.Edges.Refs[iriB]
	var allA, allB []edge
	if edgesA != nil {
		allA = edgesA.All
	}
	if edgesB != nil {
		allB = edgesB.All
	}
	if c := compareInts(len(allA), len(allB)); c != 0 {
		return c
	}
	for i := range allA {
		if c := compareEdges(state, allA[i], allB[i]); c != 0 {
			return c
		}
	}
	return 0
}

// deepCompareBlankNodes implements 4.5.5's deep compare.
func deepCompareBlankNodes(state *canonState, a, b *Mapping) int {
	iriA := a.MustGet("@id").Str()
	iriB := b.MustGet("@id").Str()
	if iriA == iriB {
		return 0
	}
	if rval := shallowCompareBlankNodes(state, a, b); rval != 0 {
		return rval
	}
	for _, dir := range [2]string{"props", "refs"} {
		ensureSerialization(state, iriA, dir)
		ensureSerialization(state, iriB, dir)
		sA := state.Serializations[iriA]
		sB := state.Serializations[iriB]
		var strA, strB string
		if dir == "props" {
			if sA.Props != nil {
				strA = sA.Props.S
			}
			if sB.Props != nil {
				strB = sB.Props.S
			}
		} else {
			if sA.Refs != nil {
				strA = sA.Refs.S
			}
			if sB.Refs != nil {
				strB = sB.Refs.S
			}
		}
		if rval := strings.Compare(strA, strB); rval != 0 {
			return rval
		}
	}
	return 0
}

// resortCanonicalProperties implements 4.5.6 step 4: once blank-node IRIs
// are canonical, each affected subject's property value sequences are
// re-sorted so comparisons are now meaningful.
func resortCanonicalProperties(state *canonState) {
	for _, iri := range state.Subjects.Keys() {
		subj := state.Subjects.MustGet(iri).Map()
		for _, k := range subj.Keys() {
			if strings.HasPrefix(k, "@") {
				continue
			}
			v := subj.MustGet(k)
			if v.IsSequence() {
				subj.Set(k, NewSequence(sortedObjects(v.Seq())...))
			}
		}
	}
}

// Canonicalize implements 4.5: assign isomorphism-invariant _:c14n<n> names
// to every blank subject in subjects, mutating it in place.
func Canonicalize(subjects *Mapping) {
	state := &canonState{
		Subjects:       subjects,
		Edges:          edgeTables{Props: map[string]*edgeSet{}, Refs: map[string]*edgeSet{}},
		Serializations: map[string]*nodeSerializations{},
		NgC14N:         NewNameGenerator("c14n"),
	}

	var bnodes []string
	for _, iri := range subjects.Keys() {
		ensureEdgeSet(state.Edges.Refs, iri)
		ensureEdgeSet(state.Edges.Props, iri)
		if isBlankNodeIRI(iri) {
			bnodes = append(bnodes, iri)
		}
	}

	collectEdges(state)

	ngTmp := NewNameGenerator("tmp")
	for i, iri := range bnodes {
		if state.NgC14N.InNamespace(iri) {
			for subjects.Has(ngTmp.Next()) {
			}
			subjVal, _ := subjects.Get(iri)
			renameBlankNode(state, subjVal.Map(), ngTmp.Current())
			iri = ngTmp.Current()
			bnodes[i] = iri
		}
		state.Serializations[iri] = &nodeSerializations{}
	}

	state.Canonicalizing = true

	resort := true
	for len(bnodes) > 0 {
		if resort {
			resort = false
			sort.Slice(bnodes, func(i, j int) bool {
				ai := subjects.MustGet(bnodes[i]).Map()
				bi := subjects.MustGet(bnodes[j]).Map()
				return deepCompareBlankNodes(state, ai, bi) < 0
			})
		}

		iri := bnodes[0]
		bnodes = bnodes[1:]
		resort = state.Serializations[iri] != nil && state.Serializations[iri].Props != nil

		for _, dir := range [2]string{"props", "refs"} {
			entry, ok := state.Serializations[iri]
			if !ok {
				entry = &nodeSerializations{}
				state.Serializations[iri] = entry
			}
			var cur *serialization
			if dir == "props" {
				cur = entry.Props
			} else {
				cur = entry.Refs
			}

			var mapping map[string]string
			if cur == nil {
				mapping = map[string]string{iri: "s1"}
			} else {
				mapping = cur.M
			}

			keys := make([]string, 0, len(mapping))
			for k := range mapping {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				return mapping[keys[i]] < mapping[keys[j]]
			})

			var renamed []string
			for _, iriK := range keys {
				if !state.NgC14N.InNamespace(iriK) && subjects.Has(iriK) {
					renamed = append(renamed, iriK)
					subjVal, _ := subjects.Get(iriK)
					renameBlankNode(state, subjVal.Map(), state.NgC14N.Next())
				}
			}

			var remaining []string
			for _, b := range bnodes {
				// a renamed node is no longer in subjects under its old name
				if subjects.Has(b) && !state.NgC14N.InNamespace(b) {
					for _, r := range renamed {
						if markSerializationDirty(state, b, r, dir) {
							resort = true
						}
					}
					remaining = append(remaining, b)
				}
			}
			bnodes = remaining
		}
	}

	resortCanonicalProperties(state)
}

// SortedSubjects implements 4.5.7: the final Sequence, sorted by @id.
func SortedSubjects(subjects *Mapping) []Value {
	out := make([]Value, 0, subjects.Len())
	for _, k := range subjects.Keys() {
		out = append(out, subjects.MustGet(k))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Map().MustGet("@id").Str() < out[j].Map().MustGet("@id").Str()
	})
	return out
}
