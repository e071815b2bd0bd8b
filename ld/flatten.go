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

// Flattener implements 4.4: rewrite a nested expanded tree into a Mapping
// keyed by subject IRI, with inner subjects replaced by IRI References.
type Flattener struct{}

// NewFlattener creates a Flattener.
func NewFlattener() *Flattener {
	return &Flattener{}
}

// Flatten walks an expanded value (every subject must already carry an @id;
// run NameBlankNodes first) and returns the subjects map.
func (f *Flattener) Flatten(value Value) (*Mapping, error) {
	subjects := NewMapping()
	if err := f.flattenInto(subjects, value, true, func(Value) {}); err != nil {
		return nil, err
	}
	return subjects, nil
}

// flattenInto recurses per 4.4's algorithm. append receives the value (if
// any) this node contributes to its parent; topLevel gates the graph-literal
// special case (a Mapping whose @id is a Sequence) described in SPEC_FULL.md.
func (f *Flattener) flattenInto(subjects *Mapping, value Value, topLevel bool, appendFn func(Value)) error {
	switch value.Kind() {
	case KindNull:
		return nil
	case KindSequence:
		for _, item := range value.Seq() {
			if err := f.flattenInto(subjects, item, topLevel, appendFn); err != nil {
				return err
			}
		}
		return nil
	case KindMapping:
		m := value.Map()
		if m.Has("@value") {
			appendFn(value.Clone())
			return nil
		}
		if idv, hasID := m.Get("@id"); hasID && idv.IsSequence() {
			if !topLevel {
				return NewJsonLdError(GraphLiteralFlattenError, nil)
			}
			return f.flattenInto(subjects, idv, true, func(Value) {})
		}
		return f.flattenSubject(subjects, m, appendFn)
	default: // rule: primitive coerced to String and appended to parent
		appendFn(String(value.AsString()))
		return nil
	}
}

func (f *Flattener) flattenSubject(subjects *Mapping, m *Mapping, appendFn func(Value)) error {
	idv, hasID := m.Get("@id")
	if !hasID || !idv.IsString() {
		return NewJsonLdError(UnknownError, "flatten: subject missing @id; run NameBlankNodes first")
	}
	id := idv.Str()

	subjVal, ok := subjects.Get(id)
	var subj *Mapping
	if ok {
		subj = subjVal.Map()
	} else {
		subj = NewMapping()
		subj.Set("@id", String(id))
		subjects.Set(id, NewMappingValue(subj))
	}

	for _, k := range m.Keys() {
		if k == "@id" {
			continue
		}
		v := m.MustGet(k)
		if !subj.Has(k) {
			subj.Set(k, NewSequence())
		} else if !subj.MustGet(k).IsSequence() {
			subj.Set(k, NewSequence(subj.MustGet(k)))
		}
		key := k
		if err := f.flattenInto(subjects, v, false, func(ev Value) {
			appendToProperty(subj, key, ev)
		}); err != nil {
			return err
		}
	}

	for _, k := range m.Keys() {
		if k == "@id" {
			continue
		}
		pv := subj.MustGet(k)
		if pv.IsSequence() && len(pv.Seq()) == 1 {
			subj.Set(k, pv.Seq()[0])
		}
	}

	appendFn(NewMappingValue(idReference(id)))
	return nil
}

// appendToProperty appends v to subj[key]'s Sequence, suppressing duplicate
// IRI References to the same subject.
func appendToProperty(subj *Mapping, key string, v Value) {
	cur := subj.MustGet(key)
	seq := cur.Seq()
	if ref, ok := isIRIReference(v); ok {
		for _, e := range seq {
			if eref, ok := isIRIReference(e); ok && eref == ref {
				return
			}
		}
	}
	seq = append(seq, v)
	subj.Set(key, NewSequence(seq...))
}

// isIRIReference reports whether v is a Mapping with exactly one key, @id.
func isIRIReference(v Value) (string, bool) {
	if !v.IsMapping() || v.Map().Len() != 1 {
		return "", false
	}
	id, ok := v.Map().Get("@id")
	if !ok || !id.IsString() {
		return "", false
	}
	return id.Str(), true
}

func idReference(id string) *Mapping {
	m := NewMapping()
	m.Set("@id", String(id))
	return m
}
