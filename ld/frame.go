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

// frameOptions is the resolved {embedOn, explicitOn, omitDefaultOn} triple
// for one framing step (4.6): subframe overrides win over the defaults
// carried on the Framer.
type frameOptions struct {
	embedOn       bool
	explicitOn    bool
	omitDefaultOn bool
}

// embedEntry records where a subject was embedded, so a later occurrence of
// the same subject can downgrade an auto-embed back to an IRI Reference and
// re-embed itself there instead.
type embedEntry struct {
	parent *Mapping
	key    string
	auto   bool
}

// Framer implements 4.6: extract and re-shape a subset of a normalized
// graph to match a frame.
type Framer struct {
	subjects *Mapping
	embeds   map[string]*embedEntry
	defaults frameOptions
}

// NewFramer creates a Framer over subjects, the full (already normalized)
// subject map frames may reference into.
func NewFramer(subjects *Mapping) *Framer {
	return &Framer{
		subjects: subjects,
		embeds:   map[string]*embedEntry{},
		defaults: frameOptions{embedOn: true, explicitOn: false, omitDefaultOn: false},
	}
}

// Frame is the top-level entry point (4.6, wired from api.go). frame must be
// a Mapping, or a Sequence of Mappings (an empty Sequence matches any
// subject). The result is compacted against the frame's @context, if any.
func (f *Framer) Frame(frame Value, opts *ProcessorOptions) (Value, error) {
	frameList, frameCtx, err := normalizeFrameList(frame)
	if err != nil {
		return Null(), err
	}

	var results []Value
	seen := map[string]bool{}
	for _, iri := range f.subjects.Keys() {
		subj := f.subjects.MustGet(iri).Map()
		for _, fr := range frameList {
			if !matchesFrame(subj, fr) {
				continue
			}
			if seen[iri] {
				break
			}
			seen[iri] = true
			embedded, err := f.embedSubject(iri, fr, nil, "", false)
			if err != nil {
				return Null(), err
			}
			results = append(results, embedded)
			break
		}
	}

	out := NewSequence(results...)
	if frameCtx == nil {
		return out, nil
	}
	compactor := NewCompactor(opts)
	return compactor.Compact(frameCtx, out)
}

// normalizeFrameList validates and flattens frame into a list of frame
// Mappings plus the Context declared on it (if any), per 4.6: a frame is a
// Mapping or Sequence of Mappings, and an empty Sequence matches anything.
func normalizeFrameList(frame Value) ([]*Mapping, *Context, error) {
	switch frame.Kind() {
	case KindMapping:
		m := frame.Map()
		var ctx *Context
		if cv, ok := m.Get("@context"); ok {
			ctx = NewContextFromValue(cv)
		}
		return []*Mapping{m}, ctx, nil
	case KindSequence:
		items := frame.Seq()
		if len(items) == 0 {
			return []*Mapping{NewMapping()}, nil, nil
		}
		out := make([]*Mapping, 0, len(items))
		var ctx *Context
		for _, it := range items {
			if !it.IsMapping() {
				return nil, nil, NewJsonLdError(InvalidFrameFormat, it)
			}
			if cv, ok := it.Map().Get("@context"); ok && ctx == nil {
				ctx = NewContextFromValue(cv)
			}
			out = append(out, it.Map())
		}
		return out, ctx, nil
	default:
		return nil, nil, NewJsonLdError(InvalidFrameFormat, frame)
	}
}

// matchesFrame implements 4.6's match rule: @type overlap, or duck-typing
// when the frame declares no @type.
func matchesFrame(subj, frame *Mapping) bool {
	if frameTypes, ok := frame.Get("@type"); ok {
		subjTypes := subj.MustGet("@type")
		for _, ft := range arrayify(frameTypes) {
			for _, st := range arrayify(subjTypes) {
				if ft.IsString() && st.IsString() && ft.Str() == st.Str() {
					return true
				}
			}
		}
		return false
	}
	for _, k := range frame.Keys() {
		if isReservedFrameKey(k) {
			continue
		}
		if !subj.Has(k) {
			return false
		}
	}
	return true
}

func isReservedFrameKey(k string) bool {
	return k == "@context" || k == "@type" || frameKeywords[k]
}

// resolveFrameOptions overlays frame's @embed/@explicit/@omitDefault onto
// the Framer's defaults.
func (f *Framer) resolveFrameOptions(frame *Mapping) frameOptions {
	opts := f.defaults
	if v, ok := frame.Get("@embed"); ok && v.IsBool() {
		opts.embedOn = v.Bool()
	}
	if v, ok := frame.Get("@explicit"); ok && v.IsBool() {
		opts.explicitOn = v.Bool()
	}
	if v, ok := frame.Get("@omitDefault"); ok && v.IsBool() {
		opts.omitDefaultOn = v.Bool()
	}
	return opts
}

// embedSubject implements 4.6's per-subject embedding step. parent/key
// identify where this occurrence sits, for embed-entry bookkeeping and
// downgrade; auto marks an occurrence embedded without direct frame
// guidance (i.e. not a frame-listed key).
func (f *Framer) embedSubject(iri string, frame *Mapping, parent *Mapping, key string, auto bool) (Value, error) {
	opts := f.resolveFrameOptions(frame)

	if !opts.embedOn {
		return NewMappingValue(idReference(iri)), nil
	}

	if prior, exists := f.embeds[iri]; exists {
		if prior.auto && !auto {
			downgradeEmbed(prior.parent, prior.key, iri)
		} else {
			return NewMappingValue(idReference(iri)), nil
		}
	}
	f.embeds[iri] = &embedEntry{parent: parent, key: key, auto: auto}

	subjVal, ok := f.subjects.Get(iri)
	if !ok {
		return NewMappingValue(idReference(iri)), nil
	}
	subj := subjVal.Map()

	out := NewMapping()
	out.Set("@id", String(iri))

	for _, k := range subj.Keys() {
		if k == "@id" {
			continue
		}
		frameSub, mentioned := frame.Get(k)
		if opts.explicitOn && !mentioned {
			continue
		}

		var subFrame *Mapping
		if mentioned {
			subFrame = subFrameFor(frameSub)
		}
		if subFrame == nil {
			subFrame = NewMapping()
		}

		outVals, err := f.embedValues(arrayify(subj.MustGet(k)), subFrame, out, k, !mentioned)
		if err != nil {
			return Null(), err
		}
		out.Set(k, collapseSeq(outVals))
	}

	for _, k := range frame.Keys() {
		if isReservedFrameKey(k) {
			continue
		}
		if out.Has(k) {
			continue
		}
		if opts.omitDefaultOn {
			continue
		}
		def := frameDefault(frame.MustGet(k))
		out.Set(k, def)
	}

	return NewMappingValue(out), nil
}

// embedValues recurses into a property's values: IRI References are
// resolved against the full subjects map and embedded (subframed if the
// frame mentions the property, auto-embedded with default rules
// otherwise); plain values and Value Objects pass through unchanged.
func (f *Framer) embedValues(values []Value, subFrame *Mapping, parent *Mapping, key string, auto bool) ([]Value, error) {
	out := make([]Value, 0, len(values))
	for _, v := range values {
		ref, isRef := isIRIReference(v)
		if !isRef {
			out = append(out, v)
			continue
		}
		if !f.subjects.Has(ref) {
			out = append(out, v)
			continue
		}
		embedded, err := f.embedSubject(ref, subFrame, parent, key, auto)
		if err != nil {
			return nil, err
		}
		out = append(out, embedded)
	}
	return out, nil
}

// subFrameFor extracts the Mapping a frame property's value denotes: either
// the Mapping itself, or the first Mapping element of a Sequence.
func subFrameFor(v Value) *Mapping {
	switch {
	case v.IsMapping():
		return v.Map()
	case v.IsSequence():
		for _, item := range v.Seq() {
			if item.IsMapping() {
				return item.Map()
			}
		}
	}
	return nil
}

// frameDefault extracts the "@default" entry of a frame property value, or
// Null if absent.
func frameDefault(v Value) Value {
	if v.IsMapping() {
		if d, ok := v.Map().Get("@default"); ok {
			return d
		}
	}
	if v.IsSequence() {
		for _, item := range v.Seq() {
			if item.IsMapping() {
				if d, ok := item.Map().Get("@default"); ok {
					return d
				}
			}
		}
	}
	return Null()
}

func collapseSeq(items []Value) Value {
	if len(items) == 1 {
		return items[0]
	}
	return NewSequence(items...)
}

// downgradeEmbed replaces the full embedding of iri found under
// parent[key] with a bare IRI Reference, so a later, more specific
// occurrence can claim the embedding instead.
func downgradeEmbed(parent *Mapping, key, iri string) {
	if parent == nil {
		return
	}
	cur, ok := parent.Get(key)
	if !ok {
		return
	}
	items := arrayify(cur)
	out := make([]Value, len(items))
	for i, item := range items {
		if item.IsMapping() {
			if id, ok := item.Map().Get("@id"); ok && id.IsString() && id.Str() == iri {
				out[i] = NewMappingValue(idReference(iri))
				continue
			}
		}
		out[i] = item
	}
	parent.Set(key, collapseSeq(out))
}
