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

// Processor wires the Expander, Compactor, Flattener, Canonicalizer and
// Framer into the four top-level operations of section 6: a single-
// threaded, fail-fast pure function per call, with no partial results and
// no process-wide state.
type Processor struct {
	opts *ProcessorOptions
}

// NewProcessor creates a Processor bound to opts (base IRI, document
// loader, optimize flag).
func NewProcessor(opts *ProcessorOptions) *Processor {
	if opts == nil {
		opts = NewProcessorOptions("")
	}
	return &Processor{opts: opts}
}

// Expand implements expand(input, opts) -> expanded Sequence.
func (p *Processor) Expand(input Value) (Value, error) {
	ctx, err := p.contextFromInput(input)
	if err != nil {
		return Null(), err
	}
	return NewExpander(p.opts).Expand(ctx, input)
}

// Compact implements compact(input, context, opts) -> compacted Mapping
// with @context: Expander followed by Compactor, per section 2's data flow.
func (p *Processor) Compact(input Value, context Value) (Value, error) {
	expanded, err := p.Expand(input)
	if err != nil {
		return Null(), err
	}
	return NewCompactor(p.opts).Compact(NewContextFromValue(context), expanded)
}

// Normalize implements normalize(input, opts) -> normalized Sequence, the
// component the whole repo exists to support (section 2/4.5):
// Expand -> NameBlankNodes -> Flatten -> Canonicalize -> sort.
func (p *Processor) Normalize(input Value) (*Mapping, []Value, error) {
	expanded, err := p.Expand(input)
	if err != nil {
		return nil, nil, err
	}

	NameBlankNodes(NewNameGenerator("tmp"), expanded)

	subjects, err := NewFlattener().Flatten(expanded)
	if err != nil {
		return nil, nil, err
	}

	Canonicalize(subjects)

	return subjects, SortedSubjects(subjects), nil
}

// NormalizeValue is the section 6 API surface: normalize(input, opts) ->
// normalized Sequence (the subject map is discarded; callers needing it,
// e.g. to compute NormalizedDigest, should call Normalize directly).
func (p *Processor) NormalizeValue(input Value) (Value, error) {
	_, sorted, err := p.Normalize(input)
	if err != nil {
		return Null(), err
	}
	return NewSequence(sorted...), nil
}

// Frame implements frame(input, frame, opts) -> framed Mapping or Sequence:
// normalized -> Framer -> Compactor(frame-context), per section 2's data
// flow.
func (p *Processor) Frame(input, frame Value) (Value, error) {
	subjects, _, err := p.Normalize(input)
	if err != nil {
		return Null(), err
	}
	return NewFramer(subjects).Frame(frame, p.opts)
}

// contextFromInput resolves the top-level input's @context (when present),
// dereferencing remote entries via the document loader, and merges it onto
// an empty context; otherwise returns an empty context.
func (p *Processor) contextFromInput(input Value) (*Context, error) {
	base := NewContext()
	if !input.IsMapping() {
		return base, nil
	}
	cv, ok := input.Map().Get("@context")
	if !ok {
		return base, nil
	}
	resolved, err := p.resolveContextValue(cv)
	if err != nil {
		return nil, err
	}
	return MergeContexts(base, resolved), nil
}

// resolveContextValue dereferences any string (remote IRI) entries of cv
// via the document loader, recursing into Sequences of mixed inline/remote
// context entries.
func (p *Processor) resolveContextValue(cv Value) (*Context, error) {
	switch cv.Kind() {
	case KindString:
		remote, err := p.opts.DocumentLoader.LoadDocument(cv.Str())
		if err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		return NewContextFromValue(remote.Document), nil
	case KindSequence:
		out := NewContext()
		for _, item := range cv.Seq() {
			sub, err := p.resolveContextValue(item)
			if err != nil {
				return nil, err
			}
			out = MergeContexts(out, sub)
		}
		return out, nil
	case KindMapping:
		return NewContextFromValue(cv), nil
	default:
		return NewContext(), nil
	}
}
