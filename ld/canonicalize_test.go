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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoCycleSubjects builds the flattened form of a <a> -p-> <b> -p-> <a>
// blank-node 2-cycle, under whatever pair of blank-node labels is given.
func twoCycleSubjects(a, b string) *Mapping {
	subjects := NewMapping()

	sa := NewMapping()
	sa.Set("@id", String(a))
	sa.Set("http://example.org/p", NewMappingValue(idReference(b)))
	subjects.Set(a, NewMappingValue(sa))

	sb := NewMapping()
	sb.Set("@id", String(b))
	sb.Set("http://example.org/p", NewMappingValue(idReference(a)))
	subjects.Set(b, NewMappingValue(sb))

	return subjects
}

func TestCanonicalize_IsomorphismInvariance(t *testing.T) {
	s1 := twoCycleSubjects("_:a", "_:b")
	Canonicalize(s1)

	s2 := twoCycleSubjects("_:x", "_:y")
	Canonicalize(s2)

	out1, err := MarshalJSON(NewSequence(SortedSubjects(s1)...))
	require.NoError(t, err)
	out2, err := MarshalJSON(NewSequence(SortedSubjects(s2)...))
	require.NoError(t, err)

	assert.Equal(t, string(out1), string(out2))
}

func TestCanonicalize_LabelsAreContiguousC14N(t *testing.T) {
	s := twoCycleSubjects("_:a", "_:b")
	Canonicalize(s)

	labels := map[string]bool{}
	for _, iri := range s.Keys() {
		labels[iri] = true
	}
	assert.True(t, labels["_:c14n0"])
	assert.True(t, labels["_:c14n1"])
}

func TestCanonicalize_PreExistingC14NNamespaceIsRenamed(t *testing.T) {
	s := twoCycleSubjects("_:c14n5", "_:other")
	Canonicalize(s)
	for _, iri := range s.Keys() {
		assert.True(t, isBlankNodeIRI(iri))
	}
	assert.True(t, s.Has("_:c14n0"))
	assert.True(t, s.Has("_:c14n1"))
}

func TestCanonicalize_SortsMultiValuedProperties(t *testing.T) {
	subjects := NewMapping()
	subj := NewMapping()
	subj.Set("@id", String("http://example.org/s"))
	subj.Set("http://example.org/prop", NewSequence(String("b"), String("a")))
	subjects.Set("http://example.org/s", NewMappingValue(subj))

	Canonicalize(subjects)

	vals := subjects.MustGet("http://example.org/s").Map().MustGet("http://example.org/prop").Seq()
	require.Len(t, vals, 2)
	assert.Equal(t, "a", vals[0].Str())
	assert.Equal(t, "b", vals[1].Str())
}

func TestSortedSubjects_OrdersByID(t *testing.T) {
	subjects := NewMapping()
	for _, id := range []string{"http://example.org/z", "http://example.org/a"} {
		m := NewMapping()
		m.Set("@id", String(id))
		subjects.Set(id, NewMappingValue(m))
	}
	sorted := SortedSubjects(subjects)
	require.Len(t, sorted, 2)
	assert.Equal(t, "http://example.org/a", sorted[0].Map().MustGet("@id").Str())
	assert.Equal(t, "http://example.org/z", sorted[1].Map().MustGet("@id").Str())
}
