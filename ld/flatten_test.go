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

func TestFlattener_NestedSubjectBecomesReference(t *testing.T) {
	friend := NewMapping()
	friend.Set("@id", String("http://example.com/bob"))
	friend.Set("http://schema.org/name", String("Bob"))

	alice := NewMapping()
	alice.Set("@id", String("http://example.com/alice"))
	alice.Set("http://schema.org/knows", NewSequence(NewMappingValue(friend)))

	subjects, err := NewFlattener().Flatten(NewSequence(NewMappingValue(alice)))
	require.NoError(t, err)

	require.True(t, subjects.Has("http://example.com/alice"))
	require.True(t, subjects.Has("http://example.com/bob"))

	aliceOut := subjects.MustGet("http://example.com/alice").Map()
	ref := aliceOut.MustGet("http://schema.org/knows")
	assert.Equal(t, "http://example.com/bob", ref.Map().MustGet("@id").Str())
	assert.Equal(t, 1, ref.Map().Len(), "flattened reference carries only @id")
}

func TestFlattener_DeduplicatesRepeatedReferences(t *testing.T) {
	bob := NewMapping()
	bob.Set("@id", String("http://example.com/bob"))

	alice := NewMapping()
	alice.Set("@id", String("http://example.com/alice"))
	alice.Set("http://schema.org/knows", NewSequence(
		NewMappingValue(bob.Clone()),
		NewMappingValue(bob.Clone()),
	))

	subjects, err := NewFlattener().Flatten(NewSequence(NewMappingValue(alice)))
	require.NoError(t, err)

	knows := subjects.MustGet("http://example.com/alice").Map().MustGet("http://schema.org/knows")
	assert.False(t, knows.IsSequence(), "a single deduplicated reference collapses to a scalar")
}

func TestFlattener_EmbeddedGraphLiteralFails(t *testing.T) {
	inner := NewMapping()
	inner.Set("@id", NewSequence(String("http://example.com/a")))

	outer := NewMapping()
	outer.Set("@id", String("http://example.com/wrap"))
	outer.Set("http://example.com/p", NewSequence(NewMappingValue(inner)))

	_, err := NewFlattener().Flatten(NewSequence(NewMappingValue(outer)))
	require.Error(t, err)
	jerr, ok := err.(*JsonLdError)
	require.True(t, ok)
	assert.Equal(t, GraphLiteralFlattenError, jerr.Code)
}

func TestFlattener_TopLevelGraphLiteral(t *testing.T) {
	sub := NewMapping()
	sub.Set("@id", String("http://example.com/a"))

	graph := NewMapping()
	graph.Set("@id", NewSequence(NewMappingValue(sub)))

	subjects, err := NewFlattener().Flatten(NewSequence(NewMappingValue(graph)))
	require.NoError(t, err)
	assert.True(t, subjects.Has("http://example.com/a"))
}
