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

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleSubjects() *Mapping {
	subjects := NewMapping()
	s := NewMapping()
	s.Set("@id", String("http://example.org/a"))
	s.Set("http://example.org/name", String("Alice"))
	subjects.Set("http://example.org/a", NewMappingValue(s))
	return subjects
}

func TestQuads_OneTriplePerProperty(t *testing.T) {
	quads := Quads(simpleSubjects())
	require.Len(t, quads, 1)
	assert.Equal(t, "<http://example.org/a>", quad.StringOf(quads[0].Subject))
}

func TestNormalizedDigest_StableForIsomorphicGraphs(t *testing.T) {
	s1 := twoCycleSubjects("_:a", "_:b")
	Canonicalize(s1)
	s2 := twoCycleSubjects("_:x", "_:y")
	Canonicalize(s2)

	assert.Equal(t, NormalizedDigest(s1), NormalizedDigest(s2))
}
