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
)

func TestNameGenerator_SequentialLabels(t *testing.T) {
	ng := NewNameGenerator("c14n")
	assert.Equal(t, "_:c14n0", ng.Next())
	assert.Equal(t, "_:c14n1", ng.Next())
	assert.Equal(t, "_:c14n1", ng.Current())
}

func TestNameGenerator_InNamespace(t *testing.T) {
	ng := NewNameGenerator("c14n")
	ng.Next()
	assert.True(t, ng.InNamespace("_:c14n0"))
	assert.False(t, ng.InNamespace("_:tmp0"))
}

func TestNameGenerator_IndependentPrefixes(t *testing.T) {
	tmp := NewNameGenerator("tmp")
	c14n := NewNameGenerator("c14n")
	assert.Equal(t, "_:tmp0", tmp.Next())
	assert.Equal(t, "_:c14n0", c14n.Next())
}
