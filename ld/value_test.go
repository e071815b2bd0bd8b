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

func TestMapping_PreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("z", Int(1))
	m.Set("a", Int(2))
	m.Set("m", Int(3))
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	m.Set("a", Int(20))
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys(), "update must not move the key")
	assert.Equal(t, int64(20), m.MustGet("a").Int())
}

func TestMapping_Delete(t *testing.T) {
	m := NewMapping()
	m.Set("a", Int(1))
	m.Set("b", Int(2))
	m.Delete("a")
	assert.False(t, m.Has("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
}

func TestFormatDouble(t *testing.T) {
	assert.Equal(t, "1.230000e+00", FormatDouble(1.23))
	assert.Equal(t, "0.000000e+00", FormatDouble(0))
}

func TestValue_Equal(t *testing.T) {
	a := NewSequence(String("x"), Int(1))
	b := NewSequence(String("x"), Int(1))
	c := NewSequence(Int(1), String("x"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "Equal is order-sensitive for Sequences")
}

func TestMapping_Equal_IgnoresOrder(t *testing.T) {
	a := NewMapping()
	a.Set("x", Int(1))
	a.Set("y", Int(2))
	b := NewMapping()
	b.Set("y", Int(2))
	b.Set("x", Int(1))
	assert.True(t, a.Equal(b))
}

func TestArrayify(t *testing.T) {
	assert.Nil(t, arrayify(Null()))
	assert.Equal(t, []Value{String("a")}, arrayify(String("a")))
	seq := NewSequence(String("a"), String("b"))
	assert.Equal(t, seq.Seq(), arrayify(seq))
}

func TestValue_Clone_IsDeep(t *testing.T) {
	inner := NewMapping()
	inner.Set("k", String("v"))
	orig := NewSequence(NewMappingValue(inner))

	cloned := orig.Clone()
	cloned.Seq()[0].Map().Set("k", String("changed"))

	assert.Equal(t, "v", orig.Seq()[0].Map().MustGet("k").Str())
}
