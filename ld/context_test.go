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

func testContext() *Context {
	m := NewMapping()
	m.Set("name", String("http://schema.org/name"))
	typed := NewMapping()
	typed.Set("@id", String("http://schema.org/age"))
	typed.Set("@type", String(xsdInteger))
	m.Set("age", NewMappingValue(typed))
	m.Set("schema", String("http://schema.org/"))
	m.Set("title", String("@value"))
	return NewContextFromValue(NewMappingValue(m))
}

func TestContext_ExpandTerm(t *testing.T) {
	ctx := testContext()
	t.Run("plain term", func(t *testing.T) {
		assert.Equal(t, "http://schema.org/name", ctx.ExpandTerm("name"))
	})
	t.Run("prefixed term", func(t *testing.T) {
		assert.Equal(t, "http://schema.org/Person", ctx.ExpandTerm("schema:Person"))
	})
	t.Run("keyword passes through", func(t *testing.T) {
		assert.Equal(t, "@type", ctx.ExpandTerm("@type"))
	})
	t.Run("unresolved term passes through", func(t *testing.T) {
		assert.Equal(t, "unknown", ctx.ExpandTerm("unknown"))
	})
}

func TestContext_CoercionTarget(t *testing.T) {
	ctx := testContext()
	target, ok := ctx.CoercionTarget("age")
	assert.True(t, ok)
	assert.Equal(t, xsdInteger, target)

	_, ok = ctx.CoercionTarget("name")
	assert.False(t, ok)
}

func TestContext_CompactIRI(t *testing.T) {
	ctx := testContext()
	used := NewUsedContext()
	assert.Equal(t, "name", ctx.CompactIRI("http://schema.org/name", used))
	assert.False(t, used.Empty())
}

func TestContext_KeywordMap(t *testing.T) {
	ctx := testContext()
	kw := ctx.KeywordMap()
	assert.Equal(t, "title", kw["@value"])
	assert.Equal(t, "@id", kw["@id"])
}

func TestMergeContexts_IRICollisionDropsOldAlias(t *testing.T) {
	a := NewContext()
	a.m.Set("n", String("http://schema.org/name"))
	b := NewContext()
	b.m.Set("name", String("http://schema.org/name"))

	merged := MergeContexts(a, b)
	assert.False(t, merged.m.Has("n"), "the colliding old alias must be dropped")
	assert.True(t, merged.m.Has("name"))
}
