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

func TestCompactor_ReverseTypeCoercion(t *testing.T) {
	ctx := testContext()
	vm := NewMapping()
	vm.Set("@type", String(xsdInteger))
	vm.Set("@value", String("42"))

	out, err := NewCompactor(nil).compactValue(ctx, "http://schema.org/age", NewMappingValue(vm), NewUsedContext())
	require.NoError(t, err)
	assert.True(t, out.IsInt())
	assert.Equal(t, int64(42), out.Int())
}

func TestCompactor_InvalidCoerceType(t *testing.T) {
	ctx := testContext()
	vm := NewMapping()
	vm.Set("@type", String("http://www.w3.org/2001/XMLSchema#string"))
	vm.Set("@value", String("42"))

	_, err := NewCompactor(nil).compactValue(ctx, "http://schema.org/age", NewMappingValue(vm), NewUsedContext())
	require.Error(t, err)
	jerr, ok := err.(*JsonLdError)
	require.True(t, ok)
	assert.Equal(t, InvalidCoerceType, jerr.Code)
}

func TestCompactor_CoerceLanguageError(t *testing.T) {
	ctx := testContext()
	vm := NewMapping()
	vm.Set("@value", String("hello"))
	vm.Set("@language", String("en"))

	_, err := NewCompactor(nil).compactValue(ctx, "http://schema.org/age", NewMappingValue(vm), NewUsedContext())
	require.Error(t, err)
	jerr, ok := err.(*JsonLdError)
	require.True(t, ok)
	assert.Equal(t, CoerceLanguageError, jerr.Code)
}

func TestCompactor_AutoCoercesXSDDouble(t *testing.T) {
	ctx := NewContext()
	vm := NewMapping()
	vm.Set("@type", String(xsdDouble))
	vm.Set("@value", String(FormatDouble(1.23)))

	out, err := NewCompactor(nil).compactValue(ctx, "", NewMappingValue(vm), NewUsedContext())
	require.NoError(t, err)
	assert.True(t, out.IsDouble())
	assert.InDelta(t, 1.23, out.Double(), 1e-9)
}

func TestExpandCompact_RoundTrip(t *testing.T) {
	ctx := testContext()
	input, err := ParseJSON([]byte(`{"@id": "http://example.com/bob", "name": "Bob"}`))
	require.NoError(t, err)

	expanded, err := NewExpander(nil).Expand(ctx, input)
	require.NoError(t, err)

	compacted, err := NewCompactor(nil).Compact(ctx, expanded)
	require.NoError(t, err)
	require.True(t, compacted.IsMapping())
	assert.Equal(t, "Bob", compacted.Map().MustGet("name").Str())

	reexpanded, err := NewExpander(nil).Expand(ctx, compacted)
	require.NoError(t, err)
	assert.True(t, expanded.Equal(reexpanded))
}
