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

func TestJsonLdError_Error(t *testing.T) {
	t.Run("with details", func(t *testing.T) {
		err := NewJsonLdError(InvalidCoerceType, "xsd:integer")
		assert.Equal(t, "invalid coerce type: xsd:integer", err.Error())
	})
	t.Run("without details", func(t *testing.T) {
		err := NewJsonLdError(GraphLiteralFlattenError, nil)
		assert.Equal(t, "graph literal flatten error", err.Error())
	})
}
