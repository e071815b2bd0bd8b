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
	"fmt"
	"strings"
)

// NameGenerator issues sequential blank-node identifiers under a fixed
// prefix, e.g. "_:tmp0", "_:tmp1", .... The Canonicalizer keeps one for
// initial naming (prefix "tmp") and one for final c14n output (prefix
// "c14n"), mirroring the original normalization engine's ngTmp/ngC14N pair.
type NameGenerator struct {
	base    string
	counter int
	name    string
}

// NewNameGenerator creates a NameGenerator whose identifiers look like
// "_:<prefix><n>".
func NewNameGenerator(prefix string) *NameGenerator {
	return &NameGenerator{
		base:    "_:" + prefix,
		counter: -1,
	}
}

// Next issues and returns the next identifier in the sequence.
func (ng *NameGenerator) Next() string {
	ng.counter++
	ng.name = fmt.Sprintf("%s%d", ng.base, ng.counter)
	return ng.name
}

// Current returns the most recently issued identifier.
func (ng *NameGenerator) Current() string {
	return ng.name
}

// InNamespace reports whether iri was issued by this generator.
func (ng *NameGenerator) InNamespace(iri string) bool {
	return strings.HasPrefix(iri, ng.base)
}
