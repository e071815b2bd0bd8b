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

// ProcessorOptions carries the two options keys defined by spec section 6
// plus the document loader used to resolve remote @context values.
type ProcessorOptions struct {
	// Base is the base IRI used for relative IRI resolution.
	Base string

	// Optimize toggles non-semantic performance shortcuts. Off by default.
	Optimize bool

	// DocumentLoader resolves remote @context URLs (see document_loader.go).
	// This is a boundary collaborator, not part of the core algorithms.
	DocumentLoader DocumentLoader
}

// NewProcessorOptions creates ProcessorOptions with the given base IRI and
// the default HTTP/file document loader.
func NewProcessorOptions(base string) *ProcessorOptions {
	return &ProcessorOptions{
		Base:           base,
		Optimize:       false,
		DocumentLoader: NewDefaultDocumentLoader(nil),
	}
}

// Copy creates a shallow copy of the options.
func (opt *ProcessorOptions) Copy() *ProcessorOptions {
	return &ProcessorOptions{
		Base:           opt.Base,
		Optimize:       opt.Optimize,
		DocumentLoader: opt.DocumentLoader,
	}
}
