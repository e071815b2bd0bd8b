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
)

// ErrorCode is a stable, machine-comparable JSON-LD error kind.
type ErrorCode string

// JsonLdError is the error type surfaced at every processor boundary. The
// call unwinds on the first error; there is no partial result.
type JsonLdError struct { //nolint:stylecheck
	Code    ErrorCode
	Details interface{}
}

const (
	// CoerceLanguageError: a value has @language but the property's context
	// demands a non-@id coerced type.
	CoerceLanguageError ErrorCode = "coerce language error"

	// InvalidCoerceType: a value's @type does not match the context-declared
	// coercion target. Details carries both types.
	InvalidCoerceType ErrorCode = "invalid coerce type"

	// GraphLiteralFlattenError: a top-level graph literal (@id is a
	// Sequence) was encountered embedded in a property slot.
	GraphLiteralFlattenError ErrorCode = "graph literal flatten error"

	// InvalidFrameFormat: a frame element is not a Mapping.
	InvalidFrameFormat ErrorCode = "invalid frame format"

	// UnknownTerm: a term used in a frame could not be resolved.
	UnknownTerm ErrorCode = "unknown term"

	// LoadingDocumentFailed: the document loader could not retrieve or
	// decode a remote or local document.
	LoadingDocumentFailed ErrorCode = "loading document failed"

	// MultipleContextLinkHeaders: an HTTP response carried more than one
	// Link header advertising a JSON-LD context.
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"

	// Non-spec errors, surfaced at the I/O and parsing boundary.
	SyntaxError    ErrorCode = "syntax error"
	ParseError     ErrorCode = "parse error"
	IOError        ErrorCode = "io error"
	InvalidInput   ErrorCode = "invalid input"
	UnknownFormat  ErrorCode = "unknown format"
	NotImplemented ErrorCode = "not implemented"
	UnknownError   ErrorCode = "unknown error"
)

func (e JsonLdError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return fmt.Sprintf("%v", e.Code)
}

// NewJsonLdError creates a new instance of JsonLdError.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError {
	return &JsonLdError{Code: code, Details: details}
}
