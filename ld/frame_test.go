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

func bookLibrarySubjects() *Mapping {
	subjects := NewMapping()

	chapter := NewMapping()
	chapter.Set("@id", String("http://example.org/chapter1"))
	chapter.Set("@type", String("http://example.org/vocab#Chapter"))
	subjects.Set("http://example.org/chapter1", NewMappingValue(chapter))

	book := NewMapping()
	book.Set("@id", String("http://example.org/book1"))
	book.Set("@type", String("http://example.org/vocab#Book"))
	book.Set("http://example.org/vocab#contains", NewMappingValue(idReference("http://example.org/chapter1")))
	subjects.Set("http://example.org/book1", NewMappingValue(book))

	library := NewMapping()
	library.Set("@id", String("http://example.org/lib"))
	library.Set("@type", String("http://example.org/vocab#Library"))
	library.Set("http://example.org/vocab#contains", NewMappingValue(idReference("http://example.org/book1")))
	subjects.Set("http://example.org/lib", NewMappingValue(library))

	person := NewMapping()
	person.Set("@id", String("http://example.org/person1"))
	person.Set("@type", String("http://example.org/vocab#Person"))
	subjects.Set("http://example.org/person1", NewMappingValue(person))

	return subjects
}

func TestFramer_ExplicitDropsUnmentionedKeysAndUnrelatedSubjects(t *testing.T) {
	chapterFrame := NewMapping()
	chapterFrame.Set("@type", String("http://example.org/vocab#Chapter"))

	bookFrame := NewMapping()
	bookFrame.Set("@type", String("http://example.org/vocab#Book"))
	bookFrame.Set("http://example.org/vocab#contains", NewMappingValue(chapterFrame))
	bookFrame.Set("@explicit", Bool(true))

	libFrame := NewMapping()
	libFrame.Set("@type", String("http://example.org/vocab#Library"))
	libFrame.Set("http://example.org/vocab#contains", NewMappingValue(bookFrame))
	libFrame.Set("@explicit", Bool(true))

	framer := NewFramer(bookLibrarySubjects())
	out, err := framer.Frame(NewMappingValue(libFrame), NewProcessorOptions(""))
	require.NoError(t, err)
	require.True(t, out.IsSequence())
	require.Len(t, out.Seq(), 1)

	lib := out.Seq()[0].Map()
	assert.ElementsMatch(t, []string{"@id", "@type", "http://example.org/vocab#contains"}, lib.Keys())

	book := lib.MustGet("http://example.org/vocab#contains").Map()
	assert.ElementsMatch(t, []string{"@id", "@type", "http://example.org/vocab#contains"}, book.Keys())
}

func TestFramer_DuckTypingMatch(t *testing.T) {
	subjects := NewMapping()
	s := NewMapping()
	s.Set("@id", String("http://example.org/s"))
	s.Set("http://example.org/name", String("x"))
	subjects.Set("http://example.org/s", NewMappingValue(s))

	frame := NewMapping()
	frame.Set("http://example.org/name", NewMappingValue(NewMapping()))

	framer := NewFramer(subjects)
	out, err := framer.Frame(NewMappingValue(frame), NewProcessorOptions(""))
	require.NoError(t, err)
	require.Len(t, out.Seq(), 1)
}

func TestFramer_EmbedDowngrade(t *testing.T) {
	subjects := NewMapping()

	b := NewMapping()
	b.Set("@id", String("http://example.org/b"))
	b.Set("http://example.org/extra", String("val"))
	subjects.Set("http://example.org/b", NewMappingValue(b))

	c := NewMapping()
	c.Set("@id", String("http://example.org/c"))
	c.Set("http://example.org/ref", NewMappingValue(idReference("http://example.org/b")))
	subjects.Set("http://example.org/c", NewMappingValue(c))

	a := NewMapping()
	a.Set("@id", String("http://example.org/a"))
	// toC is visited first (auto-embeds B under C); toB is mentioned in the
	// frame, so its embed is explicit and must reclaim B from C.
	a.Set("http://example.org/toC", NewMappingValue(idReference("http://example.org/c")))
	a.Set("http://example.org/toB", NewMappingValue(idReference("http://example.org/b")))
	subjects.Set("http://example.org/a", NewMappingValue(a))

	frame := NewMapping()
	frame.Set("http://example.org/toB", NewMappingValue(NewMapping()))

	framer := NewFramer(subjects)
	embeddedA, err := framer.embedSubject("http://example.org/a", frame, nil, "", false)
	require.NoError(t, err)

	aOut := embeddedA.Map()

	toC := aOut.MustGet("http://example.org/toC").Map()
	cRef := toC.MustGet("http://example.org/ref")
	assert.Equal(t, 1, cRef.Map().Len(), "B's embedding under C is downgraded to a bare reference")

	toB := aOut.MustGet("http://example.org/toB").Map()
	assert.Equal(t, 2, toB.Len(), "B is fully (re-)embedded under its explicitly framed occurrence")
	assert.Equal(t, "val", toB.MustGet("http://example.org/extra").Str())
}

func TestFramer_InvalidFrameFormat(t *testing.T) {
	framer := NewFramer(NewMapping())
	_, err := framer.Frame(String("not-a-mapping"), NewProcessorOptions(""))
	require.Error(t, err)
	jerr, ok := err.(*JsonLdError)
	require.True(t, ok)
	assert.Equal(t, InvalidFrameFormat, jerr.Code)
}
