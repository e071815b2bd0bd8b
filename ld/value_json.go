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
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// ReadJSON decodes a single JSON document from r into a Value, preserving
// mapping-key insertion order and distinguishing integers from doubles the
// way the spec's Value Model requires. Nothing in the standard decoder
// offers ordered objects directly, so this walks the token stream by hand
// (see json.Decoder.Token), the same trick the teacher reaches for when it
// needs UseNumber-aware decoding in utils.go.
func ReadJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Null(), NewJsonLdError(ParseError, err)
	}
	return v, nil
}

// ParseJSON decodes a JSON document held in memory.
func ParseJSON(data []byte) (Value, error) {
	return ReadJSON(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return decodeNumber(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := make([]Value, 0)
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Null(), err
			}
			return NewSequence(items...), nil
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Null(), err
			}
			return NewMappingValue(m), nil
		}
	}
	return Null(), NewJsonLdError(ParseError, "unexpected token")
}

// decodeNumber distinguishes integer from double literals the way the spec
// mandates: a number with no fraction or exponent is an Int.
func decodeNumber(n json.Number) Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i)
		}
	}
	d, _ := n.Float64()
	return Double(d)
}

// WriteJSON serializes v with no extraneous whitespace, preserving mapping
// key order and formatting doubles as %1.6e, as required for the
// SHA-1 wire-compatibility check in spec section 6.
func WriteJSON(w io.Writer, v Value) error {
	buf, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// MarshalJSON renders v to its canonical whitespace-free byte form.
func MarshalJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindDouble:
		buf.WriteString(FormatDouble(v.d))
	case KindString:
		writeJSONString(buf, v.s)
	case KindSequence:
		buf.WriteByte('[')
		for i, e := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		first := true
		v.m.Range(func(k string, mv Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeJSONString(buf, k)
			buf.WriteByte(':')
			_ = writeValue(buf, mv)
			return true
		})
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
