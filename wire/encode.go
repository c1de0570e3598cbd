// Copyright 2026 Blink Labs Software
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

package wire

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Marshaler is implemented by types that know how to render themselves as an embedded message
type Marshaler interface {
	MarshalWire() []byte
}

// Encoder appends protobuf fields to an internal buffer
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded data
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes encoded so far
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Uint64Field appends a varint field. Zero values are omitted
func (e *Encoder) Uint64Field(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// Int64Field appends an int64 varint field. Zero values are omitted
func (e *Encoder) Int64Field(num protowire.Number, v int64) {
	e.Uint64Field(num, uint64(v))
}

// Int32Field appends an int32 varint field. Negative values are sign-extended, as protobuf does
func (e *Encoder) Int32Field(num protowire.Number, v int32) {
	e.Uint64Field(num, uint64(int64(v)))
}

// EnumField appends an enum field. Zero values are omitted
func (e *Encoder) EnumField(num protowire.Number, v int32) {
	e.Int32Field(num, v)
}

// Sint64Field appends a zigzag-encoded varint field. Zero values are omitted
func (e *Encoder) Sint64Field(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeZigZag(v))
}

// BoolField appends a bool field. False is omitted
func (e *Encoder) BoolField(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, 1)
}

// BytesField appends a length-delimited field. Empty values are omitted
func (e *Encoder) BytesField(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.RawField(num, v)
}

// StringField appends a string field. Empty values are omitted
func (e *Encoder) StringField(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

// RawField appends a length-delimited field even when the value is empty. This is used for
// embedded messages, where presence is significant
func (e *Encoder) RawField(num protowire.Number, v []byte) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

// MessageField appends an embedded message. A nil message is omitted
func (e *Encoder) MessageField(num protowire.Number, m Marshaler) {
	if m == nil {
		return
	}
	e.RawField(num, m.MarshalWire())
}
