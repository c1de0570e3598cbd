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
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

var ErrWireType = errors.New("unexpected wire type")

// Field is a single decoded field
type Field struct {
	Number protowire.Number
	Type   protowire.Type
	varint uint64
	data   []byte
}

// Uint64 returns the field value as an unsigned varint
func (f Field) Uint64() (uint64, error) {
	if f.Type != protowire.VarintType {
		return 0, fmt.Errorf("%w: field %d has type %d", ErrWireType, f.Number, f.Type)
	}
	return f.varint, nil
}

// Int64 returns the field value as a signed varint
func (f Field) Int64() (int64, error) {
	v, err := f.Uint64()
	return int64(v), err
}

// Int32 returns the field value as an int32 varint
func (f Field) Int32() (int32, error) {
	v, err := f.Uint64()
	if err != nil {
		return 0, err
	}
	tmp := int64(v)
	if tmp > math.MaxInt32 || tmp < math.MinInt32 {
		return 0, fmt.Errorf("field %d: value %d overflows int32", f.Number, tmp)
	}
	return int32(tmp), nil
}

// Sint64 returns the field value as a zigzag-encoded varint
func (f Field) Sint64() (int64, error) {
	v, err := f.Uint64()
	if err != nil {
		return 0, err
	}
	return protowire.DecodeZigZag(v), nil
}

// Bool returns the field value as a bool
func (f Field) Bool() (bool, error) {
	v, err := f.Uint64()
	return v != 0, err
}

// Bytes returns the field value as a length-delimited byte slice
func (f Field) Bytes() ([]byte, error) {
	if f.Type != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d has type %d", ErrWireType, f.Number, f.Type)
	}
	return f.data, nil
}

// String returns the field value as a string
func (f Field) String() (string, error) {
	b, err := f.Bytes()
	return string(b), err
}

// Decoder iterates over the fields of an encoded message
type Decoder struct {
	data  []byte
	field Field
	err   error
}

// NewDecoder returns a Decoder for the provided message bytes
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Next advances to the next field. It returns false at the end of input or on error
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.data) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(d.data)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return false
	}
	d.data = d.data[n:]
	d.field = Field{Number: num, Type: typ}
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(d.data)
		if n < 0 {
			d.err = protowire.ParseError(n)
			return false
		}
		d.field.varint = v
		d.data = d.data[n:]
	case protowire.BytesType:
		v, n := protowire.ConsumeBytes(d.data)
		if n < 0 {
			d.err = protowire.ParseError(n)
			return false
		}
		d.field.data = v
		d.data = d.data[n:]
	default:
		// Fixed-width and group fields aren't used by the schema, but we still skip them
		n := protowire.ConsumeFieldValue(num, typ, d.data)
		if n < 0 {
			d.err = protowire.ParseError(n)
			return false
		}
		d.data = d.data[n:]
	}
	return true
}

// Field returns the current field
func (d *Decoder) Field() Field {
	return d.field
}

// Err returns the first error encountered while decoding
func (d *Decoder) Err() error {
	return d.err
}

// Fields decodes all fields in the provided message
func Fields(data []byte) ([]Field, error) {
	var ret []Field
	d := NewDecoder(data)
	for d.Next() {
		ret = append(ret, d.Field())
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
