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

package wire_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/blinklabs-io/goledger/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampEncode(t *testing.T) {
	ts := wire.Timestamp{Seconds: 124124, Nanos: 151515}
	assert.Equal(t, "08dcc90710db9f09", hex.EncodeToString(ts.MarshalWire()))
	decoded, err := wire.UnmarshalTimestamp(ts.MarshalWire())
	require.NoError(t, err)
	assert.Equal(t, ts, decoded)
}

func TestTimestampZeroOmitted(t *testing.T) {
	assert.Empty(t, wire.Timestamp{}.MarshalWire())
	assert.Equal(t, "0801", hex.EncodeToString(wire.Timestamp{Seconds: 1}.MarshalWire()))
}

func TestTimestampAdd(t *testing.T) {
	ts := wire.Timestamp{Seconds: 10, Nanos: 999_999_999}
	assert.Equal(t, wire.Timestamp{Seconds: 11, Nanos: 0}, ts.Add(time.Nanosecond))
	assert.Equal(t, "11.000000000", ts.Add(time.Nanosecond).String())
}

func TestDurationRoundTrip(t *testing.T) {
	d := wire.NewDuration(120 * time.Second)
	decoded, err := wire.UnmarshalDuration(d.MarshalWire())
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, decoded.Duration())
}

func TestEncoderFieldTypes(t *testing.T) {
	e := wire.NewEncoder()
	e.Uint64Field(1, 300)
	e.Int32Field(2, -1)
	e.Sint64Field(3, -2)
	e.BoolField(4, true)
	e.BytesField(5, []byte{0xab})
	e.StringField(6, "hi")
	e.RawField(7, nil)
	fields, err := wire.Fields(e.Bytes())
	require.NoError(t, err)
	require.Len(t, fields, 7)
	u, err := fields[0].Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), u)
	i32, err := fields[1].Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), i32)
	s64, err := fields[2].Sint64()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), s64)
	b, err := fields[3].Bool()
	require.NoError(t, err)
	assert.True(t, b)
	raw, err := fields[4].Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xab}, raw)
	str, err := fields[5].String()
	require.NoError(t, err)
	assert.Equal(t, "hi", str)
	empty, err := fields[6].Bytes()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEncoderOmitsZeroValues(t *testing.T) {
	e := wire.NewEncoder()
	e.Uint64Field(1, 0)
	e.Sint64Field(2, 0)
	e.BoolField(3, false)
	e.BytesField(4, nil)
	e.StringField(5, "")
	e.MessageField(6, nil)
	assert.Equal(t, 0, e.Len())
}

func TestFieldWrongType(t *testing.T) {
	e := wire.NewEncoder()
	e.Uint64Field(1, 5)
	fields, err := wire.Fields(e.Bytes())
	require.NoError(t, err)
	_, err = fields[0].Bytes()
	assert.ErrorIs(t, err, wire.ErrWireType)
}

func TestDecoderMalformed(t *testing.T) {
	// Length prefix claims more data than is present
	_, err := wire.Fields([]byte{0x0a, 0x05, 0x01})
	assert.Error(t, err)
	// Truncated varint
	_, err = wire.Fields([]byte{0x08, 0x80})
	assert.Error(t, err)
}
