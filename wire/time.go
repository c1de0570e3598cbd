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
	"fmt"
	"time"
)

// Timestamp is a point in time with nanosecond precision
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// NewTimestamp converts a time.Time into a Timestamp
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()),
	}
}

// Time returns the Timestamp as a UTC time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// Add returns the Timestamp advanced by the provided duration
func (t Timestamp) Add(d time.Duration) Timestamp {
	return NewTimestamp(t.Time().Add(d))
}

// String returns the Timestamp in seconds.nanoseconds form
func (t Timestamp) String() string {
	return fmt.Sprintf("%d.%09d", t.Seconds, t.Nanos)
}

func (t Timestamp) MarshalWire() []byte {
	e := NewEncoder()
	e.Int64Field(1, t.Seconds)
	e.Int32Field(2, t.Nanos)
	return e.Bytes()
}

// UnmarshalTimestamp decodes an embedded Timestamp message
func UnmarshalTimestamp(data []byte) (Timestamp, error) {
	var ret Timestamp
	var err error
	d := NewDecoder(data)
	for d.Next() {
		f := d.Field()
		switch f.Number {
		case 1:
			ret.Seconds, err = f.Int64()
		case 2:
			ret.Nanos, err = f.Int32()
		}
		if err != nil {
			return Timestamp{}, err
		}
	}
	return ret, d.Err()
}

// Duration is a span of time with second precision
type Duration struct {
	Seconds int64
}

// NewDuration converts a time.Duration into a Duration, truncating to whole seconds
func NewDuration(d time.Duration) Duration {
	return Duration{Seconds: int64(d / time.Second)}
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

func (d Duration) MarshalWire() []byte {
	e := NewEncoder()
	e.Int64Field(1, d.Seconds)
	return e.Bytes()
}

// UnmarshalDuration decodes an embedded Duration message
func UnmarshalDuration(data []byte) (Duration, error) {
	var ret Duration
	d := NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number == 1 {
			v, err := f.Int64()
			if err != nil {
				return Duration{}, err
			}
			ret.Seconds = v
		}
	}
	return ret, d.Err()
}
