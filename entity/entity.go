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

// Package entity implements the shard.realm.num identifiers used for every network entity
package entity

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/goledger/wire"
)

// AddressLength is the size of the fixed-width address form of an EntityId
const AddressLength = 20

var ErrInvalidEntityId = errors.New("invalid entity ID")

// EntityId is the three-part hierarchical identifier of a network entity. It is a plain value
// type and may be compared with ==
type EntityId struct {
	Shard uint64
	Realm uint64
	Num   uint64
}

// New returns an EntityId from the provided components, rejecting negative values
func New(shard, realm, num int64) (EntityId, error) {
	if shard < 0 || realm < 0 || num < 0 {
		return EntityId{}, fmt.Errorf(
			"%w: negative component in %d.%d.%d",
			ErrInvalidEntityId,
			shard,
			realm,
			num,
		)
	}
	return EntityId{
		Shard: uint64(shard),
		Realm: uint64(realm),
		Num:   uint64(num),
	}, nil
}

// FromNum returns an EntityId in shard 0, realm 0
func FromNum(num int64) (EntityId, error) {
	return New(0, 0, num)
}

// Parse decodes an EntityId from its dotted form. A trailing checksum (0.0.3-abcde) is accepted
// but not validated. Use ParseChecked to validate it against a ledger
func Parse(s string) (EntityId, error) {
	id, _, err := parse(s)
	return id, err
}

// ParseChecked decodes an EntityId from its dotted form and validates the trailing checksum, if
// any, against the provided ledger
func ParseChecked(s string, ledgerId LedgerId) (EntityId, error) {
	id, checksum, err := parse(s)
	if err != nil {
		return EntityId{}, err
	}
	if checksum != "" {
		if err := id.ValidateChecksum(checksum, ledgerId); err != nil {
			return EntityId{}, err
		}
	}
	return id, nil
}

func parse(s string) (EntityId, string, error) {
	var checksum string
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		checksum = s[idx+1:]
		s = s[:idx]
		if len(checksum) != checksumLength {
			return EntityId{}, "", fmt.Errorf(
				"%w: malformed checksum %q",
				ErrInvalidEntityId,
				checksum,
			)
		}
	}
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return EntityId{}, "", fmt.Errorf(
			"%w: expected shard.realm.num, got %q",
			ErrInvalidEntityId,
			s,
		)
	}
	var vals [3]uint64
	for i, part := range parts {
		// ParseUint rejects a leading sign, which covers negative components
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return EntityId{}, "", fmt.Errorf("%w: %q: %w", ErrInvalidEntityId, s, err)
		}
		vals[i] = v
	}
	return EntityId{Shard: vals[0], Realm: vals[1], Num: vals[2]}, checksum, nil
}

// String returns the EntityId in shard.realm.num form
func (e EntityId) String() string {
	return fmt.Sprintf("%d.%d.%d", e.Shard, e.Realm, e.Num)
}

// IsZero reports whether the EntityId is the zero value
func (e EntityId) IsZero() bool {
	return e == EntityId{}
}

// ToAddress returns the 20-byte address form: the low 4 bytes of shard, then all 8 bytes of
// realm and num, big-endian
func (e EntityId) ToAddress() [AddressLength]byte {
	var ret [AddressLength]byte
	binary.BigEndian.PutUint32(ret[0:4], uint32(e.Shard))
	binary.BigEndian.PutUint64(ret[4:12], e.Realm)
	binary.BigEndian.PutUint64(ret[12:20], e.Num)
	return ret
}

// AddressHex returns the address form as a 40-character hex string
func (e EntityId) AddressHex() string {
	addr := e.ToAddress()
	return hex.EncodeToString(addr[:])
}

// FromAddress decodes an EntityId from its 20-byte address form
func FromAddress(addr []byte) (EntityId, error) {
	if len(addr) != AddressLength {
		return EntityId{}, fmt.Errorf(
			"%w: address must be %d bytes, got %d",
			ErrInvalidEntityId,
			AddressLength,
			len(addr),
		)
	}
	return EntityId{
		Shard: uint64(binary.BigEndian.Uint32(addr[0:4])),
		Realm: binary.BigEndian.Uint64(addr[4:12]),
		Num:   binary.BigEndian.Uint64(addr[12:20]),
	}, nil
}

// FromAddressHex decodes an EntityId from a hex address, with or without a 0x prefix
func FromAddressHex(s string) (EntityId, error) {
	s = strings.TrimPrefix(s, "0x")
	addr, err := hex.DecodeString(s)
	if err != nil {
		return EntityId{}, fmt.Errorf("%w: %w", ErrInvalidEntityId, err)
	}
	return FromAddress(addr)
}

// MarshalWire renders the EntityId as an AccountID/FileID/TopicID message, which all share the
// same field layout
func (e EntityId) MarshalWire() []byte {
	enc := wire.NewEncoder()
	enc.Uint64Field(1, e.Shard)
	enc.Uint64Field(2, e.Realm)
	enc.Uint64Field(3, e.Num)
	return enc.Bytes()
}

// UnmarshalWire decodes an AccountID/FileID/TopicID message
func UnmarshalWire(data []byte) (EntityId, error) {
	var ret EntityId
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case 1:
			ret.Shard, err = f.Uint64()
		case 2:
			ret.Realm, err = f.Uint64()
		case 3:
			ret.Num, err = f.Uint64()
		}
		if err != nil {
			return EntityId{}, err
		}
	}
	if err := d.Err(); err != nil {
		return EntityId{}, err
	}
	return ret, nil
}
