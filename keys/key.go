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

// Package keys implements the key model: single public keys, private (signing) keys, ordered
// key lists and threshold keys. Key lists and threshold keys nest arbitrarily.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/goledger/wire"
)

// Key field numbers in the Key message
const (
	keyFieldEd25519         = 2
	keyFieldThresholdKey    = 5
	keyFieldKeyList         = 6
	keyFieldEcdsaSecp256k1  = 7
	thresholdFieldThreshold = 1
	thresholdFieldKeys      = 2
	keyListFieldKeys        = 1
)

var ErrInvalidKey = errors.New("invalid key")

// Key is one of PublicKey, PrivateKey, *KeyList or *ThresholdKey
type Key interface {
	wire.Marshaler
	String() string
	isKey()
}

// KeyList is an ordered list of keys that is satisfied only when every child is satisfied
type KeyList struct {
	Keys []Key
}

// NewKeyList returns a KeyList containing the provided keys in order
func NewKeyList(keys ...Key) *KeyList {
	return &KeyList{Keys: keys}
}

func (*KeyList) isKey() {}

// Add appends a key to the list
func (k *KeyList) Add(key Key) {
	k.Keys = append(k.Keys, key)
}

func (k *KeyList) MarshalWire() []byte {
	return MarshalKey(k)
}

func (k *KeyList) String() string {
	return "{keys:" + keysString(k.Keys) + "}"
}

// ThresholdKey is satisfied when at least Threshold of its children are satisfied
type ThresholdKey struct {
	Threshold uint32
	Keys      []Key
}

// NewThresholdKey returns a ThresholdKey, rejecting thresholds outside of 1..len(keys)
func NewThresholdKey(threshold uint32, keys ...Key) (*ThresholdKey, error) {
	if threshold == 0 || int(threshold) > len(keys) {
		return nil, fmt.Errorf(
			"%w: threshold %d must be between 1 and the number of keys (%d)",
			ErrInvalidKey,
			threshold,
			len(keys),
		)
	}
	return &ThresholdKey{Threshold: threshold, Keys: keys}, nil
}

func (*ThresholdKey) isKey() {}

func (k *ThresholdKey) MarshalWire() []byte {
	return MarshalKey(k)
}

func (k *ThresholdKey) String() string {
	return fmt.Sprintf("{threshold:%d,keys:%s}", k.Threshold, keysString(k.Keys))
}

func keysString(keys []Key) string {
	tmp := make([]string, 0, len(keys))
	for _, key := range keys {
		tmp = append(tmp, key.String())
	}
	return "[" + strings.Join(tmp, ",") + "]"
}

// Verify reports whether the provided signatures satisfy the key for the message. A leaf key
// requires a valid signature from itself, a KeyList requires every child and a ThresholdKey
// requires at least Threshold children
func Verify(key Key, message []byte, sigs []SignaturePair) bool {
	switch k := key.(type) {
	case PublicKey:
		for _, sig := range sigs {
			if sig.PublicKey.Equal(k) && k.Verify(message, sig.Signature) {
				return true
			}
		}
		return false
	case PrivateKey:
		return Verify(k.PublicKey(), message, sigs)
	case *KeyList:
		for _, child := range k.Keys {
			if !Verify(child, message, sigs) {
				return false
			}
		}
		return true
	case *ThresholdKey:
		satisfied := 0
		for _, child := range k.Keys {
			if Verify(child, message, sigs) {
				satisfied++
				if satisfied >= int(k.Threshold) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// PublicKeys returns every leaf public key in the key, depth first
func PublicKeys(key Key) []PublicKey {
	switch k := key.(type) {
	case PublicKey:
		return []PublicKey{k}
	case PrivateKey:
		return []PublicKey{k.PublicKey()}
	case *KeyList:
		var ret []PublicKey
		for _, child := range k.Keys {
			ret = append(ret, PublicKeys(child)...)
		}
		return ret
	case *ThresholdKey:
		var ret []PublicKey
		for _, child := range k.Keys {
			ret = append(ret, PublicKeys(child)...)
		}
		return ret
	default:
		return nil
	}
}

// MarshalKey renders a key as a Key message. Private keys are rendered as their public key
func MarshalKey(key Key) []byte {
	e := wire.NewEncoder()
	switch k := key.(type) {
	case PublicKey:
		switch k.algorithm {
		case AlgorithmEd25519:
			e.RawField(keyFieldEd25519, k.raw)
		case AlgorithmEcdsaSecp256k1:
			e.RawField(keyFieldEcdsaSecp256k1, k.raw)
		}
	case PrivateKey:
		return MarshalKey(k.PublicKey())
	case *KeyList:
		e.RawField(keyFieldKeyList, marshalKeyList(k.Keys))
	case *ThresholdKey:
		tmp := wire.NewEncoder()
		tmp.Uint64Field(thresholdFieldThreshold, uint64(k.Threshold))
		tmp.RawField(thresholdFieldKeys, marshalKeyList(k.Keys))
		e.RawField(keyFieldThresholdKey, tmp.Bytes())
	}
	return e.Bytes()
}

func marshalKeyList(keys []Key) []byte {
	e := wire.NewEncoder()
	for _, key := range keys {
		e.RawField(keyListFieldKeys, MarshalKey(key))
	}
	return e.Bytes()
}

// UnmarshalKey decodes a Key message
func UnmarshalKey(data []byte) (Key, error) {
	var ret Key
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		switch f.Number {
		case keyFieldEd25519, keyFieldEcdsaSecp256k1:
			raw, err := f.Bytes()
			if err != nil {
				return nil, err
			}
			algorithm := AlgorithmEd25519
			if f.Number == keyFieldEcdsaSecp256k1 {
				algorithm = AlgorithmEcdsaSecp256k1
			}
			pub, err := NewPublicKey(algorithm, raw)
			if err != nil {
				return nil, err
			}
			ret = pub
		case keyFieldKeyList:
			raw, err := f.Bytes()
			if err != nil {
				return nil, err
			}
			list, err := unmarshalKeyList(raw)
			if err != nil {
				return nil, err
			}
			ret = &KeyList{Keys: list}
		case keyFieldThresholdKey:
			raw, err := f.Bytes()
			if err != nil {
				return nil, err
			}
			tmp, err := unmarshalThresholdKey(raw)
			if err != nil {
				return nil, err
			}
			ret = tmp
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("%w: no supported key type present", ErrInvalidKey)
	}
	return ret, nil
}

func unmarshalKeyList(data []byte) ([]Key, error) {
	var ret []Key
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number != keyListFieldKeys {
			continue
		}
		raw, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		key, err := UnmarshalKey(raw)
		if err != nil {
			return nil, err
		}
		ret = append(ret, key)
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func unmarshalThresholdKey(data []byte) (*ThresholdKey, error) {
	var threshold uint64
	var haveThreshold bool
	var children []Key
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case thresholdFieldThreshold:
			threshold, err = f.Uint64()
			haveThreshold = true
		case thresholdFieldKeys:
			var raw []byte
			raw, err = f.Bytes()
			if err == nil {
				children, err = unmarshalKeyList(raw)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	if !haveThreshold {
		return nil, fmt.Errorf("%w: threshold key is missing its threshold", ErrInvalidKey)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: threshold key has no keys", ErrInvalidKey)
	}
	if threshold > uint64(len(children)) {
		return nil, fmt.Errorf(
			"%w: threshold %d exceeds number of keys (%d)",
			ErrInvalidKey,
			threshold,
			len(children),
		)
	}
	return NewThresholdKey(uint32(threshold), children...)
}
