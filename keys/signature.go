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

package keys

import (
	"fmt"

	"github.com/blinklabs-io/goledger/wire"
)

const (
	sigPairFieldPubKeyPrefix   = 1
	sigPairFieldEd25519        = 3
	sigPairFieldEcdsaSecp256k1 = 6
	sigMapFieldSigPair         = 1
)

// SignaturePair associates a signature with the public key that produced it. The full public
// key is always used as the prefix on the wire
type SignaturePair struct {
	PublicKey PublicKey
	Signature []byte
}

func (s SignaturePair) MarshalWire() []byte {
	e := wire.NewEncoder()
	e.BytesField(sigPairFieldPubKeyPrefix, s.PublicKey.raw)
	switch s.PublicKey.algorithm {
	case AlgorithmEd25519:
		e.RawField(sigPairFieldEd25519, s.Signature)
	case AlgorithmEcdsaSecp256k1:
		e.RawField(sigPairFieldEcdsaSecp256k1, s.Signature)
	}
	return e.Bytes()
}

// UnmarshalSignaturePair decodes a SignaturePair message. The prefix must hold the full public key
func UnmarshalSignaturePair(data []byte) (SignaturePair, error) {
	var prefix []byte
	var algorithm Algorithm
	var sig []byte
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case sigPairFieldPubKeyPrefix:
			prefix, err = f.Bytes()
		case sigPairFieldEd25519:
			algorithm = AlgorithmEd25519
			sig, err = f.Bytes()
		case sigPairFieldEcdsaSecp256k1:
			algorithm = AlgorithmEcdsaSecp256k1
			sig, err = f.Bytes()
		}
		if err != nil {
			return SignaturePair{}, err
		}
	}
	if err := d.Err(); err != nil {
		return SignaturePair{}, err
	}
	if algorithm == 0 {
		return SignaturePair{}, fmt.Errorf("%w: signature pair has no supported signature", ErrInvalidKey)
	}
	pub, err := NewPublicKey(algorithm, prefix)
	if err != nil {
		return SignaturePair{}, err
	}
	tmp := make([]byte, len(sig))
	copy(tmp, sig)
	return SignaturePair{PublicKey: pub, Signature: tmp}, nil
}

// SignatureMap is the ordered set of signatures attached to a single body
type SignatureMap []SignaturePair

// Contains reports whether the map holds a signature from the key
func (m SignatureMap) Contains(pub PublicKey) bool {
	for _, pair := range m {
		if pair.PublicKey.Equal(pub) {
			return true
		}
	}
	return false
}

func (m SignatureMap) MarshalWire() []byte {
	e := wire.NewEncoder()
	for _, pair := range m {
		e.RawField(sigMapFieldSigPair, pair.MarshalWire())
	}
	return e.Bytes()
}

// UnmarshalSignatureMap decodes a SignatureMap message
func UnmarshalSignatureMap(data []byte) (SignatureMap, error) {
	var ret SignatureMap
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number != sigMapFieldSigPair {
			continue
		}
		raw, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		pair, err := UnmarshalSignaturePair(raw)
		if err != nil {
			return nil, err
		}
		ret = append(ret, pair)
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}
