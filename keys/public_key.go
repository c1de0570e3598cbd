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
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies a signature algorithm
type Algorithm uint8

const (
	AlgorithmEd25519 Algorithm = iota + 1
	AlgorithmEcdsaSecp256k1
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmEd25519:
		return "ed25519"
	case AlgorithmEcdsaSecp256k1:
		return "ECDSA(secp256k1)"
	default:
		return "unknown"
	}
}

// DER prefixes for the SubjectPublicKeyInfo encodings of each algorithm
const (
	ed25519PublicKeyDerPrefix = "302a300506032b6570032100"
	ecdsaPublicKeyDerPrefix   = "302d300706052b8104000a032200"
)

const (
	ecdsaCompressedPublicKeySize   = 33
	ecdsaUncompressedPublicKeySize = 65
	ecdsaSignatureSize             = 64
)

// PublicKey is a verifying key for one of the supported algorithms
type PublicKey struct {
	algorithm Algorithm
	raw       []byte
}

func (PublicKey) isKey() {}

// NewPublicKey validates the raw key bytes for the algorithm and returns a PublicKey.
// ECDSA keys are stored in compressed form
func NewPublicKey(algorithm Algorithm, raw []byte) (PublicKey, error) {
	switch algorithm {
	case AlgorithmEd25519:
		if len(raw) != ed25519.PublicKeySize {
			return PublicKey{}, fmt.Errorf(
				"%w: ed25519 public key must be %d bytes, got %d",
				ErrInvalidKey,
				ed25519.PublicKeySize,
				len(raw),
			)
		}
		// Make sure the key is a valid curve point
		if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
			return PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
	case AlgorithmEcdsaSecp256k1:
		pub, err := secp256k1.ParsePubKey(raw)
		if err != nil {
			return PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		raw = pub.SerializeCompressed()
	default:
		return PublicKey{}, fmt.Errorf("%w: unknown algorithm %d", ErrInvalidKey, algorithm)
	}
	tmp := make([]byte, len(raw))
	copy(tmp, raw)
	return PublicKey{algorithm: algorithm, raw: tmp}, nil
}

// ParsePublicKey decodes a hex public key. Raw ed25519 (32 bytes), raw ECDSA (33 or 65 bytes)
// and DER-encoded keys of both algorithms are accepted
func ParsePublicKey(s string) (PublicKey, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "0x"))
	switch {
	case strings.HasPrefix(s, ed25519PublicKeyDerPrefix):
		return parsePublicKeyHex(AlgorithmEd25519, s[len(ed25519PublicKeyDerPrefix):])
	case strings.HasPrefix(s, ecdsaPublicKeyDerPrefix):
		return parsePublicKeyHex(AlgorithmEcdsaSecp256k1, s[len(ecdsaPublicKeyDerPrefix):])
	}
	switch len(s) / 2 {
	case ed25519.PublicKeySize:
		return parsePublicKeyHex(AlgorithmEd25519, s)
	case ecdsaCompressedPublicKeySize, ecdsaUncompressedPublicKeySize:
		return parsePublicKeyHex(AlgorithmEcdsaSecp256k1, s)
	}
	return PublicKey{}, fmt.Errorf("%w: unrecognized public key encoding", ErrInvalidKey)
}

func parsePublicKeyHex(algorithm Algorithm, s string) (PublicKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewPublicKey(algorithm, raw)
}

// Algorithm returns the signature algorithm of the key
func (k PublicKey) Algorithm() Algorithm {
	return k.algorithm
}

// Bytes returns the raw key bytes
func (k PublicKey) Bytes() []byte {
	ret := make([]byte, len(k.raw))
	copy(ret, k.raw)
	return ret
}

// IsZero reports whether this is the zero value
func (k PublicKey) IsZero() bool {
	return k.algorithm == 0
}

// Equal compares keys by algorithm and raw bytes
func (k PublicKey) Equal(other PublicKey) bool {
	return k.algorithm == other.algorithm && bytes.Equal(k.raw, other.raw)
}

// String returns the raw key as hex
func (k PublicKey) String() string {
	return hex.EncodeToString(k.raw)
}

// StringDer returns the DER-encoded key as hex
func (k PublicKey) StringDer() string {
	switch k.algorithm {
	case AlgorithmEd25519:
		return ed25519PublicKeyDerPrefix + k.String()
	case AlgorithmEcdsaSecp256k1:
		return ecdsaPublicKeyDerPrefix + k.String()
	default:
		return k.String()
	}
}

func (k PublicKey) MarshalWire() []byte {
	return MarshalKey(k)
}

// Verify reports whether the signature is valid for the message under this key
func (k PublicKey) Verify(message []byte, signature []byte) bool {
	switch k.algorithm {
	case AlgorithmEd25519:
		if len(signature) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(k.raw), message, signature)
	case AlgorithmEcdsaSecp256k1:
		if len(signature) != ecdsaSignatureSize {
			return false
		}
		pub, err := secp256k1.ParsePubKey(k.raw)
		if err != nil {
			return false
		}
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(signature[:32]); overflow {
			return false
		}
		if overflow := s.SetByteSlice(signature[32:]); overflow {
			return false
		}
		return ecdsa.NewSignature(&r, &s).Verify(keccak256(message), pub)
	default:
		return false
	}
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
