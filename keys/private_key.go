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
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer produces a signature over a message on behalf of a public key. It may block, for
// example while waiting on a hardware device or a remote party
type Signer func(ctx context.Context, message []byte) ([]byte, error)

// DER prefixes for the PKCS#8 encodings of each algorithm
const (
	ed25519PrivateKeyDerPrefix = "302e020100300506032b657004220420"
	ecdsaPrivateKeyDerPrefix   = "3030020100300706052b8104000a04220420"
)

// PrivateKey is a signing key. It is never serialized as a key itself: when placed in a key
// structure, only its public key is encoded
type PrivateKey struct {
	algorithm Algorithm
	ed25519   ed25519.PrivateKey
	ecdsa     *secp256k1.PrivateKey
}

func (PrivateKey) isKey() {}

// GeneratePrivateKeyEd25519 returns a new random ed25519 key
func GeneratePrivateKeyEd25519() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{algorithm: AlgorithmEd25519, ed25519: priv}, nil
}

// GeneratePrivateKeyEcdsa returns a new random ECDSA(secp256k1) key
func GeneratePrivateKeyEcdsa() (PrivateKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{algorithm: AlgorithmEcdsaSecp256k1, ecdsa: priv}, nil
}

// PrivateKeyFromSeedEd25519 derives an ed25519 key from a 32-byte seed
func PrivateKeyFromSeedEd25519(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return PrivateKey{}, fmt.Errorf(
			"%w: ed25519 seed must be %d bytes, got %d",
			ErrInvalidKey,
			ed25519.SeedSize,
			len(seed),
		)
	}
	return PrivateKey{
		algorithm: AlgorithmEd25519,
		ed25519:   ed25519.NewKeyFromSeed(seed),
	}, nil
}

// PrivateKeyFromBytesEcdsa returns an ECDSA(secp256k1) key from its 32-byte scalar
func PrivateKeyFromBytesEcdsa(raw []byte) (PrivateKey, error) {
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return PrivateKey{}, fmt.Errorf(
			"%w: ECDSA private key must be %d bytes, got %d",
			ErrInvalidKey,
			secp256k1.PrivKeyBytesLen,
			len(raw),
		)
	}
	return PrivateKey{
		algorithm: AlgorithmEcdsaSecp256k1,
		ecdsa:     secp256k1.PrivKeyFromBytes(raw),
	}, nil
}

// ParsePrivateKey decodes a hex private key. DER-encoded keys of both algorithms are
// recognized. Raw 32-byte keys are treated as ed25519 seeds, and raw 64-byte keys as an
// ed25519 seed followed by its public key
func ParsePrivateKey(s string) (PrivateKey, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "0x"))
	switch {
	case strings.HasPrefix(s, ed25519PrivateKeyDerPrefix):
		return ParsePrivateKeyEd25519(s[len(ed25519PrivateKeyDerPrefix):])
	case strings.HasPrefix(s, ecdsaPrivateKeyDerPrefix):
		return ParsePrivateKeyEcdsa(s[len(ecdsaPrivateKeyDerPrefix):])
	}
	return ParsePrivateKeyEd25519(s)
}

// ParsePrivateKeyEd25519 decodes a raw hex ed25519 seed (or seed plus public key)
func ParsePrivateKeyEd25519(s string) (PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, ed25519PrivateKeyDerPrefix))
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(raw) == ed25519.PrivateKeySize {
		raw = raw[:ed25519.SeedSize]
	}
	return PrivateKeyFromSeedEd25519(raw)
}

// ParsePrivateKeyEcdsa decodes a raw hex ECDSA(secp256k1) scalar
func ParsePrivateKeyEcdsa(s string) (PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, ecdsaPrivateKeyDerPrefix))
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return PrivateKeyFromBytesEcdsa(raw)
}

// Algorithm returns the signature algorithm of the key
func (k PrivateKey) Algorithm() Algorithm {
	return k.algorithm
}

// PublicKey returns the verifying key for this signing key
func (k PrivateKey) PublicKey() PublicKey {
	switch k.algorithm {
	case AlgorithmEd25519:
		pub := k.ed25519.Public().(ed25519.PublicKey)
		raw := make([]byte, len(pub))
		copy(raw, pub)
		return PublicKey{algorithm: AlgorithmEd25519, raw: raw}
	case AlgorithmEcdsaSecp256k1:
		return PublicKey{
			algorithm: AlgorithmEcdsaSecp256k1,
			raw:       k.ecdsa.PubKey().SerializeCompressed(),
		}
	default:
		return PublicKey{}
	}
}

// Sign returns the signature of the message. ECDSA signatures are computed over the
// Keccak-256 digest of the message and returned as r||s
func (k PrivateKey) Sign(message []byte) []byte {
	switch k.algorithm {
	case AlgorithmEd25519:
		return ed25519.Sign(k.ed25519, message)
	case AlgorithmEcdsaSecp256k1:
		// The compact form is a recovery byte followed by r and s
		compact := ecdsa.SignCompact(k.ecdsa, keccak256(message), true)
		return compact[1:]
	default:
		return nil
	}
}

// Bytes returns the raw private key: the 32-byte seed for ed25519 or the 32-byte scalar for ECDSA
func (k PrivateKey) Bytes() []byte {
	switch k.algorithm {
	case AlgorithmEd25519:
		return k.ed25519.Seed()
	case AlgorithmEcdsaSecp256k1:
		return k.ecdsa.Serialize()
	default:
		return nil
	}
}

// StringDer returns the DER-encoded private key as hex
func (k PrivateKey) StringDer() string {
	switch k.algorithm {
	case AlgorithmEd25519:
		return ed25519PrivateKeyDerPrefix + hex.EncodeToString(k.Bytes())
	case AlgorithmEcdsaSecp256k1:
		return ecdsaPrivateKeyDerPrefix + hex.EncodeToString(k.Bytes())
	default:
		return ""
	}
}

// String returns the public key. Private key material is only exposed through Bytes and StringDer
func (k PrivateKey) String() string {
	return k.PublicKey().String()
}

func (k PrivateKey) MarshalWire() []byte {
	return MarshalKey(k)
}

// Signer returns a Signer backed by this key
func (k PrivateKey) Signer() Signer {
	return func(_ context.Context, message []byte) ([]byte, error) {
		return k.Sign(message), nil
	}
}
