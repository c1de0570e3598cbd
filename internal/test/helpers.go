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

// Package test holds fixtures shared by the package tests.
package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/goledger/keys"
)

// RFC 8032 test vector 1
const (
	Ed25519Seed      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	Ed25519PublicKey = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	// Ed25519EmptySig is the signature of the empty message
	Ed25519EmptySig = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
)

// DecodeHexString decodes hex test data inline, panicking on malformed input. Surrounding
// whitespace is ignored
func DecodeHexString(hexData string) []byte {
	decoded, err := hex.DecodeString(strings.TrimSpace(hexData))
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Ed25519PrivateKey returns the private key of the RFC 8032 test vector
func Ed25519PrivateKey() keys.PrivateKey {
	key, err := keys.PrivateKeyFromSeedEd25519(DecodeHexString(Ed25519Seed))
	if err != nil {
		panic(fmt.Sprintf("error loading test key: %s", err))
	}
	return key
}
