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

package entity

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const checksumLength = 5

// LedgerId identifies a network for the purpose of entity ID checksums
type LedgerId []byte

var (
	LedgerIdMainnet    = LedgerId{0x00}
	LedgerIdTestnet    = LedgerId{0x01}
	LedgerIdPreviewnet = LedgerId{0x02}
	LedgerIdLocal      = LedgerId{0x03}
)

var ledgerIdNames = map[string]LedgerId{
	"mainnet":    LedgerIdMainnet,
	"testnet":    LedgerIdTestnet,
	"previewnet": LedgerIdPreviewnet,
	"local":      LedgerIdLocal,
}

// ParseLedgerId accepts a well-known network name or a hex string
func ParseLedgerId(s string) (LedgerId, error) {
	if ret, ok := ledgerIdNames[strings.ToLower(s)]; ok {
		return ret, nil
	}
	ret, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(ret) == 0 {
		return nil, fmt.Errorf("invalid ledger ID: %q", s)
	}
	return LedgerId(ret), nil
}

func (l LedgerId) String() string {
	for name, id := range ledgerIdNames {
		if l.Equal(id) {
			return name
		}
	}
	return hex.EncodeToString(l)
}

func (l LedgerId) Equal(other LedgerId) bool {
	return string(l) == string(other)
}

// ChecksumError is returned when an entity ID checksum doesn't match the ledger in use
type ChecksumError struct {
	Id       EntityId
	Expected string
	Actual   string
}

func (e ChecksumError) Error() string {
	return fmt.Sprintf(
		"network mismatch or invalid checksum for entity %s: expected %s, got %s",
		e.Id.String(),
		e.Expected,
		e.Actual,
	)
}

// Checksum calculates the 5-letter checksum of the EntityId for the provided ledger
func (e EntityId) Checksum(ledgerId LedgerId) string {
	const (
		p3 = 26 * 26 * 26
		p5 = 26 * 26 * 26 * 26 * 26
		m  = 1_000_003
		w  = 31
	)
	addr := e.String()
	var sd0, sd1, sd uint64
	for i := range len(addr) {
		var digit uint64
		if addr[i] == '.' {
			digit = 10
		} else {
			digit = uint64(addr[i] - '0')
		}
		sd = (w*sd + digit) % p3
		if i%2 == 0 {
			sd0 = (sd0 + digit) % 11
		} else {
			sd1 = (sd1 + digit) % 11
		}
	}
	// The ledger ID is padded with 6 zero bytes
	h := make([]byte, len(ledgerId)+6)
	copy(h, ledgerId)
	var sh uint64
	for _, b := range h {
		sh = (w*sh + uint64(b)) % p5
	}
	c := ((((uint64(len(addr))%5)*11+sd0)*11+sd1)*p3 + sd + sh) % p5
	cp := (c * m) % p5
	ret := make([]byte, checksumLength)
	for i := checksumLength - 1; i >= 0; i-- {
		ret[i] = byte('a' + cp%26)
		cp /= 26
	}
	return string(ret)
}

// StringWithChecksum returns the EntityId with its checksum for the provided ledger
func (e EntityId) StringWithChecksum(ledgerId LedgerId) string {
	return e.String() + "-" + e.Checksum(ledgerId)
}

// ValidateChecksum checks the provided checksum against the one calculated for the ledger
func (e EntityId) ValidateChecksum(checksum string, ledgerId LedgerId) error {
	expected := e.Checksum(ledgerId)
	if checksum != expected {
		return ChecksumError{
			Id:       e,
			Expected: expected,
			Actual:   checksum,
		}
	}
	return nil
}
