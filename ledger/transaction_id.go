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

package ledger

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/wire"
)

const (
	transactionIdFieldValidStart = 1
	transactionIdFieldAccountId  = 2
	transactionIdFieldScheduled  = 3
	transactionIdFieldNonce      = 4
)

// Generated transaction IDs start slightly in the past to tolerate clock drift between the
// client and the network
const (
	validStartBackdate = 10 * time.Second
	validStartJitter   = time.Second
)

// TransactionId uniquely names one logical transaction across every node it is sent to. A zero
// Nonce is treated as absent
type TransactionId struct {
	AccountId  entity.EntityId
	ValidStart wire.Timestamp
	Scheduled  bool
	Nonce      uint32
}

// NewTransactionId generates a transaction ID for the payer from the current time
func NewTransactionId(payer entity.EntityId) TransactionId {
	backdate := validStartBackdate - time.Duration(rand.Int64N(int64(validStartJitter)))
	return NewTransactionIdWithValidStart(payer, time.Now().Add(-backdate))
}

// NewTransactionIdWithValidStart returns a transaction ID for the payer with an explicit valid start
func NewTransactionIdWithValidStart(payer entity.EntityId, validStart time.Time) TransactionId {
	return TransactionId{
		AccountId:  payer,
		ValidStart: wire.NewTimestamp(validStart),
	}
}

// ParseTransactionId decodes a transaction ID in account@seconds.nanos[?scheduled][/nonce] form
func ParseTransactionId(s string) (TransactionId, error) {
	invalid := func(cause error) error {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("invalid transaction ID %q", s),
			nil,
			cause,
		)
	}
	var ret TransactionId
	rest := s
	if idx := strings.LastIndexByte(rest, '/'); idx >= 0 {
		nonce, err := strconv.ParseUint(rest[idx+1:], 10, 32)
		if err != nil {
			return TransactionId{}, invalid(err)
		}
		ret.Nonce = uint32(nonce)
		rest = rest[:idx]
	}
	if tmp, ok := strings.CutSuffix(rest, "?scheduled"); ok {
		ret.Scheduled = true
		rest = tmp
	}
	account, validStart, ok := strings.Cut(rest, "@")
	if !ok {
		return TransactionId{}, invalid(nil)
	}
	accountId, err := entity.Parse(account)
	if err != nil {
		return TransactionId{}, invalid(err)
	}
	ret.AccountId = accountId
	secs, nanos, ok := strings.Cut(validStart, ".")
	if !ok {
		return TransactionId{}, invalid(nil)
	}
	ret.ValidStart.Seconds, err = strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return TransactionId{}, invalid(err)
	}
	tmpNanos, err := strconv.ParseUint(nanos, 10, 32)
	if err != nil {
		return TransactionId{}, invalid(err)
	}
	if tmpNanos >= uint64(time.Second) {
		return TransactionId{}, invalid(nil)
	}
	ret.ValidStart.Nanos = int32(tmpNanos)
	return ret, nil
}

func (t TransactionId) String() string {
	var sb strings.Builder
	sb.WriteString(t.AccountId.String())
	sb.WriteString("@")
	sb.WriteString(t.ValidStart.String())
	if t.Scheduled {
		sb.WriteString("?scheduled")
	}
	if t.Nonce != 0 {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(t.Nonce), 10))
	}
	return sb.String()
}

// IsZero reports whether the transaction ID is unset
func (t TransactionId) IsZero() bool {
	return t == TransactionId{}
}

// offset returns a copy of the transaction ID with the valid start advanced by n nanoseconds
func (t TransactionId) offset(n int) TransactionId {
	t.ValidStart = t.ValidStart.Add(time.Duration(n))
	return t
}

func (t TransactionId) MarshalWire() []byte {
	e := wire.NewEncoder()
	e.MessageField(transactionIdFieldValidStart, t.ValidStart)
	e.MessageField(transactionIdFieldAccountId, t.AccountId)
	e.BoolField(transactionIdFieldScheduled, t.Scheduled)
	e.Int32Field(transactionIdFieldNonce, int32(t.Nonce))
	return e.Bytes()
}

// UnmarshalTransactionId decodes an embedded TransactionID message
func UnmarshalTransactionId(data []byte) (TransactionId, error) {
	var ret TransactionId
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case transactionIdFieldValidStart:
			var raw []byte
			if raw, err = f.Bytes(); err == nil {
				ret.ValidStart, err = wire.UnmarshalTimestamp(raw)
			}
		case transactionIdFieldAccountId:
			var raw []byte
			if raw, err = f.Bytes(); err == nil {
				ret.AccountId, err = entity.UnmarshalWire(raw)
			}
		case transactionIdFieldScheduled:
			ret.Scheduled, err = f.Bool()
		case transactionIdFieldNonce:
			var nonce int32
			nonce, err = f.Int32()
			ret.Nonce = uint32(nonce)
		}
		if err != nil {
			return TransactionId{}, err
		}
	}
	return ret, d.Err()
}
