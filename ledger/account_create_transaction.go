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
	"time"

	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	bodyFieldCryptoCreateAccount = 11

	cryptoCreateFieldKey                 = 1
	cryptoCreateFieldInitialBalance      = 2
	cryptoCreateFieldReceiverSigRequired = 8
	cryptoCreateFieldAutoRenewPeriod     = 9
	cryptoCreateFieldMemo                = 13

	DefaultAutoRenewPeriod = 7776000 * time.Second
)

// AccountCreateTransaction creates a new account controlled by a key
type AccountCreateTransaction struct {
	transaction
	key                 keys.Key
	initialBalance      uint64
	receiverSigRequired bool
	autoRenewPeriod     time.Duration
	accountMemo         string
}

func NewAccountCreateTransaction() *AccountCreateTransaction {
	t := &AccountCreateTransaction{autoRenewPeriod: DefaultAutoRenewPeriod}
	t.init(t)
	return t
}

func (t *AccountCreateTransaction) Key() keys.Key {
	return t.key
}

// SetKey sets the key that must sign transactions on behalf of the new account
func (t *AccountCreateTransaction) SetKey(key keys.Key) error {
	if err := t.checkMutable("key"); err != nil {
		return err
	}
	t.key = key
	return nil
}

func (t *AccountCreateTransaction) InitialBalance() uint64 {
	return t.initialBalance
}

// SetInitialBalance sets the amount transferred from the payer to the new account
func (t *AccountCreateTransaction) SetInitialBalance(balance uint64) error {
	if err := t.checkMutable("initial balance"); err != nil {
		return err
	}
	t.initialBalance = balance
	return nil
}

func (t *AccountCreateTransaction) ReceiverSignatureRequired() bool {
	return t.receiverSigRequired
}

// SetReceiverSignatureRequired sets whether the account key must sign transfers into the account
func (t *AccountCreateTransaction) SetReceiverSignatureRequired(required bool) error {
	if err := t.checkMutable("receiver signature required"); err != nil {
		return err
	}
	t.receiverSigRequired = required
	return nil
}

func (t *AccountCreateTransaction) AutoRenewPeriod() time.Duration {
	return t.autoRenewPeriod
}

func (t *AccountCreateTransaction) SetAutoRenewPeriod(period time.Duration) error {
	if err := t.checkMutable("auto renew period"); err != nil {
		return err
	}
	t.autoRenewPeriod = period
	return nil
}

func (t *AccountCreateTransaction) AccountMemo() string {
	return t.accountMemo
}

// SetAccountMemo sets the memo stored on the new account, as opposed to the transaction memo
func (t *AccountCreateTransaction) SetAccountMemo(memo string) error {
	if err := t.checkMutable("account memo"); err != nil {
		return err
	}
	if len(memo) > MaxMemoLength {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("account memo must be at most %d bytes, got %d", MaxMemoLength, len(memo)),
			nil,
			nil,
		)
	}
	t.accountMemo = memo
	return nil
}

func (t *AccountCreateTransaction) kindName() string {
	return "AccountCreateTransaction"
}

func (t *AccountCreateTransaction) dataField() protowire.Number {
	return bodyFieldCryptoCreateAccount
}

func (t *AccountCreateTransaction) method() transport.Method {
	return transport.MethodCreateAccount
}

func (t *AccountCreateTransaction) validate() error {
	if t.key == nil {
		return NewValidationError(
			ValidationErrorTypeField,
			"account create transaction requires a key",
			nil,
			nil,
		)
	}
	if t.autoRenewPeriod < time.Second {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("auto renew period must be at least 1s, got %s", t.autoRenewPeriod),
			nil,
			nil,
		)
	}
	return nil
}

func (t *AccountCreateTransaction) chunkCount() (int, error) {
	return 1, nil
}

func (t *AccountCreateTransaction) marshalData(chunkContext) []byte {
	e := wire.NewEncoder()
	e.RawField(cryptoCreateFieldKey, keys.MarshalKey(t.key))
	e.Uint64Field(cryptoCreateFieldInitialBalance, t.initialBalance)
	e.BoolField(cryptoCreateFieldReceiverSigRequired, t.receiverSigRequired)
	e.MessageField(cryptoCreateFieldAutoRenewPeriod, wire.NewDuration(t.autoRenewPeriod))
	e.StringField(cryptoCreateFieldMemo, t.accountMemo)
	return e.Bytes()
}

func (t *AccountCreateTransaction) unmarshalData(chunks [][]byte) error {
	if len(chunks) != 1 {
		return errNotChunked(t.kindName(), len(chunks))
	}
	d := wire.NewDecoder(chunks[0])
	for d.Next() {
		f := d.Field()
		var err error
		var raw []byte
		switch f.Number {
		case cryptoCreateFieldKey:
			if raw, err = f.Bytes(); err == nil {
				t.key, err = keys.UnmarshalKey(raw)
			}
		case cryptoCreateFieldInitialBalance:
			t.initialBalance, err = f.Uint64()
		case cryptoCreateFieldReceiverSigRequired:
			t.receiverSigRequired, err = f.Bool()
		case cryptoCreateFieldAutoRenewPeriod:
			if raw, err = f.Bytes(); err == nil {
				var tmp wire.Duration
				tmp, err = wire.UnmarshalDuration(raw)
				t.autoRenewPeriod = tmp.Duration()
			}
		case cryptoCreateFieldMemo:
			t.accountMemo, err = f.String()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
