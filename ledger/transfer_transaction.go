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
	"cmp"
	"fmt"
	"slices"

	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	bodyFieldCryptoTransfer = 14

	cryptoTransferFieldTransfers = 1
	transferListFieldAmounts     = 1
	accountAmountFieldAccountId  = 1
	accountAmountFieldAmount     = 2
)

// Transfer is a signed balance change of one account
type Transfer struct {
	AccountId entity.EntityId
	Amount    int64
}

func (t Transfer) String() string {
	return fmt.Sprintf("%s: %d", t.AccountId, t.Amount)
}

func (t Transfer) MarshalWire() []byte {
	e := wire.NewEncoder()
	e.MessageField(accountAmountFieldAccountId, t.AccountId)
	e.Sint64Field(accountAmountFieldAmount, t.Amount)
	return e.Bytes()
}

func unmarshalTransfer(data []byte) (Transfer, error) {
	var ret Transfer
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case accountAmountFieldAccountId:
			ret.AccountId, err = entityField(f)
		case accountAmountFieldAmount:
			ret.Amount, err = f.Sint64()
		}
		if err != nil {
			return ret, err
		}
	}
	return ret, d.Err()
}

func marshalTransferList(transfers []Transfer) []byte {
	e := wire.NewEncoder()
	for _, transfer := range transfers {
		e.MessageField(transferListFieldAmounts, transfer)
	}
	return e.Bytes()
}

func unmarshalTransferList(data []byte) ([]Transfer, error) {
	var ret []Transfer
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number != transferListFieldAmounts {
			continue
		}
		raw, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		transfer, err := unmarshalTransfer(raw)
		if err != nil {
			return nil, err
		}
		ret = append(ret, transfer)
	}
	return ret, d.Err()
}

// TransferTransaction moves balances between accounts. The amounts must sum to zero
type TransferTransaction struct {
	transaction
	transfers []Transfer
}

func NewTransferTransaction() *TransferTransaction {
	t := &TransferTransaction{}
	t.init(t)
	return t
}

// AddTransfer adds amount to the balance change of the account. Transfers to the same account
// are merged
func (t *TransferTransaction) AddTransfer(accountId entity.EntityId, amount int64) error {
	if err := t.checkMutable("transfers"); err != nil {
		return err
	}
	for idx := range t.transfers {
		if t.transfers[idx].AccountId == accountId {
			t.transfers[idx].Amount += amount
			return nil
		}
	}
	t.transfers = append(t.transfers, Transfer{AccountId: accountId, Amount: amount})
	return nil
}

// Transfers returns the balance changes in the order they are encoded
func (t *TransferTransaction) Transfers() []Transfer {
	return sortedTransfers(t.transfers)
}

func sortedTransfers(transfers []Transfer) []Transfer {
	ret := slices.Clone(transfers)
	slices.SortStableFunc(ret, func(a, b Transfer) int {
		return compareEntityIds(a.AccountId, b.AccountId)
	})
	return ret
}

func compareEntityIds(a, b entity.EntityId) int {
	if c := cmp.Compare(a.Shard, b.Shard); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Realm, b.Realm); c != 0 {
		return c
	}
	return cmp.Compare(a.Num, b.Num)
}

func (t *TransferTransaction) kindName() string {
	return "TransferTransaction"
}

func (t *TransferTransaction) dataField() protowire.Number {
	return bodyFieldCryptoTransfer
}

func (t *TransferTransaction) method() transport.Method {
	return transport.MethodCryptoTransfer
}

func (t *TransferTransaction) validate() error {
	if len(t.transfers) == 0 {
		return NewValidationError(
			ValidationErrorTypeField,
			"transfer transaction requires at least one transfer",
			nil,
			nil,
		)
	}
	var sum int64
	for _, transfer := range t.transfers {
		sum += transfer.Amount
	}
	if sum != 0 {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("transfer amounts must sum to zero, got %d", sum),
			map[string]any{"sum": sum},
			nil,
		)
	}
	return nil
}

func (t *TransferTransaction) chunkCount() (int, error) {
	return 1, nil
}

func (t *TransferTransaction) marshalData(chunkContext) []byte {
	e := wire.NewEncoder()
	e.RawField(cryptoTransferFieldTransfers, marshalTransferList(sortedTransfers(t.transfers)))
	return e.Bytes()
}

func (t *TransferTransaction) unmarshalData(chunks [][]byte) error {
	if len(chunks) != 1 {
		return errNotChunked(t.kindName(), len(chunks))
	}
	t.transfers = nil
	d := wire.NewDecoder(chunks[0])
	for d.Next() {
		f := d.Field()
		if f.Number != cryptoTransferFieldTransfers {
			continue
		}
		raw, err := f.Bytes()
		if err != nil {
			return err
		}
		transfers, err := unmarshalTransferList(raw)
		if err != nil {
			return err
		}
		t.transfers = append(t.transfers, transfers...)
	}
	return d.Err()
}

func errNotChunked(kind string, count int) error {
	return NewValidationError(
		ValidationErrorTypeEncoding,
		fmt.Sprintf("%s is never chunked, found %d chunks", kind, count),
		nil,
		nil,
	)
}
