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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	queryFieldCryptoGetInfo = 9

	infoQueryFieldAccountId      = 2
	infoResponseFieldAccountInfo = 2

	accountInfoFieldAccountId           = 1
	accountInfoFieldDeleted             = 3
	accountInfoFieldKey                 = 7
	accountInfoFieldBalance             = 8
	accountInfoFieldReceiverSigRequired = 11
	accountInfoFieldExpirationTime      = 12
	accountInfoFieldAutoRenewPeriod     = 13
	accountInfoFieldMemo                = 16

	// Account info queries cost at least this much, whatever a node reports
	accountInfoMinCost = 25
)

// AccountInfo describes the state of an account
type AccountInfo struct {
	AccountId                 entity.EntityId
	Deleted                   bool
	Key                       keys.Key
	Balance                   uint64
	ReceiverSignatureRequired bool
	ExpirationTime            wire.Timestamp
	AutoRenewPeriod           time.Duration
	Memo                      string
}

func (i AccountInfo) String() string {
	return fmt.Sprintf(
		"AccountInfo { AccountId: %s, Balance: %d, Deleted: %t, Key: %v, Memo: %q }",
		i.AccountId,
		i.Balance,
		i.Deleted,
		i.Key,
		i.Memo,
	)
}

func (i AccountInfo) MarshalWire() []byte {
	e := wire.NewEncoder()
	e.MessageField(accountInfoFieldAccountId, i.AccountId)
	e.BoolField(accountInfoFieldDeleted, i.Deleted)
	if i.Key != nil {
		e.RawField(accountInfoFieldKey, keys.MarshalKey(i.Key))
	}
	e.Uint64Field(accountInfoFieldBalance, i.Balance)
	e.BoolField(accountInfoFieldReceiverSigRequired, i.ReceiverSignatureRequired)
	e.MessageField(accountInfoFieldExpirationTime, i.ExpirationTime)
	e.MessageField(accountInfoFieldAutoRenewPeriod, wire.NewDuration(i.AutoRenewPeriod))
	e.StringField(accountInfoFieldMemo, i.Memo)
	return e.Bytes()
}

func UnmarshalAccountInfo(data []byte) (AccountInfo, error) {
	var ret AccountInfo
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		var raw []byte
		switch f.Number {
		case accountInfoFieldAccountId:
			ret.AccountId, err = entityField(f)
		case accountInfoFieldDeleted:
			ret.Deleted, err = f.Bool()
		case accountInfoFieldKey:
			if raw, err = f.Bytes(); err == nil {
				ret.Key, err = keys.UnmarshalKey(raw)
			}
		case accountInfoFieldBalance:
			ret.Balance, err = f.Uint64()
		case accountInfoFieldReceiverSigRequired:
			ret.ReceiverSignatureRequired, err = f.Bool()
		case accountInfoFieldExpirationTime:
			if raw, err = f.Bytes(); err == nil {
				ret.ExpirationTime, err = wire.UnmarshalTimestamp(raw)
			}
		case accountInfoFieldAutoRenewPeriod:
			if raw, err = f.Bytes(); err == nil {
				var tmp wire.Duration
				tmp, err = wire.UnmarshalDuration(raw)
				ret.AutoRenewPeriod = tmp.Duration()
			}
		case accountInfoFieldMemo:
			ret.Memo, err = f.String()
		}
		if err != nil {
			return ret, err
		}
	}
	return ret, d.Err()
}

// AccountInfoQuery fetches the state of an account. Info queries are paid by the client operator
type AccountInfoQuery struct {
	query
	accountId entity.EntityId
}

func NewAccountInfoQuery() *AccountInfoQuery {
	q := &AccountInfoQuery{}
	q.init(q)
	return q
}

func (q *AccountInfoQuery) AccountId() entity.EntityId {
	return q.accountId
}

func (q *AccountInfoQuery) SetAccountId(id entity.EntityId) *AccountInfoQuery {
	q.accountId = id
	return q
}

func (q *AccountInfoQuery) kindName() string {
	return "AccountInfoQuery"
}

func (q *AccountInfoQuery) queryField() protowire.Number {
	return queryFieldCryptoGetInfo
}

func (q *AccountInfoQuery) method() transport.Method {
	return transport.MethodGetAccountInfo
}

func (q *AccountInfoQuery) isPaid() bool {
	return true
}

func (q *AccountInfoQuery) minCost() uint64 {
	return accountInfoMinCost
}

func (q *AccountInfoQuery) validate() error {
	if q.accountId.IsZero() {
		return NewValidationError(
			ValidationErrorTypeQuery,
			"account info query requires an account ID",
			nil,
			nil,
		)
	}
	return nil
}

func (q *AccountInfoQuery) marshalQuery(header []byte) []byte {
	return encodeQueryMessage(header, infoQueryFieldAccountId, q.accountId)
}

func (q *AccountInfoQuery) Execute(
	ctx context.Context,
	client *goledger.Client,
) (*AccountInfo, error) {
	return executeQuery(
		ctx,
		client,
		&q.query,
		func(_ entity.EntityId, header responseHeader, resp []byte) (*AccountInfo, Status, outcome, error) {
			if kind := classifyQueryStatus(header.status); kind != outcomeSuccess {
				return nil, header.status, kind, nil
			}
			raw, found, err := responseField(resp, infoResponseFieldAccountInfo)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			if !found {
				return nil, 0, outcomeFatal, errors.New("account info response has no account info")
			}
			info, err := UnmarshalAccountInfo(raw)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			return &info, header.status, outcomeSuccess, nil
		},
	)
}
