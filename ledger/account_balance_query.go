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

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	queryFieldCryptoGetAccountBalance = 7

	balanceQueryFieldAccountId    = 2
	balanceResponseFieldAccountId = 2
	balanceResponseFieldBalance   = 3
)

// AccountBalance is the balance of an account
type AccountBalance struct {
	AccountId entity.EntityId
	Balance   uint64
}

// AccountBalanceQuery fetches the balance of an account. Balance queries are free
type AccountBalanceQuery struct {
	query
	accountId entity.EntityId
}

func NewAccountBalanceQuery() *AccountBalanceQuery {
	q := &AccountBalanceQuery{}
	q.init(q)
	return q
}

func (q *AccountBalanceQuery) AccountId() entity.EntityId {
	return q.accountId
}

func (q *AccountBalanceQuery) SetAccountId(id entity.EntityId) *AccountBalanceQuery {
	q.accountId = id
	return q
}

func (q *AccountBalanceQuery) kindName() string {
	return "AccountBalanceQuery"
}

func (q *AccountBalanceQuery) queryField() protowire.Number {
	return queryFieldCryptoGetAccountBalance
}

func (q *AccountBalanceQuery) method() transport.Method {
	return transport.MethodGetAccountBalance
}

func (q *AccountBalanceQuery) isPaid() bool {
	return false
}

func (q *AccountBalanceQuery) minCost() uint64 {
	return 0
}

func (q *AccountBalanceQuery) validate() error {
	if q.accountId.IsZero() {
		return NewValidationError(
			ValidationErrorTypeQuery,
			"balance query requires an account ID",
			nil,
			nil,
		)
	}
	return nil
}

func (q *AccountBalanceQuery) marshalQuery(header []byte) []byte {
	return encodeQueryMessage(header, balanceQueryFieldAccountId, q.accountId)
}

func (q *AccountBalanceQuery) Execute(
	ctx context.Context,
	client *goledger.Client,
) (*AccountBalance, error) {
	return executeQuery(
		ctx,
		client,
		&q.query,
		func(_ entity.EntityId, header responseHeader, resp []byte) (*AccountBalance, Status, outcome, error) {
			if kind := classifyQueryStatus(header.status); kind != outcomeSuccess {
				return nil, header.status, kind, nil
			}
			ret := &AccountBalance{AccountId: q.accountId}
			d := wire.NewDecoder(resp)
			for d.Next() {
				f := d.Field()
				var err error
				switch f.Number {
				case balanceResponseFieldAccountId:
					ret.AccountId, err = entityField(f)
				case balanceResponseFieldBalance:
					ret.Balance, err = f.Uint64()
				}
				if err != nil {
					return nil, 0, outcomeFatal, err
				}
			}
			if err := d.Err(); err != nil {
				return nil, 0, outcomeFatal, err
			}
			return ret, header.status, outcomeSuccess, nil
		},
	)
}
