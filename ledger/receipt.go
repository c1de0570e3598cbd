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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	queryFieldTransactionGetReceipt = 14

	receiptQueryFieldTransactionId = 2
	receiptResponseFieldReceipt    = 2

	receiptFieldStatus              = 1
	receiptFieldAccountId           = 2
	receiptFieldFileId              = 3
	receiptFieldTopicId             = 6
	receiptFieldTopicSequenceNumber = 7
	receiptFieldTopicRunningHash    = 8
)

// TransactionReceipt is the outcome of a transaction as reported by the network
type TransactionReceipt struct {
	Status              Status
	TransactionId       TransactionId
	AccountId           entity.EntityId
	FileId              entity.EntityId
	TopicId             entity.EntityId
	TopicSequenceNumber uint64
	TopicRunningHash    []byte
}

func (r TransactionReceipt) String() string {
	ret := fmt.Sprintf("TransactionReceipt { Status: %s, TransactionId: %s", r.Status, r.TransactionId)
	if !r.AccountId.IsZero() {
		ret += ", AccountId: " + r.AccountId.String()
	}
	if !r.FileId.IsZero() {
		ret += ", FileId: " + r.FileId.String()
	}
	if !r.TopicId.IsZero() {
		ret += fmt.Sprintf(
			", TopicId: %s, TopicSequenceNumber: %d, TopicRunningHash: %s",
			r.TopicId,
			r.TopicSequenceNumber,
			hex.EncodeToString(r.TopicRunningHash),
		)
	}
	return ret + " }"
}

func (r TransactionReceipt) MarshalWire() []byte {
	e := wire.NewEncoder()
	e.EnumField(receiptFieldStatus, int32(r.Status))
	if !r.AccountId.IsZero() {
		e.MessageField(receiptFieldAccountId, r.AccountId)
	}
	if !r.FileId.IsZero() {
		e.MessageField(receiptFieldFileId, r.FileId)
	}
	if !r.TopicId.IsZero() {
		e.MessageField(receiptFieldTopicId, r.TopicId)
	}
	e.Uint64Field(receiptFieldTopicSequenceNumber, r.TopicSequenceNumber)
	e.BytesField(receiptFieldTopicRunningHash, r.TopicRunningHash)
	return e.Bytes()
}

// UnmarshalTransactionReceipt decodes a receipt. The transaction ID is not part of the wire
// form and is left for the caller to fill in
func UnmarshalTransactionReceipt(data []byte) (TransactionReceipt, error) {
	var ret TransactionReceipt
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case receiptFieldStatus:
			var tmp int32
			tmp, err = f.Int32()
			ret.Status = Status(tmp)
		case receiptFieldAccountId:
			ret.AccountId, err = entityField(f)
		case receiptFieldFileId:
			ret.FileId, err = entityField(f)
		case receiptFieldTopicId:
			ret.TopicId, err = entityField(f)
		case receiptFieldTopicSequenceNumber:
			ret.TopicSequenceNumber, err = f.Uint64()
		case receiptFieldTopicRunningHash:
			var raw []byte
			raw, err = f.Bytes()
			ret.TopicRunningHash = append([]byte(nil), raw...)
		}
		if err != nil {
			return ret, err
		}
	}
	return ret, d.Err()
}

func entityField(f wire.Field) (entity.EntityId, error) {
	raw, err := f.Bytes()
	if err != nil {
		return entity.EntityId{}, err
	}
	return entity.UnmarshalWire(raw)
}

// TransactionReceiptQuery polls the network for the receipt of a transaction until it is final.
// Receipt queries are free
type TransactionReceiptQuery struct {
	query
	transactionId  TransactionId
	validateStatus bool
}

func NewTransactionReceiptQuery() *TransactionReceiptQuery {
	q := &TransactionReceiptQuery{validateStatus: true}
	q.init(q)
	return q
}

func (q *TransactionReceiptQuery) TransactionId() TransactionId {
	return q.transactionId
}

func (q *TransactionReceiptQuery) SetTransactionId(id TransactionId) *TransactionReceiptQuery {
	q.transactionId = id
	return q
}

// SetValidateStatus controls whether a final status other than SUCCESS is returned as a
// ReceiptStatusError. It defaults to true
func (q *TransactionReceiptQuery) SetValidateStatus(validate bool) *TransactionReceiptQuery {
	q.validateStatus = validate
	return q
}

func (q *TransactionReceiptQuery) kindName() string {
	return "TransactionReceiptQuery"
}

func (q *TransactionReceiptQuery) queryField() protowire.Number {
	return queryFieldTransactionGetReceipt
}

func (q *TransactionReceiptQuery) method() transport.Method {
	return transport.MethodGetReceipt
}

func (q *TransactionReceiptQuery) isPaid() bool {
	return false
}

func (q *TransactionReceiptQuery) minCost() uint64 {
	return 0
}

func (q *TransactionReceiptQuery) validate() error {
	if q.transactionId.IsZero() {
		return NewValidationError(
			ValidationErrorTypeQuery,
			"receipt query requires a transaction ID",
			nil,
			nil,
		)
	}
	return nil
}

func (q *TransactionReceiptQuery) marshalQuery(header []byte) []byte {
	return encodeQueryMessage(header, receiptQueryFieldTransactionId, q.transactionId)
}

// receiptPending reports whether a status means the network does not know the final outcome yet
func receiptPending(status Status) bool {
	switch status {
	case StatusOk,
		StatusUnknown,
		StatusBusy,
		StatusReceiptNotFound,
		StatusRecordNotFound,
		StatusPlatformNotActive,
		StatusPlatformTransactionNotCreated:
		return true
	default:
		return false
	}
}

// Execute polls until the receipt is final. A receipt that failed at consensus is returned
// together with a ReceiptStatusError unless status validation is disabled
func (q *TransactionReceiptQuery) Execute(
	ctx context.Context,
	client *goledger.Client,
) (*TransactionReceipt, error) {
	receipt, err := executeQuery(
		ctx,
		client,
		&q.query,
		func(_ entity.EntityId, header responseHeader, resp []byte) (*TransactionReceipt, Status, outcome, error) {
			switch {
			case header.status == StatusOk:
			case receiptPending(header.status):
				return nil, header.status, outcomeRetry, nil
			default:
				return nil, header.status, outcomeFatal, nil
			}
			raw, found, err := responseField(resp, receiptResponseFieldReceipt)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			if !found {
				return nil, StatusUnknown, outcomeRetry, nil
			}
			receipt, err := UnmarshalTransactionReceipt(raw)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			receipt.TransactionId = q.transactionId
			if receiptPending(receipt.Status) {
				return nil, receipt.Status, outcomeRetry, nil
			}
			return &receipt, receipt.Status, outcomeSuccess, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if q.validateStatus && receipt.Status != StatusSuccess {
		return receipt, &ReceiptStatusError{
			Status:        receipt.Status,
			TransactionId: q.transactionId,
			Receipt:       receipt,
		}
	}
	return receipt, nil
}
