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
	queryFieldTransactionGetRecord = 15

	recordQueryFieldTransactionId = 2
	recordResponseFieldRecord     = 3

	recordFieldReceipt            = 1
	recordFieldTransactionHash    = 2
	recordFieldConsensusTimestamp = 3
	recordFieldTransactionId      = 4
	recordFieldMemo               = 5
	recordFieldTransactionFee     = 6
	recordFieldTransferList       = 10

	// Records cost at least this much, whatever a node reports
	transactionRecordMinCost = 25
)

// TransactionRecord holds the full effects of a transaction that reached consensus
type TransactionRecord struct {
	Receipt            TransactionReceipt
	TransactionHash    []byte
	ConsensusTimestamp wire.Timestamp
	TransactionId      TransactionId
	Memo               string
	TransactionFee     uint64
	Transfers          []Transfer
}

func (r TransactionRecord) String() string {
	return fmt.Sprintf(
		"TransactionRecord { TransactionId: %s, Status: %s, ConsensusTimestamp: %s, TransactionFee: %d, TransactionHash: %s, Transfers: %v }",
		r.TransactionId,
		r.Receipt.Status,
		r.ConsensusTimestamp,
		r.TransactionFee,
		hex.EncodeToString(r.TransactionHash),
		r.Transfers,
	)
}

func (r TransactionRecord) MarshalWire() []byte {
	e := wire.NewEncoder()
	e.MessageField(recordFieldReceipt, r.Receipt)
	e.BytesField(recordFieldTransactionHash, r.TransactionHash)
	e.MessageField(recordFieldConsensusTimestamp, r.ConsensusTimestamp)
	e.MessageField(recordFieldTransactionId, r.TransactionId)
	e.StringField(recordFieldMemo, r.Memo)
	e.Uint64Field(recordFieldTransactionFee, r.TransactionFee)
	if len(r.Transfers) > 0 {
		e.RawField(recordFieldTransferList, marshalTransferList(r.Transfers))
	}
	return e.Bytes()
}

func UnmarshalTransactionRecord(data []byte) (TransactionRecord, error) {
	var ret TransactionRecord
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		var raw []byte
		switch f.Number {
		case recordFieldReceipt:
			if raw, err = f.Bytes(); err == nil {
				ret.Receipt, err = UnmarshalTransactionReceipt(raw)
			}
		case recordFieldTransactionHash:
			if raw, err = f.Bytes(); err == nil {
				ret.TransactionHash = append([]byte(nil), raw...)
			}
		case recordFieldConsensusTimestamp:
			if raw, err = f.Bytes(); err == nil {
				ret.ConsensusTimestamp, err = wire.UnmarshalTimestamp(raw)
			}
		case recordFieldTransactionId:
			if raw, err = f.Bytes(); err == nil {
				ret.TransactionId, err = UnmarshalTransactionId(raw)
			}
		case recordFieldMemo:
			ret.Memo, err = f.String()
		case recordFieldTransactionFee:
			ret.TransactionFee, err = f.Uint64()
		case recordFieldTransferList:
			if raw, err = f.Bytes(); err == nil {
				ret.Transfers, err = unmarshalTransferList(raw)
			}
		}
		if err != nil {
			return ret, err
		}
	}
	if err := d.Err(); err != nil {
		return ret, err
	}
	ret.Receipt.TransactionId = ret.TransactionId
	return ret, nil
}

// TransactionRecordQuery fetches the record of a transaction once it has reached consensus.
// Record queries are paid by the client operator
type TransactionRecordQuery struct {
	query
	transactionId  TransactionId
	validateStatus bool
}

func NewTransactionRecordQuery() *TransactionRecordQuery {
	q := &TransactionRecordQuery{validateStatus: true}
	q.init(q)
	return q
}

func (q *TransactionRecordQuery) TransactionId() TransactionId {
	return q.transactionId
}

func (q *TransactionRecordQuery) SetTransactionId(id TransactionId) *TransactionRecordQuery {
	q.transactionId = id
	return q
}

// SetValidateStatus controls whether a record whose receipt status is not SUCCESS is returned
// with a ReceiptStatusError. It defaults to true
func (q *TransactionRecordQuery) SetValidateStatus(validate bool) *TransactionRecordQuery {
	q.validateStatus = validate
	return q
}

func (q *TransactionRecordQuery) kindName() string {
	return "TransactionRecordQuery"
}

func (q *TransactionRecordQuery) queryField() protowire.Number {
	return queryFieldTransactionGetRecord
}

func (q *TransactionRecordQuery) method() transport.Method {
	return transport.MethodGetRecord
}

func (q *TransactionRecordQuery) isPaid() bool {
	return true
}

func (q *TransactionRecordQuery) minCost() uint64 {
	return transactionRecordMinCost
}

func (q *TransactionRecordQuery) validate() error {
	if q.transactionId.IsZero() {
		return NewValidationError(
			ValidationErrorTypeQuery,
			"record query requires a transaction ID",
			nil,
			nil,
		)
	}
	return nil
}

func (q *TransactionRecordQuery) marshalQuery(header []byte) []byte {
	return encodeQueryMessage(header, recordQueryFieldTransactionId, q.transactionId)
}

// Execute fetches the record. The transaction must have reached consensus, which callers
// usually ensure by polling its receipt first
func (q *TransactionRecordQuery) Execute(
	ctx context.Context,
	client *goledger.Client,
) (*TransactionRecord, error) {
	record, err := executeQuery(
		ctx,
		client,
		&q.query,
		func(_ entity.EntityId, header responseHeader, resp []byte) (*TransactionRecord, Status, outcome, error) {
			switch {
			case header.status == StatusOk:
			case receiptPending(header.status):
				return nil, header.status, outcomeRetry, nil
			default:
				return nil, header.status, outcomeFatal, nil
			}
			raw, found, err := responseField(resp, recordResponseFieldRecord)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			if !found {
				return nil, StatusRecordNotFound, outcomeRetry, nil
			}
			record, err := UnmarshalTransactionRecord(raw)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			if record.TransactionId.IsZero() {
				record.TransactionId = q.transactionId
				record.Receipt.TransactionId = q.transactionId
			}
			if receiptPending(record.Receipt.Status) {
				return nil, record.Receipt.Status, outcomeRetry, nil
			}
			return &record, record.Receipt.Status, outcomeSuccess, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if q.validateStatus && record.Receipt.Status != StatusSuccess {
		return record, &ReceiptStatusError{
			Status:        record.Receipt.Status,
			TransactionId: q.transactionId,
			Receipt:       &record.Receipt,
		}
	}
	return record, nil
}
