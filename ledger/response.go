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
)

// TransactionResponse identifies a transaction accepted at precheck by a node
type TransactionResponse struct {
	NodeId        entity.EntityId
	TransactionId TransactionId
	// Hash is the SHA-384 hash of the signed transaction sent to the node
	Hash []byte
}

func (r TransactionResponse) String() string {
	return fmt.Sprintf(
		"TransactionResponse { NodeId: %s, TransactionId: %s, Hash: %s }",
		r.NodeId,
		r.TransactionId,
		hex.EncodeToString(r.Hash),
	)
}

// ReceiptQuery returns a receipt query for the transaction, targeted at the node that accepted it
func (r *TransactionResponse) ReceiptQuery() *TransactionReceiptQuery {
	q := NewTransactionReceiptQuery().SetTransactionId(r.TransactionId)
	// A single ID cannot be a duplicate
	_ = q.SetNodeAccountIds(r.NodeId)
	return q
}

// RecordQuery returns a record query for the transaction, targeted at the node that accepted it
func (r *TransactionResponse) RecordQuery() *TransactionRecordQuery {
	q := NewTransactionRecordQuery().SetTransactionId(r.TransactionId)
	_ = q.SetNodeAccountIds(r.NodeId)
	return q
}

// GetReceipt polls for the final receipt of the transaction. A receipt that failed at consensus
// is returned together with a ReceiptStatusError
func (r *TransactionResponse) GetReceipt(
	ctx context.Context,
	client *goledger.Client,
) (*TransactionReceipt, error) {
	return r.ReceiptQuery().Execute(ctx, client)
}

// GetRecord waits for the transaction to reach consensus and fetches its record
func (r *TransactionResponse) GetRecord(
	ctx context.Context,
	client *goledger.Client,
) (*TransactionRecord, error) {
	if _, err := r.ReceiptQuery().SetValidateStatus(false).Execute(ctx, client); err != nil {
		return nil, err
	}
	return r.RecordQuery().Execute(ctx, client)
}
