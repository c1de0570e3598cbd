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
	"slices"

	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// transactionKinds maps a TransactionBody data field to a constructor for its transaction kind
var transactionKinds = map[protowire.Number]func() Transaction{
	bodyFieldCryptoCreateAccount:    func() Transaction { return NewAccountCreateTransaction() },
	bodyFieldCryptoTransfer:         func() Transaction { return NewTransferTransaction() },
	bodyFieldFileAppend:             func() Transaction { return NewFileAppendTransaction() },
	bodyFieldConsensusSubmitMessage: func() Transaction { return NewTopicMessageSubmitTransaction() },
}

// importedBody is one signed per-node body read from a TransactionList
type importedBody struct {
	bodyBytes []byte
	body      *decodedBody
	sigMap    keys.SignatureMap
}

// TransactionFromBytes rebuilds a frozen transaction from the output of ToBytes. Bodies keep
// their original bytes, and signatures are kept. The result can be signed further and executed
func TransactionFromBytes(data []byte) (Transaction, error) {
	envelopes, err := splitTransactionList(data)
	if err != nil {
		return nil, err
	}
	if len(envelopes) == 0 {
		return nil, errImport("transaction list is empty", nil)
	}
	var imported []*importedBody
	for _, envelope := range envelopes {
		body, err := importEnvelope(envelope)
		if err != nil {
			return nil, err
		}
		imported = append(imported, body)
	}
	first := imported[0].body
	ctor, ok := transactionKinds[first.dataField]
	if !ok {
		return nil, errImport("transaction body has no known transaction kind", nil)
	}
	// Group the bodies by transaction ID, keeping the order of first appearance
	var chunkIds []TransactionId
	grouped := make(map[TransactionId][]*importedBody)
	for _, body := range imported {
		if body.body.dataField != first.dataField {
			return nil, errImport("transaction list mixes transaction kinds", nil)
		}
		if body.body.header.fee != first.header.fee ||
			body.body.header.validDuration != first.header.validDuration ||
			body.body.header.memo != first.header.memo {
			return nil, errImport("transaction bodies disagree on shared fields", nil)
		}
		id := body.body.header.transactionId
		if _, ok := grouped[id]; !ok {
			chunkIds = append(chunkIds, id)
		}
		grouped[id] = append(grouped[id], body)
	}
	var nodes []entity.EntityId
	for _, body := range grouped[chunkIds[0]] {
		nodes = append(nodes, body.body.node)
	}
	tx := ctor()
	t := tx.base()
	chunkData := make([][]byte, 0, len(chunkIds))
	for idx, id := range chunkIds {
		bodies := grouped[id]
		chunkNodes := make([]entity.EntityId, 0, len(bodies))
		for _, body := range bodies {
			if !slices.Equal(body.body.data, bodies[0].body.data) {
				return nil, errImport(
					fmt.Sprintf("bodies of chunk %d differ in more than the node account ID", idx),
					nil,
				)
			}
			if slices.Contains(chunkNodes, body.body.node) {
				return nil, errImport(
					fmt.Sprintf(
						"chunk %d lists node %s more than once",
						idx,
						body.body.node.String(),
					),
					nil,
				)
			}
			chunkNodes = append(chunkNodes, body.body.node)
		}
		if !slices.Equal(chunkNodes, nodes) {
			return nil, errImport(
				fmt.Sprintf("chunk %d was not replicated to the same nodes as the first chunk", idx),
				nil,
			)
		}
		chunkData = append(chunkData, bodies[0].body.data)
		chunk := &frozenChunk{transactionId: id}
		for _, body := range bodies {
			chunk.bodies = append(chunk.bodies, &frozenBody{
				nodeAccountId: body.body.node,
				bodyBytes:     body.bodyBytes,
			})
		}
		t.chunks = append(t.chunks, chunk)
	}
	if err := t.data.unmarshalData(chunkData); err != nil {
		return nil, errImport("failed to decode transaction data", err)
	}
	t.transactionId = chunkIds[0]
	t.nodeAccountIds = nodes
	t.maxTransactionFee = first.header.fee
	t.validDuration = first.header.validDuration
	t.memo = first.header.memo
	t.frozen = true
	// Signatures carried by the envelopes are registered without a signer
	for chunkIdx, id := range chunkIds {
		for bodyIdx, body := range grouped[id] {
			target := t.chunks[chunkIdx].bodies[bodyIdx]
			for _, pair := range body.sigMap {
				slot := t.signerIndex(pair.PublicKey)
				if slot < 0 {
					t.signers = append(t.signers, signerEntry{publicKey: pair.PublicKey})
					slot = len(t.signers) - 1
				}
				target.grow(len(t.signers))
				target.signatures[slot] = pair.Signature
			}
		}
	}
	for _, body := range t.bodies() {
		body.grow(len(t.signers))
	}
	return tx, nil
}

func errImport(message string, cause error) error {
	return NewValidationError(ValidationErrorTypeEncoding, message, nil, cause)
}

// splitTransactionList returns the Transaction messages of a TransactionList. A lone
// Transaction message is also accepted
func splitTransactionList(data []byte) ([][]byte, error) {
	fields, err := wire.Fields(data)
	if err != nil {
		return nil, errImport("malformed transaction list", err)
	}
	var ret [][]byte
	for _, f := range fields {
		switch f.Number {
		case transactionListFieldTransactions:
			raw, err := f.Bytes()
			if err != nil {
				return nil, errImport("malformed transaction list", err)
			}
			ret = append(ret, raw)
		case transactionFieldSignedTransactionBytes:
			return [][]byte{data}, nil
		}
	}
	return ret, nil
}

func importEnvelope(data []byte) (*importedBody, error) {
	signed, found, err := responseField(data, transactionFieldSignedTransactionBytes)
	if err != nil || !found {
		return nil, errImport("transaction has no signed transaction bytes", err)
	}
	ret := &importedBody{}
	d := wire.NewDecoder(signed)
	for d.Next() {
		f := d.Field()
		switch f.Number {
		case signedTransactionFieldBodyBytes:
			raw, err := f.Bytes()
			if err != nil {
				return nil, errImport("malformed signed transaction", err)
			}
			ret.bodyBytes = slices.Clone(raw)
		case signedTransactionFieldSigMap:
			raw, err := f.Bytes()
			if err != nil {
				return nil, errImport("malformed signed transaction", err)
			}
			if ret.sigMap, err = keys.UnmarshalSignatureMap(raw); err != nil {
				return nil, errImport("malformed signature map", err)
			}
		}
	}
	if err := d.Err(); err != nil {
		return nil, errImport("malformed signed transaction", err)
	}
	if len(ret.bodyBytes) == 0 {
		return nil, errImport("signed transaction has no body", nil)
	}
	if ret.body, err = decodeBody(ret.bodyBytes); err != nil {
		return nil, errImport("malformed transaction body", err)
	}
	for _, pair := range ret.sigMap {
		if !pair.PublicKey.Verify(ret.bodyBytes, pair.Signature) {
			return nil, errImport(
				"signature does not verify for its body",
				nil,
			)
		}
	}
	return ret, nil
}
