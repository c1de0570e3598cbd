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
	"fmt"
	"slices"
	"sync"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	queryHeaderFieldPayment      = 1
	queryHeaderFieldResponseType = 2

	responseHeaderFieldPrecheck     = 1
	responseHeaderFieldResponseType = 2
	responseHeaderFieldCost         = 3

	// Every query and query response message carries its header as field 1
	queryFieldHeader = 1
)

// ResponseType selects what a node answers to a query
type ResponseType int32

const (
	ResponseTypeAnswerOnly ResponseType = 0
	ResponseTypeCostAnswer ResponseType = 2
)

// queryData is the kind-specific part of a query
type queryData interface {
	kindName() string
	// queryField is the Query field holding the kind-specific message. Responses use the same number
	queryField() protowire.Number
	method() transport.Method
	isPaid() bool
	// minCost is the floor applied to the cost reported by a node
	minCost() uint64
	validate() error
	marshalQuery(header []byte) []byte
}

// responseHeader is the decoded header of a query response
type responseHeader struct {
	status       Status
	responseType ResponseType
	cost         uint64
}

// query holds the state shared by all query kinds
type query struct {
	data                 queryData
	nodeAccountIds       []entity.EntityId
	paymentTransactionId TransactionId
	queryPayment         uint64
	maxQueryPayment      uint64
}

func (q *query) init(data queryData) {
	q.data = data
}

// NodeAccountIds returns the nodes this query may be sent to
func (q *query) NodeAccountIds() []entity.EntityId {
	return slices.Clone(q.nodeAccountIds)
}

// SetNodeAccountIds restricts the query to the provided nodes
func (q *query) SetNodeAccountIds(ids ...entity.EntityId) error {
	seen := make(map[entity.EntityId]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return NewValidationError(
				ValidationErrorTypeQuery,
				"duplicate node account ID "+id.String(),
				nil,
				nil,
			)
		}
		seen[id] = true
	}
	q.nodeAccountIds = slices.Clone(ids)
	return nil
}

// QueryPayment returns the explicit payment amount, or 0 when the cost is probed
func (q *query) QueryPayment() uint64 {
	return q.queryPayment
}

// SetQueryPayment sets an explicit payment amount. The cost probe is skipped when it is set
func (q *query) SetQueryPayment(amount uint64) {
	q.queryPayment = amount
}

func (q *query) MaxQueryPayment() uint64 {
	return q.maxQueryPayment
}

// SetMaxQueryPayment sets the most the operator is willing to pay for the query. Without it,
// the client default is used
func (q *query) SetMaxQueryPayment(amount uint64) {
	q.maxQueryPayment = amount
}

// PaymentTransactionId returns the transaction ID used for payments
func (q *query) PaymentTransactionId() TransactionId {
	return q.paymentTransactionId
}

// SetPaymentTransactionId sets the transaction ID used for payments. Without it, a new one is
// generated for the operator on each execution
func (q *query) SetPaymentTransactionId(id TransactionId) {
	q.paymentTransactionId = id
}

// resolveNodes returns the query node list, checked against the client network
func (q *query) resolveNodes(client *goledger.Client) ([]entity.EntityId, error) {
	if len(q.nodeAccountIds) == 0 {
		return client.Nodes().NodeAccountIds(), nil
	}
	for _, id := range q.nodeAccountIds {
		if _, ok := client.Nodes().Node(id); !ok {
			return nil, NewValidationError(
				ValidationErrorTypeQuery,
				fmt.Sprintf("node %s is not part of the client network", id),
				map[string]any{"node": id.String()},
				goledger.ErrUnknownNode,
			)
		}
	}
	return slices.Clone(q.nodeAccountIds), nil
}

func (q *query) encode(header []byte) []byte {
	e := wire.NewEncoder()
	e.RawField(q.data.queryField(), q.data.marshalQuery(header))
	return e.Bytes()
}

// queryPayer builds and caches the per-node payment transactions of one execution
type queryPayer struct {
	client        *goledger.Client
	transactionId TransactionId
	amount        uint64
	mutex         sync.Mutex
	payments      map[entity.EntityId][]byte
}

func newQueryPayer(client *goledger.Client, transactionId TransactionId, amount uint64) *queryPayer {
	if transactionId.IsZero() {
		transactionId = NewTransactionId(client.OperatorAccountId())
	}
	return &queryPayer{
		client:        client,
		transactionId: transactionId,
		amount:        amount,
		payments:      make(map[entity.EntityId][]byte),
	}
}

// payment returns the signed payment transferring the amount from the operator to the node
func (p *queryPayer) payment(ctx context.Context, node entity.EntityId) ([]byte, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if ret, ok := p.payments[node]; ok {
		return ret, nil
	}
	op := p.client.Operator()
	tx := NewTransferTransaction()
	if err := tx.AddTransfer(op.AccountId, -int64(p.amount)); err != nil {
		return nil, err
	}
	if err := tx.AddTransfer(node, int64(p.amount)); err != nil {
		return nil, err
	}
	if err := tx.SetTransactionId(p.transactionId); err != nil {
		return nil, err
	}
	if err := tx.SetNodeAccountIds(node); err != nil {
		return nil, err
	}
	if err := tx.FreezeWith(p.client); err != nil {
		return nil, err
	}
	if err := tx.SignWith(op.PublicKey, op.Signer); err != nil {
		return nil, err
	}
	if err := tx.resolveSignatures(ctx); err != nil {
		return nil, err
	}
	ret := wrapSignedTransaction(tx.signedTransactionBytes(tx.chunks[0].bodies[0]))
	p.payments[node] = ret
	return ret, nil
}

func (p *queryPayer) header(
	ctx context.Context,
	node entity.EntityId,
	responseType ResponseType,
) ([]byte, error) {
	e := wire.NewEncoder()
	if p != nil {
		payment, err := p.payment(ctx, node)
		if err != nil {
			return nil, err
		}
		e.RawField(queryHeaderFieldPayment, payment)
	}
	e.EnumField(queryHeaderFieldResponseType, int32(responseType))
	return e.Bytes(), nil
}

// Cost asks a node what the query would cost. Free queries cost 0
func (q *query) Cost(ctx context.Context, client *goledger.Client) (uint64, error) {
	if client == nil {
		return 0, errNilClient
	}
	if !q.data.isPaid() {
		return 0, nil
	}
	if client.Operator() == nil {
		return 0, errNoQueryPayer(q.data.kindName())
	}
	if err := q.data.validate(); err != nil {
		return 0, err
	}
	nodes, err := q.resolveNodes(client)
	if err != nil {
		return 0, err
	}
	return q.probeCost(ctx, client, nodes)
}

func (q *query) probeCost(
	ctx context.Context,
	client *goledger.Client,
	nodes []entity.EntityId,
) (uint64, error) {
	payer := newQueryPayer(client, q.paymentTransactionId, 0)
	e := &execution[uint64]{
		name:          q.data.kindName() + ".cost",
		nodes:         nodes,
		transactionId: payer.transactionId,
		request: func(ctx context.Context, node entity.EntityId) (transport.Method, []byte, error) {
			header, err := payer.header(ctx, node, ResponseTypeCostAnswer)
			if err != nil {
				return "", nil, err
			}
			return q.data.method(), q.encode(header), nil
		},
		handle: func(node entity.EntityId, resp []byte) (uint64, Status, outcome, error) {
			header, _, err := decodeQueryResponse(resp, q.data.queryField())
			if err != nil {
				return 0, 0, outcomeFatal, err
			}
			kind := classifyQueryStatus(header.status)
			return max(header.cost, q.data.minCost()), header.status, kind, nil
		},
	}
	return execute(ctx, client, e)
}

func errNoQueryPayer(kind string) error {
	return NewValidationError(
		ValidationErrorTypeQuery,
		kind+" requires payment and the client has no operator",
		nil,
		nil,
	)
}

// executeQuery sends the query, paying for it first when required. The handle function
// classifies an answer given its decoded header and the full kind-specific response message
func executeQuery[T any](
	ctx context.Context,
	client *goledger.Client,
	q *query,
	handle func(node entity.EntityId, header responseHeader, resp []byte) (T, Status, outcome, error),
) (T, error) {
	var zero T
	if client == nil {
		return zero, errNilClient
	}
	if err := q.data.validate(); err != nil {
		return zero, err
	}
	nodes, err := q.resolveNodes(client)
	if err != nil {
		return zero, err
	}
	var payer *queryPayer
	if q.data.isPaid() {
		if client.Operator() == nil {
			return zero, errNoQueryPayer(q.data.kindName())
		}
		cost := q.queryPayment
		if cost == 0 {
			cost, err = q.probeCost(ctx, client, nodes)
			if err != nil {
				return zero, err
			}
			maxPayment := q.maxQueryPayment
			if maxPayment == 0 {
				maxPayment = client.DefaultMaxQueryPayment()
			}
			if cost > maxPayment {
				return zero, &MaxQueryPaymentExceededError{
					Query:           q.data.kindName(),
					Cost:            cost,
					MaxQueryPayment: maxPayment,
				}
			}
		}
		payer = newQueryPayer(client, q.paymentTransactionId, cost)
	}
	var transactionId TransactionId
	if payer != nil {
		transactionId = payer.transactionId
	}
	e := &execution[T]{
		name:          q.data.kindName(),
		nodes:         nodes,
		transactionId: transactionId,
		request: func(ctx context.Context, node entity.EntityId) (transport.Method, []byte, error) {
			header, err := payer.header(ctx, node, ResponseTypeAnswerOnly)
			if err != nil {
				return "", nil, err
			}
			return q.data.method(), q.encode(header), nil
		},
		handle: func(node entity.EntityId, resp []byte) (T, Status, outcome, error) {
			header, inner, err := decodeQueryResponse(resp, q.data.queryField())
			if err != nil {
				return zero, 0, outcomeFatal, err
			}
			return handle(node, header, inner)
		},
	}
	return execute(ctx, client, e)
}

// classifyQueryStatus classifies a query response header status
func classifyQueryStatus(status Status) outcome {
	switch {
	case status == StatusOk:
		return outcomeSuccess
	case status.IsTransient():
		return outcomeRetry
	default:
		return outcomeFatal
	}
}

// decodeQueryResponse extracts the kind-specific message from a Response and decodes its header
func decodeQueryResponse(
	data []byte,
	field protowire.Number,
) (responseHeader, []byte, error) {
	var header responseHeader
	var inner []byte
	found := false
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number != field {
			continue
		}
		var err error
		if inner, err = f.Bytes(); err != nil {
			return header, nil, err
		}
		found = true
	}
	if err := d.Err(); err != nil {
		return header, nil, err
	}
	if !found {
		return header, nil, fmt.Errorf("response does not contain field %d", field)
	}
	d = wire.NewDecoder(inner)
	for d.Next() {
		f := d.Field()
		if f.Number != queryFieldHeader {
			continue
		}
		raw, err := f.Bytes()
		if err != nil {
			return header, nil, err
		}
		if header, err = decodeResponseHeader(raw); err != nil {
			return header, nil, err
		}
	}
	return header, inner, d.Err()
}

func decodeResponseHeader(data []byte) (responseHeader, error) {
	var ret responseHeader
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case responseHeaderFieldPrecheck:
			var tmp int32
			tmp, err = f.Int32()
			ret.status = Status(tmp)
		case responseHeaderFieldResponseType:
			var tmp int32
			tmp, err = f.Int32()
			ret.responseType = ResponseType(tmp)
		case responseHeaderFieldCost:
			ret.cost, err = f.Uint64()
		}
		if err != nil {
			return ret, err
		}
	}
	return ret, d.Err()
}

// encodeQueryMessage renders the kind-specific query message for kinds that carry a single
// entity field after the header
func encodeQueryMessage(header []byte, field protowire.Number, m wire.Marshaler) []byte {
	e := wire.NewEncoder()
	e.RawField(queryFieldHeader, header)
	e.MessageField(field, m)
	return e.Bytes()
}

// responseField returns the raw bytes of a field of a kind-specific response message
func responseField(data []byte, field protowire.Number) ([]byte, bool, error) {
	var ret []byte
	found := false
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number != field {
			continue
		}
		raw, err := f.Bytes()
		if err != nil {
			return nil, false, err
		}
		ret = raw
		found = true
	}
	return ret, found, d.Err()
}
