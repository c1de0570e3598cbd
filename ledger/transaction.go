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

// Package ledger implements the transaction and query lifecycle: building, freezing into
// canonical per-node bodies, chunking oversized payloads, signing, dispatching to nodes with
// retries, and polling for receipts and records.
package ledger

import (
	"context"
	"crypto/sha512"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	bodyFieldTransactionId  = 1
	bodyFieldNodeAccountId  = 2
	bodyFieldTransactionFee = 3
	bodyFieldValidDuration  = 4
	bodyFieldMemo           = 6

	signedTransactionFieldBodyBytes = 1
	signedTransactionFieldSigMap    = 2

	transactionFieldSignedTransactionBytes = 5
	transactionListFieldTransactions       = 1

	transactionResponseFieldPrecheck = 1
	transactionResponseFieldCost     = 2
)

const (
	DefaultValidDuration = 120 * time.Second
	MaxValidDuration     = 180 * time.Second
	MaxMemoLength        = 100
)

var errNilClient = NewValidationError(
	ValidationErrorTypeField,
	"a client is required to execute requests",
	nil,
	nil,
)

// Transaction is implemented by every transaction kind
type Transaction interface {
	TransactionId() TransactionId
	NodeAccountIds() []entity.EntityId
	MaxTransactionFee() uint64
	ValidDuration() time.Duration
	Memo() string
	IsFrozen() bool
	Freeze() error
	FreezeWith(client *goledger.Client) error
	Sign(key keys.PrivateKey) error
	SignWith(publicKey keys.PublicKey, signer keys.Signer) error
	AddSignature(publicKey keys.PublicKey, signature []byte) error
	Signatures(ctx context.Context) ([]BodySignatures, error)
	VerifySignature(ctx context.Context, key keys.Key) (bool, error)
	ToBytes(ctx context.Context) ([]byte, error)
	Hash(ctx context.Context, node entity.EntityId) ([]byte, error)
	SigningRequest() (*SigningRequest, error)
	AddSignatureBundle(bundle *SignatureBundle) error
	Execute(ctx context.Context, client *goledger.Client) (*TransactionResponse, error)
	ExecuteAll(ctx context.Context, client *goledger.Client) ([]*TransactionResponse, error)
	base() *transaction
}

// transactionData is the kind-specific part of a transaction
type transactionData interface {
	kindName() string
	// dataField is the TransactionBody field holding the kind-specific message
	dataField() protowire.Number
	method() transport.Method
	validate() error
	// chunkCount is 1 for kinds that are never chunked
	chunkCount() (int, error)
	marshalData(chunk chunkContext) []byte
	// unmarshalData restores the kind-specific fields from the data of every chunk, in order
	unmarshalData(chunks [][]byte) error
}

// BodySignatures lists the signatures attached to one per-node body
type BodySignatures struct {
	TransactionId TransactionId
	NodeAccountId entity.EntityId
	Signatures    keys.SignatureMap
}

type signerEntry struct {
	publicKey keys.PublicKey
	// signer is nil when signatures were provided directly
	signer keys.Signer
}

type frozenBody struct {
	nodeAccountId entity.EntityId
	bodyBytes     []byte
	// signatures is indexed like transaction.signers. A nil entry has not been resolved yet
	signatures [][]byte
}

type frozenChunk struct {
	transactionId TransactionId
	bodies        []*frozenBody
}

func (c *frozenChunk) body(node entity.EntityId) *frozenBody {
	for _, body := range c.bodies {
		if body.nodeAccountId == node {
			return body
		}
	}
	return nil
}

// transaction holds the state shared by all transaction kinds
type transaction struct {
	data              transactionData
	transactionId     TransactionId
	nodeAccountIds    []entity.EntityId
	maxTransactionFee uint64
	validDuration     time.Duration
	memo              string
	frozen            bool
	chunks            []*frozenChunk
	signers           []signerEntry
	signMutex         sync.Mutex
}

func (t *transaction) init(data transactionData) {
	t.data = data
	t.validDuration = DefaultValidDuration
}

func (t *transaction) base() *transaction {
	return t
}

func (t *transaction) checkMutable(field string) error {
	if t.frozen {
		return &FrozenStateError{Field: field}
	}
	return nil
}

// TransactionId returns the transaction ID. It is the zero value until set or frozen. For
// chunked transactions this is the ID of the first chunk
func (t *transaction) TransactionId() TransactionId {
	return t.transactionId
}

// SetTransactionId sets an explicit transaction ID
func (t *transaction) SetTransactionId(id TransactionId) error {
	if err := t.checkMutable("transaction ID"); err != nil {
		return err
	}
	t.transactionId = id
	return nil
}

// NodeAccountIds returns the nodes this transaction may be sent to
func (t *transaction) NodeAccountIds() []entity.EntityId {
	return slices.Clone(t.nodeAccountIds)
}

// SetNodeAccountIds restricts the transaction to the provided nodes. Without it, every node of
// the client network is used
func (t *transaction) SetNodeAccountIds(ids ...entity.EntityId) error {
	if err := t.checkMutable("node account IDs"); err != nil {
		return err
	}
	seen := make(map[entity.EntityId]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return NewValidationError(
				ValidationErrorTypeField,
				"duplicate node account ID "+id.String(),
				nil,
				nil,
			)
		}
		seen[id] = true
	}
	t.nodeAccountIds = slices.Clone(ids)
	return nil
}

func (t *transaction) MaxTransactionFee() uint64 {
	return t.maxTransactionFee
}

// SetMaxTransactionFee sets the most the payer is willing to pay. Without it, the client default is used
func (t *transaction) SetMaxTransactionFee(fee uint64) error {
	if err := t.checkMutable("max transaction fee"); err != nil {
		return err
	}
	t.maxTransactionFee = fee
	return nil
}

func (t *transaction) ValidDuration() time.Duration {
	return t.validDuration
}

// SetValidDuration sets how long after its valid start the transaction may reach consensus
func (t *transaction) SetValidDuration(d time.Duration) error {
	if err := t.checkMutable("valid duration"); err != nil {
		return err
	}
	if d < time.Second || d > MaxValidDuration {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("valid duration must be between 1s and %s, got %s", MaxValidDuration, d),
			nil,
			nil,
		)
	}
	t.validDuration = d
	return nil
}

func (t *transaction) Memo() string {
	return t.memo
}

func (t *transaction) SetMemo(memo string) error {
	if err := t.checkMutable("memo"); err != nil {
		return err
	}
	if len(memo) > MaxMemoLength {
		return NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("memo must be at most %d bytes, got %d", MaxMemoLength, len(memo)),
			nil,
			nil,
		)
	}
	t.memo = memo
	return nil
}

// IsFrozen reports whether the transaction bodies have been generated
func (t *transaction) IsFrozen() bool {
	return t.frozen
}

// Freeze generates the per-node bodies without a client. The transaction ID and node account
// IDs must have been set explicitly
func (t *transaction) Freeze() error {
	return t.FreezeWith(nil)
}

// FreezeWith generates the canonical per-node bodies. A missing transaction ID is generated for
// the client operator and a missing node list is taken from the client network. Freezing an
// already frozen transaction does nothing
func (t *transaction) FreezeWith(client *goledger.Client) error {
	if t.frozen {
		return nil
	}
	transactionId := t.transactionId
	if transactionId.IsZero() {
		if client == nil || client.Operator() == nil {
			return NewValidationError(
				ValidationErrorTypeFreeze,
				"transaction ID is not set and there is no operator to pay for the transaction",
				nil,
				nil,
			)
		}
		transactionId = NewTransactionId(client.OperatorAccountId())
	}
	nodes := t.nodeAccountIds
	if len(nodes) == 0 {
		if client == nil {
			return NewValidationError(
				ValidationErrorTypeFreeze,
				"node account IDs are not set and there is no client network to take them from",
				nil,
				nil,
			)
		}
		nodes = client.Nodes().NodeAccountIds()
	} else if client != nil {
		for _, id := range nodes {
			if _, ok := client.Nodes().Node(id); !ok {
				return NewValidationError(
					ValidationErrorTypeFreeze,
					fmt.Sprintf("node %s is not part of the client network", id),
					map[string]any{"node": id.String()},
					goledger.ErrUnknownNode,
				)
			}
		}
	}
	fee := t.maxTransactionFee
	if fee == 0 {
		fee = goledger.DefaultMaxTransactionFee
		if client != nil {
			fee = client.DefaultMaxTransactionFee()
		}
	}
	if err := t.data.validate(); err != nil {
		return err
	}
	total, err := t.data.chunkCount()
	if err != nil {
		return err
	}
	chunkIds := sliceChunks(transactionId, total)
	chunks := make([]*frozenChunk, 0, total)
	for idx, chunkId := range chunkIds {
		data := t.data.marshalData(chunkContext{
			index:                idx,
			total:                total,
			initialTransactionId: transactionId,
		})
		header := bodyHeader{
			transactionId: chunkId,
			fee:           fee,
			validDuration: t.validDuration,
			memo:          t.memo,
		}
		chunks = append(chunks, &frozenChunk{
			transactionId: chunkId,
			bodies:        replicate(header, t.data.dataField(), data, nodes),
		})
	}
	t.transactionId = transactionId
	t.nodeAccountIds = slices.Clone(nodes)
	t.maxTransactionFee = fee
	t.chunks = chunks
	t.frozen = true
	return nil
}

// bodyHeader holds the TransactionBody fields shared by every kind
type bodyHeader struct {
	transactionId TransactionId
	fee           uint64
	validDuration time.Duration
	memo          string
}

// replicate renders one body per node. The bodies differ only in the node account ID
func replicate(
	header bodyHeader,
	dataField protowire.Number,
	data []byte,
	nodes []entity.EntityId,
) []*frozenBody {
	ret := make([]*frozenBody, 0, len(nodes))
	for _, node := range nodes {
		ret = append(ret, &frozenBody{
			nodeAccountId: node,
			bodyBytes:     encodeBody(header, node, dataField, data),
		})
	}
	return ret
}

func encodeBody(
	header bodyHeader,
	node entity.EntityId,
	dataField protowire.Number,
	data []byte,
) []byte {
	e := wire.NewEncoder()
	e.MessageField(bodyFieldTransactionId, header.transactionId)
	e.MessageField(bodyFieldNodeAccountId, node)
	e.Uint64Field(bodyFieldTransactionFee, header.fee)
	e.MessageField(bodyFieldValidDuration, wire.NewDuration(header.validDuration))
	e.StringField(bodyFieldMemo, header.memo)
	e.RawField(dataField, data)
	return e.Bytes()
}

// decodedBody is a TransactionBody split into its shared header and kind-specific data
type decodedBody struct {
	header    bodyHeader
	node      entity.EntityId
	dataField protowire.Number
	data      []byte
}

func decodeBody(data []byte) (*decodedBody, error) {
	ret := &decodedBody{}
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		var err error
		switch f.Number {
		case bodyFieldTransactionId:
			var raw []byte
			if raw, err = f.Bytes(); err == nil {
				ret.header.transactionId, err = UnmarshalTransactionId(raw)
			}
		case bodyFieldNodeAccountId:
			var raw []byte
			if raw, err = f.Bytes(); err == nil {
				ret.node, err = entity.UnmarshalWire(raw)
			}
		case bodyFieldTransactionFee:
			ret.header.fee, err = f.Uint64()
		case bodyFieldValidDuration:
			var raw []byte
			if raw, err = f.Bytes(); err == nil {
				var tmp wire.Duration
				tmp, err = wire.UnmarshalDuration(raw)
				ret.header.validDuration = tmp.Duration()
			}
		case bodyFieldMemo:
			ret.header.memo, err = f.String()
		default:
			if _, ok := transactionKinds[f.Number]; ok {
				ret.dataField = f.Number
				ret.data, err = f.Bytes()
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Sign registers the private key as a signer. Signatures are computed for every body when they
// are first needed
func (t *transaction) Sign(key keys.PrivateKey) error {
	return t.SignWith(key.PublicKey(), key.Signer())
}

// SignWith registers a signer for the public key. The signer is called at most once per body,
// possibly concurrently for different bodies, when signatures are first needed. Registering a
// public key that already has a signer does nothing. A key known only from attached signatures
// takes the signer, which then fills the bodies that key has not signed
func (t *transaction) SignWith(publicKey keys.PublicKey, signer keys.Signer) error {
	if !t.frozen {
		return NewValidationError(
			ValidationErrorTypeSignature,
			"transaction must be frozen before signing",
			nil,
			nil,
		)
	}
	if signer == nil {
		return NewValidationError(ValidationErrorTypeSignature, "signer must not be nil", nil, nil)
	}
	t.signMutex.Lock()
	defer t.signMutex.Unlock()
	if idx := t.signerIndex(publicKey); idx >= 0 {
		if t.signers[idx].signer == nil {
			t.signers[idx].signer = signer
		}
		return nil
	}
	t.signers = append(t.signers, signerEntry{publicKey: publicKey, signer: signer})
	return nil
}

// AddSignature attaches a signature computed elsewhere. This is only possible for transactions
// with a single body, and the signature must be valid for it
func (t *transaction) AddSignature(publicKey keys.PublicKey, signature []byte) error {
	if !t.frozen {
		return NewValidationError(
			ValidationErrorTypeSignature,
			"transaction must be frozen before adding signatures",
			nil,
			nil,
		)
	}
	bodies := t.bodies()
	if len(bodies) != 1 {
		return NewValidationError(
			ValidationErrorTypeSignature,
			fmt.Sprintf(
				"signatures can only be added directly to a transaction with a single body, this one has %d",
				len(bodies),
			),
			nil,
			nil,
		)
	}
	return t.addSignatures(publicKey, [][]byte{signature})
}

// addSignatures attaches one verified signature per body, in body order
func (t *transaction) addSignatures(publicKey keys.PublicKey, signatures [][]byte) error {
	bodies := t.bodies()
	if len(signatures) != len(bodies) {
		return NewValidationError(
			ValidationErrorTypeSignature,
			fmt.Sprintf("expected %d signatures, got %d", len(bodies), len(signatures)),
			nil,
			nil,
		)
	}
	for idx, body := range bodies {
		if !publicKey.Verify(body.bodyBytes, signatures[idx]) {
			return NewValidationError(
				ValidationErrorTypeSignature,
				"signature is not valid for the transaction body",
				map[string]any{
					"public_key": publicKey.String(),
					"node":       body.nodeAccountId.String(),
				},
				nil,
			)
		}
	}
	t.signMutex.Lock()
	defer t.signMutex.Unlock()
	slot := t.signerIndex(publicKey)
	if slot < 0 {
		t.signers = append(t.signers, signerEntry{publicKey: publicKey})
		slot = len(t.signers) - 1
	}
	// Bodies the key already signed keep their signature
	for idx, body := range bodies {
		body.grow(len(t.signers))
		if body.signatures[slot] == nil {
			body.signatures[slot] = slices.Clone(signatures[idx])
		}
	}
	return nil
}

// signerIndex must be called with signMutex held
func (t *transaction) signerIndex(publicKey keys.PublicKey) int {
	for idx, entry := range t.signers {
		if entry.publicKey.Equal(publicKey) {
			return idx
		}
	}
	return -1
}

func (b *frozenBody) grow(size int) {
	for len(b.signatures) < size {
		b.signatures = append(b.signatures, nil)
	}
}

// resolveSignatures calls every registered signer for each body it has not signed yet. Signers
// run concurrently across bodies. Every returned signature is verified against its body, and
// nothing is recorded unless the whole round succeeds
func (t *transaction) resolveSignatures(ctx context.Context) error {
	t.signMutex.Lock()
	defer t.signMutex.Unlock()
	type pending struct {
		body   *frozenBody
		signer int
		result []byte
	}
	var work []*pending
	for _, body := range t.bodies() {
		body.grow(len(t.signers))
		for idx, entry := range t.signers {
			if body.signatures[idx] == nil && entry.signer != nil {
				work = append(work, &pending{body: body, signer: idx})
			}
		}
	}
	if len(work) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range work {
		entry := t.signers[item.signer]
		g.Go(func() error {
			sig, err := entry.signer(gctx, item.body.bodyBytes)
			if err != nil {
				return NewValidationError(
					ValidationErrorTypeSignature,
					"signer failed",
					map[string]any{"public_key": entry.publicKey.String()},
					err,
				)
			}
			if !entry.publicKey.Verify(item.body.bodyBytes, sig) {
				return NewValidationError(
					ValidationErrorTypeSignature,
					"signer returned a signature that does not verify",
					map[string]any{
						"public_key": entry.publicKey.String(),
						"node":       item.body.nodeAccountId.String(),
					},
					nil,
				)
			}
			item.result = sig
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, item := range work {
		item.body.signatures[item.signer] = item.result
	}
	return nil
}

// bodies returns every per-node body of every chunk, in chunk then node order
func (t *transaction) bodies() []*frozenBody {
	var ret []*frozenBody
	for _, chunk := range t.chunks {
		ret = append(ret, chunk.bodies...)
	}
	return ret
}

// signatureMap must be called with signMutex held
func (t *transaction) signatureMap(body *frozenBody) keys.SignatureMap {
	var ret keys.SignatureMap
	for idx, entry := range t.signers {
		if idx < len(body.signatures) && body.signatures[idx] != nil {
			ret = append(ret, keys.SignaturePair{
				PublicKey: entry.publicKey,
				Signature: body.signatures[idx],
			})
		}
	}
	return ret
}

// signedTransactionBytes renders the SignedTransaction envelope for the body with every
// resolved signature, in attachment order
func (t *transaction) signedTransactionBytes(body *frozenBody) []byte {
	t.signMutex.Lock()
	sigMap := t.signatureMap(body)
	t.signMutex.Unlock()
	e := wire.NewEncoder()
	e.BytesField(signedTransactionFieldBodyBytes, body.bodyBytes)
	e.RawField(signedTransactionFieldSigMap, sigMap.MarshalWire())
	return e.Bytes()
}

func wrapSignedTransaction(signedTransactionBytes []byte) []byte {
	e := wire.NewEncoder()
	e.BytesField(transactionFieldSignedTransactionBytes, signedTransactionBytes)
	return e.Bytes()
}

// Signatures resolves any pending signers and returns the signatures attached to every body
func (t *transaction) Signatures(ctx context.Context) ([]BodySignatures, error) {
	if err := t.resolveSignatures(ctx); err != nil {
		return nil, err
	}
	t.signMutex.Lock()
	defer t.signMutex.Unlock()
	var ret []BodySignatures
	for _, chunk := range t.chunks {
		for _, body := range chunk.bodies {
			ret = append(ret, BodySignatures{
				TransactionId: chunk.transactionId,
				NodeAccountId: body.nodeAccountId,
				Signatures:    t.signatureMap(body),
			})
		}
	}
	return ret, nil
}

// VerifySignature reports whether the signatures on every body satisfy the key
func (t *transaction) VerifySignature(ctx context.Context, key keys.Key) (bool, error) {
	sigs, err := t.Signatures(ctx)
	if err != nil {
		return false, err
	}
	bodies := t.bodies()
	for idx, body := range bodies {
		if !keys.Verify(key, body.bodyBytes, sigs[idx].Signatures) {
			return false, nil
		}
	}
	return len(bodies) > 0, nil
}

// ToBytes resolves any pending signers and returns every signed body of every chunk as a
// TransactionList
func (t *transaction) ToBytes(ctx context.Context) ([]byte, error) {
	if !t.frozen {
		return nil, NewValidationError(
			ValidationErrorTypeEncoding,
			"transaction must be frozen before it can be serialized",
			nil,
			nil,
		)
	}
	if err := t.resolveSignatures(ctx); err != nil {
		return nil, err
	}
	e := wire.NewEncoder()
	for _, body := range t.bodies() {
		e.RawField(
			transactionListFieldTransactions,
			wrapSignedTransaction(t.signedTransactionBytes(body)),
		)
	}
	return e.Bytes(), nil
}

// Hash resolves any pending signers and returns the SHA-384 hash of the signed transaction
// sent to the node. For chunked transactions this is the hash of the first chunk
func (t *transaction) Hash(ctx context.Context, node entity.EntityId) ([]byte, error) {
	if !t.frozen {
		return nil, NewValidationError(
			ValidationErrorTypeEncoding,
			"transaction must be frozen before it can be hashed",
			nil,
			nil,
		)
	}
	if err := t.resolveSignatures(ctx); err != nil {
		return nil, err
	}
	body := t.chunks[0].body(node)
	if body == nil {
		return nil, NewValidationError(
			ValidationErrorTypeField,
			fmt.Sprintf("transaction has no body for node %s", node),
			nil,
			nil,
		)
	}
	return hashSignedTransaction(t.signedTransactionBytes(body)), nil
}

func hashSignedTransaction(signedTransactionBytes []byte) []byte {
	tmp := sha512.Sum384(signedTransactionBytes)
	return tmp[:]
}

// Execute sends the transaction, freezing it first if needed, and returns the response of the
// last chunk. When the client operator pays for the transaction, it signs it automatically.
// Every chunk of a chunked transaction must reach consensus successfully before the next one
// is sent
func (t *transaction) Execute(
	ctx context.Context,
	client *goledger.Client,
) (*TransactionResponse, error) {
	responses, err := t.ExecuteAll(ctx, client)
	if err != nil {
		return nil, err
	}
	return responses[len(responses)-1], nil
}

// ExecuteAll sends every chunk of the transaction in order and returns their responses. If a
// chunk fails, the responses of the chunks already sent are returned with a ChunkError
func (t *transaction) ExecuteAll(
	ctx context.Context,
	client *goledger.Client,
) ([]*TransactionResponse, error) {
	if client == nil {
		return nil, errNilClient
	}
	if err := t.FreezeWith(client); err != nil {
		return nil, err
	}
	if op := client.Operator(); op != nil && op.AccountId == t.transactionId.AccountId {
		if err := t.SignWith(op.PublicKey, op.Signer); err != nil {
			return nil, err
		}
	}
	if err := t.resolveSignatures(ctx); err != nil {
		return nil, err
	}
	ret := make([]*TransactionResponse, 0, len(t.chunks))
	for idx, chunk := range t.chunks {
		resp, err := t.executeChunk(ctx, client, chunk)
		if err == nil && len(t.chunks) > 1 {
			_, err = resp.GetReceipt(ctx, client)
		}
		if err != nil {
			if len(t.chunks) == 1 {
				return nil, err
			}
			return ret, &ChunkError{
				Index:         idx,
				Total:         len(t.chunks),
				TransactionId: chunk.transactionId,
				Err:           err,
			}
		}
		ret = append(ret, resp)
	}
	return ret, nil
}

func (t *transaction) executeChunk(
	ctx context.Context,
	client *goledger.Client,
	chunk *frozenChunk,
) (*TransactionResponse, error) {
	e := &execution[*TransactionResponse]{
		name:          t.data.kindName(),
		nodes:         t.nodeAccountIds,
		transactionId: chunk.transactionId,
		request: func(_ context.Context, node entity.EntityId) (transport.Method, []byte, error) {
			body := chunk.body(node)
			if body == nil {
				return "", nil, NewValidationError(
					ValidationErrorTypeFreeze,
					fmt.Sprintf("transaction has no body for node %s", node),
					nil,
					nil,
				)
			}
			return t.data.method(), wrapSignedTransaction(t.signedTransactionBytes(body)), nil
		},
		handle: func(node entity.EntityId, resp []byte) (*TransactionResponse, Status, outcome, error) {
			status, err := decodeTransactionResponse(resp)
			if err != nil {
				return nil, 0, outcomeFatal, err
			}
			switch {
			case status == StatusOk:
				return &TransactionResponse{
					NodeId:        node,
					TransactionId: chunk.transactionId,
					Hash:          hashSignedTransaction(t.signedTransactionBytes(chunk.body(node))),
				}, status, outcomeSuccess, nil
			case status.IsTransient():
				return nil, status, outcomeRetry, nil
			default:
				return nil, status, outcomeFatal, nil
			}
		},
	}
	return execute(ctx, client, e)
}

func decodeTransactionResponse(data []byte) (Status, error) {
	var status Status
	d := wire.NewDecoder(data)
	for d.Next() {
		f := d.Field()
		if f.Number == transactionResponseFieldPrecheck {
			tmp, err := f.Int32()
			if err != nil {
				return 0, err
			}
			status = Status(tmp)
		}
	}
	return status, d.Err()
}
