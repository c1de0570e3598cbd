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

package ledger_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/internal/test"
	"github.com/blinklabs-io/goledger/internal/test/mocknet"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/ledger"
	"github.com/blinklabs-io/goledger/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	goldenTransactionListBase64 = "CqoBKqcBCj0KDgoICNzJBxDbnwkSAhgDEgIYBRjAhD0iAgh4Mgl0ZXN0IG1lbW9yFAoSCgcKAhgDEMcBCgcKAhgEEMgBEmYKZAog11qYAYKxCrfVS/7TyWQHOg7hcvPapiMlrwIaaPcHURoaQKTfJc4eKZKh/jhvztJyDr3TNMzhtUFUTpEgiP+QsxZg28w6FOiynPFCORI1H+51EH9xVyGl8Vq+0yIVrMdT0wk="
	goldenBodyHex               = "0a0e0a0808dcc90710db9f09120218031202180518c0843d22020878320974657374206d656d6f72140a120a070a02180310c7010a070a02180410c801"
	goldenSignatureHex          = "a4df25ce1e2992a1fe386fced2720ebdd334cce1b541544e912088ff90b31660dbcc3a14e8b29cf1423912351fee75107f715721a5f15abed32215acc753d309"
	goldenHashHex               = "ba6e54416b00f3e3c7ad45cf382a7123f980c154395f7e98c8558b441840b8b77f5dd86b436bd8f915355f541ca19eea"
)

func goldenTransactionId() ledger.TransactionId {
	return ledger.TransactionId{
		AccountId:  node3,
		ValidStart: wire.Timestamp{Seconds: 124124, Nanos: 151515},
	}
}

// newGoldenTransfer builds a transfer paid by 0.0.3 with a fixed valid start, sent to the nodes
func newGoldenTransfer(t *testing.T, nodes ...entity.EntityId) *ledger.TransferTransaction {
	t.Helper()
	tx := ledger.NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(node3, -100))
	require.NoError(t, tx.AddTransfer(node4, 100))
	require.NoError(t, tx.SetTransactionId(goldenTransactionId()))
	require.NoError(t, tx.SetNodeAccountIds(nodes...))
	require.NoError(t, tx.SetMaxTransactionFee(1_000_000))
	require.NoError(t, tx.SetMemo("test memo"))
	return tx
}

func TestGoldenSignedTransaction(t *testing.T) {
	tx := newGoldenTransfer(t, node5)
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.Sign(testKey(t)))
	data, err := tx.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, goldenTransactionListBase64, base64.StdEncoding.EncodeToString(data))
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, node5, sigs[0].NodeAccountId)
	require.Len(t, sigs[0].Signatures, 1)
	assert.Equal(t, goldenSignatureHex, hex.EncodeToString(sigs[0].Signatures[0].Signature))
	hash, err := tx.Hash(context.Background(), node5)
	require.NoError(t, err)
	assert.Equal(t, goldenHashHex, hex.EncodeToString(hash))
}

func TestGoldenRoundTrip(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(goldenTransactionListBase64)
	require.NoError(t, err)
	decoded, err := ledger.TransactionFromBytes(data)
	require.NoError(t, err)
	tx, ok := decoded.(*ledger.TransferTransaction)
	require.True(t, ok, "expected a TransferTransaction, got %T", decoded)
	assert.True(t, tx.IsFrozen())
	assert.Equal(t, goldenTransactionId(), tx.TransactionId())
	assert.Equal(t, "0.0.3@124124.000151515", tx.TransactionId().String())
	assert.Equal(t, uint64(1_000_000), tx.MaxTransactionFee())
	assert.Equal(t, 120*time.Second, tx.ValidDuration())
	assert.Equal(t, "test memo", tx.Memo())
	assert.Equal(t, []entity.EntityId{node5}, tx.NodeAccountIds())
	assert.Equal(
		t,
		[]ledger.Transfer{
			{AccountId: node3, Amount: -100},
			{AccountId: node4, Amount: 100},
		},
		tx.Transfers(),
	)
	verified, err := tx.VerifySignature(context.Background(), testKey(t).PublicKey())
	require.NoError(t, err)
	assert.True(t, verified)
	// Re-encoding the decoded transaction gives back the same bytes
	again, err := tx.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data, again)
	// Rebuilding the same transaction from its fields gives the same body
	rebuilt := newGoldenTransfer(t, node5)
	require.NoError(t, rebuilt.Freeze())
	req, err := rebuilt.SigningRequest()
	require.NoError(t, err)
	require.Len(t, req.Bodies, 1)
	assert.Equal(t, goldenBodyHex, hex.EncodeToString(req.Bodies[0].BodyBytes))
}

func TestFreezeIsDeterministic(t *testing.T) {
	first := newGoldenTransfer(t, node3, node4, node5)
	second := newGoldenTransfer(t, node3, node4, node5)
	require.NoError(t, first.Freeze())
	require.NoError(t, second.Freeze())
	firstBytes, err := first.ToBytes(context.Background())
	require.NoError(t, err)
	secondBytes, err := second.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
	// Freezing again does nothing
	require.NoError(t, first.Freeze())
	again, err := first.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, firstBytes, again)
}

func TestFreezeWithClient(t *testing.T) {
	client, _ := newTestClient(t, mocknet.New())
	tx := ledger.NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(operatorId, -1))
	require.NoError(t, tx.AddTransfer(node3, 1))
	before := time.Now()
	require.NoError(t, tx.FreezeWith(client))
	assert.Equal(t, operatorId, tx.TransactionId().AccountId)
	validStart := tx.TransactionId().ValidStart.Time()
	assert.True(t, validStart.Before(before), "valid start should be in the past")
	assert.True(t, validStart.After(before.Add(-time.Minute)))
	assert.Equal(t, []entity.EntityId{node3, node4, node5}, tx.NodeAccountIds())
	assert.Equal(t, client.DefaultMaxTransactionFee(), tx.MaxTransactionFee())
}

func TestFreezeErrors(t *testing.T) {
	client, _ := newTestClient(t, mocknet.New())
	t.Run("no payer", func(t *testing.T) {
		tx := ledger.NewTransferTransaction()
		require.NoError(t, tx.AddTransfer(node3, 0))
		err := tx.Freeze()
		assert.ErrorIs(t, err, ledger.ErrValidation)
		assert.False(t, tx.IsFrozen())
	})
	t.Run("no nodes", func(t *testing.T) {
		tx := ledger.NewTransferTransaction()
		require.NoError(t, tx.AddTransfer(node3, 0))
		require.NoError(t, tx.SetTransactionId(goldenTransactionId()))
		assert.ErrorIs(t, tx.Freeze(), ledger.ErrValidation)
	})
	t.Run("node outside the network", func(t *testing.T) {
		tx := newGoldenTransfer(t, entity.EntityId{Num: 99})
		err := tx.FreezeWith(client)
		assert.ErrorIs(t, err, ledger.ErrValidation)
		assert.False(t, tx.IsFrozen())
	})
	t.Run("unbalanced transfer", func(t *testing.T) {
		tx := newGoldenTransfer(t, node3)
		require.NoError(t, tx.AddTransfer(node4, 1))
		assert.ErrorIs(t, tx.FreezeWith(client), ledger.ErrValidation)
	})
	t.Run("empty transfer", func(t *testing.T) {
		tx := ledger.NewTransferTransaction()
		assert.ErrorIs(t, tx.FreezeWith(client), ledger.ErrValidation)
	})
	t.Run("account create without key", func(t *testing.T) {
		tx := ledger.NewAccountCreateTransaction()
		assert.ErrorIs(t, tx.FreezeWith(client), ledger.ErrValidation)
	})
}

func TestFrozenSetters(t *testing.T) {
	tx := newGoldenTransfer(t, node3)
	require.NoError(t, tx.Freeze())
	var frozenErr *ledger.FrozenStateError
	for _, err := range []error{
		tx.SetMemo("other"),
		tx.SetMaxTransactionFee(1),
		tx.SetValidDuration(time.Minute),
		tx.SetTransactionId(ledger.TransactionId{}),
		tx.SetNodeAccountIds(node4),
		tx.AddTransfer(node3, 1),
	} {
		require.ErrorAs(t, err, &frozenErr)
		assert.ErrorIs(t, err, ledger.ErrFrozen)
	}
	assert.Equal(t, "test memo", tx.Memo())
	assert.Equal(t, []entity.EntityId{node3}, tx.NodeAccountIds())
}

func TestSetterValidation(t *testing.T) {
	tx := ledger.NewTransferTransaction()
	assert.ErrorIs(t, tx.SetMemo(string(make([]byte, ledger.MaxMemoLength+1))), ledger.ErrValidation)
	assert.ErrorIs(t, tx.SetValidDuration(time.Hour), ledger.ErrValidation)
	assert.ErrorIs(t, tx.SetNodeAccountIds(node3, node3), ledger.ErrValidation)
	assert.Equal(t, ledger.DefaultValidDuration, tx.ValidDuration())
}

func TestSignRequiresFrozen(t *testing.T) {
	tx := newGoldenTransfer(t, node3)
	assert.ErrorIs(t, tx.Sign(testKey(t)), ledger.ErrValidation)
	_, err := tx.ToBytes(context.Background())
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestSignWithIsLazyAndIdempotent(t *testing.T) {
	key := testKey(t)
	var calls atomic.Int32
	signer := func(ctx context.Context, message []byte) ([]byte, error) {
		calls.Add(1)
		return key.Sign(message), nil
	}
	tx := newGoldenTransfer(t, node3, node4, node5)
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.SignWith(key.PublicKey(), signer))
	require.NoError(t, tx.SignWith(key.PublicKey(), signer))
	require.NoError(t, tx.Sign(key))
	assert.Equal(t, int32(0), calls.Load(), "signers must not run before signatures are needed")
	_, err := tx.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "one call per body")
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, sigs, 3)
	for idx, bodySigs := range sigs {
		assert.Equal(t, []entity.EntityId{node3, node4, node5}[idx], bodySigs.NodeAccountId)
		require.Len(t, bodySigs.Signatures, 1)
		assert.True(t, bodySigs.Signatures.Contains(key.PublicKey()))
	}
	// Signatures cover the node ID, so they differ between bodies
	assert.NotEqual(t, sigs[0].Signatures[0].Signature, sigs[1].Signatures[0].Signature)
}

func TestSignWithFailedRoundIsRetried(t *testing.T) {
	key := testKey(t)
	other, err := keys.GeneratePrivateKeyEcdsa()
	require.NoError(t, err)
	var fail atomic.Bool
	fail.Store(true)
	tx := newGoldenTransfer(t, node3, node4)
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.Sign(key))
	require.NoError(t, tx.SignWith(
		other.PublicKey(),
		func(ctx context.Context, message []byte) ([]byte, error) {
			if fail.Load() {
				return nil, errors.New("signer offline")
			}
			return other.Sign(message), nil
		},
	))
	_, err = tx.ToBytes(context.Background())
	require.ErrorIs(t, err, ledger.ErrValidation)
	fail.Store(false)
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	for _, bodySigs := range sigs {
		require.Len(t, bodySigs.Signatures, 2)
		assert.True(t, bodySigs.Signatures[0].PublicKey.Equal(key.PublicKey()))
		assert.True(t, bodySigs.Signatures[1].PublicKey.Equal(other.PublicKey()))
	}
}

func TestSignWithRejectsBadSignature(t *testing.T) {
	key := testKey(t)
	tx := newGoldenTransfer(t, node3)
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.SignWith(
		key.PublicKey(),
		func(ctx context.Context, message []byte) ([]byte, error) {
			return make([]byte, 64), nil
		},
	))
	_, err := tx.ToBytes(context.Background())
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestAddSignature(t *testing.T) {
	key := testKey(t)
	single := newGoldenTransfer(t, node5)
	require.NoError(t, single.Freeze())
	assert.ErrorIs(
		t,
		single.AddSignature(key.PublicKey(), make([]byte, 64)),
		ledger.ErrValidation,
	)
	require.NoError(t, single.AddSignature(key.PublicKey(), test.DecodeHexString(goldenSignatureHex)))
	data, err := single.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, goldenTransactionListBase64, base64.StdEncoding.EncodeToString(data))
	multi := newGoldenTransfer(t, node3, node4)
	require.NoError(t, multi.Freeze())
	assert.ErrorIs(
		t,
		multi.AddSignature(key.PublicKey(), test.DecodeHexString(goldenSignatureHex)),
		ledger.ErrValidation,
	)
}

func TestVerifySignatureWithThresholdKey(t *testing.T) {
	var privs []keys.PrivateKey
	var pubs []keys.Key
	for range 3 {
		priv, err := keys.GeneratePrivateKeyEd25519()
		require.NoError(t, err)
		privs = append(privs, priv)
		pubs = append(pubs, priv.PublicKey())
	}
	threshold, err := keys.NewThresholdKey(2, pubs...)
	require.NoError(t, err)
	tx := newGoldenTransfer(t, node3, node4)
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.Sign(privs[0]))
	ok, err := tx.VerifySignature(context.Background(), threshold)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, tx.Sign(privs[2]))
	ok, err = tx.VerifySignature(context.Background(), threshold)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tx.VerifySignature(context.Background(), keys.NewKeyList(pubs...))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactionFromBytesMultiNodeChunked(t *testing.T) {
	key := testKey(t)
	contents := make([]byte, 10)
	for i := range contents {
		contents[i] = byte(i)
	}
	tx := ledger.NewFileAppendTransaction()
	require.NoError(t, tx.SetFileId(entity.EntityId{Num: 150}))
	require.NoError(t, tx.SetContents(contents))
	require.NoError(t, tx.SetChunkSize(4))
	require.NoError(t, tx.SetTransactionId(goldenTransactionId()))
	require.NoError(t, tx.SetNodeAccountIds(node3, node4))
	require.NoError(t, tx.Freeze())
	require.NoError(t, tx.Sign(key))
	data, err := tx.ToBytes(context.Background())
	require.NoError(t, err)
	decoded, err := ledger.TransactionFromBytes(data)
	require.NoError(t, err)
	restored, ok := decoded.(*ledger.FileAppendTransaction)
	require.True(t, ok, "expected a FileAppendTransaction, got %T", decoded)
	assert.Equal(t, contents, restored.Contents())
	assert.Equal(t, 4, restored.ChunkSize())
	assert.Equal(t, entity.EntityId{Num: 150}, restored.FileId())
	assert.Equal(t, []entity.EntityId{node3, node4}, restored.NodeAccountIds())
	sigs, err := restored.Signatures(context.Background())
	require.NoError(t, err)
	// 3 chunks on 2 nodes
	require.Len(t, sigs, 6)
	for idx, bodySigs := range sigs {
		assert.Equal(t, uint32(idx/2), uint32(bodySigs.TransactionId.ValidStart.Nanos-151515))
		assert.True(t, bodySigs.Signatures.Contains(key.PublicKey()))
	}
	again, err := restored.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestTransactionFromBytesErrors(t *testing.T) {
	_, err := ledger.TransactionFromBytes(nil)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	_, err = ledger.TransactionFromBytes([]byte{0xff})
	assert.ErrorIs(t, err, ledger.ErrValidation)
	// Tampered signature
	data, err := base64.StdEncoding.DecodeString(goldenTransactionListBase64)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	_, err = ledger.TransactionFromBytes(data)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

// transactionListEntries returns the signed transaction envelopes of a TransactionList
func transactionListEntries(t *testing.T, data []byte) [][]byte {
	t.Helper()
	var ret [][]byte
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		require.GreaterOrEqual(t, n, 0)
		require.Equal(t, protowire.Number(1), num)
		require.Equal(t, protowire.BytesType, typ)
		data = data[n:]
		entry, n := protowire.ConsumeBytes(data)
		require.GreaterOrEqual(t, n, 0)
		ret = append(ret, entry)
		data = data[n:]
	}
	return ret
}

func buildTransactionList(entries ...[]byte) []byte {
	var ret []byte
	for _, entry := range entries {
		ret = protowire.AppendTag(ret, 1, protowire.BytesType)
		ret = protowire.AppendBytes(ret, entry)
	}
	return ret
}

func TestSignFillsBodiesMissingImportedKey(t *testing.T) {
	key := testKey(t)
	signed := newGoldenTransfer(t, node3, node4)
	require.NoError(t, signed.Freeze())
	require.NoError(t, signed.Sign(key))
	signedBytes, err := signed.ToBytes(context.Background())
	require.NoError(t, err)
	unsigned := newGoldenTransfer(t, node3, node4)
	require.NoError(t, unsigned.Freeze())
	unsignedBytes, err := unsigned.ToBytes(context.Background())
	require.NoError(t, err)
	signedEntries := transactionListEntries(t, signedBytes)
	unsignedEntries := transactionListEntries(t, unsignedBytes)
	require.Len(t, signedEntries, 2)
	require.Len(t, unsignedEntries, 2)
	decoded, err := ledger.TransactionFromBytes(
		buildTransactionList(signedEntries[0], unsignedEntries[1]),
	)
	require.NoError(t, err)
	tx, ok := decoded.(*ledger.TransferTransaction)
	require.True(t, ok, "expected a TransferTransaction, got %T", decoded)
	ok, err = tx.VerifySignature(context.Background(), key.PublicKey())
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, tx.Sign(key))
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Equal(t, node3, sigs[0].NodeAccountId)
	assert.Equal(t, node4, sigs[1].NodeAccountId)
	for _, bodySigs := range sigs {
		require.Len(t, bodySigs.Signatures, 1)
		assert.True(t, bodySigs.Signatures.Contains(key.PublicKey()))
	}
	ok, err = tx.VerifySignature(context.Background(), key.PublicKey())
	require.NoError(t, err)
	assert.True(t, ok)
	// The re-exported list matches one signed in a single pass
	again, err := tx.ToBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, signedBytes, again)
}

func TestTransactionFromBytesDuplicateNode(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(goldenTransactionListBase64)
	require.NoError(t, err)
	entries := transactionListEntries(t, data)
	require.Len(t, entries, 1)
	_, err = ledger.TransactionFromBytes(buildTransactionList(entries[0], entries[0]))
	assert.ErrorIs(t, err, ledger.ErrValidation)
	var validationErr *ledger.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "more than once")
}
