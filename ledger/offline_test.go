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
	"testing"
	"time"

	"github.com/blinklabs-io/goledger/cbor"
	"github.com/blinklabs-io/goledger/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrozenAccountCreate(t *testing.T) *ledger.AccountCreateTransaction {
	t.Helper()
	tx := ledger.NewAccountCreateTransaction()
	require.NoError(t, tx.SetKey(testKey(t).PublicKey()))
	require.NoError(t, tx.SetInitialBalance(1000))
	require.NoError(t, tx.SetTransactionId(
		ledger.NewTransactionIdWithValidStart(operatorId, time.Unix(1700000000, 0)),
	))
	require.NoError(t, tx.SetNodeAccountIds(node3, node4))
	require.NoError(t, tx.Freeze())
	return tx
}

func TestSigningRequestRoundTrip(t *testing.T) {
	tx := newFrozenAccountCreate(t)
	req, err := tx.SigningRequest()
	require.NoError(t, err)
	assert.Equal(t, uint(ledger.SigningRequestVersion), req.Version)
	assert.Equal(t, "AccountCreateTransaction", req.Kind)
	assert.Equal(t, "0.0.1001@1700000000.000000000", req.TransactionId)
	require.Len(t, req.Bodies, 2)
	assert.Equal(t, "0.0.3", req.Bodies[0].NodeAccountId)
	assert.Equal(t, "0.0.4", req.Bodies[1].NodeAccountId)

	cborData, err := cbor.Encode(req)
	require.NoError(t, err)
	decoded, err := ledger.NewSigningRequestFromCbor(cborData)
	require.NoError(t, err)
	assert.Equal(t, cborData, decoded.Cbor())
	assert.Equal(t, req.TransactionId, decoded.TransactionId)
	require.Len(t, decoded.Bodies, 2)
	assert.Equal(t, req.Bodies[1].BodyBytes, decoded.Bodies[1].BodyBytes)
	expected, err := req.Fingerprint()
	require.NoError(t, err)
	actual, err := decoded.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
	assert.Len(t, actual, 32)
}

func TestSigningRequestRequiresFrozen(t *testing.T) {
	tx := ledger.NewAccountCreateTransaction()
	_, err := tx.SigningRequest()
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestSigningRequestVersion(t *testing.T) {
	req, err := newFrozenAccountCreate(t).SigningRequest()
	require.NoError(t, err)
	req.Version = 99
	cborData, err := cbor.Encode(req)
	require.NoError(t, err)
	_, err = ledger.NewSigningRequestFromCbor(cborData)
	assert.ErrorContains(t, err, "unsupported signing request version 99")
}

func TestAddSignatureBundle(t *testing.T) {
	key := testKey(t)
	tx := newFrozenAccountCreate(t)
	req, err := tx.SigningRequest()
	require.NoError(t, err)
	reqCbor, err := cbor.Encode(req)
	require.NoError(t, err)

	// The request travels to the signer as CBOR and the bundle travels back the same way
	remote, err := ledger.NewSigningRequestFromCbor(reqCbor)
	require.NoError(t, err)
	bundle, err := remote.Sign(context.Background(), key.PublicKey(), key.Signer())
	require.NoError(t, err)
	bundleCbor, err := bundle.Cbor()
	require.NoError(t, err)
	received, err := ledger.NewSignatureBundleFromCbor(bundleCbor)
	require.NoError(t, err)
	require.Len(t, received.Signatures, 2)

	require.NoError(t, tx.AddSignatureBundle(received))
	ok, err := tx.VerifySignature(context.Background(), key.PublicKey())
	require.NoError(t, err)
	assert.True(t, ok)
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	for _, body := range sigs {
		assert.True(t, body.Signatures.Contains(key.PublicKey()))
	}
}

func TestAddSignatureBundleMismatch(t *testing.T) {
	key := testKey(t)
	other := ledger.NewAccountCreateTransaction()
	require.NoError(t, other.SetKey(key.PublicKey()))
	require.NoError(t, other.SetTransactionId(
		ledger.NewTransactionIdWithValidStart(operatorId, time.Unix(1700000001, 0)),
	))
	require.NoError(t, other.SetNodeAccountIds(node3, node4))
	require.NoError(t, other.Freeze())
	otherReq, err := other.SigningRequest()
	require.NoError(t, err)
	bundle, err := otherReq.Sign(context.Background(), key.PublicKey(), key.Signer())
	require.NoError(t, err)

	tx := newFrozenAccountCreate(t)
	err = tx.AddSignatureBundle(bundle)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	ok, err := tx.VerifySignature(context.Background(), key.PublicKey())
	require.NoError(t, err)
	assert.False(t, ok)

	// A bundle with the right fingerprint but a forged signature is rejected as a whole
	req, err := tx.SigningRequest()
	require.NoError(t, err)
	forged, err := req.Sign(context.Background(), key.PublicKey(), key.Signer())
	require.NoError(t, err)
	forged.Signatures[1] = append([]byte(nil), forged.Signatures[0]...)
	assert.ErrorIs(t, tx.AddSignatureBundle(forged), ledger.ErrValidation)
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	for _, body := range sigs {
		assert.Empty(t, body.Signatures)
	}
}

func TestSignatureBundleString(t *testing.T) {
	bundle := &ledger.SignatureBundle{
		RequestFingerprint: []byte{0xab},
		PublicKey:          []byte{0xcd},
		Signatures:         [][]byte{{1}, {2}},
	}
	assert.Equal(
		t,
		"SignatureBundle { RequestFingerprint: ab, PublicKey: cd, Signatures: 2 }",
		bundle.String(),
	)
}
