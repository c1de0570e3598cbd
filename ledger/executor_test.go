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
	"errors"
	"testing"
	"time"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/internal/test/mocknet"
	"github.com/blinklabs-io/goledger/ledger"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newOperatorTransfer(t *testing.T) *ledger.TransferTransaction {
	t.Helper()
	tx := ledger.NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(operatorId, -10))
	require.NoError(t, tx.AddTransfer(node3, 10))
	return tx
}

func TestExecuteRetriesBusyNodes(t *testing.T) {
	defer goleak.VerifyNone(t)
	network := mocknet.New().
		AddConversation("node3", precheckEntry(ledger.StatusBusy)).
		AddConversation("node4", precheckEntry(ledger.StatusBusy)).
		AddConversation("node5", precheckEntry(ledger.StatusOk))
	client, recorder := newTestClient(t, network)
	tx := newOperatorTransfer(t)
	resp, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, node5, resp.NodeId)
	assert.Equal(t, tx.TransactionId(), resp.TransactionId)
	hash, err := tx.Hash(context.Background(), node5)
	require.NoError(t, err)
	assert.Equal(t, hash, resp.Hash)
	events := recorder.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Attempt)
	assert.Equal(t, node3, events[0].Node)
	assert.Equal(t, 2, events[1].Attempt)
	assert.Equal(t, node4, events[1].Node)
	assert.Equal(t, events[0].ExecutionId, events[1].ExecutionId)
	var precheckErr *ledger.PrecheckError
	require.ErrorAs(t, events[0].Err, &precheckErr)
	assert.Equal(t, ledger.StatusBusy, precheckErr.Status)
	// The operator paid, so it signed automatically
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	for _, bodySigs := range sigs {
		assert.True(t, bodySigs.Signatures.Contains(testKey(t).PublicKey()))
	}
	assert.Equal(t, 0, network.Remaining())
}

func TestExecuteFatalStatus(t *testing.T) {
	network := mocknet.New().
		AddConversation("node3", precheckEntry(ledger.StatusInsufficientPayerBalance))
	client, recorder := newTestClient(t, network)
	tx := newOperatorTransfer(t)
	_, err := tx.Execute(context.Background(), client)
	var precheckErr *ledger.PrecheckError
	require.ErrorAs(t, err, &precheckErr)
	assert.ErrorIs(t, err, ledger.ErrPrecheck)
	assert.Equal(t, ledger.StatusInsufficientPayerBalance, precheckErr.Status)
	assert.Equal(t, node3, precheckErr.Node)
	assert.Equal(t, tx.TransactionId(), precheckErr.TransactionId)
	assert.Empty(t, recorder.Events())
	assert.Len(t, network.Requests(), 1)
}

func TestExecuteTransportFailure(t *testing.T) {
	network := mocknet.New().
		AddConversation("node3", mocknet.ConversationEntry{Err: transport.ErrUnavailable}).
		AddConversation("node4", precheckEntry(ledger.StatusOk))
	client, recorder := newTestClient(t, network, goledger.WithNodeExclusion(time.Minute))
	resp, err := newOperatorTransfer(t).Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, node4, resp.NodeId)
	assert.False(t, client.Nodes().IsHealthy(node3))
	assert.True(t, client.Nodes().IsHealthy(node4))
	events := recorder.Events()
	require.Len(t, events, 1)
	var transportErr *ledger.TransportError
	require.ErrorAs(t, events[0].Err, &transportErr)
	assert.Equal(t, node3, transportErr.Node)
	assert.Equal(t, "node3", transportErr.Address)
	assert.ErrorIs(t, events[0].Err, transport.ErrUnavailable)
}

func TestExecuteSkipsExcludedNodes(t *testing.T) {
	network := mocknet.New().
		AddConversation("node3", mocknet.ConversationEntry{Err: transport.ErrUnavailable}).
		AddConversation("node4", precheckEntry(ledger.StatusOk), precheckEntry(ledger.StatusOk))
	client, _ := newTestClient(t, network, goledger.WithNodeExclusion(time.Minute))
	tx := newOperatorTransfer(t)
	require.NoError(t, tx.SetNodeAccountIds(node3, node4))
	_, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)
	// node3 is still excluded, so the next execution goes straight to node4
	second := newOperatorTransfer(t)
	require.NoError(t, second.SetNodeAccountIds(node3, node4))
	resp, err := second.Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, node4, resp.NodeId)
	assert.Len(t, network.Requests(), 3)
}

func TestExecuteUnsupportedMethod(t *testing.T) {
	network := mocknet.New().
		AddConversation("node3", mocknet.ConversationEntry{Err: transport.ErrUnsupported})
	client, recorder := newTestClient(t, network)
	_, err := newOperatorTransfer(t).Execute(context.Background(), client)
	var transportErr *ledger.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, transport.ErrUnsupported)
	assert.Empty(t, recorder.Events())
}

func TestExecuteMaxAttempts(t *testing.T) {
	network := mocknet.New().SetDefault(
		func(string, transport.Method, []byte) ([]byte, error) {
			return precheckResponse(ledger.StatusBusy), nil
		},
	)
	client, recorder := newTestClient(t, network, goledger.WithMaxAttempts(3))
	_, err := newOperatorTransfer(t).Execute(context.Background(), client)
	var maxErr *ledger.MaxAttemptsExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.ErrorIs(t, err, ledger.ErrMaxAttemptsExceeded)
	assert.Equal(t, 3, maxErr.Attempts)
	status, ok := maxErr.LastStatus()
	require.True(t, ok)
	assert.Equal(t, ledger.StatusBusy, status)
	assert.Len(t, recorder.Events(), 2)
	assert.Len(t, network.Requests(), 3)
}

func TestExecuteTimeout(t *testing.T) {
	network := mocknet.New().SetDefault(
		func(string, transport.Method, []byte) ([]byte, error) {
			return precheckResponse(ledger.StatusPlatformNotActive), nil
		},
	)
	client, _ := newTestClient(
		t,
		network,
		goledger.WithMaxAttempts(1_000_000),
		goledger.WithRequestTimeout(20*time.Millisecond),
	)
	_, err := newOperatorTransfer(t).Execute(context.Background(), client)
	var timeoutErr *ledger.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.ErrorIs(t, err, ledger.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, timeoutErr.Attempts)
	status, ok := timeoutErr.LastStatus()
	require.True(t, ok)
	assert.Equal(t, ledger.StatusPlatformNotActive, status)
	assert.False(t, errors.Is(err, ledger.ErrPrecheck))
}

func TestExecuteCanceled(t *testing.T) {
	client, _ := newTestClient(t, mocknet.New())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newOperatorTransfer(t).Execute(ctx, client)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteWithoutOperatorSignature(t *testing.T) {
	// A transaction paid by another account is not signed by the operator
	network := mocknet.New().AddConversation("node3", precheckEntry(ledger.StatusOk))
	client, _ := newTestClient(t, network)
	tx := newGoldenTransfer(t, node3)
	_, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)
	sigs, err := tx.Signatures(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sigs[0].Signatures)
}

func TestExecuteRequiresClient(t *testing.T) {
	_, err := newOperatorTransfer(t).Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}
