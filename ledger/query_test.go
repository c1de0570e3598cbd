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

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/internal/test/mocknet"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/ledger"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptPolling(t *testing.T) {
	network := mocknet.New().AddConversation(
		"node3",
		precheckEntry(ledger.StatusOk),
		receiptEntry(ledger.StatusBusy, ledger.TransactionReceipt{}),
		receiptStatusEntry(ledger.StatusUnknown),
		receiptEntry(ledger.StatusOk, ledger.TransactionReceipt{
			Status:    ledger.StatusSuccess,
			AccountId: entity.EntityId{Num: 2002},
		}),
	)
	client, recorder := newTestClient(t, network)
	tx := ledger.NewAccountCreateTransaction()
	require.NoError(t, tx.SetKey(testKey(t).PublicKey()))
	require.NoError(t, tx.SetInitialBalance(100))
	require.NoError(t, tx.SetNodeAccountIds(node3))
	resp, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)
	receipt, err := resp.GetReceipt(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusSuccess, receipt.Status)
	assert.Equal(t, entity.EntityId{Num: 2002}, receipt.AccountId)
	assert.Equal(t, tx.TransactionId(), receipt.TransactionId)
	assert.Len(t, recorder.Events(), 2)
	// Receipts are requested from the node that accepted the transaction
	for _, req := range network.RequestsFor(transport.MethodGetReceipt) {
		assert.Equal(t, "node3", req.Address)
		assert.Nil(t, queryPayment(t, req.Body, queryFieldReceipt))
	}
}

func TestReceiptStatusError(t *testing.T) {
	network := mocknet.New().AddConversation(
		"node4",
		receiptStatusEntry(ledger.StatusInsufficientPayerBalance),
		receiptStatusEntry(ledger.StatusInsufficientPayerBalance),
	)
	client, _ := newTestClient(t, network)
	id := ledger.NewTransactionId(operatorId)
	query := ledger.NewTransactionReceiptQuery().SetTransactionId(id)
	require.NoError(t, query.SetNodeAccountIds(node4))
	receipt, err := query.Execute(context.Background(), client)
	var statusErr *ledger.ReceiptStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.ErrorIs(t, err, ledger.ErrReceiptStatus)
	assert.Equal(t, ledger.StatusInsufficientPayerBalance, statusErr.Status)
	assert.Equal(t, id, statusErr.TransactionId)
	require.NotNil(t, receipt)
	assert.Same(t, receipt, statusErr.Receipt)
	// Without validation the failed receipt is returned as is
	receipt, err = query.SetValidateStatus(false).Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusInsufficientPayerBalance, receipt.Status)
}

func TestReceiptQueryValidation(t *testing.T) {
	client, _ := newTestClient(t, mocknet.New())
	_, err := ledger.NewTransactionReceiptQuery().Execute(context.Background(), client)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	query := ledger.NewTransactionReceiptQuery().SetTransactionId(ledger.NewTransactionId(operatorId))
	require.NoError(t, query.SetNodeAccountIds(entity.EntityId{Num: 42}))
	_, err = query.Execute(context.Background(), client)
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestAccountBalanceQuery(t *testing.T) {
	account := entity.EntityId{Num: 2002}
	network := mocknet.New().AddConversation(
		"node3",
		mocknet.ConversationEntry{
			Method: transport.MethodGetAccountBalance,
			Response: queryResponse(queryFieldBalance, ledger.StatusOk, 0, func(e *wire.Encoder) {
				e.MessageField(2, account)
				e.Uint64Field(3, 123456)
			}),
		},
	)
	client, _ := newTestClient(t, network)
	balance, err := ledger.NewAccountBalanceQuery().SetAccountId(account).Execute(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, account, balance.AccountId)
	assert.Equal(t, uint64(123456), balance.Balance)
	// Balance queries are free, so there is no cost probe and no payment
	requests := network.Requests()
	require.Len(t, requests, 1)
	assert.Nil(t, queryPayment(t, requests[0].Body, queryFieldBalance))
}

func TestAccountInfoQueryPayment(t *testing.T) {
	account := entity.EntityId{Num: 2002}
	info := ledger.AccountInfo{
		AccountId: account,
		Key:       testKey(t).PublicKey(),
		Balance:   500,
		Memo:      "info",
	}
	testDefs := []struct {
		name           string
		reportedCost   uint64
		expectedAmount int64
	}{
		{name: "reported cost", reportedCost: 40, expectedAmount: 40},
		{name: "minimum cost floor", reportedCost: 10, expectedAmount: 25},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			network := mocknet.New().AddConversation(
				"node3",
				costEntry(transport.MethodGetAccountInfo, queryFieldInfo, testDef.reportedCost),
				mocknet.ConversationEntry{
					Method: transport.MethodGetAccountInfo,
					Response: queryResponse(queryFieldInfo, ledger.StatusOk, 0, func(e *wire.Encoder) {
						e.MessageField(2, info)
					}),
				},
			)
			client, _ := newTestClient(t, network)
			query := ledger.NewAccountInfoQuery().SetAccountId(account)
			require.NoError(t, query.SetNodeAccountIds(node3))
			result, err := query.Execute(context.Background(), client)
			require.NoError(t, err)
			assert.Equal(t, account, result.AccountId)
			assert.Equal(t, uint64(500), result.Balance)
			assert.Equal(t, "info", result.Memo)
			pub, ok := result.Key.(keys.PublicKey)
			require.True(t, ok)
			assert.True(t, pub.Equal(testKey(t).PublicKey()))
			requests := network.Requests()
			require.Len(t, requests, 2)
			assert.Equal(t, ledger.ResponseTypeCostAnswer, queryResponseType(t, requests[0].Body, queryFieldInfo))
			assert.Equal(t, ledger.ResponseTypeAnswerOnly, queryResponseType(t, requests[1].Body, queryFieldInfo))
			assertPayment(t, queryPayment(t, requests[0].Body, queryFieldInfo), 0)
			assertPayment(t, queryPayment(t, requests[1].Body, queryFieldInfo), testDef.expectedAmount)
		})
	}
}

// assertPayment checks that a query payment transfers the amount from the operator to node 0.0.3
// and is signed by the operator
func assertPayment(t *testing.T, payment []byte, amount int64) {
	t.Helper()
	require.NotNil(t, payment)
	decoded, err := ledger.TransactionFromBytes(payment)
	require.NoError(t, err)
	transfer, ok := decoded.(*ledger.TransferTransaction)
	require.True(t, ok, "expected a TransferTransaction, got %T", decoded)
	assert.Equal(t, operatorId, transfer.TransactionId().AccountId)
	assert.Equal(t, []entity.EntityId{node3}, transfer.NodeAccountIds())
	assert.Equal(
		t,
		[]ledger.Transfer{
			{AccountId: node3, Amount: amount},
			{AccountId: operatorId, Amount: -amount},
		},
		transfer.Transfers(),
	)
	ok, err = transfer.VerifySignature(context.Background(), testKey(t).PublicKey())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQueryExplicitPayment(t *testing.T) {
	network := mocknet.New().AddConversation(
		"node3",
		mocknet.ConversationEntry{
			Method: transport.MethodGetAccountInfo,
			Response: queryResponse(queryFieldInfo, ledger.StatusOk, 0, func(e *wire.Encoder) {
				e.MessageField(2, ledger.AccountInfo{AccountId: node3})
			}),
		},
	)
	client, _ := newTestClient(t, network)
	query := ledger.NewAccountInfoQuery().SetAccountId(node3)
	require.NoError(t, query.SetNodeAccountIds(node3))
	query.SetQueryPayment(75)
	_, err := query.Execute(context.Background(), client)
	require.NoError(t, err)
	requests := network.Requests()
	require.Len(t, requests, 1)
	assertPayment(t, queryPayment(t, requests[0].Body, queryFieldInfo), 75)
}

func TestQueryMaxPaymentExceeded(t *testing.T) {
	network := mocknet.New().AddConversation(
		"node3",
		costEntry(transport.MethodGetAccountInfo, queryFieldInfo, 500),
	)
	client, _ := newTestClient(t, network)
	query := ledger.NewAccountInfoQuery().SetAccountId(node3)
	require.NoError(t, query.SetNodeAccountIds(node3))
	query.SetMaxQueryPayment(100)
	_, err := query.Execute(context.Background(), client)
	var maxErr *ledger.MaxQueryPaymentExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.ErrorIs(t, err, ledger.ErrMaxQueryPaymentExceeded)
	assert.Equal(t, uint64(500), maxErr.Cost)
	assert.Equal(t, uint64(100), maxErr.MaxQueryPayment)
	assert.Equal(t, "AccountInfoQuery", maxErr.Query)
	assert.Len(t, network.Requests(), 1)
}

func TestQueryCost(t *testing.T) {
	network := mocknet.New().AddConversation(
		"node3",
		costEntry(transport.MethodGetRecord, queryFieldRecord, 60),
	)
	client, _ := newTestClient(t, network)
	query := ledger.NewTransactionRecordQuery().SetTransactionId(ledger.NewTransactionId(operatorId))
	require.NoError(t, query.SetNodeAccountIds(node3))
	cost, err := query.Cost(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), cost)
	free, err := ledger.NewAccountBalanceQuery().SetAccountId(node3).Cost(context.Background(), client)
	require.NoError(t, err)
	assert.Zero(t, free)
}

func TestPaidQueryRequiresOperator(t *testing.T) {
	network := mocknet.New()
	client, err := goledger.NewClient(
		goledger.WithNodes(testNodes...),
		goledger.WithTransport(network),
	)
	require.NoError(t, err)
	defer client.Close()
	query := ledger.NewAccountInfoQuery().SetAccountId(node3)
	_, err = query.Execute(context.Background(), client)
	assert.ErrorIs(t, err, ledger.ErrValidation)
	assert.Empty(t, network.Requests())
}

func TestGetRecord(t *testing.T) {
	record := ledger.TransactionRecord{
		Receipt:            ledger.TransactionReceipt{Status: ledger.StatusSuccess},
		TransactionHash:    []byte{0x01, 0x02},
		ConsensusTimestamp: wire.Timestamp{Seconds: 1700000000, Nanos: 5},
		Memo:               "memo",
		TransactionFee:     8000,
		Transfers: []ledger.Transfer{
			{AccountId: operatorId, Amount: -8010},
			{AccountId: node3, Amount: 8010},
		},
	}
	network := mocknet.New().AddConversation(
		"node3",
		precheckEntry(ledger.StatusOk),
		receiptStatusEntry(ledger.StatusSuccess),
		costEntry(transport.MethodGetRecord, queryFieldRecord, 30),
		mocknet.ConversationEntry{
			Method: transport.MethodGetRecord,
			ResponseFunc: func(request []byte) ([]byte, error) {
				return queryResponse(queryFieldRecord, ledger.StatusOk, 0, func(e *wire.Encoder) {
					e.MessageField(3, record)
				}), nil
			},
		},
	)
	client, _ := newTestClient(t, network)
	tx := newOperatorTransfer(t)
	require.NoError(t, tx.SetNodeAccountIds(node3))
	resp, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)
	result, err := resp.GetRecord(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusSuccess, result.Receipt.Status)
	assert.Equal(t, tx.TransactionId(), result.TransactionId)
	assert.Equal(t, tx.TransactionId(), result.Receipt.TransactionId)
	assert.Equal(t, uint64(8000), result.TransactionFee)
	assert.Equal(t, "memo", result.Memo)
	assert.Equal(t, record.Transfers, result.Transfers)
	assert.Equal(t, record.ConsensusTimestamp, result.ConsensusTimestamp)
	assert.Equal(t, 0, network.Remaining())
}
