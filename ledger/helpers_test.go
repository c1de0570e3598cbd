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
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/internal/test"
	"github.com/blinklabs-io/goledger/internal/test/mocknet"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/ledger"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/blinklabs-io/goledger/wire"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

var (
	node3      = entity.EntityId{Num: 3}
	node4      = entity.EntityId{Num: 4}
	node5      = entity.EntityId{Num: 5}
	operatorId = entity.EntityId{Num: 1001}

	testNodes = []goledger.Node{
		{AccountId: node3, Address: "node3"},
		{AccountId: node4, Address: "node4"},
		{AccountId: node5, Address: "node5"},
	}
)

const (
	queryFieldBalance = 7
	queryFieldInfo    = 9
	queryFieldReceipt = 14
	queryFieldRecord  = 15
)

func testKey(t *testing.T) keys.PrivateKey {
	t.Helper()
	return test.Ed25519PrivateKey()
}

// retryRecorder collects retry events reported by a client
type retryRecorder struct {
	mutex  sync.Mutex
	events []goledger.RetryEvent
}

func (r *retryRecorder) observe(event goledger.RetryEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, event)
}

func (r *retryRecorder) Events() []goledger.RetryEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]goledger.RetryEvent(nil), r.events...)
}

// newTestClient returns a client for the three test nodes, served by the mock network, with
// the test key as operator and short backoffs
func newTestClient(
	t *testing.T,
	network *mocknet.Network,
	opts ...goledger.ClientOptionFunc,
) (*goledger.Client, *retryRecorder) {
	t.Helper()
	recorder := &retryRecorder{}
	base := []goledger.ClientOptionFunc{
		goledger.WithNodes(testNodes...),
		goledger.WithTransport(network),
		goledger.WithOperator(operatorId, testKey(t)),
		goledger.WithMinBackoff(time.Millisecond),
		goledger.WithMaxBackoff(2 * time.Millisecond),
		goledger.WithNodeExclusion(time.Millisecond),
		goledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		goledger.WithRetryObserver(recorder.observe),
	}
	client, err := goledger.NewClient(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, recorder
}

func precheckResponse(status ledger.Status) []byte {
	e := wire.NewEncoder()
	e.EnumField(1, int32(status))
	return e.Bytes()
}

func precheckEntry(status ledger.Status) mocknet.ConversationEntry {
	return mocknet.ConversationEntry{Response: precheckResponse(status)}
}

func queryResponse(
	field protowire.Number,
	status ledger.Status,
	cost uint64,
	fields func(e *wire.Encoder),
) []byte {
	header := wire.NewEncoder()
	header.EnumField(1, int32(status))
	header.Uint64Field(3, cost)
	inner := wire.NewEncoder()
	inner.RawField(1, header.Bytes())
	if fields != nil {
		fields(inner)
	}
	outer := wire.NewEncoder()
	outer.RawField(field, inner.Bytes())
	return outer.Bytes()
}

func receiptEntry(headerStatus ledger.Status, receipt ledger.TransactionReceipt) mocknet.ConversationEntry {
	return mocknet.ConversationEntry{
		Method: transport.MethodGetReceipt,
		Response: queryResponse(queryFieldReceipt, headerStatus, 0, func(e *wire.Encoder) {
			e.MessageField(2, receipt)
		}),
	}
}

func receiptStatusEntry(status ledger.Status) mocknet.ConversationEntry {
	return receiptEntry(ledger.StatusOk, ledger.TransactionReceipt{Status: status})
}

func costEntry(method transport.Method, field protowire.Number, cost uint64) mocknet.ConversationEntry {
	return mocknet.ConversationEntry{
		Method:   method,
		Response: queryResponse(field, ledger.StatusOk, cost, nil),
	}
}

// queryPayment extracts the payment transaction from the header of a recorded query
func queryPayment(t *testing.T, request []byte, field protowire.Number) []byte {
	t.Helper()
	var inner []byte
	for _, f := range mustFields(t, request) {
		if f.Number == field {
			var err error
			inner, err = f.Bytes()
			require.NoError(t, err)
		}
	}
	require.NotNil(t, inner, "query field %d not found", field)
	for _, f := range mustFields(t, inner) {
		if f.Number != 1 {
			continue
		}
		header, err := f.Bytes()
		require.NoError(t, err)
		for _, hf := range mustFields(t, header) {
			if hf.Number == 1 {
				payment, err := hf.Bytes()
				require.NoError(t, err)
				return payment
			}
		}
	}
	return nil
}

// queryResponseType extracts the response type from the header of a recorded query
func queryResponseType(t *testing.T, request []byte, field protowire.Number) ledger.ResponseType {
	t.Helper()
	for _, f := range mustFields(t, request) {
		if f.Number != field {
			continue
		}
		inner, err := f.Bytes()
		require.NoError(t, err)
		for _, qf := range mustFields(t, inner) {
			if qf.Number != 1 {
				continue
			}
			header, err := qf.Bytes()
			require.NoError(t, err)
			for _, hf := range mustFields(t, header) {
				if hf.Number == 2 {
					v, err := hf.Int32()
					require.NoError(t, err)
					return ledger.ResponseType(v)
				}
			}
		}
	}
	return ledger.ResponseTypeAnswerOnly
}

func mustFields(t *testing.T, data []byte) []wire.Field {
	t.Helper()
	fields, err := wire.Fields(data)
	require.NoError(t, err)
	return fields
}
