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
	"errors"
	"math/rand/v2"
	"time"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/transport"
	"github.com/google/uuid"
)

// outcome classifies the result of a single attempt
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetry
	outcomeFatal
)

// execution describes one logical request: how to build it for a node and how to classify a
// node's response
type execution[T any] struct {
	name          string
	nodes         []entity.EntityId
	transactionId TransactionId
	request       func(ctx context.Context, node entity.EntityId) (transport.Method, []byte, error)
	// handle returns the decoded result and the status it was classified on. A decode error
	// is treated like a transport failure of the node
	handle func(node entity.EntityId, resp []byte) (T, Status, outcome, error)
}

// execute runs the request against the candidate nodes until it succeeds, fails with a
// non-retryable status, runs out of attempts, or runs past the client request timeout
func execute[T any](ctx context.Context, client *goledger.Client, e *execution[T]) (T, error) {
	var zero T
	executionId := uuid.NewString()
	logger := client.Logger().With(
		"execution_id", executionId,
		"operation", e.name,
	)
	deadline := time.Now().Add(client.RequestTimeout())
	var lastErr error
	var lastNode entity.EntityId
	maxAttempts := client.MaxAttempts()
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if time.Now().After(deadline) {
			return zero, &TimeoutError{
				Attempts: attempt - 1,
				LastNode: lastNode,
				LastErr:  lastErr,
			}
		}
		node, wait, err := client.Nodes().Select(e.nodes)
		if err != nil {
			return zero, err
		}
		if wait > 0 {
			logger.Debug(
				"all candidate nodes are excluded, waiting",
				"node", node.AccountId.String(),
				"wait", wait,
			)
			if err := sleepCtx(ctx, wait); err != nil {
				return zero, err
			}
		}
		lastNode = node.AccountId
		method, req, err := e.request(ctx, node.AccountId)
		if err != nil {
			return zero, err
		}
		logger.Debug(
			"sending request",
			"attempt", attempt,
			"node", node.AccountId.String(),
			"method", string(method),
		)
		resp, err := client.Transport().Call(ctx, node.Address, method, req)
		var (
			result T
			status Status
			kind   outcome
		)
		if err == nil {
			var decodeErr error
			result, status, kind, decodeErr = e.handle(node.AccountId, resp)
			if decodeErr != nil {
				err = decodeErr
			}
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			if errors.Is(err, transport.ErrUnsupported) {
				return zero, &TransportError{Node: node.AccountId, Address: node.Address, Err: err}
			}
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				return zero, err
			}
			exclusion := client.Nodes().MarkUnhealthy(node.AccountId)
			logger.Warn(
				"node request failed",
				"attempt", attempt,
				"node", node.AccountId.String(),
				"exclusion", exclusion,
				"error", err,
			)
			lastErr = &TransportError{Node: node.AccountId, Address: node.Address, Err: err}
		} else {
			client.Nodes().MarkHealthy(node.AccountId)
			switch kind {
			case outcomeSuccess:
				logger.Debug(
					"request succeeded",
					"attempt", attempt,
					"node", node.AccountId.String(),
					"status", status.String(),
				)
				return result, nil
			case outcomeFatal:
				logger.Debug(
					"request failed with a non-retryable status",
					"attempt", attempt,
					"node", node.AccountId.String(),
					"status", status.String(),
				)
				return zero, &PrecheckError{
					Status:        status,
					Node:          node.AccountId,
					TransactionId: e.transactionId,
				}
			default:
				lastErr = &PrecheckError{
					Status:        status,
					Node:          node.AccountId,
					TransactionId: e.transactionId,
				}
			}
		}
		if attempt >= maxAttempts {
			return zero, &MaxAttemptsExceededError{
				Attempts: attempt,
				LastNode: lastNode,
				LastErr:  lastErr,
			}
		}
		backoff := backoffFor(attempt, client.MinBackoff(), client.MaxBackoff())
		logger.Debug(
			"retrying request",
			"attempt", attempt,
			"node", node.AccountId.String(),
			"backoff", backoff,
			"error", lastErr,
		)
		client.NotifyRetry(goledger.RetryEvent{
			ExecutionId: executionId,
			Attempt:     attempt,
			Node:        node.AccountId,
			Err:         lastErr,
			Backoff:     backoff,
		})
		if err := sleepCtx(ctx, backoff); err != nil {
			return zero, err
		}
	}
}

// backoffFor returns the delay before the attempt after the provided one. The delay doubles
// with each attempt up to maxBackoff, and is jittered within its upper half
func backoffFor(attempt int, minBackoff time.Duration, maxBackoff time.Duration) time.Duration {
	backoff := minBackoff
	for i := 1; i < attempt && backoff < maxBackoff; i++ {
		backoff *= 2
	}
	backoff = min(backoff, maxBackoff)
	half := backoff / 2
	if half <= 0 {
		return backoff
	}
	return half + rand.N(half+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
