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

package goledger

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/transport"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithNetwork specifies the network. The network's ledger ID is used unless WithLedgerId is also provided
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network
	}
}

// WithNodes specifies a custom node list
func WithNodes(nodes ...Node) ClientOptionFunc {
	return func(c *Client) {
		c.network = Network{
			Name:     "custom",
			LedgerId: c.network.LedgerId,
			Nodes:    nodes,
		}
	}
}

// WithLedgerId specifies the ledger ID used for entity ID checksums
func WithLedgerId(ledgerId entity.LedgerId) ClientOptionFunc {
	return func(c *Client) {
		c.ledgerId = ledgerId
	}
}

// WithOperator specifies the operator account and its private key
func WithOperator(accountId entity.EntityId, key keys.PrivateKey) ClientOptionFunc {
	return func(c *Client) {
		c.operator = &Operator{
			AccountId: accountId,
			PublicKey: key.PublicKey(),
			Signer:    key.Signer(),
		}
	}
}

// WithOperatorSigner specifies the operator account with a signer for keys that are not held locally
func WithOperatorSigner(
	accountId entity.EntityId,
	publicKey keys.PublicKey,
	signer keys.Signer,
) ClientOptionFunc {
	return func(c *Client) {
		c.operator = &Operator{
			AccountId: accountId,
			PublicKey: publicKey,
			Signer:    signer,
		}
	}
}

// WithTransport specifies the channel used to reach nodes. If none is provided, a gRPC channel is created
func WithTransport(channel transport.Channel) ClientOptionFunc {
	return func(c *Client) {
		c.transport = channel
	}
}

// WithLogger specifies the logger. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxAttempts specifies how many node requests a single execution may make
func WithMaxAttempts(maxAttempts int) ClientOptionFunc {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
	}
}

// WithMinBackoff specifies the initial backoff between attempts
func WithMinBackoff(backoff time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.minBackoff = backoff
	}
}

// WithMaxBackoff specifies the cap on the backoff between attempts
func WithMaxBackoff(backoff time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.maxBackoff = backoff
	}
}

// WithRequestTimeout specifies the overall deadline for a single execution
func WithRequestTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// WithNodeExclusion specifies how long a node is skipped after a transport failure
func WithNodeExclusion(exclusion time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.nodeExclusion = exclusion
	}
}

// WithDefaultMaxTransactionFee specifies the fee used for transactions that don't set one
func WithDefaultMaxTransactionFee(fee uint64) ClientOptionFunc {
	return func(c *Client) {
		c.defaultMaxTransactionFee = fee
	}
}

// WithDefaultMaxQueryPayment specifies the most a paid query may cost unless it sets its own limit
func WithDefaultMaxQueryPayment(payment uint64) ClientOptionFunc {
	return func(c *Client) {
		c.defaultMaxQueryPayment = payment
	}
}

// WithRetryObserver specifies a function that is called before every backoff wait
func WithRetryObserver(observer RetryObserverFunc) ClientOptionFunc {
	return func(c *Client) {
		c.retryObserver = observer
	}
}

// WithAutoValidateChecksums specifies whether ParseEntityId validates entity ID checksums
func WithAutoValidateChecksums(validate bool) ClientOptionFunc {
	return func(c *Client) {
		c.autoValidateChecksums = validate
	}
}
