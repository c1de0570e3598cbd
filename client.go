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

// Package goledger implements a client library for submitting signed transactions to, and
// querying state from, a ledger network served by a set of redundant nodes.
//
// This package holds the Client, which carries the network, the operator account and the
// retry configuration. Transactions and queries live in the ledger package and are executed
// against a Client.
package goledger

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/goledger/entity"
	"github.com/blinklabs-io/goledger/keys"
	"github.com/blinklabs-io/goledger/transport"
	lgrpc "github.com/blinklabs-io/goledger/transport/grpc"
)

// Defaults for the retry and fee configuration
const (
	DefaultMaxAttempts              = 10
	DefaultMinBackoff               = 250 * time.Millisecond
	DefaultMaxBackoff               = 8 * time.Second
	DefaultRequestTimeout           = 2 * time.Minute
	DefaultNodeExclusion            = 8 * time.Second
	DefaultMaxTransactionFee uint64 = 200_000_000
	DefaultMaxQueryPayment   uint64 = 100_000_000
)

// Operator is the account that pays for transactions and queries by default, along with the
// means to sign on its behalf
type Operator struct {
	AccountId entity.EntityId
	PublicKey keys.PublicKey
	Signer    keys.Signer
}

// RetryEvent describes a failed attempt that is about to be retried
type RetryEvent struct {
	ExecutionId string
	Attempt     int
	Node        entity.EntityId
	Err         error
	Backoff     time.Duration
}

// RetryObserverFunc is called before every backoff wait
type RetryObserverFunc func(RetryEvent)

// The Client type holds the network, operator and retry configuration used to execute
// transactions and queries. It is safe for concurrent use
type Client struct {
	network                  Network
	ledgerId                 entity.LedgerId
	operator                 *Operator
	transport                transport.Channel
	ownsTransport            bool
	logger                   *slog.Logger
	maxAttempts              int
	minBackoff               time.Duration
	maxBackoff               time.Duration
	requestTimeout           time.Duration
	nodeExclusion            time.Duration
	defaultMaxTransactionFee uint64
	defaultMaxQueryPayment   uint64
	retryObserver            RetryObserverFunc
	autoValidateChecksums    bool
	nodeManager              *NodeManager
}

// NewClient returns a new Client with the specified options. A network must be provided with
// WithNetwork or WithNodes
func NewClient(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		maxAttempts:              DefaultMaxAttempts,
		minBackoff:               DefaultMinBackoff,
		maxBackoff:               DefaultMaxBackoff,
		requestTimeout:           DefaultRequestTimeout,
		nodeExclusion:            DefaultNodeExclusion,
		defaultMaxTransactionFee: DefaultMaxTransactionFee,
		defaultMaxQueryPayment:   DefaultMaxQueryPayment,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if len(c.network.Nodes) == 0 {
		return nil, errors.New("no network nodes were provided")
	}
	if c.ledgerId == nil {
		c.ledgerId = c.network.LedgerId
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "ledger")
	if c.transport == nil {
		c.transport = lgrpc.NewChannel()
		c.ownsTransport = true
	}
	if c.minBackoff > c.maxBackoff {
		return nil, errors.New("minimum backoff must not exceed maximum backoff")
	}
	if c.maxAttempts < 1 {
		return nil, errors.New("max attempts must be at least 1")
	}
	c.nodeManager = NewNodeManager(c.network.Nodes, c.nodeExclusion)
	return c, nil
}

// ClientForName returns a Client for a predefined network
func ClientForName(name string, options ...ClientOptionFunc) (*Client, error) {
	network := NetworkByName(name)
	if network.Name == NetworkInvalid.Name {
		return nil, errors.New("unknown network: " + name)
	}
	return NewClient(append([]ClientOptionFunc{WithNetwork(network)}, options...)...)
}

// Close releases the transport if the Client created it
func (c *Client) Close() error {
	if !c.ownsTransport {
		return nil
	}
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Network returns the network the Client is connected to
func (c *Client) Network() Network {
	return c.network
}

// LedgerId returns the ledger ID used for entity ID checksums
func (c *Client) LedgerId() entity.LedgerId {
	return c.ledgerId
}

// Nodes returns the node manager holding the network's node list and health state
func (c *Client) Nodes() *NodeManager {
	return c.nodeManager
}

// Operator returns the operator, or nil when none is configured
func (c *Client) Operator() *Operator {
	return c.operator
}

// OperatorAccountId returns the operator account ID, or the zero value without an operator
func (c *Client) OperatorAccountId() entity.EntityId {
	if c.operator == nil {
		return entity.EntityId{}
	}
	return c.operator.AccountId
}

// Transport returns the channel used to reach nodes
func (c *Client) Transport() transport.Channel {
	return c.transport
}

// Logger returns the Client logger
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

func (c *Client) MinBackoff() time.Duration {
	return c.minBackoff
}

func (c *Client) MaxBackoff() time.Duration {
	return c.maxBackoff
}

func (c *Client) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c *Client) DefaultMaxTransactionFee() uint64 {
	return c.defaultMaxTransactionFee
}

func (c *Client) DefaultMaxQueryPayment() uint64 {
	return c.defaultMaxQueryPayment
}

// AutoValidateChecksums reports whether ParseEntityId validates checksums
func (c *Client) AutoValidateChecksums() bool {
	return c.autoValidateChecksums
}

// ParseEntityId parses an entity ID. When checksum validation is enabled, a checksum that
// doesn't match the Client ledger results in an entity.ChecksumError
func (c *Client) ParseEntityId(s string) (entity.EntityId, error) {
	if !c.autoValidateChecksums {
		return entity.Parse(s)
	}
	return entity.ParseChecked(s, c.ledgerId)
}

// NotifyRetry passes the event to the retry observer, if any
func (c *Client) NotifyRetry(event RetryEvent) {
	if c.retryObserver != nil {
		c.retryObserver(event)
	}
}
