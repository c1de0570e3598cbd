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

// Package grpc implements transport.Channel over gRPC. Requests and responses are passed
// through as already-encoded message bytes, so no generated stubs are needed.
package grpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/goledger/transport"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// ChannelOptionFunc is a type that represents functions that modify the Channel config
type ChannelOptionFunc func(*Channel)

// WithDialOptions appends gRPC dial options used for every node connection. Without any
// transport credentials option, connections are insecure
func WithDialOptions(opts ...grpc.DialOption) ChannelOptionFunc {
	return func(c *Channel) {
		c.dialOpts = append(c.dialOpts, opts...)
	}
}

// WithCallTimeout bounds each call when non-zero
func WithCallTimeout(timeout time.Duration) ChannelOptionFunc {
	return func(c *Channel) {
		c.callTimeout = timeout
	}
}

// WithMaxMessageSize sets both send and receive message size limits when non-zero
func WithMaxMessageSize(size int) ChannelOptionFunc {
	return func(c *Channel) {
		c.maxMsgBytes = size
	}
}

// Channel is a transport.Channel that keeps one gRPC client connection per node address
type Channel struct {
	dialOpts    []grpc.DialOption
	callTimeout time.Duration
	maxMsgBytes int
	conns       map[string]*grpc.ClientConn
	connsMutex  sync.Mutex
	closed      bool
}

var _ transport.Channel = (*Channel)(nil)

// NewChannel returns a new Channel with the specified options. Connections are created lazily
func NewChannel(options ...ChannelOptionFunc) *Channel {
	c := &Channel{
		conns: make(map[string]*grpc.ClientConn),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Channel) conn(address string) (*grpc.ClientConn, error) {
	c.connsMutex.Lock()
	defer c.connsMutex.Unlock()
	if c.closed {
		return nil, fmt.Errorf("%w: channel is closed", transport.ErrUnavailable)
	}
	if cc, ok := c.conns[address]; ok {
		return cc, nil
	}
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
	}
	if c.maxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(c.maxMsgBytes),
				grpc.MaxCallSendMsgSize(c.maxMsgBytes),
			),
		)
	}
	// Caller-provided options are applied last so they can override the defaults above
	dialOpts = append(dialOpts, c.dialOpts...)
	cc, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", transport.ErrUnavailable, address, err)
	}
	c.conns[address] = cc
	return cc, nil
}

// Call invokes the method on the node at address with the already-encoded request
func (c *Channel) Call(
	ctx context.Context,
	address string,
	method transport.Method,
	request []byte,
) ([]byte, error) {
	cc, err := c.conn(address)
	if err != nil {
		return nil, err
	}
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}
	var resp []byte
	if err := cc.Invoke(ctx, method.String(), &request, &resp); err != nil {
		return nil, mapRPC(address, method, err)
	}
	return resp, nil
}

// Close closes all node connections
func (c *Channel) Close() error {
	c.connsMutex.Lock()
	defer c.connsMutex.Unlock()
	c.closed = true
	var firstErr error
	for address, cc := range c.conns {
		if err := cc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.conns, address)
	}
	return firstErr
}

func mapRPC(address string, method transport.Method, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %s %s: %w", transport.ErrUnavailable, address, method, err)
	}
	switch st.Code() {
	case codes.Unimplemented:
		return fmt.Errorf("%w: %s %s: %s", transport.ErrUnsupported, address, method, st.Message())
	case codes.Canceled:
		return fmt.Errorf("%s %s: %w", address, method, context.Canceled)
	default:
		return fmt.Errorf(
			"%w: %s %s: %s: %s",
			transport.ErrUnavailable,
			address,
			method,
			st.Code(),
			st.Message(),
		)
	}
}
