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

// Package mocknet provides an in-memory ledger network for tests. Each node address follows a
// scripted conversation of responses, and every request is recorded for later inspection.
package mocknet

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/blinklabs-io/goledger/transport"
)

// Request is a recorded request
type Request struct {
	Address string
	Method  transport.Method
	Body    []byte
}

// ConversationEntry is one scripted exchange with a node
type ConversationEntry struct {
	// Method is the expected method. An empty value matches any method
	Method transport.Method
	// Response is returned when ResponseFunc and Err are not set
	Response []byte
	// ResponseFunc computes the response from the request body
	ResponseFunc func(request []byte) ([]byte, error)
	// Err is returned instead of a response
	Err error
}

// DefaultFunc answers requests for addresses whose conversation is exhausted
type DefaultFunc func(address string, method transport.Method, request []byte) ([]byte, error)

// Network is a scripted set of nodes implementing transport.Channel
type Network struct {
	mutex         sync.Mutex
	conversations map[string][]ConversationEntry
	defaultFunc   DefaultFunc
	requests      []Request
}

// New returns an empty Network
func New() *Network {
	return &Network{
		conversations: make(map[string][]ConversationEntry),
	}
}

// AddConversation appends entries to the conversation of the node at address
func (n *Network) AddConversation(address string, entries ...ConversationEntry) *Network {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.conversations[address] = append(n.conversations[address], entries...)
	return n
}

// SetDefault sets the function that answers requests once a conversation is exhausted
func (n *Network) SetDefault(f DefaultFunc) *Network {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.defaultFunc = f
	return n
}

// Call records the request and answers it with the next entry of the node's conversation
func (n *Network) Call(
	ctx context.Context,
	address string,
	method transport.Method,
	request []byte,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mutex.Lock()
	n.requests = append(n.requests, Request{
		Address: address,
		Method:  method,
		Body:    slices.Clone(request),
	})
	entries := n.conversations[address]
	if len(entries) == 0 {
		defaultFunc := n.defaultFunc
		n.mutex.Unlock()
		if defaultFunc == nil {
			return nil, fmt.Errorf(
				"%w: unexpected %s request to %s",
				transport.ErrUnavailable,
				method,
				address,
			)
		}
		return defaultFunc(address, method, request)
	}
	entry := entries[0]
	n.conversations[address] = entries[1:]
	n.mutex.Unlock()
	if entry.Method != "" && entry.Method != method {
		return nil, fmt.Errorf(
			"%w: expected %s request to %s, got %s",
			transport.ErrUnsupported,
			entry.Method,
			address,
			method,
		)
	}
	switch {
	case entry.Err != nil:
		return nil, entry.Err
	case entry.ResponseFunc != nil:
		return entry.ResponseFunc(request)
	default:
		return entry.Response, nil
	}
}

// Requests returns every recorded request, in order
func (n *Network) Requests() []Request {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return slices.Clone(n.requests)
}

// RequestsFor returns the recorded requests with the provided method
func (n *Network) RequestsFor(method transport.Method) []Request {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	var ret []Request
	for _, req := range n.requests {
		if req.Method == method {
			ret = append(ret, req)
		}
	}
	return ret
}

// Remaining returns the number of unanswered scripted entries across all nodes
func (n *Network) Remaining() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	ret := 0
	for _, entries := range n.conversations {
		ret += len(entries)
	}
	return ret
}
