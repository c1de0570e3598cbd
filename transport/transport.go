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

// Package transport defines how encoded requests reach a ledger node. A Channel sends the bytes
// of one request to a named service method on a node and returns the response bytes.
package transport

import (
	"context"
	"errors"
)

// Method is a fully-qualified RPC method name
type Method string

const (
	MethodCryptoTransfer     Method = "/proto.CryptoService/cryptoTransfer"
	MethodCreateAccount      Method = "/proto.CryptoService/createAccount"
	MethodGetAccountBalance  Method = "/proto.CryptoService/cryptoGetBalance"
	MethodGetAccountInfo     Method = "/proto.CryptoService/getAccountInfo"
	MethodGetReceipt         Method = "/proto.CryptoService/getTransactionReceipts"
	MethodGetRecord          Method = "/proto.CryptoService/getTxRecordByTxID"
	MethodSubmitTopicMessage Method = "/proto.ConsensusService/submitMessage"
	MethodAppendFileContent  Method = "/proto.FileService/appendContent"
)

func (m Method) String() string {
	return string(m)
}

var (
	// ErrUnavailable indicates that the node could not be reached or did not answer in time
	ErrUnavailable = errors.New("node unavailable")
	// ErrUnsupported indicates that the node does not serve the requested method
	ErrUnsupported = errors.New("method not supported by node")
)

// Channel delivers a single encoded request to a node
type Channel interface {
	Call(ctx context.Context, address string, method Method, request []byte) ([]byte, error)
}

// ChannelFunc adapts a function to the Channel interface
type ChannelFunc func(ctx context.Context, address string, method Method, request []byte) ([]byte, error)

func (f ChannelFunc) Call(
	ctx context.Context,
	address string,
	method Method,
	request []byte,
) ([]byte, error) {
	return f(ctx, address, method, request)
}
