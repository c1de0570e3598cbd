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
	"github.com/blinklabs-io/goledger/entity"
)

// Node is a network node: the account that receives node fees and the address it serves on
type Node struct {
	AccountId entity.EntityId
	Address   string
}

func (n Node) String() string {
	return n.AccountId.String() + "@" + n.Address
}

// Network definitions
var (
	NetworkMainnet = Network{
		Name:     "mainnet",
		LedgerId: entity.LedgerIdMainnet,
		Nodes: []Node{
			{AccountId: entity.EntityId{Num: 3}, Address: "35.237.200.180:50211"},
			{AccountId: entity.EntityId{Num: 4}, Address: "35.186.191.247:50211"},
			{AccountId: entity.EntityId{Num: 5}, Address: "35.192.2.25:50211"},
			{AccountId: entity.EntityId{Num: 6}, Address: "35.199.161.108:50211"},
			{AccountId: entity.EntityId{Num: 7}, Address: "35.203.82.240:50211"},
		},
	}
	NetworkTestnet = Network{
		Name:     "testnet",
		LedgerId: entity.LedgerIdTestnet,
		Nodes: []Node{
			{AccountId: entity.EntityId{Num: 3}, Address: "0.testnet.hedera.com:50211"},
			{AccountId: entity.EntityId{Num: 4}, Address: "1.testnet.hedera.com:50211"},
			{AccountId: entity.EntityId{Num: 5}, Address: "2.testnet.hedera.com:50211"},
			{AccountId: entity.EntityId{Num: 6}, Address: "3.testnet.hedera.com:50211"},
		},
	}
	NetworkPreviewnet = Network{
		Name:     "previewnet",
		LedgerId: entity.LedgerIdPreviewnet,
		Nodes: []Node{
			{AccountId: entity.EntityId{Num: 3}, Address: "0.previewnet.hedera.com:50211"},
			{AccountId: entity.EntityId{Num: 4}, Address: "1.previewnet.hedera.com:50211"},
			{AccountId: entity.EntityId{Num: 5}, Address: "2.previewnet.hedera.com:50211"},
			{AccountId: entity.EntityId{Num: 6}, Address: "3.previewnet.hedera.com:50211"},
		},
	}
	NetworkLocal = Network{
		Name:     "local",
		LedgerId: entity.LedgerIdLocal,
		Nodes: []Node{
			{AccountId: entity.EntityId{Num: 3}, Address: "127.0.0.1:50211"},
		},
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkTestnet,
	NetworkPreviewnet,
	NetworkLocal,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByLedgerId returns a predefined network by ledger ID
func NetworkByLedgerId(ledgerId entity.LedgerId) Network {
	for _, network := range networks {
		if network.LedgerId.Equal(ledgerId) {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a ledger network: its identity and ordered node list
type Network struct {
	Name     string
	LedgerId entity.LedgerId
	Nodes    []Node
}

func (n Network) String() string {
	return n.Name
}

// NodeAccountIds returns the node account IDs in network order
func (n Network) NodeAccountIds() []entity.EntityId {
	ret := make([]entity.EntityId, 0, len(n.Nodes))
	for _, node := range n.Nodes {
		ret = append(ret, node.AccountId)
	}
	return ret
}
