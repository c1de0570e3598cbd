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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/goledger/entity"
)

// NetworkConfig represents a network definition file
type NetworkConfig struct {
	Name     string              `json:"name"`
	LedgerId string              `json:"ledgerId"`
	Nodes    []NetworkConfigNode `json:"nodes"`
}

type NetworkConfigNode struct {
	AccountId string `json:"accountId"`
	Address   string `json:"address"`
}

func NewNetworkConfigFromFile(path string) (*NetworkConfig, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewNetworkConfigFromReader(dataFile)
}

func NewNetworkConfigFromReader(r io.Reader) (*NetworkConfig, error) {
	n := &NetworkConfig{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Network converts the config into a Network. Node account IDs may carry a checksum, which is
// validated against the configured ledger ID
func (n *NetworkConfig) Network() (Network, error) {
	ret := Network{Name: n.Name}
	if n.LedgerId != "" {
		ledgerId, err := entity.ParseLedgerId(n.LedgerId)
		if err != nil {
			return Network{}, err
		}
		ret.LedgerId = ledgerId
	}
	if len(n.Nodes) == 0 {
		return Network{}, errors.New("network config contains no nodes")
	}
	seen := make(map[entity.EntityId]bool, len(n.Nodes))
	for _, node := range n.Nodes {
		var id entity.EntityId
		var err error
		if ret.LedgerId != nil {
			id, err = entity.ParseChecked(node.AccountId, ret.LedgerId)
		} else {
			id, err = entity.Parse(node.AccountId)
		}
		if err != nil {
			return Network{}, fmt.Errorf("node %q: %w", node.AccountId, err)
		}
		if node.Address == "" {
			return Network{}, fmt.Errorf("node %s: missing address", id)
		}
		if seen[id] {
			return Network{}, fmt.Errorf("node %s: duplicate account ID", id)
		}
		seen[id] = true
		ret.Nodes = append(ret.Nodes, Node{AccountId: id, Address: node.Address})
	}
	return ret, nil
}
