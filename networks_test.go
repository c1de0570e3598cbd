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

package goledger_test

import (
	"testing"

	"github.com/blinklabs-io/goledger"
	"github.com/blinklabs-io/goledger/entity"
	"github.com/stretchr/testify/assert"
)

func TestNetworkByName(t *testing.T) {
	testDefs := map[string]goledger.Network{
		"mainnet":    goledger.NetworkMainnet,
		"testnet":    goledger.NetworkTestnet,
		"previewnet": goledger.NetworkPreviewnet,
		"local":      goledger.NetworkLocal,
		"bogus":      goledger.NetworkInvalid,
	}
	for name, expected := range testDefs {
		assert.Equal(t, expected.Name, goledger.NetworkByName(name).Name)
	}
}

func TestNetworkByLedgerId(t *testing.T) {
	assert.Equal(t, "previewnet", goledger.NetworkByLedgerId(entity.LedgerIdPreviewnet).String())
	assert.Equal(t, "invalid", goledger.NetworkByLedgerId(entity.LedgerId{0x7f}).String())
}

func TestNetworkNodeAccountIds(t *testing.T) {
	ids := goledger.NetworkTestnet.NodeAccountIds()
	assert.Equal(
		t,
		[]entity.EntityId{{Num: 3}, {Num: 4}, {Num: 5}, {Num: 6}},
		ids,
	)
}
