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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/goledger/entity"
)

// Repeated failures double the exclusion period, up to this multiple of the base period
const maxNodeExclusionFactor = 32

var (
	ErrUnknownNode = errors.New("node is not part of the network")
	ErrNoNodes     = errors.New("no candidate nodes")
)

// NodeManager tracks the network's nodes and their short-term health. Nodes that fail at the
// transport level are excluded from selection for a period that grows with repeated failures
type NodeManager struct {
	nodes        []Node
	nodesById    map[entity.EntityId]Node
	health       map[entity.EntityId]*nodeHealth
	healthMutex  sync.Mutex
	cursor       int
	exclusion    time.Duration
	maxExclusion time.Duration
	now          func() time.Time
}

type nodeHealth struct {
	failures      int
	excludedUntil time.Time
}

// NewNodeManager returns a NodeManager for the nodes, in network order
func NewNodeManager(nodes []Node, exclusion time.Duration) *NodeManager {
	m := &NodeManager{
		nodes:        append([]Node(nil), nodes...),
		nodesById:    make(map[entity.EntityId]Node, len(nodes)),
		health:       make(map[entity.EntityId]*nodeHealth),
		exclusion:    exclusion,
		maxExclusion: exclusion * maxNodeExclusionFactor,
		now:          time.Now,
	}
	for _, node := range nodes {
		m.nodesById[node.AccountId] = node
	}
	return m
}

// Nodes returns the nodes in network order
func (m *NodeManager) Nodes() []Node {
	return append([]Node(nil), m.nodes...)
}

// NodeAccountIds returns the node account IDs in network order
func (m *NodeManager) NodeAccountIds() []entity.EntityId {
	ret := make([]entity.EntityId, 0, len(m.nodes))
	for _, node := range m.nodes {
		ret = append(ret, node.AccountId)
	}
	return ret
}

// Node looks up a node by account ID
func (m *NodeManager) Node(id entity.EntityId) (Node, bool) {
	node, ok := m.nodesById[id]
	return node, ok
}

// Select returns the next eligible node from candidates in round-robin order. When every
// candidate is excluded, the node that becomes eligible soonest is returned with the time
// remaining until then
func (m *NodeManager) Select(candidates []entity.EntityId) (Node, time.Duration, error) {
	if len(candidates) == 0 {
		return Node{}, 0, ErrNoNodes
	}
	m.healthMutex.Lock()
	defer m.healthMutex.Unlock()
	now := m.now()
	start := m.cursor
	m.cursor++
	var soonest Node
	var soonestWait time.Duration
	for i := range candidates {
		id := candidates[(start+i)%len(candidates)]
		node, ok := m.nodesById[id]
		if !ok {
			return Node{}, 0, fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
		health, ok := m.health[id]
		if !ok || !health.excludedUntil.After(now) {
			return node, 0, nil
		}
		wait := health.excludedUntil.Sub(now)
		if soonest.Address == "" || wait < soonestWait {
			soonest = node
			soonestWait = wait
		}
	}
	return soonest, soonestWait, nil
}

// MarkUnhealthy excludes the node from selection and returns the exclusion period
func (m *NodeManager) MarkUnhealthy(id entity.EntityId) time.Duration {
	m.healthMutex.Lock()
	defer m.healthMutex.Unlock()
	health, ok := m.health[id]
	if !ok {
		health = &nodeHealth{}
		m.health[id] = health
	}
	health.failures++
	period := m.exclusion
	for i := 1; i < health.failures && period < m.maxExclusion; i++ {
		period *= 2
	}
	period = min(period, m.maxExclusion)
	health.excludedUntil = m.now().Add(period)
	return period
}

// MarkHealthy clears any exclusion for the node
func (m *NodeManager) MarkHealthy(id entity.EntityId) {
	m.healthMutex.Lock()
	defer m.healthMutex.Unlock()
	delete(m.health, id)
}

// IsHealthy reports whether the node is currently eligible for selection
func (m *NodeManager) IsHealthy(id entity.EntityId) bool {
	m.healthMutex.Lock()
	defer m.healthMutex.Unlock()
	health, ok := m.health[id]
	return !ok || !health.excludedUntil.After(m.now())
}
