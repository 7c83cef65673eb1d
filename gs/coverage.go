/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package gs

import (
	"sync"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/nodeid"
)

/*
CoverageStorage backs COVERAGE components: adjacency plus an inverse index
for incoming edges, so "which nodes cover token X" (used heavily by the
inclusion/overlap/identical-coverage operators, spec.md section 4.5) is an
O(deg) lookup rather than a full scan (spec.md section 4.3 rule 3).
*/
type CoverageStorage struct {
	mutex sync.RWMutex

	out map[nodeid.ID][]nodeid.ID
	in  map[nodeid.ID]*nodeid.Set // tgt -> set of src covering it

	annos map[edgeKey][]annostore.Annotation
	stats Statistics
}

/*
NewCoverageStorage creates an empty coverage component store.
*/
func NewCoverageStorage() *CoverageStorage {
	return &CoverageStorage{
		out:   make(map[nodeid.ID][]nodeid.ID),
		in:    make(map[nodeid.ID]*nodeid.Set),
		annos: make(map[edgeKey][]annostore.Annotation),
	}
}

func (c *CoverageStorage) BackendName() string { return "coverage" }

func (c *CoverageStorage) outgoingLocked(src nodeid.ID) []nodeid.ID {
	return c.out[src]
}

func (c *CoverageStorage) Outgoing(src nodeid.ID) []nodeid.ID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make([]nodeid.ID, len(c.out[src]))
	copy(out, c.out[src])
	return out
}

/*
Covers returns every node that covers tgt (the inverse edge set), used by
the span computation for the span operators.
*/
func (c *CoverageStorage) Covers(tgt nodeid.ID) *nodeid.Set {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if s, ok := c.in[tgt]; ok {
		cp := nodeid.NewSet()
		cp.UnionInPlace(s)
		return cp
	}

	return nodeid.NewSet()
}

func (c *CoverageStorage) IsConnected(src, tgt nodeid.ID, min, max int) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return isConnectedViaDFS(c.outgoingLocked, src, tgt, min, max)
}

func (c *CoverageStorage) Distance(src, tgt nodeid.ID) (int, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return distanceViaDFS(c.outgoingLocked, src, tgt)
}

func (c *CoverageStorage) FindConnected(src nodeid.ID, min, max int) NodeIterator {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return findConnectedViaDFS(c.outgoingLocked, src, min, max)
}

func (c *CoverageStorage) EdgeAnnotations(src, tgt nodeid.ID) []annostore.Annotation {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.annos[edgeKey{src, tgt}]
}

func (c *CoverageStorage) AddEdge(src, tgt nodeid.ID, annos []annostore.Annotation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, existing := range c.out[src] {
		if existing == tgt {
			c.annos[edgeKey{src, tgt}] = append(c.annos[edgeKey{src, tgt}], annos...)
			return
		}
	}

	c.out[src] = append(c.out[src], tgt)

	set, ok := c.in[tgt]
	if !ok {
		set = nodeid.NewSet()
		c.in[tgt] = set
	}
	set.Add(src)

	if len(annos) > 0 {
		c.annos[edgeKey{src, tgt}] = append(c.annos[edgeKey{src, tgt}], annos...)
	}
}

func (c *CoverageStorage) RemoveEdge(src, tgt nodeid.ID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	targets := c.out[src]
	for i, t := range targets {
		if t == tgt {
			c.out[src] = append(targets[:i], targets[i+1:]...)
			break
		}
	}

	if set, ok := c.in[tgt]; ok {
		set.Remove(src)
	}

	delete(c.annos, edgeKey{src, tgt})
}

func (c *CoverageStorage) Edges() []Edge {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var out []Edge
	for src, targets := range c.out {
		for _, tgt := range targets {
			out = append(out, Edge{Src: src, Tgt: tgt, Annos: c.annos[edgeKey{src, tgt}]})
		}
	}
	return out
}

func (c *CoverageStorage) RecomputeStatistics() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	inDegree := make(map[nodeid.ID]int)
	nodeSet := nodeid.NewSet()

	for src, targets := range c.out {
		nodeSet.Add(src)
		for _, t := range targets {
			nodeSet.Add(t)
			inDegree[t]++
		}
	}

	c.stats = calculateStatistics(nodeSet.ToSlice(), c.outgoingLocked, func(n nodeid.ID) int { return inDegree[n] })
}

func (c *CoverageStorage) Statistics() Statistics {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.stats
}
