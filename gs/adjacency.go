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

type edgeKey struct {
	src, tgt nodeid.ID
}

/*
AdjacencyStorage is the fallback back-end: a plain adjacency map plus an
edge->annotations multimap. O(deg) lookups, no specialized reachability
algorithm. Any component may be forced to this representation (spec.md
section 4.3 rule 4).
*/
type AdjacencyStorage struct {
	mutex sync.RWMutex

	out   map[nodeid.ID][]nodeid.ID
	annos map[edgeKey][]annostore.Annotation

	stats Statistics
}

/*
NewAdjacencyStorage creates an empty adjacency-backed component store.
*/
func NewAdjacencyStorage() *AdjacencyStorage {
	return &AdjacencyStorage{
		out:   make(map[nodeid.ID][]nodeid.ID),
		annos: make(map[edgeKey][]annostore.Annotation),
	}
}

func (a *AdjacencyStorage) BackendName() string { return "adjacency" }

func (a *AdjacencyStorage) outgoingLocked(src nodeid.ID) []nodeid.ID {
	return a.out[src]
}

func (a *AdjacencyStorage) Outgoing(src nodeid.ID) []nodeid.ID {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	out := make([]nodeid.ID, len(a.out[src]))
	copy(out, a.out[src])
	return out
}

func (a *AdjacencyStorage) IsConnected(src, tgt nodeid.ID, min, max int) bool {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return isConnectedViaDFS(a.outgoingLocked, src, tgt, min, max)
}

func (a *AdjacencyStorage) Distance(src, tgt nodeid.ID) (int, bool) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return distanceViaDFS(a.outgoingLocked, src, tgt)
}

func (a *AdjacencyStorage) FindConnected(src nodeid.ID, min, max int) NodeIterator {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return findConnectedViaDFS(a.outgoingLocked, src, min, max)
}

func (a *AdjacencyStorage) EdgeAnnotations(src, tgt nodeid.ID) []annostore.Annotation {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.annos[edgeKey{src, tgt}]
}

func (a *AdjacencyStorage) AddEdge(src, tgt nodeid.ID, annos []annostore.Annotation) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	for _, existing := range a.out[src] {
		if existing == tgt {
			a.annos[edgeKey{src, tgt}] = append(a.annos[edgeKey{src, tgt}], annos...)
			return
		}
	}

	a.out[src] = append(a.out[src], tgt)
	if len(annos) > 0 {
		a.annos[edgeKey{src, tgt}] = append(a.annos[edgeKey{src, tgt}], annos...)
	}
}

func (a *AdjacencyStorage) RemoveEdge(src, tgt nodeid.ID) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	targets := a.out[src]
	for i, t := range targets {
		if t == tgt {
			a.out[src] = append(targets[:i], targets[i+1:]...)
			break
		}
	}

	delete(a.annos, edgeKey{src, tgt})
}

func (a *AdjacencyStorage) Edges() []Edge {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	var out []Edge
	for src, targets := range a.out {
		for _, tgt := range targets {
			out = append(out, Edge{Src: src, Tgt: tgt, Annos: a.annos[edgeKey{src, tgt}]})
		}
	}
	return out
}

func (a *AdjacencyStorage) RecomputeStatistics() {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	inDegree := make(map[nodeid.ID]int)
	nodes := make([]nodeid.ID, 0, len(a.out))

	for src, targets := range a.out {
		nodes = append(nodes, src)
		for _, t := range targets {
			inDegree[t]++
			found := false
			for _, n := range nodes {
				if n == t {
					found = true
					break
				}
			}
			if !found {
				nodes = append(nodes, t)
			}
		}
	}

	a.stats = calculateStatistics(nodes, a.outgoingLocked, func(n nodeid.ID) int { return inDegree[n] })
}

func (a *AdjacencyStorage) Statistics() Statistics {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.stats
}
