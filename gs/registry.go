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

	"github.com/krotik/annisgraph/nodeid"
)

/*
Registry maps components to their chosen back-end and can convert a
component's representation once its statistics are known (spec.md section
4.4, module 4).
*/
type Registry struct {
	mutex    sync.RWMutex
	storages map[Component]Storage
}

/*
NewRegistry creates an empty registry.
*/
func NewRegistry() *Registry {
	return &Registry{storages: make(map[Component]Storage)}
}

/*
Get returns the storage for a component, creating one on first access if
none exists yet (the back-end defaultBackend picks for the component type).
*/
func (r *Registry) Get(c Component) Storage {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if s, ok := r.storages[c]; ok {
		return s
	}

	s := defaultBackend(c.Type)
	r.storages[c] = s
	return s
}

/*
defaultBackend picks the initial back-end for a freshly seen component,
before any statistics exist to drive Optimize. COVERAGE, LEFT_TOKEN and
RIGHT_TOKEN all need the "who points at me" inverse lookup the span
operators rely on, so they start on CoverageStorage; ORDERING starts on a
32-bit linear chain (narrowed by Optimize once maxDepth is known); DOMINANCE
and POINTING start on the adjacency fallback.
*/
func defaultBackend(t ComponentType) Storage {
	switch t {
	case Coverage, LeftToken, RightToken:
		return NewCoverageStorage()
	case Ordering:
		return NewLinearStorage(Width32)
	default:
		return NewAdjacencyStorage()
	}
}

/*
Set installs an explicit back-end for a component, overriding whatever was
there before.
*/
func (r *Registry) Set(c Component, s Storage) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.storages[c] = s
}

/*
Components returns every component currently registered.
*/
func (r *Registry) Components() []Component {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]Component, 0, len(r.storages))
	for c := range r.storages {
		out = append(out, c)
	}
	return out
}

/*
ForceFallback replaces a component's back-end with the plain adjacency
representation, carrying over its edges (spec.md section 4.3 rule 4: "any
component may be forced to the fallback adjacency representation").
*/
func (r *Registry) ForceFallback(c Component) {
	r.mutex.Lock()
	old, ok := r.storages[c]
	r.mutex.Unlock()

	if !ok {
		return
	}

	fresh := NewAdjacencyStorage()
	copyEdges(old, fresh)

	r.mutex.Lock()
	r.storages[c] = fresh
	r.mutex.Unlock()
}

/*
Optimize re-selects the back-end for every registered component from its
freshly recomputed statistics, following the heuristic in spec.md section
4.3: ORDERING picks a linear width from maxDepth; tree-like DOMINANCE picks
pre/post-order widths from node count and maxDepth; non-tree DOMINANCE uses
prepost-32/L8 when maxDepth < 2^7; everything else keeps its current
back-end (COVERAGE always stays CoverageStorage, POINTING stays adjacency
since pointing relations are typically sparse and irregular).
*/
func (r *Registry) Optimize() {
	for _, c := range r.Components() {
		s := r.Get(c)
		s.RecomputeStatistics()
		stats := s.Statistics()

		switch c.Type {
		case Ordering:
			r.optimizeOrdering(c, s, stats)
		case Dominance:
			r.optimizeDominance(c, s, stats)
		}
	}
}

func (r *Registry) optimizeOrdering(c Component, s Storage, stats Statistics) {
	width := WidthFor(stats.MaxDepth)
	if lin, ok := s.(*LinearStorage); ok && lin.width == width {
		return
	}

	fresh := NewLinearStorage(width)
	copyEdges(s, fresh)
	fresh.RecomputeStatistics()

	r.mutex.Lock()
	r.storages[c] = fresh
	r.mutex.Unlock()
}

func (r *Registry) optimizeDominance(c Component, s Storage, stats Statistics) {
	if _, ok := s.(*PrePostStorage); ok {
		return
	}

	var ow OrderWidth
	var lw LevelWidth

	if stats.RootedTree {
		ow, lw = WidthsFor(stats.NodesWithOutgoing, stats.MaxDepth)
	} else if stats.MaxDepth < 1<<7 {
		ow, lw = Order32, Level8
	} else {
		return // leave non-tree, deep DOMINANCE on the adjacency fallback
	}

	fresh := NewPrePostStorage(ow, lw)
	copyEdges(s, fresh)
	fresh.RecomputeStatistics()

	r.mutex.Lock()
	r.storages[c] = fresh
	r.mutex.Unlock()
}

/*
copyEdges replays every edge (and its annotations) of src into dst, used
whenever a component's back-end is converted.
*/
func copyEdges(src, dst Storage) {
	edges := src.Edges()

	if lin, ok := dst.(*LinearStorage); ok {
		copyEdgesToLinear(edges, lin)
		return
	}

	for _, e := range edges {
		dst.AddEdge(e.Src, e.Tgt, e.Annos)
	}
}

/*
copyEdgesToLinear replays edges root-to-leaf along each chain rather than in
Edges()'s unspecified map-iteration order: LinearStorage.AddEdge only links
tgt behind src when src already holds a position, so an out-of-order replay
silently splinters one chain into several disconnected fragments.
*/
func copyEdgesToLinear(edges []Edge, dst *LinearStorage) {
	next := make(map[nodeid.ID]Edge, len(edges))
	hasIncoming := make(map[nodeid.ID]bool, len(edges))
	for _, e := range edges {
		next[e.Src] = e
		hasIncoming[e.Tgt] = true
	}

	for _, e := range edges {
		if hasIncoming[e.Src] {
			continue // not a chain root
		}

		cur := e.Src
		for {
			edge, ok := next[cur]
			if !ok {
				break
			}
			dst.AddEdge(edge.Src, edge.Tgt, edge.Annos)
			cur = edge.Tgt
		}
	}
}
