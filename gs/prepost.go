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
	"sort"
	"sync"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/tidwall/btree"
)

/*
OrderWidth and LevelWidth mirror spec.md section 4.3 rule 2: tree-like
DOMINANCE components pick an order width from node count and a level width
from maxDepth; non-tree DOMINANCE always uses order-32/level-8 when
maxDepth < 2^7.
*/
type OrderWidth int

const (
	Order16 OrderWidth = iota
	Order32
)

type LevelWidth int

const (
	Level8 LevelWidth = iota
	Level32
)

/*
prepostEntry is one (node, subtree-root) membership: the pre/post-order
numbers and level assigned by a left-first DFS from that subtree root
(spec.md section 3).
*/
type prepostEntry struct {
	root  nodeid.ID
	pre   int
	post  int
	level int
}

/*
PrePostStorage represents DOMINANCE-like trees/DAGs with the pre/post-order
+ level encoding: ancestor-descendant testing in O(1), subtree enumeration in
O(window size) via a per-root ordered preorder->node index.
*/
type PrePostStorage struct {
	mutex sync.RWMutex

	orderWidth OrderWidth
	levelWidth LevelWidth

	out   map[nodeid.ID][]nodeid.ID
	annos map[edgeKey][]annostore.Annotation

	// entries[node] holds one prepostEntry per subtree root the node
	// belongs to (a DAG node may belong to several subtrees).
	entries map[nodeid.ID][]prepostEntry

	// preorder[root] is an ordered pre -> node index, used by
	// FindConnected to scan the [pre,post] window of one subtree.
	preorder map[nodeid.ID]*btree.Map[int, nodeid.ID]

	stats Statistics
}

/*
NewPrePostStorage creates an empty pre/post-order component store.
*/
func NewPrePostStorage(orderWidth OrderWidth, levelWidth LevelWidth) *PrePostStorage {
	return &PrePostStorage{
		orderWidth: orderWidth,
		levelWidth: levelWidth,
		out:        make(map[nodeid.ID][]nodeid.ID),
		annos:      make(map[edgeKey][]annostore.Annotation),
		entries:    make(map[nodeid.ID][]prepostEntry),
		preorder:   make(map[nodeid.ID]*btree.Map[int, nodeid.ID]),
	}
}

func (p *PrePostStorage) BackendName() string {
	order := "16"
	if p.orderWidth == Order32 {
		order = "32"
	}
	level := "8"
	if p.levelWidth == Level32 {
		level = "32"
	}
	return "prepost-" + order + "/L" + level
}

func (p *PrePostStorage) outgoingLocked(src nodeid.ID) []nodeid.ID {
	return p.out[src]
}

func (p *PrePostStorage) Outgoing(src nodeid.ID) []nodeid.ID {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	out := make([]nodeid.ID, len(p.out[src]))
	copy(out, p.out[src])
	return out
}

func (p *PrePostStorage) EdgeAnnotations(src, tgt nodeid.ID) []annostore.Annotation {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.annos[edgeKey{src, tgt}]
}

/*
IsConnected implements the O(1) ancestor test: pre(src) <= pre(tgt) and
post(tgt) <= post(src) and level(tgt)-level(src) in [min,max], for any
subtree the two nodes share (spec.md section 3).
*/
func (p *PrePostStorage) IsConnected(src, tgt nodeid.ID, min, max int) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	for _, se := range p.entries[src] {
		for _, te := range p.entries[tgt] {
			if se.root != te.root {
				continue
			}
			if se.pre <= te.pre && te.post <= se.post {
				lvl := te.level - se.level
				if lvl >= min && lvl <= max {
					return true
				}
			}
		}
	}

	return false
}

func (p *PrePostStorage) Distance(src, tgt nodeid.ID) (int, bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	best := -1

	for _, se := range p.entries[src] {
		for _, te := range p.entries[tgt] {
			if se.root == te.root && se.pre <= te.pre && te.post <= se.post {
				d := te.level - se.level
				if best == -1 || d < best {
					best = d
				}
			}
		}
	}

	if best == -1 {
		return 0, false
	}

	return best, true
}

/*
FindConnected iterates, for each subtree the source belongs to, the
preorder index in [pre_src, post_src] and yields every distinct node whose
post <= post_src and whose level - level_src is in [min, max] (spec.md
section 4.3).
*/
func (p *PrePostStorage) FindConnected(src nodeid.ID, min, max int) NodeIterator {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	seen := nodeid.NewSet()
	var out []nodeid.ID

	for _, se := range p.entries[src] {
		idx, ok := p.preorder[se.root]
		if !ok {
			continue
		}

		idx.Ascend(se.pre, func(pre int, n nodeid.ID) bool {
			if pre > se.post {
				return false
			}

			for _, ne := range p.entries[n] {
				if ne.root != se.root || ne.pre != pre {
					continue
				}
				if ne.post > se.post {
					continue
				}
				lvl := ne.level - se.level
				if lvl >= min && lvl <= max && n != src && !seen.Contains(n) {
					seen.Add(n)
					out = append(out, n)
				}
			}

			return true
		})
	}

	return newSliceIterator(out)
}

func (p *PrePostStorage) AddEdge(src, tgt nodeid.ID, annos []annostore.Annotation) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, existing := range p.out[src] {
		if existing == tgt {
			p.annos[edgeKey{src, tgt}] = append(p.annos[edgeKey{src, tgt}], annos...)
			return
		}
	}

	p.out[src] = append(p.out[src], tgt)
	if len(annos) > 0 {
		p.annos[edgeKey{src, tgt}] = append(p.annos[edgeKey{src, tgt}], annos...)
	}
}

func (p *PrePostStorage) RemoveEdge(src, tgt nodeid.ID) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	targets := p.out[src]
	for i, t := range targets {
		if t == tgt {
			p.out[src] = append(targets[:i], targets[i+1:]...)
			break
		}
	}

	delete(p.annos, edgeKey{src, tgt})
}

func (p *PrePostStorage) Edges() []Edge {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	var out []Edge
	for src, targets := range p.out {
		for _, tgt := range targets {
			out = append(out, Edge{Src: src, Tgt: tgt, Annos: p.annos[edgeKey{src, tgt}]})
		}
	}
	return out
}

/*
RecomputeStatistics rebuilds both the structural Statistics and the
pre/post/level assignment itself: finds roots, then runs one left-first DFS
per root numbering pre on entry and post on exit (spec.md section 4.3
calculateStatistics).
*/
func (p *PrePostStorage) RecomputeStatistics() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	inDegree := make(map[nodeid.ID]int)
	nodeSet := nodeid.NewSet()

	for src, targets := range p.out {
		nodeSet.Add(src)
		for _, t := range targets {
			inDegree[t]++
			nodeSet.Add(t)
		}
	}

	nodes := nodeSet.ToSlice()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	var roots []nodeid.ID
	for _, n := range nodes {
		if inDegree[n] == 0 {
			roots = append(roots, n)
		}
	}

	p.entries = make(map[nodeid.ID][]prepostEntry)
	p.preorder = make(map[nodeid.ID]*btree.Map[int, nodeid.ID])

	for _, root := range roots {
		p.assignPrePostLocked(root)
	}

	p.stats = calculateStatistics(nodes, p.outgoingLocked, func(n nodeid.ID) int { return inDegree[n] })
}

/*
assignPrePostLocked numbers one subtree with an iterative left-first DFS,
allowing re-entry into already-visited nodes (a DAG node may be reached
through more than one parent and gets one prepostEntry per path, as spec.md
section 3's "for each (node, subtree-root)" implies).
*/
func (p *PrePostStorage) assignPrePostLocked(root nodeid.ID) {
	idx := btree.NewMap[int, nodeid.ID](32)
	p.preorder[root] = idx

	counter := 0

	type frame struct {
		node  nodeid.ID
		level int
		pre   int
		kidIx int
		kids  []nodeid.ID
	}

	onPath := map[nodeid.ID]bool{root: true}

	start := frame{node: root, level: 0, pre: counter, kids: p.out[root]}
	counter++
	idx.Set(start.pre, root)

	stack := []frame{start}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.kidIx >= len(top.kids) {
			post := counter
			counter++
			p.entries[top.node] = append(p.entries[top.node], prepostEntry{
				root: root, pre: top.pre, post: post, level: top.level,
			})
			delete(onPath, top.node)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.kids[top.kidIx]
		top.kidIx++

		if onPath[child] {
			continue // back-edge: this component is cyclic, do not re-enter
		}

		childPre := counter
		counter++
		idx.Set(childPre, child)
		onPath[child] = true

		stack = append(stack, frame{node: child, level: top.level + 1, pre: childPre, kids: p.out[child]})
	}
}

func (p *PrePostStorage) Statistics() Statistics {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.stats
}

/*
WidthsFor picks order/level widths from node count and maxDepth (spec.md
section 4.3 rule 2).
*/
func WidthsFor(nodeCount, maxDepth int) (OrderWidth, LevelWidth) {
	ow := Order16
	if nodeCount >= 1<<16 {
		ow = Order32
	}

	lw := Level8
	if maxDepth >= 1<<7 {
		lw = Level32
	}

	return ow, lw
}
