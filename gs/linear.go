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
PositionWidth is the declared bit width of a LinearStorage's position field,
chosen by the registry from the component's maxDepth (spec.md section 4.3
rule 1).
*/
type PositionWidth int

const (
	Width8 PositionWidth = iota
	Width16
	Width32
)

type linearPos struct {
	root nodeid.ID
	pos  int
}

/*
LinearStorage specializes ORDERING components where every node has at most
one outgoing edge and no cycles exist: each node stores only (root, pos),
and connectivity reduces to integer subtraction (spec.md section 3/4.3).
*/
type LinearStorage struct {
	mutex sync.RWMutex

	width PositionWidth

	pos      map[nodeid.ID]linearPos
	byRoot   map[nodeid.ID][]nodeid.ID // root -> nodes ordered by pos
	annos    map[edgeKey][]annostore.Annotation
	stats    Statistics
}

/*
NewLinearStorage creates an empty linear-chain component store sized to
width.
*/
func NewLinearStorage(width PositionWidth) *LinearStorage {
	return &LinearStorage{
		width:  width,
		pos:    make(map[nodeid.ID]linearPos),
		byRoot: make(map[nodeid.ID][]nodeid.ID),
		annos:  make(map[edgeKey][]annostore.Annotation),
	}
}

func (l *LinearStorage) BackendName() string {
	switch l.width {
	case Width8:
		return "linear-8"
	case Width16:
		return "linear-16"
	default:
		return "linear-32"
	}
}

func (l *LinearStorage) IsConnected(src, tgt nodeid.ID, min, max int) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	ps, ok1 := l.pos[src]
	pt, ok2 := l.pos[tgt]
	if !ok1 || !ok2 || ps.root != pt.root {
		return false
	}

	diff := pt.pos - ps.pos
	return diff >= min && diff <= max
}

func (l *LinearStorage) Distance(src, tgt nodeid.ID) (int, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	ps, ok1 := l.pos[src]
	pt, ok2 := l.pos[tgt]
	if !ok1 || !ok2 || ps.root != pt.root || pt.pos < ps.pos {
		return 0, false
	}

	return pt.pos - ps.pos, true
}

func (l *LinearStorage) FindConnected(src nodeid.ID, min, max int) NodeIterator {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	p, ok := l.pos[src]
	if !ok {
		return newSliceIterator(nil)
	}

	chain := l.byRoot[p.root]
	lo := p.pos + min
	hi := p.pos + max

	var out []nodeid.ID
	for _, n := range chain {
		np := l.pos[n].pos
		if np >= lo && np <= hi && np != p.pos {
			out = append(out, n)
		}
	}

	return newSliceIterator(out)
}

func (l *LinearStorage) Outgoing(src nodeid.ID) []nodeid.ID {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	p, ok := l.pos[src]
	if !ok {
		return nil
	}

	chain := l.byRoot[p.root]
	for _, n := range chain {
		if l.pos[n].pos == p.pos+1 {
			return []nodeid.ID{n}
		}
	}

	return nil
}

func (l *LinearStorage) EdgeAnnotations(src, tgt nodeid.ID) []annostore.Annotation {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.annos[edgeKey{src, tgt}]
}

/*
AddEdge inserts src->tgt. The chain is built incrementally: if src already
has a position, tgt is placed directly after it in the same root; otherwise
both become a fresh two-node chain rooted at src.
*/
func (l *LinearStorage) AddEdge(src, tgt nodeid.ID, annos []annostore.Annotation) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if len(annos) > 0 {
		l.annos[edgeKey{src, tgt}] = append(l.annos[edgeKey{src, tgt}], annos...)
	}

	sp, ok := l.pos[src]
	if !ok {
		sp = linearPos{root: src, pos: 0}
		l.pos[src] = sp
		l.byRoot[sp.root] = append(l.byRoot[sp.root], src)
	}

	if _, exists := l.pos[tgt]; exists {
		return
	}

	tp := linearPos{root: sp.root, pos: sp.pos + 1}
	l.pos[tgt] = tp
	l.byRoot[tp.root] = append(l.byRoot[tp.root], tgt)
}

func (l *LinearStorage) RemoveEdge(src, tgt nodeid.ID) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	delete(l.annos, edgeKey{src, tgt})

	// Removing src->tgt splits the chain: tgt and every node after it form a new chain rooted at tgt.
	sp, ok1 := l.pos[src]
	tp, ok2 := l.pos[tgt]
	if !ok1 || !ok2 || sp.root != tp.root || tp.pos != sp.pos+1 {
		return
	}
	var head []nodeid.ID
	for _, n := range l.byRoot[sp.root] {
		if np := l.pos[n]; np.pos < tp.pos {
			head = append(head, n)
		} else {
			l.pos[n] = linearPos{root: tgt, pos: np.pos - tp.pos}
			l.byRoot[tgt] = append(l.byRoot[tgt], n)
		}
	}
	l.byRoot[sp.root] = head
}

func (l *LinearStorage) Edges() []Edge {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	var out []Edge
	for _, chain := range l.byRoot {
		for i := 0; i+1 < len(chain); i++ {
			src, tgt := chain[i], chain[i+1]
			out = append(out, Edge{Src: src, Tgt: tgt, Annos: l.annos[edgeKey{src, tgt}]})
		}
	}
	return out
}

func (l *LinearStorage) RecomputeStatistics() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	maxDepth := 0
	nodesWithOutgoing := 0

	for root, chain := range l.byRoot {
		if len(chain) > 1 {
			nodesWithOutgoing += len(chain) - 1
		}
		if len(chain)-1 > maxDepth {
			maxDepth = len(chain) - 1
		}
		_ = root
	}

	avgFanOut := 0.0
	if nodesWithOutgoing > 0 {
		avgFanOut = 1.0
	}

	l.stats = Statistics{
		NodesWithOutgoing: nodesWithOutgoing,
		AvgFanOut:         avgFanOut,
		MaxFanOut:         1,
		MaxDepth:          maxDepth,
		Cyclic:            false,
		RootedTree:        true,
		DFSVisitRatio:     1,
		Valid:             true,
	}
}

func (l *LinearStorage) Statistics() Statistics {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.stats
}

/*
WidthFor picks the narrowest position width that can represent maxDepth
(spec.md section 4.3 rule 1).
*/
func WidthFor(maxDepth int) PositionWidth {
	switch {
	case maxDepth < 1<<8:
		return Width8
	case maxDepth < 1<<16:
		return Width16
	default:
		return Width32
	}
}

