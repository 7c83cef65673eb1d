/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package op

import (
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
)

/*
Pointing implements the "->label" / "->label,N,M" operator: lhs reaches rhs
in a POINTING component by a path of length in [Min,Max], optionally
restricted to edges carrying a given annotation (spec.md section 4.5).
For a distance-1 relation (Max == 1) the edge-annotation check looks only at
the direct lhs->rhs edge. For longer paths it accepts the pair when some edge
out of lhs that leads toward rhs carries the annotation; edges further along
the path are not examined (unlike Dominance, which also walks them).
*/
type Pointing struct {
	storage  gs.Storage
	Min, Max int
	edgeAnno EdgeAnnoReq
	name     string
}

/*
NewPointing builds a pointing operator over the given POINTING storage.
*/
func NewPointing(storage gs.Storage, min, max int, edgeAnno EdgeAnnoReq, name string) *Pointing {
	return &Pointing{storage: storage, Min: min, Max: max, edgeAnno: edgeAnno, name: name}
}

func (p *Pointing) Retrieve(lhs nodeid.ID) gs.NodeIterator {
	if !p.edgeAnno.Set {
		return p.storage.FindConnected(lhs, p.Min, p.Max)
	}

	out := nodeid.NewSet()
	it := p.storage.FindConnected(lhs, p.Min, p.Max)
	for it.HasNext() {
		tgt := it.Next()
		if p.Filter(lhs, tgt) {
			out.Add(tgt)
		}
	}
	return sliceIteratorOf(out)
}

func (p *Pointing) Filter(lhs, rhs nodeid.ID) bool {
	if !p.storage.IsConnected(lhs, rhs, p.Min, p.Max) {
		return false
	}
	if !p.edgeAnno.Set {
		return true
	}
	if p.Max == 1 {
		return hasEdgeAnno(p.storage, lhs, rhs, p.edgeAnno)
	}
	for _, child := range p.storage.Outgoing(lhs) {
		if child != rhs && !p.storage.IsConnected(child, rhs, 1, p.Max) {
			continue // this edge does not lead toward rhs
		}
		if hasEdgeAnno(p.storage, lhs, child, p.edgeAnno) {
			return true
		}
	}
	return false
}

func (p *Pointing) Reflexive() bool   { return false }
func (p *Pointing) Commutative() bool { return false }

func (p *Pointing) Selectivity() float64 {
	stats := p.storage.Statistics()
	sel := clampSelectivity(reachableEstimate(stats, p.Min, p.Max), stats.NodesWithOutgoing, stats.Cyclic)
	if factor, ok := p.EdgeAnnoSelectivity(); ok {
		sel *= factor
	}
	return sel
}

func (p *Pointing) EdgeAnnoSelectivity() (float64, bool) {
	if !p.edgeAnno.Set {
		return 0, false
	}
	return 0.25, true
}

func (p *Pointing) Description() string {
	anno := ""
	if p.edgeAnno.Set {
		anno = p.edgeAnno.Text
	}
	return describeMinMax("->", p.name, p.Min, p.Max, anno)
}
