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
	"fmt"

	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
)

/*
Precedence implements the "." / ".N,M" operator: lhs precedes rhs in the
ORDERING chain by a token distance in [Min,Max] (spec.md section 4.5).
Retrieve walks the ORDERING component from lhs's rightmost covered token;
each reached token also yields every node left-aligned with it, since those
share the token's position in the chain.
*/
type Precedence struct {
	ordering gs.Storage
	spans    *Spans
	Min, Max int
}

/*
NewPrecedence builds a precedence operator over the given ORDERING storage,
using spans to resolve each operand's covered token range.
*/
func NewPrecedence(ordering gs.Storage, spans *Spans, min, max int) *Precedence {
	return &Precedence{ordering: ordering, spans: spans, Min: min, Max: max}
}

func (p *Precedence) Retrieve(lhs nodeid.ID) gs.NodeIterator {
	start := p.spans.Right(lhs)

	out := nodeid.NewSet()
	it := p.ordering.FindConnected(start, p.Min, p.Max)
	for it.HasNext() {
		tok := it.Next()
		out.UnionInPlace(p.spans.LeftAligned(tok))
	}
	return sliceIteratorOf(out)
}

func (p *Precedence) Filter(lhs, rhs nodeid.ID) bool {
	start := p.spans.Right(lhs)
	target := p.spans.Left(rhs)
	return p.ordering.IsConnected(start, target, p.Min, p.Max)
}

func (p *Precedence) Reflexive() bool   { return false }
func (p *Precedence) Commutative() bool { return false }

func (p *Precedence) Selectivity() float64 {
	stats := p.ordering.Statistics()
	return clampSelectivity(reachableEstimate(stats, p.Min, p.Max), stats.NodesWithOutgoing, stats.Cyclic)
}

func (p *Precedence) EdgeAnnoSelectivity() (float64, bool) { return 0, false }

func (p *Precedence) Description() string {
	if p.Min == 1 && p.Max == 1 {
		return "."
	}
	return fmt.Sprintf(".,%d,%d", p.Min, p.Max)
}

/*
sliceIteratorOf adapts a materialized nodeid.Set to gs.NodeIterator, used by
operators that must dedup across several reached tokens before handing
results to a join.
*/
func sliceIteratorOf(s *nodeid.Set) gs.NodeIterator {
	return &setIterator{it: s.Iterator()}
}

type setIterator struct {
	it *nodeid.Iterator
}

func (s *setIterator) HasNext() bool    { return s.it.HasNext() }
func (s *setIterator) Next() nodeid.ID { return s.it.Next() }
