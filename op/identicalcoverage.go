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
IdenticalCoverage implements the "_=_" operator: lhs and rhs cover exactly
the same token span (spec.md section 4.5).
*/
type IdenticalCoverage struct {
	spans *Spans
}

/*
NewIdenticalCoverage builds an identical-coverage operator over the given
span resolver.
*/
func NewIdenticalCoverage(spans *Spans) *IdenticalCoverage {
	return &IdenticalCoverage{spans: spans}
}

func (ic *IdenticalCoverage) Retrieve(lhs nodeid.ID) gs.NodeIterator {
	lhsToks := ic.spans.CoveredTokens(lhs)
	if lhsToks.Len() == 0 {
		return sliceIteratorOf(nodeid.NewSet())
	}

	first := lhsToks.Iterator().Next()
	candidates := ic.spans.Covering(first)

	out := nodeid.NewSet()
	it := candidates.Iterator()
	for it.HasNext() {
		cand := it.Next()
		candToks := ic.spans.CoveredTokens(cand)
		if sameSpan(lhsToks, candToks) {
			out.Add(cand)
		}
	}
	return sliceIteratorOf(out)
}

func (ic *IdenticalCoverage) Filter(lhs, rhs nodeid.ID) bool {
	return sameSpan(ic.spans.CoveredTokens(lhs), ic.spans.CoveredTokens(rhs))
}

func (ic *IdenticalCoverage) Reflexive() bool   { return true }
func (ic *IdenticalCoverage) Commutative() bool { return true }

func (ic *IdenticalCoverage) Selectivity() float64 { return 0.02 }

func (ic *IdenticalCoverage) EdgeAnnoSelectivity() (float64, bool) { return 0, false }

func (ic *IdenticalCoverage) Description() string { return "_=_" }

func sameSpan(a, b *nodeid.Set) bool {
	return a.Len() == b.Len() && containsSpan(a, b)
}
