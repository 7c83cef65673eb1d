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
Inclusion implements the "_i_" operator: lhs's token span fully contains
rhs's token span (spec.md section 4.5). Retrieve walks every node covering
some token of lhs's span and keeps those whose own span is fully contained
within it.
*/
type Inclusion struct {
	spans *Spans
}

/*
NewInclusion builds an inclusion operator over the given span resolver.
*/
func NewInclusion(spans *Spans) *Inclusion {
	return &Inclusion{spans: spans}
}

func (i *Inclusion) candidates(lhsToks *nodeid.Set) *nodeid.Set {
	out := nodeid.NewSet()
	it := lhsToks.Iterator()
	for it.HasNext() {
		out.UnionInPlace(i.spans.Covering(it.Next()))
	}
	return out
}

func (i *Inclusion) Retrieve(lhs nodeid.ID) gs.NodeIterator {
	lhsToks := i.spans.CoveredTokens(lhs)

	out := nodeid.NewSet()
	it := i.candidates(lhsToks).Iterator()
	for it.HasNext() {
		cand := it.Next()
		if containsSpan(lhsToks, i.spans.CoveredTokens(cand)) {
			out.Add(cand)
		}
	}
	return sliceIteratorOf(out)
}

func (i *Inclusion) Filter(lhs, rhs nodeid.ID) bool {
	return containsSpan(i.spans.CoveredTokens(lhs), i.spans.CoveredTokens(rhs))
}

func (i *Inclusion) Reflexive() bool   { return true }
func (i *Inclusion) Commutative() bool { return false }

func (i *Inclusion) Selectivity() float64 { return 0.05 }

func (i *Inclusion) EdgeAnnoSelectivity() (float64, bool) { return 0, false }

func (i *Inclusion) Description() string { return "_i_" }

/*
containsSpan reports whether every member of inner is also a member of
outer.
*/
func containsSpan(outer, inner *nodeid.Set) bool {
	it := inner.Iterator()
	for it.HasNext() {
		if !outer.Contains(it.Next()) {
			return false
		}
	}
	return true
}
