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
Overlap implements the "_o_" operator: lhs and rhs's token spans share at
least one token (spec.md section 4.5).
*/
type Overlap struct {
	spans *Spans
}

/*
NewOverlap builds an overlap operator over the given span resolver.
*/
func NewOverlap(spans *Spans) *Overlap {
	return &Overlap{spans: spans}
}

func (o *Overlap) Retrieve(lhs nodeid.ID) gs.NodeIterator {
	lhsToks := o.spans.CoveredTokens(lhs)

	out := nodeid.NewSet()
	tokIt := lhsToks.Iterator()
	for tokIt.HasNext() {
		out.UnionInPlace(o.spans.Covering(tokIt.Next()))
	}
	return sliceIteratorOf(out)
}

func (o *Overlap) Filter(lhs, rhs nodeid.ID) bool {
	a := o.spans.CoveredTokens(lhs)
	b := o.spans.CoveredTokens(rhs)
	return a.Intersect(b).Len() > 0
}

func (o *Overlap) Reflexive() bool   { return true }
func (o *Overlap) Commutative() bool { return true }

func (o *Overlap) Selectivity() float64 { return 0.1 }

func (o *Overlap) EdgeAnnoSelectivity() (float64, bool) { return 0, false }

func (o *Overlap) Description() string { return "_o_" }
