/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package exec

import (
	"github.com/krotik/annisgraph/op"
)

/*
Filter handles an operator entry whose two endpoints are already in the same
connected component of the execution DAG (spec.md section 4.6 rule 1):
no new tuples are produced, just rows failing op.Filter are dropped.
*/
type Filter struct {
	src         Executor
	lhsIdx, rhsIdx int
	operator    op.Operator
	sameAnnoKey bool
}

/*
NewFilter builds a same-component filter node.
*/
func NewFilter(src Executor, lhsIdx, rhsIdx int, operator op.Operator, sameAnnoKey bool) *Filter {
	return &Filter{src: src, lhsIdx: lhsIdx, rhsIdx: rhsIdx, operator: operator, sameAnnoKey: sameAnnoKey}
}

func (f *Filter) Next() (Tuple, bool) {
	for {
		t, ok := f.src.Next()
		if !ok {
			return nil, false
		}

		lhsNode := t[f.lhsIdx]
		rhsNode := t[f.rhsIdx]

		if !f.operator.Reflexive() && lhsNode == rhsNode && f.sameAnnoKey {
			continue
		}

		if f.operator.Filter(lhsNode, rhsNode) {
			return t, true
		}
	}
}

func (f *Filter) Reset() { f.src.Reset() }
