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
NestedLoop iterates every inner tuple for each outer tuple, emitting the
concatenation whenever op.Filter holds between the two joined positions
(spec.md section 4.7). The smaller side is expected to be passed as outer by
the planner (package plan), independently of which side is the operator's
lhs: outerIsLhs records that so Filter is always called lhs-before-rhs
regardless of iteration order, which matters for non-commutative operators
(precedence, dominance, pointing, inclusion).
*/
type NestedLoop struct {
	outer, inner       Executor
	outerIdx, innerIdx int
	outerIsLhs         bool
	operator           op.Operator
	sameAnnoKey        bool

	outerTuple Tuple
	haveOuter  bool
}

/*
NewNestedLoop builds a nested-loop join. outerIdx/innerIdx are the tuple
positions to read from each side's output; outerIsLhs says whether outer
plays the operator's lhs role or its rhs role, so Filter(lhs, rhs) is called
with the correct operands no matter which side was chosen as outer for
iteration cost. sameAnnoKey should be true when the operator's lhs and rhs
node-searches target the same annotation key, which is what the reflexivity
rule ("skip pairs where outer.node == inner.node and the two annotation keys
agree") actually compares.
*/
func NewNestedLoop(outer, inner Executor, outerIdx, innerIdx int, outerIsLhs bool, operator op.Operator, sameAnnoKey bool) *NestedLoop {
	return &NestedLoop{
		outer: outer, inner: inner,
		outerIdx: outerIdx, innerIdx: innerIdx,
		outerIsLhs: outerIsLhs,
		operator:   operator, sameAnnoKey: sameAnnoKey,
	}
}

func (n *NestedLoop) Next() (Tuple, bool) {
	for {
		if !n.haveOuter {
			t, ok := n.outer.Next()
			if !ok {
				return nil, false
			}
			n.outerTuple = t
			n.haveOuter = true
			n.inner.Reset()
		}

		it, ok := n.inner.Next()
		if !ok {
			n.haveOuter = false
			continue
		}

		outerNode := n.outerTuple[n.outerIdx]
		innerNode := it[n.innerIdx]

		lhsNode, rhsNode := innerNode, outerNode
		if n.outerIsLhs {
			lhsNode, rhsNode = outerNode, innerNode
		}

		if !n.operator.Reflexive() && lhsNode == rhsNode && n.sameAnnoKey {
			continue
		}

		if !n.operator.Filter(lhsNode, rhsNode) {
			continue
		}

		return mergeTuples(n.outerTuple, it), true
	}
}

func (n *NestedLoop) Reset() {
	n.outer.Reset()
	n.inner.Reset()
	n.haveOuter = false
}

/*
mergeTuples combines two tuples produced by components joined for the first
time: every bound position from either side, unbound elsewhere.
*/
func mergeTuples(a, b Tuple) Tuple {
	width := len(a)
	if len(b) > width {
		width = len(b)
	}

	out := NewTuple(width)
	for i, v := range a {
		if v != Unbound {
			out[i] = v
		}
	}
	for i, v := range b {
		if v != Unbound {
			out[i] = v
		}
	}
	return out
}
