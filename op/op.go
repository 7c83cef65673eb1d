/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package op implements the binary relations over matches spec.md section 4.5
describes: precedence, dominance, pointing, inclusion, overlap and identical
coverage. Each exposes Retrieve (candidate production for a seed/index join)
and Filter (a yes/no check for a nested-loop or same-component join), plus
the selectivity estimate the planner (package plan) consumes.

Grounded on the teacher's eql/interpreter/traversal.go and where.go, which
compute the equivalent relations (precedence, dominance, coverage) directly
against a live graph.Manager; here they run against the pluggable gs.Storage
abstraction instead so the same operator code works over any back-end.
*/
package op

import (
	"fmt"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/config"
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
)

/*
Operator is a binary relation between two query nodes.
*/
type Operator interface {
	/*
		Retrieve returns every node reachable from lhs via this
		operator, as a lazy sequence.
	*/
	Retrieve(lhs nodeid.ID) gs.NodeIterator

	/*
		Filter reports whether the relation holds between lhs and rhs.
	*/
	Filter(lhs, rhs nodeid.ID) bool

	/*
		Reflexive reports whether lhs==rhs is an acceptable match.
	*/
	Reflexive() bool

	/*
		Commutative reports whether swapping lhs/rhs preserves the
		relation (used by the planner's operand-swap optimization).
	*/
	Commutative() bool

	/*
		Selectivity estimates, in [0,1], the probability that a random
		pair of nodes satisfies this operator.
	*/
	Selectivity() float64

	/*
		EdgeAnnoSelectivity returns an additional selectivity factor
		for an edge-annotation requirement, if this operator carries
		one.
	*/
	EdgeAnnoSelectivity() (float64, bool)

	/*
		Description is a human-readable rendering, e.g. ">dep[func=subj]".
	*/
	Description() string
}

/*
EdgeAnnoReq is an optional edge-annotation requirement shared by the
dominance and pointing operators (spec.md section 4.5:
"dominance(...|edgeAnno)", "pointing(...|edgeAnno)"). The zero value
EdgeAnnoReq{} means "no edge-annotation requirement".
*/
type EdgeAnnoReq struct {
	Set  bool
	NS   annostore.Key
	Val  uint32
	Text string // "ns:name=val" rendering for Description, resolved by the caller
}

/*
NewEdgeAnnoReq builds an edge-annotation requirement for dominance/pointing
operator entries that carry one.
*/
func NewEdgeAnnoReq(ns annostore.Key, val uint32, text string) EdgeAnnoReq {
	return EdgeAnnoReq{Set: true, NS: ns, Val: val, Text: text}
}

func hasEdgeAnno(storage gs.Storage, src, tgt nodeid.ID, req EdgeAnnoReq) bool {
	if !req.Set {
		return true
	}

	for _, a := range storage.EdgeAnnotations(src, tgt) {
		if a.NS == req.NS.NS && a.Name == req.NS.Name && uint32(a.Val) == req.Val {
			return true
		}
	}

	return false
}

/*
reachableEstimate implements the avgFanOut*(min(max,maxDepth)-max(0,min-1))
formula spec.md section 4.5 gives for edge-walking operator selectivity.
*/
func reachableEstimate(stats gs.Statistics, min, max int) float64 {
	hi := max
	if stats.MaxDepth < hi {
		hi = stats.MaxDepth
	}

	lo := min - 1
	if lo < 0 {
		lo = 0
	}

	span := float64(hi - lo)
	if span < 0 {
		span = 0
	}

	return stats.AvgFanOut * span
}

func clampSelectivity(reachable float64, nodeCount int, cyclic bool) float64 {
	if cyclic {
		return 1
	}

	if nodeCount <= 0 {
		return config.Float(config.DefaultSelectivity)
	}

	sel := reachable / float64(nodeCount)
	if sel > 1 {
		sel = 1
	}
	if sel < 0 {
		sel = 0
	}

	return sel
}

func describeMinMax(symbol, name string, min, max int, anno string) string {
	body := name
	if min == 1 && max == 1 {
		// no explicit range suffix
	} else if max >= 1<<30 {
		body += fmt.Sprintf(" *")
	} else {
		body += fmt.Sprintf(",%d,%d", min, max)
	}

	s := symbol + body
	if anno != "" {
		s += "[" + anno + "]"
	}
	return s
}
