/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package plan

import (
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/config"
	"github.com/krotik/annisgraph/exec"
	"github.com/krotik/annisgraph/search"
)

/*
component is the cardinality/cost bookkeeping for one connected piece of the
execution DAG (spec.md section 4.6: "cardinality/cost estimation is
memoized per node").
*/
type component struct {
	exec exec.Executor
	out  float64 // output: estimated row count this component currently produces
	sum  float64 // sumIntermediate: total intermediate rows materialized so far
	size int     // number of query nodes merged into this component
}

/*
builder tracks, for n query nodes, a union-find over their indices plus the
component bookkeeping for each root.
*/
type builder struct {
	parent []int
	comp   map[int]*component
	store  *annostore.Store
}

func newBuilder(nodeSearches []search.Search, store *annostore.Store) *builder {
	n := len(nodeSearches)
	b := &builder{
		parent: make([]int, n),
		comp:   make(map[int]*component, n),
		store:  store,
	}

	for i, s := range nodeSearches {
		b.parent[i] = i
		b.comp[i] = &component{
			exec: exec.NewBase(s, i, n),
			out:  baseEstimate(s),
			sum:  0,
			size: 1,
		}
	}

	return b
}

func baseEstimate(s search.Search) float64 {
	if c := s.EstimatedMaxCount(); c > 0 {
		return c
	}
	return config.Float(config.DefaultBaseTuples)
}

func (b *builder) find(i int) int {
	for b.parent[i] != i {
		b.parent[i] = b.parent[b.parent[i]]
		i = b.parent[i]
	}
	return i
}

func (b *builder) union(i, j int) int {
	ri, rj := b.find(i), b.find(j)
	if ri == rj {
		return ri
	}
	b.parent[rj] = ri
	return ri
}

/*
estimate returns the current output estimate of the component containing
query node i, used by the commutative operand-swap pre-pass.
*/
func (b *builder) estimate(i int) float64 {
	return b.comp[b.find(i)].out
}

/*
isBareBase reports whether query node i's component is still an untouched
single-node base (spec.md section 4.6 rule 2/3: "rhs is a base node").
*/
func (b *builder) isBareBase(i int) bool {
	root := b.find(i)
	return root == i && b.comp[root].size == 1
}

/*
rootIfConnected returns the single merged executor once every query node
shares one component root, or ok=false otherwise (DisconnectedQuery).
*/
func (b *builder) rootIfConnected() (exec.Executor, bool) {
	if len(b.parent) == 0 {
		return nil, false
	}

	root := b.find(0)
	for i := range b.parent {
		if b.find(i) != root {
			return nil, false
		}
	}

	return b.comp[root].exec, true
}

/*
apply folds one operator entry into the builder's execution DAG, following
the four construction rules of spec.md section 4.6.
*/
func (b *builder) apply(e OperatorEntry) error {
	lhsRoot, rhsRoot := b.find(e.LhsIdx), b.find(e.RhsIdx)

	if lhsRoot == rhsRoot {
		b.applyFilter(lhsRoot, e)
		return nil
	}

	if !e.ForceNestedLoop && b.isBareBase(e.RhsIdx) {
		b.applySeed(lhsRoot, rhsRoot, e)
		return nil
	}

	if e.Op.Commutative() && b.isBareBase(e.LhsIdx) {
		swapped := e
		swapped.LhsIdx, swapped.RhsIdx = e.RhsIdx, e.LhsIdx
		b.applySeed(rhsRoot, lhsRoot, swapped)
		return nil
	}

	b.applyNestedLoop(lhsRoot, rhsRoot, e)
	return nil
}

func edgeAnnoFactor(operator interface {
	EdgeAnnoSelectivity() (float64, bool)
}) float64 {
	if f, ok := operator.EdgeAnnoSelectivity(); ok {
		return f
	}
	return 1
}

func (b *builder) applyFilter(root int, e OperatorEntry) {
	c := b.comp[root]

	c.exec = exec.NewFilter(c.exec, e.LhsIdx, e.RhsIdx, e.Op, e.SameAnnoKey)
	c.sum += c.out
	c.out *= e.Op.Selectivity()
}

func (b *builder) applySeed(lhsRoot, rhsRoot int, e OperatorEntry) {
	lhs, rhs := b.comp[lhsRoot], b.comp[rhsRoot]

	var joined exec.Executor

	if base, ok := rhs.exec.(*exec.Base); ok {
		rhsSearch := base.UnderlyingSearch()
		switch {
		case len(rhsSearch.ValidAnnotations()) > 0:
			joined = exec.NewSeed(lhs.exec, e.LhsIdx, e.RhsIdx, e.Op, b.store, rhsSearch.ValidAnnotations(), e.SameAnnoKey)
		case len(rhsSearch.ValidAnnotationKeys()) > 0:
			joined = exec.NewKeySeed(lhs.exec, e.LhsIdx, e.RhsIdx, e.Op, b.store, rhsSearch.ValidAnnotationKeys(), e.SameAnnoKey)
		default:
			// No valid annotation and no valid key: rhs matches no node, and
			// an empty valid set makes the seed join empty as well.
			joined = exec.NewSeed(lhs.exec, e.LhsIdx, e.RhsIdx, e.Op, b.store, nil, e.SameAnnoKey)
		}
	} else {
		joined = exec.NewIndexJoin(lhs.exec, e.LhsIdx, e.RhsIdx, retrieveFuncOf(e.Op), e.Op, e.SameAnnoKey)
	}

	sel := e.Op.Selectivity() * edgeAnnoFactor(e.Op)
	newOut := lhs.out * rhs.out * sel
	newSum := lhs.sum + rhs.sum + lhs.out + sel*rhs.out*lhs.out

	b.merge(lhsRoot, rhsRoot, joined, newOut, newSum)
}

func (b *builder) applyNestedLoop(lhsRoot, rhsRoot int, e OperatorEntry) {
	lhs, rhs := b.comp[lhsRoot], b.comp[rhsRoot]

	outerExec, innerExec := lhs.exec, rhs.exec
	outerIdx, innerIdx := e.LhsIdx, e.RhsIdx
	outerOut, innerOut := lhs.out, rhs.out
	outerIsLhs := true

	if rhs.out < lhs.out {
		outerExec, innerExec = rhs.exec, lhs.exec
		outerIdx, innerIdx = e.RhsIdx, e.LhsIdx
		outerOut, innerOut = rhs.out, lhs.out
		outerIsLhs = false
	}

	joined := exec.NewNestedLoop(outerExec, innerExec, outerIdx, innerIdx, outerIsLhs, e.Op, e.SameAnnoKey)

	sel := e.Op.Selectivity() * edgeAnnoFactor(e.Op)
	newOut := lhs.out * rhs.out * sel
	newSum := lhs.sum + rhs.sum + outerOut*(1+innerOut)

	b.merge(lhsRoot, rhsRoot, joined, newOut, newSum)
}

func (b *builder) merge(lhsRoot, rhsRoot int, joined exec.Executor, out, sum float64) {
	newRoot := b.union(lhsRoot, rhsRoot)
	b.comp[newRoot] = &component{exec: joined, out: out, sum: sum, size: b.comp[lhsRoot].size + b.comp[rhsRoot].size}
}
