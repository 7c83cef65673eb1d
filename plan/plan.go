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
Package plan builds the execution DAG of spec.md section 4.6: given a list
of node-searches and a list of operator entries, it constructs the pull
executors of package exec in join order, memoizing the cardinality/cost
estimate of each step, and fails with a DisconnectedQuery error if the
operator entries do not connect every query node into one component.

Grounded on the teacher's eql/interpreter/traversal.go and lookup.go, which
walk a parsed query and incrementally resolve each step against the graph;
here the input is already flat (node-searches + operator entries, spec.md
section 6) so the "AST walk" becomes a linear scan over operator entries
driving a union-find over query-node indices.
*/
package plan

import (
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/exec"
	"github.com/krotik/annisgraph/graphutil"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/op"
	"github.com/krotik/annisgraph/search"
)

/*
OperatorEntry is one operator entry of the planner's input (spec.md section
6): a concrete operator plus the query-node indices it joins.
*/
type OperatorEntry struct {
	Op              op.Operator
	LhsIdx, RhsIdx  int
	ForceNestedLoop bool

	/*
		SameAnnoKey is true when LhsIdx and RhsIdx's underlying
		node-searches target the same annotation key, the condition the
		reflexivity rule's "the two annotation keys agree" clause
		actually tests (spec.md section 4.7).
	*/
	SameAnnoKey bool
}

/*
Result is a completed plan: the DAG root executor plus its estimated total
cost (summed intermediate cardinality across every join step).
*/
type Result struct {
	Root Executor
	Cost float64
}

/*
Executor is a type alias so callers of this package don't need a second
import for the exec package's executor interface.
*/
type Executor = exec.Executor

/*
Build constructs the execution DAG for one query. nodeSearches are indexed
0..n-1 exactly as spec.md section 4.6 describes; store is used to probe
candidate annotations in seed/key-seed joins.
*/
func Build(nodeSearches []search.Search, operators []OperatorEntry, store *annostore.Store) (*Result, error) {
	width := len(nodeSearches)
	if width == 0 {
		return nil, &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: "no node searches"}
	}

	for _, e := range operators {
		if e.LhsIdx < 0 || e.LhsIdx >= width || e.RhsIdx < 0 || e.RhsIdx >= width {
			return nil, &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: "operator index out of range"}
		}
		if e.Op == nil {
			return nil, &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: "operator entry has no operator"}
		}
	}

	b := newBuilder(nodeSearches, store)

	for _, e := range applyCommutativeSwap(operators, b) {
		if err := b.apply(e); err != nil {
			return nil, err
		}
	}

	root, ok := b.rootIfConnected()
	if !ok {
		return nil, &graphutil.GraphError{Type: graphutil.ErrDisconnectedQuery, Detail: "query nodes do not form a single connected component"}
	}

	return &Result{Root: root, Cost: b.comp[b.find(0)].sum}, nil
}

/*
applyCommutativeSwap implements spec.md section 4.6's pre-optimization pass:
for every commutative operator, swap operands so the smaller estimated side
ends up on the left, once base estimates are known. This runs before
construction since join-kind selection (rule 3) also depends on which side
is still a bare base node.
*/
func applyCommutativeSwap(entries []OperatorEntry, b *builder) []OperatorEntry {
	out := make([]OperatorEntry, len(entries))
	for i, e := range entries {
		if e.Op.Commutative() && b.estimate(e.LhsIdx) > b.estimate(e.RhsIdx) {
			e.LhsIdx, e.RhsIdx = e.RhsIdx, e.LhsIdx
		}
		out[i] = e
	}
	return out
}

/*
retrieveFuncOf adapts an operator's Retrieve to the plain function shape
exec.IndexJoin/TaskIndexJoin need.
*/
func retrieveFuncOf(operator op.Operator) exec.RetrieveFunc {
	return func(n nodeid.ID) []nodeid.ID {
		it := operator.Retrieve(n)
		var out []nodeid.ID
		for it.HasNext() {
			out = append(out, it.Next())
		}
		return out
	}
}
