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
Package exec implements the pull-iterator executors of spec.md section 4.7:
nested-loop, materialized-seed, key-seed, (task-)index-join and same-component
filter, each a lazy producer of match tuples over the execution DAG the
planner (package plan) builds.

Grounded on the teacher's hash.HTreeIterator pull-cursor idiom (a struct
holding cursor state with HasNext/Next, no goroutines unless explicitly
asked for); the task-parallel variant is new, built on
golang.org/x/sync/semaphore to bound concurrent retrieve work the way
spec.md section 5 describes.
*/
package exec

import (
	"github.com/krotik/annisgraph/nodeid"
)

/*
Unbound marks a tuple position not yet assigned by any executor.
*/
const Unbound nodeid.ID = nodeid.ID(^uint32(0))

/*
Tuple is one row of the query result, indexed by query-node position.
*/
type Tuple []nodeid.ID

/*
Clone returns an independent copy of t.
*/
func (t Tuple) Clone() Tuple {
	cp := make(Tuple, len(t))
	copy(cp, t)
	return cp
}

/*
NewTuple returns a tuple of the given width with every position Unbound.
*/
func NewTuple(width int) Tuple {
	t := make(Tuple, width)
	for i := range t {
		t[i] = Unbound
	}
	return t
}

/*
Executor is a pull iterator over match tuples (spec.md section 4.7).
*/
type Executor interface {
	/*
		Next produces the next tuple, or ok=false once exhausted.
	*/
	Next() (Tuple, bool)

	/*
		Reset rewinds the executor to its first tuple.
	*/
	Reset()
}
