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
	"github.com/krotik/annisgraph/search"
)

/*
Base wraps a single node-search as a one-column executor, the leaf of every
execution DAG (spec.md section 4.6: "each query node starts as a base
execution node wrapping its search").
*/
type Base struct {
	search search.Search
	idx    int
	width  int
}

/*
NewBase builds a base executor for the node-search at position idx, over a
plan of the given total width.
*/
func NewBase(s search.Search, idx, width int) *Base {
	return &Base{search: s, idx: idx, width: width}
}

func (b *Base) Next() (Tuple, bool) {
	if !b.search.HasNext() {
		return nil, false
	}

	m := b.search.Next()
	t := NewTuple(b.width)
	t[b.idx] = m.Node
	return t, true
}

func (b *Base) Reset() { b.search.Reset() }

/*
UnderlyingSearch returns the node-search this base executor wraps, used by
the planner (package plan) to decide the seed-join variant from the right
side's ValidAnnotations()/ValidAnnotationKeys().
*/
func (b *Base) UnderlyingSearch() search.Search { return b.search }

/*
Idx returns the tuple position this base executor writes.
*/
func (b *Base) Idx() int { return b.idx }
