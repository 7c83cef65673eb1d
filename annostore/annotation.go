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
Package annostore is the node-annotation store (spec.md section 4.2): three
coupled indexes (forward, inverse, key index) maintained as one logical
structure, plus the equi-count histogram statistics used for selectivity
estimation.

The teacher's closest analogue is graph/graphmanager_nodes.go's node
attribute read/write path combined with graph/util's IndexManager word/hash
index (graph/util/indexmanager_test.go documents its bucket/word-index
shape); neither needed an ordered value range scan, so the inverse index
here uses github.com/tidwall/btree instead of the teacher's plain maps,
matching spec.md's explicit requirement that the inverse index "permit
prefix scans of val for a fixed key".
*/
package annostore

import (
	"github.com/krotik/annisgraph/stringpool"
)

/*
Key identifies an annotation key: a (namespace, name) pair.
*/
type Key struct {
	NS   stringpool.ID
	Name stringpool.ID
}

/*
Annotation is a (namespace, name, value) triple.
*/
type Annotation struct {
	NS   stringpool.ID
	Name stringpool.ID
	Val  stringpool.ID
}

/*
Key returns the (NS, Name) key of this annotation.
*/
func (a Annotation) Key() Key {
	return Key{NS: a.NS, Name: a.Name}
}
