/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package search

import (
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/stringpool"
)

/*
NewExactKey builds a search over every node carrying the (ns, name) key
(ns may be nil to mean "any namespace"), in inverse-index order. Its
estimated count is the sum of the key counts over every matching key
(spec.md section 4.4).
*/
func NewExactKey(store *annostore.Store, ns *stringpool.ID, name stringpool.ID) Search {
	var keys []annostore.Key

	if ns != nil {
		keys = []annostore.Key{{NS: *ns, Name: name}}
	} else {
		keys = store.KeysWithName(name)
	}

	var matches []Match
	var total float64
	keySet := make([]annostore.Key, 0, len(keys))

	for _, k := range keys {
		for _, e := range store.EntriesForKey(k) {
			matches = append(matches, Match{Node: e.Node, Anno: e.Anno})
		}
		total += float64(store.KeyCount(k))
		keySet = append(keySet, k)
	}

	return &sliceSearch{
		matches:   matches,
		maxCount:  total,
		validKeys: keySet,
	}
}
