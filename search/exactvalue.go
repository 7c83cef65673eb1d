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
NewExactValue builds a search over every node carrying (ns, name) = val
(ns may be nil to mean "any namespace"). Each matching key contributes a
single point lookup in the inverse index (spec.md section 4.4).
*/
func NewExactValue(store *annostore.Store, ns *stringpool.ID, name, val stringpool.ID) Search {
	var keys []annostore.Key

	if ns != nil {
		keys = []annostore.Key{{NS: *ns, Name: name}}
	} else {
		keys = store.KeysWithName(name)
	}

	var matches []Match
	var total float64
	annos := make([]annostore.Annotation, 0, len(keys))

	for _, k := range keys {
		entries := store.EntriesForValue(k, val)
		for _, e := range entries {
			matches = append(matches, Match{Node: e.Node, Anno: e.Anno})
		}
		if len(entries) > 0 {
			annos = append(annos, annostore.Annotation{NS: k.NS, Name: k.Name, Val: val})
		}
		total += float64(len(entries))
	}

	return &sliceSearch{
		matches:    matches,
		maxCount:   total,
		validAnnos: annos,
	}
}
