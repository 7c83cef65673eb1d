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
NewRegexValue builds a search over every node whose (ns, name) value fully
matches pattern. The string pool's possible-match-range scan (stringpool
section 4.1) resolves the candidate value ids once; those ids are then
looked up per matching key in the inverse index (spec.md section 4.4).
Returns the compile error from the pattern, if any.
*/
func NewRegexValue(store *annostore.Store, pool *stringpool.Pool, ns *stringpool.ID, name stringpool.ID, pattern string) (Search, error) {
	candidateVals, err := pool.FindByRegex(pattern)
	if err != nil {
		return nil, err
	}

	var keys []annostore.Key
	if ns != nil {
		keys = []annostore.Key{{NS: *ns, Name: name}}
	} else {
		keys = store.KeysWithName(name)
	}

	var matches []Match
	var total float64
	annos := make([]annostore.Annotation, 0, len(candidateVals))

	for _, k := range keys {
		for _, val := range candidateVals {
			entries := store.EntriesForValue(k, val)
			if len(entries) == 0 {
				continue
			}
			for _, e := range entries {
				matches = append(matches, Match{Node: e.Node, Anno: e.Anno})
			}
			annos = append(annos, annostore.Annotation{NS: k.NS, Name: k.Name, Val: val})
			total += float64(len(entries))
		}
	}

	return &sliceSearch{
		matches:    matches,
		maxCount:   total,
		validAnnos: annos,
	}, nil
}
