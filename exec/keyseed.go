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
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/op"
)

/*
KeySeed is the key-seed join (spec.md section 4.7): like Seed, but the right
side is a fixed set of annotation keys rather than (key, value) pairs -
values are whatever the candidate happens to carry.
*/
type KeySeed struct {
	left              Executor
	leftIdx, rightIdx int
	operator          op.Operator
	store             *annostore.Store
	validKeys         []annostore.Key
	sameAnnoKey       bool

	leftTuple  Tuple
	haveLeft   bool
	candidates []nodeid.ID
	pos        int
}

/*
NewKeySeed builds a key-seed join. validKeys is the right base search's
ValidAnnotationKeys() set.
*/
func NewKeySeed(left Executor, leftIdx, rightIdx int, operator op.Operator, store *annostore.Store, validKeys []annostore.Key, sameAnnoKey bool) *KeySeed {
	return &KeySeed{
		left: left, leftIdx: leftIdx, rightIdx: rightIdx,
		operator: operator, store: store, validKeys: validKeys, sameAnnoKey: sameAnnoKey,
	}
}

func matchesValidKeys(store *annostore.Store, node nodeid.ID, validKeys []annostore.Key) bool {
	for _, k := range validKeys {
		if _, ok := store.ValueOf(node, k.NS, k.Name); ok {
			return true
		}
	}
	return false
}

func (k *KeySeed) fillCandidates() {
	k.candidates = k.candidates[:0]
	k.pos = 0

	it := k.operator.Retrieve(k.leftTuple[k.leftIdx])
	for it.HasNext() {
		cand := it.Next()
		if matchesValidKeys(k.store, cand, k.validKeys) {
			k.candidates = append(k.candidates, cand)
		}
	}
}

func (k *KeySeed) Next() (Tuple, bool) {
	for {
		if !k.haveLeft {
			t, ok := k.left.Next()
			if !ok {
				return nil, false
			}
			k.leftTuple = t
			k.haveLeft = true
			k.fillCandidates()
		}

		if k.pos >= len(k.candidates) {
			k.haveLeft = false
			continue
		}

		cand := k.candidates[k.pos]
		k.pos++

		lhsNode := k.leftTuple[k.leftIdx]
		if !k.operator.Reflexive() && lhsNode == cand && k.sameAnnoKey {
			continue
		}

		out := k.leftTuple.Clone()
		out[k.rightIdx] = cand
		return out, true
	}
}

func (k *KeySeed) Reset() {
	k.left.Reset()
	k.haveLeft = false
	k.candidates = nil
	k.pos = 0
}
