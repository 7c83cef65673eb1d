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
Seed is the materialized-seed join (spec.md section 4.7): the right side is
a fixed set of valid annotations (from an exact-value search), so for each
left tuple only op.Retrieve(lhs) needs probing against the node-annotation
store, rather than a full nested loop over the right executor.
*/
type Seed struct {
	left              Executor
	leftIdx, rightIdx int
	operator          op.Operator
	store             *annostore.Store
	validAnnos        []annostore.Annotation
	sameAnnoKey       bool

	leftTuple  Tuple
	haveLeft   bool
	candidates []nodeid.ID
	pos        int
}

/*
NewSeed builds a materialized-seed join. validAnnos is the right base
search's ValidAnnotations() set.
*/
func NewSeed(left Executor, leftIdx, rightIdx int, operator op.Operator, store *annostore.Store, validAnnos []annostore.Annotation, sameAnnoKey bool) *Seed {
	return &Seed{
		left: left, leftIdx: leftIdx, rightIdx: rightIdx,
		operator: operator, store: store, validAnnos: validAnnos, sameAnnoKey: sameAnnoKey,
	}
}

func matchesValidAnnos(store *annostore.Store, node nodeid.ID, validAnnos []annostore.Annotation) bool {
	if len(validAnnos) == 1 {
		va := validAnnos[0]
		v, ok := store.ValueOf(node, va.NS, va.Name)
		return ok && v == va.Val
	}

	have := store.AnnotationsOf(node)
	for _, a := range have {
		for _, va := range validAnnos {
			if a == va {
				return true
			}
		}
	}
	return false
}

func (s *Seed) fillCandidates() {
	s.candidates = s.candidates[:0]
	s.pos = 0

	it := s.operator.Retrieve(s.leftTuple[s.leftIdx])
	for it.HasNext() {
		cand := it.Next()
		if matchesValidAnnos(s.store, cand, s.validAnnos) {
			s.candidates = append(s.candidates, cand)
		}
	}
}

func (s *Seed) Next() (Tuple, bool) {
	for {
		if !s.haveLeft {
			t, ok := s.left.Next()
			if !ok {
				return nil, false
			}
			s.leftTuple = t
			s.haveLeft = true
			s.fillCandidates()
		}

		if s.pos >= len(s.candidates) {
			s.haveLeft = false
			continue
		}

		cand := s.candidates[s.pos]
		s.pos++

		lhsNode := s.leftTuple[s.leftIdx]
		if !s.operator.Reflexive() && lhsNode == cand && s.sameAnnoKey {
			continue
		}

		out := s.leftTuple.Clone()
		out[s.rightIdx] = cand
		return out, true
	}
}

func (s *Seed) Reset() {
	s.left.Reset()
	s.haveLeft = false
	s.candidates = nil
	s.pos = 0
}
