/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package op

import (
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
)

/*
Spans resolves the token interval [Left,Right] a node covers, the shared
building block for precedence, inclusion, overlap and identical-coverage
(spec.md section 4.5). Each span operator holds one; the query resolver
builds a fresh Spans for every operator it resolves. Left/Right resolution
walks COVERAGE plus the LEFT_TOKEN/RIGHT_TOKEN alignment components.
*/
type Spans struct {
	coverage  gs.Storage
	leftTok   gs.Storage
	rightTok  gs.Storage
	leftToks  *gs.CoverageStorage // aligned, for the incoming lookup precedence needs
	rightToks *gs.CoverageStorage
}

/*
NewSpans builds a span resolver for one layer's COVERAGE, LEFT_TOKEN and
RIGHT_TOKEN components. leftTok/rightTok should be backed by CoverageStorage
(the registry's default for those types) so the incoming-edge lookup
precedence needs is available; if not, LeftAligned/RightAligned degrade to
returning just the token itself (Left/Right still work via outgoing edges).
*/
func NewSpans(coverage, leftTok, rightTok gs.Storage) *Spans {
	s := &Spans{coverage: coverage, leftTok: leftTok, rightTok: rightTok}
	s.leftToks, _ = leftTok.(*gs.CoverageStorage)
	s.rightToks, _ = rightTok.(*gs.CoverageStorage)
	return s
}

/*
IsToken reports whether n is a terminal (has no outgoing COVERAGE edge).
*/
func (s *Spans) IsToken(n nodeid.ID) bool {
	if s.coverage == nil {
		return true
	}
	return len(s.coverage.Outgoing(n)) == 0
}

/*
Left returns the leftmost token n covers, or n itself if n is already a
token.
*/
func (s *Spans) Left(n nodeid.ID) nodeid.ID {
	if s.IsToken(n) {
		return n
	}
	if s.leftTok != nil {
		if out := s.leftTok.Outgoing(n); len(out) > 0 {
			return out[0]
		}
	}
	return n
}

/*
Right returns the rightmost token n covers, or n itself if n is already a
token.
*/
func (s *Spans) Right(n nodeid.ID) nodeid.ID {
	if s.IsToken(n) {
		return n
	}
	if s.rightTok != nil {
		if out := s.rightTok.Outgoing(n); len(out) > 0 {
			return out[0]
		}
	}
	return n
}

/*
LeftAligned returns every node left-aligned with token tok, i.e. tok plus
every node whose LEFT_TOKEN edge points at tok (spec.md section 4.5,
precedence: "that token plus every node left-aligned with it"). Requires
LEFT_TOKEN to be CoverageStorage-backed for the incoming lookup; falls back
to just {tok} otherwise.
*/
func (s *Spans) LeftAligned(tok nodeid.ID) *nodeid.Set {
	out := nodeid.NewSetOf(tok)
	if s.leftToks != nil {
		out.UnionInPlace(s.leftToks.Covers(tok))
	}
	return out
}

/*
RightAligned is the RIGHT_TOKEN analogue of LeftAligned.
*/
func (s *Spans) RightAligned(tok nodeid.ID) *nodeid.Set {
	out := nodeid.NewSetOf(tok)
	if s.rightToks != nil {
		out.UnionInPlace(s.rightToks.Covers(tok))
	}
	return out
}

/*
CoveredTokens returns every token n covers (its full span), via COVERAGE
reachability. A token node covers only itself.
*/
func (s *Spans) CoveredTokens(n nodeid.ID) *nodeid.Set {
	out := nodeid.NewSet()
	if s.IsToken(n) {
		out.Add(n)
		return out
	}
	if s.coverage == nil {
		out.Add(n)
		return out
	}

	it := s.coverage.FindConnected(n, 1, 1<<30)
	for it.HasNext() {
		t := it.Next()
		if s.IsToken(t) {
			out.Add(t)
		}
	}
	return out
}

/*
Covering returns every node that covers token tok (the direct COVERAGE
incoming set; a node that covers tok only through another covering node is
not included), used by overlap/inclusion/identical-coverage to walk
from a token back up to candidate spans. Requires COVERAGE to be
CoverageStorage-backed; falls back to empty otherwise.
*/
func (s *Spans) Covering(tok nodeid.ID) *nodeid.Set {
	if cs, ok := s.coverage.(*gs.CoverageStorage); ok {
		return cs.Covers(tok)
	}
	return nodeid.NewSet()
}
