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
Package search implements the annotation searches of spec.md section 4.4:
lazy iterators producing candidate (node, matched-annotation) pairs, grounded
on the candidate-producing iterators of the teacher's
eql/interpreter/lookup.go generalized from the teacher's attribute lookup to
the three node-search kinds spec.md's front-end contract (section 6) names:
exact key, exact value, regex value.
*/
package search

import (
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/nodeid"
)

/*
Match is one (node, matched-annotation) pair.
*/
type Match struct {
	Node nodeid.ID
	Anno annostore.Annotation
}

/*
Search is a lazy sequence of Matches that additionally reports an
estimated upper bound on its own size and the set of annotations/keys it
could ever produce, both of which the planner (section 4.6) uses for
cardinality estimation.
*/
type Search interface {
	HasNext() bool
	Next() Match

	/*
		Reset rewinds the search to its first match, so the executor
		layer (package exec) can re-run a plan from scratch.
	*/
	Reset()

	/*
		EstimatedMaxCount is an upper bound on the number of matches this
		search can produce, without actually running it.
	*/
	EstimatedMaxCount() float64

	/*
		ValidAnnotations returns every distinct annotation this search
		could produce (value searches); ValidAnnotationKeys returns every
		distinct key (key searches). Exactly one of the two is
		meaningful for a given search kind; the other returns nil.
	*/
	ValidAnnotations() []annostore.Annotation
	ValidAnnotationKeys() []annostore.Key
}

/*
sliceSearch is the common implementation backing ExactKey, ExactValue and
RegexValue: all three ultimately materialize a slice of matches from the
node-annotation store's ordered inverse index and hand out a simple cursor
over it. Materializing is fine here because the underlying index scan is
already bounded by the key/value predicate; it is the join layer (package
exec), not the search layer, that must stay lazy over potentially huge
intermediate results.
*/
type sliceSearch struct {
	matches     []Match
	pos         int
	maxCount    float64
	validAnnos  []annostore.Annotation
	validKeys   []annostore.Key
}

func (s *sliceSearch) HasNext() bool { return s.pos < len(s.matches) }

func (s *sliceSearch) Reset() { s.pos = 0 }

func (s *sliceSearch) Next() Match {
	m := s.matches[s.pos]
	s.pos++
	return m
}

func (s *sliceSearch) EstimatedMaxCount() float64 { return s.maxCount }

func (s *sliceSearch) ValidAnnotations() []annostore.Annotation { return s.validAnnos }

func (s *sliceSearch) ValidAnnotationKeys() []annostore.Key { return s.validKeys }
