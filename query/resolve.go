/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package query

import (
	"fmt"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/corpus"
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/graphutil"
	"github.com/krotik/annisgraph/op"
	"github.com/krotik/annisgraph/plan"
	"github.com/krotik/annisgraph/search"
	"github.com/krotik/annisgraph/stringpool"
)

/*
resolveNodeSearch turns one NodeSearch descriptor into a search.Search
against img, optionally wrapped to a const (annis_ns, node_name, 0) match
(spec.md section 4.4).
*/
func resolveNodeSearch(img *corpus.Image, d NodeSearch) (search.Search, error) {
	var ns *stringpool.ID
	if d.NS != nil {
		id := img.Pool.Add(*d.NS)
		ns = &id
	}

	name := img.Pool.Add(d.Name)

	var s search.Search
	var err error

	switch d.Kind {
	case ExactKey:
		s = search.NewExactKey(img.Annos, ns, name)
	case ExactValue:
		val := img.Pool.Add(d.Val)
		s = search.NewExactValue(img.Annos, ns, name, val)
	case RegexValue:
		s, err = search.NewRegexValue(img.Annos, img.Pool, ns, name, d.Pattern)
	default:
		return nil, &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("unknown node-search kind %d", d.Kind)}
	}
	if err != nil {
		return nil, err
	}

	if d.WrapAsNodeMatch {
		s = search.WrapConstAnno(s, annostore.Annotation{NS: img.Reserved.NS, Name: img.Reserved.NodeName, Val: 0})
	}

	return s, nil
}

/*
resolveOperator turns one OperatorSpec into an op.Operator plus the
sameAnnoKey flag the planner needs (spec.md section 4.7's reflexivity
rule), reading the component storages it needs from img.
*/
func resolveOperator(img *corpus.Image, spec OperatorSpec, nodeDescs []NodeSearch) (op.Operator, bool, error) {
	sameAnnoKey := sameAnnotationKey(nodeDescs[spec.LhsIdx], nodeDescs[spec.RhsIdx])

	switch spec.Kind {
	case Precedence:
		ordering := img.Storage(gs.Ordering, "", "")
		spans := defaultSpans(img)
		return op.NewPrecedence(ordering, spans, normalizeMin(spec.Min), normalizeMax(spec.Max)), sameAnnoKey, nil

	case Dominance:
		storage := img.Storage(gs.Dominance, spec.Layer, spec.Name)
		edgeAnno, err := resolveEdgeAnno(img, spec)
		if err != nil {
			return nil, false, err
		}
		return op.NewDominance(storage, normalizeMin(spec.Min), normalizeMax(spec.Max), edgeAnno, spec.Name), sameAnnoKey, nil

	case Pointing:
		storage := img.Storage(gs.Pointing, spec.Layer, spec.Name)
		edgeAnno, err := resolveEdgeAnno(img, spec)
		if err != nil {
			return nil, false, err
		}
		return op.NewPointing(storage, normalizeMin(spec.Min), normalizeMax(spec.Max), edgeAnno, spec.Name), sameAnnoKey, nil

	case Inclusion:
		return op.NewInclusion(defaultSpans(img)), sameAnnoKey, nil

	case Overlap:
		return op.NewOverlap(defaultSpans(img)), sameAnnoKey, nil

	case IdenticalCoverage:
		return op.NewIdenticalCoverage(defaultSpans(img)), sameAnnoKey, nil
	}

	return nil, false, &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("unknown operator kind %d", spec.Kind)}
}

/*
defaultSpans resolves the three span-defining components every span
operator (precedence, inclusion, overlap, identicalCoverage) shares: one
unnamed COVERAGE/LEFT_TOKEN/RIGHT_TOKEN component per corpus.
*/
func defaultSpans(img *corpus.Image) *op.Spans {
	return op.NewSpans(
		img.Storage(gs.Coverage, "", ""),
		img.Storage(gs.LeftToken, "", ""),
		img.Storage(gs.RightToken, "", ""),
	)
}

func resolveEdgeAnno(img *corpus.Image, spec OperatorSpec) (op.EdgeAnnoReq, error) {
	if !spec.EdgeAnnoSet {
		return op.EdgeAnnoReq{}, nil
	}

	ns := img.Pool.Add(spec.EdgeAnnoNS)
	name := img.Pool.Add(spec.EdgeAnnoName)
	val := img.Pool.Add(spec.EdgeAnnoVal)

	text := fmt.Sprintf("%s:%s=%s", spec.EdgeAnnoNS, spec.EdgeAnnoName, spec.EdgeAnnoVal)

	return op.NewEdgeAnnoReq(annostore.Key{NS: ns, Name: name}, uint32(val), text), nil
}

func normalizeMin(min int) int {
	if min <= 0 {
		return 1
	}
	return min
}

func normalizeMax(max int) int {
	if max <= 0 {
		return 1
	}
	return max
}

/*
sameAnnotationKey reports whether two node-search descriptors target the
same (ns, name) annotation key, the condition the reflexivity rule's "the
two annotation keys agree" clause tests (spec.md section 4.7). Descriptors
with different NS pointers (including one nil, one set) are conservatively
treated as different keys.
*/
func sameAnnotationKey(a, b NodeSearch) bool {
	if a.Name != b.Name {
		return false
	}
	if (a.NS == nil) != (b.NS == nil) {
		return false
	}
	if a.NS != nil && *a.NS != *b.NS {
		return false
	}
	return true
}

/*
Build resolves nodeDescs/opDescs against img and constructs the execution
plan (package plan).
*/
func Build(img *corpus.Image, nodeDescs []NodeSearch, opDescs []OperatorSpec) (*plan.Result, error) {
	searches := make([]search.Search, len(nodeDescs))
	for i, d := range nodeDescs {
		s, err := resolveNodeSearch(img, d)
		if err != nil {
			return nil, err
		}
		searches[i] = s
	}

	entries := make([]plan.OperatorEntry, len(opDescs))
	for i, spec := range opDescs {
		operator, sameAnnoKey, err := resolveOperator(img, spec, nodeDescs)
		if err != nil {
			return nil, err
		}
		entries[i] = plan.OperatorEntry{
			Op:              operator,
			LhsIdx:          spec.LhsIdx,
			RhsIdx:          spec.RhsIdx,
			ForceNestedLoop: spec.ForceNestedLoop,
			SameAnnoKey:     sameAnnoKey,
		}
	}

	return plan.Build(searches, entries, img.Annos)
}
