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
Package query is the flat query front-end contract of spec.md section 6:
ordered node-search descriptors plus operator entries, resolved against a
corpus.Image into a plan.Result and then driven to produce count/find
results.

Grounded on the teacher's eql/interpreter/helpers.go and traversal.go, which
take an already-parsed query and drive node/edge lookups against a graph;
simplified down to the flat contract spec.md section 6 defines instead of a
tree grammar - there is no query language here, only the already-parsed
descriptor/operator lists a caller assembles directly.
*/
package query

/*
NodeSearchKind is the kind of one node-search descriptor (spec.md section
6).
*/
type NodeSearchKind int

const (
	ExactKey NodeSearchKind = iota
	ExactValue
	RegexValue
)

/*
NodeSearch is one ordered node-search descriptor.
*/
type NodeSearch struct {
	Kind NodeSearchKind

	// NS is the optional namespace qualifier; nil means "any namespace".
	NS   *string
	Name string

	// Val is used by ExactValue.
	Val string

	// Pattern is used by RegexValue.
	Pattern string

	/*
		WrapAsNodeMatch rewrites every match's annotation field to the
		fixed (annis_ns, node_name, 0) triple meaning "the node itself"
		(spec.md section 4.4's const-anno wrapper), the shape a bare
		node reference in a query takes.
	*/
	WrapAsNodeMatch bool
}

/*
OperatorKind is the kind of one operator entry (spec.md section 6).
*/
type OperatorKind int

const (
	Precedence OperatorKind = iota
	Dominance
	Pointing
	Inclusion
	Overlap
	IdenticalCoverage
)

/*
OperatorSpec is one operator entry: {kind, lhsIdx, rhsIdx, forceNestedLoop?}
plus the kind-specific parameters spec.md section 6 lists.
*/
type OperatorSpec struct {
	Kind            OperatorKind
	LhsIdx, RhsIdx  int
	ForceNestedLoop bool

	// Min/Max bound the hop range for Precedence/Dominance/Pointing.
	Min, Max int

	// Layer/Name optionally select a specific DOMINANCE/POINTING
	// component; both empty means the unnamed default component.
	Layer, Name string

	// EdgeAnno*, set together with EdgeAnnoSet, carries a
	// dominance/pointing edge-annotation requirement.
	EdgeAnnoSet              bool
	EdgeAnnoNS, EdgeAnnoName string
	EdgeAnnoVal              string
}
