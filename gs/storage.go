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
Package gs is the pluggable per-component graph-storage layer (spec.md
sections 3 and 4.3). Every (type, layer, name) component of the corpus gets
its own Storage implementation, chosen by a heuristic in Registry from
component statistics (spec.md section 4.4, module 4).

The interface shape is adapted from the teacher's
graph/graphstorage.Storage, which modeled "one storage for the whole
manager"; here it is narrowed to "one storage per component" and the
disk-backed implementation is dropped entirely (spec.md explicitly treats
persistence as a simple snapshot, not a disk-resident store - see
DESIGN.md).
*/
package gs

import (
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/stringpool"
)

/*
ComponentType partitions the edge multigraph (spec.md section 3).
*/
type ComponentType int

const (
	Coverage ComponentType = iota
	Dominance
	Pointing
	Ordering
	LeftToken
	RightToken
)

func (t ComponentType) String() string {
	switch t {
	case Coverage:
		return "COVERAGE"
	case Dominance:
		return "DOMINANCE"
	case Pointing:
		return "POINTING"
	case Ordering:
		return "ORDERING"
	case LeftToken:
		return "LEFT_TOKEN"
	case RightToken:
		return "RIGHT_TOKEN"
	}
	return "UNKNOWN"
}

/*
Component identifies one partition of the edge multigraph.
*/
type Component struct {
	Type  ComponentType
	Layer stringpool.ID
	Name  stringpool.ID
}

/*
Statistics summarizes the shape of one component's edges, used by the
planner for selectivity estimates and by Registry for back-end selection.
*/
type Statistics struct {
	NodesWithOutgoing int
	AvgFanOut         float64
	MaxFanOut         int
	MaxDepth          int
	Cyclic            bool
	RootedTree        bool
	DFSVisitRatio     float64
	Valid             bool
}

/*
NodeIterator is a lazy, duplicate-free sequence of node ids, the shape used
by FindConnected and Outgoing lazy consumers.
*/
type NodeIterator interface {
	HasNext() bool
	Next() nodeid.ID
}

/*
sliceIterator adapts a materialized, already-deduplicated []nodeid.ID to the
NodeIterator interface. Several back-ends build their FindConnected result
incrementally in a nodeid.Set and then hand out a sliceIterator over it.
*/
type sliceIterator struct {
	ids []nodeid.ID
	pos int
}

func newSliceIterator(ids []nodeid.ID) *sliceIterator {
	return &sliceIterator{ids: ids}
}

func (it *sliceIterator) HasNext() bool { return it.pos < len(it.ids) }

func (it *sliceIterator) Next() nodeid.ID {
	v := it.ids[it.pos]
	it.pos++
	return v
}

/*
Storage is the per-component graph-storage contract (spec.md section 3).
*/
type Storage interface {
	/*
		BackendName identifies which concrete representation this is
		("adjacency", "linear-8/16/32", "prepost-<order>/<level>",
		"coverage"), used by Registry bookkeeping and the snapshot
		manifest.
	*/
	BackendName() string

	/*
		IsConnected reports whether tgt is reachable from src by a path
		of length in [min, max].
	*/
	IsConnected(src, tgt nodeid.ID, min, max int) bool

	/*
		Distance returns the shortest path length from src to tgt, or
		ok=false if tgt is unreachable.
	*/
	Distance(src, tgt nodeid.ID) (dist int, ok bool)

	/*
		FindConnected returns a lazy, duplicate-free sequence of every
		node reachable from src by a path of length in [min, max].
	*/
	FindConnected(src nodeid.ID, min, max int) NodeIterator

	/*
		Outgoing returns every direct successor of src.
	*/
	Outgoing(src nodeid.ID) []nodeid.ID

	/*
		EdgeAnnotations returns the annotations stored on the edge(s)
		from src to tgt.
	*/
	EdgeAnnotations(src, tgt nodeid.ID) []annostore.Annotation

	/*
		Statistics returns the cached structural statistics of this
		component. Call RecomputeStatistics first to refresh them.
	*/
	Statistics() Statistics

	/*
		RecomputeStatistics rebuilds the structural statistics (root
		finding, DFS depth/cycle detection, fan-out).
	*/
	RecomputeStatistics()

	/*
		AddEdge inserts one edge, used during corpus load and graph
		update (outside query execution - spec.md section 5).
	*/
	AddEdge(src, tgt nodeid.ID, annos []annostore.Annotation)

	/*
		RemoveEdge deletes one edge, if present.
	*/
	RemoveEdge(src, tgt nodeid.ID)

	/*
		Edges enumerates every edge currently stored, used by
		Registry's back-end conversion and by snapshot save/restore.
		Order is unspecified.
	*/
	Edges() []Edge
}

/*
Edge is one (src, tgt, annotations) triple, the unit Edges()/AddEdge()
exchange.
*/
type Edge struct {
	Src, Tgt nodeid.ID
	Annos    []annostore.Annotation
}
