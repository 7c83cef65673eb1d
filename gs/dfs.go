/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package gs

import (
	"github.com/krotik/annisgraph/nodeid"
)

/*
outgoingFunc fetches the direct successors of a node; every DFS helper below
is parameterized over it so it works the same for any back-end.
*/
type outgoingFunc func(nodeid.ID) []nodeid.ID

/*
dfsFrame is one stack frame of an iterative DFS.
*/
type dfsFrame struct {
	node     nodeid.ID
	children []nodeid.ID
	idx      int
	distance int
}

/*
CycleSafeDFS is a depth-first traversal that refuses to re-enter a node
already on the current path (so it never infinite-loops on a cyclic graph),
matching spec.md section 4.3's CycleSafeDFS requirement. nextDFS-style usage:
call Next() until ok is false.
*/
type CycleSafeDFS struct {
	outgoing outgoingFunc
	stack    []dfsFrame
	onPath   map[nodeid.ID]bool
	minDist  int
	maxDist  int
	backEdge bool
}

/*
NewCycleSafeDFS starts a cycle-safe DFS from src, yielding nodes reached at a
distance in [minDist, maxDist].
*/
func NewCycleSafeDFS(outgoing outgoingFunc, src nodeid.ID, minDist, maxDist int) *CycleSafeDFS {
	d := &CycleSafeDFS{
		outgoing: outgoing,
		onPath:   map[nodeid.ID]bool{src: true},
		minDist:  minDist,
		maxDist:  maxDist,
	}
	d.stack = append(d.stack, dfsFrame{node: src, children: outgoing(src), distance: 0})
	return d
}

/*
NextDFS advances the traversal and returns (node, distance, found). found is
false once the traversal is exhausted.
*/
func (d *CycleSafeDFS) NextDFS() (nodeid.ID, int, bool) {
	for len(d.stack) > 0 {
		top := &d.stack[len(d.stack)-1]

		if top.idx >= len(top.children) {
			delete(d.onPath, top.node)
			d.stack = d.stack[:len(d.stack)-1]
			continue
		}

		child := top.children[top.idx]
		top.idx++

		if d.onPath[child] {
			d.backEdge = true
			continue // would re-enter the current path: cyclic, skip
		}

		childDist := top.distance + 1

		if childDist > d.maxDist {
			continue
		}

		d.onPath[child] = true
		d.stack = append(d.stack, dfsFrame{node: child, children: d.outgoing(child), distance: childDist})

		if childDist >= d.minDist {
			return child, childDist, true
		}

		// below minDist: keep descending without yielding
		return d.NextDFS()
	}

	return 0, 0, false
}

/*
HasBackEdge reports whether this traversal has so far encountered an edge
back into a node still on the current path - a cycle reachable from the
traversal's root, even when the root itself is never re-entered directly.
*/
func (d *CycleSafeDFS) HasBackEdge() bool {
	return d.backEdge
}

/*
UniqueDFS is a depth-first traversal that deduplicates across the entire
traversal (not just the current path), so a node reachable by two different
routes is only yielded once - the semantics spec.md section 4.3 calls
UniqueDFS and the semantics FindConnected needs.
*/
type UniqueDFS struct {
	outgoing outgoingFunc
	stack    []dfsFrame
	seen     *nodeid.Set
	minDist  int
	maxDist  int
}

/*
NewUniqueDFS starts a dedup-across-traversal DFS from src.
*/
func NewUniqueDFS(outgoing outgoingFunc, src nodeid.ID, minDist, maxDist int) *UniqueDFS {
	d := &UniqueDFS{
		outgoing: outgoing,
		seen:     nodeid.NewSetOf(src),
		minDist:  minDist,
		maxDist:  maxDist,
	}
	d.stack = append(d.stack, dfsFrame{node: src, children: outgoing(src), distance: 0})
	return d
}

/*
NextDFS advances the traversal and returns (node, distance, found).
*/
func (d *UniqueDFS) NextDFS() (nodeid.ID, int, bool) {
	for len(d.stack) > 0 {
		top := &d.stack[len(d.stack)-1]

		if top.idx >= len(top.children) {
			d.stack = d.stack[:len(d.stack)-1]
			continue
		}

		child := top.children[top.idx]
		top.idx++

		childDist := top.distance + 1

		if d.seen.Contains(child) || childDist > d.maxDist {
			continue
		}

		d.seen.Add(child)
		d.stack = append(d.stack, dfsFrame{node: child, children: d.outgoing(child), distance: childDist})

		if childDist >= d.minDist {
			return child, childDist, true
		}

		return d.NextDFS()
	}

	return 0, 0, false
}

/*
isConnectedViaDFS is the generic (fallback) reachability check built on top
of CycleSafeDFS: does any simple path from src of length in [min,max] end at
tgt. Every path is explored, so a node first reached by a longer path is
still found via a shorter one.
*/
func isConnectedViaDFS(outgoing outgoingFunc, src, tgt nodeid.ID, minHops, maxHops int) bool {
	if minHops <= 0 && src == tgt {
		return true
	}

	dfs := NewCycleSafeDFS(outgoing, src, max(minHops, 1), max(maxHops, 1))
	for {
		n, _, ok := dfs.NextDFS()
		if !ok {
			return false
		}
		if n == tgt {
			return true
		}
	}
}

/*
distanceViaDFS is the generic (fallback) BFS shortest-path computation.
*/
func distanceViaDFS(outgoing outgoingFunc, src, tgt nodeid.ID) (int, bool) {
	if src == tgt {
		return 0, true
	}

	visited := nodeid.NewSetOf(src)
	frontier := []nodeid.ID{src}
	dist := 0

	for len(frontier) > 0 {
		dist++
		var next []nodeid.ID

		for _, n := range frontier {
			for _, c := range outgoing(n) {
				if c == tgt {
					return dist, true
				}
				if !visited.Contains(c) {
					visited.Add(c)
					next = append(next, c)
				}
			}
		}

		frontier = next
	}

	return 0, false
}

/*
findConnectedViaDFS collects every node reachable from src in [min,max] hops
using UniqueDFS, for back-ends (adjacency) that have no cheaper algorithm.
*/
func findConnectedViaDFS(outgoing outgoingFunc, src nodeid.ID, minHops, maxHops int) NodeIterator {
	var out []nodeid.ID

	dfs := NewUniqueDFS(outgoing, src, max(minHops, 0), max(maxHops, 0))
	for {
		n, _, ok := dfs.NextDFS()
		if !ok {
			break
		}
		out = append(out, n)
	}

	return newSliceIterator(out)
}

/*
calculateStatistics finds roots (nodes that are never a target), runs a
cycle-safe DFS from each, and derives the aggregate shape stats spec.md
section 4.3 describes: cyclic, rootedTree, avgFanOut, maxDepth,
dfsVisitRatio.
*/
func calculateStatistics(nodes []nodeid.ID, outgoing outgoingFunc, inDegree func(nodeid.ID) int) Statistics {
	if len(nodes) == 0 {
		return Statistics{Valid: true}
	}

	var roots []nodeid.ID
	rootedTree := true
	totalNodes := 0
	nodesWithOutgoing := 0
	sumFanOut := 0
	maxFanOut := 0

	for _, n := range nodes {
		totalNodes++
		fo := len(outgoing(n))
		if fo > 0 {
			nodesWithOutgoing++
			sumFanOut += fo
			if fo > maxFanOut {
				maxFanOut = fo
			}
		}
		if inDegree(n) == 0 {
			roots = append(roots, n)
		}
		if inDegree(n) > 1 {
			rootedTree = false
		}
	}

	// No roots at all (every node has an incoming edge) means every
	// component is itself a cycle.
	cyclic := len(roots) == 0 && nodesWithOutgoing > 0

	maxDepth := 0
	visited := nodeid.NewSet()

	for _, r := range roots {
		dfs := NewCycleSafeDFS(outgoing, r, 0, 1<<30)
		visited.Add(r)

		for {
			n, dist, ok := dfs.NextDFS()
			if !ok {
				break
			}
			visited.Add(n)
			if dist > maxDepth {
				maxDepth = dist
			}
		}

		// A component can have roots and still contain a cycle reachable
		// from one of them (root -> A -> B -> A); CycleSafeDFS detects the
		// back-edge without ever re-entering the root itself.
		if dfs.HasBackEdge() {
			cyclic = true
		}
	}

	avgFanOut := 0.0
	if nodesWithOutgoing > 0 {
		avgFanOut = float64(sumFanOut) / float64(nodesWithOutgoing)
	}

	visitRatio := 0.0
	if totalNodes > 0 {
		visitRatio = float64(visited.Len()) / float64(totalNodes)
	}

	return Statistics{
		NodesWithOutgoing: nodesWithOutgoing,
		AvgFanOut:         avgFanOut,
		MaxFanOut:         maxFanOut,
		MaxDepth:          maxDepth,
		Cyclic:            cyclic,
		RootedTree:        rootedTree,
		DFSVisitRatio:     visitRatio,
		Valid:             true,
	}
}
