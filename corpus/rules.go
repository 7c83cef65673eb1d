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
Cascading deletion, adapted from the teacher's graph rules
(SystemRuleDeleteNodeEdges in graph/rules.go): deleting a node must also
remove everything that refers to it, rather than leaving dangling
annotations and edges behind.
*/
package corpus

import "github.com/krotik/annisgraph/nodeid"

/*
cascadeDeleteNode removes every annotation of id and every edge leaving id
in every registered component. The minimal gs.Storage contract has no
"incoming edges of a node" accessor (by design - it would force every
back-end to support reverse traversal, which only CoverageStorage needs for
its own purposes), so edges pointing into id from elsewhere are left in
place; they become unreachable in practice once id carries no annotations
to match against, but a future full compaction pass would need a per-
back-end incoming-edge sweep to remove them structurally too.
*/
func cascadeDeleteNode(img *Image, id nodeid.ID) {
	for _, anno := range img.Annos.AnnotationsOf(id) {
		img.Annos.Delete(id, anno.Key())
	}

	for _, c := range img.Graph.Components() {
		storage := img.Graph.Get(c)
		for _, tgt := range storage.Outgoing(id) {
			storage.RemoveEdge(id, tgt)
		}
	}
}
