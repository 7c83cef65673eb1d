/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package corpus

import (
	"fmt"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/graphutil"
	"github.com/krotik/annisgraph/nodeid"
)

/*
UpdateKind is one kind of graph-update log record (spec.md section 6).
*/
type UpdateKind int

const (
	AddNode UpdateKind = iota
	DeleteNode
	AddNodeLabel
	DeleteNodeLabel
)

/*
UpdateRecord is one entry of the graph-update log (spec.md section 6):
{kind, nodeName, ns, name, value}. NodeName addresses nodes by their
external node_name annotation rather than by internal nodeid.ID, since the
log is meant to be replayed against a corpus whose node ids the caller
never sees.
*/
type UpdateRecord struct {
	Kind     UpdateKind
	NodeName string
	NS       string
	Name     string
	Value    string
}

/*
ApplyUpdateLog replays log against src under an exclusive writer lock,
producing a new *Image (spec.md section 5: "the graph-update API is applied
... under an exclusive writer lock at the corpus level"). Only the
annotation store is copy-on-write rebuilt; the graph registry (the per-
component edge storages) is shared by reference with src, since none of the
four record kinds mutate edges directly - spec.md section 6 only lists
node/label operations, edges are a structural concern out of this log's
scope.

Grounded on the teacher's graph.Trans ("build up operations, commit
atomically"): this applies every record to a working copy first and only
installs the result if every record succeeds, so a caller never observes a
half-applied log.
*/
func ApplyUpdateLog(src *Image, log []UpdateRecord) (*Image, error) {
	src.mutex.Lock()
	defer src.mutex.Unlock()

	work := &Image{
		Generation: mustNewUUID(),
		Pool:       src.Pool,
		Annos:      cloneStore(src.Annos),
		Graph:      src.Graph,
		Reserved:   src.Reserved,
	}

	for _, rec := range log {
		if err := applyRecord(work, rec); err != nil {
			return nil, err
		}
	}

	work.Annos.RecomputeStatistics()

	return work, nil
}

/*
cloneStore rebuilds an annostore.Store with the same entries as src, giving
ApplyUpdateLog a private copy to mutate without touching src (copy-on-write
at the annotation-store level).
*/
func cloneStore(src *annostore.Store) *annostore.Store {
	dst := annostore.New()

	for _, key := range src.DistinctKeys() {
		for _, e := range src.EntriesForKey(key) {
			dst.Add(e.Node, e.Anno)
		}
	}

	return dst
}

func applyRecord(img *Image, rec UpdateRecord) error {
	switch rec.Kind {
	case AddNode:
		return applyAddNode(img, rec)
	case DeleteNode:
		return applyDeleteNode(img, rec)
	case AddNodeLabel:
		return applyAddNodeLabel(img, rec)
	case DeleteNodeLabel:
		return applyDeleteNodeLabel(img, rec)
	}
	return &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("unknown update kind %d", rec.Kind)}
}

func applyAddNode(img *Image, rec UpdateRecord) error {
	if _, ok := resolveNodeName(img, rec.NodeName); ok {
		return &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("node %q already exists", rec.NodeName)}
	}

	id := img.Annos.NextFreeNodeID()
	img.Annos.Add(id, annostore.Annotation{
		NS:   img.Reserved.NS,
		Name: img.Reserved.NodeName,
		Val:  img.Pool.Add(rec.NodeName),
	})

	return nil
}

func applyDeleteNode(img *Image, rec UpdateRecord) error {
	id, ok := resolveNodeName(img, rec.NodeName)
	if !ok {
		return &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("node %q does not exist", rec.NodeName)}
	}

	cascadeDeleteNode(img, id)

	return nil
}

func applyAddNodeLabel(img *Image, rec UpdateRecord) error {
	id, ok := resolveNodeName(img, rec.NodeName)
	if !ok {
		return &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("node %q does not exist", rec.NodeName)}
	}

	img.Annos.Add(id, annostore.Annotation{
		NS:   img.Pool.Add(rec.NS),
		Name: img.Pool.Add(rec.Name),
		Val:  img.Pool.Add(rec.Value),
	})

	return nil
}

func applyDeleteNodeLabel(img *Image, rec UpdateRecord) error {
	id, ok := resolveNodeName(img, rec.NodeName)
	if !ok {
		return &graphutil.GraphError{Type: graphutil.ErrInvalidQuery, Detail: fmt.Sprintf("node %q does not exist", rec.NodeName)}
	}

	img.Annos.Delete(id, annostore.Key{NS: img.Pool.Add(rec.NS), Name: img.Pool.Add(rec.Name)})

	return nil
}

/*
resolveNodeName looks up the internal node id carrying node_name==name,
returning ok=false if no such node exists.
*/
func resolveNodeName(img *Image, name string) (nodeid.ID, bool) {
	val, ok := img.Pool.FindID(name)
	if !ok {
		return 0, false
	}

	key := annostore.Key{NS: img.Reserved.NS, Name: img.Reserved.NodeName}
	set := img.Annos.ValuesInRange(key, val, val)
	if set.Len() == 0 {
		return 0, false
	}

	return set.Iterator().Next(), true
}
