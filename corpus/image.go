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
Package corpus ties together the string pool, node-annotation store and
per-component graph storages into one immutable, queryable unit (spec.md
section 3: "the corpus image"), plus the process-wide cache, update-log
applier and snapshot format built on top of it (spec.md sections 5-6).

Grounded on the teacher's graph.Manager, which bundles a names database, a
node/edge attribute store and a graph storage behind one lifecycle; here the
three pieces are the already-built stringpool/annostore/gs packages and the
bundle is immutable rather than mutated in place - updates produce a new
Image (corpus/update.go) instead of writing through.
*/
package corpus

import (
	"sync"

	"github.com/google/uuid"
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/stringpool"
)

/*
Image is one immutable, fully-loaded corpus (spec.md section 5: "the corpus
image ... is immutable during query execution; concurrent read-only access
by many query threads is allowed without locking").
*/
type Image struct {
	Generation uuid.UUID
	Pool       *stringpool.Pool
	Annos      *annostore.Store
	Graph      *gs.Registry
	Reserved   Reserved

	// mutex only guards ApplyUpdateLog's "build up then swap" sequence; a
	// fully-built Image is never mutated by query execution.
	mutex sync.Mutex
}

/*
New builds an empty image: a fresh string pool and annotation store, an
empty graph registry, and resolved reserved-name ids (spec.md section 6:
"reserved string ids are resolved once at corpus-image construction").
*/
func New() *Image {
	pool := stringpool.New()

	return &Image{
		Generation: mustNewUUID(),
		Pool:       pool,
		Annos:      annostore.New(),
		Graph:      gs.NewRegistry(),
		Reserved:   resolveReserved(pool),
	}
}

func mustParseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func mustNewUUID() uuid.UUID {
	id, err := uuid.NewRandom()
	if err != nil {
		// uuid.NewRandom only fails if the system entropy source is
		// broken, which is not a condition this package can recover from.
		return uuid.Nil
	}
	return id
}

/*
ApproxBytes estimates this image's in-memory footprint, used by Cache for
its LRU memory budget (spec.md section 9: "DB cache size measurement").
Exact down to the granularity each component reports; annotation entries and
interned strings are counted at a fixed per-entry overhead rather than via
reflection, since the goal is a comparable figure, not an exact RSS sample.
*/
func (img *Image) ApproxBytes() int64 {
	const (
		stringOverhead = 48
		annoOverhead   = 32
		edgeOverhead   = 24
	)

	var total int64

	total += int64(img.Pool.Len()) * stringOverhead
	total += img.Annos.ApproxEntryCount() * annoOverhead

	for _, c := range img.Graph.Components() {
		stats := img.Graph.Get(c).Statistics()
		if stats.Valid {
			total += int64(stats.NodesWithOutgoing) * int64(stats.AvgFanOut*float64(edgeOverhead))
		}
	}

	return total
}
