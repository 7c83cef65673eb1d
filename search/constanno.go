/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package search

import (
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/nodeid"
)

/*
WrapConstAnno rewrites the annotation field of every emitted match to a
fixed annotation (typically "the node itself", spec.md section 4.4) and
deduplicates by node, since the replacement can collapse previously distinct
matches - e.g. a node with three annotations matching a key search becomes
one "node match" once the annotation field is forced to a constant.
*/
func WrapConstAnno(inner Search, constAnno annostore.Annotation) Search {
	return &constAnnoSearch{inner: inner, constAnno: constAnno, seen: nodeid.NewSet()}
}

type constAnnoSearch struct {
	inner     Search
	constAnno annostore.Annotation
	seen      *nodeid.Set
	pending   *Match
}

func (c *constAnnoSearch) fill() {
	if c.pending != nil {
		return
	}

	for c.inner.HasNext() {
		m := c.inner.Next()
		if c.seen.Contains(m.Node) {
			continue
		}
		c.seen.Add(m.Node)

		wrapped := Match{Node: m.Node, Anno: c.constAnno}
		c.pending = &wrapped
		return
	}
}

func (c *constAnnoSearch) HasNext() bool {
	c.fill()
	return c.pending != nil
}

func (c *constAnnoSearch) Reset() {
	c.inner.Reset()
	c.seen = nodeid.NewSet()
	c.pending = nil
}

func (c *constAnnoSearch) Next() Match {
	c.fill()
	m := *c.pending
	c.pending = nil
	return m
}

func (c *constAnnoSearch) EstimatedMaxCount() float64 { return c.inner.EstimatedMaxCount() }

// The node set is the inner search's, so the valid annotations/keys are too.
func (c *constAnnoSearch) ValidAnnotations() []annostore.Annotation {
	return c.inner.ValidAnnotations()
}

func (c *constAnnoSearch) ValidAnnotationKeys() []annostore.Key {
	return c.inner.ValidAnnotationKeys()
}
