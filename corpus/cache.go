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
	"container/list"
	"log"
	"sync"

	"github.com/krotik/annisgraph/config"
	"github.com/prometheus/client_golang/prometheus"
)

/*
Loader loads a corpus image from a path, e.g. RestoreSnapshot. Cache takes
it as a dependency so it never has to know the on-disk format itself.
*/
type Loader func(path string) (*Image, error)

/*
entry is one cache slot: the loaded image, its position in the LRU list and
its pin count (spec.md section 5: "entries currently in use are pinned via
reference counts and never evicted while referenced").
*/
type entry struct {
	path    string
	image   *Image
	pins    int
	element *list.Element
}

/*
Cache is the process-wide path->image cache (spec.md section 5). Eviction is
LRU by last access, bounded by a byte budget rather than an entry count,
since corpus images vary hugely in size.

Grounded on the teacher's datautil.MapCache (a size-bounded map with an
age/oldest-entry policy), generalized from "track one timestamp per key"
to a real doubly-linked LRU list (container/list) since Cache needs true
least-recently-used order, not just "oldest insert"; container/list is used
here because no pack dependency supplies an ordered eviction list and the
stdlib type is the correct minimal tool for it.
*/
type Cache struct {
	mutex      sync.Mutex
	entries    map[string]*entry
	order      *list.List // front = most recently used
	usedBytes  int64
	maxBytes   int64
	load       Loader
	Logger     *log.Logger
	metricHits prometheus.Counter
	metricMiss prometheus.Counter
	metricEvct prometheus.Counter
	metricSize prometheus.Gauge
}

/*
NewCache creates an empty cache with the configured byte budget
(config.DBCacheMaxBytes). Passing a non-nil registry registers the cache's
hit/miss/eviction counters and current-size gauge against it; metrics are
entirely optional and never touched on a path shared with query execution.
*/
func NewCache(registry *prometheus.Registry, load Loader) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		order:      list.New(),
		maxBytes:   config.Int(config.DBCacheMaxBytes),
		load:       load,
		Logger:     log.Default(),
		metricHits: prometheus.NewCounter(prometheus.CounterOpts{Name: "annisgraph_corpus_cache_hits_total"}),
		metricMiss: prometheus.NewCounter(prometheus.CounterOpts{Name: "annisgraph_corpus_cache_misses_total"}),
		metricEvct: prometheus.NewCounter(prometheus.CounterOpts{Name: "annisgraph_corpus_cache_evictions_total"}),
		metricSize: prometheus.NewGauge(prometheus.GaugeOpts{Name: "annisgraph_corpus_cache_bytes"}),
	}

	if registry != nil {
		registry.MustRegister(c.metricHits, c.metricMiss, c.metricEvct, c.metricSize)
	}

	return c
}

/*
Acquire returns the image loaded for path, pinning it so it cannot be
evicted until Release is called, loading it via Loader on a miss.
*/
func (c *Cache) Acquire(path string) (*Image, error) {
	c.mutex.Lock()
	if e, ok := c.entries[path]; ok {
		e.pins++
		c.order.MoveToFront(e.element)
		c.metricHits.Inc()
		c.mutex.Unlock()
		return e.image, nil
	}
	c.mutex.Unlock()

	c.metricMiss.Inc()

	img, err := c.load(path)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if e, ok := c.entries[path]; ok {
		// Raced with a concurrent Acquire for the same path: keep the
		// winner already installed, drop the redundant load.
		e.pins++
		c.order.MoveToFront(e.element)
		return e.image, nil
	}

	e := &entry{path: path, image: img, pins: 1}
	e.element = c.order.PushFront(e)
	c.entries[path] = e
	c.usedBytes += img.ApproxBytes()
	c.metricSize.Set(float64(c.usedBytes))

	c.evictLocked()

	return img, nil
}

/*
Release unpins path. Once its pin count reaches zero the entry is eligible
for eviction whenever the cache is over budget, least recently used unpinned
entry first; the eviction check runs right away, so an over-budget cache can
drop the entry just released even if it is the most recently used one.
*/
func (c *Cache) Release(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[path]
	if !ok || e.pins == 0 {
		return
	}

	e.pins--
	c.evictLocked()
}

/*
Invalidate drops path from the cache unconditionally, used after
ApplyUpdateLog installs a new generation under the same path.
*/
func (c *Cache) Invalidate(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[path]
	if !ok {
		return
	}

	c.removeLocked(e)
}

/*
evictLocked removes least-recently-used, unpinned entries from the back of
the list until the cache is back under budget. Must be called with mutex
held.
*/
func (c *Cache) evictLocked() {
	if c.maxBytes <= 0 {
		return
	}

	for c.usedBytes > c.maxBytes {
		victim := c.oldestUnpinnedLocked()
		if victim == nil {
			return // everything left is pinned; over budget is tolerated
		}
		c.removeLocked(victim)
		c.metricEvct.Inc()
	}
}

func (c *Cache) oldestUnpinnedLocked() *entry {
	for el := c.order.Back(); el != nil; el = el.Prev() {
		e := el.Value.(*entry)
		if e.pins == 0 {
			return e
		}
	}
	return nil
}

func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.element)
	delete(c.entries, e.path)
	c.usedBytes -= e.image.ApproxBytes()
	c.metricSize.Set(float64(c.usedBytes))
}

/*
Len reports how many corpus images are currently cached, test-only.
*/
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}
