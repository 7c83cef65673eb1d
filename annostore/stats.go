/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package annostore

import (
	"math/rand"
	"sort"

	"github.com/krotik/annisgraph/config"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/stringpool"
	"gonum.org/v1/gonum/stat"
)

/*
Histogram is an equi-count histogram over the sampled values of one
annotation key, per spec.md section 4.2: up to config.StatisticsMaxBuckets
bucket bounds computed over a uniform sub-sample of at most
config.StatisticsSampleSize values.
*/
type Histogram struct {
	Bounds     []float64 // bucket bounds, ascending
	TotalCount int       // total number of (node, value) entries for this key
}

/*
RecomputeStatistics rebuilds the histogram of every distinct key from the
current contents of the inverse index. Values are sub-sampled uniformly (via
a Fisher-Yates style shuffle) when the key has more entries than
config.StatisticsSampleSize, then bucket bounds are picked with gonum's
stat.Quantile over the sorted sample, which is the equi-count histogram
construction spec.md describes ("equi-count histogram... using integer
striding with a fractional remainder accumulator") restated as evenly spaced
quantile probabilities.
*/
func (s *Store) RecomputeStatistics() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sampleSize := int(config.Int(config.StatisticsSampleSize))
	maxBuckets := int(config.Int(config.StatisticsMaxBuckets))

	s.keys.Scan(func(ek string, entry *keyEntry) bool {
		values := s.sampleValuesLocked(ek, sampleSize)
		entry.histogram = buildHistogram(values, maxBuckets, entry.count)
		return true
	})
}

/*
sampleValuesLocked collects every distinct annotation value stored for the
key encoded as ek (by iterating the inverse index's [ek, ek+0xff) range),
weighting each value by how many nodes carry it, then sub-samples down to
sampleSize entries.
*/
func (s *Store) sampleValuesLocked(ek string, sampleSize int) []float64 {
	var pool []float64

	s.inverse.Ascend(ek, func(k string, set *nodeid.Set) bool {
		if len(k) < 8 || k[:8] != ek {
			return false
		}

		val := float64(decodeVal(k))
		for i := 0; i < set.Len(); i++ {
			pool = append(pool, val)
		}

		return true
	})

	if len(pool) <= sampleSize {
		return pool
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	return pool[:sampleSize]
}

func buildHistogram(sample []float64, maxBuckets int, totalCount int) *Histogram {
	if len(sample) == 0 || maxBuckets < 2 {
		return &Histogram{TotalCount: totalCount}
	}

	sort.Float64s(sample)

	nBounds := maxBuckets
	if nBounds > len(sample) {
		nBounds = len(sample)
	}

	bounds := make([]float64, nBounds)
	for i := 0; i < nBounds; i++ {
		p := float64(i) / float64(nBounds-1)
		if nBounds == 1 {
			p = 0
		}
		bounds[i] = stat.Quantile(p, stat.Empirical, sample, nil)
	}

	return &Histogram{Bounds: bounds, TotalCount: totalCount}
}

/*
GuessMaxCount estimates the number of (node) matches for `name` (optionally
scoped to `ns`) whose value falls in [valLo, valHi], by summing over every
matching key the fraction of histogram buckets that fall inside the range
times that key's total count (spec.md section 4.2). Returns 0 when no
matching key has a histogram yet (RecomputeStatistics was never called).
*/
func (s *Store) GuessMaxCount(ns *stringpool.ID, name stringpool.ID, valLo, valHi float64) float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total float64

	s.keys.Scan(func(ek string, entry *keyEntry) bool {
		k := decodeKey(ek)
		if k.Name != name {
			return true
		}
		if ns != nil && k.NS != *ns {
			return true
		}

		if entry.histogram == nil || len(entry.histogram.Bounds) < 2 {
			return true
		}

		matching := 0
		bounds := entry.histogram.Bounds
		for i := 0; i < len(bounds)-1; i++ {
			if bounds[i] <= valHi && bounds[i+1] >= valLo {
				matching++
			}
		}

		frac := float64(matching) / float64(len(bounds)-1)
		total += frac * float64(entry.count)

		return true
	})

	return total
}

func decodeKey(ek string) Key {
	return Key{
		NS:   stringpool.ID(be32([]byte(ek[0:4]))),
		Name: stringpool.ID(be32([]byte(ek[4:8]))),
	}
}

func decodeVal(k string) uint32 {
	return be32([]byte(k[8:12]))
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
