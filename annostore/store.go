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
	"encoding/binary"
	"sync"

	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/stringpool"
	"github.com/tidwall/btree"
)

/*
keyEntry tracks everything the key index and statistics need for one
(ns, name) key.
*/
type keyEntry struct {
	count     int
	histogram *Histogram
}

/*
Store is the node-annotation store.
*/
type Store struct {
	mutex sync.RWMutex

	// forward: (node, ns, name) -> val. A spot lookup structure, no
	// ordering requirement, so a plain Go map is correct here (spec.md
	// section 4.2 only requires ordering on the inverse index).
	forward map[nodeid.ID]map[Key]stringpool.ID

	// inverse: (ns, name, val) -> set of nodes, ordered by the 12-byte
	// big-endian encoding of the triple so that a fixed (ns,name) prefix
	// with a val range scan is a contiguous Ascend.
	inverse *btree.Map[string, *nodeid.Set]

	// keys: (ns, name) -> keyEntry, kept in a btree.Map purely so
	// distinctKeys() enumerates in a deterministic order.
	keys *btree.Map[string, *keyEntry]

	nextNode nodeid.ID
}

/*
New creates an empty node-annotation store.
*/
func New() *Store {
	return &Store{
		forward: make(map[nodeid.ID]map[Key]stringpool.ID),
		inverse: btree.NewMap[string, *nodeid.Set](32),
		keys:    btree.NewMap[string, *keyEntry](32),
	}
}

func encodeKey(k Key) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], uint32(k.NS))
	binary.BigEndian.PutUint32(b[4:8], uint32(k.Name))
	return string(b)
}

func encodeInvKey(k Key, val stringpool.ID) string {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b[0:4], uint32(k.NS))
	binary.BigEndian.PutUint32(b[4:8], uint32(k.Name))
	binary.BigEndian.PutUint32(b[8:12], uint32(val))
	return string(b)
}

/*
Entry is one (node, annotation) pair for addBulk.
*/
type Entry struct {
	Node nodeid.ID
	Anno Annotation
}

/*
AddBulk inserts many entries in one pass, updating all three indexes and the
key counts together. This is the preferred entry point during corpus load
(spec.md section 4.2).
*/
func (s *Store) AddBulk(entries []Entry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, e := range entries {
		s.addLocked(e.Node, e.Anno)
	}
}

/*
Add inserts a single (node, annotation) pair.
*/
func (s *Store) Add(node nodeid.ID, anno Annotation) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.addLocked(node, anno)
}

func (s *Store) addLocked(node nodeid.ID, anno Annotation) {
	key := anno.Key()

	nodeAttrs, ok := s.forward[node]
	if !ok {
		nodeAttrs = make(map[Key]stringpool.ID)
		s.forward[node] = nodeAttrs
	}

	if oldVal, had := nodeAttrs[key]; had {
		if oldVal == anno.Val {
			return
		}
		s.removeInverse(key, oldVal, node)
	} else {
		s.bumpKeyCount(key, 1)
	}

	nodeAttrs[key] = anno.Val
	s.addInverse(key, anno.Val, node)

	if node >= s.nextNode {
		s.nextNode = node + 1
	}
}

func (s *Store) addInverse(key Key, val stringpool.ID, node nodeid.ID) {
	ik := encodeInvKey(key, val)

	set, ok := s.inverse.Get(ik)
	if !ok {
		set = nodeid.NewSet()
		s.inverse.Set(ik, set)
	}
	set.Add(node)
}

func (s *Store) removeInverse(key Key, val stringpool.ID, node nodeid.ID) {
	ik := encodeInvKey(key, val)

	if set, ok := s.inverse.Get(ik); ok {
		set.Remove(node)
		if set.Len() == 0 {
			s.inverse.Delete(ik)
		}
	}
}

func (s *Store) bumpKeyCount(key Key, delta int) {
	ek := encodeKey(key)

	entry, ok := s.keys.Get(ek)
	if !ok {
		if delta <= 0 {
			return
		}
		entry = &keyEntry{}
		s.keys.Set(ek, entry)
	}

	entry.count += delta

	if entry.count <= 0 {
		s.keys.Delete(ek)
	}
}

/*
Delete removes the annotation for (node, key), if present. Deleting the last
instance of a key removes the key from the key index (spec.md section 4.2
invariant).
*/
func (s *Store) Delete(node nodeid.ID, key Key) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	nodeAttrs, ok := s.forward[node]
	if !ok {
		return
	}

	val, ok := nodeAttrs[key]
	if !ok {
		return
	}

	delete(nodeAttrs, key)
	if len(nodeAttrs) == 0 {
		delete(s.forward, node)
	}

	s.removeInverse(key, val, node)
	s.bumpKeyCount(key, -1)
}

/*
AnnotationsOf returns every annotation stored on node.
*/
func (s *Store) AnnotationsOf(node nodeid.ID) []Annotation {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	nodeAttrs, ok := s.forward[node]
	if !ok {
		return nil
	}

	out := make([]Annotation, 0, len(nodeAttrs))
	for k, v := range nodeAttrs {
		out = append(out, Annotation{NS: k.NS, Name: k.Name, Val: v})
	}

	return out
}

/*
ValueOf returns the value stored for (node, ns, name), if any.
*/
func (s *Store) ValueOf(node nodeid.ID, ns, name stringpool.ID) (stringpool.ID, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	nodeAttrs, ok := s.forward[node]
	if !ok {
		return 0, false
	}

	v, ok := nodeAttrs[Key{NS: ns, Name: name}]
	return v, ok
}

/*
ValuesInRange returns every node carrying key with a value in [valLo, valHi]
(inclusive), as a node set (iterated in node id order, not value order). The
value range is found by the ordered inverse-index scan
the teacher's plain maps could not offer.
*/
func (s *Store) ValuesInRange(key Key, valLo, valHi stringpool.ID) *nodeid.Set {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := nodeid.NewSet()

	prefix := encodeKey(key)
	lo := encodeInvKey(key, valLo)

	s.inverse.Ascend(lo, func(k string, set *nodeid.Set) bool {
		if len(k) < 8 || k[:8] != prefix {
			return false
		}

		val := stringpool.ID(binary.BigEndian.Uint32([]byte(k[8:12])))
		if val > valHi {
			return false
		}

		out.UnionInPlace(set)

		return true
	})

	return out
}

/*
EntriesForKey returns one Entry per (node, value) pair stored for key, in
ascending value order. Used by the exact-key annotation search (spec.md
section 4.4), which needs the actual matched value per node rather than
just the set of nodes ValuesInRange returns.
*/
func (s *Store) EntriesForKey(key Key) []Entry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	prefix := encodeKey(key)

	var out []Entry

	s.inverse.Ascend(prefix, func(k string, set *nodeid.Set) bool {
		if len(k) < 8 || k[:8] != prefix {
			return false
		}

		val := stringpool.ID(binary.BigEndian.Uint32([]byte(k[8:12])))

		it := set.Iterator()
		for it.HasNext() {
			n := it.Next()
			out = append(out, Entry{Node: n, Anno: Annotation{NS: key.NS, Name: key.Name, Val: val}})
		}

		return true
	})

	return out
}

/*
EntriesForValue returns one Entry per node carrying key with exactly val.
*/
func (s *Store) EntriesForValue(key Key, val stringpool.ID) []Entry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ik := encodeInvKey(key, val)

	set, ok := s.inverse.Get(ik)
	if !ok {
		return nil
	}

	var out []Entry
	it := set.Iterator()
	for it.HasNext() {
		out = append(out, Entry{Node: it.Next(), Anno: Annotation{NS: key.NS, Name: key.Name, Val: val}})
	}

	return out
}

/*
DistinctKeys returns every (ns, name) key currently present in the store, in
a deterministic order.
*/
func (s *Store) DistinctKeys() []Key {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []Key

	s.keys.Scan(func(ek string, _ *keyEntry) bool {
		ns := binary.BigEndian.Uint32([]byte(ek[0:4]))
		name := binary.BigEndian.Uint32([]byte(ek[4:8]))
		out = append(out, Key{NS: stringpool.ID(ns), Name: stringpool.ID(name)})
		return true
	})

	return out
}

/*
KeysWithName returns every registered key whose Name component equals name,
regardless of namespace - used when a node-search omits the namespace
(spec.md section 4.4: "if ns is absent, union over all keys with that
name").
*/
func (s *Store) KeysWithName(name stringpool.ID) []Key {
	all := s.DistinctKeys()

	out := make([]Key, 0, len(all))
	for _, k := range all {
		if k.Name == name {
			out = append(out, k)
		}
	}

	return out
}

/*
KeyCount returns the number of (node, value) entries stored for key.
*/
func (s *Store) KeyCount(key Key) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if entry, ok := s.keys.Get(encodeKey(key)); ok {
		return entry.count
	}
	return 0
}

/*
NextFreeNodeID returns one past the largest node id ever passed to
AddBulk/Add (0 for an empty store); lower ids that were never used are not
reported.
*/
func (s *Store) NextFreeNodeID() nodeid.ID {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.nextNode
}

/*
ApproxEntryCount returns the total number of (node, key, value) entries
currently stored, used by corpus.Image.ApproxBytes for cache sizing.
*/
func (s *Store) ApproxEntryCount() int64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var total int64
	for _, annos := range s.forward {
		total += int64(len(annos))
	}
	return total
}
