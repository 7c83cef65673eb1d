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
Package nodeid defines the node id type shared by every layer of the query
engine (spec.md section 3: "a node id is a 32-bit unsigned integer dense over
a corpus") and a Set built on github.com/RoaringBitmap/roaring/v2, which is
the natural fit for a dense 32-bit id space and is used everywhere a
collection of node ids needs to be built, unioned, intersected or iterated:
DFS visited sets, coverage spans, candidate sets materialized by seed and
index joins.
*/
package nodeid

import (
	roaring "github.com/RoaringBitmap/roaring/v2"
)

/*
ID is a node identifier.
*/
type ID uint32

/*
Set is an ordered set of node ids.
*/
type Set struct {
	bm *roaring.Bitmap
}

/*
NewSet creates an empty Set.
*/
func NewSet() *Set {
	return &Set{bm: roaring.New()}
}

/*
NewSetOf creates a Set containing the given ids.
*/
func NewSetOf(ids ...ID) *Set {
	s := NewSet()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

/*
Add inserts id into the set.
*/
func (s *Set) Add(id ID) {
	s.bm.Add(uint32(id))
}

/*
Remove deletes id from the set.
*/
func (s *Set) Remove(id ID) {
	s.bm.Remove(uint32(id))
}

/*
Contains returns whether id is a member of the set.
*/
func (s *Set) Contains(id ID) bool {
	return s.bm.Contains(uint32(id))
}

/*
Len returns the number of members.
*/
func (s *Set) Len() int {
	return int(s.bm.GetCardinality())
}

/*
Union returns a new set containing the members of s and other.
*/
func (s *Set) Union(other *Set) *Set {
	return &Set{bm: roaring.Or(s.bm, other.bm)}
}

/*
UnionInPlace adds every member of other to s.
*/
func (s *Set) UnionInPlace(other *Set) {
	s.bm.Or(other.bm)
}

/*
Intersect returns a new set containing the members present in both s and
other.
*/
func (s *Set) Intersect(other *Set) *Set {
	return &Set{bm: roaring.And(s.bm, other.bm)}
}

/*
ToSlice returns the set members in ascending order.
*/
func (s *Set) ToSlice() []ID {
	raw := s.bm.ToArray()
	out := make([]ID, len(raw))
	for i, v := range raw {
		out[i] = ID(v)
	}
	return out
}

/*
Iterator returns a forward iterator over the set members in ascending order.
*/
func (s *Set) Iterator() *Iterator {
	return &Iterator{it: s.bm.Iterator()}
}

/*
Iterator is a lazy ascending iterator over a Set.
*/
type Iterator struct {
	it roaring.IntPeekable
}

/*
HasNext returns whether there is another member to visit.
*/
func (it *Iterator) HasNext() bool {
	return it.it.HasNext()
}

/*
Next returns the next member.
*/
func (it *Iterator) Next() ID {
	return ID(it.it.Next())
}
