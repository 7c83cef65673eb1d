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
Package stringpool interns arbitrary strings as dense 32-bit ids.

The id assignment is insertion-monotonic - add() never reassigns an id once
given out, the same discipline the teacher's graph/util.NamesManager used for
kind/role/attribute name codes. Unlike NamesManager (which only needed point
lookups), the query engine also needs an ordered range scan over the pool to
pre-filter candidate values for a regex search (spec.md section 4.1), so the
string->id side of the pool is kept in a github.com/tidwall/btree ordered map
instead of a plain Go map.

Id 0 is reserved to mean "any" and is never assigned to a real string.
*/
package stringpool

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/krotik/annisgraph/graphutil"
	"github.com/tidwall/btree"
)

/*
ID is a string pool identifier. 0 means "any".
*/
type ID uint32

/*
Pool is a bidirectional string<->id interning table.
*/
type Pool struct {
	mutex   sync.RWMutex
	forward []string         // id (minus 1) -> string
	inverse *btree.Map[string, ID] // string -> id, ordered
}

/*
New creates a new, empty string pool.
*/
func New() *Pool {
	return &Pool{
		forward: make([]string, 0, 1024),
		inverse: btree.NewMap[string, ID](32),
	}
}

/*
Add interns s and returns its id. If s is already known the existing id is
returned (add is idempotent). The first call ever made on a fresh pool
returns id 1.
*/
func (p *Pool) Add(s string) ID {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if id, ok := p.inverse.Get(s); ok {
		return id
	}

	p.forward = append(p.forward, s)
	id := ID(len(p.forward))

	p.inverse.Set(s, id)

	return id
}

/*
Get resolves an id back to its string. Returns ErrUnknownID if id is 0 or was
never assigned.
*/
func (p *Pool) Get(id ID) (string, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if id == 0 || int(id) > len(p.forward) {
		return "", &graphutil.GraphError{
			Type:   graphutil.ErrUnknownID,
			Detail: fmt.Sprintf("string id %v is not known to this pool", id),
		}
	}

	return p.forward[id-1], nil
}

/*
MustGet is like Get but panics via errorutil-style assertion on failure; it
is only safe to call with ids that are known to originate from this pool
(e.g. a reserved string id resolved once at corpus construction).
*/
func (p *Pool) MustGet(id ID) string {
	s, err := p.Get(id)
	if err != nil {
		panic(err)
	}
	return s
}

/*
FindID looks up the id of a known string without interning it.
*/
func (p *Pool) FindID(s string) (ID, bool) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.inverse.Get(s)
}

/*
Len returns the number of distinct strings interned so far.
*/
func (p *Pool) Len() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return len(p.forward)
}

/*
Strings returns every interned string in id order (index 0 is id 1), used
by snapshot save to serialize the pool deterministically.
*/
func (p *Pool) Strings() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	out := make([]string, len(p.forward))
	copy(out, p.forward)
	return out
}

/*
LoadStrings rebuilds a pool from a string list in id order (as returned by
Strings), used by snapshot restore; the first entry is re-assigned id 1,
exactly mirroring the order Add would have produced.
*/
func LoadStrings(strs []string) *Pool {
	p := New()
	for _, s := range strs {
		p.Add(s)
	}
	return p
}

/*
FindByRegex returns the ids of every interned string that fully matches
pattern. The possible-match range (see possibleMatchRange) is used to scan
only a contiguous slice of the ordered string->id index instead of every
entry.
*/
func (p *Pool) FindByRegex(pattern string) ([]ID, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}

	lo, hi := possibleMatchRange(pattern)

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	var out []ID

	p.inverse.Ascend(lo, func(key string, id ID) bool {
		if hi != "" && key >= hi {
			return false
		}
		if re.MatchString(key) {
			out = append(out, id)
		}
		return true
	})

	return out, nil
}

/*
possibleMatchRange derives a [lo, hi) prefix range that must contain every
string matching pattern, by taking the longest run of literal (non-special)
runes at the start of the pattern. This is a conservative approximation, not
a full regexp/syntax derivative analysis: it only prunes the scan when the
pattern starts with a literal prefix (e.g. "NN.*" or "foo"), which covers the
common cases spec.md section 4.1 and 4.4 describe ("pos≈NN.*"). A quantifier
that makes the last literal rune optional ("ab*", "ab?", "ab{0,1}") drops that
rune from the prefix. Patterns that start with an anchor, a class or a group,
and patterns that contain an alternation anywhere, fall back to scanning the
whole pool (lo="", hi="").
*/
func possibleMatchRange(pattern string) (lo, hi string) {
	const special = `\.+*?()|[]{}^$`

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		if c == '\\' || containsByte(special, c) {
			break
		}
		i++
	}

	if i > 0 && i < len(pattern) && containsByte("*?{", pattern[i]) {
		_, size := utf8.DecodeLastRuneInString(pattern[:i])
		i -= size
	}

	if i <= 0 || containsByte(pattern, '|') {
		return "", ""
	}

	prefix := pattern[:i]

	return prefix, incrementString(prefix)
}

func containsByte(s string, b byte) bool {
	for j := 0; j < len(s); j++ {
		if s[j] == b {
			return true
		}
	}
	return false
}

/*
incrementString returns the lexicographically smallest string that is
strictly greater than every string having s as a prefix.
*/
func incrementString(s string) string {
	b := []byte(s)

	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}

	// s was all 0xff bytes - there is no finite upper bound
	return ""
}
