/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package query

import (
	"fmt"

	"github.com/krotik/annisgraph/corpus"
	"github.com/krotik/annisgraph/exec"
	"github.com/krotik/annisgraph/nodeid"
)

/*
Count implements the public count(corpora, query) -> u64 API (spec.md
section 6): the total number of matching tuples across every corpus.
*/
func Count(imgs []*corpus.Image, nodeDescs []NodeSearch, opDescs []OperatorSpec) (uint64, error) {
	var total uint64

	for _, img := range imgs {
		result, err := Build(img, nodeDescs, opDescs)
		if err != nil {
			return 0, err
		}

		for {
			_, ok := result.Root.Next()
			if !ok {
				break
			}
			total++
		}
	}

	return total, nil
}

/*
CountExtra implements countExtra(corpora, query) -> {matches, documents}:
matches is the same count Count returns; documents is the number of
distinct (annis_ns, document) values on the first match node of each tuple,
counted across every corpus (spec.md section 6).
*/
func CountExtra(imgs []*corpus.Image, nodeDescs []NodeSearch, opDescs []OperatorSpec) (matches uint64, documents uint64, err error) {
	seen := make(map[string]struct{})

	for _, img := range imgs {
		result, buildErr := Build(img, nodeDescs, opDescs)
		if buildErr != nil {
			return 0, 0, buildErr
		}

		for {
			tup, ok := result.Root.Next()
			if !ok {
				break
			}
			matches++

			if doc, ok := documentOf(img, firstBound(tup)); ok {
				seen[fmt.Sprintf("%p:%s", img, doc)] = struct{}{}
			}
		}
	}

	return matches, uint64(len(seen)), nil
}

/*
Find implements find(corpora, query, offset, limit) -> list<string>: each
result string is a Salt-like URI built from every matched node's document
and node_name annotations, in tuple order, separated by "," and prefixed
per-node with the node-search's annotation qualifier when the match was not
a bare node reference (spec.md section 6).
*/
func Find(imgs []*corpus.Image, nodeDescs []NodeSearch, opDescs []OperatorSpec, offset, limit int) ([]string, error) {
	var out []string
	skipped := 0

	for _, img := range imgs {
		result, err := Build(img, nodeDescs, opDescs)
		if err != nil {
			return nil, err
		}

		for {
			tup, ok := result.Root.Next()
			if !ok {
				break
			}

			if skipped < offset {
				skipped++
				continue
			}
			if limit >= 0 && len(out) >= limit {
				return out, nil
			}

			out = append(out, tupleURI(img, nodeDescs, tup))
		}
	}

	return out, nil
}

func firstBound(tup exec.Tuple) nodeid.ID {
	for _, n := range tup {
		if n != exec.Unbound {
			return n
		}
	}
	return exec.Unbound
}

func documentOf(img *corpus.Image, node nodeid.ID) (string, bool) {
	if node == exec.Unbound {
		return "", false
	}

	val, ok := img.Annos.ValueOf(node, img.Reserved.NS, img.Reserved.Document)
	if !ok {
		return "", false
	}

	return img.Pool.MustGet(val), true
}

func tupleURI(img *corpus.Image, nodeDescs []NodeSearch, tup exec.Tuple) string {
	parts := make([]string, 0, len(tup))

	for i, node := range tup {
		if node == exec.Unbound {
			continue
		}
		parts = append(parts, nodeURI(img, nodeDescs[i], node))
	}

	uri := ""
	for i, p := range parts {
		if i > 0 {
			uri += ","
		}
		uri += p
	}
	return uri
}

func nodeURI(img *corpus.Image, desc NodeSearch, node nodeid.ID) string {
	doc, _ := documentOf(img, node)

	name := ""
	if val, ok := img.Annos.ValueOf(node, img.Reserved.NS, img.Reserved.NodeName); ok {
		name = img.Pool.MustGet(val)
	}

	salt := fmt.Sprintf("salt:/%s/%s", doc, name)

	if desc.WrapAsNodeMatch {
		return salt
	}

	ns := ""
	if desc.NS != nil {
		ns = *desc.NS
	}
	return fmt.Sprintf("%s:%s::%s", ns, desc.Name, salt)
}
