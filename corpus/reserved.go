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

import "github.com/krotik/annisgraph/stringpool"

/*
Reserved string constants (spec.md section 6): some benchmarks call the
reserved namespace annis4_internal, others annis_ns - this codebase keeps a
single spelling, ReservedNamespace, and resolves it (plus node_name/tok/
document) to string ids once at image construction.
*/
const (
	ReservedNamespace = "annis_ns"
	AnnoNodeName      = "node_name"
	AnnoTok           = "tok"
	AnnoDocument      = "document"
)

/*
Reserved holds the string ids of the reserved names, resolved once so
query-time code never has to re-intern them.
*/
type Reserved struct {
	NS       stringpool.ID
	NodeName stringpool.ID
	Tok      stringpool.ID
	Document stringpool.ID
}

/*
resolveReserved interns every reserved name into pool, in canonical order,
so repeated image construction is deterministic.
*/
func resolveReserved(pool *stringpool.Pool) Reserved {
	return Reserved{
		NS:       pool.Add(ReservedNamespace),
		NodeName: pool.Add(AnnoNodeName),
		Tok:      pool.Add(AnnoTok),
		Document: pool.Add(AnnoDocument),
	}
}
