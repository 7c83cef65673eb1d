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
Package graphutil contains the error type shared by every layer of the query
engine.
*/
package graphutil

import (
	"errors"
	"fmt"
)

/*
GraphError is a query-engine related error. Low-level errors should be
wrapped in a GraphError before they are returned to a caller.
*/
type GraphError struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (ge *GraphError) Error() string {
	if ge.Detail != "" {
		return fmt.Sprintf("GraphError: %v (%v)", ge.Type, ge.Detail)
	}

	return fmt.Sprintf("GraphError: %v", ge.Type)
}

/*
Is lets errors.Is match a GraphError against one of the sentinel Type values.
*/
func (ge *GraphError) Is(target error) bool {
	return ge.Type == target
}

/*
Unwrap exposes the sentinel Type so errors.Is/errors.As chains work through
a GraphError.
*/
func (ge *GraphError) Unwrap() error {
	return ge.Type
}

// Error kinds
// ===========
//
// These correspond 1:1 to spec.md section 7. UnknownId is a program-bug
// indicator: stringpool.Pool.Get returns it, and Pool.MustGet panics with it
// instead of returning it.

var (
	// ErrUnknownID is returned when a string id lookup resolves to nothing.
	ErrUnknownID = errors.New("unknown string id")

	// ErrCorpusNotFound is returned when a corpus path does not resolve to
	// a loadable image.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrCorpusCorrupt is returned when a snapshot manifest does not match
	// what its component files actually contain.
	ErrCorpusCorrupt = errors.New("corpus snapshot is corrupt")

	// ErrDisconnectedQuery is returned by the planner when operator entries
	// do not connect every query node into a single component.
	ErrDisconnectedQuery = errors.New("query graph is disconnected")

	// ErrInvalidQuery is returned for malformed operator entries (index out
	// of range, unknown operator kind).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrTimeout is returned when a deadline is exceeded during execution.
	ErrTimeout = errors.New("query execution timed out")

	// ErrAborted is returned when cooperative cancellation was requested.
	ErrAborted = errors.New("query execution aborted")

	// ErrIoError wraps snapshot load/save failures.
	ErrIoError = errors.New("snapshot io error")
)
