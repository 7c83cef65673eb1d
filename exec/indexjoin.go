/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package exec

import (
	"context"

	"github.com/krotik/annisgraph/config"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/op"
	"golang.org/x/sync/semaphore"
)

/*
RetrieveFunc is the pure per-left computation an index join submits to the
(optional) worker pool: lhs node id in, candidate node ids out. The plan
builds one from an operator's Retrieve (see plan's retrieveFuncOf); it
applies no right-side annotation filter of its own.
*/
type RetrieveFunc func(nodeid.ID) []nodeid.ID

/*
IndexJoin is the sequential index join (spec.md section 4.7): like Seed, but
the per-left candidate computation is an arbitrary pure function rather than
a fixed valid-annotation/valid-key set.
*/
type IndexJoin struct {
	left              Executor
	leftIdx, rightIdx int
	retrieve          RetrieveFunc
	operator          op.Operator
	sameAnnoKey       bool

	leftTuple  Tuple
	haveLeft   bool
	candidates []nodeid.ID
	pos        int
}

/*
NewIndexJoin builds a sequential index join.
*/
func NewIndexJoin(left Executor, leftIdx, rightIdx int, retrieve RetrieveFunc, operator op.Operator, sameAnnoKey bool) *IndexJoin {
	return &IndexJoin{left: left, leftIdx: leftIdx, rightIdx: rightIdx, retrieve: retrieve, operator: operator, sameAnnoKey: sameAnnoKey}
}

func (j *IndexJoin) Next() (Tuple, bool) {
	for {
		if !j.haveLeft {
			t, ok := j.left.Next()
			if !ok {
				return nil, false
			}
			j.leftTuple = t
			j.haveLeft = true
			j.candidates = j.retrieve(t[j.leftIdx])
			j.pos = 0
		}

		if j.pos >= len(j.candidates) {
			j.haveLeft = false
			continue
		}

		cand := j.candidates[j.pos]
		j.pos++

		lhsNode := j.leftTuple[j.leftIdx]
		if !j.operator.Reflexive() && lhsNode == cand && j.sameAnnoKey {
			continue
		}

		out := j.leftTuple.Clone()
		out[j.rightIdx] = cand
		return out, true
	}
}

func (j *IndexJoin) Reset() {
	j.left.Reset()
	j.haveLeft = false
	j.candidates = nil
	j.pos = 0
}

/*
future is one in-flight per-lhs computation submitted to the task pool.
*/
type future struct {
	leftTuple Tuple
	result    chan []nodeid.ID
}

/*
TaskIndexJoin parallelizes IndexJoin's per-left retrieve computation across a
fixed worker pool, bounded by a prefetch window, preserving left-to-right
submission order on the output (spec.md section 5: "a bounded FIFO of
in-flight futures preserves submission order"). next blocks only when the
head of that FIFO is not yet ready.
*/
type TaskIndexJoin struct {
	left              Executor
	leftIdx, rightIdx int
	retrieve          RetrieveFunc
	operator          op.Operator
	sameAnnoKey       bool

	sem    *semaphore.Weighted
	window int

	queue      []*future
	leftDone   bool
	curTuple   Tuple
	candidates []nodeid.ID
	pos        int
}

/*
NewTaskIndexJoin builds a task-parallel index join. workers bounds how many
of this join's retrieve tasks run at once (config.TaskJoinWorkers; each join
has its own semaphore); window bounds the in-flight
FIFO (config.TaskJoinPrefetchWindow); both fall back to the configured
defaults when zero.
*/
func NewTaskIndexJoin(left Executor, leftIdx, rightIdx int, retrieve RetrieveFunc, operator op.Operator, sameAnnoKey bool, workers, window int) *TaskIndexJoin {
	if workers <= 0 {
		workers = config.TaskJoinWorkers()
	}
	if window <= 0 {
		window = int(config.Int(config.TaskJoinPrefetchWindow))
	}

	return &TaskIndexJoin{
		left: left, leftIdx: leftIdx, rightIdx: rightIdx,
		retrieve: retrieve, operator: operator, sameAnnoKey: sameAnnoKey,
		sem: semaphore.NewWeighted(int64(workers)), window: window,
	}
}

func (j *TaskIndexJoin) submit(t Tuple) *future {
	f := &future{leftTuple: t, result: make(chan []nodeid.ID, 1)}

	go func() {
		_ = j.sem.Acquire(context.Background(), 1)
		defer j.sem.Release(1)

		f.result <- j.retrieve(t[j.leftIdx])
	}()

	return f
}

func (j *TaskIndexJoin) fillQueue() {
	for !j.leftDone && len(j.queue) < j.window {
		t, ok := j.left.Next()
		if !ok {
			j.leftDone = true
			break
		}
		j.queue = append(j.queue, j.submit(t))
	}
}

func (j *TaskIndexJoin) Next() (Tuple, bool) {
	for {
		if j.pos >= len(j.candidates) {
			j.fillQueue()

			if len(j.queue) == 0 {
				return nil, false
			}

			head := j.queue[0]
			j.queue = j.queue[1:]

			j.curTuple = head.leftTuple
			j.candidates = <-head.result
			j.pos = 0

			j.fillQueue()
			continue
		}

		cand := j.candidates[j.pos]
		j.pos++

		lhsNode := j.curTuple[j.leftIdx]
		if !j.operator.Reflexive() && lhsNode == cand && j.sameAnnoKey {
			continue
		}

		out := j.curTuple.Clone()
		out[j.rightIdx] = cand
		return out, true
	}
}

func (j *TaskIndexJoin) Reset() {
	j.left.Reset()
	j.queue = nil
	j.leftDone = false
	j.candidates = nil
	j.pos = 0
}
