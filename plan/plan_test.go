package plan

import (
	"errors"
	"testing"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/exec"
	"github.com/krotik/annisgraph/graphutil"
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/op"
	"github.com/krotik/annisgraph/search"
	"github.com/krotik/annisgraph/stringpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
buildPlanFixture builds three nodes (1,2,3) chained 1->2->3 in an ORDERING
adjacency component, each carrying default_ns:pos, nodes 1 and 3 tagged NN
and node 2 tagged VB - the same shape exec's tests use.
*/
func buildPlanFixture(t *testing.T) (*annostore.Store, *stringpool.Pool, gs.Storage) {
	t.Helper()

	pool := stringpool.New()
	store := annostore.New()

	ns := pool.Add("default_ns")
	posKey := pool.Add("pos")
	nn := pool.Add("NN")
	vb := pool.Add("VB")

	store.Add(1, annostore.Annotation{NS: ns, Name: posKey, Val: nn})
	store.Add(2, annostore.Annotation{NS: ns, Name: posKey, Val: vb})
	store.Add(3, annostore.Annotation{NS: ns, Name: posKey, Val: nn})

	ordering := gs.NewAdjacencyStorage()
	ordering.AddEdge(1, 2, nil)
	ordering.AddEdge(2, 3, nil)
	ordering.RecomputeStatistics()

	return store, pool, ordering
}

func mustFindID(t *testing.T, pool *stringpool.Pool, s string) stringpool.ID {
	t.Helper()
	id, ok := pool.FindID(s)
	require.True(t, ok)
	return id
}

/*
TestBuildSeedJoin builds a two-node query - NN at position 0, VB at position
1 - joined by a pointing relation (1..10 hops), which should come out as a
seed join since the right side is still a bare base. Only 1->2 satisfies
both the pointing range and the VB annotation, so exactly one tuple should
come out the other end.
*/
func TestBuildSeedJoin(t *testing.T) {
	store, pool, ordering := buildPlanFixture(t)

	ns := mustFindID(t, pool, "default_ns")
	posKey := mustFindID(t, pool, "pos")
	nn := mustFindID(t, pool, "NN")
	vb := mustFindID(t, pool, "VB")

	nnSearch := search.NewExactValue(store, &ns, posKey, nn)
	vbSearch := search.NewExactValue(store, &ns, posKey, vb)

	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	result, err := Build(
		[]search.Search{nnSearch, vbSearch},
		[]OperatorEntry{{Op: pointing, LhsIdx: 0, RhsIdx: 1, SameAnnoKey: false}},
		store,
	)
	require.NoError(t, err)
	require.NotNil(t, result.Root)

	_, ok := result.Root.(*exec.Seed)
	assert.True(t, ok, "expected a seed join since the right side is a bare base with a valid annotation")

	var tuples []exec.Tuple
	for {
		tup, ok := result.Root.Next()
		if !ok {
			break
		}
		tuples = append(tuples, tup.Clone())
	}

	require.Len(t, tuples, 1)
	assert.Equal(t, nodeid.ID(1), tuples[0][0])
	assert.Equal(t, nodeid.ID(2), tuples[0][1])
}

/*
TestBuildNestedLoop forces a nested-loop join (both sides already the
result of a prior merge, or ForceNestedLoop set) and checks the query
still produces the expected single match.
*/
func TestBuildNestedLoop(t *testing.T) {
	store, pool, ordering := buildPlanFixture(t)

	ns := mustFindID(t, pool, "default_ns")
	posKey := mustFindID(t, pool, "pos")
	nn := mustFindID(t, pool, "NN")
	vb := mustFindID(t, pool, "VB")

	nnSearch := search.NewExactValue(store, &ns, posKey, nn)
	vbSearch := search.NewExactValue(store, &ns, posKey, vb)

	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	result, err := Build(
		[]search.Search{nnSearch, vbSearch},
		[]OperatorEntry{{Op: pointing, LhsIdx: 0, RhsIdx: 1, ForceNestedLoop: true}},
		store,
	)
	require.NoError(t, err)

	_, ok := result.Root.(*exec.NestedLoop)
	assert.True(t, ok, "expected ForceNestedLoop to bypass seed-join selection")

	count := 0
	for {
		_, ok := result.Root.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 1, count)
}

/*
TestBuildFilterSameComponent checks that once both sides of an operator
already belong to the same component, apply folds in a Filter rather than
a join.
*/
func TestBuildFilterSameComponent(t *testing.T) {
	store, pool, ordering := buildPlanFixture(t)

	ns := mustFindID(t, pool, "default_ns")
	posKey := mustFindID(t, pool, "pos")
	nn := mustFindID(t, pool, "NN")

	aSearch := search.NewExactValue(store, &ns, posKey, nn)
	bSearch := search.NewExactValue(store, &ns, posKey, nn)

	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	result, err := Build(
		[]search.Search{aSearch, bSearch},
		[]OperatorEntry{
			{Op: pointing, LhsIdx: 0, RhsIdx: 1},
			{Op: pointing, LhsIdx: 0, RhsIdx: 1},
		},
		store,
	)
	require.NoError(t, err)

	_, ok := result.Root.(*exec.Filter)
	assert.True(t, ok, "a second operator over an already-merged pair should become a Filter")
}

/*
TestBuildDisconnectedQuery checks a three-node query with only one operator
entry - nodes 0,1 connect but node 2 never does - fails with
ErrDisconnectedQuery.
*/
func TestBuildDisconnectedQuery(t *testing.T) {
	store, pool, ordering := buildPlanFixture(t)

	ns := mustFindID(t, pool, "default_ns")
	posKey := mustFindID(t, pool, "pos")
	nn := mustFindID(t, pool, "NN")

	aSearch := search.NewExactValue(store, &ns, posKey, nn)
	bSearch := search.NewExactValue(store, &ns, posKey, nn)
	cSearch := search.NewExactValue(store, &ns, posKey, nn)

	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	_, err := Build(
		[]search.Search{aSearch, bSearch, cSearch},
		[]OperatorEntry{{Op: pointing, LhsIdx: 0, RhsIdx: 1}},
		store,
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graphutil.ErrDisconnectedQuery))
}

/*
TestBuildInvalidQuery checks an out-of-range operator index fails with
ErrInvalidQuery rather than panicking.
*/
func TestBuildInvalidQuery(t *testing.T) {
	store, pool, ordering := buildPlanFixture(t)

	ns := mustFindID(t, pool, "default_ns")
	posKey := mustFindID(t, pool, "pos")
	nn := mustFindID(t, pool, "NN")

	aSearch := search.NewExactValue(store, &ns, posKey, nn)
	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	_, err := Build(
		[]search.Search{aSearch},
		[]OperatorEntry{{Op: pointing, LhsIdx: 0, RhsIdx: 5}},
		store,
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graphutil.ErrInvalidQuery))
}
