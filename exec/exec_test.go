package exec

import (
	"testing"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/op"
	"github.com/krotik/annisgraph/search"
	"github.com/krotik/annisgraph/stringpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
buildFixture builds three nodes (1,2,3) each carrying default_ns:pos, chained
1->2->3 in an ORDERING-shaped adjacency component, nodes 1 and 3 tagged NN
and node 2 tagged VB.
*/
func buildFixture(t *testing.T) (*annostore.Store, *stringpool.Pool, gs.Storage) {
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

func mustFind(t *testing.T, pool *stringpool.Pool, s string) stringpool.ID {
	t.Helper()
	id, ok := pool.FindID(s)
	require.True(t, ok)
	return id
}

func TestBaseRewinds(t *testing.T) {
	store, pool, _ := buildFixture(t)

	ns := mustFind(t, pool, "default_ns")
	posKey := mustFind(t, pool, "pos")
	nn := mustFind(t, pool, "NN")

	s := search.NewExactValue(store, &ns, posKey, nn)
	base := NewBase(s, 0, 1)

	var firstPass []nodeid.ID
	for {
		tup, ok := base.Next()
		if !ok {
			break
		}
		firstPass = append(firstPass, tup[0])
	}
	require.Len(t, firstPass, 2)

	base.Reset()
	count := 0
	for {
		_, ok := base.Next()
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, len(firstPass), count)
}

func TestSeedJoinMaterialized(t *testing.T) {
	store, pool, ordering := buildFixture(t)

	ns := mustFind(t, pool, "default_ns")
	posKey := mustFind(t, pool, "pos")
	nn := mustFind(t, pool, "NN")

	leftSearch := search.NewExactValue(store, &ns, posKey, nn)
	rightSearch := search.NewExactValue(store, &ns, posKey, nn)

	leftExec := NewBase(leftSearch, 0, 2)

	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	seed := NewSeed(leftExec, 0, 1, pointing, store, rightSearch.ValidAnnotations(), false)

	var tuples []Tuple
	for {
		tup, ok := seed.Next()
		if !ok {
			break
		}
		tuples = append(tuples, tup.Clone())
	}

	require.NotEmpty(t, tuples)
	for _, tup := range tuples {
		assert.NotEqual(t, Unbound, tup[0])
		assert.NotEqual(t, Unbound, tup[1])
	}
}

func TestKeySeedJoin(t *testing.T) {
	store, pool, ordering := buildFixture(t)

	ns := mustFind(t, pool, "default_ns")
	posKey := mustFind(t, pool, "pos")
	nn := mustFind(t, pool, "NN")

	leftSearch := search.NewExactValue(store, &ns, posKey, nn)
	rightSearch := search.NewExactKey(store, &ns, posKey)

	leftExec := NewBase(leftSearch, 0, 2)
	pointing := op.NewPointing(ordering, 1, 10, op.EdgeAnnoReq{}, "")

	keySeed := NewKeySeed(leftExec, 0, 1, pointing, store, rightSearch.ValidAnnotationKeys(), false)

	var tuples []Tuple
	for {
		tup, ok := keySeed.Next()
		if !ok {
			break
		}
		tuples = append(tuples, tup)
	}

	require.NotEmpty(t, tuples)
}

func TestNestedLoopPrecedence(t *testing.T) {
	_, _, ordering := buildFixture(t)

	left := &fixedExecutor{tuples: []Tuple{{1, Unbound}}}
	right := &fixedExecutor{tuples: []Tuple{{Unbound, 2}, {Unbound, 3}}}

	spans := op.NewSpans(gs.NewCoverageStorage(), gs.NewCoverageStorage(), gs.NewCoverageStorage())
	prec := op.NewPrecedence(ordering, spans, 1, 1)

	nl := NewNestedLoop(left, right, 0, 1, true, prec, false)

	tup, ok := nl.Next()
	require.True(t, ok)
	assert.Equal(t, nodeid.ID(1), tup[0])
	assert.Equal(t, nodeid.ID(2), tup[1])

	_, ok = nl.Next()
	assert.False(t, ok)
}

/*
TestNestedLoopPrecedenceSwappedOuter exercises the case that reaches the
nested-loop branch in practice: the smaller side (rhs) driving iteration as
outer. Precedence is non-commutative, so Filter must still be called
lhs-before-rhs even though outer and inner have swapped roles.
*/
func TestNestedLoopPrecedenceSwappedOuter(t *testing.T) {
	_, _, ordering := buildFixture(t)

	left := &fixedExecutor{tuples: []Tuple{{1, Unbound}}}
	right := &fixedExecutor{tuples: []Tuple{{Unbound, 2}}}

	spans := op.NewSpans(gs.NewCoverageStorage(), gs.NewCoverageStorage(), gs.NewCoverageStorage())
	prec := op.NewPrecedence(ordering, spans, 1, 1)

	// right (rhs) is passed as outer; outerIsLhs=false tells NestedLoop
	// outer plays the rhs role, so Filter(left, right) must still be used.
	nl := NewNestedLoop(right, left, 1, 0, false, prec, false)

	tup, ok := nl.Next()
	require.True(t, ok)
	assert.Equal(t, nodeid.ID(1), tup[0])
	assert.Equal(t, nodeid.ID(2), tup[1])

	_, ok = nl.Next()
	assert.False(t, ok)
}

func TestFilterSameComponent(t *testing.T) {
	_, _, ordering := buildFixture(t)

	src := &fixedExecutor{tuples: []Tuple{{1, 3}, {1, 1}}}

	spans := op.NewSpans(gs.NewCoverageStorage(), gs.NewCoverageStorage(), gs.NewCoverageStorage())
	prec := op.NewPrecedence(ordering, spans, 1, 10)
	f := NewFilter(src, 0, 1, prec, false)

	var got []Tuple
	for {
		tup, ok := f.Next()
		if !ok {
			break
		}
		got = append(got, tup)
	}

	require.Len(t, got, 1)
	assert.Equal(t, nodeid.ID(1), got[0][0])
	assert.Equal(t, nodeid.ID(3), got[0][1])
}

func TestIndexJoinAndTaskIndexJoin(t *testing.T) {
	_, _, ordering := buildFixture(t)

	retrieve := func(n nodeid.ID) []nodeid.ID {
		it := ordering.FindConnected(n, 1, 10)
		var out []nodeid.ID
		for it.HasNext() {
			out = append(out, it.Next())
		}
		return out
	}

	spans := op.NewSpans(gs.NewCoverageStorage(), gs.NewCoverageStorage(), gs.NewCoverageStorage())
	prec := op.NewPrecedence(ordering, spans, 1, 10)

	left := &fixedExecutor{tuples: []Tuple{{1, Unbound}, {2, Unbound}}}
	ij := NewIndexJoin(left, 0, 1, retrieve, prec, false)

	var seq []Tuple
	for {
		tup, ok := ij.Next()
		if !ok {
			break
		}
		seq = append(seq, tup)
	}
	require.NotEmpty(t, seq)

	leftTask := &fixedExecutor{tuples: []Tuple{{1, Unbound}, {2, Unbound}}}
	tij := NewTaskIndexJoin(leftTask, 0, 1, retrieve, prec, false, 2, 4)

	var taskSeq []Tuple
	for {
		tup, ok := tij.Next()
		if !ok {
			break
		}
		taskSeq = append(taskSeq, tup)
	}

	assert.Equal(t, len(seq), len(taskSeq))
}

type fixedExecutor struct {
	tuples []Tuple
	pos    int
}

func (f *fixedExecutor) Next() (Tuple, bool) {
	if f.pos >= len(f.tuples) {
		return nil, false
	}
	t := f.tuples[f.pos]
	f.pos++
	return t, true
}

func (f *fixedExecutor) Reset() { f.pos = 0 }
