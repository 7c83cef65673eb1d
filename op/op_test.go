package op

import (
	"testing"

	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
buildSpanFixture builds a small tree: sentence node 1 covers tokens 10,11,12;
word node 2 covers only token 11. 10->11->12 is the ORDERING chain.
*/
func buildSpanFixture() *Spans {
	coverage := gs.NewCoverageStorage()
	coverage.AddEdge(1, 10, nil)
	coverage.AddEdge(1, 11, nil)
	coverage.AddEdge(1, 12, nil)
	coverage.AddEdge(2, 11, nil)

	leftTok := gs.NewCoverageStorage()
	leftTok.AddEdge(1, 10, nil)
	leftTok.AddEdge(2, 11, nil)

	rightTok := gs.NewCoverageStorage()
	rightTok.AddEdge(1, 12, nil)
	rightTok.AddEdge(2, 11, nil)

	return NewSpans(coverage, leftTok, rightTok)
}

func buildOrdering() gs.Storage {
	ordering := gs.NewLinearStorage(gs.Width32)
	ordering.AddEdge(10, 11, nil)
	ordering.AddEdge(11, 12, nil)
	return ordering
}

func TestSpansLeftRightAndTokens(t *testing.T) {
	spans := buildSpanFixture()

	assert.True(t, spans.IsToken(10))
	assert.False(t, spans.IsToken(1))

	assert.Equal(t, nodeid.ID(10), spans.Left(1))
	assert.Equal(t, nodeid.ID(12), spans.Right(1))
	assert.Equal(t, nodeid.ID(11), spans.Left(2))

	toks := spans.CoveredTokens(1)
	assert.Equal(t, 3, toks.Len())
}

func TestPrecedenceFilter(t *testing.T) {
	ordering := buildOrdering()
	spans := buildSpanFixture()
	prec := NewPrecedence(ordering, spans, 1, 1)

	assert.True(t, prec.Filter(10, 11))
	assert.False(t, prec.Filter(11, 10))
	assert.False(t, prec.Filter(10, 12))

	wide := NewPrecedence(ordering, spans, 1, 10)
	assert.True(t, wide.Filter(10, 12))
}

func TestInclusionRetrieveAndFilter(t *testing.T) {
	spans := buildSpanFixture()
	inc := NewInclusion(spans)

	assert.True(t, inc.Filter(1, 2))
	assert.False(t, inc.Filter(2, 1))

	it := inc.Retrieve(1)
	var got []int
	for it.HasNext() {
		got = append(got, int(it.Next()))
	}
	assert.Contains(t, got, 2)
}

func TestOverlapFilter(t *testing.T) {
	spans := buildSpanFixture()
	ov := NewOverlap(spans)

	assert.True(t, ov.Filter(1, 2))
	assert.True(t, ov.Commutative())
}

func TestIdenticalCoverageFilter(t *testing.T) {
	spans := buildSpanFixture()
	ic := NewIdenticalCoverage(spans)

	assert.False(t, ic.Filter(1, 2))
	assert.True(t, ic.Filter(1, 1))
}

func TestDominanceUnrestrictedAndDescription(t *testing.T) {
	dom := gs.NewAdjacencyStorage()
	dom.AddEdge(1, 2, nil)
	dom.AddEdge(2, 3, nil)
	dom.RecomputeStatistics()

	unrestricted := NewDominance(dom, 1, 1<<30, EdgeAnnoReq{}, "")
	assert.True(t, unrestricted.Filter(1, 3))
	assert.False(t, unrestricted.Filter(3, 1))

	desc := unrestricted.Description()
	require.NotEmpty(t, desc)
}

func TestPointingDirectEdge(t *testing.T) {
	ptr := gs.NewAdjacencyStorage()
	ptr.AddEdge(1, 2, nil)
	ptr.RecomputeStatistics()

	p := NewPointing(ptr, 1, 1, EdgeAnnoReq{}, "dep")
	assert.True(t, p.Filter(1, 2))
	assert.False(t, p.Filter(2, 1))
}
