package query

import (
	"testing"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/corpus"
	"github.com/krotik/annisgraph/gs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
buildQueryFixture builds a two-token corpus: tok1 (NN) precedes tok2 (VB)
directly, both carrying document/node_name annotations for Find/CountExtra.
*/
func buildQueryFixture(t *testing.T) *corpus.Image {
	t.Helper()

	img := corpus.New()

	ns := img.Pool.Add("default_ns")
	posKey := img.Pool.Add("pos")
	nn := img.Pool.Add("NN")
	vb := img.Pool.Add("VB")

	img.Annos.Add(1, annostore.Annotation{NS: ns, Name: posKey, Val: nn})
	img.Annos.Add(2, annostore.Annotation{NS: ns, Name: posKey, Val: vb})

	tok1 := img.Pool.Add("tok1")
	tok2 := img.Pool.Add("tok2")
	doc := img.Pool.Add("doc1")

	img.Annos.Add(1, annostore.Annotation{NS: img.Reserved.NS, Name: img.Reserved.NodeName, Val: tok1})
	img.Annos.Add(2, annostore.Annotation{NS: img.Reserved.NS, Name: img.Reserved.NodeName, Val: tok2})
	img.Annos.Add(1, annostore.Annotation{NS: img.Reserved.NS, Name: img.Reserved.Document, Val: doc})
	img.Annos.Add(2, annostore.Annotation{NS: img.Reserved.NS, Name: img.Reserved.Document, Val: doc})

	ordering := img.Storage(gs.Ordering, "", "")
	ordering.AddEdge(1, 2, nil)
	ordering.RecomputeStatistics()

	return img
}

func nsPtr(s string) *string { return &s }

func TestBuildAndCountPrecedence(t *testing.T) {
	img := buildQueryFixture(t)

	nodeDescs := []NodeSearch{
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "NN"},
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "VB"},
	}
	opDescs := []OperatorSpec{
		{Kind: Precedence, LhsIdx: 0, RhsIdx: 1, Min: 1, Max: 1},
	}

	count, err := Count([]*corpus.Image{img}, nodeDescs, opDescs)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestCountExtraCountsDistinctDocuments(t *testing.T) {
	img := buildQueryFixture(t)

	nodeDescs := []NodeSearch{
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "NN"},
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "VB"},
	}
	opDescs := []OperatorSpec{
		{Kind: Precedence, LhsIdx: 0, RhsIdx: 1, Min: 1, Max: 1},
	}

	matches, documents, err := CountExtra([]*corpus.Image{img}, nodeDescs, opDescs)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), matches)
	assert.Equal(t, uint64(1), documents)
}

func TestFindBuildsSaltURIs(t *testing.T) {
	img := buildQueryFixture(t)

	nodeDescs := []NodeSearch{
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "NN"},
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "VB"},
	}
	opDescs := []OperatorSpec{
		{Kind: Precedence, LhsIdx: 0, RhsIdx: 1, Min: 1, Max: 1},
	}

	results, err := Find([]*corpus.Image{img}, nodeDescs, opDescs, 0, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0], "salt:/doc1/tok1")
	assert.Contains(t, results[0], "salt:/doc1/tok2")
}

func TestFindRespectsOffsetAndLimit(t *testing.T) {
	img := buildQueryFixture(t)

	nodeDescs := []NodeSearch{
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "NN"},
		{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "VB"},
	}
	opDescs := []OperatorSpec{
		{Kind: Precedence, LhsIdx: 0, RhsIdx: 1, Min: 1, Max: 1},
	}

	results, err := Find([]*corpus.Image{img}, nodeDescs, opDescs, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResolveNodeSearchWrapsAsNodeMatch(t *testing.T) {
	img := buildQueryFixture(t)

	s, err := resolveNodeSearch(img, NodeSearch{Kind: ExactValue, NS: nsPtr("default_ns"), Name: "pos", Val: "NN", WrapAsNodeMatch: true})
	require.NoError(t, err)
	require.True(t, s.HasNext())

	m := s.Next()
	assert.Equal(t, img.Reserved.NodeName, m.Anno.Name)
}
