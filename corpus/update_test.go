package corpus

import (
	"testing"

	"github.com/krotik/annisgraph/gs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyUpdateLogAddAndLabel(t *testing.T) {
	src := New()

	out, err := ApplyUpdateLog(src, []UpdateRecord{
		{Kind: AddNode, NodeName: "tok1"},
		{Kind: AddNodeLabel, NodeName: "tok1", NS: "default_ns", Name: "pos", Value: "NN"},
	})
	require.NoError(t, err)

	id, ok := resolveNodeName(out, "tok1")
	require.True(t, ok)

	ns, _ := out.Pool.FindID("default_ns")
	posKey, _ := out.Pool.FindID("pos")
	val, ok := out.Annos.ValueOf(id, ns, posKey)
	require.True(t, ok)
	nn, _ := out.Pool.FindID("NN")
	assert.Equal(t, nn, val)

	// src must be untouched (copy-on-write).
	_, ok = resolveNodeName(src, "tok1")
	assert.False(t, ok)
}

func TestApplyUpdateLogDeleteNodeCascades(t *testing.T) {
	src := New()

	built, err := ApplyUpdateLog(src, []UpdateRecord{
		{Kind: AddNode, NodeName: "tok1"},
		{Kind: AddNode, NodeName: "tok2"},
		{Kind: AddNodeLabel, NodeName: "tok1", NS: "default_ns", Name: "pos", Value: "NN"},
	})
	require.NoError(t, err)

	id1, ok := resolveNodeName(built, "tok1")
	require.True(t, ok)
	id2, ok := resolveNodeName(built, "tok2")
	require.True(t, ok)

	ordering := built.Storage(gs.Ordering, "", "")
	ordering.AddEdge(id1, id2, nil)

	out, err := ApplyUpdateLog(built, []UpdateRecord{
		{Kind: DeleteNode, NodeName: "tok1"},
	})
	require.NoError(t, err)

	_, ok = resolveNodeName(out, "tok1")
	assert.False(t, ok)
	assert.Empty(t, out.Annos.AnnotationsOf(id1))

	outOrdering := out.Storage(gs.Ordering, "", "")
	assert.Empty(t, outOrdering.Outgoing(id1))
}

func TestApplyUpdateLogRejectsDuplicateAdd(t *testing.T) {
	src := New()

	built, err := ApplyUpdateLog(src, []UpdateRecord{{Kind: AddNode, NodeName: "tok1"}})
	require.NoError(t, err)

	_, err = ApplyUpdateLog(built, []UpdateRecord{{Kind: AddNode, NodeName: "tok1"}})
	assert.Error(t, err)
}

func TestApplyUpdateLogDeleteNodeLabel(t *testing.T) {
	src := New()

	built, err := ApplyUpdateLog(src, []UpdateRecord{
		{Kind: AddNode, NodeName: "tok1"},
		{Kind: AddNodeLabel, NodeName: "tok1", NS: "default_ns", Name: "pos", Value: "NN"},
	})
	require.NoError(t, err)

	out, err := ApplyUpdateLog(built, []UpdateRecord{
		{Kind: DeleteNodeLabel, NodeName: "tok1", NS: "default_ns", Name: "pos"},
	})
	require.NoError(t, err)

	id, _ := resolveNodeName(out, "tok1")
	ns, _ := out.Pool.FindID("default_ns")
	posKey, _ := out.Pool.FindID("pos")
	_, ok := out.Annos.ValueOf(id, ns, posKey)
	assert.False(t, ok)
}
