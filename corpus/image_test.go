package corpus

import (
	"testing"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/gs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageResolvesReserved(t *testing.T) {
	img := New()

	ns, ok := img.Pool.FindID(ReservedNamespace)
	require.True(t, ok)
	assert.Equal(t, ns, img.Reserved.NS)

	nodeName, ok := img.Pool.FindID(AnnoNodeName)
	require.True(t, ok)
	assert.Equal(t, nodeName, img.Reserved.NodeName)
}

func TestComponentAndStorageAreStable(t *testing.T) {
	img := New()

	c1 := img.Component(gs.Ordering, "", "")
	c2 := img.Component(gs.Ordering, "", "")
	assert.Equal(t, c1, c2)

	s1 := img.Storage(gs.Ordering, "", "")
	s2 := img.Storage(gs.Ordering, "", "")
	assert.Same(t, s1, s2)
}

func TestApproxBytesGrowsWithContent(t *testing.T) {
	img := New()
	before := img.ApproxBytes()

	ns := img.Pool.Add("default_ns")
	posKey := img.Pool.Add("pos")
	nn := img.Pool.Add("NN")
	img.Annos.Add(1, annostore.Annotation{NS: ns, Name: posKey, Val: nn})

	assert.Greater(t, img.ApproxBytes(), before)
}
