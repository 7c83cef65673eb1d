package corpus

import (
	"testing"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/graphutil"
	"github.com/krotik/annisgraph/gs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	img := New()

	ns := img.Pool.Add("default_ns")
	posKey := img.Pool.Add("pos")
	nn := img.Pool.Add("NN")
	img.Annos.Add(1, annostore.Annotation{NS: ns, Name: posKey, Val: nn})
	img.Annos.Add(2, annostore.Annotation{NS: ns, Name: posKey, Val: nn})

	ordering := img.Storage(gs.Ordering, "", "")
	ordering.AddEdge(1, 2, nil)
	ordering.RecomputeStatistics()

	dir := t.TempDir()
	require.NoError(t, SaveSnapshot(img, dir))

	restored, err := RestoreSnapshot(dir)
	require.NoError(t, err)

	rns, ok := restored.Pool.FindID("default_ns")
	require.True(t, ok)
	rposKey, ok := restored.Pool.FindID("pos")
	require.True(t, ok)
	rnn, ok := restored.Pool.FindID("NN")
	require.True(t, ok)

	val, ok := restored.Annos.ValueOf(1, rns, rposKey)
	require.True(t, ok)
	assert.Equal(t, rnn, val)

	restoredOrdering := restored.Storage(gs.Ordering, "", "")
	assert.True(t, restoredOrdering.IsConnected(1, 2, 1, 1))
}

func TestRestoreSnapshotMissingManifestIsCorpusNotFound(t *testing.T) {
	_, err := RestoreSnapshot(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, graphutil.ErrCorpusNotFound)
}
