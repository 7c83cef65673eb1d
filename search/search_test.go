package search

import (
	"testing"

	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/stringpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStore(t *testing.T) (*annostore.Store, *stringpool.Pool, stringpool.ID, stringpool.ID) {
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

	return store, pool, ns, posKey
}

func TestExactKeyAndReset(t *testing.T) {
	store, _, ns, posKey := buildStore(t)

	s := NewExactKey(store, &ns, posKey)

	var first []Match
	for s.HasNext() {
		first = append(first, s.Next())
	}
	require.Len(t, first, 3)

	s.Reset()
	count := 0
	for s.HasNext() {
		s.Next()
		count++
	}
	assert.Equal(t, 3, count)
}

func TestExactValue(t *testing.T) {
	store, pool, ns, posKey := buildStore(t)
	nn, _ := pool.FindID("NN")

	s := NewExactValue(store, &ns, posKey, nn)

	var nodes []int
	for s.HasNext() {
		m := s.Next()
		nodes = append(nodes, int(m.Node))
	}
	assert.ElementsMatch(t, []int{1, 3}, nodes)
}

func TestRegexValue(t *testing.T) {
	store, pool, ns, posKey := buildStore(t)
	_ = pool

	s, err := NewRegexValue(store, pool, &ns, posKey, "N.*")
	require.NoError(t, err)

	var nodes []int
	for s.HasNext() {
		m := s.Next()
		nodes = append(nodes, int(m.Node))
	}
	assert.ElementsMatch(t, []int{1, 3}, nodes)
}

func TestConstAnnoDedup(t *testing.T) {
	store, pool, ns, posKey := buildStore(t)
	nn, _ := pool.FindID("NN")

	// A second pos key on node 1 makes the inner key search yield node 1 twice.
	store.Add(1, annostore.Annotation{NS: pool.Add("other_ns"), Name: posKey, Val: nn})

	inner := NewExactKey(store, nil, posKey)
	wrapped := WrapConstAnno(inner, annostore.Annotation{NS: ns, Name: posKey, Val: 0})

	count := 0
	for wrapped.HasNext() {
		wrapped.Next()
		count++
	}
	assert.Equal(t, 3, count)

	wrapped.Reset()
	count = 0
	for wrapped.HasNext() {
		wrapped.Next()
		count++
	}
	assert.Equal(t, 3, count)
}
