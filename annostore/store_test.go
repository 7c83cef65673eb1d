package annostore

import (
	"testing"

	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/stringpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDeleteRoundTrip(t *testing.T) {
	pool := stringpool.New()
	ns := pool.Add("annis_ns")
	name := pool.Add("pos")
	val := pool.Add("NN")

	s := New()
	key := Key{NS: ns, Name: name}
	anno := Annotation{NS: ns, Name: name, Val: val}

	s.Add(1, anno)

	before := s.AnnotationsOf(1)
	require.Len(t, before, 1)
	assert.Equal(t, val, before[0].Val)
	assert.Equal(t, 1, s.KeyCount(key))

	s.Delete(1, key)

	after := s.AnnotationsOf(1)
	assert.Empty(t, after)
	assert.Equal(t, 0, s.KeyCount(key))
}

func TestValuesInRange(t *testing.T) {
	pool := stringpool.New()
	ns := pool.Add("annis_ns")
	name := pool.Add("pos")
	nn := pool.Add("NN")
	art := pool.Add("ART")

	s := New()
	key := Key{NS: ns, Name: name}

	s.AddBulk([]Entry{
		{Node: 1, Anno: Annotation{NS: ns, Name: name, Val: nn}},
		{Node: 2, Anno: Annotation{NS: ns, Name: name, Val: nn}},
		{Node: 3, Anno: Annotation{NS: ns, Name: name, Val: art}},
	})

	nnNodes := s.ValuesInRange(key, nn, nn)
	assert.Equal(t, 2, nnNodes.Len())
	assert.True(t, nnNodes.Contains(nodeid.ID(1)))
	assert.True(t, nnNodes.Contains(nodeid.ID(2)))

	all := s.ValuesInRange(key, 0, 1<<31)
	assert.Equal(t, 3, all.Len())
}

func TestGuessMaxCount(t *testing.T) {
	pool := stringpool.New()
	ns := pool.Add("annis_ns")
	name := pool.Add("pos")

	s := New()

	var entries []Entry
	for i := 0; i < 100; i++ {
		val := pool.Add(string(rune('A' + i%5)))
		entries = append(entries, Entry{Node: nodeid.ID(i + 1), Anno: Annotation{NS: ns, Name: name, Val: val}})
	}
	s.AddBulk(entries)
	s.RecomputeStatistics()

	est := s.GuessMaxCount(&ns, name, 0, 1<<31)
	assert.Greater(t, est, 0.0)
	assert.LessOrEqual(t, est, 100.0)
}
