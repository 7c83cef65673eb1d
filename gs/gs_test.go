package gs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjacencyReachability(t *testing.T) {
	a := NewAdjacencyStorage()
	a.AddEdge(1, 2, nil)
	a.AddEdge(2, 3, nil)
	a.AddEdge(3, 4, nil)

	assert.True(t, a.IsConnected(1, 4, 1, 10))
	assert.False(t, a.IsConnected(1, 4, 1, 2))
	d, ok := a.Distance(1, 4)
	require.True(t, ok)
	assert.Equal(t, 3, d)

	_, ok = a.Distance(4, 1)
	assert.False(t, ok)
}

func TestLinearStorage(t *testing.T) {
	l := NewLinearStorage(Width32)
	l.AddEdge(10, 11, nil)
	l.AddEdge(11, 12, nil)
	l.AddEdge(12, 13, nil)

	assert.True(t, l.IsConnected(10, 13, 1, 10))
	assert.False(t, l.IsConnected(10, 13, 1, 2))

	it := l.FindConnected(10, 2, 10)
	var got []int
	for it.HasNext() {
		got = append(got, int(it.Next()))
	}
	assert.ElementsMatch(t, []int{12, 13}, got)
}

func TestPrePostStorageTree(t *testing.T) {
	p := NewPrePostStorage(Order16, Level8)

	// root 1 -> 2,3 ; 2 -> 4
	p.AddEdge(1, 2, nil)
	p.AddEdge(1, 3, nil)
	p.AddEdge(2, 4, nil)

	p.RecomputeStatistics()

	assert.True(t, p.IsConnected(1, 4, 1, 10))
	assert.False(t, p.IsConnected(3, 4, 1, 10))
	assert.True(t, p.IsConnected(1, 4, 2, 2))

	it := p.FindConnected(1, 1, 10)
	var got []int
	for it.HasNext() {
		got = append(got, int(it.Next()))
	}
	assert.ElementsMatch(t, []int{2, 3, 4}, got)

	stats := p.Statistics()
	assert.True(t, stats.RootedTree)
	assert.False(t, stats.Cyclic)
	assert.Equal(t, 2, stats.MaxDepth)
}

func TestCoverageStorageInverse(t *testing.T) {
	c := NewCoverageStorage()
	c.AddEdge(100, 1, nil)
	c.AddEdge(100, 2, nil)
	c.AddEdge(101, 2, nil)

	covers := c.Covers(2)
	assert.Equal(t, 2, covers.Len())
}

func TestRegistryOptimizeOrdering(t *testing.T) {
	r := NewRegistry()
	comp := Component{Type: Ordering}

	s := r.Get(comp)
	s.AddEdge(1, 2, nil)
	s.AddEdge(2, 3, nil)

	r.Optimize()

	optimized := r.Get(comp)
	_, ok := optimized.(*LinearStorage)
	assert.True(t, ok)
	assert.True(t, optimized.IsConnected(1, 3, 1, 5))
}
