package stringpool

import (
	"testing"

	"github.com/krotik/annisgraph/graphutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotentAndMonotonic(t *testing.T) {
	p := New()

	id1 := p.Add("NN")
	id2 := p.Add("ART")
	id3 := p.Add("NN")

	assert.Equal(t, id1, id3, "re-adding a known string must return the same id")
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, ID(1), id1)
	assert.Equal(t, ID(2), id2)
}

func TestGetUnknownID(t *testing.T) {
	p := New()

	_, err := p.Get(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, graphutil.ErrUnknownID)

	_, err = p.Get(42)
	require.Error(t, err)
}

func TestFindID(t *testing.T) {
	p := New()
	id := p.Add("tok")

	found, ok := p.FindID("tok")
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = p.FindID("missing")
	assert.False(t, ok)
}

func TestFindByRegex(t *testing.T) {
	p := New()
	p.Add("NN")
	p.Add("NE")
	p.Add("ART")
	p.Add("VVFIN")

	ids, err := p.FindByRegex("N.*")
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	got := map[string]bool{}
	for _, id := range ids {
		s, _ := p.Get(id)
		got[s] = true
	}
	assert.True(t, got["NN"])
	assert.True(t, got["NE"])
}

func TestIncrementString(t *testing.T) {
	assert.Equal(t, "b", incrementString("a"))
	assert.Equal(t, "ac", incrementString("ab"))
	assert.Equal(t, "", incrementString("\xff"))
}
