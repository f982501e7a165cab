package mapexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/engine/mapgen"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/types"
)

func TestPDF_GeneratedMap(t *testing.T) {
	m := mapgen.Generate(1, state.DefaultRules().Map, engine.NewRNG(7))

	data, err := PDF(m, "", "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output is not a PDF")
}

func TestPDF_HighlightsCurrent(t *testing.T) {
	m := &types.Map{Act: 2, Layers: []types.MapLayer{
		{Nodes: []types.MapNode{{ID: "n0", Type: types.NodeBattle, Status: types.NodeCompleted, Next: []string{"n1"}, X: 50}}},
		{Nodes: []types.MapNode{{ID: "n1", Type: types.NodeShop, Status: types.NodeAvailable, Next: []string{"boss"}, X: 30}}},
		{Nodes: []types.MapNode{{ID: "boss", Type: types.NodeBoss, Status: types.NodeLocked, X: 50}}},
	}}

	compress = false
	t.Cleanup(func() { compress = true })

	plain, err := PDF(m, "", "Lift & Shift Limbo")
	require.NoError(t, err)
	here, err := PDF(m, "n1", "Lift & Shift Limbo")
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "you are here")
	assert.Contains(t, string(here), "you are here")
	assert.Contains(t, string(here), "Lift & Shift Limbo")
}

func TestPDF_Empty(t *testing.T) {
	_, err := PDF(nil, "", "")
	assert.ErrorIs(t, err, ErrEmptyMap)
	_, err = PDF(&types.Map{}, "", "")
	assert.ErrorIs(t, err, ErrEmptyMap)
}

func TestLayout_BottomToTop(t *testing.T) {
	m := &types.Map{Layers: []types.MapLayer{
		{Nodes: []types.MapNode{{ID: "a", X: 0}}},
		{Nodes: []types.MapNode{{ID: "b", X: 100}}},
	}}
	pos := layout(m)
	assert.Greater(t, pos["a"].y, pos["b"].y, "layer 0 should be lower on the page")
	assert.Less(t, pos["a"].x, pos["b"].x)
}
