package mapsvg

import (
	"testing"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLinearCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 100}))
	require.NoError(t, b.AddStop("B", 0, 1, map[string]int{"C": 100}))
	require.NoError(t, b.AddStop("C", 0, 2, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B", "C"}, true))

	render := model.RenderSettings{Width: 200, Height: 200, Padding: 10}
	cat, err := b.Build(model.RoutingSettings{BusWaitTime: 5, BusVelocity: 10}, render)
	require.NoError(t, err)
	return cat
}

func TestProjector_WithinBounds(t *testing.T) {
	cat := buildLinearCatalog(t)
	p := NewProjector(cat)

	for _, name := range cat.StopOrder {
		pt := p.Project(name)
		assert.GreaterOrEqual(t, pt.X, cat.Render.Padding-1e-9)
		assert.LessOrEqual(t, pt.X, cat.Render.Width-cat.Render.Padding+1e-9)
		assert.GreaterOrEqual(t, pt.Y, cat.Render.Padding-1e-9)
		assert.LessOrEqual(t, pt.Y, cat.Render.Height-cat.Render.Padding+1e-9)
	}
}

func TestProjector_MonotoneAlongLine(t *testing.T) {
	cat := buildLinearCatalog(t)
	p := NewProjector(cat)

	a := p.Project("A")
	b := p.Project("B")
	c := p.Project("C")

	assert.Less(t, a.X, b.X)
	assert.Less(t, b.X, c.X)
}

func TestReferencePoints_EndpointsAndBranching(t *testing.T) {
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 100}))
	require.NoError(t, b.AddStop("B", 0, 1, map[string]int{"C": 100}))
	require.NoError(t, b.AddStop("C", 0, 2, map[string]int{"D": 100}))
	require.NoError(t, b.AddStop("D", 0, 3, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B", "C", "D"}, false))
	require.NoError(t, b.AddBus("2", []string{"B"}, true))

	cat, err := b.Build(model.RoutingSettings{BusWaitTime: 5, BusVelocity: 10}, model.RenderSettings{Width: 100, Height: 100, Padding: 5})
	require.NoError(t, err)

	refs := referencePoints(cat)
	assert.True(t, refs["A"])
	assert.True(t, refs["D"])
	assert.True(t, refs["B"])
	assert.False(t, refs["C"])
}

func TestAlignedCoordinates_InterpolatesNonReferenceRun(t *testing.T) {
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 100}))
	require.NoError(t, b.AddStop("B", 0, 10, map[string]int{"C": 100}))
	require.NoError(t, b.AddStop("C", 0, 20, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B", "C"}, false))

	cat, err := b.Build(model.RoutingSettings{BusWaitTime: 5, BusVelocity: 10}, model.RenderSettings{Width: 100, Height: 100, Padding: 5})
	require.NoError(t, err)

	aligned := alignedCoordinates(cat)
	assert.InDelta(t, 10.0, aligned["B"].Longitude, 1e-9)
}
