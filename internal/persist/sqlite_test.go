package persist

import (
	"path/filepath"
	"testing"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/model"
	"github.com/passbi/transitguide/internal/routegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRoundTripCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 600}))
	require.NoError(t, b.AddStop("B", 0, 0.01, map[string]int{"C": 700}))
	require.NoError(t, b.AddStop("C", 0, 0.02, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B"}, true))
	require.NoError(t, b.AddBus("2", []string{"B", "C"}, true))

	render := model.RenderSettings{
		Width: 400, Height: 400, Padding: 20, OuterMargin: 20, LineWidth: 3, StopRadius: 5,
		StopLabelFontSize: 12, BusLabelFontSize: 10,
		UnderlayerColor: model.RGBAColor(255, 255, 255, 0.85), UnderlayerWidth: 4,
		ColorPalette: []model.Color{model.NamedColor("green"), model.RGBColor(10, 20, 30)},
		Layers:       []model.MapLayer{model.LayerBusLines, model.LayerStopPoints},
	}
	cat, err := b.Build(model.RoutingSettings{BusWaitTime: 6, BusVelocity: 40}, render)
	require.NoError(t, err)

	g, err := routegraph.Build(cat, nil)
	require.NoError(t, err)
	routegraph.BuildAllPairsCache(cat, g, nil)
	return cat
}

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	cat := buildRoundTripCatalog(t)
	path := filepath.Join(t.TempDir(), "catalog.db")

	require.NoError(t, Serialize(cat, path))
	restored, err := Deserialize(path)
	require.NoError(t, err)

	assert.Equal(t, cat.StopOrder, restored.StopOrder)
	assert.Equal(t, cat.BusOrder, restored.BusOrder)
	assert.Equal(t, cat.Routing, restored.Routing)
	assert.Equal(t, cat.Render, restored.Render)
	assert.Equal(t, cat.VertexCount, restored.VertexCount)

	for _, name := range cat.StopOrder {
		want := cat.Stops[name]
		got := restored.Stops[name]
		require.NotNil(t, got)
		assert.Equal(t, *want.Coordinates, *got.Coordinates)
		assert.Equal(t, want.BusNumbers(), got.BusNumbers())
	}

	for _, number := range cat.BusOrder {
		want := cat.Buses[number]
		got := restored.Buses[number]
		require.NotNil(t, got)
		assert.Equal(t, want.RoundTrip, got.RoundTrip)
		assert.Equal(t, want.Canonical, got.Canonical)
		assert.Equal(t, want.Stats, got.Stats)
	}

	for _, from := range cat.StopOrder {
		for _, to := range cat.StopOrder {
			wantMeters, wantOK := cat.Distances.Get(from, to)
			gotMeters, gotOK := restored.Distances.Get(from, to)
			assert.Equal(t, wantOK, gotOK)
			if wantOK {
				assert.Equal(t, wantMeters, gotMeters)
			}
		}
	}

	assert.Equal(t, cat.EdgeActivities, restored.EdgeActivities)

	for pair, entry := range cat.Routes {
		got, ok := restored.Routes[pair]
		require.True(t, ok)
		assert.Equal(t, entry.RouteID, got.RouteID)
		assert.Equal(t, entry.TotalWeight, got.TotalWeight)
		if len(entry.ExpandedEdges) == 0 {
			assert.Empty(t, got.ExpandedEdges)
		} else {
			assert.Equal(t, entry.ExpandedEdges, got.ExpandedEdges)
		}
	}
	assert.Equal(t, len(cat.Routes), len(restored.Routes))

	assert.Equal(t, restored.StopIndex("A"), 0)
}
