package routegraph

import (
	"testing"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 1200}))
	require.NoError(t, b.AddStop("B", 0, 0.01, map[string]int{"C": 1800}))
	require.NoError(t, b.AddStop("C", 0, 0.02, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B", "C"}, true))

	cat, err := b.Build(
		model.RoutingSettings{BusWaitTime: 5, BusVelocity: 30},
		model.RenderSettings{},
	)
	require.NoError(t, err)
	return cat
}

func TestBuild_WaitEdgePerStop(t *testing.T) {
	cat := buildCatalog(t)
	g, err := Build(cat, nil)
	require.NoError(t, err)

	for stopIdx := range cat.StopOrder {
		in := cat.VertexIn(stopIdx)
		out := cat.VertexOut(stopIdx)
		require.Len(t, g.adjacency[in], 1)
		assert.Equal(t, out, g.adjacency[in][0].to)
		assert.Equal(t, float64(cat.Routing.BusWaitTime), g.adjacency[in][0].weight)
	}
}

func TestBuild_RideEdgeCount(t *testing.T) {
	cat := buildCatalog(t)
	_, err := Build(cat, nil)
	require.NoError(t, err)

	// seq has 3 stops, round trip -> canonical length 3; C(3,2) = 3 ride edges.
	rideEdges := 0
	for _, act := range cat.EdgeActivities {
		if act.Kind == model.EdgeRide {
			rideEdges++
		}
	}
	assert.Equal(t, 3, rideEdges)
}

func TestBuild_MissingDistanceErrors(t *testing.T) {
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddBus("1", []string{"A", "B"}, true))
	require.NoError(t, b.AddStop("A", 0, 0, nil))
	require.NoError(t, b.AddStop("B", 0, 1, nil))
	// distance A->B missing entirely: catalogbuild.Build itself fails first
	// (stats require the same distance). Exercise routegraph directly
	// against a catalog that skipped stats computation to confirm Build's
	// own guard also fires.
	cat := model.NewCatalog()
	cat.RegisterStopOrder("A")
	cat.RegisterStopOrder("B")
	cat.Stops["A"] = model.NewStop("A")
	cat.Stops["B"] = model.NewStop("B")
	pa := model.Point{Latitude: 0, Longitude: 0}
	pb := model.Point{Latitude: 0, Longitude: 1}
	cat.Stops["A"].Coordinates = &pa
	cat.Stops["B"].Coordinates = &pb
	cat.BusOrder = []string{"1"}
	cat.Buses["1"] = model.NewBusRoute("1", []string{"A", "B"}, true)
	cat.Routing = model.RoutingSettings{BusWaitTime: 1, BusVelocity: 1}

	_, err := Build(cat, nil)
	assert.Error(t, err)
}

// S3 — shortest route with a transfer (spec.md §8): two buses meeting at a
// shared stop should produce a cheaper route than any single-bus option
// when the single bus doesn't connect the endpoints directly.
func TestRouter_TransferRoute(t *testing.T) {
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 600}))
	require.NoError(t, b.AddStop("B", 0, 0.01, map[string]int{"C": 600}))
	require.NoError(t, b.AddStop("C", 0, 0.02, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B"}, true))
	require.NoError(t, b.AddBus("2", []string{"B", "C"}, true))

	cat, err := b.Build(model.RoutingSettings{BusWaitTime: 5, BusVelocity: 10}, model.RenderSettings{})
	require.NoError(t, err)

	g, err := Build(cat, nil)
	require.NoError(t, err)

	BuildAllPairsCache(cat, g, nil)

	entry, ok := cat.Route("A", "C")
	require.True(t, ok)

	items := Expand(cat, entry)
	require.Len(t, items, 4)
	assert.Equal(t, model.EdgeWait, items[0].Kind)
	assert.Equal(t, "A", items[0].StopName)
	assert.Equal(t, model.EdgeRide, items[1].Kind)
	assert.Equal(t, "1", items[1].BusNumber)
	assert.Equal(t, model.EdgeWait, items[2].Kind)
	assert.Equal(t, "B", items[2].StopName)
	assert.Equal(t, model.EdgeRide, items[3].Kind)
	assert.Equal(t, "2", items[3].BusNumber)
}

func TestRouter_SameStopIsEmptyRoute(t *testing.T) {
	cat := buildCatalog(t)
	g, err := Build(cat, nil)
	require.NoError(t, err)
	BuildAllPairsCache(cat, g, nil)

	entry, ok := cat.Route("A", "A")
	require.True(t, ok)
	assert.Equal(t, 0.0, entry.TotalWeight)
	assert.Empty(t, entry.ExpandedEdges)
}

func TestRouter_UnreachablePairAbsent(t *testing.T) {
	b := catalogbuild.New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, nil))
	require.NoError(t, b.AddStop("B", 0, 1, nil))
	require.NoError(t, b.AddBus("1", []string{"A"}, true))
	require.NoError(t, b.AddBus("2", []string{"B"}, true))

	cat, err := b.Build(model.RoutingSettings{BusWaitTime: 5, BusVelocity: 10}, model.RenderSettings{})
	require.NoError(t, err)

	g, err := Build(cat, nil)
	require.NoError(t, err)
	BuildAllPairsCache(cat, g, nil)

	_, ok := cat.Route("A", "B")
	assert.False(t, ok)
}
