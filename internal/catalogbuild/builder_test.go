package catalogbuild

import (
	"testing"

	"github.com/passbi/transitguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() (model.RoutingSettings, model.RenderSettings) {
	return model.RoutingSettings{BusWaitTime: 6, BusVelocity: 40}, model.RenderSettings{}
}

// S1 — trivial bus statistics (spec.md §8).
func TestBuilder_TrivialBusStatistics(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddStop("A", 55.5, 37.5, map[string]int{"B": 1000}))
	require.NoError(t, b.AddStop("B", 55.5, 37.6, nil))
	require.NoError(t, b.AddBus("99", []string{"A", "B"}, false))

	routing, render := defaultSettings()
	cat, err := b.Build(routing, render)
	require.NoError(t, err)

	bus, ok := cat.Bus("99")
	require.True(t, ok)
	assert.Equal(t, 3, bus.Stats.StopCount)
	assert.Equal(t, 2, bus.Stats.UniqueStopCount)
	assert.Equal(t, 2000, bus.Stats.RouteLength)

	direct := model.GreatCircleDistance(model.Point{Latitude: 55.5, Longitude: 37.5}, model.Point{Latitude: 55.5, Longitude: 37.6})
	assert.InDelta(t, 2000/(2*direct), bus.Stats.Curvature, 1e-9)
}

// S2 — distance mirror (spec.md §8).
func TestBuilder_DistanceMirror(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 600}))
	require.NoError(t, b.AddStop("B", 0, 1, map[string]int{"C": 700}))
	require.NoError(t, b.AddStop("C", 0, 2, map[string]int{"B": 900}))
	require.NoError(t, b.AddBus("1", []string{"A", "B", "C"}, true))

	routing, render := defaultSettings()
	cat, err := b.Build(routing, render)
	require.NoError(t, err)

	ab, ok := cat.Distances.Get("A", "B")
	require.True(t, ok)
	assert.Equal(t, 600, ab)
	ba, ok := cat.Distances.Get("B", "A")
	require.True(t, ok)
	assert.Equal(t, 600, ba)

	bc, ok := cat.Distances.Get("B", "C")
	require.True(t, ok)
	assert.Equal(t, 700, bc)
	cb, ok := cat.Distances.Get("C", "B")
	require.True(t, ok)
	assert.Equal(t, 900, cb)
}

func TestBuilder_ForwardReference(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddBus("1", []string{"A", "B"}, true))
	require.NoError(t, b.AddStop("B", 1, 1, map[string]int{"A": 500}))
	require.NoError(t, b.AddStop("A", 0, 0, nil))

	routing, render := defaultSettings()
	cat, err := b.Build(routing, render)
	require.NoError(t, err)
	assert.Equal(t, 500, cat.Buses["1"].Stats.RouteLength)
}

func TestBuilder_DuplicateStopIsError(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, nil))
	err := b.AddStop("A", 1, 1, nil)
	require.Error(t, err)
}

func TestBuilder_DuplicateBusIsError(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, nil))
	require.NoError(t, b.AddBus("1", []string{"A"}, true))
	err := b.AddBus("1", []string{"A"}, true)
	require.Error(t, err)
}

func TestBuilder_MissingDistanceIsError(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, nil))
	require.NoError(t, b.AddStop("B", 0, 1, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B"}, true))

	routing, render := defaultSettings()
	_, err := b.Build(routing, render)
	require.Error(t, err)
}

func TestBuilder_NonRoundTripEndpoints(t *testing.T) {
	b := New(nil)
	require.NoError(t, b.AddStop("A", 0, 0, map[string]int{"B": 100}))
	require.NoError(t, b.AddStop("B", 0, 1, map[string]int{"C": 100}))
	require.NoError(t, b.AddStop("C", 0, 2, nil))
	require.NoError(t, b.AddBus("1", []string{"A", "B", "C"}, false))

	routing, render := defaultSettings()
	cat, err := b.Build(routing, render)
	require.NoError(t, err)

	bus := cat.Buses["1"]
	assert.Equal(t, []string{"A", "B", "C", "B", "A"}, bus.Canonical)
	first, second, hasSecond := bus.Endpoints()
	assert.Equal(t, "A", first)
	assert.True(t, hasSecond)
	assert.Equal(t, "C", second)
}
