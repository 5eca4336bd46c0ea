package jsonapi

import (
	"strings"
	"testing"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/model"
	"github.com/passbi/transitguide/internal/query"
	"github.com/passbi/transitguide/internal/routegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "base_requests": [
    {"type": "Stop", "name": "A", "latitude": 0, "longitude": 0, "road_distances": {"B": 600}},
    {"type": "Stop", "name": "B", "latitude": 0, "longitude": 0.01, "road_distances": {}},
    {"type": "Bus", "name": "1", "stops": ["A", "B"], "is_roundtrip": true}
  ],
  "stat_requests": [
    {"id": 1, "type": "Stop", "name": "A"},
    {"id": 2, "type": "Bus", "name": "1"},
    {"id": 3, "type": "Route", "from": "A", "to": "B"},
    {"id": 4, "type": "Map"},
    {"id": 5, "type": "Stop", "name": "unknown"}
  ],
  "routing_settings": {"bus_wait_time": 5, "bus_velocity": 10},
  "render_settings": {
    "width": 300, "height": 300, "padding": 15, "stop_radius": 4, "line_width": 4,
    "stop_label_font_size": 10, "stop_label_offset": [7, -3],
    "bus_label_font_size": 10, "bus_label_offset": [7, 15],
    "underlayer_color": [255, 255, 255, 0.8], "underlayer_width": 3, "outer_margin": 20,
    "color_palette": ["red", [0, 0, 255]],
    "layers": ["bus_lines", "bus_labels", "stop_points", "stop_labels"]
  }
}`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	require.Len(t, doc.BaseCommands, 3)
	assert.Equal(t, BaseStop, doc.BaseCommands[0].Kind)
	assert.Equal(t, "A", doc.BaseCommands[0].StopName)
	assert.Equal(t, BaseBus, doc.BaseCommands[2].Kind)
	assert.Equal(t, []string{"A", "B"}, doc.BaseCommands[2].Stops)
	assert.True(t, doc.BaseCommands[2].RoundTrip)

	require.Len(t, doc.StatRequests, 5)
	assert.Equal(t, StatRoute, doc.StatRequests[2].Kind)
	assert.Equal(t, "A", doc.StatRequests[2].From)
	assert.Equal(t, "B", doc.StatRequests[2].To)

	require.True(t, doc.HasRouting)
	assert.Equal(t, 5, doc.Routing.BusWaitTime)

	require.True(t, doc.HasRender)
	assert.Equal(t, 300.0, doc.Render.Width)
	assert.Equal(t, model.ColorRGBA, doc.Render.UnderlayerColor.Kind)
	require.Len(t, doc.Render.ColorPalette, 2)
	assert.Equal(t, model.ColorNamed, doc.Render.ColorPalette[0].Kind)
	assert.Equal(t, model.ColorRGB, doc.Render.ColorPalette[1].Kind)
	require.Len(t, doc.Render.Layers, 4)
}

func TestReplayAndRespond(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	b := catalogbuild.New(nil)
	require.NoError(t, Replay(b, doc.BaseCommands))

	cat, err := b.Build(doc.Routing, doc.Render)
	require.NoError(t, err)

	g, err := routegraph.Build(cat, nil)
	require.NoError(t, err)
	routegraph.BuildAllPairsCache(cat, g, nil)

	svc := query.New(cat)
	out, err := Respond(svc, doc.StatRequests)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, `"request_id":1`)
	assert.Contains(t, body, `"buses":["1"]`)
	assert.Contains(t, body, `"route_length":600`)
	assert.Contains(t, body, `"total_time"`)
	assert.Contains(t, body, `"<svg`)
	assert.Contains(t, body, `"error":"not found"`)
	assert.NotContains(t, body, "error_message")
}
