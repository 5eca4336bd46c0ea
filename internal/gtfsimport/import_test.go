package gtfsimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeedFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

// TestLoad_LoopTripKeepsClosingStop covers a GTFS route whose sole trip
// starts and ends at the same stop. The importer must treat it as a
// round-trip bus with its canonical sequence used exactly as given,
// closing stop included — not stripped then left open.
func TestLoad_LoopTripKeepsClosingStop(t *testing.T) {
	dir := t.TempDir()

	writeFeedFile(t, dir, "stops.txt", "stop_id,stop_name,stop_lat,stop_lon\n"+
		"1,A,0,0\n"+
		"2,B,0,0.01\n"+
		"3,C,0,0.02\n")
	writeFeedFile(t, dir, "routes.txt", "route_id,route_short_name,route_long_name\n"+
		"r1,1,Loop Route\n")
	writeFeedFile(t, dir, "trips.txt", "route_id,trip_id\n"+
		"r1,t1\n")
	writeFeedFile(t, dir, "stop_times.txt", "trip_id,stop_id,stop_sequence\n"+
		"t1,1,0\n"+
		"t1,2,1\n"+
		"t1,3,2\n"+
		"t1,1,3\n")

	b := catalogbuild.New(nil)
	require.NoError(t, Load(b, dir, nil))

	cat, err := b.Build(
		model.RoutingSettings{BusWaitTime: 5, BusVelocity: 30},
		model.RenderSettings{},
	)
	require.NoError(t, err)

	bus, ok := cat.Bus("1")
	require.True(t, ok)
	assert.True(t, bus.RoundTrip)
	assert.Equal(t, []string{"A", "B", "C", "A"}, bus.Canonical)
}
