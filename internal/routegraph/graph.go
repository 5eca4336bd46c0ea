// Package routegraph implements the Graph Builder and Router (spec.md
// §4.2, §4.3): translating a catalog's stops and buses into a time-weighted
// directed multigraph, running Dijkstra from every stop to build the
// all-pairs route cache, and reconstructing ordered activity sequences on
// demand.
package routegraph

import (
	"fmt"

	"github.com/passbi/transitguide/internal/model"
	"github.com/sirupsen/logrus"
)

// edge is one directed, weighted arc of the time graph. Edges are kept per
// source vertex in allocation order, which doubles as edge-id order for
// everything appended to that vertex's list — the deterministic tie-break
// the router relies on (see DESIGN.md "Open Question decisions").
type edge struct {
	to         int
	weight     float64
	activityID int
}

// Graph is the wait/ride multigraph built from a catalog. Vertices are
// 2*len(catalog.StopOrder): stop i owns vertex 2i ("in", waiting) and
// 2i+1 ("out", boarded).
type Graph struct {
	adjacency [][]edge
}

// Build allocates vertices and edges per spec.md §4.2: one wait edge per
// stop (stop order), then ride edges bus-by-bus (bus order) for every pair
// of canonical positions (i, j) with i < j. Per-edge activity is appended
// to catalog.EdgeActivities in lock-step with emission, so edge id ==
// index into both catalog.EdgeActivities and the adjacency list's append
// order.
func Build(cat *model.Catalog, log *logrus.Entry) (*Graph, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	n := len(cat.StopOrder)
	cat.VertexCount = 2 * n
	g := &Graph{adjacency: make([][]edge, 2*n)}

	for stopIdx, name := range cat.StopOrder {
		activityID := len(cat.EdgeActivities)
		cat.EdgeActivities = append(cat.EdgeActivities, model.WaitActivity(name))
		in := cat.VertexIn(stopIdx)
		out := cat.VertexOut(stopIdx)
		g.adjacency[in] = append(g.adjacency[in], edge{to: out, weight: float64(cat.Routing.BusWaitTime), activityID: activityID})
	}

	minutesPerMeter := cat.Routing.MinutesPerMeter()
	rideEdges := 0
	for _, busNumber := range cat.BusOrder {
		bus := cat.Buses[busNumber]
		seq := bus.Canonical

		// segmentTime[k] is the travel time from seq[k] to seq[k+1].
		segmentTime := make([]float64, len(seq)-1)
		for k := 1; k < len(seq); k++ {
			d, ok := cat.Distances.Get(seq[k-1], seq[k])
			if !ok {
				return nil, fmt.Errorf("routegraph: bus %q missing distance %q -> %q", busNumber, seq[k-1], seq[k])
			}
			segmentTime[k-1] = float64(d) * minutesPerMeter
		}

		for i := 0; i < len(seq); i++ {
			cumulative := 0.0
			for j := i + 1; j < len(seq); j++ {
				cumulative += segmentTime[j-1]

				fromIdx := cat.StopIndex(seq[i])
				toIdx := cat.StopIndex(seq[j])
				activityID := len(cat.EdgeActivities)
				cat.EdgeActivities = append(cat.EdgeActivities, model.RideActivity(busNumber, cumulative, j-i, i))

				out := cat.VertexOut(fromIdx)
				in := cat.VertexIn(toIdx)
				g.adjacency[out] = append(g.adjacency[out], edge{to: in, weight: cumulative, activityID: activityID})
				rideEdges++
			}
		}
	}

	log.WithFields(logrus.Fields{
		"vertices":   2 * n,
		"wait_edges": n,
		"ride_edges": rideEdges,
	}).Info("routegraph: graph built")

	return g, nil
}
