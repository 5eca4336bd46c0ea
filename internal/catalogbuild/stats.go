package catalogbuild

import (
	"fmt"

	"github.com/passbi/transitguide/internal/model"
)

// computeAllStats fills in BusStats for every bus from its canonical
// sequence (spec.md §3 "Bus statistics"). Missing road distances between a
// consecutive canonical pair are a build-time error (spec.md §4.2).
func (b *Builder) computeAllStats() error {
	for _, number := range b.catalog.BusOrder {
		route := b.catalog.Buses[number]
		stats, err := b.busStats(route)
		if err != nil {
			return err
		}
		route.SetStats(stats)
	}
	return nil
}

func (b *Builder) busStats(route *model.BusRoute) (model.BusStats, error) {
	seq := route.Canonical
	var routeLength int
	var directLength float64

	for i := 1; i < len(seq); i++ {
		from, to := seq[i-1], seq[i]
		d, ok := b.catalog.Distances.Get(from, to)
		if !ok {
			return model.BusStats{}, &model.BuildError{
				Reason: fmt.Sprintf("bus %q: no road distance between consecutive stops %q and %q", route.Number, from, to),
			}
		}
		routeLength += d

		fromPoint := *b.catalog.Stops[from].Coordinates
		toPoint := *b.catalog.Stops[to].Coordinates
		directLength += model.GreatCircleDistance(fromPoint, toPoint)
	}

	curvature := 1.0
	if directLength > 0 {
		curvature = float64(routeLength) / directLength
	}

	return model.BusStats{
		RouteLength:     routeLength,
		DirectLength:    directLength,
		Curvature:       curvature,
		StopCount:       len(seq),
		UniqueStopCount: len(route.UniqueStopNames()),
	}, nil
}
