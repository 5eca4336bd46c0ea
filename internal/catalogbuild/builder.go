// Package catalogbuild implements the Catalog Builder (spec.md §4.1):
// ingesting AddStop/AddBus commands, symmetrising road distances, and
// computing bus statistics. It is the first stage of build mode; its
// output, a frozen model.Catalog, feeds the Graph Builder and the Router.
package catalogbuild

import (
	"fmt"

	"github.com/passbi/transitguide/internal/model"
	"github.com/sirupsen/logrus"
)

// Builder accumulates AddStop/AddBus commands in any order — including
// forward references to stops not yet declared — and produces a frozen
// catalog via Build.
type Builder struct {
	catalog *model.Catalog
	log     *logrus.Entry

	seenStop map[string]bool
	seenBus  map[string]bool
	// pendingDistances is allocated by New but never written or read:
	// AddStop records every distance straight into the catalog's table,
	// including distances to stops not yet declared.
	pendingDistances map[string]map[string]int
}

// New creates an empty builder.
func New(log *logrus.Entry) *Builder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Builder{
		catalog:          model.NewCatalog(),
		log:              log,
		seenStop:         make(map[string]bool),
		seenBus:          make(map[string]bool),
		pendingDistances: make(map[string]map[string]int),
	}
}

// AddStop registers a stop, per spec.md §4.1. A stop referenced earlier by
// a bus or by another stop's distance map already exists as a placeholder
// (model.NewStop, no coordinates); AddStop fills it in rather than
// duplicating it. Declaring the same stop name twice via AddStop is a
// build-time error.
func (b *Builder) AddStop(name string, lat, lon float64, distances map[string]int) error {
	if b.seenStop[name] {
		return &model.BuildError{Reason: fmt.Sprintf("duplicate stop %q", name)}
	}
	b.seenStop[name] = true

	point := model.Point{Latitude: lat, Longitude: lon}
	if !point.Valid() {
		return &model.BuildError{Reason: fmt.Sprintf("stop %q: non-finite or out-of-range coordinates", name)}
	}

	stop := b.getOrCreateStop(name)
	stop.Coordinates = &point

	for to, meters := range distances {
		b.getOrCreateStop(to)
		b.catalog.Distances.Set(name, to, meters)
	}

	b.log.WithFields(logrus.Fields{"stop": name, "distances": len(distances)}).Debug("catalog: stop added")
	return nil
}

// AddBus registers a bus route, per spec.md §4.1/§3. Declaring the same bus
// number twice is a build-time error. Stops referenced by name that have
// not yet been declared via AddStop are created as coordinate-less
// placeholders, to be filled in by a later AddStop.
func (b *Builder) AddBus(number string, stops []string, roundTrip bool) error {
	if b.seenBus[number] {
		return &model.BuildError{Reason: fmt.Sprintf("duplicate bus %q", number)}
	}
	if len(stops) == 0 {
		return &model.BuildError{Reason: fmt.Sprintf("bus %q: empty stop list", number)}
	}
	b.seenBus[number] = true

	for _, name := range stops {
		b.getOrCreateStop(name)
	}

	route := model.NewBusRoute(number, stops, roundTrip)
	b.catalog.Buses[number] = route
	b.catalog.BusOrder = append(b.catalog.BusOrder, number)

	b.log.WithFields(logrus.Fields{"bus": number, "stops": len(stops), "round_trip": roundTrip}).Debug("catalog: bus added")
	return nil
}

func (b *Builder) getOrCreateStop(name string) *model.Stop {
	stop, ok := b.catalog.Stops[name]
	if !ok {
		stop = model.NewStop(name)
		b.catalog.Stops[name] = stop
		b.catalog.RegisterStopOrder(name)
	}
	return stop
}

// Build finalizes the catalog: it verifies every stop has coordinates,
// populates each stop's bus set, symmetrises distances, and then computes
// bus statistics, which read the symmetrised distance table. It is the only
// place spec.md §4.1's three post-processing steps run.
func (b *Builder) Build(routing model.RoutingSettings, render model.RenderSettings) (*model.Catalog, error) {
	b.catalog.Routing = routing
	b.catalog.Render = render

	for name, stop := range b.catalog.Stops {
		if !stop.HasCoordinates() {
			return nil, &model.BuildError{Reason: fmt.Sprintf("stop %q: referenced but never declared via AddStop", name)}
		}
	}

	for _, number := range b.catalog.BusOrder {
		route := b.catalog.Buses[number]
		for _, name := range route.Canonical {
			b.catalog.Stops[name].AddBus(number)
		}
	}

	b.catalog.Distances.Symmetrize()

	if err := b.computeAllStats(); err != nil {
		return nil, err
	}

	b.log.WithFields(logrus.Fields{
		"stops": len(b.catalog.StopOrder),
		"buses": len(b.catalog.BusOrder),
	}).Info("catalog: build complete")

	return b.catalog, nil
}
