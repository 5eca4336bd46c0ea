package gtfsimport

import (
	"fmt"
	"sort"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/model"
	"github.com/sirupsen/logrus"
)

// Load parses dir as a GTFS feed and replays it into b as AddStop/AddBus
// calls. One bus is emitted per route, using that route's first trip (by
// trips.txt order) as the canonical sequence — GTFS carries many trips per
// route at different times of day, and spec.md's Bus route has exactly one
// sequence.
//
// GTFS does not carry road distances between consecutive stops the way
// spec.md's NewStop command does; this importer approximates each
// consecutive pair's road distance with the great-circle distance between
// them (rounded to the nearest meter), which is the only distance GTFS
// itself implies.
func Load(b *catalogbuild.Builder, dir string, log *logrus.Entry) error {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	feed, err := ParseDir(dir, log)
	if err != nil {
		return err
	}

	stopsByID := make(map[string]Stop, len(feed.Stops))
	for _, s := range feed.Stops {
		stopsByID[s.ID] = s
	}

	timesByTrip := make(map[string][]StopTime)
	for _, st := range feed.StopTimes {
		timesByTrip[st.TripID] = append(timesByTrip[st.TripID], st)
	}
	for tripID := range timesByTrip {
		sort.Slice(timesByTrip[tripID], func(i, j int) bool {
			return timesByTrip[tripID][i].StopSequence < timesByTrip[tripID][j].StopSequence
		})
	}

	firstTripByRoute := make(map[string]string)
	for _, t := range feed.Trips {
		if _, ok := firstTripByRoute[t.RouteID]; !ok {
			firstTripByRoute[t.RouteID] = t.TripID
		}
	}

	distances := make(map[string]map[string]int)
	addDistance := func(fromID, toID string) error {
		from, ok := stopsByID[fromID]
		if !ok {
			return fmt.Errorf("gtfsimport: stop_times references unknown stop %q", fromID)
		}
		to, ok := stopsByID[toID]
		if !ok {
			return fmt.Errorf("gtfsimport: stop_times references unknown stop %q", toID)
		}
		meters := int(model.GreatCircleDistance(
			model.Point{Latitude: from.Lat, Longitude: from.Lon},
			model.Point{Latitude: to.Lat, Longitude: to.Lon},
		) + 0.5)
		if distances[from.Name] == nil {
			distances[from.Name] = make(map[string]int)
		}
		distances[from.Name][to.Name] = meters
		return nil
	}

	type busSpec struct {
		number    string
		stops     []string
		roundTrip bool
	}
	var buses []busSpec

	for _, route := range feed.Routes {
		tripID, ok := firstTripByRoute[route.ID]
		if !ok {
			continue
		}
		times := timesByTrip[tripID]
		if len(times) < 2 {
			continue
		}

		names := make([]string, len(times))
		for i, st := range times {
			stop, ok := stopsByID[st.StopID]
			if !ok {
				return fmt.Errorf("gtfsimport: trip %q references unknown stop %q", tripID, st.StopID)
			}
			names[i] = stop.Name
			if i > 0 {
				if err := addDistance(times[i-1].StopID, st.StopID); err != nil {
					return err
				}
			}
		}

		// A loop trip's closing stop stays in names: round-trip buses use
		// their stop list as given (model.canonicalSequence), so dropping it
		// here would silently lose the return leg from route_length, the
		// time graph, and the map polyline.
		roundTrip := len(names) > 1 && names[0] == names[len(names)-1]

		number := route.ShortName
		if number == "" {
			number = route.ID
		}
		buses = append(buses, busSpec{number: number, stops: names, roundTrip: roundTrip})
	}

	for _, s := range feed.Stops {
		if err := b.AddStop(s.Name, s.Lat, s.Lon, distances[s.Name]); err != nil {
			return err
		}
	}
	for _, bus := range buses {
		if err := b.AddBus(bus.number, bus.stops, bus.roundTrip); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{"stops": len(feed.Stops), "buses": len(buses)}).Info("gtfsimport: feed loaded")
	return nil
}
