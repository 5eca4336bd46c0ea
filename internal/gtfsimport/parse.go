// Package gtfsimport adapts a GTFS feed directory (stops.txt, routes.txt,
// trips.txt, stop_times.txt) into catalogbuild.Builder calls, giving
// cmd/transitguide's build mode a second ingestion path alongside the JSON
// command stream. Adapted from the teacher's internal/gtfs/parser.go:
// same column-map CSV reading style, trimmed to the four files a catalog
// needs and with transit-mode inference dropped (model.BusRoute has no
// mode field).
package gtfsimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Stop is one row of stops.txt.
type Stop struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Route is one row of routes.txt.
type Route struct {
	ID        string
	ShortName string
	LongName  string
}

// Trip is one row of trips.txt.
type Trip struct {
	RouteID string
	TripID  string
}

// StopTime is one row of stop_times.txt.
type StopTime struct {
	TripID       string
	StopID       string
	StopSequence int
}

// Feed is the parsed, unlinked GTFS tables.
type Feed struct {
	Stops     []Stop
	Routes    []Route
	Trips     []Trip
	StopTimes []StopTime
}

// ParseDir reads the four required GTFS files from dir.
func ParseDir(dir string, log *logrus.Entry) (*Feed, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	feed := &Feed{}

	stops, err := parseStops(filepath.Join(dir, "stops.txt"))
	if err != nil {
		return nil, fmt.Errorf("gtfsimport: stops.txt: %w", err)
	}
	feed.Stops = stops
	log.WithField("count", len(stops)).Debug("gtfsimport: parsed stops")

	routes, err := parseRoutes(filepath.Join(dir, "routes.txt"))
	if err != nil {
		return nil, fmt.Errorf("gtfsimport: routes.txt: %w", err)
	}
	feed.Routes = routes
	log.WithField("count", len(routes)).Debug("gtfsimport: parsed routes")

	trips, err := parseTrips(filepath.Join(dir, "trips.txt"))
	if err != nil {
		return nil, fmt.Errorf("gtfsimport: trips.txt: %w", err)
	}
	feed.Trips = trips
	log.WithField("count", len(trips)).Debug("gtfsimport: parsed trips")

	stopTimes, err := parseStopTimes(filepath.Join(dir, "stop_times.txt"))
	if err != nil {
		return nil, fmt.Errorf("gtfsimport: stop_times.txt: %w", err)
	}
	feed.StopTimes = stopTimes
	log.WithField("count", len(stopTimes)).Debug("gtfsimport: parsed stop_times")

	return feed, nil
}

func makeColumnMap(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		m[name] = i
	}
	return m
}

func getField(record []string, colMap map[string]int, name string) string {
	idx, ok := colMap[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(file)
	r.TrimLeadingSpace = true
	return r, file, nil
}

func parseStops(path string) ([]Stop, error) {
	r, file, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var stops []Stop
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		id := getField(record, colMap, "stop_id")
		latStr := getField(record, colMap, "stop_lat")
		lonStr := getField(record, colMap, "stop_lon")
		if id == "" || latStr == "" || lonStr == "" {
			continue
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			continue
		}
		stops = append(stops, Stop{
			ID:   id,
			Name: getField(record, colMap, "stop_name"),
			Lat:  lat,
			Lon:  lon,
		})
	}
	return stops, nil
}

func parseRoutes(path string) ([]Route, error) {
	r, file, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var routes []Route
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		id := getField(record, colMap, "route_id")
		if id == "" {
			continue
		}
		routes = append(routes, Route{
			ID:        id,
			ShortName: getField(record, colMap, "route_short_name"),
			LongName:  getField(record, colMap, "route_long_name"),
		})
	}
	return routes, nil
}

func parseTrips(path string) ([]Trip, error) {
	r, file, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var trips []Trip
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		tripID := getField(record, colMap, "trip_id")
		routeID := getField(record, colMap, "route_id")
		if tripID == "" || routeID == "" {
			continue
		}
		trips = append(trips, Trip{RouteID: routeID, TripID: tripID})
	}
	return trips, nil
}

func parseStopTimes(path string) ([]StopTime, error) {
	r, file, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	colMap := makeColumnMap(header)

	var stopTimes []StopTime
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		tripID := getField(record, colMap, "trip_id")
		stopID := getField(record, colMap, "stop_id")
		seqStr := getField(record, colMap, "stop_sequence")
		if tripID == "" || stopID == "" {
			continue
		}
		seq, err := strconv.Atoi(seqStr)
		if err != nil {
			continue
		}
		stopTimes = append(stopTimes, StopTime{TripID: tripID, StopID: stopID, StopSequence: seq})
	}
	return stopTimes, nil
}
