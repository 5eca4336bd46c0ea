// Package persist implements Catalog Persistence (spec.md §4.6): writing
// the in-memory catalog to a self-contained binary file and restoring it to
// a byte-equal query-mode state. The binary format is a single SQLite
// database file, opened via the pure-Go, cgo-free modernc.org/sqlite
// driver (grounded in vanderheijden86-beadwork's internal/datasource
// package) — a real embedded storage engine rather than a hand-rolled
// length-prefixed scheme (see DESIGN.md "Dropped teacher dependencies" for
// why SQLite replaces the teacher's pgx store).
package persist

import (
	"database/sql"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/passbi/transitguide/internal/model"
)

const schema = `
CREATE TABLE stops (
	name TEXT PRIMARY KEY,
	latitude REAL NOT NULL,
	longitude REAL NOT NULL,
	stop_order INTEGER NOT NULL,
	buses_json TEXT NOT NULL
);
CREATE TABLE distances (
	from_stop TEXT NOT NULL,
	to_stop TEXT NOT NULL,
	meters INTEGER NOT NULL,
	PRIMARY KEY (from_stop, to_stop)
);
CREATE TABLE buses (
	number TEXT PRIMARY KEY,
	bus_order INTEGER NOT NULL,
	round_trip INTEGER NOT NULL,
	declared_stops_json TEXT NOT NULL,
	canonical_json TEXT NOT NULL,
	route_length INTEGER NOT NULL,
	direct_length REAL NOT NULL,
	curvature REAL NOT NULL,
	stop_count INTEGER NOT NULL,
	unique_stop_count INTEGER NOT NULL
);
CREATE TABLE settings (
	id INTEGER PRIMARY KEY CHECK (id = 0),
	bus_wait_time INTEGER NOT NULL,
	bus_velocity REAL NOT NULL,
	render_json TEXT NOT NULL,
	vertex_count INTEGER NOT NULL
);
CREATE TABLE edge_activities (
	edge_id INTEGER PRIMARY KEY,
	kind INTEGER NOT NULL,
	stop_name TEXT NOT NULL,
	bus_number TEXT NOT NULL,
	time REAL NOT NULL,
	span_count INTEGER NOT NULL,
	start_position INTEGER NOT NULL
);
CREATE TABLE routes (
	from_stop TEXT NOT NULL,
	to_stop TEXT NOT NULL,
	route_id INTEGER NOT NULL,
	total_weight REAL NOT NULL,
	edges_json TEXT NOT NULL,
	PRIMARY KEY (from_stop, to_stop)
);
`

// Serialize writes cat to a new SQLite file at path, overwriting any
// existing file. Every failure, including a row rejected by a table
// constraint, is returned as a wrapped error and rolls back the write
// transaction.
func Serialize(cat *model.Catalog, path string) (err error) {
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("persist: remove existing %s: %w", path, rmErr)
	}
	db, openErr := sql.Open("sqlite", "file:"+path+"?mode=rwc")
	if openErr != nil {
		return fmt.Errorf("persist: open %s: %w", path, openErr)
	}
	defer func() {
		if closeErr := db.Close(); err == nil {
			err = closeErr
		}
	}()

	if _, execErr := db.Exec(schema); execErr != nil {
		return fmt.Errorf("persist: create schema: %w", execErr)
	}

	tx, txErr := db.Begin()
	if txErr != nil {
		return fmt.Errorf("persist: begin transaction: %w", txErr)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = writeStops(tx, cat); err != nil {
		return err
	}
	if err = writeDistances(tx, cat); err != nil {
		return err
	}
	if err = writeBuses(tx, cat); err != nil {
		return err
	}
	if err = writeSettings(tx, cat); err != nil {
		return err
	}
	if err = writeEdgeActivities(tx, cat); err != nil {
		return err
	}
	if err = writeRoutes(tx, cat); err != nil {
		return err
	}

	return tx.Commit()
}

func writeStops(tx *sql.Tx, cat *model.Catalog) error {
	stmt, err := tx.Prepare(`INSERT INTO stops(name, latitude, longitude, stop_order, buses_json) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare stops insert: %w", err)
	}
	defer stmt.Close()

	for i, name := range cat.StopOrder {
		stop := cat.Stops[name]
		busesJSON, err := json.Marshal(stop.BusNumbers())
		if err != nil {
			return fmt.Errorf("persist: marshal buses for stop %q: %w", name, err)
		}
		if _, err := stmt.Exec(name, stop.Coordinates.Latitude, stop.Coordinates.Longitude, i, string(busesJSON)); err != nil {
			return fmt.Errorf("persist: insert stop %q: %w", name, err)
		}
	}
	return nil
}

func writeDistances(tx *sql.Tx, cat *model.Catalog) error {
	stmt, err := tx.Prepare(`INSERT INTO distances(from_stop, to_stop, meters) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare distances insert: %w", err)
	}
	defer stmt.Close()

	for _, from := range cat.StopOrder {
		for _, to := range cat.StopOrder {
			if meters, ok := cat.Distances.Get(from, to); ok {
				if _, err := stmt.Exec(from, to, meters); err != nil {
					return fmt.Errorf("persist: insert distance %q->%q: %w", from, to, err)
				}
			}
		}
	}
	return nil
}

func writeBuses(tx *sql.Tx, cat *model.Catalog) error {
	stmt, err := tx.Prepare(`INSERT INTO buses(number, bus_order, round_trip, declared_stops_json, canonical_json,
		route_length, direct_length, curvature, stop_count, unique_stop_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare buses insert: %w", err)
	}
	defer stmt.Close()

	for i, number := range cat.BusOrder {
		bus := cat.Buses[number]
		declared, err := json.Marshal(bus.Stops)
		if err != nil {
			return fmt.Errorf("persist: marshal declared stops for bus %q: %w", number, err)
		}
		canonical, err := json.Marshal(bus.Canonical)
		if err != nil {
			return fmt.Errorf("persist: marshal canonical stops for bus %q: %w", number, err)
		}
		roundTrip := 0
		if bus.RoundTrip {
			roundTrip = 1
		}
		if _, err := stmt.Exec(number, i, roundTrip, string(declared), string(canonical),
			bus.Stats.RouteLength, bus.Stats.DirectLength, bus.Stats.Curvature, bus.Stats.StopCount, bus.Stats.UniqueStopCount); err != nil {
			return fmt.Errorf("persist: insert bus %q: %w", number, err)
		}
	}
	return nil
}

func writeSettings(tx *sql.Tx, cat *model.Catalog) error {
	renderJSON, err := json.Marshal(cat.Render)
	if err != nil {
		return fmt.Errorf("persist: marshal render settings: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO settings(id, bus_wait_time, bus_velocity, render_json, vertex_count) VALUES (0, ?, ?, ?, ?)`,
		cat.Routing.BusWaitTime, cat.Routing.BusVelocity, string(renderJSON), cat.VertexCount)
	if err != nil {
		return fmt.Errorf("persist: insert settings: %w", err)
	}
	return nil
}

func writeEdgeActivities(tx *sql.Tx, cat *model.Catalog) error {
	stmt, err := tx.Prepare(`INSERT INTO edge_activities(edge_id, kind, stop_name, bus_number, time, span_count, start_position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare edge_activities insert: %w", err)
	}
	defer stmt.Close()

	for id, act := range cat.EdgeActivities {
		if _, err := stmt.Exec(id, int(act.Kind), act.StopName, act.BusNumber, act.Time, act.SpanCount, act.StartPosition); err != nil {
			return fmt.Errorf("persist: insert edge activity %d: %w", id, err)
		}
	}
	return nil
}

func writeRoutes(tx *sql.Tx, cat *model.Catalog) error {
	stmt, err := tx.Prepare(`INSERT INTO routes(from_stop, to_stop, route_id, total_weight, edges_json) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare routes insert: %w", err)
	}
	defer stmt.Close()

	for _, from := range cat.StopOrder {
		for _, to := range cat.StopOrder {
			entry, ok := cat.Route(from, to)
			if !ok {
				continue
			}
			edgesJSON, err := json.Marshal(entry.ExpandedEdges)
			if err != nil {
				return fmt.Errorf("persist: marshal edges for route %q->%q: %w", from, to, err)
			}
			if _, err := stmt.Exec(from, to, entry.RouteID, entry.TotalWeight, string(edgesJSON)); err != nil {
				return fmt.Errorf("persist: insert route %q->%q: %w", from, to, err)
			}
		}
	}
	return nil
}

// Deserialize restores a catalog from a file written by Serialize. The
// result's query-facing fields (stops, buses, distances, settings, edge
// activities, route cache) are byte-equal to the original; StopOrder and
// BusOrder are restored via their persisted order columns, and the stop
// index is rebuilt afterward since it is not itself persisted.
func Deserialize(path string) (cat *model.Catalog, err error) {
	db, openErr := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if openErr != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, openErr)
	}
	defer func() {
		if closeErr := db.Close(); err == nil {
			err = closeErr
		}
	}()

	cat = model.NewCatalog()

	if err = readStops(db, cat); err != nil {
		return nil, err
	}
	cat.RebuildStopIndex()

	if err = readDistances(db, cat); err != nil {
		return nil, err
	}
	if err = readBuses(db, cat); err != nil {
		return nil, err
	}
	if err = readSettings(db, cat); err != nil {
		return nil, err
	}
	if err = readEdgeActivities(db, cat); err != nil {
		return nil, err
	}
	if err = readRoutes(db, cat); err != nil {
		return nil, err
	}

	return cat, nil
}

func readStops(db *sql.DB, cat *model.Catalog) error {
	rows, err := db.Query(`SELECT name, latitude, longitude, buses_json FROM stops ORDER BY stop_order ASC`)
	if err != nil {
		return fmt.Errorf("persist: query stops: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, busesJSON string
		var lat, lon float64
		if err := rows.Scan(&name, &lat, &lon, &busesJSON); err != nil {
			return fmt.Errorf("persist: scan stop: %w", err)
		}
		var busNumbers []string
		if err := json.Unmarshal([]byte(busesJSON), &busNumbers); err != nil {
			return fmt.Errorf("persist: unmarshal buses for stop %q: %w", name, err)
		}

		stop := model.NewStop(name)
		point := model.Point{Latitude: lat, Longitude: lon}
		stop.Coordinates = &point
		for _, number := range busNumbers {
			stop.AddBus(number)
		}
		cat.Stops[name] = stop
		cat.StopOrder = append(cat.StopOrder, name)
	}
	return rows.Err()
}

func readDistances(db *sql.DB, cat *model.Catalog) error {
	rows, err := db.Query(`SELECT from_stop, to_stop, meters FROM distances`)
	if err != nil {
		return fmt.Errorf("persist: query distances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var from, to string
		var meters int
		if err := rows.Scan(&from, &to, &meters); err != nil {
			return fmt.Errorf("persist: scan distance: %w", err)
		}
		cat.Distances.Set(from, to, meters)
	}
	return rows.Err()
}

func readBuses(db *sql.DB, cat *model.Catalog) error {
	rows, err := db.Query(`SELECT number, round_trip, declared_stops_json, canonical_json,
		route_length, direct_length, curvature, stop_count, unique_stop_count FROM buses ORDER BY bus_order ASC`)
	if err != nil {
		return fmt.Errorf("persist: query buses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var number, declaredJSON, canonicalJSON string
		var roundTrip int
		var stats model.BusStats
		if err := rows.Scan(&number, &roundTrip, &declaredJSON, &canonicalJSON,
			&stats.RouteLength, &stats.DirectLength, &stats.Curvature, &stats.StopCount, &stats.UniqueStopCount); err != nil {
			return fmt.Errorf("persist: scan bus: %w", err)
		}
		var declared []string
		if err := json.Unmarshal([]byte(declaredJSON), &declared); err != nil {
			return fmt.Errorf("persist: unmarshal declared stops for bus %q: %w", number, err)
		}

		bus := model.NewBusRoute(number, declared, roundTrip != 0)
		var canonical []string
		if err := json.Unmarshal([]byte(canonicalJSON), &canonical); err != nil {
			return fmt.Errorf("persist: unmarshal canonical stops for bus %q: %w", number, err)
		}
		bus.Canonical = canonical
		bus.SetStats(stats)

		cat.Buses[number] = bus
		cat.BusOrder = append(cat.BusOrder, number)
	}
	return rows.Err()
}

func readSettings(db *sql.DB, cat *model.Catalog) error {
	var renderJSON string
	row := db.QueryRow(`SELECT bus_wait_time, bus_velocity, render_json, vertex_count FROM settings WHERE id = 0`)
	if err := row.Scan(&cat.Routing.BusWaitTime, &cat.Routing.BusVelocity, &renderJSON, &cat.VertexCount); err != nil {
		return fmt.Errorf("persist: scan settings: %w", err)
	}
	if err := json.Unmarshal([]byte(renderJSON), &cat.Render); err != nil {
		return fmt.Errorf("persist: unmarshal render settings: %w", err)
	}
	return nil
}

func readEdgeActivities(db *sql.DB, cat *model.Catalog) error {
	rows, err := db.Query(`SELECT kind, stop_name, bus_number, time, span_count, start_position FROM edge_activities ORDER BY edge_id ASC`)
	if err != nil {
		return fmt.Errorf("persist: query edge_activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind int
		var act model.EdgeActivity
		if err := rows.Scan(&kind, &act.StopName, &act.BusNumber, &act.Time, &act.SpanCount, &act.StartPosition); err != nil {
			return fmt.Errorf("persist: scan edge activity: %w", err)
		}
		act.Kind = model.EdgeKind(kind)
		cat.EdgeActivities = append(cat.EdgeActivities, act)
	}
	return rows.Err()
}

func readRoutes(db *sql.DB, cat *model.Catalog) error {
	rows, err := db.Query(`SELECT from_stop, to_stop, route_id, total_weight, edges_json FROM routes`)
	if err != nil {
		return fmt.Errorf("persist: query routes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var from, to, edgesJSON string
		var entry model.RouteCacheEntry
		if err := rows.Scan(&from, &to, &entry.RouteID, &entry.TotalWeight, &edgesJSON); err != nil {
			return fmt.Errorf("persist: scan route: %w", err)
		}
		if err := json.Unmarshal([]byte(edgesJSON), &entry.ExpandedEdges); err != nil {
			return fmt.Errorf("persist: unmarshal edges for route %q->%q: %w", from, to, err)
		}
		cat.Routes[model.StopPair{From: from, To: to}] = entry
	}
	return rows.Err()
}
