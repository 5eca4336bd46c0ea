// Package jsonapi implements the JSON command/response format described in
// original_source/json_api.cpp: a single request document carrying
// base_requests (catalog-build commands), stat_requests (queries),
// routing_settings, and render_settings, answered with a JSON array of
// per-request results in request order.
//
// Two deliberate departures from the original: the error field is named
// "error", not "error_message" (spec.md's own prose writes the result
// shape as "error?"), and results are emitted in request order rather
// than the original's category-grouped (buses, then stops, then routes,
// then maps) ordering, which a request_id-addressed JSON API consumer has
// no use for.
package jsonapi

import "github.com/passbi/transitguide/internal/model"

// BaseKind distinguishes the two catalog-build command shapes.
type BaseKind int

const (
	BaseStop BaseKind = iota
	BaseBus
)

// BaseCommand is one base_requests entry: either a new stop or a new bus.
type BaseCommand struct {
	Kind BaseKind

	// Stop
	StopName      string
	Latitude      float64
	Longitude     float64
	RoadDistances map[string]int

	// Bus
	BusNumber string
	Stops     []string
	RoundTrip bool
}

// StatKind distinguishes the four stat_requests shapes.
type StatKind int

const (
	StatStop StatKind = iota
	StatBus
	StatRoute
	StatMap
)

// StatRequest is one stat_requests entry.
type StatRequest struct {
	Kind      StatKind
	RequestID int

	Name string // Stop, Bus

	From string // Route
	To   string // Route
}

// Document is a fully parsed request document, ready to replay against a
// catalogbuild.Builder and then a query.Service.
type Document struct {
	BaseCommands []BaseCommand
	StatRequests []StatRequest

	Routing    model.RoutingSettings
	HasRouting bool
	Render     model.RenderSettings
	HasRender  bool

	// SerializationFile is serialization_settings.file: the path cmd/transitguide
	// serializes the catalog to (make_base) or deserializes it from
	// (process_requests). Empty if the document omits serialization_settings.
	SerializationFile string
}
