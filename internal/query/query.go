// Package query implements the Query façade (spec.md §4.3 "Query
// results"): translating the frozen catalog and its precomputed all-pairs
// cache into the four result shapes a caller asks for, with the catalog's
// uniform "not found" contract for unknown names and unreachable pairs.
package query

import (
	"sort"

	"github.com/passbi/transitguide/internal/mapsvg"
	"github.com/passbi/transitguide/internal/model"
	"github.com/passbi/transitguide/internal/routegraph"
)

// Service answers queries against a frozen catalog.
type Service struct {
	cat      *model.Catalog
	renderer *mapsvg.Renderer
}

// New builds a query service. cat must already carry its all-pairs route
// cache (routegraph.BuildAllPairsCache).
func New(cat *model.Catalog) *Service {
	return &Service{cat: cat, renderer: mapsvg.NewRenderer(cat)}
}

// StopResult answers a Stop query.
type StopResult struct {
	Buses []string
	Err   error
}

// Stop returns the sorted bus numbers serving name.
func (s *Service) Stop(name string) StopResult {
	stop, ok := s.cat.Stop(name)
	if !ok {
		return StopResult{Err: &model.NotFoundError{Kind: "stop", Key: name}}
	}
	buses := stop.BusNumbers()
	sort.Strings(buses)
	return StopResult{Buses: buses}
}

// BusResult answers a Bus query.
type BusResult struct {
	RouteLength     int
	Curvature       float64
	StopCount       int
	UniqueStopCount int
	Err             error
}

// Bus returns the precomputed statistics for number.
func (s *Service) Bus(number string) BusResult {
	bus, ok := s.cat.Bus(number)
	if !ok {
		return BusResult{Err: &model.NotFoundError{Kind: "bus", Key: number}}
	}
	return BusResult{
		RouteLength:     bus.Stats.RouteLength,
		Curvature:       bus.Stats.Curvature,
		StopCount:       bus.Stats.StopCount,
		UniqueStopCount: bus.Stats.UniqueStopCount,
	}
}

// RouteResult answers a Route query.
type RouteResult struct {
	TotalTime float64
	Items     []routegraph.RouteItem
	Map       []byte
	Err       error
}

// Route returns the precomputed shortest-time route from "from" to "to"
// and its route-restricted map. Either endpoint being unknown, or the pair
// being unreachable, is reported as "not found" (spec.md §7).
func (s *Service) Route(from, to string) RouteResult {
	if _, ok := s.cat.Stop(from); !ok {
		return RouteResult{Err: &model.NotFoundError{Kind: "stop", Key: from}}
	}
	if _, ok := s.cat.Stop(to); !ok {
		return RouteResult{Err: &model.NotFoundError{Kind: "stop", Key: to}}
	}

	entry, ok := s.cat.Route(from, to)
	if !ok {
		return RouteResult{Err: &model.NotFoundError{Kind: "route", Key: from + "->" + to}}
	}

	items := routegraph.Expand(s.cat, entry)
	return RouteResult{
		TotalTime: entry.TotalWeight,
		Items:     items,
		Map:       s.renderer.RouteMap(items),
	}
}

// Map returns the full map document.
func (s *Service) Map() []byte {
	return s.renderer.FullMap()
}
