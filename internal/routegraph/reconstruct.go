package routegraph

import "github.com/passbi/transitguide/internal/model"

// RouteItem is one leg of a reconstructed route: either a wait at a stop
// or a ride spanning part of a bus's canonical sequence (spec.md §4.3
// "Route reconstruction"). Time is always populated: the catalog-wide
// bus_wait_time for a wait item, the per-edge ride time for a ride item.
type RouteItem struct {
	Kind model.EdgeKind

	StopName string // wait
	Time     float64

	BusNumber     string // ride
	SpanCount     int
	StartPosition int
}

// Expand turns a cached route's edge id list into the ordered sequence of
// user-visible items a query response reports. Consecutive ride edges on
// the same bus are NOT merged here — the cache already stores the longest
// single ride span available between two canonical positions for every
// edge, so adjacent ride edges in ExpandedEdges correspond to a transfer,
// not a mergeable pair (spec.md §9 "No ride-edge consolidation").
func Expand(cat *model.Catalog, entry model.RouteCacheEntry) []RouteItem {
	items := make([]RouteItem, 0, len(entry.ExpandedEdges))
	for _, edgeID := range entry.ExpandedEdges {
		act := cat.EdgeActivities[edgeID]
		switch act.Kind {
		case model.EdgeWait:
			items = append(items, RouteItem{
				Kind:     model.EdgeWait,
				StopName: act.StopName,
				Time:     float64(cat.Routing.BusWaitTime),
			})
		case model.EdgeRide:
			items = append(items, RouteItem{
				Kind:          model.EdgeRide,
				BusNumber:     act.BusNumber,
				Time:          act.Time,
				SpanCount:     act.SpanCount,
				StartPosition: act.StartPosition,
			})
		}
	}
	return items
}
