package model

// EdgeKind discriminates the two members of the edge-activity sum type.
// Represented as a closed tag (spec.md §9 "Edge-activity polymorphism")
// rather than an interface hierarchy, since the set of activity shapes is
// fixed and every consumer must handle both.
type EdgeKind int

const (
	EdgeWait EdgeKind = iota
	EdgeRide
)

// EdgeActivity describes what traversing one graph edge means in
// user-visible terms: waiting at a stop, or riding a bus across a span of
// its canonical sequence. Exactly one of the Wait/Ride field groups is
// meaningful, selected by Kind.
type EdgeActivity struct {
	Kind EdgeKind

	// Wait fields.
	StopName string

	// Ride fields.
	BusNumber     string
	Time          float64 // minutes
	SpanCount     int     // j - i
	StartPosition int     // i, index into the bus's canonical sequence
}

// WaitActivity builds a wait edge's activity record.
func WaitActivity(stopName string) EdgeActivity {
	return EdgeActivity{Kind: EdgeWait, StopName: stopName}
}

// RideActivity builds a ride edge's activity record.
func RideActivity(busNumber string, time float64, spanCount, startPosition int) EdgeActivity {
	return EdgeActivity{
		Kind:          EdgeRide,
		BusNumber:     busNumber,
		Time:          time,
		SpanCount:     spanCount,
		StartPosition: startPosition,
	}
}

// RouteCacheEntry is one precomputed shortest-time route between an ordered
// pair of stops (spec.md §3 "All-pairs route cache").
type RouteCacheEntry struct {
	RouteID       int
	TotalWeight   float64
	ExpandedEdges []int // edge ids, in traversal order
}
