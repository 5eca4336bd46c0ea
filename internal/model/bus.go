package model

// BusRoute is a uniquely numbered bus line over an ordered sequence of stop
// names, plus the statistics derived from that sequence once the catalog is
// built (see Stats).
type BusRoute struct {
	Number      string
	RoundTrip   bool
	Stops       []string // as declared, before canonicalization
	Canonical   []string // the sequence used everywhere else, see canonicalSequence
	Stats       BusStats
	statsFilled bool
}

// BusStats holds the derived, immutable-after-build statistics for a bus route.
type BusStats struct {
	RouteLength      int // meters, sum of road distances along Canonical
	DirectLength     float64
	Curvature        float64
	StopCount        int
	UniqueStopCount  int
}

// NewBusRoute builds a route and computes its canonical stop sequence.
// See spec.md §3 "Bus route" for the doubling rule applied to non-round
// trips.
func NewBusRoute(number string, stops []string, roundTrip bool) *BusRoute {
	b := &BusRoute{Number: number, RoundTrip: roundTrip, Stops: stops}
	b.Canonical = canonicalSequence(stops, roundTrip)
	return b
}

func canonicalSequence(stops []string, roundTrip bool) []string {
	if roundTrip {
		out := make([]string, len(stops))
		copy(out, stops)
		return out
	}
	n := len(stops)
	out := make([]string, 0, 2*n-1)
	out = append(out, stops...)
	for i := n - 2; i >= 0; i-- {
		out = append(out, stops[i])
	}
	return out
}

// Endpoints returns the user-visible endpoint stop names: just the first
// stop for round trips, or the first and last stop of the *declared*
// sequence (which sits at the middle of Canonical) for non-round trips.
func (b *BusRoute) Endpoints() (first string, second string, hasSecond bool) {
	if len(b.Stops) == 0 {
		return "", "", false
	}
	first = b.Stops[0]
	if b.RoundTrip {
		return first, "", false
	}
	last := b.Stops[len(b.Stops)-1]
	if last == first {
		return first, "", false
	}
	return first, last, true
}

// IsEndpoint reports whether stopName is one of the route's user-visible
// endpoints.
func (b *BusRoute) IsEndpoint(stopName string) bool {
	first, second, hasSecond := b.Endpoints()
	if stopName == first {
		return true
	}
	return hasSecond && stopName == second
}

// SetStats freezes the derived statistics; called once by the catalog
// builder after Canonical and the distance table are both available.
func (b *BusRoute) SetStats(stats BusStats) {
	b.Stats = stats
	b.statsFilled = true
}

// StatsReady reports whether SetStats has run.
func (b *BusRoute) StatsReady() bool {
	return b.statsFilled
}

// UniqueStopNames returns the set of distinct stop names on the canonical
// sequence.
func (b *BusRoute) UniqueStopNames() map[string]struct{} {
	out := make(map[string]struct{}, len(b.Canonical))
	for _, s := range b.Canonical {
		out[s] = struct{}{}
	}
	return out
}

// TraversalCounts counts how many times each stop name appears in the
// canonical sequence, used by the map projector to find reference points.
func (b *BusRoute) TraversalCounts() map[string]int {
	out := make(map[string]int, len(b.Canonical))
	for _, s := range b.Canonical {
		out[s]++
	}
	return out
}
