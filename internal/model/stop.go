package model

import "sort"

// Stop is a uniquely named transit stop. Coordinates are optional during
// catalog construction (forward references create a window where a stop is
// known by name only) and are required to be present by the time the
// catalog is frozen.
type Stop struct {
	Name        string
	Coordinates *Point
	Buses       map[string]struct{}
}

// NewStop creates a stop with no coordinates yet and an empty bus set.
func NewStop(name string) *Stop {
	return &Stop{Name: name, Buses: make(map[string]struct{})}
}

// HasCoordinates reports whether coordinates have been filled in.
func (s *Stop) HasCoordinates() bool {
	return s.Coordinates != nil
}

// AddBus records that the given route passes through the stop.
func (s *Stop) AddBus(route string) {
	s.Buses[route] = struct{}{}
}

// BusNumbers returns the stop's routes sorted lexicographically.
func (s *Stop) BusNumbers() []string {
	out := make([]string, 0, len(s.Buses))
	for b := range s.Buses {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
