// Package mapsvg implements the Scanline Projector and Map Renderer
// (spec.md §4.4, §4.5): compressing geographic coordinates into an
// interference-free canvas layout and composing the four map layers into an
// SVG document, for both the full map and route-restricted variants.
package mapsvg

import "github.com/passbi/transitguide/internal/model"

// referencePoints returns the set of stop names that are reference points
// per spec.md §4.4: an endpoint of any bus, traversed more than twice by a
// single bus's canonical sequence, or present on more than one bus.
func referencePoints(cat *model.Catalog) map[string]bool {
	refs := make(map[string]bool)

	for _, name := range cat.StopOrder {
		if len(cat.Stops[name].BusNumbers()) > 1 {
			refs[name] = true
		}
	}

	for _, busNumber := range cat.BusOrder {
		bus := cat.Buses[busNumber]
		first, second, hasSecond := bus.Endpoints()
		refs[first] = true
		if hasSecond {
			refs[second] = true
		}
		for name, count := range bus.TraversalCounts() {
			if count > 2 {
				refs[name] = true
			}
		}
	}

	return refs
}

// alignedCoordinates computes the reference-aligned coordinate map per
// spec.md §4.4 "Reference-point pre-alignment": a non-mutating shadow of
// Catalog.Stops' coordinates where each maximal run of non-reference stops
// between two reference stops on some bus's canonical sequence is replaced
// by linear interpolation between the two reference stops. Catalog.Stops
// itself is never modified.
func alignedCoordinates(cat *model.Catalog) map[string]model.Point {
	aligned := make(map[string]model.Point, len(cat.StopOrder))
	for _, name := range cat.StopOrder {
		aligned[name] = *cat.Stops[name].Coordinates
	}

	refs := referencePoints(cat)

	for _, busNumber := range cat.BusOrder {
		seq := cat.Buses[busNumber].Canonical
		i := 0
		for i < len(seq) {
			if !refs[seq[i]] {
				i++
				continue
			}
			j := i + 1
			for j < len(seq) && !refs[seq[j]] {
				j++
			}
			if j >= len(seq) {
				break
			}
			// seq[i] and seq[j] are both references; interpolate seq[i+1..j-1].
			from := *cat.Stops[seq[i]].Coordinates
			to := *cat.Stops[seq[j]].Coordinates
			span := j - i
			for k := i + 1; k < j; k++ {
				t := float64(k-i) / float64(span)
				aligned[seq[k]] = model.Point{
					Latitude:  from.Latitude + t*(to.Latitude-from.Latitude),
					Longitude: from.Longitude + t*(to.Longitude-from.Longitude),
				}
			}
			i = j
		}
	}

	return aligned
}
