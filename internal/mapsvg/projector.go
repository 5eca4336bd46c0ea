package mapsvg

import (
	"sort"

	"github.com/passbi/transitguide/internal/model"
)

// CanvasPoint is a projected coordinate in SVG space.
type CanvasPoint struct {
	X, Y float64
}

// Projector maps aligned geographic coordinates to canvas coordinates via
// the interference-aware scanline sweep of spec.md §4.4. Grounded in
// original_source/scanline_compressed_projection.cpp's two-pass
// (longitude, then latitude) bucket sweep.
type Projector struct {
	aligned map[string]model.Point
	lonStep float64
	latStep float64
	height  float64
	padding float64
	lonIdx  map[float64]int
	latIdx  map[float64]int
}

// NewProjector builds a projector from the catalog's stops and buses. It
// computes reference-point pre-alignment first (align.go), then the
// bucket sweep on the aligned coordinates.
func NewProjector(cat *model.Catalog) *Projector {
	aligned := alignedCoordinates(cat)
	neighbours := adjacency(cat)

	p := &Projector{
		aligned: aligned,
		height:  cat.Render.Height,
		padding: cat.Render.Padding,
	}

	p.lonIdx, p.lonStep = sweep(cat.StopOrder, aligned, neighbours,
		func(pt model.Point) float64 { return pt.Longitude },
		cat.Render.Width, cat.Render.Padding)
	p.latIdx, p.latStep = sweep(cat.StopOrder, aligned, neighbours,
		func(pt model.Point) float64 { return pt.Latitude },
		cat.Render.Height, cat.Render.Padding)

	return p
}

// adjacency builds the symmetric "consecutive on some bus" relation over
// aligned points, keyed by stop name pairs (names, not coordinates — two
// stops are never the same point after alignment unless they are the same
// stop).
func adjacency(cat *model.Catalog) map[string]map[string]bool {
	adj := make(map[string]map[string]bool)
	add := func(a, b string) {
		if adj[a] == nil {
			adj[a] = make(map[string]bool)
		}
		adj[a][b] = true
	}
	for _, busNumber := range cat.BusOrder {
		seq := cat.Buses[busNumber].Canonical
		for i := 1; i < len(seq); i++ {
			add(seq[i-1], seq[i])
			add(seq[i], seq[i-1])
		}
	}
	return adj
}

type axisGroup struct {
	value  float64
	repPt  string // representative stop name for neighbour lookups
	bucket int
}

// sweep runs the bucket-assignment pass for one axis. Distinct axis values
// are grouped (first-seen stop in StopOrder is the group's neighbour-check
// representative, mirroring the C++ std::map's first-insertion-wins key
// semantics for points comparing equal on a single axis), sorted ascending,
// then each group's bucket is 1 + the max bucket among earlier groups whose
// representative is adjacent to it, or 0.
func sweep(stopOrder []string, aligned map[string]model.Point, adj map[string]map[string]bool, axis func(model.Point) float64, extent, padding float64) (map[float64]int, float64) {
	seen := make(map[float64]int) // axis value -> index into groups
	var groups []axisGroup

	for _, name := range stopOrder {
		v := axis(aligned[name])
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = len(groups)
		groups = append(groups, axisGroup{value: v, repPt: name})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].value < groups[j].value })

	maxBucket := 0
	for i := 1; i < len(groups); i++ {
		best := -1
		for j := 0; j < i; j++ {
			if adj[groups[i].repPt][groups[j].repPt] && groups[j].bucket > best {
				best = groups[j].bucket
			}
		}
		groups[i].bucket = best + 1
		if groups[i].bucket > maxBucket {
			maxBucket = groups[i].bucket
		}
	}

	step := 0.0
	if maxBucket >= 1 {
		step = (extent - 2*padding) / float64(maxBucket)
	}

	idx := make(map[float64]int, len(groups))
	for _, g := range groups {
		idx[g.value] = g.bucket
	}
	return idx, step
}

// Project returns the canvas coordinate for a stop.
func (p *Projector) Project(stopName string) CanvasPoint {
	pt := p.aligned[stopName]
	bx := p.lonIdx[pt.Longitude]
	by := p.latIdx[pt.Latitude]
	return CanvasPoint{
		X: float64(bx)*p.lonStep + p.padding,
		Y: p.height - p.padding - float64(by)*p.latStep,
	}
}
