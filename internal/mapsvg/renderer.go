package mapsvg

import (
	"bytes"
	"fmt"

	"github.com/passbi/transitguide/internal/model"
	"github.com/passbi/transitguide/internal/routegraph"
)

// Renderer builds full and route-restricted map SVG documents (spec.md
// §4.5). The full map's layer content is computed once per catalog and
// cached; only the translucent overlay and route-restricted layers are
// recomputed per route (spec.md §4.5 "Caching").
type Renderer struct {
	cat       *model.Catalog
	projector *Projector

	fullContent []byte // cached layer content, without the <svg> envelope
}

// NewRenderer builds a renderer over a frozen catalog.
func NewRenderer(cat *model.Catalog) *Renderer {
	return &Renderer{cat: cat, projector: NewProjector(cat)}
}

func (r *Renderer) bodyContent() []byte {
	if r.fullContent == nil {
		var buf bytes.Buffer
		doc := contentWriter(&buf)
		for _, layer := range r.cat.Render.Layers {
			switch layer {
			case model.LayerBusLines:
				r.writeAllBusLines(doc)
			case model.LayerBusLabels:
				r.writeAllBusLabels(doc)
			case model.LayerStopPoints:
				r.writeAllStopPoints(doc)
			case model.LayerStopLabels:
				r.writeAllStopLabels(doc)
			}
		}
		r.fullContent = buf.Bytes()
	}
	return r.fullContent
}

// FullMap returns the complete map document.
func (r *Renderer) FullMap() []byte {
	var buf bytes.Buffer
	doc := NewDocument(&buf, r.cat.Render.Width, r.cat.Render.Height)
	buf.Write(r.bodyContent())
	doc.End()
	return buf.Bytes()
}

// RouteMap returns the route-restricted map document: the cached full-map
// body, a translucent overlay, then the four layers restricted to the
// given route (spec.md §4.5 "Route map").
func (r *Renderer) RouteMap(items []routegraph.RouteItem) []byte {
	render := r.cat.Render
	var buf bytes.Buffer
	doc := NewDocument(&buf, render.Width, render.Height)
	buf.Write(r.bodyContent())

	overlayStyle := fmt.Sprintf("fill:%s", render.UnderlayerColor.SVG())
	doc.Rect(-render.OuterMargin, -render.OuterMargin,
		render.Width+2*render.OuterMargin, render.Height+2*render.OuterMargin, overlayStyle)

	for _, layer := range render.Layers {
		switch layer {
		case model.LayerBusLines:
			r.writeRouteBusLines(doc, items)
		case model.LayerBusLabels:
			r.writeRouteBusLabels(doc, items)
		case model.LayerStopPoints:
			r.writeRouteStopPoints(doc, items)
		case model.LayerStopLabels:
			r.writeRouteStopLabels(doc, items)
		}
	}

	doc.End()
	return buf.Bytes()
}

func (r *Renderer) busColor(busIndex int) model.Color {
	palette := r.cat.Render.ColorPalette
	if len(palette) == 0 {
		return model.NamedColor("black")
	}
	return palette[busIndex%len(palette)]
}

func (r *Renderer) writeAllBusLines(doc *Document) {
	render := r.cat.Render
	for i, number := range r.cat.BusOrder {
		bus := r.cat.Buses[number]
		pts := make([]CanvasPoint, len(bus.Canonical))
		for k, name := range bus.Canonical {
			pts[k] = r.projector.Project(name)
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
			r.busColor(i).SVG(), f(render.LineWidth))
		doc.Polyline(pts, style)
	}
}

func (r *Renderer) writeAllBusLabels(doc *Document) {
	for i, number := range r.cat.BusOrder {
		bus := r.cat.Buses[number]
		first, second, hasSecond := bus.Endpoints()
		r.writeBusLabel(doc, number, first, r.busColor(i))
		if hasSecond {
			r.writeBusLabel(doc, number, second, r.busColor(i))
		}
	}
}

func (r *Renderer) writeBusLabel(doc *Document, busNumber, stopName string, color model.Color) {
	render := r.cat.Render
	pt := r.projector.Project(stopName)
	x := pt.X + render.BusLabelOffset.DX
	y := pt.Y + render.BusLabelOffset.DY

	underlayerStyle := fmt.Sprintf(
		"fill:%s;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round;font-family:Verdana;font-weight:bold;font-size:%dpx",
		render.UnderlayerColor.SVG(), render.UnderlayerColor.SVG(), f(render.UnderlayerWidth), render.BusLabelFontSize)
	doc.Text(x, y, busNumber, underlayerStyle)

	foregroundStyle := fmt.Sprintf("fill:%s;font-family:Verdana;font-weight:bold;font-size:%dpx",
		color.SVG(), render.BusLabelFontSize)
	doc.Text(x, y, busNumber, foregroundStyle)
}

func (r *Renderer) writeAllStopPoints(doc *Document) {
	render := r.cat.Render
	style := "fill:white"
	for _, name := range r.cat.StopOrder {
		pt := r.projector.Project(name)
		doc.Circle(pt.X, pt.Y, render.StopRadius, style)
	}
}

func (r *Renderer) writeAllStopLabels(doc *Document) {
	for _, name := range r.cat.StopOrder {
		r.writeStopLabel(doc, name)
	}
}

func (r *Renderer) writeStopLabel(doc *Document, stopName string) {
	render := r.cat.Render
	pt := r.projector.Project(stopName)
	x := pt.X + render.StopLabelOffset.DX
	y := pt.Y + render.StopLabelOffset.DY

	underlayerStyle := fmt.Sprintf(
		"fill:%s;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round;font-family:Verdana;font-size:%dpx",
		render.UnderlayerColor.SVG(), render.UnderlayerColor.SVG(), f(render.UnderlayerWidth), render.StopLabelFontSize)
	doc.Text(x, y, stopName, underlayerStyle)

	foregroundStyle := fmt.Sprintf("fill:black;font-family:Verdana;font-size:%dpx", render.StopLabelFontSize)
	doc.Text(x, y, stopName, foregroundStyle)
}

// --- route-restricted layers (spec.md §4.5 "Route map") --------------------

func (r *Renderer) writeRouteBusLines(doc *Document, items []routegraph.RouteItem) {
	render := r.cat.Render
	for _, item := range items {
		if item.Kind != model.EdgeRide {
			continue
		}
		bus := r.cat.Buses[item.BusNumber]
		busIdx := r.busIndex(item.BusNumber)
		span := bus.Canonical[item.StartPosition : item.StartPosition+item.SpanCount+1]
		pts := make([]CanvasPoint, len(span))
		for k, name := range span {
			pts[k] = r.projector.Project(name)
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
			r.busColor(busIdx).SVG(), f(render.LineWidth))
		doc.Polyline(pts, style)
	}
}

func (r *Renderer) writeRouteBusLabels(doc *Document, items []routegraph.RouteItem) {
	for _, item := range items {
		if item.Kind != model.EdgeRide {
			continue
		}
		bus := r.cat.Buses[item.BusNumber]
		busIdx := r.busIndex(item.BusNumber)
		startName := bus.Canonical[item.StartPosition]
		endName := bus.Canonical[item.StartPosition+item.SpanCount]
		if bus.IsEndpoint(startName) {
			r.writeBusLabel(doc, item.BusNumber, startName, r.busColor(busIdx))
		}
		if bus.IsEndpoint(endName) {
			r.writeBusLabel(doc, item.BusNumber, endName, r.busColor(busIdx))
		}
	}
}

func (r *Renderer) writeRouteStopPoints(doc *Document, items []routegraph.RouteItem) {
	render := r.cat.Render
	style := "fill:white"
	for _, item := range items {
		if item.Kind != model.EdgeRide || item.SpanCount <= 0 {
			continue
		}
		bus := r.cat.Buses[item.BusNumber]
		span := bus.Canonical[item.StartPosition : item.StartPosition+item.SpanCount+1]
		for _, name := range span {
			pt := r.projector.Project(name)
			doc.Circle(pt.X, pt.Y, render.StopRadius, style)
		}
	}
}

func (r *Renderer) writeRouteStopLabels(doc *Document, items []routegraph.RouteItem) {
	var lastRideStop string
	hasRide := false
	for _, item := range items {
		switch item.Kind {
		case model.EdgeWait:
			r.writeStopLabel(doc, item.StopName)
		case model.EdgeRide:
			bus := r.cat.Buses[item.BusNumber]
			lastRideStop = bus.Canonical[item.StartPosition+item.SpanCount]
			hasRide = true
		}
	}
	if hasRide {
		r.writeStopLabel(doc, lastRideStop)
	}
}

func (r *Renderer) busIndex(busNumber string) int {
	for i, n := range r.cat.BusOrder {
		if n == busNumber {
			return i
		}
	}
	return 0
}
