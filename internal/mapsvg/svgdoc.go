package mapsvg

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// Document wraps an ajstarks/svgo canvas for the envelope (XML header,
// <svg> open/close) and writes shape elements directly to the underlying
// writer. svgo's shape helpers take integer coordinates; the scanline
// projector's output is floating point, so every shape here is emitted by
// hand to avoid rounding stop positions onto a coarser integer grid (see
// DESIGN.md "mapsvg SVG envelope").
type Document struct {
	canvas *svg.SVG
	w      io.Writer
}

// NewDocument starts the SVG envelope at the given pixel dimensions.
func NewDocument(w io.Writer, width, height float64) *Document {
	canvas := svg.New(w)
	canvas.Start(int(width), int(height))
	return &Document{canvas: canvas, w: w}
}

// contentWriter wraps a plain writer for shape emission without an
// envelope, used when composing cached layer content that will be spliced
// into a document started elsewhere.
func contentWriter(w io.Writer) *Document {
	return &Document{w: w}
}

// End closes the envelope.
func (d *Document) End() {
	d.canvas.End()
}

// Rect emits an axis-aligned rectangle, used for the route-map translucent
// overlay.
func (d *Document) Rect(x, y, w, h float64, style string) {
	fmt.Fprintf(d.w, `<rect x="%s" y="%s" width="%s" height="%s" style="%s"/>`+"\n",
		f(x), f(y), f(w), f(h), style)
}

// Polyline emits a stroked, unfilled polyline through pts.
func (d *Document) Polyline(pts []CanvasPoint, style string) {
	if len(pts) == 0 {
		return
	}
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f(p.X))
		b.WriteByte(',')
		b.WriteString(f(p.Y))
	}
	fmt.Fprintf(d.w, `<polyline points="%s" style="%s"/>`+"\n", b.String(), style)
}

// Circle emits a filled circle.
func (d *Document) Circle(cx, cy, r float64, style string) {
	fmt.Fprintf(d.w, `<circle cx="%s" cy="%s" r="%s" style="%s"/>`+"\n", f(cx), f(cy), f(r), style)
}

// Text emits one text element. Callers compose the underlayer/foreground
// stack (spec.md §4.5) as two Text calls at the same position.
func (d *Document) Text(x, y float64, body, style string) {
	fmt.Fprintf(d.w, `<text x="%s" y="%s" style="%s">%s</text>`+"\n", f(x), f(y), style, escapeText(body))
}

func f(v float64) string {
	return trimFloat(v)
}

// trimFloat formats v with the shortest representation that round-trips,
// matching the original renderer's compact coordinate strings.
func trimFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	return s
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
