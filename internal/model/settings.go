package model

import "strconv"

// RoutingSettings is the catalog-wide routing configuration: how long a
// passenger waits at a stop before boarding, and how fast buses travel.
type RoutingSettings struct {
	BusWaitTime int     `json:"bus_wait_time" envconfig:"BUS_WAIT_TIME" default:"6"`
	BusVelocity float64 `json:"bus_velocity" envconfig:"BUS_VELOCITY" default:"40"`
}

// MinutesPerMeter converts BusVelocity (km/h) into minutes-per-meter, the
// unit the Graph Builder needs for ride-edge weights.
func (r RoutingSettings) MinutesPerMeter() float64 {
	metersPerMinute := r.BusVelocity * 1000 / 60
	return 1 / metersPerMinute
}

// MapLayer names one of the four compositional map layers, drawn in the
// order RenderSettings.Layers specifies. Represented as a closed tagged
// enumeration (spec.md §9 "Layer dispatch") so dispatch is a direct switch,
// never a string-keyed table at runtime.
type MapLayer int

const (
	LayerBusLines MapLayer = iota
	LayerBusLabels
	LayerStopPoints
	LayerStopLabels
)

// ParseMapLayer maps the wire name of a layer to its tag.
func ParseMapLayer(name string) (MapLayer, bool) {
	switch name {
	case "bus_lines":
		return LayerBusLines, true
	case "bus_labels":
		return LayerBusLabels, true
	case "stop_points":
		return LayerStopPoints, true
	case "stop_labels":
		return LayerStopLabels, true
	default:
		return 0, false
	}
}

func (l MapLayer) String() string {
	switch l {
	case LayerBusLines:
		return "bus_lines"
	case LayerBusLabels:
		return "bus_labels"
	case LayerStopPoints:
		return "stop_points"
	case LayerStopLabels:
		return "stop_labels"
	default:
		return "unknown"
	}
}

// ColorKind selects which representation a Color carries.
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorNamed
	ColorRGB
	ColorRGBA
)

// Color is one of {none, a named CSS color, an RGB triple, an RGBA
// quadruple}, per spec.md §3.
type Color struct {
	Kind  ColorKind
	Name  string
	R, G, B uint8
	A     float64
}

// NamedColor builds a Color from a CSS color name, e.g. "red".
func NamedColor(name string) Color { return Color{Kind: ColorNamed, Name: name} }

// RGBColor builds an opaque RGB color.
func RGBColor(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// RGBAColor builds a translucent RGBA color; alpha is in [0, 1].
func RGBAColor(r, g, b uint8, a float64) Color { return Color{Kind: ColorRGBA, R: r, G: g, B: b, A: a} }

// SVG renders the color as the string an SVG "fill"/"stroke" attribute
// expects; an unset Color renders as "none".
func (c Color) SVG() string {
	switch c.Kind {
	case ColorNamed:
		return c.Name
	case ColorRGB:
		return rgbHex(c.R, c.G, c.B)
	case ColorRGBA:
		return rgbaCSS(c.R, c.G, c.B, c.A)
	default:
		return "none"
	}
}

func rgbHex(r, g, b uint8) string {
	const hexDigits = "0123456789abcdef"
	buf := [7]byte{'#'}
	put := func(i int, v uint8) {
		buf[i] = hexDigits[v>>4]
		buf[i+1] = hexDigits[v&0xf]
	}
	put(1, r)
	put(3, g)
	put(5, b)
	return string(buf[:])
}

func rgbaCSS(r, g, b uint8, a float64) string {
	return "rgba(" + strconv.Itoa(int(r)) + "," + strconv.Itoa(int(g)) + "," + strconv.Itoa(int(b)) + "," +
		strconv.FormatFloat(a, 'g', -1, 64) + ")"
}

// Offset is a 2D (dx, dy) displacement, used for label offsets.
type Offset struct {
	DX, DY float64
}

// RenderSettings is the immutable configuration governing how the map
// renderer lays out and styles the SVG document (spec.md §3 "Rendering
// settings").
type RenderSettings struct {
	Width, Height           float64
	Padding                 float64
	OuterMargin             float64
	LineWidth               float64
	StopRadius              float64
	StopLabelFontSize       int
	StopLabelOffset         Offset
	BusLabelFontSize        int
	BusLabelOffset          Offset
	UnderlayerColor         Color
	UnderlayerWidth         float64
	ColorPalette            []Color
	Layers                  []MapLayer
}
