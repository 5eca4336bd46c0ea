package jsonapi

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/passbi/transitguide/internal/model"
)

type documentRaw struct {
	BaseRequests          []baseRequestRaw          `json:"base_requests"`
	StatRequests          []statRequestRaw          `json:"stat_requests"`
	RoutingSettings       *routingRaw               `json:"routing_settings"`
	RenderSettings        *renderSettingsRaw        `json:"render_settings"`
	SerializationSettings *serializationSettingsRaw `json:"serialization_settings"`
}

type serializationSettingsRaw struct {
	File string `json:"file"`
}

type baseRequestRaw struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	RoadDistances map[string]int `json:"road_distances"`
	Stops         []string       `json:"stops"`
	IsRoundtrip   bool           `json:"is_roundtrip"`
}

type statRequestRaw struct {
	Type string `json:"type"`
	ID   int    `json:"id"`
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type routingRaw struct {
	BusWaitTime int     `json:"bus_wait_time"`
	BusVelocity float64 `json:"bus_velocity"`
}

type renderSettingsRaw struct {
	Width             float64           `json:"width"`
	Height            float64           `json:"height"`
	Padding           float64           `json:"padding"`
	StopRadius        float64           `json:"stop_radius"`
	LineWidth         float64           `json:"line_width"`
	StopLabelFontSize int               `json:"stop_label_font_size"`
	StopLabelOffset   [2]float64        `json:"stop_label_offset"`
	UnderlayerColor   json.RawMessage   `json:"underlayer_color"`
	UnderlayerWidth   float64           `json:"underlayer_width"`
	ColorPalette      []json.RawMessage `json:"color_palette"`
	OuterMargin       float64           `json:"outer_margin"`
	BusLabelFontSize  int               `json:"bus_label_font_size"`
	BusLabelOffset    [2]float64        `json:"bus_label_offset"`
	Layers            []string          `json:"layers"`
}

// Parse reads a request document from r.
func Parse(r io.Reader) (*Document, error) {
	var raw documentRaw
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("jsonapi: decode document: %w", err)
	}

	doc := &Document{}

	for i, br := range raw.BaseRequests {
		cmd, err := parseBaseRequest(br)
		if err != nil {
			return nil, fmt.Errorf("jsonapi: base_requests[%d]: %w", i, err)
		}
		doc.BaseCommands = append(doc.BaseCommands, cmd)
	}

	for i, sr := range raw.StatRequests {
		req, err := parseStatRequest(sr)
		if err != nil {
			return nil, fmt.Errorf("jsonapi: stat_requests[%d]: %w", i, err)
		}
		doc.StatRequests = append(doc.StatRequests, req)
	}

	if raw.RoutingSettings != nil {
		doc.HasRouting = true
		doc.Routing = model.RoutingSettings{
			BusWaitTime: raw.RoutingSettings.BusWaitTime,
			BusVelocity: raw.RoutingSettings.BusVelocity,
		}
	}

	if raw.RenderSettings != nil {
		render, err := parseRenderSettings(*raw.RenderSettings)
		if err != nil {
			return nil, fmt.Errorf("jsonapi: render_settings: %w", err)
		}
		doc.HasRender = true
		doc.Render = render
	}

	if raw.SerializationSettings != nil {
		doc.SerializationFile = raw.SerializationSettings.File
	}

	return doc, nil
}

func parseBaseRequest(br baseRequestRaw) (BaseCommand, error) {
	switch br.Type {
	case "Stop":
		return BaseCommand{
			Kind:          BaseStop,
			StopName:      br.Name,
			Latitude:      br.Latitude,
			Longitude:     br.Longitude,
			RoadDistances: br.RoadDistances,
		}, nil
	case "Bus":
		return BaseCommand{
			Kind:      BaseBus,
			BusNumber: br.Name,
			Stops:     br.Stops,
			RoundTrip: br.IsRoundtrip,
		}, nil
	default:
		return BaseCommand{}, fmt.Errorf("unknown type %q", br.Type)
	}
}

func parseStatRequest(sr statRequestRaw) (StatRequest, error) {
	switch sr.Type {
	case "Stop":
		return StatRequest{Kind: StatStop, RequestID: sr.ID, Name: sr.Name}, nil
	case "Bus":
		return StatRequest{Kind: StatBus, RequestID: sr.ID, Name: sr.Name}, nil
	case "Route":
		return StatRequest{Kind: StatRoute, RequestID: sr.ID, From: sr.From, To: sr.To}, nil
	case "Map":
		return StatRequest{Kind: StatMap, RequestID: sr.ID}, nil
	default:
		return StatRequest{}, fmt.Errorf("unknown type %q", sr.Type)
	}
}

func parseRenderSettings(r renderSettingsRaw) (model.RenderSettings, error) {
	underlayer, err := parseColor(r.UnderlayerColor)
	if err != nil {
		return model.RenderSettings{}, fmt.Errorf("underlayer_color: %w", err)
	}

	palette := make([]model.Color, len(r.ColorPalette))
	for i, raw := range r.ColorPalette {
		c, err := parseColor(raw)
		if err != nil {
			return model.RenderSettings{}, fmt.Errorf("color_palette[%d]: %w", i, err)
		}
		palette[i] = c
	}

	layers := make([]model.MapLayer, 0, len(r.Layers))
	for _, name := range r.Layers {
		layer, ok := model.ParseMapLayer(name)
		if !ok {
			return model.RenderSettings{}, fmt.Errorf("layers: unknown layer %q", name)
		}
		layers = append(layers, layer)
	}

	return model.RenderSettings{
		Width:             r.Width,
		Height:            r.Height,
		Padding:           r.Padding,
		OuterMargin:       r.OuterMargin,
		LineWidth:         r.LineWidth,
		StopRadius:        r.StopRadius,
		StopLabelFontSize: r.StopLabelFontSize,
		StopLabelOffset:   model.Offset{DX: r.StopLabelOffset[0], DY: r.StopLabelOffset[1]},
		BusLabelFontSize:  r.BusLabelFontSize,
		BusLabelOffset:    model.Offset{DX: r.BusLabelOffset[0], DY: r.BusLabelOffset[1]},
		UnderlayerColor:   underlayer,
		UnderlayerWidth:   r.UnderlayerWidth,
		ColorPalette:      palette,
		Layers:            layers,
	}, nil
}

// parseColor accepts either a bare color name ("red") or a [r,g,b] /
// [r,g,b,a] array, matching the original's ParseColor (json_api.cpp).
func parseColor(raw json.RawMessage) (model.Color, error) {
	if len(raw) == 0 {
		return model.Color{}, nil
	}

	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil {
		switch len(arr) {
		case 3:
			return model.RGBColor(uint8(arr[0]), uint8(arr[1]), uint8(arr[2])), nil
		case 4:
			return model.RGBAColor(uint8(arr[0]), uint8(arr[1]), uint8(arr[2]), arr[3]), nil
		default:
			return model.Color{}, fmt.Errorf("color array must have 3 or 4 elements, got %d", len(arr))
		}
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return model.Color{}, fmt.Errorf("invalid color: %w", err)
	}
	return model.NamedColor(name), nil
}
