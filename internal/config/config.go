// Package config supplies RoutingSettings/RenderSettings defaults. Routing
// defaults are loaded from the environment, in the shape of the teacher's
// LoadConfigFromEnv (internal/db/connection.go, internal/cache/redis.go)
// but delegated to github.com/kelseyhightower/envconfig instead of
// hand-rolled os.Getenv calls; render defaults are a fixed value and are
// not read from the environment. A command stream's routing_settings or
// render_settings object, when present, replaces the corresponding
// defaults as a whole; fields are not merged.
package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/passbi/transitguide/internal/model"
)

const envPrefix = "TRANSITGUIDE"

// Routing loads RoutingSettings defaults from TRANSITGUIDE_BUS_WAIT_TIME /
// TRANSITGUIDE_BUS_VELOCITY, falling back to the struct tag defaults if
// unset.
func Routing() (model.RoutingSettings, error) {
	var s model.RoutingSettings
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return model.RoutingSettings{}, err
	}
	return s, nil
}

// DefaultRender returns the render settings a bare command stream gets if
// it declares no render_settings object: a reasonable, fixed-size canvas
// with a three-color palette and all four layers enabled in spec.md §4.5's
// order.
func DefaultRender() model.RenderSettings {
	return model.RenderSettings{
		Width:             600,
		Height:            600,
		Padding:           30,
		OuterMargin:       50,
		LineWidth:         14,
		StopRadius:        5,
		StopLabelFontSize: 20,
		StopLabelOffset:   model.Offset{DX: 7, DY: -3},
		BusLabelFontSize:  20,
		BusLabelOffset:    model.Offset{DX: 7, DY: 15},
		UnderlayerColor:   model.RGBAColor(255, 255, 255, 0.85),
		UnderlayerWidth:   3,
		ColorPalette: []model.Color{
			model.NamedColor("green"),
			model.RGBColor(255, 160, 0),
			model.RGBColor(255, 0, 0),
		},
		Layers: []model.MapLayer{
			model.LayerBusLines,
			model.LayerBusLabels,
			model.LayerStopPoints,
			model.LayerStopLabels,
		},
	}
}
