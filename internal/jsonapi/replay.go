package jsonapi

import (
	"fmt"

	"github.com/passbi/transitguide/internal/catalogbuild"
)

// Replay applies a document's base commands to b in order, exactly as
// original_source/main.cpp's FillBase() replays InCommand::Stop/Bus.
func Replay(b *catalogbuild.Builder, commands []BaseCommand) error {
	for i, cmd := range commands {
		var err error
		switch cmd.Kind {
		case BaseStop:
			err = b.AddStop(cmd.StopName, cmd.Latitude, cmd.Longitude, cmd.RoadDistances)
		case BaseBus:
			err = b.AddBus(cmd.BusNumber, cmd.Stops, cmd.RoundTrip)
		default:
			err = fmt.Errorf("unknown base command kind %d", cmd.Kind)
		}
		if err != nil {
			return fmt.Errorf("jsonapi: base_requests[%d]: %w", i, err)
		}
	}
	return nil
}
