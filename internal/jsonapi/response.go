package jsonapi

import (
	"bytes"
	"errors"

	json "github.com/goccy/go-json"
	"github.com/passbi/transitguide/internal/model"
	"github.com/passbi/transitguide/internal/query"
	"github.com/passbi/transitguide/internal/routegraph"
)

// Respond answers every stat request against svc and marshals the results
// as a JSON array, one object per request, in request order. HTML escaping
// is disabled: a Route/Map result's "map" field carries a raw SVG document,
// and the standard library's default "<"/">"/"&" escaping would mangle it
// for no benefit to a JSON consumer, on top of the one JSON-string escaping
// every field already gets.
func Respond(svc *query.Service, requests []StatRequest) ([]byte, error) {
	results := make([]map[string]interface{}, len(requests))
	for i, req := range requests {
		results[i] = respondOne(svc, req)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func respondOne(svc *query.Service, req StatRequest) map[string]interface{} {
	entry := map[string]interface{}{"request_id": req.RequestID}

	switch req.Kind {
	case StatStop:
		res := svc.Stop(req.Name)
		if res.Err != nil {
			entry["error"] = errorMessage(res.Err)
			return entry
		}
		entry["buses"] = res.Buses

	case StatBus:
		res := svc.Bus(req.Name)
		if res.Err != nil {
			entry["error"] = errorMessage(res.Err)
			return entry
		}
		entry["route_length"] = res.RouteLength
		entry["curvature"] = res.Curvature
		entry["stop_count"] = res.StopCount
		entry["unique_stop_count"] = res.UniqueStopCount

	case StatRoute:
		res := svc.Route(req.From, req.To)
		if res.Err != nil {
			entry["error"] = errorMessage(res.Err)
			return entry
		}
		entry["total_time"] = res.TotalTime
		entry["items"] = routeItems(res.Items)
		entry["map"] = string(res.Map)

	case StatMap:
		entry["map"] = string(svc.Map())
	}

	return entry
}

func routeItems(items []routegraph.RouteItem) []map[string]interface{} {
	out := make([]map[string]interface{}, len(items))
	for i, it := range items {
		switch it.Kind {
		case model.EdgeWait:
			out[i] = map[string]interface{}{
				"type":      "Wait",
				"stop_name": it.StopName,
				"time":      int(it.Time),
			}
		case model.EdgeRide:
			out[i] = map[string]interface{}{
				"type":       "Bus",
				"bus":        it.BusNumber,
				"time":       it.Time,
				"span_count": it.SpanCount,
			}
		}
	}
	return out
}

// errorMessage reports spec.md's fixed "not found" string for a
// NotFoundError, or the plain error text for anything else.
func errorMessage(err error) string {
	var nf *model.NotFoundError
	if errors.As(err, &nf) {
		return nf.Message()
	}
	return err.Error()
}
