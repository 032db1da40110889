package nav

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/nwah/naviwatch-bridge/watch"
)

// RouteEvents receives route lifecycle events
type RouteEvents interface {
	HandleRouteComputed()
	HandleRouteCancelled()
}

// LocationPublisher accepts location fixes from the phone
type LocationPublisher interface {
	Publish(sample watch.LocationSample)
}

// Handlers serves the /nav endpoints
type Handlers struct {
	router    *Router
	navigator *Navigator
	events    RouteEvents
	locations LocationPublisher
}

// NewHandlers wires the HTTP handlers to the route engine and the session
func NewHandlers(router *Router, navigator *Navigator, events RouteEvents, locations LocationPublisher) *Handlers {
	return &Handlers{
		router:    router,
		navigator: navigator,
		events:    events,
		locations: locations,
	}
}

// Register adds the handlers to mux
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/nav/route", h.HandleRoute)
	mux.HandleFunc("/nav/location", h.HandleLocation)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func parseLatLng(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid lat,lng format")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %v", err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %v", err)
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("coordinates out of range")
	}

	return lat, lng, nil
}

// HandleRoute handles the /nav/route endpoint. POST computes a route and
// starts navigating it, DELETE cancels the active route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	log.Printf("Debug: Route %s request to %s", r.Method, r.URL.String())

	switch r.Method {
	case http.MethodPost:
		req, err := parseRouteRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		route, err := h.router.Route(r.Context(), req)
		if err != nil {
			var noRoute *ErrNoRoute
			if errors.As(err, &noRoute) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		h.navigator.Start(route)
		h.events.HandleRouteComputed()
		log.Printf("Debug: Route started with %d points and %d maneuvers", len(route.Points), len(route.Maneuvers))

		writeJSON(w, buildRouteResponse(route))

	case http.MethodDelete:
		h.navigator.Stop()
		h.events.HandleRouteCancelled()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "only POST and DELETE methods are allowed")
	}
}

// parseRouteRequest accepts either a JSON body or from/to/mode query parameters
func parseRouteRequest(r *http.Request) (RouteRequest, error) {
	var req RouteRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("invalid request body: %v", err)
		}
	} else {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			return req, fmt.Errorf("both 'from' and 'to' parameters are required")
		}

		var err error
		req.FromLat, req.FromLng, err = parseLatLng(from)
		if err != nil {
			return req, fmt.Errorf("invalid 'from' parameter: %v", err)
		}
		req.ToLat, req.ToLng, err = parseLatLng(to)
		if err != nil {
			return req, fmt.Errorf("invalid 'to' parameter: %v", err)
		}
		req.Mode = TransportMode(strings.ToLower(r.URL.Query().Get("mode")))
	}

	if req.Mode != "" && !req.Mode.IsValid() {
		return req, fmt.Errorf("invalid mode. Must be one of: %s, %s, %s", ModeWalking, ModeBiking, ModeAuto)
	}
	return req, nil
}

func buildRouteResponse(route *Route) RouteResponse {
	resp := RouteResponse{
		Duration: route.Duration,
		Distance: route.TotalDistance(),
		Points:   len(route.Points),
		Mode:     route.Mode,
	}
	for i, m := range route.Maneuvers {
		resp.Steps = append(resp.Steps, RouteStep{
			Number:      i + 1,
			Description: m.Instruction,
			Distance:    m.Length,
			TurnType:    m.TurnType,
			StreetName:  m.StreetName,
			PointOffset: m.Offset,
		})
	}
	return resp
}

// HandleLocation handles the /nav/location endpoint. The body is either
// "lat,lng" as plain text or a JSON object with lat and lon.
func (h *Handlers) HandleLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var sample watch.LocationSample
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(body, &sample); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid location: %v", err))
			return
		}
	} else {
		sample.Lat, sample.Lon, err = parseLatLng(strings.TrimSpace(string(body)))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid location: %v", err))
			return
		}
	}

	h.locations.Publish(sample)
	w.WriteHeader(http.StatusAccepted)
}
