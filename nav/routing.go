package nav

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	polyline "github.com/twpayne/go-polyline"

	"github.com/nwah/naviwatch-bridge/watch"
)

type valhallaLocation struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type"`
}

type valhallaRequest struct {
	Locations      []valhallaLocation     `json:"locations"`
	Costing        string                 `json:"costing"`
	Units          string                 `json:"units"`
	CostingOptions map[string]interface{} `json:"costing_options,omitempty"`
}

type valhallaManeuver struct {
	Type            int      `json:"type"`
	Instruction     string   `json:"instruction"`
	StreetNames     []string `json:"street_names"`
	Distance        float64  `json:"length"` // in kilometers
	BeginShapeIndex int      `json:"begin_shape_index"`
	BearingBefore   *float64 `json:"bearing_before"`
	BearingAfter    *float64 `json:"bearing_after"`
}

type valhallaLeg struct {
	Maneuvers []valhallaManeuver `json:"maneuvers"`
	Shape     string             `json:"shape"`
}

type valhallaResponse struct {
	Trip struct {
		Legs    []valhallaLeg `json:"legs"`
		Summary struct {
			Time     float64 `json:"time"`
			Distance float64 `json:"length"`
		} `json:"summary"`
	} `json:"trip"`
}

// ErrNoRoute is returned when Valhalla cannot connect the two locations
type ErrNoRoute struct {
	Reason string
}

func (e *ErrNoRoute) Error() string {
	return fmt.Sprintf("no route found: %s", e.Reason)
}

// Router computes routes with a Valhalla server
type Router struct {
	baseURL    string
	mode       TransportMode
	abbreviate bool
	httpClient *http.Client
}

// NewRouter creates a router for the configured Valhalla endpoint
func NewRouter(cfg NavConfig) *Router {
	mode := cfg.Mode
	if !mode.IsValid() {
		mode = DefaultMode
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds
	}
	return &Router{
		baseURL:    cfg.ValhallaURL,
		mode:       mode,
		abbreviate: cfg.AbbreviateStreets,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

func getTransportMode(mode TransportMode) string {
	switch mode {
	case ModeWalking:
		return "pedestrian"
	case ModeBiking:
		return "bicycle"
	default:
		return "auto"
	}
}

// getTurnType maps a Valhalla maneuver type to a turn identifier
func getTurnType(maneuverType int) string {
	switch maneuverType {
	case 1, 2, 3: // Start, StartRight, StartLeft
		return TurnDepart
	case 4, 5, 6: // Destination
		return TurnArrive
	case 9:
		return TurnSlightRight
	case 23: // Stay right
		return TurnKeepRight
	case 10, 18, 20: // Right, ramp right, exit right
		return TurnRight
	case 11:
		return TurnSharpRight
	case 12, 13: // U-turn
		return TurnUturn
	case 14:
		return TurnSharpLeft
	case 15, 19, 21: // Left, ramp left, exit left
		return TurnLeft
	case 16:
		return TurnSlightLeft
	case 24:
		return TurnKeepLeft
	case 25, 37, 38:
		return TurnMerge
	case 26:
		return TurnRoundabout
	case 27:
		return TurnRoundaboutExit
	case 28, 29:
		return TurnFerry
	default: // Becomes, continue, ramp straight, stay straight
		return TurnContinue
	}
}

// turnAngle returns the signed heading change in degrees, negative for left
// turns, in the range (-180, 180].
func turnAngle(before, after *float64) float64 {
	if before == nil || after == nil {
		return 0
	}
	delta := math.Mod(*after-*before, 360)
	if delta > 180 {
		delta -= 360
	} else if delta <= -180 {
		delta += 360
	}
	return delta
}

// decodeShape decodes a Valhalla shape into route points
func decodeShape(encoded string) ([]watch.LocationSample, error) {
	codec := polyline.Codec{Dim: 2, Scale: shapePrecision}
	coords, _, err := codec.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("error decoding shape: %w", err)
	}

	points := make([]watch.LocationSample, 0, len(coords))
	for _, c := range coords {
		points = append(points, watch.LocationSample{Lat: c[0], Lon: c[1]})
	}
	return points, nil
}

// Route requests a route from Valhalla
func (r *Router) Route(ctx context.Context, req RouteRequest) (*Route, error) {
	mode := req.Mode
	if mode == "" {
		mode = r.mode
	} else if !mode.IsValid() {
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}

	// Create Valhalla request
	vReq := valhallaRequest{
		Locations: []valhallaLocation{
			{
				Lat:  req.FromLat,
				Lon:  req.FromLng,
				Type: "break",
			},
			{
				Lat:  req.ToLat,
				Lon:  req.ToLng,
				Type: "break",
			},
		},
		Costing: getTransportMode(mode),
		Units:   "kilometers",
		CostingOptions: map[string]interface{}{
			getTransportMode(mode): map[string]interface{}{
				"use_display_name": false,
			},
		},
	}

	reqBody, err := json.Marshal(vReq)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request to Valhalla: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("valhalla API returned status %d, failed to read error message: %w", resp.StatusCode, err)
		}

		var valhallaError struct {
			ErrorCode int    `json:"error_code"`
			Error     string `json:"error"`
		}
		if err := json.Unmarshal(errorBody, &valhallaError); err == nil && valhallaError.ErrorCode != 0 {
			if valhallaError.ErrorCode == 170 || valhallaError.ErrorCode == 171 {
				return nil, &ErrNoRoute{Reason: "locations are not connected in the transportation network"}
			}
			return nil, fmt.Errorf("routing error: %s", valhallaError.Error)
		}

		return nil, fmt.Errorf("valhalla API returned status %d: %s", resp.StatusCode, string(errorBody))
	}

	var vResp valhallaResponse
	if err := json.NewDecoder(resp.Body).Decode(&vResp); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if len(vResp.Trip.Legs) == 0 {
		return nil, &ErrNoRoute{Reason: "response has no legs"}
	}

	leg := vResp.Trip.Legs[0]
	points, err := decodeShape(leg.Shape)
	if err != nil {
		return nil, err
	}

	maneuvers := make([]Maneuver, 0, len(leg.Maneuvers))
	for _, m := range leg.Maneuvers {
		street := ""
		if len(m.StreetNames) > 0 {
			street = m.StreetNames[0]
		}
		if r.abbreviate {
			street = abbreviateStreet(street)
		}
		maneuvers = append(maneuvers, Maneuver{
			Offset:      m.BeginShapeIndex,
			TurnType:    getTurnType(m.Type),
			TurnAngle:   turnAngle(m.BearingBefore, m.BearingAfter),
			StreetName:  street,
			Instruction: m.Instruction,
			Length:      m.Distance * 1000,
		})
	}

	route := NewRoute(points, maneuvers)
	route.Mode = mode
	route.Duration = vResp.Trip.Summary.Time
	return route, nil
}
