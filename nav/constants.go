package nav

// TransportMode represents the mode of transportation
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModeBiking  TransportMode = "biking"
	ModeAuto    TransportMode = "auto"
)

// DefaultMode is the default transport mode if none is specified
const DefaultMode = ModeAuto

// IsValid checks if the transport mode is valid
func (m TransportMode) IsValid() bool {
	switch m {
	case ModeWalking, ModeBiking, ModeAuto:
		return true
	default:
		return false
	}
}

// Turn type identifiers understood by the companion app.
const (
	TurnDepart         = "DEPART"
	TurnArrive         = "ARRIVE"
	TurnContinue       = "C"
	TurnLeft           = "TL"
	TurnSlightLeft     = "TSLL"
	TurnSharpLeft      = "TSHL"
	TurnRight          = "TR"
	TurnSlightRight    = "TSLR"
	TurnSharpRight     = "TSHR"
	TurnKeepLeft       = "KL"
	TurnKeepRight      = "KR"
	TurnUturn          = "TU"
	TurnRoundabout     = "RNDB"
	TurnRoundaboutExit = "RNDB_EXIT"
	TurnFerry          = "FERRY"
	TurnMerge          = "MERGE"
)

// shapePrecision is the polyline precision Valhalla encodes shapes with.
const shapePrecision = 1e6

// DefaultTimeoutSeconds bounds a single Valhalla request.
const DefaultTimeoutSeconds = 15
