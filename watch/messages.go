package watch

// MessageKind identifies the type of a message exchanged with the device.
type MessageKind string

const (
	KindRouteStarted       MessageKind = "RouteStarted"
	KindStepArrival        MessageKind = "StepArrival"
	KindRouteCancelled     MessageKind = "RouteCancelled"
	KindPositionRequest    MessageKind = "PositionRequest"
	KindPositionRequestAck MessageKind = "PositionRequestAck" // reserved, never sent
)

// Payload keys shared with the companion device.
const (
	KeyTurnType                = "TurnType"
	KeyTurnAngle               = "TurnAngle"
	KeyDistance                = "Distance"
	KeyStreetName              = "StreetName"
	KeyRouteProgressPercentage = "RouteProgressPercentage"
)

// Payload is the body of a notification.
type Payload map[string]any

// NotificationMessage is an outbound message to the companion device.
type NotificationMessage struct {
	Kind    MessageKind
	Payload Payload
}

// InboundMessage is a message received from the companion device. Kind is
// whatever the device declared and is not validated.
type InboundMessage struct {
	Kind    MessageKind
	Payload Payload
}
