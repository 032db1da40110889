package watch

import (
	"fmt"
	"log"
	"strings"
)

// LogObserver writes diagnostics to a logger.
type LogObserver struct {
	Logger *log.Logger
}

func (o LogObserver) Notify(msg string) {
	if o.Logger == nil {
		log.Printf("[session] %s", msg)
		return
	}
	o.Logger.Printf("[session] %s", msg)
}

// NopObserver discards diagnostics.
type NopObserver struct{}

func (NopObserver) Notify(string) {}

func describeStep(step *StepSnapshot) string {
	if step == nil {
		return "none"
	}
	desc := fmt.Sprintf("%s %.0fm", step.TurnType, step.DistanceToManeuver)
	if step.StreetName != "" {
		desc += " on " + step.StreetName
	}
	return desc
}

func describeObject(obj MapObject) string {
	pairs := make([]string, 0, len(obj.Tags))
	for _, tag := range obj.Tags {
		pairs = append(pairs, tag.Key+"="+tag.Value)
	}
	return fmt.Sprintf("%s [%s]", obj.Name, strings.Join(pairs, ", "))
}
