// Package channels declares the bus channels shared by the node components.
package channels

import (
	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/domain/soil"
)

// Channel names as they appear in logs and errors.
const (
	TriggerName     = "trigger"
	PayloadName     = "payload"
	WaterSwitchName = "water_switch"
)

// Channels holds every channel of the node. They are created once at startup
// and live as long as the process.
type Channels struct {
	// Trigger asks the sampler for one acquisition cycle.
	Trigger *bus.Channel[soil.Trigger]
	// Payload carries encoded moisture readings.
	Payload *bus.Channel[soil.Payload]
	// WaterSwitch carries pump commands.
	WaterSwitch *bus.Channel[soil.SwitchCommand]
}

// New creates the node channels.
func New() *Channels {
	return &Channels{
		Trigger:     bus.NewChannel[soil.Trigger](TriggerName),
		Payload:     bus.NewChannel[soil.Payload](PayloadName),
		WaterSwitch: bus.NewChannel[soil.SwitchCommand](WaterSwitchName),
	}
}
