package soil

import (
	"fmt"
	"strings"
)

// SwitchCommand is the requested state of the water pump.
// Values other than SwitchOff and SwitchOn can travel on the bus
// and are rejected by the controller.
type SwitchCommand int

const (
	// SwitchOff stops the pump.
	SwitchOff SwitchCommand = iota
	// SwitchOn runs the pump.
	SwitchOn
)

// ParseSwitchCommand accepts ON/OFF in any case.
func ParseSwitchCommand(s string) (SwitchCommand, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON":
		return SwitchOn, nil
	case "OFF":
		return SwitchOff, nil
	default:
		return 0, fmt.Errorf("unknown switch command %q", s)
	}
}

// Valid reports whether the command is a known variant.
func (c SwitchCommand) Valid() bool {
	return c == SwitchOff || c == SwitchOn
}

// String implements fmt.Stringer.
func (c SwitchCommand) String() string {
	switch c {
	case SwitchOff:
		return "OFF"
	case SwitchOn:
		return "ON"
	default:
		return fmt.Sprintf("SwitchCommand(%d)", int(c))
	}
}
