// Package soil contains the messages exchanged on the node's event bus:
// the sampling Trigger, the encoded moisture Payload and the pump SwitchCommand.
package soil
