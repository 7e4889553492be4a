// Package waterswitch drives the water pump from commands on the water
// switch channel. The pump output is configured on the first command.
package waterswitch
