// Package simulated provides a bench stand-in for the probe and the pump.
//
// Both drivers share a Soil model: the soil slowly dries between cycles and
// gets wetter while the pump runs, so the node's readings react to its own
// switch commands.
package simulated
