// Package hardware declares the narrow interfaces the sampler and the water
// switch use to reach the ADC and the pump GPIO. Drivers resolve a handle
// once; an unresolved handle is simply absent and every operation on it fails
// with ErrHandleAbsent.
//
// Backends live in the periph (Linux SPI/GPIO) and simulated subpackages.
package hardware
