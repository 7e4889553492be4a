// Package periph drives real hardware through periph.io: an MCP3008 10-bit
// ADC on an SPI port for the moisture probe and a GPIO line for the pump relay.
package periph
