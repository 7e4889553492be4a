// Package client holds the commands shared by the pump-on, pump-off and
// soil-probe binaries.
//
// Switch pushes a pump command to the node and keeps retrying until the node
// confirms it. Probe optionally requests a sample and reads the last payload.
package client
