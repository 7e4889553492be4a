// Package sampler turns trigger messages into moisture payloads.
//
// The sampler owns the ADC handle. On every trigger it acquires a batch of
// raw conversions, averages them, maps the mean onto a 0..100 scale between
// the dry and wet calibration points and publishes the encoded reading on the
// payload channel. A reading that cannot be encoded or published is a fault
// reported to the node.
package sampler
