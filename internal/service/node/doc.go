// Package node runs the soil node process.
//
// Run wires the bus channels to the sampler, the water switch, the trigger
// source and the gRPC control API, serves optional Prometheus metrics and
// blocks until the context is cancelled or a component reports a fault. A
// fault makes Run return an error so the supervisor restarts the process.
package node
