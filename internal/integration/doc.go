// Package integration runs a simulated soil node end to end through its
// gRPC API and the client commands.
package integration
