// Package pump implements the gRPC control API of the soil node.
//
// The API lets an operator or a downstream consumer switch the pump, request
// an immediate sample and read the last moisture payload. Requests are turned
// into bus messages, so the API goes through the same channels as the rest of
// the node. Messages are protobuf well-known types; the service bindings
// live in internal/pb/v1.
package pump
