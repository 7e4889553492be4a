// Package pb holds the gRPC bindings of the soil node control API.
//
// The service only exchanges protobuf well-known types, so the grpc plugin
// is the only generator needed.
package pb

//go:generate protoc -I ../../../api --go-grpc_out=../../.. --go-grpc_opt=module=github.com/oshokin/soil-node soilnode/v1/pump.proto
