// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the soil node with timeouts and
// a helper to detect the current system actor (hostname/username) for the
// node's audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
