// Package version exposes build metadata for the soil node binaries.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// Short and Full render them for CLI output and logs.
package version
