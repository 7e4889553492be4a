// Package logger wraps zap for the soil node binaries.
//
// A sugared logger travels inside context.Context, so the sampler, the water
// switch and the control API log with their own names and fields without
// passing loggers around. Output goes to stdout and, when configured, to a
// size-rotated file.
package logger
