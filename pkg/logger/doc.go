// Package logger wraps zerolog behind a small Logger interface with
// structured fields, console output, and optional rotating file output.
package logger
