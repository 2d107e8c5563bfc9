package ui

import (
	"fmt"
	"os"
	"sync/atomic"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

var quietMode atomic.Bool

// SetQuietMode suppresses all output except errors.
func SetQuietMode(quiet bool) {
	quietMode.Store(quiet)
}

// IsQuietMode reports whether quiet mode is enabled.
func IsQuietMode() bool {
	return quietMode.Load()
}

// PrintInfo prints a labeled informational line.
func PrintInfo(label, value string) {
	if IsQuietMode() {
		return
	}
	fmt.Printf("%s%s:%s %s\n", colorCyan, label, colorReset, value)
}

// PrintSuccess prints a success message.
func PrintSuccess(format string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	fmt.Printf(colorGreen+format+colorReset+"\n", args...)
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	fmt.Printf(colorYellow+format+colorReset+"\n", args...)
}

// PrintError prints an error message to stderr. Errors are shown even in
// quiet mode.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, colorRed+format+colorReset+"\n", args...)
}
