// Package debug provides global debug logging flags
package debug

import "fmt"

// Enabled controls whether debug logging is active
var Enabled bool

// Motion controls whether verbose per-frame motion logs are shown.
// The motion tools enable this with -v; these logs are very noisy.
var Motion bool

// Log prints a message only if debug mode is enabled
func Log(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

// Logln prints a message with newline only if debug mode is enabled
func Logln(msg string) {
	if Enabled {
		fmt.Println(msg)
	}
}

// MotionLog prints a message only if motion debug mode is enabled
func MotionLog(format string, args ...interface{}) {
	if Motion {
		fmt.Printf(format, args...)
	}
}
