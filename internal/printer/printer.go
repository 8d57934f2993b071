// Package printer holds the colored terminal output helpers used by the
// workbench commands.
package printer

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Keep color output on unless the user opts out with NO_COLOR.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	dim    = color.New(color.Faint)
)

// Success prints a success message in green with a checkmark prefix.
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s\n", msg)
		return
	}
	green.Println(msg)
}

// Warning prints a warning message in yellow.
func Warning(format string, a ...any) {
	yellow.Printf("! %s\n", fmt.Sprintf(format, a...))
}

// Error prints the message in red to stderr and returns a plain error
// for Cobra to carry.
func Error(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	red.Fprintf(os.Stderr, "%s\n", msg)
	return fmt.Errorf("%s", msg)
}

// Step prints a progress line for multi-step operations.
func Step(format string, a ...any) {
	cyan.Printf("→ %s\n", fmt.Sprintf(format, a...))
}

// Muted prints secondary detail in faint text.
func Muted(format string, a ...any) {
	dim.Printf("%s\n", fmt.Sprintf(format, a...))
}

// Println prints a plain message.
func Println(a ...any) {
	fmt.Println(a...)
}

// Printf prints a plain formatted message.
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
