package util

import (
	"os"

	"github.com/fatih/color"
)

// IsTTY returns true if f is a terminal.
func IsTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// InitColor configures color output based on flags and terminal detection.
// Status lines go to stderr, so that is the stream checked.
func InitColor(noColor bool) {
	if noColor || !IsTTY(os.Stderr) {
		color.NoColor = true
	}
}
