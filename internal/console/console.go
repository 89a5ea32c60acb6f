// Package console controls terminal color capabilities for the process.
package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// detectedProfile is the color profile termenv detected for stdout at startup.
var detectedProfile = termenv.NewOutput(os.Stdout).ColorProfile()

// SetNoColor forces or restores the lipgloss color profile.
// When enabled, all styled output degrades to plain ASCII.
func SetNoColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(detectedProfile)
}
