package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderLoadingPlaceholder renders an animated waiting indicator.
// The frame is selected from the current time so it animates on re-render;
// the video loop re-renders at least every inactive interval.
func renderLoadingPlaceholder(text string, width, height int, now time.Time) string {
	frame := spinnerFrames[now.UnixMilli()/120%int64(len(spinnerFrames))]

	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, loadingStyle.Render(frame+" "+text))
}
