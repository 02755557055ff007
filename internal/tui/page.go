package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen of the panel (live panel, help).
type Page interface {
	ID() string
	Init() tea.Cmd
	// Update receives every message. Input messages are delivered only
	// while the page is active (active == true); everything else, such as
	// refresh ticks, reaches all pages so background loops keep running.
	Update(msg tea.Msg, active bool) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
