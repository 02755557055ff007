package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpPageID identifies the help page.
const HelpPageID = "help"

// HelpPage shows the key bindings and how the panel behaves.
type HelpPage struct {
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	returnTo string
}

// NewHelpPage creates the help page. Closing it returns to returnTo.
func NewHelpPage(keys KeyMap, returnTo string) *HelpPage {
	h := help.New()
	h.ShowAll = true
	return &HelpPage{
		keys:     keys,
		help:     h,
		viewport: viewport.New(0, 0),
		returnTo: returnTo,
	}
}

func (p *HelpPage) ID() string { return HelpPageID }

func (p *HelpPage) Init() tea.Cmd { return nil }

func (p *HelpPage) Update(msg tea.Msg, active bool) (tea.Cmd, *PageNav) {
	if !active {
		return nil, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Escape), key.Matches(msg, p.keys.Help):
			return nil, &PageNav{PageID: p.returnTo}
		case key.Matches(msg, p.keys.Quit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.Up):
			p.viewport.ScrollUp(1)
		case key.Matches(msg, p.keys.Down):
			p.viewport.ScrollDown(1)
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd, nil
	}
	return nil, nil
}

func (p *HelpPage) View(width, height int) string {
	modalWidth := max(20, width-8)
	modalHeight := max(8, height-4)
	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	p.help.Width = contentWidth
	p.viewport.Width = contentWidth
	p.viewport.Height = contentHeight
	p.viewport.SetContent(p.content())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Help")

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render("↑/↓: Scroll | ?/h/ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, p.viewport.View(), statusBar)

	framed := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, framed)
}

func (p *HelpPage) content() string {
	var sb strings.Builder
	sb.WriteString(p.help.View(p.keys))
	sb.WriteString("\n\n")
	sb.WriteString(`VIEWER:
  The large pane shows the live video frame while the device reports
  that video is on and a frame is available. Otherwise it shows the
  placeholder and checks again after the retry interval.

PHOTOS:
  Each slot is probed on every photo refresh. Slots that fail to load
  are dimmed but keep their last photo, which can still be pinned.
  Empty slots cannot be selected.

SELECTION:
  Click a photo (or press its number) to pin it to the viewer. The
  video refresher leaves a pinned viewer alone.
  Click the viewer (or press l) to go back to live video.

MOUSE:
  Left click selects. The selected pane has a thick yellow border.`)
	return sb.String()
}
