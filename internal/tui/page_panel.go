package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PanelPageID identifies the live control panel page.
const PanelPageID = "panel"

// PanelPage wraps a PanelModel as a Page.
type PanelPage struct {
	model *PanelModel
}

// NewPanelPage creates the panel page.
func NewPanelPage(m *PanelModel) *PanelPage {
	return &PanelPage{model: m}
}

func (p *PanelPage) ID() string { return PanelPageID }

func (p *PanelPage) Init() tea.Cmd {
	return p.model.Init()
}

func (p *PanelPage) Update(msg tea.Msg, active bool) (tea.Cmd, *PageNav) {
	if km, ok := msg.(tea.KeyMsg); ok && active && key.Matches(km, p.model.keys.Help) {
		return nil, &PageNav{PageID: HelpPageID}
	}
	_, cmd := p.model.Update(msg)
	return cmd, nil
}

// View renders the panel at the size last delivered by tea.WindowSizeMsg.
func (p *PanelPage) View(_, _ int) string {
	return p.model.View()
}
