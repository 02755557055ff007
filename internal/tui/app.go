package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      []Page
	index      map[string]int
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	a := &App{
		pages: pages,
		index: make(map[string]int, len(pages)),
	}
	for i, p := range pages {
		a.index[p.ID()] = i
		if i == 0 {
			a.activePage = p.ID()
		}
	}
	return a
}

// Init starts every page once. Pages are not re-initialised on navigation,
// so refresh loops started here are never duplicated.
func (a *App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.pages))
	for _, p := range a.pages {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

// ActivePage returns the ID of the page receiving input.
func (a *App) ActivePage() string {
	return a.activePage
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
		return a, tea.Quit
	}

	input := isInput(msg)
	var cmds []tea.Cmd
	var nav *PageNav
	for _, p := range a.pages {
		active := p.ID() == a.activePage
		if input && !active {
			continue
		}
		cmd, n := p.Update(msg, active)
		cmds = append(cmds, cmd)
		if active && n != nil {
			nav = n
		}
	}

	if nav != nil {
		if _, exists := a.index[nav.PageID]; exists {
			a.activePage = nav.PageID
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	if i, ok := a.index[a.activePage]; ok {
		return a.pages[i].View(a.width, a.height)
	}
	return "No active page"
}

func isInput(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		return true
	}
	return false
}
