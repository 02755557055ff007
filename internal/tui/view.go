package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/dronepanel/internal/model"
)

// View renders the panel
func (m *PanelModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing panel..."
	}
	return m.renderPanel(m.width, m.height)
}

func (m *PanelModel) renderPanel(width, height int) string {
	l := computeLayout(width, height, len(m.slotImages))
	if !l.ok {
		return fmt.Sprintf("Terminal too small. Resize to at least %dx%d.", minWidth, minHeight)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderViewer(l.viewer),
		m.renderRightColumn(l),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(width),
		body,
		m.renderStatusLine(width),
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)
}

// renderBranding renders the product name with a gradient.
func renderBranding() string {
	colors := []string{"#F9A825", "#F57F17", "#EF6C00", "#E65100", "#D84315", "#BF360C", "#B71C1C", "#880E4F", "#6A1B9A", "#4527A0"}
	var sb strings.Builder
	for i, ch := range "dronepanel" {
		sb.WriteString(lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(colors[i%len(colors)])).
			Bold(true).
			Render(string(ch)))
	}
	return sb.String()
}

func (m *PanelModel) renderHeader(width int) string {
	base := lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite)
	brand := renderBranding()
	right := base.Render(" " + m.source + " ")
	gap := width - lipgloss.Width(brand) - lipgloss.Width(right) - 1
	if gap < 1 {
		right = ""
		gap = max(0, width-lipgloss.Width(brand)-1)
	}
	return base.Render(" ") + brand + base.Render(strings.Repeat(" ", gap)) + right
}

func (m *PanelModel) boxStyle(selected bool, r rect) lipgloss.Style {
	style := frameStyle
	if selected {
		style = selectedFrameStyle
	}
	iw, ih := r.inner()
	return style.Width(iw).Height(ih).MaxWidth(r.w).MaxHeight(r.h)
}

func (m *PanelModel) renderViewer(r rect) string {
	iw, ih := r.inner()
	viewer := m.presenter.Viewer()
	selected := m.presenter.Selected().Kind == model.SelectionLive

	var label string
	labelStyle := lipgloss.NewStyle().Bold(true)
	switch {
	case m.presenter.Pinned():
		label = labelStyle.Foreground(ColorYellow).Render(fmt.Sprintf("PINNED #%d", m.presenter.Selected().Slot+1)) +
			lipgloss.NewStyle().Foreground(ColorGray).Render("  click or press l for live")
	case viewer.Unavailable:
		label = labelStyle.Foreground(ColorRed).Render("NO VIDEO")
	default:
		label = labelStyle.Foreground(ColorGreen).Render("● LIVE")
	}
	label = lipgloss.NewStyle().MaxWidth(iw).Render(label)

	imgH := max(0, ih-1)
	var content string
	switch {
	case viewer.Unavailable && !m.presenter.Pinned():
		content = lipgloss.Place(iw, imgH, lipgloss.Center, lipgloss.Center,
			placeholderStyle.Render("no video available\n"+model.PlaceholderSource))
	case m.viewerImage != nil:
		content = m.cache.image("viewer", m.viewerImage, iw, imgH, false)
	default:
		content = renderLoadingPlaceholder("waiting for frame", iw, imgH, m.now())
	}

	return m.boxStyle(selected, r).Render(label + "\n" + content)
}

func (m *PanelModel) renderRightColumn(l panelLayout) string {
	var rows []string
	for start := 0; start < len(l.thumbs); start += thumbColumns {
		end := min(start+thumbColumns, len(l.thumbs))
		cells := make([]string, 0, thumbColumns)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderThumb(i, l.thumbs[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	if l.stats.h > 0 {
		rows = append(rows, m.renderStatsPane(l.stats.w, l.stats.h))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *PanelModel) renderThumb(i int, r rect) string {
	iw, ih := r.inner()
	slot, _ := m.presenter.Slot(i)
	sel := m.presenter.Selected()
	selected := sel.Kind == model.SelectionPhoto && sel.Slot == i

	numStyle := lipgloss.NewStyle().Foreground(ColorGray)
	if slot.Visible {
		numStyle = numStyle.Foreground(ColorWhite).Bold(true)
	}
	label := numStyle.Render(strconv.Itoa(i + 1))

	imgH := max(0, ih-1)
	img := m.slotImages[i]
	var content string
	switch {
	case img != nil:
		// Hidden slots keep their last picture, dimmed.
		content = m.cache.image("thumb"+strconv.Itoa(i), img, iw, imgH, !slot.Visible)
	default:
		content = lipgloss.Place(iw, imgH, lipgloss.Center, lipgloss.Center, placeholderStyle.Render("empty"))
	}

	return m.boxStyle(selected, r).Render(label + "\n" + content)
}

// renderStatusLine renders the status line at the bottom of the screen
func (m *PanelModel) renderStatusLine(width int) string {
	base := lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite)
	on := lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorGreen)
	off := lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorRed)

	flag := func(name string, v bool) string {
		if v {
			return base.Render(name+" ") + on.Render("yes")
		}
		return base.Render(name+" ") + off.Render("no")
	}

	st := m.presenter.LastStatus()
	mode := "live"
	if m.presenter.Pinned() {
		mode = "pinned"
	}

	parts := []string{
		flag("video", st.VideoOn),
		flag("frame", st.FrameAvailable),
		base.Render("mode " + mode),
		base.Render("next " + m.nextVideoIn.String()),
	}
	if m.consecutiveDown > 0 {
		parts = append(parts, off.Render(fmt.Sprintf("down x%d", m.consecutiveDown)))
	}
	if e := m.currentError(); e != "" {
		parts = append(parts, off.Render("last error: "+e))
	}

	sep := base.Render(" │ ")
	line := base.Render(" ") + strings.Join(parts, sep)
	return base.Width(width).MaxWidth(width).Render(line)
}
