package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/dronepanel/internal/model"
	"golang.org/x/sync/errgroup"
)

// Update handles messages
func (m *PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case videoTickMsg:
		return m, m.handleVideoTick(msg)

	case videoStatusMsg:
		return m, m.handleVideoStatus(msg)

	case frameLoadedMsg:
		m.handleFrameLoaded(msg)
		return m, nil

	case photoTickMsg:
		return m, m.handlePhotoTick()

	case photoProbeMsg:
		m.handlePhotoProbe(msg)
		return m, nil

	case SelectLiveMsg:
		return m, m.selectLive()

	case SelectPhotoMsg:
		ok := m.selectPhoto(msg.Index)
		if msg.Result != nil {
			select {
			case msg.Result <- ok:
			default:
			}
		}
		return m, nil
	}

	return m, nil
}

// handleVideoTick runs one video refresher cycle. Ticks from a superseded
// generation are dropped.
func (m *PanelModel) handleVideoTick(msg videoTickMsg) tea.Cmd {
	if msg.gen != m.videoGen {
		return nil
	}

	query, delay := m.presenter.BeginVideoTick()
	if !query {
		slog.Debug("tui: picture on monitor, skipping status check", "next", delay)
		m.nextVideoIn = delay
		return m.after(delay, videoTickMsg{gen: m.videoGen})
	}

	m.videoInFlight = true
	return m.checkStatusCmd(m.videoGen)
}

// checkStatusCmd resolves both status flags before reporting back.
func (m *PanelModel) checkStatusCmd(gen uint64) tea.Cmd {
	ctx := m.ctx
	dev := m.device
	return func() tea.Msg {
		var st model.DeviceStatus
		var g errgroup.Group
		g.Go(func() error {
			st.VideoOn = dev.IsVideoOn(ctx)
			return nil
		})
		g.Go(func() error {
			st.FrameAvailable = dev.IsFrameAvailable(ctx)
			return nil
		})
		_ = g.Wait()
		return videoStatusMsg{gen: gen, status: st}
	}
}

func (m *PanelModel) handleVideoStatus(msg videoStatusMsg) tea.Cmd {
	if msg.gen != m.videoGen {
		return nil
	}
	m.videoInFlight = false

	now := m.now()
	d := m.presenter.ApplyStatus(msg.status)
	m.nextVideoIn = d.Delay
	if d.Touched {
		m.stats.recordStatus(now, d.Live)
	}

	var cmds []tea.Cmd
	switch {
	case d.Live:
		m.consecutiveDown = 0
		cmds = append(cmds, m.loadFrameCmd(m.presenter.Viewer().Token, d.Source))
	case d.Touched:
		m.consecutiveDown++
		slog.Debug("tui: cannot display video stream",
			"video_on", msg.status.VideoOn, "frame_available", msg.status.FrameAvailable)
	}

	m.publish()
	cmds = append(cmds, m.after(d.Delay, videoTickMsg{gen: m.videoGen}))
	return tea.Batch(cmds...)
}

func (m *PanelModel) loadFrameCmd(token int64, url string) tea.Cmd {
	ctx := m.ctx
	dev := m.device
	return func() tea.Msg {
		img, err := dev.LoadImage(ctx, url)
		return frameLoadedMsg{token: token, url: url, img: img, err: err}
	}
}

// handleFrameLoaded shows a live frame unless the viewer has been pinned,
// has fallen back to the placeholder, or already shows a newer frame.
// Frames requested before the last unpin carry a token at or below
// viewerImageToken and are dropped too.
func (m *PanelModel) handleFrameLoaded(msg frameLoadedMsg) {
	if msg.err != nil {
		m.noteError(msg.err)
		slog.Debug("tui: frame load failed", "url", msg.url, "err", msg.err)
		return
	}
	viewer := m.presenter.Viewer()
	if m.presenter.Pinned() || viewer.Unavailable {
		return
	}
	if msg.token <= m.viewerImageToken || msg.token > viewer.Token {
		return
	}
	m.viewerImage = msg.img
	m.viewerImageToken = msg.token
	m.stats.recordFrame(m.now())
}

// handlePhotoTick probes every slot and schedules the next cycle without
// waiting for any probe.
func (m *PanelModel) handlePhotoTick() tea.Cmd {
	reqs := m.presenter.BeginPhotoTick()
	cmds := make([]tea.Cmd, 0, len(reqs)+1)
	for _, r := range reqs {
		cmds = append(cmds, m.probePhotoCmd(r.Index, r.URL))
	}
	cmds = append(cmds, m.after(m.presenter.Config().Photo, photoTickMsg{}))
	return tea.Batch(cmds...)
}

func (m *PanelModel) probePhotoCmd(index int, url string) tea.Cmd {
	ctx := m.ctx
	dev := m.device
	return func() tea.Msg {
		img, err := dev.LoadImage(ctx, url)
		return photoProbeMsg{index: index, url: url, img: img, err: err}
	}
}

func (m *PanelModel) handlePhotoProbe(msg photoProbeMsg) {
	ok := msg.err == nil && msg.img != nil
	m.stats.recordProbe(ok)
	if m.presenter.ApplyProbe(msg.index, msg.url, ok) {
		m.publish()
	}
	if ok && msg.index >= 0 && msg.index < len(m.slotImages) {
		m.slotImages[msg.index] = msg.img
	}
}

// selectLive unpins the viewer. Resuming starts a fresh video cycle right
// away and retires the idle one that was scheduled while pinned.
func (m *PanelModel) selectLive() tea.Cmd {
	resumed := m.presenter.SelectLive()
	m.publish()
	if !resumed {
		return nil
	}
	m.videoGen++
	m.videoInFlight = false
	m.viewerImageToken = m.presenter.Viewer().Token
	gen := m.videoGen
	return func() tea.Msg { return videoTickMsg{gen: gen} }
}

// selectPhoto pins slot index and shows its image at once.
func (m *PanelModel) selectPhoto(index int) bool {
	if !m.presenter.SelectPhoto(index) {
		return false
	}
	m.viewerImage = m.slotImages[index]
	m.viewerImageToken = 0
	m.publish()
	return true
}

// stepPhoto moves the selection to the next selectable slot in direction dir.
func (m *PanelModel) stepPhoto(dir int) {
	slots := m.presenter.Slots()
	n := len(slots)
	if n == 0 {
		return
	}
	start := -1
	if sel := m.presenter.Selected(); sel.Kind == model.SelectionPhoto {
		start = sel.Slot
	} else if dir < 0 {
		start = n
	}
	for step := 1; step <= n; step++ {
		i := ((start+dir*step)%n + n) % n
		if slots[i].Selectable() {
			m.selectPhoto(i)
			return
		}
	}
}

func (m *PanelModel) noteError(err error) {
	if err == nil {
		return
	}
	m.lastError = err.Error()
	m.lastErrorAt = m.now()
}

// handleKeyPress processes keyboard input
func (m *PanelModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Live):
		return m, m.selectLive()
	case key.Matches(msg, m.keys.Photo):
		// Keys 1-9 address slots 0-8.
		m.selectPhoto(int(msg.String()[0] - '1'))
		return m, nil
	case key.Matches(msg, m.keys.NextPhoto):
		m.stepPhoto(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevPhoto):
		m.stepPhoto(-1)
		return m, nil
	}
	return m, nil
}

// handleMouseEvent maps left clicks to the viewer or a thumbnail.
func (m *PanelModel) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	return m.handleMouseClick(msg.X, msg.Y)
}

// handleMouseClick resolves a click through the same layout used to render.
func (m *PanelModel) handleMouseClick(x, y int) (tea.Model, tea.Cmd) {
	if m.width <= 0 || m.height <= 0 {
		return m, nil
	}
	l := computeLayout(m.width, m.height, len(m.slotImages))
	if l.viewer.contains(x, y) {
		return m, m.selectLive()
	}
	for i, r := range l.thumbs {
		if r.contains(x, y) {
			m.selectPhoto(i)
			return m, nil
		}
	}
	return m, nil
}

// statusAge is how long the last error stays on the status line.
const statusAge = 30 * time.Second

func (m *PanelModel) currentError() string {
	if m.lastError == "" || m.now().Sub(m.lastErrorAt) > statusAge {
		return ""
	}
	return m.lastError
}
