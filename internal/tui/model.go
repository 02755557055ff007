package tui

import (
	"context"
	"image"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/dronepanel/internal/model"
	"github.com/tinytelemetry/dronepanel/internal/panel"
)

// Options configures a PanelModel.
type Options struct {
	Polling model.PollingConfig
	Slots   int
	// Mirror, when set, receives a snapshot after every state change.
	Mirror *panel.Mirror
	// Source names the backend in the header (usually its base URL).
	Source string
}

// ImageState holds the decoded images currently on screen.
type ImageState struct {
	viewerImage      image.Image
	viewerImageToken int64 // token of the live frame in viewerImage, 0 = pinned/none
	slotImages       []image.Image
}

// ErrorState tracks the most recent failure for the status line.
type ErrorState struct {
	lastError       string
	lastErrorAt     time.Time
	consecutiveDown int // consecutive video cycles without a live frame
}

// PanelModel is the Poller/Presenter: it owns the presenter state and runs
// the video and photo refresh loops as self-rescheduling one-shot ticks.
type PanelModel struct {
	ImageState
	ErrorState

	ctx       context.Context
	device    model.Device
	presenter *panel.Presenter
	mirror    *panel.Mirror
	source    string

	keys KeyMap
	help help.Model

	width  int
	height int

	// Video cycle bookkeeping. Only messages carrying the current
	// generation are acted on, so at most one video cycle is alive.
	videoGen      uint64
	nextVideoIn   time.Duration
	videoInFlight bool

	stats StatsTracker
	cache renderCache

	// Injected for tests.
	now   func() time.Time
	after func(d time.Duration, msg tea.Msg) tea.Cmd
}

// videoTickMsg starts a video refresher cycle.
type videoTickMsg struct {
	gen uint64
}

// videoStatusMsg carries both status flags back to the cycle that asked.
type videoStatusMsg struct {
	gen    uint64
	status model.DeviceStatus
}

// frameLoadedMsg carries a decoded live frame.
type frameLoadedMsg struct {
	token int64
	url   string
	img   image.Image
	err   error
}

// photoTickMsg starts a photo refresher cycle.
type photoTickMsg struct{}

// photoProbeMsg carries the result of one slot probe.
type photoProbeMsg struct {
	index int
	url   string
	img   image.Image
	err   error
}

// SelectLiveMsg unpins the viewer, as a click on the viewer does.
type SelectLiveMsg struct{}

// SelectPhotoMsg pins photo slot Index, as a click on its thumbnail does.
// When Result is set, it receives whether the slot was pinned; it should
// be buffered.
type SelectPhotoMsg struct {
	Index  int
	Result chan<- bool
}

// NewPanelModel creates the panel model. ctx bounds all device requests.
func NewPanelModel(ctx context.Context, device model.Device, opts Options) *PanelModel {
	if ctx == nil {
		ctx = context.Background()
	}
	slots := opts.Slots
	if slots <= 0 || slots > model.MaxPhotoSlots {
		slots = model.DefaultPhotoSlots
	}
	polling := opts.Polling
	if polling.Validate() != nil {
		polling = model.DefaultPollingConfig()
	}

	m := &PanelModel{
		ImageState: ImageState{
			slotImages: make([]image.Image, slots),
		},
		ctx:       ctx,
		device:    device,
		presenter: panel.NewPresenter(polling, device, slots),
		mirror:    opts.Mirror,
		source:    opts.Source,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		now:       time.Now,
		after: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
	m.stats = newStatsTracker(m.now())
	m.publish()
	return m
}

// Init starts both refresh loops immediately.
func (m *PanelModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return videoTickMsg{gen: m.videoGen} },
		func() tea.Msg { return photoTickMsg{} },
	)
}

// Presenter exposes the underlying state, read-only by convention.
func (m *PanelModel) Presenter() *panel.Presenter {
	return m.presenter
}

func (m *PanelModel) publish() {
	if m.mirror != nil {
		m.mirror.Publish(m.presenter.Snapshot())
	}
}
