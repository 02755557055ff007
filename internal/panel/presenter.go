// Package panel holds the state of the control panel: the viewer, the photo
// grid, and which element is selected. It decides what each refresh tick
// does but never performs I/O or schedules anything itself; the caller runs
// the queries and timers and feeds results back in.
//
// A Presenter is not safe for concurrent use. It is owned by a single
// event loop.
package panel

import (
	"time"

	"github.com/tinytelemetry/dronepanel/internal/model"
)

// Presenter owns the panel state shared by the refreshers and the selection handler.
type Presenter struct {
	cfg  model.PollingConfig
	urls model.URLBuilder
	now  func() time.Time

	view       model.ViewState
	viewer     model.Viewer
	slots      []model.PhotoSlot
	selected   model.Selection
	lastStatus model.DeviceStatus
	lastToken  int64
}

// VideoDecision is the outcome of one video refresher cycle.
type VideoDecision struct {
	Delay   time.Duration // until the next cycle
	Touched bool          // viewer was updated
	Live    bool          // viewer now follows a fresh frame
	Source  string
}

// ProbeRequest asks the caller to probe one photo slot.
type ProbeRequest struct {
	Index int
	URL   string
}

// NewPresenter creates a presenter with slots photo slots, all hidden, and
// the live control selected.
func NewPresenter(cfg model.PollingConfig, urls model.URLBuilder, slots int) *Presenter {
	if slots <= 0 {
		slots = model.DefaultPhotoSlots
	}
	p := &Presenter{
		cfg:      cfg,
		urls:     urls,
		now:      time.Now,
		slots:    make([]model.PhotoSlot, slots),
		selected: model.LiveSelection(),
		viewer: model.Viewer{
			Source:      model.PlaceholderSource,
			Unavailable: true,
		},
	}
	for i := range p.slots {
		p.slots[i].Index = i
	}
	return p
}

// Config returns the polling configuration.
func (p *Presenter) Config() model.PollingConfig { return p.cfg }

// nextToken returns a cache-busting token: wall-clock milliseconds, bumped
// when needed so that it is strictly greater than every earlier token.
func (p *Presenter) nextToken() int64 {
	t := p.now().UnixMilli()
	if t <= p.lastToken {
		t = p.lastToken + 1
	}
	p.lastToken = t
	return t
}

// BeginVideoTick reports whether this cycle must query the device status.
// When a photo is pinned it returns false and the delay until the next cycle.
func (p *Presenter) BeginVideoTick() (query bool, delay time.Duration) {
	if p.view.PictureOnMonitor {
		return false, p.cfg.PinnedInterval()
	}
	return true, 0
}

// ApplyStatus completes a video cycle with both status flags resolved.
// A viewer pinned while the query was in flight is left untouched.
func (p *Presenter) ApplyStatus(st model.DeviceStatus) VideoDecision {
	p.lastStatus = st

	if p.view.PictureOnMonitor {
		return VideoDecision{Delay: p.cfg.PinnedInterval(), Source: p.viewer.Source}
	}

	if st.Live() {
		token := p.nextToken()
		p.viewer = model.Viewer{
			Source:      p.urls.FrameURL(token),
			Unavailable: false,
			Token:       token,
		}
		return VideoDecision{Delay: p.cfg.VideoActive, Touched: true, Live: true, Source: p.viewer.Source}
	}

	p.viewer.Source = model.PlaceholderSource
	p.viewer.Unavailable = true
	return VideoDecision{Delay: p.cfg.VideoInactive, Touched: true, Source: p.viewer.Source}
}

// BeginPhotoTick returns one probe per slot, all sharing a fresh token.
func (p *Presenter) BeginPhotoTick() []ProbeRequest {
	token := p.nextToken()
	reqs := make([]ProbeRequest, len(p.slots))
	for i := range p.slots {
		reqs[i] = ProbeRequest{Index: i, URL: p.urls.PhotoURL(i, token)}
	}
	return reqs
}

// ApplyProbe records the result of probing url for slot index. A successful
// probe shows the slot with that source; a failed one hides it. Results for
// unknown slots are ignored. It reports whether the slot changed.
func (p *Presenter) ApplyProbe(index int, url string, ok bool) bool {
	if index < 0 || index >= len(p.slots) {
		return false
	}
	s := &p.slots[index]
	before := *s
	if ok {
		s.Visible = true
		s.Source = url
	} else {
		s.Visible = false
	}
	return *s != before
}

// SelectLive unpins the viewer so the video refresher resumes on its next
// cycle. It reports whether the viewer was pinned.
func (p *Presenter) SelectLive() bool {
	wasPinned := p.view.PictureOnMonitor
	p.view.PictureOnMonitor = false
	p.selected = model.LiveSelection()
	return wasPinned
}

// SelectPhoto pins slot index to the viewer and copies its source
// immediately. Slots that never loaded and unknown slots are not selectable.
func (p *Presenter) SelectPhoto(index int) bool {
	if index < 0 || index >= len(p.slots) || !p.slots[index].Selectable() {
		return false
	}
	p.view.PictureOnMonitor = true
	p.selected = model.PhotoSelection(index)
	p.viewer.Source = p.slots[index].Source
	p.viewer.Unavailable = false
	return true
}

// Pinned reports whether a still photo occupies the viewer.
func (p *Presenter) Pinned() bool { return p.view.PictureOnMonitor }

// Viewer returns the current viewer state.
func (p *Presenter) Viewer() model.Viewer { return p.viewer }

// Selected returns the highlighted element.
func (p *Presenter) Selected() model.Selection { return p.selected }

// Slots returns a copy of the photo slots.
func (p *Presenter) Slots() []model.PhotoSlot {
	return append([]model.PhotoSlot(nil), p.slots...)
}

// Slot returns slot index.
func (p *Presenter) Slot(index int) (model.PhotoSlot, bool) {
	if index < 0 || index >= len(p.slots) {
		return model.PhotoSlot{}, false
	}
	return p.slots[index], true
}

// LastStatus returns the flags seen by the most recent video cycle.
func (p *Presenter) LastStatus() model.DeviceStatus { return p.lastStatus }

// Snapshot returns a serialisable copy of the state.
func (p *Presenter) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		PictureOnMonitor: p.view.PictureOnMonitor,
		Viewer: model.ViewerJSON{
			Source:      p.viewer.Source,
			Unavailable: p.viewer.Unavailable,
			Token:       p.viewer.Token,
		},
		Selected:   model.SelectionJSON{Kind: p.selected.Kind},
		Slots:      make([]model.SlotJSON, len(p.slots)),
		LastStatus: model.StatusJSON{VideoOn: p.lastStatus.VideoOn, FrameAvailable: p.lastStatus.FrameAvailable},
		UpdatedAt:  p.now(),
	}
	if p.selected.Kind == model.SelectionPhoto {
		slot := p.selected.Slot
		snap.Selected.Slot = &slot
	}
	for i, s := range p.slots {
		snap.Slots[i] = model.SlotJSON{Index: s.Index, Visible: s.Visible, Source: s.Source}
	}
	return snap
}
