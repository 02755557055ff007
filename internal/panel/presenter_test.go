package panel

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tinytelemetry/dronepanel/internal/model"
)

type fakeURLs struct{}

func (fakeURLs) FrameURL(token int64) string { return fmt.Sprintf("app/videoframe?t=%d", token) }
func (fakeURLs) PhotoURL(index int, token int64) string {
	return fmt.Sprintf("app/photo/%d?t=%d", index, token)
}

func newTestPresenter(t *testing.T, clock time.Time) *Presenter {
	t.Helper()
	p := NewPresenter(model.DefaultPollingConfig(), fakeURLs{}, 9)
	p.now = func() time.Time { return clock }
	return p
}

var live = model.DeviceStatus{VideoOn: true, FrameAvailable: true}

func TestApplyStatus_LiveShowsFrameAndUsesShortInterval(t *testing.T) {
	t.Parallel()

	clock := time.UnixMilli(1_700_000_000_000)
	p := newTestPresenter(t, clock)

	if query, _ := p.BeginVideoTick(); !query {
		t.Fatal("unpinned tick should query status")
	}
	d := p.ApplyStatus(live)

	want := fmt.Sprintf("app/videoframe?t=%d", clock.UnixMilli())
	if d.Source != want || p.Viewer().Source != want {
		t.Fatalf("viewer source = %q, want %q", p.Viewer().Source, want)
	}
	if d.Delay != 50*time.Millisecond {
		t.Fatalf("delay = %s, want 50ms", d.Delay)
	}
	if p.Viewer().Unavailable {
		t.Fatal("viewer still marked unavailable")
	}
}

func TestApplyStatus_VideoOffShowsPlaceholder(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	p.ApplyStatus(live)

	for _, st := range []model.DeviceStatus{
		{VideoOn: false, FrameAvailable: true},
		{VideoOn: true, FrameAvailable: false},
		{},
	} {
		d := p.ApplyStatus(st)
		if p.Viewer().Source != model.PlaceholderSource || !p.Viewer().Unavailable {
			t.Fatalf("status %+v: viewer = %+v, want placeholder", st, p.Viewer())
		}
		if d.Delay != 2*time.Second {
			t.Fatalf("status %+v: delay = %s, want 2s", st, d.Delay)
		}
	}
}

func TestTokensStrictlyIncrease(t *testing.T) {
	t.Parallel()

	// A frozen clock still has to yield increasing tokens.
	p := newTestPresenter(t, time.UnixMilli(5000))

	var prev int64
	for i := range 20 {
		p.ApplyStatus(live)
		tok := p.Viewer().Token
		if tok <= prev {
			t.Fatalf("tick %d: token %d not greater than %d", i, tok, prev)
		}
		if !strings.HasSuffix(p.Viewer().Source, fmt.Sprintf("t=%d", tok)) {
			t.Fatalf("tick %d: source %q does not carry token %d", i, p.Viewer().Source, tok)
		}
		prev = tok
		if i%3 == 0 {
			p.BeginPhotoTick()
		}
	}
}

func TestPinnedViewerIsNotTouched(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	p.ApplyProbe(2, "app/photo/2?t=1", true)
	if !p.SelectPhoto(2) {
		t.Fatal("SelectPhoto(2) failed on a visible slot")
	}
	pinned := p.Viewer()

	query, delay := p.BeginVideoTick()
	if query {
		t.Fatal("pinned tick should skip status checks")
	}
	if delay != p.Config().VideoInactive {
		t.Fatalf("pinned delay = %s, want %s", delay, p.Config().VideoInactive)
	}

	// A status result that was in flight when the pin happened.
	d := p.ApplyStatus(live)
	if d.Touched || p.Viewer() != pinned {
		t.Fatalf("pinned viewer changed: %+v -> %+v", pinned, p.Viewer())
	}
	p.ApplyStatus(model.DeviceStatus{})
	if p.Viewer() != pinned {
		t.Fatalf("pinned viewer changed by unavailable status: %+v", p.Viewer())
	}
}

func TestPinnedIntervalPolicies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		policy model.PinnedPolicy
		want   time.Duration
	}{
		{model.PinnedPolicyLong, 2 * time.Second},
		{model.PinnedPolicyShort, 50 * time.Millisecond},
		{model.PinnedPolicyCustom, 750 * time.Millisecond},
	}
	for _, tc := range cases {
		cfg := model.DefaultPollingConfig()
		cfg.PictureOnMonitor = 750 * time.Millisecond
		cfg.PinnedPolicy = tc.policy
		p := NewPresenter(cfg, fakeURLs{}, 3)
		p.ApplyProbe(0, "app/photo/0?t=1", true)
		p.SelectPhoto(0)
		if _, got := p.BeginVideoTick(); got != tc.want {
			t.Errorf("policy %s: delay = %s, want %s", tc.policy, got, tc.want)
		}
	}
}

func TestSelectPhotoCopiesSourceSynchronously(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	p.ApplyStatus(model.DeviceStatus{})
	p.ApplyProbe(4, "app/photo/4?t=9", true)

	if !p.SelectPhoto(4) {
		t.Fatal("SelectPhoto(4) = false")
	}
	if !p.Pinned() {
		t.Fatal("viewer not pinned after thumbnail click")
	}
	if got := p.Viewer().Source; got != "app/photo/4?t=9" {
		t.Fatalf("viewer source = %q, want thumbnail source", got)
	}
	if p.Viewer().Unavailable {
		t.Fatal("pinned photo still shows the placeholder indicator")
	}
	if sel := p.Selected(); sel != model.PhotoSelection(4) {
		t.Fatalf("selected = %+v, want photo 4", sel)
	}
}

func TestSelectPhotoPinsHiddenSlotWithSource(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	p.ApplyProbe(4, "app/photo/4?t=1", true)
	p.ApplyProbe(4, "app/photo/4?t=2", false)

	if !p.SelectPhoto(4) {
		t.Fatal("SelectPhoto(4) on a dimmed slot = false")
	}
	if got := p.Viewer().Source; got != "app/photo/4?t=1" {
		t.Fatalf("viewer source = %q, want last loaded source", got)
	}
	if !p.Pinned() || p.Viewer().Unavailable {
		t.Fatalf("viewer = %+v pinned=%v, want pinned photo", p.Viewer(), p.Pinned())
	}
}

func TestSelectPhotoIgnoresEmptyAndUnknownSlots(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	for _, idx := range []int{-1, 0, 9} {
		if p.SelectPhoto(idx) {
			t.Errorf("SelectPhoto(%d) succeeded", idx)
		}
	}
	if p.Pinned() || p.Selected() != model.LiveSelection() {
		t.Fatal("state changed by ignored selection")
	}
}

func TestSelectLiveUnpins(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	p.ApplyProbe(1, "app/photo/1?t=1", true)
	p.SelectPhoto(1)

	if !p.SelectLive() {
		t.Fatal("SelectLive should report the viewer was pinned")
	}
	if p.Pinned() {
		t.Fatal("still pinned after viewer click")
	}
	if p.Selected() != model.LiveSelection() {
		t.Fatalf("selected = %+v, want live", p.Selected())
	}
	if query, _ := p.BeginVideoTick(); !query {
		t.Fatal("video refresher did not resume")
	}
	if p.SelectLive() {
		t.Fatal("second SelectLive should report not pinned")
	}
}

func TestExactlyOneSelection(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	for i := range 9 {
		p.ApplyProbe(i, fmt.Sprintf("app/photo/%d?t=1", i), true)
	}
	for _, i := range []int{0, 5, 8, 2} {
		p.SelectPhoto(i)
		snap := p.Snapshot()
		if snap.Selected.Kind != model.SelectionPhoto || snap.Selected.Slot == nil || *snap.Selected.Slot != i {
			t.Fatalf("selected = %+v, want photo %d", snap.Selected, i)
		}
	}
	p.SelectLive()
	if snap := p.Snapshot(); snap.Selected.Kind != model.SelectionLive || snap.Selected.Slot != nil {
		t.Fatalf("selected = %+v, want live", snap.Selected)
	}
}

func TestPhotoTick_FailedProbeHidesOnlyThatSlot(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.UnixMilli(1000))
	reqs := p.BeginPhotoTick()
	if len(reqs) != 9 {
		t.Fatalf("probe requests = %d, want 9", len(reqs))
	}
	for _, r := range reqs {
		if want := fmt.Sprintf("app/photo/%d?t=1000", r.Index); r.URL != want {
			t.Fatalf("probe url = %q, want %q", r.URL, want)
		}
		p.ApplyProbe(r.Index, r.URL, true)
	}

	// Next tick: slot 3 answers 404, results arrive out of order.
	reqs = p.BeginPhotoTick()
	for i := len(reqs) - 1; i >= 0; i-- {
		r := reqs[i]
		p.ApplyProbe(r.Index, r.URL, r.Index != 3)
	}

	for _, s := range p.Slots() {
		if s.Index == 3 {
			if s.Visible {
				t.Fatal("slot 3 visible after failed probe")
			}
			continue
		}
		if !s.Visible || s.Source != reqs[s.Index].URL {
			t.Fatalf("slot %d = %+v, want visible with %q", s.Index, s, reqs[s.Index].URL)
		}
	}
}

func TestApplyProbeIgnoresUnknownSlot(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	if p.ApplyProbe(42, "x", true) || p.ApplyProbe(-1, "x", true) {
		t.Fatal("ApplyProbe on unknown slot reported a change")
	}
}

func TestMirrorPublish(t *testing.T) {
	t.Parallel()

	p := newTestPresenter(t, time.Now())
	m := NewMirror()
	p.ApplyStatus(live)
	m.Publish(p.Snapshot())

	snap := m.Snapshot()
	if snap.Viewer.Source != p.Viewer().Source || !snap.LastStatus.VideoOn {
		t.Fatalf("mirror snapshot = %+v", snap)
	}
	if len(snap.Slots) != 9 {
		t.Fatalf("mirror slots = %d, want 9", len(snap.Slots))
	}
}
