package model

import (
	"fmt"
	"time"
)

// PinnedPolicy selects which interval governs the idle tick of the video
// refresher while a still photo is pinned to the viewer.
type PinnedPolicy string

const (
	PinnedPolicyLong   PinnedPolicy = "long"   // reuse the video-inactive interval
	PinnedPolicyShort  PinnedPolicy = "short"  // reuse the video-active interval
	PinnedPolicyCustom PinnedPolicy = "custom" // use PictureOnMonitor
)

// ParsePinnedPolicy validates a policy name from configuration.
func ParsePinnedPolicy(s string) (PinnedPolicy, error) {
	switch p := PinnedPolicy(s); p {
	case PinnedPolicyLong, PinnedPolicyShort, PinnedPolicyCustom:
		return p, nil
	case "":
		return DefaultPinnedPolicy, nil
	default:
		return "", fmt.Errorf("invalid pinned-policy %q (want long, short or custom)", s)
	}
}

// PollingConfig holds the refresh intervals of both refreshers.
type PollingConfig struct {
	VideoActive      time.Duration
	VideoInactive    time.Duration
	Photo            time.Duration
	PictureOnMonitor time.Duration
	PinnedPolicy     PinnedPolicy
}

// DefaultPollingConfig returns the intervals used when nothing is configured.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		VideoActive:      DefaultVideoActiveInterval,
		VideoInactive:    DefaultVideoInactiveInterval,
		Photo:            DefaultPhotoInterval,
		PictureOnMonitor: DefaultPictureOnMonitorInterval,
		PinnedPolicy:     DefaultPinnedPolicy,
	}
}

// Validate rejects non-positive intervals and unknown policies.
func (c PollingConfig) Validate() error {
	checks := []struct {
		name string
		d    time.Duration
	}{
		{"refresh-video-time", c.VideoActive},
		{"refresh-video-disabled-retry-time", c.VideoInactive},
		{"refresh-picture-time", c.Photo},
		{"refresh-picture-on-monitor-time", c.PictureOnMonitor},
	}
	for _, chk := range checks {
		if chk.d <= 0 {
			return fmt.Errorf("invalid %s: %s (must be positive)", chk.name, chk.d)
		}
	}
	if _, err := ParsePinnedPolicy(string(c.PinnedPolicy)); err != nil {
		return err
	}
	return nil
}

// PinnedInterval returns the idle interval used while a photo is pinned.
func (c PollingConfig) PinnedInterval() time.Duration {
	switch c.PinnedPolicy {
	case PinnedPolicyShort:
		return c.VideoActive
	case PinnedPolicyCustom:
		return c.PictureOnMonitor
	default:
		return c.VideoInactive
	}
}

// ViewState records whether the viewer shows a pinned still instead of live video.
type ViewState struct {
	PictureOnMonitor bool
}

// Viewer is the main display.
type Viewer struct {
	Source      string
	Unavailable bool  // placeholder indicator
	Token       int64 // last cache-busting token applied, 0 = none yet
}

// PhotoSlot is one fixed position in the still-photo grid.
type PhotoSlot struct {
	Index   int
	Visible bool
	Source  string
}

// Selectable reports whether the slot has ever loaded a photo. A hidden
// slot keeps its last source and can still be pinned.
func (s PhotoSlot) Selectable() bool { return s.Source != "" }

// SelectionKind distinguishes the live control from a thumbnail.
type SelectionKind string

const (
	SelectionLive  SelectionKind = "live"
	SelectionPhoto SelectionKind = "photo"
)

// Selection identifies the single highlighted element.
type Selection struct {
	Kind SelectionKind
	Slot int // meaningful only for SelectionPhoto
}

// LiveSelection is the selection of the live-view control.
func LiveSelection() Selection { return Selection{Kind: SelectionLive} }

// PhotoSelection is the selection of thumbnail i.
func PhotoSelection(i int) Selection { return Selection{Kind: SelectionPhoto, Slot: i} }

// DeviceStatus is the result of one pair of status queries.
type DeviceStatus struct {
	VideoOn        bool
	FrameAvailable bool
}

// Live reports whether a fresh frame should be shown.
func (s DeviceStatus) Live() bool { return s.VideoOn && s.FrameAvailable }

// Snapshot is a read-only copy of the panel state used by the state API.
type Snapshot struct {
	PictureOnMonitor bool          `json:"picture_on_monitor"`
	Viewer           ViewerJSON    `json:"viewer"`
	Selected         SelectionJSON `json:"selected"`
	Slots            []SlotJSON    `json:"slots"`
	LastStatus       StatusJSON    `json:"last_status"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type ViewerJSON struct {
	Source      string `json:"source"`
	Unavailable bool   `json:"unavailable"`
	Token       int64  `json:"token"`
}

type SelectionJSON struct {
	Kind SelectionKind `json:"kind"`
	Slot *int          `json:"slot,omitempty"`
}

type SlotJSON struct {
	Index   int    `json:"index"`
	Visible bool   `json:"visible"`
	Source  string `json:"source,omitempty"`
}

type StatusJSON struct {
	VideoOn        bool `json:"video_on"`
	FrameAvailable bool `json:"frame_available"`
}
